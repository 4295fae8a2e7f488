package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pricing-service/internal/entity"
	"pricing-service/internal/pricing"
)

// FormulaRepository handles the interactions with the pricing formulas database.
type FormulaRepository struct {
	db *sql.DB
}

// NewFormulaRepository creates a new instance of FormulaRepository.
func NewFormulaRepository(db *sql.DB) *FormulaRepository {
	return &FormulaRepository{db}
}

// Create inserts a new pricing formula and returns it with its assigned ID.
func (r *FormulaRepository) Create(ctx context.Context, f *entity.PricingFormula) (*entity.PricingFormula, error) {
	tiers, multipliers, finishing, err := marshalFormulaColumns(f)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO pricing_formulas (name, product_type, formula, quantity_tiers, paper_multipliers, finishing_costs, min_margin, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, f.Name, f.ProductType, f.Formula, tiers, multipliers, finishing, f.MinMargin, f.IsActive)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, int(id))
}

// Update replaces an existing pricing formula.
func (r *FormulaRepository) Update(ctx context.Context, f *entity.PricingFormula) (*entity.PricingFormula, error) {
	tiers, multipliers, finishing, err := marshalFormulaColumns(f)
	if err != nil {
		return nil, err
	}

	query := `UPDATE pricing_formulas SET name = ?, product_type = ?, formula = ?, quantity_tiers = ?, paper_multipliers = ?, finishing_costs = ?, min_margin = ?, is_active = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, f.Name, f.ProductType, f.Formula, tiers, multipliers, finishing, f.MinMargin, f.IsActive, f.ID)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: formula %d does not exist", pricing.ErrFormulaNotFound, f.ID)
	}
	return r.GetByID(ctx, f.ID)
}

// Delete removes a pricing formula.
func (r *FormulaRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM pricing_formulas WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: formula %d does not exist", pricing.ErrFormulaNotFound, id)
	}
	return nil
}

// GetByID fetches one pricing formula by primary key.
func (r *FormulaRepository) GetByID(ctx context.Context, id int) (*entity.PricingFormula, error) {
	query := selectColumns + ` WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	f, err := scanFormula(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: formula %d does not exist", pricing.ErrFormulaNotFound, id)
		}
		return nil, err
	}
	return f, nil
}

// FindActiveByProductType fetches the active pricing formula for a product
// type. At most one formula per product type should be active; the most
// recently updated one wins if the data violates that.
func (r *FormulaRepository) FindActiveByProductType(ctx context.Context, productType string) (*entity.PricingFormula, error) {
	query := selectColumns + ` WHERE product_type = ? AND is_active = TRUE ORDER BY updated_at DESC LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, productType)

	f, err := scanFormula(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product type %q", pricing.ErrFormulaNotFound, productType)
		}
		return nil, err
	}
	return f, nil
}

// ListActive fetches every active pricing formula.
func (r *FormulaRepository) ListActive(ctx context.Context) ([]*entity.PricingFormula, error) {
	query := selectColumns + ` WHERE is_active = TRUE ORDER BY product_type`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var formulas []*entity.PricingFormula
	for rows.Next() {
		f, err := scanFormula(rows)
		if err != nil {
			return nil, err
		}
		formulas = append(formulas, f)
	}
	return formulas, rows.Err()
}

const selectColumns = `SELECT id, name, product_type, formula, quantity_tiers, paper_multipliers, finishing_costs, min_margin, is_active, created_at, updated_at FROM pricing_formulas`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFormula(row rowScanner) (*entity.PricingFormula, error) {
	var f entity.PricingFormula
	var tiers, multipliers, finishing []byte

	err := row.Scan(&f.ID, &f.Name, &f.ProductType, &f.Formula, &tiers, &multipliers, &finishing, &f.MinMargin, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tiers, &f.QuantityTiers); err != nil {
		return nil, fmt.Errorf("could not unmarshal quantity tiers for formula %d: %w", f.ID, err)
	}
	if err := json.Unmarshal(multipliers, &f.PaperMultipliers); err != nil {
		return nil, fmt.Errorf("could not unmarshal paper multipliers for formula %d: %w", f.ID, err)
	}
	if err := json.Unmarshal(finishing, &f.FinishingCosts); err != nil {
		return nil, fmt.Errorf("could not unmarshal finishing costs for formula %d: %w", f.ID, err)
	}
	return &f, nil
}

func marshalFormulaColumns(f *entity.PricingFormula) (tiers, multipliers, finishing []byte, err error) {
	if tiers, err = json.Marshal(f.QuantityTiers); err != nil {
		return nil, nil, nil, err
	}
	if f.PaperMultipliers == nil {
		f.PaperMultipliers = entity.PaperMultipliers{}
	}
	if multipliers, err = json.Marshal(f.PaperMultipliers); err != nil {
		return nil, nil, nil, err
	}
	if f.FinishingCosts == nil {
		f.FinishingCosts = entity.FinishingCosts{}
	}
	if finishing, err = json.Marshal(f.FinishingCosts); err != nil {
		return nil, nil, nil, err
	}
	return tiers, multipliers, finishing, nil
}
