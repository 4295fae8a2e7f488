package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"pricing-service/internal/entity"
	"pricing-service/internal/formula"
	"pricing-service/internal/pricing"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// FormulaRepository is the persistence surface the service needs for
// pricing formulas.
type FormulaRepository interface {
	FindActiveByProductType(ctx context.Context, productType string) (*entity.PricingFormula, error)
	GetByID(ctx context.Context, id int) (*entity.PricingFormula, error)
	ListActive(ctx context.Context) ([]*entity.PricingFormula, error)
	Create(ctx context.Context, f *entity.PricingFormula) (*entity.PricingFormula, error)
	Update(ctx context.Context, f *entity.PricingFormula) (*entity.PricingFormula, error)
	Delete(ctx context.Context, id int) error
}

// FormulaCache caches active formulas per product type. Implementations
// must treat cache failures as misses; the calculation path falls back to
// the repository.
type FormulaCache interface {
	Get(ctx context.Context, productType string) (*entity.PricingFormula, bool)
	Set(ctx context.Context, f *entity.PricingFormula)
	Invalidate(ctx context.Context, productType string) error
}

// PricingService orchestrates price calculation and formula management.
// Calculations are stateless: nothing is mutated beyond the read-through
// formula cache, so concurrent calls never interfere.
type PricingService struct {
	formulaRepo FormulaRepository
	cache       FormulaCache
	kafkaWriter *kafka.Writer
}

// NewPricingService creates a new instance of PricingService. cache and
// kafkaWriter may be nil, which disables caching and event publishing.
func NewPricingService(formulaRepo FormulaRepository, cache FormulaCache, kafkaWriter *kafka.Writer) *PricingService {
	return &PricingService{
		formulaRepo: formulaRepo,
		cache:       cache,
		kafkaWriter: kafkaWriter,
	}
}

// CalculatePrice turns a product specification into a priced, auditable
// result using the active formula for its product type.
//
// The selling price policy is markup-to-minimum-margin: cost price inflated
// by the formula's minimum margin, rounded up to a whole currency unit.
func (s *PricingService) CalculatePrice(ctx context.Context, spec *entity.ProductSpecification) (*entity.PricingResult, error) {
	start := time.Now()

	if err := validateSpecification(spec); err != nil {
		return nil, err
	}

	f, err := s.lookupActiveFormula(ctx, spec.ProductType)
	if err != nil {
		return nil, err
	}

	tier, err := pricing.SelectTier(f.QuantityTiers, spec.Quantity)
	if err != nil {
		return nil, err
	}

	composition, err := pricing.Compose(spec, f, tier)
	if err != nil {
		return nil, err
	}

	total, err := formula.Evaluate(f.Formula, composition.Bindings)
	if err != nil {
		return nil, err
	}

	// Whole currency units. Rounding up keeps the margin on the safe side.
	costPrice := math.Ceil(total)
	sellingPrice := markupToMinimumMargin(costPrice, f.MinMargin)

	validation := pricing.ValidateMargin(costPrice, sellingPrice, f.MinMargin)

	result := &entity.PricingResult{
		CostPrice:        costPrice,
		SellingPrice:     sellingPrice,
		ProfitMargin:     sellingPrice - costPrice,
		MarginPercentage: validation.ActualMargin,
		Breakdown:        composition.Breakdown(costPrice),
		AppliedTier:      tier,
		FormulaID:        f.ID,
		FormulaName:      f.Name,
		CalculatedAt:     time.Now(),
		MarginWarning:    validation.Warning,
		WarningMessage:   validation.Message,
	}

	logger.Debug().
		Str("product_type", spec.ProductType).
		Int("quantity", spec.Quantity).
		Float64("cost_price", result.CostPrice).
		Dur("elapsed", time.Since(start)).
		Msg("Price calculated")

	return result, nil
}

// ValidateMargin checks a pricing result against a minimum margin
// percentage. The margin is always expressed relative to cost price.
func (s *PricingService) ValidateMargin(result *entity.PricingResult, minMargin float64) entity.MarginValidation {
	return pricing.ValidateMargin(result.CostPrice, result.SellingPrice, minMargin)
}

// GetQuantityTiers returns the tier list of the active formula for a
// product type, or an empty list when none is configured.
func (s *PricingService) GetQuantityTiers(ctx context.Context, productType string) ([]entity.QuantityTier, error) {
	f, err := s.lookupActiveFormula(ctx, productType)
	if err != nil {
		if errors.Is(err, pricing.ErrFormulaNotFound) {
			return []entity.QuantityTier{}, nil
		}
		return nil, err
	}
	return f.QuantityTiers, nil
}

// markupToMinimumMargin is the selling price policy: inflate the cost price
// to the formula's minimum margin and round up to a whole currency unit.
// Rounding up means the realized margin is never below the target.
func markupToMinimumMargin(costPrice, minMargin float64) float64 {
	return math.Ceil(costPrice * (1 + minMargin/100))
}

func validateSpecification(spec *entity.ProductSpecification) error {
	if spec == nil {
		return fmt.Errorf("%w: specification is required", pricing.ErrValidation)
	}
	if spec.ProductType == "" {
		return fmt.Errorf("%w: product type is required", pricing.ErrValidation)
	}
	if spec.Size.Width <= 0 || spec.Size.Height <= 0 {
		return fmt.Errorf("%w: size must be positive", pricing.ErrValidation)
	}
	if spec.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", pricing.ErrValidation)
	}
	if spec.PaperType == "" {
		return fmt.Errorf("%w: paper type is required", pricing.ErrValidation)
	}
	if spec.PrintSides != entity.PrintSidesSingle && spec.PrintSides != entity.PrintSidesDouble {
		return fmt.Errorf("%w: print sides must be %q or %q", pricing.ErrValidation, entity.PrintSidesSingle, entity.PrintSidesDouble)
	}
	if spec.Colors < 1 {
		return fmt.Errorf("%w: colors must be at least 1", pricing.ErrValidation)
	}
	return nil
}

// lookupActiveFormula reads through the cache to the repository.
func (s *PricingService) lookupActiveFormula(ctx context.Context, productType string) (*entity.PricingFormula, error) {
	if s.cache != nil {
		if f, ok := s.cache.Get(ctx, productType); ok {
			return f, nil
		}
	}

	f, err := s.formulaRepo.FindActiveByProductType(ctx, productType)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, f)
	}
	return f, nil
}
