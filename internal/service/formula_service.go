package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/segmentio/kafka-go"

	"pricing-service/internal/entity"
	"pricing-service/internal/formula"
	"pricing-service/internal/pricing"
)

// CreateFormula validates and persists a new pricing formula, then
// invalidates the cache and publishes a formula event.
func (s *PricingService) CreateFormula(ctx context.Context, f *entity.PricingFormula) (*entity.PricingFormula, error) {
	if err := validateFormulaDefinition(f); err != nil {
		return nil, err
	}

	created, err := s.formulaRepo.Create(ctx, f)
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating formula for product type %s", f.ProductType)
		return nil, err
	}

	s.afterFormulaWrite(ctx, "updated", created)
	return created, nil
}

// UpdateFormula validates and replaces an existing pricing formula.
func (s *PricingService) UpdateFormula(ctx context.Context, f *entity.PricingFormula) (*entity.PricingFormula, error) {
	if err := validateFormulaDefinition(f); err != nil {
		return nil, err
	}

	updated, err := s.formulaRepo.Update(ctx, f)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating formula %d", f.ID)
		return nil, err
	}

	s.afterFormulaWrite(ctx, "updated", updated)
	return updated, nil
}

// DeleteFormula removes a pricing formula.
func (s *PricingService) DeleteFormula(ctx context.Context, id int) error {
	f, err := s.formulaRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.formulaRepo.Delete(ctx, id); err != nil {
		logger.Error().Err(err).Msgf("Error deleting formula %d", id)
		return err
	}

	s.afterFormulaWrite(ctx, "deleted", f)
	return nil
}

// GetFormula fetches one pricing formula by ID.
func (s *PricingService) GetFormula(ctx context.Context, id int) (*entity.PricingFormula, error) {
	return s.formulaRepo.GetByID(ctx, id)
}

// ListActiveFormulas fetches every active pricing formula.
func (s *PricingService) ListActiveFormulas(ctx context.Context) ([]*entity.PricingFormula, error) {
	return s.formulaRepo.ListActive(ctx)
}

// formulaEvent is the payload published to the formula topic after admin
// writes. Consumers only need the product type to invalidate their caches.
type formulaEvent struct {
	FormulaID   int    `json:"formula_id"`
	ProductType string `json:"product_type"`
	Action      string `json:"action"`
}

// afterFormulaWrite invalidates the local cache and notifies other
// instances. Both effects are best-effort: cache entries expire on their TTL
// anyway, so a failed invalidation only extends staleness.
func (s *PricingService) afterFormulaWrite(ctx context.Context, action string, f *entity.PricingFormula) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, f.ProductType); err != nil {
			logger.Warn().Err(err).Msgf("Error invalidating cached formula for product type %s", f.ProductType)
		}
	}

	if s.kafkaWriter == nil {
		return
	}

	payload, err := json.Marshal(formulaEvent{FormulaID: f.ID, ProductType: f.ProductType, Action: action})
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling formula event for formula %d", f.ID)
		return
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("formula.%s.%s", action, f.ProductType)),
		Value: payload,
	}
	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Warn().Err(err).Msgf("Error publishing formula event for product type %s", f.ProductType)
	}
}

// validateFormulaDefinition enforces the authoring contract at save time so
// calculation-time failures stay rare: the expression must parse and only
// reference supported bindings, and the tiers must be contiguous,
// non-overlapping and non-increasing in per-unit price.
func validateFormulaDefinition(f *entity.PricingFormula) error {
	if f == nil {
		return fmt.Errorf("%w: formula is required", pricing.ErrValidation)
	}
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", pricing.ErrValidation)
	}
	if f.ProductType == "" {
		return fmt.Errorf("%w: product type is required", pricing.ErrValidation)
	}
	if f.MinMargin < 0 {
		return fmt.Errorf("%w: minimum margin cannot be negative", pricing.ErrValidation)
	}

	names, err := formula.Variables(f.Formula)
	if err != nil {
		return err
	}
	supported := map[string]bool{}
	for _, name := range pricing.SupportedBindings() {
		supported[name] = true
	}
	for _, name := range names {
		if !supported[name] {
			return fmt.Errorf("%w: formula references unsupported variable %q", pricing.ErrValidation, name)
		}
	}

	if err := validateTiers(f.QuantityTiers); err != nil {
		return err
	}

	for paperType, multiplier := range f.PaperMultipliers {
		if multiplier <= 0 {
			return fmt.Errorf("%w: paper multiplier for %q must be positive", pricing.ErrValidation, paperType)
		}
	}
	for option, cost := range f.FinishingCosts {
		if cost < 0 {
			return fmt.Errorf("%w: finishing cost for %q cannot be negative", pricing.ErrValidation, option)
		}
	}
	return nil
}

func validateTiers(tiers []entity.QuantityTier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("%w: at least one quantity tier is required", pricing.ErrValidation)
	}

	sorted := make([]entity.QuantityTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinQuantity < sorted[j].MinQuantity
	})

	for i, tier := range sorted {
		if tier.MinQuantity < 1 {
			return fmt.Errorf("%w: tier minimum quantity must be at least 1", pricing.ErrValidation)
		}
		if tier.MaxQuantity < tier.MinQuantity {
			return fmt.Errorf("%w: tier range %d-%d is inverted", pricing.ErrValidation, tier.MinQuantity, tier.MaxQuantity)
		}
		if tier.PricePerUnit <= 0 {
			return fmt.Errorf("%w: tier price per unit must be positive", pricing.ErrValidation)
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if tier.MinQuantity != prev.MaxQuantity+1 {
			return fmt.Errorf("%w: tier starting at %d does not follow tier ending at %d", pricing.ErrValidation, tier.MinQuantity, prev.MaxQuantity)
		}
		if tier.PricePerUnit > prev.PricePerUnit {
			return fmt.Errorf("%w: per-unit price must not increase with quantity", pricing.ErrValidation)
		}
	}
	return nil
}
