package pricing

import (
	"fmt"
	"sort"

	"pricing-service/internal/entity"
)

// SelectTier returns the tier whose quantity range contains quantity.
// Quantities above the highest tier's MaxQuantity fall into the highest tier
// (the top tier is open-ended); quantities below the lowest tier's
// MinQuantity are rejected. Tier ranges are validated at formula-save time,
// so a gap between tiers is an authoring defect and reported as no match.
func SelectTier(tiers []entity.QuantityTier, quantity int) (*entity.QuantityTier, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: formula has no quantity tiers", ErrNoTierMatch)
	}

	sorted := make([]entity.QuantityTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinQuantity < sorted[j].MinQuantity
	})

	if quantity < sorted[0].MinQuantity {
		return nil, fmt.Errorf("%w: quantity %d is below minimum %d", ErrQuantityBelowMinimum, quantity, sorted[0].MinQuantity)
	}

	for i := range sorted {
		if quantity >= sorted[i].MinQuantity && quantity <= sorted[i].MaxQuantity {
			tier := sorted[i]
			return &tier, nil
		}
	}

	top := sorted[len(sorted)-1]
	if quantity > top.MaxQuantity {
		return &top, nil
	}

	return nil, fmt.Errorf("%w: quantity %d falls in a gap between tiers", ErrNoTierMatch, quantity)
}
