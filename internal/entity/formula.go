package entity

import "time"

// QuantityTier is one quantity range of a pricing formula. PricePerUnit is
// the base unit price while the quantity falls inside [MinQuantity,
// MaxQuantity]. DiscountPercent is the advertised discount relative to the
// first tier; the discounted price is already baked into PricePerUnit, so it
// is display metadata and never applied a second time during calculation.
type QuantityTier struct {
	MinQuantity     int     `json:"min_quantity"`
	MaxQuantity     int     `json:"max_quantity"`
	PricePerUnit    float64 `json:"price_per_unit"`
	DiscountPercent float64 `json:"discount_percent"`
}

// PaperMultipliers maps a paper type key to its cost multiplier.
// An empty map means every paper type prices at 1.0; a non-empty map is
// strict and rejects unknown keys.
type PaperMultipliers map[string]float64

// FinishingCosts maps a finishing option key to its per-unit cost.
// Options absent from the map cost nothing.
type FinishingCosts map[string]float64

// PricingFormula is the admin-authored pricing definition for one product
// type. The formula string is data, not code: it is evaluated by a
// restricted arithmetic evaluator and can only reference the bindings the
// engine supplies.
type PricingFormula struct {
	ID               int              `json:"id"`
	Name             string           `json:"name"`
	ProductType      string           `json:"product_type"`
	Formula          string           `json:"formula"`
	QuantityTiers    []QuantityTier   `json:"quantity_tiers"`
	PaperMultipliers PaperMultipliers `json:"paper_multipliers"`
	FinishingCosts   FinishingCosts   `json:"finishing_costs"`
	MinMargin        float64          `json:"min_margin"`
	IsActive         bool             `json:"is_active"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

/*
Schema MySQL for pricing_formulas table:
CREATE TABLE `pricing_formulas` (
  `id` int(11) NOT NULL AUTO_INCREMENT,
  `name` varchar(255) NOT NULL,
  `product_type` varchar(100) NOT NULL,
  `formula` text NOT NULL,
  `quantity_tiers` json NOT NULL,
  `paper_multipliers` json NOT NULL,
  `finishing_costs` json NOT NULL,
  `min_margin` double NOT NULL,
  `is_active` tinyint(1) NOT NULL DEFAULT 1,
  `created_at` timestamp NOT NULL DEFAULT CURRENT_TIMESTAMP,
  `updated_at` timestamp NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  PRIMARY KEY (`id`),
  KEY `idx_product_type_active` (`product_type`, `is_active`)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
*/
