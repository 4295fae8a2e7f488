package entity

import "time"

// CostBreakdown decomposes the calculated total cost for auditability.
//
// BaseCost, PaperCost and PrintingCost together account for the
// non-finishing portion of TotalCost. FinishingCost is the quantity-scaled
// amount of TotalCost attributable to finishing, while FinishingDetails maps
// every selected option to its configured per-unit cost, so its values sum
// to the per-unit finishing rate rather than to FinishingCost.
type CostBreakdown struct {
	BaseCost         float64            `json:"base_cost"`
	PaperCost        float64            `json:"paper_cost"`
	PrintingCost     float64            `json:"printing_cost"`
	FinishingCost    float64            `json:"finishing_cost"`
	FinishingDetails map[string]float64 `json:"finishing_details"`
	TotalCost        float64            `json:"total_cost"`
}

// PricingResult is the complete output of one price calculation. It is
// either fully assembled or never returned at all.
type PricingResult struct {
	CostPrice        float64       `json:"cost_price"`
	SellingPrice     float64       `json:"selling_price"`
	ProfitMargin     float64       `json:"profit_margin"`
	MarginPercentage float64       `json:"margin_percentage"`
	Breakdown        CostBreakdown `json:"breakdown"`
	AppliedTier      *QuantityTier `json:"applied_tier,omitempty"`
	FormulaID        int           `json:"formula_id"`
	FormulaName      string        `json:"formula_name"`
	CalculatedAt     time.Time     `json:"calculated_at"`
	MarginWarning    bool          `json:"margin_warning"`
	WarningMessage   string        `json:"warning_message,omitempty"`
}

// MarginValidation is the verdict of checking a result against the
// configured minimum margin. ActualMargin and MinMargin are percentages of
// cost price.
type MarginValidation struct {
	IsValid      bool    `json:"is_valid"`
	ActualMargin float64 `json:"actual_margin"`
	MinMargin    float64 `json:"min_margin"`
	Warning      bool    `json:"warning"`
	Message      string  `json:"message,omitempty"`
}
