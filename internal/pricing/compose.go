package pricing

import (
	"fmt"

	"pricing-service/internal/entity"
)

// Binding names the formula evaluator understands.
const (
	BindingBasePrice            = "basePrice"
	BindingQuantity             = "quantity"
	BindingWidth                = "width"
	BindingHeight               = "height"
	BindingArea                 = "area"
	BindingPaperMultiplier      = "paperMultiplier"
	BindingPrintSidesMultiplier = "printSidesMultiplier"
	BindingColorMultiplier      = "colorMultiplier"
	BindingFinishingCost        = "finishingCost"
)

// SupportedBindings returns every variable name a formula may reference.
// Formula-save validation rejects formulas referencing anything else.
func SupportedBindings() []string {
	return []string{
		BindingBasePrice,
		BindingQuantity,
		BindingWidth,
		BindingHeight,
		BindingArea,
		BindingPaperMultiplier,
		BindingPrintSidesMultiplier,
		BindingColorMultiplier,
		BindingFinishingCost,
	}
}

// PrintSidesMultiplier is the print-sides surcharge policy: double-sided
// printing costs 1.8x single-sided.
func PrintSidesMultiplier(printSides string) float64 {
	if printSides == entity.PrintSidesDouble {
		return 1.8
	}
	return 1.0
}

// ColorMultiplier is the color surcharge policy: each color beyond the
// first adds 10% to the printing cost.
func ColorMultiplier(colors int) float64 {
	return 1.0 + float64(colors-1)*0.1
}

// AreaCm2 converts a size to its area in square centimeters.
func AreaCm2(size entity.Size) float64 {
	width, height := size.Width, size.Height
	switch size.Unit {
	case entity.UnitMillimeter:
		width /= 10
		height /= 10
	case entity.UnitInch:
		width *= 2.54
		height *= 2.54
	}
	return width * height
}

// Composition holds the variable bindings fed to the formula evaluator and
// the per-unit finishing cost of every selected option.
type Composition struct {
	Bindings         map[string]float64
	FinishingDetails map[string]float64
}

// Compose derives the formula bindings for one calculation.
//
// The paper multiplier lookup is strict: a paper type missing from a
// non-empty multiplier map is a configuration error. The finishingCost
// binding is the per-unit sum over the selected options; the formula decides
// how to scale it (the stock formulas multiply it by quantity).
func Compose(spec *entity.ProductSpecification, f *entity.PricingFormula, tier *entity.QuantityTier) (*Composition, error) {
	paperMultiplier := 1.0
	if len(f.PaperMultipliers) > 0 {
		m, ok := f.PaperMultipliers[spec.PaperType]
		if !ok {
			return nil, fmt.Errorf("%w: %q has no multiplier configured", ErrUnknownPaperType, spec.PaperType)
		}
		paperMultiplier = m
	}

	finishingDetails := make(map[string]float64, len(spec.FinishingOptions))
	finishingPerUnit := 0.0
	for _, option := range spec.FinishingOptions {
		cost := f.FinishingCosts[option]
		finishingDetails[option] = cost
		finishingPerUnit += cost
	}

	bindings := map[string]float64{
		BindingBasePrice:            tier.PricePerUnit,
		BindingQuantity:             float64(spec.Quantity),
		BindingWidth:                spec.Size.Width,
		BindingHeight:               spec.Size.Height,
		BindingArea:                 AreaCm2(spec.Size),
		BindingPaperMultiplier:      paperMultiplier,
		BindingPrintSidesMultiplier: PrintSidesMultiplier(spec.PrintSides),
		BindingColorMultiplier:      ColorMultiplier(spec.Colors),
		BindingFinishingCost:        finishingPerUnit,
	}

	return &Composition{
		Bindings:         bindings,
		FinishingDetails: finishingDetails,
	}, nil
}

// Breakdown decomposes totalCost into base, paper, printing and finishing
// components. BaseCost is the raw tier cost, PaperCost the increment added
// by the paper multiplier, and PrintingCost the remainder of the
// non-finishing portion, so the three always sum to TotalCost minus
// FinishingCost exactly.
func (c *Composition) Breakdown(totalCost float64) entity.CostBreakdown {
	quantity := c.Bindings[BindingQuantity]
	basePrice := c.Bindings[BindingBasePrice]

	baseCost := basePrice * quantity
	paperCost := baseCost * (c.Bindings[BindingPaperMultiplier] - 1)
	finishingCost := c.Bindings[BindingFinishingCost] * quantity
	printingCost := totalCost - finishingCost - baseCost - paperCost

	return entity.CostBreakdown{
		BaseCost:         baseCost,
		PaperCost:        paperCost,
		PrintingCost:     printingCost,
		FinishingCost:    finishingCost,
		FinishingDetails: c.FinishingDetails,
		TotalCost:        totalCost,
	}
}
