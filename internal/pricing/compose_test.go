package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricing-service/internal/entity"
	"pricing-service/internal/pricing"
)

func businessCardFormula() *entity.PricingFormula {
	return &entity.PricingFormula{
		ID:            1,
		Name:          "Business Card Formula",
		ProductType:   "business_card",
		Formula:       "basePrice * quantity * paperMultiplier * printSidesMultiplier * colorMultiplier + finishingCost * quantity",
		QuantityTiers: businessCardTiers(),
		PaperMultipliers: entity.PaperMultipliers{
			"standard": 1.0,
			"premium":  1.5,
			"recycled": 1.2,
		},
		FinishingCosts: entity.FinishingCosts{
			"lamination":    200,
			"uv_coating":    300,
			"embossing":     500,
			"foil_stamping": 800,
			"die_cutting":   400,
		},
		MinMargin: 15,
		IsActive:  true,
	}
}

func businessCardSpec() *entity.ProductSpecification {
	return &entity.ProductSpecification{
		ProductType:      "business_card",
		Size:             entity.Size{Width: 90, Height: 55, Unit: entity.UnitMillimeter},
		PaperType:        "standard",
		Quantity:         150,
		FinishingOptions: []string{"lamination"},
		PrintSides:       entity.PrintSidesSingle,
		Colors:           1,
	}
}

func TestCompose(t *testing.T) {
	spec := businessCardSpec()
	f := businessCardFormula()
	tier := &f.QuantityTiers[1]

	comp, err := pricing.Compose(spec, f, tier)
	require.NoError(t, err)

	assert.Equal(t, float64(800), comp.Bindings[pricing.BindingBasePrice])
	assert.Equal(t, float64(150), comp.Bindings[pricing.BindingQuantity])
	assert.Equal(t, 1.0, comp.Bindings[pricing.BindingPaperMultiplier])
	assert.Equal(t, 1.0, comp.Bindings[pricing.BindingPrintSidesMultiplier])
	assert.Equal(t, 1.0, comp.Bindings[pricing.BindingColorMultiplier])
	assert.Equal(t, float64(200), comp.Bindings[pricing.BindingFinishingCost])
	assert.Equal(t, float64(90), comp.Bindings[pricing.BindingWidth])
	assert.InDelta(t, 49.5, comp.Bindings[pricing.BindingArea], 1e-9)

	assert.Equal(t, map[string]float64{"lamination": 200}, comp.FinishingDetails)
}

func TestComposeUnknownPaperType(t *testing.T) {
	spec := businessCardSpec()
	spec.PaperType = "cardboard"
	f := businessCardFormula()

	_, err := pricing.Compose(spec, f, &f.QuantityTiers[0])
	require.Error(t, err)
	assert.ErrorIs(t, err, pricing.ErrUnknownPaperType)
	assert.Contains(t, err.Error(), "cardboard")
}

func TestComposeEmptyPaperMultipliersDefaultsToOne(t *testing.T) {
	spec := businessCardSpec()
	spec.PaperType = "anything"
	f := businessCardFormula()
	f.PaperMultipliers = entity.PaperMultipliers{}

	comp, err := pricing.Compose(spec, f, &f.QuantityTiers[0])
	require.NoError(t, err)
	assert.Equal(t, 1.0, comp.Bindings[pricing.BindingPaperMultiplier])
}

func TestComposeFinishingAdditivity(t *testing.T) {
	f := businessCardFormula()

	subsets := [][]string{
		{},
		{"lamination"},
		{"uv_coating"},
		{"lamination", "uv_coating"},
		{"lamination", "uv_coating", "embossing"},
		{"foil_stamping", "die_cutting"},
		{"lamination", "uv_coating", "embossing", "foil_stamping", "die_cutting"},
	}

	for _, options := range subsets {
		spec := businessCardSpec()
		spec.FinishingOptions = options

		comp, err := pricing.Compose(spec, f, &f.QuantityTiers[1])
		require.NoError(t, err)

		var wantSum float64
		for _, option := range options {
			wantSum += f.FinishingCosts[option]
		}

		var detailSum float64
		for _, cost := range comp.FinishingDetails {
			detailSum += cost
		}

		// Exact equality: details carry the raw configured per-unit costs.
		assert.Equal(t, wantSum, detailSum)
		assert.Equal(t, wantSum, comp.Bindings[pricing.BindingFinishingCost])
		assert.Len(t, comp.FinishingDetails, len(options))
	}
}

func TestComposeUnknownFinishingOptionCostsNothing(t *testing.T) {
	spec := businessCardSpec()
	spec.FinishingOptions = []string{"lamination", "glitter"}
	f := businessCardFormula()

	comp, err := pricing.Compose(spec, f, &f.QuantityTiers[1])
	require.NoError(t, err)
	assert.Equal(t, float64(200), comp.Bindings[pricing.BindingFinishingCost])
	assert.Equal(t, float64(0), comp.FinishingDetails["glitter"])
}

func TestPrintSidesMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, pricing.PrintSidesMultiplier(entity.PrintSidesSingle))
	assert.Equal(t, 1.8, pricing.PrintSidesMultiplier(entity.PrintSidesDouble))
}

func TestColorMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, pricing.ColorMultiplier(1))
	assert.InDelta(t, 1.1, pricing.ColorMultiplier(2), 1e-9)
	assert.InDelta(t, 1.3, pricing.ColorMultiplier(4), 1e-9)
}

func TestAreaCm2(t *testing.T) {
	assert.InDelta(t, 49.5, pricing.AreaCm2(entity.Size{Width: 90, Height: 55, Unit: entity.UnitMillimeter}), 1e-9)
	assert.InDelta(t, 50, pricing.AreaCm2(entity.Size{Width: 10, Height: 5, Unit: entity.UnitCentimeter}), 1e-9)
	assert.InDelta(t, 2.54*2.54*2, pricing.AreaCm2(entity.Size{Width: 1, Height: 2, Unit: entity.UnitInch}), 1e-9)
}

func TestBreakdownSumsToTotal(t *testing.T) {
	spec := businessCardSpec()
	spec.PaperType = "premium"
	spec.PrintSides = entity.PrintSidesDouble
	spec.Colors = 3
	spec.FinishingOptions = []string{"lamination", "uv_coating"}

	f := businessCardFormula()
	tier := &f.QuantityTiers[1]

	comp, err := pricing.Compose(spec, f, tier)
	require.NoError(t, err)

	// 800*150*1.5*1.8*1.2 + 500*150
	totalCost := 800.0*150*1.5*1.8*1.2 + 500.0*150
	breakdown := comp.Breakdown(totalCost)

	assert.Equal(t, totalCost, breakdown.TotalCost)
	assert.Equal(t, 800.0*150, breakdown.BaseCost)
	assert.InDelta(t, 800.0*150*0.5, breakdown.PaperCost, 1e-6)
	assert.Equal(t, 500.0*150, breakdown.FinishingCost)

	nonFinishing := breakdown.BaseCost + breakdown.PaperCost + breakdown.PrintingCost
	assert.InDelta(t, breakdown.TotalCost-breakdown.FinishingCost, nonFinishing, 1e-6)
}
