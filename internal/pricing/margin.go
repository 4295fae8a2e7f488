package pricing

import (
	"fmt"
	"math"

	"pricing-service/internal/entity"
)

// ValidateMargin checks the profit margin of a priced result against the
// configured minimum. The margin percentage is always expressed relative to
// cost price, rounded to two decimals. A margin exactly at the minimum
// passes; only a margin strictly below it warns.
func ValidateMargin(costPrice, sellingPrice, minMargin float64) entity.MarginValidation {
	profit := sellingPrice - costPrice
	actualMargin := math.Round(profit/costPrice*100*100) / 100

	warning := actualMargin < minMargin
	validation := entity.MarginValidation{
		IsValid:      !warning,
		ActualMargin: actualMargin,
		MinMargin:    minMargin,
		Warning:      warning,
	}
	if warning {
		validation.Message = fmt.Sprintf("profit margin %.2f%% is below the minimum of %.2f%%", actualMargin, minMargin)
	}
	return validation
}
