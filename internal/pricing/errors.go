package pricing

import "errors"

// Calculation failures. All are deterministic for a given specification and
// formula, so callers surface them instead of retrying.
var (
	ErrValidation           = errors.New("invalid product specification")
	ErrFormulaNotFound      = errors.New("no active pricing formula")
	ErrQuantityBelowMinimum = errors.New("quantity below minimum tier quantity")
	ErrNoTierMatch          = errors.New("no quantity tier matches quantity")
	ErrUnknownPaperType     = errors.New("unknown paper type")
)
