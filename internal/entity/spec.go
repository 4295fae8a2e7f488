package entity

// Print side options.
const (
	PrintSidesSingle = "single"
	PrintSidesDouble = "double"
)

// Size units accepted in a product specification.
const (
	UnitMillimeter = "mm"
	UnitCentimeter = "cm"
	UnitInch       = "inch"
)

// Size is the physical dimensions of the requested product.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

// ProductSpecification is the caller-supplied input to a price calculation.
// It only lives for the duration of one call.
type ProductSpecification struct {
	ProductType      string   `json:"product_type"`
	Size             Size     `json:"size"`
	PaperType        string   `json:"paper_type"`
	Quantity         int      `json:"quantity"`
	FinishingOptions []string `json:"finishing_options"`
	PrintSides       string   `json:"print_sides"`
	Colors           int      `json:"colors"`
}
