package domain

// Product field limits shared by every ingestion path
const (
	NameMinLength  = 2
	NameMaxLength  = 200
	BrandMaxLength = 100
	MaxQuantity    = 1_000_000
	MaxUnitCost    = 1_000_000
)

// Product is the canonical product line produced by ingestion or manual entry
type Product struct {
	Name     string  `json:"name" validate:"required,min=2,max=200"`
	Brand    string  `json:"brand" validate:"max=100"`
	Quantity float64 `json:"quantity" validate:"gt=0,lte=1000000"`
	UnitCost float64 `json:"unit_cost" validate:"gt=0,lte=1000000"`
	Total    float64 `json:"total"`
}

// ProductSummary aggregates a validated product list
type ProductSummary struct {
	TotalProducts int     `json:"total_products"`
	TotalValue    float64 `json:"total_value"`
	AveragePrice  float64 `json:"average_price,omitempty"`
	Currency      string  `json:"currency"`
}
