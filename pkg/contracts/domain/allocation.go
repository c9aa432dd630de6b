package domain

// AllocationLine is a product submitted for allocation. Quantity and Total
// are optional; a line missing either one is left out of the pro-ration.
type AllocationLine struct {
	Name     string   `json:"name"`
	Brand    string   `json:"brand"`
	Quantity *float64 `json:"quantity,omitempty"`
	UnitCost float64  `json:"unit_cost"`
	Total    *float64 `json:"total,omitempty"`
}

// AllocationRow is one product's share of the landed cost
type AllocationRow struct {
	Name             string  `json:"name"`
	Brand            string  `json:"brand"`
	Quantity         float64 `json:"quantity"`
	UnitCostOriginal float64 `json:"unit_cost_original"`
	ValueOriginal    float64 `json:"value_original"`
	Participation    float64 `json:"participation"`
	AllocatedCost    float64 `json:"allocated_cost"`
	UnitCostFinal    float64 `json:"unit_cost_final"`
}

// CostLine is the evaluated contribution of a single active cost item
type CostLine struct {
	Category   CostCategory `json:"category"`
	Name       string       `json:"name"`
	Percentage float64      `json:"percentage,omitempty"`
	Value      float64      `json:"value"`
}

// AllocationResult is the full landed-cost computation for one request.
// Monetary fields are rounded to two decimals.
type AllocationResult struct {
	ProductsSubtotal    float64         `json:"total_products"`
	FreightValue        float64         `json:"freight_value"`
	InsurancePercentage float64         `json:"insurance_percentage"`
	InsuranceValue      float64         `json:"insurance_value"`
	CIFValue            float64         `json:"cif_value"`
	TotalFixed          float64         `json:"total_fixed"`
	TotalVariable       float64         `json:"total_variable"`
	TotalTaxes          float64         `json:"total_taxes"`
	TotalCost           float64         `json:"total_cost"`
	CostLines           []CostLine      `json:"cost_lines"`
	Rows                []AllocationRow `json:"rateio"`
	SkippedProducts     int             `json:"skipped_products,omitempty"`
}
