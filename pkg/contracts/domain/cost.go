package domain

// CostKind selects how a cost item value is interpreted
type CostKind string

const (
	CostKindPercentage CostKind = "percentage"
	CostKindFixed      CostKind = "fixed"
)

// CostBase selects the base a percentage cost item is applied to
type CostBase string

const (
	CostBaseCIF      CostBase = "CIF"
	CostBaseSubtotal CostBase = "products_subtotal"
)

// CostItem is a fixed cost, variable cost or tax line. The three
// collections share this shape; inactive items contribute nothing.
type CostItem struct {
	Name   string   `json:"name"`
	Active bool     `json:"active"`
	Kind   CostKind `json:"kind"`
	Base   CostBase `json:"base"`
	Value  float64  `json:"value"`
}

// CostCategory names one of the three cost collections
type CostCategory string

const (
	CostCategoryFixed    CostCategory = "fixed"
	CostCategoryVariable CostCategory = "variable"
	CostCategoryTax      CostCategory = "tax"
)
