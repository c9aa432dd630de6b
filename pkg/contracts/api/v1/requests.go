// Package api contains the HTTP request and response contracts.
// Version v1 represents the current stable API version.
package api

import (
	"fmt"
	"strings"

	"landedcost/pkg/contracts/domain"
)

// Wire values of CostItemRequest.Tipo and Base
const (
	WireKindPercentage = "porcentaje"
	WireBaseCIF        = "CIF"
)

// Manual entry

// ManualEntryRequest submits products typed in by hand
type ManualEntryRequest struct {
	Products []ManualProduct `json:"products" validate:"required,min=1"`
}

// ManualProduct uses the front-end field names
type ManualProduct struct {
	Produto         string `json:"produto"`
	Marca           string `json:"marca"`
	Quantidade      Number `json:"quantidade"`
	ValorFornecedor Number `json:"valorFornecedor"`
}

// ToDomain translates p into a product. The result is not validated and
// Total is left to the validator.
func (p ManualProduct) ToDomain(parse ParseFunc) (domain.Product, error) {
	quantity, err := parseField("quantidade", p.Quantidade, parse)
	if err != nil {
		return domain.Product{}, err
	}
	unitCost, err := parseField("valorFornecedor", p.ValorFornecedor, parse)
	if err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		Name:     p.Produto,
		Brand:    p.Marca,
		Quantity: quantity,
		UnitCost: unitCost,
	}, nil
}

// Allocation

// AllocationRequest asks for a landed-cost calculation
type AllocationRequest struct {
	Products            []AllocationProduct `json:"products" validate:"required,min=1"`
	FixedCosts          []CostItemRequest   `json:"fixedCosts"`
	VariableCosts       []CostItemRequest   `json:"variableCosts"`
	Taxes               []CostItemRequest   `json:"taxes"`
	FreightValue        Number              `json:"freightValue"`
	InsurancePercentage Number              `json:"insurancePercentage"`
	Filename            string              `json:"filename,omitempty" validate:"omitempty,filename"`
}

// AllocationProduct accepts either the canonical names (name, brand,
// quantity, unit_cost) or the front-end names (produto, marca, quantidade,
// valorFornecedor). Canonical names win when both are present.
type AllocationProduct struct {
	Name            string `json:"name"`
	Produto         string `json:"produto"`
	Brand           string `json:"brand"`
	Marca           string `json:"marca"`
	Quantity        Number `json:"quantity"`
	Quantidade      Number `json:"quantidade"`
	UnitCost        Number `json:"unit_cost"`
	ValorFornecedor Number `json:"valorFornecedor"`
	Total           Number `json:"total"`
}

// ToDomain translates p into an allocation line. Quantity and Total stay
// nil when absent.
func (p AllocationProduct) ToDomain(parse ParseFunc) (domain.AllocationLine, error) {
	line := domain.AllocationLine{
		Name:  firstNonEmpty(p.Name, p.Produto),
		Brand: firstNonEmpty(p.Brand, p.Marca),
	}

	var err error
	if p.Quantity.IsSet() {
		line.Quantity, err = parseOptionalField("quantity", p.Quantity, parse)
	} else {
		line.Quantity, err = parseOptionalField("quantidade", p.Quantidade, parse)
	}
	if err != nil {
		return domain.AllocationLine{}, err
	}

	if p.UnitCost.IsSet() {
		line.UnitCost, err = parseField("unit_cost", p.UnitCost, parse)
	} else {
		line.UnitCost, err = parseField("valorFornecedor", p.ValorFornecedor, parse)
	}
	if err != nil {
		return domain.AllocationLine{}, err
	}

	if line.Total, err = parseOptionalField("total", p.Total, parse); err != nil {
		return domain.AllocationLine{}, err
	}
	return line, nil
}

// CostItemRequest is a cost item in the front-end shape. The name may
// come as descripcion, nombre or name and the flag as activo or active.
type CostItemRequest struct {
	Descripcion string `json:"descripcion"`
	Nombre      string `json:"nombre"`
	Name        string `json:"name"`
	Activo      *bool  `json:"activo"`
	Active      *bool  `json:"active"`
	Tipo        string `json:"tipo"`
	Base        string `json:"base"`
	Valor       Number `json:"valor"`
	Value       Number `json:"value"`
}

// ToDomain translates c. Missing activo/active means inactive, tipo
// porcentaje means percentage and anything else fixed, base CIF means
// CIF and anything else the products subtotal.
func (c CostItemRequest) ToDomain(parse ParseFunc) (domain.CostItem, error) {
	item := domain.CostItem{
		Name: firstNonEmpty(c.Descripcion, c.Nombre, c.Name),
		Kind: domain.CostKindFixed,
		Base: domain.CostBaseSubtotal,
	}

	switch {
	case c.Activo != nil:
		item.Active = *c.Activo
	case c.Active != nil:
		item.Active = *c.Active
	}
	if strings.EqualFold(strings.TrimSpace(c.Tipo), WireKindPercentage) {
		item.Kind = domain.CostKindPercentage
	}
	if strings.TrimSpace(c.Base) == WireBaseCIF {
		item.Base = domain.CostBaseCIF
	}

	var err error
	if c.Valor.IsSet() {
		item.Value, err = parseField("valor", c.Valor, parse)
	} else {
		item.Value, err = parseField("value", c.Value, parse)
	}
	if err != nil {
		return domain.CostItem{}, err
	}
	return item, nil
}

// CostItems translates a collection, prefixing field errors with the
// collection name and index.
func CostItems(collection string, items []CostItemRequest, parse ParseFunc) ([]domain.CostItem, error) {
	out := make([]domain.CostItem, 0, len(items))
	for i, c := range items {
		item, err := c.ToDomain(parse)
		if err != nil {
			if fe, ok := err.(*FieldError); ok {
				fe.Field = fmt.Sprintf("%s[%d].%s", collection, i, fe.Field)
			}
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
