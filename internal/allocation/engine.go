// Package allocation computes landed cost and pro-rates it across products
// by their share of the goods subtotal.
//
// All arithmetic is carried out on shopspring/decimal values; results are
// rounded to two decimals only when written to the domain result.
package allocation

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/shopspring/decimal"

	"landedcost/internal/numeric"
	"landedcost/pkg/contracts/domain"
)

var hundred = decimal.NewFromInt(100)

// Line is a product submitted for allocation.
type Line = domain.AllocationLine

// LinesFromProducts converts validated products into allocation lines.
func LinesFromProducts(products []domain.Product) []Line {
	lines := make([]Line, len(products))
	for i, p := range products {
		q, t := p.Quantity, p.Total
		lines[i] = Line{Name: p.Name, Brand: p.Brand, Quantity: &q, UnitCost: p.UnitCost, Total: &t}
	}
	return lines
}

// Input is one allocation request.
type Input struct {
	Products            []Line
	FixedCosts          []domain.CostItem
	VariableCosts       []domain.CostItem
	Taxes               []domain.CostItem
	Freight             float64
	InsurancePercentage float64
}

// Options bound the engine.
type Options struct {
	// MaxProducts rejects larger requests; zero means unlimited.
	MaxProducts int
}

// Engine is stateless and safe for concurrent use.
type Engine struct {
	opts   Options
	logger *slog.Logger
}

// NewEngine creates an allocation engine.
func NewEngine(opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		opts:   opts,
		logger: logger.With(slog.String("component", "allocation")),
	}
}

// Allocate computes the landed cost of in and each product's share of it.
func (e *Engine) Allocate(in Input) (domain.AllocationResult, error) {
	if err := e.validate(in); err != nil {
		return domain.AllocationResult{}, err
	}

	type share struct {
		line     Line
		quantity decimal.Decimal
		value    decimal.Decimal
	}

	shares := make([]share, 0, len(in.Products))
	skipped := 0
	subtotal := decimal.Zero
	for _, l := range in.Products {
		if l.Quantity == nil || l.Total == nil {
			skipped++
			continue
		}
		s := share{
			line:     l,
			quantity: decimal.NewFromFloat(finite(*l.Quantity)),
			value:    decimal.NewFromFloat(finite(*l.Total)),
		}
		subtotal = subtotal.Add(s.value)
		shares = append(shares, s)
	}
	if skipped > 0 {
		e.logger.Warn("Products without quantity or total left out of allocation",
			slog.Int("skipped", skipped))
	}

	freight := decimal.NewFromFloat(in.Freight)
	insurancePct := decimal.NewFromFloat(in.InsurancePercentage)
	insurance := subtotal.Mul(insurancePct).Div(hundred)
	cif := subtotal.Add(freight).Add(insurance)

	var lines []domain.CostLine
	fixed, fixedLines := sumCosts(domain.CostCategoryFixed, in.FixedCosts, cif, subtotal)
	variable, variableLines := sumCosts(domain.CostCategoryVariable, in.VariableCosts, cif, subtotal)
	taxes, taxLines := sumCosts(domain.CostCategoryTax, in.Taxes, cif, subtotal)
	lines = append(lines, fixedLines...)
	lines = append(lines, variableLines...)
	lines = append(lines, taxLines...)

	total := subtotal.Add(freight).Add(insurance).Add(fixed).Add(variable).Add(taxes)

	rows := make([]domain.AllocationRow, 0, len(shares))
	for _, s := range shares {
		participation, allocated, unitFinal := decimal.Zero, decimal.Zero, decimal.Zero
		if subtotal.IsPositive() {
			participation = s.value.Div(subtotal)
			allocated = total.Mul(s.value).Div(subtotal)
			if s.quantity.IsPositive() {
				unitFinal = allocated.Div(s.quantity)
			}
		}

		rows = append(rows, domain.AllocationRow{
			Name:             s.line.Name,
			Brand:            s.line.Brand,
			Quantity:         s.quantity.InexactFloat64(),
			UnitCostOriginal: s.line.UnitCost,
			ValueOriginal:    s.value.InexactFloat64(),
			Participation:    numeric.RoundDecimal2(participation.Mul(hundred)),
			AllocatedCost:    numeric.RoundDecimal2(allocated),
			UnitCostFinal:    numeric.RoundDecimal2(unitFinal),
		})
	}

	result := domain.AllocationResult{
		ProductsSubtotal:    numeric.RoundDecimal2(subtotal),
		FreightValue:        numeric.RoundDecimal2(freight),
		InsurancePercentage: in.InsurancePercentage,
		InsuranceValue:      numeric.RoundDecimal2(insurance),
		CIFValue:            numeric.RoundDecimal2(cif),
		TotalFixed:          numeric.RoundDecimal2(fixed),
		TotalVariable:       numeric.RoundDecimal2(variable),
		TotalTaxes:          numeric.RoundDecimal2(taxes),
		TotalCost:           numeric.RoundDecimal2(total),
		CostLines:           lines,
		Rows:                rows,
		SkippedProducts:     skipped,
	}

	e.logger.Info("Allocation complete",
		slog.Int("products", len(rows)),
		slog.Float64("total_cost", result.TotalCost))
	return result, nil
}

func (e *Engine) validate(in Input) error {
	if len(in.Products) == 0 {
		return NewInputError("products", "product list is empty")
	}
	if e.opts.MaxProducts > 0 && len(in.Products) > e.opts.MaxProducts {
		return NewInputError("products", fmt.Sprintf("too many products: %d exceeds %d", len(in.Products), e.opts.MaxProducts))
	}
	if !isFinite(in.Freight) {
		return NewInputError("freightValue", "value is not a finite number")
	}
	if !isFinite(in.InsurancePercentage) {
		return NewInputError("insurancePercentage", "value is not a finite number")
	}

	collections := []struct {
		field string
		items []domain.CostItem
	}{
		{"fixedCosts", in.FixedCosts},
		{"variableCosts", in.VariableCosts},
		{"taxes", in.Taxes},
	}
	for _, c := range collections {
		for i, item := range c.items {
			if !isFinite(item.Value) {
				return NewInputError(fmt.Sprintf("%s[%d].value", c.field, i), "value is not a finite number")
			}
		}
	}
	return nil
}

// sumCosts totals the active items of one collection. Percentage items are
// applied to the CIF value or the products subtotal depending on base.
func sumCosts(category domain.CostCategory, items []domain.CostItem, cif, subtotal decimal.Decimal) (decimal.Decimal, []domain.CostLine) {
	sum := decimal.Zero
	var lines []domain.CostLine
	for _, item := range items {
		if !item.Active {
			continue
		}

		value := decimal.NewFromFloat(item.Value)
		line := domain.CostLine{Category: category, Name: item.Name}
		if item.Kind == domain.CostKindPercentage {
			base := subtotal
			if item.Base == domain.CostBaseCIF {
				base = cif
			}
			line.Percentage = item.Value
			value = base.Mul(value).Div(hundred)
		}

		sum = sum.Add(value)
		line.Value = numeric.RoundDecimal2(value)
		lines = append(lines, line)
	}
	return sum, lines
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finite(f float64) float64 {
	if !isFinite(f) {
		return 0
	}
	return f
}
