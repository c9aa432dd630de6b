package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"landedcost/internal/numeric"
	"landedcost/pkg/contracts/domain"
)

// Row validation messages. They are joined with "; " when a row fails
// more than one check.
const (
	MsgInvalidName       = "invalid product name"
	MsgQuantityNotPos    = "quantity must be greater than zero"
	MsgQuantityTooHigh   = "quantity too high"
	MsgUnitCostNotPos    = "unit cost must be greater than zero"
	MsgUnitCostTooHigh   = "unit cost too high"
	rowErrorMessageSplit = "; "
)

// RawRow is one data row as read from a spreadsheet or request, before
// any normalization. Quantity and UnitCost accept anything numeric.Parse
// understands.
type RawRow struct {
	Name     string
	Brand    string
	Quantity any
	UnitCost any
}

// Result is the outcome of validating a RawRow. Exactly one of Product
// and Errors is meaningful.
type Result struct {
	Product domain.Product
	Errors  []string
}

// OK reports whether the row produced a product.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Message joins the collected errors in check order.
func (r Result) Message() string {
	return strings.Join(r.Errors, rowErrorMessageSplit)
}

// RowError locates a failed row. Row is the 1-based spreadsheet row,
// counting the header.
type RowError struct {
	Row     int
	Message string
}

// NewRowError builds the error for the data row at zero-based index.
func NewRowError(index int, message string) RowError {
	return RowError{Row: index + 2, Message: message}
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ValidateProduct validates name, brand, quantity and unit cost in that
// order and computes the line total. All failures are collected; none
// stops the remaining checks.
func ValidateProduct(row RawRow) Result {
	var (
		errs    []string
		product domain.Product
	)

	name := strings.TrimSpace(row.Name)
	if utf8.RuneCountInString(name) < domain.NameMinLength {
		errs = append(errs, MsgInvalidName)
	} else {
		product.Name = truncateRunes(name, domain.NameMaxLength)
	}

	product.Brand = truncateRunes(strings.TrimSpace(row.Brand), domain.BrandMaxLength)

	quantity := numeric.Parse(row.Quantity)
	switch {
	case quantity <= 0:
		errs = append(errs, MsgQuantityNotPos)
	case quantity > domain.MaxQuantity:
		errs = append(errs, MsgQuantityTooHigh)
	default:
		product.Quantity = quantity
	}

	unitCost := numeric.Parse(row.UnitCost)
	switch {
	case unitCost <= 0:
		errs = append(errs, MsgUnitCostNotPos)
	case unitCost > domain.MaxUnitCost:
		errs = append(errs, MsgUnitCostTooHigh)
	default:
		product.UnitCost = numeric.Round2(unitCost)
	}

	if len(errs) > 0 {
		return Result{Errors: errs}
	}

	total := decimal.NewFromFloat(product.Quantity).Mul(decimal.NewFromFloat(product.UnitCost))
	product.Total = numeric.RoundDecimal2(total)
	return Result{Product: product}
}

// truncateRunes cuts s to at most n characters without splitting a
// multi-byte sequence.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
