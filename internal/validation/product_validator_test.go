package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"landedcost/pkg/contracts/domain"
)

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name       string
		row        RawRow
		want       domain.Product
		wantErrors []string
	}{
		{
			name: "valid row computes total",
			row:  RawRow{Name: "  Pneu 205/55 R16 ", Brand: " Pirelli ", Quantity: "10", UnitCost: "120,50"},
			want: domain.Product{Name: "Pneu 205/55 R16", Brand: "Pirelli", Quantity: 10, UnitCost: 120.5, Total: 1205},
		},
		{
			name: "unit cost rounded before total",
			row:  RawRow{Name: "Parafuso", Quantity: 3, UnitCost: 33.333},
			want: domain.Product{Name: "Parafuso", Quantity: 3, UnitCost: 33.33, Total: 99.99},
		},
		{
			name: "fractional quantity kept",
			row:  RawRow{Name: "Cabo", Quantity: "2.5", UnitCost: "$1,000.00"},
			want: domain.Product{Name: "Cabo", Quantity: 2.5, UnitCost: 1000, Total: 2500},
		},
		{
			name: "limits are inclusive",
			row:  RawRow{Name: "ab", Quantity: 1_000_000, UnitCost: 1_000_000},
			want: domain.Product{Name: "ab", Quantity: 1_000_000, UnitCost: 1_000_000, Total: 1e12},
		},
		{
			name:       "short name",
			row:        RawRow{Name: " x ", Quantity: 1, UnitCost: 1},
			wantErrors: []string{MsgInvalidName},
		},
		{
			name:       "zero quantity",
			row:        RawRow{Name: "Pneu", Quantity: "0", UnitCost: 10},
			wantErrors: []string{MsgQuantityNotPos},
		},
		{
			name:       "quantity too high",
			row:        RawRow{Name: "Pneu", Quantity: 1_000_001, UnitCost: 10},
			wantErrors: []string{MsgQuantityTooHigh},
		},
		{
			name:       "unit cost too high",
			row:        RawRow{Name: "Pneu", Quantity: 1, UnitCost: "1.000.000,01"},
			wantErrors: []string{MsgUnitCostTooHigh},
		},
		{
			name:       "all errors collected in order",
			row:        RawRow{Name: "", Quantity: "abc", UnitCost: nil},
			wantErrors: []string{MsgInvalidName, MsgQuantityNotPos, MsgUnitCostNotPos},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateProduct(tt.row)
			if tt.wantErrors != nil {
				assert.False(t, got.OK())
				assert.Equal(t, tt.wantErrors, got.Errors)
				assert.Equal(t, domain.Product{}, got.Product, "failed rows carry no partial product")
				return
			}
			assert.True(t, got.OK(), got.Message())
			assert.Equal(t, tt.want, got.Product)
		})
	}
}

func TestValidateProductTruncation(t *testing.T) {
	got := ValidateProduct(RawRow{
		Name:     strings.Repeat("é", 250),
		Brand:    strings.Repeat("b", 150),
		Quantity: 1,
		UnitCost: 1,
	})

	assert.True(t, got.OK())
	assert.Equal(t, 200, len([]rune(got.Product.Name)))
	assert.Len(t, got.Product.Brand, 100)
}

func TestResultMessage(t *testing.T) {
	r := Result{Errors: []string{MsgInvalidName, MsgQuantityNotPos}}
	assert.Equal(t, "invalid product name; quantity must be greater than zero", r.Message())
}

func TestRowError(t *testing.T) {
	err := NewRowError(0, MsgInvalidName)
	assert.Equal(t, 2, err.Row)
	assert.Equal(t, "row 2: invalid product name", err.Error())
}
