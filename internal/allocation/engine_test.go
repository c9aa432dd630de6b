package allocation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"landedcost/internal/shared/testutil"
	"landedcost/pkg/contracts/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ptr(f float64) *float64 { return &f }

func newTestEngine(t *testing.T) *Engine {
	return NewEngine(Options{}, testutil.NewTestLogger(t))
}

func TestAllocateReferenceScenario(t *testing.T) {
	in := Input{
		Products: LinesFromProducts([]domain.Product{
			{Name: "A", Brand: "X", Quantity: 10, UnitCost: 100, Total: 1000},
			{Name: "B", Brand: "Y", Quantity: 5, UnitCost: 200, Total: 1000},
		}),
		FixedCosts: []domain.CostItem{
			{Name: "Despachante", Active: true, Kind: domain.CostKindPercentage, Base: domain.CostBaseCIF, Value: 10},
			{Name: "Armazenagem", Active: false, Kind: domain.CostKindFixed, Value: 999},
		},
		Taxes: []domain.CostItem{
			{Name: "II", Active: true, Kind: domain.CostKindPercentage, Base: domain.CostBaseSubtotal, Value: 5},
		},
		Freight:             50,
		InsurancePercentage: 2,
	}

	res, err := newTestEngine(t).Allocate(in)
	require.NoError(t, err)

	assert.Equal(t, 2000.0, res.ProductsSubtotal)
	assert.Equal(t, 50.0, res.FreightValue)
	assert.Equal(t, 2.0, res.InsurancePercentage)
	assert.Equal(t, 40.0, res.InsuranceValue)
	assert.Equal(t, 2090.0, res.CIFValue)
	assert.Equal(t, 209.0, res.TotalFixed)
	assert.Equal(t, 0.0, res.TotalVariable)
	assert.Equal(t, 100.0, res.TotalTaxes)
	assert.Equal(t, 2399.0, res.TotalCost)

	require.Len(t, res.Rows, 2)
	assert.Equal(t, domain.AllocationRow{
		Name: "A", Brand: "X", Quantity: 10, UnitCostOriginal: 100, ValueOriginal: 1000,
		Participation: 50, AllocatedCost: 1199.5, UnitCostFinal: 119.95,
	}, res.Rows[0])
	assert.Equal(t, 239.9, res.Rows[1].UnitCostFinal)

	assert.Equal(t, []domain.CostLine{
		{Category: domain.CostCategoryFixed, Name: "Despachante", Percentage: 10, Value: 209},
		{Category: domain.CostCategoryTax, Name: "II", Percentage: 5, Value: 100},
	}, res.CostLines)
}

func TestAllocateSumsToTotalCost(t *testing.T) {
	products := []domain.Product{
		{Name: "p1", Quantity: 3, UnitCost: 33.33, Total: 99.99},
		{Name: "p2", Quantity: 7, UnitCost: 12.71, Total: 88.97},
		{Name: "p3", Quantity: 1, UnitCost: 0.01, Total: 0.01},
		{Name: "p4", Quantity: 11, UnitCost: 1234.56, Total: 13580.16},
	}
	res, err := newTestEngine(t).Allocate(Input{
		Products:            LinesFromProducts(products),
		VariableCosts:       []domain.CostItem{{Name: "v", Active: true, Kind: domain.CostKindFixed, Value: 321.45}},
		Freight:             77.7,
		InsurancePercentage: 1.3,
	})
	require.NoError(t, err)

	sum := 0.0
	for _, r := range res.Rows {
		sum += r.AllocatedCost
	}
	assert.InDelta(t, res.TotalCost, sum, float64(len(products))*0.01)
}

func TestAllocateZeroSubtotal(t *testing.T) {
	res, err := newTestEngine(t).Allocate(Input{
		Products: []Line{
			{Name: "free", Quantity: ptr(2), Total: ptr(0)},
			{Name: "also free", Quantity: ptr(1), Total: ptr(0)},
		},
		FixedCosts: []domain.CostItem{{Name: "flat", Active: true, Kind: domain.CostKindFixed, Value: 100}},
		Freight:    10,
	})
	require.NoError(t, err)

	assert.Equal(t, 110.0, res.TotalCost)
	for _, r := range res.Rows {
		assert.Zero(t, r.Participation)
		assert.Zero(t, r.AllocatedCost)
		assert.Zero(t, r.UnitCostFinal)
	}
}

func TestAllocateSkipsIncompleteLines(t *testing.T) {
	res, err := newTestEngine(t).Allocate(Input{
		Products: []Line{
			{Name: "ok", Quantity: ptr(2), Total: ptr(100)},
			{Name: "no quantity", Total: ptr(50)},
			{Name: "no total", Quantity: ptr(1)},
			{Name: "zero quantity", Quantity: ptr(0), Total: ptr(100)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.SkippedProducts)
	assert.Equal(t, 200.0, res.ProductsSubtotal)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, 50.0, res.Rows[0].Participation)
	assert.Equal(t, 100.0, res.Rows[1].AllocatedCost)
	assert.Zero(t, res.Rows[1].UnitCostFinal)
}

func TestAllocateCostBases(t *testing.T) {
	tests := []struct {
		name string
		item domain.CostItem
		want float64
	}{
		{"percentage of cif", domain.CostItem{Active: true, Kind: domain.CostKindPercentage, Base: domain.CostBaseCIF, Value: 10}, 110},
		{"percentage of subtotal", domain.CostItem{Active: true, Kind: domain.CostKindPercentage, Base: domain.CostBaseSubtotal, Value: 10}, 100},
		{"fixed ignores base", domain.CostItem{Active: true, Kind: domain.CostKindFixed, Base: domain.CostBaseCIF, Value: 10}, 10},
		{"inactive", domain.CostItem{Active: false, Kind: domain.CostKindFixed, Value: 10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTestEngine(t).Allocate(Input{
				Products:      []Line{{Name: "p", Quantity: ptr(1), Total: ptr(1000)}},
				VariableCosts: []domain.CostItem{tt.item},
				Freight:       100,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.TotalVariable)
		})
	}
}

func TestAllocateRoundsHalfAwayFromZero(t *testing.T) {
	res, err := newTestEngine(t).Allocate(Input{
		Products:            []Line{{Name: "p", Quantity: ptr(1), Total: ptr(100.5)}},
		InsurancePercentage: 1,
	})
	require.NoError(t, err)
	// 100.5 * 1% = 1.005
	assert.Equal(t, 1.01, res.InsuranceValue)
}

func TestAllocateInputErrors(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		in    Input
		field string
	}{
		{"empty products", Options{}, Input{}, "products"},
		{"too many products", Options{MaxProducts: 1}, Input{Products: make([]Line, 2)}, "products"},
		{"nan freight", Options{}, Input{Products: make([]Line, 1), Freight: math.NaN()}, "freightValue"},
		{"inf insurance", Options{}, Input{Products: make([]Line, 1), InsurancePercentage: math.Inf(1)}, "insurancePercentage"},
		{
			"nan tax",
			Options{},
			Input{Products: make([]Line, 1), Taxes: []domain.CostItem{{Value: 1}, {Value: math.NaN()}}},
			"taxes[1].value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.opts, testutil.NewTestLogger(t)).Allocate(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAllocationInput)

			var ie *InputError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tt.field, ie.Field)
		})
	}
}
