// Package report assembles the structured document that spreadsheet and
// PDF renderers consume from an allocation result.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"landedcost/internal/numeric"
	"landedcost/pkg/contracts/domain"
)

// Cost line labels for the freight and insurance entries
const (
	FreightItem   = "Freight"
	InsuranceItem = "Insurance"
)

// Source identifies what the allocation was computed from.
type Source struct {
	Filename    string
	ProcessedAt time.Time
}

// Build lays out res as a report. Freight and insurance lead the cost
// list when they are non-zero, followed by the active cost items in
// fixed, variable, tax order.
func Build(res domain.AllocationResult, src Source) domain.Report {
	rep := domain.Report{
		Metadata: &domain.ReportMetadata{
			Filename:    src.Filename,
			ProcessedAt: src.ProcessedAt.UTC(),
		},
		Summary: &domain.ReportSummary{
			Goods:         res.ProductsSubtotal,
			FreightAndIns: numeric.RoundDecimal2(dec(res.FreightValue).Add(dec(res.InsuranceValue))),
			CIF:           res.CIFValue,
			TotalCost:     res.TotalCost,
		},
	}

	quantity := decimal.Zero
	for _, row := range res.Rows {
		quantity = quantity.Add(dec(row.Quantity))
		rep.Products = append(rep.Products, domain.ReportProduct{
			Name:          row.Name,
			Brand:         row.Brand,
			Quantity:      row.Quantity,
			FOB:           row.UnitCostOriginal,
			Total:         row.ValueOriginal,
			Participation: row.Participation,
			AllocatedCost: row.AllocatedCost,
			UnitCostFinal: row.UnitCostFinal,
		})
	}

	if res.FreightValue != 0 {
		rep.Costs = append(rep.Costs, domain.ReportCost{Item: FreightItem, Value: res.FreightValue})
	}
	if res.InsuranceValue != 0 {
		rep.Costs = append(rep.Costs, domain.ReportCost{
			Item:       InsuranceItem,
			Percentage: res.InsurancePercentage,
			Value:      res.InsuranceValue,
		})
	}
	for _, line := range res.CostLines {
		rep.Costs = append(rep.Costs, domain.ReportCost{
			Item:       line.Name,
			Percentage: line.Percentage,
			Value:      line.Value,
		})
	}

	rep.Totals = &domain.ReportTotals{
		ProductsSubtotal: res.ProductsSubtotal,
		TotalQuantity:    quantity.InexactFloat64(),
		TotalCosts:       numeric.RoundDecimal2(dec(res.TotalCost).Sub(dec(res.ProductsSubtotal))),
		TotalCost:        res.TotalCost,
	}
	return rep
}

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
