package exporter

import (
	"io"

	"landedcost/pkg/contracts/domain"
)

// AllocationHeaders are the column names of an allocation export
var AllocationHeaders = []string{
	"name", "brand", "quantity", "unit_cost_original", "value_original",
	"participation_pct", "allocated_cost", "unit_cost_final",
}

// AllocationExporter writes allocation results as CSV
type AllocationExporter struct {
	csvWriter *CSVWriter
}

// NewAllocationExporter creates an exporter on top of w
func NewAllocationExporter(w *CSVWriter) *AllocationExporter {
	return &AllocationExporter{csvWriter: w}
}

// Export writes res to filePath with a UTF-8 BOM
func (e *AllocationExporter) Export(filePath string, res domain.AllocationResult) error {
	return e.csvWriter.WriteCSV(filePath, e.options(res))
}

// WriteTo streams res to out
func (e *AllocationExporter) WriteTo(out io.Writer, res domain.AllocationResult) error {
	return Write(out, e.options(res))
}

func (e *AllocationExporter) options(res domain.AllocationResult) WriteOptions {
	return WriteOptions{
		Headers:   AllocationHeaders,
		Records:   AllocationRecords(res),
		BOMPrefix: true,
	}
}

// AllocationRecords returns one record per row, then an empty separator
// record and the totals as label/value pairs in the first two columns.
func AllocationRecords(res domain.AllocationResult) [][]string {
	records := make([][]string, 0, len(res.Rows)+10)
	for _, row := range res.Rows {
		records = append(records, []string{
			row.Name,
			row.Brand,
			formatQuantity(row.Quantity),
			formatFloat(row.UnitCostOriginal),
			formatFloat(row.ValueOriginal),
			formatFloat(row.Participation),
			formatFloat(row.AllocatedCost),
			formatFloat(row.UnitCostFinal),
		})
	}

	totals := []struct {
		label string
		value float64
	}{
		{"total_products", res.ProductsSubtotal},
		{"freight_value", res.FreightValue},
		{"insurance_value", res.InsuranceValue},
		{"cif_value", res.CIFValue},
		{"total_fixed", res.TotalFixed},
		{"total_variable", res.TotalVariable},
		{"total_taxes", res.TotalTaxes},
		{"total_cost", res.TotalCost},
	}

	records = append(records, padRecord(nil))
	for _, t := range totals {
		records = append(records, padRecord([]string{t.label, formatFloat(t.value)}))
	}
	return records
}

// padRecord widens r to the header width so every record has the same
// number of fields.
func padRecord(r []string) []string {
	out := make([]string, len(AllocationHeaders))
	copy(out, r)
	return out
}
