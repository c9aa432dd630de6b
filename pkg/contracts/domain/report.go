package domain

import (
	"time"
)

// Report is the structured document handed to spreadsheet/PDF renderers.
// Every section is optional; renderers skip the ones that are absent.
type Report struct {
	Metadata *ReportMetadata `json:"metadata,omitempty"`
	Summary  *ReportSummary  `json:"summary,omitempty"`
	Products []ReportProduct `json:"products,omitempty"`
	Costs    []ReportCost    `json:"costs,omitempty"`
	Totals   *ReportTotals   `json:"totals,omitempty"`
}

// ReportMetadata identifies the source of a report
type ReportMetadata struct {
	Filename    string    `json:"filename"`
	ProcessedAt time.Time `json:"processed_at"`
}

// ReportSummary holds the headline figures
type ReportSummary struct {
	Goods         float64 `json:"mercadoria"`
	FreightAndIns float64 `json:"frete_seguro"`
	CIF           float64 `json:"cif"`
	TotalCost     float64 `json:"custo_total"`
}

// ReportProduct is a product line with raw and computed values
type ReportProduct struct {
	Name          string  `json:"produto"`
	Brand         string  `json:"marca"`
	Quantity      float64 `json:"quantidade"`
	FOB           float64 `json:"fob"`
	Total         float64 `json:"total"`
	Participation float64 `json:"participacao"`
	AllocatedCost float64 `json:"custo_alocado"`
	UnitCostFinal float64 `json:"custo_unitario_final"`
}

// ReportCost is one cost line; Percentage is zero for fixed amounts
type ReportCost struct {
	Item       string  `json:"item"`
	Percentage float64 `json:"percentual"`
	Value      float64 `json:"valor"`
}

// ReportTotals consolidates the allocation totals. TotalCosts is every
// cost on top of the goods value.
type ReportTotals struct {
	ProductsSubtotal float64 `json:"total_produtos"`
	TotalQuantity    float64 `json:"total_quantidade"`
	TotalCosts       float64 `json:"total_custos"`
	TotalCost        float64 `json:"custo_total"`
}
