// Package exporter writes allocation results as CSV.
//
// CSVWriter is the low level writer with header, append and UTF-8 BOM
// support; the BOM makes spreadsheet applications detect the encoding.
// AllocationExporter lays out the per-product allocation rows followed by
// a totals block.
//
// Example usage:
//
//	exp := exporter.NewAllocationExporter(exporter.NewCSVWriter(""))
//	err := exp.Export("rateio.csv", result)
package exporter
