package exporter

import (
	"strconv"
)

// formatFloat formats a value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatQuantity drops the fraction for whole quantities
func formatQuantity(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
