package numeric

import "github.com/shopspring/decimal"

// Round2 rounds f to two decimal places, half away from zero
func Round2(f float64) float64 {
	return decimal.NewFromFloat(finite(f)).Round(2).InexactFloat64()
}

// RoundDecimal2 rounds d to two decimals and returns it as float64
func RoundDecimal2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
