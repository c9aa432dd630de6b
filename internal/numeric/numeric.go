// Package numeric turns locale-ambiguous spreadsheet values into float64.
//
// Spreadsheets exported from different locales disagree on the decimal
// separator: "1.234,56" and "1,234.56" both mean 1234.56 while "1,234" is
// one thousand two hundred thirty-four and "12,34" is twelve point three
// four. Parse resolves the ambiguity with a fixed tie-break order: when
// both separators are present the one appearing last is the decimal point;
// when only commas are present a single comma followed by one or two
// digits is the decimal point and anything else is a thousands separator.
package numeric

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotNumeric is returned by ParseStrict when a value carries no number
var ErrNotNumeric = errors.New("value is not numeric")

// Parse converts value to a float64 and never fails: empty, nil and
// unparseable input all yield 0.
func Parse(value any) float64 {
	f, err := ParseStrict(value)
	if err != nil {
		return 0
	}
	return f
}

// ParseStrict is Parse with an error for input that holds no number.
// Empty input is 0 without error.
func ParseStrict(value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case float64:
		return finite(v), nil
	case float32:
		return finite(float64(v)), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case decimal.Decimal:
		return v.InexactFloat64(), nil
	case json.Number:
		return parseString(v.String())
	case string:
		return parseString(v)
	default:
		return parseString(fmt.Sprint(v))
	}
}

// Normalize rewrites s into a plain dot-decimal numeric string without
// thousands separators or currency symbols. It returns "" when nothing
// numeric is left.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-', r == '+':
			return r
		default:
			return -1
		}
	}, s)
	if cleaned == "" {
		return ""
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			// 1.234,56
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			// 1,234.56
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		parts := strings.Split(cleaned, ",")
		if len(parts) == 2 && isDecimalFraction(parts[1]) {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	return cleaned
}

func parseString(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}

	cleaned := Normalize(s)
	if cleaned == "" {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}

	if d, err := decimal.NewFromString(cleaned); err == nil {
		return finite(d.InexactFloat64()), nil
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	return finite(f), nil
}

// isDecimalFraction reports whether s looks like the 1-2 digit fractional
// part of a decimal-comma number
func isDecimalFraction(s string) bool {
	if len(s) == 0 || len(s) > 2 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
