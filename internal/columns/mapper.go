// Package columns maps free-form spreadsheet headers onto the canonical
// product fields.
package columns

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"landedcost/pkg/contracts/domain"
)

// Match weights awarded per pattern, highest applicable only.
const (
	scoreRegex     = 10
	scoreSubstring = 5
	scoreWord      = 2
)

// minFallbackHeaders is the header count below which positional fallback
// is not attempted.
const minFallbackHeaders = 3

// Options configure a Mapper.
type Options struct {
	// Patterns maps canonical field names to header patterns. Patterns are
	// regular expressions; ones that fail to compile match literally.
	Patterns map[string][]string

	// FallbackOverwrite makes positional fallback replace mappings found by
	// scoring instead of only filling missing fields.
	FallbackOverwrite bool
}

type pattern struct {
	raw   string
	re    *regexp.Regexp
	words []string
}

// Mapper scores headers against per-field patterns. It is immutable after
// construction and safe for concurrent use.
type Mapper struct {
	fields            []domain.CanonicalField
	patterns          map[domain.CanonicalField][]pattern
	fallbackOverwrite bool
	logger            *slog.Logger
}

// NewMapper compiles the configured patterns.
func NewMapper(opts Options, logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Mapper{
		patterns:          make(map[domain.CanonicalField][]pattern),
		fallbackOverwrite: opts.FallbackOverwrite,
		logger:            logger.With(slog.String("component", "column_mapper")),
	}

	for _, field := range domain.CanonicalFields {
		raw, ok := opts.Patterns[string(field)]
		if !ok {
			continue
		}
		m.fields = append(m.fields, field)
		m.patterns[field] = compilePatterns(raw)
	}

	return m
}

func compilePatterns(raw []string) []pattern {
	out := make([]pattern, 0, len(raw))
	for _, p := range raw {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			re = regexp.MustCompile(regexp.QuoteMeta(p))
		}
		out = append(out, pattern{raw: p, re: re, words: strings.Fields(p)})
	}
	return out
}

// Detect maps headers to canonical fields. The returned mapping values are
// the headers exactly as given. Detect never fails: an internal fault
// yields an empty mapping.
func (m *Mapper) Detect(headers []string) (mapping domain.ColumnMapping) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("column detection failed",
				slog.String("panic", fmt.Sprint(r)),
				slog.Any("headers", headers))
			mapping = domain.ColumnMapping{}
		}
	}()

	mapping = make(domain.ColumnMapping)

	for _, field := range m.fields {
		best, bestScore := "", 0
		for _, header := range headers {
			score := m.Score(field, header)
			// Strictly greater keeps the first header on ties.
			if score > bestScore {
				best, bestScore = header, score
			}
		}
		if bestScore > 0 {
			mapping[field] = best
			m.logger.Debug("column mapped",
				slog.String("field", string(field)),
				slog.String("header", best),
				slog.Int("score", bestScore))
		}
	}

	if missing := mapping.Missing(); len(missing) > 0 {
		m.logger.Warn("required columns not found by name",
			slog.Any("missing", missing),
			slog.Int("header_count", len(headers)))
		m.applyPositionalFallback(mapping, headers)
	}

	m.logger.Info("column mapping complete", slog.Any("mapping", mapping))
	return mapping
}

// Score returns the cumulative match score of header for field.
func (m *Mapper) Score(field domain.CanonicalField, header string) int {
	clean := strings.ToLower(strings.TrimSpace(header))
	if clean == "" {
		return 0
	}

	score := 0
	for _, p := range m.patterns[field] {
		switch {
		case p.re.MatchString(clean):
			score += scoreRegex
		case strings.Contains(clean, p.raw):
			score += scoreSubstring
		case containsAnyWord(clean, p.words):
			score += scoreWord
		}
	}
	return score
}

func containsAnyWord(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// applyPositionalFallback assumes the layout product, [brand, ...],
// quantity, value. Without overwrite it only fills unmapped fields and
// never binds a header that another field already uses; a field left
// unmapped is reported by column detection.
func (m *Mapper) applyPositionalFallback(mapping domain.ColumnMapping, headers []string) {
	n := len(headers)
	if n < minFallbackHeaders {
		return
	}

	claimed := make(map[string]domain.CanonicalField, len(mapping))
	for field, header := range mapping {
		claimed[header] = field
	}

	set := func(field domain.CanonicalField, header string) {
		if !m.fallbackOverwrite {
			if _, ok := mapping[field]; ok {
				return
			}
			if owner, ok := claimed[header]; ok {
				m.logger.Debug("positional header already mapped",
					slog.String("field", string(field)),
					slog.String("header", header),
					slog.String("mapped_to", string(owner)))
				return
			}
		}
		mapping[field] = header
		claimed[header] = field
	}

	set(domain.FieldProduct, headers[0])
	set(domain.FieldQuantity, headers[n-2])
	set(domain.FieldValue, headers[n-1])
	if n >= 4 {
		set(domain.FieldBrand, headers[1])
	}

	m.logger.Info("positional column fallback applied",
		slog.Bool("overwrite", m.fallbackOverwrite),
		slog.Int("header_count", n))
}
