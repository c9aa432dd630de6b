// Package catalog holds the suggestion lists offered to the data entry
// screens: product names, brands and the names of common costs and taxes.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

// Suggestion types
const (
	TypeProducts      = "products"
	TypeBrands        = "brands"
	TypeFixedCosts    = "fixed_costs"
	TypeVariableCosts = "variable_costs"
	TypeTaxes         = "taxes"
)

// MaxProductSuggestions caps the product list returned as suggestions.
const MaxProductSuggestions = 50

// DefaultSearchLimit applies when a search has no explicit limit.
const DefaultSearchLimit = 20

// MinQueryLength is the shortest query Search answers.
const MinQueryLength = 2

// Catalog is read-only after Load.
type Catalog struct {
	Products      []string `yaml:"products"`
	Brands        []string `yaml:"brands"`
	FixedCosts    []string `yaml:"fixed_costs"`
	VariableCosts []string `yaml:"variable_costs"`
	Taxes         []string `yaml:"taxes"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Products: []string{
			"Pneu 175/70 R13", "Pneu 175/65 R14", "Pneu 185/65 R15", "Pneu 195/55 R15",
			"Pneu 195/65 R15", "Pneu 205/55 R16", "Pneu 215/55 R17", "Pneu 225/45 R17",
			"Pneu 265/70 R16", "Pneu 275/80 R22.5", "Pneu 295/80 R22.5", "Câmara de ar aro 13",
		},
		Brands: []string{
			"Pirelli", "Michelin", "Goodyear", "Bridgestone", "Continental",
			"Firestone", "Fate", "Dunlop", "Yokohama", "Hankook",
		},
		FixedCosts: []string{
			"Despachante aduaneiro", "Armazenagem", "Frete interno", "Capatazia", "Honorários bancários",
		},
		VariableCosts: []string{
			"Comissão de venda", "Seguro interno", "Manuseio", "Taxa de câmbio",
		},
		Taxes: []string{
			"Derechos de importación", "Tasa de estadística", "IVA", "IVA adicional", "Ganancias", "Ingresos brutos",
		},
	}
}

// Load reads a catalog from a YAML file. An empty path returns Default.
// Lists missing from the file keep their default contents.
func Load(path string) (*Catalog, error) {
	cat := Default()
	if path == "" {
		return cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file Catalog
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	overlay := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	overlay(&cat.Products, file.Products)
	overlay(&cat.Brands, file.Brands)
	overlay(&cat.FixedCosts, file.FixedCosts)
	overlay(&cat.VariableCosts, file.VariableCosts)
	overlay(&cat.Taxes, file.Taxes)
	return cat, nil
}

// Types lists the supported suggestion types in sorted order.
func Types() []string {
	types := []string{TypeProducts, TypeBrands, TypeFixedCosts, TypeVariableCosts, TypeTaxes}
	sort.Strings(types)
	return types
}

// Suggestions returns a copy of the list for kind. Products are capped at
// MaxProductSuggestions.
func (c *Catalog) Suggestions(kind string) ([]string, bool) {
	var list []string
	switch kind {
	case TypeProducts:
		list = c.Products
		if len(list) > MaxProductSuggestions {
			list = list[:MaxProductSuggestions]
		}
	case TypeBrands:
		list = c.Brands
	case TypeFixedCosts:
		list = c.FixedCosts
	case TypeVariableCosts:
		list = c.VariableCosts
	case TypeTaxes:
		list = c.Taxes
	default:
		return nil, false
	}
	out := make([]string, len(list))
	copy(out, list)
	return out, true
}

// SearchResult is the outcome of a product search.
type SearchResult struct {
	Products []string
	Total    int
}

// Search returns products containing query, case-insensitively, up to
// limit. Queries shorter than MinQueryLength match nothing.
func (c *Catalog) Search(query string, limit int) SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if len([]rune(query)) < MinQueryLength {
		return SearchResult{Products: []string{}}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	matches := make([]string, 0, limit)
	total := 0
	for _, p := range c.Products {
		if !strings.Contains(strings.ToLower(p), query) {
			continue
		}
		total++
		if len(matches) < limit {
			matches = append(matches, p)
		}
	}
	return SearchResult{Products: matches, Total: total}
}
