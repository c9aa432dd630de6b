package dataprocessing

import (
	"fmt"
	"strings"
)

// Row is one data row of a Table. Index is the zero-based position of the
// row among the data rows of the source sheet, before empty rows were
// dropped, so it still points at the original spreadsheet line.
type Row struct {
	Index int
	Cells []string
}

// Table is a cleaned sheet: normalized headers and data rows padded to the
// header width.
type Table struct {
	Headers   []string
	Rows      []Row
	Truncated bool

	columns map[string]int
}

// Column returns the position of header in the table.
func (t *Table) Column(header string) (int, bool) {
	i, ok := t.columns[header]
	return i, ok
}

// Value returns the cell of row under header, or "" when header is not a
// column of the table.
func (t *Table) Value(row Row, header string) string {
	i, ok := t.columns[header]
	if !ok || i >= len(row.Cells) {
		return ""
	}
	return row.Cells[i]
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no data rows or no columns.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0 || len(t.Headers) == 0
}

// CleanOptions control Clean.
type CleanOptions struct {
	// MaxRows caps the number of data rows kept. Zero means no cap.
	MaxRows int
}

// Clean turns raw sheet rows into a Table. The first row is the header.
// Data rows whose cells are all blank are dropped, then columns whose
// data cells are all blank, then rows beyond MaxRows. Headers are trimmed
// and lower-cased; blank headers become "unnamed: N" and repeats get a
// ".N" suffix.
func Clean(raw [][]string, opts CleanOptions) *Table {
	t := &Table{columns: make(map[string]int)}
	if len(raw) == 0 {
		return t
	}

	header := raw[0]
	width := len(header)
	for _, r := range raw[1:] {
		width = max(width, len(r))
	}

	var rows []Row
	for i, r := range raw[1:] {
		if isBlankRow(r) {
			continue
		}
		cells := make([]string, width)
		copy(cells, r)
		rows = append(rows, Row{Index: i, Cells: cells})
	}

	keep := make([]int, 0, width)
	for col := 0; col < width; col++ {
		for _, r := range rows {
			if strings.TrimSpace(r.Cells[col]) != "" {
				keep = append(keep, col)
				break
			}
		}
	}

	if opts.MaxRows > 0 && len(rows) > opts.MaxRows {
		rows = rows[:opts.MaxRows]
		t.Truncated = true
	}

	seen := make(map[string]int, len(keep))
	for pos, col := range keep {
		name := ""
		if col < len(header) {
			name = strings.ToLower(strings.TrimSpace(header[col]))
		}
		if name == "" {
			name = fmt.Sprintf("unnamed: %d", col)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		t.Headers = append(t.Headers, name)
		t.columns[name] = pos
	}

	if len(keep) == 0 {
		return t
	}

	t.Rows = make([]Row, len(rows))
	for i, r := range rows {
		cells := make([]string, len(keep))
		for pos, col := range keep {
			cells[pos] = r.Cells[col]
		}
		t.Rows[i] = Row{Index: r.Index, Cells: cells}
	}

	return t
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
