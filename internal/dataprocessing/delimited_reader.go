package dataprocessing

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// sniffWindow is how much of the input is inspected to pick a delimiter.
const sniffWindow = 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrBinaryContent rejects input that is clearly not text.
var ErrBinaryContent = errors.New("content is not delimited text")

// DelimitedReader reads CSV-like text, guessing the delimiter from the
// header line.
type DelimitedReader struct {
	// Candidates in priority order. Ties go to the earlier candidate.
	Candidates []rune
}

// NewDelimitedReader creates a reader sniffing ';', tab, '|' and ','.
func NewDelimitedReader() *DelimitedReader {
	return &DelimitedReader{Candidates: []rune{';', '\t', '|', ','}}
}

// Method implements SheetReader
func (r *DelimitedReader) Method() string { return "csv" }

// Read implements SheetReader
func (r *DelimitedReader) Read(_ context.Context, data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if bytes.IndexByte(data[:min(len(data), sniffWindow)], 0) >= 0 {
		return nil, ErrBinaryContent
	}

	// Spreadsheet exports on Windows are commonly cp1252.
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode text: %w", err)
		}
		data = decoded
	}

	br := bufio.NewReaderSize(bytes.NewReader(data), sniffWindow)
	peek, _ := br.Peek(sniffWindow)

	cr := csv.NewReader(br)
	cr.Comma = r.Sniff(peek)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse delimited text: %w", err)
	}
	return rows, nil
}

// Sniff picks the candidate occurring most often in the first non-empty
// line of sample, defaulting to ','.
func (r *DelimitedReader) Sniff(sample []byte) rune {
	var line []byte
	for _, l := range bytes.Split(sample, []byte("\n")) {
		if len(bytes.TrimSpace(l)) > 0 {
			line = l
			break
		}
	}

	best, bestCount := ',', 0
	for _, c := range r.Candidates {
		if n := bytes.Count(line, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}
