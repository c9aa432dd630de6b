package dataprocessing

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads Office Open XML workbooks.
type XLSXReader struct{}

// NewXLSXReader creates a new xlsx reader
func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

// Method implements SheetReader
func (r *XLSXReader) Method() string { return "xlsx" }

// Read returns the rows of the first sheet with raw, unformatted cell values.
func (r *XLSXReader) Read(_ context.Context, data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoData
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
