package dataprocessing

import (
	"context"
	"fmt"
	"os"

	"github.com/shakinm/xlsReader/xls"
)

// XLSReader reads legacy BIFF workbooks. The underlying library only
// opens files by path, so the upload is spooled to a scratch file in
// TempDir that is removed before Read returns.
type XLSReader struct {
	TempDir string
}

// NewXLSReader creates a new xls reader. An empty tempDir uses the
// system default.
func NewXLSReader(tempDir string) *XLSReader {
	return &XLSReader{TempDir: tempDir}
}

// Method implements SheetReader
func (r *XLSReader) Method() string { return "xls" }

// Read returns the rows of the first sheet. Unreadable rows are kept as
// empty rows so positions match the source sheet.
func (r *XLSReader) Read(_ context.Context, data []byte) (rows [][]string, err error) {
	tmp, err := os.CreateTemp(r.TempDir, "upload-*.xls")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write scratch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close scratch file: %w", err)
	}

	// The decoder panics on some malformed inputs.
	defer func() {
		if p := recover(); p != nil {
			rows, err = nil, fmt.Errorf("malformed xls file: %v", p)
		}
	}()

	wb, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if wb.GetNumberSheets() == 0 {
		return nil, ErrNoData
	}

	sheet, err := wb.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, fmt.Errorf("failed to get first sheet: %v", err)
	}

	// GetNumberRows may report the last row index; probing one past it
	// yields at most a blank row, which cleaning drops.
	n := int(sheet.GetNumberRows())
	rows = make([][]string, 0, n+1)
	for i := 0; i <= n; i++ {
		row, err := sheet.GetRow(i)
		if err != nil || row == nil {
			rows = append(rows, nil)
			continue
		}
		var cells []string
		for _, col := range row.GetCols() {
			if col == nil {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, col.GetString())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
