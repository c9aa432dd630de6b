package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoData is returned by a SheetReader that parsed the input but found
// nothing in it.
var ErrNoData = errors.New("no data found")

// SheetReader decodes the first sheet of an upload into raw rows.
type SheetReader interface {
	// Method names the strategy in processing diagnostics.
	Method() string
	Read(ctx context.Context, data []byte) ([][]string, error)
}

// ReadResult is the outcome of a successful Chain.Read.
type ReadResult struct {
	Rows   [][]string
	Method string
}

// Chain tries readers in order until one returns rows.
type Chain struct {
	readers []SheetReader
	logger  *slog.Logger
}

// NewChain builds a chain over readers, tried in the given order.
func NewChain(logger *slog.Logger, readers ...SheetReader) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		readers: readers,
		logger:  logger.With(slog.String("component", "sheet_reader")),
	}
}

// DefaultChain returns the xlsx, xls and delimited text readers in that
// order. tempDir hosts the scratch file the xls reader needs.
func DefaultChain(tempDir string, logger *slog.Logger) *Chain {
	return NewChain(logger,
		NewXLSXReader(),
		NewXLSReader(tempDir),
		NewDelimitedReader(),
	)
}

// Read returns the rows of the first reader that succeeds. When all fail
// the returned error joins every attempt.
func (c *Chain) Read(ctx context.Context, data []byte) (*ReadResult, error) {
	var errs []error
	for _, r := range c.readers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := r.Read(ctx, data)
		if err == nil && len(rows) == 0 {
			err = ErrNoData
		}
		if err != nil {
			c.logger.Debug("Read attempt failed",
				slog.String("method", r.Method()),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s: %w", r.Method(), err))
			continue
		}

		c.logger.Info("File read",
			slog.String("method", r.Method()),
			slog.Int("rows", len(rows)))
		return &ReadResult{Rows: rows, Method: r.Method()}, nil
	}

	if len(errs) == 0 {
		return nil, errors.New("no readers configured")
	}
	return nil, fmt.Errorf("file could not be read by any method: %w", errors.Join(errs...))
}
