// Package ingestion converts an uploaded spreadsheet into validated
// product lines through a fixed sequence of stages.
package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"landedcost/internal/columns"
	"landedcost/internal/config"
	"landedcost/internal/dataprocessing"
	"landedcost/internal/infrastructure"
	"landedcost/internal/numeric"
	"landedcost/internal/validation"
	"landedcost/pkg/contracts/domain"
)

// cancelCheckInterval is how many rows are validated between context checks.
const cancelCheckInterval = 500

// Upload is a file handed to the pipeline. TempDir is scratch space owned
// by the caller for the duration of Process.
type Upload struct {
	Filename string
	Data     []byte
	TempDir  string
}

// Options bound what the pipeline accepts and reports.
type Options struct {
	MaxFileSize       int64
	MaxRows           int
	AllowedExtensions []string
	ErrorPreview      int
	FailurePreview    int
	Currency          string
}

// OptionsFromConfig maps the ingestion config section.
func OptionsFromConfig(cfg config.IngestionConfig) Options {
	return Options{
		MaxFileSize:       cfg.MaxFileSize,
		MaxRows:           cfg.MaxRows,
		AllowedExtensions: cfg.AllowedExtensions,
		ErrorPreview:      cfg.ErrorPreview,
		FailurePreview:    cfg.FailurePreview,
		Currency:          cfg.Currency,
	}
}

// ProcessingInfo describes how a successful run went.
type ProcessingInfo struct {
	FileReadMethod     string               `json:"file_read_method"`
	ColumnsDetected    domain.ColumnMapping `json:"columns_detected"`
	TotalRowsProcessed int                  `json:"total_rows_processed"`
	ValidProducts      int                  `json:"valid_products"`
	ErrorsCount        int                  `json:"errors_count"`
	Errors             []string             `json:"errors"`
	Truncated          bool                 `json:"truncated"`
}

// Outcome is the result of a successful run.
type Outcome struct {
	Products       []domain.Product      `json:"products"`
	Summary        domain.ProductSummary `json:"summary"`
	ProcessingInfo ProcessingInfo        `json:"processing_info"`
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithTracer sets the tracer used for stage spans.
func WithTracer(tracer trace.Tracer) PipelineOption {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// WithMetrics sets the metric instruments.
func WithMetrics(metrics *infrastructure.BusinessMetrics) PipelineOption {
	return func(p *Pipeline) { p.metrics = metrics }
}

// WithReaders replaces the reader chain factory.
func WithReaders(factory func(tempDir string, logger *slog.Logger) *dataprocessing.Chain) PipelineOption {
	return func(p *Pipeline) {
		if factory != nil {
			p.newChain = factory
		}
	}
}

// Pipeline runs file validation, reading, cleaning, column detection and
// row validation. It holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	opts     Options
	files    *validation.FileValidator
	mapper   *columns.Mapper
	newChain func(tempDir string, logger *slog.Logger) *dataprocessing.Chain
	tracer   trace.Tracer
	metrics  *infrastructure.BusinessMetrics
	logger   *slog.Logger
}

// NewPipeline creates a pipeline around mapper.
func NewPipeline(opts Options, mapper *columns.Mapper, logger *slog.Logger, options ...PipelineOption) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Currency == "" {
		opts.Currency = config.DefaultCurrency
	}

	p := &Pipeline{
		opts: opts,
		files: validation.NewFileValidator(validation.FileRules{
			MaxSize:           opts.MaxFileSize,
			AllowedExtensions: opts.AllowedExtensions,
		}, logger),
		mapper:   mapper,
		newChain: dataprocessing.DefaultChain,
		tracer:   noop.NewTracerProvider().Tracer("ingestion"),
		logger:   logger.With(slog.String("component", "ingestion")),
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// Process runs every stage over upload. Failures are returned as
// *StageError; a panic in any stage is reported as StageCritical.
func (p *Pipeline) Process(ctx context.Context, upload Upload) (outcome *Outcome, err error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "ingestion.process",
		trace.WithAttributes(
			attribute.String("file.name", upload.Filename),
			attribute.Int("file.size", len(upload.Data))))
	defer span.End()

	var valid, rejected int
	defer func() {
		if r := recover(); r != nil {
			p.logger.ErrorContext(ctx, "Ingestion panicked",
				slog.String("panic", fmt.Sprint(r)),
				slog.String("stack", string(debug.Stack())))
			outcome = nil
			err = newStageError(StageCritical, fmt.Sprintf("critical processing error: %v", r), nil)
		}

		stage := "complete"
		if err != nil {
			stage = string(StageOf(err))
			infrastructure.RecordError(ctx, err)
			p.logger.WarnContext(ctx, "Ingestion failed",
				slog.String("file", upload.Filename),
				slog.String("stage", stage),
				slog.String("error", err.Error()))
		}
		p.metrics.RecordIngestion(ctx, stage, err == nil, time.Since(start), valid, rejected)
	}()

	p.logger.InfoContext(ctx, "Ingestion started",
		slog.String("file", upload.Filename),
		slog.Int("size", len(upload.Data)))

	// 1. File validation
	if err := p.files.ValidateUpload(upload.Filename, int64(len(upload.Data))); err != nil {
		return nil, newStageError(StageFileValidation, err.Error(), err)
	}

	// 2. Read
	read, err := p.read(ctx, upload)
	if err != nil {
		return nil, err
	}

	// 3. Clean
	table := p.clean(ctx, read.Rows)
	if table.Empty() {
		return nil, newStageError(StageDataCleaning, "file contains no valid data", nil)
	}

	// 4. Detect columns
	mapping, err := p.detect(ctx, table)
	if err != nil {
		return nil, err
	}

	// 5. Validate rows
	products, rowErrors, err := p.validateRows(ctx, table, mapping)
	valid, rejected = len(products), len(rowErrors)
	if err != nil {
		return nil, err
	}

	// 6. Finalize
	if len(products) == 0 {
		se := newStageError(StageProductValidation, "no valid products found", nil)
		se.Details = map[string]any{
			"errors":       preview(rowErrors, p.opts.FailurePreview),
			"total_errors": len(rowErrors),
		}
		return nil, se
	}

	outcome = &Outcome{
		Products: products,
		Summary:  Summarize(products, p.opts.Currency),
		ProcessingInfo: ProcessingInfo{
			FileReadMethod:     read.Method,
			ColumnsDetected:    mapping,
			TotalRowsProcessed: table.Len(),
			ValidProducts:      len(products),
			ErrorsCount:        len(rowErrors),
			Errors:             preview(rowErrors, p.opts.ErrorPreview),
			Truncated:          table.Truncated,
		},
	}

	span.SetAttributes(
		attribute.Int("ingestion.valid_products", len(products)),
		attribute.Int("ingestion.row_errors", len(rowErrors)))
	p.logger.InfoContext(ctx, "Ingestion complete",
		slog.String("file", upload.Filename),
		slog.Int("valid_products", len(products)),
		slog.Int("rows", table.Len()),
		slog.Int("errors", len(rowErrors)),
		slog.Duration("duration", time.Since(start)))

	return outcome, nil
}

// CheckFile applies the file rules to a file on disk before it is read.
func (p *Pipeline) CheckFile(path string) error {
	if err := p.files.ValidateFile(path); err != nil {
		return newStageError(StageFileValidation, err.Error(), err)
	}
	return nil
}

func (p *Pipeline) read(ctx context.Context, upload Upload) (*dataprocessing.ReadResult, error) {
	ctx, span := p.tracer.Start(ctx, "ingestion.read")
	defer span.End()

	res, err := p.newChain(upload.TempDir, p.logger).Read(ctx, upload.Data)
	if err != nil {
		return nil, newStageError(StageFileReading, "read error: "+err.Error(), err)
	}
	span.SetAttributes(attribute.String("read.method", res.Method))
	return res, nil
}

func (p *Pipeline) clean(ctx context.Context, rows [][]string) *dataprocessing.Table {
	_, span := p.tracer.Start(ctx, "ingestion.clean")
	defer span.End()

	table := dataprocessing.Clean(rows, dataprocessing.CleanOptions{MaxRows: p.opts.MaxRows})
	if table.Truncated {
		p.logger.WarnContext(ctx, "Row limit reached, extra rows ignored",
			slog.Int("max_rows", p.opts.MaxRows))
	}
	span.SetAttributes(
		attribute.Int("table.rows", table.Len()),
		attribute.Int("table.columns", len(table.Headers)))
	return table
}

func (p *Pipeline) detect(ctx context.Context, table *dataprocessing.Table) (domain.ColumnMapping, error) {
	_, span := p.tracer.Start(ctx, "ingestion.detect_columns")
	defer span.End()

	mapping := p.mapper.Detect(table.Headers)
	missing := mapping.Missing()
	if len(missing) == 0 {
		return mapping, nil
	}

	se := newStageError(StageColumnDetection,
		fmt.Sprintf("required columns not found: %v. available columns: %v", missing, table.Headers), nil)
	se.Details = map[string]any{
		"available_columns": table.Headers,
		"detected_mapping":  mapping,
	}
	return nil, se
}

func (p *Pipeline) validateRows(ctx context.Context, table *dataprocessing.Table, mapping domain.ColumnMapping) ([]domain.Product, []string, error) {
	ctx, span := p.tracer.Start(ctx, "ingestion.validate_rows")
	defer span.End()

	cell := func(row dataprocessing.Row, field domain.CanonicalField) string {
		header, ok := mapping.Header(field)
		if !ok {
			return ""
		}
		return table.Value(row, header)
	}

	products := make([]domain.Product, 0, table.Len())
	var rowErrors []string

	for i, row := range table.Rows {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return products, rowErrors, newStageError(StageCritical, "processing canceled: "+err.Error(), err)
			}
		}

		result := validation.ValidateProduct(validation.RawRow{
			Name:     cell(row, domain.FieldProduct),
			Brand:    cell(row, domain.FieldBrand),
			Quantity: cell(row, domain.FieldQuantity),
			UnitCost: cell(row, domain.FieldValue),
		})
		if !result.OK() {
			rowErrors = append(rowErrors, validation.NewRowError(row.Index, result.Message()).Error())
			continue
		}
		products = append(products, result.Product)
	}

	return products, rowErrors, nil
}

// Summarize aggregates products. Money is summed exactly and rounded to
// two decimals.
func Summarize(products []domain.Product, currency string) domain.ProductSummary {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(decimal.NewFromFloat(p.Total))
	}

	summary := domain.ProductSummary{
		TotalProducts: len(products),
		TotalValue:    numeric.RoundDecimal2(total),
		Currency:      currency,
	}
	if len(products) > 0 {
		summary.AveragePrice = numeric.RoundDecimal2(total.Div(decimal.NewFromInt(int64(len(products)))))
	}
	return summary
}

// preview returns at most n leading entries, never nil.
func preview(errs []string, n int) []string {
	if n < 0 || n > len(errs) {
		n = len(errs)
	}
	out := make([]string, n)
	copy(out, errs[:n])
	return out
}
