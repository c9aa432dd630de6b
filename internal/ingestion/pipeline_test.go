package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"

	"landedcost/internal/columns"
	"landedcost/internal/config"
	"landedcost/internal/dataprocessing"
	"landedcost/internal/shared/testutil"
	"landedcost/pkg/contracts/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestPipeline(t *testing.T, options ...PipelineOption) *Pipeline {
	t.Helper()
	cfg := config.Default().Ingestion
	logger := testutil.NewTestLogger(t)
	mapper := columns.NewMapper(columns.Options{Patterns: cfg.ColumnPatterns}, logger)
	return NewPipeline(OptionsFromConfig(cfg), mapper, logger, options...)
}

func csvUpload(t *testing.T, name string, lines ...string) Upload {
	return Upload{
		Filename: name,
		Data:     []byte(strings.Join(lines, "\n") + "\n"),
		TempDir:  t.TempDir(),
	}
}

func requireStage(t *testing.T, err error, stage Stage) *StageError {
	t.Helper()
	require.Error(t, err)
	var se *StageError
	require.True(t, errors.As(err, &se), "expected *StageError, got %T", err)
	require.Equal(t, stage, se.Stage, se.Message)
	return se
}

func TestPipelineProcessXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Produto", "Marca", "Quantidade", "Valor Unitário"},
		{"Pneu 175/70 R13", "Pirelli", 4, 250.5},
		{"Câmara de ar", "Goodyear", 10, 35},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	out, err := newTestPipeline(t).Process(context.Background(), Upload{
		Filename: "produtos.xlsx",
		Data:     buf.Bytes(),
		TempDir:  t.TempDir(),
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.Product{
		{Name: "Pneu 175/70 R13", Brand: "Pirelli", Quantity: 4, UnitCost: 250.5, Total: 1002},
		{Name: "Câmara de ar", Brand: "Goodyear", Quantity: 10, UnitCost: 35, Total: 350},
	}, out.Products)
	assert.Equal(t, domain.ProductSummary{TotalProducts: 2, TotalValue: 1352, AveragePrice: 676, Currency: "USD"}, out.Summary)

	info := out.ProcessingInfo
	assert.Equal(t, "xlsx", info.FileReadMethod)
	assert.Equal(t, "valor unitário", info.ColumnsDetected[domain.FieldValue])
	assert.Equal(t, 2, info.TotalRowsProcessed)
	assert.Equal(t, 2, info.ValidProducts)
	assert.Equal(t, 0, info.ErrorsCount)
	assert.NotNil(t, info.Errors)
	assert.False(t, info.Truncated)
}

func TestPipelineProcessPartialRowFailures(t *testing.T) {
	lines := []string{"produto;marca;quantidade;valor"}
	for i := 0; i < 10; i++ {
		qty := "1"
		if i%3 == 2 {
			qty = "0"
		}
		lines = append(lines, fmt.Sprintf("Item %d;Marca;%s;10,00", i, qty))
	}

	out, err := newTestPipeline(t).Process(context.Background(), csvUpload(t, "produtos.csv", lines...))
	require.NoError(t, err)

	assert.Len(t, out.Products, 7)
	assert.Equal(t, 7, out.Summary.TotalProducts)
	assert.Equal(t, 70.0, out.Summary.TotalValue)
	assert.Equal(t, 10.0, out.Summary.AveragePrice)

	info := out.ProcessingInfo
	assert.Equal(t, "csv", info.FileReadMethod)
	assert.Equal(t, 10, info.TotalRowsProcessed)
	assert.Equal(t, 3, info.ErrorsCount)
	assert.Equal(t, []string{
		"row 4: quantity must be greater than zero",
		"row 7: quantity must be greater than zero",
		"row 10: quantity must be greater than zero",
	}, info.Errors)
}

func TestPipelineProcessErrorPreviewLimits(t *testing.T) {
	lines := []string{"produto,quantidade,valor"}
	for i := 0; i < 12; i++ {
		lines = append(lines, fmt.Sprintf("Item %d,0,5", i))
	}
	lines = append(lines, "Valid,1,5")

	p := newTestPipeline(t)

	out, err := p.Process(context.Background(), csvUpload(t, "a.csv", lines...))
	require.NoError(t, err)
	assert.Equal(t, 12, out.ProcessingInfo.ErrorsCount)
	assert.Len(t, out.ProcessingInfo.Errors, 5)

	_, err = p.Process(context.Background(), csvUpload(t, "a.csv", lines[:len(lines)-1]...))
	se := requireStage(t, err, StageProductValidation)
	assert.ErrorIs(t, err, ErrProductValidation)
	assert.Len(t, se.Details["errors"], 10)
	assert.Equal(t, 12, se.Details["total_errors"])
}

func TestPipelineProcessRowNumbersSkipBlankLines(t *testing.T) {
	out, err := newTestPipeline(t).Process(context.Background(), csvUpload(t, "a.csv",
		"produto;quantidade;valor",
		"Pneu;1;10",
		";;",
		"x;1;10",
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"row 4: invalid product name"}, out.ProcessingInfo.Errors)
}

func TestPipelineProcessFailures(t *testing.T) {
	tests := []struct {
		name     string
		upload   func(t *testing.T) Upload
		stage    Stage
		sentinel error
		check    func(t *testing.T, se *StageError)
	}{
		{
			name: "unsupported extension",
			upload: func(t *testing.T) Upload {
				return csvUpload(t, "produtos.pdf", "produto;quantidade;valor", "a;1;1")
			},
			stage:    StageFileValidation,
			sentinel: ErrFileValidation,
		},
		{
			name: "empty file",
			upload: func(t *testing.T) Upload {
				return Upload{Filename: "produtos.csv", TempDir: t.TempDir()}
			},
			stage:    StageFileValidation,
			sentinel: ErrFileValidation,
		},
		{
			name: "oversized file",
			upload: func(t *testing.T) Upload {
				return Upload{Filename: "big.csv", Data: make([]byte, 50<<20+1), TempDir: t.TempDir()}
			},
			stage:    StageFileValidation,
			sentinel: ErrFileValidation,
		},
		{
			name: "unreadable content",
			upload: func(t *testing.T) Upload {
				return Upload{Filename: "broken.xlsx", Data: []byte{0x00, 0x01, 0x02}, TempDir: t.TempDir()}
			},
			stage:    StageFileReading,
			sentinel: ErrRead,
		},
		{
			name: "header only",
			upload: func(t *testing.T) Upload {
				return csvUpload(t, "a.csv", "produto;quantidade;valor")
			},
			stage:    StageDataCleaning,
			sentinel: ErrDataCleaning,
		},
		{
			name: "required columns missing",
			upload: func(t *testing.T) Upload {
				return csvUpload(t, "a.csv", "foo;bar", "1;2")
			},
			stage:    StageColumnDetection,
			sentinel: ErrColumnDetection,
			check: func(t *testing.T, se *StageError) {
				assert.Equal(t, []string{"foo", "bar"}, se.Details["available_columns"])
				assert.Equal(t, domain.ColumnMapping{}, se.Details["detected_mapping"])
				assert.Contains(t, se.Message, "produto")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := newTestPipeline(t).Process(context.Background(), tt.upload(t))
			assert.Nil(t, out)
			se := requireStage(t, err, tt.stage)
			assert.ErrorIs(t, err, tt.sentinel)
			if tt.check != nil {
				tt.check(t, se)
			}
		})
	}
}

type panickingReader struct{}

func (panickingReader) Method() string { return "panic" }

func (panickingReader) Read(context.Context, []byte) ([][]string, error) {
	panic("decoder exploded")
}

func TestPipelineProcessRecoversPanics(t *testing.T) {
	p := newTestPipeline(t, WithReaders(func(_ string, logger *slog.Logger) *dataprocessing.Chain {
		return dataprocessing.NewChain(logger, panickingReader{})
	}))

	_, err := p.Process(context.Background(), csvUpload(t, "a.csv", "produto;quantidade;valor", "a;1;1"))
	se := requireStage(t, err, StageCritical)
	assert.ErrorIs(t, err, ErrCritical)
	assert.Contains(t, se.Message, "decoder exploded")
}

func TestPipelineProcessTruncatesAtMaxRows(t *testing.T) {
	lines := []string{"produto,quantidade,valor"}
	for i := 0; i < 10050; i++ {
		lines = append(lines, fmt.Sprintf("Item %d,1,2", i))
	}

	out, err := newTestPipeline(t).Process(context.Background(), csvUpload(t, "big.csv", lines...))
	require.NoError(t, err)
	assert.Len(t, out.Products, 10000)
	assert.Equal(t, 10000, out.ProcessingInfo.TotalRowsProcessed)
	assert.True(t, out.ProcessingInfo.Truncated)
	assert.Equal(t, 20000.0, out.Summary.TotalValue)
}

func TestPipelineProcessCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPipeline(t).Process(ctx, csvUpload(t, "a.csv", "produto;quantidade;valor", "a;1;1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStageOf(t *testing.T) {
	assert.Equal(t, StageDataCleaning, StageOf(fmt.Errorf("wrapped: %w", newStageError(StageDataCleaning, "x", nil))))
	assert.Equal(t, StageCritical, StageOf(errors.New("plain")))
}

func TestSummarize(t *testing.T) {
	got := Summarize([]domain.Product{{Total: 0.1}, {Total: 0.2}, {Total: 0.05}}, "BRL")
	assert.Equal(t, domain.ProductSummary{TotalProducts: 3, TotalValue: 0.35, AveragePrice: 0.12, Currency: "BRL"}, got)

	empty := Summarize(nil, "USD")
	assert.Equal(t, 0, empty.TotalProducts)
	assert.Zero(t, empty.AveragePrice)
}
