package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"landedcost/internal/ingestion"
)

// IngestionService runs uploads through the ingestion pipeline inside a
// scratch directory that lives only for the request.
type IngestionService struct {
	pipeline *ingestion.Pipeline
	tempRoot string
	logger   *slog.Logger
}

// NewIngestionService creates the service. tempRoot is the parent of the
// per-request directories; empty means os.TempDir.
func NewIngestionService(pipeline *ingestion.Pipeline, tempRoot string, logger *slog.Logger) *IngestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestionService{
		pipeline: pipeline,
		tempRoot: tempRoot,
		logger:   logger.With(slog.String("service", "ingestion")),
	}
}

// ProcessUpload ingests data. The scratch directory is removed on every
// return path.
func (s *IngestionService) ProcessUpload(ctx context.Context, filename string, data []byte) (*ingestion.Outcome, error) {
	dir, err := os.MkdirTemp(s.tempRoot, "landedcost-upload-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTempStorage, err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			s.logger.WarnContext(ctx, "Failed to remove scratch directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()))
		}
	}()

	return s.pipeline.Process(ctx, ingestion.Upload{
		Filename: filename,
		Data:     data,
		TempDir:  dir,
	})
}

// ProcessFile ingests a file from disk. The file rules are checked before
// the content is loaded.
func (s *IngestionService) ProcessFile(ctx context.Context, path string) (*ingestion.Outcome, error) {
	if err := s.pipeline.CheckFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ingestion.StageError{
			Stage:   ingestion.StageFileValidation,
			Message: fmt.Sprintf("cannot read %s: %v", filepath.Base(path), err),
			Cause:   err,
		}
	}
	return s.ProcessUpload(ctx, filepath.Base(path), data)
}
