// Package validation checks uploads and product rows before they reach
// the allocation engine.
package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Upload rejection causes, matchable with errors.Is.
var (
	ErrNoFile               = errors.New("no file provided")
	ErrEmptyFile            = errors.New("file is empty")
	ErrFileTooLarge         = errors.New("file too large")
	ErrUnsupportedExtension = errors.New("unsupported file format")
	ErrTemporaryFile        = errors.New("temporary office lock file")
)

// FileRules are the limits an upload must satisfy.
type FileRules struct {
	MaxSize           int64
	AllowedExtensions []string
}

// FileValidator checks uploads against FileRules
type FileValidator struct {
	rules  FileRules
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(rules FileRules, logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	exts := make([]string, len(rules.AllowedExtensions))
	for i, ext := range rules.AllowedExtensions {
		exts[i] = strings.ToLower(ext)
	}
	rules.AllowedExtensions = exts

	return &FileValidator{
		rules:  rules,
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateUpload checks an upload by name and size. Checks run in order:
// presence, size limit, emptiness, extension.
func (v *FileValidator) ValidateUpload(filename string, size int64) error {
	if strings.TrimSpace(filename) == "" {
		v.logger.Warn("Upload rejected", slog.String("reason", "missing file"))
		return ErrNoFile
	}

	if size > v.rules.MaxSize {
		v.logger.Warn("Upload rejected",
			slog.String("file", filename),
			slog.Int64("size", size),
			slog.Int64("max_size", v.rules.MaxSize))
		return fmt.Errorf("%w: maximum is %.1fMB", ErrFileTooLarge, float64(v.rules.MaxSize)/1024/1024)
	}

	if size == 0 {
		v.logger.Warn("Upload rejected",
			slog.String("file", filename),
			slog.String("reason", "empty file"))
		return ErrEmptyFile
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(v.rules.AllowedExtensions, ext) {
		v.logger.Warn("Upload rejected",
			slog.String("file", filename),
			slog.String("extension", ext))
		return fmt.Errorf("%w: use %s", ErrUnsupportedExtension, strings.Join(v.rules.AllowedExtensions, ", "))
	}

	if strings.HasPrefix(filepath.Base(filename), "~$") {
		v.logger.Warn("Skipping temporary Excel file", slog.String("file", filename))
		return ErrTemporaryFile
	}

	v.logger.Debug("Upload validated",
		slog.String("file", filename),
		slog.Int64("size", size))
	return nil
}

// ValidateFile checks that path is a readable regular file and then
// applies ValidateUpload to it.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist", slog.String("file", path))
		return fmt.Errorf("%w: %s does not exist", ErrNoFile, path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file", slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	return v.ValidateUpload(path, info.Size())
}
