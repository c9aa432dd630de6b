package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landedcost/internal/shared/testutil"
)

func newUploadValidator(t *testing.T) *FileValidator {
	return NewFileValidator(FileRules{
		MaxSize:           1024,
		AllowedExtensions: []string{".xlsx", ".XLS", ".csv"},
	}, testutil.NewTestLogger(t))
}

func TestFileValidator_ValidateUpload(t *testing.T) {
	tests := []struct {
		name          string
		filename      string
		size          int64
		wantErr       error
		errorContains string
	}{
		{name: "valid xlsx", filename: "produtos.xlsx", size: 10},
		{name: "extension is case insensitive", filename: "PRODUTOS.XLS", size: 10},
		{name: "size at limit", filename: "a.csv", size: 1024},
		{name: "missing file", filename: "  ", size: 10, wantErr: ErrNoFile},
		{name: "too large", filename: "a.csv", size: 1025, wantErr: ErrFileTooLarge, errorContains: "0.0MB"},
		{name: "empty", filename: "a.csv", size: 0, wantErr: ErrEmptyFile},
		{name: "bad extension", filename: "a.pdf", size: 10, wantErr: ErrUnsupportedExtension, errorContains: ".xlsx, .xls, .csv"},
		{name: "no extension", filename: "produtos", size: 10, wantErr: ErrUnsupportedExtension},
		{name: "lock file", filename: "~$produtos.xlsx", size: 10, wantErr: ErrTemporaryFile},
		{name: "oversize wins over extension", filename: "a.pdf", size: 4096, wantErr: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newUploadValidator(t).ValidateUpload(tt.filename, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.errorContains != "" {
				assert.Contains(t, err.Error(), tt.errorContains)
			}
		})
	}
}

func TestFileValidator_ValidateFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "existing csv",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "produtos.csv")
				require.NoError(t, os.WriteFile(file, []byte("produto;quantidade;valor\n"), 0o644))
				return file
			},
		},
		{
			name: "non-existent file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr:       true,
			errorContains: "is a directory",
		},
		{
			name: "empty file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "empty.xlsx")
				require.NoError(t, os.WriteFile(file, nil, 0o644))
				return file
			},
			wantErr:       true,
			errorContains: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newUploadValidator(t).ValidateFile(tt.setupFunc(t))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
