package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAt(t *testing.T, dir, name string, mod time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestNewDiscovery_NormalizesExtensions(t *testing.T) {
	d := NewDiscovery("", "XLSX", ".csv", " ", ".Xls")

	assert.True(t, d.Accepts("pedido.xlsx"))
	assert.True(t, d.Accepts("PEDIDO.CSV"))
	assert.True(t, d.Accepts("cotizacion.xls"))
	assert.False(t, d.Accepts("quote.pdf"))
	assert.False(t, d.Accepts("noextension"))
}

func TestFindQuotes(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		files map[string]time.Time
		want  []string
	}{
		{
			name: "oldest first",
			files: map[string]time.Time{
				"b.xlsx": base.Add(2 * time.Hour),
				"a.csv":  base.Add(time.Hour),
				"c.xls":  base,
			},
			want: []string{"c.xls", "a.csv", "b.xlsx"},
		},
		{
			name: "skips other formats and lock files",
			files: map[string]time.Time{
				"quote.xlsx":   base,
				"~$quote.xlsx": base,
				".hidden.csv":  base,
				"notes.txt":    base,
				"scan.pdf":     base,
			},
			want: []string{"quote.xlsx"},
		},
		{
			name: "ties broken by name",
			files: map[string]time.Time{
				"z.csv": base,
				"m.csv": base,
			},
			want: []string{"m.csv", "z.csv"},
		},
		{
			name:  "empty directory",
			files: map[string]time.Time{},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			inbox := filepath.Join(root, "inbox")
			require.NoError(t, os.MkdirAll(filepath.Join(inbox, "archive.xlsx"), 0755))
			for name, mod := range tt.files {
				writeAt(t, inbox, name, mod)
			}

			found, err := NewDiscovery(root, ".xlsx", ".xls", ".csv").FindQuotes("inbox")
			require.NoError(t, err)

			var names []string
			for _, f := range found {
				names = append(names, f.Name)
				assert.Equal(t, filepath.Join(inbox, f.Name), f.Path)
				assert.Equal(t, int64(1), f.Size)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFindQuotes_AbsoluteAndMissing(t *testing.T) {
	dir := t.TempDir()
	writeAt(t, dir, "pedido.csv", time.Now())

	found, err := NewDiscovery("/somewhere/else", "csv").FindQuotes(dir)
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = NewDiscovery(dir, "csv").FindQuotes("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read directory")
}

func TestLatest(t *testing.T) {
	_, ok := Latest(nil)
	assert.False(t, ok)

	now := time.Now()
	latest, ok := Latest([]FileInfo{
		{Name: "old", ModTime: now.Add(-time.Hour)},
		{Name: "new", ModTime: now},
		{Name: "mid", ModTime: now.Add(-time.Minute)},
	})
	require.True(t, ok)
	assert.Equal(t, "new", latest.Name)
}
