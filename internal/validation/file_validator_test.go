package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputFile(t *testing.T) {
	tmpDir := t.TempDir()
	validator := NewFileValidator(nil)

	salesFile := filepath.Join(tmpDir, "sales_train.csv")
	require.NoError(t, os.WriteFile(salesFile, []byte("date,store_id\n"), 0644))

	emptyFile := filepath.Join(tmpDir, "empty.csv")
	require.NoError(t, os.WriteFile(emptyFile, nil, 0644))

	tests := []struct {
		name    string
		path    string
		exts    []string
		wantErr string
	}{
		{name: "valid file", path: salesFile},
		{name: "valid file with extension check", path: salesFile, exts: []string{".csv"}},
		{name: "missing file", path: filepath.Join(tmpDir, "nope.csv"), wantErr: "does not exist"},
		{name: "empty file", path: emptyFile, wantErr: "is empty"},
		{name: "directory instead of file", path: tmpDir, wantErr: "is a directory"},
		{name: "wrong extension", path: salesFile, exts: []string{".xlsx"}, wantErr: "unexpected extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateInputFile(tt.path, tt.exts...)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateInputDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	validator := NewFileValidator(nil)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "a.xlsx"), []byte("x"), 0644))

	assert.NoError(t, validator.ValidateInputDirectory(tmpDir, "*.xlsx"))
	assert.NoError(t, validator.ValidateInputDirectory(tmpDir, ""))

	err := validator.ValidateInputDirectory(filepath.Join(tmpDir, "missing"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	err = validator.ValidateInputDirectory(filepath.Join(tmpDir, "a.xlsx"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestValidateOutputDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	validator := NewFileValidator(nil)

	target := filepath.Join(tmpDir, "artifacts", "reports")
	require.NoError(t, validator.ValidateOutputDirectory(target))
	assert.DirExists(t, target)

	// Probe file must not be left behind.
	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
