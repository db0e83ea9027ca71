package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieweek/internal/dataprocessing"
	"movieweek/internal/shared/testutil"
)

func TestFileValidator_ValidateFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       error
		errorContains string
	}{
		{
			name: "readable file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "daily.csv")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
		},
		{
			name: "non-existent file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			errorContains: "does not exist",
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: ErrNotAFile,
		},
		{
			name: "office lock file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "~$daily.xlsx")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
			wantErr: ErrTemporaryFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			err := NewFileValidator(logger).ValidateFile(tt.setupFunc(t))

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errorContains != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateContent(t *testing.T) {
	workbook := testutil.BoxOfficeXLSX(t, testutil.SampleWeek(), true)
	delimited := testutil.BoxOfficeCSV(t, testutil.SampleWeek())

	tests := []struct {
		name    string
		format  dataprocessing.Format
		data    []byte
		wantErr error
	}{
		{name: "workbook", format: dataprocessing.FormatXLSX, data: workbook},
		{name: "cp949 export", format: dataprocessing.FormatCSV, data: delimited},
		{name: "text named xlsx", format: dataprocessing.FormatXLSX, data: delimited, wantErr: ErrContentMismatch},
		{name: "workbook named csv", format: dataprocessing.FormatCSV, data: workbook, wantErr: ErrContentMismatch},
		{name: "nul bytes in csv", format: dataprocessing.FormatCSV, data: []byte("순위\x00영화명"), wantErr: ErrContentMismatch},
		{name: "unknown format", format: dataprocessing.Format("xls"), data: workbook, wantErr: dataprocessing.ErrUnsupportedFormat},
	}

	v := NewFileValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateContent("upload", tt.format, tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "weekly")

	require.NoError(t, NewFileValidator(nil).ValidateOutputDirectory(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	_, err = os.Stat(filepath.Join(dir, ".write_test"))
	assert.True(t, os.IsNotExist(err))
}
