package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
)

// Format identifies the layout of a box-office source.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Origin labels where a source came from in logs and metrics.
type Origin string

const (
	OriginFile   Origin = "file"
	OriginUpload Origin = "upload"
	OriginRemote Origin = "remote"
)

var (
	// ErrUnsupportedFormat is returned for anything other than .csv or .xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrColumnCount is returned when a delimited record is wider than the fixed layout.
	ErrColumnCount = errors.New("unexpected number of fields")
	// ErrNoHeader is returned when a workbook ends before its header row.
	ErrNoHeader = errors.New("header row not found")
)

// Source is one input to the pipeline. Remote sources carry no Data; the
// pipeline fetches it.
type Source struct {
	Name   string
	Format Format
	Origin Origin
	Data   []byte
}

// FormatFromFilename picks the format from the file extension, ignoring case.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(name))
	}
}

// SourceFromFile reads a local export into a Source.
func SourceFromFile(path string) (Source, error) {
	format, err := FormatFromFilename(path)
	if err != nil {
		return Source{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Source{
		Name:   filepath.Base(path),
		Format: format,
		Origin: OriginFile,
		Data:   data,
	}, nil
}

// Loader turns export bytes into a table whose cells are all text.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "loader"))}
}

// Load dispatches on the source format.
func (l *Loader) Load(ctx context.Context, src Source) (dataframe.DataFrame, error) {
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, err
	}

	var (
		df  dataframe.DataFrame
		err error
	)
	switch src.Format {
	case FormatCSV:
		df, err = l.LoadCSV(src.Data)
	case FormatXLSX:
		df, err = l.LoadXLSX(src.Data)
	default:
		return dataframe.DataFrame{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, src.Format)
	}
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	l.logger.DebugContext(ctx, "Loaded box-office table",
		slog.String("source", src.Name),
		slog.String("format", string(src.Format)),
		slog.Int("rows", df.Nrow()),
		slog.Int("columns", df.Ncol()))

	return df, nil
}

// LoadCSV decodes CP949 text, skips the banner lines and reads the remaining
// records against the fixed positional layout. Undecodable bytes become
// U+FFFD. Short records are padded with empty cells.
func (l *Loader) LoadCSV(data []byte) (dataframe.DataFrame, error) {
	decoded, err := korean.EUCKR.NewDecoder().Bytes(data)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to decode cp949: %w", err)
	}

	r := csv.NewReader(strings.NewReader(skipLines(string(decoded), CSVSkipLines)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("failed to parse delimited data: %w", err)
		}
		if len(record) > len(CSVColumns) {
			line, _ := r.FieldPos(0)
			return dataframe.DataFrame{}, fmt.Errorf("%w: line %d has %d fields, want %d",
				ErrColumnCount, line+CSVSkipLines, len(record), len(CSVColumns))
		}
		rows = append(rows, record)
	}

	return textFrame(CSVColumns, rows)
}

// LoadXLSX reads the first sheet, skips the banner rows and uses the next row
// as the header. Blank header cells become "Unnamed: <i>" and repeated names
// get a ".<n>" suffix. Fully blank data rows are ignored.
func (l *Loader) LoadXLSX(data []byte) (dataframe.DataFrame, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: workbook has no sheets", ErrNoHeader)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) <= XLSXSkipRows {
		return dataframe.DataFrame{}, fmt.Errorf("%w: sheet %q has %d rows", ErrNoHeader, sheets[0], len(rows))
	}

	header := rows[XLSXSkipRows]
	width := len(header)
	var records [][]string
	for _, row := range rows[XLSXSkipRows+1:] {
		if isBlankRow(row) {
			continue
		}
		if len(row) > width {
			width = len(row)
		}
		records = append(records, row)
	}
	if width == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: row %d is empty", ErrNoHeader, XLSXSkipRows+1)
	}

	l.logger.Debug("Read workbook sheet",
		slog.String("sheet", sheets[0]),
		slog.Int("data_rows", len(records)))

	return textFrame(headerNames(header, width), records)
}

// textFrame builds a frame of string columns, padding short rows.
func textFrame(names []string, rows [][]string) (dataframe.DataFrame, error) {
	cols := make([]series.Series, len(names))
	for j, name := range names {
		values := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				values[i] = row[j]
			}
		}
		cols[j] = series.New(values, series.String, name)
	}

	df := dataframe.New(cols...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to build table: %w", df.Err)
	}
	return df, nil
}

func headerNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := range names {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}

func skipLines(text string, n int) string {
	for i := 0; i < n; i++ {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			return ""
		}
		text = text[idx+1:]
	}
	return text
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
