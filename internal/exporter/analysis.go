package exporter

import (
	"fmt"
	"io"
	"strconv"

	"movieweek/pkg/contracts/domain"
)

// Section selects which table of an analysis is exported.
type Section string

const (
	SectionWeekday  Section = "weekday"
	SectionCategory Section = "category"
)

// ParseSection validates a section name; empty means weekday.
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case "", SectionWeekday:
		return SectionWeekday, nil
	case SectionCategory:
		return SectionCategory, nil
	}
	return "", fmt.Errorf("unknown export section %q", s)
}

// WeekdayHeaders are the columns of the weekday table.
var WeekdayHeaders = []string{
	"요일", "weekday", "count", "total_attendance", "mean_attendance", "total_revenue",
	"max_title", "max_attendance", "min_title", "min_attendance",
}

// AnalysisExporter renders analyses as CSV tables
type AnalysisExporter struct {
	writer *CSVWriter
}

// NewAnalysisExporter creates an exporter backed by writer
func NewAnalysisExporter(writer *CSVWriter) *AnalysisExporter {
	return &AnalysisExporter{writer: writer}
}

// Export writes one section of a to out
func (e *AnalysisExporter) Export(out io.Writer, a *domain.Analysis, section Section) error {
	opts, err := e.Options(a, section)
	if err != nil {
		return err
	}
	return e.writer.Write(out, opts)
}

// ExportFile writes one section of a to path
func (e *AnalysisExporter) ExportFile(path string, a *domain.Analysis, section Section) error {
	opts, err := e.Options(a, section)
	if err != nil {
		return err
	}
	return e.writer.WriteFile(path, opts)
}

// Options builds the headers and records for one section
func (e *AnalysisExporter) Options(a *domain.Analysis, section Section) (WriteOptions, error) {
	if a == nil {
		return WriteOptions{}, fmt.Errorf("no analysis to export")
	}

	switch section {
	case SectionWeekday, "":
		return WriteOptions{Headers: WeekdayHeaders, Records: WeekdayRecords(a), BOMPrefix: true}, nil
	case SectionCategory:
		if !a.HasCategory || a.Categories == nil {
			return WriteOptions{}, fmt.Errorf("analysis has no genre column")
		}
		return WriteOptions{Headers: CategoryHeaders(), Records: CategoryRecords(a.Categories), BOMPrefix: true}, nil
	}
	return WriteOptions{}, fmt.Errorf("unknown export section %q", section)
}

// WeekdayRecords flattens the per-weekday aggregates, Monday first. Days
// without records leave the mean and extremum cells empty.
func WeekdayRecords(a *domain.Analysis) [][]string {
	records := make([][]string, 0, domain.DaysInWeek)
	for _, day := range domain.AllWeekdays() {
		stat := a.Stat(day)
		record := []string{
			day.Label(),
			day.String(),
			strconv.Itoa(stat.Count),
			formatInt(stat.TotalAttendance),
			formatFloat(stat.MeanAttendance),
			formatInt(stat.TotalRevenue),
			"", "", "", "",
		}
		if hi, ok := a.Max(day); ok {
			record[6], record[7] = hi.Title, formatInt(hi.Attendance)
		}
		if lo, ok := a.Min(day); ok {
			record[8], record[9] = lo.Title, formatInt(lo.Attendance)
		}
		records = append(records, record)
	}
	return records
}

// CategoryHeaders returns the genre column followed by the weekday labels.
func CategoryHeaders() []string {
	return append([]string{"장르"}, domain.WeekdayLabels()...)
}

// CategoryRecords flattens the genre by weekday matrix.
func CategoryRecords(m *domain.CategoryMatrix) [][]string {
	records := make([][]string, 0, len(m.Categories))
	for i, category := range m.Categories {
		record := make([]string, 0, domain.DaysInWeek+1)
		record = append(record, category)
		for _, v := range m.Rows[i] {
			record = append(record, formatInt(v))
		}
		records = append(records, record)
	}
	return records
}
