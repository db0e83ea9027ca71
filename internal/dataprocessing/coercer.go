package dataprocessing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"movieweek/pkg/contracts/domain"
)

// ErrNoValidDates is returned when a non-empty table has no row with a
// parseable release date.
var ErrNoValidDates = errors.New("no row has a parseable date")

// dateLayouts are tried in order. Month-first is assumed for slash dates
// without a leading year.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"2006.1.2",
	"2006. 1. 2.",
	"2006. 1. 2",
	"20060102",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02 15:04:05",
	"2006-1-2",
	"2006/1/2",
	"01-02-06",
	"1/2/2006",
	"1/2/06",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseDate parses a date cell. Empty and "NaN" cells do not parse.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "NaN" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ParseCount parses a comma-grouped count. Decimal text is truncated and
// negative values are clamped to zero. ok is false whenever the result is a
// substitute zero rather than the cell's own value.
func ParseCount(s string) (n int64, ok bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		if v < 0 {
			return 0, false
		}
		return v, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 {
		return 0, false
	}
	if f < 0 {
		return 0, false
	}
	return int64(f), true
}

// Coerce converts the normalized table into clean records. Rows whose date
// does not parse are dropped. Attendance and revenue cells that do not parse
// become zero and the row is kept.
func Coerce(df dataframe.DataFrame, hasCategory bool) ([]domain.CleanRecord, domain.LoadStats, error) {
	stats := domain.LoadStats{RowsRead: df.Nrow()}
	if df.Nrow() == 0 {
		return nil, stats, nil
	}

	dates, err := column(df, ColDate)
	if err != nil {
		return nil, stats, err
	}
	titles, err := column(df, ColTitle)
	if err != nil {
		return nil, stats, err
	}
	attendance, err := column(df, ColAttendance)
	if err != nil {
		return nil, stats, err
	}
	revenue, err := column(df, ColRevenue)
	if err != nil {
		return nil, stats, err
	}
	var genres []string
	if hasCategory {
		if genres, err = column(df, ColGenre); err != nil {
			return nil, stats, err
		}
	}

	records := make([]domain.CleanRecord, 0, len(dates))
	for i, raw := range dates {
		date, ok := ParseDate(raw)
		if !ok {
			stats.RowsDroppedByDate++
			continue
		}

		att, ok := ParseCount(attendance[i])
		if !ok {
			stats.AttendanceZeroed++
		}
		rev, ok := ParseCount(revenue[i])
		if !ok {
			stats.RevenueZeroed++
		}

		rec := domain.CleanRecord{
			Date:       date,
			Title:      strings.TrimSpace(titles[i]),
			Attendance: att,
			Revenue:    rev,
			Weekday:    domain.WeekdayOf(date),
		}
		if genres != nil {
			rec.Category = cleanCategory(genres[i])
		}
		records = append(records, rec)
	}

	stats.RowsKept = len(records)
	if len(records) == 0 {
		return nil, stats, fmt.Errorf("%w: %d rows read", ErrNoValidDates, stats.RowsRead)
	}
	return records, stats, nil
}

func column(df dataframe.DataFrame, name string) ([]string, error) {
	col := df.Col(name)
	if col.Err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return col.Records(), nil
}

func cleanCategory(s string) string {
	s = strings.TrimSpace(s)
	if s == "NaN" {
		return ""
	}
	return s
}
