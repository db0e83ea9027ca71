package domain

import (
	"encoding/json"
	"math"
	"time"
)

// CleanRecord is one box-office row after date and numeric normalization.
// Date is always valid and Attendance/Revenue are never negative.
type CleanRecord struct {
	Date       time.Time `json:"date"`
	Title      string    `json:"title"`
	Attendance int64     `json:"attendance" validate:"min=0"`
	Revenue    int64     `json:"revenue" validate:"min=0"`
	Weekday    Weekday   `json:"weekday"`
	Category   string    `json:"category,omitempty"`
}

// WeekdayStat holds the grouped aggregates for one weekday bucket.
// MeanAttendance is NaN when Count is zero, which is distinct from a mean of zero.
type WeekdayStat struct {
	Weekday         Weekday
	Count           int
	TotalAttendance int64
	MeanAttendance  float64
	TotalRevenue    int64
}

// HasData reports whether at least one record fell into this bucket.
func (s WeekdayStat) HasData() bool {
	return s.Count > 0
}

// MarshalJSON encodes a NaN mean as null since JSON has no NaN.
func (s WeekdayStat) MarshalJSON() ([]byte, error) {
	var mean *float64
	if !math.IsNaN(s.MeanAttendance) {
		m := s.MeanAttendance
		mean = &m
	}
	return json.Marshal(struct {
		Weekday         Weekday  `json:"weekday"`
		Count           int      `json:"count"`
		TotalAttendance int64    `json:"total_attendance"`
		MeanAttendance  *float64 `json:"mean_attendance"`
		TotalRevenue    int64    `json:"total_revenue"`
	}{
		Weekday:         s.Weekday,
		Count:           s.Count,
		TotalAttendance: s.TotalAttendance,
		MeanAttendance:  mean,
		TotalRevenue:    s.TotalRevenue,
	})
}

// Extremum is the record with the highest or lowest attendance within a weekday.
type Extremum struct {
	Weekday    Weekday `json:"weekday"`
	Title      string  `json:"title"`
	Attendance int64   `json:"attendance"`
}

// CategoryMatrix is attendance summed per (category, weekday).
// Rows follows Categories; every row has DaysInWeek columns, zero filled.
type CategoryMatrix struct {
	Categories []string            `json:"categories"`
	Weekdays   []Weekday           `json:"weekdays"`
	Rows       [][DaysInWeek]int64 `json:"rows"`
}

// Row returns the attendance row for category, or false if the category was not observed.
func (m *CategoryMatrix) Row(category string) ([DaysInWeek]int64, bool) {
	if m == nil {
		return [DaysInWeek]int64{}, false
	}
	for i, c := range m.Categories {
		if c == category {
			return m.Rows[i], true
		}
	}
	return [DaysInWeek]int64{}, false
}

// Cell returns the attendance for one (category, weekday) pair, zero when absent.
func (m *CategoryMatrix) Cell(category string, day Weekday) int64 {
	row, ok := m.Row(category)
	if !ok || !day.Valid() {
		return 0
	}
	return row[day]
}

// LoadStats describes what the coercion stage kept, dropped and zero-filled.
type LoadStats struct {
	RowsRead          int `json:"rows_read"`
	RowsKept          int `json:"rows_kept"`
	RowsDroppedByDate int `json:"rows_dropped_by_date"`
	AttendanceZeroed  int `json:"attendance_zeroed"`
	RevenueZeroed     int `json:"revenue_zeroed"`
}

// Analysis is the full aggregate set produced by one pipeline run.
// It is either returned whole or not at all.
type Analysis struct {
	Source      string          `json:"source"`
	Stats       LoadStats       `json:"stats"`
	Weekdays    []WeekdayStat   `json:"weekdays"`
	MaxByDay    []Extremum      `json:"max_by_weekday"`
	MinByDay    []Extremum      `json:"min_by_weekday"`
	HasCategory bool            `json:"has_category"`
	Categories  *CategoryMatrix `json:"category_weekday,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Stat returns the aggregate for one weekday.
func (a *Analysis) Stat(day Weekday) WeekdayStat {
	for _, s := range a.Weekdays {
		if s.Weekday == day {
			return s
		}
	}
	return WeekdayStat{Weekday: day, MeanAttendance: math.NaN()}
}

// TotalAttendance sums attendance over all weekdays.
func (a *Analysis) TotalAttendance() int64 {
	var total int64
	for _, s := range a.Weekdays {
		total += s.TotalAttendance
	}
	return total
}

// Max returns the maximum-attendance record for day, if the day has any records.
func (a *Analysis) Max(day Weekday) (Extremum, bool) {
	return findExtremum(a.MaxByDay, day)
}

// Min returns the minimum-attendance record for day, if the day has any records.
func (a *Analysis) Min(day Weekday) (Extremum, bool) {
	return findExtremum(a.MinByDay, day)
}

func findExtremum(list []Extremum, day Weekday) (Extremum, bool) {
	for _, e := range list {
		if e.Weekday == day {
			return e, true
		}
	}
	return Extremum{}, false
}
