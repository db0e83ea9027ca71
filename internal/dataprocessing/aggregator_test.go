package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieweek/pkg/contracts/domain"
)

// rec builds a clean record on the given day of January 2024 (1 is a Monday).
func rec(day int, title string, attendance int64, category string) domain.CleanRecord {
	date := time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
	return domain.CleanRecord{
		Date:       date,
		Title:      title,
		Attendance: attendance,
		Revenue:    attendance * 10,
		Weekday:    domain.WeekdayOf(date),
		Category:   category,
	}
}

func TestAggregate_Empty(t *testing.T) {
	tests := []struct {
		name        string
		hasCategory bool
	}{
		{name: "without category", hasCategory: false},
		{name: "with category", hasCategory: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, err := Aggregate(nil, tt.hasCategory)
			require.NoError(t, err)

			require.Len(t, agg.Weekdays, domain.DaysInWeek)
			for i, s := range agg.Weekdays {
				assert.Equal(t, domain.Weekday(i), s.Weekday)
				assert.Zero(t, s.Count)
				assert.Zero(t, s.TotalAttendance)
				assert.Zero(t, s.TotalRevenue)
				assert.True(t, math.IsNaN(s.MeanAttendance))
			}
			assert.Empty(t, agg.MaxByDay)
			assert.Empty(t, agg.MinByDay)

			if tt.hasCategory {
				require.NotNil(t, agg.Categories)
				assert.Empty(t, agg.Categories.Categories)
				assert.Len(t, agg.Categories.Weekdays, domain.DaysInWeek)
			} else {
				assert.Nil(t, agg.Categories)
			}
		})
	}
}

func TestAggregate_WeekdayProperties(t *testing.T) {
	records := []domain.CleanRecord{
		rec(1, "a", 1000, ""),
		rec(1, "b", 3000, ""),
		rec(1, "c", 0, ""),
		rec(2, "d", 500, ""),
		rec(6, "e", 2000, ""),
		rec(7, "f", 800, ""),
		rec(8, "g", 200, ""),
	}

	agg, err := Aggregate(records, false)
	require.NoError(t, err)
	require.Len(t, agg.Weekdays, domain.DaysInWeek)

	var sumTotals, sumRecords int64
	count := make(map[domain.Weekday]int)
	for _, r := range records {
		sumRecords += r.Attendance
		count[r.Weekday]++
	}

	for i, s := range agg.Weekdays {
		day := domain.Weekday(i)
		assert.Equal(t, day, s.Weekday)
		assert.GreaterOrEqual(t, s.TotalAttendance, int64(0))
		assert.Equal(t, count[day], s.Count)
		sumTotals += s.TotalAttendance

		if s.Count == 0 {
			assert.True(t, math.IsNaN(s.MeanAttendance), "%s mean should be NaN", day)
			continue
		}
		assert.InDelta(t, float64(s.TotalAttendance)/float64(s.Count), s.MeanAttendance, 1e-9)
	}
	assert.Equal(t, sumRecords, sumTotals)

	mon := agg.Weekdays[domain.Monday]
	assert.Equal(t, 4, mon.Count)
	assert.Equal(t, int64(4200), mon.TotalAttendance)
	assert.Equal(t, int64(42000), mon.TotalRevenue)
	assert.InDelta(t, 1050.0, mon.MeanAttendance, 1e-9)
	assert.True(t, math.IsNaN(agg.Weekdays[domain.Wednesday].MeanAttendance))
}

func TestAggregate_Extrema(t *testing.T) {
	records := []domain.CleanRecord{
		rec(1, "first-low", 100, ""),
		rec(1, "first-high", 900, ""),
		rec(1, "second-high", 900, ""),
		rec(1, "second-low", 100, ""),
		rec(8, "middle", 500, ""),
		rec(3, "only", 42, ""),
	}

	agg, err := Aggregate(records, false)
	require.NoError(t, err)

	require.Len(t, agg.MaxByDay, 2)
	require.Len(t, agg.MinByDay, 2)

	assert.Equal(t, domain.Extremum{Weekday: domain.Monday, Title: "first-high", Attendance: 900}, agg.MaxByDay[0])
	assert.Equal(t, domain.Extremum{Weekday: domain.Monday, Title: "first-low", Attendance: 100}, agg.MinByDay[0])
	assert.Equal(t, domain.Extremum{Weekday: domain.Wednesday, Title: "only", Attendance: 42}, agg.MaxByDay[1])
	assert.Equal(t, agg.MaxByDay[1], agg.MinByDay[1])

	for _, day := range domain.AllWeekdays() {
		hi, okHi := extremumFor(agg.MaxByDay, day)
		lo, okLo := extremumFor(agg.MinByDay, day)
		assert.Equal(t, okHi, okLo)
		if !okHi {
			continue
		}
		for _, r := range records {
			if r.Weekday != day {
				continue
			}
			assert.GreaterOrEqual(t, hi.Attendance, r.Attendance)
			assert.LessOrEqual(t, lo.Attendance, r.Attendance)
		}
	}
}

func extremumFor(list []domain.Extremum, day domain.Weekday) (domain.Extremum, bool) {
	a := domain.Analysis{MaxByDay: list}
	return a.Max(day)
}

func TestAggregate_CategoryMatrix(t *testing.T) {
	records := []domain.CleanRecord{
		rec(1, "a", 1000, "Drama"),
		rec(1, "b", 3000, "Action"),
		rec(2, "c", 500, "Drama"),
		rec(8, "d", 250, "Drama"),
		rec(2, "e", 700, ""),
	}

	agg, err := Aggregate(records, true)
	require.NoError(t, err)
	require.NotNil(t, agg.Categories)

	m := agg.Categories
	assert.Equal(t, []string{"Action", "Drama"}, m.Categories)
	assert.Equal(t, domain.AllWeekdays(), m.Weekdays)
	require.Len(t, m.Rows, 2)

	assert.Equal(t, [domain.DaysInWeek]int64{3000, 0, 0, 0, 0, 0, 0}, m.Rows[0])
	assert.Equal(t, [domain.DaysInWeek]int64{1250, 500, 0, 0, 0, 0, 0}, m.Rows[1])
	assert.Equal(t, int64(500), m.Cell("Drama", domain.Tuesday))
	assert.Zero(t, m.Cell("Action", domain.Sunday))

	// The uncategorised record still counts toward the weekday totals.
	assert.Equal(t, int64(1200), agg.Weekdays[domain.Tuesday].TotalAttendance)
}

func TestAggregate_CategoryMatrixAllBlank(t *testing.T) {
	agg, err := Aggregate([]domain.CleanRecord{rec(1, "a", 10, ""), rec(2, "b", 20, "")}, true)
	require.NoError(t, err)

	require.NotNil(t, agg.Categories)
	assert.Empty(t, agg.Categories.Categories)
	assert.Empty(t, agg.Categories.Rows)
	assert.Equal(t, int64(10), agg.Weekdays[domain.Monday].TotalAttendance)
}

func TestAggregate_IgnoresCategoryWhenAbsent(t *testing.T) {
	agg, err := Aggregate([]domain.CleanRecord{rec(1, "a", 10, "Drama")}, false)
	require.NoError(t, err)
	assert.Nil(t, agg.Categories)
}

func TestAggregate_ExactLargeTotals(t *testing.T) {
	const big = int64(1)<<53 + 1

	first := rec(1, "대작", big, "액션")
	first.Revenue = big
	second := rec(8, "소품", 1, "액션")
	second.Revenue = 1

	agg, err := Aggregate([]domain.CleanRecord{first, second}, true)
	require.NoError(t, err)

	monday := agg.Weekdays[domain.Monday]
	assert.Equal(t, 2, monday.Count)
	assert.Equal(t, big+1, monday.TotalAttendance)
	assert.Equal(t, big+1, monday.TotalRevenue)
	assert.Equal(t, big+1, agg.Categories.Cell("액션", domain.Monday))

	hi, ok := extremumFor(agg.MaxByDay, domain.Monday)
	require.True(t, ok)
	assert.Equal(t, big, hi.Attendance)
}
