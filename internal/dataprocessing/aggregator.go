package dataprocessing

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"movieweek/pkg/contracts/domain"
)

// Columns of the index frame gota groups on. Each row points back at its
// record, and sums are taken over the int64 fields of those records so totals
// stay exact beyond float64 precision.
const (
	colRow      = "row"
	colWeekday  = "weekday"
	colCategory = "category"
)

// noCategory marks a record whose category is blank.
const noCategory = -1

// Aggregates is the weekday breakdown of one set of clean records.
type Aggregates struct {
	Weekdays   []domain.WeekdayStat
	MaxByDay   []domain.Extremum
	MinByDay   []domain.Extremum
	Categories *domain.CategoryMatrix
}

// Aggregate groups records by weekday. Every weekday is present in Weekdays,
// Monday first, with a NaN mean when it has no records. Extrema are reported
// only for weekdays with records and the earliest record wins ties. The
// category matrix is built only when hasCategory is set; its categories are
// sorted and blank categories are left out.
func Aggregate(records []domain.CleanRecord, hasCategory bool) (Aggregates, error) {
	agg := emptyAggregates(hasCategory)
	if len(records) == 0 {
		return agg, nil
	}

	categories, index := distinctCategories(records)
	df := recordFrame(records, index)
	if df.Err != nil {
		return Aggregates{}, fmt.Errorf("failed to build aggregate frame: %w", df.Err)
	}

	groups := df.GroupBy(colWeekday)
	if groups.Err != nil {
		return Aggregates{}, fmt.Errorf("failed to group by weekday: %w", groups.Err)
	}

	weekdayTotals(groups, records, agg.Weekdays)
	agg.MaxByDay, agg.MinByDay = weekdayExtrema(groups, records)

	if hasCategory {
		matrix, err := categoryMatrix(df, records, categories)
		if err != nil {
			return Aggregates{}, err
		}
		agg.Categories = matrix
	}

	return agg, nil
}

func emptyAggregates(hasCategory bool) Aggregates {
	agg := Aggregates{
		Weekdays: make([]domain.WeekdayStat, domain.DaysInWeek),
		MaxByDay: []domain.Extremum{},
		MinByDay: []domain.Extremum{},
	}
	for _, day := range domain.AllWeekdays() {
		agg.Weekdays[day] = domain.WeekdayStat{Weekday: day, MeanAttendance: math.NaN()}
	}
	if hasCategory {
		agg.Categories = newCategoryMatrix(nil)
	}
	return agg
}

func newCategoryMatrix(categories []string) *domain.CategoryMatrix {
	if categories == nil {
		categories = []string{}
	}
	return &domain.CategoryMatrix{
		Categories: categories,
		Weekdays:   domain.AllWeekdays(),
		Rows:       make([][domain.DaysInWeek]int64, len(categories)),
	}
}

func distinctCategories(records []domain.CleanRecord) ([]string, map[string]int) {
	seen := make(map[string]bool)
	for _, r := range records {
		if r.Category != "" {
			seen[r.Category] = true
		}
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	index := make(map[string]int, len(categories))
	for i, c := range categories {
		index[c] = i
	}
	return categories, index
}

func recordFrame(records []domain.CleanRecord, categoryIndex map[string]int) dataframe.DataFrame {
	n := len(records)
	rows := make([]int, n)
	days := make([]int, n)
	cats := make([]int, n)

	for i, r := range records {
		rows[i] = i
		days[i] = int(r.Weekday)
		cats[i] = noCategory
		if idx, ok := categoryIndex[r.Category]; ok {
			cats[i] = idx
		}
	}

	return dataframe.New(
		series.New(rows, series.Int, colRow),
		series.New(days, series.Int, colWeekday),
		series.New(cats, series.Int, colCategory),
	)
}

// groupRows returns the record indices held by one gota group.
func groupRows(g dataframe.DataFrame) []int {
	rows, err := g.Col(colRow).Int()
	if err != nil {
		return nil
	}
	return rows
}

// groupKey reads an integer key column from the first row of a group.
func groupKey(g dataframe.DataFrame, col string) int {
	return int(g.Col(col).Elem(0).Float())
}

func weekdayTotals(groups *dataframe.Groups, records []domain.CleanRecord, stats []domain.WeekdayStat) {
	for _, g := range groups.GetGroups() {
		if g.Nrow() == 0 {
			continue
		}
		day := domain.Weekday(groupKey(g, colWeekday))
		if !day.Valid() {
			continue
		}

		rows := groupRows(g)
		var attendance, revenue int64
		for _, row := range rows {
			attendance += records[row].Attendance
			revenue += records[row].Revenue
		}

		stats[day].Count = len(rows)
		stats[day].TotalAttendance = attendance
		stats[day].TotalRevenue = revenue
		if len(rows) > 0 {
			stats[day].MeanAttendance = float64(attendance) / float64(len(rows))
		}
	}
}

func weekdayExtrema(groups *dataframe.Groups, records []domain.CleanRecord) (maxByDay, minByDay []domain.Extremum) {
	var maxRow, minRow [domain.DaysInWeek]int
	for i := range maxRow {
		maxRow[i], minRow[i] = -1, -1
	}

	for _, g := range groups.GetGroups() {
		rows := groupRows(g)
		if len(rows) == 0 {
			continue
		}
		day := domain.Weekday(groupKey(g, colWeekday))
		if !day.Valid() {
			continue
		}

		hi, lo := rows[0], rows[0]
		for _, row := range rows[1:] {
			att := records[row].Attendance
			if att > records[hi].Attendance || (att == records[hi].Attendance && row < hi) {
				hi = row
			}
			if att < records[lo].Attendance || (att == records[lo].Attendance && row < lo) {
				lo = row
			}
		}
		maxRow[day], minRow[day] = hi, lo
	}

	maxByDay = []domain.Extremum{}
	minByDay = []domain.Extremum{}
	for _, day := range domain.AllWeekdays() {
		if maxRow[day] < 0 {
			continue
		}
		maxByDay = append(maxByDay, extremum(records[maxRow[day]]))
		minByDay = append(minByDay, extremum(records[minRow[day]]))
	}
	return maxByDay, minByDay
}

func extremum(r domain.CleanRecord) domain.Extremum {
	return domain.Extremum{Weekday: r.Weekday, Title: r.Title, Attendance: r.Attendance}
}

func categoryMatrix(df dataframe.DataFrame, records []domain.CleanRecord, categories []string) (*domain.CategoryMatrix, error) {
	matrix := newCategoryMatrix(categories)
	if len(categories) == 0 {
		return matrix, nil
	}

	labelled := df.Filter(dataframe.F{
		Colname:    colCategory,
		Comparator: series.GreaterEq,
		Comparando: 0,
	})
	if labelled.Err != nil {
		return nil, fmt.Errorf("failed to filter categorised rows: %w", labelled.Err)
	}

	groups := labelled.GroupBy(colCategory, colWeekday)
	if groups.Err != nil {
		return nil, fmt.Errorf("failed to group by category and weekday: %w", groups.Err)
	}

	for _, g := range groups.GetGroups() {
		if g.Nrow() == 0 {
			continue
		}
		c, d := groupKey(g, colCategory), domain.Weekday(groupKey(g, colWeekday))
		if c < 0 || c >= len(categories) || !d.Valid() {
			continue
		}
		var sum int64
		for _, row := range groupRows(g) {
			sum += records[row].Attendance
		}
		matrix.Rows[c][d] = sum
	}
	return matrix, nil
}
