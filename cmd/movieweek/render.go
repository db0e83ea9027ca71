package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"movieweek/internal/config"
	apperrors "movieweek/internal/errors"
	"movieweek/pkg/contracts/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	numberStyle = cellStyle.
			Align(lipgloss.Right)

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))
)

// numbers groups digits the way the export does
var numbers = message.NewPrinter(language.Korean)

// renderAnalysis writes the weekday summary, the extremes and the genre
// matrix as terminal tables.
func renderAnalysis(w io.Writer, a *domain.Analysis) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("요일별 관객 현황"))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("%s · %s행 중 %s행 사용, 날짜 오류 %s행 제외",
		a.Source,
		formatCount(int64(a.Stats.RowsRead)),
		formatCount(int64(a.Stats.RowsKept)),
		formatCount(int64(a.Stats.RowsDroppedByDate)))))
	b.WriteString("\n")
	b.WriteString(weekdayTable(a).String())
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("요일별 최다·최소 관객 영화"))
	b.WriteString("\n")
	b.WriteString(extremaTable(a).String())
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("장르별 요일 관객수"))
	b.WriteString("\n")
	if a.HasCategory && a.Categories != nil && len(a.Categories.Categories) > 0 {
		b.WriteString(categoryTable(a.Categories).String())
	} else {
		b.WriteString(subtleStyle.Render(config.MsgGenreHint))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(subtleStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})
}

func weekdayTable(a *domain.Analysis) *table.Table {
	t := newTable("요일", "상영 건수", "관객수 합계", "평균 관객수", "매출액 합계")
	for _, day := range domain.AllWeekdays() {
		stat := a.Stat(day)
		t.Row(
			day.Label(),
			formatCount(int64(stat.Count)),
			formatCount(stat.TotalAttendance),
			formatMean(stat.MeanAttendance),
			formatCount(stat.TotalRevenue),
		)
	}
	return t
}

func extremaTable(a *domain.Analysis) *table.Table {
	t := newTable("요일", "최다 관객 영화", "관객수", "최소 관객 영화", "관객수")
	for _, day := range domain.AllWeekdays() {
		row := []string{day.Label(), "-", "-", "-", "-"}
		if hi, ok := a.Max(day); ok {
			row[1], row[2] = hi.Title, formatCount(hi.Attendance)
		}
		if lo, ok := a.Min(day); ok {
			row[3], row[4] = lo.Title, formatCount(lo.Attendance)
		}
		t.Row(row...)
	}
	return t
}

func categoryTable(m *domain.CategoryMatrix) *table.Table {
	t := newTable(append([]string{"장르"}, domain.WeekdayLabels()...)...)
	for i, category := range m.Categories {
		row := make([]string, 0, domain.DaysInWeek+1)
		row = append(row, category)
		for _, v := range m.Rows[i] {
			row = append(row, formatCount(v))
		}
		t.Row(row...)
	}
	return t
}

func formatCount(n int64) string {
	return numbers.Sprintf("%d", n)
}

// formatMean shows days without records as "-" rather than 0
func formatMean(f float64) string {
	if math.IsNaN(f) {
		return "-"
	}
	return numbers.Sprintf("%.1f", f)
}

// describeError turns a failure into the message shown on the terminal.
// Input problems carry the export format hint.
func describeError(err error) string {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return errorStyle.Render("오류: ") + err.Error()
	}

	msg := errorStyle.Render("오류: ") + appErr.Error()
	switch appErr.Type {
	case apperrors.ErrTypeLoad, apperrors.ErrTypeParsing, apperrors.ErrTypeSchema:
		msg += "\n" + subtleStyle.Render(apperrors.FormatHint)
	case apperrors.ErrTypeValidation:
		msg += "\n" + subtleStyle.Render(config.MsgUploadPrompt)
	}
	return msg
}
