package testutil

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
)

// BoxOfficeRow is one data line of a daily box-office export. Values are
// kept as text so tests can feed malformed cells straight through.
type BoxOfficeRow struct {
	Title       string
	ReleaseDate string
	Revenue     string
	Attendance  string
	Genre       string
}

// csvBanner mimics the title, period and two-line header block that precedes
// data in the delimited export.
var csvBanner = []string{
	"일별 박스오피스",
	"",
	"기간 : 2024-01-01 ~ 2024-01-07",
	"※ 조회 조건 : 전체",
	"",
	"",
	"순위,영화명,개봉일,매출액,매출액,,,,관객수,,,,스크린수,상영횟수,대표국적,국적,제작사,배급사,등급,장르,감독,배우",
	",,,,점유율,증감,증감율,누적,,증감,증감율,누적,,,,,,,,,,",
}

// csvFieldCount is the positional width of every delimited data record.
const csvFieldCount = 22

// BoxOfficeCSV renders rows in the delimited export layout: eight banner
// lines followed by 22-field records, encoded as CP949.
func BoxOfficeCSV(t testing.TB, rows []BoxOfficeRow) []byte {
	t.Helper()

	var buf bytes.Buffer
	for _, line := range csvBanner {
		buf.WriteString(line)
		buf.WriteString("\r\n")
	}

	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	for i, row := range rows {
		record := make([]string, csvFieldCount)
		record[0] = strconv.Itoa(i + 1)
		record[1] = row.Title
		record[2] = row.ReleaseDate
		record[3] = row.Revenue
		record[8] = row.Attendance
		record[14] = "한국"
		record[19] = row.Genre
		if err := w.Write(record); err != nil {
			t.Fatalf("write csv fixture: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush csv fixture: %v", err)
	}

	return EncodeCP949(t, buf.String())
}

// EncodeCP949 converts UTF-8 text to the Korean code page used by the export.
func EncodeCP949(t testing.TB, s string) []byte {
	t.Helper()

	out, err := korean.EUCKR.NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("encode cp949: %v", err)
	}
	return out
}

// BoxOfficeXLSX renders rows as a workbook with seven banner rows, the header
// on row 8 and data from row 9. The genre column is only written when
// withGenre is set.
func BoxOfficeXLSX(t testing.TB, rows []BoxOfficeRow, withGenre bool) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := "일별 박스오피스"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}

	set := func(col, row int, value interface{}) {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			t.Fatalf("set %s: %v", cell, err)
		}
	}

	set(1, 1, "일별 박스오피스")
	set(1, 3, "기간 : 2024-01-01 ~ 2024-01-07")
	set(1, 5, "※ 조회 조건 : 전체")

	headers := []string{"순위", "영화명", "개봉일", "매출액", "관객수", "스크린수"}
	if withGenre {
		headers = append(headers, "장르")
	}
	for i, h := range headers {
		set(i+1, 8, h)
	}

	for i, row := range rows {
		r := 9 + i
		set(1, r, i+1)
		set(2, r, row.Title)
		set(3, r, row.ReleaseDate)
		set(4, r, row.Revenue)
		set(5, r, row.Attendance)
		set(6, r, 100)
		if withGenre {
			set(7, r, row.Genre)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// SampleWeek is a small fixture spanning Monday 2024-01-01 to Sunday
// 2024-01-07 with two genres.
func SampleWeek() []BoxOfficeRow {
	return []BoxOfficeRow{
		{Title: "서울의 봄", ReleaseDate: "2024-01-01", Revenue: "1,000,000", Attendance: "1,000", Genre: "드라마"},
		{Title: "노량", ReleaseDate: "2024-01-01", Revenue: "3,000,000", Attendance: "3,000", Genre: "액션"},
		{Title: "위시", ReleaseDate: "2024-01-02", Revenue: "500,000", Attendance: "500", Genre: "애니메이션"},
		{Title: "외계+인 2부", ReleaseDate: "2024-01-06", Revenue: "2,000,000", Attendance: "2,000", Genre: "액션"},
		{Title: "괴물", ReleaseDate: "2024-01-07", Revenue: "800,000", Attendance: "800", Genre: "드라마"},
	}
}

// Rows is shorthand for building fixtures inline: each entry is
// title, date, attendance.
func Rows(entries ...[3]string) []BoxOfficeRow {
	rows := make([]BoxOfficeRow, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, BoxOfficeRow{
			Title:       e[0],
			ReleaseDate: e[1],
			Attendance:  e[2],
			Revenue:     fmt.Sprintf("%d", (i+1)*1000),
		})
	}
	return rows
}
