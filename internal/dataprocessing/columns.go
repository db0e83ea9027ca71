package dataprocessing

// Positional column names of the delimited daily box-office export.
const (
	ColRank                 = "순위"
	ColTitle                = "영화명"
	ColReleaseDate          = "개봉일"
	ColRevenue              = "매출액"
	ColRevenueShare         = "매출액_점유율"
	ColRevenueDelta         = "매출액증감"
	ColRevenueDeltaPct      = "매출액증감율"
	ColCumulativeRevenue    = "누적매출액"
	ColAttendance           = "관객수"
	ColAttendanceDelta      = "관객수증감"
	ColAttendanceDeltaPct   = "관객수증감율"
	ColCumulativeAttendance = "누적관객수"
	ColScreens              = "스크린수"
	ColShowings             = "상영횟수"
	ColPrimaryNationality   = "대표국적"
	ColNationality          = "국적"
	ColProducer             = "제작사"
	ColDistributor          = "배급사"
	ColRating               = "등급"
	ColGenre                = "장르"
	ColDirector             = "감독"
	ColCast                 = "배우"

	// ColDate is the canonical name the release date is renamed to.
	ColDate = "날짜"
)

// CSVColumns is the fixed positional layout asserted on delimited input.
var CSVColumns = []string{
	ColRank, ColTitle, ColReleaseDate, ColRevenue, ColRevenueShare,
	ColRevenueDelta, ColRevenueDeltaPct, ColCumulativeRevenue, ColAttendance,
	ColAttendanceDelta, ColAttendanceDeltaPct, ColCumulativeAttendance, ColScreens,
	ColShowings, ColPrimaryNationality, ColNationality, ColProducer,
	ColDistributor, ColRating, ColGenre, ColDirector, ColCast,
}

// RequiredColumns must be present after loading, in output order.
var RequiredColumns = []string{ColReleaseDate, ColTitle, ColAttendance, ColRevenue}

const (
	// CSVSkipLines is the number of banner lines preceding delimited data.
	CSVSkipLines = 8
	// XLSXSkipRows is the number of banner rows preceding the workbook header.
	XLSXSkipRows = 7
)
