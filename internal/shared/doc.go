// Package shared holds helpers used across the movieweek packages that do not
// belong to any one layer.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and fixture builders that render daily box-office exports in
// both delimited (CP949) and workbook form:
//
//	logger, logs := testutil.NewTestLogger(t)
//	data := testutil.BoxOfficeCSV(t, testutil.SampleWeek())
//
// Nothing here should carry business logic.
package shared
