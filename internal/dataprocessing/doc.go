// Package dataprocessing turns a daily box-office export into weekday
// aggregates.
//
// # Stages
//
//  1. Loader: reads CP949 delimited text (8 banner lines, 22 positional
//     columns) or a workbook (7 banner rows, then a header row) into a
//     table of text cells. Remote sources are downloaded by a Fetcher first.
//  2. Normalize: keeps release date, title, attendance, revenue and the
//     optional genre column, and renames the release date to 날짜.
//  3. Coerce: parses dates and counts. A row with an unparseable date is
//     dropped; an unparseable count becomes 0 and the row stays.
//  4. Aggregate: totals, means, revenue and extrema per weekday, plus the
//     genre by weekday matrix when a genre column exists.
//
// # Usage
//
//	src, err := dataprocessing.SourceFromFile("boxoffice.csv")
//	if err != nil {
//	    return err
//	}
//	analysis, err := dataprocessing.NewPipeline(logger).Run(ctx, src)
//	if errors.Is(err, dataprocessing.ErrLoadFailed) {
//	    // bad file, bad network or schema mismatch
//	}
//
// # Error Handling
//
// Failures before aggregation are *errors.AppError values typed LOAD,
// NETWORK, PARSING, SCHEMA or TOO_LARGE, and all of them match ErrLoadFailed.
// No partial Analysis is ever returned.
package dataprocessing
