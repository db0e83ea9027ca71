// Package exporter writes box-office analyses as CSV.
//
// CSVWriter handles the encoding (optional UTF-8 BOM so spreadsheets pick
// up the Korean labels) and AnalysisExporter flattens an analysis into one
// of two tables: the weekday summary or the genre by weekday matrix.
//
//	exp := exporter.NewAnalysisExporter(exporter.NewCSVWriter(logger))
//	err := exp.Export(os.Stdout, analysis, exporter.SectionWeekday)
package exporter
