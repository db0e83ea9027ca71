package exporter

import (
	"math"
	"strconv"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal
// places. NaN becomes an empty cell.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}
