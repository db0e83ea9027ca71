package dataprocessing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// ErrMissingColumn is returned when a required column is absent from the loaded table.
var ErrMissingColumn = errors.New("required column missing")

// Normalize keeps the release date, title, attendance and revenue columns,
// plus the genre column when the table has one, and renames the release date
// to ColDate. hasCategory reports whether the genre column was kept.
func Normalize(df dataframe.DataFrame) (out dataframe.DataFrame, hasCategory bool, err error) {
	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}

	var missing []string
	for _, name := range RequiredColumns {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return dataframe.DataFrame{}, false, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	keep := append([]string(nil), RequiredColumns...)
	if present[ColGenre] {
		keep = append(keep, ColGenre)
		hasCategory = true
	}

	out = df.Select(keep)
	if out.Err != nil {
		return dataframe.DataFrame{}, false, fmt.Errorf("failed to select columns: %w", out.Err)
	}

	out = out.Rename(ColDate, ColReleaseDate)
	if out.Err != nil {
		return dataframe.DataFrame{}, false, fmt.Errorf("failed to rename %s: %w", ColReleaseDate, out.Err)
	}

	return out, hasCategory, nil
}
