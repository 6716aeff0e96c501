package core

// mapping.go checks that a dataset can be plotted and that an axis mapping
// is usable for viewing.

import (
	"errors"
	"fmt"
	"strings"
)

// MinNumericColumns is how many number columns a dataset needs to be plotted.
const MinNumericColumns = 3

var (
	ErrMappingIncomplete = errors.New("x, y and z axes must all be selected")
	ErrMappingDuplicate  = errors.New("x, y and z axes must use different columns")
	ErrColumnNotFound    = errors.New("column not found")

	// ErrDatasetNotPlottable matches any *DatasetError.
	ErrDatasetNotPlottable = errors.New("dataset cannot be plotted")
)

// DatasetError lists why a dataset cannot be plotted.
type DatasetError struct {
	Problems []string
}

func (e *DatasetError) Error() string {
	return "dataset cannot be plotted: " + strings.Join(e.Problems, "; ")
}

// Is makes errors.Is(err, ErrDatasetNotPlottable) true.
func (e *DatasetError) Is(target error) bool { return target == ErrDatasetNotPlottable }

// NumericColumns returns the columns inferred as numbers, in header order.
func NumericColumns(columns []ColumnInfo) []ColumnInfo {
	var out []ColumnInfo
	for _, c := range columns {
		if c.Type == ColumnNumber {
			out = append(out, c)
		}
	}
	return out
}

// ValidateDataset lists every reason ds cannot be plotted. An empty result
// means the dataset is usable.
func ValidateDataset(ds *Dataset) []string {
	var problems []string
	if ds == nil || ds.RowCount == 0 {
		problems = append(problems, "The dataset has no rows")
	}
	if ds == nil || len(ds.Columns) == 0 {
		problems = append(problems, "The dataset has no columns")
	}
	if ds == nil || len(NumericColumns(ds.Columns)) < MinNumericColumns {
		problems = append(problems, fmt.Sprintf("At least %d numeric columns are required", MinNumericColumns))
	}
	return problems
}

// CheckDataset is ValidateDataset as an error: nil or a *DatasetError.
func CheckDataset(ds *Dataset) error {
	if problems := ValidateDataset(ds); len(problems) > 0 {
		return &DatasetError{Problems: problems}
	}
	return nil
}

// SuggestMapping assigns the first three numeric columns to x, y and z.
// Datasets with fewer than three numeric columns get an empty mapping.
func SuggestMapping(ds *Dataset) AxisMapping {
	if ds == nil {
		return AxisMapping{}
	}
	numeric := NumericColumns(ds.Columns)
	if len(numeric) < MinNumericColumns {
		return AxisMapping{}
	}
	return AxisMapping{X: numeric[0].Name, Y: numeric[1].Name, Z: numeric[2].Name}
}

// ValidateMapping reports whether m is ready for viewing against ds: x, y and
// z set, pairwise distinct and present; color, if set, present.
func ValidateMapping(ds *Dataset, m AxisMapping) error {
	if !m.Complete() {
		return ErrMappingIncomplete
	}
	if m.X == m.Y || m.X == m.Z || m.Y == m.Z {
		return ErrMappingDuplicate
	}
	for _, col := range []string{m.X, m.Y, m.Z, m.Color} {
		if col == "" {
			continue
		}
		if ds.ColumnIndex(col) < 0 {
			return fmt.Errorf("%w: %q", ErrColumnNotFound, col)
		}
	}
	return nil
}
