package core

// stats.go provides the descriptive statistics used for column summaries.
//
// The arithmetic is delegated to montanaflynn/stats. These wrappers pin down
// the edge cases: an empty input yields 0 from the scalar functions and an
// empty DataStatistics from SummaryStatistics, never NaN or an error.

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}

// Median returns the middle value after sorting; for an even count it is the
// mean of the two middle values. Returns 0 for an empty slice.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Median(values)
	if err != nil {
		return 0
	}
	return m
}

// StdDev returns the population standard deviation (divides by N).
// Returns 0 for an empty slice.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sd, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return 0
	}
	return sd
}

// CalculateQuartiles uses the exclusive method: Q1 and Q3 are the medians of
// the lower and upper halves, and for an odd count the middle element belongs
// to neither half. A half with no elements has median 0, so a single value
// yields Q1 = Q3 = 0.
func CalculateQuartiles(values []float64) Quartiles {
	switch len(values) {
	case 0:
		return Quartiles{}
	case 1:
		return Quartiles{Q2: values[0]}
	}
	q, err := stats.Quartile(values)
	if err != nil {
		return Quartiles{}
	}
	return Quartiles{Q1: q.Q1, Q2: q.Q2, Q3: q.Q3}
}

// FiniteValues returns the finite entries of values, in order.
func FiniteValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// SummaryStatistics computes every statistic over the finite entries of values.
// With no finite entries the result is empty (all fields nil).
func SummaryStatistics(values []float64) DataStatistics {
	finite := FiniteValues(values)
	if len(finite) == 0 {
		return DataStatistics{}
	}

	lo, _ := stats.Min(finite)
	hi, _ := stats.Max(finite)
	q := CalculateQuartiles(finite)

	return DataStatistics{
		Mean:   floatPtr(Mean(finite)),
		Median: floatPtr(Median(finite)),
		StdDev: floatPtr(StdDev(finite)),
		Min:    floatPtr(lo),
		Max:    floatPtr(hi),
		Q1:     floatPtr(q.Q1),
		Q3:     floatPtr(q.Q3),
	}
}

// ColumnValues returns the numeric values of one column, coercing text and
// booleans the same way the point transformer does. Cells that do not coerce
// to a finite number are skipped.
func ColumnValues(ds *Dataset, column string) ([]float64, bool) {
	ci := ds.ColumnIndex(column)
	if ci < 0 {
		return nil, false
	}
	out := make([]float64, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		if f, ok := finiteValue(row[ci]); ok {
			out = append(out, f)
		}
	}
	return out, true
}
