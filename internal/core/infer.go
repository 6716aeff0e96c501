package core

// infer.go decides each column's semantic type and computes its summary.
//
// Types come from a sample of the first InferenceSampleSize rows. Bounds and
// distinct counts always scan every row, so they are exact.

import "math"

const (
	// InferenceSampleSize is how many leading rows are inspected to pick a column type.
	InferenceSampleSize = 100

	// InferenceThreshold is the fraction of non-empty sample values that must
	// match a type for the column to take that type. The comparison is strict.
	InferenceThreshold = 0.8

	sampleValueCount = 5
)

// InferColumnType classifies a sample of cells. Checks run in the order
// number, date, boolean; the first one above the threshold wins and string
// is the fallback. Null and empty-string cells are ignored.
func InferColumnType(sample []Scalar) ColumnType {
	var valid []Scalar
	for _, v := range sample {
		if !v.IsEmpty() {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return ColumnString
	}
	total := float64(len(valid))

	if float64(countMatching(valid, isNumericCell))/total > InferenceThreshold {
		return ColumnNumber
	}
	if float64(countMatching(valid, isDateCell))/total > InferenceThreshold {
		return ColumnDate
	}
	if float64(countMatching(valid, isBooleanCell))/total > InferenceThreshold {
		return ColumnBoolean
	}
	return ColumnString
}

func countMatching(values []Scalar, match func(Scalar) bool) int {
	n := 0
	for _, v := range values {
		if match(v) {
			n++
		}
	}
	return n
}

func isNumericCell(v Scalar) bool {
	switch v.Kind() {
	case KindNumber:
		return true
	case KindText:
		s, _ := v.Str()
		return IsNumeric(s)
	}
	return false
}

func isDateCell(v Scalar) bool {
	s, ok := v.Str()
	if !ok {
		return false
	}
	_, ok = ParseDate(s)
	return ok
}

func isBooleanCell(v Scalar) bool {
	if _, ok := v.Boolean(); ok {
		return true
	}
	s, ok := v.Str()
	return ok && IsBooleanLiteral(s)
}

// inferColumns builds ColumnInfo for every column of rows.
// textCols forces a column to string; zeros carries the leading-zero flags
// collected while converting fields.
func inferColumns(names []string, rows []Record, textCols, zeros []bool) []ColumnInfo {
	sampleSize := min(InferenceSampleSize, len(rows))
	columns := make([]ColumnInfo, len(names))

	for ci, name := range names {
		sample := make([]Scalar, sampleSize)
		for ri := 0; ri < sampleSize; ri++ {
			sample[ri] = rows[ri][ci]
		}

		info := ColumnInfo{
			Name:         name,
			Type:         ColumnString,
			SampleValues: append([]Scalar(nil), sample[:min(sampleValueCount, len(sample))]...),
		}
		if ci >= len(textCols) || !textCols[ci] {
			info.Type = InferColumnType(sample)
		}
		if ci < len(zeros) {
			info.LeadingZeros = zeros[ci]
		}

		if info.Type == ColumnNumber {
			info.MinValue, info.MaxValue = numericBounds(rows, ci)
		}
		info.UniqueCount = uniqueCount(rows, ci)

		columns[ci] = info
	}
	return columns
}

// numericBounds scans every row for number cells. Text cells are ignored even
// when they look numeric. Both results are nil when no number cell exists.
func numericBounds(rows []Record, ci int) (*float64, *float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	found := false
	for _, row := range rows {
		f, ok := row[ci].Num()
		if !ok || math.IsNaN(f) {
			continue
		}
		found = true
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	if !found {
		return nil, nil
	}
	return floatPtr(lo), floatPtr(hi)
}

// uniqueCount counts distinct cells. Null is one distinct value, and a number
// never equals the text that spells it.
func uniqueCount(rows []Record, ci int) int {
	seen := make(map[Scalar]struct{})
	for _, row := range rows {
		seen[row[ci]] = struct{}{}
	}
	return len(seen)
}
