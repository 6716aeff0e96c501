package core

// convert.go provides the cell-level conversions used by the parser and by
// column type inference.
//
// These functions decide what a raw field "looks like":
//   - Numbers: plain decimal and scientific notation, surrounding spaces ignored
//   - Dates: ISO 8601 / RFC 3339 timestamps and the common US, EU and ISO layouts
//   - Booleans: only the exact literals true/false/TRUE/FALSE
//
// Hex, Infinity and NaN are deliberately not numbers, so a numeric cell is
// always finite.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// leadingZeroRegex matches numeric-looking text whose integer part starts with
// a zero that a number would drop ("007", "-0123"), but not "0" or "0.5".
var leadingZeroRegex = regexp.MustCompile(`^[+-]?0\d`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		time.RFC3339Nano, time.RFC3339,
		"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"2006-01-02", "2006/01/02", "2006.01.02", "2006-01", "2006/01",
		"Jan 2, 2006", "January 2, 2006", "2 Jan 2006", "2 January 2006",
		"Mon, 02 Jan 2006 15:04:05 MST", time.RFC1123Z,
	}
)

// ParseNumber parses s as a finite number. Surrounding whitespace is ignored;
// the empty string is not a number.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// IsNumeric reports whether s would be stored as a number by the parser.
func IsNumeric(s string) bool {
	_, ok := ParseNumber(s)
	return ok
}

// HasLeadingZero reports whether s is numeric text whose leading zeros would be
// lost by converting it to a number (ZIP codes, account numbers).
func HasLeadingZero(s string) bool {
	s = strings.TrimSpace(s)
	return leadingZeroRegex.MatchString(s) && IsNumeric(s)
}

// ParseDate parses s as a calendar date or timestamp.
// Supports multiple date formats and handles 2-digit years with pivot.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}

	// Try 2-digit year layouts with pivot year adjustment
	currentYear := time.Now().Year()
	pivotYear := currentYear + TwoDigitYearPivot

	for _, layout := range twoDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// IsBooleanLiteral reports whether s is one of true, false, TRUE, FALSE.
func IsBooleanLiteral(s string) bool {
	switch s {
	case "true", "false", "TRUE", "FALSE":
		return true
	}
	return false
}

// ConvertField applies dynamic typing to one raw field: the empty string
// becomes Null, numeric text becomes a Number, anything else stays Text.
// Boolean and date literals are not converted.
func ConvertField(raw string) Scalar {
	if raw == "" {
		return Null()
	}
	if f, ok := ParseNumber(raw); ok {
		return Number(f)
	}
	return Text(raw)
}

// MakeHeaderIndex creates a HeaderIndex from a header row.
// When a name repeats, the first position wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	return idx
}

// uniqueHeaders renames repeated header names by appending _1, _2, ...
// so that every column name in a dataset is distinct. Blank header cells are
// named by position ("column_1" for the first column) so they can be mapped.
func uniqueHeaders(header []string) []string {
	names := make([]string, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = "column_" + strconv.Itoa(i+1)
		}
		names[i] = h
	}

	out := make([]string, len(names))
	seen := make(map[string]bool, len(names))
	for _, h := range names {
		seen[h] = true
	}
	counts := make(map[string]int, len(names))
	used := make(map[string]bool, len(names))
	for i, h := range names {
		name := h
		if used[name] {
			for {
				counts[h]++
				name = h + "_" + strconv.Itoa(counts[h])
				if !used[name] && !seen[name] {
					break
				}
			}
		}
		used[name] = true
		out[i] = name
	}
	return out
}
