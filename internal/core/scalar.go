package core

// scalar.go defines the tagged cell value stored in every parsed record.
//
// A cell is exactly one of Null, Number, Text or Bool. The tag is decided once
// by the parser and never changes; the column-level type in ColumnInfo is a
// summary over many cells and may disagree with individual tags (a "number"
// column can still contain Text cells).

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind is the runtime tag of a Scalar.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Scalar is a single cell value. The zero value is Null.
//
// Scalar is comparable, so it can be used directly as a map key when counting
// distinct values.
type Scalar struct {
	kind Kind
	num  float64
	text string
	b    bool
}

// Null returns the null scalar.
func Null() Scalar { return Scalar{} }

// Number returns a numeric scalar.
func Number(f float64) Scalar { return Scalar{kind: KindNumber, num: f} }

// Text returns a string scalar.
func Text(s string) Scalar { return Scalar{kind: KindText, text: s} }

// Bool returns a boolean scalar.
func Bool(b bool) Scalar { return Scalar{kind: KindBool, b: b} }

// Kind returns the runtime tag.
func (s Scalar) Kind() Kind { return s.kind }

// IsNull reports whether the cell is null.
func (s Scalar) IsNull() bool { return s.kind == KindNull }

// IsEmpty reports whether the cell carries no usable value: null or the empty string.
func (s Scalar) IsEmpty() bool {
	return s.kind == KindNull || (s.kind == KindText && s.text == "")
}

// Num returns the value of a Number scalar.
func (s Scalar) Num() (float64, bool) {
	if s.kind != KindNumber {
		return 0, false
	}
	return s.num, true
}

// Str returns the value of a Text scalar.
func (s Scalar) Str() (string, bool) {
	if s.kind != KindText {
		return "", false
	}
	return s.text, true
}

// Boolean returns the value of a Bool scalar.
func (s Scalar) Boolean() (bool, bool) {
	if s.kind != KindBool {
		return false, false
	}
	return s.b, true
}

// Float coerces the cell to a number: numbers pass through, text is parsed
// with the same rules the parser uses for numeric fields, booleans become 1 or 0.
// Null and unparseable text report false.
func (s Scalar) Float() (float64, bool) {
	switch s.kind {
	case KindNumber:
		return s.num, true
	case KindText:
		return ParseNumber(s.text)
	case KindBool:
		if s.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// String renders the cell the way a label is displayed: null becomes "null",
// booleans "true"/"false" and numbers use the shortest round-trip form.
func (s Scalar) String() string {
	switch s.kind {
	case KindNumber:
		return formatNumber(s.num)
	case KindText:
		return s.text
	case KindBool:
		return strconv.FormatBool(s.b)
	default:
		return "null"
	}
}

// MarshalJSON encodes the cell as a JSON null, number, string or boolean.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case KindNumber:
		if math.IsNaN(s.num) || math.IsInf(s.num, 0) {
			return []byte("null"), nil
		}
		return []byte(strconv.FormatFloat(s.num, 'g', -1, 64)), nil
	case KindText:
		return json.Marshal(s.text)
	case KindBool:
		return json.Marshal(s.b)
	default:
		return []byte("null"), nil
	}
}

// formatNumber mirrors the usual display of a double: plain decimal between
// 1e-6 and 1e21, exponent form outside that window.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + sign + exp
}
