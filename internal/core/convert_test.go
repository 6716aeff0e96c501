package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"42", 42, true},
		{"-3.5", -3.5, true},
		{"+7", 7, true},
		{".5", 0.5, true},
		{"5.", 5, true},
		{"1e3", 1000, true},
		{"2.5E-2", 0.025, true},
		{"  12  ", 12, true},
		{"007", 7, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"1,000", 0, false},
		{"$5", 0, false},
		{"0x1F", 0, false},
		{"Infinity", 0, false},
		{"NaN", 0, false},
		{"1e999", 0, false},
		{"1.2.3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestHasLeadingZero(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"00501", true},
		{"-0123", true},
		{" 012 ", true},
		{"0", false},
		{"0.5", false},
		{"100", false},
		{"0abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, HasLeadingZero(tt.input))
		})
	}
}

func TestParseDate(t *testing.T) {
	valid := []string{
		"2024-01-15",
		"2024/01/15",
		"1/15/2024",
		"01/15/2024",
		"Jan 15, 2024",
		"15 Jan 2024",
		"2024-01-15T10:30:00Z",
		"2024-01-15T10:30:00+09:00",
		"2024-01-15 10:30:00",
		"1/15/24",
	}
	for _, s := range valid {
		t.Run(s, func(t *testing.T) {
			_, ok := ParseDate(s)
			assert.True(t, ok)
		})
	}

	invalid := []string{"", "hello", "2024-13-45", "13/45/2024", "12345"}
	for _, s := range invalid {
		t.Run("invalid "+s, func(t *testing.T) {
			_, ok := ParseDate(s)
			assert.False(t, ok)
		})
	}
}

func TestParseDate_TwoDigitYearPivot(t *testing.T) {
	got, ok := ParseDate("1/15/24")
	require.True(t, ok)
	assert.Equal(t, 2024, got.Year())

	farFuture := (time.Now().Year() + TwoDigitYearPivot + 1) % 100
	got, ok = ParseDate("1/15/" + twoDigits(farFuture))
	require.True(t, ok)
	assert.LessOrEqual(t, got.Year(), time.Now().Year()+TwoDigitYearPivot)
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}

func TestIsBooleanLiteral(t *testing.T) {
	for _, s := range []string{"true", "false", "TRUE", "FALSE"} {
		assert.True(t, IsBooleanLiteral(s), s)
	}
	for _, s := range []string{"True", "yes", "1", "t", ""} {
		assert.False(t, IsBooleanLiteral(s), s)
	}
}

func TestConvertField(t *testing.T) {
	assert.Equal(t, Null(), ConvertField(""))
	assert.Equal(t, Number(1.5), ConvertField("1.5"))
	assert.Equal(t, Text(" "), ConvertField(" "))
	assert.Equal(t, Text("true"), ConvertField("true"))
	assert.Equal(t, Text("hello"), ConvertField("hello"))
}

func TestUniqueHeaders(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"no duplicates", []string{"a", "b"}, []string{"a", "b"}},
		{"repeated", []string{"a", "a", "a"}, []string{"a", "a_1", "a_2"}},
		{"suffix already taken", []string{"a", "a", "a_1"}, []string{"a", "a_2", "a_1"}},
		{"blank names are positional", []string{"", "b", "  "}, []string{"column_1", "b", "column_3"}},
		{"positional name already taken", []string{"column_2", ""}, []string{"column_2", "column_2_1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uniqueHeaders(tt.input))
		})
	}
}

func TestScalar_String(t *testing.T) {
	tests := []struct {
		name  string
		value Scalar
		want  string
	}{
		{"null", Null(), "null"},
		{"integer", Number(3), "3"},
		{"decimal", Number(1.5), "1.5"},
		{"negative", Number(-0.25), "-0.25"},
		{"large", Number(1e21), "1e+21"},
		{"small", Number(1.5e-7), "1.5e-7"},
		{"text", Text("Seoul"), "Seoul"},
		{"bool", Bool(true), "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.String())
		})
	}
}

func TestScalar_Float(t *testing.T) {
	tests := []struct {
		name   string
		value  Scalar
		want   float64
		wantOK bool
	}{
		{"number", Number(2.5), 2.5, true},
		{"numeric text", Text(" 7 "), 7, true},
		{"text", Text("abc"), 0, false},
		{"true", Bool(true), 1, true},
		{"false", Bool(false), 0, true},
		{"null", Null(), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Float()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScalar_MapKey(t *testing.T) {
	seen := map[Scalar]int{}
	for _, v := range []Scalar{Number(1), Number(1), Text("1"), Null(), Null(), Bool(true)} {
		seen[v]++
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, 2, seen[Number(1)])
	assert.Equal(t, 2, seen[Null()])
}

func TestRowObject_MarshalJSON(t *testing.T) {
	ds := parse(t, "b,a,c\n1,x,\n")
	rows := ds.RowObjects(0, 10)
	require.Len(t, rows, 1)

	data, err := json.Marshal(rows[0])
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":"x","c":null}`, string(data))
}

func TestDataset_RowObjectsWindow(t *testing.T) {
	ds := parse(t, "a\n1\n2\n3\n")

	assert.Len(t, ds.RowObjects(0, 2), 2)
	assert.Len(t, ds.RowObjects(2, 10), 1)
	assert.Empty(t, ds.RowObjects(5, 10))
	assert.Empty(t, ds.RowObjects(0, 0))
	assert.Len(t, ds.RowObjects(-3, 1), 1)
}
