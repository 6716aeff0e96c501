package core

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(values ...string) []Scalar {
	out := make([]Scalar, len(values))
	for i, v := range values {
		out[i] = ConvertField(v)
	}
	return out
}

func TestInferColumnType(t *testing.T) {
	tests := []struct {
		name   string
		sample []Scalar
		want   ColumnType
	}{
		{name: "numbers", sample: texts("1", "2.5", "-3", "1e3"), want: ColumnNumber},
		{name: "numeric text counts as number", sample: []Scalar{Text("1"), Text(" 2 "), Number(3)}, want: ColumnNumber},
		{name: "ISO dates", sample: texts("2024-01-15", "2024-02-01", "2023-12-31"), want: ColumnDate},
		{name: "US dates", sample: texts("1/15/2024", "2/1/2024", "12/31/2023"), want: ColumnDate},
		{name: "timestamps", sample: texts("2024-01-15T10:00:00Z", "2024-01-15 11:30:00"), want: ColumnDate},
		{name: "boolean literals", sample: texts("true", "false", "TRUE", "FALSE"), want: ColumnBoolean},
		{name: "bool scalars", sample: []Scalar{Bool(true), Bool(false)}, want: ColumnBoolean},
		{name: "mixed case booleans are strings", sample: texts("True", "False", "yes"), want: ColumnString},
		{name: "free text", sample: texts("apple", "banana", "cherry"), want: ColumnString},
		{name: "all null", sample: []Scalar{Null(), Null()}, want: ColumnString},
		{name: "empty sample", sample: nil, want: ColumnString},
		{name: "nulls are ignored", sample: []Scalar{Null(), Number(1), Null(), Number(2)}, want: ColumnNumber},
		{name: "exactly 80 percent numeric is not enough", sample: texts("1", "2", "3", "4", "x"), want: ColumnString},
		{name: "above 80 percent numeric", sample: texts("1", "2", "3", "4", "5", "x"), want: ColumnNumber},
		{name: "numbers are checked before dates", sample: texts("2024", "2023", "2022"), want: ColumnNumber},
		{
			name:   "number cells never count as dates",
			sample: texts("2000", "2001", "2002", "2003", "2004", "2005", "2006", "2024-01-05", "2024-01-06", "2024-01-07"),
			want:   ColumnString,
		},
		{
			name:   "date text above 80 percent",
			sample: texts("2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08", "2024-01-09", "x"),
			want:   ColumnDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferColumnType(tt.sample))
		})
	}
}

func TestInfer_SampleDecidesTypeFullScanDecidesBounds(t *testing.T) {
	var b strings.Builder
	b.WriteString("v,w\n")
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&b, "%d,a\n", i+1)
	}
	// Beyond the sample: text that would flip the type, and the extremes.
	for i := 0; i < 49; i++ {
		b.WriteString("n/a,a\n")
	}
	b.WriteString("1000,a\n")
	b.WriteString("-5,a\n")

	ds := parse(t, b.String())
	require.Equal(t, 151, ds.RowCount)

	v := column(t, ds, "v")
	assert.Equal(t, ColumnNumber, v.Type)
	require.NotNil(t, v.MinValue)
	assert.Equal(t, -5.0, *v.MinValue)
	assert.Equal(t, 1000.0, *v.MaxValue)
	// 100 + 1000 + -5 distinct numbers, plus "n/a".
	assert.Equal(t, 103, v.UniqueCount)

	assert.Equal(t, 1, column(t, ds, "w").UniqueCount)
}

func TestInfer_UniqueCountAndSamples(t *testing.T) {
	ds := parse(t, "a,b\n1,\n1,\n2,x\n2,x\n3,\n4,y\n")

	a := column(t, ds, "a")
	assert.Equal(t, 4, a.UniqueCount)
	assert.Equal(t, []Scalar{Number(1), Number(1), Number(2), Number(2), Number(3)}, a.SampleValues)

	b := column(t, ds, "b")
	assert.Equal(t, 3, b.UniqueCount, "null counts as one distinct value")
	assert.Equal(t, ColumnString, b.Type)
	assert.True(t, b.SampleValues[0].IsNull())
}

func TestInfer_NumericTextIsDistinctFromNumber(t *testing.T) {
	ds := newDataset([]ColumnInfo{{Name: "a"}}, []Record{{Number(1)}, {Text("1")}})
	cols := inferColumns([]string{"a"}, ds.Rows, nil, nil)

	assert.Equal(t, 2, cols[0].UniqueCount)
	require.NotNil(t, cols[0].MaxValue)
	assert.Equal(t, 1.0, *cols[0].MaxValue)
}
