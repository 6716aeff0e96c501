package core

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var xyz = AxisMapping{X: "x", Y: "y", Z: "z"}

func TestToPoints_DropsNonNumericRows(t *testing.T) {
	ds := parse(t, "x,y,z\n1,2,3\n4,5,6\n,8,9\n")
	require.Equal(t, 3, ds.RowCount)

	points := ToPoints(ds, xyz)
	require.Len(t, points, 2)
	assert.Equal(t, 0, points[0].OriginalIndex)
	assert.Equal(t, 1, points[1].OriginalIndex)
	assert.Equal(t, 1.0, points[0].X)
	assert.Equal(t, 4.0, points[1].X)
	assert.Nil(t, points[0].OriginalX)
}

func TestToPoints_IncompleteMapping(t *testing.T) {
	ds := parse(t, "x,y,z\n1,2,3\n")

	tests := []struct {
		name    string
		mapping AxisMapping
	}{
		{"nothing set", AxisMapping{}},
		{"z missing", AxisMapping{X: "x", Y: "y"}},
		{"only color", AxisMapping{Color: "x"}},
		{"unknown column", AxisMapping{X: "x", Y: "y", Z: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := ToPoints(ds, tt.mapping)
			assert.NotNil(t, points)
			assert.Empty(t, points)
		})
	}
}

func TestToPoints_Coercion(t *testing.T) {
	ds := newDataset(
		[]ColumnInfo{{Name: "x"}, {Name: "y"}, {Name: "z"}},
		[]Record{
			{Text(" 3 "), Bool(true), Number(1)},
			{Text("abc"), Number(1), Number(1)},
			{Number(math.Inf(1)), Number(1), Number(1)},
			{Number(math.NaN()), Number(1), Number(1)},
			{Number(2), Bool(false), Null()},
		},
	)

	points := ToPoints(ds, xyz)
	require.Len(t, points, 1)
	assert.Equal(t, Point3D{X: 3, Y: 1, Z: 1, OriginalIndex: 0}, points[0])
}

func TestToPoints_Labels(t *testing.T) {
	ds := parse(t, "x,y,z,group\n1,2,3,A\n4,5,6,\n7,8,9,42\n")

	m := xyz
	m.Color = "group"
	points := ToPoints(ds, m)
	require.Len(t, points, 3)
	assert.Equal(t, "A", points[0].Label)
	assert.Equal(t, "null", points[1].Label)
	assert.Equal(t, "42", points[2].Label)

	for _, p := range ToPoints(ds, xyz) {
		assert.Empty(t, p.Label)
	}
}

func TestToPoints_OutputIsTraceable(t *testing.T) {
	var b strings.Builder
	b.WriteString("x,y,z\n")
	for i := 0; i < 50; i++ {
		switch i % 4 {
		case 0:
			fmt.Fprintf(&b, "%d,%d,%d\n", i, i, i)
		case 1:
			fmt.Fprintf(&b, "bad,%d,%d\n", i, i)
		case 2:
			fmt.Fprintf(&b, "%d.5,,%d\n", i, i)
		default:
			fmt.Fprintf(&b, "%d,%d,%de1\n", i, i, i)
		}
	}
	ds := parse(t, b.String())
	points := ToPoints(ds, xyz)

	assert.LessOrEqual(t, len(points), ds.RowCount)
	last := -1
	for _, p := range points {
		assert.Greater(t, p.OriginalIndex, last)
		last = p.OriginalIndex
		row := ds.Rows[p.OriginalIndex]
		for _, ci := range []int{0, 1, 2} {
			_, ok := finiteValue(row[ci])
			assert.True(t, ok, "row %d column %d", p.OriginalIndex, ci)
		}
	}
}

func TestToNormalizedPoints(t *testing.T) {
	ds := parse(t, "x,y,z,c\n0,10,5,a\n5,20,5,b\n10,30,5,a\n")
	m := AxisMapping{X: "x", Y: "y", Z: "z", Color: "c"}

	res := ToNormalizedPoints(ds, m, DefaultTargetRange)
	require.Len(t, res.Points, 3)

	assert.Equal(t, Ranges{
		X: AxisRange{Min: 0, Max: 10},
		Y: AxisRange{Min: 10, Max: 30},
		Z: AxisRange{Min: 5, Max: 5},
	}, res.Ranges)

	wantX := []float64{-10, 0, 10}
	wantY := []float64{-10, 0, 10}
	for i, p := range res.Points {
		assert.InDelta(t, wantX[i], p.X, 1e-12)
		assert.InDelta(t, wantY[i], p.Y, 1e-12)
		assert.Equal(t, 0.0, p.Z, "degenerate axis maps to the midpoint")
		require.NotNil(t, p.OriginalX)
		assert.Equal(t, ds.Rows[i][0], Number(*p.OriginalX))
		assert.Equal(t, 5.0, *p.OriginalZ)
		assert.Equal(t, p.Label, p.OriginalColor)
		assert.Equal(t, i, p.OriginalIndex)
	}
	assert.Equal(t, "b", res.Points[1].OriginalColor)
}

func TestToNormalizedPoints_DegenerateAxisUsesTargetMidpoint(t *testing.T) {
	ds := parse(t, "x,y,z\n1,7,3\n2,7,3\n3,7,3\n")

	res := ToNormalizedPoints(ds, xyz, AxisRange{Min: 0, Max: 20})
	for _, p := range res.Points {
		assert.Equal(t, 10.0, p.Y)
		assert.Equal(t, 10.0, p.Z)
		assert.False(t, math.IsNaN(p.X))
	}
}

func TestToNormalizedPoints_RangeWiderThanFloat64(t *testing.T) {
	ds := parse(t, "x,y,z\n-1e308,1,1\n1e308,2,2\n0,3,3\n")

	res := ToNormalizedPoints(ds, xyz, AxisRange{Min: -10, Max: 10})
	require.Len(t, res.Points, 3)
	assert.Equal(t, AxisRange{Min: -1e308, Max: 1e308}, res.Ranges.X)

	xs := []float64{res.Points[0].X, res.Points[1].X, res.Points[2].X}
	assert.Equal(t, []float64{-10, 10, 0}, xs)
	for _, p := range res.Points {
		assert.False(t, math.IsNaN(p.X) || math.IsInf(p.X, 0))
	}
}

func TestToNormalizedPoints_Empty(t *testing.T) {
	ds := parse(t, "x,y,z\na,b,c\n")

	res := ToNormalizedPoints(ds, xyz, DefaultTargetRange)
	assert.NotNil(t, res.Points)
	assert.Empty(t, res.Points)
	assert.Equal(t, Ranges{}, res.Ranges)

	res = ToNormalizedPoints(ds, AxisMapping{}, DefaultTargetRange)
	assert.Empty(t, res.Points)
}

func TestToNormalizedPoints_Idempotent(t *testing.T) {
	ds := parse(t, "x,y,z\n1.5,2,3\n-4,5,6e2\n7,8,9\n")

	first := ToNormalizedPoints(ds, xyz, DefaultTargetRange)
	second := ToNormalizedPoints(ds, xyz, DefaultTargetRange)
	assert.Equal(t, first, second)
}

func TestToNormalizedPoints_DoesNotModifyDataset(t *testing.T) {
	ds := parse(t, "x,y,z\n1,2,3\n4,5,6\n")
	before := fmt.Sprint(ds.Rows)

	ToNormalizedPoints(ds, xyz, DefaultTargetRange)
	assert.Equal(t, before, fmt.Sprint(ds.Rows))
}
