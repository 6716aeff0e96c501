package core

// transform.go maps a Dataset and an AxisMapping to 3D points.
//
// Both variants are pure: they never modify the dataset or the mapping and
// always allocate fresh output, so calling them twice with the same inputs
// yields identical results.

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultTargetRange is the interval normalized coordinates are mapped into.
var DefaultTargetRange = AxisRange{Min: -10, Max: 10}

// ToPoints converts every row whose x, y and z cells coerce to finite numbers
// into a point. Rows that fail are dropped, so OriginalIndex values are
// increasing but not necessarily contiguous. An incomplete mapping or an
// unknown column yields an empty slice.
func ToPoints(ds *Dataset, m AxisMapping) []Point3D {
	if ds == nil || !m.Complete() {
		return []Point3D{}
	}
	xi, yi, zi := ds.ColumnIndex(m.X), ds.ColumnIndex(m.Y), ds.ColumnIndex(m.Z)
	if xi < 0 || yi < 0 || zi < 0 {
		return []Point3D{}
	}
	ci := ds.ColumnIndex(m.Color)

	points := make([]Point3D, 0, len(ds.Rows))
	for i, row := range ds.Rows {
		x, okX := finiteValue(row[xi])
		y, okY := finiteValue(row[yi])
		z, okZ := finiteValue(row[zi])
		if !okX || !okY || !okZ {
			continue
		}
		p := Point3D{X: x, Y: y, Z: z, OriginalIndex: i}
		if ci >= 0 {
			p.Label = row[ci].String()
		}
		points = append(points, p)
	}
	return points
}

// ToNormalizedPoints runs ToPoints and rescales each axis independently from
// its observed range into target. A degenerate axis (min == max) maps every
// point to the midpoint of target. The returned ranges are the observed,
// pre-normalization ranges; with no points they are all zero.
func ToNormalizedPoints(ds *Dataset, m AxisMapping, target AxisRange) NormalizedPoints {
	raw := ToPoints(ds, m)
	if len(raw) == 0 {
		return NormalizedPoints{Points: []Point3D{}}
	}

	xs, ys, zs := splitAxes(raw)
	ranges := Ranges{X: rangeOf(xs), Y: rangeOf(ys), Z: rangeOf(zs)}

	points := make([]Point3D, len(raw))
	for i, p := range raw {
		points[i] = Point3D{
			X:             normalizeInto(p.X, ranges.X, target),
			Y:             normalizeInto(p.Y, ranges.Y, target),
			Z:             normalizeInto(p.Z, ranges.Z, target),
			OriginalX:     floatPtr(p.X),
			OriginalY:     floatPtr(p.Y),
			OriginalZ:     floatPtr(p.Z),
			Label:         p.Label,
			OriginalColor: p.Label,
			OriginalIndex: p.OriginalIndex,
		}
	}
	return NormalizedPoints{Points: points, Ranges: ranges}
}

// PointRanges returns the per-axis ranges of points, all zero when empty.
func PointRanges(points []Point3D) Ranges {
	if len(points) == 0 {
		return Ranges{}
	}
	xs, ys, zs := splitAxes(points)
	return Ranges{X: rangeOf(xs), Y: rangeOf(ys), Z: rangeOf(zs)}
}

// finiteValue coerces a cell for plotting. Null, non-numeric text and
// non-finite numbers are rejected.
func finiteValue(v Scalar) (float64, bool) {
	f, ok := v.Float()
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func splitAxes(points []Point3D) (xs, ys, zs []float64) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	zs = make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}
	return xs, ys, zs
}

// rangeOf returns the range of a non-empty slice.
func rangeOf(values []float64) AxisRange {
	return AxisRange{Min: floats.Min(values), Max: floats.Max(values)}
}

func normalizeInto(v float64, from, to AxisRange) float64 {
	t, ok := unitFraction(v, from.Min, from.Max)
	if !ok {
		return midpoint(to.Min, to.Max)
	}
	return lerpSpan(to.Min, to.Max, t)
}
