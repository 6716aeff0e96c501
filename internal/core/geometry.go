package core

// geometry.go holds small pure helpers over points and numbers: centroid,
// bounding box, distance, range filtering and interpolation.
//
// Degenerate inputs have defined results. Empty point sets give zero vectors
// and zero-width ranges map to a midpoint, so no helper returns NaN for
// finite input.

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vec3 is an (x, y, z) triple.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BoundingBox is the axis-aligned box enclosing a point set.
type BoundingBox struct {
	Min  Vec3 `json:"min"`
	Max  Vec3 `json:"max"`
	Size Vec3 `json:"size"`
}

// AxisFilters restricts points per axis. A nil filter leaves the axis unconstrained.
type AxisFilters struct {
	X *AxisRange `json:"x,omitempty"`
	Y *AxisRange `json:"y,omitempty"`
	Z *AxisRange `json:"z,omitempty"`
}

// IsZero reports whether no axis is filtered.
func (f AxisFilters) IsZero() bool {
	return f.X == nil && f.Y == nil && f.Z == nil
}

// Validate checks every set filter with ValidateNumericRange.
func (f AxisFilters) Validate() error {
	for _, r := range []*AxisRange{f.X, f.Y, f.Z} {
		if r == nil {
			continue
		}
		if err := ValidateNumericRange(r.Min, r.Max); err != nil {
			return err
		}
	}
	return nil
}

// Centroid returns the per-axis mean, or the origin for no points.
func Centroid(points []Point3D) Vec3 {
	if len(points) == 0 {
		return Vec3{}
	}
	var sx, sy, sz float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
		sz += p.Z
	}
	n := float64(len(points))
	return Vec3{X: sx / n, Y: sy / n, Z: sz / n}
}

// Bounds returns the bounding box of points, all zero for no points.
func Bounds(points []Point3D) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}
	r := PointRanges(points)
	return BoundingBox{
		Min:  Vec3{X: r.X.Min, Y: r.Y.Min, Z: r.Z.Min},
		Max:  Vec3{X: r.X.Max, Y: r.Y.Max, Z: r.Z.Max},
		Size: Vec3{X: r.X.Span(), Y: r.Y.Span(), Z: r.Z.Span()},
	}
}

// Distance3D returns the Euclidean distance between two points.
func Distance3D(a, b Point3D) float64 {
	dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// FilterByRange keeps the points whose coordinates fall inside every set
// filter, bounds inclusive. The input slice is not modified.
func FilterByRange(points []Point3D, f AxisFilters) []Point3D {
	out := make([]Point3D, 0, len(points))
	for _, p := range points {
		if f.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

// Contains reports whether p passes every set filter.
func (f AxisFilters) Contains(p Point3D) bool {
	return inRange(p.X, f.X) && inRange(p.Y, f.Y) && inRange(p.Z, f.Z)
}

func inRange(v float64, r *AxisRange) bool {
	return r == nil || (v >= r.Min && v <= r.Max)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// Lerp interpolates between a and b. t is clamped to [0, 1] first.
func Lerp(a, b, t float64) float64 {
	return lerpSpan(a, b, Clamp(t, 0, 1))
}

// lerpSpan returns a + t*(b-a). When b-a overflows float64 the half span is
// added twice instead.
func lerpSpan(a, b, t float64) float64 {
	span := b - a
	if math.IsInf(span, 0) {
		h := b/2 - a/2
		return a + t*h + t*h
	}
	return a + t*span
}

// unitFraction returns (v-lo)/(hi-lo), or false for a zero-width interval.
// Spans that overflow float64 are computed on halved operands.
func unitFraction(v, lo, hi float64) (float64, bool) {
	span := hi - lo
	if math.IsInf(span, 0) {
		return (v/2 - lo/2) / (hi/2 - lo/2), true
	}
	if span == 0 {
		return 0, false
	}
	return (v - lo) / span, true
}

func midpoint(a, b float64) float64 { return a/2 + b/2 }

// MapRange linearly remaps v from [inMin, inMax] to [outMin, outMax] through
// Lerp, so results never leave the output interval. A zero-width input
// interval maps to the output midpoint.
func MapRange(v, inMin, inMax, outMin, outMax float64) float64 {
	t, ok := unitFraction(v, inMin, inMax)
	if !ok {
		return midpoint(outMin, outMax)
	}
	return Lerp(outMin, outMax, t)
}

// NormalizeData rescales values to [0, 1] by their own min and max. When all
// values are equal every result is 0.5.
func NormalizeData(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := floats.Min(values), floats.Max(values)
	for i, v := range values {
		t, ok := unitFraction(v, lo, hi)
		if !ok {
			t = 0.5
		}
		out[i] = t
	}
	return out
}

// ScaleData normalizes values and then maps them affinely onto [lo, hi].
func ScaleData(values []float64, lo, hi float64) []float64 {
	out := NormalizeData(values)
	for i, v := range out {
		out[i] = lerpSpan(lo, hi, v)
	}
	return out
}
