// Package core provides the CSV ingestion and point transformation logic.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"bytes"
	"encoding/json"
)

// ColumnType is the inferred semantic type of a column.
type ColumnType string

const (
	ColumnNumber  ColumnType = "number"
	ColumnString  ColumnType = "string"
	ColumnDate    ColumnType = "date"
	ColumnBoolean ColumnType = "boolean"
)

// HeaderIndex maps column names to their position in a record.
// Names are matched exactly; parsed datasets never contain duplicates.
type HeaderIndex map[string]int

// Record is one parsed data row. Values are aligned with the dataset's columns.
type Record []Scalar

// ColumnInfo describes one column of a parsed dataset.
type ColumnInfo struct {
	Name         string     `json:"name"`
	Type         ColumnType `json:"type"`
	MinValue     *float64   `json:"minValue,omitempty"` // Only for number columns with at least one numeric cell
	MaxValue     *float64   `json:"maxValue,omitempty"`
	UniqueCount  int        `json:"uniqueCount"`
	SampleValues []Scalar   `json:"sampleValues"`           // First 5 values of the inference sample
	LeadingZeros bool       `json:"leadingZeros,omitempty"` // Numeric-looking text such as "007" was seen
}

// Dataset is the typed result of a successful parse.
//
// A Dataset is immutable once returned by Parse: callers must not modify Rows
// or Columns. A new upload produces a new Dataset rather than changing one.
type Dataset struct {
	Rows     []Record     `json:"-"`
	Columns  []ColumnInfo `json:"columns"`
	RowCount int          `json:"rowCount"`

	index HeaderIndex
}

func newDataset(columns []ColumnInfo, rows []Record) *Dataset {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return &Dataset{
		Rows:     rows,
		Columns:  columns,
		RowCount: len(rows),
		index:    MakeHeaderIndex(names),
	}
}

// ColumnIndex returns the position of the named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	if d == nil || name == "" {
		return -1
	}
	if d.index == nil {
		for i, c := range d.Columns {
			if c.Name == name {
				return i
			}
		}
		return -1
	}
	if i, ok := d.index[name]; ok {
		return i
	}
	return -1
}

// Column returns the ColumnInfo for name.
func (d *Dataset) Column(name string) (ColumnInfo, bool) {
	i := d.ColumnIndex(name)
	if i < 0 {
		return ColumnInfo{}, false
	}
	return d.Columns[i], true
}

// ColumnNames returns the column names in header order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Value returns the cell at (row, column). Missing rows or columns yield Null, false.
func (d *Dataset) Value(row int, column string) (Scalar, bool) {
	ci := d.ColumnIndex(column)
	if ci < 0 || row < 0 || row >= len(d.Rows) || ci >= len(d.Rows[row]) {
		return Null(), false
	}
	return d.Rows[row][ci], true
}

// RowObjects returns rows [offset, offset+limit) as ordered name/value objects
// for display. Out-of-range windows are clipped.
func (d *Dataset) RowObjects(offset, limit int) []RowObject {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(d.Rows) || limit <= 0 {
		return []RowObject{}
	}
	end := offset + limit
	if end > len(d.Rows) {
		end = len(d.Rows)
	}
	names := d.ColumnNames()
	out := make([]RowObject, 0, end-offset)
	for i := offset; i < end; i++ {
		out = append(out, RowObject{Names: names, Values: d.Rows[i]})
	}
	return out
}

// RowObject is a record paired with its column names. It encodes to a JSON
// object whose keys keep header order.
type RowObject struct {
	Names  []string
	Values Record
}

// MarshalJSON writes the row as an ordered JSON object.
func (r RowObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.Names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		v := Null()
		if i < len(r.Values) {
			v = r.Values[i]
		}
		val, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Axis names one role of an AxisMapping.
type Axis string

const (
	AxisX     Axis = "x"
	AxisY     Axis = "y"
	AxisZ     Axis = "z"
	AxisColor Axis = "color"
)

// ParseAxis validates an axis name.
func ParseAxis(s string) (Axis, bool) {
	switch a := Axis(s); a {
	case AxisX, AxisY, AxisZ, AxisColor:
		return a, true
	}
	return "", false
}

// AxisMapping assigns dataset columns to the spatial and color roles.
// An empty string means the role is unset.
type AxisMapping struct {
	X     string `json:"x,omitempty"`
	Y     string `json:"y,omitempty"`
	Z     string `json:"z,omitempty"`
	Color string `json:"color,omitempty"`
}

// Complete reports whether x, y and z are all set.
func (m AxisMapping) Complete() bool {
	return m.X != "" && m.Y != "" && m.Z != ""
}

// Get returns the column assigned to axis.
func (m AxisMapping) Get(axis Axis) string {
	switch axis {
	case AxisX:
		return m.X
	case AxisY:
		return m.Y
	case AxisZ:
		return m.Z
	case AxisColor:
		return m.Color
	}
	return ""
}

// With returns a copy of m with one role changed. An empty column clears the role.
func (m AxisMapping) With(axis Axis, column string) AxisMapping {
	switch axis {
	case AxisX:
		m.X = column
	case AxisY:
		m.Y = column
	case AxisZ:
		m.Z = column
	case AxisColor:
		m.Color = column
	}
	return m
}

// Point3D is one plotted point.
//
// In the normalized variant X, Y and Z are the rescaled coordinates and the
// Original* fields hold the source values; in the plain variant the Original*
// fields are nil.
type Point3D struct {
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	Z             float64  `json:"z"`
	OriginalX     *float64 `json:"originalX,omitempty"`
	OriginalY     *float64 `json:"originalY,omitempty"`
	OriginalZ     *float64 `json:"originalZ,omitempty"`
	Label         string   `json:"label,omitempty"`         // Stringified color cell, empty when no color column is mapped
	OriginalColor string   `json:"originalColor,omitempty"` // Label before normalization (normalized variant only)
	OriginalIndex int      `json:"originalIndex"`           // Position of the source row in Dataset.Rows
}

// AxisRange is the observed [Min, Max] of one axis. Min == Max is valid.
type AxisRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max - Min.
func (r AxisRange) Span() float64 { return r.Max - r.Min }

// Ranges holds the per-axis ranges of a point set.
type Ranges struct {
	X AxisRange `json:"x"`
	Y AxisRange `json:"y"`
	Z AxisRange `json:"z"`
}

// NormalizedPoints is the output of ToNormalizedPoints.
type NormalizedPoints struct {
	Points []Point3D `json:"points"`
	Ranges Ranges    `json:"ranges"` // Pre-normalization ranges, for axis ticks in source units
}

// DataStatistics summarizes a numeric sequence. Every field is nil when the
// input had no finite values.
type DataStatistics struct {
	Mean   *float64 `json:"mean,omitempty"`
	Median *float64 `json:"median,omitempty"`
	StdDev *float64 `json:"stdDev,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Q1     *float64 `json:"q1,omitempty"`
	Q3     *float64 `json:"q3,omitempty"`
}

// IsEmpty reports whether no statistic is set.
func (s DataStatistics) IsEmpty() bool {
	return s.Mean == nil && s.Median == nil && s.StdDev == nil &&
		s.Min == nil && s.Max == nil && s.Q1 == nil && s.Q3 == nil
}

// Quartiles holds the three quartile cut points.
type Quartiles struct {
	Q1 float64 `json:"q1"`
	Q2 float64 `json:"q2"`
	Q3 float64 `json:"q3"`
}

// FileMeta is what the file picker knows about a candidate upload.
type FileMeta struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"` // Declared media type, may be empty
}

func floatPtr(f float64) *float64 { return &f }
