package core

// session.go defines the per-user workflow state: the current dataset, the
// axis mapping being edited and the viewer settings.
//
// Sessions are owned by Service. Callers only ever receive copies; the
// Dataset inside is shared but immutable, and every edit replaces a field
// wholesale, so a copy stays consistent after it is handed out.

import (
	"errors"
	"math"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many open sessions")
)

// ViewerSettings are the display options that affect what View computes or
// that a renderer needs alongside the points.
type ViewerSettings struct {
	NormalizeRange  float64     `json:"normalizeRange"` // Points are mapped into [-NormalizeRange, NormalizeRange]
	PointSize       float64     `json:"pointSize"`
	PointColor      string      `json:"pointColor"` // Used when no color column is mapped
	Opacity         float64     `json:"opacity"`
	SizeAttenuation bool        `json:"sizeAttenuation"`
	ShowLabels      bool        `json:"showLabels"`
	ColorScheme     ColorScheme `json:"colorScheme"`
	CustomColors    []string    `json:"customColors,omitempty"`
	Filters         AxisFilters `json:"filters"` // Applied to original (source unit) values
}

// DefaultViewerSettings returns the settings a new session starts with.
func DefaultViewerSettings() ViewerSettings {
	return ViewerSettings{
		NormalizeRange:  DefaultTargetRange.Max,
		PointSize:       0.1,
		PointColor:      "#3498db",
		Opacity:         0.8,
		SizeAttenuation: true,
		ColorScheme:     SchemeDefault,
	}
}

// TargetRange returns the symmetric interval points are normalized into.
func (v ViewerSettings) TargetRange() AxisRange {
	return AxisRange{Min: -v.NormalizeRange, Max: v.NormalizeRange}
}

// Validate checks every setting and returns the first problem.
func (v ViewerSettings) Validate() error {
	if math.IsNaN(v.NormalizeRange) || math.IsInf(v.NormalizeRange, 0) || v.NormalizeRange <= 0 {
		return &ValidationError{Field: "normalizeRange", Message: "Normalize range must be a positive number"}
	}
	if math.IsNaN(v.PointSize) || v.PointSize <= 0 {
		return &ValidationError{Field: "pointSize", Message: "Point size must be greater than 0"}
	}
	if math.IsNaN(v.Opacity) || v.Opacity < 0 || v.Opacity > 1 {
		return &ValidationError{Field: "opacity", Message: "Opacity must be between 0 and 1"}
	}
	if err := ValidateHexColor(v.PointColor); err != nil {
		return err
	}
	if _, err := ParseColorScheme(string(v.ColorScheme)); err != nil {
		return err
	}
	for _, c := range v.CustomColors {
		if err := ValidateHexColor(c); err != nil {
			return err
		}
	}
	return v.Filters.Validate()
}

// Session is one user's workflow state.
type Session struct {
	ID         string
	FileName   string
	FileSize   int64
	Dataset    *Dataset
	Mapping    AxisMapping
	Viewer     ViewerSettings
	Version    int64 // Incremented by every change
	CreatedAt  time.Time
	UpdatedAt  time.Time
	LastAccess time.Time // Last change or view; drives expiry
}

// SessionView is the JSON summary of a session.
type SessionView struct {
	ID        string         `json:"id"`
	FileName  string         `json:"fileName"`
	FileSize  string         `json:"fileSize"`
	RowCount  int            `json:"rowCount"`
	Columns   []ColumnInfo   `json:"columns"`
	Numeric   []string       `json:"numericColumns"`
	Mapping   AxisMapping    `json:"mapping"`
	Viewer    ViewerSettings `json:"viewer"`
	Plottable bool           `json:"plottable"`
	Problems  []string       `json:"problems,omitempty"`
	Version   int64          `json:"version"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// View summarizes the session for display.
func (s Session) View() SessionView {
	v := SessionView{
		ID:        s.ID,
		FileName:  s.FileName,
		FileSize:  FormatFileSize(s.FileSize),
		Mapping:   s.Mapping,
		Viewer:    s.Viewer,
		Version:   s.Version,
		UpdatedAt: s.UpdatedAt,
		Columns:   []ColumnInfo{},
		Numeric:   []string{},
	}
	if s.Dataset != nil {
		v.RowCount = s.Dataset.RowCount
		v.Columns = s.Dataset.Columns
		for _, c := range NumericColumns(s.Dataset.Columns) {
			v.Numeric = append(v.Numeric, c.Name)
		}
	}
	v.Problems = ValidateDataset(s.Dataset)
	v.Plottable = len(v.Problems) == 0
	return v
}

// ViewResult is everything a renderer needs for one frame of the scatter plot.
type ViewResult struct {
	SessionID string         `json:"sessionId"`
	Version   int64          `json:"version"` // Session version the result was computed from
	Mapping   AxisMapping    `json:"mapping"`
	Target    AxisRange      `json:"target"`
	Points    []Point3D      `json:"points"`
	Ranges    Ranges         `json:"ranges"`   // Source-unit ranges of all plottable rows
	Total     int            `json:"total"`    // Plottable rows before filters
	Dropped   int            `json:"dropped"`  // Rows whose x, y or z was not a finite number
	Colors    ColorMap       `json:"colors"`   // Empty unless a color column is mapped
	Centroid  Vec3           `json:"centroid"` // Of the returned (normalized) points
	Bounds    BoundingBox    `json:"bounds"`
	Viewer    ViewerSettings `json:"viewer"`
}

// computeView derives a ViewResult from a session snapshot. It touches no
// shared state, so it can run outside the service lock.
func computeView(s Session) (*ViewResult, error) {
	if err := CheckDataset(s.Dataset); err != nil {
		return nil, err
	}
	if err := ValidateMapping(s.Dataset, s.Mapping); err != nil {
		return nil, err
	}

	target := s.Viewer.TargetRange()
	norm := ToNormalizedPoints(s.Dataset, s.Mapping, target)

	points := norm.Points
	if !s.Viewer.Filters.IsZero() {
		points = make([]Point3D, 0, len(norm.Points))
		for _, p := range norm.Points {
			if s.Viewer.Filters.Contains(originalOf(p)) {
				points = append(points, p)
			}
		}
	}

	colors := ColorMap{Entries: []LabelColor{}}
	if s.Mapping.Color != "" {
		colors = BuildColorMap(points, Palette(s.Viewer.ColorScheme, s.Viewer.CustomColors))
	}

	return &ViewResult{
		SessionID: s.ID,
		Version:   s.Version,
		Mapping:   s.Mapping,
		Target:    target,
		Points:    points,
		Ranges:    norm.Ranges,
		Total:     len(norm.Points),
		Dropped:   s.Dataset.RowCount - len(norm.Points),
		Colors:    colors,
		Centroid:  Centroid(points),
		Bounds:    Bounds(points),
		Viewer:    s.Viewer,
	}, nil
}

// originalOf returns p with its source-unit coordinates in X, Y and Z.
func originalOf(p Point3D) Point3D {
	o := p
	if p.OriginalX != nil {
		o.X = *p.OriginalX
	}
	if p.OriginalY != nil {
		o.Y = *p.OriginalY
	}
	if p.OriginalZ != nil {
		o.Z = *p.OriginalZ
	}
	return o
}
