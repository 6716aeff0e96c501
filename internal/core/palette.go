package core

// palette.go assigns display colors to categorical labels.
//
// Assignment is a pure function of label order: the i-th distinct label (in
// first-seen order) gets palette[i mod len(palette)]. The same points always
// produce the same colors, independent of any renderer.

import (
	"fmt"
	"regexp"
	"strings"
)

// ColorScheme names a palette.
type ColorScheme string

const (
	SchemeDefault ColorScheme = "default"
	SchemeViridis ColorScheme = "viridis"
	SchemePlasma  ColorScheme = "plasma"
	SchemeRainbow ColorScheme = "rainbow"
	SchemeCustom  ColorScheme = "custom"
)

var palettes = map[ColorScheme][]string{
	SchemeDefault: {
		"#FF6B6B", "#4ECDC4", "#FFE66D", "#95E1D3", "#FF8B94",
		"#A8E6CF", "#FFD3B6", "#FFAAA5", "#AA96DA", "#FCBAD3",
	},
	SchemeViridis: {
		"#440154", "#482878", "#3E4A89", "#31688E", "#26828E",
		"#1F9E89", "#35B779", "#6DCD59", "#B4DE2C", "#FDE725",
	},
	SchemePlasma: {
		"#0D0887", "#46039F", "#7201A8", "#9C179E", "#BD3786",
		"#D8576B", "#ED7953", "#FB9F3A", "#FDCA26", "#F0F921",
	},
	SchemeRainbow: {
		"#FF0000", "#FF7F00", "#FFFF00", "#7FFF00", "#00FF00",
		"#00FF7F", "#00FFFF", "#007FFF", "#0000FF", "#7F00FF",
	},
}

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ParseColorScheme validates a scheme name. The empty string is the default scheme.
func ParseColorScheme(s string) (ColorScheme, error) {
	scheme := ColorScheme(strings.ToLower(strings.TrimSpace(s)))
	if scheme == "" {
		return SchemeDefault, nil
	}
	if scheme == SchemeCustom {
		return scheme, nil
	}
	if _, ok := palettes[scheme]; !ok {
		return "", &ValidationError{Field: "colorScheme", Value: s, Message: fmt.Sprintf("Unknown color scheme %q", s)}
	}
	return scheme, nil
}

// ValidateHexColor accepts #RGB and #RRGGBB.
func ValidateHexColor(c string) error {
	if !hexColorRegex.MatchString(c) {
		return &ValidationError{Field: "color", Value: c, Message: fmt.Sprintf("Invalid color %q (use #RRGGBB)", c)}
	}
	return nil
}

// Palette returns the colors of scheme. The custom scheme uses custom and
// falls back to the default palette when custom is empty; unknown schemes
// also fall back to the default.
func Palette(scheme ColorScheme, custom []string) []string {
	if scheme == SchemeCustom && len(custom) > 0 {
		return append([]string(nil), custom...)
	}
	p, ok := palettes[scheme]
	if !ok {
		p = palettes[SchemeDefault]
	}
	return append([]string(nil), p...)
}

// ColorAt returns palette[i] wrapping past the end. An empty palette yields "".
func ColorAt(palette []string, i int) string {
	if len(palette) == 0 || i < 0 {
		return ""
	}
	return palette[i%len(palette)]
}

// LabelColor is one entry of a ColorMap.
type LabelColor struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// ColorMap assigns a color to every distinct label of a point set.
type ColorMap struct {
	Entries []LabelColor `json:"entries"` // Distinct labels in first-seen order
	index   map[string]int
}

// BuildColorMap collects distinct labels in first-seen order and assigns
// palette colors by position. Points without a label share the "" entry.
func BuildColorMap(points []Point3D, palette []string) ColorMap {
	cm := ColorMap{Entries: []LabelColor{}, index: make(map[string]int)}
	for _, p := range points {
		if _, ok := cm.index[p.Label]; ok {
			continue
		}
		i := len(cm.Entries)
		cm.index[p.Label] = i
		cm.Entries = append(cm.Entries, LabelColor{Label: p.Label, Color: ColorAt(palette, i)})
	}
	return cm
}

// Len returns the number of distinct labels.
func (cm ColorMap) Len() int { return len(cm.Entries) }
