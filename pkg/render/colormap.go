package render

import (
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/techpath/pkg/errors"
	"github.com/matzehuels/techpath/pkg/layout"
)

// ColorScale maps [0, 1] onto a gradient through evenly spaced stops.
type ColorScale struct {
	Name  string
	stops []colorful.Color
}

// Built-in color scales.
var (
	// Cool runs from cyan to magenta (r=t, g=1-t, b=1).
	Cool = ColorScale{Name: "cool", stops: []colorful.Color{
		{R: 0, G: 1, B: 1},
		{R: 1, G: 0, B: 1},
	}}

	Viridis = ColorScale{Name: "viridis", stops: []colorful.Color{
		{R: 0.267, G: 0.005, B: 0.329},
		{R: 0.229, G: 0.322, B: 0.546},
		{R: 0.128, G: 0.567, B: 0.551},
		{R: 0.369, G: 0.789, B: 0.383},
		{R: 0.993, G: 0.906, B: 0.144},
	}}

	Plasma = ColorScale{Name: "plasma", stops: []colorful.Color{
		{R: 0.050, G: 0.030, B: 0.528},
		{R: 0.494, G: 0.012, B: 0.658},
		{R: 0.798, G: 0.280, B: 0.470},
		{R: 0.973, G: 0.585, B: 0.254},
		{R: 0.940, G: 0.975, B: 0.131},
	}}
)

// DefaultColorScale names the scale used when none is configured.
const DefaultColorScale = "cool"

var scales = map[string]ColorScale{
	Cool.Name:    Cool,
	Viridis.Name: Viridis,
	Plasma.Name:  Plasma,
}

// ColorScales returns the names of the built-in scales, sorted.
func ColorScales() []string {
	names := make([]string, 0, len(scales))
	for name := range scales {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ScaleByName looks up a built-in scale. The empty name selects the default.
func ScaleByName(name string) (ColorScale, error) {
	if name == "" {
		name = DefaultColorScale
	}
	s, ok := scales[strings.ToLower(name)]
	if !ok {
		return ColorScale{}, errors.New(errors.ErrCodeInvalidInput,
			"unknown color scale %q (available: %s)", name, strings.Join(ColorScales(), ", "))
	}
	return s, nil
}

// At returns the color at t. Values outside [0, 1] are clamped.
func (s ColorScale) At(t float64) colorful.Color {
	if len(s.stops) == 0 {
		return colorful.Color{}
	}
	if len(s.stops) == 1 || t <= 0 {
		return s.stops[0]
	}
	last := len(s.stops) - 1
	if t >= 1 {
		return s.stops[last]
	}
	pos := t * float64(last)
	i := int(pos)
	return s.stops[i].BlendRgb(s.stops[i+1], pos-float64(i)).Clamped()
}

// Map normalizes v against [lo, hi] and returns its color. A zero-width range
// yields the middle of the scale.
func (s ColorScale) Map(v, lo, hi float64) colorful.Color {
	return s.At(layout.Unit(v, lo, hi))
}
