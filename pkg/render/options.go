package render

import (
	"fmt"

	"github.com/matzehuels/techpath/pkg/errors"
)

// Figure defaults, in inches and dots per inch.
const (
	DefaultWidth  = 20.0
	DefaultHeight = 12.0
	DefaultDPI    = 300.0
)

// Typography and stroke sizes, in points.
const (
	NodeFontSize  = 8.0
	EdgeFontSize  = 6.0
	TitleFontSize = 12.0
	TickFontSize  = 10.0
	EdgeWidth     = 0.5
	ArrowSize     = 10.0
	PadInches     = 0.1
)

// Options configures scene construction.
type Options struct {
	PlayerID int

	// Title overrides the default "Tech Path for Player <id>".
	Title string

	// Figure size in inches and raster resolution.
	Width  float64
	Height float64
	DPI    float64

	// ColorScale names a built-in scale; see ColorScales.
	ColorScale string

	// EmbedFonts inlines the Go fonts into SVG output.
	EmbedFonts bool
}

// ValidateAndSetDefaults fills zero fields and rejects nonsensical sizes.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "figure size must be positive, got %vx%v", o.Width, o.Height)
	}
	if o.DPI < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be positive, got %v", o.DPI)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.ColorScale == "" {
		o.ColorScale = DefaultColorScale
	}
	if _, err := ScaleByName(o.ColorScale); err != nil {
		return err
	}
	if o.Title == "" {
		o.Title = fmt.Sprintf("Tech Path for Player %d", o.PlayerID)
	}
	return nil
}

func (o Options) px(pt float64) float64 {
	return pt * o.DPI / 72
}
