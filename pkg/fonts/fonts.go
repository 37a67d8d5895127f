// Package fonts provides the typefaces used for tech path rendering.
//
// The Go fonts ship inside golang.org/x/image, so rendering needs no system
// fonts. Faces are parsed once and cached per size, resolution and weight;
// [Measure] uses the same faces so layout and drawing agree on text extents.
package fonts

import (
	"encoding/base64"
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family name for the embedded Go fonts.
const FontFamily = "Go"

// FallbackFontFamily is used in SVG when the fonts are not embedded.
const FallbackFontFamily = `'Go', 'DejaVu Sans', 'Helvetica Neue', Arial, sans-serif`

var (
	parseOnce sync.Once
	regular   *opentype.Font
	bold      *opentype.Font
	parseErr  error

	mu    sync.Mutex
	faces = map[faceKey]font.Face{}
)

type faceKey struct {
	size, dpi float64
	bold      bool
}

func parse() error {
	parseOnce.Do(func() {
		if regular, parseErr = opentype.Parse(goregular.TTF); parseErr != nil {
			return
		}
		bold, parseErr = opentype.Parse(gobold.TTF)
	})
	return parseErr
}

// Face returns a font face of the given point size at dpi.
func Face(size, dpi float64, isBold bool) (font.Face, error) {
	if err := parse(); err != nil {
		return nil, fmt.Errorf("parse go fonts: %w", err)
	}

	key := faceKey{size: size, dpi: dpi, bold: isBold}
	mu.Lock()
	defer mu.Unlock()
	if f, ok := faces[key]; ok {
		return f, nil
	}

	src := regular
	if isBold {
		src = bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create %.1fpt face: %w", size, err)
	}
	faces[key] = f
	return f, nil
}

// Measure returns the advance width and line height of s in pixels.
func Measure(s string, size, dpi float64, isBold bool) (w, h float64, err error) {
	f, err := Face(size, dpi, isBold)
	if err != nil {
		return 0, 0, err
	}
	mu.Lock()
	defer mu.Unlock()
	adv := font.MeasureString(f, s)
	m := f.Metrics()
	return float64(adv) / 64, float64(m.Ascent+m.Descent) / 64, nil
}

// Cache for base64-encoded fonts (computed once on first access).
var (
	base64Once    sync.Once
	regularBase64 string
	boldBase64    string
)

// FontFaceCSS returns @font-face rules embedding both Go fonts as data URLs.
func FontFaceCSS() string {
	base64Once.Do(func() {
		regularBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
		boldBase64 = base64.StdEncoding.EncodeToString(gobold.TTF)
	})
	return fmt.Sprintf(
		"@font-face{font-family:'%s';font-weight:normal;src:url(data:font/ttf;base64,%s) format('truetype');}"+
			"@font-face{font-family:'%s';font-weight:bold;src:url(data:font/ttf;base64,%s) format('truetype');}",
		FontFamily, regularBase64, FontFamily, boldBase64)
}
