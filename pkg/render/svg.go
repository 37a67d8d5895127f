package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/techpath/pkg/fonts"
)

// RenderSVG writes the scene as an SVG document. Coordinates are rounded to
// whole pixels; build the scene at 72 DPI for point-sized output.
func RenderSVG(s *Scene) []byte {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(ceil(s.Width), ceil(s.Height))

	family := fonts.FallbackFontFamily
	if s.EmbedFonts {
		canvas.Style("text/css", fonts.FontFaceCSS())
		family = fmt.Sprintf("'%s'", fonts.FontFamily)
	}

	canvas.Rect(0, 0, ceil(s.Width), ceil(s.Height), "fill:"+s.Background.Hex())

	w := &svgWriter{canvas: canvas, scene: s, family: family}
	edgeStyle := fmt.Sprintf("stroke:%s;stroke-width:%.2f;fill:none", s.EdgeColor.Hex(), s.EdgeWidth)
	headStyle := "fill:" + s.EdgeColor.Hex()

	canvas.Gid("edges")
	for _, a := range s.Arrows {
		if a.Loop {
			canvas.Circle(round(a.LoopCenter.X), round(a.LoopCenter.Y), round(a.LoopRadius), edgeStyle)
		} else {
			canvas.Line(round(a.Tail.X), round(a.Tail.Y), round(a.Base.X), round(a.Base.Y), edgeStyle)
		}
		xs := []int{round(a.Head[0].X), round(a.Head[1].X), round(a.Head[2].X)}
		ys := []int{round(a.Head[0].Y), round(a.Head[1].Y), round(a.Head[2].Y)}
		canvas.Polygon(xs, ys, headStyle)
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, n := range s.Nodes {
		canvas.Circle(round(n.Center.X), round(n.Center.Y), round(n.Radius), "fill:"+n.Fill.Hex())
	}
	for _, l := range s.NodeLabels {
		w.text(l)
	}
	canvas.Gend()

	canvas.Gid("edge-labels")
	for _, l := range s.EdgeLabels {
		w.text(l)
	}
	canvas.Gend()

	w.colorbar(s.Colorbar)
	w.text(s.Title)

	canvas.End()
	return buf.Bytes()
}

type svgWriter struct {
	canvas *svg.SVG
	scene  *Scene
	family string
}

func (w *svgWriter) text(l Label) {
	if l.Text == "" {
		return
	}
	if l.Boxed {
		lo, hi := l.Bounds()
		pad := l.Height * 0.15
		w.canvas.Rect(round(lo.X-pad), round(lo.Y-pad), ceil(hi.X-lo.X+2*pad), ceil(hi.Y-lo.Y+2*pad),
			"fill:"+w.scene.LabelBox.Hex())
	}

	weight := "normal"
	if l.Bold {
		weight = "bold"
	}
	style := fmt.Sprintf("fill:%s;font-family:%s;font-size:%.2fpx;font-weight:%s;text-anchor:middle;dominant-baseline:central",
		w.scene.TextColor.Hex(), w.family, l.Size*w.scene.DPI/72, weight)

	x, y := round(l.Center.X), round(l.Center.Y)
	if l.Vertical {
		w.canvas.TranslateRotate(x, y, -90)
		w.canvas.Text(0, 0, l.Text, style)
		w.canvas.Gend()
		return
	}
	w.canvas.Text(x, y, l.Text, style)
}

func (w *svgWriter) colorbar(cb Colorbar) {
	w.canvas.Gid("colorbar")
	for _, sw := range cb.Swatches {
		w.canvas.Rect(round(sw.Min.X), floor(sw.Min.Y), ceil(sw.Max.X-sw.Min.X), ceil(sw.Max.Y-sw.Min.Y)+1,
			"fill:"+sw.Fill.Hex())
	}
	f := cb.Frame
	stroke := fmt.Sprintf("stroke:%s;stroke-width:%.2f", w.scene.TextColor.Hex(), w.scene.EdgeWidth*1.6)
	w.canvas.Rect(round(f.Min.X), round(f.Min.Y), round(f.Max.X-f.Min.X), round(f.Max.Y-f.Min.Y), stroke+";fill:none")
	for _, t := range cb.Ticks {
		w.canvas.Line(round(t.From.X), round(t.From.Y), round(t.To.X), round(t.To.Y), stroke)
		w.text(t.Label)
	}
	w.text(cb.Title)
	w.canvas.Gend()
}

func round(v float64) int { return int(math.Round(v)) }
func floor(v float64) int { return int(math.Floor(v)) }
func ceil(v float64) int  { return int(math.Ceil(v)) }
