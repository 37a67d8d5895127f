package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/techpath/pkg/errors"
	"github.com/matzehuels/techpath/pkg/fonts"
	"github.com/matzehuels/techpath/pkg/layout"
	"github.com/matzehuels/techpath/pkg/replay"
	"github.com/matzehuels/techpath/pkg/techgraph"
)

// ColorbarTicks is the number of labeled ticks on the legend.
const ColorbarTicks = 5

const colorbarSteps = 64

var (
	edgeColor  = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	textColor  = colorful.Color{R: 0, G: 0, B: 0}
	labelBox   = colorful.Color{R: 1, G: 1, B: 1}
	background = colorful.Color{R: 1, G: 1, B: 1}
)

// Label is a single line of text placed by its center.
type Label struct {
	Text     string
	Center   r2.Vec
	Width    float64 // unrotated advance, pixels
	Height   float64 // unrotated line height, pixels
	Size     float64 // points
	Bold     bool
	Vertical bool // rotated a quarter turn counter-clockwise
	Boxed    bool // drawn on a white backing box
}

// Bounds returns the pixel box the label covers.
func (l Label) Bounds() (lo, hi r2.Vec) {
	w, h := l.Width, l.Height
	if l.Vertical {
		w, h = h, w
	}
	half := r2.Vec{X: w / 2, Y: h / 2}
	return r2.Sub(l.Center, half), r2.Add(l.Center, half)
}

// Node is a filled node circle.
type Node struct {
	Name   string
	Center r2.Vec
	Radius float64
	Fill   colorful.Color
}

// Arrow is a directed edge: a shaft from Tail to Base followed by a head
// triangle whose first vertex is the tip. Self-loops are circles through
// the node instead of a straight shaft.
type Arrow struct {
	From, To string

	Tail r2.Vec
	Base r2.Vec
	Head [3]r2.Vec

	Loop       bool
	LoopCenter r2.Vec
	LoopRadius float64
}

// Swatch is an axis-aligned filled rectangle.
type Swatch struct {
	Min, Max r2.Vec
	Fill     colorful.Color
}

// Tick is a colorbar tick mark with its value label.
type Tick struct {
	Value    float64
	From, To r2.Vec
	Label    Label
}

// Colorbar is the vertical time legend.
type Colorbar struct {
	Frame    Swatch
	Swatches []Swatch // bottom to top
	Ticks    []Tick
	Title    Label
}

// Scene is the complete drawing of one tech path in pixel coordinates with
// the origin in the top-left corner.
type Scene struct {
	Width  float64
	Height float64
	DPI    float64

	Background colorful.Color
	EdgeColor  colorful.Color
	TextColor  colorful.Color
	LabelBox   colorful.Color
	EdgeWidth  float64 // pixels

	// Draw order: arrows, nodes, node labels, edge labels, colorbar, title.
	Arrows     []Arrow
	Nodes      []Node
	NodeLabels []Label
	EdgeLabels []Label
	Colorbar   Colorbar
	Title      Label

	EmbedFonts bool
}

// BuildScene lays out every drawn element of g at layout l.
func BuildScene(g *techgraph.Graph, l *layout.Layout, opts Options) (*Scene, error) {
	if g == nil || g.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyBuildOrder, "nothing to render")
	}
	if l == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "render requires a layout")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	scale, err := ScaleByName(opts.ColorScale)
	if err != nil {
		return nil, err
	}

	b := &sceneBuilder{opts: opts}
	s := &Scene{
		Width:      opts.Width * opts.DPI,
		Height:     opts.Height * opts.DPI,
		DPI:        opts.DPI,
		Background: background,
		EdgeColor:  edgeColor,
		TextColor:  textColor,
		LabelBox:   labelBox,
		EdgeWidth:  opts.px(EdgeWidth),
		EmbedFonts: opts.EmbedFonts,
	}

	// Axes rectangle, with the right part reserved for the colorbar.
	axX0, axX1 := 0.125*s.Width, 0.9*s.Width
	axY0, axY1 := 0.12*s.Height, 0.89*s.Height
	axW := axX1 - axX0
	plotX1 := axX0 + axW*0.75

	nodes := g.Nodes()
	var maxR float64
	radii := make([]float64, len(nodes))
	for i, n := range nodes {
		radii[i] = opts.px(math.Sqrt(math.Max(n.Size, 0)) / 2)
		maxR = math.Max(maxR, radii[i])
	}

	ix0, ix1 := inset(axX0, plotX1, maxR)
	iy0, iy1 := inset(axY0, axY1, maxR)
	centers := make(map[string]r2.Vec, len(nodes))
	for _, n := range nodes {
		p, ok := l.Position(n.Name)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "layout has no position for %q", n.Name)
		}
		centers[n.Name] = r2.Vec{
			X: ix0 + p.X*(ix1-ix0),
			Y: iy1 - p.Y*(iy1-iy0),
		}
	}

	clo, chi := g.ColorRange()
	radius := make(map[string]float64, len(nodes))
	for i, n := range nodes {
		radius[n.Name] = radii[i]
		s.Nodes = append(s.Nodes, Node{
			Name:   n.Name,
			Center: centers[n.Name],
			Radius: radii[i],
			Fill:   scale.Map(n.ColorKey, clo, chi),
		})
		lbl, err := b.label(n.Name, centers[n.Name], NodeFontSize, true)
		if err != nil {
			return nil, err
		}
		s.NodeLabels = append(s.NodeLabels, lbl)
	}

	if err := b.arrows(s, g.Edges(), centers, radius); err != nil {
		return nil, err
	}
	if err := b.colorbar(s, scale, clo, chi, plotX1+axW*0.1, axY0, axY1); err != nil {
		return nil, err
	}

	title, err := b.label(opts.Title, r2.Vec{}, TitleFontSize, false)
	if err != nil {
		return nil, err
	}
	title.Center = r2.Vec{X: (axX0 + plotX1) / 2, Y: axY0 - opts.px(6) - title.Height/2}
	s.Title = title

	s.crop(opts.px(PadInches * 72))
	return s, nil
}

func inset(lo, hi, by float64) (float64, float64) {
	if hi-lo <= 2*by {
		mid := (lo + hi) / 2
		return mid, mid
	}
	return lo + by, hi - by
}

type sceneBuilder struct {
	opts Options
}

func (b *sceneBuilder) label(text string, center r2.Vec, size float64, bold bool) (Label, error) {
	w, h, err := fonts.Measure(text, size, b.opts.DPI, bold)
	if err != nil {
		return Label{}, errors.Wrap(errors.ErrCodeRender, err, "measure %q", text)
	}
	return Label{Text: text, Center: center, Width: w, Height: h, Size: size, Bold: bold}, nil
}

// arrows draws one arrow per distinct transition. Repeated transitions share
// the arrow and show the label of their latest occurrence.
func (b *sceneBuilder) arrows(s *Scene, edges []techgraph.Edge, centers map[string]r2.Vec, radius map[string]float64) error {
	type pair struct{ from, to string }
	var order []pair
	latest := map[pair]string{}
	for _, e := range edges {
		k := pair{e.From, e.To}
		if _, ok := latest[k]; !ok {
			order = append(order, k)
		}
		latest[k] = e.Label
	}

	for _, k := range order {
		a, at := b.arrow(k.from, k.to, centers, radius)
		lbl, err := b.label(latest[k], at, EdgeFontSize, false)
		if err != nil {
			return err
		}
		lbl.Boxed = true
		s.Arrows = append(s.Arrows, a)
		s.EdgeLabels = append(s.EdgeLabels, lbl)
	}
	return nil
}

// arrow builds the geometry of one edge and returns where its label goes.
func (b *sceneBuilder) arrow(from, to string, centers map[string]r2.Vec, radius map[string]float64) (Arrow, r2.Vec) {
	headLen := b.opts.px(0.4 * ArrowSize)
	headHalf := b.opts.px(0.2 * ArrowSize)
	pa, pb := centers[from], centers[to]
	ra, rb := radius[from], radius[to]

	if from == to {
		lr := math.Max(ra*0.6, headLen)
		lc := r2.Vec{X: pa.X, Y: pa.Y - ra}
		// Head where the loop re-enters the node, pointing along the clockwise
		// tangent.
		theta := math.Pi / 6
		tip := r2.Add(lc, r2.Scale(lr, r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)}))
		dir := r2.Vec{X: -math.Sin(theta), Y: math.Cos(theta)}
		return Arrow{
			From: from, To: to,
			Loop: true, LoopCenter: lc, LoopRadius: lr,
			Tail: tip, Base: tip,
			Head: head(tip, dir, headLen, headHalf),
		}, r2.Vec{X: lc.X, Y: lc.Y - lr}
	}

	delta := r2.Sub(pb, pa)
	dist := r2.Norm(delta)
	if dist < 1e-9 {
		// Distinct nodes drawn on the same spot: a short stub leaving the
		// shared circle to the right, labeled at its tip.
		u := r2.Vec{X: 1}
		tail := r2.Add(pa, r2.Scale(math.Max(ra, rb), u))
		tip := r2.Add(tail, r2.Scale(2*headLen, u))
		return Arrow{
			From: from, To: to,
			Tail: tail,
			Base: r2.Sub(tip, r2.Scale(headLen, u)),
			Head: head(tip, u, headLen, headHalf),
		}, r2.Add(tip, r2.Scale(headLen, u))
	}
	u := r2.Scale(1/dist, delta)
	mid := r2.Scale(0.5, r2.Add(pa, pb))

	tail, tip := pa, pb
	if dist > ra+rb+headLen {
		tail = r2.Add(pa, r2.Scale(ra, u))
		tip = r2.Sub(pb, r2.Scale(rb, u))
	}
	h := head(tip, u, headLen, headHalf)
	return Arrow{
		From: from, To: to,
		Tail: tail,
		Base: r2.Sub(tip, r2.Scale(headLen, u)),
		Head: h,
	}, mid
}

func head(tip, dir r2.Vec, length, half float64) [3]r2.Vec {
	base := r2.Sub(tip, r2.Scale(length, dir))
	perp := r2.Vec{X: -dir.Y, Y: dir.X}
	return [3]r2.Vec{
		tip,
		r2.Add(base, r2.Scale(half, perp)),
		r2.Sub(base, r2.Scale(half, perp)),
	}
}

func (b *sceneBuilder) colorbar(s *Scene, scale ColorScale, lo, hi, x0, y0, y1 float64) error {
	height := y1 - y0
	width := height / 20
	x1 := x0 + width
	cb := &s.Colorbar
	cb.Frame = Swatch{Min: r2.Vec{X: x0, Y: y0}, Max: r2.Vec{X: x1, Y: y1}}

	step := height / colorbarSteps
	for k := 0; k < colorbarSteps; k++ {
		top := y1 - float64(k+1)*step
		cb.Swatches = append(cb.Swatches, Swatch{
			Min:  r2.Vec{X: x0, Y: top},
			Max:  r2.Vec{X: x1, Y: top + step},
			Fill: scale.At((float64(k) + 0.5) / colorbarSteps),
		})
	}

	values := []float64{lo}
	if hi > lo {
		values = values[:0]
		for i := 0; i < ColorbarTicks; i++ {
			values = append(values, lo+(hi-lo)*float64(i)/(ColorbarTicks-1))
		}
	}

	tickLen := b.opts.px(3.5)
	gap := b.opts.px(3.5)
	var widest float64
	for _, v := range values {
		y := y1 - layout.Unit(v, lo, hi)*height
		lbl, err := b.label(replay.FormatMinutes(v), r2.Vec{}, TickFontSize, false)
		if err != nil {
			return err
		}
		lbl.Center = r2.Vec{X: x1 + tickLen + gap + lbl.Width/2, Y: y}
		widest = math.Max(widest, lbl.Width)
		cb.Ticks = append(cb.Ticks, Tick{
			Value: v,
			From:  r2.Vec{X: x1, Y: y},
			To:    r2.Vec{X: x1 + tickLen, Y: y},
			Label: lbl,
		})
	}

	title, err := b.label("Time (minutes)", r2.Vec{}, TickFontSize, false)
	if err != nil {
		return err
	}
	title.Vertical = true
	title.Center = r2.Vec{X: x1 + tickLen + 2*gap + widest + title.Height/2, Y: (y0 + y1) / 2}
	cb.Title = title
	return nil
}

// =============================================================================
// Cropping
// =============================================================================

type bbox struct{ lo, hi r2.Vec }

func emptyBox() bbox {
	return bbox{
		lo: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		hi: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

func (b *bbox) add(p r2.Vec) {
	b.lo = r2.Vec{X: math.Min(b.lo.X, p.X), Y: math.Min(b.lo.Y, p.Y)}
	b.hi = r2.Vec{X: math.Max(b.hi.X, p.X), Y: math.Max(b.hi.Y, p.Y)}
}

func (b *bbox) addLabel(l Label) {
	if l.Text == "" {
		return
	}
	lo, hi := l.Bounds()
	b.add(lo)
	b.add(hi)
}

// Bounds returns the box covering everything the scene draws.
func (s *Scene) Bounds() (lo, hi r2.Vec) {
	b := emptyBox()
	for _, n := range s.Nodes {
		b.add(r2.Sub(n.Center, r2.Vec{X: n.Radius, Y: n.Radius}))
		b.add(r2.Add(n.Center, r2.Vec{X: n.Radius, Y: n.Radius}))
	}
	for _, a := range s.Arrows {
		b.add(a.Tail)
		for _, p := range a.Head {
			b.add(p)
		}
		if a.Loop {
			b.add(r2.Sub(a.LoopCenter, r2.Vec{X: a.LoopRadius, Y: a.LoopRadius}))
			b.add(r2.Add(a.LoopCenter, r2.Vec{X: a.LoopRadius, Y: a.LoopRadius}))
		}
	}
	for _, l := range s.NodeLabels {
		b.addLabel(l)
	}
	for _, l := range s.EdgeLabels {
		b.addLabel(l)
	}
	b.add(s.Colorbar.Frame.Min)
	b.add(s.Colorbar.Frame.Max)
	for _, t := range s.Colorbar.Ticks {
		b.add(t.To)
		b.addLabel(t.Label)
	}
	b.addLabel(s.Colorbar.Title)
	b.addLabel(s.Title)
	return b.lo, b.hi
}

// crop shrinks the canvas to the drawn content plus pad on every side.
func (s *Scene) crop(pad float64) {
	lo, hi := s.Bounds()
	d := r2.Vec{X: pad - lo.X, Y: pad - lo.Y}
	s.translate(d)
	s.Width = math.Ceil(hi.X - lo.X + 2*pad)
	s.Height = math.Ceil(hi.Y - lo.Y + 2*pad)
}

func (s *Scene) translate(d r2.Vec) {
	for i := range s.Nodes {
		s.Nodes[i].Center = r2.Add(s.Nodes[i].Center, d)
	}
	for i := range s.Arrows {
		a := &s.Arrows[i]
		a.Tail = r2.Add(a.Tail, d)
		a.Base = r2.Add(a.Base, d)
		a.LoopCenter = r2.Add(a.LoopCenter, d)
		for k := range a.Head {
			a.Head[k] = r2.Add(a.Head[k], d)
		}
	}
	for i := range s.NodeLabels {
		s.NodeLabels[i].Center = r2.Add(s.NodeLabels[i].Center, d)
	}
	for i := range s.EdgeLabels {
		s.EdgeLabels[i].Center = r2.Add(s.EdgeLabels[i].Center, d)
	}
	cb := &s.Colorbar
	cb.Frame.Min, cb.Frame.Max = r2.Add(cb.Frame.Min, d), r2.Add(cb.Frame.Max, d)
	for i := range cb.Swatches {
		cb.Swatches[i].Min = r2.Add(cb.Swatches[i].Min, d)
		cb.Swatches[i].Max = r2.Add(cb.Swatches[i].Max, d)
	}
	for i := range cb.Ticks {
		t := &cb.Ticks[i]
		t.From, t.To = r2.Add(t.From, d), r2.Add(t.To, d)
		t.Label.Center = r2.Add(t.Label.Center, d)
	}
	cb.Title.Center = r2.Add(cb.Title.Center, d)
	s.Title.Center = r2.Add(s.Title.Center, d)
}
