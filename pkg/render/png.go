package render

import (
	"bytes"
	"image/png"

	"git.sr.ht/~sbinet/gg"

	"github.com/matzehuels/techpath/pkg/errors"
	"github.com/matzehuels/techpath/pkg/fonts"
)

// RenderPNG rasterizes the scene.
func RenderPNG(s *Scene) ([]byte, error) {
	dc := gg.NewContext(int(s.Width), int(s.Height))
	dc.SetColor(s.Background)
	dc.Clear()

	p := &painter{dc: dc, scene: s}

	dc.SetColor(s.EdgeColor)
	dc.SetLineWidth(s.EdgeWidth)
	for _, a := range s.Arrows {
		p.arrow(a)
	}

	for _, n := range s.Nodes {
		dc.SetColor(n.Fill)
		dc.DrawCircle(n.Center.X, n.Center.Y, n.Radius)
		dc.Fill()
	}

	for _, l := range s.NodeLabels {
		if err := p.text(l); err != nil {
			return nil, err
		}
	}
	for _, l := range s.EdgeLabels {
		if err := p.text(l); err != nil {
			return nil, err
		}
	}
	if err := p.colorbar(s.Colorbar); err != nil {
		return nil, err
	}
	if err := p.text(s.Title); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode png")
	}
	return buf.Bytes(), nil
}

type painter struct {
	dc    *gg.Context
	scene *Scene
}

func (p *painter) arrow(a Arrow) {
	dc := p.dc
	if a.Loop {
		dc.DrawCircle(a.LoopCenter.X, a.LoopCenter.Y, a.LoopRadius)
		dc.Stroke()
	} else {
		dc.DrawLine(a.Tail.X, a.Tail.Y, a.Base.X, a.Base.Y)
		dc.Stroke()
	}
	dc.NewSubPath()
	dc.MoveTo(a.Head[0].X, a.Head[0].Y)
	dc.LineTo(a.Head[1].X, a.Head[1].Y)
	dc.LineTo(a.Head[2].X, a.Head[2].Y)
	dc.ClosePath()
	dc.Fill()
}

func (p *painter) text(l Label) error {
	if l.Text == "" {
		return nil
	}
	dc := p.dc
	face, err := fonts.Face(l.Size, p.scene.DPI, l.Bold)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "load font")
	}
	dc.SetFontFace(face)

	if l.Boxed {
		lo, hi := l.Bounds()
		pad := l.Height * 0.15
		dc.SetColor(p.scene.LabelBox)
		dc.DrawRectangle(lo.X-pad, lo.Y-pad, hi.X-lo.X+2*pad, hi.Y-lo.Y+2*pad)
		dc.Fill()
	}

	dc.SetColor(p.scene.TextColor)
	if l.Vertical {
		dc.Push()
		dc.RotateAbout(gg.Radians(-90), l.Center.X, l.Center.Y)
		dc.DrawStringAnchored(l.Text, l.Center.X, l.Center.Y, 0.5, 0.5)
		dc.Pop()
		return nil
	}
	dc.DrawStringAnchored(l.Text, l.Center.X, l.Center.Y, 0.5, 0.5)
	return nil
}

func (p *painter) colorbar(cb Colorbar) error {
	dc := p.dc
	for _, sw := range cb.Swatches {
		dc.SetColor(sw.Fill)
		// Overdraw by a pixel so neighbouring swatches leave no seams.
		dc.DrawRectangle(sw.Min.X, sw.Min.Y-0.5, sw.Max.X-sw.Min.X, sw.Max.Y-sw.Min.Y+1)
		dc.Fill()
	}

	dc.SetColor(p.scene.TextColor)
	dc.SetLineWidth(p.scene.EdgeWidth * 1.6)
	f := cb.Frame
	dc.DrawRectangle(f.Min.X, f.Min.Y, f.Max.X-f.Min.X, f.Max.Y-f.Min.Y)
	dc.Stroke()

	for _, t := range cb.Ticks {
		dc.SetColor(p.scene.TextColor)
		dc.DrawLine(t.From.X, t.From.Y, t.To.X, t.To.Y)
		dc.Stroke()
		if err := p.text(t.Label); err != nil {
			return err
		}
	}
	return p.text(cb.Title)
}
