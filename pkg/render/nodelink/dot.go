package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/techpath/pkg/layout"
	"github.com/matzehuels/techpath/pkg/render"
	"github.com/matzehuels/techpath/pkg/techgraph"
)

// Canvas extent of pinned positions, in points.
const (
	canvasWidth  = 1440.0
	canvasHeight = 864.0
)

// Options configures DOT generation.
type Options struct {
	// Title is used as the graph label; empty omits it.
	Title string

	// ColorScale names a render color scale; empty selects the default.
	ColorScale string
}

// ToDOT converts a tech path to Graphviz DOT.
//
// Every transition becomes its own edge, so repeated transitions show up as
// parallel arrows. When l is non-nil each node is pinned at its layout
// position (pos="x,y!"), which neato and fdp honour; without a layout the
// graph is ranked left to right by dot.
func ToDOT(g *techgraph.Graph, l *layout.Layout, opts Options) (string, error) {
	scale, err := render.ScaleByName(opts.ColorScale)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("digraph tech_path {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	if l != nil {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  overlap=true;\n")
	}
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontsize=8, fontname=\"Helvetica-Bold\", color=none];\n")
	buf.WriteString("  edge [color=\"#808080\", penwidth=0.5, arrowsize=0.5, fontsize=6];\n")
	buf.WriteString("\n")

	clo, chi := g.ColorRange()
	for _, n := range g.Nodes() {
		attrs := []string{
			fmt.Sprintf("label=%q", n.Name),
			fmt.Sprintf("fillcolor=%q", scale.Map(n.ColorKey, clo, chi).Hex()),
			// Node size is an area in square points; width is a diameter in inches.
			fmt.Sprintf("width=%.3f", math.Sqrt(n.Size)/72),
			fmt.Sprintf("tooltip=%q", fmt.Sprintf("first at %.2f min, %d×", n.Time, n.Count)),
		}
		if l != nil {
			if p, ok := l.Position(n.Name); ok {
				attrs = append(attrs, fmt.Sprintf("pos=\"%.1f,%.1f!\"", p.X*canvasWidth, p.Y*canvasHeight))
			}
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz. Pinned graphs, those
// generated from a layout, are placed by neato so the pins hold.
func RenderSVG(ctx context.Context, dot string, pinned bool) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	if pinned {
		gv.SetLayout(graphviz.NEATO)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales with its
// container instead of carrying Graphviz's fixed point size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
