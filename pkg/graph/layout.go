package graph

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/techpath/pkg/errors"
	"github.com/matzehuels/techpath/pkg/layout"
	"github.com/matzehuels/techpath/pkg/replay"
	"github.com/matzehuels/techpath/pkg/techgraph"
)

// FormatVersion is the layout file version written by this package.
const FormatVersion = 1

// =============================================================================
// Layout - Serialized Tech Path
// =============================================================================

// Layout is a tech path together with its node positions.
type Layout struct {
	Version  int    `json:"version"`
	Player   Player `json:"player"`
	TimeMode string `json:"time_mode,omitempty"`
	Source   string `json:"source,omitempty"`
	Nodes    []Node `json:"nodes"`
	Edges    []Edge `json:"edges"`
	Spring   Spring `json:"spring"`
}

// Player identifies whose build order was drawn.
type Player struct {
	ID       int    `json:"id"`
	Name     string `json:"name,omitempty"`
	Race     string `json:"race,omitempty"`
	IsWinner bool   `json:"is_winner"`
}

// Node is a positioned tech path node.
type Node struct {
	Name     string  `json:"name"`
	Time     float64 `json:"time"`
	Size     float64 `json:"size"`
	ColorKey float64 `json:"color_key"`
	Count    int     `json:"count"`
	Index    int     `json:"index"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// Edge is a serialized transition.
type Edge struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Label string  `json:"label"`
	Time  float64 `json:"time"`
	Index int     `json:"index"`
}

// Spring records the placement parameters so a layout can be reproduced.
type Spring struct {
	K          float64 `json:"k"`
	Iterations int     `json:"iterations"`
	Seed       uint64  `json:"seed"`
	TimeMin    float64 `json:"time_min"`
	TimeMax    float64 `json:"time_max"`
}

// FromTechPath captures g and its layout l for serialization.
func FromTechPath(p Player, mode replay.TimeMode, g *techgraph.Graph, l *layout.Layout) Layout {
	out := Layout{
		Version:  FormatVersion,
		Player:   p,
		TimeMode: string(mode),
		Nodes:    make([]Node, 0, g.NodeCount()),
		Edges:    make([]Edge, 0, g.EdgeCount()),
		Spring: Spring{
			K:          l.K,
			Iterations: l.Iterations,
			Seed:       l.Seed,
			TimeMin:    l.TimeMin,
			TimeMax:    l.TimeMax,
		},
	}
	for _, n := range g.Nodes() {
		pos := l.Positions[n.Name]
		out.Nodes = append(out.Nodes, Node{
			Name:     n.Name,
			Time:     n.Time,
			Size:     n.Size,
			ColorKey: n.ColorKey,
			Count:    n.Count,
			Index:    n.Index,
			X:        pos.X,
			Y:        pos.Y,
		})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge(e))
	}
	return out
}

// TechGraph rebuilds the graph stored in the layout.
func (l Layout) TechGraph() (*techgraph.Graph, error) {
	nodes := make([]techgraph.Node, len(l.Nodes))
	for i, n := range l.Nodes {
		nodes[i] = techgraph.Node{
			Name:     n.Name,
			Time:     n.Time,
			Size:     n.Size,
			ColorKey: n.ColorKey,
			Count:    n.Count,
			Index:    n.Index,
		}
	}
	edges := make([]techgraph.Edge, len(l.Edges))
	for i, e := range l.Edges {
		edges[i] = techgraph.Edge(e)
	}
	return techgraph.Assemble(nodes, edges)
}

// Positions rebuilds the stored node positions.
func (l Layout) Positions() *layout.Layout {
	out := &layout.Layout{
		Names:      make([]string, len(l.Nodes)),
		Positions:  make(map[string]r2.Vec, len(l.Nodes)),
		TimeMin:    l.Spring.TimeMin,
		TimeMax:    l.Spring.TimeMax,
		K:          l.Spring.K,
		Iterations: l.Spring.Iterations,
		Seed:       l.Spring.Seed,
	}
	for i, n := range l.Nodes {
		out.Names[i] = n.Name
		out.Positions[n.Name] = r2.Vec{X: n.X, Y: n.Y}
	}
	return out
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// It rejects files from a newer format version and positions outside the
// unit square.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "unmarshal layout")
	}
	if l.Version == 0 {
		l.Version = FormatVersion
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate rejects layouts from a newer format version, layouts without
// nodes and positions outside the unit square (NaN included).
func (l Layout) Validate() error {
	if l.Version > FormatVersion {
		return errors.New(errors.ErrCodeUnsupported, "layout version %d is newer than supported version %d", l.Version, FormatVersion)
	}
	if len(l.Nodes) == 0 {
		return errors.New(errors.ErrCodeEmptyBuildOrder, "layout contains no nodes")
	}
	for _, n := range l.Nodes {
		if !inUnit(n.X) || !inUnit(n.Y) {
			return errors.New(errors.ErrCodeInvalidInput, "node %q at (%v, %v) is outside the unit square", n.Name, n.X, n.Y)
		}
	}
	return nil
}

// inUnit reports whether v lies in [0, 1]. NaN does not.
func inUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// WriteLayout writes a Layout as JSON to w.
func WriteLayout(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "write %s", path)
	}
	return nil
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
