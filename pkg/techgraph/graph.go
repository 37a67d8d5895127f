package techgraph

import (
	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/techpath/pkg/errors"
	"github.com/matzehuels/techpath/pkg/replay"
)

const (
	// DefaultBaseSize is the size of a node that occurs once.
	DefaultBaseSize = 1000.0

	// DefaultIncrement is added to a node's size for every repeat.
	DefaultIncrement = 500.0
)

// Node is one distinct action in the build order.
type Node struct {
	Name     string
	Time     float64 // time of first occurrence, in minutes
	Size     float64 // BaseSize + Increment*(Count-1)
	ColorKey float64 // value mapped through the color scale
	Count    int     // number of occurrences
	Index    int     // position of the first occurrence in the build order
}

// Edge is a transition between two consecutive build events.
type Edge struct {
	From  string
	To    string
	Label string  // destination time, two decimals
	Time  float64 // destination time, in minutes
	Index int     // build order position of the destination event
}

// IsSelfLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsSelfLoop() bool { return e.From == e.To }

// Graph is the tech path of a single build order.
type Graph struct {
	nodes  []*Node
	byName map[string]*Node
	edges  []Edge
	events int
}

// =============================================================================
// Options
// =============================================================================

type options struct {
	baseSize  float64
	increment float64
	timeMode  replay.TimeMode
}

// Option configures Build.
type Option func(*options)

// WithBaseSize sets the size of nodes that occur once.
func WithBaseSize(size float64) Option {
	return func(o *options) { o.baseSize = size }
}

// WithIncrement sets the size added per repeated occurrence.
func WithIncrement(inc float64) Option {
	return func(o *options) { o.increment = inc }
}

// WithTimeMode selects how "MM:SS" strings are converted to minutes.
func WithTimeMode(mode replay.TimeMode) Option {
	return func(o *options) { o.timeMode = mode }
}

// =============================================================================
// Build
// =============================================================================

// Build constructs the tech path of events.
//
// An empty build order yields an EMPTY_BUILD_ORDER error and a malformed time
// an INVALID_TIME error naming the offending event. Build has no side effects.
func Build(events []replay.BuildEvent, opts ...Option) (*Graph, error) {
	o := options{
		baseSize:  DefaultBaseSize,
		increment: DefaultIncrement,
		timeMode:  replay.DefaultTimeMode,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if len(events) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyBuildOrder, "build order is empty, nothing to visualize")
	}

	g := &Graph{
		byName: make(map[string]*Node),
		edges:  make([]Edge, 0, len(events)-1),
		events: len(events),
	}

	var prev string
	for i, ev := range events {
		t, err := replay.ParseTime(ev.Time, o.timeMode)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTime, err, "build event %d (%s)", i, ev.Name)
		}

		if n, ok := g.byName[ev.Name]; ok {
			n.Size += o.increment
			n.Count++
		} else {
			n := &Node{
				Name:     ev.Name,
				Time:     t,
				Size:     o.baseSize,
				ColorKey: t,
				Count:    1,
				Index:    i,
			}
			g.nodes = append(g.nodes, n)
			g.byName[ev.Name] = n
		}

		if i > 0 {
			g.edges = append(g.edges, Edge{
				From:  prev,
				To:    ev.Name,
				Label: replay.FormatMinutes(t),
				Time:  t,
				Index: i,
			})
		}
		prev = ev.Name
	}
	return g, nil
}

// =============================================================================
// Accessors
// =============================================================================

// Nodes returns the nodes in first-seen order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = *n
	}
	return out
}

// Node returns the node with the given name.
func (g *Graph) Node(name string) (Node, bool) {
	n, ok := g.byName[name]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Names returns node names in first-seen order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.Name
	}
	return out
}

// Edges returns the edges in build order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of distinct actions.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of transitions.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// EventCount returns the length of the build order the graph was built from.
func (g *Graph) EventCount() int { return g.events }

// TimeRange returns the smallest and largest first-occurrence time.
func (g *Graph) TimeRange() (min, max float64) {
	times := make([]float64, len(g.nodes))
	for i, n := range g.nodes {
		times[i] = n.Time
	}
	return floats.Min(times), floats.Max(times)
}

// ColorRange returns the smallest and largest color key.
func (g *Graph) ColorRange() (min, max float64) {
	keys := make([]float64, len(g.nodes))
	for i, n := range g.nodes {
		keys[i] = n.ColorKey
	}
	return floats.Min(keys), floats.Max(keys)
}

// =============================================================================
// Assembly
// =============================================================================

// Assemble rebuilds a graph from previously built nodes and edges, such as
// those stored in a layout file. Nodes must have unique names and edges must
// only reference them; edges keep the order given.
func Assemble(nodes []Node, edges []Edge) (*Graph, error) {
	if len(nodes) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyBuildOrder, "tech path has no nodes")
	}
	g := &Graph{
		byName: make(map[string]*Node, len(nodes)),
		edges:  make([]Edge, len(edges)),
		events: len(edges) + 1,
	}
	for i := range nodes {
		n := nodes[i]
		if err := errors.ValidateEventName(n.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "node %d", i)
		}
		if _, dup := g.byName[n.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate node %q", n.Name)
		}
		if n.Count < 1 {
			n.Count = 1
		}
		g.nodes = append(g.nodes, &n)
		g.byName[n.Name] = &n
	}
	for i, e := range edges {
		if _, ok := g.byName[e.From]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge %d starts at unknown node %q", i, e.From)
		}
		if _, ok := g.byName[e.To]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge %d ends at unknown node %q", i, e.To)
		}
		g.edges[i] = e
	}
	return g, nil
}
