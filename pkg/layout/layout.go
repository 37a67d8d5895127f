package layout

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/techpath/pkg/errors"
	"github.com/matzehuels/techpath/pkg/techgraph"
)

const (
	// DefaultK is the optimal distance between nodes in spring units.
	DefaultK = 0.9

	// DefaultIterations is the spring placement iteration budget.
	DefaultIterations = 50

	// DefaultSeed seeds the initial placement when Options.Seed is zero.
	DefaultSeed uint64 = 42
)

// Options configures Compute. Zero values select the defaults.
type Options struct {
	K          float64
	Iterations int
	Seed       uint64
}

// ValidateAndSetDefaults fills zero fields with defaults and rejects
// negative parameters.
func (o *Options) ValidateAndSetDefaults() error {
	if o.K < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "spring distance k must be positive, got %v", o.K)
	}
	if o.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "iterations must not be negative, got %d", o.Iterations)
	}
	if o.K == 0 {
		o.K = DefaultK
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	return nil
}

// Layout holds normalized node positions.
type Layout struct {
	// Names lists nodes in the graph's first-seen order.
	Names []string

	// Positions maps node names to coordinates in [0,1]x[0,1].
	Positions map[string]r2.Vec

	// TimeMin and TimeMax are the raw times x was normalized from.
	TimeMin float64
	TimeMax float64

	// Parameters used for the spring placement.
	K          float64
	Iterations int
	Seed       uint64
}

// Position returns the coordinates of a node.
func (l *Layout) Position(name string) (r2.Vec, bool) {
	p, ok := l.Positions[name]
	return p, ok
}

// Compute lays out g: spring placement for y, first-occurrence time for x,
// both normalized into the unit square.
func Compute(g *techgraph.Graph, opts Options) (*Layout, error) {
	if g == nil || g.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyBuildOrder, "cannot lay out an empty tech path")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	placed := spring(Undirected(g), opts.K, opts.Iterations, rng)

	nodes := g.Nodes()
	xs := make([]float64, len(nodes))
	ys := make([]float64, len(nodes))
	for i, n := range nodes {
		xs[i] = n.Time
		ys[i] = placed[i].Y
	}
	lo, hi := Normalize(xs)
	Normalize(ys)

	l := &Layout{
		Names:      g.Names(),
		Positions:  make(map[string]r2.Vec, len(nodes)),
		TimeMin:    lo,
		TimeMax:    hi,
		K:          opts.K,
		Iterations: opts.Iterations,
		Seed:       opts.Seed,
	}
	for i, n := range nodes {
		l.Positions[n.Name] = r2.Vec{X: xs[i], Y: ys[i]}
	}
	return l, nil
}
