package layout

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/techpath/pkg/techgraph"
)

const (
	minDistance  = 0.01
	minStep      = 0.1
	stopDistance = 1e-4
)

// Undirected returns the connectivity of g as a simple undirected graph.
// Node ids are first-seen indices. Self-loops and repeated transitions carry
// no extra force, so they are dropped.
func Undirected(g *techgraph.Graph) *simple.UndirectedGraph {
	u := simple.NewUndirectedGraph()
	names := g.Names()
	ids := make(map[string]int64, len(names))
	for i, name := range names {
		ids[name] = int64(i)
		u.AddNode(simple.Node(i))
	}
	for _, e := range g.Edges() {
		if e.IsSelfLoop() {
			continue
		}
		from, to := ids[e.From], ids[e.To]
		if u.HasEdgeBetween(from, to) {
			continue
		}
		u.SetEdge(u.NewEdge(u.Node(from), u.Node(to)))
	}
	return u
}

// spring runs Fruchterman-Reingold on u and returns one position per node id,
// centered on the origin and scaled so the largest coordinate is 1.
//
// Nodes start uniformly in the unit square. Every iteration moves each node by
// at most the current temperature, which begins at a tenth of the start
// extent and cools linearly to zero.
func spring(u *simple.UndirectedGraph, k float64, iterations int, rng *rand.Rand) []r2.Vec {
	n := u.Nodes().Len()
	pos := make([]r2.Vec, n)
	for i := range pos {
		pos[i] = r2.Vec{X: rng.Float64(), Y: rng.Float64()}
	}
	if n <= 1 {
		return rescale(pos)
	}

	adjacent := make([][]bool, n)
	for i := range adjacent {
		adjacent[i] = make([]bool, n)
		for j := range adjacent[i] {
			adjacent[i][j] = i != j && u.HasEdgeBetween(int64(i), int64(j))
		}
	}

	temp := 0.1 * extent(pos)
	cool := temp / float64(iterations+1)
	disp := make([]r2.Vec, n)

	for iter := 0; iter < iterations; iter++ {
		for i := range pos {
			var d r2.Vec
			for j := range pos {
				if i == j {
					continue
				}
				delta := r2.Sub(pos[i], pos[j])
				dist := math.Max(r2.Norm(delta), minDistance)
				// Repulsion k²/d between every pair, attraction d²/k along edges.
				f := k * k / (dist * dist)
				if adjacent[i][j] {
					f -= dist / k
				}
				d = r2.Add(d, r2.Scale(f, delta))
			}
			disp[i] = d
		}

		var moved float64
		for i, d := range disp {
			length := r2.Norm(d)
			if length < minDistance {
				length = minStep
			}
			step := r2.Scale(temp/length, d)
			pos[i] = r2.Add(pos[i], step)
			moved += r2.Norm(step)
		}
		temp -= cool
		if moved/float64(n) < stopDistance {
			break
		}
	}
	return rescale(pos)
}

// extent is the larger side of the bounding box of pos.
func extent(pos []r2.Vec) float64 {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pos {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return math.Max(maxX-minX, maxY-minY)
}

// rescale centers pos on its mean and scales the largest absolute coordinate
// to 1.
func rescale(pos []r2.Vec) []r2.Vec {
	if len(pos) == 0 {
		return pos
	}
	var mean r2.Vec
	for _, p := range pos {
		mean = r2.Add(mean, p)
	}
	mean = r2.Scale(1/float64(len(pos)), mean)

	var lim float64
	for i := range pos {
		pos[i] = r2.Sub(pos[i], mean)
		lim = math.Max(lim, math.Max(math.Abs(pos[i].X), math.Abs(pos[i].Y)))
	}
	if lim > 0 {
		for i := range pos {
			pos[i] = r2.Scale(1/lim, pos[i])
		}
	}
	return pos
}
