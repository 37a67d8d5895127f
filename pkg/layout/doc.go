// Package layout positions the nodes of a tech path in the unit square.
//
// The horizontal axis encodes time: every node's x is its first-occurrence
// time, min-max normalized so the earliest action sits at 0 and the latest at
// 1. The vertical axis carries no meaning; it comes from a Fruchterman-Reingold
// spring placement that pushes unrelated actions apart so their labels do not
// collide.
//
// Placement is seeded. The same graph, parameters and seed always produce the
// same layout, and x never depends on the seed at all.
//
//	lay, err := layout.Compute(g, layout.Options{Seed: 7})
//	p := lay.Positions["Pylon"] // r2.Vec in [0,1]x[0,1]
//
// When every node shares one time (a single-event build order, for example)
// normalization has no range to divide by; all nodes then sit at [FlatValue].
package layout
