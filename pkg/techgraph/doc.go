// Package techgraph turns one player's build order into a tech path graph.
//
// A tech path collapses repeated actions into a single node and keeps every
// transition between consecutive actions as its own edge:
//
//	events: Probe 0:05, Pylon 0:20, Probe 1:00
//	nodes:  Probe (size 1500, time 0.05), Pylon (size 1000, time 0.20)
//	edges:  Probe -> Pylon "0.20", Pylon -> Probe "1.00"
//
// # Nodes
//
// Nodes are keyed by event name and kept in first-seen order. A node records
// the time of its first occurrence, which also serves as its color key. Its
// size starts at [DefaultBaseSize] and grows by [DefaultIncrement] for every
// repeat.
//
// # Edges
//
// There is exactly one edge per consecutive pair of events, so a build order of
// N events has N-1 edges. Edges are not deduplicated and may be self-loops when
// the same action is issued twice in a row. Each edge is labeled with the time
// of its destination event, formatted with two decimals.
//
// # Time Conversion
//
// Event times are converted with [replay.ParseTime]. The default mode,
// [replay.TimeDecimal], reads "MM:SS" as a decimal number of minutes for
// compatibility with earlier renders; use [WithTimeMode] with
// [replay.TimeMinutes] for a true base-60 conversion.
package techgraph
