// Package pkg provides the core libraries for techpath build order
// visualization.
//
// # Overview
//
// techpath turns the build order of one player in a game replay into a tech
// path: a directed graph whose nodes are the distinct actions the player took
// and whose edges are the transitions between consecutive actions. Nodes are
// placed left to right by the time they first happened, grow with repetition
// and are colored by time.
//
// # Architecture
//
// The typical data flow through techpath:
//
//	Replay (.SC2Replay, or a parsed .json/.yaml dump)
//	         ↓
//	    [replay] package (external parser, decoding, time conversion)
//	         ↓
//	    [techgraph] package (nodes, repeat counts, transitions)
//	         ↓
//	    [layout] package (time on x, spring layout on y)
//	         ↓
//	    [render] package (PNG, SVG, PDF) and [render/nodelink] (DOT)
//
// [pipeline] runs these stages with shared defaults, caching and logging.
// [graph] serializes a computed layout so it can be rendered later.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/techpath/pkg/layout"
//	    "github.com/matzehuels/techpath/pkg/render"
//	    "github.com/matzehuels/techpath/pkg/replay"
//	    "github.com/matzehuels/techpath/pkg/techgraph"
//	)
//
//	rep, _ := replay.ReadFile("game.json")
//	player, _ := rep.Player(1)
//	g, _ := techgraph.Build(player.BuildOrder)
//	l, _ := layout.Compute(g, layout.Options{Seed: 42})
//	scene, _ := render.BuildScene(g, l, render.Options{PlayerID: 1})
//	png, _ := render.RenderPNG(scene)
//
// # Main Packages
//
// ## Domain
//
// [replay] - Replay documents, the external parser bridge and "MM:SS" time
// conversion in decimal or minutes mode.
//
// [techgraph] - The tech path graph built from a build order.
//
// [layout] - Node placement: normalized time on x, a seeded spring layout on
// y.
//
// ## Visualization
//
// [render] - Scenes and the PNG, SVG and PDF sinks.
//
// [render/nodelink] - Graphviz DOT output, optionally with pinned positions.
//
// [fonts] - Embedded fonts for raster and vector output.
//
// ## Infrastructure
//
// [pipeline] - Load, build, layout and render used by every CLI command.
//
// [cache] - File cache for parser output and layouts.
//
// [config] - TOML configuration file.
//
// [observability] - Hooks around pipeline stages, cache access and parser
// runs.
//
// [errors] - Coded errors shown to users.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//	go test -run Example       # Examples only
//
// [replay]: https://pkg.go.dev/github.com/matzehuels/techpath/pkg/replay
// [techgraph]: https://pkg.go.dev/github.com/matzehuels/techpath/pkg/techgraph
// [layout]: https://pkg.go.dev/github.com/matzehuels/techpath/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/techpath/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/techpath/pkg/render/nodelink
// [fonts]: https://pkg.go.dev/github.com/matzehuels/techpath/pkg/fonts
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/techpath/pkg/pipeline
// [graph]: https://pkg.go.dev/github.com/matzehuels/techpath/pkg/graph
// [cache]: https://pkg.go.dev/github.com/matzehuels/techpath/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/techpath/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/techpath/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/techpath/pkg/errors
package pkg
