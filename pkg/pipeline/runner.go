package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/matzehuels/techpath/pkg/cache"
	"github.com/matzehuels/techpath/pkg/errors"
	"github.com/matzehuels/techpath/pkg/graph"
	"github.com/matzehuels/techpath/pkg/layout"
	"github.com/matzehuels/techpath/pkg/observability"
	"github.com/matzehuels/techpath/pkg/render"
	"github.com/matzehuels/techpath/pkg/render/nodelink"
	"github.com/matzehuels/techpath/pkg/replay"
	"github.com/matzehuels/techpath/pkg/techgraph"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// pipeline results.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs the complete pipeline for one player.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	loadStart := time.Now()
	rep, loadHit, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	loadTime := time.Since(loadStart)

	result, err := r.ExecuteReplay(ctx, rep, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = loadTime
	result.CacheInfo.LoadHit = loadHit
	return result, nil
}

// ExecuteReplay runs build, layout and render for one player of a replay that
// is already loaded, so callers that listed the players first do not run the
// parser again.
func (r *Runner) ExecuteReplay(ctx context.Context, rep *replay.Replay, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	player, g, err := r.Build(ctx, rep, opts)
	if err != nil {
		return nil, err
	}
	result.Player = player
	result.Graph = g
	result.Stats.Events = g.EventCount()
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	layoutStart := time.Now()
	pos, layoutHit, err := r.ComputeLayout(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	result.Layout = graph.FromTechPath(graph.Player{
		ID:       player.ID,
		Name:     player.Name,
		Race:     player.Race,
		IsWinner: player.IsWinner,
	}, replay.TimeMode(opts.TimeMode), g, pos)
	result.Layout.Source = rep.Source

	renderStart := time.Now()
	artifacts, err := r.Render(ctx, result.Layout, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	return result, nil
}

// =============================================================================
// Load
// =============================================================================

// Load reads the replay named by opts.ReplayPath. The returned flag reports
// whether the parser output came from the cache; dump files are never cached.
func (r *Runner) Load(ctx context.Context, opts Options) (*replay.Replay, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.ReplayPath)
	start := time.Now()

	rep, hit, err := r.load(ctx, opts)
	if err != nil {
		hooks.OnLoadComplete(ctx, opts.ReplayPath, 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnLoadComplete(ctx, opts.ReplayPath, len(rep.Players), time.Since(start), nil)

	r.Logger.Info("loaded replay",
		"path", opts.ReplayPath,
		"players", len(rep.Players),
		"cached", hit,
		"duration", time.Since(start))
	return rep, hit, nil
}

func (r *Runner) load(ctx context.Context, opts Options) (*replay.Replay, bool, error) {
	_, isDump := replay.FormatFromPath(opts.ReplayPath)
	if isDump || opts.ParserCommand == "" || !replay.IsRawReplay(opts.ReplayPath) {
		rep, err := replay.Load(ctx, opts.ReplayPath, opts.ParserCommand)
		return rep, false, err
	}

	raw, err := os.ReadFile(opts.ReplayPath)
	if err != nil {
		// Let Load produce the coded error.
		rep, err := replay.Load(ctx, opts.ReplayPath, opts.ParserCommand)
		return rep, false, err
	}
	key := cache.ReplayKey(cache.Hash(raw), opts.ParserCommand)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if rep, err := replay.Unmarshal(data, replay.FormatJSON); err == nil {
				observability.Cache().OnCacheHit(ctx, "replay")
				rep.Source = opts.ReplayPath
				return rep, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "replay")
	}

	rep, err := replay.Load(ctx, opts.ReplayPath, opts.ParserCommand)
	if err != nil {
		return nil, false, err
	}
	if data, err := replay.Marshal(rep); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "replay", len(data))
		} else {
			r.Logger.Debug("cache write failed", "key", key, "error", err)
		}
	}
	return rep, false, nil
}

// Summaries returns the display summary of every player, ordered by id.
func (r *Runner) Summaries(rep *replay.Replay) []replay.PlayerSummary {
	return rep.Summaries()
}

// =============================================================================
// Build
// =============================================================================

// Build selects opts.PlayerID from rep and builds its tech graph.
func (r *Runner) Build(ctx context.Context, rep *replay.Replay, opts Options) (replay.PlayerSummary, *techgraph.Graph, error) {
	if err := errors.ValidatePlayerID(opts.PlayerID); err != nil {
		return replay.PlayerSummary{}, nil, err
	}
	if err := opts.ValidateForBuild(); err != nil {
		return replay.PlayerSummary{}, nil, err
	}

	p, err := rep.Player(opts.PlayerID)
	if err != nil {
		return replay.PlayerSummary{}, nil, err
	}
	summary := replay.PlayerSummary{
		ID:       opts.PlayerID,
		Name:     p.Name,
		Race:     p.Race,
		IsWinner: p.IsWinner,
		Events:   len(p.BuildOrder),
	}

	g, err := techgraph.Build(p.BuildOrder, opts.BuildOptions()...)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, opts.PlayerID, 0, 0, err)
		return summary, nil, err
	}
	observability.Pipeline().OnBuildComplete(ctx, opts.PlayerID, g.NodeCount(), g.EdgeCount(), nil)

	r.Logger.Info("built tech graph",
		"player", opts.PlayerID,
		"events", g.EventCount(),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount())
	return summary, g, nil
}

// =============================================================================
// Layout
// =============================================================================

// ComputeLayout places the nodes of g. The returned flag reports a cache hit.
func (r *Runner) ComputeLayout(ctx context.Context, g *techgraph.Graph, opts Options) (*layout.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, g.NodeCount())
	start := time.Now()

	key := cache.LayoutKey(graphHash(g), opts.LayoutKeyOpts())
	if !opts.Refresh {
		if l, ok := r.cachedLayout(ctx, key, g); ok {
			hooks.OnLayoutComplete(ctx, time.Since(start), nil)
			r.Logger.Debug("layout from cache", "nodes", g.NodeCount())
			return l, true, nil
		}
	}

	l, err := layout.Compute(g, opts.LayoutOptions())
	if err != nil {
		hooks.OnLayoutComplete(ctx, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnLayoutComplete(ctx, time.Since(start), nil)

	doc := graph.FromTechPath(graph.Player{}, replay.TimeMode(opts.TimeMode), g, l)
	if data, err := graph.MarshalLayout(doc); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	r.Logger.Info("computed layout",
		"nodes", g.NodeCount(),
		"seed", l.Seed,
		"duration", time.Since(start))
	return l, false, nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string, g *techgraph.Graph) (*layout.Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return nil, false
	}
	doc, err := graph.UnmarshalLayout(data)
	if err != nil || len(doc.Nodes) != g.NodeCount() {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	return doc.Positions(), true
}

// graphHash identifies a built graph by its nodes and edges.
func graphHash(g *techgraph.Graph) string {
	data, _ := json.Marshal(struct {
		Nodes []techgraph.Node
		Edges []techgraph.Edge
	}{g.Nodes(), g.Edges()})
	return cache.Hash(data)
}

// =============================================================================
// Render
// =============================================================================

// Render produces every format in opts.Formats from a serialized tech path.
func (r *Runner) Render(ctx context.Context, doc graph.Layout, opts Options) (map[render.Format][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	formats := make([]string, len(opts.Formats))
	for i, f := range opts.Formats {
		formats[i] = string(f)
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()

	artifacts, err := renderAll(ctx, doc, opts)
	hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("rendered outputs",
		"formats", formats,
		"duration", time.Since(start))
	return artifacts, nil
}

func renderAll(ctx context.Context, doc graph.Layout, opts Options) (map[render.Format][]byte, error) {
	g, err := doc.TechGraph()
	if err != nil {
		return nil, err
	}
	pos := doc.Positions()

	ro := opts.RenderOptions()
	ro.PlayerID = doc.Player.ID
	if err := ro.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	var svg []byte
	vector := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		vo := ro
		vo.DPI = 72
		s, err := render.BuildScene(g, pos, vo)
		if err != nil {
			return nil, err
		}
		svg = render.RenderSVG(s)
		return svg, nil
	}
	dot := func() (string, error) {
		return nodelink.ToDOT(g, pos, nodelink.Options{Title: ro.Title, ColorScale: ro.ColorScale})
	}

	artifacts := make(map[render.Format][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case render.FormatPNG:
			var s *render.Scene
			if s, err = render.BuildScene(g, pos, ro); err == nil {
				data, err = render.RenderPNG(s)
			}
		case render.FormatSVG:
			if opts.Engine == EngineGraphviz {
				var src string
				if src, err = dot(); err == nil {
					data, err = nodelink.RenderSVG(ctx, src, true)
				}
			} else {
				data, err = vector()
			}
		case render.FormatPDF:
			var v []byte
			if v, err = vector(); err == nil {
				data, err = render.ToPDF(v)
			}
		case render.FormatDOT:
			var src string
			if src, err = dot(); err == nil {
				data = []byte(src)
			}
		case render.FormatJSON:
			data, err = graph.MarshalLayout(doc)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			if errors.GetCode(err) != "" {
				return nil, err
			}
			return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// =============================================================================
// Output
// =============================================================================

// WriteArtifacts writes each artifact to dir under its standard file name,
// in the order given by formats, and returns the written paths. An empty dir
// means the working directory.
func WriteArtifacts(dir string, playerID int, formats []render.Format, artifacts map[render.Format][]byte) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeWrite, err, "create output directory %s", dir)
	}
	var paths []string
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return paths, fmt.Errorf("no %s artifact to write", f)
		}
		path := filepath.Join(dir, render.FileName(playerID, f))
		if err := render.WriteFile(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
