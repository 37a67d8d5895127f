// Package pipeline provides the load → build → layout → render pipeline for
// techpath.
//
// The CLI commands are thin wrappers around a [Runner], which owns the cache
// and logger and runs each stage with consistent defaults.
//
// # Stages
//
//  1. Load: decode a replay dump, or run the external parser on a raw replay
//  2. Build: turn one player's build order into a tech graph
//  3. Layout: place nodes with time on x and a spring layout on y
//  4. Render: produce PNG, SVG, PDF, DOT or layout JSON
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ReplayPath: "game.json",
//	    PlayerID:   1,
//	    Formats:    []render.Format{render.FormatPNG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts[render.FormatPNG]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/techpath/pkg/cache"
	"github.com/matzehuels/techpath/pkg/errors"
	"github.com/matzehuels/techpath/pkg/graph"
	"github.com/matzehuels/techpath/pkg/layout"
	"github.com/matzehuels/techpath/pkg/render"
	"github.com/matzehuels/techpath/pkg/replay"
	"github.com/matzehuels/techpath/pkg/techgraph"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI
// =============================================================================

const (
	// DefaultBaseSize is the size of a node that occurs once.
	DefaultBaseSize = techgraph.DefaultBaseSize

	// DefaultIncrement is added to a node's size per repeat.
	DefaultIncrement = techgraph.DefaultIncrement

	// DefaultK is the spring layout's optimal node distance.
	DefaultK = layout.DefaultK

	// DefaultIterations is the number of spring layout iterations.
	DefaultIterations = layout.DefaultIterations

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = layout.DefaultSeed

	// DefaultDPI is the raster resolution.
	DefaultDPI = render.DefaultDPI

	// DefaultEngine draws SVG output with the built-in renderer.
	DefaultEngine = EngineNative
)

// SVG engines.
const (
	// EngineNative draws SVG from the same scene as PNG output.
	EngineNative = "native"

	// EngineGraphviz hands the pinned DOT graph to Graphviz.
	EngineGraphviz = "graphviz"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Load options
	ReplayPath    string `json:"replay_path"`
	PlayerID      int    `json:"player_id"`
	ParserCommand string `json:"parser_command,omitempty"`
	Refresh       bool   `json:"refresh,omitempty"` // ignore cached parser output and layouts

	// Build options. Zero sizes select the defaults, so growth cannot be
	// switched off; a small Increment keeps repeats nearly the same size.
	TimeMode  string  `json:"time_mode,omitempty"`
	BaseSize  float64 `json:"base_size,omitempty"`
	Increment float64 `json:"increment,omitempty"`

	// Layout options. Zero values, Seed included, select the defaults.
	K          float64 `json:"k,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
	Seed       uint64  `json:"seed,omitempty"`

	// Render options
	Formats    []render.Format `json:"formats,omitempty"`
	Width      float64         `json:"width,omitempty"`  // inches
	Height     float64         `json:"height,omitempty"` // inches
	DPI        float64         `json:"dpi,omitempty"`
	Title      string          `json:"title,omitempty"`
	ColorScale string          `json:"color_scale,omitempty"`
	EmbedFonts bool            `json:"embed_fonts,omitempty"`
	Engine     string          `json:"engine,omitempty"`
	OutputDir  string          `json:"output_dir,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	timeMode replay.TimeMode
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Player is the summary of the player that was drawn.
	Player replay.PlayerSummary

	// Graph is the built tech graph.
	Graph *techgraph.Graph

	// Layout is the serialized tech path with positions.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[render.Format][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Events     int
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // parser output came from cache
	LayoutHit bool // positions came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := errors.ValidatePlayerID(o.PlayerID); err != nil {
		return err
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// ValidateForLoad checks the replay path and parser command.
func (o *Options) ValidateForLoad() error {
	if err := errors.ValidatePath(o.ReplayPath); err != nil {
		return err
	}
	if o.ParserCommand != "" {
		if err := errors.ValidateParserCommand(o.ParserCommand); err != nil {
			return err
		}
	}
	o.setLogger()
	return nil
}

// ValidateForBuild resolves the time mode and node sizing.
func (o *Options) ValidateForBuild() error {
	mode, err := replay.ParseTimeMode(o.TimeMode)
	if err != nil {
		return err
	}
	o.timeMode = mode
	o.TimeMode = string(mode)
	if o.BaseSize < 0 || o.Increment < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "node sizes must not be negative")
	}
	if o.BaseSize == 0 {
		o.BaseSize = DefaultBaseSize
	}
	if o.Increment == 0 {
		o.Increment = DefaultIncrement
	}
	o.setLogger()
	return nil
}

// ValidateForLayout applies the spring layout defaults.
func (o *Options) ValidateForLayout() error {
	lo := o.LayoutOptions()
	if err := lo.ValidateAndSetDefaults(); err != nil {
		return err
	}
	o.K, o.Iterations, o.Seed = lo.K, lo.Iterations, lo.Seed
	o.setLogger()
	return nil
}

// ValidateForRender checks formats and figure settings.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []render.Format{render.DefaultFormat}
	}
	for _, f := range o.Formats {
		if _, err := render.ParseFormats(string(f)); err != nil {
			return err
		}
	}
	switch o.Engine {
	case "":
		o.Engine = DefaultEngine
	case EngineNative, EngineGraphviz:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid engine: %q (must be 'native' or 'graphviz')", o.Engine)
	}
	ro := o.RenderOptions()
	if err := ro.ValidateAndSetDefaults(); err != nil {
		return err
	}
	o.Width, o.Height, o.DPI, o.ColorScale = ro.Width, ro.Height, ro.DPI, ro.ColorScale
	o.setLogger()
	return nil
}

// BuildOptions returns the tech graph options.
func (o *Options) BuildOptions() []techgraph.Option {
	mode := o.timeMode
	if mode == "" {
		mode = replay.TimeMode(o.TimeMode)
	}
	return []techgraph.Option{
		techgraph.WithBaseSize(o.BaseSize),
		techgraph.WithIncrement(o.Increment),
		techgraph.WithTimeMode(mode),
	}
}

// LayoutOptions returns the spring layout options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{K: o.K, Iterations: o.Iterations, Seed: o.Seed}
}

// RenderOptions returns the scene options.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		PlayerID:   o.PlayerID,
		Title:      o.Title,
		Width:      o.Width,
		Height:     o.Height,
		DPI:        o.DPI,
		ColorScale: o.ColorScale,
		EmbedFonts: o.EmbedFonts,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{K: o.K, Iterations: o.Iterations, Seed: o.Seed}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
