package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/techpath/pkg/pipeline"
	"github.com/matzehuels/techpath/pkg/render"
)

// pipelineFlags holds the command-line flags shared by the pipeline commands.
// Only flags the user actually set override the config file.
type pipelineFlags struct {
	// Load and build
	parser    string
	timeMode  string
	baseSize  float64
	increment float64
	noCache   bool
	refresh   bool

	// Layout
	seed       uint64
	k          float64
	iterations int

	// Render
	formats    string
	width      float64
	height     float64
	dpi        float64
	title      string
	colorScale string
	embedFonts bool
	engine     string
	outputDir  string
}

func (f *pipelineFlags) registerLoad(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.parser, "parser", "", "replay parser command, {replay} is replaced by the path (e.g. \"sc2parse --json {replay}\")")
	fs.StringVar(&f.timeMode, "time-mode", "", "time conversion: decimal (default, \"1:30\" is 1.30) or minutes (\"1:30\" is 1.5)")
	fs.Float64Var(&f.baseSize, "base-size", pipeline.DefaultBaseSize, "size of a node that occurs once (0 selects the default)")
	fs.Float64Var(&f.increment, "increment", pipeline.DefaultIncrement, "size added per repeated occurrence (0 selects the default)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached parser output and layouts")
	complete(cmd, "time-mode", "decimal", "minutes")
}

func (f *pipelineFlags) registerLayout(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "random seed for the spring layout (0 selects the default)")
	fs.Float64Var(&f.k, "k", pipeline.DefaultK, "optimal distance between nodes")
	fs.IntVar(&f.iterations, "iterations", pipeline.DefaultIterations, "spring layout iterations")
}

func (f *pipelineFlags) registerRender(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): png (default), svg, pdf, dot, json (comma-separated)")
	fs.Float64Var(&f.width, "width", render.DefaultWidth, "figure width in inches")
	fs.Float64Var(&f.height, "height", render.DefaultHeight, "figure height in inches")
	fs.Float64Var(&f.dpi, "dpi", pipeline.DefaultDPI, "PNG resolution")
	fs.StringVar(&f.title, "title", "", "figure title (default: \"Tech Path for Player <id>\")")
	fs.StringVar(&f.colorScale, "color-scale", "", "node color scale: cool (default), viridis, plasma")
	fs.BoolVar(&f.embedFonts, "embed-fonts", false, "embed fonts in SVG output")
	fs.StringVar(&f.engine, "engine", "", "SVG engine: native (default), graphviz")
	fs.StringVarP(&f.outputDir, "output-dir", "d", "", "directory for output files (default: current directory)")
	_ = cmd.MarkFlagDirname("output-dir")
	complete(cmd, "format", "png", "svg", "pdf", "dot", "json")
	complete(cmd, "color-scale", "cool", "viridis", "plasma")
	complete(cmd, "engine", pipeline.EngineNative, pipeline.EngineGraphviz)
}

// complete registers a fixed set of shell completions for a flag value.
func complete(cmd *cobra.Command, flag string, values ...string) {
	_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
}

// apply overlays the flags the user set on base.
func (f *pipelineFlags) apply(cmd *cobra.Command, base pipeline.Options) (pipeline.Options, error) {
	opts := base
	set := cmd.Flags().Changed

	if set("parser") {
		opts.ParserCommand = f.parser
	}
	if set("time-mode") {
		opts.TimeMode = f.timeMode
	}
	if set("base-size") {
		opts.BaseSize = f.baseSize
	}
	if set("increment") {
		opts.Increment = f.increment
	}
	if set("refresh") {
		opts.Refresh = f.refresh
	}
	if set("seed") {
		opts.Seed = f.seed
	}
	if set("k") {
		opts.K = f.k
	}
	if set("iterations") {
		opts.Iterations = f.iterations
	}
	if set("format") {
		formats, err := render.ParseFormats(f.formats)
		if err != nil {
			return opts, err
		}
		opts.Formats = formats
	}
	if set("width") {
		opts.Width = f.width
	}
	if set("height") {
		opts.Height = f.height
	}
	if set("dpi") {
		opts.DPI = f.dpi
	}
	if set("title") {
		opts.Title = f.title
	}
	if set("color-scale") {
		opts.ColorScale = f.colorScale
	}
	if set("embed-fonts") {
		opts.EmbedFonts = f.embedFonts
	}
	if set("engine") {
		opts.Engine = f.engine
	}
	if set("output-dir") {
		opts.OutputDir = f.outputDir
	}
	return opts, nil
}
