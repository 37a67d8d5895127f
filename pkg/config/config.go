// Package config loads the techpath configuration file.
//
// The file is TOML and every key is optional. Command-line flags override
// file values, and file values override the pipeline defaults:
//
//	[parser]
//	command = "python -m spawningtool.cli {replay}"
//
//	[build]
//	time_mode = "minutes"
//
//	[layout]
//	seed = 7
//
//	[render]
//	formats = ["png", "svg"]
//	dpi = 150
//	output_dir = "charts"
//
// Without --config the file is read from $XDG_CONFIG_HOME/techpath/config.toml
// (or ~/.config/techpath/config.toml) when it exists.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/techpath/pkg/errors"
	"github.com/matzehuels/techpath/pkg/pipeline"
	"github.com/matzehuels/techpath/pkg/render"
	"github.com/matzehuels/techpath/pkg/replay"
)

// FileName is the name of the configuration file inside the config directory.
const FileName = "config.toml"

// Config mirrors the configuration file.
type Config struct {
	Parser ParserConfig `toml:"parser"`
	Build  BuildConfig  `toml:"build"`
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
}

// ParserConfig configures the external replay parser.
type ParserConfig struct {
	// Command runs the parser; "{replay}" is replaced by the replay path.
	Command string `toml:"command"`
}

// BuildConfig configures tech graph construction.
type BuildConfig struct {
	TimeMode  string  `toml:"time_mode"`
	BaseSize  float64 `toml:"base_size"`
	Increment float64 `toml:"increment"`
}

// LayoutConfig configures the spring layout.
type LayoutConfig struct {
	K          float64 `toml:"k"`
	Iterations int     `toml:"iterations"`
	Seed       uint64  `toml:"seed"`
}

// RenderConfig configures output.
type RenderConfig struct {
	Formats    []string `toml:"formats"`
	Width      float64  `toml:"width"`
	Height     float64  `toml:"height"`
	DPI        float64  `toml:"dpi"`
	ColorScale string   `toml:"color_scale"`
	EmbedFonts bool     `toml:"embed_fonts"`
	Engine     string   `toml:"engine"`
	OutputDir  string   `toml:"output_dir"`
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
}

// DefaultPath returns the configuration file looked up when no path is given.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "techpath", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "techpath", FileName), nil
}

// Load reads the configuration at path. An empty path reads the default
// location, where a missing file yields the zero Config; an explicit path
// must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, nil
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil
		}
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	if _, err := replay.ParseTimeMode(c.Build.TimeMode); err != nil {
		return err
	}
	if _, err := render.ParseFormats(strings.Join(c.Render.Formats, ",")); err != nil {
		return err
	}
	if c.Parser.Command != "" {
		if err := errors.ValidateParserCommand(c.Parser.Command); err != nil {
			return err
		}
	}
	if c.Render.ColorScale != "" {
		if _, err := render.ScaleByName(c.Render.ColorScale); err != nil {
			return err
		}
	}
	return nil
}

// Options returns pipeline options seeded from the file. Fields the file
// leaves unset stay zero so the pipeline defaults apply.
func (c Config) Options() pipeline.Options {
	// Validate has already accepted the list.
	formats, _ := render.ParseFormats(strings.Join(c.Render.Formats, ","))
	if len(c.Render.Formats) == 0 {
		formats = nil
	}
	return pipeline.Options{
		ParserCommand: c.Parser.Command,
		TimeMode:      c.Build.TimeMode,
		BaseSize:      c.Build.BaseSize,
		Increment:     c.Build.Increment,
		K:             c.Layout.K,
		Iterations:    c.Layout.Iterations,
		Seed:          c.Layout.Seed,
		Formats:       formats,
		Width:         c.Render.Width,
		Height:        c.Render.Height,
		DPI:           c.Render.DPI,
		ColorScale:    c.Render.ColorScale,
		EmbedFonts:    c.Render.EmbedFonts,
		Engine:        c.Render.Engine,
		OutputDir:     c.Render.OutputDir,
	}
}

// Default returns a Config holding the pipeline defaults, suitable as a
// starting point for a new file.
func Default() Config {
	return Config{
		Build: BuildConfig{
			TimeMode:  string(replay.DefaultTimeMode),
			BaseSize:  pipeline.DefaultBaseSize,
			Increment: pipeline.DefaultIncrement,
		},
		Layout: LayoutConfig{
			K:          pipeline.DefaultK,
			Iterations: pipeline.DefaultIterations,
			Seed:       pipeline.DefaultSeed,
		},
		Render: RenderConfig{
			Formats:    []string{string(render.DefaultFormat)},
			Width:      render.DefaultWidth,
			Height:     render.DefaultHeight,
			DPI:        render.DefaultDPI,
			ColorScale: render.DefaultColorScale,
			Engine:     pipeline.DefaultEngine,
		},
	}
}

// Write encodes c as TOML to path, creating parent directories.
func Write(c Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "create config directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "create %s", path)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "encode %s", path)
	}
	return nil
}
