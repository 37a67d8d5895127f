package cli

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/techpath/pkg/cache"
	"github.com/matzehuels/techpath/pkg/errors"
	"github.com/matzehuels/techpath/pkg/pipeline"
	"github.com/matzehuels/techpath/pkg/render"
	"github.com/matzehuels/techpath/pkg/replay"
)

const dump = `{
  "map": "Alcyone LE",
  "players": {
    "1": {"name": "Alice", "race": "Protoss", "is_winner": true,
          "buildOrder": [{"name": "Probe", "time": "0:05"}, {"name": "Pylon", "time": "0:20"}, {"name": "Probe", "time": "1:00"}]},
    "2": {"name": "Bob", "race": "Zerg", "is_winner": false,
          "buildOrder": [{"name": "Drone", "time": "0:12"}]}
  }
}`

// testEnv isolates config and cache directories and captures command output.
func testEnv(t *testing.T) (replayPath string, stdout *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	replayPath = filepath.Join(t.TempDir(), "game.json")
	if err := os.WriteFile(replayPath, []byte(dump), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout = &bytes.Buffer{}
	prev := out
	out = stdout
	t.Cleanup(func() { out = prev })
	return replayPath, stdout
}

func runCLI(t *testing.T, stdin io.Reader, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func TestPlayersCommand(t *testing.T) {
	path, stdout := testEnv(t)
	if err := runCLI(t, nil, "players", path); err != nil {
		t.Fatalf("players: %v", err)
	}
	for _, want := range []string{"Alice", "Protoss", "Bob", "Zerg", "Alcyone LE"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("players output missing %q:\n%s", want, stdout)
		}
	}
}

func TestPlayersCommandJSON(t *testing.T) {
	path, stdout := testEnv(t)
	if err := runCLI(t, nil, "players", path, "--json"); err != nil {
		t.Fatalf("players --json: %v", err)
	}
	if !strings.Contains(stdout.String(), `"name": "Alice"`) || !strings.Contains(stdout.String(), `"events": 3`) {
		t.Errorf("players --json output:\n%s", stdout)
	}
}

func TestRenderCommand(t *testing.T) {
	path, stdout := testEnv(t)
	dir := filepath.Join(t.TempDir(), "out")

	err := runCLI(t, nil, "render", path, "--player", "1", "--format", "dot,json", "--output-dir", dir, "--seed", "7")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, f := range []render.Format{render.FormatDOT, render.FormatJSON} {
		p := filepath.Join(dir, render.FileName(1, f))
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s not written: %v", p, err)
		}
	}
	if !strings.Contains(stdout.String(), "Alice") {
		t.Errorf("render output:\n%s", stdout)
	}
}

func TestRenderCommandReadsPlayerFromStdin(t *testing.T) {
	path, _ := testEnv(t)
	dir := t.TempDir()

	err := runCLI(t, strings.NewReader("2\n"), "render", path, "--format", "dot", "--output-dir", dir)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, render.FileName(2, render.FormatDOT))); err != nil {
		t.Errorf("player 2 output missing: %v", err)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	path, _ := testEnv(t)

	err := runCLI(t, nil, "render", path, "--player", "9", "--format", "dot", "--output-dir", t.TempDir())
	if !errors.Is(err, errors.ErrCodePlayerNotFound) {
		t.Errorf("unknown player error = %v", err)
	}
	err = runCLI(t, nil, "render", path, "--player", "1", "--format", "gif")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v", err)
	}
	err = runCLI(t, nil, "render", path, "--player", "1", "--time-mode", "hours")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad time mode error = %v", err)
	}
}

func TestRenderRunsParserOnce(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub parser is a shell script")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	testEnv(t)
	dir := t.TempDir()

	replayPath := filepath.Join(dir, "game.SC2Replay")
	if err := os.WriteFile(replayPath, []byte(dump), 0o644); err != nil {
		t.Fatal(err)
	}
	runs := filepath.Join(dir, "runs")
	script := filepath.Join(dir, "parse.sh")
	body := "#!/bin/sh\necho run >> " + runs + "\ncat \"$1\"\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}

	err := runCLI(t, strings.NewReader("1\n"), "render", replayPath,
		"--parser", "sh "+script+" {replay}", "--no-cache",
		"--format", "dot", "--output-dir", filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(runs)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "run"); n != 1 {
		t.Errorf("parser ran %d times, want 1", n)
	}
}

func TestNewCacheFallsBackWhenNoDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "plan9" {
		t.Skip("home directory lookup does not use $HOME")
	}
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "")

	var logs bytes.Buffer
	c := New(&logs, LogDebug)
	ch, err := c.newCache(false)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	if _, ok := ch.(*cache.NullCache); !ok {
		t.Errorf("cache = %T, want *cache.NullCache", ch)
	}
	if !strings.Contains(logs.String(), "cache disabled") {
		t.Errorf("fallback not logged:\n%s", logs.String())
	}
}

func TestLayoutAndVisualize(t *testing.T) {
	path, stdout := testEnv(t)
	dir := t.TempDir()
	layoutPath := filepath.Join(dir, "alice.json")

	if err := runCLI(t, nil, "layout", path, "--player", "1", "-o", layoutPath); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if !strings.Contains(stdout.String(), "techpath visualize "+layoutPath) {
		t.Errorf("layout output:\n%s", stdout)
	}

	outDir := filepath.Join(dir, "charts")
	if err := runCLI(t, nil, "visualize", layoutPath, "--format", "dot", "--output-dir", outDir); err != nil {
		t.Fatalf("visualize: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, render.FileName(1, render.FormatDOT)))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Pylon") {
		t.Errorf("visualized DOT:\n%s", data)
	}
}

func TestConfigFileApplies(t *testing.T) {
	path, _ := testEnv(t)
	dir := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "techpath.toml")
	body := "[render]\nformats = [\"dot\"]\noutput_dir = \"" + filepath.ToSlash(dir) + "\"\n"
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runCLI(t, nil, "render", path, "--player", "1", "--config", cfg); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, render.FileName(1, render.FormatDOT))); err != nil {
		t.Errorf("config output_dir/formats not applied: %v", err)
	}
}

func TestConfigInitAndPath(t *testing.T) {
	_, stdout := testEnv(t)
	cfg := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := runCLI(t, nil, "config", "init", "--config", cfg); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(cfg); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	stdout.Reset()
	if err := runCLI(t, nil, "config", "path", "--config", cfg); err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != cfg {
		t.Errorf("config path = %q", stdout.String())
	}
}

func TestCacheCommands(t *testing.T) {
	path, stdout := testEnv(t)

	if err := runCLI(t, nil, "render", path, "--player", "1", "--format", "dot", "--output-dir", t.TempDir()); err != nil {
		t.Fatalf("render: %v", err)
	}

	stdout.Reset()
	if err := runCLI(t, nil, "cache", "path"); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), "techpath")
	if strings.TrimSpace(stdout.String()) != want {
		t.Errorf("cache path = %q, want %q", stdout.String(), want)
	}

	stdout.Reset()
	if err := runCLI(t, nil, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(stdout.String(), "Cleared 1 cached entries") {
		t.Errorf("cache clear output:\n%s", stdout)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	var flags pipelineFlags
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	flags.registerLoad(cmd)
	flags.registerLayout(cmd)
	flags.registerRender(cmd)
	if err := cmd.ParseFlags([]string{"--seed", "9", "--format", "svg,png"}); err != nil {
		t.Fatal(err)
	}

	base := pipeline.Options{Seed: 3, K: 0.5, ParserCommand: "p {replay}"}
	opts, err := flags.apply(cmd, base)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if opts.Seed != 9 {
		t.Errorf("Seed = %d, flag should win", opts.Seed)
	}
	if opts.K != 0.5 || opts.ParserCommand != "p {replay}" {
		t.Errorf("unset flags replaced config values: %+v", opts)
	}
	if len(opts.Formats) != 2 || opts.Formats[0] != render.FormatSVG {
		t.Errorf("Formats = %v", opts.Formats)
	}
}

func TestReadPlayerID(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1\n", 1, false},
		{"  2  \n", 2, false},
		{"3", 3, false},
		{"", 0, true},
		{"abc\n", 0, true},
		{"0\n", 0, true},
	}
	for _, tt := range tests {
		got, err := readPlayerID(strings.NewReader(tt.in))
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("readPlayerID(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestPlayerListModel(t *testing.T) {
	m := NewPlayerListModel([]replay.PlayerSummary{
		{ID: 1, Name: "Alice", Race: "Protoss", IsWinner: true, Events: 3},
		{ID: 2, Name: "Bob", Race: "Zerg", Events: 1},
	})
	if v := m.View(); !strings.Contains(v, "Alice") || !strings.Contains(v, "Bob") {
		t.Errorf("View() = %q", v)
	}

	next, _ := m.Update(keyMsg("down"))
	next, cmd := next.Update(keyMsg("enter"))
	picked := next.(PlayerListModel)
	if picked.Selected == nil || picked.Selected.ID != 2 {
		t.Errorf("Selected = %+v", picked.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestPlayerTable(t *testing.T) {
	got := playerTable([]replay.PlayerSummary{{ID: 4, Name: "Cleo", Race: "Terran", IsWinner: true, Events: 12}})
	for _, want := range []string{"ID", "Cleo", "Terran", iconWinner, "12"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		0:       "0 B",
		512:     "512 B",
		2048:    "2.0 KiB",
		5 << 20: "5.0 MiB",
	}
	for n, want := range tests {
		if got := formatBytes(n); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	ReportError(&buf, errors.New(errors.ErrCodePlayerNotFound, "player 9 not found"))
	got := buf.String()
	for _, want := range []string{"player 9 not found", "code: PLAYER_NOT_FOUND", "techpath players"} {
		if !strings.Contains(got, want) {
			t.Errorf("ReportError output missing %q:\n%s", want, got)
		}
	}

	buf.Reset()
	ReportError(&buf, io.ErrUnexpectedEOF)
	if strings.Contains(buf.String(), "code:") {
		t.Errorf("plain error should not print a code:\n%s", buf.String())
	}
}

func TestCompletionCommand(t *testing.T) {
	testEnv(t)
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(buf.String(), "techpath") {
		t.Error("bash completion does not mention the program")
	}

	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.Execute(); err == nil {
		t.Error("unknown shell should fail")
	}
}
