package replay

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/techpath/pkg/errors"
)

const sampleJSON = `{
  "map": "Alcyone LE",
  "gameLength": "12:31",
  "players": {
    "1": {
      "name": "Alice",
      "race": "Protoss",
      "is_winner": true,
      "buildOrder": [
        {"name": "Probe", "time": "0:05"},
        {"name": "Pylon", "time": "0:20"},
        {"name": "Probe", "time": "1:00"}
      ]
    },
    "2": {
      "name": "Bob",
      "race": "Zerg",
      "is_winner": false,
      "buildOrder": [
        {"name": "Drone", "time": "0:12"}
      ]
    }
  }
}`

const sampleYAML = `players:
  "1":
    name: Alice
    race: Protoss
    is_winner: true
    buildOrder:
      - name: Probe
        time: "0:05"
      - name: Pylon
        time: "0:20"
`

func TestUnmarshalJSON(t *testing.T) {
	r, err := Unmarshal([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got := r.PlayerIDs(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("PlayerIDs() = %v, want [1 2]", got)
	}
	if r.Map != "Alcyone LE" {
		t.Errorf("Map = %q, want %q", r.Map, "Alcyone LE")
	}

	p, err := r.Player(1)
	if err != nil {
		t.Fatalf("Player(1): %v", err)
	}
	if p.Name != "Alice" || p.Race != "Protoss" || !p.IsWinner {
		t.Errorf("Player(1) = %+v", p)
	}
	if len(p.BuildOrder) != 3 || p.BuildOrder[1].Name != "Pylon" || p.BuildOrder[1].Time != "0:20" {
		t.Errorf("BuildOrder = %+v", p.BuildOrder)
	}
}

func TestUnmarshalYAML(t *testing.T) {
	r, err := Unmarshal([]byte(sampleYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	p, err := r.Player(1)
	if err != nil {
		t.Fatalf("Player(1): %v", err)
	}
	if len(p.BuildOrder) != 2 || p.BuildOrder[0].Time != "0:05" {
		t.Errorf("BuildOrder = %+v", p.BuildOrder)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		code   errors.Code
	}{
		{"malformed json", `{"players": `, FormatJSON, errors.ErrCodeInvalidReplay},
		{"missing players", `{"map": "x"}`, FormatJSON, errors.ErrCodeInvalidReplay},
		{"non-integer key", `{"players": {"one": {"name": "a"}}}`, FormatJSON, errors.ErrCodeInvalidReplay},
		{"duplicate id", `{"players": {"1": {"name": "a"}, "01": {"name": "b"}}}`, FormatJSON, errors.ErrCodeInvalidReplay},
		{"duplicate id after trim", `{"players": {"2": {"name": "a"}, " 2": {"name": "b"}}}`, FormatJSON, errors.ErrCodeInvalidReplay},
		{"duplicate yaml id", "players:\n  \"3\": {name: a}\n  \"03\": {name: b}\n", FormatYAML, errors.ErrCodeInvalidReplay},
		{"empty event name", `{"players": {"1": {"buildOrder": [{"name": "", "time": "0:01"}]}}}`, FormatJSON, errors.ErrCodeInvalidReplay},
		{"unknown format", `{}`, Format("toml"), errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestUnmarshalKeepsObserverSlot(t *testing.T) {
	r, err := Unmarshal([]byte(`{"players": {
		"0": {"name": "Observer"},
		"1": {"name": "Alice", "buildOrder": [{"name": "Probe", "time": "0:05"}]}
	}}`), FormatJSON)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got := r.PlayerIDs(); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("PlayerIDs() = %v, want [0 1]", got)
	}
	if p, err := r.Player(1); err != nil || p.Name != "Alice" {
		t.Errorf("Player(1) = %+v, %v", p, err)
	}
}

func TestPlayerNotFound(t *testing.T) {
	r, err := Unmarshal([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	_, err = r.Player(7)
	if !errors.Is(err, errors.ErrCodePlayerNotFound) {
		t.Fatalf("Player(7) error = %v, want PLAYER_NOT_FOUND", err)
	}
	if !strings.Contains(err.Error(), "available: [1 2]") {
		t.Errorf("error should list available players, got %q", err.Error())
	}
}

func TestSummaries(t *testing.T) {
	r, err := Unmarshal([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	got := r.Summaries()
	want := []PlayerSummary{
		{ID: 1, Name: "Alice", Race: "Protoss", IsWinner: true, Events: 3},
		{ID: 2, Name: "Bob", Race: "Zerg", IsWinner: false, Events: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("len(Summaries()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Summaries()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	r, err := Unmarshal([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	data, err := Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data, FormatJSON)
	if err != nil {
		t.Fatalf("Unmarshal(Marshal()): %v", err)
	}
	if len(back.Players) != 2 || back.GameLength != "12:31" {
		t.Errorf("round trip lost data: %+v", back)
	}
	if back.Players[1].BuildOrder[2].Time != "1:00" {
		t.Errorf("round trip build order = %+v", back.Players[1].BuildOrder)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"game.json", FormatJSON, true},
		{"game.JSON", FormatJSON, true},
		{"game.yaml", FormatYAML, true},
		{"game.yml", FormatYAML, true},
		{"game.SC2Replay", "", false},
		{"game", "", false},
	}
	for _, tt := range tests {
		got, ok := FormatFromPath(tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FormatFromPath(%q) = (%q, %v), want (%q, %v)", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if r.Source != path {
		t.Errorf("Source = %q, want %q", r.Source, path)
	}

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("dump file", func(t *testing.T) {
		path := filepath.Join(dir, "dump.json")
		if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
			t.Fatal(err)
		}
		r, err := Load(ctx, path, "")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(r.Players) != 2 {
			t.Errorf("players = %d, want 2", len(r.Players))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(dir, "nope.SC2Replay"), "cat {replay}")
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("error = %v, want FILE_NOT_FOUND", err)
		}
	})

	t.Run("raw replay without parser", func(t *testing.T) {
		path := filepath.Join(dir, "raw.SC2Replay")
		if err := os.WriteFile(path, []byte("MPQ\x1b"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(ctx, path, "")
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("error = %v, want INVALID_INPUT", err)
		}
	})

	t.Run("unknown extension", func(t *testing.T) {
		path := filepath.Join(dir, "notes.txt")
		if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(ctx, path, "cat {replay}")
		if !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("error = %v, want INVALID_FORMAT", err)
		}
	})

	t.Run("raw replay through parser", func(t *testing.T) {
		if _, err := exec.LookPath("cat"); err != nil {
			t.Skip("cat not available")
		}
		// The "parser" echoes a pre-parsed dump stored under a replay name.
		path := filepath.Join(dir, "with space.SC2Replay")
		if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
			t.Fatal(err)
		}
		r, err := Load(ctx, path, "cat {replay}")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if r.Source != path || len(r.Players) != 2 {
			t.Errorf("Load() = %+v", r)
		}
	})
}

func TestRunParserErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := RunParser(ctx, "parse-replay", "x.SC2Replay"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("missing placeholder error = %v, want INVALID_CONFIG", err)
	}

	if _, err := RunParser(ctx, "definitely-not-a-real-parser-binary {replay}", "x.SC2Replay"); !errors.Is(err, errors.ErrCodeParser) {
		t.Errorf("missing binary error = %v, want PARSER_FAILED", err)
	}
}
