package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/techpath/pkg/layout"
	"github.com/matzehuels/techpath/pkg/replay"
	"github.com/matzehuels/techpath/pkg/techgraph"
)

func buildGraph(t *testing.T) *techgraph.Graph {
	t.Helper()
	g, err := techgraph.Build([]replay.BuildEvent{
		{Name: "Probe", Time: "0:05"},
		{Name: "Pylon", Time: "0:20"},
		{Name: "Probe", Time: "1:00"},
		{Name: "Pylon", Time: "1:10"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	g := buildGraph(t)
	dot, err := ToDOT(g, nil, Options{Title: "Tech Path for Player 1"})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}

	for _, want := range []string{
		"digraph tech_path {",
		"rankdir=LR;",
		`label="Tech Path for Player 1"`,
		`"Probe" [label="Probe"`,
		`"Probe" -> "Pylon" [label="0.20"];`,
		`"Pylon" -> "Probe" [label="1.00"];`,
		`"Probe" -> "Pylon" [label="1.10"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "pos=") {
		t.Error("unpinned DOT should not carry positions")
	}
	if strings.Count(dot, "->") != g.EdgeCount() {
		t.Errorf("edge statements = %d, want %d", strings.Count(dot, "->"), g.EdgeCount())
	}
}

func TestToDOTPinned(t *testing.T) {
	g := buildGraph(t)
	l, err := layout.Compute(g, layout.Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	dot, err := ToDOT(g, l, Options{})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	if !strings.Contains(dot, "layout=neato;") {
		t.Error("pinned DOT should select neato")
	}
	// Probe is the earliest node, so it is pinned to x = 0.
	if !strings.Contains(dot, `pos="0.0,`) {
		t.Errorf("missing pinned position for earliest node\n%s", dot)
	}
	if strings.Count(dot, "pos=") != g.NodeCount() {
		t.Errorf("pos attributes = %d, want %d", strings.Count(dot, "pos="), g.NodeCount())
	}
}

func TestToDOTUnknownScale(t *testing.T) {
	if _, err := ToDOT(buildGraph(t), nil, Options{ColorScale: "rainbow"}); err == nil {
		t.Error("expected error for unknown color scale")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
