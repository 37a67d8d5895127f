package techgraph_test

import (
	"fmt"

	"github.com/matzehuels/techpath/pkg/replay"
	"github.com/matzehuels/techpath/pkg/techgraph"
)

func ExampleBuild() {
	g, err := techgraph.Build([]replay.BuildEvent{
		{Name: "Probe", Time: "0:05"},
		{Name: "Pylon", Time: "0:20"},
		{Name: "Probe", Time: "1:00"},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, n := range g.Nodes() {
		fmt.Printf("%s size=%.0f time=%.2f\n", n.Name, n.Size, n.Time)
	}
	for _, e := range g.Edges() {
		fmt.Printf("%s -> %s [%s]\n", e.From, e.To, e.Label)
	}
	// Output:
	// Probe size=1500 time=0.05
	// Pylon size=1000 time=0.20
	// Probe -> Pylon [0.20]
	// Pylon -> Probe [1.00]
}
