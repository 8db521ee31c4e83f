package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/butterfly/pkg/butterfly"
	"github.com/matzehuels/butterfly/pkg/render/nodelink"
)

func ExampleToDOT() {
	g, _ := butterfly.Build(2)
	dot := nodelink.ToDOT(g, nodelink.Options{})

	fmt.Println("edges:", strings.Count(dot, " -> "))
	fmt.Println("ranks:", strings.Count(dot, "rank=same"))
	// Output:
	// edges: 16
	// ranks: 3
}

func ExampleToDOT_detailed() {
	g, _ := butterfly.Build(1)
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})

	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "-> n2") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// n0 -> n2 [label="even"];
	// n1 -> n2 [label="odd"];
}
