package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/butterfly/pkg/butterfly"
)

type graph struct {
	LogN  int    `json:"log_n"`
	Size  int    `json:"size"`
	Nodes []node `json:"nodes"`
}

type node struct {
	ID      int    `json:"id"`
	Stage   int    `json:"stage"`
	Index   int    `json:"index"`
	Parents []int  `json:"parents"`
	Label   string `json:"label"`
}

// WriteJSON encodes a graph as JSON and writes it to w.
// This format can be re-imported with [ReadJSON].
func WriteJSON(g *butterfly.Graph, w io.Writer) error {
	nodes := g.Nodes()
	out := graph{
		LogN:  g.LogN(),
		Size:  g.Size(),
		Nodes: make([]node, len(nodes)),
	}
	for i, n := range nodes {
		parents := n.Parents
		if parents == nil {
			parents = []int{}
		}
		out.Nodes[i] = node{ID: n.ID, Stage: n.Stage, Index: n.Index, Parents: parents, Label: n.Label}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a graph to a JSON file at path.
func ExportJSON(g *butterfly.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
