package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/butterfly/pkg/butterfly"
	"github.com/matzehuels/butterfly/pkg/errors"
)

// ReadJSON decodes a JSON graph from r and validates it.
//
// ReadJSON returns an INVALID_GRAPH error if the JSON is malformed, if size
// disagrees with log_n, or if the nodes violate any butterfly invariant, and
// an INVALID_ARGUMENT error if log_n is out of range. Anything but
// whitespace after the document is INVALID_GRAPH. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*butterfly.Graph, error) {
	var data graph
	dec := json.NewDecoder(r)
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "unexpected data after graph document")
	}
	if data.LogN >= 0 && data.LogN <= butterfly.MaxLogN && data.Size != 1<<data.LogN {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "size %d does not match log_n %d", data.Size, data.LogN)
	}

	nodes := make([]butterfly.Node, len(data.Nodes))
	for i, n := range data.Nodes {
		var parents []int
		if len(n.Parents) > 0 {
			parents = n.Parents
		}
		nodes[i] = butterfly.Node{ID: n.ID, Stage: n.Stage, Index: n.Index, Parents: parents, Label: n.Label}
	}
	return butterfly.New(data.LogN, nodes)
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
// A missing file yields a FILE_NOT_FOUND error.
func ImportJSON(path string) (*butterfly.Graph, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
