// Package io provides JSON import and export for butterfly graphs.
//
// # Overview
//
// The JSON document is the graph interface any presentation layer consumes:
// an ordered list of nodes, each with its id, stage, index, parents and
// label. It is also the form in which graphs are cached by the pipeline.
//
// # JSON Format
//
//	{
//	  "log_n": 1,
//	  "size": 2,
//	  "nodes": [
//	    {"id": 0, "stage": 0, "index": 0, "parents": [], "label": "x(0)"},
//	    {"id": 1, "stage": 0, "index": 1, "parents": [], "label": "x(1)"},
//	    {"id": 2, "stage": 1, "index": 0, "parents": [0, 1], "label": "DFT(k=0)"},
//	    {"id": 3, "stage": 1, "index": 1, "parents": [0, 1], "label": "DFT(k=1)"}
//	  ]
//	}
//
// Nodes appear stage-major, then index-minor. parents is always present:
// empty for stage 0, otherwise [even, odd].
//
// # Import
//
// [ReadJSON] and [ImportJSON] decode a document and run
// [butterfly.Graph.Validate] on the result, so an imported graph satisfies
// the same invariants as one produced by [butterfly.Build]. Malformed or
// inconsistent documents yield INVALID_GRAPH errors.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write the indented document. Export followed
// by import reproduces the graph exactly.
package io
