// Package pkg provides the libraries behind the butterfly command.
//
// # Overview
//
// Butterfly generates the graph underlying a radix-2 Cooley-Tukey FFT
// diagram: one column of partial DFT nodes per stage, two operand edges per
// node (even and odd), and the bit-reversed input ordering that labels the
// first column. The pkg directory is organized into three areas:
//
//  1. Core - [bitrev], [butterfly] and [layout]: pure functions of logN
//  2. Presentation - [io], [render/svg], [render/nodelink] and [render]
//  3. Plumbing - [pipeline], [cache], [server], [config], [observability],
//     [errors] and [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	logN
//	  ↓
//	[bitrev] package (input ordering)
//	  ↓
//	[butterfly] package (nodes, parents, labels)
//	  ↓
//	[layout] package (frame coordinates)
//	  ↓
//	SVG/PNG/PDF/DOT/JSON output
//
// The core never imports the presentation or plumbing packages.
//
// # Quick Start
//
// Build a graph and render it:
//
//	g, err := butterfly.Build(3)
//	if err != nil {
//	    return err
//	}
//	l := layout.Compute(g, layout.WithFrame(800, 600))
//	doc := svg.Render(g, l)
//
// Or run the cached pipeline used by the CLI and the HTTP server:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{LogN: 3, Formats: []string{"svg", "dot"}})
//
// # Main Packages
//
// ## Core
//
// [bitrev] - Bit-reversal permutation of 0..2^logN-1 in O(N) without
// per-bit loops.
//
// [butterfly] - The immutable layered graph: nodes addressed by stage and
// index, each non-input node combining an even and an odd operand from the
// previous stage. [butterfly.Graph.Validate] checks every structural
// invariant and is run on imported graphs.
//
// [layout] - Maps stage and index to normalized and frame coordinates, stage
// headings and the smooth link curves.
//
// ## Presentation
//
// [io] - JSON import and export of graphs.
//
// [render/svg] - Self-contained SVG with hover highlighting.
//
// [render/nodelink] - Graphviz DOT and Graphviz-rendered SVG, PNG and PDF.
//
// [render] - SVG to PDF/PNG conversion through rsvg-convert.
//
// ## Plumbing
//
// [pipeline] - Build → layout → render with caching, shared by CLI and server.
//
// [cache] - File, Redis and null caches, key derivation and retry helpers.
//
// [server] - HTTP API on chi.
//
// [config] - TOML configuration file.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./...                      # All tests
//	go test ./pkg/butterfly/...        # Specific package
//	go test -run Example ./pkg/...     # Examples only
//	go test -tags integration ./...    # Include integration tests (REDIS_ADDR)
//
// [bitrev]: https://pkg.go.dev/github.com/matzehuels/butterfly/pkg/bitrev
// [butterfly]: https://pkg.go.dev/github.com/matzehuels/butterfly/pkg/butterfly
// [butterfly.Graph.Validate]: https://pkg.go.dev/github.com/matzehuels/butterfly/pkg/butterfly#Graph.Validate
// [layout]: https://pkg.go.dev/github.com/matzehuels/butterfly/pkg/layout
// [io]: https://pkg.go.dev/github.com/matzehuels/butterfly/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/butterfly/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/butterfly/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/butterfly/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/butterfly/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/butterfly/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/butterfly/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/butterfly/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/butterfly/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/butterfly/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/butterfly/pkg/buildinfo
package pkg
