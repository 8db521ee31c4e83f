// Package butterfly builds the layered graph behind a radix-2 Cooley-Tukey
// FFT butterfly diagram.
//
// # Overview
//
// A size-N transform (N = 2^logN) is computed in logN passes. The diagram
// has logN+1 stages of N nodes each: stage 0 holds the raw input samples in
// bit-reversed order, and every node of stage s > 0 combines exactly two
// nodes of stage s-1, the "even" and the "odd" partial transform of the
// recursion. Stage logN is the final DFT output.
//
// Nodes are addressed by (stage, index) and carry a dense integer id
// stage*N + index. Edges only ever connect consecutive stages, so the graph
// is acyclic by construction and layered strictly by stage.
//
// # Basic Usage
//
//	g, err := butterfly.Build(3)
//	if err != nil {
//	    return err
//	}
//	n, _ := g.At(1, 0)
//	fmt.Println(n.Label, n.Parents) // DFT(k=0) [0 1]
//
// For a node at stage s and index i, with group size n = 2^s, group
// a = i/n and position b = i%n, the operands are
//
//	even = a*n + b%(n/2)
//	odd  = even + n/2
//
// in stage s-1. [Operands] exposes this mapping and [Children] its inverse.
//
// # Labels
//
// Stage 0 nodes are labelled x(r) where r is the bit-reversed index of the
// input sample ([bitrev.Permutation]). Later stages are labelled DFT(k=b),
// the frequency bin within the node's group.
//
// # Concurrency
//
// [Build] is a pure function and a [Graph] is never modified after Build
// returns, so both are safe for concurrent use.
package butterfly
