package butterfly

import (
	"slices"
	"strconv"

	"github.com/matzehuels/butterfly/pkg/bitrev"
	"github.com/matzehuels/butterfly/pkg/errors"
)

// MaxLogN bounds the number of stages Build accepts. Node count grows as
// (logN+1)*2^logN, so larger inputs are rejected rather than allocated.
const MaxLogN = bitrev.MaxBits

// Build constructs the butterfly graph for a transform of size 2^logN.
//
// Nodes are emitted stage-major, then index-minor. logN == 0 yields a single
// input node with no parents. A negative logN or one above MaxLogN returns an
// INVALID_ARGUMENT error and no graph.
func Build(logN int) (*Graph, error) {
	if err := errors.ValidateLogN(logN, MaxLogN); err != nil {
		return nil, err
	}
	input, err := bitrev.Permutation(logN)
	if err != nil {
		return nil, err
	}

	size := 1 << logN
	nodes := make([]Node, 0, (logN+1)*size)
	for s := 0; s <= logN; s++ {
		for i := range size {
			n := Node{ID: s*size + i, Stage: s, Index: i}
			if s == 0 {
				n.Label = InputLabel(input[i])
			} else {
				even, odd := Operands(s, i)
				n.Label = OutputLabel(i % (1 << s))
				n.Parents = []int{(s-1)*size + even, (s-1)*size + odd}
			}
			nodes = append(nodes, n)
		}
	}

	return &Graph{logN: logN, size: size, nodes: nodes, input: input}, nil
}

// New assembles a graph from externally supplied nodes (for example a
// decoded JSON document) and validates it. Nodes must be in id order.
func New(logN int, nodes []Node) (*Graph, error) {
	if err := errors.ValidateLogN(logN, MaxLogN); err != nil {
		return nil, err
	}
	input, err := bitrev.Permutation(logN)
	if err != nil {
		return nil, err
	}
	g := &Graph{logN: logN, size: 1 << logN, nodes: slices.Clone(nodes), input: input}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Operands returns the stage-(s-1) indices of the even and odd inputs of the
// butterfly at stage s, index i. Stage 0 has no operands and returns (i, i).
func Operands(s, i int) (even, odd int) {
	if s <= 0 {
		return i, i
	}
	n := 1 << s
	half := n >> 1
	a, b := i/n, i%n
	even = a*n + b%half
	return even, even + half
}

// InputLabel formats the label of an input node holding sample k.
func InputLabel(k int) string { return "x(" + strconv.Itoa(k) + ")" }

// OutputLabel formats the label of a partial DFT node for frequency bin k.
func OutputLabel(k int) string { return "DFT(k=" + strconv.Itoa(k) + ")" }
