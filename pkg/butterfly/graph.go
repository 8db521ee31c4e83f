package butterfly

import (
	stderrors "errors"
	"fmt"
	"slices"

	"github.com/matzehuels/butterfly/pkg/errors"
)

var (
	// ErrNodeCount is reported by [Graph.Validate] when the graph does not
	// hold exactly (logN+1)*2^logN nodes.
	ErrNodeCount = stderrors.New("wrong node count")

	// ErrNodeID is reported when a node's id is not stage*N + index or its
	// coordinates fall outside the graph.
	ErrNodeID = stderrors.New("node id does not match coordinates")

	// ErrParentCount is reported when a stage-0 node has parents or a later
	// node does not have exactly two.
	ErrParentCount = stderrors.New("wrong parent count")

	// ErrParentStage is reported when a parent id is unknown or does not
	// belong to the immediately preceding stage.
	ErrParentStage = stderrors.New("parent not in preceding stage")

	// ErrParentOperand is reported when a node's parents are not its even
	// and odd operands, in that order.
	ErrParentOperand = stderrors.New("parents are not the butterfly operands")

	// ErrLabel is reported when a node's label differs from the one Build
	// assigns at its position.
	ErrLabel = stderrors.New("wrong node label")
)

// Parity tells which operand of a butterfly an edge carries.
type Parity int

const (
	// Even is the first operand, the even-indexed sub-transform.
	Even Parity = iota
	// Odd is the second operand, the odd-indexed sub-transform.
	Odd
)

// String returns "even" or "odd".
func (p Parity) String() string {
	if p == Odd {
		return "odd"
	}
	return "even"
}

// Node is one computation point of the diagram.
//
// Parents is empty for stage 0 and otherwise holds exactly two ids of
// stage-1 nodes, the even operand first.
type Node struct {
	ID      int
	Stage   int
	Index   int
	Parents []int
	Label   string
}

// IsInput reports whether the node is a raw input sample (stage 0).
func (n Node) IsInput() bool { return n.Stage == 0 }

// Edge connects an operand node to the butterfly that consumes it.
type Edge struct {
	From   int // parent id (stage s-1)
	To     int // child id (stage s)
	Parity Parity
}

// Graph is the complete butterfly diagram for one transform size.
//
// The zero value is not usable; obtain a Graph from [Build] or [New].
// A Graph is immutable: accessors return copies or read-only views.
type Graph struct {
	logN  int
	size  int
	nodes []Node
	input []int
}

// LogN returns the number of butterfly passes.
func (g *Graph) LogN() int { return g.logN }

// Size returns N, the number of nodes per stage.
func (g *Graph) Size() int { return g.size }

// Stages returns the number of stages, logN+1.
func (g *Graph) Stages() int { return g.logN + 1 }

// NodeCount returns the number of nodes, (logN+1)*N.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of parent links, 2*N*logN.
func (g *Graph) EdgeCount() int { return 2 * g.size * g.logN }

// Nodes returns all nodes, stage-major then index-minor, so that
// Nodes()[id].ID == id. The slice is a copy; the Parents slices are shared
// and must not be modified.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Node returns the node with the given id and true, or a zero Node and
// false if the id is out of range.
func (g *Graph) Node(id int) (Node, bool) {
	if id < 0 || id >= len(g.nodes) {
		return Node{}, false
	}
	return g.nodes[id], true
}

// At returns the node at the given stage and index.
func (g *Graph) At(stage, index int) (Node, bool) {
	if stage < 0 || stage > g.logN || index < 0 || index >= g.size {
		return Node{}, false
	}
	return g.nodes[stage*g.size+index], true
}

// Stage returns the nodes of one stage in index order, or nil if the stage
// does not exist. The returned slice is a read-only view.
func (g *Graph) Stage(s int) []Node {
	if s < 0 || s > g.logN {
		return nil
	}
	return g.nodes[s*g.size : (s+1)*g.size : (s+1)*g.size]
}

// Children returns the ids of the two nodes in the next stage that consume
// the given node, or nil for output nodes and unknown ids.
func (g *Graph) Children(id int) []int {
	n, ok := g.Node(id)
	if !ok || n.Stage == g.logN {
		return nil
	}
	even, odd := Operands(n.Stage+1, n.Index)
	base := (n.Stage + 1) * g.size
	return []int{base + even, base + odd}
}

// Edges returns one edge per parent link in node order, even before odd.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.EdgeCount())
	for _, n := range g.nodes {
		for i, p := range n.Parents {
			edges = append(edges, Edge{From: p, To: n.ID, Parity: Parity(i)})
		}
	}
	return edges
}

// InputOrder returns a copy of the bit-reversal table used to label stage 0.
func (g *Graph) InputOrder() []int { return slices.Clone(g.input) }

// Validate checks the structural invariants of the graph:
//   - exactly (logN+1)*N nodes with ids dense in [0, (logN+1)*N)
//   - every id equals stage*N + index
//   - stage-0 nodes have no parents, all others exactly two
//   - every parent belongs to the immediately preceding stage
//   - parents are exactly [even, odd] as given by [Operands]
//   - labels are x(k) for stage 0, k from the bit-reversal table, and
//     DFT(k=index mod 2^stage) elsewhere
//
// Violations are reported as INVALID_GRAPH errors wrapping one of the
// package sentinels.
func (g *Graph) Validate() error {
	if want := g.Stages() * g.size; len(g.nodes) != want {
		return invalid(ErrNodeCount, "have %d nodes, want %d", len(g.nodes), want)
	}
	for pos, n := range g.nodes {
		if n.ID != pos || n.Stage < 0 || n.Stage > g.logN || n.Index < 0 || n.Index >= g.size ||
			n.ID != n.Stage*g.size+n.Index {
			return invalid(ErrNodeID, "node at position %d has id %d (stage %d, index %d)", pos, n.ID, n.Stage, n.Index)
		}
		if n.Stage == 0 {
			if len(n.Parents) != 0 {
				return invalid(ErrParentCount, "input node %d has %d parents", n.ID, len(n.Parents))
			}
			if want := InputLabel(g.input[n.Index]); n.Label != want {
				return invalid(ErrLabel, "node %d has label %q, want %q", n.ID, n.Label, want)
			}
			continue
		}
		if len(n.Parents) != 2 {
			return invalid(ErrParentCount, "node %d has %d parents, want 2", n.ID, len(n.Parents))
		}
		lo, hi := (n.Stage-1)*g.size, n.Stage*g.size
		for _, p := range n.Parents {
			if p < lo || p >= hi {
				return invalid(ErrParentStage, "node %d (stage %d) references %d", n.ID, n.Stage, p)
			}
		}
		even, odd := Operands(n.Stage, n.Index)
		if n.Parents[0] != lo+even || n.Parents[1] != lo+odd {
			return invalid(ErrParentOperand, "node %d has parents %v, want [%d %d]", n.ID, n.Parents, lo+even, lo+odd)
		}
		if want := OutputLabel(n.Index % (1 << n.Stage)); n.Label != want {
			return invalid(ErrLabel, "node %d has label %q, want %q", n.ID, n.Label, want)
		}
	}
	return nil
}

func invalid(sentinel error, format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeInvalidGraph, sentinel, format, args...)
}

// String returns a short summary such as "butterfly(N=8, stages=4, nodes=32)".
func (g *Graph) String() string {
	return fmt.Sprintf("butterfly(N=%d, stages=%d, nodes=%d)", g.size, g.Stages(), len(g.nodes))
}
