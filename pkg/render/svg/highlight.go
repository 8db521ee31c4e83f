package svg

import (
	"strconv"

	"github.com/matzehuels/butterfly/pkg/butterfly"
)

// NodeElementID returns the element id of a node's circle.
func NodeElementID(id int) string { return "node-" + strconv.Itoa(id) }

// LabelElementID returns the element id of a node's label.
func LabelElementID(id int) string { return "label-" + strconv.Itoa(id) }

// EdgeElementID returns the element id of the path from parent to child.
func EdgeElementID(from, to int) string {
	return "edge-" + strconv.Itoa(from) + "-" + strconv.Itoa(to)
}

// GroupClass returns the CSS class shared by all elements of a node.
func GroupClass(id int) string { return "group" + strconv.Itoa(id) }

// HighlightGroups maps every node id to the ids of the visual elements that
// highlight together with it: its circle, its label (when labels are drawn)
// and the edges from its parents.
func HighlightGroups(g *butterfly.Graph, withLabels bool) map[int][]string {
	groups := make(map[int][]string, g.NodeCount())
	for _, n := range g.Nodes() {
		ids := make([]string, 0, 2+len(n.Parents))
		ids = append(ids, NodeElementID(n.ID))
		if withLabels {
			ids = append(ids, LabelElementID(n.ID))
		}
		for _, p := range n.Parents {
			ids = append(ids, EdgeElementID(p, n.ID))
		}
		groups[n.ID] = ids
	}
	return groups
}
