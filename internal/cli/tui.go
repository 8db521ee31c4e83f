package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/butterfly/pkg/butterfly"
)

// Explorer styles
var (
	exploreSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Reverse(true)
	exploreChildStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	exploreDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	exploreHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// ExploreModel - Interactive butterfly graph browser
// =============================================================================

// ExploreModel is the bubbletea model for browsing a butterfly graph. The
// grid has one column per stage and one row per index; the selected node's
// even and odd parents and its children are highlighted.
type ExploreModel struct {
	Graph  *butterfly.Graph
	Stage  int
	Index  int
	Height int
	Offset int
}

// NewExploreModel creates an explorer positioned on the first output node.
func NewExploreModel(g *butterfly.Graph) ExploreModel {
	return ExploreModel{
		Graph:  g,
		Stage:  g.LogN(),
		Height: 16,
	}
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.Index--
		case "down", "j":
			m.Index++
		case "left", "h":
			m.Stage--
		case "right", "l":
			m.Stage++
		case "home", "g":
			m.Index = 0
		case "end", "G":
			m.Index = m.Graph.Size() - 1
		case "e":
			m = m.followParent(butterfly.Even)
		case "o":
			m = m.followParent(butterfly.Odd)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 4)
	}
	return m.clamp(), nil
}

// followParent moves the selection to one operand of the selected node.
func (m ExploreModel) followParent(p butterfly.Parity) ExploreModel {
	n := m.selected()
	if n.IsInput() {
		return m
	}
	parent, ok := m.Graph.Node(n.Parents[p])
	if !ok {
		return m
	}
	m.Stage, m.Index = parent.Stage, parent.Index
	return m
}

// clamp keeps the selection inside the graph and scrolls it into view.
func (m ExploreModel) clamp() ExploreModel {
	m.Stage = min(max(m.Stage, 0), m.Graph.LogN())
	m.Index = min(max(m.Index, 0), m.Graph.Size()-1)
	if m.Index < m.Offset {
		m.Offset = m.Index
	}
	if m.Index >= m.Offset+m.Height {
		m.Offset = m.Index - m.Height + 1
	}
	return m
}

func (m ExploreModel) selected() butterfly.Node {
	n, _ := m.Graph.At(m.Stage, m.Index)
	return n
}

// roleOf reports how the node at (stage, index) relates to the selection.
func (m ExploreModel) roleOf(stage, index int) string {
	sel := m.selected()
	id := stage*m.Graph.Size() + index
	switch {
	case id == sel.ID:
		return "selected"
	case len(sel.Parents) == 2 && id == sel.Parents[butterfly.Even]:
		return "even"
	case len(sel.Parents) == 2 && id == sel.Parents[butterfly.Odd]:
		return "odd"
	}
	for _, c := range m.Graph.Children(sel.ID) {
		if c == id {
			return "child"
		}
	}
	return ""
}

func (m ExploreModel) View() string {
	var b strings.Builder
	g := m.Graph

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Butterfly · %d inputs · %d stages", g.Size(), g.Stages())))
	b.WriteString("\n")
	b.WriteString(exploreDimStyle.Render("←/→ stage  ↑/↓ index  e/o go to even/odd parent  q quit"))
	b.WriteString("\n\n")

	headers := []string{"i"}
	for s := 0; s < g.Stages(); s++ {
		headers = append(headers, "N="+strconv.Itoa(1<<s))
	}

	end := min(m.Offset+m.Height, g.Size())
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		row := []string{strconv.Itoa(i)}
		for _, n := range nodesAtIndex(g, i) {
			row = append(row, n.Label)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return exploreHeaderStyle.Padding(0, 1)
			}
			if col == 0 {
				return base.Inherit(exploreDimStyle)
			}
			switch m.roleOf(col-1, m.Offset+row) {
			case "selected":
				return base.Inherit(exploreSelectedStyle)
			case "even":
				return base.Inherit(StyleEven).Bold(true)
			case "odd":
				return base.Inherit(StyleOdd).Bold(true)
			case "child":
				return base.Inherit(exploreChildStyle)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(exploreDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Index+1, g.Size())))

	return b.String()
}

// detail describes the selected node and its operands.
func (m ExploreModel) detail() string {
	n := m.selected()
	parts := []string{
		StyleValue.Render(n.Label),
		fmt.Sprintf("id %d", n.ID),
		fmt.Sprintf("stage %d", n.Stage),
		fmt.Sprintf("index %d", n.Index),
	}
	if n.IsInput() {
		parts = append(parts, "input sample")
	}
	for p, id := range n.Parents {
		parent, _ := m.Graph.Node(id)
		style := StyleEven
		if butterfly.Parity(p) == butterfly.Odd {
			style = StyleOdd
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s ← %d", butterfly.Parity(p), parent.Index)))
	}
	return "  " + strings.Join(parts, exploreDimStyle.Render(" · "))
}

// nodesAtIndex returns the nodes at index i of every stage.
func nodesAtIndex(g *butterfly.Graph, i int) []butterfly.Node {
	out := make([]butterfly.Node, 0, g.Stages())
	for s := 0; s < g.Stages(); s++ {
		if n, ok := g.At(s, i); ok {
			out = append(out, n)
		}
	}
	return out
}
