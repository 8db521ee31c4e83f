package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/butterfly/pkg/butterfly"
)

func newTestExplorer(t *testing.T, logN int) ExploreModel {
	t.Helper()
	g, err := butterfly.Build(logN)
	if err != nil {
		t.Fatal(err)
	}
	return NewExploreModel(g)
}

func press(m ExploreModel, keys ...tea.KeyMsg) ExploreModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(ExploreModel)
	}
	return m
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestExploreStartsOnOutputStage(t *testing.T) {
	m := newTestExplorer(t, 3)
	if m.Stage != 3 || m.Index != 0 {
		t.Errorf("start = (%d, %d), want (3, 0)", m.Stage, m.Index)
	}
}

func TestExploreNavigationClamps(t *testing.T) {
	m := newTestExplorer(t, 2)

	m = press(m, keyUp, keyRight)
	if m.Stage != 2 || m.Index != 0 {
		t.Errorf("after up/right at corner = (%d, %d), want (2, 0)", m.Stage, m.Index)
	}

	m = press(m, keyDown, keyDown, keyDown, keyDown, keyDown)
	if m.Index != 3 {
		t.Errorf("Index = %d, want 3 (clamped)", m.Index)
	}

	m = press(m, keyLeft, keyLeft, keyLeft)
	if m.Stage != 0 {
		t.Errorf("Stage = %d, want 0 (clamped)", m.Stage)
	}

	m = press(m, runeKey('g'))
	if m.Index != 0 {
		t.Errorf("g: Index = %d, want 0", m.Index)
	}
	m = press(m, runeKey('G'))
	if m.Index != 3 {
		t.Errorf("G: Index = %d, want 3", m.Index)
	}
}

func TestExploreFollowParents(t *testing.T) {
	m := newTestExplorer(t, 3)
	m = press(m, keyDown) // stage 3, index 1

	// Stage 3 (n=8): index 1 combines indices 1 and 5 of stage 2
	even := press(m, runeKey('e'))
	if even.Stage != 2 || even.Index != 1 {
		t.Errorf("even parent = (%d, %d), want (2, 1)", even.Stage, even.Index)
	}
	odd := press(m, runeKey('o'))
	if odd.Stage != 2 || odd.Index != 5 {
		t.Errorf("odd parent = (%d, %d), want (2, 5)", odd.Stage, odd.Index)
	}

	// Inputs have no parents
	input := press(m, keyLeft, keyLeft, keyLeft, runeKey('e'))
	if input.Stage != 0 || input.Index != 1 {
		t.Errorf("e on input moved to (%d, %d)", input.Stage, input.Index)
	}
}

func TestExploreRoles(t *testing.T) {
	m := newTestExplorer(t, 2)
	m.Stage, m.Index = 1, 0 // stage 1 (n=2): parents 0 and 1 of stage 0

	tests := []struct {
		stage, index int
		want         string
	}{
		{1, 0, "selected"},
		{0, 0, "even"},
		{0, 1, "odd"},
		{2, 0, "child"},
		{2, 2, "child"},
		{2, 1, ""},
		{0, 2, ""},
	}
	for _, tt := range tests {
		if got := m.roleOf(tt.stage, tt.index); got != tt.want {
			t.Errorf("roleOf(%d, %d) = %q, want %q", tt.stage, tt.index, got, tt.want)
		}
	}
}

func TestExploreScrolling(t *testing.T) {
	m := newTestExplorer(t, 5)
	m.Height = 4

	for range 6 {
		m = press(m, keyDown)
	}
	if m.Index != 6 || m.Offset != 3 {
		t.Errorf("Index=%d Offset=%d, want 6 and 3", m.Index, m.Offset)
	}

	m = press(m, runeKey('g'))
	if m.Offset != 0 {
		t.Errorf("Offset after g = %d, want 0", m.Offset)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if h := next.(ExploreModel).Height; h != 28 {
		t.Errorf("Height after resize = %d, want 28", h)
	}
}

func TestExploreView(t *testing.T) {
	m := newTestExplorer(t, 2)
	view := m.View()

	for _, want := range []string{"4 inputs", "3 stages", "N=1", "N=4", "x(0)", "DFT(k=0)", "even ←", "odd ←", "[1/4]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestExploreQuit(t *testing.T) {
	m := newTestExplorer(t, 1)
	for _, k := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Errorf("%s: expected quit command", k)
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command is not tea.Quit", k)
		}
	}
}
