package layout

import (
	"testing"

	"github.com/matzehuels/butterfly/pkg/butterfly"
)

func TestPosition(t *testing.T) {
	tests := []struct {
		name          string
		node          butterfly.Node
		stages, nodes int
		wantX, wantY  float64
	}{
		{"origin", butterfly.Node{Stage: 0, Index: 0}, 3, 8, 0, 0},
		{"output bottom", butterfly.Node{Stage: 3, Index: 7}, 3, 8, 1, 1},
		{"middle", butterfly.Node{Stage: 1, Index: 2}, 2, 5, 0.5, 0.5},
		{"zero stages", butterfly.Node{Stage: 0, Index: 0}, 0, 1, 0, 0},
		{"single row", butterfly.Node{Stage: 1, Index: 0}, 2, 1, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Position(tt.node, tt.stages, tt.nodes)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Position() = (%v, %v), want (%v, %v)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestPositionRange(t *testing.T) {
	g, err := butterfly.Build(4)
	if err != nil {
		t.Fatalf("Build(4) error: %v", err)
	}
	for _, n := range g.Nodes() {
		x, y := Position(n, g.LogN(), g.Size())
		if x < 0 || x > 1 || y < 0 || y > 1 {
			t.Fatalf("Position(%d) = (%v, %v) outside [0,1]", n.ID, x, y)
		}
	}
}

func TestCompute(t *testing.T) {
	g, err := butterfly.Build(2)
	if err != nil {
		t.Fatalf("Build(2) error: %v", err)
	}

	l := Compute(g, WithFrame(200, 300))

	if l.FrameWidth != 200 || l.FrameHeight != 300 {
		t.Errorf("frame = %vx%v, want 200x300", l.FrameWidth, l.FrameHeight)
	}
	if l.Margin != 20 {
		t.Errorf("Margin = %v, want 20", l.Margin)
	}
	if len(l.Points) != g.NodeCount() {
		t.Fatalf("len(Points) = %d, want %d", len(l.Points), g.NodeCount())
	}

	// Last node: stage 2, index 3.
	if p := l.Points[11]; p.X != 200 || p.Y != 300 {
		t.Errorf("Points[11] = %+v, want {200 300}", p)
	}
	// Stage 1, index 3.
	if p := l.Points[7]; p.X != 100 || p.Y != 300 {
		t.Errorf("Points[7] = %+v, want {100 300}", p)
	}

	if len(l.Headings) != 3 {
		t.Fatalf("len(Headings) = %d, want 3", len(l.Headings))
	}
	wantText := []string{"N=1", "N=2", "N=4"}
	for i, h := range l.Headings {
		if h.Text != wantText[i] {
			t.Errorf("Headings[%d].Text = %q, want %q", i, h.Text, wantText[i])
		}
	}
	if l.Headings[2].X != 200 {
		t.Errorf("Headings[2].X = %v, want 200", l.Headings[2].X)
	}
}

func TestComputeDefaults(t *testing.T) {
	g, _ := butterfly.Build(0)
	l := Compute(g)

	if l.FrameWidth != DefaultWidth || l.FrameHeight != DefaultHeight {
		t.Errorf("frame = %vx%v, want defaults", l.FrameWidth, l.FrameHeight)
	}
	if p := l.Points[0]; p.X != 0 || p.Y != 0 {
		t.Errorf("single node at %+v, want origin", p)
	}
	if got := l.ViewBox(); got != "-10 -10 120 120" {
		t.Errorf("ViewBox() = %q, want %q", got, "-10 -10 120 120")
	}
}

func TestComputeOptions(t *testing.T) {
	g, _ := butterfly.Build(1)

	l := Compute(g, WithFrame(-1, 0), WithMargin(5))
	if l.FrameWidth != DefaultWidth || l.FrameHeight != DefaultHeight {
		t.Errorf("non-positive frame should keep defaults, got %vx%v", l.FrameWidth, l.FrameHeight)
	}
	if l.Margin != 5 {
		t.Errorf("Margin = %v, want 5", l.Margin)
	}

	l = Compute(g, WithMargin(0))
	if l.Margin != 0 {
		t.Errorf("explicit zero margin should be kept, got %v", l.Margin)
	}
}

func TestLayoutPoint(t *testing.T) {
	g, _ := butterfly.Build(1)
	l := Compute(g)
	if _, ok := l.Point(4); ok {
		t.Error("Point(4) should not exist")
	}
	if p, ok := l.Point(3); !ok || p.X != 100 || p.Y != 100 {
		t.Errorf("Point(3) = %+v, %v", p, ok)
	}
}

func TestSmoothPath(t *testing.T) {
	got := SmoothPath(Point{0, 0}, Point{50, 100})
	want := "M0,0C25,0 25,100 50,100"
	if got != want {
		t.Errorf("SmoothPath() = %q, want %q", got, want)
	}

	got = SmoothPath(Point{12.5, 33.25}, Point{37.5, 0})
	want = "M12.5,33.25C25,33.25 25,0 37.5,0"
	if got != want {
		t.Errorf("SmoothPath() = %q, want %q", got, want)
	}
}
