package cli

import (
	"path/filepath"
	"strings"
	"testing"

	bfio "github.com/matzehuels/butterfly/pkg/io"
)

func TestGraphCommandStdout(t *testing.T) {
	path := writeConfig(t, "")

	out, err := executeCommand(t, path, "graph", "2")
	if err != nil {
		t.Fatal(err)
	}
	g, err := bfio.ReadJSON(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a valid graph: %v\n%s", err, out)
	}
	if g.LogN() != 2 || g.NodeCount() != 12 {
		t.Errorf("got logN=%d nodes=%d, want 2 and 12", g.LogN(), g.NodeCount())
	}
}

func TestGraphCommandOutputFile(t *testing.T) {
	path := writeConfig(t, "")
	out := filepath.Join(t.TempDir(), "fft8.json")

	if _, err := executeCommand(t, path, "graph", "3", "-o", out); err != nil {
		t.Fatal(err)
	}
	g, err := bfio.ImportJSON(out)
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 8 {
		t.Errorf("Size() = %d, want 8", g.Size())
	}
	if n, _ := g.At(0, 1); n.Label != "x(4)" {
		t.Errorf("input label at index 1 = %q, want x(4)", n.Label)
	}
}

func TestGraphCommandCached(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	first, err := executeCommand(t, path, "graph", "3")
	if err != nil {
		t.Fatal(err)
	}
	second, err := executeCommand(t, path, "graph", "3")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("cached graph differs from freshly built graph")
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "*", "*.json"))
	if len(matches) == 0 {
		t.Error("graph was not written to the file cache")
	}
}
