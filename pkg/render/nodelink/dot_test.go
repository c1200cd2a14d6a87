package nodelink

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/amlfed/pkg/federation"
	"github.com/matzehuels/amlfed/pkg/workspace"
)

func testSnapshot(t *testing.T) (workspace.Snapshot, map[string]federation.DocID) {
	t.Helper()
	w := workspace.New(workspace.Options{Logger: log.New(io.Discard)})
	ids := make(map[string]federation.DocID)
	for _, loc := range []string{"plant.aml", "lib.aml", "base.aml", "tool.aml"} {
		id, err := w.Open(loc)
		if err != nil {
			t.Fatal(err)
		}
		ids[loc] = id
	}
	steps := []func() error{
		func() error { return w.AddLibrary(ids["base.aml"], federation.KindRoleLibrary, "BaseRoles") },
		func() error { return w.AddLibrary(ids["lib.aml"], federation.KindSystemUnitLibrary, "Units") },
		func() error { _, err := w.AddElement(ids["lib.aml"], uuid.Nil, "Pump", uuid.Nil); return err },
		func() error { return w.AddReference(ids["plant.aml"], ids["lib.aml"]) },
		func() error { return w.AddReference(ids["lib.aml"], ids["base.aml"]) },
		func() error {
			_, err := w.PointToClass(ids["plant.aml"], federation.KindRoleLibrary, "BaseRoles")
			return err
		},
		func() error {
			_, err := w.PointToClass(ids["plant.aml"], federation.KindSystemUnitLibrary, "Units")
			return err
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}
	snap, err := w.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	return snap, ids
}

func TestToDOT(t *testing.T) {
	snap, _ := testSnapshot(t)
	dot := ToDOT(snap, Options{})

	for _, want := range []string{
		"digraph G {",
		`"plant.aml" [label="plant.aml"];`,
		`"plant.aml" -> "lib.aml" [label="1"];`,
		`"lib.aml" -> "base.aml";`,
		`"plant.aml" -> "base.aml" [style=dashed, label="1"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "tool.aml\" ->") {
		t.Error("isolated document should have no edges")
	}
}

func TestToDOTDetailed(t *testing.T) {
	snap, _ := testSnapshot(t)
	dot := ToDOT(snap, Options{Detailed: true})
	if !strings.Contains(dot, `label="lib.aml\nSUC: Units\nelements: 1"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `label="tool.aml"`) {
		t.Errorf("document without content should keep a plain label:\n%s", dot)
	}
}

func TestToDOTHighlight(t *testing.T) {
	snap, ids := testSnapshot(t)
	dot := ToDOT(snap, Options{Highlight: ids["lib.aml"]})
	for _, want := range []string{
		`"lib.aml" [label="lib.aml", fillcolor=gold, penwidth=3];`,
		`"base.aml" [label="base.aml", fillcolor=lightblue];`,
		`"plant.aml" [label="plant.aml", fillcolor=palegreen];`,
		`"tool.aml" [label="tool.aml", style="rounded,filled,dashed"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s:\n%s", want, dot)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := normalizeViewBox(in)
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.00" width="100" height="200"><g/></svg>`
	if string(out) != want {
		t.Errorf("normalizeViewBox() = %s, want %s", out, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); !bytes.Equal(got, plain) {
		t.Errorf("normalizeViewBox() changed SVG without viewBox: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	snap, _ := testSnapshot(t)
	svg, err := RenderSVG(ToDOT(snap, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("plant.aml")) {
		t.Errorf("unexpected SVG output: %.200s", svg)
	}
}
