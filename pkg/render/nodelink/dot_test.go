package nodelink

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/coral/pkg/collatz"
)

func TestToDOT(t *testing.T) {
	g, _ := collatz.Build(5)
	got := ToDOT(g, Options{})

	want := `digraph G {
  rankdir=BT;
  bgcolor="transparent";
  node [shape=box, style="rounded,filled", fillcolor=white, fontsize=24, margin="0.2,0.1"];
  ranksep=0.5;
  nodesep=0.3;

  1 [label="1"];
  2 [label="2"];
  4 [label="4"];
  5 [label="5"];
  8 [label="8"];
  16 [label="16"];

  2 -> 1;
  4 -> 2;
  5 -> 16;
  8 -> 4;
  16 -> 8;
}
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToDOT mismatch (-want +got):\n%s", diff)
	}
}

func TestToDOTOptions(t *testing.T) {
	g, _ := collatz.Build(5)
	got := ToDOT(g, Options{Detailed: true, Parity: true})

	for _, want := range []string{
		`5 [label="5\nsteps: 5", fillcolor="#f96645"];`,
		`16 [label="16\nsteps: 4", fillcolor="#a9e2ff"];`,
		`1 [label="1\nsteps: 0", fillcolor="#f96645"];`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %s in:\n%s", want, got)
		}
	}
}

func TestToDOTEmpty(t *testing.T) {
	got := ToDOT(collatz.Graph{}, Options{})
	if strings.Contains(got, "label=") || strings.Contains(got, "->") {
		t.Errorf("empty graph should have no nodes or edges:\n%s", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))

	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	noBox := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(noBox)) != string(noBox) {
		t.Error("svg without viewBox should be unchanged")
	}
}
