package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/coral/pkg/coral"
	"github.com/matzehuels/coral/pkg/graph"
)

func testDoc(n int) graph.Coral {
	strands := make([]coral.Strand, n)
	for i := range strands {
		strands[i] = coral.Strand{{X: 0, Y: 0, Z: 0}, {X: 3, Y: 4, Z: 0}, {X: 3, Y: 4, Z: 12}}
	}
	return graph.NewCoral(graph.Config{Limit: 10}, strands, coral.Stats{Strands: n, Points: 3 * n})
}

func press(m strandModel, keys ...string) strandModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "pgdown":
			msg = tea.KeyMsg{Type: tea.KeyPgDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(strandModel)
	}
	return m
}

func TestSummarizeStrand(t *testing.T) {
	r := summarizeStrand(coral.Strand{{X: 0, Y: 0, Z: 0}, {X: 3, Y: 4, Z: 0}, {X: 3, Y: 4, Z: 12}})
	if r.points != 3 {
		t.Errorf("points = %d, want 3", r.points)
	}
	if r.length != 17 {
		t.Errorf("length = %v, want 17", r.length)
	}
	if r.end != (coral.Point{X: 3, Y: 4, Z: 12}) {
		t.Errorf("end = %+v", r.end)
	}
}

func TestStrandModelNavigation(t *testing.T) {
	m := newStrandModel(testDoc(40))

	m = press(m, "down", "j", "j")
	if m.cursor != 3 {
		t.Errorf("cursor = %d, want 3", m.cursor)
	}
	m = press(m, "up", "k", "k", "k", "k")
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 (clamped)", m.cursor)
	}

	m = press(m, "G")
	if m.cursor != 39 {
		t.Errorf("cursor after G = %d, want 39", m.cursor)
	}
	if m.offset != 39-m.height+1 {
		t.Errorf("offset = %d, want cursor in view", m.offset)
	}

	m = press(m, "g", "pgdown")
	if m.cursor != m.height {
		t.Errorf("cursor after pgdown = %d, want %d", m.cursor, m.height)
	}
}

func TestStrandModelQuit(t *testing.T) {
	m := newStrandModel(testDoc(1))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestStrandModelView(t *testing.T) {
	view := newStrandModel(testDoc(2)).View()
	for _, want := range []string{"limit 10", "2 strands", "17.0", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	empty := newStrandModel(testDoc(0)).View()
	if !strings.Contains(empty, "no strands") {
		t.Error("empty view should say so")
	}
}

func TestStrandModelResize(t *testing.T) {
	m := newStrandModel(testDoc(40))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	if got := next.(strandModel).height; got != 5 {
		t.Errorf("height = %d, want minimum 5", got)
	}
}
