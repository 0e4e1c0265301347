package world

import (
	"testing"

	"github.com/vovakirdan/kofarve/internal/core"
)

func TestGridResize(t *testing.T) {
	g := NewGrid(3, 2)
	g.Insert(2, 0, Ore)
	g.Insert(0, 1, Sheeps)

	g.Widen()
	if g.Width() != 4 || g.Height() != 2 {
		t.Fatalf("after Widen: %dx%d, expected 4x2", g.Width(), g.Height())
	}
	if m, _ := g.Get(2, 0); m != Ore {
		t.Errorf("Widen moved (2,0) to %v", m)
	}
	if m, _ := g.Get(0, 1); m != Sheeps {
		t.Errorf("Widen moved (0,1) to %v", m)
	}
	if m, _ := g.Get(3, 1); m != Apples {
		t.Errorf("new column = %v, expected apples", m)
	}

	g.Heighten()
	if g.Height() != 3 {
		t.Errorf("after Heighten: height %d, expected 3", g.Height())
	}

	g.Thin()
	g.Thin()
	if g.Width() != 2 {
		t.Fatalf("after Thin x2: width %d, expected 2", g.Width())
	}
	if _, ok := g.Get(2, 0); ok {
		t.Error("removed column should not be addressable")
	}
	if m, _ := g.Get(0, 1); m != Sheeps {
		t.Errorf("Thin moved (0,1) to %v", m)
	}

	g.Shorten()
	g.Shorten()
	g.Shorten()
	if g.Height() != 1 {
		t.Errorf("Shorten should stop at one row, height %d", g.Height())
	}

	g.Thin()
	g.Thin()
	if g.Width() != 1 {
		t.Errorf("Thin should stop at one column, width %d", g.Width())
	}
}

func TestGridInsertOutOfBounds(t *testing.T) {
	g := NewGrid(2, 2)

	tests := []struct {
		x, y int
		ok   bool
	}{
		{0, 0, true},
		{1, 1, true},
		{2, 0, false},
		{0, 2, false},
		{-1, 0, false},
	}
	for _, tc := range tests {
		if got := g.Insert(tc.x, tc.y, Grains); got != tc.ok {
			t.Errorf("Insert(%d,%d) = %v, expected %v", tc.x, tc.y, got, tc.ok)
		}
	}
}

func TestSnap(t *testing.T) {
	tests := []struct {
		p    core.Point
		x, y int
		ok   bool
	}{
		{core.Pt(0, 0), 0, 0, true},
		{core.Pt(1, 0), 0, 0, true},
		{core.Pt(5, 3), 2, 3, true},
		{core.Pt(-1, 3), 0, 0, false},
	}
	for _, tc := range tests {
		x, y, ok := Snap(tc.p)
		if x != tc.x || y != tc.y || ok != tc.ok {
			t.Errorf("Snap(%v) = (%d,%d,%v), expected (%d,%d,%v)", tc.p, x, y, ok, tc.x, tc.y, tc.ok)
		}
	}
}

func TestGridFromRows(t *testing.T) {
	g, err := GridFromRows([]string{"agl", "os?"})
	if err == nil {
		t.Fatal("expected error for unknown letter")
	}

	g, err = GridFromRows([]string{"agl", "osa"})
	if err != nil {
		t.Fatalf("GridFromRows error: %v", err)
	}
	if m, _ := g.Get(2, 0); m != Lumber {
		t.Errorf("(2,0) = %v, expected lumber", m)
	}
	rows := g.Rows()
	if rows[1] != "osa" {
		t.Errorf("Rows()[1] = %q, expected %q", rows[1], "osa")
	}

	if _, err := GridFromRows([]string{"aa", "a"}); err == nil {
		t.Error("expected error for ragged rows")
	}
}

func TestParseMaterial(t *testing.T) {
	for _, m := range Palette {
		got, err := ParseMaterial(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMaterial(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMaterial("wool"); err == nil {
		t.Error("expected error for unknown material")
	}
}
