package world

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/kofarve/internal/core"
)

func TestBuiltinLevelsParse(t *testing.T) {
	names := BuiltinNames()
	if len(names) == 0 {
		t.Fatal("no built-in levels")
	}
	for _, name := range names {
		lvl, err := Builtin(name)
		if err != nil {
			t.Errorf("Builtin(%q): %v", name, err)
			continue
		}
		w := New(lvl)
		if !w.Walkable(lvl.Start) {
			t.Errorf("%s: start %v is not walkable", name, lvl.Start)
		}
		for _, p := range lvl.Pickups {
			if !w.Walkable(p) {
				t.Errorf("%s: pickup %v is not walkable", name, p)
			}
		}
	}
}

func TestBuiltinUnknown(t *testing.T) {
	_, err := Builtin("nope")
	if !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("Builtin(nope) error = %v, expected ErrUnknownLevel", err)
	}
	_, err = Find("definitely/not/here.yaml")
	if !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("Find(missing) error = %v, expected ErrUnknownLevel", err)
	}
}

func TestLevelSaveLoad(t *testing.T) {
	lvl := NewLevel("test", 4, 3)
	lvl.Grid.Insert(1, 2, Sheeps)
	lvl.Start = core.Pt(3, 0)
	lvl.Pickups = []core.Point{core.Pt(0, 2)}
	lvl.TimeLimit = 30

	file := filepath.Join(t.TempDir(), "test.yaml")
	if err := lvl.Save(file); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if lvl.Path != file {
		t.Errorf("Path = %q after Save", lvl.Path)
	}

	got, err := Load(file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "test" || got.Start != lvl.Start || got.TimeLimit != 30 {
		t.Errorf("Load() = %+v", got)
	}
	if m, _ := got.Grid.Get(1, 2); m != Sheeps {
		t.Errorf("grid (1,2) = %v, expected sheeps", m)
	}
	if len(got.Pickups) != 1 || got.Pickups[0] != core.Pt(0, 2) {
		t.Errorf("Pickups = %v", got.Pickups)
	}
}

func TestLevelValidate(t *testing.T) {
	data := []byte("name: bad\nstart: {x: 5, y: 0}\ngrid:\n  - aa\n")
	if _, err := Parse(data); err == nil {
		t.Error("expected error for start outside grid")
	}
}

func TestLevelCloneIsDeep(t *testing.T) {
	lvl, err := First()
	if err != nil {
		t.Fatalf("First: %v", err)
	}
	c := lvl.Clone()
	c.Grid.Insert(0, 0, Ore)
	c.Pickups[0] = core.Pt(0, 0)

	if m, _ := lvl.Grid.Get(0, 0); m == Ore {
		t.Error("clone shares the grid")
	}
	if lvl.Pickups[0] == core.Pt(0, 0) {
		t.Error("clone shares pickups")
	}
}

func TestCampaignContent(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"one", "two"} {
		lvl := NewLevel(name, 2, 2)
		if err := lvl.Save(filepath.Join(dir, name+".yaml")); err != nil {
			t.Fatal(err)
		}
	}
	campaign := filepath.Join(dir, "campaign.txt")
	if err := os.WriteFile(campaign, []byte("# farm\none.yaml\n\ntwo.yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	content, err := OpenContent(campaign)
	if err != nil {
		t.Fatalf("OpenContent: %v", err)
	}

	first, err := content.Start()
	if err != nil || first.Name != "one" {
		t.Fatalf("Start() = %v, %v", first, err)
	}
	second, ok, err := content.Next()
	if err != nil || !ok || second.Name != "two" {
		t.Fatalf("Next() = %v, %v, %v", second, ok, err)
	}
	if _, ok, _ := content.Next(); ok {
		t.Error("campaign should be finished")
	}

	again, err := content.Start()
	if err != nil || again.Name != "one" {
		t.Errorf("Start() after finishing = %v, %v", again, err)
	}
}

func TestSingleLevelContent(t *testing.T) {
	content := LevelContent(NewLevel("solo", 2, 2))

	lvl, err := content.Start()
	if err != nil || lvl.Name != "solo" {
		t.Fatalf("Start() = %v, %v", lvl, err)
	}
	if _, ok, _ := content.Next(); ok {
		t.Error("single-level content has no next level")
	}
}
