package world

import (
	"fmt"

	"github.com/vovakirdan/kofarve/internal/core"
)

// World is a level being played: the grid, the farmer's cell and the
// pickups not yet collected.
type World struct {
	Level     *Level
	Farmer    core.Point
	Remaining []core.Point
}

// New starts a world from a copy of lvl.
func New(lvl *Level) *World {
	lvl = lvl.Clone()
	return &World{
		Level:     lvl,
		Farmer:    lvl.Start,
		Remaining: append([]core.Point(nil), lvl.Pickups...),
	}
}

// Grid returns the world's grid.
func (w *World) Grid() *Grid {
	return &w.Level.Grid
}

// Walkable reports whether the farmer may stand on cell p.
func (w *World) Walkable(p core.Point) bool {
	m, ok := w.Level.Grid.Get(p.X, p.Y)
	return ok && !m.Solid()
}

// Move steps the farmer by (dx, dy) cells. It reports false when the
// target is off the grid or solid.
func (w *World) Move(dx, dy int) bool {
	if dx == 0 && dy == 0 {
		return false
	}
	next := w.Farmer.Add(core.Pt(dx, dy))
	if !w.Walkable(next) {
		return false
	}
	w.Farmer = next
	return true
}

// Teleport puts the farmer on cell p.
func (w *World) Teleport(p core.Point) error {
	if !w.Walkable(p) {
		return fmt.Errorf("world: cell %d,%d is not walkable", p.X, p.Y)
	}
	w.Farmer = p
	return nil
}

// Collect picks up whatever lies under the farmer.
func (w *World) Collect() bool {
	for i, p := range w.Remaining {
		if p == w.Farmer {
			w.Remaining = append(w.Remaining[:i], w.Remaining[i+1:]...)
			return true
		}
	}
	return false
}

// Collected returns how many pickups have been taken.
func (w *World) Collected() int {
	return len(w.Level.Pickups) - len(w.Remaining)
}

// Cleared reports whether every pickup has been collected.
func (w *World) Cleared() bool {
	return len(w.Remaining) == 0
}

// FarmerPos returns the farmer's position in world canvas cells.
func (w *World) FarmerPos() core.Point {
	return CellOrigin(w.Farmer.X, w.Farmer.Y)
}
