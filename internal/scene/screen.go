package scene

import (
	"errors"

	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/world"
)

// ErrNoWorld is reported by console verbs that need a world when the active
// screen has none.
var ErrNoWorld = errors.New("scene: no active world")

// Screen is one top-level mode of the game. The Master calls Update once
// per fixed step, Logic once per frame, Draw with the camera offset applied
// and DrawHUD without it. Event hooks receive key and mouse transitions
// while the console is closed.
//
// Embed Base to get no-op versions of every hook except DrawHUD.
type Screen interface {
	Update(p core.Platform, s *State)
	Logic(p core.Platform, s *State)
	Draw(c *core.Canvas, s *State)
	DrawHUD(c *core.Canvas, s *State)
	EventDown(p core.Platform, s *State, e core.Event)
	EventUp(p core.Platform, s *State, e core.Event)
}

// Base provides the optional Screen hooks.
type Base struct{}

func (Base) Update(core.Platform, *State)                {}
func (Base) Logic(core.Platform, *State)                 {}
func (Base) Draw(*core.Canvas, *State)                   {}
func (Base) EventDown(core.Platform, *State, core.Event) {}
func (Base) EventUp(core.Platform, *State, core.Event)   {}

// WorldHolder is implemented by screens that own a world, so console verbs
// can inspect and edit it.
type WorldHolder interface {
	World() *world.World
}

// StatsHolder is implemented by screens that track a run in progress.
type StatsHolder interface {
	Stats() world.Statistics
}
