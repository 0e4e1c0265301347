// Package play runs a level: the farmer walks the grid with the movement
// keys, collects every pickup before time or health runs out, and ore
// hurts to walk on.
package play

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/registry"
	"github.com/vovakirdan/kofarve/internal/scene"
	"github.com/vovakirdan/kofarve/internal/screens/widget"
	"github.com/vovakirdan/kofarve/internal/world"
)

const (
	// moveDelay is the time between steps while a movement key is held.
	moveDelay = 120 * time.Millisecond
	// victoryDelay is how long the cleared level stays up before Win.
	victoryDelay = time.Second
)

// The crosshair is drawn in the HUD, so the pointer itself stays hidden.
var playCursor = core.Cursor{Icon: core.CursorCrosshair, Hidden: true}

var sprites = []string{"common/farmer", "common/pickup", "common/crosshair", "ui/bar_health", "ui/bar_time", "ui/bar_empty"}

// Play is a level in progress.
type Play struct {
	world   *world.World
	loadout scene.Loadout
	maxHP   int
	limit   time.Duration // zero for none
	damage  int

	elapsed  time.Duration
	moveWait time.Duration
	victory  time.Duration // counts down once cleared
	cleared  bool
	finished bool

	log *log.Logger
}

func init() {
	registry.Register(scene.KindPlay, New)
}

// New starts t.Level, or the first content level when none is given.
// A carried loadout keeps the farmer's health.
func New(p core.Platform, s *scene.State, t scene.Transition) (scene.Screen, error) {
	if err := s.Assets.Require(append(sprites, widget.MaterialSprites()...)...); err != nil {
		return nil, err
	}
	lvl := t.Level
	if lvl == nil {
		var err error
		if lvl, err = s.Content.Start(); err != nil {
			return nil, fmt.Errorf("play: no level to start: %w", err)
		}
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("play: %w", err)
	}

	rules := s.Difficulty
	loadout := scene.Loadout{Health: rules.Health, Weapon: scene.DefaultLoadout.Weapon}
	if t.Loadout != nil {
		loadout = *t.Loadout
	}

	g := &Play{
		world:   world.New(lvl),
		loadout: loadout,
		maxHP:   max(rules.Health, loadout.Health),
		limit:   time.Duration(rules.TimeLimit(lvl.TimeLimit)) * time.Second,
		damage:  rules.Damage,
		log:     s.Logger("play"),
	}

	p.SetCursor(playCursor)
	s.Audio.Stop("music")
	s.FocusOn(g.world.FarmerPos())
	g.log.Info("level started", "level", lvl.Name, "pickups", len(lvl.Pickups), "limit", g.limit, "health", loadout.Health)
	return g, nil
}

// World implements scene.WorldHolder.
func (g *Play) World() *world.World {
	return g.world
}

// Stats implements scene.StatsHolder.
func (g *Play) Stats() world.Statistics {
	return world.Statistics{
		Level:     g.world.Level.Name,
		Collected: g.world.Collected(),
		Total:     len(g.world.Level.Pickups),
		Health:    g.loadout.Health,
		Elapsed:   g.elapsed,
		Won:       g.cleared,
	}
}

// Health returns the farmer's health.
func (g *Play) Health() int {
	return g.loadout.Health
}

// Update advances one fixed step.
func (g *Play) Update(_ core.Platform, s *scene.State) {
	if g.finished {
		return
	}
	g.elapsed += s.Step

	if g.cleared {
		g.victory -= s.Step
		if g.victory <= 0 {
			g.finish(s, true)
		}
		return
	}

	g.moveWait -= s.Step
	if g.moveWait <= 0 && (s.Input.Hor != 0 || s.Input.Ver != 0) {
		g.step(s, s.Input.Hor, s.Input.Ver)
		g.moveWait = moveDelay
	}

	switch {
	case g.loadout.Health <= 0:
		g.log.Info("farmer exhausted", "level", g.world.Level.Name)
		g.finish(s, false)
	case g.limit > 0 && g.elapsed >= g.limit:
		g.log.Info("time is up", "level", g.world.Level.Name)
		g.finish(s, false)
	}
}

// step moves the farmer, sliding along a blocked axis.
func (g *Play) step(s *scene.State, dx, dy int) {
	moved := g.world.Move(dx, dy) || g.world.Move(dx, 0) || g.world.Move(0, dy)
	if !moved {
		return
	}
	if m, _ := g.world.Grid().Get(g.world.Farmer.X, g.world.Farmer.Y); m == world.Ore {
		g.loadout.Health = max(g.loadout.Health-g.damage, 0)
	}
	if g.world.Collect() {
		if err := s.Audio.Play("pickup"); err != nil {
			g.log.Debug("pickup sound failed", "err", err)
		}
		g.log.Debug("pickup collected", "left", len(g.world.Remaining))
		if g.world.Cleared() {
			g.cleared = true
			g.victory = victoryDelay
			g.log.Info("level cleared", "level", g.world.Level.Name, "elapsed", g.elapsed.Round(time.Millisecond))
		}
	}
}

func (g *Play) finish(s *scene.State, won bool) {
	g.finished = true
	stats := g.Stats()
	stats.Won = won
	if won {
		s.Switch(scene.ToWin(stats))
	} else {
		s.Switch(scene.ToLose(stats))
	}
}

// Logic keeps the camera on the farmer and the pointer hidden.
func (g *Play) Logic(p core.Platform, s *scene.State) {
	p.SetCursor(playCursor)
	s.FocusOn(g.world.FarmerPos())
}

// Draw renders the grid, the pickups and the farmer in world space.
func (g *Play) Draw(c *core.Canvas, s *scene.State) {
	widget.Grid(c, s.Assets, g.world.Grid())
	for _, p := range g.world.Remaining {
		widget.Overlay(c, s.Assets, "common/pickup", p.X, p.Y)
	}
	widget.Overlay(c, s.Assets, "common/farmer", g.world.Farmer.X, g.world.Farmer.Y)
}

// DrawHUD renders the gauges and the crosshair.
func (g *Play) DrawHUD(c *core.Canvas, s *scene.State) {
	const barW = 20
	c.DrawText(1, 0, "HP", core.ColorWhite)
	widget.Bar(c, s.Assets, "ui/bar_health", 4, 0, barW, g.loadout.Health, g.maxHP)

	if g.limit > 0 {
		left := max(g.limit-g.elapsed, 0)
		c.DrawText(barW+6, 0, "T", core.ColorWhite)
		widget.Bar(c, s.Assets, "ui/bar_time", barW+8, 0, barW, int(left/time.Millisecond), int(g.limit/time.Millisecond))
	}

	status := fmt.Sprintf("%s  %d/%d", g.world.Level.Name, g.world.Collected(), len(g.world.Level.Pickups))
	c.DrawText(max(s.Width-len(status)-1, 0), 0, status, core.ColorBrightYellow)
	if g.cleared {
		c.DrawTextCentered(s.Height/2-2, "FIELD CLEARED", core.ColorBrightGreen)
	}

	widget.Sprite(c, s.Assets, "common/crosshair", s.Mouse)
}

// EventDown leaves the level on escape.
func (g *Play) EventDown(_ core.Platform, s *scene.State, e core.Event) {
	if e.Kind == core.EventKey && e.Key == core.KeyEscape {
		g.log.Info("level abandoned", "level", g.world.Level.Name)
		s.Switch(scene.ToMenu())
	}
}

// EventUp is unused.
func (g *Play) EventUp(core.Platform, *scene.State, core.Event) {}
