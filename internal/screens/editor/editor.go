// Package editor paints levels with the mouse.
//
// Left button paints the selected material on the cell under the pointer,
// right button picks the material under it, middle button toggles a
// pickup. Number keys choose from the palette, f moves the farmer's start,
// the movement keys pan, enter plays the level and ctrl+s saves it.
package editor

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/registry"
	"github.com/vovakirdan/kofarve/internal/scene"
	"github.com/vovakirdan/kofarve/internal/screens/widget"
	"github.com/vovakirdan/kofarve/internal/world"
)

// DefaultPath is where a level without a file is saved.
const DefaultPath = "edited.yaml"

const panDelay = 60 * time.Millisecond

var editCursor = core.Cursor{Icon: core.CursorCrosshair}

// Editor edits one level.
type Editor struct {
	world    *world.World
	selected world.Material
	camera   core.Point
	panWait  time.Duration

	log *log.Logger
}

func init() {
	registry.Register(scene.KindEditor, New)
}

// New opens the editor on a copy of t.Level, or on a blank level.
func New(p core.Platform, s *scene.State, t scene.Transition) (scene.Screen, error) {
	if err := s.Assets.Require(append(widget.MaterialSprites(), "common/farmer", "common/pickup")...); err != nil {
		return nil, err
	}
	lvl := t.Level
	if lvl == nil {
		lvl = world.NewLevel("untitled", 16, 10)
	}

	e := &Editor{
		world:    world.New(lvl),
		selected: world.Grains,
		log:      s.Logger("editor"),
	}
	e.camera = e.world.Grid().Bounds().Center()
	s.FocusOn(e.camera)
	p.SetCursor(editCursor)
	e.log.Debug("editing", "level", lvl.Name, "size", fmt.Sprintf("%dx%d", e.world.Grid().Width(), e.world.Grid().Height()))
	return e, nil
}

// World implements scene.WorldHolder.
func (e *Editor) World() *world.World {
	return e.world
}

// Level returns the level being edited.
func (e *Editor) Level() *world.Level {
	return e.world.Level
}

// Selected returns the material painted by the left button.
func (e *Editor) Selected() world.Material {
	return e.selected
}

// Update pans the camera and paints while the left button is held.
func (e *Editor) Update(_ core.Platform, s *scene.State) {
	e.panWait -= s.Step
	if e.panWait <= 0 && (s.Input.Hor != 0 || s.Input.Ver != 0) {
		e.camera = e.camera.Add(core.Pt(s.Input.Hor*world.CellW, s.Input.Ver*world.CellH))
		e.panWait = panDelay
	}
	if s.Input.Mouse.Has(core.MouseLeft) {
		e.paint(s)
	}
}

func (e *Editor) paint(s *scene.State) {
	x, y, ok := world.Snap(s.MouseWorld())
	if !ok {
		return
	}
	e.world.Grid().Insert(x, y, e.selected)
}

// Logic applies the camera and the painting cursor.
func (e *Editor) Logic(p core.Platform, s *scene.State) {
	p.SetCursor(editCursor)
	s.FocusOn(e.camera)
}

// Draw renders the level in world space.
func (e *Editor) Draw(c *core.Canvas, s *scene.State) {
	g := e.world.Grid()
	widget.Grid(c, s.Assets, g)
	for _, p := range e.world.Level.Pickups {
		widget.Overlay(c, s.Assets, "common/pickup", p.X, p.Y)
	}
	start := e.world.Level.Start
	widget.Overlay(c, s.Assets, "common/farmer", start.X, start.Y)

	b := g.Bounds()
	c.DrawBox(core.NewRect(b.X-1, b.Y-1, b.W+2, b.H+2), core.ColorGray)
}

// DrawHUD renders the palette and the level info.
func (e *Editor) DrawHUD(c *core.Canvas, s *scene.State) {
	g := e.world.Grid()
	info := fmt.Sprintf("%s  %dx%d  %d pickups", e.world.Level.Name, g.Width(), g.Height(), len(e.world.Level.Pickups))
	c.DrawText(1, 0, info, core.ColorBrightWhite)

	y := s.Height - 1
	x := 1
	for i, m := range world.Palette {
		fg := core.ColorGray
		if m == e.selected {
			fg = core.ColorBrightWhite
		}
		x = c.DrawText(x, y, fmt.Sprintf("%d:", i+1), fg)
		sp := s.Assets.Get(widget.MaterialSprite(m))
		c.SetCell(x, y, sp.Cell())
		x = c.DrawText(x+1, y, m.String()+"  ", fg)
	}
	c.DrawText(x, y, "enter play · ctrl+s save · esc menu", core.ColorGray)

	if cx, cy, ok := world.Snap(s.MouseWorld()); ok {
		if _, in := g.Get(cx, cy); in {
			c.DrawText(1, 1, fmt.Sprintf("%d,%d", cx, cy), core.ColorGray)
		}
	}
}

// EventDown handles palette keys, saving, playing and clicks.
func (e *Editor) EventDown(_ core.Platform, s *scene.State, ev core.Event) {
	if ev.Kind == core.EventMouse {
		e.click(s, ev.Button)
		return
	}

	switch k := ev.Key; {
	case k >= core.Key1 && int(k-core.Key1) < len(world.Palette):
		e.selected = world.Palette[k-core.Key1]
	case k == core.KeyS && s.Input.Mods.Has(core.ModCtrl):
		if err := e.Save(); err != nil {
			e.log.Error("save failed", "err", err)
		}
	case k == 'f':
		if x, y, ok := world.Snap(s.MouseWorld()); ok {
			if _, in := e.world.Grid().Get(x, y); in {
				e.world.Level.Start = core.Pt(x, y)
			}
		}
	case k == core.KeyEnter:
		lvl := e.world.Level.Clone()
		if err := lvl.Validate(); err != nil {
			e.log.Warn("level not playable", "err", err)
			return
		}
		s.Switch(scene.ToPlay(lvl))
	case k == core.KeyEscape:
		s.Switch(scene.ToMenu())
	}
}

func (e *Editor) click(s *scene.State, b core.MouseButton) {
	x, y, ok := world.Snap(s.MouseWorld())
	if !ok {
		return
	}
	m, in := e.world.Grid().Get(x, y)
	if !in {
		return
	}
	switch b {
	case core.MouseLeft:
		e.world.Grid().Insert(x, y, e.selected)
	case core.MouseRight:
		e.selected = m
	case core.MouseMiddle:
		lvl := e.world.Level
		p := core.Pt(x, y)
		if i := slices.Index(lvl.Pickups, p); i >= 0 {
			lvl.Pickups = slices.Delete(lvl.Pickups, i, i+1)
		} else {
			lvl.Pickups = append(lvl.Pickups, p)
		}
	}
}

// Save writes the level to the file it came from, or DefaultPath.
func (e *Editor) Save() error {
	lvl := e.world.Level
	path := lvl.Path
	if path == "" {
		path = DefaultPath
	}
	if err := lvl.Validate(); err != nil {
		return err
	}
	if err := lvl.Save(path); err != nil {
		return err
	}
	e.log.Info("level saved", "path", path)
	return nil
}

// EventUp is unused.
func (e *Editor) EventUp(core.Platform, *scene.State, core.Event) {}
