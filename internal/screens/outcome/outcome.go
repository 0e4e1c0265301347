// Package outcome shows the result of a run. The same screen serves
// victories and defeats; it stores the run and offers to continue.
package outcome

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/registry"
	"github.com/vovakirdan/kofarve/internal/scene"
	"github.com/vovakirdan/kofarve/internal/screens/widget"
	"github.com/vovakirdan/kofarve/internal/world"
)

const saveTimeout = 2 * time.Second

// Outcome is the Win or Lose screen.
type Outcome struct {
	scene.Base

	won    bool
	stats  world.Statistics
	saved  bool
	button widget.Button

	log *log.Logger
}

func init() {
	registry.Register(scene.KindWin, New)
	registry.Register(scene.KindLose, New)
}

// New builds the screen for t.Stats and stores the run. A failed save is
// logged, not fatal.
func New(_ core.Platform, s *scene.State, t scene.Transition) (scene.Screen, error) {
	if err := s.Assets.Require("ui/button", "ui/button_hover"); err != nil {
		return nil, err
	}
	o := &Outcome{
		won:   t.Kind == scene.KindWin,
		stats: t.Stats,
		log:   s.Logger(t.Kind.String()),
	}
	o.stats.Won = o.won
	o.stats.PlayedAt = time.Now()
	o.layout(s)

	s.Offset = core.Point{}
	sound := "lose"
	if o.won {
		sound = "win"
	}
	if err := s.Audio.Play(sound); err != nil {
		o.log.Debug("sound failed", "sound", sound, "err", err)
	}

	if s.Runs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := s.Runs.SaveRun(ctx, o.stats); err != nil {
			o.log.Warn("run not saved", "err", err)
		} else {
			o.saved = true
		}
	}
	o.log.Info("run finished", "level", o.stats.Level, "score", o.stats.Score(), "won", o.won)
	return o, nil
}

// Stats returns the statistics shown.
func (o *Outcome) Stats() world.Statistics {
	return o.stats
}

// Logic lays out the continue button.
func (o *Outcome) Logic(_ core.Platform, s *scene.State) {
	o.layout(s)
}

func (o *Outcome) layout(s *scene.State) {
	o.button = widget.NewButton("Continue", s.Width/2, s.Height/2+4)
}

// DrawHUD draws the result.
func (o *Outcome) DrawHUD(c *core.Canvas, s *scene.State) {
	y := max(s.Height/2-4, 0)
	if o.won {
		c.DrawTextCentered(y, "HARVEST COMPLETE", core.ColorBrightGreen)
	} else {
		c.DrawTextCentered(y, "THE FIELD WINS", core.ColorBrightRed)
	}
	st := o.stats
	c.DrawTextCentered(y+2, st.Level, core.ColorBrightWhite)
	c.DrawTextCentered(y+3, fmt.Sprintf("pickups %d/%d   health %d   time %s", st.Collected, st.Total, st.Health, st.Elapsed.Round(time.Second)), core.ColorWhite)
	c.DrawTextCentered(y+4, fmt.Sprintf("score %d", st.Score()), core.ColorBrightYellow)
	if o.saved {
		c.DrawTextCentered(y+5, "run saved", core.ColorGray)
	}
	o.button.Draw(c, s.Assets, o.button.Contains(s.Mouse))
}

// EventDown continues on enter, space or a click on the button.
func (o *Outcome) EventDown(_ core.Platform, s *scene.State, e core.Event) {
	switch {
	case e.Kind == core.EventKey && (e.Key == core.KeyEnter || e.Key == core.KeySpace || e.Key == core.KeyEscape):
		o.next(s)
	case e.Kind == core.EventMouse && e.Button == core.MouseLeft && o.button.Contains(s.Mouse):
		o.next(s)
	}
}

// next plays the following content level after a win, carrying the
// farmer's health, and returns to the menu otherwise.
func (o *Outcome) next(s *scene.State) {
	if !o.won {
		s.Switch(scene.ToMenu())
		return
	}
	lvl, ok, err := s.Content.Next()
	switch {
	case err != nil:
		o.log.Error("cannot load next level", "err", err)
		s.Switch(scene.ToMenu())
	case !ok:
		o.log.Info("content finished", "content", s.Content.Describe())
		s.Switch(scene.ToMenu())
	default:
		s.Switch(scene.ToPlayWith(lvl, scene.Loadout{
			Health: max(o.stats.Health, 1),
			Weapon: scene.DefaultLoadout.Weapon,
		}))
	}
}
