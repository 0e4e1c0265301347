// Package menu is the title screen.
package menu

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/registry"
	"github.com/vovakirdan/kofarve/internal/scene"
	"github.com/vovakirdan/kofarve/internal/screens/widget"
)

const title = "K O F A R V E"

type action uint8

const (
	actionPlay action = iota
	actionEditor
	actionQuit
)

var labels = [...]string{"Play", "Editor", "Quit"}

// Menu shows the title and the Play, Editor and Quit buttons.
type Menu struct {
	scene.Base

	buttons  []widget.Button
	selected int
	log      *log.Logger
}

func init() {
	registry.Register(scene.KindMenu, New)
}

// New builds the menu and starts the music.
func New(_ core.Platform, s *scene.State, _ scene.Transition) (scene.Screen, error) {
	if err := s.Assets.Require("ui/button", "ui/button_hover"); err != nil {
		return nil, err
	}
	m := &Menu{log: s.Logger("menu")}
	m.layout(s.Width, s.Height)

	s.Offset = core.Point{}
	if err := s.Audio.Play("music"); err != nil {
		m.log.Warn("music unavailable", "err", err)
	}
	return m, nil
}

func (m *Menu) layout(width, height int) {
	top := max(height/2-1, 3)
	m.buttons = m.buttons[:0]
	for i, label := range labels {
		m.buttons = append(m.buttons, widget.NewButton(label, width/2, top+i*2))
	}
}

// Logic follows the viewport size and hovers the button under the mouse.
func (m *Menu) Logic(_ core.Platform, s *scene.State) {
	m.layout(s.Width, s.Height)
	for i, b := range m.buttons {
		if b.Contains(s.Mouse) {
			m.selected = i
		}
	}
}

// DrawHUD draws the whole menu in screen space.
func (m *Menu) DrawHUD(c *core.Canvas, s *scene.State) {
	y := max(s.Height/2-5, 0)
	c.DrawTextCentered(y, title, core.ColorBrightGreen)
	c.DrawTextCentered(y+1, "a farm in your terminal", core.ColorGray)

	for i, b := range m.buttons {
		b.Draw(c, s.Assets, i == m.selected)
	}
	c.DrawTextCentered(s.Height-1, "↑/↓ select · enter start · ` console", core.ColorGray)
}

// EventDown moves the selection and activates buttons.
func (m *Menu) EventDown(p core.Platform, s *scene.State, e core.Event) {
	switch e.Kind {
	case core.EventKey:
		switch e.Key {
		case core.KeyUp, core.KeyW:
			m.selected = (m.selected + len(m.buttons) - 1) % len(m.buttons)
		case core.KeyDown, core.KeyS, core.KeyTab:
			m.selected = (m.selected + 1) % len(m.buttons)
		case core.KeyEnter, core.KeySpace:
			m.activate(p, s, action(m.selected))
		}
	case core.EventMouse:
		if e.Button != core.MouseLeft {
			return
		}
		for i, b := range m.buttons {
			if b.Contains(s.Mouse) {
				m.selected = i
				m.activate(p, s, action(i))
			}
		}
	}
}

func (m *Menu) activate(p core.Platform, s *scene.State, a action) {
	if err := s.Audio.Play("click"); err != nil {
		m.log.Debug("click sound failed", "err", err)
	}
	switch a {
	case actionPlay:
		lvl, err := s.Content.Start()
		if err != nil {
			m.log.Error("cannot start content", "content", s.Content.Describe(), "err", err)
			return
		}
		m.log.Info("starting", "level", lvl.Name)
		s.Switch(scene.ToPlay(lvl))
	case actionEditor:
		s.Switch(scene.ToEditor(nil))
	case actionQuit:
		p.Quit()
	}
}
