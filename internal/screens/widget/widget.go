// Package widget holds drawing helpers shared by the screens.
package widget

import (
	"github.com/mattn/go-runewidth"

	"github.com/vovakirdan/kofarve/internal/assets"
	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/world"
)

// MaterialSprite is the atlas name of a material.
func MaterialSprite(m world.Material) string {
	return "materials/" + m.String()
}

// MaterialSprites lists the atlas names of every material.
func MaterialSprites() []string {
	names := make([]string, len(world.Palette))
	for i, m := range world.Palette {
		names[i] = MaterialSprite(m)
	}
	return names
}

// Sprite draws a named sprite at p.
func Sprite(c *core.Canvas, a *assets.Atlas, name string, p core.Point) {
	c.SetCell(p.X, p.Y, a.Get(name).Cell())
}

// Tile fills one grid cell with a sprite: the glyph on the first column,
// background only on the rest.
func Tile(c *core.Canvas, a *assets.Atlas, name string, x, y int) {
	s := a.Get(name)
	o := world.CellOrigin(x, y)
	for dy := range world.CellH {
		for dx := range world.CellW {
			cell := core.Cell{Rune: ' ', Fg: s.Fg, Bg: s.Bg}
			if dx == 0 && dy == 0 {
				cell.Rune = s.Rune
			}
			c.SetCell(o.X+dx, o.Y+dy, cell)
		}
	}
}

// Overlay draws a sprite on a grid cell, keeping the cell's background.
func Overlay(c *core.Canvas, a *assets.Atlas, name string, x, y int) {
	s := a.Get(name)
	o := world.CellOrigin(x, y)
	c.Set(o.X, o.Y, s.Rune, s.Fg)
}

// Grid draws every cell of g in world space.
func Grid(c *core.Canvas, a *assets.Atlas, g *world.Grid) {
	for y := range g.Height() {
		for x := range g.Width() {
			m, _ := g.Get(x, y)
			Tile(c, a, MaterialSprite(m), x, y)
		}
	}
}

// Bar draws a horizontal gauge filled to value/maximum.
func Bar(c *core.Canvas, a *assets.Atlas, full string, x, y, width, value, maximum int) {
	filled := 0
	if maximum > 0 {
		filled = core.Clamp(value*width/maximum, 0, width)
	}
	on, off := a.Get(full), a.Get("ui/bar_empty")
	for i := range width {
		if i < filled {
			c.Set(x+i, y, on.Rune, on.Fg)
		} else {
			c.Set(x+i, y, off.Rune, off.Fg)
		}
	}
}

// Button is a clickable label in screen space.
type Button struct {
	Label string
	Rect  core.Rect
}

// NewButton sizes a button around its label, centred on x.
func NewButton(label string, centerX, y int) Button {
	w := runewidth.StringWidth(label) + 4
	return Button{Label: label, Rect: core.NewRect(centerX-w/2, y, w, 1)}
}

// Contains reports whether p is on the button.
func (b Button) Contains(p core.Point) bool {
	return b.Rect.Contains(p)
}

// Draw renders the button, brighter when hovered.
func (b Button) Draw(c *core.Canvas, a *assets.Atlas, hover bool) {
	name := "ui/button"
	text := core.ColorWhite
	if hover {
		name = "ui/button_hover"
		text = core.ColorBrightWhite
	}
	s := a.Get(name)
	for x := b.Rect.X; x < b.Rect.Right(); x++ {
		c.SetCell(x, b.Rect.Y, core.Cell{Rune: ' ', Bg: s.Fg})
	}
	lw := runewidth.StringWidth(b.Label)
	lx := b.Rect.X + (b.Rect.W-lw)/2
	for _, r := range b.Label {
		c.SetCell(lx, b.Rect.Y, core.Cell{Rune: r, Fg: text, Bg: s.Fg})
		lx += runewidth.RuneWidth(r)
	}
}
