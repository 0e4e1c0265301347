package core

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Cell is a single character position on the canvas.
// A zero Rune marks the trailing half of a double-width character.
type Cell struct {
	Rune rune
	Fg   Color
	Bg   Color
}

var blank = Cell{Rune: ' '}

// Canvas is a 2D cell buffer that screens draw into each frame.
// It decouples drawing from the terminal: screens and the console place runes
// and colours, and the platform turns the finished buffer into output.
//
// Drawing is translated by the current offset, which is how the camera
// transform is applied to world drawing. PushOffset/PopOffset nest.
type Canvas struct {
	width  int
	height int
	cells  [][]Cell
	origin Point
	stack  []Point
}

// NewCanvas creates a cleared canvas with the given dimensions.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		width:  width,
		height: height,
	}
	c.allocate()
	c.Clear()
	return c
}

func (c *Canvas) allocate() {
	c.cells = make([][]Cell, c.height)
	for y := range c.cells {
		c.cells[y] = make([]Cell, c.width)
	}
}

// Width returns the canvas width in cells.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in cells.
func (c *Canvas) Height() int {
	return c.height
}

// Bounds returns the canvas rectangle in screen space.
func (c *Canvas) Bounds() Rect {
	return NewRect(0, 0, c.width, c.height)
}

// Resize changes the canvas dimensions. Content is discarded.
func (c *Canvas) Resize(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	c.width = width
	c.height = height
	c.allocate()
	c.Clear()
}

// Clear fills the canvas with blank cells and resets the offset stack.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = blank
		}
	}
	c.origin = Point{}
	c.stack = c.stack[:0]
}

// PushOffset translates all following drawing by p, on top of any offset
// already in effect.
func (c *Canvas) PushOffset(p Point) {
	c.stack = append(c.stack, c.origin)
	c.origin = c.origin.Add(p)
}

// PopOffset restores the offset in effect before the matching PushOffset.
func (c *Canvas) PopOffset() {
	if len(c.stack) == 0 {
		c.origin = Point{}
		return
	}
	c.origin = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// Offset returns the translation currently applied to drawing.
func (c *Canvas) Offset() Point {
	return c.origin
}

// SetCell places a cell at the given (translated) position.
// Out-of-bounds coordinates are silently ignored.
func (c *Canvas) SetCell(x, y int, cell Cell) {
	x += c.origin.X
	y += c.origin.Y
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = cell
}

// Set places a rune with the given foreground, keeping the cell background.
func (c *Canvas) Set(x, y int, r rune, fg Color) {
	sx, sy := x+c.origin.X, y+c.origin.Y
	if sx < 0 || sx >= c.width || sy < 0 || sy >= c.height {
		return
	}
	bg := c.cells[sy][sx].Bg
	c.cells[sy][sx] = Cell{Rune: r, Fg: fg, Bg: bg}
}

// Cell returns the cell at an untranslated screen position.
// Returns a blank cell for out-of-bounds coordinates.
func (c *Canvas) Cell(x, y int) Cell {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return blank
	}
	return c.cells[y][x]
}

// Get returns the rune at an untranslated screen position.
func (c *Canvas) Get(x, y int) rune {
	return c.Cell(x, y).Rune
}

// DrawText writes a string horizontally starting at (x, y) and returns the
// number of columns it occupied. Double-width runes take two cells.
// Characters beyond the canvas are clipped.
func (c *Canvas) DrawText(x, y int, text string, fg Color) int {
	col := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.Set(x+col, y, r, fg)
		if w == 2 {
			c.Set(x+col+1, y, 0, fg)
		}
		col += w
	}
	return col
}

// DrawTextCentered draws text centered horizontally at the given row.
func (c *Canvas) DrawTextCentered(y int, text string, fg Color) {
	x := (c.width - runewidth.StringWidth(text)) / 2
	c.DrawText(x-c.origin.X, y, text, fg)
}

// DrawRect fills a rectangular area with the given rune.
func (c *Canvas) DrawRect(r Rect, fill rune, fg Color) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			c.Set(x, y, fill, fg)
		}
	}
}

// DrawBox draws a box outline using box-drawing characters.
func (c *Canvas) DrawBox(r Rect, fg Color) {
	if r.W < 2 || r.H < 2 {
		return
	}
	c.Set(r.X, r.Y, '┌', fg)
	c.Set(r.Right()-1, r.Y, '┐', fg)
	c.Set(r.X, r.Bottom()-1, '└', fg)
	c.Set(r.Right()-1, r.Bottom()-1, '┘', fg)

	for x := r.X + 1; x < r.Right()-1; x++ {
		c.Set(x, r.Y, '─', fg)
		c.Set(x, r.Bottom()-1, '─', fg)
	}
	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		c.Set(r.X, y, '│', fg)
		c.Set(r.Right()-1, y, '│', fg)
	}
}

// DrawHLine draws a horizontal line from (x, y) with the given length.
func (c *Canvas) DrawHLine(x, y, length int, r rune, fg Color) {
	for i := 0; i < length; i++ {
		c.Set(x+i, y, r, fg)
	}
}

// Shade dims an area in place: the existing runes stay visible but are
// recoloured onto a dark background, which is how a translucent panel
// looks in a terminal.
func (c *Canvas) Shade(r Rect) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			sx, sy := x+c.origin.X, y+c.origin.Y
			if sx < 0 || sx >= c.width || sy < 0 || sy >= c.height {
				continue
			}
			cell := &c.cells[sy][sx]
			cell.Fg = ColorGray
			cell.Bg = ColorBlack
		}
	}
}

// String converts the canvas to plain text, one line per row.
func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.width*c.height + c.height)

	for y := 0; y < c.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(c.Row(y))
	}
	return sb.String()
}

// Row returns the plain text of the given row.
func (c *Canvas) Row(y int) string {
	if y < 0 || y >= c.height {
		return strings.Repeat(" ", c.width)
	}
	var sb strings.Builder
	for _, cell := range c.cells[y] {
		if cell.Rune == 0 {
			continue
		}
		sb.WriteRune(cell.Rune)
	}
	return sb.String()
}
