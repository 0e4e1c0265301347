// Package world holds the farm grid and the level and campaign files that
// describe it.
package world

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/kofarve/internal/core"
)

// Material is what a grid cell is made of.
type Material uint8

const (
	Apples Material = iota
	Grains
	Lumber
	Ore
	Sheeps
)

// Palette lists every material in selection order.
var Palette = []Material{Apples, Grains, Lumber, Ore, Sheeps}

var materialNames = [...]string{"apples", "grains", "lumber", "ore", "sheeps"}

// materialCodes are the single letters used for grid rows in level files.
var materialCodes = [...]byte{'a', 'g', 'l', 'o', 's'}

func (m Material) String() string {
	if int(m) < len(materialNames) {
		return materialNames[m]
	}
	return fmt.Sprintf("material(%d)", uint8(m))
}

// Solid reports whether the farmer cannot walk onto the material.
func (m Material) Solid() bool {
	return m == Lumber
}

// Code returns the material's letter in level files.
func (m Material) Code() byte {
	if int(m) < len(materialCodes) {
		return materialCodes[m]
	}
	return '?'
}

// ParseMaterial accepts a material name or its level-file letter.
func ParseMaterial(s string) (Material, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range materialNames {
		if s == name || (len(s) == 1 && s[0] == materialCodes[i]) {
			return Material(i), nil
		}
	}
	return 0, fmt.Errorf("world: unknown material %q", s)
}

// Cell size of one grid square on the canvas. Terminal cells are roughly
// twice as tall as they are wide.
const (
	CellW = 2
	CellH = 1
)

// Grid is a rectangular field of materials stored row by row.
// New cells are always Apples.
type Grid struct {
	width int
	mats  []Material
}

// NewGrid creates a width x height grid of Apples. Dimensions are at least 1.
func NewGrid(width, height int) Grid {
	width = max(width, 1)
	height = max(height, 1)
	return Grid{
		width: width,
		mats:  make([]Material, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	if g.width == 0 {
		return 0
	}
	return len(g.mats) / g.width
}

// Widen adds a column on the right.
func (g *Grid) Widen() {
	h := g.Height()
	mats := make([]Material, 0, (g.width+1)*h)
	for y := 0; y < h; y++ {
		mats = append(mats, g.mats[y*g.width:(y+1)*g.width]...)
		mats = append(mats, Apples)
	}
	g.mats = mats
	g.width++
}

// Thin removes the rightmost column. A one-column grid is left alone.
func (g *Grid) Thin() {
	if g.width <= 1 {
		return
	}
	h := g.Height()
	mats := make([]Material, 0, (g.width-1)*h)
	for y := 0; y < h; y++ {
		mats = append(mats, g.mats[y*g.width:(y+1)*g.width-1]...)
	}
	g.mats = mats
	g.width--
}

// Heighten adds a row at the bottom.
func (g *Grid) Heighten() {
	g.mats = append(g.mats, make([]Material, g.width)...)
}

// Shorten removes the bottom row. A one-row grid is left alone.
func (g *Grid) Shorten() {
	if g.Height() <= 1 {
		return
	}
	g.mats = g.mats[:len(g.mats)-g.width]
}

func (g *Grid) idx(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= g.width || y >= g.Height() {
		return 0, false
	}
	return y*g.width + x, true
}

// Get returns the material at (x, y) and whether the cell exists.
func (g *Grid) Get(x, y int) (Material, bool) {
	i, ok := g.idx(x, y)
	if !ok {
		return 0, false
	}
	return g.mats[i], true
}

// Insert sets the material at (x, y). It reports false when the cell is
// outside the grid.
func (g *Grid) Insert(x, y int, m Material) bool {
	i, ok := g.idx(x, y)
	if !ok {
		return false
	}
	g.mats[i] = m
	return true
}

// Snap converts a world position in canvas cells to grid coordinates.
// Negative positions do not snap to any cell.
func Snap(p core.Point) (x, y int, ok bool) {
	if p.X < 0 || p.Y < 0 {
		return 0, 0, false
	}
	return p.X / CellW, p.Y / CellH, true
}

// CellOrigin returns the world position of the top-left of grid cell (x, y).
func CellOrigin(x, y int) core.Point {
	return core.Pt(x*CellW, y*CellH)
}

// Bounds returns the grid's extent in world cells.
func (g *Grid) Bounds() core.Rect {
	return core.NewRect(0, 0, g.width*CellW, g.Height()*CellH)
}

// Clone returns an independent copy.
func (g Grid) Clone() Grid {
	return Grid{width: g.width, mats: append([]Material(nil), g.mats...)}
}

// Rows returns the grid as one string of material letters per row.
func (g *Grid) Rows() []string {
	rows := make([]string, g.Height())
	for y := range rows {
		b := make([]byte, g.width)
		for x := 0; x < g.width; x++ {
			b[x] = g.mats[y*g.width+x].Code()
		}
		rows[y] = string(b)
	}
	return rows
}

// GridFromRows parses rows of material letters. All rows must be the same
// non-zero length.
func GridFromRows(rows []string) (Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Grid{}, fmt.Errorf("world: empty grid")
	}
	width := len(rows[0])
	g := Grid{width: width, mats: make([]Material, 0, width*len(rows))}
	for y, row := range rows {
		if len(row) != width {
			return Grid{}, fmt.Errorf("world: row %d has %d cells, expected %d", y, len(row), width)
		}
		for x := 0; x < len(row); x++ {
			m, err := ParseMaterial(row[x : x+1])
			if err != nil {
				return Grid{}, fmt.Errorf("world: row %d col %d: %w", y, x, err)
			}
			g.mats = append(g.mats, m)
		}
	}
	return g, nil
}
