package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/kofarve/internal/core"
)

// ansiCodes maps core.Color to ANSI 256 colour codes.
var ansiCodes = map[core.Color]string{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
	core.ColorBlack:         "16",
	core.ColorBrown:         "94",
}

type colorPair struct {
	fg, bg core.Color
}

// Painter converts a canvas to styled terminal output. SSH sessions use a
// renderer bound to the session so colours match the client terminal.
type Painter struct {
	renderer *lipgloss.Renderer
	styles   map[colorPair]lipgloss.Style
}

// NewPainter creates a painter. A nil renderer uses the process default.
func NewPainter(r *lipgloss.Renderer) *Painter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Painter{renderer: r, styles: make(map[colorPair]lipgloss.Style)}
}

func (p *Painter) style(pair colorPair) lipgloss.Style {
	if s, ok := p.styles[pair]; ok {
		return s
	}
	s := p.renderer.NewStyle()
	if code, ok := ansiCodes[pair.fg]; ok {
		s = s.Foreground(lipgloss.Color(code))
	}
	if code, ok := ansiCodes[pair.bg]; ok {
		s = s.Background(lipgloss.Color(code))
	}
	p.styles[pair] = s
	return s
}

// Render converts the canvas to a styled string. Adjacent cells with the
// same colours share one style run to keep escape sequences short.
func (p *Painter) Render(c *core.Canvas) string {
	var sb strings.Builder
	sb.Grow(c.Width()*c.Height()*2 + c.Height())

	var run strings.Builder
	for y := range c.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		x := 0
		for x < c.Width() {
			first := c.Cell(x, y)
			pair := colorPair{first.Fg, first.Bg}

			run.Reset()
			for x < c.Width() {
				cell := c.Cell(x, y)
				if (colorPair{cell.Fg, cell.Bg}) != pair {
					break
				}
				if cell.Rune != 0 {
					run.WriteRune(cell.Rune)
				}
				x++
			}
			if run.Len() > 0 {
				sb.WriteString(p.style(pair).Render(run.String()))
			}
		}
	}
	return sb.String()
}
