package console

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/vovakirdan/kofarve/internal/core"
)

// Draw overlays the console panel on the top rows of the canvas: the game
// shows through dimmed, history lines are wrapped at the panel width and
// the prompt sits on the last row. Wrapping follows the same layout as the
// history cap, so the newest line is always drawn whole.
func (c *Console) Draw(cv *core.Canvas) {
	width := min(c.opts.Width, cv.Width())
	panel := core.NewRect(0, 0, width, c.opts.Height)
	cv.Shade(panel)

	y := 0
	for _, l := range c.history {
		top := y
		y += l.layout(c.opts.Width, func(x, row int, r rune, fg core.Color) {
			if top+row >= c.PromptRow() {
				return
			}
			if fg == core.ColorDefault {
				fg = core.ColorWhite
			}
			cv.Set(x, top+row, r, fg)
		})
	}

	row := c.PromptRow()
	cv.DrawHLine(0, row, width, ' ', core.ColorDefault)
	text := c.opts.Prompt + string(c.prompt)
	// Keep the end of a long prompt visible.
	for runewidth.StringWidth(text)+1 > width && len(text) > 0 {
		_, size := utf8.DecodeRuneInString(text)
		text = text[size:]
	}
	x := cv.DrawText(0, row, text, core.ColorBrightWhite)
	cv.Set(x, row, '█', core.ColorBrightWhite)
}
