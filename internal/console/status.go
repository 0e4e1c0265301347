package console

import "github.com/vovakirdan/kofarve/internal/core"

// Status tracks whether the console is open. While open it holds the
// cursor the game had when the console opened, and restores exactly that
// cursor on close.
type Status struct {
	open  bool
	saved core.Cursor
}

// IsOpen reports whether the console is open.
func (s *Status) IsOpen() bool {
	return s.open
}

// Open saves the platform cursor and opens the console. It reports false
// if the console was already open.
func (s *Status) Open(p core.Platform) bool {
	if s.open {
		return false
	}
	s.saved = p.Cursor()
	s.open = true
	return true
}

// Close restores the saved cursor and closes the console. It reports false
// if the console was already closed.
func (s *Status) Close(p core.Platform) bool {
	if !s.open {
		return false
	}
	p.SetCursor(s.saved)
	s.open = false
	s.saved = core.Cursor{}
	return true
}

// MouseMoved shows a plain arrow over the panel and the game's own cursor
// below it. The saved cursor is not changed.
func (s *Status) MouseMoved(p core.Platform, y, panelBottom int) {
	if !s.open {
		return
	}
	if y >= panelBottom {
		p.SetCursor(s.saved)
	} else {
		p.SetCursor(core.DefaultCursor)
	}
}
