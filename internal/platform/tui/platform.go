package tui

import (
	"errors"

	"github.com/atotto/clipboard"

	"github.com/vovakirdan/kofarve/internal/core"
)

// ErrNoClipboard is returned by Clipboard when the session cannot reach the
// system clipboard.
var ErrNoClipboard = errors.New("tui: clipboard is not available")

// Platform is the terminal implementation of core.Platform. The mouse
// cursor is a glyph painted by the Model, so the cursor affordance is only
// remembered here.
type Platform struct {
	cursor  core.Cursor
	remote  bool
	quit    bool
	readAll func() (string, error)
}

// NewPlatform creates a platform for a local terminal.
func NewPlatform() *Platform {
	return &Platform{cursor: core.DefaultCursor, readAll: clipboard.ReadAll}
}

// NewRemotePlatform creates a platform for an SSH session. The server's
// clipboard belongs to someone else, so pasting goes through bracketed
// paste only.
func NewRemotePlatform() *Platform {
	return &Platform{cursor: core.DefaultCursor, remote: true}
}

// Cursor returns the live cursor affordance.
func (p *Platform) Cursor() core.Cursor {
	return p.cursor
}

// SetCursor changes the live cursor affordance.
func (p *Platform) SetCursor(c core.Cursor) {
	p.cursor = c
}

// Clipboard reads the system clipboard.
func (p *Platform) Clipboard() (string, error) {
	if p.remote || p.readAll == nil || clipboard.Unsupported {
		return "", ErrNoClipboard
	}
	return p.readAll()
}

// Quit marks the platform as finished; the Model stops the program on the
// next message.
func (p *Platform) Quit() {
	p.quit = true
}

// Quitting reports whether Quit was called.
func (p *Platform) Quitting() bool {
	return p.quit
}
