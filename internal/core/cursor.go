package core

// CursorIcon is the visual shape of the mouse cursor.
type CursorIcon uint8

const (
	CursorArrow CursorIcon = iota
	CursorCrosshair
	CursorHand
	CursorText
	CursorMove
)

func (i CursorIcon) String() string {
	switch i {
	case CursorArrow:
		return "arrow"
	case CursorCrosshair:
		return "crosshair"
	case CursorHand:
		return "hand"
	case CursorText:
		return "text"
	case CursorMove:
		return "move"
	default:
		return "unknown"
	}
}

// Cursor is the cursor affordance: an icon and whether it is hidden.
type Cursor struct {
	Icon   CursorIcon
	Hidden bool
}

// DefaultCursor is a visible arrow.
var DefaultCursor = Cursor{Icon: CursorArrow}

// Platform is what the game needs from the host frontend.
// The terminal frontend and test fakes implement it.
type Platform interface {
	// Cursor returns the live cursor affordance.
	Cursor() Cursor
	// SetCursor changes the live cursor affordance.
	SetCursor(Cursor)
	// Clipboard returns the system clipboard contents.
	Clipboard() (string, error)
	// Quit asks the frontend to stop after the current frame.
	Quit()
}
