package core

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Key identifies a physical key. Printable keys use their lower-case rune
// (KeyW == 'w'), so a key read from the terminal maps without a table.
// Non-printable keys live above the Unicode range.
type Key rune

const (
	KeyUnknown Key = 0

	KeyUp Key = unicode.MaxRune + iota
	KeyDown
	KeyLeft
	KeyRight
	KeyLShift
	KeyLCtrl
	KeyLAlt
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

// Printable keys the game refers to by name.
const (
	KeySpace Key = ' '
	KeyGrave Key = '`'
	KeyW     Key = 'w'
	KeyA     Key = 'a'
	KeyS     Key = 's'
	KeyD     Key = 'd'
	KeyQ     Key = 'q'
	Key1     Key = '1'
)

var keyNames = map[Key]string{
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyLShift:    "shift",
	KeyLCtrl:     "ctrl",
	KeyLAlt:      "alt",
	KeyEnter:     "enter",
	KeyEscape:    "esc",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyDelete:    "delete",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdown",
	KeySpace:     "space",
}

// String returns the key's name as used in configuration.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k > 0 && k <= unicode.MaxRune && unicode.IsPrint(rune(k)) {
		return string(rune(k))
	}
	return fmt.Sprintf("key(%d)", int32(k))
}

// ParseKey parses a key name ("up", "esc", "w", "`").
func ParseKey(name string) (Key, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == name {
			return k, nil
		}
	}
	switch name {
	case "escape":
		return KeyEscape, nil
	case "return":
		return KeyEnter, nil
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		if unicode.IsPrint(r) {
			return Key(r), nil
		}
	}
	return KeyUnknown, fmt.Errorf("core: unknown key %q", name)
}

// Modifiers is a set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether all modifiers in m are set.
func (ms Modifiers) Has(m Modifiers) bool {
	return ms&m == m
}

func modifierFor(k Key) Modifiers {
	switch k {
	case KeyLShift:
		return ModShift
	case KeyLCtrl:
		return ModCtrl
	case KeyLAlt:
		return ModAlt
	}
	return 0
}

// Combo is a key pressed while a set of modifiers is held, e.g. ctrl+q.
type Combo struct {
	Mods Modifiers
	Key  Key
}

// ParseCombo parses "ctrl+q", "alt+shift+x" or a bare key name.
func ParseCombo(s string) (Combo, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	var c Combo
	for i, p := range parts {
		if i == len(parts)-1 {
			k, err := ParseKey(p)
			if err != nil {
				return Combo{}, err
			}
			c.Key = k
			break
		}
		switch p {
		case "ctrl":
			c.Mods |= ModCtrl
		case "shift":
			c.Mods |= ModShift
		case "alt":
			c.Mods |= ModAlt
		default:
			return Combo{}, fmt.Errorf("core: unknown modifier %q in %q", p, s)
		}
	}
	return c, nil
}

// Matches reports whether k pressed with mods triggers the combo.
func (c Combo) Matches(mods Modifiers, k Key) bool {
	return k == c.Key && mods.Has(c.Mods)
}

func (c Combo) String() string {
	var sb strings.Builder
	if c.Mods.Has(ModCtrl) {
		sb.WriteString("ctrl+")
	}
	if c.Mods.Has(ModAlt) {
		sb.WriteString("alt+")
	}
	if c.Mods.Has(ModShift) {
		sb.WriteString("shift+")
	}
	sb.WriteString(c.Key.String())
	return sb.String()
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseLeft MouseButton = 1 << iota
	MouseMiddle
	MouseRight
)

func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "left"
	case MouseMiddle:
		return "middle"
	case MouseRight:
		return "right"
	default:
		return "unknown"
	}
}

// MouseButtons is the latch of currently pressed buttons.
type MouseButtons uint8

// Has reports whether button b is held.
func (bs MouseButtons) Has(b MouseButton) bool {
	return bs&MouseButtons(b) != 0
}

// EventKind tags an Event.
type EventKind uint8

const (
	EventKey EventKind = iota
	EventMouse
)

// Event is a key or mouse button transition delivered to a screen.
type Event struct {
	Kind   EventKind
	Key    Key
	Button MouseButton
}

// KeyEvent wraps a key in an Event.
func KeyEvent(k Key) Event {
	return Event{Kind: EventKey, Key: k}
}

// MouseEvent wraps a mouse button in an Event.
func MouseEvent(b MouseButton) Event {
	return Event{Kind: EventMouse, Button: b}
}

func (e Event) String() string {
	if e.Kind == EventMouse {
		return "mouse:" + e.Button.String()
	}
	return "key:" + e.Key.String()
}

// Input aggregates raw key and mouse transitions into movement axes,
// a mouse button latch and modifier flags.
//
// Hor is -1 for left, +1 for right; Ver is -1 for up, +1 for down. Opposing
// keys cancel. Repeated presses of an already held key and releases of a key
// that was never pressed are ignored, so the axes always reflect exactly the
// keys currently held.
type Input struct {
	Hor   int
	Ver   int
	Mouse MouseButtons
	Mods  Modifiers

	held map[Key]bool
}

// NewInput creates an empty aggregator.
func NewInput() *Input {
	return &Input{held: make(map[Key]bool)}
}

func axisFor(k Key) (hor, ver int) {
	switch k {
	case KeyW, KeyUp:
		return 0, -1
	case KeyS, KeyDown:
		return 0, 1
	case KeyA, KeyLeft:
		return -1, 0
	case KeyD, KeyRight:
		return 1, 0
	}
	return 0, 0
}

// KeyDown records a key press. It returns false when the press is a repeat,
// either flagged by the platform or detected because the key is already held.
func (in *Input) KeyDown(k Key, repeat bool) bool {
	if in.held == nil {
		in.held = make(map[Key]bool)
	}
	if repeat || in.held[k] {
		return false
	}
	in.held[k] = true

	h, v := axisFor(k)
	in.Hor += h
	in.Ver += v
	in.Mods |= modifierFor(k)
	return true
}

// KeyUp records a key release. It returns false if the key was not held.
func (in *Input) KeyUp(k Key) bool {
	if !in.held[k] {
		return false
	}
	delete(in.held, k)

	h, v := axisFor(k)
	in.Hor -= h
	in.Ver -= v
	in.Mods &^= modifierFor(k)
	return true
}

// MouseDown latches a mouse button.
func (in *Input) MouseDown(b MouseButton) {
	in.Mouse |= MouseButtons(b)
}

// MouseUp releases a mouse button.
func (in *Input) MouseUp(b MouseButton) {
	in.Mouse &^= MouseButtons(b)
}

// Held reports whether k is currently down.
func (in *Input) Held(k Key) bool {
	return in.held[k]
}

// Reset releases everything.
func (in *Input) Reset() {
	in.Hor, in.Ver = 0, 0
	in.Mouse = 0
	in.Mods = 0
	clear(in.held)
}
