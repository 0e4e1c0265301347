package tui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/kofarve/internal/core"
)

// Stroke is one terminal key message expressed as game input. Terminals
// report a key with its modifiers in a single message, so the modifiers are
// listed as keys to press around Key.
type Stroke struct {
	Mods []core.Key
	Key  core.Key
	// Text is the character the key types into the console, including
	// control characters such as '\r' and '\b'. Zero types nothing.
	Text rune
	// Paste is bracketed paste text. When set the other fields are empty.
	Paste string
}

var specialKeys = map[tea.KeyType]Stroke{
	tea.KeyUp:        {Key: core.KeyUp},
	tea.KeyDown:      {Key: core.KeyDown},
	tea.KeyLeft:      {Key: core.KeyLeft},
	tea.KeyRight:     {Key: core.KeyRight},
	tea.KeyShiftUp:   {Mods: []core.Key{core.KeyLShift}, Key: core.KeyUp},
	tea.KeyShiftDown: {Mods: []core.Key{core.KeyLShift}, Key: core.KeyDown},
	tea.KeyShiftLeft: {Mods: []core.Key{core.KeyLShift}, Key: core.KeyLeft},
	tea.KeyShiftRight: {
		Mods: []core.Key{core.KeyLShift},
		Key:  core.KeyRight,
	},
	tea.KeyCtrlUp:    {Mods: []core.Key{core.KeyLCtrl}, Key: core.KeyUp},
	tea.KeyCtrlDown:  {Mods: []core.Key{core.KeyLCtrl}, Key: core.KeyDown},
	tea.KeyCtrlLeft:  {Mods: []core.Key{core.KeyLCtrl}, Key: core.KeyLeft},
	tea.KeyCtrlRight: {Mods: []core.Key{core.KeyLCtrl}, Key: core.KeyRight},
	tea.KeyHome:      {Key: core.KeyHome},
	tea.KeyEnd:       {Key: core.KeyEnd},
	tea.KeyPgUp:      {Key: core.KeyPageUp},
	tea.KeyPgDown:    {Key: core.KeyPageDown},
	tea.KeySpace:     {Key: core.KeySpace, Text: ' '},
	tea.KeyEnter:     {Key: core.KeyEnter, Text: '\r'},
	tea.KeyTab:       {Key: core.KeyTab, Text: '\t'},
	tea.KeyShiftTab:  {Mods: []core.Key{core.KeyLShift}, Key: core.KeyTab, Text: '\t'},
	tea.KeyEsc:       {Key: core.KeyEscape, Text: 0x1b},
	tea.KeyBackspace: {Key: core.KeyBackspace, Text: '\b'},
	tea.KeyDelete:    {Key: core.KeyDelete, Text: 0x7f},
}

// Translate maps a Bubble Tea key message to a Stroke. It reports false
// for keys the game has no use for, such as function keys.
func Translate(msg tea.KeyMsg) (Stroke, bool) {
	if msg.Paste {
		return Stroke{Paste: string(msg.Runes)}, len(msg.Runes) > 0
	}

	var s Stroke
	switch {
	case msg.Type == tea.KeyRunes:
		if len(msg.Runes) != 1 {
			// Several runes in one message come from an input method.
			return Stroke{Paste: string(msg.Runes)}, len(msg.Runes) > 0
		}
		r := msg.Runes[0]
		if unicode.IsUpper(r) {
			s.Mods = []core.Key{core.KeyLShift}
		}
		s.Key = core.Key(unicode.ToLower(r))
		if unicode.IsPrint(r) {
			s.Text = r
		}
	case specialKeys[msg.Type].Key != core.KeyUnknown:
		s = specialKeys[msg.Type]
		s.Mods = append([]core.Key(nil), s.Mods...)
	case msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ:
		s.Mods = []core.Key{core.KeyLCtrl}
		s.Key = core.Key('a' + rune(msg.Type-tea.KeyCtrlA))
		s.Text = rune(msg.Type)
	default:
		return Stroke{}, false
	}

	if msg.Alt {
		s.Mods = append(s.Mods, core.KeyLAlt)
	}
	return s, true
}

// Button maps a Bubble Tea mouse button. Wheel and extra buttons report
// false.
func Button(b tea.MouseButton) (core.MouseButton, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return core.MouseLeft, true
	case tea.MouseButtonMiddle:
		return core.MouseMiddle, true
	case tea.MouseButtonRight:
		return core.MouseRight, true
	}
	return 0, false
}
