// Package scene defines the contract between the Master loop and the
// screens it runs: the Screen interface, the shared State every screen
// mutates, and the Transition a screen uses to ask for its successor.
package scene

import (
	"fmt"

	"github.com/vovakirdan/kofarve/internal/world"
)

// Kind names one of the mutually exclusive screens.
type Kind uint8

const (
	KindMenu Kind = iota
	KindPlay
	KindEditor
	KindWin
	KindLose
)

var kindNames = [...]string{"menu", "play", "editor", "win", "lose"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Kinds lists every screen kind.
func Kinds() []Kind {
	return []Kind{KindMenu, KindPlay, KindEditor, KindWin, KindLose}
}

// Loadout is what a farmer carries from one level to the next.
type Loadout struct {
	Health int
	Weapon string
}

// DefaultLoadout is a fresh farmer.
var DefaultLoadout = Loadout{Health: 100, Weapon: "pitchfork"}

// Transition asks the Master to replace the active screen. Level is used by
// Play and Editor, Loadout by Play, Stats by Win and Lose.
type Transition struct {
	Kind    Kind
	Level   *world.Level
	Loadout *Loadout
	Stats   world.Statistics
}

// ToMenu returns to the main menu.
func ToMenu() Transition {
	return Transition{Kind: KindMenu}
}

// ToEditor opens the editor on lvl, or on a new level when lvl is nil.
func ToEditor(lvl *world.Level) Transition {
	return Transition{Kind: KindEditor, Level: lvl}
}

// ToPlay starts lvl with a fresh farmer.
func ToPlay(lvl *world.Level) Transition {
	return Transition{Kind: KindPlay, Level: lvl}
}

// ToPlayWith starts lvl with the farmer carried over from a previous level.
func ToPlayWith(lvl *world.Level, l Loadout) Transition {
	return Transition{Kind: KindPlay, Level: lvl, Loadout: &l}
}

// ToWin shows the victory screen.
func ToWin(stats world.Statistics) Transition {
	return Transition{Kind: KindWin, Stats: stats}
}

// ToLose shows the defeat screen.
func ToLose(stats world.Statistics) Transition {
	return Transition{Kind: KindLose, Stats: stats}
}

func (t Transition) String() string {
	switch {
	case t.Level != nil:
		return t.Kind.String() + "(" + t.Level.Name + ")"
	case t.Kind == KindWin || t.Kind == KindLose:
		return t.Kind.String() + "(" + t.Stats.Level + ")"
	default:
		return t.Kind.String()
	}
}
