package game

import "github.com/vovakirdan/kofarve/internal/core"

// Route is where an input transition goes.
type Route uint8

const (
	// RouteScreen delivers the event to the active screen.
	RouteScreen Route = iota
	// RouteQuit terminates the game.
	RouteQuit
	// RouteConsole delivers the event to the open console.
	RouteConsole
	// RouteToggle opens the console.
	RouteToggle
	// RouteDrop discards the event; the aggregator has already seen it.
	RouteDrop
)

var routeNames = [...]string{"screen", "quit", "console", "toggle", "drop"}

func (r Route) String() string {
	if int(r) < len(routeNames) {
		return routeNames[r]
	}
	return "unknown"
}

// Bindings are the keys the Master intercepts.
type Bindings struct {
	Toggle core.Key   // opens the console while it is closed
	Quit   core.Combo // terminates from any state
}

// DefaultBindings returns backtick and ctrl+q.
func DefaultBindings() Bindings {
	return Bindings{
		Toggle: core.KeyGrave,
		Quit:   core.Combo{Mods: core.ModCtrl, Key: core.KeyQ},
	}
}

// Stimulus is one input transition after the aggregator has seen it.
type Stimulus struct {
	Event core.Event
	Down  bool
	// Fresh is false for repeated presses and for releases of keys that
	// were not held.
	Fresh       bool
	Mods        core.Modifiers
	ConsoleOpen bool
}

// Decide picks the route of s. Priority, highest first:
//
//	quit combo > console open > toggle key > screen
func Decide(s Stimulus, b Bindings) Route {
	isKey := s.Event.Kind == core.EventKey

	if isKey && s.Down && s.Fresh && b.Quit.Matches(s.Mods, s.Event.Key) {
		return RouteQuit
	}
	if s.ConsoleOpen {
		return RouteConsole
	}
	if isKey && s.Down && s.Fresh && s.Event.Key == b.Toggle {
		return RouteToggle
	}
	if isKey && !s.Fresh {
		return RouteDrop
	}
	return RouteScreen
}
