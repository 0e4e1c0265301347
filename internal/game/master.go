// Package game drives the frame loop. The Master owns the active screen,
// the shared state and the console; the frontend calls it for every frame
// and every input transition.
package game

import (
	"fmt"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kofarve/internal/console"
	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/logcap"
	"github.com/vovakirdan/kofarve/internal/registry"
	"github.com/vovakirdan/kofarve/internal/scene"
	"github.com/vovakirdan/kofarve/internal/world"
)

// Control characters understood by TextInput.
const (
	ctrlBackspace = '\b'
	ctrlDelete    = 0x7f
	ctrlEscape    = 0x1b
	ctrlTab       = '\t'
	ctrlPaste     = 0x16 // ctrl+v
)

// Options configures a Master.
type Options struct {
	Runtime  core.RuntimeConfig
	Console  console.Options
	Bindings Bindings
	// Registry builds screens. Nil uses registry.Default.
	Registry *registry.Registry
}

// Master owns the active screen and routes everything to it.
// It is driven from a single goroutine.
type Master struct {
	platform core.Platform
	state    *scene.State
	registry *registry.Registry
	bindings Bindings
	clock    *Clock
	log      *log.Logger

	screen scene.Screen
	kind   scene.Kind

	console *console.Console
	status  console.Status

	quitting bool
}

// New creates a Master and builds the menu screen. It fails if any screen
// kind has no factory or if the menu cannot be built.
func New(p core.Platform, s *scene.State, opts Options) (*Master, error) {
	reg := opts.Registry
	if reg == nil {
		reg = registry.Default
	}
	if missing := reg.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("game: no factory for screens %v", missing)
	}

	rt := opts.Runtime
	if rt.TickRate <= 0 {
		rt.TickRate = core.DefaultConfig().TickRate
	}
	s.Step = rt.Step()
	if s.Width == 0 && s.Height == 0 {
		s.Width, s.Height = rt.ScreenW, rt.ScreenH
	}
	if opts.Console.Width <= 0 {
		opts.Console.Width = s.Width
	}
	if opts.Bindings == (Bindings{}) {
		opts.Bindings = DefaultBindings()
	}

	m := &Master{
		platform: p,
		state:    s,
		registry: reg,
		bindings: opts.Bindings,
		clock:    NewClock(rt.Step()),
		log:      s.Logger("game"),
		console:  console.New(s.Logger("console"), opts.Console),
	}
	m.registerVerbs()

	if err := m.enter(scene.ToMenu()); err != nil {
		return nil, err
	}
	return m, nil
}

// enter builds the screen for t and makes it active. The old screen stays
// active if construction fails.
func (m *Master) enter(t scene.Transition) error {
	m.platform.SetCursor(core.DefaultCursor)

	scr, err := m.registry.Create(m.platform, m.state, t)
	if err != nil {
		return fmt.Errorf("game: building %s screen: %w", t.Kind, err)
	}
	m.log.Debug("screen changed", "from", m.kind, "to", t.String(), "tick", m.clock.Ticks())
	m.screen, m.kind = scr, t.Kind

	if m.status.IsOpen() {
		m.status.MouseMoved(m.platform, m.state.Mouse.Y, m.console.Bottom())
	}
	return nil
}

// Frame advances the game by elapsed wall time. A pending transition is
// applied first. While the console is open the simulation is frozen.
// The returned error is fatal.
func (m *Master) Frame(elapsed time.Duration) error {
	if t, ok := m.state.TakePending(); ok {
		if err := m.enter(t); err != nil {
			return err
		}
	}

	if m.status.IsOpen() {
		m.clock.Freeze(elapsed)
	} else {
		for range m.clock.Advance(elapsed) {
			m.screen.Update(m.platform, m.state)
		}
		m.screen.Logic(m.platform, m.state)
	}

	m.flush()
	return nil
}

// flush moves captured log records into the console history.
func (m *Master) flush() {
	if c := m.state.Capture(); c != nil {
		if frags := c.Drain(); len(frags) > 0 {
			m.console.Append(frags...)
		}
	}
}

// Draw renders the frame: the world with the camera offset, the HUD, then
// the console panel when open.
func (m *Master) Draw(cv *core.Canvas) {
	cv.Clear()
	cv.PushOffset(m.state.Offset)
	m.screen.Draw(cv, m.state)
	cv.PopOffset()
	m.screen.DrawHUD(cv, m.state)

	if m.status.IsOpen() {
		m.console.Draw(cv)
	}
}

// KeyDown handles a key press. repeat is the platform's auto-repeat flag.
func (m *Master) KeyDown(k core.Key, repeat bool) {
	fresh := m.state.Input.KeyDown(k, repeat)
	m.route(core.KeyEvent(k), true, fresh)
}

// KeyUp handles a key release.
func (m *Master) KeyUp(k core.Key) {
	fresh := m.state.Input.KeyUp(k)
	m.route(core.KeyEvent(k), false, fresh)
}

// MouseDown handles a mouse button press.
func (m *Master) MouseDown(b core.MouseButton) {
	m.state.Input.MouseDown(b)
	m.route(core.MouseEvent(b), true, true)
}

// MouseUp handles a mouse button release.
func (m *Master) MouseUp(b core.MouseButton) {
	m.state.Input.MouseUp(b)
	m.route(core.MouseEvent(b), false, true)
}

// MouseMoved records the pointer position in screen cells.
func (m *Master) MouseMoved(p core.Point) {
	m.state.Mouse = p
	m.status.MouseMoved(m.platform, p.Y, m.console.Bottom())
}

func (m *Master) route(e core.Event, down, fresh bool) {
	r := Decide(Stimulus{
		Event:       e,
		Down:        down,
		Fresh:       fresh,
		Mods:        m.state.Input.Mods,
		ConsoleOpen: m.status.IsOpen(),
	}, m.bindings)

	switch r {
	case RouteQuit:
		m.log.Info("quit requested", "keys", m.bindings.Quit.String())
		m.Quit()
	case RouteConsole:
		m.consoleEvent(e, down)
	case RouteToggle:
		m.OpenConsole()
	case RouteScreen:
		if down {
			m.screen.EventDown(m.platform, m.state, e)
		} else {
			m.screen.EventUp(m.platform, m.state, e)
		}
	case RouteDrop:
		logcap.Trace(m.log, "input dropped", "event", e.String())
	}
}

func (m *Master) consoleEvent(e core.Event, down bool) {
	if !down || e.Kind != core.EventKey {
		return
	}
	switch e.Key {
	case core.KeyUp:
		m.console.RecallPrev()
	case core.KeyDown:
		m.console.RecallNext()
	}
}

// TextInput handles a character typed while the console is open.
// Control characters edit the prompt; everything else is inserted.
func (m *Master) TextInput(r rune) {
	if !m.status.IsOpen() {
		return
	}
	switch {
	case r == ctrlBackspace || r == ctrlDelete:
		m.console.Backspace()
	case r == ctrlEscape:
		m.CloseConsole()
	case r == ctrlTab:
	case r == ctrlPaste:
		text, err := m.platform.Clipboard()
		if err != nil {
			m.log.Error("paste failed", "err", err)
			return
		}
		m.console.InsertString(text)
	case r == '\r' || r == '\n':
		m.console.Execute(m)
	case unicode.IsControl(r):
		m.log.Info("unknown control character", "code", fmt.Sprintf("%#x", r))
	default:
		m.console.Insert(r)
	}
}

// Paste inserts text delivered by the platform as one block.
func (m *Master) Paste(text string) {
	if m.status.IsOpen() {
		m.console.InsertString(text)
	}
}

// OpenConsole opens the console. The game's cursor is saved for Close.
func (m *Master) OpenConsole() {
	if m.status.Open(m.platform) {
		m.status.MouseMoved(m.platform, m.state.Mouse.Y, m.console.Bottom())
		m.log.Debug("console opened")
	}
}

// CloseConsole closes the console and restores the game's cursor.
func (m *Master) CloseConsole() {
	if m.status.Close(m.platform) {
		m.log.Debug("console closed")
	}
}

// ConsoleOpen reports whether the console is open.
func (m *Master) ConsoleOpen() bool {
	return m.status.IsOpen()
}

// Console returns the console.
func (m *Master) Console() *console.Console {
	return m.console
}

// Resize changes the viewport size.
func (m *Master) Resize(width, height int) {
	m.state.Width, m.state.Height = width, height
	m.console.Resize(width, 0)
}

// State implements console.Env.
func (m *Master) State() *scene.State {
	return m.state
}

// World implements console.Env.
func (m *Master) World() (*world.World, error) {
	if wh, ok := m.screen.(scene.WorldHolder); ok {
		if w := wh.World(); w != nil {
			return w, nil
		}
	}
	return nil, scene.ErrNoWorld
}

// Quit implements console.Env.
func (m *Master) Quit() {
	if !m.quitting {
		m.quitting = true
		m.platform.Quit()
	}
}

// Quitting reports whether termination was requested.
func (m *Master) Quitting() bool {
	return m.quitting
}

// Kind returns the kind of the active screen.
func (m *Master) Kind() scene.Kind {
	return m.kind
}

// Screen returns the active screen.
func (m *Master) Screen() scene.Screen {
	return m.screen
}
