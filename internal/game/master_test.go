package game

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/logcap"
	"github.com/vovakirdan/kofarve/internal/registry"
	"github.com/vovakirdan/kofarve/internal/scene"
	"github.com/vovakirdan/kofarve/internal/world"
)

type fakePlatform struct {
	cursor    core.Cursor
	clipboard string
	clipErr   error
	quits     int
}

func (p *fakePlatform) Cursor() core.Cursor        { return p.cursor }
func (p *fakePlatform) SetCursor(c core.Cursor)    { p.cursor = c }
func (p *fakePlatform) Clipboard() (string, error) { return p.clipboard, p.clipErr }
func (p *fakePlatform) Quit()                      { p.quits++ }

// recorder counts what the Master does to the screens it builds.
type recorder struct {
	built   []scene.Kind
	updates int
	logic   int
	downs   []core.Event
	ups     []core.Event
	// cursor is set by every factory, like a screen hiding the pointer.
	cursor core.Cursor
	fail   map[scene.Kind]error
	world  *world.World
}

type fakeScreen struct {
	scene.Base
	rec  *recorder
	kind scene.Kind
}

func (s *fakeScreen) Update(core.Platform, *scene.State) { s.rec.updates++ }
func (s *fakeScreen) Logic(core.Platform, *scene.State)  { s.rec.logic++ }

func (s *fakeScreen) Draw(c *core.Canvas, _ *scene.State) {
	c.Set(0, 0, 'W', core.ColorGreen)
}

func (s *fakeScreen) DrawHUD(c *core.Canvas, _ *scene.State) {
	c.Set(0, 0, 'H', core.ColorRed)
}

func (s *fakeScreen) EventDown(_ core.Platform, _ *scene.State, e core.Event) {
	s.rec.downs = append(s.rec.downs, e)
}

func (s *fakeScreen) EventUp(_ core.Platform, _ *scene.State, e core.Event) {
	s.rec.ups = append(s.rec.ups, e)
}

// worldScreen exposes a world to console verbs.
type worldScreen struct {
	fakeScreen
}

func (s *worldScreen) World() *world.World { return s.rec.world }

func (s *worldScreen) Stats() world.Statistics {
	return world.Statistics{Level: s.rec.world.Level.Name, Collected: s.rec.world.Collected(), Total: len(s.rec.world.Level.Pickups), Health: 42}
}

func (rec *recorder) factory(p core.Platform, _ *scene.State, t scene.Transition) (scene.Screen, error) {
	if err := rec.fail[t.Kind]; err != nil {
		return nil, err
	}
	rec.built = append(rec.built, t.Kind)
	p.SetCursor(rec.cursor)
	base := fakeScreen{rec: rec, kind: t.Kind}
	if t.Kind == scene.KindPlay && rec.world != nil {
		return &worldScreen{fakeScreen: base}, nil
	}
	return &base, nil
}

// newRegistry fills every kind with the recorder's fake screens, except the
// kinds given real factories in real.
func newRegistry(rec *recorder, real ...map[scene.Kind]registry.Factory) *registry.Registry {
	reg := registry.New()
	for _, k := range scene.Kinds() {
		f := registry.Factory(rec.factory)
		for _, r := range real {
			if rf, ok := r[k]; ok {
				f = rf
			}
		}
		reg.Register(k, f)
	}
	return reg
}

type harness struct {
	m       *Master
	p       *fakePlatform
	rec     *recorder
	capture *logcap.Capture
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	rec := &recorder{fail: make(map[scene.Kind]error)}
	p := &fakePlatform{}
	capture := logcap.New(logcap.Options{Level: logcap.TraceLevel})
	state := scene.NewState(scene.Options{Capture: capture, Width: 80, Height: 24})

	m, err := New(p, state, Options{
		Runtime:  core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 100},
		Registry: newRegistry(rec),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &harness{m: m, p: p, rec: rec, capture: capture}
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.m.TextInput(r)
	}
}

func (h *harness) history() string {
	return strings.Join(h.m.Console().Lines(), "\n")
}

func TestNewRefusesIncompleteRegistry(t *testing.T) {
	reg := registry.New()
	reg.Register(scene.KindMenu, func(core.Platform, *scene.State, scene.Transition) (scene.Screen, error) {
		return &fakeScreen{}, nil
	})

	_, err := New(&fakePlatform{}, scene.NewState(scene.Options{}), Options{Registry: reg})
	if err == nil {
		t.Fatal("expected error for missing screens")
	}
}

func TestNewStartsOnMenu(t *testing.T) {
	h := newHarness(t)
	if h.m.Kind() != scene.KindMenu {
		t.Errorf("Kind() = %v, expected menu", h.m.Kind())
	}
	if len(h.rec.built) != 1 {
		t.Errorf("built %v, expected only the menu", h.rec.built)
	}
}

func TestTransitionAtFrameStart(t *testing.T) {
	h := newHarness(t)
	h.rec.cursor = core.Cursor{Icon: core.CursorCrosshair}
	h.p.cursor = core.Cursor{Icon: core.CursorMove, Hidden: true}

	h.m.State().Switch(scene.ToPlay(nil))
	h.m.State().Switch(scene.ToEditor(nil))
	if h.m.Kind() != scene.KindMenu {
		t.Fatal("transition must wait for the next frame")
	}

	if err := h.m.Frame(0); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if h.m.Kind() != scene.KindEditor {
		t.Errorf("Kind() = %v, expected editor (last request wins)", h.m.Kind())
	}
	if got := h.rec.built; len(got) != 2 || got[1] != scene.KindEditor {
		t.Errorf("built %v, expected menu then editor only", got)
	}
	if h.p.cursor != (core.Cursor{Icon: core.CursorCrosshair}) {
		t.Errorf("cursor = %+v, expected the one the new screen set", h.p.cursor)
	}
	if _, ok := h.m.State().Pending(); ok {
		t.Error("pending transition should be cleared")
	}
}

func TestTransitionResetsCursor(t *testing.T) {
	h := newHarness(t)
	h.rec.cursor = core.DefaultCursor
	h.p.cursor = core.Cursor{Icon: core.CursorHand, Hidden: true}

	h.m.State().Switch(scene.ToMenu())
	if err := h.m.Frame(0); err != nil {
		t.Fatal(err)
	}
	if h.p.cursor != core.DefaultCursor {
		t.Errorf("cursor = %+v, expected default arrow", h.p.cursor)
	}
}

func TestTransitionFailureIsFatal(t *testing.T) {
	h := newHarness(t)
	missing := errors.New("sprite common/farmer missing")
	h.rec.fail[scene.KindPlay] = missing

	h.m.State().Switch(scene.ToPlay(nil))
	err := h.m.Frame(0)
	if !errors.Is(err, missing) {
		t.Fatalf("Frame() = %v, expected wrapped construction error", err)
	}
	if h.m.Kind() != scene.KindMenu {
		t.Errorf("Kind() = %v, old screen should stay", h.m.Kind())
	}
}

func TestFrameRunsFixedSteps(t *testing.T) {
	h := newHarness(t)

	if err := h.m.Frame(35 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if h.rec.updates != 3 || h.rec.logic != 1 {
		t.Errorf("updates=%d logic=%d, expected 3 and 1", h.rec.updates, h.rec.logic)
	}

	h.m.Frame(5 * time.Millisecond)
	if h.rec.updates != 4 || h.rec.logic != 2 {
		t.Errorf("updates=%d logic=%d, expected 4 and 2", h.rec.updates, h.rec.logic)
	}
}

func TestFrameFrozenWhileConsoleOpen(t *testing.T) {
	h := newHarness(t)
	h.m.OpenConsole()

	h.m.Frame(200 * time.Millisecond)
	if h.rec.updates != 0 || h.rec.logic != 0 {
		t.Errorf("updates=%d logic=%d while open, expected none", h.rec.updates, h.rec.logic)
	}

	h.m.CloseConsole()
	h.m.Frame(5 * time.Millisecond)
	if h.rec.updates != 0 || h.rec.logic != 1 {
		t.Errorf("updates=%d logic=%d after close, expected no catch-up", h.rec.updates, h.rec.logic)
	}
}

func TestDrawOrder(t *testing.T) {
	h := newHarness(t)
	h.m.State().Offset = core.Pt(5, 2)
	cv := core.NewCanvas(80, 24)

	h.m.Draw(cv)
	if cv.Get(5, 2) != 'W' {
		t.Errorf("world glyph at (5,2) = %q, expected W", cv.Get(5, 2))
	}
	if cv.Get(0, 0) != 'H' {
		t.Errorf("HUD glyph at (0,0) = %q, expected H", cv.Get(0, 0))
	}

	h.m.OpenConsole()
	h.m.Draw(cv)
	if cell := cv.Cell(0, 0); cell.Bg != core.ColorBlack {
		t.Errorf("cell (0,0) = %+v, expected the console panel over the HUD", cell)
	}
}

func TestQuitComboAlwaysWins(t *testing.T) {
	for _, open := range []bool{false, true} {
		h := newHarness(t)
		if open {
			h.m.OpenConsole()
		}
		h.m.KeyDown(core.KeyLCtrl, false)
		h.m.KeyDown(core.KeyQ, false)

		if !h.m.Quitting() || h.p.quits != 1 {
			t.Errorf("open=%v: Quitting()=%v quits=%d", open, h.m.Quitting(), h.p.quits)
		}
		for _, e := range h.rec.downs {
			if e.Key == core.KeyQ {
				t.Errorf("open=%v: screen received the quit key", open)
			}
		}
	}
}

func TestToggleOpensConsole(t *testing.T) {
	h := newHarness(t)
	h.p.cursor = core.Cursor{Icon: core.CursorCrosshair, Hidden: true}

	h.m.KeyDown(core.KeyGrave, false)
	if !h.m.ConsoleOpen() {
		t.Fatal("toggle key should open the console")
	}
	h.m.KeyUp(core.KeyGrave)
	h.m.KeyDown(core.KeyGrave, false)
	if !h.m.ConsoleOpen() {
		t.Error("toggle key must not close the console")
	}
	if len(h.rec.downs)+len(h.rec.ups) != 0 {
		t.Errorf("screen received %v / %v, expected nothing", h.rec.downs, h.rec.ups)
	}

	h.m.TextInput(0x1b)
	if h.m.ConsoleOpen() {
		t.Fatal("escape should close the console")
	}
	if h.p.cursor != (core.Cursor{Icon: core.CursorCrosshair, Hidden: true}) {
		t.Errorf("cursor = %+v, expected the saved one restored", h.p.cursor)
	}
}

func TestInputTrackedWhileConsoleOpen(t *testing.T) {
	h := newHarness(t)
	h.m.OpenConsole()

	h.m.KeyDown(core.KeyW, false)
	h.m.KeyDown(core.KeyS, false)
	h.m.KeyUp(core.KeyW)

	in := h.m.State().Input
	if in.Ver != 1 || in.Hor != 0 {
		t.Errorf("axes = (%d,%d), expected (0,1)", in.Hor, in.Ver)
	}
	if len(h.rec.downs)+len(h.rec.ups) != 0 {
		t.Error("screen must not receive events while the console is open")
	}
}

func TestScreenReceivesFreshEventsOnly(t *testing.T) {
	h := newHarness(t)

	h.m.KeyDown(core.KeyD, false)
	h.m.KeyDown(core.KeyD, true)
	h.m.KeyDown(core.KeyD, false)
	h.m.KeyUp(core.KeyD)
	h.m.KeyUp(core.KeyD)
	h.m.MouseDown(core.MouseLeft)
	h.m.MouseUp(core.MouseLeft)

	if len(h.rec.downs) != 2 || len(h.rec.ups) != 2 {
		t.Errorf("downs=%v ups=%v, expected one key and one mouse each", h.rec.downs, h.rec.ups)
	}
	if h.m.State().Input.Hor != 0 {
		t.Errorf("Hor = %d, expected 0", h.m.State().Input.Hor)
	}
}

func TestTextInputReload(t *testing.T) {
	h := newHarness(t)
	h.m.State().Switch(scene.ToEditor(nil))
	h.m.Frame(0)
	h.m.OpenConsole()

	h.typeText("relox\bad\r")
	if err := h.m.Frame(0); err != nil {
		t.Fatal(err)
	}

	if h.m.Kind() != scene.KindMenu {
		t.Errorf("Kind() = %v, expected menu after reload", h.m.Kind())
	}
	if !strings.Contains(h.history(), "> reload") {
		t.Errorf("history = %q, expected the echoed command", h.history())
	}
	if h.m.Console().Prompt() != "" {
		t.Errorf("prompt = %q, expected empty", h.m.Console().Prompt())
	}
}

func TestTextInputUnknownVerb(t *testing.T) {
	h := newHarness(t)
	h.m.OpenConsole()

	h.typeText("foo\r")
	h.m.Frame(0)

	lines := h.m.Console().Lines()
	var warned int
	for _, l := range lines {
		if strings.Contains(l, "unknown command") && strings.Contains(l, "foo") {
			warned++
		}
	}
	if warned != 1 {
		t.Errorf("history = %q, expected one unknown command warning", lines)
	}
	if h.m.Quitting() || h.m.Kind() != scene.KindMenu {
		t.Error("unknown verb must not change state")
	}
}

func TestTextInputIgnoredWhileClosed(t *testing.T) {
	h := newHarness(t)
	h.typeText("quit\r")
	if h.m.Quitting() || h.m.Console().Prompt() != "" {
		t.Error("text input must be ignored while the console is closed")
	}
}

func TestTextInputPaste(t *testing.T) {
	h := newHarness(t)
	h.p.clipboard = "echo\tfrom clipboard"
	h.m.OpenConsole()

	h.m.TextInput(0x16)
	if got := h.m.Console().Prompt(); got != "echo from clipboard" {
		t.Errorf("prompt = %q", got)
	}

	h.p.clipErr = errors.New("no clipboard")
	h.m.TextInput(0x16)
	h.m.Frame(0)
	if !strings.Contains(h.history(), "paste failed") {
		t.Errorf("history = %q, expected a paste error", h.history())
	}

	h.m.Paste(" more")
	if got := h.m.Console().Prompt(); got != "echo from clipboard more" {
		t.Errorf("prompt after Paste = %q", got)
	}
}

func TestTextInputControlCharacters(t *testing.T) {
	h := newHarness(t)
	h.m.OpenConsole()

	h.typeText("ab\t\x01")
	h.m.Frame(0)
	if got := h.m.Console().Prompt(); got != "ab" {
		t.Errorf("prompt = %q, tab and unknown controls must not insert", got)
	}
	if !strings.Contains(h.history(), "unknown control character") {
		t.Errorf("history = %q, expected a notice", h.history())
	}

	h.m.TextInput(0x7f)
	if got := h.m.Console().Prompt(); got != "a" {
		t.Errorf("prompt after delete = %q", got)
	}
}

func TestMouseMovedSwitchesCursor(t *testing.T) {
	h := newHarness(t)
	game := core.Cursor{Icon: core.CursorCrosshair, Hidden: true}
	h.p.cursor = game
	h.m.MouseMoved(core.Pt(3, 20))
	h.m.OpenConsole()

	if h.p.cursor != game {
		t.Errorf("below the panel cursor = %+v, expected game cursor", h.p.cursor)
	}
	h.m.MouseMoved(core.Pt(3, 2))
	if h.p.cursor != core.DefaultCursor {
		t.Errorf("over the panel cursor = %+v, expected arrow", h.p.cursor)
	}
	if h.m.State().Mouse != core.Pt(3, 2) {
		t.Errorf("Mouse = %v", h.m.State().Mouse)
	}
}

func TestTransitionWhileConsoleOpenRestoresPreOpenCursor(t *testing.T) {
	h := newHarness(t)
	before := core.Cursor{Icon: core.CursorHand}
	h.p.cursor = before
	h.m.OpenConsole()
	h.rec.cursor = core.Cursor{Icon: core.CursorCrosshair, Hidden: true}

	h.typeText("play\r")
	h.m.Frame(0)
	h.m.CloseConsole()

	if h.p.cursor != before {
		t.Errorf("cursor = %+v, expected the cursor from before the console opened", h.p.cursor)
	}
}

func TestWorldWithoutHolder(t *testing.T) {
	h := newHarness(t)
	if _, err := h.m.World(); !errors.Is(err, scene.ErrNoWorld) {
		t.Errorf("World() error = %v, expected ErrNoWorld", err)
	}
}
