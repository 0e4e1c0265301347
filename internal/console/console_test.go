package console

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/logcap"
	"github.com/vovakirdan/kofarve/internal/scene"
	"github.com/vovakirdan/kofarve/internal/world"
)

type fakeEnv struct {
	state *scene.State
	quit  int
}

func (e *fakeEnv) State() *scene.State { return e.state }

func (e *fakeEnv) World() (*world.World, error) { return nil, scene.ErrNoWorld }

func (e *fakeEnv) Quit() { e.quit++ }

func newTestConsole(t *testing.T, opts Options) (*Console, *logcap.Capture, *fakeEnv) {
	t.Helper()
	capture := logcap.New(logcap.Options{Level: logcap.TraceLevel})
	c := New(capture.Logger("console"), opts)
	env := &fakeEnv{state: scene.NewState(scene.Options{Capture: capture})}
	return c, capture, env
}

func typeText(c *Console, s string) {
	for _, r := range s {
		c.Insert(r)
	}
}

// flush moves captured log records into the history, as the Master does
// every frame.
func flush(c *Console, capture *logcap.Capture) {
	c.Append(capture.Drain()...)
}

func TestHistoryCapDropsOldest(t *testing.T) {
	c, _, _ := newTestConsole(t, Options{Width: 20, Height: 4})

	for i := 0; i < 10; i++ {
		c.Println(fmt.Sprintf("line %d", i))
		if c.Rows() > c.PromptRow() {
			t.Fatalf("after %d appends history is %d rows, budget %d", i+1, c.Rows(), c.PromptRow())
		}
	}

	want := []string{"line 7", "line 8", "line 9"}
	got := c.Lines()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Lines() = %q, expected %q", got, want)
	}
}

func TestHistoryCapCountsWrappedRows(t *testing.T) {
	c, _, _ := newTestConsole(t, Options{Width: 5, Height: 4})

	c.Println("ab")
	c.Println("0123456789") // two rows at width 5

	if got := c.Lines(); len(got) != 2 || got[0] != "ab" {
		t.Fatalf("Lines() = %q, expected both lines to fit", got)
	}

	c.Println("x")
	if got := c.Lines(); len(got) != 2 || got[0] != "0123456789" {
		t.Errorf("Lines() = %q, expected the oldest line dropped", got)
	}

	c.Resize(2, 4)
	if c.Rows() > c.PromptRow() {
		t.Errorf("Resize left %d rows, budget %d", c.Rows(), c.PromptRow())
	}
}

func TestHistoryCapWideRunes(t *testing.T) {
	c, _, _ := newTestConsole(t, Options{Width: 3, Height: 4})

	c.Println("a")
	c.Println("中中中") // a wide rune never straddles the edge: three rows at width 3

	if got := c.Lines(); len(got) != 1 || got[0] != "中中中" {
		t.Fatalf("Lines() = %q, expected the oldest line dropped", got)
	}
	if c.Rows() != 3 {
		t.Errorf("Rows() = %d, expected 3", c.Rows())
	}

	cv := core.NewCanvas(3, 6)
	c.Draw(cv)
	for y := 0; y < 3; y++ {
		if got := cv.Get(0, y); got != '中' {
			t.Errorf("row %d starts with %q, expected the newest line drawn whole", y, got)
		}
	}
}

func TestAppendJoinsFragments(t *testing.T) {
	c, _, _ := newTestConsole(t, Options{Width: 40, Height: 10})

	c.Append(
		logcap.Fragment{Text: "warn: ", Color: core.ColorYellow},
		logcap.Fragment{Text: "hot\n\nnext"},
		logcap.Fragment{Text: " line\n"},
	)

	want := []string{"warn: hot", "", "next line"}
	if got := c.Lines(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Lines() = %q, expected %q", got, want)
	}
}

func TestExecuteClear(t *testing.T) {
	c, _, env := newTestConsole(t, Options{})
	c.Println("noise")

	typeText(c, "clear")
	c.Execute(env)

	if got := c.Lines(); len(got) != 0 {
		t.Errorf("Lines() = %q after clear, expected empty", got)
	}
	if c.Prompt() != "" {
		t.Errorf("Prompt() = %q, expected empty", c.Prompt())
	}
}

func TestExecuteReloadOverwritesPending(t *testing.T) {
	c, _, env := newTestConsole(t, Options{})
	env.state.Switch(scene.ToEditor(nil))

	typeText(c, "reload")
	c.Execute(env)

	tr, ok := env.state.TakePending()
	if !ok || tr.Kind != scene.KindMenu {
		t.Fatalf("pending = %v, %v; expected menu", tr, ok)
	}
	if _, ok := env.state.TakePending(); ok {
		t.Error("expected exactly one pending transition")
	}
}

func TestTypeWithBackspaceThenReload(t *testing.T) {
	c, _, env := newTestConsole(t, Options{})

	typeText(c, "relox")
	c.Backspace()
	typeText(c, "ad")
	c.Execute(env)

	lines := c.Lines()
	if len(lines) != 1 || lines[0] != "> reload" {
		t.Errorf("Lines() = %q, expected the echoed command", lines)
	}
	if tr, ok := env.state.TakePending(); !ok || tr.Kind != scene.KindMenu {
		t.Errorf("pending = %v, %v; expected menu", tr, ok)
	}
}

func TestBackspaceRemovesLastRune(t *testing.T) {
	c, _, _ := newTestConsole(t, Options{})

	typeText(c, "relo")
	c.Backspace()
	typeText(c, "ad")
	if c.Prompt() != "relad" {
		t.Errorf("Prompt() = %q, expected %q", c.Prompt(), "relad")
	}

	c.SetPrompt("")
	c.Backspace()
	if c.Prompt() != "" {
		t.Error("backspace on an empty prompt should do nothing")
	}

	typeText(c, "ферма")
	c.Backspace()
	if c.Prompt() != "ферм" {
		t.Errorf("Prompt() = %q, backspace should remove a whole rune", c.Prompt())
	}
}

func TestExecuteUnknownVerb(t *testing.T) {
	c, capture, env := newTestConsole(t, Options{})

	typeText(c, "foo")
	c.Execute(env)
	flush(c, capture)

	lines := c.Lines()
	if len(lines) != 2 || lines[0] != "> foo" {
		t.Fatalf("Lines() = %q, expected echo and one warning", lines)
	}
	if !strings.Contains(lines[1], "foo") || !strings.Contains(lines[1], "unknown command") {
		t.Errorf("warning line = %q", lines[1])
	}
	if _, ok := env.state.Pending(); ok {
		t.Error("unknown verb must not request a transition")
	}
	if env.quit != 0 {
		t.Error("unknown verb must not quit")
	}
}

func TestExecuteEmptyIsNoop(t *testing.T) {
	c, capture, env := newTestConsole(t, Options{})

	typeText(c, "   ")
	c.Execute(env)
	flush(c, capture)

	if got := c.Lines(); len(got) != 1 || got[0] != ">    " {
		t.Errorf("Lines() = %q, expected only the echo", got)
	}
}

func TestExecuteQuit(t *testing.T) {
	c, _, env := newTestConsole(t, Options{})

	typeText(c, "QUIT")
	c.Execute(env)

	if env.quit != 1 {
		t.Errorf("quit called %d times, expected 1", env.quit)
	}
}

func TestVerbErrorBecomesWarning(t *testing.T) {
	c, capture, env := newTestConsole(t, Options{})
	c.Register("boom", "boom", "", func(*Console, Env, []string) error {
		return errors.New("kaput")
	})

	typeText(c, "boom now")
	c.Execute(env)
	flush(c, capture)

	lines := c.Lines()
	if len(lines) != 2 || !strings.Contains(lines[1], "kaput") {
		t.Errorf("Lines() = %q, expected a warning with the error", lines)
	}
}

func TestHelpAndEcho(t *testing.T) {
	c, _, env := newTestConsole(t, Options{Width: 80, Height: 20})

	typeText(c, "echo hello   farm")
	c.Execute(env)
	if got := c.Lines(); got[len(got)-1] != "hello farm" {
		t.Errorf("echo printed %q", got[len(got)-1])
	}

	c.Clear()
	typeText(c, "help")
	c.Execute(env)
	joined := strings.Join(c.Lines(), "\n")
	for _, verb := range []string{"clear", "reload", "quit", "echo"} {
		if !strings.Contains(joined, verb) {
			t.Errorf("help output misses %q", verb)
		}
	}
}

func TestRecall(t *testing.T) {
	c, _, env := newTestConsole(t, Options{})

	for _, cmd := range []string{"echo one", "echo two"} {
		typeText(c, cmd)
		c.Execute(env)
	}

	c.RecallPrev()
	if c.Prompt() != "echo two" {
		t.Errorf("first RecallPrev = %q", c.Prompt())
	}
	c.RecallPrev()
	c.RecallPrev()
	if c.Prompt() != "echo one" {
		t.Errorf("RecallPrev past the start = %q", c.Prompt())
	}
	c.RecallNext()
	if c.Prompt() != "echo two" {
		t.Errorf("RecallNext = %q", c.Prompt())
	}
	c.RecallNext()
	if c.Prompt() != "" {
		t.Errorf("RecallNext past the end = %q, expected empty", c.Prompt())
	}
}

func TestInsertString(t *testing.T) {
	c, _, _ := newTestConsole(t, Options{})
	c.InsertString("paint\tore\n1 2\x07")

	if c.Prompt() != "paint ore 1 2" {
		t.Errorf("Prompt() = %q", c.Prompt())
	}
}

func TestDrawPanel(t *testing.T) {
	c, _, _ := newTestConsole(t, Options{Width: 20, Height: 3})
	cv := core.NewCanvas(20, 6)
	cv.DrawText(0, 5, "game", core.ColorGreen)

	c.Println("hello")
	c.InsertString("he")
	c.Draw(cv)

	if !strings.HasPrefix(cv.Row(0), "hello") {
		t.Errorf("row 0 = %q, expected history", cv.Row(0))
	}
	if !strings.HasPrefix(cv.Row(2), "> he█") {
		t.Errorf("row 2 = %q, expected prompt", cv.Row(2))
	}
	if cv.Cell(10, 1).Bg != core.ColorBlack {
		t.Error("panel should be shaded")
	}
	if cv.Cell(0, 5).Fg != core.ColorGreen {
		t.Error("rows below the panel must be untouched")
	}
}
