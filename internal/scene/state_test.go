package scene

import (
	"strings"
	"testing"

	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/logcap"
	"github.com/vovakirdan/kofarve/internal/world"
)

func TestSwitchLastWriteWins(t *testing.T) {
	s := NewState(Options{})

	if _, ok := s.Pending(); ok {
		t.Fatal("new state should have no pending transition")
	}

	s.Switch(ToEditor(nil))
	s.Switch(ToMenu())

	tr, ok := s.TakePending()
	if !ok || tr.Kind != KindMenu {
		t.Fatalf("TakePending() = %v, %v; expected menu", tr, ok)
	}
	if _, ok := s.TakePending(); ok {
		t.Error("a transition is taken exactly once")
	}
}

func TestSwitchLogsReplacement(t *testing.T) {
	capture := logcap.New(logcap.Options{Level: logcap.TraceLevel})
	s := NewState(Options{Capture: capture})

	s.Switch(ToPlay(world.NewLevel("a", 2, 2)))
	s.Switch(ToMenu())

	frags := capture.Drain()
	if len(frags) != 1 || !strings.Contains(frags[0].Text, "transition replaced") {
		t.Errorf("Drain() = %v, expected one replacement notice", frags)
	}
}

func TestFocusOn(t *testing.T) {
	s := NewState(Options{Width: 80, Height: 24})
	s.FocusOn(core.Pt(10, 5))

	if s.Offset != core.Pt(30, 7) {
		t.Errorf("Offset = %v, expected (30,7)", s.Offset)
	}

	s.Mouse = core.Pt(40, 12)
	if got := s.MouseWorld(); got != core.Pt(10, 5) {
		t.Errorf("MouseWorld() = %v, expected the focused point", got)
	}
}

func TestLoggerWithoutCapture(t *testing.T) {
	s := NewState(Options{})
	l := s.Logger("play")
	l.Info("dropped")
	if s.Logger("play") != l {
		t.Error("Logger should return the same logger per module")
	}
}

func TestTransitionString(t *testing.T) {
	tests := []struct {
		tr   Transition
		want string
	}{
		{ToMenu(), "menu"},
		{ToPlay(world.NewLevel("Orchard", 1, 1)), "play(Orchard)"},
		{ToLose(world.Statistics{Level: "Quarry"}), "lose(Quarry)"},
		{ToEditor(nil), "editor"},
	}
	for _, tc := range tests {
		if got := tc.tr.String(); got != tc.want {
			t.Errorf("String() = %q, expected %q", got, tc.want)
		}
	}
}
