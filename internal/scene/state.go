package scene

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kofarve/internal/assets"
	"github.com/vovakirdan/kofarve/internal/audio"
	"github.com/vovakirdan/kofarve/internal/config"
	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/logcap"
	"github.com/vovakirdan/kofarve/internal/world"
)

// RunStore persists finished runs.
type RunStore interface {
	SaveRun(ctx context.Context, stats world.Statistics) error
	RecentRuns(ctx context.Context, limit int) ([]world.Statistics, error)
}

// State is the context shared by the Master, the active screen and the
// console. Only the Master's goroutine touches it.
type State struct {
	Input   *core.Input
	Assets  *assets.Atlas
	Audio   audio.Player
	Content *world.Content
	Runs    RunStore // nil when persistence is off

	Difficulty config.Difficulty
	// Step is the fixed simulation step; the Master sets it.
	Step time.Duration

	Width  int
	Height int
	Mouse  core.Point // screen space
	Offset core.Point // camera offset added to world positions

	capture *logcap.Capture
	loggers map[string]*log.Logger
	pending *Transition
}

// Options holds the collaborators of a State.
type Options struct {
	Assets  *assets.Atlas
	Audio   audio.Player
	Content *world.Content
	Runs    RunStore
	Capture *logcap.Capture
	// Difficulty defaults to the normal preset.
	Difficulty *config.Difficulty
	Width      int
	Height     int
}

// NewState creates a State with empty input and no pending transition.
func NewState(opts Options) *State {
	if opts.Audio == nil {
		opts.Audio = audio.NewSilent(0)
	}
	if opts.Content == nil {
		opts.Content = world.NoContent()
	}
	if opts.Assets == nil {
		opts.Assets = assets.MustDefault()
	}
	difficulty, _ := config.DifficultyNormal.Params()
	if opts.Difficulty != nil {
		difficulty = *opts.Difficulty
	}
	return &State{
		Input:      core.NewInput(),
		Assets:     opts.Assets,
		Audio:      opts.Audio,
		Content:    opts.Content,
		Runs:       opts.Runs,
		Difficulty: difficulty,
		Step:       time.Second / 60,
		Width:      opts.Width,
		Height:     opts.Height,
		capture:    opts.Capture,
		loggers:    make(map[string]*log.Logger),
	}
}

// Switch requests a transition at the start of the next frame. A request
// made before the previous one was taken replaces it.
func (s *State) Switch(t Transition) {
	if s.pending != nil {
		s.Logger("game").Debug("transition replaced", "old", s.pending.String(), "new", t.String())
	}
	s.pending = &t
}

// Pending returns the requested transition without taking it.
func (s *State) Pending() (Transition, bool) {
	if s.pending == nil {
		return Transition{}, false
	}
	return *s.pending, true
}

// TakePending returns and clears the requested transition.
func (s *State) TakePending() (Transition, bool) {
	t, ok := s.Pending()
	s.pending = nil
	return t, ok
}

// FocusOn moves the camera so world point p is in the middle of the view.
func (s *State) FocusOn(p core.Point) {
	s.Offset = core.Pt(s.Width/2, s.Height/2).Sub(p)
}

// MouseWorld returns the mouse position in world space.
func (s *State) MouseWorld() core.Point {
	return s.Mouse.Sub(s.Offset)
}

// Capture returns the log capture, if any.
func (s *State) Capture() *logcap.Capture {
	return s.capture
}

// Logger returns the logger for module. Without a capture, logs are
// discarded.
func (s *State) Logger(module string) *log.Logger {
	if l, ok := s.loggers[module]; ok {
		return l
	}
	var l *log.Logger
	if s.capture != nil {
		l = s.capture.Logger(module)
	} else {
		l = log.New(io.Discard)
	}
	s.loggers[module] = l
	return l
}
