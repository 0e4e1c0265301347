package game

import (
	"fmt"

	"github.com/vovakirdan/kofarve/internal/assets"
	"github.com/vovakirdan/kofarve/internal/audio"
	"github.com/vovakirdan/kofarve/internal/config"
	"github.com/vovakirdan/kofarve/internal/console"
	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/logcap"
	"github.com/vovakirdan/kofarve/internal/registry"
	"github.com/vovakirdan/kofarve/internal/scene"
	"github.com/vovakirdan/kofarve/internal/world"
)

// Deps are the collaborators of one game session. A local game has one
// session; the SSH server builds one per connection.
type Deps struct {
	Config  config.Config
	Capture *logcap.Capture
	Assets  *assets.Atlas  // nil uses the embedded atlas
	Audio   audio.Player   // nil is silent
	Content *world.Content // nil plays the built-in levels
	Runs    scene.RunStore // nil disables persistence
	Width   int
	Height  int

	Registry *registry.Registry // nil uses registry.Default
}

// Build wires a Master from configuration.
func Build(p core.Platform, d Deps) (*Master, error) {
	cfg := d.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	difficulty, err := cfg.Difficulty.Params()
	if err != nil {
		return nil, err
	}
	toggle, err := cfg.ToggleKey()
	if err != nil {
		return nil, err
	}
	quit, err := cfg.QuitCombo()
	if err != nil {
		return nil, err
	}
	if d.Capture == nil {
		return nil, fmt.Errorf("game: session needs a log capture")
	}

	state := scene.NewState(scene.Options{
		Assets:     d.Assets,
		Audio:      d.Audio,
		Content:    d.Content,
		Runs:       d.Runs,
		Capture:    d.Capture,
		Difficulty: &difficulty,
		Width:      d.Width,
		Height:     d.Height,
	})

	m, err := New(p, state, Options{
		Runtime: cfg.Runtime(d.Width, d.Height),
		Console: console.Options{
			Width:  d.Width,
			Height: cfg.Console.Height,
			Prompt: cfg.Console.Prompt,
			Recall: cfg.Console.Recall,
		},
		Bindings: Bindings{Toggle: toggle, Quit: quit},
		Registry: d.Registry,
	})
	if err != nil {
		return nil, err
	}
	state.Logger("game").Info("session started",
		"content", state.Content.Describe(),
		"difficulty", string(cfg.Difficulty),
		"tick_rate", cfg.TickRate,
	)
	return m, nil
}
