// Package config provides YAML-based configuration for kofarve.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/logcap"
)

// Config is the complete game configuration.
type Config struct {
	TickRate   int              `yaml:"tick_rate"`
	Difficulty DifficultyPreset `yaml:"difficulty"`
	Console    ConsoleConfig    `yaml:"console"`
	Keys       KeysConfig       `yaml:"keys"`
	Terminal   TerminalConfig   `yaml:"terminal"`
	Log        LogConfig        `yaml:"log"`
	Audio      AudioConfig      `yaml:"audio"`
	Storage    StorageConfig    `yaml:"storage"`
	Assets     AssetsConfig     `yaml:"assets"`
}

// ConsoleConfig defines the developer console.
type ConsoleConfig struct {
	Height    int    `yaml:"height"`     // panel rows, prompt included
	Prompt    string `yaml:"prompt"`     // echo marker
	ToggleKey string `yaml:"toggle_key"` // opens the console
	Recall    int    `yaml:"recall"`     // remembered commands
}

// KeysConfig defines global key bindings.
type KeysConfig struct {
	Quit string `yaml:"quit"` // always terminates, e.g. "ctrl+q"
}

// TerminalConfig defines the terminal frontend.
type TerminalConfig struct {
	KeyReleaseMS int  `yaml:"key_release_ms"`
	Mouse        bool `yaml:"mouse"`
}

// LogConfig defines diagnostic output.
type LogConfig struct {
	Level string `yaml:"level"` // trace, debug, info, warn, error
	File  string `yaml:"file"`  // echo destination; "-" is stderr, empty keeps records in the console
}

// AudioConfig defines sound output.
type AudioConfig struct {
	Enabled bool `yaml:"enabled"`
	Volume  int  `yaml:"volume"` // percent
}

// StorageConfig defines run persistence.
type StorageConfig struct {
	Path string `yaml:"path"` // sqlite file, empty disables persistence
}

// AssetsConfig defines the glyph atlas.
type AssetsConfig struct {
	Atlas string `yaml:"atlas"` // extra atlas merged over the embedded one
}

// Validate checks value ranges and that every key binding parses.
func (c *Config) Validate() error {
	if c.TickRate < 1 || c.TickRate > 1000 {
		return fmt.Errorf("config: tick_rate %d out of range 1..1000", c.TickRate)
	}
	if _, err := c.Difficulty.Params(); err != nil {
		return err
	}
	if c.Console.Height < 2 {
		return fmt.Errorf("config: console.height must be at least 2, got %d", c.Console.Height)
	}
	if _, err := c.ToggleKey(); err != nil {
		return err
	}
	if _, err := c.QuitCombo(); err != nil {
		return err
	}
	if c.Terminal.KeyReleaseMS <= 0 {
		return fmt.Errorf("config: terminal.key_release_ms must be positive")
	}
	if _, err := logcap.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("config: audio.volume %d out of range 0..100", c.Audio.Volume)
	}
	return nil
}

// ToggleKey parses the console toggle key.
func (c *Config) ToggleKey() (core.Key, error) {
	k, err := core.ParseKey(c.Console.ToggleKey)
	if err != nil {
		return core.KeyUnknown, fmt.Errorf("config: console.toggle_key: %w", err)
	}
	return k, nil
}

// QuitCombo parses the quit combination.
func (c *Config) QuitCombo() (core.Combo, error) {
	combo, err := core.ParseCombo(c.Keys.Quit)
	if err != nil {
		return core.Combo{}, fmt.Errorf("config: keys.quit: %w", err)
	}
	return combo, nil
}

// KeyRelease returns how long a key counts as held after its last press.
func (c *Config) KeyRelease() time.Duration {
	return time.Duration(c.Terminal.KeyReleaseMS) * time.Millisecond
}

// Runtime returns the frame loop settings for a screen of the given size.
func (c *Config) Runtime(width, height int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: c.TickRate,
	}
}
