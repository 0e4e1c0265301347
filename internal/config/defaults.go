package config

import (
	_ "embed"
)

//go:embed defaults/kofarve.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TickRate:   60,
		Difficulty: DifficultyNormal,
		Console: ConsoleConfig{
			Height:    12,
			Prompt:    "> ",
			ToggleKey: "`",
			Recall:    100,
		},
		Keys: KeysConfig{
			Quit: "ctrl+q",
		},
		Terminal: TerminalConfig{
			KeyReleaseMS: 120,
			Mouse:        true,
		},
		Log: LogConfig{
			Level: "debug",
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  70,
		},
		Storage: StorageConfig{
			Path: "~/.kofarve/runs.db",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
