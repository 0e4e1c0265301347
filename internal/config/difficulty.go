package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Difficulty scales a level for a preset.
type Difficulty struct {
	TimeScale float64 // multiplies a level's time limit
	Damage    int     // health lost per step on ore
	Health    int     // health of a fresh farmer
}

// Params returns the parameters of the preset.
func (p DifficultyPreset) Params() (Difficulty, error) {
	switch DifficultyPreset(strings.ToLower(string(p))) {
	case DifficultyEasy:
		return Difficulty{TimeScale: 1.5, Damage: 1, Health: 100}, nil
	case DifficultyNormal, "":
		return Difficulty{TimeScale: 1.0, Damage: 2, Health: 100}, nil
	case DifficultyHard:
		return Difficulty{TimeScale: 0.75, Damage: 4, Health: 60}, nil
	default:
		return Difficulty{}, fmt.Errorf("config: unknown difficulty %q", string(p))
	}
}

// TimeLimit scales a level time limit in seconds. Zero stays unlimited.
func (d Difficulty) TimeLimit(seconds int) int {
	if seconds <= 0 {
		return 0
	}
	return max(int(float64(seconds)*d.TimeScale), 1)
}
