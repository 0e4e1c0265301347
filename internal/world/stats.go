package world

import (
	"fmt"
	"time"
)

// Statistics summarise a finished run. Win and Lose screens show them and
// persist them.
type Statistics struct {
	Level     string
	Collected int
	Total     int
	Health    int
	Elapsed   time.Duration
	Won       bool
	PlayedAt  time.Time // set when the run is stored
}

// Score rewards collected pickups, remaining health and speed.
func (s Statistics) Score() int {
	score := s.Collected*100 + s.Health
	if s.Won {
		bonus := 300 - int(s.Elapsed/time.Second)
		score += max(bonus, 0)
	}
	return score
}

func (s Statistics) String() string {
	return fmt.Sprintf("%s: %d/%d pickups, %d hp, %s", s.Level, s.Collected, s.Total, s.Health, s.Elapsed.Round(time.Second))
}
