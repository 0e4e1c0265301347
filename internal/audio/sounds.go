package audio

import (
	"errors"
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
)

const sampleRate = beep.SampleRate(44100)

// ErrUnknownSound is returned when playing a sound that does not exist.
var ErrUnknownSound = errors.New("audio: unknown sound")

func unknownSound(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownSound, name)
}

type note struct {
	freq float64 // 0 is a rest
	dur  time.Duration
}

type sound struct {
	loop  bool
	notes []note
}

// Note frequencies in Hz.
const (
	c4 = 261.63
	d4 = 293.66
	e4 = 329.63
	g4 = 392.00
	a4 = 440.00
	c5 = 523.25
	e5 = 659.25
	g5 = 783.99
)

const beat = 180 * time.Millisecond

var sounds = map[string]sound{
	"music": {loop: true, notes: []note{
		{c4, beat}, {e4, beat}, {g4, beat}, {e4, beat},
		{d4, beat}, {g4, beat}, {a4, 2 * beat},
		{g4, beat}, {e4, beat}, {c4, beat}, {d4, beat},
		{e4, 2 * beat}, {0, 2 * beat},
	}},
	"pickup": {notes: []note{{e5, 60 * time.Millisecond}, {g5, 90 * time.Millisecond}}},
	"click":  {notes: []note{{a4, 30 * time.Millisecond}}},
	"win":    {notes: []note{{c5, beat}, {e5, beat}, {g5, 2 * beat}}},
	"lose":   {notes: []note{{g4, beat}, {e4, beat}, {c4, 2 * beat}}},
}

// Names lists every sound.
func Names() []string {
	return []string{"music", "pickup", "click", "win", "lose"}
}

func tone(n note) beep.Streamer {
	samples := sampleRate.N(n.dur)
	if n.freq == 0 {
		return generators.Silence(samples)
	}
	sine, err := generators.SineTone(sampleRate, n.freq)
	if err != nil {
		return generators.Silence(samples)
	}
	return beep.Take(samples, sine)
}

// stream renders a sound. Looping sounds never end.
func (s sound) stream() beep.Streamer {
	if !s.loop {
		parts := make([]beep.Streamer, len(s.notes))
		for i, n := range s.notes {
			parts[i] = tone(n)
		}
		return beep.Seq(parts...)
	}
	i := 0
	return beep.Iterate(func() beep.Streamer {
		n := s.notes[i%len(s.notes)]
		i++
		return tone(n)
	})
}
