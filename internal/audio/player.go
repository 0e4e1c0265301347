// Package audio plays the game's music and sound effects.
package audio

import "sync"

// Player plays named sounds. Looping sounds such as "music" play until
// stopped; effects stop by themselves.
type Player interface {
	Play(name string) error
	Stop(name string)
	// SetVolume sets the master volume in percent, clamped to 0..100.
	SetVolume(percent int)
	Volume() int
	SetMuted(muted bool)
	Muted() bool
	Close()
}

// Silent is a Player without an audio device. It keeps volume and mute
// state so the console can still adjust them.
type Silent struct {
	mu      sync.Mutex
	volume  int
	muted   bool
	playing map[string]bool
}

// NewSilent returns a Silent player at the given volume.
func NewSilent(volume int) *Silent {
	return &Silent{volume: clampVolume(volume), playing: make(map[string]bool)}
}

func (s *Silent) Play(name string) error {
	if _, ok := sounds[name]; !ok {
		return unknownSound(name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sounds[name].loop {
		s.playing[name] = true
	}
	return nil
}

func (s *Silent) Stop(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.playing, name)
}

// Playing reports whether a looping sound is running.
func (s *Silent) Playing(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing[name]
}

func (s *Silent) SetVolume(percent int) {
	s.mu.Lock()
	s.volume = clampVolume(percent)
	s.mu.Unlock()
}

func (s *Silent) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

func (s *Silent) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
}

func (s *Silent) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

func (s *Silent) Close() {}

func clampVolume(v int) int {
	return min(max(v, 0), 100)
}
