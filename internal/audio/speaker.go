package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// Speaker plays sounds on the system audio device through a single mixer.
type Speaker struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	volume  *effects.Volume
	percent int
	mute    bool
	active  map[string]*beep.Ctrl
}

// OpenSpeaker initialises the audio device.
func OpenSpeaker(volume int) (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("audio: init speaker: %w", err)
	}
	s := &Speaker{
		mixer:  &beep.Mixer{},
		active: make(map[string]*beep.Ctrl),
	}
	s.volume = &effects.Volume{Streamer: s.mixer, Base: 2}
	s.percent = clampVolume(volume)
	s.sync()
	speaker.Play(s.volume)
	return s, nil
}

// New opens the speaker when enabled, falling back to a Silent player when
// disabled or when no device is available.
func New(enabled bool, volume int) (Player, error) {
	if !enabled {
		return NewSilent(volume), nil
	}
	s, err := OpenSpeaker(volume)
	if err != nil {
		return NewSilent(volume), err
	}
	return s, nil
}

func (s *Speaker) Play(name string) error {
	snd, ok := sounds[name]
	if !ok {
		return unknownSound(name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if snd.loop {
		if ctrl, ok := s.active[name]; ok && !ctrl.Paused {
			return nil
		}
		ctrl := &beep.Ctrl{Streamer: snd.stream()}
		s.active[name] = ctrl
		speaker.Lock()
		s.mixer.Add(ctrl)
		speaker.Unlock()
		return nil
	}

	speaker.Lock()
	s.mixer.Add(snd.stream())
	speaker.Unlock()
	return nil
}

func (s *Speaker) Stop(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, ok := s.active[name]
	if !ok {
		return
	}
	speaker.Lock()
	ctrl.Paused = true
	ctrl.Streamer = nil
	speaker.Unlock()
	delete(s.active, name)
}

// sync pushes volume and mute state to the volume effect. Percent maps onto
// the exponential scale; 0 is silent.
func (s *Speaker) sync() {
	speaker.Lock()
	defer speaker.Unlock()
	s.volume.Silent = s.mute || s.percent == 0
	if s.percent > 0 {
		s.volume.Volume = math.Log2(float64(s.percent) / 100)
	}
}

func (s *Speaker) SetVolume(percent int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.percent = clampVolume(percent)
	s.sync()
}

func (s *Speaker) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.percent
}

func (s *Speaker) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mute = muted
	s.sync()
}

func (s *Speaker) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mute
}

// Close stops every sound and releases the device.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	speaker.Clear()
	speaker.Close()
	clear(s.active)
}
