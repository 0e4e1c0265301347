package game

import "time"

// maxFrame caps the time fed to the accumulator so a long stall does not
// trigger a burst of catch-up steps.
const maxFrame = 250 * time.Millisecond

// Clock is a fixed-timestep accumulator. Each frame the elapsed wall time
// is added and whole steps are taken out; the remainder carries over.
type Clock struct {
	step        time.Duration
	accumulator time.Duration
	ticks       uint64
}

// NewClock creates a clock with the given step.
func NewClock(step time.Duration) *Clock {
	if step <= 0 {
		step = time.Second / 60
	}
	return &Clock{step: step}
}

// Step returns the fixed step duration.
func (c *Clock) Step() time.Duration {
	return c.step
}

// Advance adds elapsed time and returns how many whole steps to simulate.
func (c *Clock) Advance(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > maxFrame {
		elapsed = maxFrame
	}
	c.accumulator += elapsed

	n := 0
	for c.accumulator >= c.step {
		c.accumulator -= c.step
		n++
	}
	c.ticks += uint64(n)
	return n
}

// Freeze consumes elapsed time the same way Advance does but reports no
// steps, so simulation resumes without a catch-up burst.
func (c *Clock) Freeze(elapsed time.Duration) {
	c.Advance(elapsed)
}

// Ticks returns the number of steps taken so far, frozen ones included.
func (c *Clock) Ticks() uint64 {
	return c.ticks
}
