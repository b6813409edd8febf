package billboard

import "time"

// FrameRate is reset whenever the pass output changes meaning, so averaged
// timings do not mix two different workloads.
type FrameRate interface {
	Reset()
}

// DefaultClockWindow is the number of frames a Clock averages over.
const DefaultClockWindow = 60

// Clock is a FrameRate that keeps a moving average of frame times.
type Clock struct {
	now     func() time.Time
	samples []time.Duration
	next    int
	filled  int
	last    time.Time
	resets  int
}

var _ FrameRate = (*Clock)(nil)

// NewClock creates a clock averaging over window frames.
// A non-positive window uses DefaultClockWindow.
func NewClock(window int) *Clock {
	if window <= 0 {
		window = DefaultClockWindow
	}
	return &Clock{
		now:     time.Now,
		samples: make([]time.Duration, window),
	}
}

// NewFrame records the end of a frame.
func (c *Clock) NewFrame() {
	t := c.now()
	if !c.last.IsZero() {
		c.samples[c.next] = t.Sub(c.last)
		c.next = (c.next + 1) % len(c.samples)
		c.filled = min(c.filled+1, len(c.samples))
	}
	c.last = t
}

// Reset drops every recorded sample.
func (c *Clock) Reset() {
	for i := range c.samples {
		c.samples[i] = 0
	}
	c.next = 0
	c.filled = 0
	c.last = time.Time{}
	c.resets++
}

// Resets returns how many times Reset was called.
func (c *Clock) Resets() int { return c.resets }

// Average returns the mean frame time, or 0 before two frames were seen.
func (c *Clock) Average() time.Duration {
	if c.filled == 0 {
		return 0
	}
	var sum time.Duration
	for i := 0; i < c.filled; i++ {
		sum += c.samples[i]
	}
	return sum / time.Duration(c.filled)
}

// FPS returns frames per second derived from Average.
func (c *Clock) FPS() float64 {
	avg := c.Average()
	if avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}
