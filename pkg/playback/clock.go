package playback

import "time"

// Clock is the host's timing primitive: a cancellable "call me on the next
// refresh" request and a cancellable timed wait.
type Clock interface {
	// RequestFrame calls fn with the current time at the next refresh.
	RequestFrame(fn func(now time.Time)) (cancel func())

	// AfterFunc calls fn once d has elapsed.
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// DefaultRefreshRate is the refresh rate of NewRefreshClock(0), in Hz.
const DefaultRefreshRate = 60

// RefreshClock is a Clock backed by runtime timers at a fixed refresh rate.
type RefreshClock struct {
	period time.Duration
}

// NewRefreshClock returns a clock that refreshes hz times per second.
// Non-positive rates use DefaultRefreshRate.
func NewRefreshClock(hz int) *RefreshClock {
	if hz <= 0 {
		hz = DefaultRefreshRate
	}
	return &RefreshClock{period: time.Second / time.Duration(hz)}
}

// Period returns the time between refreshes.
func (c *RefreshClock) Period() time.Duration { return c.period }

func (c *RefreshClock) RequestFrame(fn func(now time.Time)) func() {
	t := time.AfterFunc(c.period, func() { fn(time.Now()) })
	return func() { t.Stop() }
}

func (c *RefreshClock) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
