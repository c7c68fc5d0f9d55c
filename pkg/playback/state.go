// Package playback walks an animation program on a clock.
//
// The core is [Step], a pure transition from one [State] to the next that
// returns the side effects the caller must perform (render a frame, request
// the next tick, start a phase pause, stop). Keeping it pure means every
// timing rule can be tested without a real timer.
//
// [Scheduler] is the driver that owns one State, one [Sink] and one [Clock]
// and performs the effects. A generation counter makes any tick or pause
// timer that was issued before a Load, Pause or Close a no-op when it fires.
package playback

import (
	"time"

	"github.com/matzehuels/asciiwipe/pkg/sequence"
)

// DefaultSpeed is the minimum time between effective ticks when none is
// configured.
const DefaultSpeed = 20 * time.Millisecond

// Config holds the timing and iteration settings of a playback.
type Config struct {
	// Speed is the minimum time between two effective ticks.
	Speed time.Duration

	// Delay is the pause at the mid-point (loop mode) or after the last
	// frame (fade modes).
	Delay time.Duration

	// Interval is the pause after the last frame (loop mode) or on the first
	// frame (fade modes).
	Interval time.Duration

	// Iterations is the number of full passes over the program before
	// stopping. Values below 1 mean 1. Ignored when Loop is set.
	Iterations int

	// Loop plays the program indefinitely.
	Loop bool

	// Mode is the composition mode the program was built with.
	Mode sequence.Mode

	// StartPaused makes Load start in the paused state.
	StartPaused bool
}

func (c Config) iterations() int {
	return max(c.Iterations, 1)
}

// State is the position and flags of one playback.
type State struct {
	AnimationIndex int
	FrameIndex     int
	Iteration      int
	Paused         bool
	InDelay        bool
	Stopped        bool
	LastTick       time.Time
}

// Initial returns the state a freshly loaded program starts from.
func Initial(paused bool) State {
	return State{Iteration: 1, Paused: paused}
}

// EffectKind identifies a side effect requested by Step.
type EffectKind int

const (
	// EffectRender sets the rendering target's text to Effect.Text.
	EffectRender EffectKind = iota
	// EffectSchedule requests the next tick.
	EffectSchedule
	// EffectDelay starts a phase pause of Effect.Duration. EndDelay must be
	// applied when it elapses, after which ticking resumes.
	EffectDelay
	// EffectStop ends playback. No further ticks may be requested.
	EffectStop
	// EffectFault reports that no frame exists at the current indexes.
	// Ticking stops for this program.
	EffectFault
)

func (k EffectKind) String() string {
	switch k {
	case EffectRender:
		return "render"
	case EffectSchedule:
		return "schedule"
	case EffectDelay:
		return "delay"
	case EffectStop:
		return "stop"
	case EffectFault:
		return "fault"
	}
	return "unknown"
}

// Phase names which configured pause an EffectDelay comes from.
type Phase string

const (
	PhaseDelay    Phase = "delay"
	PhaseInterval Phase = "interval"
)

// Effect is one side effect returned by Step.
type Effect struct {
	Kind     EffectKind
	Text     string
	Duration time.Duration
	Phase    Phase
}

// Pause returns s with playback paused. Indexes are untouched.
func Pause(s State) State {
	s.Paused = true
	return s
}

// Resume returns s unpaused. A phase pause interrupted by Pause is not
// resumed; playback continues at the already advanced indexes.
func Resume(s State) State {
	s.Paused = false
	s.InDelay = false
	return s
}

// EndDelay returns s with the phase pause cleared.
func EndDelay(s State) State {
	s.InDelay = false
	return s
}
