package playback

import (
	"time"

	"github.com/matzehuels/asciiwipe/pkg/sequence"
)

// Step handles one tick at time now and returns the next state together
// with the effects to perform, in order.
//
// A tick does nothing while stopped, paused or inside a phase pause. With an
// empty program, or when less than cfg.Speed has passed since the last
// effective tick, it only asks for the next tick. Otherwise it renders the
// current frame, then either stops (looping off, last pass, last frame of the
// last entry), starts a phase pause, or schedules the next tick, and
// advances the indexes.
func Step(s State, cfg Config, p sequence.Program, now time.Time) (State, []Effect) {
	if s.Stopped || s.Paused || s.InDelay {
		return s, nil
	}
	if p.Len() == 0 {
		return s, []Effect{{Kind: EffectSchedule}}
	}
	speed := cfg.Speed
	if speed <= 0 {
		speed = DefaultSpeed
	}
	if !s.LastTick.IsZero() && now.Sub(s.LastTick) < speed {
		return s, []Effect{{Kind: EffectSchedule}}
	}

	frame, ok := p.Frame(s.AnimationIndex, s.FrameIndex)
	if !ok {
		return s, []Effect{{Kind: EffectFault}}
	}
	effects := []Effect{{Kind: EffectRender, Text: frame.String()}}
	s.LastTick = now

	n := len(p[s.AnimationIndex])
	if !cfg.Loop && s.Iteration >= cfg.iterations() && s.FrameIndex == n-1 && s.AnimationIndex == p.Len()-1 {
		s.Stopped = true
		return s, append(effects, Effect{Kind: EffectStop})
	}

	pause, hasPause := PauseAfter(cfg, n, s.FrameIndex)
	s = advance(s, n, p.Len())

	if hasPause {
		s.InDelay = true
		return s, append(effects, pause)
	}
	return s, append(effects, Effect{Kind: EffectSchedule})
}

// PauseAfter returns the phase pause started after rendering frame f of an
// entry with n frames, if any. Fade programs pause on the fully built or
// fully erased grid at either end; loop programs pause at the midpoint, where
// the grid is fully built, and after the last frame.
func PauseAfter(cfg Config, n, f int) (Effect, bool) {
	isFirst := f == 0
	isLast := f == n-1
	isMid := f == n/2

	if cfg.Mode.IsFade() {
		switch {
		case isLast && cfg.Delay > 0:
			return Effect{Kind: EffectDelay, Duration: cfg.Delay, Phase: PhaseDelay}, true
		case isFirst && cfg.Interval > 0:
			return Effect{Kind: EffectDelay, Duration: cfg.Interval, Phase: PhaseInterval}, true
		}
		return Effect{}, false
	}
	switch {
	case isMid && cfg.Delay > 0:
		return Effect{Kind: EffectDelay, Duration: cfg.Delay, Phase: PhaseDelay}, true
	case isLast && cfg.Interval > 0:
		return Effect{Kind: EffectDelay, Duration: cfg.Interval, Phase: PhaseInterval}, true
	}
	return Effect{}, false
}

// advance moves to the next frame. Finishing an entry moves to the next one;
// finishing the last entry wraps to the first and counts a completed pass.
func advance(s State, frames, entries int) State {
	if s.FrameIndex < frames-1 {
		s.FrameIndex++
		return s
	}
	s.FrameIndex = 0
	s.AnimationIndex++
	if s.AnimationIndex >= entries {
		s.AnimationIndex = 0
		s.Iteration++
	}
	return s
}
