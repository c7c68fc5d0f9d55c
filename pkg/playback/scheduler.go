package playback

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asciiwipe/pkg/observability"
	"github.com/matzehuels/asciiwipe/pkg/sequence"
)

// Scheduler drives one playback. It is safe for concurrent use; clock
// callbacks, Load and the pause controls serialize on an internal mutex, so
// at most one tick is ever processed at a time. Sink writes happen outside
// that mutex, so a slow sink never blocks Pause, Load or Snapshot, and a
// sink may call back into the Scheduler.
type Scheduler struct {
	sinkMu  sync.Mutex
	mu      sync.Mutex
	sink    Sink
	clock   Clock
	logger  *log.Logger
	program sequence.Program
	cfg     Config
	state   State
	gen     uint64
	loads   uint64
	cancel  func()
	done    chan struct{}
	closed  bool
}

// NewScheduler returns an idle scheduler rendering to sink. A nil clock
// uses a RefreshClock at DefaultRefreshRate; a nil logger discards output.
func NewScheduler(sink Sink, clock Clock, logger *log.Logger) *Scheduler {
	if clock == nil {
		clock = NewRefreshClock(DefaultRefreshRate)
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Scheduler{
		sink:   sink,
		clock:  clock,
		logger: logger,
		state:  Initial(false),
		done:   make(chan struct{}),
	}
}

// Load replaces the program, resets the state and starts a fresh tick chain
// unless cfg.StartPaused is set. Ticks and pauses issued for the previous
// program become no-ops.
func (s *Scheduler) Load(p sequence.Program, cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.invalidate()
	s.loads++
	s.program = p
	s.cfg = cfg
	s.state = Initial(cfg.StartPaused)
	select {
	case <-s.done:
		s.done = make(chan struct{})
	default:
	}
	s.logger.Debug("program loaded", "entries", p.Len(), "frames", p.TotalFrames(), "mode", cfg.Mode)
	if !s.state.Paused {
		s.schedule()
	}
}

// Pause cancels the pending tick or phase pause. Indexes are kept.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state.Paused {
		return
	}
	s.invalidate()
	s.state = Pause(s.state)
}

// Resume continues from the indexes where Pause left off.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.state.Paused {
		return
	}
	s.state = Resume(s.state)
	if !s.state.Stopped {
		s.schedule()
	}
}

// SetPaused pauses or resumes.
func (s *Scheduler) SetPaused(paused bool) {
	if paused {
		s.Pause()
	} else {
		s.Resume()
	}
}

// Close stops the scheduler for good and closes Done.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.invalidate()
	s.closed = true
	s.finish()
}

// Snapshot returns a copy of the current state.
func (s *Scheduler) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done returns a channel closed when the current program stops, faults or
// the scheduler is closed. Load after a stop hands out a new channel.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// invalidate cancels pending callbacks and bumps the generation so any that
// already fired are ignored. Callers hold s.mu.
func (s *Scheduler) invalidate() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Scheduler) schedule() {
	gen := s.gen
	s.cancel = s.clock.RequestFrame(func(now time.Time) { s.tick(gen, now) })
}

func (s *Scheduler) tick(gen uint64, now time.Time) {
	s.sinkMu.Lock()
	defer s.sinkMu.Unlock()

	s.mu.Lock()
	if gen != s.gen || s.closed {
		s.mu.Unlock()
		return
	}
	s.cancel = nil
	a, f := s.state.AnimationIndex, s.state.FrameIndex
	next, effects := Step(s.state, s.cfg, s.program, now)
	s.state = next
	var texts []string
	stop := false
	for _, e := range effects {
		switch e.Kind {
		case EffectRender:
			texts = append(texts, e.Text)
		case EffectStop, EffectFault:
			stop = true
			s.apply(e, a, f)
		default:
			s.apply(e, a, f)
		}
	}
	loads := s.loads
	s.mu.Unlock()

	for _, text := range texts {
		if !s.current(loads) {
			return
		}
		observability.Playback().OnRender(a, f)
		if err := s.sink.SetText(text); err != nil {
			s.logger.Warn("render failed", "animation", a, "frame", f, "error", err)
		}
	}
	if stop {
		s.mu.Lock()
		if s.loads == loads {
			s.finish()
		}
		s.mu.Unlock()
	}
}

// current reports whether no Load or Close happened since loads was read.
func (s *Scheduler) current(loads uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.loads == loads
}

// apply handles every effect but Render, which tick writes to the sink
// after releasing s.mu. Callers hold s.mu.
func (s *Scheduler) apply(e Effect, a, f int) {
	switch e.Kind {
	case EffectSchedule:
		s.schedule()
	case EffectDelay:
		observability.Playback().OnDelay(string(e.Phase), e.Duration)
		gen := s.gen
		s.cancel = s.clock.AfterFunc(e.Duration, func() { s.endDelay(gen) })
	case EffectStop:
		observability.Playback().OnStop(s.state.Iteration)
		s.logger.Debug("playback finished", "iterations", s.state.Iteration)
	case EffectFault:
		observability.Playback().OnFault(a, f)
		s.logger.Error("no frame at playback position", "animation", a, "frame", f)
	}
}

func (s *Scheduler) endDelay(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.closed {
		return
	}
	s.state = EndDelay(s.state)
	s.schedule()
}

func (s *Scheduler) finish() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
