// Package animator ties the pipeline and the playback scheduler together
// behind a single configuration call.
//
// An [Animator] owns one rendering target. Every call to
// [Animator.Configure] rebuilds the animation program from the options and
// restarts playback from the beginning; a grid source failure is reported on
// [Animator.Errors] and leaves the target showing whatever it showed before.
package animator

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asciiwipe/pkg/errors"
	"github.com/matzehuels/asciiwipe/pkg/pipeline"
	"github.com/matzehuels/asciiwipe/pkg/playback"
)

// errBuffer bounds the number of unread grid source errors kept for the
// consumer of Errors. Older unread errors are dropped first.
const errBuffer = 8

// Animator drives one rendering target from configuration.
type Animator struct {
	runner *pipeline.Runner
	sched  *playback.Scheduler
	sink   playback.Sink
	logger *log.Logger

	mu     sync.Mutex
	errs   chan error
	closed bool
	static bool
}

// New returns an animator rendering to sink. A nil clock uses a
// playback.RefreshClock; a nil logger discards output.
func New(runner *pipeline.Runner, sink playback.Sink, clock playback.Clock, logger *log.Logger) *Animator {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Animator{
		runner: runner,
		sched:  playback.NewScheduler(sink, clock, logger),
		sink:   sink,
		logger: logger,
		errs:   make(chan error, errBuffer),
	}
}

// Configure builds the program for opts and restarts playback with it.
//
// When opts.Static is set the first entry's fully rendered grid is drawn
// once and nothing is scheduled. Grid source failures are also sent to
// Errors; in that case playback and the rendering target are left as they
// were.
func (a *Animator) Configure(ctx context.Context, opts pipeline.Options) error {
	if opts.Logger == nil {
		opts.Logger = a.logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	if !opts.IsAnimated() {
		grids, err := a.runner.Glyphs(ctx, opts)
		if err != nil {
			return a.fail(err)
		}
		a.sched.Load(nil, playback.Config{StartPaused: true})
		a.setStatic(true)
		a.logger.Debug("static render", "width", grids[0].Width(), "height", grids[0].Height())
		return a.sink.SetText(grids[0].String())
	}

	res, err := a.runner.Execute(ctx, opts)
	if err != nil {
		return a.fail(err)
	}
	a.setStatic(false)
	a.sched.Load(res.Program, opts.PlaybackConfig())
	return nil
}

func (a *Animator) setStatic(static bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.static = static
}

func (a *Animator) fail(err error) error {
	if errors.IsGridSource(err) {
		a.report(err)
	}
	return err
}

func (a *Animator) report(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.logger.Error("grid source failed", "error", err)
	for {
		select {
		case a.errs <- err:
			return
		default:
		}
		select {
		case <-a.errs:
		default:
		}
	}
}

// Errors delivers grid source failures, one value per failed Configure.
// The channel is closed by Close.
func (a *Animator) Errors() <-chan error {
	return a.errs
}

// SetPaused pauses or resumes playback. It does nothing while a static
// render is shown, since there is nothing to tick.
func (a *Animator) SetPaused(paused bool) {
	a.mu.Lock()
	static := a.static
	a.mu.Unlock()
	if static {
		return
	}
	a.sched.SetPaused(paused)
}

// State returns the current playback state.
func (a *Animator) State() playback.State {
	return a.sched.Snapshot()
}

// Done is closed when the current program finishes or the animator is
// closed.
func (a *Animator) Done() <-chan struct{} {
	return a.sched.Done()
}

// Close stops playback for good.
func (a *Animator) Close() {
	a.sched.Close()
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.closed {
		a.closed = true
		close(a.errs)
	}
}
