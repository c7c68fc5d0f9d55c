package animator

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/asciiwipe/pkg/errors"
	"github.com/matzehuels/asciiwipe/pkg/glyph"
	"github.com/matzehuels/asciiwipe/pkg/grid"
	"github.com/matzehuels/asciiwipe/pkg/pipeline"
	"github.com/matzehuels/asciiwipe/pkg/playback"
)

type recordingSink struct {
	mu    sync.Mutex
	texts []string
}

func (s *recordingSink) SetText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
	return nil
}

func (s *recordingSink) Texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

var plainSource = glyph.SourceFunc(func(_ context.Context, text, font string) (grid.Grid, error) {
	if font == "missing" {
		return nil, errors.New(errors.ErrCodeFontLoad, "failed to load font %q", font)
	}
	return grid.Pad(strings.Split(text, "\n")), nil
})

func newAnimator(sink playback.Sink) *Animator {
	runner := pipeline.NewRunner(nil, nil, plainSource, nil)
	return New(runner, sink, playback.NewRefreshClock(1000), nil)
}

func waitDone(t *testing.T, a *Animator) {
	t.Helper()
	select {
	case <-a.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("playback did not finish")
	}
}

func TestConfigurePlaysEveryFrameOnce(t *testing.T) {
	sink := &recordingSink{}
	a := newAnimator(sink)
	defer a.Close()

	opts := pipeline.Options{
		Text:        []string{"ABCD", "EF"},
		Direction:   "left",
		FadeOutOnly: true,
		SpeedMS:     1,
		Seed:        1,
	}
	if err := a.Configure(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	waitDone(t, a)

	// left wipe: 1+width frames per entry
	want := (1 + 4) + (1 + 2)
	got := sink.Texts()
	if len(got) != want {
		t.Fatalf("rendered %d frames, want %d", len(got), want)
	}
	if got[0] != "ABCD" || got[5] != "EF" {
		t.Errorf("entry starts = %q, %q", got[0], got[5])
	}
	if !a.State().Stopped {
		t.Error("state not stopped")
	}
}

func TestConfigureGridSourceError(t *testing.T) {
	sink := &recordingSink{}
	a := newAnimator(sink)
	defer a.Close()

	err := a.Configure(context.Background(), pipeline.Options{Text: []string{"A"}, Font: "missing"})
	if !errors.Is(err, errors.ErrCodeFontLoad) {
		t.Fatalf("Configure error = %v, want FONT_LOAD", err)
	}

	select {
	case got := <-a.Errors():
		if !errors.IsGridSource(got) {
			t.Errorf("reported %v, want a grid source error", got)
		}
	default:
		t.Fatal("error not reported on Errors()")
	}
	select {
	case extra := <-a.Errors():
		t.Errorf("error reported twice: %v", extra)
	default:
	}

	time.Sleep(20 * time.Millisecond)
	if len(sink.Texts()) != 0 {
		t.Errorf("sink changed after failure: %v", sink.Texts())
	}
}

func TestConfigureValidationErrorNotReported(t *testing.T) {
	a := newAnimator(&recordingSink{})
	defer a.Close()

	if err := a.Configure(context.Background(), pipeline.Options{}); err == nil {
		t.Fatal("expected validation error")
	}
	select {
	case err := <-a.Errors():
		t.Errorf("validation error reported on Errors(): %v", err)
	default:
	}
}

func TestConfigureStatic(t *testing.T) {
	sink := &recordingSink{}
	a := newAnimator(sink)
	defer a.Close()

	opts := pipeline.Options{Text: []string{"AB\nC", "other"}, Static: true}
	if err := a.Configure(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)

	got := sink.Texts()
	if len(got) != 1 || got[0] != "AB\nC " {
		t.Errorf("static render = %q, want exactly one full grid", got)
	}
}

// countingClock counts frame requests made through it.
type countingClock struct {
	playback.Clock
	frames atomic.Int64
}

func (c *countingClock) RequestFrame(fn func(time.Time)) func() {
	c.frames.Add(1)
	return c.Clock.RequestFrame(fn)
}

func TestStaticIgnoresSetPaused(t *testing.T) {
	sink := &recordingSink{}
	clock := &countingClock{Clock: playback.NewRefreshClock(1000)}
	a := New(pipeline.NewRunner(nil, nil, plainSource, nil), sink, clock, nil)
	defer a.Close()

	if err := a.Configure(context.Background(), pipeline.Options{Text: []string{"HI"}, Static: true}); err != nil {
		t.Fatal(err)
	}
	a.SetPaused(false)
	time.Sleep(50 * time.Millisecond)

	if n := clock.frames.Load(); n != 0 {
		t.Errorf("static render requested %d frames after SetPaused(false)", n)
	}
	if got := sink.Texts(); len(got) != 1 || got[0] != "HI" {
		t.Errorf("static render = %q", got)
	}

	// An animated configuration afterwards plays normally.
	if err := a.Configure(context.Background(), pipeline.Options{Text: []string{"ABC"}, FadeOutOnly: true, SpeedMS: 1, Paused: true}); err != nil {
		t.Fatal(err)
	}
	a.SetPaused(false)
	waitDone(t, a)
	if n := len(sink.Texts()); n != 1+3 {
		t.Errorf("rendered %d texts, want static render plus 3 frames", n)
	}
}

func TestConfigureReplacesProgram(t *testing.T) {
	sink := &recordingSink{}
	a := newAnimator(sink)
	defer a.Close()
	ctx := context.Background()

	looping := pipeline.Options{Text: []string{"OLD"}, Loop: true, SpeedMS: 1}
	if err := a.Configure(ctx, looping); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	if err := a.Configure(ctx, pipeline.Options{Text: []string{"NEW"}, FadeOutOnly: true, SpeedMS: 1}); err != nil {
		t.Fatal(err)
	}
	waitDone(t, a)

	got := sink.Texts()
	if got[len(got)-1] != "   " {
		t.Errorf("last frame = %q, want blank grid of the new program", got[len(got)-1])
	}
	newStart := -1
	for i, s := range got {
		if s == "NEW" {
			newStart = i
		}
	}
	if newStart == -1 {
		t.Fatal("new program never rendered")
	}
	for _, s := range got[newStart:] {
		if strings.ContainsAny(s, "OLD") {
			t.Errorf("old program frame %q rendered after reload", s)
		}
	}
}

func TestSetPaused(t *testing.T) {
	sink := &recordingSink{}
	a := newAnimator(sink)
	defer a.Close()

	opts := pipeline.Options{Text: []string{"ABC"}, FadeOutOnly: true, SpeedMS: 1, Paused: true}
	if err := a.Configure(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	if n := len(sink.Texts()); n != 0 {
		t.Fatalf("rendered %d frames while paused", n)
	}

	a.SetPaused(false)
	waitDone(t, a)
	if n := len(sink.Texts()); n != 3 {
		t.Errorf("rendered %d frames, want 3", n)
	}
}

func TestCloseClosesErrors(t *testing.T) {
	a := newAnimator(&recordingSink{})
	a.Close()
	a.Close()
	if _, ok := <-a.Errors(); ok {
		t.Error("Errors() not closed")
	}
	select {
	case <-a.Done():
	default:
		t.Error("Done() not closed")
	}
}
