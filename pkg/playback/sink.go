package playback

import (
	"io"
	"sync"
)

// Sink is a rendering target: anything that can display a block of text.
type Sink interface {
	SetText(text string) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(text string) error

// SetText calls f(text).
func (f SinkFunc) SetText(text string) error { return f(text) }

// ansiRedraw moves the cursor home and clears the screen.
const ansiRedraw = "\x1b[H\x1b[2J"

// WriterSink draws each frame over the previous one on a terminal stream.
type WriterSink struct {
	mu    sync.Mutex
	w     io.Writer
	clear bool
}

// NewWriterSink returns a sink writing to w. When redraw is true every frame
// is preceded by an ANSI home-and-clear sequence; otherwise frames are
// appended, separated by a blank line.
func NewWriterSink(w io.Writer, redraw bool) *WriterSink {
	return &WriterSink{w: w, clear: redraw}
}

func (s *WriterSink) SetText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := text + "\n"
	if s.clear {
		out = ansiRedraw + out
	} else {
		out += "\n"
	}
	_, err := io.WriteString(s.w, out)
	return err
}
