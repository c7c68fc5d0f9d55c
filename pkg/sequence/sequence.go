// Package sequence turns per-entry frame lists into the animation program
// that the playback scheduler walks.
//
// A [frames.List] always runs from the rendered grid to a blank one. The
// [Mode] decides how that list is played: forwards once (fade-out),
// backwards once (fade-in), or backwards then forwards (loop), so that a
// loop cycle starts and ends on the blank grid.
package sequence

import (
	"github.com/matzehuels/asciiwipe/pkg/errors"
	"github.com/matzehuels/asciiwipe/pkg/frames"
	"github.com/matzehuels/asciiwipe/pkg/grid"
)

// Mode selects how a frame list is composed.
type Mode string

const (
	Loop    Mode = "loop"
	FadeIn  Mode = "fade-in"
	FadeOut Mode = "fade-out"
)

// ModeFromFlags maps the fade flag pair to a Mode. When both flags are set
// fade-out wins.
func ModeFromFlags(fadeInOnly, fadeOutOnly bool) Mode {
	switch {
	case fadeOutOnly:
		return FadeOut
	case fadeInOnly:
		return FadeIn
	}
	return Loop
}

// ParseMode parses a mode name. The empty string yields Loop.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case "":
		return Loop, nil
	case Loop, FadeIn, FadeOut:
		return m, nil
	}
	return "", errors.New(errors.ErrCodeInvalidOptions,
		"invalid mode: %q (must be loop, fade-in or fade-out)", s)
}

// IsFade reports whether m plays a single one-way transition.
func (m Mode) IsFade() bool { return m == FadeIn || m == FadeOut }

// Compose returns the frames scheduled for one entry under mode m.
// The input list is not modified.
func Compose(l frames.List, m Mode) frames.List {
	switch m {
	case FadeOut:
		return append(frames.List(nil), l...)
	case FadeIn:
		return l.Reverse()
	}
	out := make(frames.List, 0, 2*len(l))
	out = append(out, l.Reverse()...)
	return append(out, l...)
}

// Program holds one composed frame list per text entry, in entry order.
type Program []frames.List

// Len returns the number of entries.
func (p Program) Len() int { return len(p) }

// Frame returns frame f of entry a, or false when either index is out of
// range.
func (p Program) Frame(a, f int) (grid.Grid, bool) {
	if a < 0 || a >= len(p) || f < 0 || f >= len(p[a]) {
		return nil, false
	}
	return p[a][f], true
}

// TotalFrames returns the number of frames across all entries.
func (p Program) TotalFrames() int {
	n := 0
	for _, l := range p {
		n += len(l)
	}
	return n
}

// Build generates and composes one frame list per grid. The generator runs
// once per entry and entries keep their order.
func Build(grids []grid.Grid, opts frames.Options, m Mode) Program {
	p := make(Program, 0, len(grids))
	for _, g := range grids {
		p = append(p, Compose(frames.Generate(g, opts), m))
	}
	return p
}
