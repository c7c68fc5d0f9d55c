package frames

import (
	"github.com/matzehuels/asciiwipe/pkg/grid"
	"github.com/matzehuels/asciiwipe/pkg/noise"
)

// Options configures frame generation.
type Options struct {
	// Direction selects the wipe family and edges. Default: horizontal.
	Direction Direction

	// Characters is the noise pool. Default: noise.DefaultCharacters.
	Characters string

	// Spacing is the number of blanks between characters of the spaced pool
	// used on sparse static rows. Zero means no blanks.
	Spacing int

	// Sampler picks noise runes. Nil means a time-seeded sampler.
	Sampler noise.Sampler
}

// List is an ordered, non-empty sequence of frames for one text entry.
type List []grid.Grid

// First returns the first frame.
func (l List) First() grid.Grid { return l[0] }

// Last returns the last frame.
func (l List) Last() grid.Grid { return l[len(l)-1] }

// Reverse returns a new list with the frames in reverse order.
// Frames are immutable, so they are shared with l.
func (l List) Reverse() List {
	out := make(List, len(l))
	for i, f := range l {
		out[len(l)-1-i] = f
	}
	return out
}

// Generate builds the fade-out frame list for g: frame 0 is g itself and the
// last frame is blank. It panics if g is not rectangular, which is a
// programming error on the caller's side.
func Generate(g grid.Grid, opts Options) List {
	if !g.Rectangular() {
		panic("frames: generate called with a non-rectangular grid")
	}
	d := opts.Direction
	if d == "" {
		d = DefaultDirection
	}
	s := opts.Sampler
	if s == nil {
		s = noise.NewSampler(0)
	}
	pool := noise.NewPool(opts.Characters)

	if d.IsVertical() {
		return vertical(g, d, pool, opts.Spacing, s)
	}
	return horizontal(g, d, pool, s)
}

// Len returns the number of frames Generate produces for a grid of the given
// dimensions.
func Len(width, height int, d Direction) int {
	if d == "" {
		d = DefaultDirection
	}
	if d.IsVertical() {
		n := len(waves(height, d))
		if n == 0 {
			return 1
		}
		return 2 + 2*n
	}
	if height == 0 {
		return 1
	}
	return 1 + horizontalSteps(width, d)
}

func blankRows(cells [][]rune, rows []int) {
	for _, r := range rows {
		for i := range cells[r] {
			cells[r][i] = ' '
		}
	}
}
