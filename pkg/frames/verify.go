package frames

import (
	"github.com/matzehuels/asciiwipe/pkg/errors"
	"github.com/matzehuels/asciiwipe/pkg/grid"
)

// Verify checks that l is a well-formed wipe of input: it starts with input,
// ends blank, keeps input's dimensions on every frame, and never turns a
// blank cell back into ink. The first violation found is returned as an
// ErrCodeInvalidGrid error.
func Verify(l List, input grid.Grid) error {
	if len(l) == 0 {
		return errors.New(errors.ErrCodeInvalidGrid, "frame list is empty")
	}
	if !l.First().Equal(input) {
		return errors.New(errors.ErrCodeInvalidGrid, "frame 0 differs from the input grid")
	}
	if !l.Last().IsBlank() {
		return errors.New(errors.ErrCodeInvalidGrid, "last frame is not blank")
	}
	w, h := input.Width(), input.Height()
	for i, f := range l {
		if f.Height() != h || f.Width() != w || !f.Rectangular() {
			return errors.New(errors.ErrCodeInvalidGrid,
				"frame %d is %dx%d, want %dx%d", i, f.Width(), f.Height(), w, h)
		}
		if i == 0 {
			continue
		}
		prev := l[i-1]
		for r := 0; r < h; r++ {
			for c := 0; c < w; c++ {
				if prev.CellBlank(r, c) && !f.CellBlank(r, c) {
					return errors.New(errors.ErrCodeInvalidGrid,
						"frame %d resurrects cell (%d,%d)", i, r, c)
				}
			}
		}
	}
	return nil
}
