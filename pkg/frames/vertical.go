package frames

import (
	"github.com/matzehuels/asciiwipe/pkg/grid"
	"github.com/matzehuels/asciiwipe/pkg/noise"
)

// waves groups row indexes in erosion order: top-down for Up, bottom-up for
// Down, and both edges moving inward for Vertical.
func waves(height int, d Direction) [][]int {
	var out [][]int
	switch d {
	case Up:
		for r := 0; r < height; r++ {
			out = append(out, []int{r})
		}
	case Down:
		for r := height - 1; r >= 0; r-- {
			out = append(out, []int{r})
		}
	case Vertical:
		for top, bottom := 0, height-1; top <= bottom; top, bottom = top+1, bottom-1 {
			if top == bottom {
				out = append(out, []int{top})
			} else {
				out = append(out, []int{top, bottom})
			}
		}
	}
	return out
}

func vertical(g grid.Grid, d Direction, pool noise.Pool, spacing int, s noise.Sampler) List {
	list := List{g.Clone()}
	ws := waves(g.Height(), d)
	dense, spaced := pool.Dense(), pool.Spaced(spacing)
	cells := g.Cells()

	for i, wave := range ws {
		for _, r := range wave {
			noise.Scramble(cells[r], dense, s)
		}
		list = append(list, grid.FromCells(cells))

		for _, r := range wave {
			noise.Scramble(cells[r], spaced, s)
		}
		if i > 0 {
			blankRows(cells, ws[i-1])
		}
		list = append(list, grid.FromCells(cells))
	}
	return terminalBlankOut(list, cells, ws)
}

// terminalBlankOut appends the closing frame of a vertical wipe. Each wave is
// blanked one step after it turns to sparse static, so the last wave would
// otherwise be left on screen.
func terminalBlankOut(list List, cells [][]rune, ws [][]int) List {
	if len(ws) == 0 {
		return list
	}
	blankRows(cells, ws[len(ws)-1])
	return append(list, grid.FromCells(cells))
}
