package frames

import (
	"github.com/matzehuels/asciiwipe/pkg/grid"
	"github.com/matzehuels/asciiwipe/pkg/noise"
)

// MinErodeSpan is the printable span a row must exceed before static is
// injected next to it. Narrower rows simply erode.
const MinErodeSpan = 2

// horizontalSteps returns the number of erosion steps for a row of the given
// width. Eroding from both edges needs half as many steps.
func horizontalSteps(width int, d Direction) int {
	if d == Left || d == Right {
		return width
	}
	return (width + 1) / 2
}

// staticRow returns the row that receives static for row r: the row above
// for rows below the centre, the row below otherwise.
func staticRow(r, height int) int {
	if r > (height-1)/2 {
		return r - 1
	}
	return r + 1
}

func horizontal(g grid.Grid, d Direction, pool noise.Pool, s noise.Sampler) List {
	list := List{g.Clone()}
	if g.Height() == 0 {
		return list
	}
	dense := pool.Dense()
	cells := g.Cells()
	spans := make([][2]int, len(cells))

	for step := horizontalSteps(g.Width(), d); step > 0; step-- {
		for r, row := range cells {
			first, last := grid.Span(row)
			spans[r] = [2]int{first, last}
			if first == -1 {
				continue
			}
			if d.fromStart() {
				row[first] = ' '
			}
			if d.fromEnd() {
				row[last] = ' '
			}
		}

		// Static goes in after every row has eroded so a cell blanked this
		// step can never be refilled.
		for r := range cells {
			first, last := spans[r][0], spans[r][1]
			if first == -1 || last-first <= MinErodeSpan {
				continue
			}
			nr := staticRow(r, len(cells))
			if nr < 0 || nr >= len(cells) {
				continue
			}
			if d.fromStart() {
				inject(cells[nr], first+1, dense, s)
			}
			if d.fromEnd() {
				inject(cells[nr], last-1, dense, s)
			}
		}
		list = append(list, grid.FromCells(cells))
	}
	return list
}

// inject places one noise rune at col if that cell still holds ink.
func inject(row []rune, col int, pool noise.Pool, s noise.Sampler) {
	if col < 0 || col >= len(row) || grid.IsBlankRune(row[col]) {
		return
	}
	row[col] = noise.Pick(pool, s)
}
