package grid

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/asciiwipe/pkg/errors"
)

// Grid is a rectangular block of monospaced text, one string per row.
type Grid []string

// New returns the rows as a Grid, or an ErrCodeInvalidGrid error when the
// rows do not all share the same width.
func New(rows ...string) (Grid, error) {
	g := Grid(append([]string(nil), rows...))
	if !g.Rectangular() {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "rows have differing widths")
	}
	return g, nil
}

// Pad right-pads every row with spaces to the width of the widest row and
// returns the result as a rectangular Grid.
func Pad(rows []string) Grid {
	width := 0
	for _, r := range rows {
		width = max(width, utf8.RuneCountInString(r))
	}
	g := make(Grid, len(rows))
	for i, r := range rows {
		g[i] = r + strings.Repeat(" ", width-utf8.RuneCountInString(r))
	}
	return g
}

// Blank returns a grid of the given dimensions filled with spaces.
func Blank(width, height int) Grid {
	row := strings.Repeat(" ", width)
	g := make(Grid, height)
	for i := range g {
		g[i] = row
	}
	return g
}

// Width returns the width of the grid in runes (0 for an empty grid).
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return utf8.RuneCountInString(g[0])
}

// Height returns the number of rows.
func (g Grid) Height() int { return len(g) }

// Rectangular reports whether every row has the same rune width.
func (g Grid) Rectangular() bool {
	w := g.Width()
	for _, r := range g {
		if utf8.RuneCountInString(r) != w {
			return false
		}
	}
	return true
}

// IsBlank reports whether every cell of the grid is blank.
func (g Grid) IsBlank() bool {
	for _, r := range g {
		if !IsBlankRow(r) {
			return false
		}
	}
	return true
}

// Ink returns the number of non-blank cells.
func (g Grid) Ink() int {
	n := 0
	for _, row := range g {
		for _, r := range row {
			if !IsBlankRune(r) {
				n++
			}
		}
	}
	return n
}

// CellBlank reports whether the cell at (row, col) is blank.
// Out-of-range coordinates are reported as blank.
func (g Grid) CellBlank(row, col int) bool {
	if row < 0 || row >= len(g) || col < 0 {
		return true
	}
	i := 0
	for _, r := range g[row] {
		if i == col {
			return IsBlankRune(r)
		}
		i++
	}
	return true
}

// Equal reports whether both grids have identical rows.
func (g Grid) Equal(o Grid) bool {
	if len(g) != len(o) {
		return false
	}
	for i := range g {
		if g[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the grid that shares no backing array with g.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	return append(Grid(nil), g...)
}

// String joins the rows with line breaks, which is the text pushed to a
// rendering target.
func (g Grid) String() string {
	return strings.Join(g, "\n")
}

// Cells returns the grid as a mutable rune matrix.
func (g Grid) Cells() [][]rune {
	cells := make([][]rune, len(g))
	for i, r := range g {
		cells[i] = []rune(r)
	}
	return cells
}

// FromCells converts a rune matrix back into a Grid.
func FromCells(cells [][]rune) Grid {
	g := make(Grid, len(cells))
	for i, r := range cells {
		g[i] = string(r)
	}
	return g
}

// IsBlankRune reports whether r renders as an empty cell.
func IsBlankRune(r rune) bool { return unicode.IsSpace(r) }

// IsBlankRow reports whether a row contains only blank cells.
func IsBlankRow(row string) bool {
	return strings.TrimFunc(row, unicode.IsSpace) == ""
}

// Span returns the indexes of the first and last non-blank cells of a row,
// or (-1, -1) when the row is blank.
func Span(row []rune) (first, last int) {
	first, last = -1, -1
	for i, r := range row {
		if IsBlankRune(r) {
			continue
		}
		if first == -1 {
			first = i
		}
		last = i
	}
	return first, last
}

// Splice returns row with the rune at col replaced by r.
// Out-of-range columns return the row unchanged.
func Splice(row string, col int, r rune) string {
	cells := []rune(row)
	if col < 0 || col >= len(cells) {
		return row
	}
	cells[col] = r
	return string(cells)
}
