package frames

import (
	"strings"

	"github.com/matzehuels/asciiwipe/pkg/errors"
)

// Direction selects the wipe family and the edge(s) it starts from.
type Direction string

// Supported directions.
const (
	Up         Direction = "up"
	Down       Direction = "down"
	Left       Direction = "left"
	Right      Direction = "right"
	Horizontal Direction = "horizontal"
	Vertical   Direction = "vertical"
)

// DefaultDirection is used when no direction is configured.
const DefaultDirection = Horizontal

// Directions lists every supported direction in display order.
var Directions = []Direction{Up, Down, Left, Right, Horizontal, Vertical}

// ParseDirection parses a direction name case-insensitively.
// The empty string yields DefaultDirection.
func ParseDirection(s string) (Direction, error) {
	if s == "" {
		return DefaultDirection, nil
	}
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", errors.New(errors.ErrCodeInvalidDirection,
			"invalid direction: %q (must be one of: up, down, left, right, horizontal, vertical)", s)
	}
	return d, nil
}

// Valid reports whether d is a supported direction.
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right, Horizontal, Vertical:
		return true
	}
	return false
}

// IsVertical reports whether d belongs to the row-wise family.
func (d Direction) IsVertical() bool {
	return d == Up || d == Down || d == Vertical
}

// IsHorizontal reports whether d belongs to the column-wise family.
func (d Direction) IsHorizontal() bool {
	return d == Left || d == Right || d == Horizontal
}

// fromStart reports whether erosion starts at the leading edge
// (left column or top row).
func (d Direction) fromStart() bool {
	return d == Left || d == Horizontal || d == Up || d == Vertical
}

// fromEnd reports whether erosion starts at the trailing edge
// (right column or bottom row).
func (d Direction) fromEnd() bool {
	return d == Right || d == Horizontal || d == Down || d == Vertical
}
