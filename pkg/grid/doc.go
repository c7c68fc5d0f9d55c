// Package grid defines the character grid shared by every stage of asciiwipe.
//
// A [Grid] is an ordered sequence of rows of equal width, where width is
// counted in runes so that block and shade characters (█ ▒ ░) occupy exactly
// one cell. Grids are values: every operation returns a new grid and never
// mutates its receiver, which lets frame lists share rows freely.
//
// A cell is blank when it holds a whitespace rune. Blanking always writes a
// plain space.
package grid
