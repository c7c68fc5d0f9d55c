// Package frames synthesizes the frame list of a wipe transition: an ordered
// sequence of character grids that starts with a fully rendered grid and
// ends with a fully blank one.
//
// # Directions
//
// Two families are supported:
//
//   - Horizontal ([Left], [Right], [Horizontal]) erodes every row from its
//     outer non-blank cells toward the middle, leaving a trail of static in
//     the neighbouring row just inside the new edge.
//   - Vertical ([Up], [Down], [Vertical]) erodes whole rows: each wave of
//     rows turns into dense static, then sparse (spaced) static while the
//     previous wave disappears. A closing "terminal blank-out" frame clears
//     the final wave.
//
// # Guarantees
//
// For every input grid and direction, [Generate] returns a list where
//
//   - frame 0 equals the input,
//   - the last frame is blank,
//   - every frame has the input's dimensions, and
//   - erosion is monotonic: once a cell is blank it stays blank.
//
// The list length depends only on the grid dimensions and direction.
// Horizontal wipes take ceil(width/2) steps ([Left] and [Right] take width
// steps because they erode from one side only) and produce 1+steps frames.
// Vertical wipes produce 2+2*waves frames, where a wave is one row ([Up],
// [Down]) or one row from each edge ([Vertical]).
//
// Which noise rune fills a cell is random; everything else is structural.
// Pass a seeded [noise.Sampler] in [Options] to make output reproducible.
package frames
