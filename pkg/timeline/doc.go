// Package timeline draws an animation program as seen by the playback
// scheduler.
//
// [ToDOT] lays the program out as a Graphviz digraph: one cluster per text
// entry, one node per frame and one edge per advance, with phase pauses
// labelled on the edge they delay. [RenderSVG] turns the DOT text into SVG.
//
// [InkChart] plots the number of non-blank cells per frame with asciigraph,
// which makes erosion bugs (a frame gaining ink while fading out) visible at
// a glance.
package timeline
