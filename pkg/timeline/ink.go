package timeline

import (
	"github.com/guptarohit/asciigraph"

	"github.com/matzehuels/asciiwipe/pkg/frames"
	"github.com/matzehuels/asciiwipe/pkg/sequence"
)

// Ink returns the non-blank cell count of every frame in l.
func Ink(l frames.List) []float64 {
	out := make([]float64, len(l))
	for i, g := range l {
		out[i] = float64(g.Ink())
	}
	return out
}

// ProgramInk returns the ink series of the whole program in playback order.
func ProgramInk(p sequence.Program) []float64 {
	var out []float64
	for _, l := range p {
		out = append(out, Ink(l)...)
	}
	return out
}

// ChartOptions sizes an ink chart. Zero values use asciigraph's defaults
// for width and a height of 10 rows.
type ChartOptions struct {
	Width   int
	Height  int
	Caption string
}

// InkChart plots series as an ASCII line chart. An empty series yields an
// empty string.
func InkChart(series []float64, opts ChartOptions) string {
	if len(series) == 0 {
		return ""
	}
	height := opts.Height
	if height <= 0 {
		height = 10
	}
	chartOpts := []asciigraph.Option{asciigraph.Height(height)}
	if opts.Width > 0 {
		chartOpts = append(chartOpts, asciigraph.Width(opts.Width))
	}
	if opts.Caption != "" {
		chartOpts = append(chartOpts, asciigraph.Caption(opts.Caption))
	}
	return asciigraph.Plot(series, chartOpts...)
}
