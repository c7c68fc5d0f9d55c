package timeline

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/asciiwipe/pkg/frames"
	"github.com/matzehuels/asciiwipe/pkg/grid"
	"github.com/matzehuels/asciiwipe/pkg/playback"
	"github.com/matzehuels/asciiwipe/pkg/sequence"
)

func program() sequence.Program {
	return sequence.Program{
		frames.List{grid.Grid{"AB"}, grid.Grid{" B"}, grid.Grid{"  "}},
		frames.List{grid.Grid{"C"}, grid.Grid{" "}},
	}
}

func TestToDOT(t *testing.T) {
	cfg := playback.Config{Mode: sequence.FadeOut, Delay: 500 * time.Millisecond, Iterations: 1}
	dot := ToDOT(program(), Options{Config: cfg})

	for _, want := range []string{
		"digraph timeline {",
		"subgraph cluster_0",
		"subgraph cluster_1",
		`f0_0 [label="0.0\nink 2"]`,
		`f0_2 [label="0.2\nink 0", fillcolor=lightgrey]`,
		"f0_0 -> f0_1;",
		`f0_2 -> f1_0 [label="delay 500ms"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "f1_1 -> f0_0") {
		t.Error("single pass program should not wrap")
	}
}

func TestToDOTLoopWraps(t *testing.T) {
	cfg := playback.Config{Mode: sequence.Loop, Loop: true}
	dot := ToDOT(program(), Options{Config: cfg})
	if !strings.Contains(dot, "f1_1 -> f0_0 [style=dashed, constraint=false];") {
		t.Errorf("missing wrap edge:\n%s", dot)
	}
}

func TestToDOTPreview(t *testing.T) {
	p := sequence.Program{frames.List{grid.Grid{`a"b`, `c\d`}}}
	dot := ToDOT(p, Options{Preview: true})
	if !strings.Contains(dot, `a\"b\lc\\d\l`) {
		t.Errorf("preview not escaped:\n%s", dot)
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if strings.Contains(dot, "->") || strings.Contains(dot, "cluster") {
		t.Errorf("empty program produced nodes:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	dot := ToDOT(program(), Options{Config: playback.Config{Mode: sequence.Loop, Loop: true}})
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("output is not SVG: %.200s", svg)
	}
}

func TestRenderSVGInvalid(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected parse error")
	}
}

func TestInk(t *testing.T) {
	if got, want := ProgramInk(program()), []float64{2, 1, 0, 1, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("ProgramInk = %v, want %v", got, want)
	}
}

func TestInkChart(t *testing.T) {
	if got := InkChart(nil, ChartOptions{}); got != "" {
		t.Errorf("empty series = %q", got)
	}
	chart := InkChart([]float64{4, 3, 2, 1, 0}, ChartOptions{Height: 4, Caption: "ink per frame"})
	if !strings.Contains(chart, "ink per frame") {
		t.Errorf("caption missing:\n%s", chart)
	}
	if lines := strings.Count(chart, "\n"); lines < 4 {
		t.Errorf("chart has %d lines, want at least the plot height", lines)
	}
}
