package timeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/asciiwipe/pkg/playback"
	"github.com/matzehuels/asciiwipe/pkg/sequence"
)

// Options configures timeline rendering.
type Options struct {
	// Config supplies the phase pauses and looping behaviour.
	Config playback.Config

	// Preview adds each frame's text to its node label.
	Preview bool
}

// ToDOT converts a program to Graphviz DOT format.
func ToDOT(p sequence.Program, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph timeline {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=12];\n")
	buf.WriteString("  edge [fontsize=10];\n")

	for a, l := range p {
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", a)
		fmt.Fprintf(&buf, "    label=\"entry %d\";\n", a)
		buf.WriteString("    style=dashed;\n")
		for f, g := range l {
			label := fmt.Sprintf("%d.%d\\nink %d", a, f, g.Ink())
			if opts.Preview {
				label += "\\l" + escape(g.String()) + "\\l"
			}
			attrs := fmt.Sprintf("label=\"%s\"", label)
			if g.IsBlank() {
				attrs += ", fillcolor=lightgrey"
			}
			fmt.Fprintf(&buf, "    %s [%s];\n", nodeID(a, f), attrs)
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for a, l := range p {
		for f := range l {
			na, nf, ok := next(p, a, f)
			if !ok {
				continue
			}
			var attrs []string
			if pause, ok := playback.PauseAfter(opts.Config, len(l), f); ok {
				attrs = append(attrs, fmt.Sprintf("label=\"%s %s\"", pause.Phase, pause.Duration))
			}
			if na == 0 && nf == 0 {
				if !opts.Config.Loop && opts.Config.Iterations <= 1 {
					continue
				}
				attrs = append(attrs, "style=dashed", "constraint=false")
			}
			fmt.Fprintf(&buf, "  %s -> %s", nodeID(a, f), nodeID(na, nf))
			if len(attrs) > 0 {
				fmt.Fprintf(&buf, " [%s]", strings.Join(attrs, ", "))
			}
			buf.WriteString(";\n")
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// next returns the position played after (a, f), wrapping to the start.
func next(p sequence.Program, a, f int) (int, int, bool) {
	if p.Len() == 0 {
		return 0, 0, false
	}
	if f < len(p[a])-1 {
		return a, f + 1, true
	}
	return (a + 1) % p.Len(), 0, true
}

func nodeID(a, f int) string {
	return fmt.Sprintf("f%d_%d", a, f)
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\l`)

func escape(s string) string {
	return dotEscaper.Replace(s)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
