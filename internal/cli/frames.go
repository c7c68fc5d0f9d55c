package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/asciiwipe/pkg/errors"
	"github.com/matzehuels/asciiwipe/pkg/pipeline"
	"github.com/matzehuels/asciiwipe/pkg/sequence"
	"github.com/matzehuels/asciiwipe/pkg/timeline"
)

// Output formats of the frames command.
const (
	formatText = "text"
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

var framesFormats = []string{formatText, formatJSON, formatDOT, formatSVG}

// framesEntry is the JSON form of one entry's frame list.
type framesEntry struct {
	Text   string     `json:"text"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Frames [][]string `json:"frames"`
}

// framesDocument is the JSON document written by "frames --format json".
type framesDocument struct {
	Mode    string        `json:"mode"`
	Entries []framesEntry `json:"entries"`
}

// framesCommand creates the frames command for dumping generated frames.
func (c *CLI) framesCommand() *cobra.Command {
	var (
		flags   animationFlags
		format  string
		output  string
		preview bool
	)

	cmd := &cobra.Command{
		Use:   "frames [text...]",
		Short: "Write the frames of an animation",
		Long: `Build the animation program for the given text and write it out instead of
playing it. Formats:

  text  every frame, separated by a header line
  json  frames per entry with grid dimensions
  dot   the playback timeline as a Graphviz graph
  svg   the timeline rendered with Graphviz`,
		Example: `  asciiwipe frames --direction left --seed 1 hi
  asciiwipe frames --format svg -o timeline.svg hello world`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd, c.cfg, args)
			if err != nil {
				return err
			}
			if format == "" {
				format = formatFromExt(output)
			}
			return c.runFrames(cmd.Context(), cmd.OutOrStdout(), opts, flags.noCache, format, output, preview)
		},
	}

	bindAnimationFlags(cmd, &flags)
	cmd.Flags().StringVar(&format, "format", "", "output format: "+strings.Join(framesFormats, ", ")+" (default from -o extension, else text)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&preview, "preview", false, "show frame text in timeline nodes (dot, svg)")

	return cmd
}

func (c *CLI) runFrames(ctx context.Context, stdout io.Writer, opts pipeline.Options, noCache bool, format, output string, preview bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built %d frames in %d entries", result.Stats.Frames, result.Stats.Entries))

	var buf bytes.Buffer
	switch format {
	case formatText:
		writeFramesText(&buf, result.Program)
	case formatJSON:
		err = writeFramesJSON(&buf, result.Program, opts)
	case formatDOT, formatSVG:
		dot := timeline.ToDOT(result.Program, timeline.Options{Config: opts.PlaybackConfig(), Preview: preview})
		if format == formatDOT {
			buf.WriteString(dot)
			break
		}
		var svg []byte
		svg, err = timeline.RenderSVG(ctx, dot)
		buf.Write(svg)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want one of %s)", format, strings.Join(framesFormats, ", "))
	}
	if err != nil {
		return err
	}

	if output == "" {
		_, err = stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printStats(result.Stats.Entries, result.Stats.Frames, result.CacheInfo.ProgramHit)
	printFile(output)
	return nil
}

// formatFromExt picks the output format from a file name.
func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON
	case ".dot", ".gv":
		return formatDOT
	case ".svg":
		return formatSVG
	}
	return formatText
}

// writeFramesText writes every frame preceded by a header naming its
// position in the program.
func writeFramesText(w io.Writer, p sequence.Program) {
	for a, entry := range p {
		for f, g := range entry {
			fmt.Fprintf(w, "--- entry %d frame %d/%d\n", a, f+1, len(entry))
			fmt.Fprintln(w, g.String())
		}
	}
}

func writeFramesJSON(w io.Writer, p sequence.Program, opts pipeline.Options) error {
	doc := framesDocument{Mode: string(opts.Mode()), Entries: make([]framesEntry, len(p))}
	for a, entry := range p {
		e := framesEntry{Frames: make([][]string, len(entry))}
		if a < len(opts.Text) {
			e.Text = opts.Text[a]
		}
		if len(entry) > 0 {
			e.Width, e.Height = entry.First().Width(), entry.First().Height()
		}
		for f, g := range entry {
			e.Frames[f] = []string(g)
		}
		doc.Entries[a] = e
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
