package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/asciiwipe/pkg/errors"
	"github.com/matzehuels/asciiwipe/pkg/frames"
	"github.com/matzehuels/asciiwipe/pkg/pipeline"
	"github.com/matzehuels/asciiwipe/pkg/timeline"
)

// inspectCommand creates the inspect command, which checks the generator
// invariants for each entry and charts how much ink each frame carries.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags animationFlags
		chart bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [text...]",
		Short: "Verify generated frames and chart ink per frame",
		Example: `  asciiwipe inspect --direction vertical hello
  asciiwipe inspect --chart=false --seed 3 a b c`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd, c.cfg, args)
			if err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), cmd.OutOrStdout(), opts, flags.noCache, chart)
		},
	}

	bindAnimationFlags(cmd, &flags)
	cmd.Flags().BoolVar(&chart, "chart", true, "draw an ink chart per entry")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, w io.Writer, opts pipeline.Options, noCache, chart bool) error {
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	grids, err := runner.Glyphs(ctx, opts)
	if err != nil {
		return err
	}

	failed := 0
	for i, g := range grids {
		list := frames.Generate(g, opts.FrameOptions())
		verr := frames.Verify(list, g)

		fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("entry %d: %q", i, opts.Text[i])))
		fmt.Fprintf(w, "  %dx%d grid, %d frames, direction %s\n", g.Width(), g.Height(), len(list), opts.Direction)
		if verr != nil {
			failed++
			fmt.Fprintln(w, "  "+styleIconError.Render(iconError)+" "+verr.Error())
		} else {
			fmt.Fprintln(w, "  "+styleIconSuccess.Render(iconSuccess)+" invariants hold")
		}
		if chart && len(list) > 1 {
			fmt.Fprintln(w, timeline.InkChart(timeline.Ink(list), timeline.ChartOptions{
				Height:  8,
				Caption: "ink per frame",
			}))
		}
	}
	if failed > 0 {
		return errors.New(errors.ErrCodeInternal, "%d of %d entries failed verification", failed, len(grids))
	}
	return nil
}
