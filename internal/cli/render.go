package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/asciiwipe/pkg/pipeline"
)

// renderCommand creates the render command, which draws text once without
// animating it.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		font    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [text...]",
		Short: "Draw text once without animation",
		Example: `  asciiwipe render hello
  asciiwipe render --font slant "two words"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.cfg.Animation
			if cmd.Flags().Changed("font") {
				opts.Font = font
			}
			opts.Text = args
			if len(args) == 1 && args[0] == "-" {
				lines, err := readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
				opts.Text = lines
			}
			opts.Static = true
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&font, "font", "f", "", "FIGlet font: built-in name, .flf file or URL")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, w io.Writer, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts.Logger = c.Logger
	grids, err := runner.Glyphs(ctx, opts)
	if err != nil {
		return err
	}
	for i, g := range grids {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, g.String())
	}
	return nil
}
