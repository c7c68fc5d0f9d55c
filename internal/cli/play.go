package cli

import (
	"context"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/asciiwipe/pkg/animator"
	"github.com/matzehuels/asciiwipe/pkg/pipeline"
	"github.com/matzehuels/asciiwipe/pkg/playback"
)

// playCommand creates the play command for animating text in the terminal.
func (c *CLI) playCommand() *cobra.Command {
	var (
		flags  animationFlags
		plain  bool
		paused bool
		hold   bool
		fps    int
	)

	cmd := &cobra.Command{
		Use:   "play [text...]",
		Short: "Animate text in the terminal",
		Long: `Animate text in the terminal. Each argument is one entry; entries play in
order. Use "-" to read entries from stdin, one per line.

The interactive player pauses with space and quits with q. With --plain, or
when stdout is not a terminal, frames are written to stdout instead.`,
		Example: `  asciiwipe play hello world
  asciiwipe play --direction down --loop "asciiwipe"
  asciiwipe play --fade-in --font slant --seed 42 hi`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd, c.cfg, args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("paused") {
				opts.Paused = paused
			}
			if plain || !opts.IsAnimated() || !isTerminal(os.Stdout) {
				return c.runPlayPlain(cmd.Context(), opts, flags.noCache, fps)
			}
			return c.runPlay(cmd.Context(), opts, flags.noCache, fps, hold)
		},
	}

	bindAnimationFlags(cmd, &flags)
	cmd.Flags().BoolVar(&plain, "plain", false, "write frames to stdout instead of the interactive player")
	cmd.Flags().BoolVar(&paused, "paused", false, "start paused")
	cmd.Flags().BoolVar(&hold, "hold", false, "keep the last frame on screen when playback ends")
	cmd.Flags().IntVar(&fps, "fps", playback.DefaultRefreshRate, "display refresh rate")

	return cmd
}

// runPlay builds the program and hands it to the bubbletea player.
func (c *CLI) runPlay(ctx context.Context, opts pipeline.Options, noCache bool, fps int, hold bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts.Logger = c.Logger
	spinner := newSpinnerWithContext(ctx, "Building frames...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	c.Logger.Debug("program ready", "entries", result.Stats.Entries, "frames", result.Stats.Frames, "cached", result.CacheInfo.ProgramHit)

	period := time.Second / time.Duration(max(fps, 1))
	model := NewPlayModel(result.Program, opts.PlaybackConfig(), period, strings.Join(opts.Text, " / "), hold)
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// runPlayPlain drives an animator that writes frames to stdout and waits
// until playback ends or ctx is cancelled.
func (c *CLI) runPlayPlain(ctx context.Context, opts pipeline.Options, noCache bool, fps int) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	sink := playback.NewWriterSink(os.Stdout, isTerminal(os.Stdout))
	anim := animator.New(runner, sink, playback.NewRefreshClock(fps), c.Logger)
	defer anim.Close()

	if err := anim.Configure(ctx, opts); err != nil {
		return err
	}
	if !opts.IsAnimated() {
		return nil
	}

	select {
	case <-anim.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
