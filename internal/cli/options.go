package cli

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/asciiwipe/pkg/config"
	"github.com/matzehuels/asciiwipe/pkg/pipeline"
)

// animationFlags holds the flags shared by play, frames, render and inspect.
type animationFlags struct {
	opts    pipeline.Options
	noCache bool
}

// bindAnimationFlags registers the animation flags on cmd. Their defaults
// mirror config.Default so that help output matches what runs without a
// config file.
func bindAnimationFlags(cmd *cobra.Command, a *animationFlags) {
	d := config.Default().Animation
	f := cmd.Flags()
	f.StringVarP(&a.opts.Font, "font", "f", d.Font, "FIGlet font: built-in name, .flf file or URL")
	f.StringVarP(&a.opts.Direction, "direction", "d", d.Direction, "wipe direction: up, down, left, right, horizontal, vertical")
	f.StringVar(&a.opts.Characters, "characters", d.Characters, "noise character pool")
	f.IntVar(&a.opts.CharacterSpacing, "spacing", d.CharacterSpacing, "blanks between characters of spaced noise rows")
	f.BoolVar(&a.opts.FadeInOnly, "fade-in", false, "only build the text up")
	f.BoolVar(&a.opts.FadeOutOnly, "fade-out", false, "only wipe the text away")
	f.Uint64Var(&a.opts.Seed, "seed", 0, "noise seed (0 draws fresh noise; seeded programs are cached)")
	f.IntVar(&a.opts.DelayMS, "delay", d.DelayMS, "pause in ms on the fully built text")
	f.IntVar(&a.opts.IntervalMS, "interval", d.IntervalMS, "pause in ms between entries")
	f.IntVar(&a.opts.SpeedMS, "speed", d.SpeedMS, "minimum ms between frames")
	f.IntVarP(&a.opts.Iterations, "iterations", "n", d.Iterations, "passes over all entries when not looping")
	f.BoolVarP(&a.opts.Loop, "loop", "l", false, "play until interrupted")
	f.BoolVar(&a.opts.Refresh, "refresh", false, "rebuild grids and programs even if cached")
	f.BoolVar(&a.noCache, "no-cache", false, "disable caching")
}

// resolve merges the loaded config with the flags the user actually set and
// the text arguments. Text given as "-" is read from stdin, one entry per
// line.
func (a *animationFlags) resolve(cmd *cobra.Command, cfg *config.Config, args []string) (pipeline.Options, error) {
	opts := cfg.Animation
	opts.Text = append([]string(nil), opts.Text...)
	mergeChanged(cmd, &opts, a.opts)

	if len(args) == 1 && args[0] == "-" {
		lines, err := readLines(cmd.InOrStdin())
		if err != nil {
			return opts, err
		}
		args = lines
	}
	if len(args) > 0 {
		opts.Text = args
	}
	return opts, nil
}

// mergeChanged copies every flag value the user set explicitly into opts.
func mergeChanged(cmd *cobra.Command, opts *pipeline.Options, set pipeline.Options) {
	changed := cmd.Flags().Changed
	if changed("font") {
		opts.Font = set.Font
	}
	if changed("direction") {
		opts.Direction = set.Direction
	}
	if changed("characters") {
		opts.Characters = set.Characters
	}
	if changed("spacing") {
		opts.CharacterSpacing = set.CharacterSpacing
	}
	if changed("fade-in") {
		opts.FadeInOnly = set.FadeInOnly
	}
	if changed("fade-out") {
		opts.FadeOutOnly = set.FadeOutOnly
	}
	if changed("seed") {
		opts.Seed = set.Seed
	}
	if changed("delay") {
		opts.DelayMS = set.DelayMS
	}
	if changed("interval") {
		opts.IntervalMS = set.IntervalMS
	}
	if changed("speed") {
		opts.SpeedMS = set.SpeedMS
	}
	if changed("iterations") {
		opts.Iterations = set.Iterations
	}
	if changed("loop") {
		opts.Loop = set.Loop
	}
	opts.Refresh = set.Refresh
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimRight(sc.Text(), "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
