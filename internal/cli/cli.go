// Package cli implements the asciiwipe command-line interface.
//
// # Commands
//
//   - play: animate text in the terminal (bubbletea), or on plain stdout
//   - frames: dump the frames of an animation as text, JSON, DOT or SVG
//   - render: draw text once, without animation
//   - inspect: check generator invariants and chart ink per frame
//   - serve: run the HTTP and WebSocket API
//   - fonts: list available fonts
//   - cache: manage the local cache
//   - config: write or show the configuration file
//
// # Configuration
//
// Animation defaults come from a TOML or YAML file (--config, or
// $XDG_CONFIG_HOME/asciiwipe/config.toml when present). Flags given on the
// command line override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/asciiwipe/pkg/buildinfo"
	"github.com/matzehuels/asciiwipe/pkg/cache"
	"github.com/matzehuels/asciiwipe/pkg/config"
	"github.com/matzehuels/asciiwipe/pkg/glyph"
	"github.com/matzehuels/asciiwipe/pkg/httputil"
	"github.com/matzehuels/asciiwipe/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "asciiwipe"

	// configFile is the file looked up in the config directory.
	configFile = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath  string
	cacheTarget string
	cfg         *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "asciiwipe animates text with wipe and dissolve effects",
		Long: `asciiwipe renders text as ASCII art and animates it in and out, one
character grid at a time, with a directional wipe or dissolve.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml, .yaml)")
	root.PersistentFlags().StringVar(&c.cacheTarget, "cache", "", "cache: directory, file://, redis://, mongodb:// or none")

	root.AddCommand(c.playCommand())
	root.AddCommand(c.framesCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.fontsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default one if
// it exists.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(dir, configFile)
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded config", "path", path)
	c.cfg = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Remote fonts are cached in
// the same cache as grids and programs.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	src := glyph.NewFigletSource(c.cfg.FontDirs...)
	src.Fetcher = httputil.NewFetcher(ch)
	return pipeline.NewRunner(ch, nil, src, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	target := c.cacheTarget
	if target == "" {
		target = c.cfg.Cache
	}
	if target != "" {
		ch, err := cache.Open(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("open cache %s: %w", target, err)
		}
		return ch, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache dir %s: %w", dir, err)
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/asciiwipe/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/asciiwipe/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
