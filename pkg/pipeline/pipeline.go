// Package pipeline provides the core text-to-animation pipeline for asciiwipe.
//
// This package implements the complete glyph → generate pipeline that is
// used by the CLI, the HTTP server and the animator. By centralizing this
// logic, every entry point applies the same defaults, validation and caching.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Glyph: Rasterize each text entry into a character grid
//  2. Generate: Build one wipe frame list per grid and compose them into an
//     animation program according to the playback mode
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, glyph.NewFigletSource(), logger)
//	opts := pipeline.Options{
//	    Text:      []string{"hello", "world"},
//	    Direction: "down",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	first := result.Program[0][0]
//
// Run individual stages:
//
//	grids, err := runner.Glyphs(ctx, opts)
//	program, err := runner.Program(ctx, grids, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asciiwipe/pkg/cache"
	"github.com/matzehuels/asciiwipe/pkg/errors"
	"github.com/matzehuels/asciiwipe/pkg/fonts"
	"github.com/matzehuels/asciiwipe/pkg/frames"
	"github.com/matzehuels/asciiwipe/pkg/grid"
	"github.com/matzehuels/asciiwipe/pkg/noise"
	"github.com/matzehuels/asciiwipe/pkg/playback"
	"github.com/matzehuels/asciiwipe/pkg/sequence"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Animator
// =============================================================================

const (
	// DefaultSpeedMS is the minimum time between frame advances.
	DefaultSpeedMS = 20

	// DefaultIterations is the number of passes when looping is off.
	DefaultIterations = 1

	// DefaultDelayMS and DefaultIntervalMS are the phase pauses applied by
	// the CLI and config files. Options leaves zero as "no pause".
	DefaultDelayMS    = 500
	DefaultIntervalMS = 1000
)

// DefaultDirection is the default wipe direction.
const DefaultDirection = string(frames.DefaultDirection)

// DefaultCharacters is the default noise pool.
const DefaultCharacters = noise.DefaultCharacters

// DefaultSpacing is the default number of blanks between spaced noise runes.
const DefaultSpacing = noise.DefaultSpacing

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for building and playing an animation.
// This struct supports JSON, TOML and YAML serialization for API requests
// and config files.
type Options struct {
	// Grid source
	Text []string `json:"text" toml:"text" yaml:"text"`
	Font string   `json:"font,omitempty" toml:"font,omitempty" yaml:"font,omitempty"`

	// Frame generation
	Direction        string `json:"direction,omitempty" toml:"direction,omitempty" yaml:"direction,omitempty"`
	Characters       string `json:"characters,omitempty" toml:"characters,omitempty" yaml:"characters,omitempty"`
	CharacterSpacing int    `json:"character_spacing,omitempty" toml:"character_spacing" yaml:"character_spacing"`
	FadeInOnly       bool   `json:"fade_in_only,omitempty" toml:"fade_in_only,omitempty" yaml:"fade_in_only,omitempty"`
	FadeOutOnly      bool   `json:"fade_out_only,omitempty" toml:"fade_out_only,omitempty" yaml:"fade_out_only,omitempty"`
	Seed             uint64 `json:"seed,omitempty" toml:"seed,omitempty" yaml:"seed,omitempty"` // 0 = random noise on every build

	// Playback
	DelayMS    int  `json:"delay_ms,omitempty" toml:"delay_ms" yaml:"delay_ms"`
	IntervalMS int  `json:"interval_ms,omitempty" toml:"interval_ms" yaml:"interval_ms"`
	SpeedMS    int  `json:"speed_ms,omitempty" toml:"speed_ms,omitempty" yaml:"speed_ms,omitempty"`
	Iterations int  `json:"iterations,omitempty" toml:"iterations,omitempty" yaml:"iterations,omitempty"`
	Loop       bool `json:"loop,omitempty" toml:"loop,omitempty" yaml:"loop,omitempty"`
	Static     bool `json:"static,omitempty" toml:"static,omitempty" yaml:"static,omitempty"` // Render once, never animate
	Paused     bool `json:"paused,omitempty" toml:"paused,omitempty" yaml:"paused,omitempty"`

	// Refresh bypasses cached grids and programs.
	Refresh bool `json:"refresh,omitempty" toml:"-" yaml:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-" yaml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Grids holds one rendered grid per text entry.
	Grids []grid.Grid

	// GridsHash is the content hash of Grids.
	GridsHash string

	// Program is the composed animation program.
	Program sequence.Program

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Entries      int
	Frames       int
	GlyphTime    time.Duration
	GenerateTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GlyphHit   bool // Whether every grid came from cache
	ProgramHit bool // Whether the program came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGlyph(); err != nil {
		return err
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForPlayback(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGlyph checks the text entries and font.
func (o *Options) ValidateForGlyph() error {
	if err := errors.ValidateText(o.Text); err != nil {
		return err
	}
	if err := errors.ValidateFontName(o.Font); err != nil {
		return err
	}
	if o.Font == "" {
		o.Font = fonts.Default
	}
	o.setLogger()
	return nil
}

// ValidateForGenerate checks and defaults the frame generation settings.
func (o *Options) ValidateForGenerate() error {
	d, err := frames.ParseDirection(o.Direction)
	if err != nil {
		return err
	}
	o.Direction = string(d)
	if err := errors.ValidateCharacters(o.Characters); err != nil {
		return err
	}
	if o.Characters == "" {
		o.Characters = DefaultCharacters
	}
	if err := errors.ValidateSpacing(o.CharacterSpacing); err != nil {
		return err
	}
	o.setLogger()
	return nil
}

// ValidateForPlayback checks and defaults the timing settings.
func (o *Options) ValidateForPlayback() error {
	if o.DelayMS < 0 || o.IntervalMS < 0 || o.SpeedMS < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "delay, interval and speed must not be negative")
	}
	if o.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "iterations must not be negative")
	}
	if o.SpeedMS == 0 {
		o.SpeedMS = DefaultSpeedMS
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	o.setLogger()
	return nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Mode returns the composition mode selected by the fade flags.
func (o *Options) Mode() sequence.Mode {
	return sequence.ModeFromFlags(o.FadeInOnly, o.FadeOutOnly)
}

// IsAnimated reports whether the text should be animated rather than drawn
// once.
func (o *Options) IsAnimated() bool {
	return !o.Static
}

// FrameOptions returns the generator settings. A fresh sampler is seeded
// from Seed on every call, so equal seeds build equal programs.
func (o *Options) FrameOptions() frames.Options {
	return frames.Options{
		Direction:  frames.Direction(o.Direction),
		Characters: o.Characters,
		Spacing:    o.CharacterSpacing,
		Sampler:    noise.NewSampler(o.Seed),
	}
}

// PlaybackConfig returns the scheduler settings.
func (o *Options) PlaybackConfig() playback.Config {
	return playback.Config{
		Speed:       time.Duration(o.SpeedMS) * time.Millisecond,
		Delay:       time.Duration(o.DelayMS) * time.Millisecond,
		Interval:    time.Duration(o.IntervalMS) * time.Millisecond,
		Iterations:  o.Iterations,
		Loop:        o.Loop,
		Mode:        o.Mode(),
		StartPaused: o.Paused,
	}
}

// ProgramKeyOpts returns cache key options for program generation.
func (o *Options) ProgramKeyOpts() cache.ProgramKeyOpts {
	return cache.ProgramKeyOpts{
		Direction:  o.Direction,
		Characters: o.Characters,
		Spacing:    o.CharacterSpacing,
		Mode:       string(o.Mode()),
		Seed:       o.Seed,
	}
}

// Cacheable reports whether generated programs may be cached. Unseeded
// programs draw fresh noise on every build and are never cached.
func (o *Options) Cacheable() bool {
	return o.Seed != 0 && !o.Refresh
}
