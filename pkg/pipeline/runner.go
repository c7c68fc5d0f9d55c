package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asciiwipe/pkg/cache"
	"github.com/matzehuels/asciiwipe/pkg/errors"
	"github.com/matzehuels/asciiwipe/pkg/fonts"
	"github.com/matzehuels/asciiwipe/pkg/glyph"
	"github.com/matzehuels/asciiwipe/pkg/grid"
	"github.com/matzehuels/asciiwipe/pkg/observability"
	"github.com/matzehuels/asciiwipe/pkg/sequence"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the HTTP server and the animator all use it, so caching logic
// lives in one place.
//
// The Runner is stateless except for the cache, source and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Source glyph.Source
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache, keyer and grid source.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If src is nil, a FigletSource without extra font directories is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, src glyph.Source, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if src == nil {
		src = glyph.NewFigletSource()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Source: src,
		Logger: logger,
	}
}

// Execute runs the complete glyph → generate pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Glyph
	glyphStart := time.Now()
	grids, glyphHit, err := r.GlyphsWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("glyph: %w", err)
	}
	result.Grids = grids
	result.GridsHash = HashGrids(grids)
	result.Stats.Entries = len(grids)
	result.Stats.GlyphTime = time.Since(glyphStart)
	result.CacheInfo.GlyphHit = glyphHit

	r.Logger.Info("rendered text",
		"entries", len(grids),
		"font", opts.Font,
		"duration", result.Stats.GlyphTime)

	// Stage 2: Generate
	genStart := time.Now()
	program, programHit, err := r.ProgramWithCacheInfo(ctx, grids, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Program = program
	result.Stats.Frames = program.TotalFrames()
	result.Stats.GenerateTime = time.Since(genStart)
	result.CacheInfo.ProgramHit = programHit

	r.Logger.Info("built program",
		"direction", opts.Direction,
		"mode", opts.Mode(),
		"frames", result.Stats.Frames,
		"duration", result.Stats.GenerateTime)

	return result, nil
}

// GlyphsWithCacheInfo renders every text entry with caching and reports
// whether all of them came from cache. Grids for fonts loaded from files are
// never cached, since the file may change.
func (r *Runner) GlyphsWithCacheInfo(ctx context.Context, opts Options) ([]grid.Grid, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGlyph(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Pipeline().OnGlyphStart(ctx, opts.Font, len(opts.Text))

	cacheable := !opts.Refresh && !fonts.IsPath(opts.Font)
	allHit := true
	grids := make([]grid.Grid, 0, len(opts.Text))
	for i, text := range opts.Text {
		key := r.Keyer.GridKey(text, opts.Font)
		if cacheable {
			if g, ok := r.cachedGrid(ctx, key); ok {
				grids = append(grids, g)
				continue
			}
		}
		allHit = false

		g, err := r.Source.Render(ctx, text, opts.Font)
		if err != nil {
			err = fmt.Errorf("entry %d: %w", i, err)
			observability.Pipeline().OnGlyphComplete(ctx, opts.Font, len(opts.Text), time.Since(start), err)
			return nil, false, err
		}
		opts.Logger.Debug("rendered entry", "index", i, "width", g.Width(), "height", g.Height())

		if cacheable {
			if data, err := MarshalGrid(g); err == nil {
				_ = r.Cache.Set(ctx, key, data, cache.GridTTL)
				observability.Cache().OnCacheSet(ctx, "grid", len(data))
			}
		}
		grids = append(grids, g)
	}

	observability.Pipeline().OnGlyphComplete(ctx, opts.Font, len(grids), time.Since(start), nil)
	return grids, allHit && len(grids) > 0, nil
}

func (r *Runner) cachedGrid(ctx context.Context, key string) (grid.Grid, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "grid")
		return nil, false
	}
	g, err := UnmarshalGrid(data)
	if err != nil {
		// Corrupt entry: fall through to re-render
		observability.Cache().OnCacheMiss(ctx, "grid")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "grid")
	return g, true
}

// Glyphs is a convenience wrapper that calls GlyphsWithCacheInfo and discards the cache hit info.
func (r *Runner) Glyphs(ctx context.Context, opts Options) ([]grid.Grid, error) {
	grids, _, err := r.GlyphsWithCacheInfo(ctx, opts)
	return grids, err
}

// ProgramWithCacheInfo builds the animation program for grids with caching
// and returns cache hit info. Only seeded programs are cached.
func (r *Runner) ProgramWithCacheInfo(ctx context.Context, grids []grid.Grid, opts Options) (sequence.Program, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, false, err
	}
	for i, g := range grids {
		if !g.Rectangular() {
			return nil, false, errors.New(errors.ErrCodeInvalidGrid, "entry %d: grid is not rectangular", i)
		}
	}

	key := r.Keyer.ProgramKey(HashGrids(grids), opts.ProgramKeyOpts())
	if opts.Cacheable() {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if p, err := UnmarshalProgram(data); err == nil && p.Len() == len(grids) {
				observability.Cache().OnCacheHit(ctx, "program")
				return p, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "program")
	}

	start := time.Now()
	observability.Pipeline().OnGenerateStart(ctx, opts.Direction, len(grids))
	p := sequence.Build(grids, opts.FrameOptions(), opts.Mode())
	observability.Pipeline().OnGenerateComplete(ctx, opts.Direction, p.TotalFrames(), time.Since(start))

	if opts.Cacheable() {
		if data, err := MarshalProgram(p); err == nil {
			_ = r.Cache.Set(ctx, key, data, cache.ProgramTTL)
			observability.Cache().OnCacheSet(ctx, "program", len(data))
		}
	}
	return p, false, nil
}

// Program is a convenience wrapper that calls ProgramWithCacheInfo and discards the cache hit info.
func (r *Runner) Program(ctx context.Context, grids []grid.Grid, opts Options) (sequence.Program, error) {
	p, _, err := r.ProgramWithCacheInfo(ctx, grids, opts)
	return p, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
