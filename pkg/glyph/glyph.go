// Package glyph converts text into character grids.
//
// The [Source] interface is the seam between the animation core and glyph
// rasterization. [FigletSource] implements it with FIGlet fonts, either the
// fonts bundled with github.com/common-nighthawk/go-figure or .flf files
// from disk or a URL, plus the [fonts.Plain] pass-through for text that is already
// ASCII art.
//
// Failures are reported with two codes: [errors.ErrCodeFontLoad] when the
// font cannot be loaded and [errors.ErrCodeNoOutput] when rendering produced
// nothing visible.
package glyph

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/common-nighthawk/go-figure"

	"github.com/matzehuels/asciiwipe/pkg/errors"
	"github.com/matzehuels/asciiwipe/pkg/fonts"
	"github.com/matzehuels/asciiwipe/pkg/grid"
	"github.com/matzehuels/asciiwipe/pkg/httputil"
)

// Source turns one text entry into a rectangular grid.
type Source interface {
	Render(ctx context.Context, text, font string) (grid.Grid, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, text, font string) (grid.Grid, error)

// Render calls f.
func (f SourceFunc) Render(ctx context.Context, text, font string) (grid.Grid, error) {
	return f(ctx, text, font)
}

// FigletSource renders text with FIGlet fonts.
type FigletSource struct {
	// FontDirs are searched for "<name>.flf" before the bundled fonts.
	FontDirs []string

	// Fetcher downloads fonts named by URL. A fetcher without a cache is
	// created on first use when nil.
	Fetcher *httputil.Fetcher

	once sync.Once
}

// NewFigletSource returns a FigletSource searching the given font
// directories.
func NewFigletSource(fontDirs ...string) *FigletSource {
	return &FigletSource{FontDirs: fontDirs}
}

// Fonts lists the fonts this source offers.
func (s *FigletSource) Fonts() []string {
	return fonts.List(s.FontDirs...)
}

// Render rasterizes text. Each line of text is rendered separately and the
// results are stacked, then padded into a rectangle.
func (s *FigletSource) Render(ctx context.Context, text, font string) (grid.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := fonts.Resolve(font, s.FontDirs...)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch {
	case f.IsRemote():
		data, err = s.fetcher().Fetch(ctx, f.URL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFontLoad, err, "failed to load font %q", f.URL)
		}
	case f.IsFile():
		data, err = os.ReadFile(f.Path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFontLoad, err, "failed to load font %q", f.Path)
		}
	}

	var rows []string
	for _, line := range strings.Split(text, "\n") {
		var out []string
		switch {
		case f.IsPlain():
			out = []string{line}
		case data != nil:
			out, err = renderFont(line, bytes.NewReader(data), f.Name)
		default:
			out, err = renderBuiltin(line, f.Name)
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, out...)
	}

	g := grid.Pad(rows)
	if g.Height() == 0 || g.IsBlank() {
		return nil, errors.New(errors.ErrCodeNoOutput, "no ASCII text generated for %q", text)
	}
	return g, nil
}

// renderBuiltin renders with a bundled font. go-figure panics on unknown
// font names, which is turned into a font-load error.
func renderBuiltin(text, name string) (rows []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, errors.Wrap(errors.ErrCodeFontLoad, fmt.Errorf("%v", r), "failed to load font %q", name)
		}
	}()
	return figure.NewFigure(text, name, false).Slicify(), nil
}

func renderFont(text string, font io.Reader, name string) (rows []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, errors.Wrap(errors.ErrCodeFontLoad, fmt.Errorf("%v", r), "failed to parse font %q", name)
		}
	}()
	return figure.NewFigureWithFont(text, font, false).Slicify(), nil
}

func (s *FigletSource) fetcher() *httputil.Fetcher {
	s.once.Do(func() {
		if s.Fetcher == nil {
			s.Fetcher = httputil.NewFetcher(nil)
		}
	})
	return s.Fetcher
}

// RenderAll renders every entry with the same font, in order. The first
// failure aborts and is returned with its code intact.
func RenderAll(ctx context.Context, src Source, texts []string, font string) ([]grid.Grid, error) {
	grids := make([]grid.Grid, 0, len(texts))
	for i, text := range texts {
		g, err := src.Render(ctx, text, font)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if !g.Rectangular() {
			return nil, errors.New(errors.ErrCodeInvalidGrid, "entry %d: source returned a non-rectangular grid", i)
		}
		grids = append(grids, g)
	}
	return grids, nil
}
