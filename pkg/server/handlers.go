package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/asciiwipe/pkg/buildinfo"
	"github.com/matzehuels/asciiwipe/pkg/errors"
	"github.com/matzehuels/asciiwipe/pkg/fonts"
	"github.com/matzehuels/asciiwipe/pkg/pipeline"
	"github.com/matzehuels/asciiwipe/pkg/timeline"
)

// Frame formats accepted by POST /v1/frames?format=.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// FontsResponse is the body of GET /v1/fonts.
type FontsResponse struct {
	Default string   `json:"default"`
	Fonts   []string `json:"fonts"`
}

// FramesResponse is the JSON body of POST /v1/frames.
type FramesResponse struct {
	Entries []Entry     `json:"entries"`
	Stats   Stats       `json:"stats"`
	Cache   CacheStatus `json:"cache"`
}

// Entry is the frame list of one text entry, each frame as its rows.
type Entry struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Frames [][]string `json:"frames"`
}

// Stats reports pipeline timings in milliseconds.
type Stats struct {
	Frames     int     `json:"frames"`
	GlyphMS    float64 `json:"glyph_ms"`
	GenerateMS float64 `json:"generate_ms"`
}

// CacheStatus reports which stages were served from cache.
type CacheStatus struct {
	Glyph   bool `json:"glyph"`
	Program bool `json:"program"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleFonts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, FontsResponse{Default: fonts.Default, Fonts: s.fontList()})
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatDOT && format != FormatSVG {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want json, dot or svg)", format))
		return
	}

	opts, err := s.decodeOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.cfg.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch format {
	case FormatDOT, FormatSVG:
		dot := timeline.ToDOT(res.Program, timeline.Options{Config: opts.PlaybackConfig()})
		if format == FormatDOT {
			w.Header().Set("Content-Type", "text/vnd.graphviz")
			_, _ = io.WriteString(w, dot)
			return
		}
		svg, err := timeline.RenderSVG(r.Context(), dot)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render timeline"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
		return
	}

	resp := FramesResponse{
		Entries: make([]Entry, 0, res.Program.Len()),
		Stats: Stats{
			Frames:     res.Stats.Frames,
			GlyphMS:    float64(res.Stats.GlyphTime.Microseconds()) / 1000,
			GenerateMS: float64(res.Stats.GenerateTime.Microseconds()) / 1000,
		},
		Cache: CacheStatus{Glyph: res.CacheInfo.GlyphHit, Program: res.CacheInfo.ProgramHit},
	}
	for i, l := range res.Program {
		e := Entry{Width: res.Grids[i].Width(), Height: res.Grids[i].Height(), Frames: make([][]string, len(l))}
		for j, g := range l {
			e.Frames[j] = []string(g)
		}
		resp.Entries = append(resp.Entries, e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRender draws the first entry once: GET /v1/render?text=Hi&font=slant.
// Repeat text for stacked lines.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := pipeline.Options{Text: q["text"], Font: q.Get("font"), Static: true}
	if len(opts.Text) > 1 {
		opts.Text = []string{strings.Join(opts.Text, "\n")}
	}
	if v := q.Get("refresh"); v != "" {
		opts.Refresh, _ = strconv.ParseBool(v)
	}
	if err := s.checkFont(opts.Font); err != nil {
		s.writeError(w, r, err)
		return
	}
	grids, err := s.cfg.Runner.Glyphs(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, grids[0].String()+"\n")
}

// decodeOptions reads pipeline options from the request body.
func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	if err := s.checkFont(opts.Font); err != nil {
		return opts, err
	}
	return opts, nil
}

// checkFont rejects font identifiers the server must not load.
func (s *Server) checkFont(font string) error {
	switch {
	case fonts.IsURL(font) && !s.cfg.AllowRemoteFonts:
		return errors.New(errors.ErrCodeInvalidInput, "remote fonts are disabled on this server")
	case fonts.IsPath(font):
		return errors.New(errors.ErrCodeInvalidInput, "font files are not accepted; use a font name")
	}
	return nil
}
