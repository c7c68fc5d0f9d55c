package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/asciiwipe/pkg/errors"
	"github.com/matzehuels/asciiwipe/pkg/fonts"
	"github.com/matzehuels/asciiwipe/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(Config{
		Runner:      pipeline.NewRunner(nil, nil, nil, nil),
		RefreshRate: 1000,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postFrames(t *testing.T, ts *httptest.Server, query, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/frames"+query, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) APIError {
	t.Helper()
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body.Error
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		t.Errorf("health = %d %+v", resp.StatusCode, body)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t)
	const id = "7f1c2b8e-4a65-4a0b-9d8e-3f1e2a9c4b5d"
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request ID = %q, want %q", got, id)
	}
}

func TestFonts(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/fonts")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body FontsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Default != fonts.Default || !slices.Contains(body.Fonts, "slant") {
		t.Errorf("fonts = %+v", body)
	}
}

func TestFramesJSON(t *testing.T) {
	ts := newTestServer(t)
	resp := postFrames(t, ts, "", `{"text":["AB","C"],"font":"plain","direction":"left","fade_out_only":true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body FramesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(body.Entries))
	}
	want := [][]string{{"AB"}, {" B"}, {"  "}}
	if got := body.Entries[0].Frames; !slices.EqualFunc(got, want, slices.Equal[[]string]) {
		t.Errorf("entry 0 frames = %q, want %q", got, want)
	}
	if e := body.Entries[1]; e.Width != 1 || e.Height != 1 || len(e.Frames) != 2 {
		t.Errorf("entry 1 = %+v", e)
	}
	if body.Stats.Frames != 5 {
		t.Errorf("stats.frames = %d, want 5", body.Stats.Frames)
	}
}

func TestFramesLoopMode(t *testing.T) {
	ts := newTestServer(t)
	resp := postFrames(t, ts, "", `{"text":["AB"],"font":"plain","direction":"left"}`)
	var body FramesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	frames := body.Entries[0].Frames
	if len(frames) != 6 {
		t.Fatalf("loop frames = %d, want 6", len(frames))
	}
	if frames[0][0] != "  " || frames[2][0] != "AB" || frames[3][0] != "AB" || frames[5][0] != "  " {
		t.Errorf("loop program = %q", frames)
	}
}

func TestFramesDOT(t *testing.T) {
	ts := newTestServer(t)
	resp := postFrames(t, ts, "?format=dot", `{"text":["AB"],"font":"plain"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("content type = %q", ct)
	}
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.HasPrefix(buf.String(), "digraph timeline {") {
		t.Errorf("body = %q", buf.String())
	}
}

func TestFramesErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   errors.Code
	}{
		{"bad json", "", `{"text":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", "", `{"text":["a"],"colour":"red"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"no text", "", `{"text":[]}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad direction", "", `{"text":["a"],"direction":"diagonal"}`, http.StatusBadRequest, errors.ErrCodeInvalidDirection},
		{"bad format", "?format=png", `{"text":["a"]}`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"font file", "", `{"text":["a"],"font":"/etc/passwd"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"remote font", "", `{"text":["a"],"font":"http://example.com/x.flf"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown font", "", `{"text":["a"],"font":"nosuchfont"}`, http.StatusUnprocessableEntity, errors.ErrCodeFontLoad},
		{"blank text", "", `{"text":["   "],"font":"plain"}`, http.StatusUnprocessableEntity, errors.ErrCodeNoOutput},
	}
	ts := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postFrames(t, ts, tt.query, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if e := decodeError(t, resp); e.Code != tt.code {
				t.Errorf("code = %s (%s), want %s", e.Code, e.Message, tt.code)
			}
		})
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/render?text=ab&text=c&font=plain")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if resp.StatusCode != http.StatusOK || buf.String() != "ab\nc \n" {
		t.Errorf("render = %d %q", resp.StatusCode, buf.String())
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidGrid, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeNoOutput, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeNetwork, "x"), http.StatusBadGateway},
		{errors.New(errors.ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{http.ErrHandlerTimeout, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

// =============================================================================
// /v1/play
// =============================================================================

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/play"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	msg := read(t, conn)
	if msg.Type != MessageSession || msg.Session == "" {
		t.Fatalf("first message = %+v, want session", msg)
	}
	return conn
}

func read(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	return msg
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatal(err)
	}
}

// readUntilDone collects frame texts until the done message.
func readUntilDone(t *testing.T, conn *websocket.Conn) []string {
	t.Helper()
	var texts []string
	for {
		msg := read(t, conn)
		switch msg.Type {
		case MessageFrame:
			texts = append(texts, msg.Text)
		case MessageDone:
			return texts
		default:
			t.Fatalf("unexpected message %+v", msg)
		}
	}
}

func TestPlayStreamsFrames(t *testing.T) {
	conn := dial(t, newTestServer(t))
	send(t, conn, map[string]any{"options": map[string]any{
		"text": []string{"AB"}, "font": "plain", "direction": "left",
		"fade_out_only": true, "speed_ms": 1,
	}})

	got := readUntilDone(t, conn)
	want := []string{"AB", " B", "  "}
	if !slices.Equal(got, want) {
		t.Errorf("frames = %q, want %q", got, want)
	}
}

func TestPlayPausedStart(t *testing.T) {
	conn := dial(t, newTestServer(t))
	send(t, conn, map[string]any{"options": map[string]any{
		"text": []string{"AB"}, "font": "plain", "direction": "left",
		"fade_out_only": true, "speed_ms": 1, "paused": true,
	}})

	conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
	var msg ServerMessage
	if err := conn.ReadJSON(&msg); err == nil {
		t.Fatalf("received %+v while paused", msg)
	}

	// A read deadline poisons the connection, so resume on a new one.
	conn = dial(t, newTestServer(t))
	send(t, conn, map[string]any{"options": map[string]any{
		"text": []string{"AB"}, "font": "plain", "direction": "left",
		"fade_out_only": true, "speed_ms": 1, "paused": true,
	}})
	send(t, conn, map[string]any{"paused": false})
	if got := readUntilDone(t, conn); len(got) != 3 {
		t.Errorf("frames after resume = %q", got)
	}
}

func TestPlayErrors(t *testing.T) {
	conn := dial(t, newTestServer(t))

	tests := []struct {
		name string
		raw  string
		code errors.Code
	}{
		{"bad json", `{"options":`, errors.ErrCodeInvalidInput},
		{"validation", `{"options":{"text":[]}}`, errors.ErrCodeInvalidInput},
		{"font load", `{"options":{"text":["a"],"font":"nosuchfont"}}`, errors.ErrCodeFontLoad},
		{"font file", `{"options":{"text":["a"],"font":"./x.flf"}}`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.raw)); err != nil {
				t.Fatal(err)
			}
			msg := read(t, conn)
			if msg.Type != MessageError || msg.Error == nil || msg.Error.Code != tt.code {
				t.Errorf("reply = %+v, want error %s", msg, tt.code)
			}
		})
	}
}

func TestPlayFailedReconfigureKeepsProgram(t *testing.T) {
	conn := dial(t, newTestServer(t))
	send(t, conn, map[string]any{"options": map[string]any{
		"text": []string{"AB"}, "font": "plain", "direction": "left",
		"fade_out_only": true, "speed_ms": 20, "paused": true,
	}})
	send(t, conn, map[string]any{"options": map[string]any{"text": []string{"x"}, "font": "nosuchfont"}})

	msg := read(t, conn)
	if msg.Type != MessageError || msg.Error.Code != errors.ErrCodeFontLoad {
		t.Fatalf("reply = %+v, want FONT_LOAD error", msg)
	}

	send(t, conn, map[string]any{"paused": false})
	if got := readUntilDone(t, conn); !slices.Equal(got, []string{"AB", " B", "  "}) {
		t.Errorf("frames = %q, want the original program", got)
	}
}

func TestPlayStatic(t *testing.T) {
	conn := dial(t, newTestServer(t))
	send(t, conn, map[string]any{"options": map[string]any{
		"text": []string{"ab\ncd"}, "font": "plain", "static": true,
	}})
	msg := read(t, conn)
	if msg.Type != MessageFrame || msg.Text != "ab\ncd" {
		t.Errorf("static reply = %+v", msg)
	}
}
