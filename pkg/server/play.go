package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/asciiwipe/pkg/animator"
	"github.com/matzehuels/asciiwipe/pkg/errors"
	"github.com/matzehuels/asciiwipe/pkg/pipeline"
	"github.com/matzehuels/asciiwipe/pkg/playback"
)

// Server message types on /v1/play.
const (
	MessageSession = "session"
	MessageFrame   = "frame"
	MessageError   = "error"
	MessageDone    = "done"
)

const writeWait = time.Second

// ClientMessage is sent by the client on /v1/play. Both fields may be set;
// options are applied before the pause state.
type ClientMessage struct {
	Options *pipeline.Options `json:"options,omitempty"`
	Paused  *bool             `json:"paused,omitempty"`
}

// ServerMessage is sent by the server on /v1/play.
type ServerMessage struct {
	Type    string    `json:"type"`
	Session string    `json:"session,omitempty"`
	Text    string    `json:"text,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// session is one /v1/play connection. It is also the animator's sink.
type session struct {
	id     string
	conn   *websocket.Conn
	logger *log.Logger

	writeMu sync.Mutex

	mu     sync.Mutex
	gen    uint64
	closed bool
}

func (s *session) send(msg ServerMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}

// SetText sends one frame.
func (s *session) SetText(text string) error {
	return s.send(ServerMessage{Type: MessageFrame, Text: text})
}

func (s *session) sendError(err error) {
	e := apiError(err)
	if sendErr := s.send(ServerMessage{Type: MessageError, Error: &e}); sendErr != nil {
		s.logger.Debug("send error", "error", sendErr)
	}
}

// bump starts a new configuration generation and returns it.
func (s *session) bump() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// watch sends "done" when playback of generation gen finishes, unless the
// session was reconfigured or closed meanwhile.
func (s *session) watch(done <-chan struct{}, gen uint64) {
	<-done
	s.mu.Lock()
	current := gen == s.gen && !s.closed
	s.mu.Unlock()
	if current {
		_ = s.send(ServerMessage{Type: MessageDone})
	}
}

func (s *session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.cfg.MaxBodyBytes)

	id := uuid.NewString()
	sess := &session{id: id, conn: conn, logger: s.logger.With("session", id)}

	anim := animator.New(s.cfg.Runner, sess, playback.NewRefreshClock(s.cfg.RefreshRate), sess.logger)
	defer func() {
		sess.close()
		anim.Close()
	}()

	if err := sess.send(ServerMessage{Type: MessageSession, Session: sess.id}); err != nil {
		return
	}
	sess.logger.Info("play session started")

	ctx := r.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sess.logger.Debug("read failed", "error", err)
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sess.sendError(errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid message"))
			continue
		}

		if msg.Options != nil {
			if err := s.checkFont(msg.Options.Font); err != nil {
				sess.sendError(err)
				continue
			}
			if err := anim.Configure(ctx, *msg.Options); err != nil {
				sess.sendError(err)
				continue
			}
			gen := sess.bump()
			if msg.Options.IsAnimated() {
				go sess.watch(anim.Done(), gen)
			}
		}
		if msg.Paused != nil {
			anim.SetPaused(*msg.Paused)
		}
	}
	sess.logger.Info("play session ended")
}
