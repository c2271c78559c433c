package preview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/richmedia/richmedia/backend-go/internal/engine"
	"github.com/richmedia/richmedia/backend-go/internal/geometry"
	"github.com/richmedia/richmedia/backend-go/internal/validate"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 4 << 20
)

// Session streams frames of one document to one websocket client. The
// client drives the player with load/seek/play/pause/block messages; while
// playing, a frame is pushed every 1/fps seconds.
type Session struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
	fps  int

	ID     string
	UserID string

	mu     sync.Mutex
	player *engine.Player
	seq    int64
}

// NewSession starts a player that renders onto reference until the client
// sends a canvas message. Documents are validated against reference.
func NewSession(hub *Hub, conn *websocket.Conn, id, userID string, fps int, reference geometry.Size) *Session {
	if fps <= 0 {
		fps = 30
	}
	return &Session{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 64),
		done:   make(chan struct{}),
		fps:    fps,
		ID:     id,
		UserID: userID,
		player: engine.NewPlayer(reference, reference),
	}
}

// Welcome queues the greeting message.
func (s *Session) Welcome() {
	s.mu.Lock()
	canvas := s.player.State().Canvas
	s.mu.Unlock()
	s.sendMessage(TypeWelcome, WelcomePayload{SessionID: s.ID, FPS: s.fps, Canvas: canvas})
}

func (s *Session) ReadPump(ctx context.Context) {
	defer func() {
		s.hub.Unregister(s)
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	s.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "session", s.ID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "session", s.ID)
			s.sendError(errors.New("invalid message"))
			continue
		}

		s.handleMessage(&msg)
	}
}

func (s *Session) WritePump(ctx context.Context) {
	frameTicker := time.NewTicker(time.Second / time.Duration(s.fps))
	pingTicker := time.NewTicker(pingPeriod)
	defer func() {
		frameTicker.Stop()
		pingTicker.Stop()
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-s.send:
			if err := s.write(ctx, message); err != nil {
				slog.Debug("write error", "error", err, "session", s.ID)
				return
			}

		case <-frameTicker.C:
			s.tick(1 / float64(s.fps))

		case <-pingTicker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-s.done:
			return

		case <-ctx.Done():
			return
		}
	}
}

// stop ends the write pump. Safe to call more than once.
func (s *Session) stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *Session) write(ctx context.Context, message []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return s.conn.Write(writeCtx, websocket.MessageText, message)
}

func (s *Session) handleMessage(msg *Message) {
	s.mu.Lock()
	err := s.apply(msg)
	s.mu.Unlock()

	if err != nil {
		s.sendError(err)
		return
	}
	s.pushFrame()
}

// apply runs one client command against the player. Callers hold s.mu.
func (s *Session) apply(msg *Message) error {
	switch msg.Type {
	case TypeLoad:
		var p LoadPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return errors.New("invalid load payload")
		}
		return s.player.LoadJSON(p.Document)

	case TypeSeek:
		var p SeekPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return errors.New("invalid seek payload")
		}
		s.player.Seek(p.Elapsed)

	case TypeBlock:
		var p BlockPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return errors.New("invalid block payload")
		}
		return s.player.SetBlock(p.Block)

	case TypeCanvas:
		var p CanvasPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return errors.New("invalid canvas payload")
		}
		s.player.SetCanvas(p.Canvas)
		s.player.SetMediaSize(p.Media)

	case TypePlay:
		s.player.Play()

	case TypePause:
		s.player.Pause()

	default:
		slog.Warn("unknown message type", "type", msg.Type, "session", s.ID)
		return errors.New("unknown message type " + msg.Type)
	}
	return nil
}

// tick advances a playing player and pushes the frame.
func (s *Session) tick(dt float64) {
	s.mu.Lock()
	playing := s.player.IsPlaying() && s.player.Document() != nil
	if playing {
		s.player.Advance(dt)
	}
	s.mu.Unlock()

	if playing {
		s.pushFrame()
	}
}

func (s *Session) pushFrame() {
	s.mu.Lock()
	frame, err := s.player.Render()
	state := s.player.State()
	s.mu.Unlock()
	if err != nil {
		// Nothing loaded yet.
		return
	}

	s.sendMessage(TypeFrame, FramePayload{
		State:    state,
		Frame:    frame,
		Commands: engine.CompileDrawCommands(frame),
	})
}

func (s *Session) sendError(err error) {
	p := ErrorPayload{Error: err.Error()}
	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		p.Kind = verr.Kind
		p.Path = verr.Path
	}
	s.sendMessage(TypeError, p)
}

func (s *Session) sendMessage(typ string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal payload", "error", err)
		return
	}

	s.mu.Lock()
	s.seq++
	msg := Message{Type: typ, SessionID: s.ID, Seq: s.seq, Payload: raw}
	s.mu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case <-s.done:
	case s.send <- data:
	default:
		slog.Warn("session send buffer full, dropping message", "session", s.ID)
	}
}
