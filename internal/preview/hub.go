package preview

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/richmedia/richmedia/backend-go/internal/geometry"
	"github.com/richmedia/richmedia/backend-go/internal/typeid"
)

// TokenValidator resolves a bearer token to a user id.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session // sessionID -> session
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*Session)}
}

func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	h.sessions[s.ID] = s
	n := len(h.sessions)
	h.mu.Unlock()

	slog.Info("preview session opened", "session", s.ID, "user", s.UserID, "sessions", n)
}

func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	_, ok := h.sessions[s.ID]
	delete(h.sessions, s.ID)
	h.mu.Unlock()

	s.stop()
	if ok {
		slog.Info("preview session closed", "session", s.ID)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// CloseAll closes every open session with StatusGoingAway.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for id, s := range h.sessions {
		sessions = append(sessions, s)
		delete(h.sessions, id)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.stop()
		s.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

// Handler upgrades preview connections. Sessions are anonymous unless a
// valid ?token= is supplied; an invalid token is rejected.
type Handler struct {
	hub            *Hub
	auth           TokenValidator
	fps            int
	reference      geometry.Size
	originPatterns []string
}

// NewHandler serves preview sessions for documents authored against the
// reference canvas.
func NewHandler(hub *Hub, auth TokenValidator, fps int, reference geometry.Size, originPatterns []string) *Handler {
	return &Handler{hub: hub, auth: auth, fps: fps, reference: reference, originPatterns: originPatterns}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := "anonymous"
	if token := r.URL.Query().Get("token"); token != "" {
		if h.auth == nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		var err error
		userID, err = h.auth.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	session := NewSession(h.hub, conn, typeid.NewSessionID(), userID, h.fps, h.reference)
	h.hub.Register(session)
	session.Welcome()

	ctx := r.Context()
	go session.WritePump(ctx)
	session.ReadPump(ctx)
}
