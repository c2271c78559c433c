package preview

import (
	"encoding/json"

	"github.com/richmedia/richmedia/backend-go/internal/engine"
	"github.com/richmedia/richmedia/backend-go/internal/geometry"
	"github.com/richmedia/richmedia/backend-go/internal/validate"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client -> server
	TypeLoad   = "load"
	TypeSeek   = "seek"
	TypePlay   = "play"
	TypePause  = "pause"
	TypeBlock  = "block"
	TypeCanvas = "canvas"

	// Server -> client
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeError   = "error"
)

// LoadPayload carries a document in wire format.
type LoadPayload struct {
	Document json.RawMessage `json:"document"`
}

type SeekPayload struct {
	Elapsed float64 `json:"elapsed"`
}

type BlockPayload struct {
	Block int `json:"block"`
}

type CanvasPayload struct {
	Canvas geometry.Size `json:"canvas"`
	Media  geometry.Size `json:"media"`
}

type WelcomePayload struct {
	SessionID string        `json:"sessionId"`
	FPS       int           `json:"fps"`
	Canvas    geometry.Size `json:"canvas"`
}

type FramePayload struct {
	State    engine.PlaybackState `json:"state"`
	Frame    engine.BlockFrame    `json:"frame"`
	Commands []engine.DrawCommand `json:"commands"`
}

type ErrorPayload struct {
	Error string        `json:"error"`
	Kind  validate.Kind `json:"kind,omitempty"`
	Path  string        `json:"path,omitempty"`
}
