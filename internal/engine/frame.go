package engine

import (
	"encoding/json"

	"github.com/richmedia/richmedia/backend-go/internal/animation"
	"github.com/richmedia/richmedia/backend-go/internal/document"
	"github.com/richmedia/richmedia/backend-go/internal/geometry"
)

// BlockFrame is the evaluated, render-ready state of one block at one instant.
// Layers are in painter's order (back to front).
type BlockFrame struct {
	BlockID string             `json:"blockId"`
	Kind    document.BlockKind `json:"kind"`
	Elapsed float64            `json:"elapsed"`
	Canvas  geometry.Size      `json:"canvas"`
	Media   *MediaFrame        `json:"media,omitempty"`
	Layers  []LayerFrame       `json:"layers"`
}

// MediaFrame places the block's image or video.
type MediaFrame struct {
	ID        string               `json:"id"`
	URL       string               `json:"url"`
	Size      geometry.Size        `json:"size"`
	Layout    geometry.MediaLayout `json:"layout"`
	Transform geometry.Matrix2D    `json:"transform"`
}

// LayerFrame is a text layer with its static placement and animation delta
// already combined.
type LayerFrame struct {
	ID     string          `json:"id"`
	Text   string          `json:"text"`
	Style  json.RawMessage `json:"style,omitempty"`
	ZIndex int             `json:"zIndex"`

	Center      geometry.Point `json:"center"`
	Scale       float64        `json:"scale"`    // layer units, before canvas scaling
	Rotation    float64        `json:"rotation"` // degrees, [0,360)
	Opacity     float64        `json:"opacity"`
	Blur        float64        `json:"blur"` // canvas pixels
	HueRotation float64        `json:"hueRotation"`

	// Transform maps layer-local coordinates (origin at the layer center, in
	// reference points) to canvas pixels.
	Transform geometry.Matrix2D `json:"transform"`

	Phase    animation.Phase `json:"phase,omitempty"`
	Progress float64         `json:"progress"`
}

// Hidden reports whether the layer contributes nothing to the frame.
func (l LayerFrame) Hidden() bool {
	return l.Opacity <= 0
}
