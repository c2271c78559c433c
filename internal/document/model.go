package document

import (
	"encoding/json"
	"sort"
)

// CurrentVersion is the only document version this core understands.
const CurrentVersion = 1

// MaxTextLayers is the per-block layer limit.
const MaxTextLayers = 10

// Document is the root of a richmedia post. Decoded documents are treated as
// immutable snapshots; editing produces a new value.
type Document struct {
	Version    int             `json:"version"`
	Blocks     []Block         `json:"blocks"`
	MusicTrack json.RawMessage `json:"musicTrack,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// MediaRef points at an uploaded image or video.
type MediaRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Block is one page of a post. A block without image or video is a text block.
type Block struct {
	ID               string          `json:"id"`
	Image            *MediaRef       `json:"image,omitempty"`
	Video            *MediaRef       `json:"video,omitempty"`
	Caption          *string         `json:"caption,omitempty"`
	TextLayers       []TextLayer     `json:"textLayers"`
	MediaTransform   *MediaTransform `json:"mediaTransform,omitempty"`
	LottieOverlay    json.RawMessage `json:"lottieOverlay,omitempty"`
	AnimationVersion *int            `json:"animationVersion,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// BlockKind is the media discriminant of a block.
type BlockKind string

const (
	BlockKindText  BlockKind = "text"
	BlockKindImage BlockKind = "image"
	BlockKindVideo BlockKind = "video"
)

// Kind reports which media the block carries. Video wins when a malformed
// block carries both; the validator rejects that case.
func (b Block) Kind() BlockKind {
	switch {
	case b.Video != nil:
		return BlockKindVideo
	case b.Image != nil:
		return BlockKindImage
	default:
		return BlockKindText
	}
}

// SortedLayers returns the block's layers in stacking order (back to front).
// Equal zIndex values keep declaration order.
func (b Block) SortedLayers() []TextLayer {
	layers := make([]TextLayer, len(b.TextLayers))
	copy(layers, b.TextLayers)
	sort.SliceStable(layers, func(i, j int) bool {
		return layers[i].ZIndex < layers[j].ZIndex
	})
	return layers
}

// TextLayer is a positioned piece of text inside a block.
type TextLayer struct {
	ID              string          `json:"id"`
	Text            string          `json:"text"`
	Position        Position        `json:"position"`
	Style           json.RawMessage `json:"style,omitempty"`
	Animation       *Animation      `json:"animation,omitempty"`
	Path            *Path           `json:"path,omitempty"`
	LottieAnimation json.RawMessage `json:"lottieAnimation,omitempty"`
	Visible         bool            `json:"visible"`
	ZIndex          int             `json:"zIndex"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Position is the canvas-normalized center of a layer.
// X and Y are in [0,1], Rotation in degrees clockwise, Scale in [0.5,3.0].
type Position struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Scale    float64 `json:"scale"`

	Extra map[string]json.RawMessage `json:"-"`
}

const (
	MinLayerScale = 0.5
	MaxLayerScale = 3.0
)

// Animation describes a preset applied to a layer. Times are seconds.
type Animation struct {
	Preset    Preset  `json:"preset"`
	Delay     float64 `json:"delay"`
	Duration  float64 `json:"duration"`
	Loop      bool    `json:"loop"`
	LoopDelay float64 `json:"loopDelay"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Point is a canvas-normalized control point.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Path is a motion path for path presets.
type Path struct {
	Type      PathType  `json:"type"`
	Points    []Point   `json:"points"`
	CurveType CurveType `json:"curveType,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// MediaTransform zooms and pans a block's image or video.
// Offsets are in canvas points.
type MediaTransform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`

	Extra map[string]json.RawMessage `json:"-"`
}

const (
	MinMediaScale = 1.0
	MaxMediaScale = 5.0
)

// IdentityMediaTransform is the transform applied when a block has none.
func IdentityMediaTransform() MediaTransform {
	return MediaTransform{Scale: 1}
}
