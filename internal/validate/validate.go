// Package validate gates documents before they reach the geometry and
// animation code. It fails fast on the first violated rule.
package validate

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/richmedia/richmedia/backend-go/internal/document"
	"github.com/richmedia/richmedia/backend-go/internal/geometry"
)

// ErrInvalidDocument is wrapped by every ValidationError.
var ErrInvalidDocument = errors.New("invalid document")

// Kind classifies a validation failure.
type Kind string

const (
	KindMissingField         Kind = "MissingField"
	KindOutOfRange           Kind = "OutOfRange"
	KindDuplicateID          Kind = "DuplicateId"
	KindUnknownPreset        Kind = "UnknownPreset"
	KindMissingPathForPreset Kind = "MissingPathForPresetKind"
	KindEmptyText            Kind = "EmptyText"
	KindUnknownPathType      Kind = "UnknownPathType"
	KindConflictingMedia     Kind = "ConflictingMedia"
)

// offsetEpsilon absorbs rounding in offsets that sit exactly on the bound.
const offsetEpsilon = 1e-9

// ValidationError identifies the first rule a document breaks.
// Path is a JSON-style location such as "blocks[0].textLayers[2].text".
type ValidationError struct {
	Kind    Kind   `json:"kind"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Path, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDocument
}

type options struct {
	canvas geometry.Size
}

// Option configures Document.
type Option func(*options)

// WithCanvas sets the canvas the media offset bound is measured against.
// The default is geometry.ReferenceCanvas.
func WithCanvas(canvas geometry.Size) Option {
	return func(o *options) {
		if !canvas.IsEmpty() {
			o.canvas = canvas
		}
	}
}

// Document checks every structural rule and returns a *ValidationError for
// the first one that fails, or nil.
func Document(doc *document.Document, opts ...Option) error {
	o := options{canvas: geometry.ReferenceCanvas}
	for _, opt := range opts {
		opt(&o)
	}

	if doc == nil {
		return fail(KindMissingField, "$", "document is required")
	}
	if doc.Version != document.CurrentVersion {
		return fail(KindOutOfRange, "version", "unsupported version %d", doc.Version)
	}
	if len(doc.Blocks) == 0 {
		return fail(KindMissingField, "blocks", "at least one block is required")
	}

	blockIDs := make(map[string]struct{}, len(doc.Blocks))
	for i := range doc.Blocks {
		b := &doc.Blocks[i]
		at := fmt.Sprintf("blocks[%d]", i)

		if b.ID == "" {
			return fail(KindMissingField, at+".id", "block id is required")
		}
		if _, dup := blockIDs[b.ID]; dup {
			return fail(KindDuplicateID, at+".id", "duplicate block id %q", b.ID)
		}
		blockIDs[b.ID] = struct{}{}

		if err := checkBlock(b, at, o.canvas); err != nil {
			return err
		}
	}
	return nil
}

func checkBlock(b *document.Block, at string, canvas geometry.Size) error {
	if b.Image != nil && b.Video != nil {
		return fail(KindConflictingMedia, at, "block has both image and video")
	}
	if err := checkMedia(b.Image, at+".image"); err != nil {
		return err
	}
	if err := checkMedia(b.Video, at+".video"); err != nil {
		return err
	}

	if n := len(b.TextLayers); n > document.MaxTextLayers {
		return fail(KindOutOfRange, at+".textLayers", "%d text layers, at most %d allowed", n, document.MaxTextLayers)
	}

	if t := b.MediaTransform; t != nil {
		if err := checkMediaTransform(t, at+".mediaTransform", canvas); err != nil {
			return err
		}
	}

	layerIDs := make(map[string]struct{}, len(b.TextLayers))
	for j := range b.TextLayers {
		l := &b.TextLayers[j]
		lat := fmt.Sprintf("%s.textLayers[%d]", at, j)

		if l.ID == "" {
			return fail(KindMissingField, lat+".id", "layer id is required")
		}
		if _, dup := layerIDs[l.ID]; dup {
			return fail(KindDuplicateID, lat+".id", "duplicate layer id %q", l.ID)
		}
		layerIDs[l.ID] = struct{}{}

		if err := checkLayer(l, lat); err != nil {
			return err
		}
	}
	return nil
}

func checkMedia(m *document.MediaRef, at string) error {
	if m == nil {
		return nil
	}
	if m.ID == "" {
		return fail(KindMissingField, at+".id", "media id is required")
	}
	if m.URL == "" {
		return fail(KindMissingField, at+".url", "media url is required")
	}
	return nil
}

func checkMediaTransform(t *document.MediaTransform, at string, canvas geometry.Size) error {
	if !within(t.Scale, document.MinMediaScale, document.MaxMediaScale) {
		return fail(KindOutOfRange, at+".scale", "scale %v outside [%v, %v]", t.Scale, document.MinMediaScale, document.MaxMediaScale)
	}
	bx, by := geometry.OffsetBound(t.Scale, canvas)
	if !(math.Abs(t.OffsetX) <= bx+offsetEpsilon) {
		return fail(KindOutOfRange, at+".offsetX", "offset %v exceeds ±%v at scale %v", t.OffsetX, bx, t.Scale)
	}
	if !(math.Abs(t.OffsetY) <= by+offsetEpsilon) {
		return fail(KindOutOfRange, at+".offsetY", "offset %v exceeds ±%v at scale %v", t.OffsetY, by, t.Scale)
	}
	return nil
}

func checkLayer(l *document.TextLayer, at string) error {
	if strings.TrimSpace(l.Text) == "" {
		return fail(KindEmptyText, at+".text", "text is empty")
	}

	p := l.Position
	if !within(p.X, 0, 1) {
		return fail(KindOutOfRange, at+".position.x", "x %v outside [0, 1]", p.X)
	}
	if !within(p.Y, 0, 1) {
		return fail(KindOutOfRange, at+".position.y", "y %v outside [0, 1]", p.Y)
	}
	if !within(p.Scale, document.MinLayerScale, document.MaxLayerScale) {
		return fail(KindOutOfRange, at+".position.scale", "scale %v outside [%v, %v]", p.Scale, document.MinLayerScale, document.MaxLayerScale)
	}
	if math.IsNaN(p.Rotation) || math.IsInf(p.Rotation, 0) {
		return fail(KindOutOfRange, at+".position.rotation", "rotation must be finite")
	}

	if a := l.Animation; a != nil {
		if err := checkAnimation(a, l.Path, at); err != nil {
			return err
		}
	}
	if l.Path != nil {
		if err := Path(*l.Path, at+".path"); err != nil {
			return err
		}
	}
	return nil
}

// Path checks a motion path on its own: the type must be known and every
// point must lie on the normalized canvas. at prefixes the error path.
func Path(p document.Path, at string) error {
	if !p.Type.Known() {
		return fail(KindUnknownPathType, at+".type", "unknown path type %q", p.Type)
	}
	for i, pt := range p.Points {
		if !within(pt.X, 0, 1) {
			return fail(KindOutOfRange, fmt.Sprintf("%s.points[%d].x", at, i), "x %v outside [0, 1]", pt.X)
		}
		if !within(pt.Y, 0, 1) {
			return fail(KindOutOfRange, fmt.Sprintf("%s.points[%d].y", at, i), "y %v outside [0, 1]", pt.Y)
		}
	}
	return nil
}

func checkAnimation(a *document.Animation, path *document.Path, at string) error {
	aat := at + ".animation"
	if !a.Preset.Known() {
		return fail(KindUnknownPreset, aat+".preset", "unknown preset %q", a.Preset)
	}
	if a.Preset.RequiresPath() {
		if path == nil {
			return fail(KindMissingPathForPreset, at+".path", "preset %s requires a path", a.Preset)
		}
		if len(path.Points) < 2 {
			return fail(KindMissingPathForPreset, at+".path.points", "preset %s requires at least 2 path points, got %d", a.Preset, len(path.Points))
		}
	}
	if !(a.Duration > 0) || math.IsInf(a.Duration, 0) {
		return fail(KindOutOfRange, aat+".duration", "duration %v must be positive", a.Duration)
	}
	if !(a.Delay >= 0) || math.IsInf(a.Delay, 0) {
		return fail(KindOutOfRange, aat+".delay", "delay %v must not be negative", a.Delay)
	}
	if !(a.LoopDelay >= 0) || math.IsInf(a.LoopDelay, 0) {
		return fail(KindOutOfRange, aat+".loopDelay", "loopDelay %v must not be negative", a.LoopDelay)
	}
	return nil
}

// within is false for NaN.
func within(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

func fail(kind Kind, path, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
}
