package engine

import (
	"math"

	"github.com/richmedia/richmedia/backend-go/internal/animation"
	"github.com/richmedia/richmedia/backend-go/internal/document"
	"github.com/richmedia/richmedia/backend-go/internal/geometry"
)

type composeOptions struct {
	reference geometry.Size
}

// ComposeOption configures ComposeBlock.
type ComposeOption func(*composeOptions)

// WithReference sets the canvas the document was authored against. Slide
// offsets, blur and layer scale grow with canvas.Width / reference.Width.
// The default is geometry.ReferenceCanvas; an empty size is ignored.
func WithReference(reference geometry.Size) ComposeOption {
	return func(o *composeOptions) {
		if !reference.IsEmpty() {
			o.reference = reference
		}
	}
}

// ComposeBlock evaluates a block at elapsed seconds on a canvas. media is the
// intrinsic pixel size of the block's image or video; a zero size treats the
// media as canvas-sized. Hidden layers (visible: false) are left out.
func ComposeBlock(block document.Block, canvas geometry.Size, media geometry.Size, elapsed float64, opts ...ComposeOption) BlockFrame {
	o := composeOptions{reference: geometry.ReferenceCanvas}
	for _, opt := range opts {
		opt(&o)
	}

	frame := BlockFrame{
		BlockID: block.ID,
		Kind:    block.Kind(),
		Elapsed: elapsed,
		Canvas:  canvas,
		Layers:  []LayerFrame{},
	}

	if ref := mediaRef(block); ref != nil {
		transform := document.IdentityMediaTransform()
		if block.MediaTransform != nil {
			transform = *block.MediaTransform
		}
		if media.IsEmpty() {
			media = canvas
		}
		layout := geometry.MediaPixelTransform(transform, canvas, media)
		frame.Media = &MediaFrame{
			ID:        ref.ID,
			URL:       ref.URL,
			Size:      media,
			Layout:    layout,
			Transform: layout.Matrix(),
		}
	}

	for _, layer := range block.SortedLayers() {
		if !layer.Visible {
			continue
		}
		frame.Layers = append(frame.Layers, composeLayer(layer, canvas, o.reference, elapsed))
	}
	return frame
}

func mediaRef(block document.Block) *document.MediaRef {
	switch block.Kind() {
	case document.BlockKindVideo:
		return block.Video
	case document.BlockKindImage:
		return block.Image
	}
	return nil
}

// composeLayer applies the animation delta on top of the static placement.
// Path positions replace the layer center; slide offsets are in reference
// points and scale with the canvas.
func composeLayer(layer document.TextLayer, canvas, reference geometry.Size, elapsed float64) LayerFrame {
	static := geometry.LayerPixelTransformFor(layer.Position, canvas, reference)

	delta := animation.Identity()
	if layer.Animation != nil {
		delta = animation.Evaluate(*layer.Animation, layer.Path, canvas, elapsed)
	}

	center := static.Center
	if delta.PathPosition != nil {
		center = *delta.PathPosition
	}
	cs := static.CanvasScale
	center = center.Add(geometry.Point{X: delta.OffsetX * cs, Y: delta.OffsetY * cs})

	scale := static.Scale * delta.Scale
	rotation := geometry.NormalizeDegrees(static.RotationDegrees + delta.Rotation)

	return LayerFrame{
		ID:          layer.ID,
		Text:        layer.Text,
		Style:       layer.Style,
		ZIndex:      layer.ZIndex,
		Center:      center,
		Scale:       scale,
		Rotation:    rotation,
		Opacity:     delta.Opacity,
		Blur:        delta.Blur * cs,
		HueRotation: delta.HueRotation,
		Transform:   geometry.CenterTransform(center, scale*cs, rotation*math.Pi/180),
		Phase:       delta.Phase,
		Progress:    delta.Progress,
	}
}

// BlockDuration is the time at which every non-looping animation in the block
// has settled. loops reports whether any layer keeps moving after that.
func BlockDuration(block document.Block) (seconds float64, loops bool) {
	for _, layer := range block.TextLayers {
		a := layer.Animation
		if a == nil || !a.Preset.Known() {
			continue
		}
		if animation.Loops(*a) {
			loops = true
			continue
		}
		if end := a.Delay + a.Duration; end > seconds && !math.IsInf(end, 0) {
			seconds = end
		}
	}
	return seconds, loops
}
