package geometry

import (
	"math"

	"github.com/richmedia/richmedia/backend-go/internal/document"
)

// ReferenceCanvas is the editing canvas documents are authored against.
// Layer styles (font sizes, the 50pt slide offsets) are expressed in its units.
var ReferenceCanvas = Size{Width: 390, Height: 844}

// LayerTransform is the static pixel placement of a text layer.
type LayerTransform struct {
	Center          Point   `json:"center"`
	Scale           float64 `json:"scale"`
	Rotation        float64 `json:"rotation"` // radians
	RotationDegrees float64 `json:"rotationDegrees"`
	CanvasScale     float64 `json:"canvasScale"`
}

// EffectiveScale is the layer scale expressed in canvas pixels.
func (t LayerTransform) EffectiveScale() float64 {
	return t.Scale * t.CanvasScale
}

// Matrix maps layer-local coordinates (origin at the layer's center) to canvas
// pixels: scale, then rotate, then translate to Center.
func (t LayerTransform) Matrix() Matrix2D {
	return CenterTransform(t.Center, t.EffectiveScale(), t.Rotation)
}

// CanvasScale is the ratio of canvas width to the reference width. An empty
// reference selects ReferenceCanvas.
func CanvasScale(canvas, reference Size) float64 {
	if canvas.IsEmpty() {
		return 1
	}
	if reference.IsEmpty() {
		reference = ReferenceCanvas
	}
	return canvas.Width / reference.Width
}

// LayerPixelTransform maps a normalized position onto a canvas authored
// against ReferenceCanvas. Out-of-range input is clamped rather than rejected.
func LayerPixelTransform(pos document.Position, canvas Size) LayerTransform {
	return LayerPixelTransformFor(pos, canvas, ReferenceCanvas)
}

// LayerPixelTransformFor is LayerPixelTransform for documents authored
// against reference.
func LayerPixelTransformFor(pos document.Position, canvas, reference Size) LayerTransform {
	x := Clamp(pos.X, 0, 1)
	y := Clamp(pos.Y, 0, 1)
	deg := NormalizeDegrees(pos.Rotation)
	return LayerTransform{
		Center:          Point{X: x * canvas.Width, Y: y * canvas.Height},
		Scale:           Clamp(pos.Scale, document.MinLayerScale, document.MaxLayerScale),
		Rotation:        deg * math.Pi / 180,
		RotationDegrees: deg,
		CanvasScale:     CanvasScale(canvas, reference),
	}
}

// OffsetBound returns the largest pan allowed on each axis at the given zoom
// so the zoomed media still covers the canvas.
func OffsetBound(scale float64, canvas Size) (bx, by float64) {
	s := Clamp(scale, document.MinMediaScale, document.MaxMediaScale)
	return canvas.Width * (s - 1) / 2, canvas.Height * (s - 1) / 2
}

// ClampOffset limits a pan offset to the bound for the given zoom.
func ClampOffset(offset Point, scale float64, canvas Size) Point {
	bx, by := OffsetBound(scale, canvas)
	return Point{X: Clamp(offset.X, -bx, bx), Y: Clamp(offset.Y, -by, by)}
}

// MediaLayout is the placement of a block's image or video on the canvas.
type MediaLayout struct {
	CoverScale  float64 `json:"coverScale"`
	Scale       float64 `json:"scale"`
	Offset      Point   `json:"offset"`
	DisplaySize Size    `json:"displaySize"`
	Frame       Rect    `json:"frame"`
	Clip        Rect    `json:"clip"`
}

// TotalScale maps media pixels to canvas pixels.
func (m MediaLayout) TotalScale() float64 {
	return m.CoverScale * m.Scale
}

// Matrix maps media pixel coordinates to canvas coordinates.
func (m MediaLayout) Matrix() Matrix2D {
	s := m.TotalScale()
	return Translate(m.Frame.X, m.Frame.Y).Multiply(Scale(s, s))
}

// MediaPixelTransform lays media out as scale-to-fill, then zooms by
// t.Scale about the canvas center and pans by the clamped offset. The result
// is clipped to the canvas. The offset is clamped here even for transforms
// that passed validation. A zero media size is treated as canvas-sized media.
func MediaPixelTransform(t document.MediaTransform, canvas Size, media Size) MediaLayout {
	if media.IsEmpty() {
		media = canvas
	}
	cover := 1.0
	if !media.IsEmpty() && !canvas.IsEmpty() {
		cover = max(canvas.Width/media.Width, canvas.Height/media.Height)
	}
	scale := Clamp(t.Scale, document.MinMediaScale, document.MaxMediaScale)
	offset := ClampOffset(Point{X: finite(t.OffsetX), Y: finite(t.OffsetY)}, scale, canvas)

	display := Size{Width: media.Width * cover * scale, Height: media.Height * cover * scale}
	center := canvas.Center().Add(offset)

	return MediaLayout{
		CoverScale:  cover,
		Scale:       scale,
		Offset:      offset,
		DisplaySize: display,
		Frame: Rect{
			X:      center.X - display.Width/2,
			Y:      center.Y - display.Height/2,
			Width:  display.Width,
			Height: display.Height,
		},
		Clip: Rect{Width: canvas.Width, Height: canvas.Height},
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
