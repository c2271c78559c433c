package animation

import (
	"math"

	"github.com/richmedia/richmedia/backend-go/internal/curve"
	"github.com/richmedia/richmedia/backend-go/internal/document"
	"github.com/richmedia/richmedia/backend-go/internal/geometry"
)

const (
	// SlideDistance is the fade-slide travel in reference canvas points.
	SlideDistance = 50.0
	// MaxBlur is the blur radius at the hidden end of blur presets.
	MaxBlur = 10.0
	// ZoomFloor is the smallest scale reached by zoom presets.
	ZoomFloor = 0.3
)

// VisualDelta is the time-varying adjustment a renderer applies on top of a
// layer's static transform. Offsets are in reference canvas points, angles in
// degrees within [0,360).
type VisualDelta struct {
	Opacity     float64 `json:"opacity"`
	OffsetX     float64 `json:"offsetX"`
	OffsetY     float64 `json:"offsetY"`
	Scale       float64 `json:"scale"`
	Rotation    float64 `json:"rotation"`
	Blur        float64 `json:"blur"`
	HueRotation float64 `json:"hueRotation"`

	// PathPosition is the absolute canvas position for path presets and
	// replaces the layer's own center.
	PathPosition *geometry.Point `json:"pathPosition,omitempty"`

	Phase    Phase   `json:"phase"`
	Progress float64 `json:"progress"`
}

// Identity is the neutral delta: fully visible, unmoved, unscaled.
func Identity() VisualDelta {
	return VisualDelta{Opacity: 1, Scale: 1}
}

// Evaluate computes the delta for anim at elapsed seconds. path and canvas are
// used only by path presets. Unknown presets evaluate to Identity. The result
// depends only on the arguments.
func Evaluate(anim document.Animation, path *document.Path, canvas geometry.Size, elapsed float64) VisualDelta {
	state := StateAt(anim, elapsed)
	category, ok := anim.Preset.Category()
	if !ok {
		d := Identity()
		d.Phase = state.Phase
		d.Progress = state.Progress
		return d
	}

	var d VisualDelta
	switch category {
	case document.CategoryPath:
		d = Identity()
		if path != nil {
			pos := curve.Sample(*path, state.Progress, canvas)
			d.PathPosition = &pos
		}

	case document.CategoryEntrance:
		d = entrance(anim.Preset, state.Progress)

	case document.CategoryExit:
		if state.Phase == PhasePending {
			d = Identity()
		} else {
			d = exit(anim.Preset, state.Progress)
		}

	case document.CategoryLoop:
		if state.Phase == PhaseActive {
			d = loop(anim.Preset, state.Progress)
		} else {
			d = Identity()
		}
	}

	d.Phase = state.Phase
	d.Progress = state.Progress
	return sanitize(d)
}

// entrance poses run from hidden at p=0 to Identity at p=1.
func entrance(preset document.Preset, p float64) VisualDelta {
	d := Identity()
	remaining := 1 - Ease(p, EasingEaseOut)

	switch preset {
	case document.PresetFadeIn:
		d.Opacity = p
	case document.PresetFadeSlideUp:
		d.Opacity = p
		d.OffsetY = SlideDistance * remaining
	case document.PresetFadeSlideDown:
		d.Opacity = p
		d.OffsetY = -SlideDistance * remaining
	case document.PresetFadeSlideLeft:
		d.Opacity = p
		d.OffsetX = SlideDistance * remaining
	case document.PresetFadeSlideRight:
		d.Opacity = p
		d.OffsetX = -SlideDistance * remaining
	case document.PresetZoomIn:
		d.Opacity = p
		d.Scale = ZoomFloor + (1-ZoomFloor)*Ease(p, EasingEaseOut)
	case document.PresetBounceIn:
		d.Opacity = geometry.Clamp(p/0.4, 0, 1)
		d.Scale = track(p,
			key{0, ZoomFloor},
			key{0.6, 1.15},
			key{0.8, 0.95},
			key{1, 1},
		)
	case document.PresetPopIn:
		d.Opacity = geometry.Clamp(p/0.3, 0, 1)
		d.Scale = track(p,
			key{0, 0.5},
			key{0.7, 1.1},
			key{1, 1},
		)
	case document.PresetBlurIn:
		d.Opacity = p
		d.Blur = MaxBlur * (1 - p)
	}
	return d
}

// exit poses run from Identity at p=0 to hidden at p=1.
func exit(preset document.Preset, p float64) VisualDelta {
	d := Identity()
	d.Opacity = 1 - p
	travelled := Ease(p, EasingEaseIn)

	switch preset {
	case document.PresetZoomOut:
		d.Scale = 1 - (1-ZoomFloor)*travelled
	case document.PresetBlurOut:
		d.Blur = MaxBlur * p
	case document.PresetFadeSlideOutUp:
		d.OffsetY = -SlideDistance * travelled
	case document.PresetFadeSlideOutDown:
		d.OffsetY = SlideDistance * travelled
	}
	return d
}

// loop poses are Identity at both ends of a cycle so consecutive cycles and
// rest windows join without a jump. rotate and rainbow are monotonic ramps
// whose end angle, 360°, normalizes back to 0.
func loop(preset document.Preset, p float64) VisualDelta {
	d := Identity()
	swell := math.Sin(math.Pi * p)

	switch preset {
	case document.PresetPulse:
		d.Scale = 1 + 0.1*swell
	case document.PresetBounce:
		d.OffsetY = -20 * swell
	case document.PresetFloat:
		d.OffsetY = -10 * math.Sin(math.Pi*Ease(p, EasingCubicInOut))
	case document.PresetWiggle:
		d.Rotation = 10 * math.Sin(2*math.Pi*p)
	case document.PresetRotate:
		d.Rotation = 360 * p
	case document.PresetShake:
		d.OffsetX = 8 * math.Sin(6*math.Pi*p)
	case document.PresetFlicker:
		d.Opacity = 1 - 0.5*swell
	case document.PresetRainbow:
		d.HueRotation = 360 * p
	}
	return d
}

// sanitize forces every channel into its meaningful range.
func sanitize(d VisualDelta) VisualDelta {
	d.Opacity = geometry.Clamp(d.Opacity, 0, 1)
	if !(d.Scale >= 0) || math.IsInf(d.Scale, 0) {
		d.Scale = 0
	}
	if !(d.Blur >= 0) || math.IsInf(d.Blur, 0) {
		d.Blur = 0
	}
	d.OffsetX = finite(d.OffsetX)
	d.OffsetY = finite(d.OffsetY)
	d.Rotation = geometry.NormalizeDegrees(d.Rotation)
	d.HueRotation = geometry.NormalizeDegrees(d.HueRotation)
	d.Progress = geometry.Clamp(d.Progress, 0, 1)
	if pp := d.PathPosition; pp != nil && (finite(pp.X) != pp.X || finite(pp.Y) != pp.Y) {
		d.PathPosition = nil
	}
	return d
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
