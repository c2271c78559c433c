package document

import "sort"

// Preset names a predefined animation recipe.
type Preset string

const (
	// Entrance
	PresetFadeIn         Preset = "fadeIn"
	PresetFadeSlideUp    Preset = "fadeSlideUp"
	PresetFadeSlideDown  Preset = "fadeSlideDown"
	PresetFadeSlideLeft  Preset = "fadeSlideLeft"
	PresetFadeSlideRight Preset = "fadeSlideRight"
	PresetZoomIn         Preset = "zoomIn"
	PresetBounceIn       Preset = "bounceIn"
	PresetPopIn          Preset = "popIn"
	PresetBlurIn         Preset = "blurIn"

	// Exit
	PresetFadeOut          Preset = "fadeOut"
	PresetZoomOut          Preset = "zoomOut"
	PresetBlurOut          Preset = "blurOut"
	PresetFadeSlideOutUp   Preset = "fadeSlideOutUp"
	PresetFadeSlideOutDown Preset = "fadeSlideOutDown"

	// Loop
	PresetPulse   Preset = "pulse"
	PresetBounce  Preset = "bounce"
	PresetFloat   Preset = "float"
	PresetWiggle  Preset = "wiggle"
	PresetRotate  Preset = "rotate"
	PresetShake   Preset = "shake"
	PresetFlicker Preset = "flicker"
	PresetRainbow Preset = "rainbow"

	// Path
	PresetMotionPath Preset = "motionPath"
	PresetCurvePath  Preset = "curvePath"
)

// Category partitions presets by how they behave over time.
type Category string

const (
	CategoryEntrance Category = "entrance"
	CategoryExit     Category = "exit"
	CategoryLoop     Category = "loop"
	CategoryPath     Category = "path"
)

var presetCategories = map[Preset]Category{
	PresetFadeIn:         CategoryEntrance,
	PresetFadeSlideUp:    CategoryEntrance,
	PresetFadeSlideDown:  CategoryEntrance,
	PresetFadeSlideLeft:  CategoryEntrance,
	PresetFadeSlideRight: CategoryEntrance,
	PresetZoomIn:         CategoryEntrance,
	PresetBounceIn:       CategoryEntrance,
	PresetPopIn:          CategoryEntrance,
	PresetBlurIn:         CategoryEntrance,

	PresetFadeOut:          CategoryExit,
	PresetZoomOut:          CategoryExit,
	PresetBlurOut:          CategoryExit,
	PresetFadeSlideOutUp:   CategoryExit,
	PresetFadeSlideOutDown: CategoryExit,

	PresetPulse:   CategoryLoop,
	PresetBounce:  CategoryLoop,
	PresetFloat:   CategoryLoop,
	PresetWiggle:  CategoryLoop,
	PresetRotate:  CategoryLoop,
	PresetShake:   CategoryLoop,
	PresetFlicker: CategoryLoop,
	PresetRainbow: CategoryLoop,

	PresetMotionPath: CategoryPath,
	PresetCurvePath:  CategoryPath,
}

// Known reports whether p is a member of the preset set.
func (p Preset) Known() bool {
	_, ok := presetCategories[p]
	return ok
}

// Category returns the preset's category and false for unknown presets.
func (p Preset) Category() (Category, bool) {
	c, ok := presetCategories[p]
	return c, ok
}

// RequiresPath reports whether the preset animates along a Path.
func (p Preset) RequiresPath() bool {
	return presetCategories[p] == CategoryPath
}

// Presets returns every known preset, sorted by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presetCategories))
	for p := range presetCategories {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PathType selects the curve used by path presets.
type PathType string

const (
	PathLinear   PathType = "linear"
	PathBezier   PathType = "bezier"
	PathCircular PathType = "circular"
	PathArc      PathType = "arc"
	PathWave     PathType = "wave"
	PathCustom   PathType = "custom"
)

// Known reports whether t is one of the supported path types.
func (t PathType) Known() bool {
	switch t {
	case PathLinear, PathBezier, PathCircular, PathArc, PathWave, PathCustom:
		return true
	}
	return false
}

// CurveType selects the Bezier degree for bezier paths.
type CurveType string

const (
	CurveQuadratic CurveType = "quadratic"
	CurveCubic     CurveType = "cubic"
)
