package document

import (
	"encoding/json"

	"github.com/google/uuid"
)

// NewID returns a lowercase hyphenated UUID for blocks and layers.
func NewID() string {
	return uuid.NewString()
}

// NewTextLayer returns a visible, centered, unanimated layer.
func NewTextLayer(text string) TextLayer {
	return TextLayer{
		ID:       NewID(),
		Text:     text,
		Position: Position{X: 0.5, Y: 0.5, Rotation: 0, Scale: 1},
		Style:    json.RawMessage(`{}`),
		Visible:  true,
	}
}

// NewSampleDocument builds a three-block post that exercises every preset
// category. It is served by the playground and used by the CLI demo.
func NewSampleDocument() *Document {
	title := NewTextLayer("Summer in Lisbon")
	title.Position = Position{X: 0.5, Y: 0.2, Rotation: 0, Scale: 1.4}
	title.Style = json.RawMessage(`{"color":"#ffffff","font":"Avenir-Heavy","size":32}`)
	title.Animation = &Animation{Preset: PresetFadeSlideUp, Delay: 0.2, Duration: 0.8}
	title.ZIndex = 1

	badge := NewTextLayer("NEW")
	badge.Position = Position{X: 0.85, Y: 0.1, Rotation: 15, Scale: 0.8}
	badge.Animation = &Animation{Preset: PresetRotate, Duration: 4, Loop: true}
	badge.ZIndex = 2

	caption := "Tram 28 at golden hour"
	photo := Block{
		ID:             NewID(),
		Image:          &MediaRef{ID: NewID(), URL: "https://cdn.example.com/img/tram28.jpg"},
		Caption:        &caption,
		TextLayers:     []TextLayer{title, badge},
		MediaTransform: &MediaTransform{Scale: 1.5, OffsetX: 40, OffsetY: -30},
	}

	tram := NewTextLayer("🚋")
	tram.Position = Position{X: 0.1, Y: 0.8, Rotation: 0, Scale: 2}
	tram.Animation = &Animation{Preset: PresetMotionPath, Duration: 3, LoopDelay: 0.5}
	tram.Path = &Path{
		Type:   PathLinear,
		Points: []Point{{X: 0.1, Y: 0.8}, {X: 0.5, Y: 0.7}, {X: 0.9, Y: 0.8}},
	}

	pulse := NewTextLayer("Tap to play")
	pulse.Position = Position{X: 0.5, Y: 0.9, Rotation: 0, Scale: 1}
	pulse.Animation = &Animation{Preset: PresetPulse, Duration: 1.2, Loop: true, LoopDelay: 0.3}

	clip := Block{
		ID:         NewID(),
		Video:      &MediaRef{ID: NewID(), URL: "https://cdn.example.com/vid/tram28.mp4"},
		TextLayers: []TextLayer{tram, pulse},
	}

	outro := NewTextLayer("See you next week")
	outro.Animation = &Animation{Preset: PresetFadeOut, Delay: 2, Duration: 1}

	swirl := NewTextLayer("✨")
	swirl.Animation = &Animation{Preset: PresetCurvePath, Duration: 2.5}
	swirl.Path = &Path{
		Type:      PathBezier,
		CurveType: CurveCubic,
		Points:    []Point{{X: 0.1, Y: 0.5}, {X: 0.3, Y: 0.1}, {X: 0.7, Y: 0.9}, {X: 0.9, Y: 0.5}},
	}

	text := Block{
		ID:         NewID(),
		TextLayers: []TextLayer{outro, swirl},
	}

	return &Document{
		Version: CurrentVersion,
		Blocks:  []Block{photo, clip, text},
	}
}
