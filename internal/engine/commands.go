package engine

import (
	"encoding/json"

	"github.com/richmedia/richmedia/backend-go/internal/geometry"
)

// DrawCommand is a single drawing operation for a web compositor. Frontends
// receive a list of these and execute them on a Canvas2D context.
type DrawCommand struct {
	Op          string          `json:"op"`                    // "save", "clip", "media", "text", "restore"
	LayerID     string          `json:"layerId,omitempty"`     // for hit correlation
	Transform   []float64       `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Rect        *geometry.Rect  `json:"rect,omitempty"`        // clip rect
	Opacity     float64         `json:"opacity,omitempty"`     // global alpha
	Blur        float64         `json:"blur,omitempty"`        // filter blur in px
	HueRotation float64         `json:"hueRotation,omitempty"` // filter hue-rotate in degrees
	Text        string          `json:"text,omitempty"`
	Style       json.RawMessage `json:"style,omitempty"`
	MediaID     string          `json:"mediaId,omitempty"`
	MediaURL    string          `json:"mediaUrl,omitempty"`
	MediaWidth  float64         `json:"mediaWidth,omitempty"`  // media natural width
	MediaHeight float64         `json:"mediaHeight,omitempty"` // media natural height
}

// CompileDrawCommands generates a draw command buffer from a block frame.
// Commands are in painter's order (back to front). Fully transparent layers
// are skipped.
func CompileDrawCommands(frame BlockFrame) []DrawCommand {
	commands := []DrawCommand{}

	if m := frame.Media; m != nil {
		clip := m.Layout.Clip
		commands = append(commands,
			DrawCommand{Op: "save"},
			DrawCommand{Op: "clip", Rect: &clip},
			DrawCommand{
				Op:          "media",
				Transform:   m.Transform.Slice(),
				Opacity:     1,
				MediaID:     m.ID,
				MediaURL:    m.URL,
				MediaWidth:  m.Size.Width,
				MediaHeight: m.Size.Height,
			},
			DrawCommand{Op: "restore"},
		)
	}

	for _, layer := range frame.Layers {
		if layer.Hidden() {
			continue
		}
		commands = append(commands, DrawCommand{
			Op:          "text",
			LayerID:     layer.ID,
			Transform:   layer.Transform.Slice(),
			Opacity:     layer.Opacity,
			Blur:        layer.Blur,
			HueRotation: layer.HueRotation,
			Text:        layer.Text,
			Style:       layer.Style,
		})
	}
	return commands
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// HitTest returns the ID of the topmost drawn layer whose box contains p, or
// an empty string. size is the measured box of each layer in layer-local
// reference points, keyed by layer ID; layers without a size never hit.
func HitTest(frame BlockFrame, p geometry.Point, size map[string]geometry.Size) string {
	for i := len(frame.Layers) - 1; i >= 0; i-- {
		layer := frame.Layers[i]
		box, ok := size[layer.ID]
		if !ok || box.IsEmpty() || layer.Hidden() {
			continue
		}
		inv, ok := layer.Transform.Inverse()
		if !ok {
			continue
		}
		local := inv.TransformPoint(p)
		r := geometry.Rect{X: -box.Width / 2, Y: -box.Height / 2, Width: box.Width, Height: box.Height}
		if r.Contains(local) {
			return layer.ID
		}
	}
	return ""
}

// LayerBounds returns the canvas-space bounding box of a layer whose
// layer-local box is size.
func LayerBounds(layer LayerFrame, size geometry.Size) geometry.Rect {
	r := geometry.Rect{X: -size.Width / 2, Y: -size.Height / 2, Width: size.Width, Height: size.Height}
	return layer.Transform.TransformRect(r)
}
