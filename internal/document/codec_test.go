package document

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

const fixture = `{
  "version": 1,
  "schemaHint": "gallery",
  "musicTrack": {"id": "t1", "title": "Song"},
  "blocks": [
    {
      "id": "b1",
      "image": {"id": "i1", "url": "https://cdn.example.com/i1.jpg", "blurHash": "LKO2"},
      "textLayers": [
        {
          "id": "l1",
          "text": "Hi",
          "position": {"x": 0.5, "y": 0.25, "rotation": 10, "scale": 1.2, "anchor": "center"},
          "style": {"font": "Avenir", "size": 24},
          "animation": {"preset": "fadeIn", "delay": 0, "duration": 0.8, "loop": false, "loopDelay": 0, "easing": "spring"},
          "path": {"type": "custom", "points": [{"x": 0, "y": 0, "pressure": 0.3}, {"x": 1, "y": 1}], "smoothing": 2},
          "zIndex": 3,
          "futureFlag": true
        }
      ],
      "mediaTransform": {"scale": 1.5, "offsetX": 10, "offsetY": 0, "rotation": 0},
      "filter": "sepia"
    }
  ]
}`

func TestDecodeKnownFields(t *testing.T) {
	doc, err := DecodeBytes([]byte(fixture))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Version != 1 || len(doc.Blocks) != 1 {
		t.Fatalf("doc = %+v", doc)
	}
	b := doc.Blocks[0]
	if b.Kind() != BlockKindImage {
		t.Errorf("kind = %s", b.Kind())
	}
	l := b.TextLayers[0]
	if l.Position.Scale != 1.2 || l.Position.Rotation != 10 {
		t.Errorf("position = %+v", l.Position)
	}
	if !l.Visible {
		t.Error("visible should default to true")
	}
	if l.Animation == nil || l.Animation.Preset != PresetFadeIn || l.Animation.Duration != 0.8 {
		t.Errorf("animation = %+v", l.Animation)
	}
	if l.Path == nil || len(l.Path.Points) != 2 {
		t.Fatalf("path = %+v", l.Path)
	}
	if b.MediaTransform == nil || b.MediaTransform.OffsetX != 10 {
		t.Errorf("media transform = %+v", b.MediaTransform)
	}
}

func TestUnknownFieldsAtEveryLevel(t *testing.T) {
	doc, err := DecodeBytes([]byte(fixture))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	b := doc.Blocks[0]
	l := b.TextLayers[0]
	extras := []struct {
		name  string
		extra map[string]json.RawMessage
		key   string
	}{
		{"document", doc.Extra, "schemaHint"},
		{"block", b.Extra, "filter"},
		{"image", b.Image.Extra, "blurHash"},
		{"layer", l.Extra, "futureFlag"},
		{"position", l.Position.Extra, "anchor"},
		{"animation", l.Animation.Extra, "easing"},
		{"path", l.Path.Extra, "smoothing"},
		{"point", l.Path.Points[0].Extra, "pressure"},
		{"mediaTransform", b.MediaTransform.Extra, "rotation"},
	}
	for _, e := range extras {
		if _, ok := e.extra[e.key]; !ok {
			t.Errorf("%s lost unknown key %q: %v", e.name, e.key, e.extra)
		}
		if len(e.extra) != 1 {
			t.Errorf("%s has unexpected extras %v", e.name, e.extra)
		}
	}

	out, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for _, key := range []string{`"schemaHint":"gallery"`, `"filter":"sepia"`, `"blurHash":"LKO2"`, `"futureFlag":true`,
		`"anchor":"center"`, `"easing":"spring"`, `"smoothing":2`, `"pressure":0.3`, `"rotation":0`} {
		if !bytes.Contains(out, []byte(key)) {
			t.Errorf("encoded output missing %s", key)
		}
	}
}

func TestEncodeIsStable(t *testing.T) {
	doc, err := DecodeBytes([]byte(fixture))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	first, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	again, err := DecodeBytes(first)
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	second, err := Encode(again)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("encode not idempotent:\n%s\n%s", first, second)
	}

	// Top-level keys come out sorted.
	s := string(first)
	order := []string{`"blocks"`, `"musicTrack"`, `"schemaHint"`, `"version"`}
	last := -1
	for _, k := range order {
		i := strings.Index(s, k)
		if i < last {
			t.Errorf("key %s out of order in %s", k, s)
		}
		last = i
	}
}

func TestDecodeDefaults(t *testing.T) {
	doc, err := DecodeBytes([]byte(`{"version":1,"blocks":[{"id":"b","textLayers":[{"id":"l","text":"x","position":{"x":0.1,"y":0.2},"visible":false}],"mediaTransform":{}}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	l := doc.Blocks[0].TextLayers[0]
	if l.Visible {
		t.Error("explicit visible:false was overridden")
	}
	if l.Position.Scale != 1 {
		t.Errorf("missing scale = %v, want 1", l.Position.Scale)
	}
	if doc.Blocks[0].MediaTransform.Scale != 1 {
		t.Errorf("missing media scale = %v, want 1", doc.Blocks[0].MediaTransform.Scale)
	}
	if doc.Blocks[0].Kind() != BlockKindText {
		t.Errorf("kind = %s", doc.Blocks[0].Kind())
	}
}

func TestEncodeEmptyCollections(t *testing.T) {
	doc := &Document{Version: 1, Blocks: []Block{{ID: "b"}}}
	out, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Contains(out, []byte(`"textLayers":[]`)) {
		t.Errorf("nil layers not encoded as empty array: %s", out)
	}
}

func TestDecodeError(t *testing.T) {
	if _, err := DecodeBytes([]byte(`{"version":`)); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
	if _, err := DecodeBytes([]byte(`{"version":"one"}`)); err == nil {
		t.Fatal("expected error for mistyped version")
	}
}

func TestSortedLayers(t *testing.T) {
	b := Block{TextLayers: []TextLayer{
		{ID: "a", ZIndex: 2},
		{ID: "b", ZIndex: 0},
		{ID: "c", ZIndex: 2},
		{ID: "d", ZIndex: 1},
	}}
	got := b.SortedLayers()
	want := []string{"b", "d", "a", "c"}
	for i, l := range got {
		if l.ID != want[i] {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
	if b.TextLayers[0].ID != "a" {
		t.Error("SortedLayers mutated the block")
	}
}

func ids(layers []TextLayer) []string {
	out := make([]string, len(layers))
	for i, l := range layers {
		out[i] = l.ID
	}
	return out
}

func TestPresetCategories(t *testing.T) {
	counts := map[Category]int{}
	for _, p := range Presets() {
		c, ok := p.Category()
		if !ok {
			t.Fatalf("preset %s has no category", p)
		}
		counts[c]++
	}
	want := map[Category]int{CategoryEntrance: 9, CategoryExit: 5, CategoryLoop: 8, CategoryPath: 2}
	for c, n := range want {
		if counts[c] != n {
			t.Errorf("%s presets = %d, want %d", c, counts[c], n)
		}
	}
	if Preset("sparkle").Known() {
		t.Error("unknown preset reported as known")
	}
	if !PresetCurvePath.RequiresPath() || PresetFadeIn.RequiresPath() {
		t.Error("RequiresPath mismatch")
	}
}
