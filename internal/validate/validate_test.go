package validate

import (
	"errors"
	"math"
	"testing"

	"github.com/richmedia/richmedia/backend-go/internal/document"
	"github.com/richmedia/richmedia/backend-go/internal/geometry"
)

func validDoc() *document.Document {
	layer := document.TextLayer{
		ID:       "l1",
		Text:     "hello",
		Position: document.Position{X: 0.5, Y: 0.5, Scale: 1},
		Visible:  true,
	}
	return &document.Document{
		Version: 1,
		Blocks: []document.Block{{
			ID:         "b1",
			Image:      &document.MediaRef{ID: "img", URL: "https://cdn.example.com/a.jpg"},
			TextLayers: []document.TextLayer{layer},
		}},
	}
}

func expectKind(t *testing.T, err error, kind Kind, path string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Kind != kind || verr.Path != path {
		t.Errorf("got %s at %s, want %s at %s", verr.Kind, verr.Path, kind, path)
	}
	if !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("error does not wrap ErrInvalidDocument")
	}
}

func TestValidDocuments(t *testing.T) {
	if err := Document(validDoc()); err != nil {
		t.Fatalf("valid doc rejected: %v", err)
	}
	if err := Document(document.NewSampleDocument()); err != nil {
		t.Fatalf("sample doc rejected: %v", err)
	}
}

func TestRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *document.Document)
		kind   Kind
		path   string
	}{
		{"version", func(d *document.Document) { d.Version = 2 }, KindOutOfRange, "version"},
		{"no blocks", func(d *document.Document) { d.Blocks = nil }, KindMissingField, "blocks"},
		{"missing block id", func(d *document.Document) { d.Blocks[0].ID = "" }, KindMissingField, "blocks[0].id"},
		{"duplicate block", func(d *document.Document) {
			d.Blocks = append(d.Blocks, d.Blocks[0])
		}, KindDuplicateID, "blocks[1].id"},
		{"image without url", func(d *document.Document) { d.Blocks[0].Image.URL = "" }, KindMissingField, "blocks[0].image.url"},
		{"video without id", func(d *document.Document) {
			d.Blocks[0].Image = nil
			d.Blocks[0].Video = &document.MediaRef{URL: "https://cdn.example.com/v.mp4"}
		}, KindMissingField, "blocks[0].video.id"},
		{"image and video", func(d *document.Document) {
			d.Blocks[0].Video = &document.MediaRef{ID: "v", URL: "u"}
		}, KindConflictingMedia, "blocks[0]"},
		{"duplicate layer", func(d *document.Document) {
			b := &d.Blocks[0]
			b.TextLayers = append(b.TextLayers, b.TextLayers[0])
		}, KindDuplicateID, "blocks[0].textLayers[1].id"},
		{"empty text", func(d *document.Document) { d.Blocks[0].TextLayers[0].Text = "  " }, KindEmptyText, "blocks[0].textLayers[0].text"},
		{"x out of range", func(d *document.Document) { d.Blocks[0].TextLayers[0].Position.X = 1.01 }, KindOutOfRange, "blocks[0].textLayers[0].position.x"},
		{"y nan", func(d *document.Document) { d.Blocks[0].TextLayers[0].Position.Y = math.NaN() }, KindOutOfRange, "blocks[0].textLayers[0].position.y"},
		{"scale low", func(d *document.Document) { d.Blocks[0].TextLayers[0].Position.Scale = 0.4 }, KindOutOfRange, "blocks[0].textLayers[0].position.scale"},
		{"scale high", func(d *document.Document) { d.Blocks[0].TextLayers[0].Position.Scale = 3.5 }, KindOutOfRange, "blocks[0].textLayers[0].position.scale"},
		{"media scale", func(d *document.Document) {
			d.Blocks[0].MediaTransform = &document.MediaTransform{Scale: 6}
		}, KindOutOfRange, "blocks[0].mediaTransform.scale"},
		{"offset at scale one", func(d *document.Document) {
			d.Blocks[0].MediaTransform = &document.MediaTransform{Scale: 1, OffsetX: 10}
		}, KindOutOfRange, "blocks[0].mediaTransform.offsetX"},
		{"offsetY past bound", func(d *document.Document) {
			// Bound at scale 2 on 390x844 is 195 x 422.
			d.Blocks[0].MediaTransform = &document.MediaTransform{Scale: 2, OffsetX: 195, OffsetY: -423}
		}, KindOutOfRange, "blocks[0].mediaTransform.offsetY"},
		{"unknown preset", func(d *document.Document) {
			d.Blocks[0].TextLayers[0].Animation = &document.Animation{Preset: "sparkle", Duration: 1}
		}, KindUnknownPreset, "blocks[0].textLayers[0].animation.preset"},
		{"path preset without path", func(d *document.Document) {
			d.Blocks[0].TextLayers[0].Animation = &document.Animation{Preset: document.PresetMotionPath, Duration: 1}
		}, KindMissingPathForPreset, "blocks[0].textLayers[0].path"},
		{"path preset with one point", func(d *document.Document) {
			l := &d.Blocks[0].TextLayers[0]
			l.Animation = &document.Animation{Preset: document.PresetCurvePath, Duration: 1}
			l.Path = &document.Path{Type: document.PathCustom, Points: []document.Point{{X: 0.5, Y: 0.5}}}
		}, KindMissingPathForPreset, "blocks[0].textLayers[0].path.points"},
		{"zero duration", func(d *document.Document) {
			d.Blocks[0].TextLayers[0].Animation = &document.Animation{Preset: document.PresetFadeIn}
		}, KindOutOfRange, "blocks[0].textLayers[0].animation.duration"},
		{"negative delay", func(d *document.Document) {
			d.Blocks[0].TextLayers[0].Animation = &document.Animation{Preset: document.PresetFadeIn, Duration: 1, Delay: -0.1}
		}, KindOutOfRange, "blocks[0].textLayers[0].animation.delay"},
		{"negative loop delay", func(d *document.Document) {
			d.Blocks[0].TextLayers[0].Animation = &document.Animation{Preset: document.PresetPulse, Duration: 1, Loop: true, LoopDelay: -1}
		}, KindOutOfRange, "blocks[0].textLayers[0].animation.loopDelay"},
		{"unknown path type", func(d *document.Document) {
			d.Blocks[0].TextLayers[0].Path = &document.Path{Type: "spiral", Points: []document.Point{{}, {}}}
		}, KindUnknownPathType, "blocks[0].textLayers[0].path.type"},
		{"huge path point", func(d *document.Document) {
			l := &d.Blocks[0].TextLayers[0]
			l.Animation = &document.Animation{Preset: document.PresetMotionPath, Duration: 1}
			l.Path = &document.Path{Type: document.PathCustom, Points: []document.Point{{X: 0.1, Y: 0.1}, {X: 1e308, Y: 0.5}}}
		}, KindOutOfRange, "blocks[0].textLayers[0].path.points[1].x"},
		{"nan path point", func(d *document.Document) {
			d.Blocks[0].TextLayers[0].Path = &document.Path{Type: document.PathLinear, Points: []document.Point{{X: 0.2, Y: math.NaN()}, {X: 0.8, Y: 0.5}}}
		}, KindOutOfRange, "blocks[0].textLayers[0].path.points[0].y"},
		{"negative path point", func(d *document.Document) {
			d.Blocks[0].TextLayers[0].Path = &document.Path{Type: document.PathCustom, Points: []document.Point{{X: 0.2, Y: 0.2}, {X: 0.5, Y: 0.5}, {X: -0.01, Y: 0.5}}}
		}, KindOutOfRange, "blocks[0].textLayers[0].path.points[2].x"},
		{"infinite path point", func(d *document.Document) {
			d.Blocks[0].TextLayers[0].Path = &document.Path{Type: document.PathCustom, Points: []document.Point{{X: 0.2, Y: math.Inf(1)}, {X: 0.5, Y: 0.5}}}
		}, KindOutOfRange, "blocks[0].textLayers[0].path.points[0].y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.mutate(doc)
			expectKind(t, Document(doc), tt.kind, tt.path)
		})
	}
}

func TestLayerCountFailsFirst(t *testing.T) {
	doc := validDoc()
	b := &doc.Blocks[0]
	b.TextLayers = nil
	for i := 0; i < 11; i++ {
		// Empty text on every layer: the count rule must win.
		b.TextLayers = append(b.TextLayers, document.TextLayer{ID: string(rune('a' + i))})
	}
	expectKind(t, Document(doc), KindOutOfRange, "blocks[0].textLayers")

	b.TextLayers = b.TextLayers[:10]
	for i := range b.TextLayers {
		b.TextLayers[i].Text = "ok"
		b.TextLayers[i].Position = document.Position{X: 0.5, Y: 0.5, Scale: 1}
	}
	if err := Document(doc); err != nil {
		t.Fatalf("10 layers rejected: %v", err)
	}
}

func TestOffsetBoundary(t *testing.T) {
	doc := validDoc()
	doc.Blocks[0].MediaTransform = &document.MediaTransform{Scale: 2, OffsetX: -195, OffsetY: 422}
	if err := Document(doc); err != nil {
		t.Fatalf("offset on the bound rejected: %v", err)
	}

	// A smaller canvas tightens the bound.
	small := geometry.Size{Width: 100, Height: 100}
	expectKind(t, Document(doc, WithCanvas(small)), KindOutOfRange, "blocks[0].mediaTransform.offsetX")

	// An empty canvas keeps the reference one.
	if err := Document(doc, WithCanvas(geometry.Size{})); err != nil {
		t.Fatalf("empty canvas option changed the bound: %v", err)
	}
}

func TestRoundTripPreservesVerdict(t *testing.T) {
	docs := []*document.Document{validDoc(), document.NewSampleDocument()}
	bad := validDoc()
	bad.Blocks[0].TextLayers[0].Position.Scale = 9
	docs = append(docs, bad)

	for i, d := range docs {
		data, err := document.Encode(d)
		if err != nil {
			t.Fatalf("doc %d encode: %v", i, err)
		}
		back, err := document.DecodeBytes(data)
		if err != nil {
			t.Fatalf("doc %d decode: %v", i, err)
		}
		before, after := Document(d), Document(back)
		if (before == nil) != (after == nil) {
			t.Fatalf("doc %d verdict changed: %v vs %v", i, before, after)
		}
		if before != nil && before.Error() != after.Error() {
			t.Errorf("doc %d error changed: %v vs %v", i, before, after)
		}
	}
}

func TestNilDocument(t *testing.T) {
	expectKind(t, Document(nil), KindMissingField, "$")
}
