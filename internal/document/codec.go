package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
)

// Decode reads a document from JSON. Unknown keys are kept in the Extra maps.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes the document as compact JSON with every object's keys sorted.
func Encode(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

var knownKeysCache sync.Map // reflect.Type -> map[string]struct{}

// knownKeys lists the JSON keys declared on a struct type.
func knownKeys(t reflect.Type) map[string]struct{} {
	if cached, ok := knownKeysCache.Load(t); ok {
		return cached.(map[string]struct{})
	}
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = t.Field(i).Name
		}
		keys[name] = struct{}{}
	}
	knownKeysCache.Store(t, keys)
	return keys
}

// unknownFields returns the members of the JSON object in data whose keys are
// not declared on the struct type of v.
func unknownFields(data []byte, v any) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	known := knownKeys(reflect.TypeOf(v))
	var extra map[string]json.RawMessage
	for k, raw := range all {
		if _, ok := known[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = raw
	}
	return extra, nil
}

// marshalSorted encodes v merged with extra. Going through a map makes
// encoding/json emit the keys in sorted order.
func marshalSorted(v any, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, ok := fields[k]; !ok {
			fields[k] = raw
		}
	}
	return json.Marshal(fields)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := unknownFields(data, p)
	if err != nil {
		return err
	}
	*d = Document(p)
	d.Extra = extra
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	return marshalSorted(plain(d), d.Extra)
}

func (m *MediaRef) UnmarshalJSON(data []byte) error {
	type plain MediaRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := unknownFields(data, p)
	if err != nil {
		return err
	}
	*m = MediaRef(p)
	m.Extra = extra
	return nil
}

func (m MediaRef) MarshalJSON() ([]byte, error) {
	type plain MediaRef
	return marshalSorted(plain(m), m.Extra)
}

func (b *Block) UnmarshalJSON(data []byte) error {
	type plain Block
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := unknownFields(data, p)
	if err != nil {
		return err
	}
	*b = Block(p)
	b.Extra = extra
	return nil
}

func (b Block) MarshalJSON() ([]byte, error) {
	type plain Block
	p := plain(b)
	if p.TextLayers == nil {
		p.TextLayers = []TextLayer{}
	}
	return marshalSorted(p, b.Extra)
}

func (l *TextLayer) UnmarshalJSON(data []byte) error {
	type plain TextLayer
	// Layers are visible unless the document says otherwise.
	p := plain{Visible: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := unknownFields(data, p)
	if err != nil {
		return err
	}
	*l = TextLayer(p)
	l.Extra = extra
	return nil
}

func (l TextLayer) MarshalJSON() ([]byte, error) {
	type plain TextLayer
	return marshalSorted(plain(l), l.Extra)
}

func (p *Position) UnmarshalJSON(data []byte) error {
	type plain Position
	v := plain{Scale: 1}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := unknownFields(data, v)
	if err != nil {
		return err
	}
	*p = Position(v)
	p.Extra = extra
	return nil
}

func (p Position) MarshalJSON() ([]byte, error) {
	type plain Position
	return marshalSorted(plain(p), p.Extra)
}

func (a *Animation) UnmarshalJSON(data []byte) error {
	type plain Animation
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := unknownFields(data, p)
	if err != nil {
		return err
	}
	*a = Animation(p)
	a.Extra = extra
	return nil
}

func (a Animation) MarshalJSON() ([]byte, error) {
	type plain Animation
	return marshalSorted(plain(a), a.Extra)
}

func (p *Path) UnmarshalJSON(data []byte) error {
	type plain Path
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := unknownFields(data, v)
	if err != nil {
		return err
	}
	*p = Path(v)
	p.Extra = extra
	return nil
}

func (p Path) MarshalJSON() ([]byte, error) {
	type plain Path
	v := plain(p)
	if v.Points == nil {
		v.Points = []Point{}
	}
	return marshalSorted(v, p.Extra)
}

func (m *MediaTransform) UnmarshalJSON(data []byte) error {
	type plain MediaTransform
	p := plain{Scale: 1}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := unknownFields(data, p)
	if err != nil {
		return err
	}
	*m = MediaTransform(p)
	m.Extra = extra
	return nil
}

func (m MediaTransform) MarshalJSON() ([]byte, error) {
	type plain MediaTransform
	return marshalSorted(plain(m), m.Extra)
}

func (pt *Point) UnmarshalJSON(data []byte) error {
	type plain Point
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := unknownFields(data, p)
	if err != nil {
		return err
	}
	*pt = Point(p)
	pt.Extra = extra
	return nil
}

func (pt Point) MarshalJSON() ([]byte, error) {
	type plain Point
	return marshalSorted(plain(pt), pt.Extra)
}
