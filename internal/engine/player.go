package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/richmedia/richmedia/backend-go/internal/document"
	"github.com/richmedia/richmedia/backend-go/internal/geometry"
	"github.com/richmedia/richmedia/backend-go/internal/validate"
)

var (
	ErrNoDocument      = errors.New("no document loaded")
	ErrBlockOutOfRange = errors.New("block index out of range")
)

// Player owns a document snapshot and a playhead for a render loop. It never
// reads the clock: the host feeds it elapsed time through Seek and Advance.
// A Player is not safe for concurrent use.
type Player struct {
	// Document state
	doc   *document.Document
	block int

	// Render surface
	canvas    geometry.Size
	reference geometry.Size
	media     geometry.Size

	// Playback state
	elapsed float64
	playing bool
}

// NewPlayer creates a player rendering onto canvas for documents authored
// against reference. Documents are validated against reference, and layer
// offsets scale by canvas.Width / reference.Width. An empty reference selects
// geometry.ReferenceCanvas; an empty canvas selects the reference.
func NewPlayer(canvas, reference geometry.Size) *Player {
	if reference.IsEmpty() {
		reference = geometry.ReferenceCanvas
	}
	if canvas.IsEmpty() {
		canvas = reference
	}
	return &Player{canvas: canvas, reference: reference}
}

// --- Commands ---

// Load validates doc and takes a private copy of it. Playback restarts at the
// first block.
func (p *Player) Load(doc *document.Document) error {
	if err := validate.Document(doc, validate.WithCanvas(p.reference)); err != nil {
		return err
	}
	snapshot, err := clone(doc)
	if err != nil {
		return err
	}

	p.doc = snapshot
	p.block = 0
	p.elapsed = 0
	p.playing = false
	return nil
}

// LoadJSON decodes and loads a document.
func (p *Player) LoadJSON(data []byte) error {
	doc, err := document.DecodeBytes(data)
	if err != nil {
		return err
	}
	return p.Load(doc)
}

// Update swaps in an edited document while keeping the playhead. The block
// index is clamped to the new document.
func (p *Player) Update(doc *document.Document) error {
	if err := validate.Document(doc, validate.WithCanvas(p.reference)); err != nil {
		return err
	}
	snapshot, err := clone(doc)
	if err != nil {
		return err
	}

	p.doc = snapshot
	if p.block >= len(snapshot.Blocks) {
		p.block = len(snapshot.Blocks) - 1
	}
	return nil
}

// clone deep-copies a document through its wire format so later edits by the
// caller never reach the player.
func clone(doc *document.Document) (*document.Document, error) {
	data, err := document.Encode(doc)
	if err != nil {
		return nil, err
	}
	return document.DecodeBytes(data)
}

// SetBlock selects the block to render and rewinds to 0.
func (p *Player) SetBlock(index int) error {
	if p.doc == nil {
		return ErrNoDocument
	}
	if index < 0 || index >= len(p.doc.Blocks) {
		return fmt.Errorf("%w: %d of %d", ErrBlockOutOfRange, index, len(p.doc.Blocks))
	}
	p.block = index
	p.elapsed = 0
	return nil
}

// SetCanvas changes the render surface size. Empty sizes are ignored.
func (p *Player) SetCanvas(canvas geometry.Size) {
	if !canvas.IsEmpty() {
		p.canvas = canvas
	}
}

// SetMediaSize sets the intrinsic size of the current block's media.
func (p *Player) SetMediaSize(size geometry.Size) {
	p.media = size
}

// Seek moves the playhead. Negative and non-finite times rewind to 0.
func (p *Player) Seek(seconds float64) {
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	p.elapsed = seconds
}

// Advance moves the playhead forward by dt seconds while playing.
func (p *Player) Advance(dt float64) {
	if !p.playing || !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	p.elapsed += dt
}

// Play starts playback.
func (p *Player) Play() {
	p.playing = true
}

// Pause stops playback.
func (p *Player) Pause() {
	p.playing = false
}

// TogglePlay toggles play/pause state.
func (p *Player) TogglePlay() {
	p.playing = !p.playing
}

// --- Queries ---

// Render composes the current block at the playhead.
func (p *Player) Render() (BlockFrame, error) {
	if p.doc == nil {
		return BlockFrame{}, ErrNoDocument
	}
	return ComposeBlock(p.doc.Blocks[p.block], p.canvas, p.media, p.elapsed, WithReference(p.reference)), nil
}

// Tick advances by dt when playing and renders.
func (p *Player) Tick(dt float64) (BlockFrame, error) {
	p.Advance(dt)
	return p.Render()
}

// PlaybackState is the player's state as reported to hosts.
type PlaybackState struct {
	Block      int           `json:"block"`
	BlockCount int           `json:"blockCount"`
	Elapsed    float64       `json:"elapsed"`
	Playing    bool          `json:"playing"`
	Duration   float64       `json:"duration"`
	Loops      bool          `json:"loops"`
	Canvas     geometry.Size `json:"canvas"`
	Reference  geometry.Size `json:"reference"`
}

// State returns the current playback state.
func (p *Player) State() PlaybackState {
	s := PlaybackState{
		Block:     p.block,
		Elapsed:   p.elapsed,
		Playing:   p.playing,
		Canvas:    p.canvas,
		Reference: p.reference,
	}
	if p.doc != nil {
		s.BlockCount = len(p.doc.Blocks)
		s.Duration, s.Loops = BlockDuration(p.doc.Blocks[p.block])
	}
	return s
}

// Document returns the player's snapshot, or nil.
func (p *Player) Document() *document.Document {
	return p.doc
}

// Elapsed returns the playhead in seconds.
func (p *Player) Elapsed() float64 {
	return p.elapsed
}

// IsPlaying returns whether playback is active.
func (p *Player) IsPlaying() bool {
	return p.playing
}
