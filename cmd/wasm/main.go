//go:build js && wasm

package main

import (
	"encoding/json"
	"errors"
	"syscall/js"

	"github.com/richmedia/richmedia/backend-go/internal/animation"
	"github.com/richmedia/richmedia/backend-go/internal/curve"
	"github.com/richmedia/richmedia/backend-go/internal/document"
	"github.com/richmedia/richmedia/backend-go/internal/engine"
	"github.com/richmedia/richmedia/backend-go/internal/geometry"
	"github.com/richmedia/richmedia/backend-go/internal/validate"
)

var player *engine.Player

func main() {
	player = engine.NewPlayer(geometry.ReferenceCanvas, geometry.ReferenceCanvas)

	richmedia := js.Global().Get("Object").New()

	// --- Commands (host → engine) ---
	richmedia.Set("loadDocument", js.FuncOf(loadDocument))
	richmedia.Set("updateDocument", js.FuncOf(updateDocument))
	richmedia.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	richmedia.Set("setBlock", js.FuncOf(setBlock))
	richmedia.Set("setCanvas", js.FuncOf(setCanvas))
	richmedia.Set("setReferenceCanvas", js.FuncOf(setReferenceCanvas))
	richmedia.Set("setMediaSize", js.FuncOf(setMediaSize))
	richmedia.Set("seek", js.FuncOf(seek))
	richmedia.Set("play", js.FuncOf(play))
	richmedia.Set("pause", js.FuncOf(pause))
	richmedia.Set("togglePlay", js.FuncOf(togglePlay))
	richmedia.Set("tick", js.FuncOf(tick))

	// --- Queries (host ← engine) ---
	richmedia.Set("render", js.FuncOf(render))
	richmedia.Set("getFrame", js.FuncOf(getFrame))
	richmedia.Set("hitTest", js.FuncOf(hitTest))
	richmedia.Set("getPlaybackState", js.FuncOf(getPlaybackState))
	richmedia.Set("getDocument", js.FuncOf(getDocument))
	richmedia.Set("isPlaying", js.FuncOf(isPlaying))

	// --- Stateless evaluation ---
	richmedia.Set("validate", js.FuncOf(validateDocument))
	richmedia.Set("layerPixelTransform", js.FuncOf(layerPixelTransform))
	richmedia.Set("mediaPixelTransform", js.FuncOf(mediaPixelTransform))
	richmedia.Set("samplePath", js.FuncOf(samplePath))
	richmedia.Set("evaluate", js.FuncOf(evaluate))

	js.Global().Set("richmediaEngine", richmedia)
	js.Global().Set("richmediaWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(err error) interface{} {
	out := map[string]interface{}{"error": err.Error()}
	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		out["kind"] = string(verr.Kind)
		out["path"] = verr.Path
	}
	return js.ValueOf(out)
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// jsonResult marshals v and returns it as a JSON string.
func jsonResult(v any) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(string(data))
}

// jsonArg decodes args[i] (a JSON string) into v.
func jsonArg(args []js.Value, i int, v any) error {
	if len(args) <= i || args[i].Type() != js.TypeString {
		return errors.New("missing JSON argument")
	}
	return json.Unmarshal([]byte(args[i].String()), v)
}

func sizeArgs(args []js.Value, i int) geometry.Size {
	if len(args) < i+2 {
		return geometry.Size{}
	}
	return geometry.Size{Width: args[i].Float(), Height: args[i+1].Float()}
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult(errors.New("missing document JSON"))
	}
	if err := player.LoadJSON([]byte(args[0].String())); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func updateDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult(errors.New("missing document JSON"))
	}
	doc, err := document.DecodeBytes([]byte(args[0].String()))
	if err != nil {
		return errorResult(err)
	}
	if err := player.Update(doc); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	if err := player.Load(document.NewSampleDocument()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func setBlock(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	if err := player.SetBlock(args[0].Int()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func setCanvas(this js.Value, args []js.Value) interface{} {
	player.SetCanvas(sizeArgs(args, 0))
	return nil
}

// setReferenceCanvas(width, height) replaces the player; the document must be
// loaded again.
func setReferenceCanvas(this js.Value, args []js.Value) interface{} {
	player = engine.NewPlayer(player.State().Canvas, sizeArgs(args, 0))
	return nil
}

func setMediaSize(this js.Value, args []js.Value) interface{} {
	player.SetMediaSize(sizeArgs(args, 0))
	return nil
}

func seek(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	player.Seek(args[0].Float())
	return nil
}

func play(this js.Value, args []js.Value) interface{} {
	player.Play()
	return nil
}

func pause(this js.Value, args []js.Value) interface{} {
	player.Pause()
	return nil
}

func togglePlay(this js.Value, args []js.Value) interface{} {
	player.TogglePlay()
	return nil
}

// tick advances by dt seconds and returns the draw commands.
func tick(this js.Value, args []js.Value) interface{} {
	dt := 0.0
	if len(args) > 0 {
		dt = args[0].Float()
	}
	frame, err := player.Tick(dt)
	if err != nil {
		return js.ValueOf("[]")
	}
	return jsonResult(engine.CompileDrawCommands(frame))
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	frame, err := player.Render()
	if err != nil {
		return js.ValueOf("[]")
	}
	return jsonResult(engine.CompileDrawCommands(frame))
}

func getFrame(this js.Value, args []js.Value) interface{} {
	frame, err := player.Render()
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(frame)
}

// hitTest takes x, y and optionally a JSON map of layer id to measured text
// size.
func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	frame, err := player.Render()
	if err != nil {
		return js.ValueOf("")
	}
	var sizes map[string]geometry.Size
	if len(args) > 2 {
		jsonArg(args, 2, &sizes)
	}
	return js.ValueOf(engine.HitTest(frame, geometry.Point{X: args[0].Float(), Y: args[1].Float()}, sizes))
}

func getPlaybackState(this js.Value, args []js.Value) interface{} {
	return jsonResult(player.State())
}

func getDocument(this js.Value, args []js.Value) interface{} {
	doc := player.Document()
	if doc == nil {
		return js.ValueOf("null")
	}
	data, err := document.Encode(doc)
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(string(data))
}

func isPlaying(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(player.IsPlaying())
}

// --- Stateless evaluation ---

func validateDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult(errors.New("missing document JSON"))
	}
	doc, err := document.DecodeBytes([]byte(args[0].String()))
	if err != nil {
		return errorResult(err)
	}
	if err := validate.Document(doc, validate.WithCanvas(player.State().Reference)); err != nil {
		return errorResult(err)
	}
	return okResult()
}

// layerPixelTransform(positionJSON, canvasW, canvasH)
func layerPixelTransform(this js.Value, args []js.Value) interface{} {
	var pos document.Position
	if err := jsonArg(args, 0, &pos); err != nil {
		return errorResult(err)
	}
	return jsonResult(geometry.LayerPixelTransformFor(pos, sizeArgs(args, 1), player.State().Reference))
}

// mediaPixelTransform(transformJSON, canvasW, canvasH, mediaW, mediaH)
func mediaPixelTransform(this js.Value, args []js.Value) interface{} {
	t := document.IdentityMediaTransform()
	if err := jsonArg(args, 0, &t); err != nil {
		return errorResult(err)
	}
	return jsonResult(geometry.MediaPixelTransform(t, sizeArgs(args, 1), sizeArgs(args, 3)))
}

// samplePath(pathJSON, t, canvasW, canvasH)
func samplePath(this js.Value, args []js.Value) interface{} {
	var path document.Path
	if err := jsonArg(args, 0, &path); err != nil {
		return errorResult(err)
	}
	if len(args) < 2 {
		return errorResult(errors.New("missing t"))
	}
	return jsonResult(curve.Sample(path, args[1].Float(), sizeArgs(args, 2)))
}

// evaluate(animationJSON, pathJSON|null, canvasW, canvasH, elapsed)
func evaluate(this js.Value, args []js.Value) interface{} {
	var anim document.Animation
	if err := jsonArg(args, 0, &anim); err != nil {
		return errorResult(err)
	}
	var path *document.Path
	if len(args) > 1 && args[1].Type() == js.TypeString {
		path = &document.Path{}
		if err := jsonArg(args, 1, path); err != nil {
			return errorResult(err)
		}
	}
	if len(args) < 5 {
		return errorResult(errors.New("missing elapsed"))
	}
	return jsonResult(animation.Evaluate(anim, path, sizeArgs(args, 2), args[4].Float()))
}
