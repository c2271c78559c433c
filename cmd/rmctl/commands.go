package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/richmedia/richmedia/backend-go/internal/document"
	"github.com/richmedia/richmedia/backend-go/internal/engine"
	"github.com/richmedia/richmedia/backend-go/internal/geometry"
	"github.com/richmedia/richmedia/backend-go/internal/validate"
)

// readDocument decodes path as YAML when it ends in .yaml or .yml and as
// JSON otherwise.
func readDocument(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		return document.DecodeYAML(data)
	}
	return document.DecodeBytes(data)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// parseCanvas parses "WxH", e.g. "390x844".
func parseCanvas(s string) (geometry.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return geometry.Size{}, fmt.Errorf("canvas %q: want WIDTHxHEIGHT", s)
	}
	width, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("canvas width: %w", err)
	}
	height, err := strconv.ParseFloat(h, 64)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("canvas height: %w", err)
	}
	size := geometry.Size{Width: width, Height: height}
	if size.IsEmpty() {
		return geometry.Size{}, fmt.Errorf("canvas %q must be positive", s)
	}
	return size, nil
}

// report checks doc and prints the verdict. It returns errInvalid when the
// document fails validation.
func report(out io.Writer, path string, doc *document.Document, canvas geometry.Size) error {
	err := validate.Document(doc, validate.WithCanvas(canvas))
	var verr *validate.ValidationError
	switch {
	case err == nil:
		fmt.Fprintf(out, "%s: ok (%d blocks)\n", path, len(doc.Blocks))
		return nil
	case errors.As(err, &verr):
		fmt.Fprintf(out, "%s: %s at %s: %s\n", path, verr.Kind, verr.Path, verr.Message)
		return errInvalid
	default:
		return err
	}
}

func runValidate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(out)
	canvasFlag := fs.String("canvas", "390x844", "reference canvas for media offset checks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("validate: expected one file")
	}
	canvas, err := parseCanvas(*canvasFlag)
	if err != nil {
		return err
	}

	path := fs.Arg(0)
	doc, err := readDocument(path)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", path, err)
		return errInvalid
	}
	return report(out, path, doc, canvas)
}

func runFrames(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("frames", flag.ContinueOnError)
	fs.SetOutput(out)
	block := fs.Int("block", 0, "block index")
	elapsed := fs.Float64("t", 0, "seconds since the block appeared")
	canvasFlag := fs.String("canvas", "390x844", "render canvas")
	referenceFlag := fs.String("reference", "390x844", "canvas the document was authored against")
	media := fs.String("media", "", "intrinsic media size WxH (default: canvas)")
	format := fs.String("format", "json", "output format: json, yaml or commands")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("frames: expected one file")
	}
	canvas, err := parseCanvas(*canvasFlag)
	if err != nil {
		return err
	}
	reference, err := parseCanvas(*referenceFlag)
	if err != nil {
		return err
	}
	var mediaSize geometry.Size
	if *media != "" {
		if mediaSize, err = parseCanvas(*media); err != nil {
			return err
		}
	}

	doc, err := readDocument(fs.Arg(0))
	if err != nil {
		return err
	}
	player := engine.NewPlayer(canvas, reference)
	if err := player.Load(doc); err != nil {
		return err
	}
	if err := player.SetBlock(*block); err != nil {
		return err
	}
	player.SetMediaSize(mediaSize)
	player.Seek(*elapsed)

	frame, err := player.Render()
	if err != nil {
		return err
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(frame)
	case "commands":
		s, err := engine.DrawCommandsToJSON(engine.CompileDrawCommands(frame))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, s)
		return err
	case "yaml":
		data, err := document.MarshalYAML(frame)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}
