package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

func runWatch(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(out)
	canvasFlag := fs.String("canvas", "390x844", "reference canvas for media offset checks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("watch: expected one file")
	}
	canvas, err := parseCanvas(*canvasFlag)
	if err != nil {
		return err
	}

	path, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		return err
	}

	check := func() {
		doc, err := readDocument(path)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", path, err)
			return
		}
		if err := report(out, path, doc, canvas); err != nil && !errors.Is(err, errInvalid) {
			fmt.Fprintf(out, "%s: %v\n", path, err)
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Editors often replace files on save, so watch the directory.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	check()
	return watchLoop(ctx, w, path, check)
}

// watchLoop calls onChange once path has been quiet for the debounce window
// after a write, create or rename. Saves usually arrive as a truncate plus
// one or more writes.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, onChange func()) error {
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			timer.Reset(debounce)

		case <-timer.C:
			onChange()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}
