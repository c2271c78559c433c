// Command rmctl validates richmedia documents and prints composed frames.
//
//	rmctl validate doc.json
//	rmctl frames -block 1 -t 0.5 -canvas 780x1688 -format yaml doc.yaml
//	rmctl watch doc.json
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: rmctl <command> [flags] <file>

commands:
  validate   check a document (JSON, or YAML by extension)
  frames     print the composed frame of one block
  watch      re-validate a document on every change
`

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

var errInvalid = errors.New("document is invalid")

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	switch args[0] {
	case "validate":
		return runValidate(args[1:], out)
	case "frames":
		return runFrames(args[1:], out)
	case "watch":
		return runWatch(ctx, args[1:], out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}
