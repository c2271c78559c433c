package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/richmedia/richmedia/backend-go/internal/document"
	"github.com/richmedia/richmedia/backend-go/internal/geometry"
)

// RenderThumbnails composes every block of doc at the same elapsed time with
// up to workers goroutines. Frames come back in block order. workers <= 0 uses
// GOMAXPROCS. Media is treated as canvas-sized.
func RenderThumbnails(ctx context.Context, doc *document.Document, canvas geometry.Size, elapsed float64, workers int, opts ...ComposeOption) ([]BlockFrame, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	frames := make([]BlockFrame, len(doc.Blocks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range doc.Blocks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			frames[i] = ComposeBlock(doc.Blocks[i], canvas, geometry.Size{}, elapsed, opts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}
