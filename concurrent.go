package unboxed

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/unboxed/resource"
)

// minChunk is the smallest range handed to one worker.
const minChunk = 4096

// GenerateConcurrent is Generate with fn evaluated by parallel workers, each
// writing a disjoint range of one vector. Parallelism is bounded by the
// controller's worker slots, or GOMAXPROCS when rc is nil. fn must be safe for
// concurrent use.
//
// Cancelling ctx stops outstanding workers; the partially filled vector is
// discarded and ctx's error returned.
func GenerateConcurrent[T any](ctx context.Context, rc *resource.Controller, f Family[T], n int, fn func(i int) T) (Vector[T], error) {
	mv, err := f.New(n)
	if err != nil {
		return nil, err
	}

	workers := runtime.GOMAXPROCS(0)
	if rc != nil {
		workers = rc.MaxWorkers()
	}
	chunk := max(minChunk, (n+workers-1)/max(workers, 1))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < n; start += chunk {
		part, err := mv.Slice(start, min(chunk, n-start))
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			if err := rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer rc.ReleaseWorker()

			for i := range part.Len() {
				if i%minChunk == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				if err := part.Write(i, fn(start+i)); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return mv.Freeze()
}
