// Package batch runs remote mutations in ordered, bounded batches.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultSize is the number of concurrent calls in a batch.
const DefaultSize = 10

// Chunk splits items into consecutive slices of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultSize
	}
	var res [][]T
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		res = append(res, items[i:end])
	}
	return res
}

// Run calls fn for every item, size items at a time. Each batch is awaited
// before the next one starts. The first failure cancels the context of its
// batch and is returned once the batch has drained; later batches do not run.
// Results are returned in item order.
func Run[T, R any](ctx context.Context, items []T, size int, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	res := make([]R, 0, len(items))
	for _, chunk := range Chunk(items, size) {
		out := make([]R, len(chunk))

		g, gctx := errgroup.WithContext(ctx)
		for i, item := range chunk {
			i, item := i, item
			g.Go(func() error {
				r, err := fn(gctx, item)
				if err != nil {
					return err
				}
				out[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		res = append(res, out...)
	}
	return res, nil
}

// Each is Run for calls without a result.
func Each[T any](ctx context.Context, items []T, size int, fn func(ctx context.Context, item T) error) error {
	_, err := Run(ctx, items, size, func(ctx context.Context, item T) (struct{}, error) {
		return struct{}{}, fn(ctx, item)
	})
	return err
}
