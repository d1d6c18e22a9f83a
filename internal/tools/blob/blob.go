// Package blob reads and writes documents in object storage.
package blob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
)

// ErrNotFound is returned when no object exists at a location.
var ErrNotFound = errors.New("object not found")

// Location addresses an object.
type Location struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s/%s", l.Bucket, l.Key)
}

// Store reads and writes whole objects.
type Store interface {
	Get(ctx context.Context, loc Location) ([]byte, error)
	Put(ctx context.Context, loc Location, body []byte) error
}

type RetryOptions struct {
	Attempts uint
	Delay    time.Duration
}

// WithRetry retries failed reads and writes of s. Missing objects are not retried.
func WithRetry(s Store, opts RetryOptions) Store {
	if opts.Attempts == 0 {
		opts.Attempts = 3
	}
	if opts.Delay == 0 {
		opts.Delay = 100 * time.Millisecond
	}
	return &retrying{store: s, opts: opts}
}

type retrying struct {
	store Store
	opts  RetryOptions
}

func (r *retrying) Get(ctx context.Context, loc Location) (body []byte, err error) {
	err = retry.Do(
		func() error {
			body, err = r.store.Get(ctx, loc)
			return err
		},
		r.options(ctx)...,
	)
	return body, err
}

func (r *retrying) Put(ctx context.Context, loc Location, body []byte) error {
	return retry.Do(
		func() error {
			return r.store.Put(ctx, loc, body)
		},
		r.options(ctx)...,
	)
}

func (r *retrying) options(ctx context.Context) []retry.Option {
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(r.opts.Attempts),
		retry.Delay(r.opts.Delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, ErrNotFound)
		}),
	}
}
