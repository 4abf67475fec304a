package publish

import (
	"context"
	"errors"

	"m3u-guardian/core/reconcile"
)

// Multi publishes to every publisher in order. All of them are attempted;
// their errors are joined.
type Multi []reconcile.Publisher

// Publish calls each publisher.
func (m Multi) Publish(ctx context.Context, content []byte, summary string) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, content, summary); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop accepts every document without doing anything.
type Nop struct{}

// Publish does nothing.
func (Nop) Publish(context.Context, []byte, string) error { return nil }
