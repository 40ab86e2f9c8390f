package panicerr

import (
	"context"

	"github.com/sourcegraph/conc/panics"
)

// Safe runs fn and converts a panic into an error.
func Safe(fn func() error) func() error {
	return func() error {
		var (
			catcher panics.Catcher
			err     error
		)
		catcher.Try(func() {
			err = fn()
		})
		if err != nil {
			return err
		}
		return catcher.Recovered().AsError()
	}
}

// Call runs fn with ctx and returns its value, reporting a panic as an
// error with the recovered value and stack attached.
func Call[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var (
		catcher panics.Catcher
		v       T
		err     error
	)
	catcher.Try(func() {
		v, err = fn(ctx)
	})
	if r := catcher.Recovered(); r != nil {
		var zero T
		return zero, r.AsError()
	}
	return v, err
}
