package panicerr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafe(t *testing.T) {
	sentinel := errors.New("boom")

	assert.NoError(t, Safe(func() error { return nil })())
	assert.ErrorIs(t, Safe(func() error { return sentinel })(), sentinel)

	err := Safe(func() error { panic("exploded") })()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exploded")
}

func TestCall(t *testing.T) {
	ctx := context.Background()

	v, err := Call(ctx, func(context.Context) (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	v, err = Call(ctx, func(context.Context) (string, error) {
		var m map[string]int
		m["x"] = 1
		return "unreachable", nil
	})
	require.Error(t, err)
	assert.Empty(t, v)
	assert.Contains(t, err.Error(), "assignment to entry in nil map")
}
