package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, "k", "unknown"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 30*time.Second))

	now = now.Add(29 * time.Second)
	_, err := c.Get(ctx, "k")
	assert.NoError(t, err)

	now = now.Add(time.Second)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestJSONHelpers(t *testing.T) {
	type payload struct {
		Present int `json:"present"`
	}
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, SetJSON(ctx, c, "dash", payload{Present: 3}, time.Minute))
	got, err := GetJSON[payload](ctx, c, "dash")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Present)

	require.NoError(t, c.Set(ctx, "broken", []byte("{"), time.Minute))
	_, err = GetJSON[payload](ctx, c, "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}
