package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetDelete(t *testing.T) {
	c := NewMemory("t")
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.True(t, IsNotFound(err))
}

func TestMemory_TTLExpires(t *testing.T) {
	c := NewMemory("t")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(15 * time.Millisecond)
	_, err := c.Get(ctx, "k")
	assert.True(t, IsNotFound(err))

	// ttl 0 = sin expiración
	require.NoError(t, c.Set(ctx, "p", "v", 0))
	time.Sleep(5 * time.Millisecond)
	_, err = c.Get(ctx, "p")
	assert.NoError(t, err)
}

func TestMemory_DeletePrefix(t *testing.T) {
	c := NewMemory("t")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "page:m1:home", "a", 0))
	require.NoError(t, c.Set(ctx, "page:m1:rates", "b", 0))
	require.NoError(t, c.Set(ctx, "page:m2:home", "c", 0))

	require.NoError(t, c.DeletePrefix(ctx, "page:m1:"))

	_, err := c.Get(ctx, "page:m1:home")
	assert.True(t, IsNotFound(err))
	_, err = c.Get(ctx, "page:m1:rates")
	assert.True(t, IsNotFound(err))
	_, err = c.Get(ctx, "page:m2:home")
	assert.NoError(t, err)
}

func TestMemory_Stats(t *testing.T) {
	c := NewMemory("t")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "missing")

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "memory", st.Driver)
	assert.EqualValues(t, 1, st.Keys)
	assert.EqualValues(t, 1, st.Hits)
	assert.EqualValues(t, 1, st.Misses)
}
