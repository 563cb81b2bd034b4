package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	var s Store = NewMemory()

	_, ok, err := s.Get(ctx, "nuvella-cart:abc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "nuvella-cart:abc", `[{"id":"1"}]`))
	require.NoError(t, s.Set(ctx, "nuvella-cart:abc", `[]`))

	v, ok, err := s.Get(ctx, "nuvella-cart:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v, "last write wins")

	require.NoError(t, s.Delete(ctx, "nuvella-cart:abc"))
	_, ok, _ = s.Get(ctx, "nuvella-cart:abc")
	assert.False(t, ok)
	assert.True(t, s.Available())
}
