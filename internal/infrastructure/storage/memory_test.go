package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryObjectStorage_RoundTrip(t *testing.T) {
	s := NewMemoryObjectStorage("https://cdn.example.com/images")
	ctx := context.Background()

	require.NoError(t, s.PutObject(ctx, "items/I1/a.png", strings.NewReader("pngdata-and-more"), 7, "image/png"))

	data, ct, ok := s.Object("items/I1/a.png")
	require.True(t, ok)
	assert.Equal(t, "pngdata", string(data))
	assert.Equal(t, "image/png", ct)

	u, err := s.PresignGet(ctx, "items/I1/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/images/items/I1/a.png", u)

	require.NoError(t, s.DeleteObject(ctx, "items/I1/a.png"))
	_, _, ok = s.Object("items/I1/a.png")
	assert.False(t, ok)
}

func TestMemoryObjectStorage_Defaults(t *testing.T) {
	s := NewMemoryObjectStorage("")
	assert.Equal(t, "http://localhost/images", s.BaseURL)

	_, err := s.PresignGet(context.Background(), "")
	assert.ErrorIs(t, err, errEmptyKey)
}
