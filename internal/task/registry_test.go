package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	_, ok := registry.Get("csv_export")
	assert.False(t, ok)
	assert.Empty(t, registry.Kinds())

	handler := &stubHandler{
		kind: "csv_export",
		fn: func(ctx context.Context, _ uuid.UUID, _ string) (string, error) {
			return "", nil
		},
	}
	registry.Register(handler)

	got, ok := registry.Get("csv_export")
	require.True(t, ok)
	assert.Same(t, handler, got.(*stubHandler))
	assert.Equal(t, []string{"csv_export"}, registry.Kinds())

	// Re-registering a kind replaces the previous handler.
	replacement := &stubHandler{kind: "csv_export", fn: handler.fn}
	registry.Register(replacement)

	got, ok = registry.Get("csv_export")
	require.True(t, ok)
	assert.Same(t, replacement, got.(*stubHandler))
	assert.Len(t, registry.Kinds(), 1)
}
