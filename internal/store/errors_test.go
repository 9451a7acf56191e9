package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"generic not found", ErrNotFound, true},
		{"task not found", ErrTaskNotFound, true},
		{"user not found", ErrUserNotFound, true},
		{"settings not found", ErrSettingsNotFound, true},
		{"wrapped task not found", fmt.Errorf("loading: %w", ErrTaskNotFound), true},
		{"duplicate error", ErrDuplicate, false},
		{"arbitrary error", errors.New("boom"), false},
		{"nil error", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, IsNotFoundError(tc.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(ErrEmailExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("creating user: %w", ErrEmailExists)))
	assert.False(t, IsDuplicateError(ErrNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	t.Run("with wrapped error", func(t *testing.T) {
		t.Parallel()

		inner := errors.New("connection refused")
		err := NewStoreError("task", "update", "could not persist transition", inner)

		assert.Contains(t, err.Error(), "update operation on task failed")
		assert.Contains(t, err.Error(), "connection refused")
		assert.ErrorIs(t, err, inner)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		t.Parallel()

		err := NewStoreError("user", "create", "validation rejected", nil)

		assert.Equal(t, "create operation on user failed: validation rejected", err.Error())
		assert.Nil(t, errors.Unwrap(err))
	})
}
