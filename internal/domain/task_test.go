package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	t.Run("valid task", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		task, err := NewTask(ownerID, "csv_export", `{"format":"csv"}`)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, ownerID, task.OwnerID)
		assert.Equal(t, TaskStatusPending, task.Status)
		assert.Equal(t, 0, task.Progress)
		assert.Empty(t, task.Result)
		assert.Empty(t, task.Error)
		assert.False(t, task.CreatedAt.IsZero())
	})

	t.Run("missing owner", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask(uuid.Nil, "csv_export", "")

		assert.ErrorIs(t, err, ErrEmptyTaskOwnerID)
		assert.Nil(t, task)
	})

	t.Run("missing kind", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask(uuid.New(), "", "")

		assert.ErrorIs(t, err, ErrEmptyTaskKind)
		assert.Nil(t, task)
	})
}

func TestTaskValidate_Progress(t *testing.T) {
	t.Parallel()

	task, err := NewTask(uuid.New(), "json_export", "")
	require.NoError(t, err)

	task.Progress = 101
	assert.ErrorIs(t, task.Validate(), ErrInvalidTaskProgress)

	task.Progress = -1
	assert.ErrorIs(t, task.Validate(), ErrInvalidTaskProgress)

	task.Progress = 100
	assert.NoError(t, task.Validate())
}

func TestTaskCanTransitionTo(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		from    TaskStatus
		to      TaskStatus
		allowed bool
	}{
		{"pending to running", TaskStatusPending, TaskStatusRunning, true},
		{"pending to succeeded", TaskStatusPending, TaskStatusSucceeded, false},
		{"pending to pending", TaskStatusPending, TaskStatusPending, false},
		{"running to succeeded", TaskStatusRunning, TaskStatusSucceeded, true},
		{"running to failed", TaskStatusRunning, TaskStatusFailed, true},
		{"running to pending", TaskStatusRunning, TaskStatusPending, false},
		{"succeeded to pending (retry)", TaskStatusSucceeded, TaskStatusPending, true},
		{"failed to pending (retry)", TaskStatusFailed, TaskStatusPending, true},
		{"succeeded to running", TaskStatusSucceeded, TaskStatusRunning, false},
		{"failed to failed", TaskStatusFailed, TaskStatusFailed, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			task := &Task{Status: tc.from}
			assert.Equal(t, tc.allowed, task.CanTransitionTo(tc.to))
		})
	}
}

func TestTaskIsTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, (&Task{Status: TaskStatusPending}).IsTerminal())
	assert.False(t, (&Task{Status: TaskStatusRunning}).IsTerminal())
	assert.True(t, (&Task{Status: TaskStatusSucceeded}).IsTerminal())
	assert.True(t, (&Task{Status: TaskStatusFailed}).IsTerminal())
}
