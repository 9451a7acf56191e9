package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a background task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusSucceeded TaskStatus = "succeeded"
	TaskStatusFailed    TaskStatus = "failed"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID           = errors.New("task ID cannot be empty")
	ErrEmptyTaskOwnerID      = errors.New("task owner ID cannot be empty")
	ErrEmptyTaskKind         = errors.New("task kind cannot be empty")
	ErrInvalidTaskStatus     = errors.New("invalid task status")
	ErrInvalidTaskProgress   = errors.New("task progress must be between 0 and 100")
	ErrInvalidTaskTransition = errors.New("invalid task status transition")
)

// Task represents a unit of deferred work submitted by a user. Its status
// and progress are persisted on every transition so concurrent status
// queries observe monotonic progress.
type Task struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Kind      string     `json:"kind"`
	Status    TaskStatus `json:"status"`
	Progress  int        `json:"progress"`
	Result    string     `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
	Metadata  string     `json:"metadata,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user. It generates a new
// UUID for the task ID, sets the status to pending with zero progress, and
// sets the creation/update timestamps.
// Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, kind, metadata string) (*Task, error) {
	task := &Task{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Kind:      kind,
		Status:    TaskStatusPending,
		Progress:  0,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.OwnerID == uuid.Nil {
		return ErrEmptyTaskOwnerID
	}

	if t.Kind == "" {
		return ErrEmptyTaskKind
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	if t.Progress < 0 || t.Progress > 100 {
		return ErrInvalidTaskProgress
	}

	return nil
}

// IsTerminal reports whether the task has reached a final state.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskStatusSucceeded || t.Status == TaskStatusFailed
}

// CanTransitionTo reports whether moving from the task's current status to
// the given status is a legal state machine transition. Terminal states may
// only move back to pending, which models an explicit retry.
func (t *Task) CanTransitionTo(next TaskStatus) bool {
	switch t.Status {
	case TaskStatusPending:
		return next == TaskStatusRunning
	case TaskStatusRunning:
		return next == TaskStatusSucceeded || next == TaskStatusFailed
	case TaskStatusSucceeded, TaskStatusFailed:
		return next == TaskStatusPending
	default:
		return false
	}
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusRunning, TaskStatusSucceeded, TaskStatusFailed:
		return true
	default:
		return false
	}
}
