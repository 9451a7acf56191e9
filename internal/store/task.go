package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/shelfmark/shelfmark-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID regardless of owner.
	// This is used by the task engine's execution units, which already hold
	// a task reference. Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetForOwner retrieves a task by ID scoped to the given owner.
	// Returns ErrTaskNotFound both when the task does not exist and when it
	// belongs to a different owner, so absence and foreign ownership are
	// indistinguishable to callers.
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// UpdateState persists a status transition together with the task's
	// progress, result, and error detail, and refreshes updated_at.
	// Each transition is written immediately so concurrent status queries
	// observe monotonic progress. Returns ErrTaskNotFound if no row matched.
	UpdateState(
		ctx context.Context,
		id uuid.UUID,
		status domain.TaskStatus,
		progress int,
		result, errDetail string,
	) error

	// ResetForRetry moves the task back to pending with zeroed progress,
	// result, and error detail, but only while the task is still in a
	// terminal status. The check and the write are one conditional
	// operation, so of several concurrent resets exactly one succeeds.
	// Returns ErrUpdateFailed when the task was not terminal (including
	// when a concurrent reset got there first).
	ResetForRetry(ctx context.Context, id uuid.UUID) error
}

// BookStore defines the read access the export task handlers need.
type BookStore interface {
	// ListByOwner retrieves all books belonging to the given owner,
	// ordered by creation time. An owner with no books yields an empty
	// slice, not an error.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error)
}

// FileStore defines the interface for downloadable file record persistence.
type FileStore interface {
	// Create registers a file written by a task handler so it can be
	// served by the download interface.
	Create(ctx context.Context, record *domain.FileRecord) error
}

// SettingsStore defines the read access the share task handler needs.
type SettingsStore interface {
	// GetByOwner retrieves the settings row for the given owner.
	// Returns ErrSettingsNotFound if the user has no settings row.
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.UserSettings, error)
}
