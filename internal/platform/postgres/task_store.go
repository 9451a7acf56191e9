package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shelfmark/shelfmark-api/internal/domain"
	"github.com/shelfmark/shelfmark-api/internal/platform/logger"
	"github.com/shelfmark/shelfmark-api/internal/store"
)

// TaskStore implements the store.TaskStore interface using PostgreSQL.
type TaskStore struct {
	db store.DBTX
}

// NewTaskStore creates a new TaskStore. The caller owns the database
// connection or transaction it passes in.
func NewTaskStore(db store.DBTX) *TaskStore {
	return &TaskStore{db: db}
}

// Ensure TaskStore implements store.TaskStore
var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (id, owner_id, kind, status, progress, result, error_message, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.OwnerID,
		task.Kind,
		task.Status,
		task.Progress,
		task.Result,
		task.Error,
		task.Metadata,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to save task",
			"task_id", task.ID,
			"task_kind", task.Kind,
			"error", err)
		return fmt.Errorf("failed to save task: %w", MapError(err))
	}

	return nil
}

// taskColumns is the select list shared by the task read queries, in
// scanTaskRow order.
const taskColumns = `id, owner_id, kind, status, progress, result, error_message, metadata, created_at, updated_at`

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTaskRow(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// GetForOwner implements store.TaskStore.GetForOwner. The owner predicate is
// part of the query, so a task owned by someone else scans as no rows and is
// reported exactly like an absent one.
func (s *TaskStore) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`

	task, err := scanTaskRow(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// UpdateState implements store.TaskStore.UpdateState
func (s *TaskStore) UpdateState(
	ctx context.Context,
	id uuid.UUID,
	status domain.TaskStatus,
	progress int,
	result, errDetail string,
) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE tasks
		SET status = $1, progress = $2, result = $3, error_message = $4, updated_at = $5
		WHERE id = $6
	`

	res, err := s.db.ExecContext(ctx, query,
		status,
		progress,
		result,
		errDetail,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		log.Error("failed to update task state",
			"task_id", id,
			"status", status,
			"error", err)
		return fmt.Errorf("failed to update task state: %w", MapError(err))
	}

	if err := CheckRowsAffected(res, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	return nil
}

// ResetForRetry implements store.TaskStore.ResetForRetry. The terminal-status
// predicate is part of the UPDATE, so the database serializes concurrent
// resets: the first one flips the row to pending and every later one matches
// zero rows.
func (s *TaskStore) ResetForRetry(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE tasks
		SET status = $1, progress = 0, result = '', error_message = '', updated_at = $2
		WHERE id = $3 AND status IN ($4, $5)
	`

	res, err := s.db.ExecContext(ctx, query,
		domain.TaskStatusPending,
		time.Now().UTC(),
		id,
		domain.TaskStatusSucceeded,
		domain.TaskStatusFailed,
	)
	if err != nil {
		log.Error("failed to reset task for retry",
			"task_id", id,
			"error", err)
		return fmt.Errorf("failed to reset task for retry: %w", MapError(err))
	}

	if err := CheckRowsAffected(res, "task"); err != nil {
		// No terminal row matched: the task is gone, still in flight, or a
		// concurrent reset already claimed it.
		return store.ErrUpdateFailed
	}

	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan helper.
type scanner interface {
	Scan(dest ...any) error
}

// scanTaskRow maps one tasks row onto a domain.Task. Nullable text columns
// scan through sql.NullString so NULL and empty string read the same.
func scanTaskRow(row scanner) (*domain.Task, error) {
	var (
		task     domain.Task
		result   sql.NullString
		errMsg   sql.NullString
		metadata sql.NullString
	)

	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Kind,
		&task.Status,
		&task.Progress,
		&result,
		&errMsg,
		&metadata,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, MapError(err)
	}

	task.Result = result.String
	task.Error = errMsg.String
	task.Metadata = metadata.String

	return &task, nil
}

// IsNotFoundError reports whether the error represents a "not found"
// scenario, either sql.ErrNoRows or anything wrapping store.ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, store.ErrNotFound)
}
