package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shelfmark/shelfmark-api/internal/domain"
	"github.com/shelfmark/shelfmark-api/internal/store"
)

// Engine-internal progress milestones. These are observability only, not
// distinct machine states: status stays "running" throughout.
const (
	progressStarted     = 10
	progressDispatching = 30
	progressDone        = 100
)

// Common errors returned by the Engine
var (
	// ErrTaskNotRetryable is returned when retrying a task that has not
	// reached a terminal state. Allowing it would launch a second execution
	// unit for a task that already has one.
	ErrTaskNotRetryable = errors.New("task is not in a terminal state")

	ErrNilStore  = errors.New("task store cannot be nil")
	ErrNilLogger = errors.New("logger cannot be nil")
)

// EngineConfig holds configuration for the task engine.
type EngineConfig struct {
	// WorkerCount determines how many concurrent workers process tasks.
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue.
	QueueSize int
}

// DefaultEngineConfig returns an EngineConfig with reasonable defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// Engine accepts task submissions, persists their lifecycle, and executes
// them on a bounded worker pool. Submission returns immediately with the
// task ID; execution happens on worker goroutines decoupled from the
// request that created the task. Exactly one execution unit is ever active
// per task ID: submission and retry are the only places an ID is enqueued,
// and retry refuses tasks that are not terminal.
type Engine struct {
	store      store.TaskStore
	registry   *Registry
	queue      *Queue
	config     EngineConfig
	logger     *slog.Logger
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	errHandler func(t *domain.Task, err error)
}

// NewEngine creates a new Engine with the given handlers registered. The
// kind to handler mapping is fixed at construction.
func NewEngine(
	taskStore store.TaskStore,
	config EngineConfig,
	logger *slog.Logger,
	handlers ...Handler,
) (*Engine, error) {
	if taskStore == nil {
		return nil, ErrNilStore
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultEngineConfig().WorkerCount
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultEngineConfig().QueueSize
	}

	registry := NewRegistry()
	for _, h := range handlers {
		registry.Register(h)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Engine{
		store:      taskStore,
		registry:   registry,
		queue:      NewQueue(config.QueueSize, logger),
		config:     config,
		logger:     logger,
		ctx:        ctx,
		cancelFunc: cancel,
		errHandler: func(t *domain.Task, err error) {
			logger.Error("task execution failed",
				"task_id", t.ID,
				"task_kind", t.Kind,
				"error", err)
		},
	}, nil
}

// SetErrorHandler allows setting a custom hook invoked after a task is
// marked failed.
func (e *Engine) SetErrorHandler(handler func(t *domain.Task, err error)) {
	e.errHandler = handler
}

// Start launches the worker pool.
func (e *Engine) Start() {
	e.logger.Info("starting task engine",
		"worker_count", e.config.WorkerCount,
		"queue_size", e.config.QueueSize,
		"handlers", e.registry.Kinds())

	for i := 0; i < e.config.WorkerCount; i++ {
		e.wg.Add(1)
		go e.worker(i)
	}
}

// Stop shuts the engine down gracefully: no new submissions are accepted
// and workers finish the tasks already buffered before returning.
func (e *Engine) Stop() {
	e.queue.Close()
	e.wg.Wait()
	e.cancelFunc()
}

// Submit persists a new task and schedules it for execution. The payload is
// serialized to its JSON form unless it is already a string. The returned
// ID is valid for status queries immediately, before execution begins.
//
// An unrecognized kind is accepted here and fails during execution; only a
// malformed submission is rejected synchronously. When the queue cannot
// accept the task, the already-persisted row is marked failed and its ID is
// returned with the error, so the task can still be retried later.
func (e *Engine) Submit(
	ctx context.Context,
	kind string,
	payload any,
	ownerID uuid.UUID,
) (uuid.UUID, error) {
	metadata, err := serializePayload(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to serialize task payload: %w", err)
	}

	t, err := domain.NewTask(ownerID, kind, metadata)
	if err != nil {
		return uuid.Nil, err
	}

	// Persist first so the ID is queryable before execution starts.
	if err := e.store.Create(ctx, t); err != nil {
		return uuid.Nil, fmt.Errorf("failed to save task: %w", err)
	}

	if err := e.queue.Enqueue(t.ID); err != nil {
		// Park the row in a terminal state instead of stranding it as
		// pending: a failed task can be retried once the queue drains,
		// a pending one never could be.
		e.failTask(ctx, e.logger.With("task_id", t.ID, "task_kind", t.Kind), t,
			0, fmt.Errorf("task not scheduled: %w", err))
		return t.ID, fmt.Errorf("failed to schedule task %s: %w", t.ID, err)
	}

	return t.ID, nil
}

// GetTask returns the task only if it belongs to ownerID; a task owned by
// someone else is reported as not found, exactly like an absent one.
func (e *Engine) GetTask(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	return e.store.GetForOwner(ctx, id, ownerID)
}

// Retry re-initializes a terminal task and schedules it again. Retrying a
// pending or running task returns ErrTaskNotRetryable: it would violate the
// one-execution-unit-per-task invariant.
func (e *Engine) Retry(ctx context.Context, id, ownerID uuid.UUID) error {
	t, err := e.store.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if !t.IsTerminal() {
		return fmt.Errorf("%w: task %s is %s", ErrTaskNotRetryable, t.ID, t.Status)
	}

	// Conditional re-initialization: the store flips the row back to pending
	// only while it is still terminal, so concurrent retries of one task ID
	// elect a single winner and only the winner enqueues.
	if err := e.store.ResetForRetry(ctx, t.ID); err != nil {
		if errors.Is(err, store.ErrUpdateFailed) {
			return fmt.Errorf("%w: task %s was already rescheduled", ErrTaskNotRetryable, t.ID)
		}
		return fmt.Errorf("failed to reset task for retry: %w", err)
	}

	if err := e.queue.Enqueue(t.ID); err != nil {
		// Park the row back in a terminal state so the retry can be
		// reattempted once the queue drains.
		e.failTask(ctx, e.logger.With("task_id", t.ID, "task_kind", t.Kind), t,
			0, fmt.Errorf("task not scheduled: %w", err))
		return fmt.Errorf("failed to schedule task %s: %w", t.ID, err)
	}

	return nil
}

// worker consumes task IDs from the queue until it is closed and drained.
func (e *Engine) worker(id int) {
	defer e.wg.Done()

	e.logger.Debug("starting worker", "worker_id", id)

	for taskID := range e.queue.Chan() {
		e.processTask(taskID, id)
	}

	e.logger.Debug("task queue closed, stopping worker", "worker_id", id)
}

// processTask carries a single task through its lifecycle. Handler failures
// are recorded on the task; persistence failures abort the execution unit,
// leaving the task in its last durably recorded state.
func (e *Engine) processTask(taskID uuid.UUID, workerID int) {
	ctx := e.ctx

	t, err := e.store.GetByID(ctx, taskID)
	if err != nil {
		// A queued ID without a row is a defect, not a user-visible failure.
		e.logger.Error("failed to load queued task",
			"task_id", taskID,
			"worker_id", workerID,
			"error", err)
		return
	}

	logger := e.logger.With(
		"task_id", t.ID,
		"task_kind", t.Kind,
		"worker_id", workerID,
	)

	if err := e.store.UpdateState(ctx, t.ID, domain.TaskStatusRunning, progressStarted, "", ""); err != nil {
		logger.Error("failed to update task status to running", "error", err)
		return
	}

	logger.Info("processing task")

	if err := e.store.UpdateState(ctx, t.ID, domain.TaskStatusRunning, progressDispatching, "", ""); err != nil {
		logger.Error("failed to update task progress", "error", err)
		return
	}

	handler, ok := e.registry.Get(t.Kind)
	if !ok {
		// Handled failure, not a crash.
		e.failTask(ctx, logger, t, progressDispatching,
			fmt.Errorf("unknown task kind: %s", t.Kind))
		return
	}

	result, err := handler.Handle(ctx, t.OwnerID, t.Metadata)
	if err != nil {
		e.failTask(ctx, logger, t, progressDispatching, err)
		return
	}

	if err := e.store.UpdateState(ctx, t.ID, domain.TaskStatusSucceeded, progressDone, result, ""); err != nil {
		logger.Error("failed to update task status to succeeded", "error", err)
		return
	}

	logger.Info("task completed successfully")
}

// failTask records a handler failure. Progress is left at its last known
// value rather than forced to 0 or 100.
func (e *Engine) failTask(
	ctx context.Context,
	logger *slog.Logger,
	t *domain.Task,
	progress int,
	taskErr error,
) {
	logger.Error("task execution failed", "error", taskErr)

	if err := e.store.UpdateState(ctx, t.ID, domain.TaskStatusFailed, progress, "", taskErr.Error()); err != nil {
		logger.Error("failed to update task status to failed", "error", err)
		return
	}

	if e.errHandler != nil {
		e.errHandler(t, taskErr)
	}
}

// serializePayload converts an arbitrary submission payload to the string
// form stored on the task. Strings pass through untouched.
func serializePayload(payload any) (string, error) {
	if payload == nil {
		return "", nil
	}
	if s, ok := payload.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
