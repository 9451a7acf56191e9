package task

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shelfmark/shelfmark-api/internal/domain"
	"github.com/shelfmark/shelfmark-api/internal/store"
)

// stateChange captures one persisted transition for assertions on ordering
// and monotonic progress.
type stateChange struct {
	Status   domain.TaskStatus
	Progress int
	Result   string
	Error    string
}

// mockTaskStore is an in-memory store.TaskStore. Function fields override
// individual operations to inject failures.
type mockTaskStore struct {
	mu      sync.Mutex
	tasks   map[uuid.UUID]*domain.Task
	history map[uuid.UUID][]stateChange

	CreateFn        func(ctx context.Context, t *domain.Task) error
	UpdateStateFn   func(ctx context.Context, id uuid.UUID, status domain.TaskStatus, progress int, result, errDetail string) error
	ResetForRetryFn func(ctx context.Context, id uuid.UUID) error
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{
		tasks:   make(map[uuid.UUID]*domain.Task),
		history: make(map[uuid.UUID][]stateChange),
	}
}

func (s *mockTaskStore) Create(ctx context.Context, t *domain.Task) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *t
	s.tasks[t.ID] = &clone
	return nil
}

func (s *mockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (s *mockTaskStore) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (s *mockTaskStore) UpdateState(
	ctx context.Context,
	id uuid.UUID,
	status domain.TaskStatus,
	progress int,
	result, errDetail string,
) error {
	if s.UpdateStateFn != nil {
		if err := s.UpdateStateFn(ctx, id, status, progress, result, errDetail); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	t.Status = status
	t.Progress = progress
	t.Result = result
	t.Error = errDetail
	s.history[id] = append(s.history[id], stateChange{
		Status:   status,
		Progress: progress,
		Result:   result,
		Error:    errDetail,
	})
	return nil
}

func (s *mockTaskStore) ResetForRetry(ctx context.Context, id uuid.UUID) error {
	if s.ResetForRetryFn != nil {
		if err := s.ResetForRetryFn(ctx, id); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || !t.IsTerminal() {
		// Conditional write: only a terminal row can be reclaimed, so of
		// several concurrent resets exactly one observes a terminal status.
		return store.ErrUpdateFailed
	}
	t.Status = domain.TaskStatusPending
	t.Progress = 0
	t.Result = ""
	t.Error = ""
	s.history[id] = append(s.history[id], stateChange{Status: domain.TaskStatusPending})
	return nil
}

// historyFor returns a copy of the persisted transitions for a task.
func (s *mockTaskStore) historyFor(id uuid.UUID) []stateChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stateChange(nil), s.history[id]...)
}

// mockBookStore returns a fixed book list per owner.
type mockBookStore struct {
	mu    sync.Mutex
	books map[uuid.UUID][]*domain.Book

	ListErr error
}

func newMockBookStore() *mockBookStore {
	return &mockBookStore{books: make(map[uuid.UUID][]*domain.Book)}
}

func (s *mockBookStore) add(b *domain.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[b.OwnerID] = append(s.books[b.OwnerID], b)
}

func (s *mockBookStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Book(nil), s.books[ownerID]...), nil
}

// mockFileStore records created file records.
type mockFileStore struct {
	mu      sync.Mutex
	records []*domain.FileRecord

	CreateErr error
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{}
}

func (s *mockFileStore) Create(ctx context.Context, record *domain.FileRecord) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *mockFileStore) created() []*domain.FileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.FileRecord(nil), s.records...)
}

// mockSettingsStore returns settings per owner.
type mockSettingsStore struct {
	mu       sync.Mutex
	settings map[uuid.UUID]*domain.UserSettings
}

func newMockSettingsStore() *mockSettingsStore {
	return &mockSettingsStore{settings: make(map[uuid.UUID]*domain.UserSettings)}
}

func (s *mockSettingsStore) set(settings *domain.UserSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[settings.OwnerID] = settings
}

func (s *mockSettingsStore) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, ok := s.settings[ownerID]
	if !ok {
		return nil, store.ErrSettingsNotFound
	}
	return settings, nil
}

// mockStatusPoster records posted statuses.
type mockStatusPoster struct {
	mu     sync.Mutex
	posts  []string
	tokens []string
	urls   []string

	PostErr error
}

func newMockStatusPoster() *mockStatusPoster {
	return &mockStatusPoster{}
}

func (p *mockStatusPoster) PostStatus(ctx context.Context, baseURL, accessToken, status string) error {
	if p.PostErr != nil {
		return p.PostErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.urls = append(p.urls, baseURL)
	p.tokens = append(p.tokens, accessToken)
	p.posts = append(p.posts, status)
	return nil
}

func (p *mockStatusPoster) posted() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.posts...)
}

// stubHandler is a configurable Handler for engine tests.
type stubHandler struct {
	kind string
	fn   func(ctx context.Context, ownerID uuid.UUID, metadata string) (string, error)
}

func (h *stubHandler) Kind() string { return h.kind }

func (h *stubHandler) Handle(ctx context.Context, ownerID uuid.UUID, metadata string) (string, error) {
	return h.fn(ctx, ownerID, metadata)
}
