package postgres

import (
	"context"
	"fmt"

	"github.com/shelfmark/shelfmark-api/internal/domain"
	"github.com/shelfmark/shelfmark-api/internal/platform/logger"
	"github.com/shelfmark/shelfmark-api/internal/store"
)

// FileStore implements the store.FileStore interface using PostgreSQL.
type FileStore struct {
	db store.DBTX
}

// NewFileStore creates a new FileStore.
func NewFileStore(db store.DBTX) *FileStore {
	return &FileStore{db: db}
}

// Ensure FileStore implements store.FileStore
var _ store.FileStore = (*FileStore)(nil)

// Create implements store.FileStore.Create
func (s *FileStore) Create(ctx context.Context, record *domain.FileRecord) error {
	log := logger.FromContext(ctx)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO files (id, owner_id, filename, file_type, file_path, file_size, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.OwnerID,
		record.Filename,
		record.FileType,
		record.FilePath,
		record.FileSize,
		record.Description,
		record.CreatedAt,
	)
	if err != nil {
		log.Error("failed to save file record",
			"file_id", record.ID,
			"owner_id", record.OwnerID,
			"error", err)
		return fmt.Errorf("failed to save file record: %w", MapError(err))
	}

	return nil
}
