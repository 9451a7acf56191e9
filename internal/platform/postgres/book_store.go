package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/shelfmark/shelfmark-api/internal/domain"
	"github.com/shelfmark/shelfmark-api/internal/platform/logger"
	"github.com/shelfmark/shelfmark-api/internal/store"
)

// BookStore implements the store.BookStore interface using PostgreSQL.
type BookStore struct {
	db store.DBTX
}

// NewBookStore creates a new BookStore.
func NewBookStore(db store.DBTX) *BookStore {
	return &BookStore{db: db}
}

// Ensure BookStore implements store.BookStore
var _ store.BookStore = (*BookStore)(nil)

// ListByOwner implements store.BookStore.ListByOwner
func (s *BookStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT id, owner_id, title, author, isbn, description, reading_status,
		       current_page, total_pages, rating, created_at, updated_at
		FROM books
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query books", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to query books: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	books := make([]*domain.Book, 0)
	for rows.Next() {
		var (
			book        domain.Book
			author      sql.NullString
			description sql.NullString
			rating      sql.NullFloat64
		)

		err := rows.Scan(
			&book.ID,
			&book.OwnerID,
			&book.Title,
			&author,
			&book.ISBN,
			&description,
			&book.ReadingStatus,
			&book.CurrentPage,
			&book.TotalPages,
			&rating,
			&book.CreatedAt,
			&book.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", MapError(err))
		}

		book.Author = author.String
		book.Description = description.String
		if rating.Valid {
			book.Rating = &rating.Float64
		}

		books = append(books, &book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating book rows: %w", MapError(err))
	}

	return books, nil
}
