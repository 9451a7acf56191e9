package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Book
var (
	ErrEmptyBookID      = errors.New("book ID cannot be empty")
	ErrEmptyBookOwnerID = errors.New("book owner ID cannot be empty")
	ErrEmptyBookTitle   = errors.New("book title cannot be empty")
	ErrEmptyBookISBN    = errors.New("book ISBN cannot be empty")
)

// ReadingStatusRead is the reading status value that marks a book as
// finished. The share handler only posts events for finished books.
const ReadingStatusRead = "Read"

// Book represents a single entry in a user's library.
type Book struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Title         string    `json:"title"`
	Author        string    `json:"author,omitempty"`
	ISBN          string    `json:"isbn"`
	Description   string    `json:"description,omitempty"`
	ReadingStatus string    `json:"reading_status"`
	CurrentPage   int       `json:"current_page"`
	TotalPages    int       `json:"total_pages"`
	Rating        *float64  `json:"rating,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewBook creates a new Book owned by the given user with the default
// reading status. Returns an error if validation fails.
func NewBook(ownerID uuid.UUID, title, author, isbn string) (*Book, error) {
	book := &Book{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Title:         title,
		Author:        author,
		ISBN:          isbn,
		ReadingStatus: "To be read",
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	if err := book.Validate(); err != nil {
		return nil, err
	}

	return book, nil
}

// Validate checks if the Book has valid data.
func (b *Book) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBookID
	}

	if b.OwnerID == uuid.Nil {
		return ErrEmptyBookOwnerID
	}

	if b.Title == "" {
		return ErrEmptyBookTitle
	}

	if b.ISBN == "" {
		return ErrEmptyBookISBN
	}

	return nil
}
