package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for FileRecord
var (
	ErrEmptyFileID      = errors.New("file ID cannot be empty")
	ErrEmptyFileOwnerID = errors.New("file owner ID cannot be empty")
	ErrEmptyFileName    = errors.New("file name cannot be empty")
	ErrEmptyFileType    = errors.New("file type cannot be empty")
	ErrEmptyFilePath    = errors.New("file path cannot be empty")
	ErrNegativeFileSize = errors.New("file size cannot be negative")
)

// FileRecord describes a downloadable artifact produced by a background
// task, such as a library export. The file itself lives on disk under the
// configured export directory; the record is what the download interface
// serves from.
type FileRecord struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Filename    string    `json:"filename"`
	FileType    string    `json:"file_type"`
	FilePath    string    `json:"file_path"`
	FileSize    int64     `json:"file_size"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewFileRecord creates a record for a file written by a task handler.
// Returns an error if validation fails.
func NewFileRecord(
	ownerID uuid.UUID,
	filename, fileType, filePath string,
	fileSize int64,
	description string,
) (*FileRecord, error) {
	record := &FileRecord{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Filename:    filename,
		FileType:    fileType,
		FilePath:    filePath,
		FileSize:    fileSize,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the FileRecord has valid data.
func (f *FileRecord) Validate() error {
	if f.ID == uuid.Nil {
		return ErrEmptyFileID
	}

	if f.OwnerID == uuid.Nil {
		return ErrEmptyFileOwnerID
	}

	if f.Filename == "" {
		return ErrEmptyFileName
	}

	if f.FileType == "" {
		return ErrEmptyFileType
	}

	if f.FilePath == "" {
		return ErrEmptyFilePath
	}

	if f.FileSize < 0 {
		return ErrNegativeFileSize
	}

	return nil
}
