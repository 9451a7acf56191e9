package task

import (
	"context"
	"embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shelfmark/shelfmark-api/internal/domain"
	"github.com/shelfmark/shelfmark-api/internal/store"
)

// Common errors for export handler construction
var (
	ErrNilBookStore   = errors.New("book store cannot be nil")
	ErrNilFileStore   = errors.New("file store cannot be nil")
	ErrEmptyExportDir = errors.New("export directory cannot be empty")
)

//go:embed templates/book_export.html.tmpl
var exportTemplates embed.FS

var htmlExportTemplate = template.Must(
	template.ParseFS(exportTemplates, "templates/book_export.html.tmpl"),
)

const filenameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// exportFilename builds a collision-resistant name like
// export_250601_k3XanQ9p.csv.
func exportFilename(ext string) string {
	suffix := make([]byte, 8)
	for i := range suffix {
		suffix[i] = filenameAlphabet[rand.IntN(len(filenameAlphabet))]
	}
	return fmt.Sprintf("export_%s_%s.%s", time.Now().Format("060102"), suffix, ext)
}

// exporter holds the collaborators shared by the export handlers: it loads
// the owner's books, writes the rendered artifact under the export
// directory, and registers the downloadable file record.
type exporter struct {
	books  store.BookStore
	files  store.FileStore
	dir    string
	logger *slog.Logger
}

func newExporter(
	books store.BookStore,
	files store.FileStore,
	dir string,
	logger *slog.Logger,
) (exporter, error) {
	if books == nil {
		return exporter{}, ErrNilBookStore
	}
	if files == nil {
		return exporter{}, ErrNilFileStore
	}
	if dir == "" {
		return exporter{}, ErrEmptyExportDir
	}
	if logger == nil {
		return exporter{}, ErrNilLogger
	}
	return exporter{books: books, files: files, dir: dir, logger: logger}, nil
}

// export runs the shared pipeline for one format: load books, render with
// the format-specific writer, then register the file record.
func (e exporter) export(
	ctx context.Context,
	ownerID uuid.UUID,
	fileType string,
	render func(w io.Writer, books []*domain.Book) error,
) error {
	books, err := e.books.ListByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to load books for export: %w", err)
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	filename := exportFilename(fileType)
	path := filepath.Join(e.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := render(f, books); err != nil {
		f.Close()
		return fmt.Errorf("failed to write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat export file: %w", err)
	}

	record, err := domain.NewFileRecord(
		ownerID,
		filename,
		fileType,
		path,
		info.Size(),
		fmt.Sprintf("%s export of book library", strings.ToUpper(fileType)),
	)
	if err != nil {
		return fmt.Errorf("failed to build file record: %w", err)
	}

	if err := e.files.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to register export file: %w", err)
	}

	e.logger.Info("export file written",
		"owner_id", ownerID,
		"file_type", fileType,
		"filename", filename,
		"file_size", info.Size(),
		"book_count", len(books))

	return nil
}

// CSVExportHandler exports the owner's book collection as CSV. An empty
// collection still produces a header-only file.
type CSVExportHandler struct {
	exporter
}

// NewCSVExportHandler creates a CSV export handler.
func NewCSVExportHandler(
	books store.BookStore,
	files store.FileStore,
	dir string,
	logger *slog.Logger,
) (*CSVExportHandler, error) {
	e, err := newExporter(books, files, dir, logger)
	if err != nil {
		return nil, err
	}
	return &CSVExportHandler{exporter: e}, nil
}

// Kind implements Handler.
func (h *CSVExportHandler) Kind() string { return TaskKindCSVExport }

// Handle implements Handler.
func (h *CSVExportHandler) Handle(ctx context.Context, ownerID uuid.UUID, _ string) (string, error) {
	err := h.export(ctx, ownerID, "csv", func(w io.Writer, books []*domain.Book) error {
		cw := csv.NewWriter(w)
		header := []string{
			"title", "isbn", "description", "reading_status",
			"current_page", "total_pages", "author", "rating",
		}
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, b := range books {
			rating := ""
			if b.Rating != nil {
				rating = strconv.FormatFloat(*b.Rating, 'f', 2, 64)
			}
			row := []string{
				b.Title, b.ISBN, b.Description, b.ReadingStatus,
				strconv.Itoa(b.CurrentPage), strconv.Itoa(b.TotalPages),
				b.Author, rating,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return "", err
	}
	return "CSV export completed successfully", nil
}

// bookExportEntry is the serialized shape of one book in a JSON export.
type bookExportEntry struct {
	Title         string   `json:"title"`
	ISBN          string   `json:"isbn"`
	Description   string   `json:"description"`
	ReadingStatus string   `json:"reading_status"`
	CurrentPage   int      `json:"current_page"`
	TotalPages    int      `json:"total_pages"`
	Author        string   `json:"author"`
	Rating        *float64 `json:"rating"`
}

// JSONExportHandler exports the owner's book collection as JSON.
type JSONExportHandler struct {
	exporter
}

// NewJSONExportHandler creates a JSON export handler.
func NewJSONExportHandler(
	books store.BookStore,
	files store.FileStore,
	dir string,
	logger *slog.Logger,
) (*JSONExportHandler, error) {
	e, err := newExporter(books, files, dir, logger)
	if err != nil {
		return nil, err
	}
	return &JSONExportHandler{exporter: e}, nil
}

// Kind implements Handler.
func (h *JSONExportHandler) Kind() string { return TaskKindJSONExport }

// Handle implements Handler.
func (h *JSONExportHandler) Handle(ctx context.Context, ownerID uuid.UUID, _ string) (string, error) {
	err := h.export(ctx, ownerID, "json", func(w io.Writer, books []*domain.Book) error {
		entries := make([]bookExportEntry, 0, len(books))
		for _, b := range books {
			entries = append(entries, bookExportEntry{
				Title:         b.Title,
				ISBN:          b.ISBN,
				Description:   b.Description,
				ReadingStatus: b.ReadingStatus,
				CurrentPage:   b.CurrentPage,
				TotalPages:    b.TotalPages,
				Author:        b.Author,
				Rating:        b.Rating,
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	})
	if err != nil {
		return "", err
	}
	return "JSON export completed successfully", nil
}

// HTMLExportHandler renders the owner's book collection to a standalone
// HTML page.
type HTMLExportHandler struct {
	exporter
}

// NewHTMLExportHandler creates an HTML export handler.
func NewHTMLExportHandler(
	books store.BookStore,
	files store.FileStore,
	dir string,
	logger *slog.Logger,
) (*HTMLExportHandler, error) {
	e, err := newExporter(books, files, dir, logger)
	if err != nil {
		return nil, err
	}
	return &HTMLExportHandler{exporter: e}, nil
}

// Kind implements Handler.
func (h *HTMLExportHandler) Kind() string { return TaskKindHTMLExport }

// Handle implements Handler.
func (h *HTMLExportHandler) Handle(ctx context.Context, ownerID uuid.UUID, _ string) (string, error) {
	err := h.export(ctx, ownerID, "html", func(w io.Writer, books []*domain.Book) error {
		return htmlExportTemplate.Execute(w, struct {
			Books      []*domain.Book
			ExportedAt time.Time
		}{
			Books:      books,
			ExportedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return "", err
	}
	return "HTML export completed successfully", nil
}
