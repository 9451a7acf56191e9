package task

import (
	"context"

	"github.com/google/uuid"
)

// Task kind constants. Submission accepts any kind; kinds without a
// registered handler fail during execution, not at submission time.
const (
	// TaskKindCSVExport exports the owner's book collection as CSV.
	TaskKindCSVExport = "csv_export"

	// TaskKindJSONExport exports the owner's book collection as JSON.
	TaskKindJSONExport = "json_export"

	// TaskKindHTMLExport renders the owner's book collection to an HTML page.
	TaskKindHTMLExport = "html_export"

	// TaskKindShareBookEvent posts a book completion event to the owner's
	// configured Mastodon account.
	TaskKindShareBookEvent = "share_book_event"
)

// Handler implements the actual work for one task kind. Handlers receive
// the task's owner and the metadata supplied at submission, and return a
// human-readable result description or an error. A returned error marks the
// task failed with the error text; it never crashes the engine or affects
// other tasks.
type Handler interface {
	// Kind returns the task kind this handler processes.
	Kind() string

	// Handle runs the work. Blocking on I/O is fine; timeouts on external
	// calls are the handler's own responsibility.
	Handle(ctx context.Context, ownerID uuid.UUID, metadata string) (string, error)
}
