package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shelfmark/shelfmark-api/internal/domain"
	"github.com/shelfmark/shelfmark-api/internal/store"
)

// Common errors for the share handler
var (
	ErrNilSettingsStore = errors.New("settings store cannot be nil")
	ErrNilStatusPoster  = errors.New("status poster cannot be nil")
)

// StatusPoster posts a status to a Mastodon-compatible endpoint on behalf
// of a user. Implementations own their timeouts.
type StatusPoster interface {
	PostStatus(ctx context.Context, baseURL, accessToken, status string) error
}

// shareBookPayload is the metadata shape the share handler expects.
type shareBookPayload struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	ReadingStatus string `json:"reading_status"`
}

// ShareBookEventHandler posts a "finished reading" status to the owner's
// configured Mastodon account. Owners without a configured account are
// skipped silently; that is a normal outcome, not a failure.
type ShareBookEventHandler struct {
	settings store.SettingsStore
	poster   StatusPoster
	logger   *slog.Logger
}

// NewShareBookEventHandler creates a share handler.
func NewShareBookEventHandler(
	settings store.SettingsStore,
	poster StatusPoster,
	logger *slog.Logger,
) (*ShareBookEventHandler, error) {
	if settings == nil {
		return nil, ErrNilSettingsStore
	}
	if poster == nil {
		return nil, ErrNilStatusPoster
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	return &ShareBookEventHandler{
		settings: settings,
		poster:   poster,
		logger:   logger,
	}, nil
}

// Kind implements Handler.
func (h *ShareBookEventHandler) Kind() string { return TaskKindShareBookEvent }

// Handle implements Handler.
func (h *ShareBookEventHandler) Handle(
	ctx context.Context,
	ownerID uuid.UUID,
	metadata string,
) (string, error) {
	settings, err := h.settings.GetByOwner(ctx, ownerID)
	if err != nil {
		if store.IsNotFoundError(err) {
			h.logger.Info("sharing skipped, user has no settings", "owner_id", ownerID)
			return "Sharing skipped: Mastodon not configured", nil
		}
		return "", fmt.Errorf("failed to load user settings: %w", err)
	}

	if !settings.SharingConfigured() {
		h.logger.Info("sharing skipped, Mastodon not configured", "owner_id", ownerID)
		return "Sharing skipped: Mastodon not configured", nil
	}

	var payload shareBookPayload
	if err := json.Unmarshal([]byte(metadata), &payload); err != nil {
		return "", fmt.Errorf("invalid share event payload: %w", err)
	}

	// Only finished books are announced.
	if payload.ReadingStatus != domain.ReadingStatusRead {
		h.logger.Debug("sharing skipped, book not finished",
			"owner_id", ownerID,
			"reading_status", payload.ReadingStatus)
		return "Sharing skipped: book not finished", nil
	}

	status := fmt.Sprintf("I just finished reading %s by %s 📖", payload.Title, payload.Author)
	if err := h.poster.PostStatus(ctx, settings.MastodonURL, settings.MastodonAccessToken, status); err != nil {
		return "", fmt.Errorf("failed to post book event: %w", err)
	}

	h.logger.Info("book event shared", "owner_id", ownerID, "title", payload.Title)
	return "Book shared successfully", nil
}
