package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/shelfmark/shelfmark-api/internal/domain"
	"github.com/shelfmark/shelfmark-api/internal/store"
)

// SettingsStore implements the store.SettingsStore interface using PostgreSQL.
type SettingsStore struct {
	db store.DBTX
}

// NewSettingsStore creates a new SettingsStore.
func NewSettingsStore(db store.DBTX) *SettingsStore {
	return &SettingsStore{db: db}
}

// Ensure SettingsStore implements store.SettingsStore
var _ store.SettingsStore = (*SettingsStore)(nil)

// GetByOwner implements store.SettingsStore.GetByOwner
func (s *SettingsStore) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.UserSettings, error) {
	query := `
		SELECT id, owner_id, theme, language, timezone, notifications,
		       export_format, send_book_events, mastodon_url, mastodon_access_token,
		       created_at, updated_at
		FROM user_settings
		WHERE owner_id = $1
	`

	var (
		settings    domain.UserSettings
		mastodonURL sql.NullString
		accessToken sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query, ownerID).Scan(
		&settings.ID,
		&settings.OwnerID,
		&settings.Theme,
		&settings.Language,
		&settings.Timezone,
		&settings.Notifications,
		&settings.ExportFormat,
		&settings.SendBookEvents,
		&mastodonURL,
		&accessToken,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		if IsNotFoundError(MapError(err)) {
			return nil, store.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get user settings: %w", MapError(err))
	}

	settings.MastodonURL = mastodonURL.String
	settings.MastodonAccessToken = accessToken.String

	return &settings, nil
}
