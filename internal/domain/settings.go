package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmptySettingsOwnerID indicates settings were created without an owner.
var ErrEmptySettingsOwnerID = errors.New("settings owner ID cannot be empty")

// UserSettings holds per-user preferences, including the optional Mastodon
// credentials used by the share task handler. A user with no Mastodon URL or
// access token simply has sharing disabled; that is not an error state.
type UserSettings struct {
	ID                  uuid.UUID `json:"id"`
	OwnerID             uuid.UUID `json:"owner_id"`
	Theme               string    `json:"theme"`
	Language            string    `json:"language"`
	Timezone            string    `json:"timezone"`
	Notifications       bool      `json:"notifications"`
	ExportFormat        string    `json:"export_format"`
	SendBookEvents      bool      `json:"send_book_events"`
	MastodonURL         string    `json:"mastodon_url,omitempty"`
	MastodonAccessToken string    `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewUserSettings creates settings for a user with the application defaults.
func NewUserSettings(ownerID uuid.UUID) (*UserSettings, error) {
	if ownerID == uuid.Nil {
		return nil, ErrEmptySettingsOwnerID
	}

	return &UserSettings{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Theme:         "light",
		Language:      "en",
		Timezone:      "UTC",
		Notifications: true,
		ExportFormat:  "json",
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}, nil
}

// SharingConfigured reports whether the user has a complete Mastodon
// configuration for the share task handler.
func (s *UserSettings) SharingConfigured() bool {
	return s.MastodonURL != "" && s.MastodonAccessToken != ""
}
