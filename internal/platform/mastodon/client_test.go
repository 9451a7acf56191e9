package mastodon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientPostStatus(t *testing.T) {
	t.Parallel()

	t.Run("posts form-encoded status with bearer token", func(t *testing.T) {
		t.Parallel()

		var (
			gotPath   string
			gotAuth   string
			gotStatus string
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, r.ParseForm())
			gotStatus = r.PostFormValue("status")
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient()
		err := client.PostStatus(
			context.Background(),
			server.URL,
			"token-123",
			"I just finished reading Dune by Frank Herbert 📖",
		)

		require.NoError(t, err)
		assert.Equal(t, "/api/v1/statuses", gotPath)
		assert.Equal(t, "Bearer token-123", gotAuth)
		assert.Equal(t, "I just finished reading Dune by Frank Herbert 📖", gotStatus)
	})

	t.Run("trailing slash in base URL", func(t *testing.T) {
		t.Parallel()

		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient()
		err := client.PostStatus(context.Background(), server.URL+"/", "token", "hello")

		require.NoError(t, err)
		assert.Equal(t, "/api/v1/statuses", gotPath)
	})

	t.Run("non-2xx response is an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "The access token is invalid", http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient()
		err := client.PostStatus(context.Background(), server.URL, "bad-token", "hello")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("missing configuration", func(t *testing.T) {
		t.Parallel()

		client := NewClient()

		assert.ErrorIs(t,
			client.PostStatus(context.Background(), "", "token", "hello"),
			ErrEmptyBaseURL)
		assert.ErrorIs(t,
			client.PostStatus(context.Background(), "https://example.social", "", "hello"),
			ErrEmptyAccessToken)
	})
}
