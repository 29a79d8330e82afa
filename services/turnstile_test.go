package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTurnstileServer points verification at handler for the rest of the test
func withTurnstileServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	oldURL := turnstileVerifyURL
	turnstileVerifyURL = server.URL
	t.Cleanup(func() { turnstileVerifyURL = oldURL })
}

func TestVerifyTurnstileToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing inputs", func(t *testing.T) {
		ok, err := VerifyTurnstileToken(ctx, "", "secret", "127.0.0.1")
		assert.False(t, ok)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing token")
	})

	t.Run("Human", func(t *testing.T) {
		withTurnstileServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "valid-token", r.PostForm.Get("response"))
			assert.Equal(t, "secret", r.PostForm.Get("secret"))
			assert.Equal(t, "1.1.1.1", r.PostForm.Get("remoteip"))
			json.NewEncoder(w).Encode(TurnstileResponse{Success: true})
		})

		ok, err := VerifyTurnstileToken(ctx, "valid-token", "secret", "1.1.1.1")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("No remote ip", func(t *testing.T) {
		withTurnstileServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, r.ParseForm())
			_, sent := r.PostForm["remoteip"]
			assert.False(t, sent)
			json.NewEncoder(w).Encode(TurnstileResponse{Success: true})
		})

		ok, err := VerifyTurnstileToken(ctx, "valid-token", "secret", "")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Rejected with error codes", func(t *testing.T) {
		withTurnstileServer(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(TurnstileResponse{
				ErrorCodes: []string{"invalid-input-response", "timeout-or-duplicate"},
			})
		})

		ok, err := VerifyTurnstileToken(ctx, "invalid-token", "secret", "1.1.1.1")
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrTurnstileRejected)
		assert.Contains(t, err.Error(), "timeout-or-duplicate")
	})

	t.Run("Upstream error status", func(t *testing.T) {
		withTurnstileServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		ok, err := VerifyTurnstileToken(ctx, "token", "secret", "1.1.1.1")
		assert.False(t, ok)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrTurnstileRejected)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("Malformed JSON response", func(t *testing.T) {
		withTurnstileServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{ malformed json }"))
		})

		ok, err := VerifyTurnstileToken(ctx, "token", "secret", "1.1.1.1")
		assert.False(t, ok)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode")
	})
}
