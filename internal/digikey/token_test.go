package digikey

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain json", `{"access_token": "abc", "expires_in": 3600}`, "abc", true},
		{"utf8 bom", "\xEF\xBB\xBF{\"access_token\": \"abc\"}", "abc", true},
		{"surrounding junk", "oops{\"access_token\": \"abc\"}trailing", "abc", true},
		{"empty file", "", "", false},
		{"whitespace only", "   \n", "", false},
		{"no object", "access_token=abc", "", false},
		{"missing token", `{"expires_in": 3600}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			payload, ok := parseTokenData([]byte(tt.input))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, payload.AccessToken)
			}
		})
	}
}

func TestTokenPersistedAndRestored(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc(tokenEndpoint, func(w http.ResponseWriter, _ *http.Request) {
		tokenCalls.Add(1)
		_ = json.NewEncoder(w).Encode(tokenPayload{AccessToken: "issued", ExpiresIn: 3600})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	fs := afero.NewMemMapFs()
	cfg := Config{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      server.URL,
		TokenFile:    "/data/token.json",
		Fs:           fs,
	}

	first := New(cfg)
	token, err := first.token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "issued", token)
	assert.Equal(t, int64(1), tokenCalls.Load())

	exists, err := afero.Exists(fs, "/data/token.json")
	require.NoError(t, err)
	assert.True(t, exists)

	// A fresh client restores the cached token without hitting the server
	second := New(cfg)
	token, err = second.token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "issued", token)
	assert.Equal(t, int64(1), tokenCalls.Load())
}

func TestExpiredTokenRefreshedWithRefreshToken(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc(tokenEndpoint, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		switch r.PostFormValue("grant_type") {
		case "refresh_token":
			assert.Equal(t, "refresh-1", r.PostFormValue("refresh_token"))
			_ = json.NewEncoder(w).Encode(tokenPayload{
				AccessToken:  "refreshed",
				RefreshToken: "refresh-2",
				ExpiresIn:    3600,
			})
		default:
			t.Errorf("unexpected grant_type %q", r.PostFormValue("grant_type"))
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := New(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      server.URL,
		Fs:           afero.NewMemMapFs(),
	})
	client.accessToken = "stale"
	client.refreshToken = "refresh-1"
	client.expiresAt = time.Now().Add(-time.Minute)

	token, err := client.token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed", token)
	assert.Equal(t, "refresh-2", client.refreshToken, "rotated refresh token should be kept")
}

func TestFailedRefreshFallsBackToClientCredentials(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc(tokenEndpoint, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		switch r.PostFormValue("grant_type") {
		case "refresh_token":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": "invalid_grant"}`))
		case "client_credentials":
			_ = json.NewEncoder(w).Encode(tokenPayload{AccessToken: "fresh", ExpiresIn: 3600})
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := New(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      server.URL,
		Fs:           afero.NewMemMapFs(),
	})
	client.refreshToken = "dead-refresh"

	token, err := client.token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	assert.Empty(t, client.refreshToken)
}

func TestTokenUnauthorizedMentionsEnvironment(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc(tokenEndpoint, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error_description": "Client not subscribed"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := New(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      server.URL,
		Fs:           afero.NewMemMapFs(),
	})

	_, err := client.token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sandbox")
	assert.Contains(t, err.Error(), "Client not subscribed")
}

func TestExpirySkewApplied(t *testing.T) {
	t.Parallel()

	client := New(Config{Fs: afero.NewMemMapFs()})
	before := time.Now()
	client.applyToken(tokenPayload{AccessToken: "abc", ExpiresIn: 600})

	lifetime := client.expiresAt.Sub(before)
	assert.Less(t, lifetime, 600*time.Second)
	assert.Greater(t, lifetime, 600*time.Second-2*expirySkew)
}
