package kroger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/richisen/smart-grocery-planner/internal/infrastructure/config"
	"github.com/richisen/smart-grocery-planner/internal/infrastructure/monitoring"
	apperrors "github.com/richisen/smart-grocery-planner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestTokenSource(t *testing.T, authURL string) *TokenSource {
	t.Helper()
	return NewTokenSource(config.KrogerConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		AuthURL:      authURL,
		Scope:        "product.compact",
		Timeout:      5 * time.Second,
	}, monitoring.NewMetrics(), zaptest.NewLogger(t))
}

func TestToken_ExchangeSendsClientCredentials(t *testing.T) {
	// Arrange
	var exchanges int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&exchanges, 1)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok, "Exchange should use basic auth")
		assert.Equal(t, "test-client", user)
		assert.Equal(t, "test-secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "product.compact", r.PostForm.Get("scope"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"abc123","expires_in":1800}`))
	}))
	defer server.Close()

	ts := newTestTokenSource(t, server.URL)

	// Act
	token, err := ts.Token(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)
	assert.Equal(t, int64(1), atomic.LoadInt64(&exchanges))
}

func TestToken_CachedUntilExpiry(t *testing.T) {
	// Arrange
	var exchanges int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&exchanges, 1)
		w.Write([]byte(`{"access_token":"abc123","expires_in":1800}`))
	}))
	defer server.Close()

	ts := newTestTokenSource(t, server.URL)

	now := time.Now()
	ts.now = func() time.Time { return now }

	// Act: two calls inside the validity window
	first, err := ts.Token(context.Background())
	require.NoError(t, err)

	now = now.Add(1799 * time.Second)
	second, err := ts.Token(context.Background())
	require.NoError(t, err)

	// Assert: one exchange served both
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&exchanges))
}

func TestToken_RefreshedAtExpiry(t *testing.T) {
	// Arrange
	var exchanges int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&exchanges, 1)
		w.Write([]byte(`{"access_token":"abc123","expires_in":1800}`))
	}))
	defer server.Close()

	ts := newTestTokenSource(t, server.URL)

	now := time.Now()
	ts.now = func() time.Time { return now }

	// Act
	_, err := ts.Token(context.Background())
	require.NoError(t, err)

	// A token at its exact expiry instant no longer counts as valid
	now = now.Add(1800 * time.Second)
	_, err = ts.Token(context.Background())
	require.NoError(t, err)

	// Assert
	assert.Equal(t, int64(2), atomic.LoadInt64(&exchanges))
}

func TestToken_ConcurrentCallersShareOneExchange(t *testing.T) {
	// Arrange: a slow exchange widens the race window
	var exchanges int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&exchanges, 1)
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(`{"access_token":"abc123","expires_in":1800}`))
	}))
	defer server.Close()

	ts := newTestTokenSource(t, server.URL)

	// Act: ten callers race the empty cache
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := ts.Token(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "abc123", token)
		}()
	}
	wg.Wait()

	// Assert: the lock spans the exchange, so exactly one happened
	assert.Equal(t, int64(1), atomic.LoadInt64(&exchanges))
}

func TestToken_ExchangeRejected(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	ts := newTestTokenSource(t, server.URL)

	// Act
	token, err := ts.Token(context.Background())

	// Assert
	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, apperrors.Is(err, apperrors.CodeAuthFailed))
}

func TestToken_EmptyAccessToken(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"expires_in":1800}`))
	}))
	defer server.Close()

	ts := newTestTokenSource(t, server.URL)

	// Act
	_, err := ts.Token(context.Background())

	// Assert
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeAuthFailed))
}
