// Package kroger provides the grocery product search API integration,
// including OAuth2 client-credentials token handling
package kroger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/richisen/smart-grocery-planner/internal/infrastructure/config"
	"github.com/richisen/smart-grocery-planner/internal/infrastructure/monitoring"
	apperrors "github.com/richisen/smart-grocery-planner/pkg/errors"
	"go.uber.org/zap"
)

// TokenSource acquires and caches a bearer credential for the grocery API.
// The cached credential is a single slot guarded by a mutex, so concurrent
// callers racing an expiry perform at most one exchange.
type TokenSource struct {
	authURL      string
	clientID     string
	clientSecret string
	scope        string
	client       *http.Client
	logger       *zap.Logger
	metrics      *monitoring.Metrics
	now          func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenSource creates a token source for the configured credentials
func NewTokenSource(cfg config.KrogerConfig, metrics *monitoring.Metrics, logger *zap.Logger) *TokenSource {
	return &TokenSource{
		authURL:      cfg.AuthURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		scope:        cfg.Scope,
		client:       &http.Client{Timeout: cfg.Timeout},
		logger:       logger.Named("kroger-token"),
		metrics:      metrics,
		now:          time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns the cached credential when current time is strictly before its
// expiry, otherwise performs a client-credentials exchange and caches the
// result. Exchange failures surface as AUTH_FAILED.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && ts.now().Before(ts.expiry) {
		return ts.token, nil
	}

	requestTime := ts.now()
	token, expiresIn, err := ts.exchange(ctx)
	ts.metrics.ObserveTokenRefresh(err)
	if err != nil {
		ts.logger.Error("Token exchange failed", zap.Error(err))
		return "", apperrors.NewAuthError(err)
	}

	ts.token = token
	ts.expiry = requestTime.Add(time.Duration(expiresIn) * time.Second)

	ts.logger.Debug("Token refreshed", zap.Time("expiry", ts.expiry))
	return ts.token, nil
}

// HasValidToken reports whether an unexpired credential is cached. Used by
// health reporting; never triggers an exchange.
func (ts *TokenSource) HasValidToken() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.token != "" && ts.now().Before(ts.expiry)
}

// exchange performs the client-credentials exchange
func (ts *TokenSource) exchange(ctx context.Context) (string, int, error) {
	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {ts.scope},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(ts.clientID, ts.clientSecret)

	resp, err := ts.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", 0, fmt.Errorf("failed to unmarshal token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", 0, fmt.Errorf("token endpoint returned an empty access token")
	}

	return tr.AccessToken, tr.ExpiresIn, nil
}
