package kroger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/richisen/smart-grocery-planner/internal/domain/shopping"
	"github.com/richisen/smart-grocery-planner/internal/infrastructure/config"
	"github.com/richisen/smart-grocery-planner/internal/infrastructure/monitoring"
	apperrors "github.com/richisen/smart-grocery-planner/pkg/errors"
	"go.uber.org/zap"
)

// maxQueryWords is the longest free-text query the upstream search handles
// reliably. Longer terms are truncated to this many words for the network
// query and the remainder is applied as a local relevance filter.
const maxQueryWords = 8

// Client implements the ProductSearcher interface against the Kroger API
type Client struct {
	baseURL    string
	locationID string
	retries    int
	retryDelay time.Duration
	tokens     *TokenSource
	client     *http.Client
	logger     *zap.Logger
	metrics    *monitoring.Metrics
}

// NewClient creates a product search client
func NewClient(cfg config.KrogerConfig, tokens *TokenSource, metrics *monitoring.Metrics, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		locationID: cfg.LocationID,
		retries:    cfg.SearchRetries,
		retryDelay: cfg.RetryDelay,
		tokens:     tokens,
		client:     &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Named("kroger-search"),
		metrics:    metrics,
	}
}

type searchResponse struct {
	Data []shopping.Product `json:"data"`
}

// Search returns products matching the free-text term. An empty locationID
// uses the configured store location. The call fails only when the primary
// query exhausts all retry attempts or the token exchange fails.
func (c *Client) Search(ctx context.Context, term, locationID string) ([]shopping.Product, error) {
	start := time.Now()
	products, err := c.search(ctx, term, locationID)
	c.metrics.ObserveSearch(err, time.Since(start))
	return products, err
}

func (c *Client) search(ctx context.Context, term, locationID string) ([]shopping.Product, error) {
	if locationID == "" {
		locationID = c.locationID
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	words := strings.Fields(term)
	if len(words) <= maxQueryWords {
		return c.searchWithRetry(ctx, term, locationID, token)
	}

	primary := strings.Join(words[:maxQueryWords], " ")
	residual := strings.Join(words[maxQueryWords:], " ")

	c.logger.Debug("Splitting long query",
		zap.String("primary", primary),
		zap.String("residual", residual))

	results, err := c.searchWithRetry(ctx, primary, locationID, token)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return results, nil
	}

	// The residual words never reach the network; they only narrow the
	// primary results by description.
	needle := strings.ToLower(residual)
	filtered := make([]shopping.Product, 0, len(results))
	for _, product := range results {
		if strings.Contains(strings.ToLower(product.Description), needle) {
			filtered = append(filtered, product)
		}
	}
	return filtered, nil
}

// searchWithRetry issues one query up to c.retries times with a fixed delay
// between failures. The last attempt's error surfaces as SEARCH_FAILED.
func (c *Client) searchWithRetry(ctx context.Context, term, locationID, token string) ([]shopping.Product, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		products, err := c.searchOnce(ctx, term, locationID, token)
		if err == nil {
			return products, nil
		}
		lastErr = err

		c.logger.Warn("Product search attempt failed",
			zap.String("term", term),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < c.retries {
			if err := sleep(ctx, c.retryDelay); err != nil {
				return nil, err
			}
		}
	}
	return nil, apperrors.NewSearchError(term, c.retries, lastErr)
}

func (c *Client) searchOnce(ctx context.Context, term, locationID, token string) ([]shopping.Product, error) {
	c.metrics.ObserveSearchAttempt()

	endpoint := c.baseURL + "/products"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	query := url.Values{
		"filter.term":       {term},
		"filter.locationId": {locationID},
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search response: %w", err)
	}

	return sr.Data, nil
}

// sleep waits for the retry delay or until the context is done
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
