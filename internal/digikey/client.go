// Package digikey implements the DigiKey Product Information API client.
package digikey

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/afero"

	"partdex/internal/parts"
)

const (
	productionBaseURL = "https://api.digikey.com"
	sandboxBaseURL    = "https://sandbox-api.digikey.com"

	searchEndpoint = "/products/v4/search/keyword"

	// maxRecords is the server-side cap on RecordCount
	maxRecords = 50

	maxErrorBody = 2048

	defaultTimeout = 30 * time.Second
)

// Locale selects the site, language and currency headers sent with searches
type Locale struct {
	Site     string
	Language string
	Currency string
}

// Config configures a Client
type Config struct {
	HTTPClient   *http.Client
	Fs           afero.Fs
	ClientID     string
	ClientSecret string
	// BaseURL overrides the API host, for tests
	BaseURL string
	// TokenFile caches issued tokens across runs; empty disables caching
	TokenFile string
	Locale    Locale
	Sandbox   bool
}

// Client talks to the DigiKey keyword search API
type Client struct {
	httpClient   *http.Client
	fs           afero.Fs
	clientID     string
	clientSecret string
	baseURL      string
	tokenFile    string
	locale       Locale

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// New creates a client and restores any cached token from the token file
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Sandbox {
			baseURL = sandboxBaseURL
		} else {
			baseURL = productionBaseURL
		}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	locale := cfg.Locale
	if locale.Site == "" {
		locale = Locale{Site: "US", Language: "en", Currency: "USD"}
	}

	client := &Client{
		httpClient:   httpClient,
		fs:           fs,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      baseURL,
		tokenFile:    cfg.TokenFile,
		locale:       locale,
	}
	client.loadTokenFile()
	return client
}

// Configured reports whether API credentials are present
func (c *Client) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// Search resolves a single part number. A part the API cannot match yields
// the not-found sentinel record, not an error.
func (c *Client) Search(ctx context.Context, partNumber string) (*parts.Part, error) {
	results, err := c.SearchKeyword(ctx, partNumber, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return parts.NotFound(partNumber), nil
	}
	part := results[0]
	return &part, nil
}

// SearchKeyword runs one keyword search returning up to limit products.
// RecordCount is capped at the server maximum.
func (c *Client) SearchKeyword(ctx context.Context, keyword string, limit int) ([]parts.Part, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxRecords {
		limit = maxRecords
	}

	body, err := c.doSearch(ctx, keyword, limit)
	if err != nil {
		return nil, err
	}

	products, err := decodeProducts(body)
	if err != nil {
		return nil, err
	}

	results := make([]parts.Part, 0, len(products))
	for i := range products {
		results = append(results, products[i].toPart(keyword))
	}
	return results, nil
}

func (c *Client) doSearch(ctx context.Context, keyword string, limit int) ([]byte, error) {
	resp, err := c.searchOnce(ctx, keyword, limit)
	if err != nil {
		return nil, err
	}

	// A 401 mid-session usually means the bearer token expired, re-acquire
	// once and retry
	if resp.status == http.StatusUnauthorized {
		c.invalidate()
		resp, err = c.searchOnce(ctx, keyword, limit)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case resp.status == http.StatusOK:
		return resp.body, nil
	case resp.status == http.StatusTooManyRequests:
		return nil, &RateLimitError{RetryAfter: retryAfter(resp.retryAfter)}
	default:
		return nil, fmt.Errorf("search request failed with status %d: %s", resp.status, trimBody(resp.body))
	}
}

type searchResult struct {
	retryAfter string
	body       []byte
	status     int
}

func (c *Client) searchOnce(ctx context.Context, keyword string, limit int) (*searchResult, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{
		"Keywords":            keyword,
		"RecordCount":         limit,
		"RecordStartPosition": 0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+searchEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-DIGIKEY-Client-Id", c.clientID)
	req.Header.Set("X-DIGIKEY-Locale-Site", c.locale.Site)
	req.Header.Set("X-DIGIKEY-Locale-Language", c.locale.Language)
	req.Header.Set("X-DIGIKEY-Locale-Currency", c.locale.Currency)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	return &searchResult{
		status:     resp.StatusCode,
		body:       body,
		retryAfter: resp.Header.Get("Retry-After"),
	}, nil
}

func retryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func trimBody(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return string(bytes.TrimSpace(body))
}
