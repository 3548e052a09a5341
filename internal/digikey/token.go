package digikey

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const (
	tokenEndpoint = "/v1/oauth2/token"

	// defaultExpiresIn is assumed when the token response omits expires_in
	defaultExpiresIn = 3600 * time.Second
	// expirySkew is subtracted from the reported lifetime so a token is
	// refreshed before the server considers it expired
	expirySkew = 100 * time.Second
)

type tokenPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// token returns a valid access token, reusing the cached one, refreshing via
// the refresh token when possible, and falling back to a fresh
// client_credentials grant.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	if c.refreshToken != "" {
		if err := c.requestTokenLocked(ctx, url.Values{
			"client_id":     {c.clientID},
			"client_secret": {c.clientSecret},
			"grant_type":    {"refresh_token"},
			"refresh_token": {c.refreshToken},
		}); err == nil {
			return c.accessToken, nil
		}
		// Refresh failed, fall through to a fresh grant
		c.refreshToken = ""
	}

	if err := c.requestTokenLocked(ctx, url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"client_credentials"},
	}); err != nil {
		return "", err
	}
	return c.accessToken, nil
}

// invalidate drops the cached access token so the next call re-acquires one
func (c *Client) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = ""
	c.expiresAt = time.Time{}
}

func (c *Client) requestTokenLocked(ctx context.Context, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf(
			"token request rejected (401): check the API keys and that they match the configured environment (sandbox keys only work against the sandbox API): %s",
			oauthErrorDetail(body))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, trimBody(body))
	}

	var payload tokenPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return errors.New("token response carried no access_token")
	}

	c.applyToken(payload)
	c.saveTokenFile(payload)
	return nil
}

func (c *Client) applyToken(payload tokenPayload) {
	c.accessToken = payload.AccessToken
	if payload.RefreshToken != "" {
		c.refreshToken = payload.RefreshToken
	}

	lifetime := defaultExpiresIn
	if payload.ExpiresIn > 0 {
		lifetime = time.Duration(payload.ExpiresIn) * time.Second
	}
	c.expiresAt = time.Now().Add(lifetime - expirySkew)
}

// loadTokenFile restores a previously issued token. The file may carry a
// UTF-8 BOM or stray text around the JSON object, both seen in the field, so
// parsing extracts the first balanced-looking object instead of failing.
func (c *Client) loadTokenFile() {
	if c.tokenFile == "" {
		return
	}
	data, err := afero.ReadFile(c.fs, c.tokenFile)
	if err != nil {
		return
	}

	payload, ok := parseTokenData(data)
	if !ok {
		return
	}
	c.applyToken(payload)
}

func parseTokenData(data []byte) (tokenPayload, bool) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	start := bytes.IndexByte(data, '{')
	end := bytes.LastIndexByte(data, '}')
	if start == -1 || end <= start {
		return tokenPayload{}, false
	}

	var payload tokenPayload
	if err := json.Unmarshal(data[start:end+1], &payload); err != nil {
		return tokenPayload{}, false
	}
	if payload.AccessToken == "" {
		return tokenPayload{}, false
	}
	return payload, true
}

func (c *Client) saveTokenFile(payload tokenPayload) {
	if c.tokenFile == "" {
		return
	}
	data, err := json.MarshalIndent(payload, "", "    ")
	if err != nil {
		return
	}
	// Token persistence is best effort, a write failure only costs a re-auth
	_ = afero.WriteFile(c.fs, c.tokenFile, data, 0o600)
}

func oauthErrorDetail(body []byte) string {
	var oauthErr struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &oauthErr); err == nil {
		if oauthErr.ErrorDescription != "" {
			return oauthErr.ErrorDescription
		}
		if oauthErr.Error != "" {
			return oauthErr.Error
		}
	}
	return trimBody(body)
}
