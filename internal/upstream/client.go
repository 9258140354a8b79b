// Package upstream is the HTTP transport to the back-office REST API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"backoffice-gateway/internal/session"
	"backoffice-gateway/pkg/apierror"
)

const maxErrorBody = 64 << 10

// LatencyObserver records one upstream round trip. status is 0 when no
// response was received.
type LatencyObserver interface {
	ObserveUpstream(method string, status int, elapsed time.Duration)
}

type Client struct {
	baseURL  *url.URL
	http     *http.Client
	observer LatencyObserver
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

func WithObserver(observer LatencyObserver) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse upstream base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("upstream base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: parsed,
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Do sends one request. body, when non-nil, is sent as JSON. out, when
// non-nil, receives the decoded 2xx response body. No retries.
func (c *Client) Do(ctx context.Context, method string, path string, query url.Values, bearer string, body any, out any) error {
	// path arrives already escaped.
	target := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode upstream request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, 0, started)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.observe(method, resp.StatusCode, started)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		slog.Debug("upstream error response", "method", method, "path", path, "status", resp.StatusCode)
		return apierror.Upstream(resp.StatusCode, errorMessage(raw))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode upstream response: %w", err)
	}

	return nil
}

func (c *Client) observe(method string, status int, started time.Time) {
	if c.observer != nil {
		c.observer.ObserveUpstream(method, status, time.Since(started))
	}
}

// errorMessage extracts a human message from the usual error body shapes:
// {"message":...}, {"error":"..."} and {"error":{"message":...}}.
func errorMessage(raw []byte) string {
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}

	var text string
	if err := json.Unmarshal(body.Error, &text); err == nil {
		return text
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body.Error, &nested); err == nil {
		return nested.Message
	}
	return ""
}

// LoginResult is the payload returned by login and refresh.
type LoginResult struct {
	Credentials session.Credentials  `json:"credentials"`
	UserData    *session.UserProfile `json:"userData"`
	Roles       []session.Role       `json:"roles"`
	Abilities   []session.Rule       `json:"abilities"`
}

// Blob converts the result into the stored session shape.
func (r LoginResult) Blob() session.Blob {
	return session.Blob{
		IsLogin:     r.Credentials.AccessToken != "",
		Credentials: r.Credentials,
		UserData:    r.UserData,
		Roles:       r.Roles,
		Abilities:   r.Abilities,
	}
}

type envelope[T any] struct {
	Data T `json:"data"`
}

func (c *Client) Login(ctx context.Context, username string, password string) (LoginResult, error) {
	payload := map[string]string{"username": username, "password": password}

	var out envelope[LoginResult]
	if err := c.Do(ctx, http.MethodPost, "/auth/login", nil, "", payload, &out); err != nil {
		return LoginResult{}, err
	}
	if out.Data.Credentials.AccessToken == "" {
		return LoginResult{}, apierror.Upstream(http.StatusBadGateway, "login response carried no access token")
	}
	return out.Data, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (LoginResult, error) {
	payload := map[string]string{"refresh_token": refreshToken}

	var out envelope[LoginResult]
	if err := c.Do(ctx, http.MethodPost, "/auth/refresh", nil, "", payload, &out); err != nil {
		return LoginResult{}, err
	}
	if out.Data.Credentials.AccessToken == "" {
		return LoginResult{}, apierror.Upstream(http.StatusBadGateway, "refresh response carried no access token")
	}
	return out.Data, nil
}

// Logout revokes the token upstream. Callers clear local state regardless of
// the outcome.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	return c.Do(ctx, http.MethodPost, "/auth/logout", nil, accessToken, nil, nil)
}
