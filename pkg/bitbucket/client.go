// Package bitbucket provides the authenticated HTTP client for both Bitbucket
// REST dialects and the classification of upstream failures.
//
// The client is built once from a resolved [config.PlatformConfig] and is
// safe for concurrent use: it holds no per-call state. Cloud always talks to
// the fixed api.bitbucket.org root (the configured base URL only drives
// platform detection); Server and Data Center get the versioned REST path
// appended to the configured base URL.
package bitbucket

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sgaunet/bullets"
	"golang.org/x/oauth2"

	"github.com/scm-tools/bitbucket-mcp/internal/security"
	"github.com/scm-tools/bitbucket-mcp/pkg/config"
)

const (
	// CloudAPIRoot is the fixed Cloud v2.0 API root. Cloud requests never
	// use the configured base URL as a call target.
	CloudAPIRoot = "https://api.bitbucket.org/2.0"

	// serverAPIPath is the versioned REST segment appended to a
	// Server/Data Center base URL.
	serverAPIPath = "/rest/api/1.0"

	// requestTimeout applies to every request; there is no per-request override.
	requestTimeout = 30 * time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is a reusable HTTP client bound to one platform's API root and auth
// scheme.
type Client struct {
	httpClient *http.Client
	apiRoot    string
	platform   config.PlatformType
	log        *bullets.Logger
}

// Response is the raw outcome of a successful request.
type Response struct {
	StatusCode int
	Body       []byte
	URL        string // fully-qualified request URL, kept for diagnostics
}

// NewClient builds an authenticated client for the resolved configuration.
func NewClient(cfg *config.PlatformConfig, log *bullets.Logger) *Client {
	return NewClientWithTransport(cfg, log, http.DefaultTransport)
}

// NewClientWithTransport is NewClient with an explicit base transport.
// Tests inject a recording transport here; the auth layering still applies.
func NewClientWithTransport(cfg *config.PlatformConfig, log *bullets.Logger, base http.RoundTripper) *Client {
	apiRoot := CloudAPIRoot
	if !cfg.Platform.IsCloud() {
		apiRoot = cfg.BaseURL + serverAPIPath
	}

	httpClient := buildHTTPClient(cfg, log, base)
	httpClient.Timeout = requestTimeout

	return &Client{
		httpClient: httpClient,
		apiRoot:    apiRoot,
		platform:   cfg.Platform,
		log:        log,
	}
}

// buildHTTPClient selects the auth scheme.
//
// Cloud is always HTTP basic: the token, when present, rides in the password
// slot. Server/Data Center prefers a bearer token and falls back to basic
// auth when only a username+password pair is configured.
func buildHTTPClient(cfg *config.PlatformConfig, log *bullets.Logger, base http.RoundTripper) *http.Client {
	creds := cfg.Credentials

	if cfg.Platform.IsCloud() {
		password := creds.Token
		if password.IsEmpty() {
			password = creds.Password
		}
		security.DebugAuth(log, "basic", map[string]string{
			"username": creds.Username,
			"url":      CloudAPIRoot,
		})
		return &http.Client{Transport: &basicAuthTransport{
			username: creds.Username,
			password: password.Value(),
			base:     base,
		}}
	}

	if !creds.Token.IsEmpty() {
		security.DebugAuth(log, "bearer", map[string]string{
			"token": creds.Token.String(),
			"url":   cfg.BaseURL,
		})
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token.Value()})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Transport: base})
		return oauth2.NewClient(ctx, ts)
	}

	security.DebugAuth(log, "basic", map[string]string{
		"username": creds.Username,
		"url":      cfg.BaseURL,
	})
	return &http.Client{Transport: &basicAuthTransport{
		username: creds.Username,
		password: creds.Password.Value(),
		base:     base,
	}}
}

// basicAuthTransport adds an HTTP basic Authorization header to every request.
type basicAuthTransport struct {
	username string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(clone)
}

// APIRoot returns the resolved API root this client talks to.
func (c *Client) APIRoot() string {
	return c.apiRoot
}

// Platform returns the platform this client is bound to.
func (c *Client) Platform() config.PlatformType {
	return c.platform
}

// Do issues a JSON request against a path relative to the API root and
// returns the raw response. Failures, transport or HTTP, come back already
// classified as an *APIError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	return c.do(ctx, method, path, query, body, "application/json")
}

// DoText is Do with plain-text content negotiation and no request body.
// Diff endpoints use it; the response bytes are returned untouched.
func (c *Client) DoText(ctx context.Context, method, path string, query url.Values) (*Response, error) {
	return c.do(ctx, method, path, query, nil, "text/plain")
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, accept string) (*Response, error) {
	requestURL := c.apiRoot + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug(fmt.Sprintf("%s %s", method, requestURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err, requestURL, c.platform)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is not actionable

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err, requestURL, c.platform)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, classifyStatus(resp.StatusCode, responseBody, requestURL, c.platform)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       responseBody,
		URL:        requestURL,
	}, nil
}
