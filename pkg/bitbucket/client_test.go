package bitbucket_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scm-tools/bitbucket-mcp/internal/logger"
	"github.com/scm-tools/bitbucket-mcp/pkg/bitbucket"
	"github.com/scm-tools/bitbucket-mcp/pkg/config"
	"github.com/scm-tools/bitbucket-mcp/testing/mocks"
)

func resolveConfig(t *testing.T, raw config.RawSettings) *config.PlatformConfig {
	t.Helper()
	cfg, err := config.Resolve(raw, logger.NoLogger())
	require.NoError(t, err)
	return cfg
}

func basicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func TestClient_CloudUsesBasicAuthWithTokenAsPassword(t *testing.T) {
	cfg := resolveConfig(t, config.RawSettings{
		BaseURL:  "https://api.bitbucket.org/2.0",
		Username: "alice",
		Token:    "tok",
	})
	transport := mocks.NewTransport()
	client := bitbucket.NewClientWithTransport(cfg, logger.NoLogger(), transport)

	_, err := client.Do(context.Background(), http.MethodGet, "/repositories/acme", nil, nil)
	require.NoError(t, err)

	call := transport.LastCall()
	require.NotNil(t, call)
	assert.Equal(t, basicAuth("alice", "tok"), call.Header.Get("Authorization"),
		"cloud must never send a bearer header")
}

func TestClient_CloudFallsBackToAppPassword(t *testing.T) {
	cfg := resolveConfig(t, config.RawSettings{
		BaseURL:  "https://bitbucket.org",
		Username: "alice",
		Password: "apppass",
	})
	transport := mocks.NewTransport()
	client := bitbucket.NewClientWithTransport(cfg, logger.NoLogger(), transport)

	_, err := client.Do(context.Background(), http.MethodGet, "/repositories/acme", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, basicAuth("alice", "apppass"), transport.LastCall().Header.Get("Authorization"))
}

func TestClient_CloudIgnoresConfiguredHostAsCallTarget(t *testing.T) {
	cfg := resolveConfig(t, config.RawSettings{
		BaseURL:  "https://bitbucket.org/some/ui/path",
		Username: "alice",
		Token:    "tok",
	})
	transport := mocks.NewTransport()
	client := bitbucket.NewClientWithTransport(cfg, logger.NoLogger(), transport)

	assert.Equal(t, bitbucket.CloudAPIRoot, client.APIRoot())

	_, err := client.Do(context.Background(), http.MethodGet, "/repositories/acme", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, bitbucket.CloudAPIRoot+"/repositories/acme", transport.LastCall().URL)
}

func TestClient_ServerUsesBearerToken(t *testing.T) {
	cfg := resolveConfig(t, config.RawSettings{
		BaseURL: "https://git.internal.example",
		Token:   "tok",
	})
	transport := mocks.NewTransport()
	client := bitbucket.NewClientWithTransport(cfg, logger.NoLogger(), transport)

	assert.Equal(t, "https://git.internal.example/rest/api/1.0", client.APIRoot())

	_, err := client.Do(context.Background(), http.MethodGet, "/projects/ACME/repos", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", transport.LastCall().Header.Get("Authorization"),
		"server with a token must carry a bearer header and no basic-auth block")
}

func TestClient_ServerFallsBackToBasicAuth(t *testing.T) {
	cfg := resolveConfig(t, config.RawSettings{
		BaseURL:  "https://git.internal.example",
		Username: "bob",
		Password: "secret",
	})
	transport := mocks.NewTransport()
	client := bitbucket.NewClientWithTransport(cfg, logger.NoLogger(), transport)

	_, err := client.Do(context.Background(), http.MethodGet, "/projects/ACME/repos", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, basicAuth("bob", "secret"), transport.LastCall().Header.Get("Authorization"))
}

func TestClient_SetsContentNegotiationHeaders(t *testing.T) {
	cfg := resolveConfig(t, config.RawSettings{
		BaseURL: "https://git.internal.example",
		Token:   "tok",
	})
	transport := mocks.NewTransport()
	client := bitbucket.NewClientWithTransport(cfg, logger.NoLogger(), transport)

	_, err := client.Do(context.Background(), http.MethodPost, "/projects/ACME/repos", nil, map[string]string{"name": "widget"})
	require.NoError(t, err)
	call := transport.LastCall()
	assert.Equal(t, "application/json", call.Header.Get("Accept"))
	assert.Equal(t, "application/json", call.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"name":"widget"}`, call.Body)

	_, err = client.DoText(context.Background(), http.MethodGet, "/projects/ACME/repos/widget/compare/diff", nil)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", transport.LastCall().Header.Get("Accept"))
}

func TestClient_AgainstRealHTTPServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/rest/api/1.0/projects/ACME/repos/widget", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"slug":"widget"}`))
	}))
	defer server.Close()

	cfg := resolveConfig(t, config.RawSettings{
		BaseURL: server.URL,
		Token:   "tok",
	})
	client := bitbucket.NewClient(cfg, logger.NoLogger())

	resp, err := client.Do(context.Background(), http.MethodGet, "/projects/ACME/repos/widget", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"slug":"widget"}`, string(resp.Body))
}
