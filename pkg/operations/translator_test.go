package operations_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scm-tools/bitbucket-mcp/internal/logger"
	"github.com/scm-tools/bitbucket-mcp/pkg/bitbucket"
	"github.com/scm-tools/bitbucket-mcp/pkg/config"
	"github.com/scm-tools/bitbucket-mcp/pkg/operations"
	"github.com/scm-tools/bitbucket-mcp/testing/fixtures"
	"github.com/scm-tools/bitbucket-mcp/testing/mocks"
)

func newTranslator(t *testing.T, raw config.RawSettings) (*operations.Translator, *mocks.Transport) {
	t.Helper()
	cfg, err := config.Resolve(raw, logger.NoLogger())
	require.NoError(t, err)

	transport := mocks.NewTransport()
	client := bitbucket.NewClientWithTransport(cfg, logger.NoLogger(), transport)
	return operations.NewTranslator(client, cfg, logger.NoLogger()), transport
}

func newCloudTranslator(t *testing.T) (*operations.Translator, *mocks.Transport) {
	t.Helper()
	return newTranslator(t, config.RawSettings{
		BaseURL:        "https://bitbucket.org",
		Username:       "alice",
		Token:          "tok",
		DefaultContext: "acme",
	})
}

func newServerTranslator(t *testing.T) (*operations.Translator, *mocks.Transport) {
	t.Helper()
	return newTranslator(t, config.RawSettings{
		BaseURL:        "https://git.internal.example",
		Token:          "tok",
		DefaultContext: "ACME",
	})
}

const (
	cloudRoot  = "https://api.bitbucket.org/2.0"
	serverRoot = "https://git.internal.example/rest/api/1.0"
)

// TestTranslator_RequestShapes checks path, method, query, and body for every
// operation on both platforms.
func TestTranslator_RequestShapes(t *testing.T) {
	tests := []struct {
		name      string
		cloud     bool
		operation string
		args      map[string]any
		method    string
		path      string
		query     map[string]string
		body      string // JSON-compared when non-empty
	}{
		{
			name:      "list_repositories cloud",
			cloud:     true,
			operation: "list_repositories",
			args:      map[string]any{},
			method:    http.MethodGet,
			path:      "/repositories/acme",
			query:     map[string]string{"pagelen": "25", "page": "1"},
		},
		{
			name:      "list_repositories server",
			operation: "list_repositories",
			args:      map[string]any{},
			method:    http.MethodGet,
			path:      "/projects/ACME/repos",
			query:     map[string]string{"limit": "25", "start": "0"},
		},
		{
			name:      "get_repository cloud",
			cloud:     true,
			operation: "get_repository",
			args:      map[string]any{"repository": "widget"},
			method:    http.MethodGet,
			path:      "/repositories/acme/widget",
		},
		{
			name:      "get_repository server",
			operation: "get_repository",
			args:      map[string]any{"repository": "widget"},
			method:    http.MethodGet,
			path:      "/projects/ACME/repos/widget",
		},
		{
			name:      "create_repository cloud",
			cloud:     true,
			operation: "create_repository",
			args:      map[string]any{"repository": "widget", "is_private": true},
			method:    http.MethodPost,
			path:      "/repositories/acme/widget",
			body:      `{"scm":"git","is_private":true}`,
		},
		{
			name:      "create_repository server inverts visibility",
			operation: "create_repository",
			args:      map[string]any{"repository": "widget", "is_private": true},
			method:    http.MethodPost,
			path:      "/projects/ACME/repos",
			body:      `{"name":"widget","scmId":"git","public":false}`,
		},
		{
			name:      "list_branches cloud",
			cloud:     true,
			operation: "list_branches",
			args:      map[string]any{"repository": "widget"},
			method:    http.MethodGet,
			path:      "/repositories/acme/widget/refs/branches",
		},
		{
			name:      "list_branches server",
			operation: "list_branches",
			args:      map[string]any{"repository": "widget"},
			method:    http.MethodGet,
			path:      "/projects/ACME/repos/widget/branches",
		},
		{
			name:      "create_branch cloud nests target hash",
			cloud:     true,
			operation: "create_branch",
			args:      map[string]any{"repository": "widget", "name": "feature/x", "target": "3a1b5c9d"},
			method:    http.MethodPost,
			path:      "/repositories/acme/widget/refs/branches",
			body:      `{"name":"feature/x","target":{"hash":"3a1b5c9d"}}`,
		},
		{
			name:      "create_branch server uses startPoint",
			operation: "create_branch",
			args:      map[string]any{"repository": "widget", "name": "feature/x", "target": "3a1b5c9d"},
			method:    http.MethodPost,
			path:      "/projects/ACME/repos/widget/branches",
			body:      `{"name":"feature/x","startPoint":"3a1b5c9d"}`,
		},
		{
			name:      "list_commits cloud branch as path segment",
			cloud:     true,
			operation: "list_commits",
			args:      map[string]any{"repository": "widget", "branch": "main"},
			method:    http.MethodGet,
			path:      "/repositories/acme/widget/commits/main",
		},
		{
			name:      "list_commits server branch as until query",
			operation: "list_commits",
			args:      map[string]any{"repository": "widget", "branch": "main"},
			method:    http.MethodGet,
			path:      "/projects/ACME/repos/widget/commits",
			query:     map[string]string{"until": "main"},
		},
		{
			name:      "list_pull_requests cloud upcases state",
			cloud:     true,
			operation: "list_pull_requests",
			args:      map[string]any{"repository": "widget", "state": "merged"},
			method:    http.MethodGet,
			path:      "/repositories/acme/widget/pullrequests",
			query:     map[string]string{"state": "MERGED"},
		},
		{
			name:      "list_pull_requests server defaults to OPEN",
			operation: "list_pull_requests",
			args:      map[string]any{"repository": "widget"},
			method:    http.MethodGet,
			path:      "/projects/ACME/repos/widget/pull-requests",
			query:     map[string]string{"state": "OPEN"},
		},
		{
			name:      "get_pull_request cloud",
			cloud:     true,
			operation: "get_pull_request",
			args:      map[string]any{"repository": "widget", "id": 42},
			method:    http.MethodGet,
			path:      "/repositories/acme/widget/pullrequests/42",
		},
		{
			name:      "get_pull_request server",
			operation: "get_pull_request",
			args:      map[string]any{"repository": "widget", "id": 42},
			method:    http.MethodGet,
			path:      "/projects/ACME/repos/widget/pull-requests/42",
		},
		{
			name:      "create_pull_request cloud nests branch objects",
			cloud:     true,
			operation: "create_pull_request",
			args: map[string]any{
				"repository":    "widget",
				"title":         "Add flange",
				"source_branch": "feature/flange",
				"target_branch": "main",
			},
			method: http.MethodPost,
			path:   "/repositories/acme/widget/pullrequests",
			body: `{
				"title": "Add flange",
				"source": {"branch": {"name": "feature/flange"}},
				"destination": {"branch": {"name": "main"}},
				"close_source_branch": false
			}`,
		},
		{
			name:      "create_pull_request server uses flat refs",
			operation: "create_pull_request",
			args: map[string]any{
				"repository":    "widget",
				"title":         "Add flange",
				"source_branch": "feature/flange",
				"target_branch": "main",
			},
			method: http.MethodPost,
			path:   "/projects/ACME/repos/widget/pull-requests",
			body: `{
				"title": "Add flange",
				"fromRef": {"id": "refs/heads/feature/flange"},
				"toRef": {"id": "refs/heads/main"}
			}`,
		},
		{
			name:      "merge_pull_request cloud",
			cloud:     true,
			operation: "merge_pull_request",
			args:      map[string]any{"repository": "widget", "id": 42, "merge_strategy": "squash"},
			method:    http.MethodPost,
			path:      "/repositories/acme/widget/pullrequests/42/merge",
			body:      `{"merge_strategy":"squash"}`,
		},
		{
			name:      "merge_pull_request server carries version query",
			operation: "merge_pull_request",
			args:      map[string]any{"repository": "widget", "id": 42, "version": 3},
			method:    http.MethodPost,
			path:      "/projects/ACME/repos/widget/pull-requests/42/merge",
			query:     map[string]string{"version": "3"},
		},
		{
			name:      "get_diff cloud spec segment",
			cloud:     true,
			operation: "get_diff",
			args:      map[string]any{"repository": "widget", "source": "feature", "destination": "main"},
			method:    http.MethodGet,
			path:      "/repositories/acme/widget/diff/feature..main",
		},
		{
			name:      "get_diff server from-to query",
			operation: "get_diff",
			args:      map[string]any{"repository": "widget", "source": "feature", "destination": "main"},
			method:    http.MethodGet,
			path:      "/projects/ACME/repos/widget/compare/diff",
			query:     map[string]string{"from": "feature", "to": "main"},
		},
		{
			name:      "list_issues cloud",
			cloud:     true,
			operation: "list_issues",
			args:      map[string]any{"repository": "widget"},
			method:    http.MethodGet,
			path:      "/repositories/acme/widget/issues",
		},
		{
			name:      "create_issue cloud",
			cloud:     true,
			operation: "create_issue",
			args:      map[string]any{"repository": "widget", "title": "It broke", "content": "badly"},
			method:    http.MethodPost,
			path:      "/repositories/acme/widget/issues",
			body:      `{"title":"It broke","content":{"raw":"badly"}}`,
		},
		{
			name:      "list_webhooks cloud",
			cloud:     true,
			operation: "list_webhooks",
			args:      map[string]any{"repository": "widget"},
			method:    http.MethodGet,
			path:      "/repositories/acme/widget/hooks",
		},
		{
			name:      "list_webhooks server",
			operation: "list_webhooks",
			args:      map[string]any{"repository": "widget"},
			method:    http.MethodGet,
			path:      "/projects/ACME/repos/widget/webhooks",
		},
		{
			name:      "create_webhook cloud",
			cloud:     true,
			operation: "create_webhook",
			args:      map[string]any{"repository": "widget", "url": "https://ci.example/hook", "name": "ci"},
			method:    http.MethodPost,
			path:      "/repositories/acme/widget/hooks",
			body:      `{"description":"ci","url":"https://ci.example/hook","active":true,"events":["repo:push","pullrequest:created"]}`,
		},
		{
			name:      "create_webhook server",
			operation: "create_webhook",
			args:      map[string]any{"repository": "widget", "url": "https://ci.example/hook", "name": "ci"},
			method:    http.MethodPost,
			path:      "/projects/ACME/repos/widget/webhooks",
			body:      `{"name":"ci","url":"https://ci.example/hook","active":true,"events":["repo:refs_changed","pr:opened"]}`,
		},
		{
			name:      "delete_webhook cloud",
			cloud:     true,
			operation: "delete_webhook",
			args:      map[string]any{"repository": "widget", "id": "hook-1"},
			method:    http.MethodDelete,
			path:      "/repositories/acme/widget/hooks/hook-1",
		},
		{
			name:      "delete_webhook server",
			operation: "delete_webhook",
			args:      map[string]any{"repository": "widget", "id": "7"},
			method:    http.MethodDelete,
			path:      "/projects/ACME/repos/widget/webhooks/7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var translator *operations.Translator
			var transport *mocks.Transport
			root := serverRoot
			if tt.cloud {
				translator, transport = newCloudTranslator(t)
				root = cloudRoot
			} else {
				translator, transport = newServerTranslator(t)
			}

			_, err := translator.Execute(context.Background(), tt.operation, tt.args)
			require.NoError(t, err)

			call := transport.LastCall()
			require.NotNil(t, call, "expected an HTTP call")
			assert.Equal(t, tt.method, call.Method)
			assert.True(t, strings.HasPrefix(call.URL, root), "call %s must target %s", call.URL, root)
			assert.Equal(t, root+tt.path, strings.SplitN(call.URL, "?", 2)[0])
			for key, want := range tt.query {
				assert.Equal(t, want, call.Query.Get(key), "query %s", key)
			}
			if tt.body != "" {
				assert.JSONEq(t, tt.body, call.Body)
			}
		})
	}
}

func TestTranslator_PaginationProperty(t *testing.T) {
	cases := []struct {
		limit, start int
		cloudPage    string
	}{
		{limit: 25, start: 0, cloudPage: "1"},
		{limit: 25, start: 25, cloudPage: "2"},
		{limit: 25, start: 30, cloudPage: "2"},
		{limit: 10, start: 99, cloudPage: "10"},
		{limit: 1, start: 7, cloudPage: "8"},
		{limit: 200, start: 400, cloudPage: "3"},
		{limit: 500, start: 0, cloudPage: "1"},
	}

	for _, tc := range cases {
		args := map[string]any{"limit": tc.limit, "start": tc.start}

		cloud, cloudTransport := newCloudTranslator(t)
		_, err := cloud.Execute(context.Background(), "list_repositories", args)
		require.NoError(t, err)
		call := cloudTransport.LastCall()
		assert.Equal(t, tc.cloudPage, call.Query.Get("page"), "limit=%d start=%d", tc.limit, tc.start)
		assert.Equal(t, strconv.Itoa(tc.limit), call.Query.Get("pagelen"))

		server, serverTransport := newServerTranslator(t)
		_, err = server.Execute(context.Background(), "list_repositories", args)
		require.NoError(t, err)
		call = serverTransport.LastCall()
		assert.Equal(t, strconv.Itoa(tc.limit), call.Query.Get("limit"))
		assert.Equal(t, strconv.Itoa(tc.start), call.Query.Get("start"))
	}
}

func TestTranslator_VisibilityInversionProperty(t *testing.T) {
	for _, isPrivate := range []bool{true, false} {
		translator, transport := newServerTranslator(t)
		_, err := translator.Execute(context.Background(), "create_repository", map[string]any{
			"repository": "widget",
			"is_private": isPrivate,
		})
		require.NoError(t, err)

		var body struct {
			Public bool `json:"public"`
		}
		require.NoError(t, json.Unmarshal([]byte(transport.LastCall().Body), &body))
		assert.Equal(t, !isPrivate, body.Public, "is_private=%v", isPrivate)
	}
}

func TestTranslator_MissingContextFailsBeforeAnyCall(t *testing.T) {
	translator, transport := newTranslator(t, config.RawSettings{
		BaseURL:  "https://bitbucket.org",
		Username: "alice",
		Token:    "tok",
		// no DefaultContext
	})

	for _, op := range []string{"list_repositories", "get_repository", "create_pull_request"} {
		_, err := translator.Execute(context.Background(), op, map[string]any{"repository": "widget"})
		require.Error(t, err, op)

		var argErr *operations.ArgumentError
		require.True(t, errors.As(err, &argErr), "expected ArgumentError for %s, got %v", op, err)
		assert.True(t, errors.Is(err, operations.ErrMissingContext))
		assert.Contains(t, argErr.Error(), "workspace")
	}

	assert.Zero(t, transport.CallCount(), "no HTTP call may happen without a resolved context")
}

func TestTranslator_ContextFromArgsBeatsDefault(t *testing.T) {
	translator, transport := newCloudTranslator(t)

	_, err := translator.Execute(context.Background(), "get_repository", map[string]any{
		"workspace":  "other",
		"repository": "widget",
	})
	require.NoError(t, err)
	assert.Equal(t, cloudRoot+"/repositories/other/widget", transport.LastCall().URL)
}

func TestTranslator_MissingFieldsNamed(t *testing.T) {
	translator, transport := newCloudTranslator(t)

	_, err := translator.Execute(context.Background(), "create_pull_request", map[string]any{
		"repository": "widget",
		"title":      "Add flange",
	})
	require.Error(t, err)

	var argErr *operations.ArgumentError
	require.True(t, errors.As(err, &argErr))
	assert.True(t, errors.Is(err, operations.ErrInvalidArguments))
	assert.ElementsMatch(t, []string{"source_branch", "target_branch"}, argErr.Missing)
	assert.Zero(t, transport.CallCount())
}

func TestTranslator_UnknownOperation(t *testing.T) {
	translator, transport := newCloudTranslator(t)

	_, err := translator.Execute(context.Background(), "launch_rockets", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, operations.ErrUnknownOperation))
	assert.Zero(t, transport.CallCount())
}

func TestTranslator_IssuesUnsupportedOnServer(t *testing.T) {
	translator, transport := newServerTranslator(t)

	for _, op := range []string{"list_issues", "create_issue"} {
		_, err := translator.Execute(context.Background(), op, map[string]any{
			"repository": "widget",
			"title":      "It broke",
		})
		require.Error(t, err, op)
		assert.True(t, errors.Is(err, operations.ErrUnsupportedOnPlatform))
	}
	assert.Zero(t, transport.CallCount())
}

func TestTranslator_MergeOnServerRequiresVersion(t *testing.T) {
	// An explicit empty version is as useless as an absent one.
	argSets := []map[string]any{
		{"repository": "widget", "id": 42},
		{"repository": "widget", "id": 42, "version": ""},
	}

	for _, args := range argSets {
		translator, transport := newServerTranslator(t)

		_, err := translator.Execute(context.Background(), "merge_pull_request", args)
		require.Error(t, err)
		assert.True(t, errors.Is(err, operations.ErrInvalidArguments))
		assert.Zero(t, transport.CallCount())
	}
}

func TestTranslator_DiffPassthroughIsByteExact(t *testing.T) {
	translator, transport := newCloudTranslator(t)
	transport.Responses["GET /2.0/repositories/acme/widget/diff/feature..main"] = mocks.Response{
		StatusCode: http.StatusOK,
		Body:       fixtures.DiffText,
	}

	result, err := translator.Execute(context.Background(), "get_diff", map[string]any{
		"repository":  "widget",
		"source":      "feature",
		"destination": "main",
	})
	require.NoError(t, err)
	assert.Equal(t, fixtures.DiffText, result.Text,
		"diff text must survive byte for byte, including trailing whitespace and CRLF")
	assert.Equal(t, "text/plain", transport.LastCall().Header.Get("Accept"))
}

func TestTranslator_FloatArgsFromJSONDecode(t *testing.T) {
	// JSON-RPC argument maps decode numbers as float64.
	translator, transport := newCloudTranslator(t)

	_, err := translator.Execute(context.Background(), "get_pull_request", map[string]any{
		"repository": "widget",
		"id":         float64(42),
	})
	require.NoError(t, err)
	assert.Equal(t, cloudRoot+"/repositories/acme/widget/pullrequests/42", transport.LastCall().URL)
}
