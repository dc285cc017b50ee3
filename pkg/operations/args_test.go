package operations_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scm-tools/bitbucket-mcp/pkg/operations"
)

func TestArgs_Coercion(t *testing.T) {
	args := operations.NewArgs(map[string]any{
		"repository": "widget",
		"id":         float64(42),
		"active":     "true",
		"events":     []any{"repo:push", "pr:opened"},
	})

	assert.True(t, args.Has("repository"))
	assert.False(t, args.Has("missing"))
	assert.Equal(t, "widget", args.String("repository"))
	assert.Equal(t, "42", args.String("id"))
	assert.Equal(t, 42, args.Int("id", 0))
	assert.True(t, args.Bool("active", false))
	assert.Equal(t, []string{"repo:push", "pr:opened"}, args.StringSlice("events"))
	assert.Equal(t, "fallback", args.StringOr("missing", "fallback"))
	assert.Nil(t, args.StringSlice("missing"))
}

func TestArgs_NilMap(t *testing.T) {
	args := operations.NewArgs(nil)
	assert.Equal(t, "", args.String("anything"))
	assert.Equal(t, 7, args.Int("anything", 7))
}

func TestArgs_MissingFields(t *testing.T) {
	args := operations.NewArgs(map[string]any{
		"repository": "widget",
		"title":      "",
	})

	missing := args.MissingFields([]string{"repository", "title", "source_branch"})
	assert.Equal(t, []string{"title", "source_branch"}, missing)

	assert.Nil(t, args.MissingFields([]string{"repository"}))
}

func TestPagination_DefaultsAndClamps(t *testing.T) {
	tests := []struct {
		name        string
		raw         map[string]any
		limit, start int
	}{
		{name: "defaults", raw: map[string]any{}, limit: 25, start: 0},
		{name: "explicit", raw: map[string]any{"limit": 50, "start": 100}, limit: 50, start: 100},
		{name: "zero limit falls back", raw: map[string]any{"limit": 0}, limit: 25, start: 0},
		{name: "negative start clamps", raw: map[string]any{"start": -5}, limit: 25, start: 0},
		{name: "large limit passes through", raw: map[string]any{"limit": 5000}, limit: 5000, start: 0},
		{name: "floats from JSON", raw: map[string]any{"limit": float64(10), "start": float64(20)}, limit: 10, start: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := operations.NewArgs(tt.raw).Pagination()
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.start, p.Start)
		})
	}
}

func TestPagination_QueryForms(t *testing.T) {
	p := operations.Pagination{Limit: 10, Start: 35}

	cloud := url.Values{}
	p.CloudQuery(cloud)
	assert.Equal(t, "10", cloud.Get("pagelen"))
	assert.Equal(t, "4", cloud.Get("page"))

	server := url.Values{}
	p.ServerQuery(server)
	assert.Equal(t, "10", server.Get("limit"))
	assert.Equal(t, "35", server.Get("start"))
}
