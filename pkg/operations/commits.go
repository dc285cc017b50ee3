package operations

import (
	"context"
	"net/http"
	"net/url"
)

func commitOperations() []Operation {
	return []Operation{
		{
			Name:        "list_commits",
			Description: "List the commits of a repository, optionally scoped to a branch",
			Required:    []string{"repository"},
			Cloud:       listCommitsCloud,
			Server:      listCommitsServer,
		},
	}
}

func listCommitsCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	query := url.Values{}
	inv.Args.Pagination().CloudQuery(query)

	// Cloud scopes to a branch through an extra path segment.
	path := cloudRepoPath(inv, "commits")
	if branch := inv.Args.String("branch"); branch != "" {
		path = cloudRepoPath(inv, "commits", branch)
	}

	resp, err := inv.Client.Do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

func listCommitsServer(ctx context.Context, inv *Invocation) (*Result, error) {
	query := url.Values{}
	inv.Args.Pagination().ServerQuery(query)

	// Server scopes to a branch through the until query parameter.
	if branch := inv.Args.String("branch"); branch != "" {
		query.Set("until", branch)
	}

	resp, err := inv.Client.Do(ctx, http.MethodGet, serverRepoPath(inv, "commits"), query, nil)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}
