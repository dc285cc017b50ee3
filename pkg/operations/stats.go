package operations

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/scm-tools/bitbucket-mcp/pkg/bitbucket"
)

func statsOperations() []Operation {
	return []Operation{
		{
			Name:        "repository_stats",
			Description: "Summarize a repository: metadata plus its latest commit",
			Required:    []string{"repository"},
			Cloud:       repositoryStatsCloud,
			Server:      repositoryStatsServer,
		},
	}
}

// repositoryStats fixes the field order of the combined object so the result
// is identical no matter which sub-request finishes first.
type repositoryStats struct {
	Repository   any `json:"repository"`
	LatestCommit any `json:"latest_commit,omitempty"`
}

// repositoryStatsCloud needs two independent requests; they run concurrently
// and the first sub-call failure (in declaration order) fails the operation.
func repositoryStatsCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	commitQuery := url.Values{}
	commitQuery.Set("pagelen", "1")

	requests := []struct {
		path  string
		query url.Values
	}{
		{path: cloudRepoPath(inv)},
		{path: cloudRepoPath(inv, "commits"), query: commitQuery},
	}

	responses := make([]*bitbucket.Response, len(requests))
	errs := make([]error, len(requests))

	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, path string, query url.Values) {
			defer wg.Done()
			responses[i], errs[i] = inv.Client.Do(ctx, http.MethodGet, path, query, nil)
		}(i, req.path, req.query)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var repository any
	if err := json.Unmarshal(responses[0].Body, &repository); err != nil {
		return nil, fmt.Errorf("failed to decode repository response: %w", err)
	}

	stats := repositoryStats{
		Repository:   repository,
		LatestCommit: firstCommit(responses[1].Body),
	}
	return marshalResult(stats)
}

// firstCommit pulls the single commit out of the one-item page. A repository
// with no commits yields an empty field.
func firstCommit(body []byte) any {
	var page struct {
		Values []any `json:"values"`
	}
	if err := json.Unmarshal(body, &page); err != nil || len(page.Values) == 0 {
		return nil
	}
	return page.Values[0]
}

// repositoryStatsServer is a single call; the Server repository payload
// already carries what the summary needs.
func repositoryStatsServer(ctx context.Context, inv *Invocation) (*Result, error) {
	resp, err := inv.Client.Do(ctx, http.MethodGet, serverRepoPath(inv), nil, nil)
	if err != nil {
		return nil, err
	}

	var repository any
	if err := json.Unmarshal(resp.Body, &repository); err != nil {
		return nil, fmt.Errorf("failed to decode repository response: %w", err)
	}

	return marshalResult(repositoryStats{Repository: repository})
}
