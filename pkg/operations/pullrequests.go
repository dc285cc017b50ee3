package operations

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

func pullRequestOperations() []Operation {
	return []Operation{
		{
			Name:        "list_pull_requests",
			Description: "List the pull requests of a repository, filtered by state",
			Required:    []string{"repository"},
			Cloud:       listPullRequestsCloud,
			Server:      listPullRequestsServer,
		},
		{
			Name:        "get_pull_request",
			Description: "Get one pull request by its id",
			Required:    []string{"repository", "id"},
			Cloud:       getPullRequestCloud,
			Server:      getPullRequestServer,
		},
		{
			Name:        "create_pull_request",
			Description: "Open a pull request between two branches",
			Required:    []string{"repository", "title", "source_branch", "target_branch"},
			Mutating:    true,
			Cloud:       createPullRequestCloud,
			Server:      createPullRequestServer,
		},
		{
			Name:        "merge_pull_request",
			Description: "Merge a pull request",
			Required:    []string{"repository", "id"},
			Mutating:    true,
			Cloud:       mergePullRequestCloud,
			Server:      mergePullRequestServer,
		},
	}
}

func listPullRequestsCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	query := url.Values{}
	inv.Args.Pagination().CloudQuery(query)
	query.Set("state", strings.ToUpper(inv.Args.StringOr("state", "open")))

	resp, err := inv.Client.Do(ctx, http.MethodGet, cloudRepoPath(inv, "pullrequests"), query, nil)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

func listPullRequestsServer(ctx context.Context, inv *Invocation) (*Result, error) {
	query := url.Values{}
	inv.Args.Pagination().ServerQuery(query)
	query.Set("state", strings.ToUpper(inv.Args.StringOr("state", "open")))

	resp, err := inv.Client.Do(ctx, http.MethodGet, serverRepoPath(inv, "pull-requests"), query, nil)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

func getPullRequestCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	resp, err := inv.Client.Do(ctx, http.MethodGet, cloudRepoPath(inv, "pullrequests", inv.Args.String("id")), nil, nil)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

func getPullRequestServer(ctx context.Context, inv *Invocation) (*Result, error) {
	resp, err := inv.Client.Do(ctx, http.MethodGet, serverRepoPath(inv, "pull-requests", inv.Args.String("id")), nil, nil)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

// cloudCreatePullRequestBody nests branches as source.branch.name objects.
type cloudCreatePullRequestBody struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Source      struct {
		Branch struct {
			Name string `json:"name"`
		} `json:"branch"`
	} `json:"source"`
	Destination struct {
		Branch struct {
			Name string `json:"name"`
		} `json:"branch"`
	} `json:"destination"`
	CloseSourceBranch bool `json:"close_source_branch"`
}

// serverCreatePullRequestBody addresses branches as flat refs/heads/ strings.
type serverCreatePullRequestBody struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FromRef     serverRef `json:"fromRef"`
	ToRef       serverRef `json:"toRef"`
}

type serverRef struct {
	ID string `json:"id"`
}

func createPullRequestCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	body := cloudCreatePullRequestBody{
		Title:             inv.Args.String("title"),
		Description:       inv.Args.String("description"),
		CloseSourceBranch: inv.Args.Bool("close_source_branch", false),
	}
	body.Source.Branch.Name = inv.Args.String("source_branch")
	body.Destination.Branch.Name = inv.Args.String("target_branch")

	resp, err := inv.Client.Do(ctx, http.MethodPost, cloudRepoPath(inv, "pullrequests"), nil, body)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

func createPullRequestServer(ctx context.Context, inv *Invocation) (*Result, error) {
	body := serverCreatePullRequestBody{
		Title:       inv.Args.String("title"),
		Description: inv.Args.String("description"),
		FromRef:     serverRef{ID: "refs/heads/" + inv.Args.String("source_branch")},
		ToRef:       serverRef{ID: "refs/heads/" + inv.Args.String("target_branch")},
	}

	resp, err := inv.Client.Do(ctx, http.MethodPost, serverRepoPath(inv, "pull-requests"), nil, body)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

// cloudMergeBody carries the optional strategy and message.
type cloudMergeBody struct {
	MergeStrategy string `json:"merge_strategy,omitempty"`
	Message       string `json:"message,omitempty"`
}

func mergePullRequestCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	body := cloudMergeBody{
		MergeStrategy: inv.Args.String("merge_strategy"),
		Message:       inv.Args.String("message"),
	}

	resp, err := inv.Client.Do(ctx, http.MethodPost, cloudRepoPath(inv, "pullrequests", inv.Args.String("id"), "merge"), nil, body)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

func mergePullRequestServer(ctx context.Context, inv *Invocation) (*Result, error) {
	// Server demands the pull request version for optimistic locking.
	// An empty value counts as absent, like everywhere required fields do.
	if inv.Args.String("version") == "" {
		return nil, &ArgumentError{Operation: "merge_pull_request", Missing: []string{"version"}}
	}

	query := url.Values{}
	query.Set("version", inv.Args.String("version"))

	resp, err := inv.Client.Do(ctx, http.MethodPost, serverRepoPath(inv, "pull-requests", inv.Args.String("id"), "merge"), query, nil)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}
