package operations

import (
	"context"
	"net/http"
	"net/url"
)

func branchOperations() []Operation {
	return []Operation{
		{
			Name:        "list_branches",
			Description: "List the branches of a repository",
			Required:    []string{"repository"},
			Cloud:       listBranchesCloud,
			Server:      listBranchesServer,
		},
		{
			Name:        "create_branch",
			Description: "Create a branch from a commit or branch target",
			Required:    []string{"repository", "name", "target"},
			Mutating:    true,
			Cloud:       createBranchCloud,
			Server:      createBranchServer,
		},
	}
}

func listBranchesCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	query := url.Values{}
	inv.Args.Pagination().CloudQuery(query)

	resp, err := inv.Client.Do(ctx, http.MethodGet, cloudRepoPath(inv, "refs", "branches"), query, nil)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

func listBranchesServer(ctx context.Context, inv *Invocation) (*Result, error) {
	query := url.Values{}
	inv.Args.Pagination().ServerQuery(query)

	resp, err := inv.Client.Do(ctx, http.MethodGet, serverRepoPath(inv, "branches"), query, nil)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

// cloudCreateBranchBody nests the target; Cloud addresses start points by hash.
type cloudCreateBranchBody struct {
	Name   string `json:"name"`
	Target struct {
		Hash string `json:"hash"`
	} `json:"target"`
}

// serverCreateBranchBody is flat; Server calls the start point startPoint.
type serverCreateBranchBody struct {
	Name       string `json:"name"`
	StartPoint string `json:"startPoint"`
}

func createBranchCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	body := cloudCreateBranchBody{Name: inv.Args.String("name")}
	body.Target.Hash = inv.Args.String("target")

	resp, err := inv.Client.Do(ctx, http.MethodPost, cloudRepoPath(inv, "refs", "branches"), nil, body)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

func createBranchServer(ctx context.Context, inv *Invocation) (*Result, error) {
	body := serverCreateBranchBody{
		Name:       inv.Args.String("name"),
		StartPoint: inv.Args.String("target"),
	}

	resp, err := inv.Client.Do(ctx, http.MethodPost, serverRepoPath(inv, "branches"), nil, body)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}
