package operations

import (
	"context"
	"net/http"
	"net/url"
)

func repositoryOperations() []Operation {
	return []Operation{
		{
			Name:        "list_repositories",
			Description: "List the repositories in a workspace or project",
			Cloud:       listRepositoriesCloud,
			Server:      listRepositoriesServer,
		},
		{
			Name:        "get_repository",
			Description: "Get the metadata of one repository",
			Required:    []string{"repository"},
			Cloud:       getRepositoryCloud,
			Server:      getRepositoryServer,
		},
		{
			Name:        "create_repository",
			Description: "Create a repository",
			Required:    []string{"repository"},
			Mutating:    true,
			Cloud:       createRepositoryCloud,
			Server:      createRepositoryServer,
		},
	}
}

func listRepositoriesCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	query := url.Values{}
	inv.Args.Pagination().CloudQuery(query)

	resp, err := inv.Client.Do(ctx, http.MethodGet, cloudWorkspacePath(inv), query, nil)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

func listRepositoriesServer(ctx context.Context, inv *Invocation) (*Result, error) {
	query := url.Values{}
	inv.Args.Pagination().ServerQuery(query)

	resp, err := inv.Client.Do(ctx, http.MethodGet, serverProjectPath(inv, "repos"), query, nil)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

func getRepositoryCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	resp, err := inv.Client.Do(ctx, http.MethodGet, cloudRepoPath(inv), nil, nil)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

func getRepositoryServer(ctx context.Context, inv *Invocation) (*Result, error) {
	resp, err := inv.Client.Do(ctx, http.MethodGet, serverRepoPath(inv), nil, nil)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

// cloudCreateRepositoryBody uses the Cloud field names; note is_private.
type cloudCreateRepositoryBody struct {
	SCM         string `json:"scm"`
	IsPrivate   bool   `json:"is_private"`
	Description string `json:"description,omitempty"`
}

// serverCreateRepositoryBody uses the Server field names; the boolean sense
// is inverted, Server models visibility as public.
type serverCreateRepositoryBody struct {
	Name        string `json:"name"`
	SCMID       string `json:"scmId"`
	Public      bool   `json:"public"`
	Description string `json:"description,omitempty"`
}

func createRepositoryCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	body := cloudCreateRepositoryBody{
		SCM:         "git",
		IsPrivate:   inv.Args.Bool("is_private", true),
		Description: inv.Args.String("description"),
	}

	resp, err := inv.Client.Do(ctx, http.MethodPost, cloudRepoPath(inv), nil, body)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

func createRepositoryServer(ctx context.Context, inv *Invocation) (*Result, error) {
	body := serverCreateRepositoryBody{
		Name:        inv.Args.String("repository"),
		SCMID:       "git",
		Public:      !inv.Args.Bool("is_private", true),
		Description: inv.Args.String("description"),
	}

	resp, err := inv.Client.Do(ctx, http.MethodPost, serverProjectPath(inv, "repos"), nil, body)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}
