package operations

import (
	"context"
	"net/http"
	"net/url"
)

// Issue operations exist only on Cloud; Server and Data Center ship without
// an issue tracker, so their mappings stay nil and the dispatcher fails the
// call before any request is made.
func issueOperations() []Operation {
	return []Operation{
		{
			Name:        "list_issues",
			Description: "List the issues of a repository (Cloud only)",
			Required:    []string{"repository"},
			Cloud:       listIssuesCloud,
		},
		{
			Name:        "create_issue",
			Description: "Create an issue (Cloud only)",
			Required:    []string{"repository", "title"},
			Mutating:    true,
			Cloud:       createIssueCloud,
		},
	}
}

func listIssuesCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	query := url.Values{}
	inv.Args.Pagination().CloudQuery(query)

	resp, err := inv.Client.Do(ctx, http.MethodGet, cloudRepoPath(inv, "issues"), query, nil)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

type cloudCreateIssueBody struct {
	Title   string `json:"title"`
	Content struct {
		Raw string `json:"raw"`
	} `json:"content"`
	Kind     string `json:"kind,omitempty"`
	Priority string `json:"priority,omitempty"`
}

func createIssueCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	body := cloudCreateIssueBody{
		Title:    inv.Args.String("title"),
		Kind:     inv.Args.String("kind"),
		Priority: inv.Args.String("priority"),
	}
	body.Content.Raw = inv.Args.String("content")

	resp, err := inv.Client.Do(ctx, http.MethodPost, cloudRepoPath(inv, "issues"), nil, body)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}
