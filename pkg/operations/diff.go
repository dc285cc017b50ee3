package operations

import (
	"context"
	"net/http"
	"net/url"
)

func diffOperations() []Operation {
	return []Operation{
		{
			Name:        "get_diff",
			Description: "Get the diff between two refs as literal patch text",
			Required:    []string{"repository", "source", "destination"},
			Cloud:       getDiffCloud,
			Server:      getDiffServer,
		},
	}
}

// Diff responses are consumed as patch text downstream, so both mappings use
// plain-text negotiation and return the body byte for byte.

func getDiffCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	spec := inv.Args.String("source") + ".." + inv.Args.String("destination")

	resp, err := inv.Client.DoText(ctx, http.MethodGet, cloudRepoPath(inv, "diff", spec), nil)
	if err != nil {
		return nil, err
	}
	return TextResult(resp.Body), nil
}

func getDiffServer(ctx context.Context, inv *Invocation) (*Result, error) {
	query := url.Values{}
	query.Set("from", inv.Args.String("source"))
	query.Set("to", inv.Args.String("destination"))

	resp, err := inv.Client.DoText(ctx, http.MethodGet, serverRepoPath(inv, "compare", "diff"), query)
	if err != nil {
		return nil, err
	}
	return TextResult(resp.Body), nil
}
