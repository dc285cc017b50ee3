package operations

import (
	"context"
	"net/http"
)

func webhookOperations() []Operation {
	return []Operation{
		{
			Name:        "list_webhooks",
			Description: "List the webhooks of a repository",
			Required:    []string{"repository"},
			Cloud:       listWebhooksCloud,
			Server:      listWebhooksServer,
		},
		{
			Name:        "create_webhook",
			Description: "Register a webhook on a repository",
			Required:    []string{"repository", "url"},
			Mutating:    true,
			Cloud:       createWebhookCloud,
			Server:      createWebhookServer,
		},
		{
			Name:        "delete_webhook",
			Description: "Delete a webhook by its id",
			Required:    []string{"repository", "id"},
			Mutating:    true,
			Cloud:       deleteWebhookCloud,
			Server:      deleteWebhookServer,
		},
	}
}

func listWebhooksCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	resp, err := inv.Client.Do(ctx, http.MethodGet, cloudRepoPath(inv, "hooks"), nil, nil)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

func listWebhooksServer(ctx context.Context, inv *Invocation) (*Result, error) {
	resp, err := inv.Client.Do(ctx, http.MethodGet, serverRepoPath(inv, "webhooks"), nil, nil)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

// cloudCreateWebhookBody labels the hook with description.
type cloudCreateWebhookBody struct {
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Active      bool     `json:"active"`
	Events      []string `json:"events"`
}

// serverCreateWebhookBody labels the hook with name.
type serverCreateWebhookBody struct {
	Name   string   `json:"name"`
	URL    string   `json:"url"`
	Active bool     `json:"active"`
	Events []string `json:"events"`
}

// defaultWebhookEvents fire on pushes and pull request creation, the platform
// spelling differs.
var (
	defaultCloudWebhookEvents  = []string{"repo:push", "pullrequest:created"}
	defaultServerWebhookEvents = []string{"repo:refs_changed", "pr:opened"}
)

func createWebhookCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	events := inv.Args.StringSlice("events")
	if len(events) == 0 {
		events = defaultCloudWebhookEvents
	}

	body := cloudCreateWebhookBody{
		Description: inv.Args.StringOr("name", "bitbucket-mcp webhook"),
		URL:         inv.Args.String("url"),
		Active:      inv.Args.Bool("active", true),
		Events:      events,
	}

	resp, err := inv.Client.Do(ctx, http.MethodPost, cloudRepoPath(inv, "hooks"), nil, body)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

func createWebhookServer(ctx context.Context, inv *Invocation) (*Result, error) {
	events := inv.Args.StringSlice("events")
	if len(events) == 0 {
		events = defaultServerWebhookEvents
	}

	body := serverCreateWebhookBody{
		Name:   inv.Args.StringOr("name", "bitbucket-mcp webhook"),
		URL:    inv.Args.String("url"),
		Active: inv.Args.Bool("active", true),
		Events: events,
	}

	resp, err := inv.Client.Do(ctx, http.MethodPost, serverRepoPath(inv, "webhooks"), nil, body)
	if err != nil {
		return nil, err
	}
	return JSONResult(resp.Body)
}

// webhookDeleted is the confirmation envelope for deletions; upstream answers
// with an empty body.
type webhookDeleted struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

func deleteWebhookCloud(ctx context.Context, inv *Invocation) (*Result, error) {
	id := inv.Args.String("id")
	if _, err := inv.Client.Do(ctx, http.MethodDelete, cloudRepoPath(inv, "hooks", id), nil, nil); err != nil {
		return nil, err
	}
	return marshalResult(webhookDeleted{Status: "deleted", ID: id})
}

func deleteWebhookServer(ctx context.Context, inv *Invocation) (*Result, error) {
	id := inv.Args.String("id")
	if _, err := inv.Client.Do(ctx, http.MethodDelete, serverRepoPath(inv, "webhooks", id), nil, nil); err != nil {
		return nil, err
	}
	return marshalResult(webhookDeleted{Status: "deleted", ID: id})
}
