package mcpserver

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/scm-tools/bitbucket-mcp/pkg/config"
)

// toolDefinitions is the static tool catalog. The schemas are
// platform-aware in exactly one way: the context argument is called
// workspace on Cloud and project on Server/Data Center. Issue tools are
// omitted on Server/Data Center, which has no issue tracker.
func toolDefinitions(platform config.PlatformType) []mcp.Tool {
	contextKey := platform.ContextKey()
	withContext := mcp.WithString(contextKey,
		mcp.Description(fmt.Sprintf("The %s that scopes the repository; defaults to the configured one", contextKey)))
	withRepository := mcp.WithString("repository",
		mcp.Required(),
		mcp.Description("Repository slug"))
	withLimit := mcp.WithNumber("limit",
		mcp.Description("Page size, defaults to 25"))
	withStart := mcp.WithNumber("start",
		mcp.Description("Zero-based offset of the first item"))

	tools := []mcp.Tool{
		mcp.NewTool("list_repositories",
			mcp.WithDescription("List the repositories in a workspace or project"),
			mcp.WithReadOnlyHintAnnotation(true),
			withContext, withLimit, withStart,
		),
		mcp.NewTool("get_repository",
			mcp.WithDescription("Get the metadata of one repository"),
			mcp.WithReadOnlyHintAnnotation(true),
			withContext, withRepository,
		),
		mcp.NewTool("create_repository",
			mcp.WithDescription("Create a repository"),
			withContext, withRepository,
			mcp.WithBoolean("is_private", mcp.Description("Whether the repository is private, defaults to true")),
			mcp.WithString("description", mcp.Description("Repository description")),
		),
		mcp.NewTool("list_branches",
			mcp.WithDescription("List the branches of a repository"),
			mcp.WithReadOnlyHintAnnotation(true),
			withContext, withRepository, withLimit, withStart,
		),
		mcp.NewTool("create_branch",
			mcp.WithDescription("Create a branch from a commit or branch target"),
			withContext, withRepository,
			mcp.WithString("name", mcp.Required(), mcp.Description("Name of the new branch")),
			mcp.WithString("target", mcp.Required(), mcp.Description("Commit hash or branch to start from")),
		),
		mcp.NewTool("list_commits",
			mcp.WithDescription("List the commits of a repository, optionally scoped to a branch"),
			mcp.WithReadOnlyHintAnnotation(true),
			withContext, withRepository, withLimit, withStart,
			mcp.WithString("branch", mcp.Description("Branch to list commits from")),
		),
		mcp.NewTool("list_pull_requests",
			mcp.WithDescription("List the pull requests of a repository, filtered by state"),
			mcp.WithReadOnlyHintAnnotation(true),
			withContext, withRepository, withLimit, withStart,
			mcp.WithString("state", mcp.Description("Pull request state: open, merged, declined; defaults to open")),
		),
		mcp.NewTool("get_pull_request",
			mcp.WithDescription("Get one pull request by its id"),
			mcp.WithReadOnlyHintAnnotation(true),
			withContext, withRepository,
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Pull request id")),
		),
		mcp.NewTool("create_pull_request",
			mcp.WithDescription("Open a pull request between two branches"),
			withContext, withRepository,
			mcp.WithString("title", mcp.Required(), mcp.Description("Pull request title")),
			mcp.WithString("source_branch", mcp.Required(), mcp.Description("Branch with the changes")),
			mcp.WithString("target_branch", mcp.Required(), mcp.Description("Branch to merge into")),
			mcp.WithString("description", mcp.Description("Pull request description")),
			mcp.WithBoolean("close_source_branch", mcp.Description("Close the source branch after merge (Cloud)")),
		),
		mcp.NewTool("merge_pull_request",
			mcp.WithDescription("Merge a pull request"),
			withContext, withRepository,
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Pull request id")),
			mcp.WithString("merge_strategy", mcp.Description("Merge strategy (Cloud): merge_commit, squash, fast_forward")),
			mcp.WithString("message", mcp.Description("Merge commit message (Cloud)")),
			mcp.WithNumber("version", mcp.Description("Pull request version for optimistic locking (Server/Data Center)")),
		),
		mcp.NewTool("get_diff",
			mcp.WithDescription("Get the diff between two refs as literal patch text"),
			mcp.WithReadOnlyHintAnnotation(true),
			withContext, withRepository,
			mcp.WithString("source", mcp.Required(), mcp.Description("Source ref")),
			mcp.WithString("destination", mcp.Required(), mcp.Description("Destination ref")),
		),
		mcp.NewTool("list_webhooks",
			mcp.WithDescription("List the webhooks of a repository"),
			mcp.WithReadOnlyHintAnnotation(true),
			withContext, withRepository,
		),
		mcp.NewTool("create_webhook",
			mcp.WithDescription("Register a webhook on a repository"),
			withContext, withRepository,
			mcp.WithString("url", mcp.Required(), mcp.Description("Callback URL")),
			mcp.WithString("name", mcp.Description("Label for the webhook")),
			mcp.WithBoolean("active", mcp.Description("Whether the webhook fires, defaults to true")),
			mcp.WithArray("events", mcp.Description("Event keys to subscribe to"),
				mcp.Items(map[string]any{"type": "string"})),
		),
		mcp.NewTool("delete_webhook",
			mcp.WithDescription("Delete a webhook by its id"),
			withContext, withRepository,
			mcp.WithString("id", mcp.Required(), mcp.Description("Webhook id")),
		),
		mcp.NewTool("repository_stats",
			mcp.WithDescription("Summarize a repository: metadata plus its latest commit"),
			mcp.WithReadOnlyHintAnnotation(true),
			withContext, withRepository,
		),
	}

	if platform.IsCloud() {
		tools = append(tools,
			mcp.NewTool("list_issues",
				mcp.WithDescription("List the issues of a repository"),
				mcp.WithReadOnlyHintAnnotation(true),
				withContext, withRepository, withLimit, withStart,
			),
			mcp.NewTool("create_issue",
				mcp.WithDescription("Create an issue"),
				withContext, withRepository,
				mcp.WithString("title", mcp.Required(), mcp.Description("Issue title")),
				mcp.WithString("content", mcp.Description("Issue body")),
				mcp.WithString("kind", mcp.Description("Issue kind: bug, enhancement, proposal, task")),
				mcp.WithString("priority", mcp.Description("Issue priority: trivial, minor, major, critical, blocker")),
			),
		)
	}

	return tools
}
