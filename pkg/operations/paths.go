package operations

import "github.com/scm-tools/bitbucket-mcp/internal/urlutil"

// cloudRepoPath builds /repositories/{workspace}/{repository}/... with every
// segment escaped.
func cloudRepoPath(inv *Invocation, segments ...string) string {
	base := urlutil.Join("", "repositories", inv.Context, inv.Args.String("repository"))
	return urlutil.Join(base, segments...)
}

// serverRepoPath builds /projects/{project}/repos/{repository}/... with every
// segment escaped.
func serverRepoPath(inv *Invocation, segments ...string) string {
	base := urlutil.Join("", "projects", inv.Context, "repos", inv.Args.String("repository"))
	return urlutil.Join(base, segments...)
}

// serverProjectPath builds /projects/{project}/... for operations that do not
// address a single repository.
func serverProjectPath(inv *Invocation, segments ...string) string {
	base := urlutil.Join("", "projects", inv.Context)
	return urlutil.Join(base, segments...)
}

// cloudWorkspacePath builds /repositories/{workspace}/... for operations that
// do not address a single repository.
func cloudWorkspacePath(inv *Invocation, segments ...string) string {
	base := urlutil.Join("", "repositories", inv.Context)
	return urlutil.Join(base, segments...)
}
