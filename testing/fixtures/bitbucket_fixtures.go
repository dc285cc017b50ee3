// Package fixtures provides canned upstream payloads for tests.
package fixtures

// CloudRepository is a trimmed Cloud v2.0 repository payload.
const CloudRepository = `{
  "slug": "widget",
  "name": "widget",
  "full_name": "acme/widget",
  "is_private": true,
  "scm": "git",
  "mainbranch": {"name": "main", "type": "branch"}
}`

// ServerRepository is a trimmed Server 1.0 repository payload.
const ServerRepository = `{
  "slug": "widget",
  "name": "widget",
  "scmId": "git",
  "public": false,
  "project": {"key": "ACME", "name": "Acme"}
}`

// CloudCommitsPage is a one-item Cloud commits page, as requested by the
// repository_stats fan-out.
const CloudCommitsPage = `{
  "pagelen": 1,
  "values": [
    {
      "hash": "3a1b5c9d2e4f",
      "message": "fix: align widget flanges",
      "author": {"raw": "Alice <alice@example.com>"}
    }
  ]
}`

// CloudEmptyCommitsPage is a Cloud commits page for a repository with no
// commits.
const CloudEmptyCommitsPage = `{
  "pagelen": 1,
  "values": []
}`

// CloudPullRequest is a trimmed Cloud pull request payload.
const CloudPullRequest = `{
  "id": 42,
  "title": "Add flange alignment",
  "state": "OPEN",
  "source": {"branch": {"name": "feature/flange"}},
  "destination": {"branch": {"name": "main"}}
}`

// ServerPullRequest is a trimmed Server pull request payload.
const ServerPullRequest = `{
  "id": 42,
  "version": 3,
  "title": "Add flange alignment",
  "state": "OPEN",
  "fromRef": {"id": "refs/heads/feature/flange"},
  "toRef": {"id": "refs/heads/main"}
}`

// DiffText carries trailing whitespace and mixed line endings on purpose:
// diff output must survive byte for byte.
const DiffText = "diff --git a/flange.go b/flange.go\n" +
	"--- a/flange.go\t\n" +
	"+++ b/flange.go\n" +
	"@@ -1,2 +1,2 @@\n" +
	"-old line  \n" +
	"+new line\r\n" +
	" context\n"

// ServerErrorBody is a typical Server REST error envelope.
const ServerErrorBody = `{
  "errors": [{"message": "Repository not found", "exceptionName": "NoSuchRepositoryException"}]
}`
