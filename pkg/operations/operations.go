// Package operations maps logical Bitbucket operations onto the concrete REST
// calls of the Cloud and Server/Data Center dialects.
//
// The heart of the package is a dispatch table keyed by operation name. Each
// [Operation] carries one mapping function per platform; the translator picks
// the right one, resolves the workspace/project context, validates arguments,
// and only then lets the mapping issue HTTP calls. All validation failures
// happen before any network I/O.
package operations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sgaunet/bullets"

	"github.com/scm-tools/bitbucket-mcp/pkg/bitbucket"
	"github.com/scm-tools/bitbucket-mcp/pkg/config"
)

// mappingFunc translates one invocation into platform-specific HTTP calls and
// normalizes the response. A nil mapping means the platform cannot serve the
// operation.
type mappingFunc func(ctx context.Context, inv *Invocation) (*Result, error)

// Operation is one row of the dispatch table.
type Operation struct {
	Name        string
	Description string
	// Required lists argument names validated before any HTTP call.
	// The context key (workspace/project) is handled separately.
	Required []string
	// Mutating marks create/update/delete-shaped operations; callers must
	// not silently retry those.
	Mutating bool
	Cloud    mappingFunc
	Server   mappingFunc
}

// Invocation carries the per-call state handed to mapping functions.
// It is stack-scoped; nothing survives the call.
type Invocation struct {
	ID      string // correlation id for log lines
	Args    *Args
	Context string // resolved workspace or project key
	Client  *bitbucket.Client
	Log     *bullets.Logger
}

// Translator resolves logical operations against one configured platform.
// Safe for concurrent use: the table, config, and client are read-only.
type Translator struct {
	client *bitbucket.Client
	cfg    *config.PlatformConfig
	log    *bullets.Logger
	table  map[string]Operation
}

// NewTranslator builds the dispatch table for the configured platform.
func NewTranslator(client *bitbucket.Client, cfg *config.PlatformConfig, log *bullets.Logger) *Translator {
	table := make(map[string]Operation)
	for _, group := range [][]Operation{
		repositoryOperations(),
		branchOperations(),
		commitOperations(),
		pullRequestOperations(),
		diffOperations(),
		issueOperations(),
		webhookOperations(),
		statsOperations(),
	} {
		for _, op := range group {
			table[op.Name] = op
		}
	}

	return &Translator{
		client: client,
		cfg:    cfg,
		log:    log,
		table:  table,
	}
}

// Operations returns the full catalog, for schema generation and tests.
func (t *Translator) Operations() []Operation {
	ops := make([]Operation, 0, len(t.table))
	for _, op := range t.table {
		ops = append(ops, op)
	}
	return ops
}

// Execute runs one logical operation. Unknown names, unresolvable context,
// and missing required fields fail here, before any request leaves the
// process; upstream failures arrive already classified by the client.
func (t *Translator) Execute(ctx context.Context, name string, rawArgs map[string]any) (*Result, error) {
	op, ok := t.table[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}

	mapping := op.Server
	if t.cfg.Platform.IsCloud() {
		mapping = op.Cloud
	}
	if mapping == nil {
		return nil, fmt.Errorf("%w: %q is not available on %s", ErrUnsupportedOnPlatform, name, t.cfg.Platform)
	}

	args := NewArgs(rawArgs)

	contextKey := t.cfg.Platform.ContextKey()
	resolvedContext := args.String(contextKey)
	if resolvedContext == "" {
		resolvedContext = t.cfg.DefaultContext
	}
	if resolvedContext == "" {
		return nil, &ArgumentError{Operation: name, ContextKey: contextKey}
	}

	if missing := args.MissingFields(op.Required); len(missing) > 0 {
		return nil, &ArgumentError{Operation: name, Missing: missing}
	}

	inv := &Invocation{
		ID:      uuid.NewString(),
		Args:    args,
		Context: resolvedContext,
		Client:  t.client,
		Log:     t.log,
	}
	t.log.Debug(fmt.Sprintf("[%s] executing %s for %s=%s", inv.ID, name, contextKey, resolvedContext))

	return mapping(ctx, inv)
}
