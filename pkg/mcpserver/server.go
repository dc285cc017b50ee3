// Package mcpserver exposes the operation translator as MCP tools over stdio
// JSON-RPC. It owns the boundary mapping: validation failures become tool
// errors the caller can correct, classified API failures become self-
// contained error reports, and unknown tools surface as method-not-found.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sgaunet/bullets"

	"github.com/scm-tools/bitbucket-mcp/pkg/bitbucket"
	"github.com/scm-tools/bitbucket-mcp/pkg/config"
	"github.com/scm-tools/bitbucket-mcp/pkg/operations"
)

const serverName = "bitbucket-mcp"

// Version is stamped by the build; the default marks development builds.
var Version = "dev"

// Server binds the translator to the MCP transport.
type Server struct {
	translator *operations.Translator
	cfg        *config.PlatformConfig
	log        *bullets.Logger
}

// NewServer wires a translator for the resolved configuration.
func NewServer(cfg *config.PlatformConfig, logger *bullets.Logger) *Server {
	client := bitbucket.NewClient(cfg, logger)
	return &Server{
		translator: operations.NewTranslator(client, cfg, logger),
		cfg:        cfg,
		log:        logger,
	}
}

// Run starts the MCP stdio server. It blocks until the context is cancelled
// or stdin is closed.
func (s *Server) Run(ctx context.Context) error {
	mcpServer := server.NewMCPServer(
		serverName,
		Version,
		server.WithToolCapabilities(true),
	)

	var tools []server.ServerTool
	for _, def := range toolDefinitions(s.cfg.Platform) {
		tools = append(tools, server.ServerTool{
			Tool:    def,
			Handler: s.handle(def.Name),
		})
	}
	mcpServer.AddTools(tools...)

	s.log.Info(fmt.Sprintf("serving %d tools for %s", len(tools), s.cfg.Platform))

	stdio := server.NewStdioServer(mcpServer)
	stdio.SetErrorLogger(log.New(os.Stderr, "[mcp] ", log.LstdFlags))

	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// handle adapts one operation to the MCP tool handler signature.
func (s *Server) handle(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := s.translator.Execute(ctx, name, req.GetArguments())
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Text), nil
	}
}

// toolError renders failures. Caller-correctable validation problems and
// classified API failures become in-band tool errors with their full detail;
// anything else propagates as a protocol error.
func toolError(err error) (*mcp.CallToolResult, error) {
	var argErr *operations.ArgumentError
	if errors.As(err, &argErr) {
		return mcp.NewToolResultError(argErr.Error()), nil
	}

	var apiErr *bitbucket.APIError
	if errors.As(err, &apiErr) {
		return mcp.NewToolResultError(apiErr.Error()), nil
	}

	if errors.Is(err, operations.ErrUnsupportedOnPlatform) {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Unknown operations and internal failures are protocol-level errors.
	return nil, err
}
