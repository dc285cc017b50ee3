// Package main provides the entry point for the bitbucket-mcp server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scm-tools/bitbucket-mcp/internal/logger"
	"github.com/scm-tools/bitbucket-mcp/pkg/config"
	"github.com/scm-tools/bitbucket-mcp/pkg/mcpserver"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "bitbucket-mcp",
	Short: "MCP server for Bitbucket Cloud and Server/Data Center",
	Long: `bitbucket-mcp exposes a uniform set of Bitbucket operations (repositories,
branches, commits, pull requests, issues, webhooks) as MCP tools over stdio,
translating each one to the REST dialect of the configured platform.

Configuration comes from BITBUCKET_* environment variables, optionally
backed by ~/.config/bitbucket-mcp/config.yml and a local .env file.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServer(cmd)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info",
		"Set log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command) error {
	// A missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	log := logger.NewLogger(logLevel)

	cfg, err := config.Load(log)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log.Info(fmt.Sprintf("configured for Bitbucket %s", cfg.Platform))

	return mcpserver.NewServer(cfg, log).Run(cmd.Context())
}
