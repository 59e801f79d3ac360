package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/ai-assistant/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing summarize and chat tools for AI agents. One process is one session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		ctrl := newController(cfg, logger, store, cfg.DefaultMode())

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "aiassist MCP server started on stdio (backend=%s, session=%s)\n", cfg.Backend.BaseURL, ctrl.SessionID())

		return mcpserver.NewServer(ctrl).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
