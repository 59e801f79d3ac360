// Package mcp exposes one assistant session as Model Context Protocol tools
// over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/ai-assistant/internal/assistant"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server bound to a single controller. The process is
// the page view: one session identifier for its whole lifetime.
type Server struct {
	ctrl *assistant.Controller
	mcp  *server.MCPServer
}

// NewServer creates a new MCP server driving ctrl.
func NewServer(ctrl *assistant.Controller) *Server {
	s := &Server{ctrl: ctrl}

	s.mcp = server.NewMCPServer(
		"aiassist",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(summarizeSourceTool, s.handleSummarizeSource)
	s.mcp.AddTool(askQuestionTool, s.handleAskQuestion)
	s.mcp.AddTool(getStateTool, s.handleGetState)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
