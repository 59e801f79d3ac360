package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/ai-assistant/internal/assistant"
	"github.com/ziadkadry99/ai-assistant/internal/backend"
	"github.com/ziadkadry99/ai-assistant/internal/source"
)

func (s *Server) handleSummarizeSource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modeStr, err := request.RequireString("mode")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: mode"), nil
	}
	mode, err := source.ParseMode(modeStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch mode {
	case source.ModeTranscript:
		path := request.GetString("file_path", "")
		if path == "" {
			return mcp.NewToolResultError("file_path is required for transcript mode"), nil
		}
		t, err := source.OpenTranscript(path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		s.ctrl.SetTranscript(t)
	case source.ModeYouTube:
		s.ctrl.SetYouTubeURL(request.GetString("url", ""))
	default:
		s.ctrl.SetURL(request.GetString("url", ""))
	}
	if err := s.ctrl.SetMode(mode); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.ctrl.Summarize(ctx); err != nil {
		if errors.Is(err, assistant.ErrNoSource) {
			return mcp.NewToolResultError(fmt.Sprintf("no %s given", sourceParam(mode))), nil
		}
		if detail := backend.DetailOf(err); detail != "" {
			return mcp.NewToolResultError(detail), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("summarize failed: %v", err)), nil
	}

	return mcp.NewToolResultText(s.ctrl.Snapshot().Summary), nil
}

func (s *Server) handleAskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	s.ctrl.OpenChat()
	err = s.ctrl.Ask(ctx, question)
	if errors.Is(err, assistant.ErrEmptyQuestion) || errors.Is(err, assistant.ErrBusy) {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Failures still leave an assistant message explaining what went wrong.
	msgs := s.ctrl.Snapshot().Messages
	if len(msgs) == 0 || msgs[len(msgs)-1].Role != assistant.RoleAssistant {
		return mcp.NewToolResultError("the source changed before an answer arrived"), nil
	}
	reply := msgs[len(msgs)-1].Content
	if err != nil {
		return mcp.NewToolResultError(reply), nil
	}
	return mcp.NewToolResultText(reply), nil
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(s.ctrl.Snapshot(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding state: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func sourceParam(m source.Mode) string {
	if m.UsesFile() {
		return "file_path"
	}
	return "url"
}
