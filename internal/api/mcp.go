package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mpetrov/screener/internal/conversation"
	"github.com/mpetrov/screener/internal/guard"
	"github.com/mpetrov/screener/internal/prompt"
	"github.com/mpetrov/screener/internal/session"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Sessions     *session.Manager
	Orchestrator Orchestrator
}

// NewMCPServer creates an MCP server exposing the screening conversation as
// agent tools.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"screener",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("screener runs a scripted recruitment screening conversation for a Python developer position in NYC."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("start_screening",
			mcp.WithDescription("Start a new screening session. Returns the session ID and the recruiter's opening greeting."),
		),
		mcpStartScreening(deps),
	)

	s.AddTool(
		mcp.NewTool("send_message",
			mcp.WithDescription("Send one candidate message to a screening session and get the recruiter's reply."),
			mcp.WithString("session_id", mcp.Description("Session ID from start_screening"), mcp.Required()),
			mcp.WithString("content", mcp.Description("The candidate's message"), mcp.Required()),
		),
		mcpSendMessage(deps),
	)

	s.AddTool(
		mcp.NewTool("screening_status",
			mcp.WithDescription("Return what the candidate has disclosed so far in a session."),
			mcp.WithString("session_id", mcp.Description("Session ID"), mcp.Required()),
		),
		mcpScreeningStatus(deps),
	)

	s.AddTool(
		mcp.NewTool("reset_screening",
			mcp.WithDescription("Reset a screening session, clearing all disclosed facts and the conversation log."),
			mcp.WithString("session_id", mcp.Description("Session ID"), mcp.Required()),
		),
		mcpResetScreening(deps),
	)

	return s
}

func mcpStartScreening(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s := deps.Sessions.Create()
		b, err := json.Marshal(map[string]string{
			"session_id": s.ID,
			"greeting":   prompt.Greeting,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal session: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpSendMessage(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("session_id")
		if err != nil {
			return mcpError("session_id is required"), nil
		}
		content, err := req.RequireString("content")
		if err != nil {
			return mcpError("content is required"), nil
		}

		s, ok := deps.Sessions.Get(id)
		if !ok {
			return mcpError("unknown session"), nil
		}

		reply, err := deps.Orchestrator.Handle(ctx, s, content)
		if err != nil {
			var rej *guard.Rejection
			if errors.As(err, &rej) {
				return mcpError(rej.Message), nil
			}
			// Provider failures surface only the generic message; the
			// detail is already logged by the orchestrator.
			return mcpError(conversation.GenericFailureMessage), nil
		}
		return mcpText(reply), nil
	}
}

func mcpScreeningStatus(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("session_id")
		if err != nil {
			return mcpError("session_id is required"), nil
		}
		s, ok := deps.Sessions.Get(id)
		if !ok {
			return mcpError("unknown session"), nil
		}

		b, err := json.Marshal(sessionToResponse(s, false))
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal status: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResetScreening(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("session_id")
		if err != nil {
			return mcpError("session_id is required"), nil
		}
		s, ok := deps.Sessions.Get(id)
		if !ok {
			return mcpError("unknown session"), nil
		}

		s.Reset()
		return mcpText(prompt.Greeting), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
