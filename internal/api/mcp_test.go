package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mpetrov/screener/internal/conversation"
	"github.com/mpetrov/screener/internal/guard"
	"github.com/mpetrov/screener/internal/prompt"
	"github.com/mpetrov/screener/internal/session"
)

func makeCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func newTestMCPDeps() MCPDeps {
	return MCPDeps{
		Sessions:     session.NewManager(),
		Orchestrator: &mockOrchestrator{},
	}
}

func TestMCPStartScreening(t *testing.T) {
	deps := newTestMCPDeps()
	handler := mcpStartScreening(deps)

	result, err := handler(context.Background(), makeCallToolRequest("start_screening", nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}

	var resp map[string]string
	if err := json.Unmarshal([]byte(toolText(t, result)), &resp); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if resp["greeting"] != prompt.Greeting {
		t.Errorf("greeting = %q", resp["greeting"])
	}
	if _, ok := deps.Sessions.Get(resp["session_id"]); !ok {
		t.Errorf("session %q not registered", resp["session_id"])
	}
}

func TestMCPSendMessage(t *testing.T) {
	deps := newTestMCPDeps()
	s := deps.Sessions.Create()

	result, err := handlerCall(t, mcpSendMessage(deps), "send_message", map[string]any{
		"session_id": s.ID,
		"content":    "I'm Jane, my rate is $80",
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}
	if got := toolText(t, result); got != "Thanks for sharing." {
		t.Errorf("reply = %q", got)
	}
}

func TestMCPSendMessageMissingArgs(t *testing.T) {
	deps := newTestMCPDeps()

	result, err := handlerCall(t, mcpSendMessage(deps), "send_message", map[string]any{
		"content": "hi",
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for missing session_id")
	}
}

func TestMCPSendMessageUnknownSession(t *testing.T) {
	deps := newTestMCPDeps()

	result, err := handlerCall(t, mcpSendMessage(deps), "send_message", map[string]any{
		"session_id": "nope",
		"content":    "hi",
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for unknown session")
	}
	if got := toolText(t, result); got != "unknown session" {
		t.Errorf("message = %q", got)
	}
}

func TestMCPSendMessageRejection(t *testing.T) {
	deps := newTestMCPDeps()
	deps.Orchestrator = &mockOrchestrator{
		handleFn: func(ctx context.Context, s *session.Session, text string) (string, error) {
			return "", &guard.Rejection{Code: guard.CodeEmpty, Message: "Your message cannot be empty."}
		},
	}
	s := deps.Sessions.Create()

	result, err := handlerCall(t, mcpSendMessage(deps), "send_message", map[string]any{
		"session_id": s.ID,
		"content":    "",
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for rejected input")
	}
	if got := toolText(t, result); got != "Your message cannot be empty." {
		t.Errorf("message = %q", got)
	}
}

func TestMCPSendMessageUpstreamFailure(t *testing.T) {
	deps := newTestMCPDeps()
	deps.Orchestrator = &mockOrchestrator{
		handleFn: func(ctx context.Context, s *session.Session, text string) (string, error) {
			return "", fmt.Errorf("%w: unexpected status 401: Incorrect API key provided: sk-test-123", conversation.ErrCompletion)
		},
	}
	s := deps.Sessions.Create()

	result, err := handlerCall(t, mcpSendMessage(deps), "send_message", map[string]any{
		"session_id": s.ID,
		"content":    "hi",
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for provider failure")
	}
	got := toolText(t, result)
	if got != conversation.GenericFailureMessage {
		t.Errorf("message = %q, want generic failure message", got)
	}
	if strings.Contains(got, "sk-test-123") || strings.Contains(got, "401") {
		t.Error("provider detail leaked to the MCP client")
	}
}

func TestMCPScreeningStatus(t *testing.T) {
	deps := newTestMCPDeps()
	s := deps.Sessions.Create()
	s.ApplyFacts("I know python, my rate is $120")

	result, err := handlerCall(t, mcpScreeningStatus(deps), "screening_status", map[string]any{
		"session_id": s.ID,
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}

	var status sessionResponse
	if err := json.Unmarshal([]byte(toolText(t, result)), &status); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if !status.Candidate.SkillsDisclosed {
		t.Error("skills_disclosed = false")
	}
	if status.Candidate.Band != "negotiable" {
		t.Errorf("band = %q", status.Candidate.Band)
	}
}

func TestMCPResetScreening(t *testing.T) {
	deps := newTestMCPDeps()
	s := deps.Sessions.Create()
	s.ApplyFacts("python $80")
	s.AppendExchange("python $80", "ok")

	result, err := handlerCall(t, mcpResetScreening(deps), "reset_screening", map[string]any{
		"session_id": s.ID,
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}
	if got := toolText(t, result); got != prompt.Greeting {
		t.Errorf("reply = %q", got)
	}

	c := s.Candidate()
	if c.SkillsDisclosed || c.QuotedRate != nil {
		t.Errorf("candidate after reset = %+v", c)
	}
	if s.Len() != 1 {
		t.Errorf("turns after reset = %d, want 1", s.Len())
	}
}

func handlerCall(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]any) (*mcp.CallToolResult, error) {
	t.Helper()
	return h(context.Background(), makeCallToolRequest(name, args))
}
