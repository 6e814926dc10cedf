// Package conversation sequences one screening turn: guard, moderation,
// fact extraction, instruction synthesis, the completion call, and the log
// append.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mpetrov/screener/internal/guard"
	"github.com/mpetrov/screener/internal/llm"
	"github.com/mpetrov/screener/internal/prompt"
	"github.com/mpetrov/screener/internal/session"
	"github.com/mpetrov/screener/internal/storage"
)

// GenericFailureMessage is the user-facing reply for any completion provider
// failure. The detailed cause is logged for operators, never shown to the
// candidate.
const GenericFailureMessage = "Sorry, I encountered an error while processing your message. Please try again."

// ErrCompletion marks a completion provider failure. Callers match it with
// errors.Is and surface GenericFailureMessage.
var ErrCompletion = errors.New("completion provider failure")

// Completer is the external completion collaborator.
type Completer interface {
	Complete(ctx context.Context, req llm.ChatRequest) (string, error)
}

// AuditLog records turn outcomes for operators. Writes are best-effort and
// never fail a turn.
type AuditLog interface {
	SaveTurn(r storage.TurnRecord) error
}

// Params are the fixed generation and context-window settings. Temperature
// nil means the default 0.7; a non-nil zero is honored, so deterministic
// sampling stays configurable.
type Params struct {
	Model         string
	MaxTokens     int
	Temperature   *float64
	HistoryWindow int
}

func (p *Params) applyDefaults() {
	if p.Model == "" {
		p.Model = "gpt-4-turbo-preview"
	}
	if p.MaxTokens <= 0 {
		p.MaxTokens = 250
	}
	if p.Temperature == nil {
		v := 0.7
		p.Temperature = &v
	}
	if p.HistoryWindow <= 0 {
		p.HistoryWindow = 6
	}
}

// Orchestrator drives screening turns. One orchestrator serves all
// sessions; all per-conversation state lives in the Session.
type Orchestrator struct {
	guard     *guard.Guard
	completer Completer
	audit     AuditLog // optional
	params    Params
}

// New creates an Orchestrator. audit may be nil to disable the audit trail.
func New(g *guard.Guard, completer Completer, audit AuditLog, params Params) *Orchestrator {
	params.applyDefaults()
	return &Orchestrator{
		guard:     g,
		completer: completer,
		audit:     audit,
		params:    params,
	}
}

// Handle processes one candidate turn against the session. It returns the
// assistant reply, a *guard.Rejection for invalid input, or an error
// matching ErrCompletion when the provider fails. Rejected and failed turns
// leave the turn log untouched, so a retry re-attempts with the same
// context.
func (o *Orchestrator) Handle(ctx context.Context, s *session.Session, text string) (string, error) {
	s.BeginTurn()
	defer s.EndTurn()

	if err := o.guard.Validate(text); err != nil {
		// The audit detail names the matched pattern; the candidate only
		// ever sees the rejection's own message.
		detail := err.Error()
		if desc, flagged := o.guard.Moderate(text); flagged {
			detail = desc
		}
		o.record(s.ID, text, "", "", storage.StatusRejected, detail)
		return "", err
	}

	s.ApplyFacts(text)
	instruction := prompt.Render(s.Candidate())

	// Prior turns only; the new user turn goes last.
	history := s.History(o.params.HistoryWindow)
	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: "system", Content: instruction})
	for _, t := range history {
		msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Content})
	}
	msgs = append(msgs, llm.Message{Role: session.RoleUser, Content: text})

	reply, err := o.completer.Complete(ctx, llm.ChatRequest{
		Model:       o.params.Model,
		Messages:    msgs,
		MaxTokens:   o.params.MaxTokens,
		Temperature: o.params.Temperature,
	})
	if err != nil {
		slog.Error("completion call failed", "session", s.ID, "error", err)
		o.record(s.ID, text, instruction, "", storage.StatusFailed, err.Error())
		return "", fmt.Errorf("%w: %v", ErrCompletion, err)
	}

	s.AppendExchange(text, reply)
	o.record(s.ID, text, instruction, reply, storage.StatusCompleted, "")
	return reply, nil
}

func (o *Orchestrator) record(sessionID, userText, instruction, reply, status, detail string) {
	if o.audit == nil {
		return
	}
	err := o.audit.SaveTurn(storage.TurnRecord{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		CreatedAt:   time.Now().UTC(),
		UserText:    userText,
		Instruction: instruction,
		Reply:       reply,
		Status:      status,
		Detail:      detail,
	})
	if err != nil {
		slog.Warn("audit write failed", "session", sessionID, "error", err)
	}
}
