// Package api exposes the screening conversation to UI collaborators over
// HTTP, and to agent tooling over MCP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mpetrov/screener/internal/conversation"
	"github.com/mpetrov/screener/internal/guard"
	"github.com/mpetrov/screener/internal/prompt"
	"github.com/mpetrov/screener/internal/rate"
	"github.com/mpetrov/screener/internal/session"
	"github.com/mpetrov/screener/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Orchestrator handles one screening turn against a session.
type Orchestrator interface {
	Handle(ctx context.Context, s *session.Session, text string) (string, error)
}

// Deps holds the HTTP layer's collaborators. Store and Token are optional;
// the transcripts endpoints are mounted only when both are present.
type Deps struct {
	Sessions     *session.Manager
	Orchestrator Orchestrator
	Store        *storage.Store
	Token        string
}

// NewHandler returns the HTTP handler for the screening API.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Post("/v1/sessions", handleCreateSession(deps))
	r.Get("/v1/sessions/{id}", handleGetSession(deps))
	r.Post("/v1/sessions/{id}/messages", handleMessage(deps))
	r.Post("/v1/sessions/{id}/reset", handleReset(deps))

	if deps.Store != nil && deps.Token != "" {
		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(deps.Token))
			r.Get("/v1/transcripts", handleRecentTranscripts(deps))
			r.Get("/v1/transcripts/{sessionID}", handleSessionTranscript(deps))
		})
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// sessionResponse is the wire form of a session's public state.
type sessionResponse struct {
	ID       string `json:"id"`
	Greeting string `json:"greeting,omitempty"`
	Turns    int    `json:"turns"`

	Candidate candidateResponse `json:"candidate"`
}

type candidateResponse struct {
	NameDisclosed       bool      `json:"name_disclosed"`
	SkillsDisclosed     bool      `json:"skills_disclosed"`
	ExperienceDisclosed bool      `json:"experience_disclosed"`
	QuotedRate          *float64  `json:"quoted_rate"`
	Band                rate.Band `json:"band,omitempty"`
}

func sessionToResponse(s *session.Session, includeGreeting bool) sessionResponse {
	c := s.Candidate()
	resp := sessionResponse{
		ID:    s.ID,
		Turns: s.Len(),
		Candidate: candidateResponse{
			NameDisclosed:       c.NameDisclosed,
			SkillsDisclosed:     c.SkillsDisclosed,
			ExperienceDisclosed: c.ExperienceDisclosed,
			QuotedRate:          c.QuotedRate,
		},
	}
	if c.QuotedRate != nil {
		resp.Candidate.Band = rate.Classify(*c.QuotedRate)
	}
	if includeGreeting {
		resp.Greeting = prompt.Greeting
	}
	return resp
}

func handleCreateSession(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := deps.Sessions.Create()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(sessionToResponse(s, true))
	}
}

func handleGetSession(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := deps.Sessions.Get(chi.URLParam(r, "id"))
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "unknown session")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessionToResponse(s, false))
	}
}

type messageRequest struct {
	Content string `json:"content"`
}

func handleMessage(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := deps.Sessions.Get(chi.URLParam(r, "id"))
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "unknown session")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		reply, err := deps.Orchestrator.Handle(r.Context(), s, req.Content)
		if err != nil {
			writeTurnError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"reply": reply})
	}
}

// writeTurnError maps orchestrator failures to wire errors: input
// rejections surface their own message, everything else collapses to the
// generic failure message (the detail is already logged).
func writeTurnError(w http.ResponseWriter, err error) {
	var rej *guard.Rejection
	if errors.As(err, &rej) {
		httpError(w, http.StatusBadRequest, rej.Code, "%s", rej.Message)
		return
	}
	httpError(w, http.StatusBadGateway, "upstream_error", "%s", conversation.GenericFailureMessage)
}

func handleReset(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := deps.Sessions.Get(chi.URLParam(r, "id"))
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "unknown session")
			return
		}
		s.Reset()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessionToResponse(s, true))
	}
}

type transcriptTurn struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	CreatedAt string `json:"created_at"`
	UserText  string `json:"user_text"`
	Reply     string `json:"reply"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
}

func toTranscript(records []storage.TurnRecord) []transcriptTurn {
	out := make([]transcriptTurn, len(records))
	for i, r := range records {
		out[i] = transcriptTurn{
			ID:        r.ID,
			SessionID: r.SessionID,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
			UserText:  r.UserText,
			Reply:     r.Reply,
			Status:    r.Status,
			Detail:    r.Detail,
		}
	}
	return out
}

func handleRecentTranscripts(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := deps.Store.RecentTurns(20)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "storage_error", "listing transcripts: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(toTranscript(records))
	}
}

func handleSessionTranscript(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := deps.Store.SessionTurns(chi.URLParam(r, "sessionID"), 0)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "no transcript for session")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "storage_error", "listing transcript: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(toTranscript(records))
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
