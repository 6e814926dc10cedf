// Package session owns the per-conversation state: the candidate record and
// the append-only turn log. Nothing here survives the process; sessions are
// never persisted or restored.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mpetrov/screener/internal/extract"
	"github.com/mpetrov/screener/internal/profile"
	"github.com/mpetrov/screener/internal/prompt"
)

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one role-tagged message in conversation order.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session holds one screening conversation. Turn handling within a session
// is strictly sequential: callers wrap each turn in BeginTurn/EndTurn, and
// Reset takes the same lock so a reset can never interleave with an
// in-flight turn.
type Session struct {
	ID string

	turnMu sync.Mutex // serializes whole turns and resets
	mu     sync.Mutex // guards candidate and turns
	cand   profile.Candidate
	turns  []Turn
}

// New creates a session with the opening greeting already on the log.
func New() *Session {
	s := &Session{ID: uuid.New().String()}
	s.turns = []Turn{{Role: RoleAssistant, Content: prompt.Greeting}}
	return s
}

// BeginTurn blocks until no other turn or reset is in flight.
func (s *Session) BeginTurn() { s.turnMu.Lock() }

// EndTurn releases the turn lock taken by BeginTurn.
func (s *Session) EndTurn() { s.turnMu.Unlock() }

// Candidate returns a snapshot of the disclosed facts.
func (s *Session) Candidate() profile.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cand.Snapshot()
}

// ApplyFacts runs the fact extractor against text and folds the results
// into the candidate record.
func (s *Session) ApplyFacts(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	extract.Apply(&s.cand, text)
}

// History returns a copy of the last n turns, oldest first. n <= 0 returns
// the whole log.
func (s *Session) History(n int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := 0
	if n > 0 && len(s.turns) > n {
		start = len(s.turns) - n
	}
	out := make([]Turn, len(s.turns)-start)
	copy(out, s.turns[start:])
	return out
}

// Len returns the number of turns on the log.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// AppendExchange appends a completed user/assistant exchange. Failed turns
// never reach this, so the log only ever carries successful context.
func (s *Session) AppendExchange(userText, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns,
		Turn{Role: RoleUser, Content: userText},
		Turn{Role: RoleAssistant, Content: reply},
	)
}

// Reset atomically replaces the candidate record and the turn log with
// fresh values, re-seeding the greeting.
func (s *Session) Reset() {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cand.Reset()
	s.turns = []Turn{{Role: RoleAssistant, Content: prompt.Greeting}}
}

// Manager tracks live sessions by ID. Each session is exclusively owned by
// whoever created it; the manager only provides lookup.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create registers and returns a new session.
func (m *Manager) Create() *Session {
	s := New()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
