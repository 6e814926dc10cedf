package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Audit statuses for a screening turn.
const (
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
	StatusFailed    = "failed"
)

// TurnRecord is the audit trail for one screening turn: what the candidate
// sent, the instruction the provider was steered with, and the outcome.
// Records are write-mostly operator output; sessions are never rebuilt from
// them.
type TurnRecord struct {
	ID          string
	SessionID   string
	CreatedAt   time.Time
	UserText    string
	Instruction string
	Reply       string
	Status      string
	Detail      string
}
