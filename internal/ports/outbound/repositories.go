// Package outbound defines the interfaces for outbound ports (secondary/
// driven adapters): the external systems the engine hands results to or
// pulls conversation text from.
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/myones/formulary/internal/domain/formula"
)

// ErrNotFound is returned by repositories when a user has no stored
// formula.
var ErrNotFound = errors.New("formula not found")

// FormulaRecord is the persisted shape of an accepted formula. Records are
// append-only versions per user; concurrent turns resolve by last write
// wins, which is the persistence layer's concern, not the engine's.
type FormulaRecord struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Version        int
	Bases          []formula.Line
	Additions      []formula.Line
	TotalMg        float64
	TargetCapsules int
	Notes          string
	CreatedAt      time.Time
}

// FormulaRepository persists accepted formulas as new versions.
type FormulaRepository interface {
	// SaveVersion stores record as the user's next formula version and
	// fills in Version and CreatedAt.
	SaveVersion(ctx context.Context, record *FormulaRecord) error
	// Current returns the user's latest formula version.
	Current(ctx context.Context, userID uuid.UUID) (*FormulaRecord, error)
	// History returns all versions for a user, newest first.
	History(ctx context.Context, userID uuid.UUID) ([]*FormulaRecord, error)
}

// ChatMessage is one turn of a consultation conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// AIService produces consultation responses. The engine treats the
// returned text as untrusted input; everything it proposes passes through
// extraction and validation before any component relies on it.
type AIService interface {
	// Converse sends the conversation so far and returns the assistant's
	// full response text.
	Converse(ctx context.Context, messages []ChatMessage) (string, error)
	// HealthCheck verifies the provider is reachable.
	HealthCheck(ctx context.Context) error
}
