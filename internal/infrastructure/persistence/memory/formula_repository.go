// Package memory provides an in-memory FormulaRepository for tests and
// development runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/myones/formulary/internal/ports/outbound"
)

// FormulaRepository keeps formula versions per user in process memory.
// Writes are serialized by a mutex; the newest version wins, matching the
// engine's last-write-wins contract.
type FormulaRepository struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID][]*outbound.FormulaRecord
}

// NewFormulaRepository creates an empty repository.
func NewFormulaRepository() *FormulaRepository {
	return &FormulaRepository{byUser: make(map[uuid.UUID][]*outbound.FormulaRecord)}
}

// SaveVersion stores record as the user's next version.
func (r *FormulaRepository) SaveVersion(_ context.Context, record *outbound.FormulaRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.Version = len(r.byUser[record.UserID]) + 1
	record.CreatedAt = time.Now()
	r.byUser[record.UserID] = append(r.byUser[record.UserID], record)
	return nil
}

// Current returns the user's latest version.
func (r *FormulaRepository) Current(_ context.Context, userID uuid.UUID) (*outbound.FormulaRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions := r.byUser[userID]
	if len(versions) == 0 {
		return nil, outbound.ErrNotFound
	}
	return versions[len(versions)-1], nil
}

// History returns all versions for a user, newest first.
func (r *FormulaRepository) History(_ context.Context, userID uuid.UUID) ([]*outbound.FormulaRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions := r.byUser[userID]
	out := make([]*outbound.FormulaRecord, 0, len(versions))
	for i := len(versions) - 1; i >= 0; i-- {
		out = append(out, versions[i])
	}
	return out, nil
}
