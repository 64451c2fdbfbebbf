package formula

import (
	"time"

	"github.com/google/uuid"
)

// Domain events raised when the engine reaches a verdict on a formula.

// FormulaAcceptedEvent is raised when a candidate formula passes
// validation and is handed to persistence.
type FormulaAcceptedEvent struct {
	UserID          uuid.UUID
	TotalMg         float64
	IngredientCount int
	TargetCapsules  int
	AcceptedAt      time.Time
}

func (e FormulaAcceptedEvent) EventName() string {
	return "formula.accepted"
}

func (e FormulaAcceptedEvent) OccurredAt() time.Time {
	return e.AcceptedAt
}

// FormulaRejectedEvent is raised when validation fails. It carries the
// full list of violations from the pass.
type FormulaRejectedEvent struct {
	UserID     uuid.UUID
	Errors     []string
	RejectedAt time.Time
}

func (e FormulaRejectedEvent) EventName() string {
	return "formula.rejected"
}

func (e FormulaRejectedEvent) OccurredAt() time.Time {
	return e.RejectedAt
}
