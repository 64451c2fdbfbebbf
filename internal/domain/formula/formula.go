// Package formula contains the composition engine's core aggregate and the
// deterministic guardrails applied to AI-proposed formulas: capsule budget
// policy, multi-error validation, and budget-aware expansion.
package formula

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/myones/formulary/internal/domain/shared"
)

// Role marks how a line is presented in the finished product. Bases are
// typically fixed bundles and additions adjustable ingredients, but the
// distinction is presentational, not enforced.
type Role string

const (
	RoleBase     Role = "base"
	RoleAddition Role = "addition"
)

// Line is one ingredient as it appears in a candidate or accepted formula.
type Line struct {
	// IngredientName is as supplied by the caller before normalization and
	// canonical afterwards.
	IngredientName string
	// AmountMg is the requested dose for this line.
	AmountMg float64
	Role     Role
}

// Formula is the mutable unit the engine operates on. It is constructed
// fresh per conversation turn and discarded after acceptance or rejection;
// persistence of the accepted result belongs to an external collaborator.
type Formula struct {
	Bases     []Line
	Additions []Line
	// TotalMg is derived from the lines. It is recomputed by every engine
	// operation and never trusted from input.
	TotalMg float64
	// TargetCapsules is the user's chosen capsule count; zero means unset
	// and the default applies during budget computation.
	TargetCapsules int

	events []shared.DomainEvent
}

// MarkAccepted records the acceptance verdict as a domain event.
func (f *Formula) MarkAccepted(userID uuid.UUID) {
	f.addEvent(FormulaAcceptedEvent{
		UserID:          userID,
		TotalMg:         f.TotalMg,
		IngredientCount: f.IngredientCount(),
		TargetCapsules:  f.TargetCapsules,
		AcceptedAt:      time.Now(),
	})
}

// MarkRejected records the rejection verdict and its violations as a
// domain event.
func (f *Formula) MarkRejected(userID uuid.UUID, errs []string) {
	f.addEvent(FormulaRejectedEvent{
		UserID:     userID,
		Errors:     errs,
		RejectedAt: time.Now(),
	})
}

// addEvent adds a domain event to be dispatched
func (f *Formula) addEvent(event shared.DomainEvent) {
	f.events = append(f.events, event)
}

// Events returns and clears pending domain events
func (f *Formula) Events() []shared.DomainEvent {
	events := f.events
	f.events = []shared.DomainEvent{}
	return events
}

// Lines returns bases followed by additions.
func (f *Formula) Lines() []Line {
	out := make([]Line, 0, len(f.Bases)+len(f.Additions))
	out = append(out, f.Bases...)
	out = append(out, f.Additions...)
	return out
}

// IngredientCount returns the total number of lines.
func (f *Formula) IngredientCount() int {
	return len(f.Bases) + len(f.Additions)
}

// Contains reports whether the formula already carries an ingredient,
// matched case-insensitively.
func (f *Formula) Contains(name string) bool {
	for _, l := range f.Lines() {
		if strings.EqualFold(l.IngredientName, name) {
			return true
		}
	}
	return false
}

// RecomputeTotal derives TotalMg from the current lines and returns it.
// Totals are always re-derived from the line list, never accumulated
// incrementally, so a directly mutated line can not leave a stale sum
// behind.
func (f *Formula) RecomputeTotal() float64 {
	var total float64
	for _, l := range f.Lines() {
		total += l.AmountMg
	}
	f.TotalMg = total
	return total
}

// ValidationResult aggregates every violated invariant of one validation
// pass. It is never partial: all checks run and all violations are
// reported together.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ExpansionResult reports what the expander did. It is produced even when
// no expansion was needed.
type ExpansionResult struct {
	Expanded         bool
	AddedIngredients []string
}
