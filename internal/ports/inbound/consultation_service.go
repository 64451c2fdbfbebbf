// Package inbound defines the interfaces for inbound ports (primary/
// driving adapters): the operations the chat-handling collaborator and the
// HTTP layer invoke on the engine.
package inbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/myones/formulary/internal/domain/formula"
)

// TurnStatus is the terminal state of one extraction attempt.
type TurnStatus string

const (
	// StatusNoFormula means the AI turn carried no formula block. Most
	// turns do not; this is not an error.
	StatusNoFormula TurnStatus = "no-formula"
	// StatusExtractionError means a block was found but could not be
	// parsed. Terminal for this attempt only; the conversation continues.
	StatusExtractionError TurnStatus = "extraction-error"
	// StatusAccepted means the formula passed validation and was handed to
	// persistence.
	StatusAccepted TurnStatus = "accepted"
	// StatusRejected means validation failed; the errors are surfaced
	// verbatim to the conversation.
	StatusRejected TurnStatus = "rejected"
)

// TurnInput is everything the engine needs from one conversation turn.
type TurnInput struct {
	UserID uuid.UUID
	// UserMessage is the literal text the user sent this turn, used only
	// for capsule-count phrase recovery.
	UserMessage string
	// AIText is the assistant's accumulated response text for the turn.
	AIText string
	// Medications is the user's free-text medication list.
	Medications []string
}

// TurnOutcome is the engine's verdict on one turn.
type TurnOutcome struct {
	Status  TurnStatus
	Formula *formula.Formula
	// Advisories are non-blocking messages: name corrections, expansion
	// additions, budget overage notes, and interaction warnings.
	Advisories []string
	// Errors holds validation errors (rejected) or the extraction failure
	// description.
	Errors []string
}

// ConsultationService runs the full extraction pipeline over a turn.
type ConsultationService interface {
	ProcessTurn(ctx context.Context, in TurnInput) (*TurnOutcome, error)
}

// FormulaValidator exposes the pure validation entry point to callers that
// already hold a structured candidate formula.
type FormulaValidator interface {
	Validate(f *formula.Formula) formula.ValidationResult
}
