package formula

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkAcceptedRecordsEvent(t *testing.T) {
	// Arrange
	f := wellFormedFormula()
	f.RecomputeTotal()
	userID := uuid.New()

	// Act
	f.MarkAccepted(userID)

	// Assert
	events := f.Events()
	require.Len(t, events, 1)

	accepted, ok := events[0].(FormulaAcceptedEvent)
	require.True(t, ok)
	assert.Equal(t, "formula.accepted", accepted.EventName())
	assert.Equal(t, userID, accepted.UserID)
	assert.Equal(t, f.TotalMg, accepted.TotalMg)
	assert.Equal(t, f.IngredientCount(), accepted.IngredientCount)
	assert.Equal(t, f.TargetCapsules, accepted.TargetCapsules)
	assert.False(t, accepted.OccurredAt().IsZero())
}

func TestMarkRejectedRecordsViolations(t *testing.T) {
	f := wellFormedFormula()
	userID := uuid.New()
	violations := []string{"Unobtainium is not an approved ingredient"}

	f.MarkRejected(userID, violations)

	events := f.Events()
	require.Len(t, events, 1)

	rejected, ok := events[0].(FormulaRejectedEvent)
	require.True(t, ok)
	assert.Equal(t, "formula.rejected", rejected.EventName())
	assert.Equal(t, userID, rejected.UserID)
	assert.Equal(t, violations, rejected.Errors)
}

func TestEventsReturnsAndClears(t *testing.T) {
	f := wellFormedFormula()
	f.MarkAccepted(uuid.New())

	require.Len(t, f.Events(), 1)
	assert.Empty(t, f.Events(), "draining must clear the pending events")
}
