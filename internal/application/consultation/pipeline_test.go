package consultation

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/myones/formulary/internal/domain/catalog"
	"github.com/myones/formulary/internal/domain/formula"
	"github.com/myones/formulary/internal/infrastructure/monitoring"
	"github.com/myones/formulary/internal/infrastructure/persistence/memory"
	"github.com/myones/formulary/internal/ports/inbound"
)

func newTestPipeline(t *testing.T) (*Pipeline, *memory.FormulaRepository) {
	t.Helper()
	c, err := catalog.NewCatalog()
	require.NoError(t, err)
	repo := memory.NewFormulaRepository()
	metrics := monitoring.NewPipelineMetrics(prometheus.NewRegistry())
	return NewPipeline(c, repo, metrics, zap.NewNop()), repo
}

func fenced(payload string) string {
	return "Here is what I suggest for you:\n\n```formula\n" + payload + "\n```\n\nLet me know what you think!"
}

func TestProcessTurnNoFormula(t *testing.T) {
	p, _ := newTestPipeline(t)

	outcome, err := p.ProcessTurn(context.Background(), inbound.TurnInput{
		UserID: uuid.New(),
		AIText: "Magnesium is great for sleep. Want me to put a formula together?",
	})

	require.NoError(t, err)
	assert.Equal(t, inbound.StatusNoFormula, outcome.Status)
	assert.Nil(t, outcome.Formula)
}

func TestProcessTurnMalformedBlock(t *testing.T) {
	p, _ := newTestPipeline(t)

	outcome, err := p.ProcessTurn(context.Background(), inbound.TurnInput{
		UserID: uuid.New(),
		AIText: fenced(`{"bases": [{"name": "Heart Support", "amount_mg":`),
	})

	require.NoError(t, err, "extraction failure must not kill the conversation turn")
	assert.Equal(t, inbound.StatusExtractionError, outcome.Status)
	require.Len(t, outcome.Errors, 1)
	assert.Contains(t, outcome.Errors[0], "couldn't process")
}

func TestProcessTurnEmptyBlock(t *testing.T) {
	p, _ := newTestPipeline(t)

	outcome, err := p.ProcessTurn(context.Background(), inbound.TurnInput{
		UserID: uuid.New(),
		AIText: fenced(`{"bases": [], "additions": []}`),
	})

	require.NoError(t, err)
	assert.Equal(t, inbound.StatusExtractionError, outcome.Status)
}

// An under-specified three-ingredient proposal gets expanded to the
// minimum count and accepted under the default capsule budget.
func TestProcessTurnExpandsAndAccepts(t *testing.T) {
	p, repo := newTestPipeline(t)
	userID := uuid.New()

	outcome, err := p.ProcessTurn(context.Background(), inbound.TurnInput{
		UserID: userID,
		AIText: fenced(`{
			"additions": [
				{"name": "CoEnzyme Q10", "amount_mg": 100},
				{"name": "L-Theanine", "amount_mg": 100},
				{"name": "Quercetin", "amount_mg": 100}
			]
		}`),
	})

	require.NoError(t, err)
	require.Equal(t, inbound.StatusAccepted, outcome.Status)
	assert.Equal(t, formula.MinIngredients, outcome.Formula.IngredientCount())

	var additions int
	for _, a := range outcome.Advisories {
		if strings.Contains(a, "to reach the minimum ingredient count") {
			additions++
		}
	}
	assert.Equal(t, 5, additions)

	record, err := repo.Current(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, record.Version)
	assert.Equal(t, outcome.Formula.TotalMg, record.TotalMg)
}

// Known aliases are corrected with an advisory; a misspelling that
// survives qualifier stripping is rejected by name.
func TestProcessTurnCorrectionsAndUnapproved(t *testing.T) {
	p, _ := newTestPipeline(t)

	outcome, err := p.ProcessTurn(context.Background(), inbound.TurnInput{
		UserID: uuid.New(),
		AIText: fenced(`{
			"additions": [
				{"name": "CoQ10", "amount_mg": 100},
				{"name": "Omage-3", "amount_mg": 50}
			]
		}`),
	})

	require.NoError(t, err)
	assert.Equal(t, inbound.StatusRejected, outcome.Status)
	assert.Contains(t, outcome.Advisories, "corrected CoQ10 to CoEnzyme Q10")

	joined := strings.Join(outcome.Errors, "\n")
	assert.Contains(t, joined, "unapproved ingredient: Omage-3")
}

// A capsule preference stated in the user's message overrides the block.
func TestProcessTurnCapsuleCountFromUserMessage(t *testing.T) {
	p, _ := newTestPipeline(t)

	outcome, err := p.ProcessTurn(context.Background(), inbound.TurnInput{
		UserID:      uuid.New(),
		UserMessage: "Sounds good, I'll take 12 capsules.",
		AIText: fenced(`{
			"bases": [{"name": "Heart Support", "amount_mg": 1200}],
			"additions": [
				{"name": "Omega-3", "amount_mg": 500},
				{"name": "Vitamin C", "amount_mg": 250}
			]
		}`),
	})

	require.NoError(t, err)
	require.Equal(t, inbound.StatusAccepted, outcome.Status)
	assert.Equal(t, 12, outcome.Formula.TargetCapsules)
}

func TestProcessTurnBudgetOverage(t *testing.T) {
	p, _ := newTestPipeline(t)

	outcome, err := p.ProcessTurn(context.Background(), inbound.TurnInput{
		UserID:      uuid.New(),
		UserMessage: "go with 6 capsules please",
		AIText: fenced(`{
			"bases": [
				{"name": "Heart Support", "amount_mg": 2400},
				{"name": "Brain Support", "amount_mg": 1100},
				{"name": "Immune Support", "amount_mg": 1000},
				{"name": "Energy Support", "amount_mg": 950},
				{"name": "Sleep Support", "amount_mg": 900},
				{"name": "Joint Support", "amount_mg": 1150},
				{"name": "Stress Support", "amount_mg": 1050},
				{"name": "Digestive Support", "amount_mg": 850}
			]
		}`),
	})

	require.NoError(t, err)
	assert.Equal(t, inbound.StatusRejected, outcome.Status)

	joined := strings.Join(outcome.Errors, "\n")
	assert.Contains(t, joined, "3300")
	assert.Contains(t, joined, "3465")

	var overageNoted bool
	for _, a := range outcome.Advisories {
		if strings.Contains(a, "over the capsule budget") {
			overageNoted = true
		}
	}
	assert.True(t, overageNoted, "overage must be noted, not silently truncated")
}

// Interaction warnings are advisory: the formula is still accepted.
func TestProcessTurnInteractionWarningDoesNotBlock(t *testing.T) {
	p, _ := newTestPipeline(t)

	outcome, err := p.ProcessTurn(context.Background(), inbound.TurnInput{
		UserID:      uuid.New(),
		Medications: []string{"Warfarin"},
		AIText: fenced(`{
			"additions": [
				{"name": "Garlic Extract", "amount_mg": 300},
				{"name": "Vitamin C", "amount_mg": 250}
			]
		}`),
	})

	require.NoError(t, err)
	assert.Equal(t, inbound.StatusAccepted, outcome.Status)

	var bleeding int
	for _, a := range outcome.Advisories {
		if strings.Contains(a, "bleeding risk") {
			bleeding++
		}
	}
	assert.Equal(t, 1, bleeding)
}

func TestProcessTurnStringAmounts(t *testing.T) {
	p, _ := newTestPipeline(t)

	outcome, err := p.ProcessTurn(context.Background(), inbound.TurnInput{
		UserID: uuid.New(),
		AIText: fenced(`{
			"additions": [
				{"name": "Omega-3", "amount_mg": "500"},
				{"name": "Vitamin C", "amount_mg": "250 mg"}
			]
		}`),
	})

	require.NoError(t, err)
	require.Equal(t, inbound.StatusAccepted, outcome.Status)
}

func TestCapsuleCountFromMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    int
	}{
		{"IllTake", "I'll take 9 capsules", 9},
		{"GoWith", "let's go with 12 caps", 12},
		{"GoWithBareNumber", "go with 12", 12},
		{"IllTakeBareNumber", "I'll take 9", 9},
		{"BareCount", "6 capsules works for me", 6},
		{"InvalidCount", "I'll take 7 capsules", 0},
		{"InvalidBareCount", "go with 7", 0},
		{"BareNumberWithoutChoiceVerb", "I slept 9 hours", 0},
		{"NoPhrase", "sounds great, thanks", 0},
		{"Empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, capsuleCountFromMessage(tt.message))
		})
	}
}

func TestProcessTurnPublishesDomainEvents(t *testing.T) {
	newObservedPipeline := func(t *testing.T) (*Pipeline, *observer.ObservedLogs) {
		t.Helper()
		c, err := catalog.NewCatalog()
		require.NoError(t, err)
		core, logs := observer.New(zapcore.InfoLevel)
		metrics := monitoring.NewPipelineMetrics(prometheus.NewRegistry())
		return NewPipeline(c, memory.NewFormulaRepository(), metrics, zap.New(core)), logs
	}

	eventNames := func(logs *observer.ObservedLogs) []string {
		var names []string
		for _, entry := range logs.FilterMessage("domain event").All() {
			names = append(names, entry.ContextMap()["event"].(string))
		}
		return names
	}

	t.Run("accepted turn emits formula.accepted", func(t *testing.T) {
		p, logs := newObservedPipeline(t)

		outcome, err := p.ProcessTurn(context.Background(), inbound.TurnInput{
			UserID: uuid.New(),
			AIText: fenced(`{
				"additions": [
					{"name": "Omega-3", "amount_mg": 500},
					{"name": "Vitamin C", "amount_mg": 250}
				]
			}`),
		})

		require.NoError(t, err)
		require.Equal(t, inbound.StatusAccepted, outcome.Status)
		assert.Equal(t, []string{"formula.accepted"}, eventNames(logs))
	})

	t.Run("rejected turn emits formula.rejected", func(t *testing.T) {
		p, logs := newObservedPipeline(t)

		outcome, err := p.ProcessTurn(context.Background(), inbound.TurnInput{
			UserID: uuid.New(),
			AIText: fenced(`{
				"additions": [{"name": "Unobtainium", "amount_mg": 100}]
			}`),
		})

		require.NoError(t, err)
		require.Equal(t, inbound.StatusRejected, outcome.Status)
		assert.Equal(t, []string{"formula.rejected"}, eventNames(logs))
	})

	t.Run("no-formula turn emits nothing", func(t *testing.T) {
		p, logs := newObservedPipeline(t)

		outcome, err := p.ProcessTurn(context.Background(), inbound.TurnInput{
			UserID: uuid.New(),
			AIText: "Let's talk about your sleep first.",
		})

		require.NoError(t, err)
		require.Equal(t, inbound.StatusNoFormula, outcome.Status)
		assert.Empty(t, eventNames(logs))
	})
}
