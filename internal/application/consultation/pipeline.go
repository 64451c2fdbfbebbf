// Package consultation implements the extraction pipeline: it pulls a
// candidate formula out of free-form AI response text and feeds it through
// the normalize → validate → expand → screen sequence before anything is
// accepted. Inputs are untrusted text, never typed objects.
package consultation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/myones/formulary/internal/domain/catalog"
	"github.com/myones/formulary/internal/domain/formula"
	"github.com/myones/formulary/internal/domain/interaction"
	"github.com/myones/formulary/internal/infrastructure/monitoring"
	"github.com/myones/formulary/internal/ports/inbound"
	"github.com/myones/formulary/internal/ports/outbound"
)

// pipelineState tracks one extraction attempt through its stages.
type pipelineState string

const (
	stateAwaitingText pipelineState = "AWAITING_TEXT"
	stateBlockFound   pipelineState = "BLOCK_FOUND"
	stateParsed       pipelineState = "PARSED"
	stateNormalized   pipelineState = "NORMALIZED"
	stateValidated    pipelineState = "VALIDATED"
)

// Pipeline is the end-to-end entry point used by the chat-handling
// collaborator. It is stateless between calls: every turn constructs a
// fresh candidate formula and discards it after the verdict, so concurrent
// sessions need no locking.
type Pipeline struct {
	catalog   *catalog.Catalog
	validator *formula.Validator
	expander  *formula.Expander
	repo      outbound.FormulaRepository
	metrics   *monitoring.PipelineMetrics
	logger    *zap.Logger
}

// NewPipeline wires the engine components over one shared catalog.
func NewPipeline(
	c *catalog.Catalog,
	repo outbound.FormulaRepository,
	metrics *monitoring.PipelineMetrics,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		catalog:   c,
		validator: formula.NewValidator(c),
		expander:  formula.NewExpander(c),
		repo:      repo,
		metrics:   metrics,
		logger:    logger.Named("extraction-pipeline"),
	}
}

// Validate exposes the pure validation entry point for callers holding a
// structured candidate formula.
func (p *Pipeline) Validate(f *formula.Formula) formula.ValidationResult {
	return p.validator.Validate(f)
}

// ProcessTurn runs one conversation turn through the full state machine.
// The returned error covers infrastructure failures only (persistence);
// every engine-level verdict, including extraction failures, is expressed
// in the outcome so the surrounding conversation survives.
func (p *Pipeline) ProcessTurn(ctx context.Context, in inbound.TurnInput) (*inbound.TurnOutcome, error) {
	state := stateAwaitingText

	payload, found := findFormulaBlock(in.AIText)
	if !found {
		p.metrics.ObserveTurn(string(inbound.StatusNoFormula))
		p.logger.Debug("turn carried no formula block", zap.String("user_id", in.UserID.String()))
		return &inbound.TurnOutcome{Status: inbound.StatusNoFormula}, nil
	}
	state = stateBlockFound

	f, err := parseBlock(payload)
	if err != nil {
		p.metrics.ObserveTurn(string(inbound.StatusExtractionError))
		p.logger.Warn("formula block could not be parsed",
			zap.String("user_id", in.UserID.String()),
			zap.String("state", string(state)),
			zap.Error(err))
		return &inbound.TurnOutcome{
			Status: inbound.StatusExtractionError,
			Errors: []string{"couldn't process the proposed formula"},
		}, nil
	}
	state = stateParsed

	// The user's own words win over the block's capsule count.
	if n := capsuleCountFromMessage(in.UserMessage); n != 0 {
		if f.TargetCapsules != 0 && f.TargetCapsules != n {
			p.logger.Debug("capsule count overridden by user message",
				zap.Int("block", f.TargetCapsules), zap.Int("message", n))
		}
		f.TargetCapsules = n
	}

	advisories := p.normalizeLines(f)
	state = stateNormalized
	f.RecomputeTotal()

	if f.IngredientCount() < formula.MinIngredients {
		expansion := p.expander.Expand(f)
		if expansion.Expanded {
			p.metrics.ObserveExpansion()
			for _, name := range expansion.AddedIngredients {
				advisories = append(advisories, fmt.Sprintf("added %s to reach the minimum ingredient count", name))
			}
			p.metrics.ObserveAdvisories("expansion", len(expansion.AddedIngredients))
		}
	}

	result := p.validator.Validate(f)
	state = stateValidated

	// Over-budget formulas are noted, never silently truncated: the
	// overage advisory accompanies the validator's own budget error.
	if ceiling := formula.MaxWithTolerance(f.TargetCapsules); f.TotalMg > ceiling {
		advisories = append(advisories, fmt.Sprintf(
			"formula is %.0fmg over the capsule budget; a larger capsule count would fit it", f.TotalMg-ceiling))
		p.metrics.ObserveAdvisories("budget", 1)
	}

	if warnings := interaction.Screen(f, in.Medications); len(warnings) > 0 {
		advisories = append(advisories, warnings...)
		p.metrics.ObserveAdvisories("interaction", len(warnings))
	}

	if !result.Valid {
		f.MarkRejected(in.UserID, result.Errors)
		p.publishEvents(f)
		p.metrics.ObserveTurn(string(inbound.StatusRejected))
		p.logger.Info("formula rejected",
			zap.String("user_id", in.UserID.String()),
			zap.String("state", string(state)),
			zap.Strings("errors", result.Errors))
		return &inbound.TurnOutcome{
			Status:     inbound.StatusRejected,
			Formula:    f,
			Advisories: advisories,
			Errors:     result.Errors,
		}, nil
	}

	if p.repo != nil {
		record := &outbound.FormulaRecord{
			UserID:         in.UserID,
			Bases:          f.Bases,
			Additions:      f.Additions,
			TotalMg:        f.TotalMg,
			TargetCapsules: f.TargetCapsules,
		}
		if err := p.repo.SaveVersion(ctx, record); err != nil {
			return nil, fmt.Errorf("persisting accepted formula: %w", err)
		}
	}

	f.MarkAccepted(in.UserID)
	p.publishEvents(f)

	p.metrics.ObserveTurn(string(inbound.StatusAccepted))
	p.logger.Info("formula accepted",
		zap.String("user_id", in.UserID.String()),
		zap.Float64("total_mg", f.TotalMg),
		zap.Int("ingredients", f.IngredientCount()),
		zap.Int("target_capsules", f.TargetCapsules))
	return &inbound.TurnOutcome{
		Status:     inbound.StatusAccepted,
		Formula:    f,
		Advisories: advisories,
	}, nil
}

// publishEvents drains the aggregate's pending domain events into the
// log stream, which is this service's event sink; there is no external
// bus to dispatch to.
func (p *Pipeline) publishEvents(f *formula.Formula) {
	for _, event := range f.Events() {
		p.logger.Info("domain event",
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()))
	}
}

// normalizeLines resolves every line name against the catalog, collecting
// a "corrected X to Y" advisory for each change it makes.
func (p *Pipeline) normalizeLines(f *formula.Formula) []string {
	advisories := []string{}
	fix := func(lines []formula.Line) {
		for i := range lines {
			canonical := p.catalog.Normalize(lines[i].IngredientName)
			if canonical != lines[i].IngredientName {
				advisories = append(advisories, fmt.Sprintf("corrected %s to %s", lines[i].IngredientName, canonical))
				lines[i].IngredientName = canonical
			}
		}
	}
	fix(f.Bases)
	fix(f.Additions)
	if len(advisories) > 0 {
		p.metrics.ObserveAdvisories("correction", len(advisories))
	}
	return advisories
}
