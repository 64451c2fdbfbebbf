package consultation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/myones/formulary/internal/domain/formula"
)

// The consultation prompt instructs the model to emit its proposal inside
// a ```formula fenced block. Everything outside the fence is prose for the
// user; only the fenced payload is machine-read.
var formulaFence = regexp.MustCompile("(?s)```formula\\s+(.*?)```")

// blockPayload is the permissive intermediate representation of a fenced
// block. It is parsed leniently and immediately run through normalization
// and validation; no component trusts its shape beyond what has been
// validated.
type blockPayload struct {
	Bases          []blockLine `json:"bases"`
	Additions      []blockLine `json:"additions"`
	TargetCapsules int         `json:"target_capsules"`
}

type blockLine struct {
	Name     string     `json:"name"`
	AmountMg flexNumber `json:"amount_mg"`
}

// flexNumber accepts a JSON number or a numeric string, which models
// occasionally emit ("500" or even "500 mg").
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = flexNumber(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "mg"))
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return err
	}
	*n = flexNumber(f)
	return nil
}

// findFormulaBlock returns the contents of the first formula fence in the
// accumulated AI text, or false when the turn proposes no formula.
func findFormulaBlock(aiText string) (string, bool) {
	m := formulaFence.FindStringSubmatch(aiText)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// parseBlock decodes a fenced payload into a fresh candidate formula.
// TotalMg is left for recomputation; nothing from the block is trusted.
func parseBlock(payload string) (*formula.Formula, error) {
	var block blockPayload
	if err := json.Unmarshal([]byte(payload), &block); err != nil {
		return nil, fmt.Errorf("%w: %v", formula.ErrMalformedBlock, err)
	}
	if len(block.Bases)+len(block.Additions) == 0 {
		return nil, formula.ErrEmptyFormula
	}

	f := &formula.Formula{TargetCapsules: block.TargetCapsules}
	for _, l := range block.Bases {
		f.Bases = append(f.Bases, formula.Line{
			IngredientName: strings.TrimSpace(l.Name),
			AmountMg:       float64(l.AmountMg),
			Role:           formula.RoleBase,
		})
	}
	for _, l := range block.Additions {
		f.Additions = append(f.Additions, formula.Line{
			IngredientName: strings.TrimSpace(l.Name),
			AmountMg:       float64(l.AmountMg),
			Role:           formula.RoleAddition,
		})
	}
	return f, nil
}

// Capsule-count phrase patterns, tried in order over the user's own
// message. A stated preference overrides whatever the block specifies,
// but only when it is one of the offered counts. The count may carry a
// "capsules" suffix ("I'll take 9 capsules", "6 caps works") or stand
// bare after a choice verb ("go with 12").
var capsulePhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:caps?\b|capsules?\b)`),
	regexp.MustCompile(`(?i)\b(?:i'?ll\s+take|go\s+with|let'?s\s+do|i\s+(?:want|prefer|choose))\s+(?:the\s+)?(\d{1,2})\b`),
}

// capsuleCountFromMessage opportunistically recovers an explicit capsule
// preference from conversational text. Returns 0 when none is stated or
// the stated count is not offered.
func capsuleCountFromMessage(userMessage string) int {
	for _, p := range capsulePhrases {
		m := p.FindStringSubmatch(userMessage)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if formula.ValidCapsuleCount(n) {
			return n
		}
	}
	return 0
}
