package formula

import (
	"sort"

	"github.com/myones/formulary/internal/domain/catalog"
)

// Expander deterministically tops up under-specified formulas. AI-proposed
// formulas sometimes carry too few ingredients to be commercially coherent;
// rather than reject, the expander fills them from the catalog's ordered
// filler list without breaking the capsule budget. Filler order and the
// headroom redistribution order are both part of the contract: they make
// expansion reproducible when budget is scarce.
type Expander struct {
	catalog *catalog.Catalog
}

// NewExpander creates an expander over the approved catalog.
func NewExpander(c *catalog.Catalog) *Expander {
	return &Expander{catalog: c}
}

// Expand mutates f in place, appending filler lines to Additions until the
// minimum ingredient count is met or the budget is exhausted. The result is
// produced even when no expansion was needed. After expansion,
// f.TotalMg never exceeds MaxWithTolerance(f.TargetCapsules).
func (e *Expander) Expand(f *Formula) ExpansionResult {
	needed := MinIngredients - f.IngredientCount()
	if needed <= 0 {
		return ExpansionResult{Expanded: false, AddedIngredients: []string{}}
	}

	remaining := MaxWithTolerance(f.TargetCapsules) - f.RecomputeTotal()
	added := []string{}

	// First pass: fillers at their normal dose.
	for _, filler := range e.catalog.Fillers() {
		if needed == 0 {
			break
		}
		if f.Contains(filler.Name) || remaining < filler.DoseMg {
			continue
		}
		f.Additions = append(f.Additions, Line{
			IngredientName: filler.Name,
			AmountMg:       filler.DoseMg,
			Role:           RoleAddition,
		})
		remaining -= filler.DoseMg
		added = append(added, filler.Name)
		needed--
	}

	// Second pass: budget too tight for normal doses, retry at minimums.
	if needed > 0 {
		for _, filler := range e.catalog.Fillers() {
			if needed == 0 {
				break
			}
			if f.Contains(filler.Name) || remaining < filler.DoseRangeMin {
				continue
			}
			f.Additions = append(f.Additions, Line{
				IngredientName: filler.Name,
				AmountMg:       filler.DoseRangeMin,
				Role:           RoleAddition,
			})
			remaining -= filler.DoseRangeMin
			added = append(added, filler.Name)
			needed--
		}
	}

	// A filled formula should be reasonably full, not just under the
	// ceiling: if the total is still below the un-toleranced budget,
	// redistribute the headroom across existing additions, largest dose
	// first, up to each entry's allowed maximum.
	e.redistributeHeadroom(f)

	f.RecomputeTotal()
	return ExpansionResult{Expanded: len(added) > 0, AddedIngredients: added}
}

// redistributeHeadroom raises addition doses toward their catalog maxima
// until the total reaches the minimum target (MaxDosage without tolerance)
// or no addition can be raised further.
func (e *Expander) redistributeHeadroom(f *Formula) {
	headroom := MaxDosage(f.TargetCapsules) - f.RecomputeTotal()
	if headroom <= 0 {
		return
	}

	// Stable sort keeps insertion order for equal doses, preserving
	// determinism.
	order := make([]int, len(f.Additions))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return f.Additions[order[a]].AmountMg > f.Additions[order[b]].AmountMg
	})

	for _, i := range order {
		if headroom <= 0 {
			break
		}
		line := &f.Additions[i]
		entry, ok := e.catalog.Lookup(e.catalog.Normalize(line.IngredientName))
		if !ok || !entry.IsAdjustable() || entry.DoseRangeMax <= line.AmountMg {
			continue
		}
		raise := entry.DoseRangeMax - line.AmountMg
		if raise > headroom {
			raise = headroom
		}
		line.AmountMg += raise
		headroom -= raise
	}
}
