package formula

import (
	"fmt"

	"github.com/myones/formulary/internal/domain/catalog"
)

// Validator checks candidate formulas against the catalog and the capsule
// budget policy. It is stateless and safe for concurrent use.
type Validator struct {
	catalog *catalog.Catalog
}

// NewValidator creates a validator over the approved catalog.
func NewValidator(c *catalog.Catalog) *Validator {
	return &Validator{catalog: c}
}

// Validate runs every check and reports all violations together; it never
// short-circuits on the first failure. Being below the minimum ingredient
// count is not an error here — the expander resolves that before final
// validation — but every other bound is enforced strictly.
func (v *Validator) Validate(f *Formula) ValidationResult {
	var errs []string

	for _, line := range f.Lines() {
		errs = append(errs, v.checkLine(line)...)
	}

	if count := f.IngredientCount(); count > MaxIngredients {
		errs = append(errs, fmt.Sprintf(
			"formula has %d ingredients, maximum is %d", count, MaxIngredients))
	}

	total := f.RecomputeTotal()
	budget := MaxDosage(f.TargetCapsules)
	ceiling := MaxWithTolerance(f.TargetCapsules)
	if total > ceiling {
		capsules := f.TargetCapsules
		if !ValidCapsuleCount(capsules) {
			capsules = DefaultCapsules
		}
		errs = append(errs, fmt.Sprintf(
			"total %.0fmg exceeds the %d-capsule budget of %.0fmg (tolerance ceiling %.0fmg); reduce doses or choose a larger capsule count",
			total, capsules, budget, ceiling))
	}

	if f.TargetCapsules != 0 && !ValidCapsuleCount(f.TargetCapsules) {
		errs = append(errs, fmt.Sprintf(
			"capsule count %d is not offered; valid counts are %v", f.TargetCapsules, ValidCapsuleCounts()))
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// checkLine validates a single line's identity and dose.
func (v *Validator) checkLine(line Line) []string {
	name := v.catalog.Normalize(line.IngredientName)
	entry, ok := v.catalog.Lookup(name)
	if !ok {
		return []string{fmt.Sprintf("unapproved ingredient: %s", line.IngredientName)}
	}

	var errs []string
	if line.AmountMg < MinLineDoseMg {
		errs = append(errs, fmt.Sprintf(
			"dose for %s is %.0fmg, below the %.0fmg minimum", entry.Name, line.AmountMg, MinLineDoseMg))
	}

	switch {
	case entry.IsAdjustable():
		if line.AmountMg < entry.DoseRangeMin {
			errs = append(errs, fmt.Sprintf(
				"dose for %s is %.0fmg, below the allowed minimum of %.0fmg",
				entry.Name, line.AmountMg, entry.DoseRangeMin))
		} else if line.AmountMg > entry.DoseRangeMax {
			errs = append(errs, fmt.Sprintf(
				"dose for %s is %.0fmg, above the allowed maximum of %.0fmg",
				entry.Name, line.AmountMg, entry.DoseRangeMax))
		}
	default:
		if !entry.AllowedMultiple(line.AmountMg) {
			errs = append(errs, fmt.Sprintf(
				"%s is a fixed bundle of %.0fmg and must be taken as a whole multiple; got %.0fmg",
				entry.Name, entry.DoseMg, line.AmountMg))
		}
	}
	return errs
}
