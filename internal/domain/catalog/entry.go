// Package catalog contains the closed set of ingredients the system is
// permitted to recommend, together with name normalization against it.
// The catalog is loaded once at process start and never mutated, so all
// lookups are safe for concurrent use.
package catalog

import "fmt"

// Kind distinguishes pre-mixed fixed-dose bundles from single adjustable
// ingredients.
type Kind string

const (
	// KindFixedBundle is a pre-mixed blend sold as one named item with a
	// fixed reference dose. It may only be taken as a whole multiple.
	KindFixedBundle Kind = "fixed-bundle"
	// KindAdjustable is a single compound whose dose may vary within a
	// documented inclusive range.
	KindAdjustable Kind = "adjustable"
)

// Entry is one approved ingredient or bundle.
type Entry struct {
	// Name is the canonical name, unique case-insensitively across the
	// catalog.
	Name string
	Kind Kind
	// DoseMg is the default/reference dose in milligrams.
	DoseMg float64
	// DoseRangeMin and DoseRangeMax bound an adjustable ingredient's dose,
	// inclusive. Zero for fixed bundles.
	DoseRangeMin float64
	DoseRangeMax float64
	// MaxMultiple documents repeat dosing for fixed bundles: the bundle may
	// be taken at DoseMg × k for 1 ≤ k ≤ MaxMultiple. Zero means 1.
	MaxMultiple int
}

// IsAdjustable reports whether the entry's dose may be set freely within
// its range.
func (e Entry) IsAdjustable() bool {
	return e.Kind == KindAdjustable
}

// AllowedMultiple reports whether amount is an exact whole multiple of the
// bundle's reference dose within its documented repeat limit.
func (e Entry) AllowedMultiple(amount float64) bool {
	max := e.MaxMultiple
	if max < 1 {
		max = 1
	}
	for k := 1; k <= max; k++ {
		if amount == e.DoseMg*float64(k) {
			return true
		}
	}
	return false
}

// validate enforces the catalog's internal consistency for a single entry.
func (e Entry) validate() error {
	if e.Name == "" {
		return fmt.Errorf("catalog entry with empty name")
	}
	if e.DoseMg <= 0 {
		return fmt.Errorf("catalog entry %q has non-positive dose", e.Name)
	}
	if e.IsAdjustable() {
		if e.DoseRangeMin > e.DoseMg || e.DoseMg > e.DoseRangeMax {
			return fmt.Errorf("catalog entry %q violates min <= dose <= max (%g <= %g <= %g)",
				e.Name, e.DoseRangeMin, e.DoseMg, e.DoseRangeMax)
		}
	}
	return nil
}
