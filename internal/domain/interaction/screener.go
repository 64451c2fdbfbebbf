// Package interaction cross-references a formula's ingredients against a
// rule table of known medication-class conflicts. Its output is advisory:
// warnings are surfaced to the user or clinician and never block a
// formula's acceptance.
package interaction

import (
	"fmt"
	"strings"

	"github.com/myones/formulary/internal/domain/formula"
)

// rule maps medication-class keywords to ingredient keywords known to
// interact with that class.
type rule struct {
	medicationKeywords []string
	ingredientKeywords []string
	message            string
}

var rules = []rule{
	{
		medicationKeywords: []string{"warfarin", "coumadin", "heparin", "apixaban", "eliquis", "rivaroxaban", "xarelto", "clopidogrel", "plavix", "anticoagulant", "blood thinner"},
		ingredientKeywords: []string{"garlic", "ginger", "ginkgo", "omega-3", "vitamin e"},
		message:            "may increase bleeding risk when combined with anticoagulant medication",
	},
	{
		medicationKeywords: []string{"sertraline", "zoloft", "fluoxetine", "prozac", "escitalopram", "lexapro", "paroxetine", "ssri", "snri", "antidepressant"},
		ingredientKeywords: []string{"st. john's wort", "st johns wort"},
		message:            "may interfere with antidepressant medication and raise serotonin levels",
	},
	{
		medicationKeywords: []string{"atorvastatin", "lipitor", "simvastatin", "rosuvastatin", "crestor", "statin"},
		ingredientKeywords: []string{"red yeast rice", "niacin"},
		message:            "may compound statin effects and increase the risk of muscle injury",
	},
	{
		medicationKeywords: []string{"levothyroxine", "synthroid", "thyroid"},
		ingredientKeywords: []string{"calcium", "iron"},
		message:            "may reduce thyroid medication absorption; doses should be separated",
	},
	{
		medicationKeywords: []string{"zolpidem", "ambien", "benzodiazepine", "lorazepam", "diazepam", "sedative"},
		ingredientKeywords: []string{"valerian", "l-theanine"},
		message:            "may intensify sedative effects",
	},
}

// Screen returns one human-readable warning per matched rule. An empty
// medication list or no rule matches yields an empty slice, and a non-empty
// result never affects validation.
func Screen(f *formula.Formula, medications []string) []string {
	warnings := []string{}
	if f == nil || len(medications) == 0 {
		return warnings
	}

	for _, r := range rules {
		med, medHit := firstMatch(medications, r.medicationKeywords)
		if !medHit {
			continue
		}
		names := make([]string, 0, f.IngredientCount())
		for _, l := range f.Lines() {
			names = append(names, l.IngredientName)
		}
		ing, ingHit := firstMatch(names, r.ingredientKeywords)
		if !ingHit {
			continue
		}
		warnings = append(warnings, fmt.Sprintf("%s with %s %s", ing, med, r.message))
	}
	return warnings
}

// firstMatch returns the first candidate containing any keyword,
// case-insensitively.
func firstMatch(candidates, keywords []string) (string, bool) {
	for _, c := range candidates {
		lower := strings.ToLower(c)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return c, true
			}
		}
	}
	return "", false
}
