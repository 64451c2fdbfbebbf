package catalog

import (
	"regexp"
	"strings"
)

// Qualifier patterns that are never part of a canonical name. Stripping is
// attempted only after exact lookups fail: canonical names legitimately
// contain words that look like qualifiers ("Ginger Root", "Blackcurrant
// Extract"), so eager stripping would corrupt exact matches.
var qualifierPatterns = []*regexp.Regexp{
	// Parenthetical source descriptors: "Vitamin E (soy)".
	regexp.MustCompile(`\s*\([^)]*\)`),
	// Potency/extraction-ratio suffixes: "Ginkgo Biloba PE 1/8% Flavones".
	regexp.MustCompile(`(?i)\s+PE\s+\S.*$`),
	// Bare percentage tokens and their trailing descriptor word:
	// "Green Tea Extract 98% Polyphenols".
	regexp.MustCompile(`\s*\d+(?:[./]\d+)?\s*%(?:\s+\p{L}+)?`),
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize resolves a free-text ingredient name to its canonical catalog
// form. It never fails: when no catalog match exists it returns the
// best-effort cleaned string, which downstream validation will flag as
// unapproved.
//
// Resolution order, first match wins:
//  1. exact case-insensitive match against the alias table,
//  2. exact case-insensitive match against canonical names,
//  3. qualifier stripping, then 1 and 2 again on the stripped string,
//  4. the stripped string verbatim.
func (c *Catalog) Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	if canonical, ok := c.exactMatch(name); ok {
		return canonical
	}

	stripped := stripQualifiers(name)
	if canonical, ok := c.exactMatch(stripped); ok {
		return canonical
	}
	return stripped
}

// exactMatch tries the alias table then the canonical names, both
// case-insensitively.
func (c *Catalog) exactMatch(name string) (string, bool) {
	key := foldKey(name)
	if canonical, ok := c.aliases[key]; ok {
		return canonical, true
	}
	if e, ok := c.byKey[key]; ok {
		return e.Name, true
	}
	return "", false
}

// stripQualifiers removes potency suffixes, percentage tokens, and
// parenthetical descriptors, collapsing any leftover whitespace.
func stripQualifiers(name string) string {
	for _, p := range qualifierPatterns {
		name = p.ReplaceAllString(name, "")
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(name, " "))
}
