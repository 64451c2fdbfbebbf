package catalog

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Catalog is the immutable set of approved ingredients with lookup by
// normalized name. Construct it once with NewCatalog; all methods are
// read-only and safe for concurrent use.
type Catalog struct {
	byKey   map[string]Entry
	aliases map[string]string
	fillers []Entry
}

// NewCatalog builds the catalog from the static data tables and verifies
// their internal consistency: unique canonical names, sane dose ranges,
// and every alias target and filler resolving to a real entry. A failure
// here means the data tables have drifted apart and the process should
// not start.
func NewCatalog() (*Catalog, error) {
	c := &Catalog{
		byKey:   make(map[string]Entry, len(entries)),
		aliases: make(map[string]string, len(aliases)),
	}

	for _, e := range entries {
		if err := e.validate(); err != nil {
			return nil, err
		}
		key := foldKey(e.Name)
		if _, dup := c.byKey[key]; dup {
			return nil, fmt.Errorf("duplicate catalog name %q", e.Name)
		}
		c.byKey[key] = e
	}

	for alias, target := range aliases {
		if _, ok := c.byKey[foldKey(target)]; !ok {
			return nil, fmt.Errorf("alias %q points at unknown catalog entry %q", alias, target)
		}
		c.aliases[foldKey(alias)] = target
	}

	c.fillers = make([]Entry, 0, len(fillerNames))
	for _, name := range fillerNames {
		e, ok := c.byKey[foldKey(name)]
		if !ok {
			return nil, fmt.Errorf("filler %q is not a catalog entry", name)
		}
		if !e.IsAdjustable() {
			return nil, fmt.Errorf("filler %q must be an adjustable ingredient", name)
		}
		c.fillers = append(c.fillers, e)
	}

	return c, nil
}

// Lookup returns the entry for a canonical name, matched case-insensitively.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	e, ok := c.byKey[foldKey(name)]
	return e, ok
}

// Contains reports whether name resolves to an approved entry after
// normalization.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.Lookup(c.Normalize(name))
	return ok
}

// Fillers returns the expander's priority-ordered filler entries. The
// returned slice is a copy; callers may not mutate catalog state.
func (c *Catalog) Fillers() []Entry {
	out := make([]Entry, len(c.fillers))
	copy(out, c.fillers)
	return out
}

// Len returns the number of approved entries.
func (c *Catalog) Len() int {
	return len(c.byKey)
}

// foldKey produces the case- and accent-insensitive lookup key for a name.
// NFD decomposition plus mark removal folds accented spellings ("Açaí")
// onto their plain forms before lowercasing.
func foldKey(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
