package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog()
	require.NoError(t, err)
	return c
}

func TestNewCatalog(t *testing.T) {
	c := newTestCatalog(t)

	assert.Equal(t, len(entries), c.Len())

	// Every alias target and filler must have resolved at load time.
	for _, target := range aliases {
		_, ok := c.Lookup(target)
		assert.True(t, ok, "alias target %q should resolve", target)
	}
	assert.Len(t, c.Fillers(), len(fillerNames))
}

func TestCatalogLookup(t *testing.T) {
	c := newTestCatalog(t)

	t.Run("CaseInsensitive", func(t *testing.T) {
		e, ok := c.Lookup("coenzyme q10")
		require.True(t, ok)
		assert.Equal(t, "CoEnzyme Q10", e.Name)
		assert.Equal(t, KindAdjustable, e.Kind)
	})

	t.Run("AccentFolded", func(t *testing.T) {
		e, ok := c.Lookup("Açaí Extract")
		require.True(t, ok)
		assert.Equal(t, "Acai Extract", e.Name)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, ok := c.Lookup("Unicorn Dust")
		assert.False(t, ok)
	})
}

func TestEntryAllowedMultiple(t *testing.T) {
	e := Entry{Name: "Heart Support", Kind: KindFixedBundle, DoseMg: 1200, MaxMultiple: 2}

	assert.True(t, e.AllowedMultiple(1200))
	assert.True(t, e.AllowedMultiple(2400))
	assert.False(t, e.AllowedMultiple(3600), "beyond documented repeat limit")
	assert.False(t, e.AllowedMultiple(1800), "not a whole multiple")
	assert.False(t, e.AllowedMultiple(600))
}

func TestNormalize(t *testing.T) {
	c := newTestCatalog(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"AliasExact", "CoQ10", "CoEnzyme Q10"},
		{"AliasCaseInsensitive", "coq10", "CoEnzyme Q10"},
		{"AliasWithSpace", "Omega 3", "Omega-3"},
		{"CanonicalPassThrough", "Omega-3", "Omega-3"},
		{"CanonicalCaseFolded", "TURMERIC EXTRACT", "Turmeric Extract"},
		{"ParentheticalStripped", "Vitamin E (soy)", "Vitamin E"},
		{"PotencySuffixStripped", "Ginkgo Biloba PE 1/8% Flavones", "Ginkgo Biloba Extract"},
		{"PercentTokenStripped", "Green Tea Extract 98% Polyphenols", "Green Tea Extract"},
		{"StripThenAlias", "Ashwagandha (KSM-66 root)", "Ashwagandha Extract"},
		{"QualifierLookingCanonical", "Ginger Root", "Ginger Root"},
		{"UnknownSurvivesCleaned", "Omage-3", "Omage-3"},
		{"UnknownWithQualifier", "Moon Dust 50% Sparkle", "Moon Dust"},
		{"Empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Normalize(tt.input))
		})
	}
}

// Normalization must be idempotent: a second pass over any normalized
// catalog name or alias changes nothing.
func TestNormalizeIdempotent(t *testing.T) {
	c := newTestCatalog(t)

	for _, e := range entries {
		once := c.Normalize(e.Name)
		assert.Equal(t, once, c.Normalize(once), "canonical %q", e.Name)
	}
	for alias := range aliases {
		once := c.Normalize(alias)
		assert.Equal(t, once, c.Normalize(once), "alias %q", alias)
	}
}
