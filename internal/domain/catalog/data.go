package catalog

// Static catalog content. The entries, alias table, and expander filler
// list are maintained together here so that NewCatalog can verify every
// alias target and filler resolves to a real entry at load time instead of
// discovering drift at runtime.

// entries is the closed set of approved ingredients and bundles.
var entries = []Entry{
	// Fixed-dose system support bundles.
	{Name: "Heart Support", Kind: KindFixedBundle, DoseMg: 1200, MaxMultiple: 2},
	{Name: "Brain Support", Kind: KindFixedBundle, DoseMg: 1100, MaxMultiple: 2},
	{Name: "Immune Support", Kind: KindFixedBundle, DoseMg: 1000, MaxMultiple: 2},
	{Name: "Energy Support", Kind: KindFixedBundle, DoseMg: 950, MaxMultiple: 2},
	{Name: "Sleep Support", Kind: KindFixedBundle, DoseMg: 900},
	{Name: "Joint Support", Kind: KindFixedBundle, DoseMg: 1150, MaxMultiple: 2},
	{Name: "Stress Support", Kind: KindFixedBundle, DoseMg: 1050},
	{Name: "Digestive Support", Kind: KindFixedBundle, DoseMg: 850},

	// Adjustable single ingredients.
	{Name: "CoEnzyme Q10", Kind: KindAdjustable, DoseMg: 100, DoseRangeMin: 30, DoseRangeMax: 200},
	{Name: "Omega-3", Kind: KindAdjustable, DoseMg: 500, DoseRangeMin: 250, DoseRangeMax: 1100},
	{Name: "Vitamin C", Kind: KindAdjustable, DoseMg: 250, DoseRangeMin: 60, DoseRangeMax: 1000},
	{Name: "Vitamin E", Kind: KindAdjustable, DoseMg: 150, DoseRangeMin: 50, DoseRangeMax: 270},
	{Name: "Magnesium Glycinate", Kind: KindAdjustable, DoseMg: 200, DoseRangeMin: 100, DoseRangeMax: 400},
	{Name: "Zinc Picolinate", Kind: KindAdjustable, DoseMg: 15, DoseRangeMin: 10, DoseRangeMax: 30},
	{Name: "Iron Bisglycinate", Kind: KindAdjustable, DoseMg: 18, DoseRangeMin: 10, DoseRangeMax: 36},
	{Name: "Calcium Citrate", Kind: KindAdjustable, DoseMg: 250, DoseRangeMin: 100, DoseRangeMax: 500},
	{Name: "Niacin", Kind: KindAdjustable, DoseMg: 50, DoseRangeMin: 10, DoseRangeMax: 100},
	{Name: "Ashwagandha Extract", Kind: KindAdjustable, DoseMg: 300, DoseRangeMin: 125, DoseRangeMax: 600},
	{Name: "Turmeric Extract", Kind: KindAdjustable, DoseMg: 500, DoseRangeMin: 250, DoseRangeMax: 1000},
	{Name: "Ginger Root", Kind: KindAdjustable, DoseMg: 250, DoseRangeMin: 100, DoseRangeMax: 550},
	{Name: "Garlic Extract", Kind: KindAdjustable, DoseMg: 300, DoseRangeMin: 150, DoseRangeMax: 600},
	{Name: "Ginkgo Biloba Extract", Kind: KindAdjustable, DoseMg: 120, DoseRangeMin: 60, DoseRangeMax: 240},
	{Name: "Rhodiola Rosea Extract", Kind: KindAdjustable, DoseMg: 200, DoseRangeMin: 100, DoseRangeMax: 400},
	{Name: "Bacopa Monnieri Extract", Kind: KindAdjustable, DoseMg: 300, DoseRangeMin: 150, DoseRangeMax: 450},
	{Name: "L-Theanine", Kind: KindAdjustable, DoseMg: 100, DoseRangeMin: 50, DoseRangeMax: 200},
	{Name: "Green Tea Extract", Kind: KindAdjustable, DoseMg: 250, DoseRangeMin: 100, DoseRangeMax: 500},
	{Name: "Quercetin", Kind: KindAdjustable, DoseMg: 250, DoseRangeMin: 100, DoseRangeMax: 500},
	{Name: "Alpha Lipoic Acid", Kind: KindAdjustable, DoseMg: 300, DoseRangeMin: 100, DoseRangeMax: 600},
	{Name: "Milk Thistle Extract", Kind: KindAdjustable, DoseMg: 250, DoseRangeMin: 140, DoseRangeMax: 420},
	{Name: "Blackcurrant Extract", Kind: KindAdjustable, DoseMg: 200, DoseRangeMin: 100, DoseRangeMax: 400},
	{Name: "Elderberry Extract", Kind: KindAdjustable, DoseMg: 300, DoseRangeMin: 150, DoseRangeMax: 600},
	{Name: "Acai Extract", Kind: KindAdjustable, DoseMg: 200, DoseRangeMin: 100, DoseRangeMax: 400},
	{Name: "St. John's Wort Extract", Kind: KindAdjustable, DoseMg: 300, DoseRangeMin: 150, DoseRangeMax: 600},
	{Name: "Red Yeast Rice", Kind: KindAdjustable, DoseMg: 600, DoseRangeMin: 300, DoseRangeMax: 1200},
	{Name: "Valerian Root Extract", Kind: KindAdjustable, DoseMg: 300, DoseRangeMin: 150, DoseRangeMax: 600},
}

// aliases maps known synonyms and trade spellings to canonical names.
// Keys are matched case-insensitively before any qualifier stripping.
var aliases = map[string]string{
	"CoQ10":          "CoEnzyme Q10",
	"Co Q10":         "CoEnzyme Q10",
	"Ubiquinone":     "CoEnzyme Q10",
	"Omega 3":        "Omega-3",
	"Fish Oil":       "Omega-3",
	"Ascorbic Acid":  "Vitamin C",
	"Vit C":          "Vitamin C",
	"Tocopherol":     "Vitamin E",
	"Magnesium":      "Magnesium Glycinate",
	"Zinc":           "Zinc Picolinate",
	"Iron":           "Iron Bisglycinate",
	"Calcium":        "Calcium Citrate",
	"Vitamin B3":     "Niacin",
	"Ashwagandha":    "Ashwagandha Extract",
	"KSM-66":         "Ashwagandha Extract",
	"Curcumin":       "Turmeric Extract",
	"Turmeric":       "Turmeric Extract",
	"Ginger":         "Ginger Root",
	"Garlic":         "Garlic Extract",
	"Ginkgo":         "Ginkgo Biloba Extract",
	"Ginkgo Biloba":  "Ginkgo Biloba Extract",
	"Rhodiola":       "Rhodiola Rosea Extract",
	"Bacopa":         "Bacopa Monnieri Extract",
	"Theanine":       "L-Theanine",
	"EGCG":           "Green Tea Extract",
	"ALA":            "Alpha Lipoic Acid",
	"Milk Thistle":   "Milk Thistle Extract",
	"Silymarin":      "Milk Thistle Extract",
	"Elderberry":     "Elderberry Extract",
	"Acai":           "Acai Extract",
	"St Johns Wort":  "St. John's Wort Extract",
	"St John's Wort": "St. John's Wort Extract",
	"Valerian":       "Valerian Root Extract",
}

// fillerNames is the ordered priority list of general-support ingredients
// the expander draws from. The order is part of the expander's contract:
// it determines which fillers are chosen when budget is scarce.
var fillerNames = []string{
	"Vitamin C",
	"Magnesium Glycinate",
	"Omega-3",
	"Zinc Picolinate",
	"Vitamin E",
	"CoEnzyme Q10",
	"Turmeric Extract",
	"Green Tea Extract",
	"L-Theanine",
	"Quercetin",
}
