package formula

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myones/formulary/internal/domain/catalog"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	c, err := catalog.NewCatalog()
	require.NoError(t, err)
	return NewValidator(c)
}

func wellFormedFormula() *Formula {
	return &Formula{
		Bases: []Line{
			{IngredientName: "Heart Support", AmountMg: 1200, Role: RoleBase},
		},
		Additions: []Line{
			{IngredientName: "CoEnzyme Q10", AmountMg: 100, Role: RoleAddition},
			{IngredientName: "Omega-3", AmountMg: 500, Role: RoleAddition},
			{IngredientName: "Vitamin C", AmountMg: 250, Role: RoleAddition},
			{IngredientName: "Magnesium Glycinate", AmountMg: 200, Role: RoleAddition},
			{IngredientName: "Zinc Picolinate", AmountMg: 15, Role: RoleAddition},
			{IngredientName: "Vitamin E", AmountMg: 150, Role: RoleAddition},
			{IngredientName: "Turmeric Extract", AmountMg: 500, Role: RoleAddition},
		},
		TargetCapsules: 9,
	}
}

func TestValidateWellFormedFormula(t *testing.T) {
	v := newTestValidator(t)
	f := wellFormedFormula()

	result := v.Validate(f)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2915.0, f.TotalMg, "total must be recomputed during validation")
}

func TestValidateUnapprovedIngredient(t *testing.T) {
	v := newTestValidator(t)
	f := wellFormedFormula()
	f.Additions = append(f.Additions, Line{IngredientName: "Omage-3", AmountMg: 50, Role: RoleAddition})

	result := v.Validate(f)

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unapproved ingredient: Omage-3")
}

func TestValidateNormalizesBeforeLookup(t *testing.T) {
	v := newTestValidator(t)
	f := wellFormedFormula()
	// Alias plus qualifier noise should still resolve, not read as unapproved.
	f.Additions[0] = Line{IngredientName: "CoQ10 (ubiquinone)", AmountMg: 100, Role: RoleAddition}

	result := v.Validate(f)

	assert.True(t, result.Valid, "errors: %v", result.Errors)
}

func TestValidateDoseRange(t *testing.T) {
	v := newTestValidator(t)

	t.Run("AboveMaximum", func(t *testing.T) {
		f := wellFormedFormula()
		f.Additions[0].AmountMg = 999 // CoEnzyme Q10 allows at most 200

		result := v.Validate(f)

		require.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "CoEnzyme Q10")
		assert.Contains(t, result.Errors[0], "999")
		assert.Contains(t, result.Errors[0], "above the allowed maximum of 200")
	})

	t.Run("BelowMinimum", func(t *testing.T) {
		f := wellFormedFormula()
		f.Additions[1].AmountMg = 100 // Omega-3 requires at least 250

		result := v.Validate(f)

		require.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "Omega-3")
		assert.Contains(t, result.Errors[0], "below the allowed minimum of 250")
	})

	t.Run("BelowGlobalFloor", func(t *testing.T) {
		f := wellFormedFormula()
		f.Additions[0].AmountMg = 5 // below the 10mg floor and CoQ10's own minimum

		result := v.Validate(f)

		require.False(t, result.Valid)
		joined := strings.Join(result.Errors, "\n")
		assert.Contains(t, joined, "below the 10mg minimum")
		assert.Contains(t, joined, "below the allowed minimum of 30")
	})
}

func TestValidateBundleMultiples(t *testing.T) {
	v := newTestValidator(t)

	t.Run("WholeMultipleAccepted", func(t *testing.T) {
		f := wellFormedFormula()
		f.TargetCapsules = 12
		f.Bases[0].AmountMg = 2400 // Heart Support documents up to 2 repeats

		result := v.Validate(f)

		assert.True(t, result.Valid, "errors: %v", result.Errors)
	})

	t.Run("PartialMultipleRejected", func(t *testing.T) {
		f := wellFormedFormula()
		f.Bases[0].AmountMg = 1800

		result := v.Validate(f)

		require.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "whole multiple")
	})
}

func TestValidateBudgetExceeded(t *testing.T) {
	v := newTestValidator(t)
	f := &Formula{
		Bases: []Line{
			{IngredientName: "Heart Support", AmountMg: 2400, Role: RoleBase},
			{IngredientName: "Brain Support", AmountMg: 1100, Role: RoleBase},
			{IngredientName: "Immune Support", AmountMg: 1000, Role: RoleBase},
		},
		Additions: []Line{
			{IngredientName: "Omega-3", AmountMg: 500, Role: RoleAddition},
		},
		TargetCapsules: 6,
	}

	result := v.Validate(f)

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1, "budget overage must produce exactly one error")
	assert.Contains(t, result.Errors[0], "5000")
	assert.Contains(t, result.Errors[0], "3300")
	assert.Contains(t, result.Errors[0], "3465")
}

func TestValidateTooManyIngredients(t *testing.T) {
	v := newTestValidator(t)
	f := &Formula{TargetCapsules: 12}
	for i := 0; i < MaxIngredients+1; i++ {
		f.Additions = append(f.Additions, Line{IngredientName: "Vitamin C", AmountMg: 60, Role: RoleAddition})
	}

	result := v.Validate(f)

	require.False(t, result.Valid)
	joined := strings.Join(result.Errors, "\n")
	assert.Contains(t, joined, "maximum is 15")
}

func TestValidateBelowMinimumCountIsNotAnError(t *testing.T) {
	v := newTestValidator(t)
	f := &Formula{
		Additions: []Line{
			{IngredientName: "Vitamin C", AmountMg: 250, Role: RoleAddition},
			{IngredientName: "Omega-3", AmountMg: 500, Role: RoleAddition},
		},
		TargetCapsules: 9,
	}

	result := v.Validate(f)

	assert.True(t, result.Valid, "below-minimum count is resolved by the expander, not the validator")
}

func TestValidateInvalidCapsuleCount(t *testing.T) {
	v := newTestValidator(t)
	f := wellFormedFormula()
	f.TargetCapsules = 7

	result := v.Validate(f)

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "capsule count 7 is not offered")
}

// All violations must surface in a single pass.
func TestValidatorTotality(t *testing.T) {
	v := newTestValidator(t)
	f := &Formula{
		Additions: []Line{
			{IngredientName: "Unicorn Dust", AmountMg: 100, Role: RoleAddition},
			{IngredientName: "CoEnzyme Q10", AmountMg: 999, Role: RoleAddition},
		},
		TargetCapsules: 7,
	}

	result := v.Validate(f)

	require.False(t, result.Valid)
	assert.Len(t, result.Errors, 3)
}

// TotalMg from input is never trusted: validation re-derives it from the
// lines even after a line was mutated directly.
func TestValidateRederivesTotal(t *testing.T) {
	v := newTestValidator(t)
	f := wellFormedFormula()
	f.TotalMg = 99999

	result := v.Validate(f)

	assert.True(t, result.Valid)
	assert.Equal(t, 2915.0, f.TotalMg)

	f.Additions[0].AmountMg = 150
	v.Validate(f)
	assert.Equal(t, 2965.0, f.TotalMg)
}
