package formula

// Capsule budget policy. A capsule has a fixed physical capacity; users
// choose from a small closed set of capsule counts, and the chosen count
// caps the formula's total milligram payload.
const (
	// CapsuleCapacityMg is the physical payload of one capsule.
	CapsuleCapacityMg = 550.0
	// DefaultCapsules is used whenever no valid count was chosen. Capsule
	// count is a packaging choice, not safety-critical, so an out-of-set
	// request falls back here instead of erroring.
	DefaultCapsules = 9
	// ToleranceFraction is the overage allowed on the budget to absorb
	// rounding in AI-proposed dosages.
	ToleranceFraction = 0.05

	// MinLineDoseMg is the smallest meaningful dose for any single line.
	MinLineDoseMg = 10.0

	// MinIngredients and MaxIngredients bound the total line count of a
	// sellable formula.
	MinIngredients = 8
	MaxIngredients = 15
)

// validCapsuleCounts is the closed set of capsule counts offered to users.
var validCapsuleCounts = []int{6, 9, 12}

// ValidCapsuleCount reports whether n is one of the offered counts.
func ValidCapsuleCount(n int) bool {
	for _, v := range validCapsuleCounts {
		if n == v {
			return true
		}
	}
	return false
}

// ValidCapsuleCounts returns the offered counts in ascending order.
func ValidCapsuleCounts() []int {
	out := make([]int, len(validCapsuleCounts))
	copy(out, validCapsuleCounts)
	return out
}

// MaxDosage returns the maximum total payload in milligrams for a capsule
// count, falling back to the default count when the request is out of set.
func MaxDosage(targetCapsules int) float64 {
	if !ValidCapsuleCount(targetCapsules) {
		targetCapsules = DefaultCapsules
	}
	return float64(targetCapsules) * CapsuleCapacityMg
}

// MaxWithTolerance returns the budget ceiling including the rounding
// tolerance.
func MaxWithTolerance(targetCapsules int) float64 {
	return MaxDosage(targetCapsules) * (1 + ToleranceFraction)
}
