package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxDosage(t *testing.T) {
	tests := []struct {
		name     string
		capsules int
		want     float64
	}{
		{"SixCapsules", 6, 3300},
		{"NineCapsules", 9, 4950},
		{"TwelveCapsules", 12, 6600},
		{"UnsetFallsBackToDefault", 0, 4950},
		{"OutOfSetFallsBackToDefault", 7, 4950},
		{"NegativeFallsBackToDefault", -3, 4950},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaxDosage(tt.capsules))
		})
	}
}

func TestMaxWithTolerance(t *testing.T) {
	assert.InDelta(t, 3465, MaxWithTolerance(6), 0.001)
	assert.InDelta(t, 5197.5, MaxWithTolerance(9), 0.001)
	assert.InDelta(t, 6930, MaxWithTolerance(12), 0.001)
}

// Budget must grow strictly with capsule count across the offered set.
func TestBudgetMonotonicity(t *testing.T) {
	counts := ValidCapsuleCounts()
	for i := 1; i < len(counts); i++ {
		assert.Less(t, MaxDosage(counts[i-1]), MaxDosage(counts[i]))
		assert.Less(t, MaxWithTolerance(counts[i-1]), MaxWithTolerance(counts[i]))
	}
}

func TestValidCapsuleCount(t *testing.T) {
	assert.True(t, ValidCapsuleCount(6))
	assert.True(t, ValidCapsuleCount(9))
	assert.True(t, ValidCapsuleCount(12))
	assert.False(t, ValidCapsuleCount(0))
	assert.False(t, ValidCapsuleCount(8))
	assert.False(t, ValidCapsuleCount(24))
}
