package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolationForest_BelowMinSamples(t *testing.T) {
	forest := NewIsolationForest()

	for _, values := range [][]float64{
		nil,
		{1},
		{1, 2},
		{1, 2, 3, 4},
	} {
		mask := forest.Detect(values)
		assert.Len(t, mask, len(values))
		for i, flagged := range mask {
			assert.False(t, flagged, "value %d should not be flagged", i)
		}
	}
}

func TestIsolationForest_FlagsExtremeOutlier(t *testing.T) {
	forest := NewIsolationForest()

	// Ten clustered values plus one extreme outlier at the end.
	values := []float64{10.1, 9.8, 10.3, 10.0, 9.9, 10.2, 10.1, 9.7, 10.4, 10.0, 500.0}
	mask := forest.Detect(values)

	require.Len(t, mask, len(values))
	assert.True(t, mask[len(values)-1], "extreme outlier should be flagged")
}

func TestIsolationForest_Deterministic(t *testing.T) {
	forest := NewIsolationForest()
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}

	first := forest.Detect(values)
	second := forest.Detect(values)

	assert.Equal(t, first, second)
}

func TestIsolationForest_MaskLengthMatchesInput(t *testing.T) {
	forest := NewIsolationForest()
	values := []float64{5, 5, 5, 5, 5, 5, 5}

	mask := forest.Detect(values)
	assert.Len(t, mask, len(values))
}
