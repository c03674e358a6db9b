package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectAnomaliesFlagsSpike(t *testing.T) {
	weekly := map[string]int{
		"w1": 10, "w2": 12, "w3": 9, "w4": 100, "w5": 11, "w6": 8,
	}

	// Mean over all non-zero weeks (spike included) is 25, threshold 75.
	hasAnomaly, weeks := DetectAnomalies(weekly, 3)

	assert.True(t, hasAnomaly)
	assert.Equal(t, []string{"w4"}, weeks)
}

func TestDetectAnomaliesSteadySeller(t *testing.T) {
	weekly := map[string]int{"w1": 10, "w2": 12, "w3": 9, "w4": 11}

	hasAnomaly, weeks := DetectAnomalies(weekly, 3)

	assert.False(t, hasAnomaly)
	assert.Empty(t, weeks)
}

func TestDetectAnomaliesIgnoresZeroWeeksInMean(t *testing.T) {
	// A sparse seller: zeros must not drag the mean down and flag the
	// real weeks.
	weekly := map[string]int{"w1": 0, "w2": 0, "w3": 0, "w4": 10, "w5": 12}

	hasAnomaly, _ := DetectAnomalies(weekly, 3)

	assert.False(t, hasAnomaly)
}

func TestDetectAnomaliesAllZero(t *testing.T) {
	weekly := map[string]int{"w1": 0, "w2": 0}

	hasAnomaly, weeks := DetectAnomalies(weekly, 3)

	assert.False(t, hasAnomaly)
	assert.Nil(t, weeks)
}

func TestDetectAnomaliesEmpty(t *testing.T) {
	hasAnomaly, weeks := DetectAnomalies(nil, 3)

	assert.False(t, hasAnomaly)
	assert.Nil(t, weeks)
}

func TestDetectAnomaliesThresholdIsStrict(t *testing.T) {
	// Every week equal: threshold = mean*3, no week strictly exceeds it.
	weekly := map[string]int{"w1": 5, "w2": 5, "w3": 15}

	hasAnomaly, _ := DetectAnomalies(weekly, 3)

	// mean = 25/3 ≈ 8.33, threshold 25; 15 < 25.
	assert.False(t, hasAnomaly)
}
