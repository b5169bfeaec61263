package riskscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	s, err := Score(3, 4)
	require.NoError(t, err)
	assert.Equal(t, 12, s)

	_, err = Score(0, 3)
	assert.Error(t, err)
	_, err = Score(2, 6)
	assert.Error(t, err)
}

func TestLevelOf(t *testing.T) {
	cases := map[int]Level{1: Low, 4: Low, 5: Medium, 9: Medium, 10: High, 16: High, 17: Critical, 25: Critical}
	for score, want := range cases {
		assert.Equal(t, want, LevelOf(score), "score %d", score)
	}
}

func TestAssetRisk(t *testing.T) {
	a := AssetRisk(0.1, "excellent", 2)
	assert.Equal(t, Assessment{Likelihood: 1, Impact: 2, Score: 2, Level: Low}, a)

	a = AssetRisk(0.8, "fair", 4)
	assert.Equal(t, 4, a.Likelihood)
	assert.Equal(t, 16, a.Score)
	assert.Equal(t, High, a.Level)

	a = AssetRisk(1.2, "poor", 5)
	assert.Equal(t, MaxRating, a.Likelihood)
	assert.Equal(t, Critical, a.Level)

	a = AssetRisk(0, "broken", 0)
	assert.Equal(t, 5, a.Likelihood)
	assert.Equal(t, 1, a.Impact)
	assert.Equal(t, Medium, a.Level)
}
