package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scoresOf(values ...float64) []SubScore {
	out := make([]SubScore, 0, len(values))
	names := []string{"price", "volatility", "volume", "impulse", "technical", "social", "trends", "whales", "orderBook"}
	for i, v := range values {
		out = append(out, percentScore(names[i%len(names)], v, GroupInternal))
	}
	return out
}

func TestConfidencePerfectAgreement(t *testing.T) {
	c := EstimateConfidence(scoresOf(60, 60, 60, 60))
	assert.InDelta(t, 100, c.Score, 1e-9)
	assert.Equal(t, ConfidenceHigh, c.Level)
}

func TestConfidenceDispersionDepressesScore(t *testing.T) {
	// 相同均值（50），方差越大置信度不得更高。
	tight := EstimateConfidence(scoresOf(48, 50, 52, 50))
	wide := EstimateConfidence(scoresOf(20, 50, 80, 50))
	assert.GreaterOrEqual(t, tight.Score, wide.Score)
}

func TestConfidenceLevels(t *testing.T) {
	cases := []struct {
		values []float64
		level  ConfidenceLevel
	}{
		{[]float64{50, 50, 50}, ConfidenceHigh},
		// stdDev 20 -> score 60
		{[]float64{30, 70}, ConfidenceMedium},
		// stdDev 40 -> score 20
		{[]float64{10, 90}, ConfidenceLow},
	}
	for _, tc := range cases {
		c := EstimateConfidence(scoresOf(tc.values...))
		assert.Equal(t, tc.level, c.Level, "values %v score %.1f", tc.values, c.Score)
	}
}

func TestConfidenceClampedAtZero(t *testing.T) {
	// stdDev 50 -> 原始分 0；极端发散时钳制在 0。
	c := EstimateConfidence(scoresOf(0, 100))
	assert.InDelta(t, 0, c.Score, 1e-9)
	assert.Equal(t, ConfidenceLow, c.Level)
}

func TestConfidenceEmptyInput(t *testing.T) {
	c := EstimateConfidence(nil)
	assert.Equal(t, ConfidenceLow, c.Level)
	assert.Zero(t, c.Score)
}
