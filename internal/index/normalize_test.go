package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePassThrough(t *testing.T) {
	in := []SubScore{
		percentScore("price", 0, GroupInternal),
		percentScore("volume", 100, GroupInternal),
		{Name: "impulse", Value: -1, Group: GroupInternal, Scale: ScaleSigned},
		{Name: "technical", Value: 0.37, Group: GroupInternal, Scale: ScaleSigned},
	}
	out, err := Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestNormalizeEpsilonTolerance(t *testing.T) {
	// 浮点毛刺在 ±1e-6 内放行。
	_, err := Normalize([]SubScore{percentScore("price", 100.0000005, GroupInternal)})
	assert.NoError(t, err)

	_, err = Normalize([]SubScore{percentScore("price", 100.01, GroupInternal)})
	assert.ErrorIs(t, err, ErrInvalidScoreRange)
}

func TestNormalizeRejectsOutOfRange(t *testing.T) {
	cases := []SubScore{
		percentScore("price", -3, GroupInternal),
		percentScore("volume", 112, GroupInternal),
		{Name: "impulse", Value: 1.2, Group: GroupInternal, Scale: ScaleSigned},
		{Name: "social", Value: -1.5, Group: GroupExternal, Scale: ScaleSigned},
	}
	for _, sc := range cases {
		_, err := Normalize([]SubScore{sc})
		require.Error(t, err, "score %+v", sc)
		assert.ErrorIs(t, err, ErrInvalidScoreRange)
		assert.Contains(t, err.Error(), sc.Name)
	}
}

func TestNormalizeRejectsUnknownScale(t *testing.T) {
	_, err := Normalize([]SubScore{{Name: "price", Value: 10, Group: GroupInternal, Scale: "basis_points"}})
	assert.ErrorIs(t, err, ErrInvalidScoreRange)
}
