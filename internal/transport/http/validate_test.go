package vanehttp

import (
	"testing"

	"vane/internal/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEvaluatePayload(t *testing.T) {
	req, err := ValidateEvaluatePayload(`{
		"symbol": "btcusdt",
		"volatility": 42,
		"scores": [
			{"name": "price", "value": 85, "group": "internal"},
			{"name": "whales", "value": "-0.6", "group": "external", "scale": "signed"}
		]
	}`)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", req.Symbol)
	assert.Equal(t, 42.0, req.Volatility)
	require.Len(t, req.Scores, 2)

	assert.Equal(t, index.SubScore{
		Name:  "price",
		Value: 85,
		Group: index.GroupInternal,
		Scale: index.ScalePercent,
	}, req.Scores[0])
	// 字符串数值被宽松转换
	assert.Equal(t, index.SubScore{
		Name:  "whales",
		Value: -0.6,
		Group: index.GroupExternal,
		Scale: index.ScaleSigned,
	}, req.Scores[1])
}

func TestValidateEvaluatePayloadRejects(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		errPart string
	}{
		{"empty body", "   ", "empty"},
		{"broken json", `{"scores": [`, "invalid json"},
		{"root not object", `[1, 2]`, "json object"},
		{"missing scores", `{"symbol": "BTCUSDT"}`, "scores"},
		{"empty scores", `{"scores": []}`, "non-empty"},
		{"score not object", `{"scores": [42]}`, "must be an object"},
		{"missing name", `{"scores": [{"value": 50, "group": "internal"}]}`, "missing name"},
		{"missing value", `{"scores": [{"name": "price", "group": "internal"}]}`, "missing value"},
		{"missing group", `{"scores": [{"name": "price", "value": 50}]}`, "missing group"},
		{"unknown group", `{"scores": [{"name": "price", "value": 50, "group": "sideways"}]}`, "unknown group"},
		{"unknown scale", `{"scores": [{"name": "price", "value": 50, "group": "internal", "scale": "log"}]}`, "unknown scale"},
		{"negative volatility", `{"volatility": -1, "scores": [{"name": "price", "value": 50, "group": "internal"}]}`, "volatility"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateEvaluatePayload(tc.raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errPart)
		})
	}
}

func TestParseGroupAndScaleCaseInsensitive(t *testing.T) {
	g, err := parseGroup(1, " Internal ")
	require.NoError(t, err)
	assert.Equal(t, index.GroupInternal, g)

	s, err := parseScale(1, "PERCENT")
	require.NoError(t, err)
	assert.Equal(t, index.ScalePercent, s)

	s, err = parseScale(1, "")
	require.NoError(t, err)
	assert.Equal(t, index.ScalePercent, s)
}
