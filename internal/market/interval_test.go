package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntervalDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"1m", time.Minute, true},
		{"15m", 15 * time.Minute, true},
		{"1h", time.Hour, true},
		{"4H", 4 * time.Hour, true},
		{"1d", 24 * time.Hour, true},
		{"1w", 7 * 24 * time.Hour, true},
		{"", 0, false},
		{"h", 0, false},
		{"0m", 0, false},
		{"-1h", 0, false},
		{"1x", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseIntervalDuration(tc.in)
		assert.Equal(t, tc.ok, ok, "interval %q", tc.in)
		assert.Equal(t, tc.want, got, "interval %q", tc.in)
	}
}

func TestDropUnclosed(t *testing.T) {
	now := time.UnixMilli(10_000_000)
	closed := Candle{CloseTime: 9_000_000}
	open := Candle{CloseTime: 13_600_000}

	out := DropUnclosed([]Candle{closed, open}, time.Hour, now)
	require.Len(t, out, 1)
	assert.Equal(t, closed.CloseTime, out[0].CloseTime)

	// 全部已收盘时原样返回
	out = DropUnclosed([]Candle{closed}, time.Hour, now)
	assert.Len(t, out, 1)

	// 空输入与零周期直接透传
	assert.Empty(t, DropUnclosed(nil, time.Hour, now))
	assert.Len(t, DropUnclosed([]Candle{open}, 0, now), 1)
}
