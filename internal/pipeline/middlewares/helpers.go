package middlewares

import (
	"math"
	"strings"

	"vane/internal/market"
)

func closes(candles []market.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

func highs(candles []market.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.High
	}
	return out
}

func lows(candles []market.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Low
	}
	return out
}

func volumes(candles []market.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Volume
	}
	return out
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 50
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// lastFinite 返回序列末尾最近一个有限值。
// talib 的 warm-up 前缀填 0，但各协作者都要求了足量 K 线，
// 末位必然越过 warm-up；0 本身是合法输出（单边下跌时 RSI 恰为 0），
// 不能当作缺数据跳过。
func lastFinite(series []float64) (float64, bool) {
	for i := len(series) - 1; i >= 0; i-- {
		v := series[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		return v, true
	}
	return 0, false
}

func nameOrDefault(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	return name
}

func intervalOrDefault(interval string) string {
	interval = strings.ToLower(strings.TrimSpace(interval))
	if interval == "" {
		return "1h"
	}
	return interval
}
