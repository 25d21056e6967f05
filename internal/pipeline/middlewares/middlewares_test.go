package middlewares

import (
	"context"
	"math"
	"testing"

	"vane/internal/index"
	"vane/internal/market"
	"vane/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTrend 生成线性走势的 K 线：step>0 上涨，step<0 下跌。
func makeTrend(n int, start, step float64) []market.Candle {
	out := make([]market.Candle, n)
	price := start
	for i := range out {
		out[i] = market.Candle{
			OpenTime:  int64(i) * 3600_000,
			CloseTime: int64(i+1)*3600_000 - 1,
			Open:      price,
			High:      price + 0.5,
			Low:       price - 0.5,
			Close:     price,
			Volume:    100,
		}
		price += step
	}
	return out
}

func contextWith(t *testing.T, interval string, candles []market.Candle) *pipeline.ScoreContext {
	t.Helper()
	sc := pipeline.NewScoreContext("BTCUSDT")
	sc.SetCandles(interval, candles)
	return sc
}

func singleScore(t *testing.T, sc *pipeline.ScoreContext) index.SubScore {
	t.Helper()
	scores := sc.Scores()
	require.Len(t, scores, 1)
	return scores[0]
}

func TestPriceMiddlewareTrendDirection(t *testing.T) {
	mw := NewPriceMiddleware(PriceConfig{Interval: "1h"})
	require.Equal(t, "price", mw.Meta().Name)
	require.Equal(t, index.GroupInternal, mw.Meta().Group)

	up := contextWith(t, "1h", makeTrend(260, 100, 1))
	require.NoError(t, mw.Handle(context.Background(), up))
	upScore := singleScore(t, up)
	assert.Greater(t, upScore.Value, 50.0)
	assert.LessOrEqual(t, upScore.Value, 100.0)

	down := contextWith(t, "1h", makeTrend(260, 400, -1))
	require.NoError(t, mw.Handle(context.Background(), down))
	assert.Less(t, singleScore(t, down).Value, 50.0)
}

func TestPriceMiddlewareInsufficientData(t *testing.T) {
	mw := NewPriceMiddleware(PriceConfig{Interval: "1h"})
	sc := contextWith(t, "1h", makeTrend(10, 100, 1))
	err := mw.Handle(context.Background(), sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient candles")
}

func TestVolatilityMiddlewareCalmVersusPanic(t *testing.T) {
	mw := NewVolatilityMiddleware(VolatilityConfig{Interval: "1h"})

	// 窄幅震荡：ATR 占比远低于 calm 线，打满分。
	calm := contextWith(t, "1h", makeTrend(40, 1000, 0))
	require.NoError(t, mw.Handle(context.Background(), calm))
	assert.InDelta(t, 100, singleScore(t, calm).Value, 1e-9)

	// 大幅波动：ATR 占比远超 panic 线，打零分。
	wild := makeTrend(40, 1000, 0)
	for i := range wild {
		wild[i].High = wild[i].Close + 100
		wild[i].Low = wild[i].Close - 100
	}
	panicCtx := contextWith(t, "1h", wild)
	require.NoError(t, mw.Handle(context.Background(), panicCtx))
	assert.InDelta(t, 0, singleScore(t, panicCtx).Value, 1e-9)
}

func TestVolumeMiddlewareRatio(t *testing.T) {
	mw := NewVolumeMiddleware(VolumeConfig{Interval: "1h"})

	// 量能等于均量记 50 分。
	flat := contextWith(t, "1h", makeTrend(40, 100, 0))
	require.NoError(t, mw.Handle(context.Background(), flat))
	assert.InDelta(t, 50, singleScore(t, flat).Value, 1e-9)

	// 尾部放量三倍，比率超过 fullRatio，钳制到 100。
	spike := makeTrend(40, 100, 0)
	spike[len(spike)-1].Volume = 300
	spikeCtx := contextWith(t, "1h", spike)
	require.NoError(t, mw.Handle(context.Background(), spikeCtx))
	assert.InDelta(t, 100, singleScore(t, spikeCtx).Value, 1e-9)
}

func TestImpulseMiddlewareMomentum(t *testing.T) {
	mw := NewImpulseMiddleware(ImpulseConfig{Interval: "1h"})

	up := contextWith(t, "1h", makeTrend(40, 100, 2))
	require.NoError(t, mw.Handle(context.Background(), up))
	assert.Greater(t, singleScore(t, up).Value, 70.0)

	// 单边下跌时 RSI 恰为 0，必须正常出分而不是报数据为空。
	down := contextWith(t, "1h", makeTrend(40, 400, -2))
	require.NoError(t, mw.Handle(context.Background(), down))
	downScore := singleScore(t, down)
	assert.GreaterOrEqual(t, downScore.Value, 0.0)
	assert.Less(t, downScore.Value, 30.0)
}

func TestLastFinite(t *testing.T) {
	// 0 是合法值，不能跳过
	v, ok := lastFinite([]float64{0, 0, 55.5, 0})
	require.True(t, ok)
	assert.Equal(t, 0.0, v)

	// 末位的 NaN/Inf 跳过，取前一个有限值
	v, ok = lastFinite([]float64{1.5, math.Inf(1), math.NaN()})
	require.True(t, ok)
	assert.Equal(t, 1.5, v)

	_, ok = lastFinite(nil)
	assert.False(t, ok)
	_, ok = lastFinite([]float64{math.NaN()})
	assert.False(t, ok)
}

func TestTechnicalMiddlewareConsensus(t *testing.T) {
	mw := NewTechnicalMiddleware(TechnicalConfig{Interval: "1h"})

	up := contextWith(t, "1h", makeTrend(260, 100, 1))
	require.NoError(t, mw.Handle(context.Background(), up))
	assert.InDelta(t, 100, singleScore(t, up).Value, 1e-9)

	down := contextWith(t, "1h", makeTrend(260, 400, -1))
	require.NoError(t, mw.Handle(context.Background(), down))
	assert.InDelta(t, 0, singleScore(t, down).Value, 1e-9)
}

func TestMiddlewareMetaDefaults(t *testing.T) {
	cases := []struct {
		name string
		mw   pipeline.Middleware
	}{
		{"price", NewPriceMiddleware(PriceConfig{})},
		{"volatility", NewVolatilityMiddleware(VolatilityConfig{})},
		{"volume", NewVolumeMiddleware(VolumeConfig{})},
		{"impulse", NewImpulseMiddleware(ImpulseConfig{})},
		{"technical", NewTechnicalMiddleware(TechnicalConfig{})},
	}
	for _, tc := range cases {
		meta := tc.mw.Meta()
		assert.Equal(t, tc.name, meta.Name)
		assert.Equal(t, index.GroupInternal, meta.Group)
		assert.Equal(t, index.ScalePercent, meta.Scale)
	}
}
