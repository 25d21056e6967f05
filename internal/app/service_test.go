package app

import (
	"context"
	"path/filepath"
	"testing"

	"vane/internal/calibration"
	"vane/internal/decision"
	"vane/internal/index"
	"vane/internal/market"
	"vane/internal/store/runlog"
	vanehttp "vane/internal/transport/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func percentScore(name string, value float64, group index.Group) index.SubScore {
	return index.SubScore{Name: name, Value: value, Group: group, Scale: index.ScalePercent}
}

func fullScoreSet() []index.SubScore {
	return []index.SubScore{
		percentScore("price", 77.8, index.GroupInternal),
		percentScore("volatility", 81.3, index.GroupInternal),
		percentScore("volume", 97.9, index.GroupInternal),
		percentScore("impulse", 77.8, index.GroupInternal),
		percentScore("technical", 84.8, index.GroupInternal),
		percentScore("social", 80.45, index.GroupExternal),
		percentScore("trends", 71.20, index.GroupExternal),
		percentScore("whales", 80.45, index.GroupExternal),
		percentScore("orderBook", 76.55, index.GroupExternal),
	}
}

func newTestService(t *testing.T, store *runlog.Store) *Service {
	t.Helper()
	svc, err := NewService(ServiceConfig{
		Calibration: calibration.Default(),
		Store:       store,
	})
	require.NoError(t, err)
	return svc
}

func TestEvaluateScoresFullChain(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.EvaluateScores(context.Background(), vanehttp.EvaluateRequest{
		Symbol:     "BTCUSDT",
		Volatility: 81.3,
		Scores:     fullScoreSet(),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.TraceID)
	assert.Equal(t, "BTCUSDT", resp.Symbol)
	assert.Equal(t, 81, resp.Result.Score)
	assert.Equal(t, index.LabelExtremeGreed, resp.Result.SentimentLabel)
	assert.Equal(t, index.ConfidenceHigh, resp.Result.Confidence.Level)
	assert.Equal(t, decision.StrategyOverboughtDistribution, resp.Strategy)
	assert.Equal(t, decision.StrategyOverboughtDistribution, resp.Plan.StrategyType)
	assert.Greater(t, resp.PositionSize, 0.0)
	assert.LessOrEqual(t, resp.PositionSize, decision.DefaultMaxPositionSize)
}

func TestEvaluateScoresVolatilityFallback(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	// 未显式给波动率时取 volatility 子指标（81.3），仓位必须被阻尼。
	implicit, err := svc.EvaluateScores(ctx, vanehttp.EvaluateRequest{
		Symbol: "BTCUSDT",
		Scores: fullScoreSet(),
	})
	require.NoError(t, err)
	assert.InDelta(t, 31.6688, implicit.PositionSize, 1e-3)

	// 与显式传同值的结果一致
	explicit, err := svc.EvaluateScores(ctx, vanehttp.EvaluateRequest{
		Symbol:     "BTCUSDT",
		Volatility: 81.3,
		Scores:     fullScoreSet(),
	})
	require.NoError(t, err)
	assert.Equal(t, explicit.PositionSize, implicit.PositionSize)

	// 显式字段优先于子指标
	override, err := svc.EvaluateScores(ctx, vanehttp.EvaluateRequest{
		Symbol:     "BTCUSDT",
		Volatility: 200,
		Scores:     fullScoreSet(),
	})
	require.NoError(t, err)
	assert.Zero(t, override.PositionSize)
}

func TestEvaluateScoresPersistsRun(t *testing.T) {
	store, err := runlog.New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := newTestService(t, store)
	resp, err := svc.EvaluateScores(context.Background(), vanehttp.EvaluateRequest{
		Symbol: "ETHUSDT",
		Scores: fullScoreSet(),
	})
	require.NoError(t, err)

	rec, err := store.GetRun(context.Background(), resp.TraceID)
	require.NoError(t, err)
	assert.Equal(t, "ETHUSDT", rec.Symbol)
	assert.Equal(t, resp.Result.Score, rec.Score)
	assert.Equal(t, string(resp.Strategy), rec.Strategy)
}

func TestEvaluateScoresRejectsBadScores(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.EvaluateScores(context.Background(), vanehttp.EvaluateRequest{
		Scores: []index.SubScore{percentScore("price", 140, index.GroupInternal)},
	})
	assert.ErrorIs(t, err, index.ErrInvalidScoreRange)

	_, err = svc.EvaluateScores(context.Background(), vanehttp.EvaluateRequest{
		Scores: []index.SubScore{percentScore("astrology", 50, index.GroupInternal)},
	})
	assert.ErrorIs(t, err, index.ErrMissingWeight)
}

func TestEvaluateSymbolRequiresSource(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.EvaluateSymbol(context.Background(), "BTCUSDT")
	require.Error(t, err)
}

func TestMarketVolatility(t *testing.T) {
	assert.Zero(t, marketVolatility(nil))

	// 恒定 2% 振幅的横盘序列：ATR 占价比约 2%，折算后约 20。
	candles := make([]market.Candle, 40)
	for i := range candles {
		candles[i] = market.Candle{High: 102, Low: 100, Close: 101}
	}
	vol := marketVolatility(candles)
	assert.InDelta(t, 19.8, vol, 1.5)

	// 剧烈波动时钳在 100
	wild := make([]market.Candle, 40)
	for i := range wild {
		wild[i] = market.Candle{High: 150, Low: 50, Close: 100}
	}
	assert.Equal(t, 100.0, marketVolatility(wild))
}
