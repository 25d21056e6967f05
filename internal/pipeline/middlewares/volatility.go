package middlewares

import (
	"context"
	"fmt"
	"time"

	"vane/internal/index"
	"vane/internal/pipeline"

	talib "github.com/markcheno/go-talib"
)

// VolatilityConfig 控制波动率子指标的参数。
type VolatilityConfig struct {
	Name     string
	Stage    int
	Critical bool
	Timeout  time.Duration
	Interval string
	Period   int
	// CalmATRPercent 与 PanicATRPercent 界定 ATR 占比的打分区间。
	CalmATRPercent  float64
	PanicATRPercent float64
}

// VolatilityMiddleware 把 ATR 占价比映射为情绪分。
// 波动收敛时市场安逸（高分偏贪婪），波动放大时恐慌（低分偏恐惧）。
type VolatilityMiddleware struct {
	meta     pipeline.MiddlewareMeta
	interval string
	period   int
	calm     float64
	panicPct float64
}

// NewVolatilityMiddleware 构造波动率协作者。
func NewVolatilityMiddleware(cfg VolatilityConfig) *VolatilityMiddleware {
	if cfg.Period <= 0 {
		cfg.Period = 14
	}
	if cfg.CalmATRPercent <= 0 {
		cfg.CalmATRPercent = 1
	}
	if cfg.PanicATRPercent <= cfg.CalmATRPercent {
		cfg.PanicATRPercent = cfg.CalmATRPercent * 6
	}
	return &VolatilityMiddleware{
		meta: pipeline.MiddlewareMeta{
			Name:     nameOrDefault(cfg.Name, "volatility"),
			Group:    index.GroupInternal,
			Scale:    index.ScalePercent,
			Stage:    cfg.Stage,
			Critical: cfg.Critical,
			Timeout:  cfg.Timeout,
		},
		interval: intervalOrDefault(cfg.Interval),
		period:   cfg.Period,
		calm:     cfg.CalmATRPercent,
		panicPct: cfg.PanicATRPercent,
	}
}

// Meta 实现接口。
func (m *VolatilityMiddleware) Meta() pipeline.MiddlewareMeta { return m.meta }

// Handle 计算波动率子指标。
func (m *VolatilityMiddleware) Handle(ctx context.Context, sc *pipeline.ScoreContext) error {
	candles := sc.Candles(m.interval)
	if len(candles) < m.period+1 {
		return fmt.Errorf("volatility: insufficient candles %s need %d got %d", m.interval, m.period+1, len(candles))
	}
	atr, ok := lastFinite(talib.Atr(highs(candles), lows(candles), closes(candles), m.period))
	if !ok {
		return fmt.Errorf("volatility: atr output empty for %s", m.interval)
	}
	last := candles[len(candles)-1].Close
	if last <= 0 {
		return fmt.Errorf("volatility: non-positive close for %s", m.interval)
	}
	atrPct := atr / last * 100
	// calm 及以下打满分，panic 及以上打零分，中间线性过渡。
	score := 100 * (m.panicPct - atrPct) / (m.panicPct - m.calm)
	sc.AddScore(index.SubScore{
		Name:  m.meta.Name,
		Value: clampPercent(score),
		Group: m.meta.Group,
		Scale: m.meta.Scale,
	})
	return nil
}
