package middlewares

import (
	"context"
	"fmt"
	"time"

	"vane/internal/index"
	"vane/internal/pipeline"

	talib "github.com/markcheno/go-talib"
)

// TechnicalConfig 控制技术共识子指标的参数。
type TechnicalConfig struct {
	Name       string
	Stage      int
	Critical   bool
	Timeout    time.Duration
	Interval   string
	FastPeriod int
	MidPeriod  int
	SlowPeriod int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
}

// TechnicalMiddleware 对一组经典信号投票，折算成技术共识分。
// 信号包括均线排列、价格相对各均线的位置与 MACD 柱方向。
type TechnicalMiddleware struct {
	meta       pipeline.MiddlewareMeta
	interval   string
	fast       int
	mid        int
	slow       int
	macdFast   int
	macdSlow   int
	macdSignal int
}

// NewTechnicalMiddleware 构造技术共识协作者。
func NewTechnicalMiddleware(cfg TechnicalConfig) *TechnicalMiddleware {
	if cfg.FastPeriod <= 0 {
		cfg.FastPeriod = 20
	}
	if cfg.MidPeriod <= cfg.FastPeriod {
		cfg.MidPeriod = 50
	}
	if cfg.SlowPeriod <= cfg.MidPeriod {
		cfg.SlowPeriod = 200
	}
	if cfg.MACDFast <= 0 {
		cfg.MACDFast = 12
	}
	if cfg.MACDSlow <= cfg.MACDFast {
		cfg.MACDSlow = 26
	}
	if cfg.MACDSignal <= 0 {
		cfg.MACDSignal = 9
	}
	return &TechnicalMiddleware{
		meta: pipeline.MiddlewareMeta{
			Name:     nameOrDefault(cfg.Name, "technical"),
			Group:    index.GroupInternal,
			Scale:    index.ScalePercent,
			Stage:    cfg.Stage,
			Critical: cfg.Critical,
			Timeout:  cfg.Timeout,
		},
		interval:   intervalOrDefault(cfg.Interval),
		fast:       cfg.FastPeriod,
		mid:        cfg.MidPeriod,
		slow:       cfg.SlowPeriod,
		macdFast:   cfg.MACDFast,
		macdSlow:   cfg.MACDSlow,
		macdSignal: cfg.MACDSignal,
	}
}

// Meta 实现接口。
func (m *TechnicalMiddleware) Meta() pipeline.MiddlewareMeta { return m.meta }

// Handle 计算技术共识子指标。
func (m *TechnicalMiddleware) Handle(ctx context.Context, sc *pipeline.ScoreContext) error {
	candles := sc.Candles(m.interval)
	if len(candles) < m.slow+1 {
		return fmt.Errorf("technical: insufficient candles %s need %d got %d", m.interval, m.slow+1, len(candles))
	}
	series := closes(candles)
	fastEMA, okFast := lastFinite(talib.Ema(series, m.fast))
	midEMA, okMid := lastFinite(talib.Ema(series, m.mid))
	slowEMA, okSlow := lastFinite(talib.Ema(series, m.slow))
	if !okFast || !okMid || !okSlow {
		return fmt.Errorf("technical: ema output empty for %s", m.interval)
	}
	_, _, hist := talib.Macd(series, m.macdFast, m.macdSlow, m.macdSignal)
	histVal := 0.0
	if len(hist) > 0 {
		histVal = hist[len(hist)-1]
	}
	last := series[len(series)-1]

	votes := 0
	total := 6
	if fastEMA > midEMA {
		votes++
	}
	if midEMA > slowEMA {
		votes++
	}
	if last > fastEMA {
		votes++
	}
	if last > midEMA {
		votes++
	}
	if last > slowEMA {
		votes++
	}
	if histVal > 0 {
		votes++
	}
	score := float64(votes) / float64(total) * 100
	sc.AddScore(index.SubScore{
		Name:  m.meta.Name,
		Value: clampPercent(score),
		Group: m.meta.Group,
		Scale: m.meta.Scale,
	})
	return nil
}
