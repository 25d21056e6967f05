package middlewares

import (
	"context"
	"fmt"
	"time"

	"vane/internal/index"
	"vane/internal/pipeline"

	talib "github.com/markcheno/go-talib"
)

// PriceConfig 控制价格动量子指标的参数。
type PriceConfig struct {
	Name       string
	Stage      int
	Critical   bool
	Timeout    time.Duration
	Interval   string
	FastPeriod int
	SlowPeriod int
	// Sensitivity 表示价格偏离慢线 1% 对应的得分位移。
	Sensitivity float64
}

// PriceMiddleware 把收盘价相对均线的偏离映射为 0-100 的贪婪分。
// 价格远在慢线上方记为贪婪，远在下方记为恐惧，贴线为中性 50。
type PriceMiddleware struct {
	meta        pipeline.MiddlewareMeta
	interval    string
	fast        int
	slow        int
	sensitivity float64
}

// NewPriceMiddleware 构造价格协作者。
func NewPriceMiddleware(cfg PriceConfig) *PriceMiddleware {
	if cfg.FastPeriod <= 0 {
		cfg.FastPeriod = 20
	}
	if cfg.SlowPeriod <= cfg.FastPeriod {
		cfg.SlowPeriod = cfg.FastPeriod * 3
	}
	if cfg.Sensitivity <= 0 {
		cfg.Sensitivity = 5
	}
	return &PriceMiddleware{
		meta: pipeline.MiddlewareMeta{
			Name:     nameOrDefault(cfg.Name, "price"),
			Group:    index.GroupInternal,
			Scale:    index.ScalePercent,
			Stage:    cfg.Stage,
			Critical: cfg.Critical,
			Timeout:  cfg.Timeout,
		},
		interval:    intervalOrDefault(cfg.Interval),
		fast:        cfg.FastPeriod,
		slow:        cfg.SlowPeriod,
		sensitivity: cfg.Sensitivity,
	}
}

// Meta 实现接口。
func (m *PriceMiddleware) Meta() pipeline.MiddlewareMeta { return m.meta }

// Handle 计算价格子指标。
func (m *PriceMiddleware) Handle(ctx context.Context, sc *pipeline.ScoreContext) error {
	candles := sc.Candles(m.interval)
	if len(candles) < m.slow+1 {
		return fmt.Errorf("price: insufficient candles %s need %d got %d", m.interval, m.slow+1, len(candles))
	}
	series := closes(candles)
	fastEMA, okFast := lastFinite(talib.Ema(series, m.fast))
	slowEMA, okSlow := lastFinite(talib.Ema(series, m.slow))
	if !okFast || !okSlow || slowEMA == 0 {
		return fmt.Errorf("price: ema output empty for %s", m.interval)
	}
	last := series[len(series)-1]
	// 偏离以慢线为基准，快线提供方向微调。
	deviation := (last - slowEMA) / slowEMA * 100
	bias := 0.0
	if fastEMA > slowEMA {
		bias = 5
	} else if fastEMA < slowEMA {
		bias = -5
	}
	score := clampPercent(50 + deviation*m.sensitivity + bias)
	sc.AddScore(index.SubScore{
		Name:  m.meta.Name,
		Value: score,
		Group: m.meta.Group,
		Scale: m.meta.Scale,
	})
	return nil
}
