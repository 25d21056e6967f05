package middlewares

import (
	"context"
	"fmt"
	"time"

	"vane/internal/index"
	"vane/internal/pipeline"

	talib "github.com/markcheno/go-talib"
)

// ImpulseConfig 控制动能子指标的参数。
type ImpulseConfig struct {
	Name      string
	Stage     int
	Critical  bool
	Timeout   time.Duration
	Interval  string
	RSIPeriod int
	ROCPeriod int
	// ROCWeight 是 ROC 分量在混合中的占比，其余给 RSI。
	ROCWeight float64
	// ROCFullPercent 表示 ROC 达到多少百分比时打满偏移。
	ROCFullPercent float64
}

// ImpulseMiddleware 用 RSI 与 ROC 混合出短期冲量分。
// RSI 天然落在 0-100，ROC 折算成围绕 50 的偏移后按权重融合。
type ImpulseMiddleware struct {
	meta      pipeline.MiddlewareMeta
	interval  string
	rsiPeriod int
	rocPeriod int
	rocWeight float64
	rocFull   float64
}

// NewImpulseMiddleware 构造动能协作者。
func NewImpulseMiddleware(cfg ImpulseConfig) *ImpulseMiddleware {
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = 14
	}
	if cfg.ROCPeriod <= 0 {
		cfg.ROCPeriod = 9
	}
	if cfg.ROCWeight <= 0 || cfg.ROCWeight >= 1 {
		cfg.ROCWeight = 0.4
	}
	if cfg.ROCFullPercent <= 0 {
		cfg.ROCFullPercent = 10
	}
	return &ImpulseMiddleware{
		meta: pipeline.MiddlewareMeta{
			Name:     nameOrDefault(cfg.Name, "impulse"),
			Group:    index.GroupInternal,
			Scale:    index.ScalePercent,
			Stage:    cfg.Stage,
			Critical: cfg.Critical,
			Timeout:  cfg.Timeout,
		},
		interval:  intervalOrDefault(cfg.Interval),
		rsiPeriod: cfg.RSIPeriod,
		rocPeriod: cfg.ROCPeriod,
		rocWeight: cfg.ROCWeight,
		rocFull:   cfg.ROCFullPercent,
	}
}

// Meta 实现接口。
func (m *ImpulseMiddleware) Meta() pipeline.MiddlewareMeta { return m.meta }

// Handle 计算动能子指标。
func (m *ImpulseMiddleware) Handle(ctx context.Context, sc *pipeline.ScoreContext) error {
	candles := sc.Candles(m.interval)
	need := m.rsiPeriod
	if m.rocPeriod > need {
		need = m.rocPeriod
	}
	if len(candles) < need+1 {
		return fmt.Errorf("impulse: insufficient candles %s need %d got %d", m.interval, need+1, len(candles))
	}
	series := closes(candles)
	rsi, okRSI := lastFinite(talib.Rsi(series, m.rsiPeriod))
	if !okRSI {
		return fmt.Errorf("impulse: rsi output empty for %s", m.interval)
	}
	rocSeries := talib.Roc(series, m.rocPeriod)
	roc := 0.0
	if len(rocSeries) > 0 {
		roc = rocSeries[len(rocSeries)-1]
	}
	rocScore := clampPercent(50 + roc/m.rocFull*50)
	score := (1-m.rocWeight)*rsi + m.rocWeight*rocScore
	sc.AddScore(index.SubScore{
		Name:  m.meta.Name,
		Value: clampPercent(score),
		Group: m.meta.Group,
		Scale: m.meta.Scale,
	})
	return nil
}
