package middlewares

import (
	"context"
	"fmt"
	"time"

	"vane/internal/index"
	"vane/internal/pipeline"

	talib "github.com/markcheno/go-talib"
)

// VolumeConfig 控制成交量子指标的参数。
type VolumeConfig struct {
	Name     string
	Stage    int
	Critical bool
	Timeout  time.Duration
	Interval string
	Period   int
	// FullRatio 表示达到均量多少倍时打满分。
	FullRatio float64
}

// VolumeMiddleware 把近期成交量相对均量的倍数映射为参与度分。
// 量能等于均量记 50 分，放量加分，缩量减分。
type VolumeMiddleware struct {
	meta      pipeline.MiddlewareMeta
	interval  string
	period    int
	fullRatio float64
}

// NewVolumeMiddleware 构造成交量协作者。
func NewVolumeMiddleware(cfg VolumeConfig) *VolumeMiddleware {
	if cfg.Period <= 0 {
		cfg.Period = 20
	}
	if cfg.FullRatio <= 1 {
		cfg.FullRatio = 2
	}
	return &VolumeMiddleware{
		meta: pipeline.MiddlewareMeta{
			Name:     nameOrDefault(cfg.Name, "volume"),
			Group:    index.GroupInternal,
			Scale:    index.ScalePercent,
			Stage:    cfg.Stage,
			Critical: cfg.Critical,
			Timeout:  cfg.Timeout,
		},
		interval:  intervalOrDefault(cfg.Interval),
		period:    cfg.Period,
		fullRatio: cfg.FullRatio,
	}
}

// Meta 实现接口。
func (m *VolumeMiddleware) Meta() pipeline.MiddlewareMeta { return m.meta }

// Handle 计算成交量子指标。
func (m *VolumeMiddleware) Handle(ctx context.Context, sc *pipeline.ScoreContext) error {
	candles := sc.Candles(m.interval)
	if len(candles) < m.period+1 {
		return fmt.Errorf("volume: insufficient candles %s need %d got %d", m.interval, m.period+1, len(candles))
	}
	vols := volumes(candles)
	avg, ok := lastFinite(talib.Sma(vols, m.period))
	if !ok || avg <= 0 {
		return fmt.Errorf("volume: sma output empty for %s", m.interval)
	}
	last := vols[len(vols)-1]
	ratio := last / avg
	var score float64
	if ratio <= 1 {
		score = ratio * 50
	} else {
		score = 50 + 50*(ratio-1)/(m.fullRatio-1)
	}
	sc.AddScore(index.SubScore{
		Name:  m.meta.Name,
		Value: clampPercent(score),
		Group: m.meta.Group,
		Scale: m.meta.Scale,
	})
	return nil
}
