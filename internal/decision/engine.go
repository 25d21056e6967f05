package decision

import (
	"fmt"
	"math"

	"vane/internal/index"
)

// DefaultMaxPositionSize 仓位上限的出厂值（百分数）。
const DefaultMaxPositionSize = 100.0

// Engine 把 (综合分, 置信度, 波动率) 映射为策略分档与仓位占比。
// 纯函数式：不做 I/O，不读时钟，相同输入永远得到相同输出。
type Engine struct {
	maxPositionSize float64
}

// NewEngine 构造决策引擎。非正的仓位上限属于配置缺陷，构造期即失败。
func NewEngine(maxPositionSize float64) (*Engine, error) {
	if maxPositionSize <= 0 {
		return nil, fmt.Errorf("%w: max position size must be > 0, got %v",
			index.ErrInvalidConfiguration, maxPositionSize)
	}
	return &Engine{maxPositionSize: maxPositionSize}, nil
}

// MaxPositionSize 返回配置的仓位上限。
func (e *Engine) MaxPositionSize() float64 { return e.maxPositionSize }

// Decide 计算策略分档与仓位占比。
// volatility 为 [0,100] 口径的波动率子指标分值。
// 对声明范围内的任意输入都是全函数，不产生错误。
func (e *Engine) Decide(score int, confidence index.Confidence, volatility float64) Sizing {
	base := e.maxPositionSize * 0.5
	if score <= 20 || score >= 80 {
		extremity := math.Min(math.Abs(float64(score)-50)/50, 1)
		base = e.maxPositionSize * extremity
	}

	base *= confidence.Score / 100

	// 波动率抑制：波动越高仓位越小，乘数下限钳在 0。
	damp := 1 - volatility/200
	if damp < 0 {
		damp = 0
	}
	base *= damp

	if base > e.maxPositionSize {
		base = e.maxPositionSize
	}
	return Sizing{
		StrategyType:        StrategyForScore(score),
		PositionSizePercent: base,
	}
}

// StrategyForScore 综合分到策略分档的固定映射，分档互不重叠。
func StrategyForScore(score int) StrategyType {
	switch {
	case score <= 20:
		return StrategyOversoldAccumulation
	case score <= 40:
		return StrategyCautiousBuying
	case score <= 60:
		return StrategyNeutralRanging
	case score <= 80:
		return StrategyCautiousProfitTaking
	default:
		return StrategyOverboughtDistribution
	}
}
