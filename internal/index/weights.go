package index

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// weightSumTolerance 权重之和允许的偏差。
const weightSumTolerance = 1e-9

// WeightTree 进程级、不可变的两层权重配置：
// 顶层 internal/external 两个桶权重之和为 1.0，
// 桶内按指标名分配的权重之和同样为 1.0。
type WeightTree struct {
	Internal        float64            `json:"internal" mapstructure:"internal" yaml:"internal"`
	External        float64            `json:"external" mapstructure:"external" yaml:"external"`
	InternalWeights map[string]float64 `json:"internalWeights" mapstructure:"internal_weights" yaml:"internal_weights"`
	ExternalWeights map[string]float64 `json:"externalWeights" mapstructure:"external_weights" yaml:"external_weights"`
}

// DefaultWeightTree 返回出厂权重。
func DefaultWeightTree() WeightTree {
	return WeightTree{
		Internal: 0.6,
		External: 0.4,
		InternalWeights: map[string]float64{
			"price":      0.25,
			"volatility": 0.20,
			"volume":     0.20,
			"impulse":    0.20,
			"technical":  0.15,
		},
		ExternalWeights: map[string]float64{
			"social":    0.25,
			"trends":    0.20,
			"whales":    0.30,
			"orderBook": 0.25,
		},
	}
}

// Validate 校验两层权重和。校验失败即视为配置缺陷，
// 必须在任何分数被处理之前失败。
func (t WeightTree) Validate() error {
	if err := checkUnitSum("top-level", map[string]float64{
		string(GroupInternal): t.Internal,
		string(GroupExternal): t.External,
	}); err != nil {
		return err
	}
	if len(t.InternalWeights) == 0 {
		return fmt.Errorf("%w: internal bucket has no weights", ErrInvalidConfiguration)
	}
	if len(t.ExternalWeights) == 0 {
		return fmt.Errorf("%w: external bucket has no weights", ErrInvalidConfiguration)
	}
	if err := checkUnitSum("internal bucket", t.InternalWeights); err != nil {
		return err
	}
	return checkUnitSum("external bucket", t.ExternalWeights)
}

// BucketWeights 返回指定桶的权重表。
func (t WeightTree) BucketWeights(g Group) map[string]float64 {
	if g == GroupInternal {
		return t.InternalWeights
	}
	return t.ExternalWeights
}

// Names 返回桶内配置过权重的指标名（排序后，便于稳定输出）。
func (t WeightTree) Names(g Group) []string {
	weights := t.BucketWeights(g)
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkUnitSum 使用 decimal 做精确求和，避免浮点累计误差误报。
func checkUnitSum(scope string, weights map[string]float64) error {
	sum := decimal.Zero
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: %s weight %q is negative (%v)", ErrInvalidConfiguration, scope, name, w)
		}
		sum = sum.Add(decimal.NewFromFloat(w))
	}
	diff := sum.Sub(decimal.NewFromInt(1)).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(weightSumTolerance)) {
		return fmt.Errorf("%w: %s weights sum to %s, want 1.0", ErrInvalidConfiguration, scope, sum.String())
	}
	return nil
}
