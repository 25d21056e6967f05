package index

import (
	"fmt"
	"math"
	"sort"
)

// AggregateResult 聚合器的输出：两个子综合分与取整后的最终综合分。
// UnusedWeights 记录配置了权重但本轮缺席的指标名（非致命）。
type AggregateResult struct {
	InternalComposite float64
	ExternalComposite float64
	FinalComposite    int
	UnusedWeights     []string
}

// Aggregator 按两层权重树把子指标合成综合分。
// 构造后不再持有可变状态，可被多协程共享。
type Aggregator struct {
	tree WeightTree
}

// NewAggregator 校验权重树并构造聚合器。
func NewAggregator(tree WeightTree) (*Aggregator, error) {
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{tree: tree}, nil
}

// Tree 返回聚合器持有的权重树副本（map 为引用，调用方不得修改）。
func (a *Aggregator) Tree() WeightTree { return a.tree }

// Aggregate 计算桶内加权和与最终综合分。
// 输入必须已经位于 [0,100]；聚合器只做加权求和，不做任何换算。
// signed 口径的值必须在交给聚合器之前由协作方换算完毕，
// 未换算的 signed 值与重复的指标名都按上游数据缺陷中止整轮。
// 被消费的指标名缺少权重即返回 ErrMissingWeight；
// 配置过权重但缺席的指标名记入 UnusedWeights，不中断计算。
func (a *Aggregator) Aggregate(subscores []SubScore) (AggregateResult, error) {
	present := make(map[string]bool, len(subscores))
	var internal, external float64
	for _, s := range subscores {
		if s.Scale != ScalePercent && s.Scale != "" {
			return AggregateResult{}, fmt.Errorf("%w: indicator %q is on scale %q, rescale to [0,100] before aggregation",
				ErrInvalidScoreRange, s.Name, s.Scale)
		}
		if present[s.Name] {
			return AggregateResult{}, fmt.Errorf("%w: duplicate indicator %q", ErrInvalidScoreRange, s.Name)
		}
		weights := a.tree.BucketWeights(s.Group)
		w, ok := weights[s.Name]
		if !ok {
			return AggregateResult{}, fmt.Errorf("%w: %q in %s bucket", ErrMissingWeight, s.Name, s.Group)
		}
		present[s.Name] = true
		if s.Group == GroupInternal {
			internal += s.Value * w
		} else {
			external += s.Value * w
		}
	}

	var unused []string
	for _, g := range []Group{GroupInternal, GroupExternal} {
		for _, name := range a.tree.Names(g) {
			if !present[name] {
				unused = append(unused, name)
			}
		}
	}
	sort.Strings(unused)

	final := internal*a.tree.Internal + external*a.tree.External
	return AggregateResult{
		InternalComposite: internal,
		ExternalComposite: external,
		FinalComposite:    clampScore(roundHalfAway(final)),
		UnusedWeights:     unused,
	}, nil
}

// roundHalfAway 四舍五入（half away from zero）：77.5 -> 78。
func roundHalfAway(v float64) int {
	return int(math.Copysign(math.Floor(math.Abs(v)+0.5), v))
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
