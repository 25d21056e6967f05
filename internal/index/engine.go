package index

import "fmt"

// Engine 把归一化、聚合、置信度、背离与预警串成一次完整计算。
// Engine 自身无状态可变量：同一组输入在任何时刻产生相同输出，
// 不读取时钟，不依赖随机数，多协程可共享同一实例。
type Engine struct {
	agg        *Aggregator
	thresholds Thresholds
}

// NewEngine 构造引擎。权重树与阈值在这里一次性校验，
// 校验失败属于 ErrInvalidConfiguration，先于任何计算发生。
func NewEngine(tree WeightTree, thresholds Thresholds) (*Engine, error) {
	agg, err := NewAggregator(tree)
	if err != nil {
		return nil, err
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return &Engine{agg: agg, thresholds: thresholds}, nil
}

// Thresholds 返回引擎当前的规则阈值。
func (e *Engine) Thresholds() Thresholds { return e.thresholds }

// Tree 返回引擎当前的权重树。
func (e *Engine) Tree() WeightTree { return e.agg.Tree() }

// Evaluate 执行一次完整计算。
// 致命错误（越界、缺权重）中止整轮并返回错误，不产出部分结果；
// 非致命情况（配置了权重但缺席的指标）进入 Notes。
func (e *Engine) Evaluate(subscores []SubScore) (CompositeResult, error) {
	normalized, err := Normalize(subscores)
	if err != nil {
		return CompositeResult{}, err
	}
	agg, err := e.agg.Aggregate(normalized)
	if err != nil {
		return CompositeResult{}, err
	}

	result := CompositeResult{
		Score:             agg.FinalComposite,
		SentimentLabel:    SentimentLabel(agg.FinalComposite),
		InternalComposite: agg.InternalComposite,
		ExternalComposite: agg.ExternalComposite,
		Confidence:        EstimateConfidence(normalized),
		Divergences:       DetectDivergences(normalized, e.thresholds),
		Warnings:          GenerateWarnings(normalized, e.thresholds),
	}
	for _, name := range agg.UnusedWeights {
		result.Notes = append(result.Notes, fmt.Sprintf("indicator %q has a configured weight but was absent this run", name))
	}
	return result, nil
}
