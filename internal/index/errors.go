package index

import "errors"

// 错误分级：致命错误中止整轮计算并暴露给调用方；
// 非致命情况只进入结果的 Notes，不打断计算。
var (
	// ErrInvalidScoreRange 上游给出了超出其声明范围的值，属于上游数据缺陷。
	ErrInvalidScoreRange = errors.New("index: score outside declared range")
	// ErrMissingWeight 被消费的指标名没有配置权重，属于配置缺陷。
	ErrMissingWeight = errors.New("index: consumed indicator has no configured weight")
	// ErrInvalidConfiguration 权重树或决策参数在构造期即不合法。
	ErrInvalidConfiguration = errors.New("index: invalid configuration")
)
