package vanehttp

import (
	"context"

	"vane/internal/decision"
	"vane/internal/index"
)

// EvaluateRequest 是 /api/v1/evaluate 的入参。
// 子指标由调用方提供，服务端只做校验、聚合与决策。
type EvaluateRequest struct {
	Symbol     string           `json:"symbol"`
	Volatility float64          `json:"volatility"`
	Scores     []index.SubScore `json:"scores"`
}

// EvaluateResponse 汇总一次评估的全部产出。
type EvaluateResponse struct {
	TraceID      string                `json:"trace_id"`
	Symbol       string                `json:"symbol"`
	Result       index.CompositeResult `json:"result"`
	Strategy     decision.StrategyType `json:"strategy"`
	PositionSize float64               `json:"position_size"`
	Plan         decision.DecisionPlan `json:"plan"`
}

// EvaluateService 由应用层实现，供 HTTP 侧调用。
type EvaluateService interface {
	EvaluateScores(ctx context.Context, req EvaluateRequest) (*EvaluateResponse, error)
}
