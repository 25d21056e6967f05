package pipeline

import (
	"context"
	"time"

	"vane/internal/index"
)

// Middleware 描述一个子指标协作者：声明自己的名字、所属桶与口径，
// 并从上下文中计算出一条归一化子指标。
// 聚合层只依赖这个接口，不依赖任何具体指标实现。
type Middleware interface {
	Meta() MiddlewareMeta
	Handle(ctx context.Context, sc *ScoreContext) error
}

// MiddlewareMeta 提供调度与接入契约所需的元信息。
// Group 与 Scale 在接入时一次性声明，之后不再变化。
type MiddlewareMeta struct {
	Name     string
	Group    index.Group
	Scale    index.Scale
	Stage    int
	Critical bool
	Timeout  time.Duration
}

// MiddlewareError 封装协作者的失败信息。
type MiddlewareError struct {
	Middleware string
	Stage      int
	Critical   bool
	Err        error
}

func (e *MiddlewareError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Middleware
	}
	return e.Middleware + ": " + e.Err.Error()
}

func (e *MiddlewareError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
