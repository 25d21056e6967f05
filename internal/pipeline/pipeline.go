package pipeline

import (
	"context"
	"fmt"
	"sort"

	"vane/internal/logger"

	"golang.org/x/sync/errgroup"
)

// Pipeline 负责按 stage 调度一组指标协作者。
// 同一 stage 内并发执行，stage 之间串行。
type Pipeline struct {
	name   string
	stages [][]Middleware
}

// New 创建 Pipeline，并按 stage 归类协作者。
func New(name string, middlewares ...Middleware) *Pipeline {
	if len(middlewares) == 0 {
		return &Pipeline{name: name}
	}
	stageMap := make(map[int][]Middleware)
	for _, mw := range middlewares {
		if mw == nil {
			continue
		}
		meta := mw.Meta()
		stageMap[meta.Stage] = append(stageMap[meta.Stage], mw)
	}
	keys := make([]int, 0, len(stageMap))
	for st := range stageMap {
		keys = append(keys, st)
	}
	sort.Ints(keys)
	stages := make([][]Middleware, 0, len(keys))
	for _, st := range keys {
		stages = append(stages, stageMap[st])
	}
	return &Pipeline{name: name, stages: stages}
}

// Run 执行 pipeline。critical 协作者失败中止整轮；
// 非 critical 失败只记入 Notes，本轮继续（该指标本轮缺席）。
func (p *Pipeline) Run(ctx context.Context, sc *ScoreContext) error {
	if sc == nil {
		return fmt.Errorf("nil score context")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for _, stage := range p.stages {
		if err := p.runStage(ctx, sc, stage); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) runStage(ctx context.Context, sc *ScoreContext, stage []Middleware) error {
	if len(stage) == 0 {
		return nil
	}
	group, stageCtx := errgroup.WithContext(ctx)
	noteCh := make(chan *MiddlewareError, len(stage))
	for _, mw := range stage {
		mw := mw
		if mw == nil {
			continue
		}
		group.Go(func() error {
			meta := mw.Meta()
			runCtx := stageCtx
			var cancel context.CancelFunc
			if meta.Timeout > 0 {
				runCtx, cancel = context.WithTimeout(stageCtx, meta.Timeout)
				defer cancel()
			}
			err := mw.Handle(runCtx, sc)
			if err == nil {
				return nil
			}
			mwErr := &MiddlewareError{
				Middleware: meta.Name,
				Stage:      meta.Stage,
				Critical:   meta.Critical,
				Err:        err,
			}
			if meta.Critical {
				return mwErr
			}
			select {
			case noteCh <- mwErr:
			default:
			}
			return nil
		})
	}
	err := group.Wait()
	close(noteCh)
	for note := range noteCh {
		if note == nil {
			continue
		}
		sc.AddNote(note.Error())
		logger.Warnf("[pipeline] %s %s", p.name, note.Error())
	}
	if err != nil {
		sc.AddNote(err.Error())
		return err
	}
	return nil
}
