package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vane/internal/calibration"
	vcfg "vane/internal/config"
	"vane/internal/decision"
	"vane/internal/logger"
	"vane/internal/store/runlog"
	vanehttp "vane/internal/transport/http"

	"golang.org/x/sync/errgroup"
)

// RunMode 控制进程形态：单次评估或常驻服务。
type RunMode string

const (
	ModeOnce  RunMode = "once"
	ModeServe RunMode = "serve"
)

// App 负责应用级编排：加载配置→初始化依赖→按模式运行。
type App struct {
	cfg    *vcfg.Config
	svc    *Service
	store  *runlog.Store
	server *vanehttp.Server
	cal    *calibration.Registry
}

// NewApp 根据配置构建应用对象（不启动）。
func NewApp(cfg *vcfg.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildApp(cfg)
}

// Close 释放持有的资源。
func (a *App) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Run 按模式运行。once 模式评估配置的 symbol 后退出；
// serve 模式启动 HTTP 服务与周期评估，直到 ctx 取消。
func (a *App) Run(ctx context.Context, mode RunMode) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	switch mode {
	case ModeOnce:
		return a.runOnce(ctx)
	case ModeServe, "":
		return a.runServe(ctx)
	default:
		return fmt.Errorf("unknown run mode %q", mode)
	}
}

func (a *App) runOnce(ctx context.Context) error {
	var firstErr error
	for _, symbol := range a.cfg.Evaluate.Symbols {
		if err := a.evaluateAndReport(ctx, symbol); err != nil {
			logger.Errorf("[app] evaluate %s failed: %v", symbol, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (a *App) runServe(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := a.server.Start(ctx); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		interval := time.Duration(a.cfg.Evaluate.IntervalSeconds) * time.Second
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		logger.Infof("[app] periodic evaluation every %s for %s",
			interval, strings.Join(a.cfg.Evaluate.Symbols, ", "))
		if a.cfg.Evaluate.RunImmediately {
			a.evaluateAll(ctx)
		}
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				a.evaluateAll(ctx)
			}
		}
	})

	return group.Wait()
}

func (a *App) evaluateAll(ctx context.Context) {
	for _, symbol := range a.cfg.Evaluate.Symbols {
		if ctx.Err() != nil {
			return
		}
		if err := a.evaluateAndReport(ctx, symbol); err != nil {
			logger.Errorf("[app] evaluate %s failed: %v", symbol, err)
		}
	}
}

func (a *App) evaluateAndReport(ctx context.Context, symbol string) error {
	resp, err := a.svc.EvaluateSymbol(ctx, symbol)
	if err != nil {
		return err
	}
	logger.Infof("[app] %s score=%d label=%s strategy=%s size=%.1f%% trace=%s",
		resp.Symbol, resp.Result.Score, resp.Result.SentimentLabel,
		resp.Strategy, resp.PositionSize, resp.TraceID)
	logger.InfoBlock(decision.RenderCompositeBlock(resp.Result))
	logger.InfoBlock(decision.RenderPlanBlock(resp.Plan))
	return nil
}
