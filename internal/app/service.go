package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vane/internal/calibration"
	"vane/internal/decision"
	"vane/internal/index"
	"vane/internal/logger"
	"vane/internal/market"
	"vane/internal/pipeline"
	"vane/internal/store/runlog"
	vanehttp "vane/internal/transport/http"

	"github.com/google/uuid"
	talib "github.com/markcheno/go-talib"
	"gorm.io/datatypes"
)

// Service 把行情拉取、指标管线、复合指数与决策串成一条评估链路。
// HTTP 侧直接提交子指标时跳过前两步。
type Service struct {
	source      market.Source
	pipe        *pipeline.Pipeline
	cal         *calibration.Registry
	store       *runlog.Store
	maxPosition float64
	interval    string
	historyBars int
}

// ServiceConfig 描述评估服务的依赖。
type ServiceConfig struct {
	Source      market.Source
	Pipeline    *pipeline.Pipeline
	Calibration *calibration.Registry
	Store       *runlog.Store
	MaxPosition float64
	Interval    string
	HistoryBars int
}

// NewService 构造评估服务。
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Calibration == nil {
		return nil, fmt.Errorf("evaluate service requires calibration registry")
	}
	if cfg.MaxPosition <= 0 {
		cfg.MaxPosition = decision.DefaultMaxPositionSize
	}
	if cfg.Interval == "" {
		cfg.Interval = "1h"
	}
	if cfg.HistoryBars <= 0 {
		cfg.HistoryBars = 300
	}
	return &Service{
		source:      cfg.Source,
		pipe:        cfg.Pipeline,
		cal:         cfg.Calibration,
		store:       cfg.Store,
		maxPosition: cfg.MaxPosition,
		interval:    cfg.Interval,
		historyBars: cfg.HistoryBars,
	}, nil
}

// EvaluateScores 对一组外部提交的子指标执行完整评估并落盘。
func (s *Service) EvaluateScores(ctx context.Context, req vanehttp.EvaluateRequest) (*vanehttp.EvaluateResponse, error) {
	snap := s.cal.Snapshot()
	engine, err := index.NewEngine(snap.Weights, snap.Thresholds)
	if err != nil {
		return nil, err
	}
	result, err := engine.Evaluate(req.Scores)
	if err != nil {
		return nil, err
	}

	maxPos := s.maxPosition
	if snap.Decision.MaxPositionSize > 0 {
		maxPos = snap.Decision.MaxPositionSize
	}
	decider, err := decision.NewEngine(maxPos)
	if err != nil {
		return nil, err
	}
	sizing := decider.Decide(result.Score, result.Confidence, dampingVolatility(req))
	plan, err := decision.BuildPlan(result.Score, sizing.StrategyType, sizing.PositionSizePercent)
	if err != nil {
		return nil, err
	}

	resp := &vanehttp.EvaluateResponse{
		TraceID:      uuid.NewString(),
		Symbol:       req.Symbol,
		Result:       result,
		Strategy:     sizing.StrategyType,
		PositionSize: sizing.PositionSizePercent,
		Plan:         plan,
	}
	if err := s.persistRun(ctx, req, resp); err != nil {
		// 落盘失败不影响本次评估结果，只留日志。
		logger.Warnf("[service] persist run failed trace=%s err=%v", resp.TraceID, err)
	}
	return resp, nil
}

// EvaluateSymbol 拉取行情、跑指标管线，再走同一条评估链路。
// 外部桶指标在该模式下缺席，对应权重会记入 Notes。
func (s *Service) EvaluateSymbol(ctx context.Context, symbol string) (*vanehttp.EvaluateResponse, error) {
	if s.source == nil || s.pipe == nil {
		return nil, fmt.Errorf("market source or pipeline not configured")
	}
	candles, err := s.source.FetchHistory(ctx, symbol, s.interval, s.historyBars)
	if err != nil {
		return nil, fmt.Errorf("fetch history failed for %s: %w", symbol, err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("no closed candles for %s %s", symbol, s.interval)
	}
	sc := pipeline.NewScoreContext(symbol)
	sc.SetCandles(s.interval, candles)
	if err := s.pipe.Run(ctx, sc); err != nil {
		return nil, err
	}
	scores := sc.Scores()
	if len(scores) == 0 {
		return nil, fmt.Errorf("pipeline produced no scores for %s", symbol)
	}

	resp, err := s.EvaluateScores(ctx, vanehttp.EvaluateRequest{
		Symbol:     sc.Symbol,
		Volatility: marketVolatility(candles),
		Scores:     scores,
	})
	if err != nil {
		return nil, err
	}
	resp.Result.Notes = append(resp.Result.Notes, sc.Notes()...)
	return resp, nil
}

func (s *Service) persistRun(ctx context.Context, req vanehttp.EvaluateRequest, resp *vanehttp.EvaluateResponse) error {
	if s.store == nil {
		return nil
	}
	rec := &runlog.RunModel{
		TraceID:           resp.TraceID,
		Symbol:            resp.Symbol,
		Score:             resp.Result.Score,
		Label:             resp.Result.SentimentLabel,
		InternalComposite: resp.Result.InternalComposite,
		ExternalComposite: resp.Result.ExternalComposite,
		ConfidenceScore:   resp.Result.Confidence.Score,
		ConfidenceLevel:   string(resp.Result.Confidence.Level),
		Strategy:          string(resp.Strategy),
		PositionSize:      resp.PositionSize,
		CreatedAtUnix:     time.Now().Unix(),
	}
	var err error
	if rec.SubScoresJSON, err = marshalJSON(req.Scores); err != nil {
		return err
	}
	if rec.DivergencesJSON, err = marshalJSON(resp.Result.Divergences); err != nil {
		return err
	}
	if rec.WarningsJSON, err = marshalJSON(resp.Result.Warnings); err != nil {
		return err
	}
	if rec.PlanJSON, err = marshalJSON(resp.Plan); err != nil {
		return err
	}
	if rec.NotesJSON, err = marshalJSON(resp.Result.Notes); err != nil {
		return err
	}
	return s.store.SaveRun(ctx, rec)
}

func marshalJSON(v any) (datatypes.JSON, error) {
	if v == nil {
		return datatypes.JSON("null"), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// dampingVolatility 决定仓位阻尼的波动率输入。
// 显式字段优先；缺省时回退到同名子指标的分值，
// 保证调用方只提交子指标时仓位依然被阻尼，而不是按零波动放大。
func dampingVolatility(req vanehttp.EvaluateRequest) float64 {
	if req.Volatility > 0 {
		return req.Volatility
	}
	for _, s := range req.Scores {
		if s.Name == "volatility" {
			return s.Value
		}
	}
	return 0
}

// marketVolatility 把 ATR 占价比折算到决策引擎期望的 0-100 波动刻度。
func marketVolatility(candles []market.Candle) float64 {
	const period = 14
	if len(candles) < period+1 {
		return 0
	}
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	closes := make([]float64, len(candles))
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
		closes[i] = c.Close
	}
	series := talib.Atr(highs, lows, closes, period)
	if len(series) == 0 {
		return 0
	}
	atr := series[len(series)-1]
	last := closes[len(closes)-1]
	if atr <= 0 || last <= 0 {
		return 0
	}
	vol := atr / last * 100 * 10
	if vol > 100 {
		vol = 100
	}
	return vol
}
