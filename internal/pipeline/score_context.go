package pipeline

import (
	"strings"
	"sync"
	"time"

	"vane/internal/index"
	"vane/internal/market"
)

// ScoreContext 表示某个 symbol 在一次指标计算过程中的上下文。
// 各协作者并发写入，内部加锁；一次计算结束后即丢弃。
type ScoreContext struct {
	Symbol    string
	TraceID   string
	StartedAt time.Time

	mu        sync.RWMutex
	intervals map[string][]market.Candle
	scores    []index.SubScore
	notes     []string
}

// NewScoreContext 初始化上下文。
func NewScoreContext(symbol string) *ScoreContext {
	return &ScoreContext{
		Symbol:    strings.ToUpper(strings.TrimSpace(symbol)),
		intervals: make(map[string][]market.Candle),
		StartedAt: time.Now(),
	}
}

// SetCandles 保存一个周期的 K 线。
func (sc *ScoreContext) SetCandles(interval string, candles []market.Candle) {
	iv := strings.ToLower(strings.TrimSpace(interval))
	if iv == "" {
		return
	}
	dst := make([]market.Candle, len(candles))
	copy(dst, candles)
	sc.mu.Lock()
	sc.intervals[iv] = dst
	sc.mu.Unlock()
}

// Candles 读取一个周期的 K 线副本。
func (sc *ScoreContext) Candles(interval string) []market.Candle {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	data := sc.intervals[strings.ToLower(strings.TrimSpace(interval))]
	if len(data) == 0 {
		return nil
	}
	out := make([]market.Candle, len(data))
	copy(out, data)
	return out
}

// AddScore 记录一条子指标。
func (sc *ScoreContext) AddScore(s index.SubScore) {
	sc.mu.Lock()
	sc.scores = append(sc.scores, s)
	sc.mu.Unlock()
}

// Scores 返回子指标副本（按名字排序前的写入序）。
func (sc *ScoreContext) Scores() []index.SubScore {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	out := make([]index.SubScore, len(sc.scores))
	copy(out, sc.scores)
	return out
}

// AddNote 记录非致命提示。
func (sc *ScoreContext) AddNote(msg string) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return
	}
	sc.mu.Lock()
	sc.notes = append(sc.notes, msg)
	sc.mu.Unlock()
}

// Notes 获取提示列表。
func (sc *ScoreContext) Notes() []string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	out := make([]string, len(sc.notes))
	copy(out, sc.notes)
	return out
}
