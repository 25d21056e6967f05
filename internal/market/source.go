package market

import "context"

// Source 抽象一个只读的 K 线来源。
// 本系统只做一次性的历史拉取，不订阅实时流。
type Source interface {
	// FetchHistory 返回最近 limit 根已收盘的 K 线，时间升序。
	FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]Candle, error)
}
