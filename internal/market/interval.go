package market

import (
	"strconv"
	"strings"
	"time"
)

// ParseIntervalDuration 把 "1m"/"4h"/"1d" 这类周期串解析为时长。
func ParseIntervalDuration(interval string) (time.Duration, bool) {
	iv := strings.ToLower(strings.TrimSpace(interval))
	if len(iv) < 2 {
		return 0, false
	}
	unit := iv[len(iv)-1]
	num, err := strconv.Atoi(iv[:len(iv)-1])
	if err != nil || num <= 0 {
		return 0, false
	}
	switch unit {
	case 'm':
		return time.Duration(num) * time.Minute, true
	case 'h':
		return time.Duration(num) * time.Hour, true
	case 'd':
		return time.Duration(num) * 24 * time.Hour, true
	case 'w':
		return time.Duration(num) * 7 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// DropUnclosed 去掉尾部还未收盘的 K 线。
// Binance REST 返回的最后一根往往是进行中的，收口时间在未来。
func DropUnclosed(candles []Candle, interval time.Duration, now time.Time) []Candle {
	if len(candles) == 0 || interval <= 0 {
		return candles
	}
	cutoff := now.UnixMilli()
	out := candles
	for len(out) > 0 {
		last := out[len(out)-1]
		if last.CloseTime > 0 && last.CloseTime <= cutoff {
			break
		}
		out = out[:len(out)-1]
	}
	return out
}
