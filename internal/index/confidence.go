package index

import "math"

// 置信度分级阈值为固定常量而非每次调用可配：
// 保持不同轮次的审计记录口径一致。
const (
	confidenceHighFloor   = 75.0
	confidenceMediumFloor = 50.0
)

// EstimateConfidence 由全部子指标的离散度推导一致性置信度。
// 注意：内部桶与外部桶的值被合并进同一个池计算标准差，
// 与历史口径保持兼容；拆池需要先确认语义。
func EstimateConfidence(subscores []SubScore) Confidence {
	if len(subscores) == 0 {
		return Confidence{Score: 0, Level: ConfidenceLow}
	}
	var sum float64
	for _, s := range subscores {
		sum += s.Value
	}
	mean := sum / float64(len(subscores))
	var variance float64
	for _, s := range subscores {
		d := s.Value - mean
		variance += d * d
	}
	stdDev := math.Sqrt(variance / float64(len(subscores)))

	score := 100 - stdDev*2
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return Confidence{Score: score, Level: confidenceLevel(score)}
}

func confidenceLevel(score float64) ConfidenceLevel {
	switch {
	case score >= confidenceHighFloor:
		return ConfidenceHigh
	case score >= confidenceMediumFloor:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
