package index

import "fmt"

// 背离检测规则是一张有序的声明式表：
// 每条规则独立触发，输出顺序等于声明顺序，调用方可依赖该顺序做展示。
// 规则引用的指标名若本轮缺席则静默跳过，外部协作方按部署可选。

type divergenceRule struct {
	Type     string
	Severity string
	Left     string
	Right    string
	Gap      func(Thresholds) float64
}

var divergenceRules = []divergenceRule{
	{
		Type:     "price-volume",
		Severity: "high",
		Left:     "price",
		Right:    "volume",
		Gap:      func(t Thresholds) float64 { return t.PriceVolumeGap },
	},
	{
		Type:     "technical-whale",
		Severity: "medium",
		Left:     "technical",
		Right:    "whales",
		Gap:      func(t Thresholds) float64 { return t.TechnicalWhaleGap },
	},
	{
		Type:     "social-price",
		Severity: "medium",
		Left:     "social",
		Right:    "price",
		Gap:      func(t Thresholds) float64 { return t.SocialPriceGap },
	},
}

// DetectDivergences 按声明顺序执行成对背离规则。
// 比较的是各指标的已聚合分值，不是最终综合分。
func DetectDivergences(subscores []SubScore, thresholds Thresholds) []Divergence {
	values := scoresByName(subscores)
	out := make([]Divergence, 0, len(divergenceRules))
	for _, rule := range divergenceRules {
		left, okL := values[rule.Left]
		right, okR := values[rule.Right]
		if !okL || !okR {
			continue
		}
		gap := rule.Gap(thresholds)
		diff := left - right
		if diff < 0 {
			diff = -diff
		}
		if diff > gap {
			out = append(out, Divergence{
				Type:     rule.Type,
				Severity: rule.Severity,
				Description: fmt.Sprintf("%s(%.1f) and %s(%.1f) disagree by %.1f (threshold %.0f)",
					rule.Left, left, rule.Right, right, diff, gap),
			})
		}
	}
	return out
}

func scoresByName(subscores []SubScore) map[string]float64 {
	values := make(map[string]float64, len(subscores))
	for _, s := range subscores {
		values[s.Name] = s.Value
	}
	return values
}
