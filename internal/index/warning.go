package index

import (
	"fmt"
	"math"
)

// 风险预警规则与背离规则同构：有序声明式表，逐条独立评估，
// 引用的指标缺席则跳过。

type warningRule struct {
	Type  string
	Level string
	Needs []string
	Fire  func(values map[string]float64, t Thresholds) (bool, string)
}

var warningRules = []warningRule{
	{
		Type:  "extreme_price",
		Level: "high",
		Needs: []string{"price"},
		Fire: func(v map[string]float64, t Thresholds) (bool, string) {
			if math.Abs(v["price"]) > t.ExtremePrice {
				return true, fmt.Sprintf("price score %.1f beyond extreme threshold %.0f", v["price"], t.ExtremePrice)
			}
			return false, ""
		},
	},
	{
		Type:  "low_volume",
		Level: "medium",
		Needs: []string{"volume", "price"},
		Fire: func(v map[string]float64, t Thresholds) (bool, string) {
			if v["volume"] < t.ThinVolumeFloor && v["price"] > t.StrongPriceFloor {
				return true, fmt.Sprintf("price strength %.1f on thin volume %.1f", v["price"], v["volume"])
			}
			return false, ""
		},
	},
	{
		Type:  "whale_divergence",
		Level: "high",
		Needs: []string{"whales", "price"},
		Fire: func(v map[string]float64, t Thresholds) (bool, string) {
			if v["whales"] < t.WhaleFlowFloor && v["price"] > t.StrongPriceFloor {
				return true, fmt.Sprintf("whale flow %.1f distributing while price holds %.1f", v["whales"], v["price"])
			}
			return false, ""
		},
	},
}

// GenerateWarnings 逐条评估风险预警规则，输出顺序等于声明顺序。
func GenerateWarnings(subscores []SubScore, thresholds Thresholds) []Warning {
	values := scoresByName(subscores)
	out := make([]Warning, 0, len(warningRules))
	for _, rule := range warningRules {
		if !hasAll(values, rule.Needs) {
			continue
		}
		fired, msg := rule.Fire(values, thresholds)
		if fired {
			out = append(out, Warning{Type: rule.Type, Level: rule.Level, Message: msg})
		}
	}
	return out
}

func hasAll(values map[string]float64, names []string) bool {
	for _, name := range names {
		if _, ok := values[name]; !ok {
			return false
		}
	}
	return true
}
