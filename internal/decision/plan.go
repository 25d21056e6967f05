package decision

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// 中文说明：
// 交易计划由策略分档查表展开：动作、三段式建仓、止损阶梯、止盈分层与文字规则。
// 表对五个策略值全覆盖，不允许 default 兜底；init 期做完整性与占比校验。

const trancheTolerance = 1e-6

type planTemplate struct {
	Action  TradeAction
	Entries []EntryTranche
	Stops   []StopLevel
	Targets []TargetTier
	Rules   []string
}

var planTable = map[StrategyType]planTemplate{
	StrategyOversoldAccumulation: {
		Action: TradeAction{
			Primary: ActionAccumulate,
			Methods: []string{
				"staggered limit orders below market",
				"add on capitulation wicks",
				"prefer spot over leverage",
			},
		},
		Entries: []EntryTranche{
			{Percent: 40, Condition: "immediately at market extreme fear"},
			{Percent: 30, Condition: "on a further 5% drawdown"},
			{Percent: 30, Condition: "on a further 10% drawdown"},
		},
		Stops: []StopLevel{
			{Percent: 15, Condition: "hard invalidation below accumulation range"},
			{Percent: 10, Condition: "tighten after composite recovers above 40"},
		},
		Targets: []TargetTier{
			{Percent: 20, TakeRatio: 0.3, Condition: "first relief rally"},
			{Percent: 40, TakeRatio: 0.3, Condition: "composite back to neutral"},
			{Percent: 80, TakeRatio: 0.4, Condition: "composite enters greed"},
		},
		Rules: []string{
			"never average down past the third tranche",
			"size down if confidence level is Low",
			"re-evaluate after every composite refresh",
		},
	},
	StrategyCautiousBuying: {
		Action: TradeAction{
			Primary: ActionBuild,
			Methods: []string{
				"scale in on dips toward support",
				"keep dry powder for extreme fear",
			},
		},
		Entries: []EntryTranche{
			{Percent: 50, Condition: "on pullbacks within the fear band"},
			{Percent: 30, Condition: "if composite drops below 30"},
			{Percent: 20, Condition: "if composite drops below 25"},
		},
		Stops: []StopLevel{
			{Percent: 12, Condition: "hard stop on position"},
			{Percent: 8, Condition: "tighten after first target fills"},
		},
		Targets: []TargetTier{
			{Percent: 15, TakeRatio: 0.3, Condition: "composite back to neutral"},
			{Percent: 30, TakeRatio: 0.4, Condition: "composite enters greed"},
			{Percent: 50, TakeRatio: 0.3, Condition: "extreme greed or divergence warning"},
		},
		Rules: []string{
			"halt buying while a high severity divergence is active",
			"size down if confidence level is Low",
		},
	},
	StrategyNeutralRanging: {
		Action: TradeAction{
			Primary: ActionNeutral,
			Methods: []string{
				"range-trade around the midpoint",
				"harvest volatility with small size",
			},
		},
		Entries: []EntryTranche{
			{Percent: 40, Condition: "at range low"},
			{Percent: 30, Condition: "on retest of range low"},
			{Percent: 30, Condition: "only on confirmed breakout"},
		},
		Stops: []StopLevel{
			{Percent: 8, Condition: "below range low"},
			{Percent: 5, Condition: "after breakout entry"},
		},
		Targets: []TargetTier{
			{Percent: 8, TakeRatio: 0.5, Condition: "range high"},
			{Percent: 15, TakeRatio: 0.3, Condition: "breakout extension"},
			{Percent: 25, TakeRatio: 0.2, Condition: "trend confirmation"},
		},
		Rules: []string{
			"no directional conviction: keep gross exposure low",
			"stand aside when confidence level is Low",
		},
	},
	StrategyCautiousProfitTaking: {
		Action: TradeAction{
			Primary: ActionLighten,
			Methods: []string{
				"sell into strength in tranches",
				"raise stops to protect open profit",
			},
		},
		Entries: []EntryTranche{
			{Percent: 50, Condition: "reduce on strength spikes"},
			{Percent: 30, Condition: "reduce if composite exceeds 70"},
			{Percent: 20, Condition: "reduce if a divergence fires"},
		},
		Stops: []StopLevel{
			{Percent: 6, Condition: "trailing stop on remaining position"},
			{Percent: 4, Condition: "tighten after composite exceeds 75"},
		},
		Targets: []TargetTier{
			{Percent: 5, TakeRatio: 0.4, Condition: "immediate strength"},
			{Percent: 10, TakeRatio: 0.4, Condition: "continued greed"},
			{Percent: 20, TakeRatio: 0.2, Condition: "blow-off extension"},
		},
		Rules: []string{
			"do not open new longs inside the greed band",
			"accelerate reduction on low_volume warning",
		},
	},
	StrategyOverboughtDistribution: {
		Action: TradeAction{
			Primary: ActionDistribute,
			Methods: []string{
				"distribute into remaining bid strength",
				"keep only a runner position",
				"consider hedging residual exposure",
			},
		},
		Entries: []EntryTranche{
			{Percent: 60, Condition: "distribute immediately at extreme greed"},
			{Percent: 25, Condition: "on the next strength spike"},
			{Percent: 15, Condition: "on first momentum crack"},
		},
		Stops: []StopLevel{
			{Percent: 5, Condition: "hard trailing stop on the runner"},
			{Percent: 3, Condition: "tighten after whale_divergence warning"},
		},
		Targets: []TargetTier{
			{Percent: 3, TakeRatio: 0.5, Condition: "immediate distribution"},
			{Percent: 6, TakeRatio: 0.3, Condition: "euphoric extension"},
			{Percent: 10, TakeRatio: 0.2, Condition: "final runner exit"},
		},
		Rules: []string{
			"no new exposure at extreme greed",
			"exit the runner on any high severity warning",
		},
	},
}

func init() {
	// 表必须对枚举全覆盖；缺项属于程序缺陷，启动即失败。
	for _, st := range AllStrategyTypes {
		tpl, ok := planTable[st]
		if !ok {
			panic(fmt.Sprintf("decision: plan table missing strategy %s", st))
		}
		if err := validateTranches(st, tpl.Entries); err != nil {
			panic(err)
		}
	}
	if len(planTable) != len(AllStrategyTypes) {
		panic("decision: plan table contains unknown strategy entries")
	}
}

// validateTranches 三段式建仓占比之和必须为 100（decimal 精确求和）。
func validateTranches(st StrategyType, entries []EntryTranche) error {
	if len(entries) != 3 {
		return fmt.Errorf("decision: strategy %s wants 3 entry tranches, got %d", st, len(entries))
	}
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(decimal.NewFromFloat(e.Percent))
	}
	diff := sum.Sub(decimal.NewFromInt(100)).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(trancheTolerance)) {
		return fmt.Errorf("decision: strategy %s entry tranches sum to %s, want 100", st, sum.String())
	}
	return nil
}

// BuildPlan 把策略分档展开为结构化交易计划。
// 纯查表展开：同一组输入永远得到结构一致的计划。
func BuildPlan(score int, strategy StrategyType, positionSizePercent float64) (DecisionPlan, error) {
	tpl, ok := planTable[strategy]
	if !ok {
		return DecisionPlan{}, fmt.Errorf("decision: unknown strategy %q", strategy)
	}
	plan := DecisionPlan{
		StrategyType:        strategy,
		PositionSizePercent: positionSizePercent,
		TradeAction: TradeAction{
			Primary: tpl.Action.Primary,
			Methods: append([]string(nil), tpl.Action.Methods...),
		},
		Entries: append([]EntryTranche(nil), tpl.Entries...),
		Stops:   append([]StopLevel(nil), tpl.Stops...),
		Targets: append([]TargetTier(nil), tpl.Targets...),
		Rules:   append([]string(nil), tpl.Rules...),
	}
	return plan, nil
}
