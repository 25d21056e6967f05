package decision

// 中文说明：
// 本文件定义决策引擎与交易计划的输出结构。
// 所有结构均为纯值对象，可直接序列化为 JSON 提供给上层。

// StrategyType 由综合分分档唯一决定的交易姿态。
type StrategyType string

const (
	StrategyOversoldAccumulation   StrategyType = "OVERSOLD_ACCUMULATION"
	StrategyCautiousBuying         StrategyType = "CAUTIOUS_BUYING"
	StrategyNeutralRanging         StrategyType = "NEUTRAL_RANGING"
	StrategyCautiousProfitTaking   StrategyType = "CAUTIOUS_PROFIT_TAKING"
	StrategyOverboughtDistribution StrategyType = "OVERBOUGHT_DISTRIBUTION"
)

// AllStrategyTypes 声明顺序即分档顺序，计划表完整性检查依赖它。
var AllStrategyTypes = []StrategyType{
	StrategyOversoldAccumulation,
	StrategyCautiousBuying,
	StrategyNeutralRanging,
	StrategyCautiousProfitTaking,
	StrategyOverboughtDistribution,
}

// PrimaryAction 交易动作的主标签。
type PrimaryAction string

const (
	ActionAccumulate PrimaryAction = "ACCUMULATE"
	ActionBuild      PrimaryAction = "BUILD"
	ActionNeutral    PrimaryAction = "NEUTRAL"
	ActionLighten    PrimaryAction = "LIGHTEN"
	ActionDistribute PrimaryAction = "DISTRIBUTE"
)

// TradeAction 主标签加上若干执行手法描述。
type TradeAction struct {
	Primary PrimaryAction `json:"primary"`
	Methods []string      `json:"methods"`
}

// EntryTranche 分批建仓中的一档：占比（百分数）与触发条件。
// 三档占比之和恒为 100。
type EntryTranche struct {
	Percent   float64 `json:"percent"`
	Condition string  `json:"condition"`
}

// StopLevel 止损阶梯中的一档。百分数为相对回撤幅度，
// 本核心不接触绝对价位，换算由外部协作方完成。
type StopLevel struct {
	Percent   float64 `json:"percent"`
	Condition string  `json:"condition"`
}

// TargetTier 分批止盈中的一档：相对涨幅与该档了结比例。
type TargetTier struct {
	Percent   float64 `json:"percent"`
	TakeRatio float64 `json:"takeRatio"`
	Condition string  `json:"condition"`
}

// Sizing 决策引擎的输出：策略分档与钳制后的仓位占比。
type Sizing struct {
	StrategyType        StrategyType `json:"strategyType"`
	PositionSizePercent float64      `json:"positionSizePercent"`
}

// DecisionPlan 完整交易计划，结构化且可人工审计。
type DecisionPlan struct {
	StrategyType        StrategyType   `json:"strategyType"`
	PositionSizePercent float64        `json:"positionSizePercent"`
	TradeAction         TradeAction    `json:"tradeAction"`
	Entries             []EntryTranche `json:"entries"`
	Stops               []StopLevel    `json:"stops"`
	Targets             []TargetTier   `json:"targets"`
	Rules               []string       `json:"rules"`
}
