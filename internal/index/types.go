package index

// 中文说明：
// 本文件定义综合指数计算所需的基础数据结构。
// 所有结构均为纯值对象，一次计算内创建、之后不再修改。

// Group 表示子指标所属的顶层权重桶。
type Group string

const (
	GroupInternal Group = "internal"
	GroupExternal Group = "external"
)

// Scale 声明子指标的原生取值范围。每个指标名对应的 Scale 在接入时
// 一次性声明，之后不允许混用。
type Scale string

const (
	// ScalePercent 表示 [0,100]。
	ScalePercent Scale = "percent"
	// ScaleSigned 表示 [-1,1]，由协作方在交给聚合器前自行换算到 [0,100]。
	ScaleSigned Scale = "signed"
)

// SubScore 一条来自上游协作者的归一化信号。
type SubScore struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Group Group   `json:"group"`
	Scale Scale   `json:"scale"`
}

// ConfidenceLevel 信号一致性的分级。
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "Low"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceHigh   ConfidenceLevel = "High"
)

// Confidence 描述各子指标之间的一致程度。
type Confidence struct {
	Score float64         `json:"score"`
	Level ConfidenceLevel `json:"level"`
}

// Divergence 两个具名子指标之间被检测到的分歧。
type Divergence struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// Warning 独立规则检出的风险状态。
type Warning struct {
	Type    string `json:"type"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// CompositeResult 一次完整计算的输出。
// Notes 承载非致命提示（例如配置了权重但本轮缺席的指标）。
type CompositeResult struct {
	Score             int          `json:"score"`
	SentimentLabel    string       `json:"sentimentLabel"`
	InternalComposite float64      `json:"internalComposite"`
	ExternalComposite float64      `json:"externalComposite"`
	Confidence        Confidence   `json:"confidence"`
	Divergences       []Divergence `json:"divergences"`
	Warnings          []Warning    `json:"warnings"`
	Notes             []string     `json:"notes,omitempty"`
}

// 情绪标签分档：左闭右开，最后一档两端闭合。
const (
	LabelExtremeFear  = "Extreme Fear"
	LabelFear         = "Fear"
	LabelNeutral      = "Neutral"
	LabelGreed        = "Greed"
	LabelExtremeGreed = "Extreme Greed"
)

// SentimentLabel 将最终综合分映射为情绪标签。
func SentimentLabel(score int) string {
	switch {
	case score < 20:
		return LabelExtremeFear
	case score < 40:
		return LabelFear
	case score < 60:
		return LabelNeutral
	case score < 80:
		return LabelGreed
	default:
		return LabelExtremeGreed
	}
}
