package decision

import (
	"fmt"
	"strings"

	"vane/internal/index"
)

// 渲染函数输出纯文本块，供日志与 CLI 审计使用。

// RenderCompositeBlock 汇总一次综合计算的可读摘要。
func RenderCompositeBlock(res index.CompositeResult) string {
	var sb strings.Builder
	sb.WriteString("=== Fear & Greed Composite ===\n")
	sb.WriteString(fmt.Sprintf("- score=%d (%s)\n", res.Score, res.SentimentLabel))
	sb.WriteString(fmt.Sprintf("- internal=%.2f external=%.2f\n", res.InternalComposite, res.ExternalComposite))
	sb.WriteString(fmt.Sprintf("- confidence=%.1f (%s)\n", res.Confidence.Score, res.Confidence.Level))
	if len(res.Divergences) == 0 {
		sb.WriteString("- divergences: (none)\n")
	} else {
		sb.WriteString("- divergences:\n")
		for _, d := range res.Divergences {
			sb.WriteString(fmt.Sprintf("  [%s/%s] %s\n", d.Type, d.Severity, d.Description))
		}
	}
	if len(res.Warnings) > 0 {
		sb.WriteString("- warnings:\n")
		for _, w := range res.Warnings {
			sb.WriteString(fmt.Sprintf("  [%s/%s] %s\n", w.Type, w.Level, w.Message))
		}
	}
	for _, note := range res.Notes {
		sb.WriteString(fmt.Sprintf("- note: %s\n", note))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderPlanBlock 汇总交易计划的可读摘要。
func RenderPlanBlock(plan DecisionPlan) string {
	var sb strings.Builder
	sb.WriteString("=== Trade Plan ===\n")
	sb.WriteString(fmt.Sprintf("- strategy=%s action=%s size=%.2f%%\n",
		plan.StrategyType, plan.TradeAction.Primary, plan.PositionSizePercent))
	for _, m := range plan.TradeAction.Methods {
		sb.WriteString(fmt.Sprintf("  method: %s\n", m))
	}
	sb.WriteString("- entries:\n")
	for i, e := range plan.Entries {
		sb.WriteString(fmt.Sprintf("  #%d %.0f%%: %s\n", i+1, e.Percent, e.Condition))
	}
	sb.WriteString("- stops:\n")
	for _, s := range plan.Stops {
		sb.WriteString(fmt.Sprintf("  -%.0f%%: %s\n", s.Percent, s.Condition))
	}
	sb.WriteString("- targets:\n")
	for _, tgt := range plan.Targets {
		sb.WriteString(fmt.Sprintf("  +%.0f%% take %.0f%%: %s\n", tgt.Percent, tgt.TakeRatio*100, tgt.Condition))
	}
	for _, r := range plan.Rules {
		sb.WriteString(fmt.Sprintf("- rule: %s\n", r))
	}
	return strings.TrimRight(sb.String(), "\n")
}
