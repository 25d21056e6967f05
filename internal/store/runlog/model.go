package runlog

import "gorm.io/datatypes"

// RunModel 是一次评估流水的落库结构。
// 复合分、子指标、分歧与预警全部留痕，便于事后回查。
type RunModel struct {
	ID                int64          `gorm:"column:id;primaryKey"`
	TraceID           string         `gorm:"column:trace_id;uniqueIndex"`
	Symbol            string         `gorm:"column:symbol;index"`
	Score             int            `gorm:"column:score"`
	Label             string         `gorm:"column:label"`
	InternalComposite float64        `gorm:"column:internal_composite"`
	ExternalComposite float64        `gorm:"column:external_composite"`
	ConfidenceScore   float64        `gorm:"column:confidence_score"`
	ConfidenceLevel   string         `gorm:"column:confidence_level"`
	Strategy          string         `gorm:"column:strategy"`
	PositionSize      float64        `gorm:"column:position_size"`
	SubScoresJSON     datatypes.JSON `gorm:"column:sub_scores_json;type:TEXT"`
	DivergencesJSON   datatypes.JSON `gorm:"column:divergences_json;type:TEXT"`
	WarningsJSON      datatypes.JSON `gorm:"column:warnings_json;type:TEXT"`
	PlanJSON          datatypes.JSON `gorm:"column:plan_json;type:TEXT"`
	NotesJSON         datatypes.JSON `gorm:"column:notes_json;type:TEXT"`
	CreatedAtUnix     int64          `gorm:"column:created_at"`
}

func (RunModel) TableName() string { return "index_runs" }
