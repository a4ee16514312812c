package types

import "time"

// PlanRecord is the fully assembled study plan for one request. It is created
// in one shot with all five stage slots populated (possibly with error
// markers) and never mutated afterwards.
type PlanRecord struct {
	PlanID              string      `json:"plan_id"`
	CreatedAt           time.Time   `json:"created_at"`
	DurationDays        int         `json:"duration_days"`
	LearningPreferences string      `json:"learning_preferences"`
	SourceFile          string      `json:"source_file,omitempty"`
	SourcePages         int         `json:"source_pages,omitempty"`
	SyllabusAnalysis    StageResult `json:"syllabus_analysis"`
	LearningAnalysis    StageResult `json:"learning_analysis"`
	Schedule            StageResult `json:"schedule"`
	Resources           StageResult `json:"resources"`
	ProgressTracking    StageResult `json:"progress_tracking"`
}

// PlanSummary is the compact listing view of a plan. Fields sourced from a
// degraded stage fall back to 0 / null.
type PlanSummary struct {
	PlanID               string    `json:"plan_id"`
	CreatedAt            time.Time `json:"created_at"`
	DurationDays         int       `json:"duration_days"`
	TotalEstimatedHours  float64   `json:"total_estimated_hours"`
	PrimaryLearningStyle *string   `json:"primary_learning_style"`
}

func (p *PlanRecord) Summary() PlanSummary {
	s := PlanSummary{
		PlanID:       p.PlanID,
		CreatedAt:    p.CreatedAt,
		DurationDays: p.DurationDays,
	}
	var analysis SyllabusAnalysis
	if err := p.SyllabusAnalysis.Decode(&analysis); err == nil {
		s.TotalEstimatedHours = analysis.TotalEstimatedHours
	}
	var profile LearningProfile
	if err := p.LearningAnalysis.Decode(&profile); err == nil && profile.PrimaryLearningStyle != "" {
		style := profile.PrimaryLearningStyle
		s.PrimaryLearningStyle = &style
	}
	return s
}
