package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PlanRow is the database shape of a PlanRecord. Stage slots are stored as
// JSON columns so degraded markers survive round trips unchanged.
type PlanRow struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	DurationDays        int            `gorm:"column:duration_days;not null" json:"duration_days"`
	LearningPreferences string         `gorm:"column:learning_preferences" json:"learning_preferences"`
	SourceFile          string         `gorm:"column:source_file" json:"source_file"`
	SourcePages         int            `gorm:"column:source_pages" json:"source_pages"`
	SyllabusAnalysis    datatypes.JSON `gorm:"column:syllabus_analysis" json:"syllabus_analysis"`
	LearningAnalysis    datatypes.JSON `gorm:"column:learning_analysis" json:"learning_analysis"`
	Schedule            datatypes.JSON `gorm:"column:schedule" json:"schedule"`
	Resources           datatypes.JSON `gorm:"column:resources" json:"resources"`
	ProgressTracking    datatypes.JSON `gorm:"column:progress_tracking" json:"progress_tracking"`
}

func (PlanRow) TableName() string {
	return "study_plans"
}

func NewPlanRow(p *PlanRecord) (*PlanRow, error) {
	id, err := uuid.Parse(p.PlanID)
	if err != nil {
		return nil, fmt.Errorf("parse plan id: %w", err)
	}
	row := &PlanRow{
		ID:                  id,
		CreatedAt:           p.CreatedAt,
		DurationDays:        p.DurationDays,
		LearningPreferences: p.LearningPreferences,
		SourceFile:          p.SourceFile,
		SourcePages:         p.SourcePages,
	}
	cols := []struct {
		dst *datatypes.JSON
		src StageResult
	}{
		{&row.SyllabusAnalysis, p.SyllabusAnalysis},
		{&row.LearningAnalysis, p.LearningAnalysis},
		{&row.Schedule, p.Schedule},
		{&row.Resources, p.Resources},
		{&row.ProgressTracking, p.ProgressTracking},
	}
	for _, c := range cols {
		b, err := json.Marshal(c.src)
		if err != nil {
			return nil, fmt.Errorf("encode stage column: %w", err)
		}
		*c.dst = datatypes.JSON(b)
	}
	return row, nil
}

func (r *PlanRow) Record() (*PlanRecord, error) {
	p := &PlanRecord{
		PlanID:              r.ID.String(),
		CreatedAt:           r.CreatedAt,
		DurationDays:        r.DurationDays,
		LearningPreferences: r.LearningPreferences,
		SourceFile:          r.SourceFile,
		SourcePages:         r.SourcePages,
	}
	cols := []struct {
		dst *StageResult
		src datatypes.JSON
	}{
		{&p.SyllabusAnalysis, r.SyllabusAnalysis},
		{&p.LearningAnalysis, r.LearningAnalysis},
		{&p.Schedule, r.Schedule},
		{&p.Resources, r.Resources},
		{&p.ProgressTracking, r.ProgressTracking},
	}
	for _, c := range cols {
		if len(c.src) == 0 {
			continue
		}
		if err := json.Unmarshal(c.src, c.dst); err != nil {
			return nil, fmt.Errorf("decode stage column: %w", err)
		}
	}
	return p, nil
}
