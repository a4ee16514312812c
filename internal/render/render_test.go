package render

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/studyforge/studyforge-backend/internal/types"
)

func fullPlan() *types.PlanRecord {
	return &types.PlanRecord{
		PlanID:              "11111111-2222-3333-4444-555555555555",
		CreatedAt:           time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		DurationDays:        10,
		LearningPreferences: "visual, 2h/day",
		SyllabusAnalysis: types.OKResult(types.SyllabusAnalysis{
			Subjects: []types.Subject{
				{Name: "Algorithms", Chapters: []string{"Intro", "Sorting", "Graphs", "DP"}},
			},
			TotalEstimatedHours: 40,
		}),
		LearningAnalysis: types.OKResult(types.LearningProfile{
			PrimaryLearningStyle:    "visual",
			RecommendedStudyMethods: []string{"diagrams", "videos", "flashcards", "notes"},
		}),
		Schedule: types.OKResult(types.StudySchedule{
			Schedule: []types.ScheduleDay{
				{Day: 1, Sessions: []types.StudySession{{Time: "09:00-10:30", Topic: "Intro"}}},
				{Day: 2, Sessions: []types.StudySession{}},
			},
		}),
		Resources: types.OKResult(types.ResourceSet{
			ResourceRecommendations: []types.TopicResources{
				{Topic: "Sorting", Resources: []types.Resource{{Name: "Visualgo", Type: "video"}}},
			},
		}),
		ProgressTracking: types.OKResult(types.ProgressPlan{
			CheckpointSchedule: []types.Checkpoint{{Day: 5, Checkpoint: "Mid review"}},
		}),
	}
}

func degradedPlan() *types.PlanRecord {
	p := fullPlan()
	failed := types.ErrResult(errors.New("stage failed"))
	p.SyllabusAnalysis = failed
	p.LearningAnalysis = failed
	p.Schedule = failed
	p.Resources = failed
	p.ProgressTracking = failed
	return p
}

func TestPDFFullPlan(t *testing.T) {
	data, err := PDF(fullPlan())
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Fatalf("missing pdf header: %q", data[:8])
	}
}

func TestPDFAllStagesDegraded(t *testing.T) {
	data, err := PDF(degradedPlan())
	if err != nil {
		t.Fatalf("PDF with degraded stages: %v", err)
	}
	if len(data) == 0 || !strings.HasPrefix(string(data), "%PDF-") {
		t.Fatalf("degraded plan did not render: %d bytes", len(data))
	}
}

func TestPDFNilPlan(t *testing.T) {
	if _, err := PDF(nil); err == nil {
		t.Fatal("expected error for nil plan")
	}
}

func TestCoverIsDecodablePNG(t *testing.T) {
	data, err := Cover(fullPlan())
	if err != nil {
		t.Fatalf("Cover: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != coverWidth || b.Dy() != coverHeight {
		t.Fatalf("size=%dx%d", b.Dx(), b.Dy())
	}
}

func TestCoverDegradedPlan(t *testing.T) {
	data, err := Cover(degradedPlan())
	if err != nil {
		t.Fatalf("Cover with degraded stages: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("decode png: %v", err)
	}
}
