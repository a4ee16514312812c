package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/studyforge/studyforge-backend/internal/types"
)

// Section caps keep the document readable; the full data stays in the plan
// record and the JSON API.
const (
	maxChaptersPerSubject = 3
	maxMethods            = 3
	maxScheduleDays       = 5
	maxSessionsPerDay     = 2
	maxResourceTopics     = 3
	maxResourcesPerTopic  = 2
	maxCheckpoints        = 4
)

const sectionUnavailable = "This section is not available (generation failed)."

// PDF renders a plan record to a downloadable document. Degraded stage slots
// render a placeholder line instead of failing the whole document.
func PDF(plan *types.PlanRecord) ([]byte, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan required")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Personalized Study Plan", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Personalized Study Plan", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Created: "+plan.CreatedAt.UTC().Format(time.RFC3339), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Duration: %d days", plan.DurationDays), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	writeAnalysisSection(pdf, plan.SyllabusAnalysis)
	writeProfileSection(pdf, plan.LearningAnalysis)
	writeScheduleSection(pdf, plan.Schedule)
	writeResourceSection(pdf, plan.Resources)
	writeProgressSection(pdf, plan.ProgressTracking)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render plan pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func bodyLine(pdf *fpdf.Fpdf, text string) {
	pdf.MultiCell(0, 5.5, text, "", "L", false)
}

func writeAnalysisSection(pdf *fpdf.Fpdf, res types.StageResult) {
	sectionHeader(pdf, "1. Syllabus Analysis")
	var analysis types.SyllabusAnalysis
	if err := res.Decode(&analysis); err != nil {
		bodyLine(pdf, sectionUnavailable)
		pdf.Ln(3)
		return
	}
	bodyLine(pdf, fmt.Sprintf("Total estimated study hours: %.0f", analysis.TotalEstimatedHours))
	for _, subject := range analysis.Subjects {
		bodyLine(pdf, "Subject: "+subject.Name)
		for i, ch := range subject.Chapters {
			if i >= maxChaptersPerSubject {
				break
			}
			bodyLine(pdf, "  - "+ch)
		}
	}
	if analysis.LearningPathSummary != "" {
		bodyLine(pdf, "Path: "+analysis.LearningPathSummary)
	}
	pdf.Ln(3)
}

func writeProfileSection(pdf *fpdf.Fpdf, res types.StageResult) {
	sectionHeader(pdf, "2. Learning Style & Preferences")
	var profile types.LearningProfile
	if err := res.Decode(&profile); err != nil {
		bodyLine(pdf, sectionUnavailable)
		pdf.Ln(3)
		return
	}
	bodyLine(pdf, "Primary learning style: "+profile.PrimaryLearningStyle)
	for i, m := range profile.RecommendedStudyMethods {
		if i >= maxMethods {
			break
		}
		bodyLine(pdf, "  - "+m)
	}
	pdf.Ln(3)
}

func writeScheduleSection(pdf *fpdf.Fpdf, res types.StageResult) {
	sectionHeader(pdf, "3. Study Schedule (Sample Days)")
	var schedule types.StudySchedule
	if err := res.Decode(&schedule); err != nil {
		bodyLine(pdf, sectionUnavailable)
		pdf.Ln(3)
		return
	}
	for i, day := range schedule.Schedule {
		if i >= maxScheduleDays {
			break
		}
		label := fmt.Sprintf("Day %d", day.Day)
		if day.Date != "" {
			label += " (" + day.Date + ")"
		}
		bodyLine(pdf, label)
		if len(day.Sessions) == 0 {
			bodyLine(pdf, "  (no sessions)")
			continue
		}
		for j, s := range day.Sessions {
			if j >= maxSessionsPerDay {
				break
			}
			bodyLine(pdf, "  "+strings.TrimSpace(s.Time+" "+s.Topic))
		}
	}
	if len(schedule.Schedule) > maxScheduleDays {
		bodyLine(pdf, fmt.Sprintf("... and %d more days in the full plan.", len(schedule.Schedule)-maxScheduleDays))
	}
	pdf.Ln(3)
}

func writeResourceSection(pdf *fpdf.Fpdf, res types.StageResult) {
	sectionHeader(pdf, "4. Recommended Resources")
	var set types.ResourceSet
	if err := res.Decode(&set); err != nil {
		bodyLine(pdf, sectionUnavailable)
		pdf.Ln(3)
		return
	}
	for i, topic := range set.ResourceRecommendations {
		if i >= maxResourceTopics {
			break
		}
		bodyLine(pdf, "Topic: "+topic.Topic)
		for j, r := range topic.Resources {
			if j >= maxResourcesPerTopic {
				break
			}
			line := "  - " + r.Name
			if r.Type != "" {
				line += " (" + r.Type + ")"
			}
			bodyLine(pdf, line)
		}
	}
	pdf.Ln(3)
}

func writeProgressSection(pdf *fpdf.Fpdf, res types.StageResult) {
	sectionHeader(pdf, "5. Progress Tracking & Checkpoints")
	var progress types.ProgressPlan
	if err := res.Decode(&progress); err != nil {
		bodyLine(pdf, sectionUnavailable)
		pdf.Ln(3)
		return
	}
	if len(progress.CheckpointSchedule) == 0 {
		bodyLine(pdf, "No checkpoints defined for this plan.")
		pdf.Ln(3)
		return
	}
	for i, c := range progress.CheckpointSchedule {
		if i >= maxCheckpoints {
			break
		}
		bodyLine(pdf, fmt.Sprintf("Day %d: %s", c.Day, c.Checkpoint))
	}
	pdf.Ln(3)
}
