package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/studyforge/studyforge-backend/internal/clients/openai"
	"github.com/studyforge/studyforge-backend/internal/prompts"
	"github.com/studyforge/studyforge-backend/internal/types"
)

// BuildStudySchedule asks for a day-by-day schedule and then enforces the
// requested length itself: the collaborator is a black box and may return any
// number of days.
func BuildStudySchedule(ctx context.Context, ai openai.Client, analysisJSON string, profileJSON string, durationDays int) (types.StudySchedule, error) {
	out := types.StudySchedule{}
	if ai == nil {
		return out, fmt.Errorf("BuildStudySchedule: ai required")
	}
	if durationDays <= 0 {
		return out, fmt.Errorf("BuildStudySchedule: duration must be positive, got %d", durationDays)
	}

	p, err := prompts.Build(prompts.PromptScheduleSynthesis, prompts.Input{
		AnalysisJSON: truncateForPrompt(analysisJSON, maxContextPromptRunes),
		ProfileJSON:  truncateForPrompt(profileJSON, maxContextPromptRunes),
		DurationDays: durationDays,
	})
	if err != nil {
		return out, err
	}

	obj, err := ai.GenerateJSON(ctx, p.System, p.User, p.SchemaName, p.Schema)
	if err != nil {
		return out, err
	}
	if err := decodeInto(obj, &out); err != nil {
		return out, err
	}

	out.Schedule = NormalizeSchedule(out.Schedule, durationDays)
	out.WeeklyMilestones = dedupeStrings(out.WeeklyMilestones)
	return out, nil
}

// NormalizeSchedule forces the day list to exactly durationDays entries:
// excess days are truncated, missing days padded with empty session lists,
// and every day renumbered 1..N in order.
func NormalizeSchedule(days []types.ScheduleDay, durationDays int) []types.ScheduleDay {
	out := make([]types.ScheduleDay, 0, durationDays)
	for _, d := range days {
		if len(out) == durationDays {
			break
		}
		d.Date = strings.TrimSpace(d.Date)
		d.Sessions = normalizeSessions(d.Sessions)
		out = append(out, d)
	}
	for len(out) < durationDays {
		out = append(out, types.ScheduleDay{Sessions: []types.StudySession{}})
	}
	for i := range out {
		out[i].Day = i + 1
		if out[i].Sessions == nil {
			out[i].Sessions = []types.StudySession{}
		}
	}
	return out
}

func normalizeSessions(in []types.StudySession) []types.StudySession {
	out := make([]types.StudySession, 0, len(in))
	for _, s := range in {
		s.Time = strings.TrimSpace(s.Time)
		s.Topic = strings.TrimSpace(s.Topic)
		if s.Topic == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
