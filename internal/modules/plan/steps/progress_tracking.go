package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/studyforge/studyforge-backend/internal/clients/openai"
	"github.com/studyforge/studyforge-backend/internal/prompts"
	"github.com/studyforge/studyforge-backend/internal/types"
)

// DefaultProgressPlan is what the progress stage falls back to when the
// schedule upstream degraded or its own call failed. Checkpoints are optional
// guidance; this stage never produces an error marker.
func DefaultProgressPlan() types.ProgressPlan {
	return types.ProgressPlan{CheckpointSchedule: []types.Checkpoint{}}
}

func BuildProgressPlan(ctx context.Context, ai openai.Client, analysisJSON string, scheduleJSON string) (types.ProgressPlan, error) {
	out := types.ProgressPlan{}
	if ai == nil {
		return out, fmt.Errorf("BuildProgressPlan: ai required")
	}

	p, err := prompts.Build(prompts.PromptProgressTracking, prompts.Input{
		AnalysisJSON: truncateForPrompt(analysisJSON, maxContextPromptRunes),
		ScheduleJSON: truncateForPrompt(scheduleJSON, maxContextPromptRunes),
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

	out.CheckpointSchedule = normalizeCheckpoints(out.CheckpointSchedule)
	out.ReflectionPrompts = dedupeStrings(out.ReflectionPrompts)
	out.TrackingMetrics = normalizeTrackingMetrics(out.TrackingMetrics)
	if out.CheckpointSchedule == nil {
		out.CheckpointSchedule = []types.Checkpoint{}
	}
	return out, nil
}

func normalizeCheckpoints(in []types.Checkpoint) []types.Checkpoint {
	out := make([]types.Checkpoint, 0, len(in))
	for _, c := range in {
		c.Checkpoint = strings.TrimSpace(c.Checkpoint)
		c.Assessment = strings.TrimSpace(c.Assessment)
		if c.Day <= 0 || c.Checkpoint == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func normalizeTrackingMetrics(in []types.TrackingMetric) []types.TrackingMetric {
	out := make([]types.TrackingMetric, 0, len(in))
	for _, m := range in {
		m.Metric = strings.TrimSpace(m.Metric)
		m.HowToMeasure = strings.TrimSpace(m.HowToMeasure)
		m.SuccessCriteria = strings.TrimSpace(m.SuccessCriteria)
		if m.Metric == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}
