package prompts

import "sync"

var registerOnce sync.Once

// RegisterAll registers every plan prompt. Safe to call more than once.
func RegisterAll() {
	registerOnce.Do(registerAll)
}

func registerAll() {
	RegisterSpec(Spec{
		Name:       PromptSyllabusAnalysis,
		Version:    1,
		SchemaName: "syllabus_analysis",
		Schema:     SyllabusAnalysisSchema,
		System: `
You are an AI curriculum assistant analyzing a course syllabus.
Ground every subject and chapter in the syllabus text; do not invent topics.
Return JSON only.`,
		User: `
SYLLABUS_TEXT:
{{.SyllabusText}}

Task:
- Break the syllabus into subjects, each with its ordered chapter titles.
- total_estimated_hours: realistic total study hours for the whole course (number).
- prerequisites: knowledge the material assumes (may be empty).
- learning_path_summary: 1-3 sentences on how the course builds up.`,
		Validators: []Validator{
			RequireNonEmpty("SyllabusText", func(in Input) string { return in.SyllabusText }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptLearningProfile,
		Version:    1,
		SchemaName: "learning_profile",
		Schema:     LearningProfileSchema,
		System: `
You assess how a learner studies best from their own description.
Be concrete; method recommendations must be actionable, not generic advice.
Return JSON only.`,
		User: `
LEARNING_PREFERENCES:
{{.LearningPreferences}}

SYLLABUS_ANALYSIS (optional context, may be empty):
{{.AnalysisJSON}}

Output rules:
- primary_learning_style: one short label (e.g. visual, auditory, kinesthetic, reading/writing).
- recommended_study_methods: 3-6 methods matched to the style and the material.
- secondary_learning_styles: may be empty.
- personalized_tips: short actionable tips, may be empty.`,
		Validators: []Validator{
			RequireNonEmpty("LearningPreferences", func(in Input) string { return in.LearningPreferences }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptScheduleSynthesis,
		Version:    1,
		SchemaName: "schedule_synthesis",
		Schema:     StudyScheduleSchema,
		System: `
You build practical day-by-day study schedules from a syllabus breakdown and a learner profile.
Spread topics across the full duration with a consistent daily load.
Return JSON only.`,
		User: `
SYLLABUS_ANALYSIS:
{{.AnalysisJSON}}

LEARNING_ANALYSIS:
{{.ProfileJSON}}

Study duration (days): {{.DurationDays}}

Output rules:
- schedule: exactly {{.DurationDays}} day entries numbered 1..{{.DurationDays}}.
- Each day: date (YYYY-MM-DD starting today, may be empty) and sessions [{time, topic}].
- 1-3 sessions per day; time as a range like "09:00-10:30".
- weekly_milestones: one per week, may be empty.`,
		Validators: []Validator{
			RequirePositive("DurationDays", func(in Input) int { return in.DurationDays }),
		},
	})

	RegisterSpec(Spec{
		Name:       PromptResourceRecommendation,
		Version:    1,
		SchemaName: "resource_recommendation",
		Schema:     ResourceSetSchema,
		System: `
You map study topics to concrete learning resources.
Prefer resource types that fit the learner's primary style.
Return JSON only.`,
		User: `
SYLLABUS_ANALYSIS:
{{.AnalysisJSON}}

LEARNING_ANALYSIS:
{{.ProfileJSON}}

Output rules:
- resource_recommendations: one entry per major topic from the analysis.
- Each resource: name, type (book|video|course|article|practice), one-line description.
- 2-4 resources per topic.`,
	})

	RegisterSpec(Spec{
		Name:       PromptProgressTracking,
		Version:    1,
		SchemaName: "progress_tracking",
		Schema:     ProgressPlanSchema,
		System: `
You design lightweight progress tracking for personal study plans.
Checkpoints must reference days that exist in the schedule.
Return JSON only.`,
		User: `
SYLLABUS_ANALYSIS (summary):
{{.AnalysisJSON}}

SCHEDULE (summary):
{{.ScheduleJSON}}

Output rules:
- checkpoint_schedule: 3-8 checkpoints ({day, checkpoint, assessment}).
- tracking_metrics: 2-5 entries ({metric, how_to_measure, success_criteria}).
- reflection_prompts: short prompts, may be empty.`,
	})
}
