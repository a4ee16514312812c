package prompts

type PromptName string

const (
	PromptSyllabusAnalysis       PromptName = "syllabus_analysis"
	PromptLearningProfile        PromptName = "learning_profile"
	PromptScheduleSynthesis      PromptName = "schedule_synthesis"
	PromptResourceRecommendation PromptName = "resource_recommendation"
	PromptProgressTracking       PromptName = "progress_tracking"
)
