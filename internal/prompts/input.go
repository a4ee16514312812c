package prompts

// Input is a superset of the fields any plan prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	// Stage 1: extracted syllabus text.
	SyllabusText string
	// Stage 2: caller-supplied preferences.
	LearningPreferences string
	// Stage 3: requested plan length.
	DurationDays int
	// Upstream results, serialized (and possibly truncated) by the caller.
	AnalysisJSON string
	ProfileJSON  string
	ScheduleJSON string
}
