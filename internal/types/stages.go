package types

// Typed payloads for the five plan-generation stages. Field names mirror the
// JSON the stages are asked to produce.

type SyllabusAnalysis struct {
	Subjects            []Subject `json:"subjects"`
	TotalEstimatedHours float64   `json:"total_estimated_hours"`
	Prerequisites       []string  `json:"prerequisites,omitempty"`
	LearningPathSummary string    `json:"learning_path_summary,omitempty"`
}

type Subject struct {
	Name     string   `json:"name"`
	Chapters []string `json:"chapters"`
}

type LearningProfile struct {
	PrimaryLearningStyle    string   `json:"primary_learning_style"`
	RecommendedStudyMethods []string `json:"recommended_study_methods"`
	SecondaryLearningStyles []string `json:"secondary_learning_styles,omitempty"`
	PersonalizedTips        []string `json:"personalized_tips,omitempty"`
}

type StudySchedule struct {
	Schedule         []ScheduleDay `json:"schedule"`
	WeeklyMilestones []string      `json:"weekly_milestones,omitempty"`
}

type ScheduleDay struct {
	Day      int            `json:"day"`
	Date     string         `json:"date,omitempty"`
	Sessions []StudySession `json:"sessions"`
}

type StudySession struct {
	Time  string `json:"time"`
	Topic string `json:"topic"`
}

type ResourceSet struct {
	ResourceRecommendations []TopicResources `json:"resource_recommendations"`
}

type TopicResources struct {
	Topic     string     `json:"topic"`
	Resources []Resource `json:"resources"`
}

type Resource struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

type ProgressPlan struct {
	CheckpointSchedule []Checkpoint     `json:"checkpoint_schedule"`
	TrackingMetrics    []TrackingMetric `json:"tracking_metrics,omitempty"`
	ReflectionPrompts  []string         `json:"reflection_prompts,omitempty"`
}

type Checkpoint struct {
	Day        int    `json:"day"`
	Checkpoint string `json:"checkpoint"`
	Assessment string `json:"assessment,omitempty"`
}

type TrackingMetric struct {
	Metric          string `json:"metric"`
	HowToMeasure    string `json:"how_to_measure"`
	SuccessCriteria string `json:"success_criteria"`
}
