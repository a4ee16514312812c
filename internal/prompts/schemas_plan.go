package prompts

func SyllabusAnalysisSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"subjects": ArraySchema(ObjectSchema(map[string]any{
			"name":     StringSchema(),
			"chapters": StringArraySchema(),
		}, []string{"name", "chapters"})),
		"total_estimated_hours": NumberSchema(),
		"prerequisites":         StringArraySchema(),
		"learning_path_summary": StringSchema(),
	}, []string{"subjects", "total_estimated_hours", "prerequisites", "learning_path_summary"})
}

func LearningProfileSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"primary_learning_style":    StringSchema(),
		"recommended_study_methods": StringArraySchema(),
		"secondary_learning_styles": StringArraySchema(),
		"personalized_tips":         StringArraySchema(),
	}, []string{"primary_learning_style", "recommended_study_methods", "secondary_learning_styles", "personalized_tips"})
}

func StudyScheduleSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"schedule": ArraySchema(ObjectSchema(map[string]any{
			"day":  IntSchema(),
			"date": StringSchema(),
			"sessions": ArraySchema(ObjectSchema(map[string]any{
				"time":  StringSchema(),
				"topic": StringSchema(),
			}, []string{"time", "topic"})),
		}, []string{"day", "date", "sessions"})),
		"weekly_milestones": StringArraySchema(),
	}, []string{"schedule", "weekly_milestones"})
}

func ResourceSetSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"resource_recommendations": ArraySchema(ObjectSchema(map[string]any{
			"topic": StringSchema(),
			"resources": ArraySchema(ObjectSchema(map[string]any{
				"name":        StringSchema(),
				"type":        StringSchema(),
				"description": StringSchema(),
			}, []string{"name", "type", "description"})),
		}, []string{"topic", "resources"})),
	}, []string{"resource_recommendations"})
}

func ProgressPlanSchema() map[string]any {
	return ObjectSchema(map[string]any{
		"checkpoint_schedule": ArraySchema(ObjectSchema(map[string]any{
			"day":        IntSchema(),
			"checkpoint": StringSchema(),
			"assessment": StringSchema(),
		}, []string{"day", "checkpoint", "assessment"})),
		"tracking_metrics": ArraySchema(ObjectSchema(map[string]any{
			"metric":           StringSchema(),
			"how_to_measure":   StringSchema(),
			"success_criteria": StringSchema(),
		}, []string{"metric", "how_to_measure", "success_criteria"})),
		"reflection_prompts": StringArraySchema(),
	}, []string{"checkpoint_schedule", "tracking_metrics", "reflection_prompts"})
}
