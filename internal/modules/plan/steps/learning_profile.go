package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/studyforge/studyforge-backend/internal/clients/openai"
	"github.com/studyforge/studyforge-backend/internal/prompts"
	"github.com/studyforge/studyforge-backend/internal/types"
)

// BuildLearningProfile turns the caller's free-form preferences into a
// learning-style profile. analysisJSON is optional upstream context and may
// be empty.
func BuildLearningProfile(ctx context.Context, ai openai.Client, preferences string, analysisJSON string) (types.LearningProfile, error) {
	out := types.LearningProfile{}
	if ai == nil {
		return out, fmt.Errorf("BuildLearningProfile: ai required")
	}
	prefs := strings.TrimSpace(preferences)
	if prefs == "" {
		return out, fmt.Errorf("BuildLearningProfile: preferences required")
	}

	p, err := prompts.Build(prompts.PromptLearningProfile, prompts.Input{
		LearningPreferences: prefs,
		AnalysisJSON:        truncateForPrompt(analysisJSON, maxContextPromptRunes),
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

	out.PrimaryLearningStyle = strings.TrimSpace(out.PrimaryLearningStyle)
	out.RecommendedStudyMethods = dedupeStrings(out.RecommendedStudyMethods)
	out.SecondaryLearningStyles = dedupeStrings(out.SecondaryLearningStyles)
	out.PersonalizedTips = dedupeStrings(out.PersonalizedTips)
	if out.PrimaryLearningStyle == "" {
		return out, fmt.Errorf("BuildLearningProfile: empty primary learning style")
	}
	if len(out.RecommendedStudyMethods) == 0 {
		return out, fmt.Errorf("BuildLearningProfile: profile returned 0 study methods")
	}
	return out, nil
}
