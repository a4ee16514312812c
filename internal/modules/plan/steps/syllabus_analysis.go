package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/studyforge/studyforge-backend/internal/clients/openai"
	"github.com/studyforge/studyforge-backend/internal/prompts"
	"github.com/studyforge/studyforge-backend/internal/types"
)

// maxSyllabusPromptRunes bounds how much extracted text goes into the prompt.
const maxSyllabusPromptRunes = 24000

func BuildSyllabusAnalysis(ctx context.Context, ai openai.Client, syllabusText string) (types.SyllabusAnalysis, error) {
	out := types.SyllabusAnalysis{}
	if ai == nil {
		return out, fmt.Errorf("BuildSyllabusAnalysis: ai required")
	}
	text := strings.TrimSpace(syllabusText)
	if text == "" {
		return out, fmt.Errorf("BuildSyllabusAnalysis: syllabus text required")
	}

	p, err := prompts.Build(prompts.PromptSyllabusAnalysis, prompts.Input{
		SyllabusText: truncateForPrompt(text, maxSyllabusPromptRunes),
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

	out.Subjects = normalizeSubjects(out.Subjects)
	out.Prerequisites = dedupeStrings(out.Prerequisites)
	out.LearningPathSummary = strings.TrimSpace(out.LearningPathSummary)
	if out.TotalEstimatedHours < 0 {
		out.TotalEstimatedHours = 0
	}
	if len(out.Subjects) == 0 {
		return out, fmt.Errorf("BuildSyllabusAnalysis: analysis returned 0 valid subjects")
	}
	return out, nil
}

func normalizeSubjects(in []types.Subject) []types.Subject {
	out := make([]types.Subject, 0, len(in))
	seen := map[string]bool{}
	for _, s := range in {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" || seen[strings.ToLower(s.Name)] {
			continue
		}
		seen[strings.ToLower(s.Name)] = true
		s.Chapters = dedupeStrings(s.Chapters)
		if len(s.Chapters) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}
