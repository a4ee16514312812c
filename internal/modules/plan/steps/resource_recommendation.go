package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/studyforge/studyforge-backend/internal/clients/openai"
	"github.com/studyforge/studyforge-backend/internal/prompts"
	"github.com/studyforge/studyforge-backend/internal/types"
)

func BuildResourceSet(ctx context.Context, ai openai.Client, analysisJSON string, profileJSON string) (types.ResourceSet, error) {
	out := types.ResourceSet{}
	if ai == nil {
		return out, fmt.Errorf("BuildResourceSet: ai required")
	}

	p, err := prompts.Build(prompts.PromptResourceRecommendation, prompts.Input{
		AnalysisJSON: truncateForPrompt(analysisJSON, maxContextPromptRunes),
		ProfileJSON:  truncateForPrompt(profileJSON, maxContextPromptRunes),
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

	out.ResourceRecommendations = normalizeTopicResources(out.ResourceRecommendations)
	if len(out.ResourceRecommendations) == 0 {
		return out, fmt.Errorf("BuildResourceSet: 0 valid resource topics")
	}
	return out, nil
}

func normalizeTopicResources(in []types.TopicResources) []types.TopicResources {
	out := make([]types.TopicResources, 0, len(in))
	seen := map[string]bool{}
	for _, tr := range in {
		tr.Topic = strings.TrimSpace(tr.Topic)
		if tr.Topic == "" || seen[strings.ToLower(tr.Topic)] {
			continue
		}
		seen[strings.ToLower(tr.Topic)] = true
		resources := make([]types.Resource, 0, len(tr.Resources))
		for _, r := range tr.Resources {
			r.Name = strings.TrimSpace(r.Name)
			r.Type = strings.TrimSpace(strings.ToLower(r.Type))
			r.Description = strings.TrimSpace(r.Description)
			if r.Name == "" {
				continue
			}
			resources = append(resources, r)
		}
		if len(resources) == 0 {
			continue
		}
		tr.Resources = resources
		out = append(out, tr)
	}
	return out
}
