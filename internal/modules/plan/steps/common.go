package steps

import (
	"encoding/json"
	"strings"
)

// maxContextPromptRunes bounds serialized upstream stage results when they
// are interpolated into a later stage's prompt.
const maxContextPromptRunes = 8000

// decodeInto round-trips a structured-output object into a typed stage shape.
func decodeInto(obj map[string]any, out any) error {
	raw, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func dedupeStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// truncateForPrompt keeps upstream context bounded; stage outputs can get
// large and the downstream prompts only need the gist.
func truncateForPrompt(s string, maxRunes int) string {
	s = strings.TrimSpace(s)
	if maxRunes <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "…"
}
