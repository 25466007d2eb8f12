package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/helios-game/helios/internal/domain"
)

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func decodeObject(raw string, v any) error {
	cleaned := stripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("parse completion: %w (raw: %s)", err, cleaned)
	}
	return nil
}

// parseDialogue extracts the "dialogue" field; a missing or blank field maps
// to FallbackDialogue.
func parseDialogue(raw string) (string, error) {
	var out struct {
		Dialogue *string `json:"dialogue"`
	}
	if err := decodeObject(raw, &out); err != nil {
		return "", err
	}
	if out.Dialogue == nil || strings.TrimSpace(*out.Dialogue) == "" {
		return FallbackDialogue, nil
	}
	return strings.TrimSpace(*out.Dialogue), nil
}

// parseSentiment extracts the per-axis delta; missing axes count as zero.
// Values are not range-checked.
func parseSentiment(raw string) (domain.BeliefDelta, error) {
	var out struct {
		Survival *float64 `json:"survival"`
		Idealism *float64 `json:"idealism"`
	}
	if err := decodeObject(raw, &out); err != nil {
		return domain.BeliefDelta{}, err
	}
	var delta domain.BeliefDelta
	if out.Survival != nil {
		delta.Survival = *out.Survival
	}
	if out.Idealism != nil {
		delta.Idealism = *out.Idealism
	}
	return delta, nil
}

func parseReflection(raw string) (*domain.Reflection, error) {
	var r domain.Reflection
	if err := decodeObject(raw, &r); err != nil {
		return nil, err
	}
	r.Monologue = strings.TrimSpace(r.Monologue)
	if r.Monologue == "" {
		r.Monologue = FallbackMonologue
	}
	if strings.TrimSpace(r.ChoiceA) == "" {
		r.ChoiceA = DefaultChoiceA
	}
	if strings.TrimSpace(r.ChoiceB) == "" {
		r.ChoiceB = DefaultChoiceB
	}
	return &r, nil
}
