package gemini

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/richisen/smart-grocery-planner/internal/domain/mealplan"
	apperrors "github.com/richisen/smart-grocery-planner/pkg/errors"
)

// DecodeMealPlan parses generative output into a structured meal plan. One
// recovery policy applies to every generation path: strip code fences, try a
// strict unmarshal, repair the JSON, then fall back to the first
// brace-delimited fragment. Anything still unparseable is PARSE_FAILED.
func DecodeMealPlan(text string) (*mealplan.MealPlan, error) {
	cleaned := stripCodeFences(strings.TrimSpace(text))

	if plan, err := unmarshalPlan(cleaned); err == nil {
		return plan, nil
	}

	if repaired, err := jsonrepair.JSONRepair(cleaned); err == nil {
		if plan, err := unmarshalPlan(repaired); err == nil {
			return plan, nil
		}
	}

	// Models sometimes wrap the object in prose; take the outermost braces
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		fragment := cleaned[start : end+1]
		if plan, err := unmarshalPlan(fragment); err == nil {
			return plan, nil
		}
		if repaired, err := jsonrepair.JSONRepair(fragment); err == nil {
			if plan, err := unmarshalPlan(repaired); err == nil {
				return plan, nil
			}
		}
	}

	return nil, apperrors.NewParseError("no valid JSON object found in response", nil)
}

func unmarshalPlan(payload string) (*mealplan.MealPlan, error) {
	var plan mealplan.MealPlan
	if err := json.Unmarshal([]byte(payload), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// stripCodeFences removes a surrounding markdown code block, with or without
// a language tag
func stripCodeFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	trimmed := strings.TrimPrefix(text, "```")
	if newline := strings.Index(trimmed, "\n"); newline >= 0 {
		// Drop the language tag line (e.g. "json")
		if strings.TrimSpace(trimmed[:newline]) != "" && !strings.Contains(trimmed[:newline], "{") {
			trimmed = trimmed[newline+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
