package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/richisen/smart-grocery-planner/internal/domain/conversation"
	"github.com/richisen/smart-grocery-planner/internal/domain/mealplan"
)

// planShapeInstructions pins the JSON contract every plan response must follow
const planShapeInstructions = `Provide the response in JSON format without any markdown formatting or code block syntax. The JSON should have this structure:
{
  "meals": [
    {
      "name": "Meal Name",
      "ingredients": ["ingredient 1", "ingredient 2"]
    }
  ]
}
Ensure all ingredient lists are properly formatted arrays.`

// planPrompt builds the single-shot generation prompt from user preferences
func planPrompt(preferences string) string {
	return fmt.Sprintf("Generate a meal plan based on the following preferences: %s. %s",
		preferences, planShapeInstructions)
}

// conversationPlanPrompt builds the follow-up generation prompt from a
// completed preference-gathering transcript
func conversationPlanPrompt(history []conversation.Message) string {
	var transcript strings.Builder
	for _, message := range history {
		speaker := "Assistant"
		if message.IsUser {
			speaker = "User"
		}
		fmt.Fprintf(&transcript, "%s: %s\n", speaker, message.Text)
	}

	return fmt.Sprintf(`The following conversation gathered a user's meal planning preferences:

%s
Generate a meal plan matching those preferences. %s`, transcript.String(), planShapeInstructions)
}

// refinePrompt builds the refinement prompt embedding the current plan
func refinePrompt(plan *mealplan.MealPlan, refinement string) (string, error) {
	current, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("failed to marshal current plan: %w", err)
	}

	return fmt.Sprintf(`Here is an existing meal plan:

%s

Adjust it according to this request: %s

Return the complete updated meal plan. %s`, string(current), refinement, planShapeInstructions), nil
}
