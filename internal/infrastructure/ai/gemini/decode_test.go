package gemini

import (
	"testing"

	apperrors "github.com/richisen/smart-grocery-planner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMealPlan_StrictJSON(t *testing.T) {
	plan, err := DecodeMealPlan(`{"meals":[{"name":"Pasta","ingredients":["spaghetti","eggs"]}]}`)

	require.NoError(t, err)
	require.Len(t, plan.Meals, 1)
	assert.Equal(t, "Pasta", plan.Meals[0].Name)
	assert.Equal(t, []string{"spaghetti", "eggs"}, plan.Meals[0].Ingredients)
}

func TestDecodeMealPlan_FencedWithLanguageTag(t *testing.T) {
	text := "```json\n{\"meals\":[{\"name\":\"Salad\",\"ingredients\":[\"lettuce\"]}]}\n```"

	plan, err := DecodeMealPlan(text)

	require.NoError(t, err)
	require.Len(t, plan.Meals, 1)
	assert.Equal(t, "Salad", plan.Meals[0].Name)
}

func TestDecodeMealPlan_FencedWithoutLanguageTag(t *testing.T) {
	text := "```\n{\"meals\":[{\"name\":\"Soup\",\"ingredients\":[\"broth\"]}]}\n```"

	plan, err := DecodeMealPlan(text)

	require.NoError(t, err)
	require.Len(t, plan.Meals, 1)
	assert.Equal(t, "Soup", plan.Meals[0].Name)
}

func TestDecodeMealPlan_RepairsTrailingComma(t *testing.T) {
	text := `{"meals":[{"name":"Tacos","ingredients":["tortillas","beef",]},]}`

	plan, err := DecodeMealPlan(text)

	require.NoError(t, err)
	require.Len(t, plan.Meals, 1)
	assert.Equal(t, []string{"tortillas", "beef"}, plan.Meals[0].Ingredients)
}

func TestDecodeMealPlan_ProseWrappedObject(t *testing.T) {
	text := `Here is your meal plan! {"meals":[{"name":"Curry","ingredients":["rice"]}]} Enjoy your week.`

	plan, err := DecodeMealPlan(text)

	require.NoError(t, err)
	require.Len(t, plan.Meals, 1)
	assert.Equal(t, "Curry", plan.Meals[0].Name)
}

func TestDecodeMealPlan_UnrecoverableText(t *testing.T) {
	plan, err := DecodeMealPlan("Sorry, I cannot produce a meal plan right now.")

	require.Error(t, err)
	assert.Nil(t, plan)
	assert.True(t, apperrors.Is(err, apperrors.CodeParseFailed))
}
