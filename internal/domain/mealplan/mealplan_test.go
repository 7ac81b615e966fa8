package mealplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlattenIngredients_PreservesOrderAndDuplicates(t *testing.T) {
	plan := &MealPlan{Meals: []Meal{
		{Name: "Omelette", Ingredients: []string{"eggs", "butter"}},
		{Name: "Fried rice", Ingredients: []string{"rice", "eggs"}},
	}}

	ingredients := plan.FlattenIngredients()

	assert.Equal(t, []string{"eggs", "butter", "rice", "eggs"}, ingredients)
}

func TestFlattenIngredients_EmptyPlan(t *testing.T) {
	plan := &MealPlan{}

	assert.Empty(t, plan.FlattenIngredients())
}

func TestIsEmpty(t *testing.T) {
	var nilPlan *MealPlan
	assert.True(t, nilPlan.IsEmpty())
	assert.True(t, (&MealPlan{}).IsEmpty())
	assert.False(t, (&MealPlan{Meals: []Meal{{Name: "Soup"}}}).IsEmpty())
}
