// Package mealplan contains the structured meal plan domain model
package mealplan

// Meal is a single meal with its ordered ingredient list
type Meal struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
}

// MealPlan is the agreed JSON shape all generative-text outputs must conform to
type MealPlan struct {
	Meals []Meal `json:"meals"`
}

// FlattenIngredients returns every ingredient across all meals, in meal order
// then ingredient order. Duplicates are kept.
func (p *MealPlan) FlattenIngredients() []string {
	var ingredients []string
	for _, meal := range p.Meals {
		ingredients = append(ingredients, meal.Ingredients...)
	}
	return ingredients
}

// IsEmpty reports whether the plan carries no meals
func (p *MealPlan) IsEmpty() bool {
	return p == nil || len(p.Meals) == 0
}
