package shopping

import (
	"context"
	"testing"

	"github.com/richisen/smart-grocery-planner/internal/domain/mealplan"
	domain "github.com/richisen/smart-grocery-planner/internal/domain/shopping"
	apperrors "github.com/richisen/smart-grocery-planner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockProductSearcher is a mock implementation of the product search port
type MockProductSearcher struct {
	mock.Mock
}

func (m *MockProductSearcher) Search(ctx context.Context, term, locationID string) ([]domain.Product, error) {
	args := m.Called(ctx, term, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func product(description string) []domain.Product {
	return []domain.Product{{ProductID: "p1", Description: description}}
}

func TestBuildList_OneEntryPerIngredientInOrder(t *testing.T) {
	// Arrange: two meals, four ingredients, mixed outcomes
	searcher := new(MockProductSearcher)
	searcher.On("Search", mock.Anything, "spaghetti", "").Return(product("Barilla Spaghetti"), nil)
	searcher.On("Search", mock.Anything, "eggs", "").Return(nil, apperrors.NewSearchError("eggs", 3, assert.AnError))
	searcher.On("Search", mock.Anything, "unicorn fruit", "").Return([]domain.Product{}, nil)
	searcher.On("Search", mock.Anything, "rice", "").Return(product("Jasmine Rice"), nil)

	service := NewService(searcher, zaptest.NewLogger(t))
	plan := &mealplan.MealPlan{Meals: []mealplan.Meal{
		{Name: "Pasta", Ingredients: []string{"spaghetti", "eggs"}},
		{Name: "Curry", Ingredients: []string{"unicorn fruit", "rice"}},
	}}

	// Act
	entries := service.BuildList(context.Background(), plan)

	// Assert: every ingredient has an entry, order preserved, failures inline
	require.Len(t, entries, 4)

	assert.Equal(t, "spaghetti", entries[0].Ingredient)
	require.NotNil(t, entries[0].Product)
	assert.Equal(t, "Barilla Spaghetti", entries[0].Product.Description)

	assert.Equal(t, "eggs", entries[1].Ingredient)
	assert.Nil(t, entries[1].Product)
	assert.Equal(t, "Product search failed", entries[1].Error)

	assert.Equal(t, "unicorn fruit", entries[2].Ingredient)
	assert.Nil(t, entries[2].Product)
	assert.Equal(t, "No products found", entries[2].Message)

	assert.Equal(t, "rice", entries[3].Ingredient)
	require.NotNil(t, entries[3].Product)
	assert.Equal(t, "Jasmine Rice", entries[3].Product.Description)
}

func TestBuildList_DuplicateIngredientsSearchedSeparately(t *testing.T) {
	// Arrange
	searcher := new(MockProductSearcher)
	searcher.On("Search", mock.Anything, "eggs", "").Return(product("Large Eggs"), nil).Twice()

	service := NewService(searcher, zaptest.NewLogger(t))
	plan := &mealplan.MealPlan{Meals: []mealplan.Meal{
		{Name: "Omelette", Ingredients: []string{"eggs"}},
		{Name: "Fried rice", Ingredients: []string{"eggs"}},
	}}

	// Act
	entries := service.BuildList(context.Background(), plan)

	// Assert
	require.Len(t, entries, 2)
	searcher.AssertNumberOfCalls(t, "Search", 2)
}

func TestBuildList_FirstMatchWins(t *testing.T) {
	// Arrange: multiple matches, only the first is attached
	searcher := new(MockProductSearcher)
	searcher.On("Search", mock.Anything, "milk", "").Return([]domain.Product{
		{ProductID: "p1", Description: "Whole Milk"},
		{ProductID: "p2", Description: "Skim Milk"},
	}, nil)

	service := NewService(searcher, zaptest.NewLogger(t))
	plan := &mealplan.MealPlan{Meals: []mealplan.Meal{
		{Name: "Cereal", Ingredients: []string{"milk"}},
	}}

	// Act
	entries := service.BuildList(context.Background(), plan)

	// Assert
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Product)
	assert.Equal(t, "Whole Milk", entries[0].Product.Description)
}

func TestBuildList_EmptyPlan(t *testing.T) {
	searcher := new(MockProductSearcher)
	service := NewService(searcher, zaptest.NewLogger(t))

	entries := service.BuildList(context.Background(), &mealplan.MealPlan{})

	// Non-nil so the response field serializes as [] rather than null
	require.NotNil(t, entries)
	assert.Empty(t, entries)
	searcher.AssertNotCalled(t, "Search")
}
