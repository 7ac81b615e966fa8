// Package shopping provides the application layer for shopping list building
package shopping

import (
	"context"

	"github.com/richisen/smart-grocery-planner/internal/domain/mealplan"
	"github.com/richisen/smart-grocery-planner/internal/domain/shopping"
	"github.com/richisen/smart-grocery-planner/internal/ports/outbound"
	"go.uber.org/zap"
)

// Messages attached to entries without a product
const (
	msgNoProductsFound = "No products found"
	msgSearchFailed    = "Product search failed"
)

// Service implements the ShoppingListService use case
type Service struct {
	searcher outbound.ProductSearcher
	logger   *zap.Logger
}

// NewService creates the shopping list application service
func NewService(searcher outbound.ProductSearcher, logger *zap.Logger) *Service {
	return &Service{
		searcher: searcher,
		logger:   logger.Named("shopping-service"),
	}
}

// BuildList maps every ingredient across all meals to a product, in meal order
// then ingredient order. Searches run strictly one at a time. A failed search
// annotates its entry and never aborts the batch, so the result always has
// exactly one entry per flattened ingredient, duplicates included.
func (s *Service) BuildList(ctx context.Context, plan *mealplan.MealPlan) []shopping.ListEntry {
	ingredients := plan.FlattenIngredients()

	// Non-nil even when empty so the list always serializes as an array
	entries := make([]shopping.ListEntry, 0, len(ingredients))

	for _, ingredient := range ingredients {
		products, err := s.searcher.Search(ctx, ingredient, "")
		switch {
		case err != nil:
			s.logger.Warn("Ingredient search failed",
				zap.String("ingredient", ingredient),
				zap.Error(err))
			entries = append(entries, shopping.ListEntry{
				Ingredient: ingredient,
				Error:      msgSearchFailed,
			})
		case len(products) > 0:
			entries = append(entries, shopping.ListEntry{
				Ingredient: ingredient,
				Product:    &products[0],
			})
		default:
			entries = append(entries, shopping.ListEntry{
				Ingredient: ingredient,
				Message:    msgNoProductsFound,
			})
		}
	}

	s.logger.Info("Shopping list built",
		zap.Int("meals", len(plan.Meals)),
		zap.Int("entries", len(entries)))

	return entries
}
