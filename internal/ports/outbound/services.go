// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"

	"github.com/richisen/smart-grocery-planner/internal/domain/conversation"
	"github.com/richisen/smart-grocery-planner/internal/domain/mealplan"
	"github.com/richisen/smart-grocery-planner/internal/domain/shopping"
)

// PlanGenerator defines the interface to the generative-text service
type PlanGenerator interface {
	// Chat sends one user turn with the prior transcript and returns the
	// assistant's reply. When initial is true the history is not sent upstream.
	Chat(ctx context.Context, message string, history []conversation.Message, initial bool) (string, error)

	// GeneratePlan prompts for a structured meal plan based on free-text
	// user preferences
	GeneratePlan(ctx context.Context, preferences string) (*mealplan.MealPlan, error)

	// GeneratePlanFromConversation prompts for a structured meal plan based on
	// a completed preference-gathering transcript
	GeneratePlanFromConversation(ctx context.Context, history []conversation.Message) (*mealplan.MealPlan, error)

	// RefinePlan re-prompts with an existing plan and a refinement request,
	// expecting a full replacement plan in the same shape
	RefinePlan(ctx context.Context, plan *mealplan.MealPlan, refinement string) (*mealplan.MealPlan, error)
}

// ProductSearcher defines the interface to the grocery product search API.
// An empty locationID falls back to the client's configured store location.
type ProductSearcher interface {
	Search(ctx context.Context, term, locationID string) ([]shopping.Product, error)
}
