// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/richisen/smart-grocery-planner/internal/domain/conversation"
	"github.com/richisen/smart-grocery-planner/internal/domain/mealplan"
	"github.com/richisen/smart-grocery-planner/internal/domain/shopping"
)

// ChatReply is the outcome of one chat relay turn
type ChatReply struct {
	// Message is the assistant's reply text
	Message string `json:"message"`
	// PlanReady is true once the assistant has announced it gathered enough
	// information to generate a meal plan
	PlanReady bool `json:"planReady"`
}

// PlannerService defines the meal planning use cases.
// This is the primary port that HTTP handlers use.
type PlannerService interface {
	// Chat relays one conversational turn to the generative-text service.
	// When initial is true the prior transcript is not sent upstream, so the
	// service only sees the opening prompt.
	Chat(ctx context.Context, message string, history []conversation.Message, initial bool) (*ChatReply, error)

	// GeneratePlan produces a structured meal plan from free-text preferences
	GeneratePlan(ctx context.Context, preferences string) (*mealplan.MealPlan, error)

	// GeneratePlanFromHistory produces a structured meal plan from a completed
	// preference-gathering conversation
	GeneratePlanFromHistory(ctx context.Context, history []conversation.Message) (*mealplan.MealPlan, error)

	// RefinePlan replaces an existing plan according to a free-text refinement
	// request
	RefinePlan(ctx context.Context, plan *mealplan.MealPlan, refinement string) (*mealplan.MealPlan, error)
}

// ShoppingListService maps a meal plan's ingredients to grocery products
type ShoppingListService interface {
	// BuildList returns exactly one entry per flattened ingredient, in order.
	// Individual search failures are downgraded to entry annotations and never
	// abort the batch.
	BuildList(ctx context.Context, plan *mealplan.MealPlan) []shopping.ListEntry
}
