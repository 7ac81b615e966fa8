// Package planner provides the application layer for meal plan use cases
package planner

import (
	"context"
	"strings"

	"github.com/richisen/smart-grocery-planner/internal/domain/conversation"
	"github.com/richisen/smart-grocery-planner/internal/domain/mealplan"
	"github.com/richisen/smart-grocery-planner/internal/ports/inbound"
	"github.com/richisen/smart-grocery-planner/internal/ports/outbound"
	apperrors "github.com/richisen/smart-grocery-planner/pkg/errors"
	"go.uber.org/zap"
)

// planReadySentinel is the sentence the assistant is instructed to say once it
// has gathered enough preferences. Its presence in a reply marks the
// conversation as complete. The opening prompt below must keep this sentence
// verbatim.
const planReadySentinel = "I'll now generate a meal plan for you."

// openingPrompt steers the preference-gathering conversation. It is used when
// an initial chat turn arrives without its own instruction text.
const openingPrompt = `You are an AI assistant helping to plan meals. Start by asking the user about the number of meals, number of people, and any dietary restrictions. Then, ask follow-up questions based on their responses. Explore topics like cuisine preferences, cooking skill level, time constraints for meal preparation, and any other factors you think are important for meal planning. Ask one question at a time and wait for the user's response before asking the next question. Once you have gathered sufficient information, say "Thank you for providing all this information. I'll now generate a meal plan for you."`

// Service implements the PlannerService use cases
type Service struct {
	generator outbound.PlanGenerator
	logger    *zap.Logger
}

// NewService creates the planner application service
func NewService(generator outbound.PlanGenerator, logger *zap.Logger) *Service {
	return &Service{
		generator: generator,
		logger:    logger.Named("planner-service"),
	}
}

// Chat relays one conversational turn and reports whether the assistant has
// announced plan readiness
func (s *Service) Chat(ctx context.Context, message string, history []conversation.Message, initial bool) (*inbound.ChatReply, error) {
	if initial && strings.TrimSpace(message) == "" {
		message = openingPrompt
	}
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.NewBadRequestError("Message is required")
	}

	reply, err := s.generator.Chat(ctx, message, history, initial)
	if err != nil {
		return nil, err
	}

	ready := strings.Contains(reply, planReadySentinel)
	if ready {
		s.logger.Info("Preference gathering complete", zap.Int("turns", len(history)+1))
	}

	return &inbound.ChatReply{Message: reply, PlanReady: ready}, nil
}

// GeneratePlan produces a meal plan from free-text preferences
func (s *Service) GeneratePlan(ctx context.Context, preferences string) (*mealplan.MealPlan, error) {
	if strings.TrimSpace(preferences) == "" {
		return nil, apperrors.NewBadRequestError("Preferences are required")
	}

	s.logger.Info("Generating meal plan from preferences")
	return s.generator.GeneratePlan(ctx, preferences)
}

// GeneratePlanFromHistory produces a meal plan from a completed conversation
func (s *Service) GeneratePlanFromHistory(ctx context.Context, history []conversation.Message) (*mealplan.MealPlan, error) {
	if len(history) == 0 {
		return nil, apperrors.NewBadRequestError("Chat history is required")
	}

	s.logger.Info("Generating meal plan from conversation", zap.Int("turns", len(history)))
	return s.generator.GeneratePlanFromConversation(ctx, history)
}

// RefinePlan replaces an existing plan according to a refinement request
func (s *Service) RefinePlan(ctx context.Context, plan *mealplan.MealPlan, refinement string) (*mealplan.MealPlan, error) {
	if plan.IsEmpty() {
		return nil, apperrors.NewBadRequestError("A meal plan to refine is required")
	}
	if strings.TrimSpace(refinement) == "" {
		return nil, apperrors.NewBadRequestError("A refinement request is required")
	}

	s.logger.Info("Refining meal plan", zap.Int("meals", len(plan.Meals)))
	return s.generator.RefinePlan(ctx, plan, refinement)
}
