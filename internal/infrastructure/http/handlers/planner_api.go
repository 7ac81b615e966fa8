// Package handlers provides HTTP handlers for the planner JSON API
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/richisen/smart-grocery-planner/internal/domain/conversation"
	"github.com/richisen/smart-grocery-planner/internal/domain/mealplan"
	"github.com/richisen/smart-grocery-planner/internal/infrastructure/http/middleware"
	"github.com/richisen/smart-grocery-planner/internal/ports/inbound"
	apperrors "github.com/richisen/smart-grocery-planner/pkg/errors"
	"go.uber.org/zap"
)

// PlannerAPIHandlers handles planner API requests
type PlannerAPIHandlers struct {
	plannerService inbound.PlannerService
	listService    inbound.ShoppingListService
	validate       *validator.Validate
	logger         *zap.Logger
}

// NewPlannerAPIHandlers creates a new planner API handlers instance
func NewPlannerAPIHandlers(
	plannerService inbound.PlannerService,
	listService inbound.ShoppingListService,
	logger *zap.Logger,
) *PlannerAPIHandlers {
	return &PlannerAPIHandlers{
		plannerService: plannerService,
		listService:    listService,
		validate:       validator.New(),
		logger:         logger,
	}
}

// ChatRequest represents one conversational turn from the UI
type ChatRequest struct {
	Message   string                 `json:"message"`
	History   []conversation.Message `json:"history"`
	IsInitial bool                   `json:"isInitial"`
}

// GenerateMealPlanRequest carries either free-text preferences or a completed
// chat transcript
type GenerateMealPlanRequest struct {
	UserInput   string                 `json:"userInput,omitempty"`
	ChatHistory []conversation.Message `json:"chatHistory,omitempty"`
}

// GenerateShoppingListRequest represents a shopping list build request
type GenerateShoppingListRequest struct {
	MealPlan *mealplan.MealPlan `json:"mealPlan" validate:"required"`
}

// RefineMealPlanRequest represents a plan refinement request
type RefineMealPlanRequest struct {
	MealPlan   *mealplan.MealPlan `json:"mealPlan" validate:"required"`
	Refinement string             `json:"refinement" validate:"required"`
}

// Chat handles POST /api/v1/chat
func (h *PlannerAPIHandlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeAppError(w, r, "chat", apperrors.NewBadRequestError("Invalid JSON payload"))
		return
	}

	reply, err := h.plannerService.Chat(r.Context(), req.Message, req.History, req.IsInitial)
	if err != nil {
		h.writeAppError(w, r, "chat", err)
		return
	}

	h.writeJSON(w, http.StatusOK, reply)
}

// GenerateMealPlan handles POST /api/v1/generate-meal-plan
func (h *PlannerAPIHandlers) GenerateMealPlan(w http.ResponseWriter, r *http.Request) {
	var req GenerateMealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeAppError(w, r, "generate-meal-plan", apperrors.NewBadRequestError("Invalid JSON payload"))
		return
	}
	if req.UserInput == "" && len(req.ChatHistory) == 0 {
		h.writeAppError(w, r, "generate-meal-plan", apperrors.NewBadRequestError("Either userInput or chatHistory is required"))
		return
	}

	var (
		plan *mealplan.MealPlan
		err  error
	)
	if len(req.ChatHistory) > 0 {
		plan, err = h.plannerService.GeneratePlanFromHistory(r.Context(), req.ChatHistory)
	} else {
		plan, err = h.plannerService.GeneratePlan(r.Context(), req.UserInput)
	}
	if err != nil {
		h.writeAppError(w, r, "generate-meal-plan", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"mealPlan": plan})
}

// GenerateShoppingList handles POST /api/v1/generate-shopping-list
func (h *PlannerAPIHandlers) GenerateShoppingList(w http.ResponseWriter, r *http.Request) {
	var req GenerateShoppingListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeAppError(w, r, "generate-shopping-list", apperrors.NewBadRequestError("Invalid JSON payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeAppError(w, r, "generate-shopping-list", apperrors.NewValidationError("A meal plan is required"))
		return
	}

	list := h.listService.BuildList(r.Context(), req.MealPlan)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"shoppingList": list})
}

// RefineMealPlan handles POST /api/v1/refine-meal-plan
func (h *PlannerAPIHandlers) RefineMealPlan(w http.ResponseWriter, r *http.Request) {
	var req RefineMealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeAppError(w, r, "refine-meal-plan", apperrors.NewBadRequestError("Invalid JSON payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeAppError(w, r, "refine-meal-plan", apperrors.NewValidationError("A meal plan and a refinement request are required"))
		return
	}

	refined, err := h.plannerService.RefinePlan(r.Context(), req.MealPlan, req.Refinement)
	if err != nil {
		h.writeAppError(w, r, "refine-meal-plan", err)
		return
	}

	list := h.listService.BuildList(r.Context(), refined)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"refinedMealPlan": refined,
		"shoppingList":    list,
	})
}

// Helper methods

func (h *PlannerAPIHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

func (h *PlannerAPIHandlers) writeAppError(w http.ResponseWriter, r *http.Request, route string, err error) {
	appErr := apperrors.Wrap(err, "Request failed")
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Error("Request failed",
		zap.String("route", route),
		zap.String("request_id", requestID),
		zap.String("code", string(apperrors.GetCode(appErr))),
		zap.Error(appErr))

	h.writeJSON(w, appErr.StatusCode(), apperrors.ToErrorResponse(appErr, requestID))
}
