// Package gemini provides the generative-text service integration used for
// conversational preference gathering and structured meal plan generation
package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/richisen/smart-grocery-planner/internal/domain/conversation"
	"github.com/richisen/smart-grocery-planner/internal/domain/mealplan"
	"github.com/richisen/smart-grocery-planner/internal/infrastructure/config"
	"github.com/richisen/smart-grocery-planner/internal/infrastructure/monitoring"
	apperrors "github.com/richisen/smart-grocery-planner/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Operation labels for generation metrics
const (
	opChat     = "chat"
	opGenerate = "generate"
	opRefine   = "refine"
)

// Client implements the PlanGenerator interface using the Gemini API
type Client struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewClient creates a Gemini client for the configured model
func NewClient(ctx context.Context, cfg config.GeminiConfig, metrics *monitoring.Metrics, logger *zap.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger.Info("Gemini client initialized",
		zap.String("model", cfg.Model),
		zap.Duration("timeout", cfg.Timeout))

	return &Client{
		client:  client,
		model:   client.GenerativeModel(cfg.Model),
		timeout: cfg.Timeout,
		logger:  logger.Named("gemini-client"),
		metrics: metrics,
	}, nil
}

// Close closes the underlying Gemini client
func (c *Client) Close() error {
	return c.client.Close()
}

// Chat sends one conversational turn. When initial is true the prior
// transcript is withheld so the service only sees the opening prompt.
func (c *Client) Chat(ctx context.Context, message string, history []conversation.Message, initial bool) (string, error) {
	start := time.Now()
	reply, err := c.chat(ctx, message, history, initial)
	c.metrics.ObserveGeneration(opChat, err, time.Since(start))
	if err != nil {
		c.logger.Error("Chat turn failed", zap.Error(err))
		return "", apperrors.NewUpstreamError("gemini", err)
	}
	return reply, nil
}

func (c *Client) chat(ctx context.Context, message string, history []conversation.Message, initial bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	session := c.model.StartChat()
	if !initial {
		session.History = toContents(history)
	}

	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("failed to send chat message: %w", err)
	}

	return candidateText(resp)
}

// GeneratePlan produces a structured meal plan from free-text preferences
func (c *Client) GeneratePlan(ctx context.Context, preferences string) (*mealplan.MealPlan, error) {
	return c.generatePlan(ctx, opGenerate, planPrompt(preferences))
}

// GeneratePlanFromConversation produces a structured meal plan from a
// completed preference-gathering transcript
func (c *Client) GeneratePlanFromConversation(ctx context.Context, history []conversation.Message) (*mealplan.MealPlan, error) {
	return c.generatePlan(ctx, opGenerate, conversationPlanPrompt(history))
}

// RefinePlan replaces an existing plan according to a refinement request
func (c *Client) RefinePlan(ctx context.Context, plan *mealplan.MealPlan, refinement string) (*mealplan.MealPlan, error) {
	prompt, err := refinePrompt(plan, refinement)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build refinement prompt")
	}
	return c.generatePlan(ctx, opRefine, prompt)
}

func (c *Client) generatePlan(ctx context.Context, operation, prompt string) (*mealplan.MealPlan, error) {
	start := time.Now()
	text, err := c.generate(ctx, prompt)
	c.metrics.ObserveGeneration(operation, err, time.Since(start))
	if err != nil {
		c.logger.Error("Plan generation failed",
			zap.String("operation", operation),
			zap.Error(err))
		return nil, apperrors.NewUpstreamError("gemini", err)
	}

	plan, err := DecodeMealPlan(text)
	if err != nil {
		c.logger.Error("Plan response not parseable",
			zap.String("operation", operation),
			zap.String("response", truncate(text, 500)),
			zap.Error(err))
		return nil, err
	}

	c.logger.Info("Meal plan generated",
		zap.String("operation", operation),
		zap.Int("meals", len(plan.Meals)))
	return plan, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return candidateText(resp)
}

// candidateText extracts the text of the first candidate
func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("generated content is not text")
	}

	return string(text), nil
}

// toContents converts the transcript to upstream chat history
func toContents(history []conversation.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, message := range history {
		contents = append(contents, &genai.Content{
			Role:  message.Role(),
			Parts: []genai.Part{genai.Text(message.Text)},
		})
	}
	return contents
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
