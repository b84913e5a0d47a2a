package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/xaenox/support-bot/internal/models"
	"go.uber.org/zap"
)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT3Dot5Turbo

// completionTemperature is fixed low to keep support answers deterministic.
const completionTemperature = 0.2

// OpenAIGateway implements Gateway over the OpenAI chat-completion API.
type OpenAIGateway struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIGateway creates a gateway using the given credential and model.
func NewOpenAIGateway(apiKey, model string, logger *zap.Logger) *OpenAIGateway {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIGateway{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

// Complete implements Gateway.
func (g *OpenAIGateway) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: completionTemperature,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		g.logger.Error("chat completion failed", zap.Error(err), zap.String("model", g.model))
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		g.logger.Error("chat completion returned no choices", zap.String("model", g.model))
		return "", errors.New("chat completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func toOpenAIMessages(messages []models.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		// front-ends label their own turns "bot"
		if role == "bot" {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}
