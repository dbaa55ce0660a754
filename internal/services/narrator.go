package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const narratorSystemPrompt = "You turn raw weather reports into a short, friendly message for the user. " +
	"Keep the city, the conditions and the exact temperature. Answer in the language of the report. " +
	"Reply with the message only."

type Narrator interface {
	Narrate(ctx context.Context, report string) (string, error)
}

type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type OpenAINarrator struct {
	api    ChatCompleter
	model  string
	logger *zap.Logger
}

// NewOpenAINarrator returns nil when apiKey is empty; callers treat a nil
// narrator as "narration disabled".
func NewOpenAINarrator(apiKey, model, baseURL string, logger *zap.Logger) *OpenAINarrator {
	if apiKey == "" {
		return nil
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return newOpenAINarrator(openai.NewClientWithConfig(cfg), model, logger)
}

func newOpenAINarrator(api ChatCompleter, model string, logger *zap.Logger) *OpenAINarrator {
	return &OpenAINarrator{api: api, model: model, logger: logger}
}

func (n *OpenAINarrator) Narrate(ctx context.Context, report string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: n.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: narratorSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: report},
		},
		Temperature: 0.7,
	}

	var cancel context.CancelFunc
	if _, ok := ctx.Deadline(); !ok {
		ctx, cancel = context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
	}

	resp, err := n.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty completion")
	}
	return text, nil
}

// NarrateOrPlain returns the narrated report, or report itself when narration
// is unavailable or fails.
func NarrateOrPlain(ctx context.Context, n Narrator, report string, logger *zap.Logger) string {
	if n == nil {
		return report
	}
	text, err := n.Narrate(ctx, report)
	if err != nil {
		logger.Warn("Narration failed, using plain report", zap.Error(err))
		return report
	}
	return text
}
