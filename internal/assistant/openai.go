package assistant

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/velvetlabs/velvet/internal/conversation"
)

type OpenAIAssistant struct {
	client *openai.Client
	model  string
}

func NewOpenAIAssistant(apiKey, baseURL, model string) (*OpenAIAssistant, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	client := openai.NewClientWithConfig(config)
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIAssistant{
		client: client,
		model:  model,
	}, nil
}

func (a *OpenAIAssistant) Name() string {
	return "openai"
}

func (a *OpenAIAssistant) Reply(ctx context.Context, turns []conversation.Turn, webSearch bool) (string, error) {
	// webSearch is a relay feature; the OpenAI backend ignores it.
	reqMsgs := make([]openai.ChatCompletionMessage, len(turns))
	for i, t := range turns {
		reqMsgs[i] = openai.ChatCompletionMessage{
			Role:    t.Role,
			Content: t.Content,
		}
	}

	resp, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:    a.model,
			Messages: reqMsgs,
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
