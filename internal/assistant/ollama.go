package assistant

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/ollama/ollama/api"
	"github.com/velvetlabs/velvet/internal/conversation"
)

type OllamaAssistant struct {
	client *api.Client
	model  string
}

func NewOllamaAssistant(model string) (*OllamaAssistant, error) {
	if model == "" {
		model = "llama3.2"
	}

	baseURL := "http://localhost:11434"
	if envURL := os.Getenv("OLLAMA_HOST"); envURL != "" {
		baseURL = envURL
	}
	uri, _ := url.Parse(baseURL)
	client := api.NewClient(uri, http.DefaultClient)

	return &OllamaAssistant{
		client: client,
		model:  model,
	}, nil
}

func (a *OllamaAssistant) Name() string {
	return "ollama"
}

func (a *OllamaAssistant) Reply(ctx context.Context, turns []conversation.Turn, webSearch bool) (string, error) {
	var apiMsgs []api.Message
	for _, t := range turns {
		apiMsgs = append(apiMsgs, api.Message{
			Role:    t.Role,
			Content: t.Content,
		})
	}

	req := &api.ChatRequest{
		Model:    a.model,
		Messages: apiMsgs,
		Stream:   new(bool), // false
	}

	var content string
	err := a.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content += resp.Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}

	return content, nil
}
