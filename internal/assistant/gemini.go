package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/velvetlabs/velvet/internal/conversation"
	"google.golang.org/api/option"
)

type GeminiAssistant struct {
	client *genai.Client
	model  string
}

func NewGeminiAssistant(apiKey, model string) (*GeminiAssistant, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if model == "" {
		model = "gemini-1.5-flash-latest"
	}

	return &GeminiAssistant{
		client: client,
		model:  model,
	}, nil
}

func (a *GeminiAssistant) Name() string {
	return "gemini"
}

func (a *GeminiAssistant) Reply(ctx context.Context, turns []conversation.Turn, webSearch bool) (string, error) {
	if len(turns) == 0 {
		return "", errors.New("empty conversation")
	}

	geminiModel := a.client.GenerativeModel(a.model)
	cs := geminiModel.StartChat()

	// Everything but the last turn becomes chat history. Gemini only
	// knows user/model roles, so system and user both map to user.
	var history []*genai.Content
	for _, t := range turns[:len(turns)-1] {
		role := "user"
		if t.Role == conversation.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(t.Content)},
		})
	}
	cs.History = history

	last := turns[len(turns)-1]
	resp, err := cs.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}

	var content string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			content += string(text)
		}
	}
	return content, nil
}
