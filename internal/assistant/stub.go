package assistant

import (
	"context"
	"sync"
	"time"

	"github.com/velvetlabs/velvet/internal/conversation"
)

// StubAssistant is a scripted backend for tests and offline demos.
type StubAssistant struct {
	mu        sync.Mutex
	Responses []string
	Delay     time.Duration
	Calls     int
}

func NewStubAssistant() *StubAssistant {
	return &StubAssistant{
		Responses: []string{
			"Cleanse first, then apply your serum, and always finish your morning routine with SPF.",
			"For damaged hair, use the repair shampoo twice a week and avoid heat styling.",
		},
	}
}

func (a *StubAssistant) Name() string {
	return "stub"
}

func (a *StubAssistant) Reply(ctx context.Context, turns []conversation.Turn, webSearch bool) (string, error) {
	if a.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(a.Delay):
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.Calls++
	if len(a.Responses) == 0 {
		return "I have no further advice.", nil
	}

	resp := a.Responses[0]
	if len(a.Responses) > 1 {
		a.Responses = a.Responses[1:]
	}
	return resp, nil
}
