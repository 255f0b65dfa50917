package assistant

import (
	"context"

	"github.com/velvetlabs/velvet/internal/conversation"
)

// Assistant defines the interface for remote routine/chat backends.
// The full conversation is replayed on every call.
type Assistant interface {
	// Reply sends the conversation and returns the assistant's reply
	// as plain text. webSearch asks the backend to consult live
	// sources; backends that cannot ignore it.
	Reply(ctx context.Context, turns []conversation.Turn, webSearch bool) (string, error)

	// Name returns the backend identifier (e.g. "relay", "openai").
	Name() string
}
