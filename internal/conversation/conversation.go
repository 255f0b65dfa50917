// Package conversation holds the ordered exchange of turns between the
// user and the assistant.
package conversation

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Sentinel strings shown while a request is outstanding. They are
// presentational only; placeholder resolution goes by token.
const (
	SentinelThinking = "Thinking…"
	SentinelRoutine  = "Generating personalized routine…"
)

// Turn is one entry in the conversation. Hidden turns are sent to the
// assistant but never rendered.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Hidden  bool   `json:"hidden,omitempty"`

	token string
}

// Pending reports whether the turn is an unresolved placeholder.
func (t Turn) Pending() bool {
	return t.token != ""
}

// Token correlates a placeholder turn with the request that will
// resolve it. Tokens are unique per placeholder, so two in-flight
// requests with identical sentinel text cannot collide.
type Token string

// Log is the conversation history. It is append-only except for one
// mutation: a placeholder turn's content is overwritten in place when
// its request resolves or fails.
type Log struct {
	mu    sync.RWMutex
	turns []Turn
}

// NewLog creates a Log, seeded with a hidden system instruction when
// one is given.
func NewLog(system string) *Log {
	l := &Log{}
	if system != "" {
		l.turns = append(l.turns, Turn{Role: RoleSystem, Content: system, Hidden: true})
	}
	return l
}

// Append adds a visible turn.
func (l *Log) Append(role, content string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, Turn{Role: role, Content: content})
}

// AppendHidden adds a turn that is replayed to the assistant but never
// rendered.
func (l *Log) AppendHidden(role, content string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, Turn{Role: role, Content: content, Hidden: true})
}

// AppendPlaceholder adds an assistant turn carrying the sentinel text
// and returns the token that later resolves it.
func (l *Log) AppendPlaceholder(sentinel string) Token {
	tok := uuid.NewString()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, Turn{Role: RoleAssistant, Content: sentinel, token: tok})
	return Token(tok)
}

// Resolve overwrites the placeholder identified by token with the
// final content. Returns false when no matching placeholder exists
// (already resolved, or never created).
func (l *Log) Resolve(tok Token, content string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.turns) - 1; i >= 0; i-- {
		if l.turns[i].token == string(tok) {
			l.turns[i].Content = content
			l.turns[i].token = ""
			return true
		}
	}
	return false
}

// Fail is Resolve for the failure path; kept separate so call sites
// read as the state transition they perform.
func (l *Log) Fail(tok Token, msg string) bool {
	return l.Resolve(tok, msg)
}

// Turns returns a copy of the full history, hidden turns included.
func (l *Log) Turns() []Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	turns := make([]Turn, len(l.turns))
	copy(turns, l.turns)
	return turns
}

// Visible returns the turns that should render.
func (l *Log) Visible() []Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var visible []Turn
	for _, t := range l.turns {
		if !t.Hidden {
			visible = append(visible, t)
		}
	}
	return visible
}

// Len returns the number of turns, hidden turns included.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}

// Snapshot encodes the history as JSON for transcript persistence.
func (l *Log) Snapshot() (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	data, err := json.Marshal(l.turns)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RestoreSnapshot replaces the history with a previously persisted
// transcript.
func (l *Log) RestoreSnapshot(data string) error {
	var turns []Turn
	if err := json.Unmarshal([]byte(data), &turns); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = turns
	return nil
}
