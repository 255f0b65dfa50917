package store

import "time"

// Transcript is a persisted conversation. Turns holds the JSON-encoded
// turn list; the store treats it as opaque text.
type Transcript struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Turns     string
}

// Storage defines the interface for durable local state.
type Storage interface {
	// Key/value configuration. Holds settings, API keys, and the
	// shelf snapshot under its versioned key.
	SetConfig(key, value string) error
	GetConfig(key string) (string, error)

	// Conversation transcripts.
	SaveTranscript(t *Transcript) error
	GetTranscript(id string) (*Transcript, error)
	// LatestTranscript returns the most recently updated transcript,
	// or nil when none exist.
	LatestTranscript() (*Transcript, error)

	Close() error
}
