package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/velvetlabs/velvet/internal/conversation"
)

// RelayAssistant talks to the hosted velvet assistant endpoint. The
// wire contract: POST {messages, web_search} as JSON, reply in one of
// several accepted shapes (see decodeReply).
type RelayAssistant struct {
	endpoint string
	client   *http.Client
}

func NewRelayAssistant(endpoint string) (*RelayAssistant, error) {
	if endpoint == "" {
		return nil, errors.New("relay endpoint is required")
	}
	return &RelayAssistant{
		endpoint: endpoint,
		client:   &http.Client{},
	}, nil
}

func (a *RelayAssistant) Name() string {
	return "relay"
}

// RequestError is a non-2xx response from the relay endpoint.
type RequestError struct {
	StatusCode int
	Status     string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("assistant request failed: %s", e.Status)
}

// Relay wire types

type relayMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Hidden  bool   `json:"hidden,omitempty"`
}

type relayRequest struct {
	Messages  []relayMessage `json:"messages"`
	WebSearch bool           `json:"web_search"`
}

func (a *RelayAssistant) Reply(ctx context.Context, turns []conversation.Turn, webSearch bool) (string, error) {
	msgs := make([]relayMessage, len(turns))
	for i, t := range turns {
		msgs[i] = relayMessage{Role: t.Role, Content: t.Content, Hidden: t.Hidden}
	}

	jsonBody, err := json.Marshal(relayRequest{Messages: msgs, WebSearch: webSearch})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read relay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &RequestError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		// Non-JSON replies are taken verbatim.
		return string(body), nil
	}

	return decodeReply(body), nil
}

// relayReply enumerates every accepted response shape. Exactly one
// arm wins, checked in order; anything else falls back to the raw
// body so a surprising server never breaks the page.
type relayReply struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Reply string `json:"reply"`
	Text  string `json:"text"`

	Sources     []json.RawMessage `json:"sources"`
	Citations   []json.RawMessage `json:"citations"`
	SourcesList []json.RawMessage `json:"sources_list"`
	Meta        struct {
		Sources []json.RawMessage `json:"sources"`
	} `json:"meta"`
}

func decodeReply(body []byte) string {
	var r relayReply
	if err := json.Unmarshal(body, &r); err != nil {
		// Claimed JSON but isn't; degrade to the raw dump.
		return string(body)
	}

	var text string
	switch {
	case len(r.Choices) > 0 && r.Choices[0].Message.Content != "":
		text = r.Choices[0].Message.Content
	case r.Reply != "":
		text = r.Reply
	case r.Text != "":
		text = r.Text
	default:
		text = string(body)
	}

	if block := formatSources(r.sources()); block != "" {
		text += block
	}
	return text
}

func (r relayReply) sources() []json.RawMessage {
	switch {
	case len(r.Sources) > 0:
		return r.Sources
	case len(r.Citations) > 0:
		return r.Citations
	case len(r.SourcesList) > 0:
		return r.SourcesList
	default:
		return r.Meta.Sources
	}
}

// sourceEntry is one citation object. Title-like and URL-like fields
// each collapse to the first non-empty alias.
type sourceEntry struct {
	Title  string `json:"title"`
	Name   string `json:"name"`
	Anchor string `json:"anchor"`
	Source string `json:"source"`

	URL  string `json:"url"`
	Link string `json:"link"`
	Href string `json:"href"`
}

func (s sourceEntry) title() string {
	for _, v := range []string{s.Title, s.Name, s.Anchor, s.Source} {
		if v != "" {
			return v
		}
	}
	return "Source"
}

func (s sourceEntry) url() string {
	for _, v := range []string{s.URL, s.Link, s.Href} {
		if v != "" {
			return v
		}
	}
	return ""
}

func formatSources(raw []json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nSources:")
	for i, entry := range raw {
		b.WriteString(fmt.Sprintf("\n%d. ", i+1))

		// Bare strings are URLs.
		var url string
		if err := json.Unmarshal(entry, &url); err == nil {
			b.WriteString(url)
			continue
		}

		var src sourceEntry
		if err := json.Unmarshal(entry, &src); err != nil {
			b.WriteString("Source")
			continue
		}
		if u := src.url(); u != "" {
			b.WriteString(fmt.Sprintf("%s (%s)", src.title(), u))
		} else {
			b.WriteString(src.title())
		}
	}
	return b.String()
}
