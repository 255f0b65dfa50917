package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/velvetlabs/velvet/internal/conversation"
)

func relayTurns() []conversation.Turn {
	l := conversation.NewLog("You are a cosmetics advisor.")
	l.Append(conversation.RoleUser, "what should I use for dry skin?")
	return l.Turns()
}

func TestRelayAssistant_RequestContract(t *testing.T) {
	var got relayRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected application/json, got %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reply": "ok"}`))
	}))
	defer server.Close()

	a, _ := NewRelayAssistant(server.URL)
	if a.Name() != "relay" {
		t.Errorf("Expected 'relay', got %q", a.Name())
	}

	if _, err := a.Reply(context.Background(), relayTurns(), true); err != nil {
		t.Fatalf("Reply failed: %v", err)
	}

	if !got.WebSearch {
		t.Error("Expected web_search flag in the request body")
	}
	if len(got.Messages) != 2 {
		t.Fatalf("Expected the entire conversation replayed, got %d messages", len(got.Messages))
	}
	if got.Messages[0].Role != "system" || !got.Messages[0].Hidden {
		t.Errorf("Expected hidden system message first, got %+v", got.Messages[0])
	}
}

func TestRelayAssistant_ReplyShapes(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{
			name:        "ChoicesWithSources",
			contentType: "application/json",
			body:        `{"choices":[{"message":{"content":"Use SPF."}}],"sources":["https://a.co"]}`,
			want:        "Use SPF.\n\nSources:\n1. https://a.co",
		},
		{
			name:        "Reply",
			contentType: "application/json",
			body:        `{"reply":"Double cleanse at night."}`,
			want:        "Double cleanse at night.",
		},
		{
			name:        "Text",
			contentType: "application/json",
			body:        `{"text":"Patch test new actives."}`,
			want:        "Patch test new actives.",
		},
		{
			name:        "FallbackDump",
			contentType: "application/json",
			body:        `{"unexpected":"shape"}`,
			want:        `{"unexpected":"shape"}`,
		},
		{
			name:        "NonJSON",
			contentType: "text/plain",
			body:        "plain advice",
			want:        "plain advice",
		},
		{
			name:        "ObjectSources",
			contentType: "application/json",
			body:        `{"reply":"See below.","citations":[{"title":"AAD sunscreen guide","url":"https://aad.org/spf"},{"name":"Derm handbook"}]}`,
			want:        "See below.\n\nSources:\n1. AAD sunscreen guide (https://aad.org/spf)\n2. Derm handbook",
		},
		{
			name:        "MetaSources",
			contentType: "application/json",
			body:        `{"reply":"ok","meta":{"sources":[{"anchor":"study","href":"https://b.co"}]}}`,
			want:        "ok\n\nSources:\n1. study (https://b.co)",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tc.contentType)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			a, _ := NewRelayAssistant(server.URL)
			got, err := a.Reply(context.Background(), relayTurns(), false)
			if err != nil {
				t.Fatalf("Reply failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRelayAssistant_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(502)
	}))
	defer server.Close()

	a, _ := NewRelayAssistant(server.URL)
	_, err := a.Reply(context.Background(), relayTurns(), false)
	if err == nil {
		t.Fatal("Expected error for non-2xx response")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("Expected *RequestError, got %T", err)
	}
	if reqErr.StatusCode != 502 {
		t.Errorf("Expected status 502, got %d", reqErr.StatusCode)
	}
}

func TestRelayAssistant_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Refuses connections from here on

	a, _ := NewRelayAssistant(server.URL)
	if _, err := a.Reply(context.Background(), relayTurns(), false); err == nil {
		t.Error("Expected transport error")
	}
}

func TestRelayAssistant_Init(t *testing.T) {
	if _, err := NewRelayAssistant(""); err == nil {
		t.Error("Expected error for empty endpoint")
	}
}
