// Package exchange drives one outbound request per user action:
// Pending (placeholder appended) then Resolved or Failed (placeholder
// overwritten in place). Failures land in the conversation as text,
// never as errors; the worst case is a visible error string.
package exchange

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/velvetlabs/velvet/internal/assistant"
	"github.com/velvetlabs/velvet/internal/catalog"
	"github.com/velvetlabs/velvet/internal/conversation"
	"github.com/velvetlabs/velvet/internal/observe"
	"github.com/velvetlabs/velvet/internal/shelf"
	"github.com/velvetlabs/velvet/internal/store"
	"github.com/velvetlabs/velvet/internal/ui"
)

const systemInstruction = "You are Velvet, a friendly cosmetics advisor. " +
	"Recommend skincare and haircare routines using the products the customer has shortlisted, " +
	"and answer product questions concisely."

// EmptyShelfMessage is appended directly when routine generation is
// requested with nothing selected. No request is sent.
const EmptyShelfMessage = "Please select at least one product before generating a routine."

// Manager owns the conversation log and performs exchanges against
// the configured assistant backend.
type Manager struct {
	log          *conversation.Log
	assistant    assistant.Assistant
	shelf        *shelf.Shelf
	store        store.Storage
	obs          *observe.Observer
	ui           ui.UI
	transcriptID string
}

func NewManager(a assistant.Assistant, sh *shelf.Shelf, st store.Storage, obs *observe.Observer) *Manager {
	return &Manager{
		log:          conversation.NewLog(systemInstruction),
		assistant:    a,
		shelf:        sh,
		store:        st,
		obs:          obs,
		ui:           ui.SilentUI{},
		transcriptID: "chat-" + uuid.NewString(),
	}
}

// SetUI attaches an interactive front end. Exchanges notify it when
// the conversation changes.
func (m *Manager) SetUI(u ui.UI) {
	if u != nil {
		m.ui = u
	}
}

// Log exposes the conversation for rendering.
func (m *Manager) Log() *conversation.Log {
	return m.log
}

// ResumeLatest replaces the log with the most recent persisted
// transcript, when one exists.
func (m *Manager) ResumeLatest() error {
	t, err := m.store.LatestTranscript()
	if err != nil {
		return err
	}
	if t == nil {
		return nil
	}
	if err := m.log.RestoreSnapshot(t.Turns); err != nil {
		return err
	}
	m.transcriptID = t.ID
	return nil
}

// Send submits user input. It appends the user turn and a pending
// placeholder, performs the call, and resolves the placeholder with
// the reply or an error string. The returned text is whatever ended
// up in the placeholder; transport failures never propagate.
func (m *Manager) Send(ctx context.Context, input string, webSearch bool) string {
	m.log.Append(conversation.RoleUser, input)
	outbound := m.log.Turns()
	tok := m.log.AppendPlaceholder(conversation.SentinelThinking)
	m.ui.RefreshConversation()

	return m.deliver(ctx, tok, outbound, webSearch)
}

// GenerateRoutine asks the assistant for a routine built from the
// current shelf. With an empty shelf it short-circuits: one direct
// assistant message, no network call.
func (m *Manager) GenerateRoutine(ctx context.Context, webSearch bool) string {
	products := m.shelf.Values()
	if len(products) == 0 {
		m.log.Append(conversation.RoleAssistant, EmptyShelfMessage)
		m.ui.RefreshConversation()
		m.persistTranscript()
		return EmptyShelfMessage
	}

	m.log.AppendHidden(conversation.RoleUser, routinePrompt(products))
	outbound := m.log.Turns()
	tok := m.log.AppendPlaceholder(conversation.SentinelRoutine)
	m.ui.RefreshConversation()

	return m.deliver(ctx, tok, outbound, webSearch)
}

func (m *Manager) deliver(ctx context.Context, tok conversation.Token, outbound []conversation.Turn, webSearch bool) string {
	ctx, span := m.obs.StartSpan(ctx, "assistant.reply")
	defer span.End()

	m.ui.UpdateStatus("Waiting for the assistant…")
	reply, err := m.assistant.Reply(ctx, outbound, webSearch)
	if err != nil {
		msg := fmt.Sprintf("Sorry, something went wrong: %v", err)
		m.log.Fail(tok, msg)
		m.obs.Log().Warn().Err(err).Str("backend", m.assistant.Name()).Msg("exchange failed")
		m.ui.UpdateStatus("Request failed")
		m.ui.RefreshConversation()
		m.persistTranscript()
		return msg
	}

	m.log.Resolve(tok, reply)
	m.ui.UpdateStatus("Ready")
	m.ui.RefreshConversation()
	m.persistTranscript()
	return reply
}

func (m *Manager) persistTranscript() {
	snapshot, err := m.log.Snapshot()
	if err != nil {
		m.obs.Log().Warn().Err(err).Msg("failed to encode transcript")
		return
	}
	t := &store.Transcript{ID: m.transcriptID, Turns: snapshot}
	if err := m.store.SaveTranscript(t); err != nil {
		m.obs.Log().Warn().Err(err).Msg("failed to persist transcript")
	}
}

// routinePrompt lists the selected products for the assistant. The
// prompt is hidden: replayed on every request, never rendered.
func routinePrompt(products []catalog.Product) string {
	var b strings.Builder
	b.WriteString("Create a personalized skincare/haircare routine from my selected products. ")
	b.WriteString("Order the steps and note which belong to mornings or evenings.\n\nSelected products:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- #%d %s by %s [%s]: %s\n", p.ID, p.Name, p.Brand, p.Category, p.Description)
	}
	return b.String()
}
