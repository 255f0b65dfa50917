package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/velvetlabs/velvet/internal/assistant"
	"github.com/velvetlabs/velvet/internal/catalog"
	"github.com/velvetlabs/velvet/internal/exchange"
	"github.com/velvetlabs/velvet/internal/observe"
	"github.com/velvetlabs/velvet/internal/shelf"
	"github.com/velvetlabs/velvet/internal/store"
)

func newTestModel(t *testing.T) Model {
	t.Helper()

	tmpDir := t.TempDir()
	s, err := store.NewSQLiteStore(filepath.Join(tmpDir, "velvet.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	obs := observe.New(os.Stderr, false)
	sh := shelf.New(s, obs.Log())
	ex := exchange.NewManager(assistant.NewStubAssistant(), sh, s, obs)

	path := filepath.Join(tmpDir, "catalog.json")
	os.WriteFile(path, []byte(`{"products":[
		{"id":1,"name":"Hydra Boost Serum","brand":"Lumen","category":"skincare","description":"Hyaluronic acid serum"},
		{"id":2,"name":"Repair Shampoo","brand":"Lumen","category":"haircare","description":"Strengthens damaged hair"}
	]}`), 0600)
	c, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	m := NewModel(c, sh, ex, false)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_NoFilterPrompt(t *testing.T) {
	m := newTestModel(t)
	if m.result.Kind != catalog.FilterNone {
		t.Errorf("Expected FilterNone initially, got %v", m.result.Kind)
	}
	if !strings.Contains(m.View(), "Pick a category") {
		t.Error("Expected the no-filter prompt, not an empty list")
	}
}

func TestModel_CategoryCyclesImmediately(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(key("c"))
	m = next.(Model)

	if m.category() != "skincare" {
		t.Fatalf("Expected first category 'skincare', got %q", m.category())
	}
	if m.result.Kind != catalog.FilterMatched || len(m.result.Products) != 1 {
		t.Errorf("Expected category filter applied immediately, got %+v", m.result)
	}

	// Cycle through haircare and back to all
	next, _ = m.Update(key("c"))
	m = next.(Model)
	if m.category() != "haircare" {
		t.Errorf("Expected 'haircare', got %q", m.category())
	}
	next, _ = m.Update(key("c"))
	m = next.(Model)
	if m.category() != "" {
		t.Errorf("Expected to cycle back to all categories, got %q", m.category())
	}
}

func TestModel_DebouncedSearch(t *testing.T) {
	m := newTestModel(t)
	m.search.SetValue("serum")
	m.debounceSeq = 3

	// Stale tick: ignored
	next, _ := m.Update(debounceMsg(2))
	m = next.(Model)
	if m.result.Kind != catalog.FilterNone {
		t.Error("Expected stale debounce tick to be ignored")
	}

	// Current tick: filter applies
	next, _ = m.Update(debounceMsg(3))
	m = next.(Model)
	if m.result.Kind != catalog.FilterMatched || len(m.result.Products) != 1 {
		t.Fatalf("Expected 1 match for 'serum', got %+v", m.result)
	}
	if m.result.Products[0].ID != 1 {
		t.Errorf("Expected product 1, got %d", m.result.Products[0].ID)
	}
}

func TestModel_SearchKeystrokeSchedulesDebounce(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.focus != focusSearch {
		t.Fatalf("Expected tab to focus search, got %v", m.focus)
	}

	seqBefore := m.debounceSeq
	next, cmd := m.Update(key("s"))
	m = next.(Model)
	if m.debounceSeq != seqBefore+1 {
		t.Error("Expected a keystroke to bump the debounce sequence")
	}
	if cmd == nil {
		t.Error("Expected a debounce tick to be scheduled")
	}
	if m.result.Kind != catalog.FilterNone {
		t.Error("Expected no filtering before the debounce fires")
	}
}

func TestModel_ToggleAndDetail(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(key("c")) // skincare
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if !m.shelf.Has(1) {
		t.Error("Expected enter to toggle the product onto the shelf")
	}
	if !strings.Contains(m.View(), "Hydra Boost Serum") {
		t.Error("Expected the selected product in the view")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.shelf.Has(1) {
		t.Error("Expected a second toggle to deselect")
	}

	next, _ = m.Update(key("d"))
	m = next.(Model)
	if m.detail == nil {
		t.Fatal("Expected detail overlay")
	}
	if !strings.Contains(m.View(), "Hyaluronic acid serum") {
		t.Error("Expected product description in the detail view")
	}

	next, _ = m.Update(key("d")) // any key closes
	m = next.(Model)
	if m.detail != nil {
		t.Error("Expected detail overlay to close")
	}
}

func TestModel_NoMatches(t *testing.T) {
	m := newTestModel(t)
	m.search.SetValue("retinol")
	m.debounceSeq = 1

	next, _ := m.Update(debounceMsg(1))
	m = next.(Model)
	if m.result.Kind != catalog.FilterNoMatches {
		t.Fatalf("Expected FilterNoMatches, got %v", m.result.Kind)
	}
	if !strings.Contains(m.View(), "No products match") {
		t.Error("Expected the no-matches state in the view")
	}
}

func TestModel_WebSearchToggle(t *testing.T) {
	m := newTestModel(t)
	if m.webSearch {
		t.Fatal("Expected web search off by default")
	}
	next, _ := m.Update(key("w"))
	m = next.(Model)
	if !m.webSearch {
		t.Error("Expected 'w' to toggle web search on")
	}
}
