package ui

import "testing"

func TestSilentUI(t *testing.T) {
	// Should not panic
	u := SilentUI{}
	u.UpdateStatus("test status")
	u.RefreshConversation()
}

func TestSilentUI_ImplementsInterface(t *testing.T) {
	var _ UI = SilentUI{}
	var _ UI = &SilentUI{}
}

// MockUI implements UI for testing
type MockUI struct {
	StatusUpdates         []string
	ConversationRefreshes int
}

func (m *MockUI) UpdateStatus(status string) {
	m.StatusUpdates = append(m.StatusUpdates, status)
}

func (m *MockUI) RefreshConversation() {
	m.ConversationRefreshes++
}

func TestMockUI(t *testing.T) {
	var u UI = &MockUI{}
	u.UpdateStatus("status1")
	u.UpdateStatus("status2")
	u.RefreshConversation()

	m := u.(*MockUI)
	if len(m.StatusUpdates) != 2 {
		t.Errorf("expected 2 status updates, got %d", len(m.StatusUpdates))
	}
	if m.StatusUpdates[0] != "status1" {
		t.Errorf("expected 'status1', got %q", m.StatusUpdates[0])
	}
	if m.ConversationRefreshes != 1 {
		t.Errorf("expected 1 conversation refresh, got %d", m.ConversationRefreshes)
	}
}
