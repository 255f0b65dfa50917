package ui

// UI receives state-change notifications from the exchange manager so
// an interactive front end can re-render.
type UI interface {
	UpdateStatus(status string)
	RefreshConversation()
}

type SilentUI struct{}

func (s SilentUI) UpdateStatus(status string) {}
func (s SilentUI) RefreshConversation()       {}
