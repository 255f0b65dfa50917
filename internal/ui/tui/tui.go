package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/velvetlabs/velvet/internal/catalog"
	"github.com/velvetlabs/velvet/internal/conversation"
	"github.com/velvetlabs/velvet/internal/exchange"
	"github.com/velvetlabs/velvet/internal/shelf"
)

// filterDebounce delays free-text filtering while the user types.
// Category changes are never debounced.
const filterDebounce = 180 * time.Millisecond

// TUI bridges the exchange manager to a running bubbletea program.
type TUI struct {
	program *tea.Program
}

func NewTUI(p *tea.Program) *TUI {
	return &TUI{program: p}
}

func (t *TUI) UpdateStatus(status string) {
	t.program.Send(StatusMsg(status))
}

func (t *TUI) RefreshConversation() {
	t.program.Send(RefreshMsg{})
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#A4508B")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C6C6C"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E0B0FF")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	youStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FAFFF")).
			Bold(true)
)

type focusArea int

const (
	focusCatalog focusArea = iota
	focusSearch
	focusChat
)

type (
	// StatusMsg updates the status line.
	StatusMsg string
	// RefreshMsg signals that the conversation changed.
	RefreshMsg struct{}

	debounceMsg     int
	exchangeDoneMsg struct{}
)

type Model struct {
	catalog *catalog.Catalog
	shelf   *shelf.Shelf
	ex      *exchange.Manager

	search    textinput.Model
	chatInput textinput.Model
	chatView  viewport.Model
	spin      spinner.Model

	focus       focusArea
	categories  []string
	categoryIdx int // -1 means all categories
	result      catalog.FilterResult
	cursor      int
	detail      *catalog.Product
	webSearch   bool
	pending     int
	status      string
	debounceSeq int

	width    int
	height   int
	ready    bool
	quitting bool
}

func NewModel(c *catalog.Catalog, sh *shelf.Shelf, ex *exchange.Manager, webSearch bool) Model {
	search := textinput.New()
	search.Placeholder = "search name, brand, description…"
	search.CharLimit = 80

	chatInput := textinput.New()
	chatInput.Placeholder = "ask the assistant…"
	chatInput.CharLimit = 400

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		catalog:     c,
		shelf:       sh,
		ex:          ex,
		search:      search,
		chatInput:   chatInput,
		spin:        spin,
		categories:  c.Categories(),
		categoryIdx: -1,
		webSearch:   webSearch,
		status:      "Ready",
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.detail != nil {
			// Any key dismisses the detail overlay.
			m.detail = nil
			return m, nil
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		chatHeight := msg.Height / 3
		if chatHeight < 5 {
			chatHeight = 5
		}
		if !m.ready {
			m.chatView = viewport.New(msg.Width, chatHeight)
			m.ready = true
		} else {
			m.chatView.Width = msg.Width
			m.chatView.Height = chatHeight
		}
		m.refreshChat()

	case debounceMsg:
		// Stale ticks from earlier keystrokes are dropped.
		if int(msg) == m.debounceSeq {
			m.applyFilter()
		}

	case StatusMsg:
		m.status = string(msg)

	case RefreshMsg:
		m.refreshChat()

	case exchangeDoneMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.refreshChat()

	case spinner.TickMsg:
		if m.pending > 0 {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Key presses return early above; everything else (blink ticks,
	// mouse, resize) flows through to the widgets.
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	cmds = append(cmds, cmd)
	m.chatInput, cmd = m.chatInput.Update(msg)
	cmds = append(cmds, cmd)
	m.chatView, cmd = m.chatView.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyTab {
		m.focus = (m.focus + 1) % 3
		m.search.Blur()
		m.chatInput.Blur()
		switch m.focus {
		case focusSearch:
			return m, m.search.Focus()
		case focusChat:
			return m, m.chatInput.Focus()
		}
		return m, nil
	}

	switch m.focus {
	case focusSearch:
		var cmd tea.Cmd
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.debounceSeq++
			seq := m.debounceSeq
			return m, tea.Batch(cmd, tea.Tick(filterDebounce, func(time.Time) tea.Msg {
				return debounceMsg(seq)
			}))
		}
		return m, cmd

	case focusChat:
		if msg.Type == tea.KeyEnter {
			input := strings.TrimSpace(m.chatInput.Value())
			if input == "" || m.pending > 0 {
				return m, nil
			}
			m.chatInput.Reset()
			m.pending++
			m.refreshChat()
			return m, tea.Batch(m.sendCmd(input), m.spin.Tick)
		}
		var cmd tea.Cmd
		m.chatInput, cmd = m.chatInput.Update(msg)
		return m, cmd

	default:
		return m.handleCatalogKey(msg)
	}
}

func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.result.Products)-1 {
			m.cursor++
		}

	case "enter", " ":
		if p, ok := m.current(); ok {
			m.shelf.Toggle(p)
		}

	case "d":
		if p, ok := m.current(); ok {
			m.detail = &p
		}

	case "c":
		// Category changes apply immediately, no debounce.
		m.categoryIdx++
		if m.categoryIdx >= len(m.categories) {
			m.categoryIdx = -1
		}
		m.applyFilter()

	case "w":
		m.webSearch = !m.webSearch

	case "x":
		m.shelf.Clear()

	case "g":
		if m.pending > 0 {
			return m, nil
		}
		m.pending++
		m.refreshChat()
		return m, tea.Batch(m.routineCmd(), m.spin.Tick)
	}

	return m, nil
}

func (m Model) current() (catalog.Product, bool) {
	if m.result.Kind != catalog.FilterMatched || m.cursor >= len(m.result.Products) {
		return catalog.Product{}, false
	}
	return m.result.Products[m.cursor], true
}

func (m *Model) applyFilter() {
	m.result = catalog.Filter(m.catalog.Products(), m.category(), m.search.Value())
	if m.cursor >= len(m.result.Products) {
		m.cursor = 0
	}
}

func (m Model) category() string {
	if m.categoryIdx < 0 || m.categoryIdx >= len(m.categories) {
		return ""
	}
	return m.categories[m.categoryIdx]
}

func (m Model) sendCmd(input string) tea.Cmd {
	ex, webSearch := m.ex, m.webSearch
	return func() tea.Msg {
		ex.Send(context.Background(), input, webSearch)
		return exchangeDoneMsg{}
	}
}

func (m Model) routineCmd() tea.Cmd {
	ex, webSearch := m.ex, m.webSearch
	return func() tea.Msg {
		ex.GenerateRoutine(context.Background(), webSearch)
		return exchangeDoneMsg{}
	}
}

func (m *Model) refreshChat() {
	if !m.ready {
		return
	}
	var lines []string
	for _, turn := range m.ex.Log().Visible() {
		switch turn.Role {
		case conversation.RoleUser:
			lines = append(lines, youStyle.Render("You: ")+turn.Content)
		case conversation.RoleAssistant:
			prefix := infoStyle.Render("Velvet: ")
			if turn.Pending() {
				prefix = dimStyle.Render("Velvet: ")
			}
			lines = append(lines, prefix+turn.Content)
		}
	}
	m.chatView.SetContent(strings.Join(lines, "\n\n"))
	m.chatView.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing…"
	}
	if m.detail != nil {
		return m.detailView()
	}

	header := titleStyle.Render(" Velvet ")
	status := infoStyle.Render(fmt.Sprintf(" %s ", m.status))
	if m.pending > 0 {
		status = fmt.Sprintf("%s %s", m.spin.View(), status)
	}

	web := dimStyle.Render("web search off")
	if m.webSearch {
		web = infoStyle.Render("web search on")
	}

	cat := "all categories"
	if c := m.category(); c != "" {
		cat = c
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s %s\n\n", header, status, web)
	fmt.Fprintf(&b, "  %s  %s\n", dimStyle.Render("category:"), cat)
	fmt.Fprintf(&b, "  %s %s\n\n", dimStyle.Render("search:"), m.search.View())

	b.WriteString(m.catalogView())
	b.WriteString("\n")
	b.WriteString(m.shelfView())
	b.WriteString("\n\n")
	b.WriteString(m.chatView.View())
	fmt.Fprintf(&b, "\n  %s %s\n", dimStyle.Render("chat:"), m.chatInput.View())
	b.WriteString(dimStyle.Render("\n  tab focus · enter select/send · d detail · c category · g routine · w web · x clear · q quit\n"))

	if m.quitting {
		b.WriteString("\n  Goodbye.\n")
	}
	return b.String()
}

func (m Model) catalogView() string {
	switch m.result.Kind {
	case catalog.FilterNone:
		return dimStyle.Render("  Pick a category or type to search the catalog.\n")
	case catalog.FilterNoMatches:
		return errorStyle.Render("  No products match.\n")
	}

	maxRows := m.height / 3
	if maxRows < 4 {
		maxRows = 4
	}

	var b strings.Builder
	for i, p := range m.result.Products {
		if i >= maxRows {
			fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf("…and %d more", len(m.result.Products)-maxRows)))
			break
		}
		cursor := "  "
		if i == m.cursor {
			cursor = "› "
		}
		mark := "  "
		name := fmt.Sprintf("%s · %s", p.Name, p.Brand)
		if m.shelf.Has(p.ID) {
			mark = selectedStyle.Render("● ")
			name = selectedStyle.Render(name)
		}
		fmt.Fprintf(&b, "%s%s%s %s\n", cursor, mark, name, dimStyle.Render("["+p.Category+"]"))
	}
	return b.String()
}

func (m Model) shelfView() string {
	values := m.shelf.Values()
	if len(values) == 0 {
		return dimStyle.Render("  shelf: empty")
	}
	names := make([]string, len(values))
	for i, p := range values {
		names[i] = p.Name
	}
	return fmt.Sprintf("  %s %s", dimStyle.Render("shelf:"), selectedStyle.Render(strings.Join(names, " · ")))
}

func (m Model) detailView() string {
	p := m.detail
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf(" %s ", p.Name)))
	fmt.Fprintf(&b, "\n\n  %s %s\n", dimStyle.Render("brand:"), p.Brand)
	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("category:"), p.Category)
	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("image:"), p.Image)
	if p.Keywords != "" {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("keywords:"), p.Keywords)
	}
	fmt.Fprintf(&b, "\n  %s\n", p.Description)
	selected := "not on your shelf"
	if m.shelf.Has(p.ID) {
		selected = "on your shelf"
	}
	fmt.Fprintf(&b, "\n  %s\n", infoStyle.Render(selected))
	b.WriteString(dimStyle.Render("\n  press any key to close\n"))
	return b.String()
}
