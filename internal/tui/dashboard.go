package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"omnileap/internal/app"
)

type historyMsg struct {
	threads []app.Thread
	err     error
}

type deleteDoneMsg struct{ err error }

// openThreadMsg asks the root model to load a persisted thread into the live
// session and switch to the chat view.
type openThreadMsg struct {
	messages []app.PersistedMessage
}

// dashboardModel lists reconciled conversation threads and owns the delete
// flows. Every visit refetches; the thread list is always derived in full
// from the latest feed, never patched.
type dashboardModel struct {
	client *app.Client
	theme  Theme
	keys   keyMap

	threads []app.Thread
	cursor  int
	loading bool
	errText string

	modal        confirmModal
	deleteTarget string
	deleteAll    bool

	width  int
	height int
}

func newDashboardModel(client *app.Client, theme Theme, keys keyMap) dashboardModel {
	return dashboardModel{client: client, theme: theme, keys: keys}
}

func (m dashboardModel) setSize(width, height int) dashboardModel {
	m.width = width
	m.height = height
	return m
}

func (m dashboardModel) fetch() (dashboardModel, tea.Cmd) {
	m.loading = true
	m.errText = ""
	client := m.client
	return m, func() tea.Msg {
		history, err := client.FetchHistory(context.Background())
		if err != nil {
			return historyMsg{err: err}
		}
		return historyMsg{threads: app.GroupHistory(history)}
	}
}

func (m dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if confirmed, handled := m.modal.handleKey(msg); handled {
			if !confirmed {
				m.deleteTarget = ""
				m.deleteAll = false
				return m, nil
			}
			return m.runDelete()
		}
		return m.handleKey(msg)

	case historyMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = app.UserMessage(msg.err)
			return m, nil
		}
		m.threads = msg.threads
		if m.cursor >= len(m.threads) {
			m.cursor = max(0, len(m.threads)-1)
		}
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			// A failed delete leaves the current list untouched and shows
			// the error verbatim.
			m.errText = msg.err.Error()
			return m, nil
		}
		return m.fetch()
	}
	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m.fetch()

	case msg.String() == "up" || msg.String() == "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case msg.String() == "down" || msg.String() == "j":
		if m.cursor < len(m.threads)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if m.cursor < len(m.threads) {
			thread := m.threads[m.cursor]
			return m, func() tea.Msg { return openThreadMsg{messages: thread.Messages} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.cursor < len(m.threads) {
			m.deleteTarget = m.threads[m.cursor].SessionID
			m.deleteAll = false
			m.modal.show("Delete Conversation",
				"Are you sure you want to permanently delete this conversation? This action cannot be undone.")
		}
		return m, nil

	case key.Matches(msg, m.keys.DeleteAll):
		if len(m.threads) > 0 {
			m.deleteAll = true
			m.deleteTarget = ""
			m.modal.show("Delete All History",
				"Are you sure you want to permanently delete your entire conversation history? This action cannot be undone.")
		}
		return m, nil
	}
	return m, nil
}

func (m dashboardModel) runDelete() (dashboardModel, tea.Cmd) {
	client := m.client
	all := m.deleteAll
	target := m.deleteTarget
	m.deleteAll = false
	m.deleteTarget = ""
	return m, func() tea.Msg {
		if all {
			return deleteDoneMsg{err: client.DeleteAllHistory(context.Background())}
		}
		return deleteDoneMsg{err: client.DeleteSession(context.Background(), target)}
	}
}

func (m dashboardModel) view() string {
	var b strings.Builder
	b.WriteString(m.theme.TopBarTitle.Render("Conversation History"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.theme.Muted.Render("Loading…"))

	case m.errText != "":
		b.WriteString(m.theme.ErrText.Render("Error: " + m.errText))

	case len(m.threads) == 0:
		b.WriteString("No History Found\n")
		b.WriteString(m.theme.Muted.Render("Start a new conversation to see your history here."))

	default:
		visible := max(1, m.height-6)
		start := 0
		if m.cursor >= visible {
			start = m.cursor - visible + 1
		}
		for i := start; i < len(m.threads) && i < start+visible; i++ {
			b.WriteString(m.renderRow(i))
			b.WriteString("\n")
		}
	}

	if m.modal.open {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.modal.view(m.theme, m.width))
	}
	return b.String()
}

func (m dashboardModel) renderRow(i int) string {
	thread := m.threads[i]
	preview := truncate(thread.Preview(), max(16, m.width-8))
	meta := fmt.Sprintf("%d messages - Started on %s",
		len(thread.Messages), thread.StartedAt().Format("Jan 2, 2006"))

	row := preview + "\n" + m.theme.Muted.Render(meta)
	if i == m.cursor {
		return m.theme.ListRowSel.Render(row)
	}
	return m.theme.ListRow.Render(row)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
