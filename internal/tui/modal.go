package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmModal is the destructive-action gate: deletes never run without an
// explicit yes. The zero value is closed.
type confirmModal struct {
	open  bool
	title string
	body  string
}

func (m *confirmModal) show(title, body string) {
	m.open = true
	m.title = title
	m.body = body
}

func (m *confirmModal) close() {
	m.open = false
}

// handleKey consumes a key press while the modal is open. confirmed is true
// only on an explicit yes.
func (m *confirmModal) handleKey(msg tea.KeyMsg) (confirmed, handled bool) {
	if !m.open {
		return false, false
	}
	switch msg.String() {
	case "y", "Y", "enter":
		m.close()
		return true, true
	case "n", "N", "esc":
		m.close()
		return false, true
	}
	return false, true
}

func (m *confirmModal) view(t Theme, width int) string {
	if !m.open {
		return ""
	}
	inner := lipgloss.JoinVertical(lipgloss.Left,
		t.ModalTitle.Render(m.title),
		"",
		lipgloss.NewStyle().Width(min(46, max(20, width-10))).Render(m.body),
		"",
		t.ModalConfirm.Render("[y] Yes, Delete")+"   "+t.ModalCancel.Render("[n] Cancel"),
	)
	return t.ModalBox.Render(inner)
}
