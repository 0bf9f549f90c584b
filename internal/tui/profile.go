package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"omnileap/internal/identity"
)

type signedOutMsg struct{}
type accountDeletedMsg struct{ err error }

// profileModel shows the signed-in identity and owns sign-out and account
// deletion.
type profileModel struct {
	auth  *identity.Client
	theme Theme

	modal   confirmModal
	errText string

	width  int
	height int
}

func newProfileModel(auth *identity.Client, theme Theme) profileModel {
	return profileModel{auth: auth, theme: theme}
}

func (m profileModel) setSize(width, height int) profileModel {
	m.width = width
	m.height = height
	return m
}

func (m profileModel) update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if confirmed, handled := m.modal.handleKey(msg); handled {
			if !confirmed {
				return m, nil
			}
			auth := m.auth
			return m, func() tea.Msg {
				return accountDeletedMsg{err: auth.DeleteAccount(context.Background())}
			}
		}
		switch msg.String() {
		case "s":
			auth := m.auth
			return m, func() tea.Msg {
				auth.SignOut()
				return signedOutMsg{}
			}
		case "x":
			m.modal.show("Delete Account",
				"Are you sure you want to permanently delete your account? All of your data will be lost. This action cannot be undone.")
			return m, nil
		}

	case accountDeletedMsg:
		if msg.err != nil {
			m.errText = "Failed to delete account. You may need to log out and log back in before trying again."
			return m, nil
		}
		// Root switches back to the login view.
		return m, nil
	}
	return m, nil
}

func (m profileModel) view() string {
	user, ok := m.auth.CurrentUser()
	if !ok {
		return m.theme.Muted.Render("Loading user data...")
	}

	name := user.DisplayName
	if name == "" {
		name = "Anonymous User"
	}
	created := "Not available"
	if !user.CreatedAt.IsZero() {
		created = user.CreatedAt.Format("January 2, 2006")
	}

	var b strings.Builder
	b.WriteString(m.theme.TopBarTitle.Render("My Profile"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(name))
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render(user.Email))
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render("Member since: " + created))
	b.WriteString("\n\n")
	if m.errText != "" {
		b.WriteString(m.theme.ErrText.Render(m.errText))
		b.WriteString("\n\n")
	}
	b.WriteString(m.theme.Footer.Render("s sign out · x delete account · esc back to chat"))

	if m.modal.open {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.modal.view(m.theme, m.width))
	}
	return b.String()
}
