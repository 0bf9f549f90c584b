package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"omnileap/internal/identity"
)

type signedInMsg struct{ user identity.User }
type authErrMsg struct{ err error }
type signUpDoneMsg struct{ err error }
type resetDoneMsg struct{ err error }

// loginModel is the email/password form: sign in, sign up and password
// reset. Provider rejections surface as the form's error line, not faults.
type loginModel struct {
	auth  *identity.Client
	theme Theme

	email    textinput.Model
	password textinput.Model
	focus    int

	registering bool
	busy        bool
	errText     string
	okText      string

	width  int
	height int
}

func newLoginModel(auth *identity.Client, theme Theme) loginModel {
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginModel{
		auth:     auth,
		theme:    theme,
		email:    email,
		password: password,
	}
}

func (m loginModel) setSize(width, height int) loginModel {
	m.width = width
	m.height = height
	return m
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focus = (m.focus + 1) % 2
			if m.focus == 0 {
				m.email.Focus()
				m.password.Blur()
			} else {
				m.email.Blur()
				m.password.Focus()
			}
			return m, textinput.Blink

		case "enter":
			return m.submit()

		case "ctrl+r":
			m.registering = !m.registering
			m.errText = ""
			m.okText = ""
			return m, nil

		case "ctrl+f":
			return m.sendReset()
		}

	case authErrMsg:
		m.busy = false
		m.errText = msg.err.Error()
		return m, nil

	case signUpDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.okText = "Registration successful! Please log in."
		m.registering = false
		m.password.Reset()
		return m, nil

	case resetDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = "Failed to send password reset email. Please check the address and try again."
			return m, nil
		}
		m.okText = "Password reset email sent! Check your inbox."
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.email, cmd = m.email.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if email == "" || password == "" {
		m.errText = "Email and password are required."
		return m, nil
	}
	m.busy = true
	m.errText = ""
	m.okText = ""

	auth := m.auth
	if m.registering {
		return m, func() tea.Msg {
			return signUpDoneMsg{err: auth.SignUp(context.Background(), email, password)}
		}
	}
	return m, func() tea.Msg {
		user, err := auth.SignIn(context.Background(), email, password)
		if err != nil {
			return authErrMsg{err: err}
		}
		return signedInMsg{user: user}
	}
}

func (m loginModel) sendReset() (loginModel, tea.Cmd) {
	email := strings.TrimSpace(m.email.Value())
	if email == "" {
		m.errText = "Please enter your email to reset your password."
		return m, nil
	}
	m.busy = true
	m.errText = ""
	m.okText = ""
	auth := m.auth
	return m, func() tea.Msg {
		return resetDoneMsg{err: auth.SendPasswordReset(context.Background(), email)}
	}
}

func (m loginModel) view() string {
	title := "Welcome to OmniLeap"
	action := "sign in"
	if m.registering {
		title = "Create Your Account"
		action = "register"
	}

	var b strings.Builder
	b.WriteString(m.theme.TopBarTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render("Your personal intelligent agent."))
	b.WriteString("\n\n")
	b.WriteString(m.email.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	switch {
	case m.busy:
		b.WriteString(m.theme.Muted.Render("Working…"))
	case m.errText != "":
		b.WriteString(m.theme.ErrText.Render(m.errText))
	case m.okText != "":
		b.WriteString(m.theme.OKText.Render(m.okText))
	}
	b.WriteString("\n\n")
	b.WriteString(m.theme.Footer.Render(
		"enter " + action + " · ctrl+r toggle register · ctrl+f reset password"))

	form := lipgloss.NewStyle().Width(min(48, max(30, m.width-4))).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.theme.Pane.Render(form))
}
