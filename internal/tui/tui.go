// Package tui is the terminal front end. It subscribes to session state,
// renders it, and forwards user intents back into the core; all conversation
// and history logic lives in internal/app.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"omnileap/internal/app"
	"omnileap/internal/identity"
)

type view int

const (
	viewLogin view = iota
	viewChat
	viewDashboard
	viewProfile
)

type resumedMsg struct {
	user identity.User
	ok   bool
}

// Model is the top-level bubbletea model: one sub-model per view, async
// results routed to their owners by message type, key presses routed to the
// active view.
type Model struct {
	app   *app.Application
	auth  *identity.Client
	theme Theme
	keys  keyMap

	view    view
	login   loginModel
	chat    chatModel
	dash    dashboardModel
	profile profileModel

	width  int
	height int
	ready  bool
}

func New(application *app.Application, auth *identity.Client) *Model {
	theme := NewTheme(application.Config.Theme)
	keys := defaultKeyMap()
	return &Model{
		app:     application,
		auth:    auth,
		theme:   theme,
		keys:    keys,
		view:    viewLogin,
		login:   newLoginModel(auth, theme),
		chat:    newChatModel(application, theme, keys),
		dash:    newDashboardModel(application.Client, theme, keys),
		profile: newProfileModel(auth, theme),
	}
}

func (m *Model) Init() tea.Cmd {
	auth := m.auth
	resume := func() tea.Msg {
		user, ok := auth.Resume(context.Background())
		return resumedMsg{user: user, ok: ok}
	}
	return tea.Batch(resume, m.chat.init())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		contentH := max(4, m.height-2)
		m.login = m.login.setSize(m.width, contentH)
		m.chat = m.chat.setSize(m.width, contentH)
		m.dash = m.dash.setSize(m.width, contentH)
		m.profile = m.profile.setSize(m.width, contentH)
		return m, nil

	case resumedMsg:
		if msg.ok {
			m.app.Logger.Info("session resumed", zap.String("email", msg.user.Email))
			return m.startChat(msg.user)
		}
		m.view = viewLogin
		return m, nil

	case signedInMsg:
		m.app.Logger.Info("signed in", zap.String("email", msg.user.Email))
		return m.startChat(msg.user)

	case signedOutMsg:
		m.view = viewLogin
		return m, nil

	case accountDeletedMsg:
		if msg.err == nil {
			m.view = viewLogin
			return m, nil
		}
		var cmd tea.Cmd
		m.profile, cmd = m.profile.update(msg)
		return m, cmd

	case openThreadMsg:
		m.app.Session.Load(msg.messages)
		m.view = viewChat
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	// Async results go to their owning view even when it is not active.
	case sessionUpdatedMsg, submitDoneMsg, spinMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.update(msg)
		return m, cmd
	case historyMsg, deleteDoneMsg:
		var cmd tea.Cmd
		m.dash, cmd = m.dash.update(msg)
		return m, cmd
	case authErrMsg, signUpDoneMsg, resetDoneMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.update(msg)
		return m, cmd
	}

	return m.delegate(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.view != viewLogin {
		switch {
		case key.Matches(msg, m.keys.NewChat):
			user, _ := m.auth.CurrentUser()
			return m.startChat(user)
		case key.Matches(msg, m.keys.Dashboard):
			m.view = viewDashboard
			var cmd tea.Cmd
			m.dash, cmd = m.dash.fetch()
			return m, cmd
		case key.Matches(msg, m.keys.Profile):
			m.view = viewProfile
			return m, nil
		case key.Matches(msg, m.keys.Back) && m.view != viewChat:
			m.view = viewChat
			return m, nil
		}
	}
	return m.delegate(msg)
}

// delegate forwards a message to the active view's sub-model.
func (m *Model) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case viewLogin:
		m.login, cmd = m.login.update(msg)
	case viewChat:
		m.chat, cmd = m.chat.update(msg)
	case viewDashboard:
		m.dash, cmd = m.dash.update(msg)
	case viewProfile:
		m.profile, cmd = m.profile.update(msg)
	}
	return m, cmd
}

func (m *Model) startChat(user identity.User) (tea.Model, tea.Cmd) {
	m.app.Session.StartNew(m.app.GreetingName(user.Name()))
	m.view = viewChat
	return m, nil
}

func (m *Model) View() string {
	if !m.ready {
		return "…"
	}

	var body string
	switch m.view {
	case viewLogin:
		return m.login.view()
	case viewChat:
		body = m.chat.view()
	case viewDashboard:
		body = m.dash.view()
	case viewProfile:
		body = m.profile.view()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.topBar(), body, m.footer())
}

func (m *Model) topBar() string {
	theme := m.theme
	title := theme.TopBarTitle.Render("OmniLeap")

	meta := ""
	if user, ok := m.auth.CurrentUser(); ok {
		meta = theme.TopBarMeta.Render(user.Email)
	}

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(meta) - 2
	if gap < 1 {
		gap = 1
	}
	return theme.TopBar.Render(" " + title + strings.Repeat(" ", gap) + meta)
}

func (m *Model) footer() string {
	theme := m.theme
	var hints string
	switch m.view {
	case viewChat:
		hints = "enter send · ctrl+n new chat · ctrl+h history · ctrl+p profile · ctrl+c quit"
	case viewDashboard:
		hints = "enter open · d delete · shift+d delete all · r refresh · esc back · ctrl+c quit"
	case viewProfile:
		hints = "s sign out · x delete account · esc back · ctrl+c quit"
	default:
		hints = "ctrl+c quit"
	}
	return theme.Footer.Render(" " + hints)
}
