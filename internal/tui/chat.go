package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"omnileap/internal/app"
)

type sessionUpdatedMsg struct{}
type submitDoneMsg struct{}
type spinMsg struct{}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var examplePrompts = []string{
	"What's the weather in Lucknow?",
	"Who was Alan Turing?",
	"/blog The Future of AI",
}

// chatModel renders the live session and forwards utterances to it. While a
// submit is outstanding the input is gated, so at most one request is in
// flight; the session's update channel re-renders the optimistic appends
// before the remote call resolves.
type chatModel struct {
	app   *app.Application
	theme Theme
	keys  keyMap

	input textarea.Model
	vp    viewport.Model
	ready bool

	loading    bool
	spinnerPos int

	width  int
	height int
}

func newChatModel(application *app.Application, theme Theme, keys keyMap) chatModel {
	ta := textarea.New()
	ta.Placeholder = "Ask a question or type /blog [topic]"
	ta.Focus()
	ta.CharLimit = 8000
	ta.SetHeight(1)
	ta.Prompt = "▍ "
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()

	return chatModel{
		app:   application,
		theme: theme,
		keys:  keys,
		input: ta,
	}
}

func (m chatModel) init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitUpdate())
}

func (m chatModel) setSize(width, height int) chatModel {
	m.width = width
	m.height = height
	vpHeight := max(3, height-4)
	if !m.ready {
		m.vp = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.vp.Width = width
		m.vp.Height = vpHeight
	}
	m.input.SetWidth(max(10, width-4))
	m = m.refresh()
	return m
}

func (m chatModel) update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			return m.onEnter()
		}
		if m.loading {
			// Submission is disabled while a call is outstanding; still let
			// the user scroll and type ahead.
			if msg.String() == "up" || msg.String() == "down" {
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				return m, cmd
			}
		}

	case sessionUpdatedMsg:
		m = m.refresh()
		m.vp.GotoBottom()
		return m, m.waitUpdate()

	case submitDoneMsg:
		m.loading = false
		return m, nil

	case spinMsg:
		if m.loading {
			m.spinnerPos = (m.spinnerPos + 1) % len(spinnerFrames)
			return m, m.spinTick()
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.vp, cmd = m.vp.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m chatModel) onEnter() (chatModel, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	val := m.input.Value()
	if strings.TrimSpace(val) == "" {
		return m, nil
	}
	m.input.Reset()
	m.loading = true
	m.spinnerPos = 0

	session := m.app.Session
	submit := func() tea.Msg {
		session.Submit(context.Background(), val)
		return submitDoneMsg{}
	}
	return m, tea.Batch(submit, m.spinTick())
}

func (m chatModel) waitUpdate() tea.Cmd {
	updates := m.app.Session.Updates()
	return func() tea.Msg {
		<-updates
		return sessionUpdatedMsg{}
	}
}

func (m chatModel) spinTick() tea.Cmd {
	return tea.Tick(90*time.Millisecond, func(time.Time) tea.Msg { return spinMsg{} })
}

func (m chatModel) refresh() chatModel {
	if !m.ready {
		return m
	}
	messages := m.app.Session.Messages()

	textWidth := max(20, m.width-6)
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(m.renderMessage(msg, textWidth))
		b.WriteString("\n\n")
	}
	if len(messages) <= 1 {
		b.WriteString(m.theme.Muted.Render("Try an example:"))
		b.WriteString("\n")
		for _, prompt := range examplePrompts {
			b.WriteString("  " + m.theme.Muted.Render("· "+prompt) + "\n")
		}
	}
	m.vp.SetContent(strings.TrimRight(b.String(), "\n"))
	return m
}

func (m chatModel) renderMessage(msg app.Message, width int) string {
	var head string
	switch msg.Sender {
	case app.SenderUser:
		head = m.theme.RoleYou.Render("YOU")
	default:
		head = m.theme.RoleAgent.Render("AGENT")
	}

	body := lipgloss.NewStyle().Foreground(m.theme.TextPrimary).Width(width).Render(msg.Text)
	if msg.ImageURL != "" {
		body += "\n" + m.theme.Link.Render(msg.ImageURL)
	}
	return head + "\n" + body
}

func (m chatModel) view() string {
	if !m.ready {
		return "…"
	}

	status := ""
	if m.loading {
		status = m.theme.Spinner.Render(spinnerFrames[m.spinnerPos]) + m.theme.Muted.Render(" Thinking…")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.vp.View(),
		m.theme.InputBox.Width(max(10, m.width-2)).Render(m.input.View()),
		status,
	)
}
