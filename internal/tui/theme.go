package tui

import "github.com/charmbracelet/lipgloss"

type ThemeName string

const (
	ThemeMidnight  ThemeName = "midnight"
	ThemePorcelain ThemeName = "porcelain"
)

type Theme struct {
	Name ThemeName

	TextPrimary lipgloss.AdaptiveColor
	TextMuted   lipgloss.AdaptiveColor
	Accent      lipgloss.AdaptiveColor
	Success     lipgloss.AdaptiveColor
	Error       lipgloss.AdaptiveColor
	Border      lipgloss.AdaptiveColor

	TopBar      lipgloss.Style
	TopBarTitle lipgloss.Style
	TopBarMeta  lipgloss.Style
	Footer      lipgloss.Style

	Pane     lipgloss.Style
	InputBox lipgloss.Style
	Spinner  lipgloss.Style

	RoleYou   lipgloss.Style
	RoleAgent lipgloss.Style
	ErrText   lipgloss.Style
	OKText    lipgloss.Style
	Muted     lipgloss.Style
	Link      lipgloss.Style

	ListRow    lipgloss.Style
	ListRowSel lipgloss.Style

	ModalBox     lipgloss.Style
	ModalTitle   lipgloss.Style
	ModalConfirm lipgloss.Style
	ModalCancel  lipgloss.Style
}

func NewTheme(name string) Theme {
	switch ThemeName(name) {
	case ThemePorcelain:
		return newPorcelainTheme()
	default:
		return newMidnightTheme()
	}
}

func newMidnightTheme() Theme {
	t := Theme{
		Name:        ThemeMidnight,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#1F2430", Dark: "#E6E6E6"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#8B93A7"},
		Accent:      lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"},
		Success:     lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"},
		Error:       lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"},
		Border:      lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#3B4252"},
	}
	return t.build()
}

func newPorcelainTheme() Theme {
	t := Theme{
		Name:        ThemePorcelain,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#2A2E37", Dark: "#ECEFF4"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#7C8494", Dark: "#9AA3B2"},
		Accent:      lipgloss.AdaptiveColor{Light: "#4C6EF5", Dark: "#91A7FF"},
		Success:     lipgloss.AdaptiveColor{Light: "#2B8A3E", Dark: "#8CE99A"},
		Error:       lipgloss.AdaptiveColor{Light: "#C92A2A", Dark: "#FFA8A8"},
		Border:      lipgloss.AdaptiveColor{Light: "#DEE2E6", Dark: "#495057"},
	}
	return t.build()
}

func (t Theme) build() Theme {
	t.TopBar = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.TopBarTitle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.TopBarMeta = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.Footer = lipgloss.NewStyle().Foreground(t.TextMuted)

	t.Pane = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	t.InputBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Padding(0, 1)
	t.Spinner = lipgloss.NewStyle().Foreground(t.Accent)

	t.RoleYou = lipgloss.NewStyle().Bold(true).Foreground(t.Success)
	t.RoleAgent = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.ErrText = lipgloss.NewStyle().Foreground(t.Error)
	t.OKText = lipgloss.NewStyle().Foreground(t.Success)
	t.Muted = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.Link = lipgloss.NewStyle().Foreground(t.Accent).Underline(true)

	t.ListRow = lipgloss.NewStyle().Padding(0, 1)
	t.ListRowSel = lipgloss.NewStyle().Padding(0, 1).
		Bold(true).
		Foreground(t.Accent).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Accent)

	t.ModalBox = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Error).
		Padding(1, 2)
	t.ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(t.Error)
	t.ModalConfirm = lipgloss.NewStyle().Bold(true).Foreground(t.Error)
	t.ModalCancel = lipgloss.NewStyle().Foreground(t.TextMuted)

	return t
}
