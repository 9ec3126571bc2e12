package tui

import "github.com/charmbracelet/lipgloss"

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("141")).
			PaddingLeft(1)

	entryStyle = lipgloss.NewStyle().PaddingLeft(2)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	userTurnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	assistantTurnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("183"))

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)
