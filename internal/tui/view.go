package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/serene/internal/cli"
	"github.com/julianstephens/serene/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateDashboard:
		content = m.viewDashboard()
	case StateCheckin:
		content = docStyle.Render(m.form.View())
	case StateJournal:
		content = m.viewJournal()
	case StateCompose:
		content = m.viewCompose()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	case StateChat:
		content = m.viewChat()
	}

	parts := []string{m.viewTabs(), content}
	if m.notice != "" {
		parts = append(parts, noticeStyle.Render(m.notice))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	current := m.tab()
	var tabs []string
	for i, title := range tabTitles {
		if current == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewDashboard() string {
	var b strings.Builder
	b.WriteString(cli.FormatDashboard(m.dashboard))
	if rep := cli.FormatReport(m.report); rep != "" {
		b.WriteString("\n")
		b.WriteString(rep)
	}
	if m.busy > 0 {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " Saving check-in...")
	}
	return docStyle.Render(b.String())
}

func (m Model) viewJournal() string {
	entries := m.entries()
	if len(entries) == 0 {
		return docStyle.Render(cli.MutedStyle.Render("No entries yet. Press a to write one."))
	}

	rows := make([]string, 0, len(entries))
	for i, e := range entries {
		line := cli.FormatEntry(e)
		if e.IsOptimistic {
			line = m.spinner.View() + " " + line
		}
		if i == m.cursor {
			rows = append(rows, selectedStyle.Render(line))
		} else {
			rows = append(rows, entryStyle.Render(line))
		}
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) viewCompose() string {
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cli.HeadingStyle.Render("New entry"),
		m.composer.View(),
	))
}

func (m Model) viewConfirmDelete() string {
	var preview string
	if m.pendingDelete != nil {
		preview = cli.FormatEntry(*m.pendingDelete)
	}
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(cli.DeleteConfirmPrompt),
			"",
			preview,
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewChat() string {
	turns := m.svc.Chat.Turns()
	rows := make([]string, 0, len(turns)+2)
	for _, t := range turns {
		if t.Sender == models.SenderUser {
			rows = append(rows, userTurnStyle.Render(cli.FormatTurn(t)))
		} else {
			rows = append(rows, assistantTurnStyle.Render(cli.FormatTurn(t)))
		}
	}
	if m.svc.Chat.Typing() {
		rows = append(rows, cli.MutedStyle.Render(m.spinner.View()+" serene is typing..."))
	}
	rows = append(rows, "", m.input.View())
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
