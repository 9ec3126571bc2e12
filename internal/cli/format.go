package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/serene/internal/models"
)

var (
	HeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("141"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const DeleteConfirmPrompt = "Delete this journal entry?"

// FormatDashboard renders the composite view. Absent fields get placeholder text.
func FormatDashboard(s models.CompositeViewState) string {
	var b strings.Builder

	if s.Streak > 0 {
		fmt.Fprintf(&b, "%d 🔥 day streak\n\n", s.Streak)
	}

	b.WriteString(HeadingStyle.Render("Mood Forecast") + "\n")
	if s.Forecast != nil {
		fmt.Fprintf(&b, "  Next Prediction  %s/10\n", formatNumber(s.Forecast.NextDayPrediction))
		fmt.Fprintf(&b, "  Trend Slope      %s\n", FormatSlope(s.Forecast.TrendSlope))
	} else {
		b.WriteString(MutedStyle.Render("  Gathering insights...") + "\n")
	}

	if s.Insights != nil {
		b.WriteString("\n" + HeadingStyle.Render("Smart Insights") + "\n")
		b.WriteString("  Likely Causes\n")
		writeList(&b, s.Insights.Reasons, "Gathering context...")
		b.WriteString("  Recommended Tips\n")
		writeList(&b, s.Insights.Tips, "Checking in more helps!")
	}

	return b.String()
}

// FormatSlope prefixes positive slopes with "+".
func FormatSlope(v float64) string {
	if v > 0 {
		return "+" + formatNumber(v)
	}
	return formatNumber(v)
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%g", v)
}

func writeList(b *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		fmt.Fprintf(b, "    • %s\n", empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "    • %s\n", item)
	}
}

// FormatReport renders the weekly report; a nil report renders as "".
func FormatReport(r *models.WeeklyReport) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(HeadingStyle.Render("Weekly Report") + "\n")
	fmt.Fprintf(&b, "  %s\n\n", r.Summary)
	fmt.Fprintf(&b, "  Biggest Win  %s\n", r.Win)
	fmt.Fprintf(&b, "  Focus Area   %s\n", r.Focus)
	return b.String()
}

// FormatEntry renders one journal entry. Unsaved entries are marked and carry
// no id the user could pass to delete.
func FormatEntry(e models.JournalEntry) string {
	var b strings.Builder

	label := e.ID.String()
	if e.IsOptimistic || !e.ID.IsConfirmed() {
		label = "saving…"
	}
	when := ""
	if !e.Timestamp.IsZero() {
		when = e.Timestamp.Local().Format("Jan 2 15:04")
	}
	b.WriteString(MutedStyle.Render(fmt.Sprintf("[%s] %s", label, when)) + "\n")
	fmt.Fprintf(&b, "%s\n", e.Content)
	if e.Summary != "" {
		fmt.Fprintf(&b, "  Summary: %s\n", e.Summary)
	}
	if e.Advice != "" {
		fmt.Fprintf(&b, "  Advice:  %s\n", e.Advice)
	}
	return b.String()
}

// FormatTurn renders one chat turn.
func FormatTurn(t models.ChatTurn) string {
	if t.Sender == models.SenderUser {
		return "you: " + t.Text
	}
	return "serene: " + t.Text
}
