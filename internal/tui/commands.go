package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/serene/internal/chat"
	"github.com/julianstephens/serene/internal/cli"
	"github.com/julianstephens/serene/internal/journal"
	"github.com/julianstephens/serene/internal/models"
)

type dashboardMsg struct {
	state models.CompositeViewState
}

type reportMsg struct {
	report *models.WeeklyReport
}

type journalLoadedMsg struct {
	err error
}

type journalCreatedMsg struct {
	err error
}

type journalDeletedMsg struct {
	err error
}

type chatRepliedMsg struct{}

// changedMsg asks for a redraw after the journal or chat state moved.
type changedMsg struct{}

type checkinDoneMsg struct {
	err error
}

// Watch sends a redraw message whenever the journal or chat state changes.
// Listeners may fire inside Update, so send runs on its own goroutine.
func Watch(svc *cli.Services, send func(tea.Msg)) {
	notify := func() { go send(changedMsg{}) }
	svc.Journal.OnChange(func(journal.State) { notify() })
	svc.Chat.OnChange(notify)
}

func refreshDashboard(ctx context.Context, svc *cli.Services) tea.Cmd {
	return func() tea.Msg {
		return dashboardMsg{state: svc.Dashboard.Refresh(ctx)}
	}
}

func loadReport(ctx context.Context, svc *cli.Services) tea.Cmd {
	return func() tea.Msg {
		rep, _ := svc.Report.Load(ctx)
		return reportMsg{report: rep}
	}
}

func loadJournal(ctx context.Context, svc *cli.Services) tea.Cmd {
	return func() tea.Msg {
		return journalLoadedMsg{err: svc.Journal.Load(ctx)}
	}
}

// createEntry finishes a create begun in Update, where the speculative entry
// was already appended.
func createEntry(ctx context.Context, sub *journal.Submission) tea.Cmd {
	return func() tea.Msg {
		return journalCreatedMsg{err: sub.Complete(ctx)}
	}
}

// deleteEntry is only issued after the y/n confirmation state approved it.
func deleteEntry(ctx context.Context, svc *cli.Services, id models.EntryID) tea.Cmd {
	approved := journal.ConfirmFunc(func(context.Context, models.JournalEntry) (bool, error) { return true, nil })
	return func() tea.Msg {
		return journalDeletedMsg{err: svc.Journal.Delete(ctx, id, approved)}
	}
}

func sendChat(ctx context.Context, p *chat.Pending) tea.Cmd {
	return func() tea.Msg {
		p.Complete(ctx)
		return chatRepliedMsg{}
	}
}

func submitCheckin(ctx context.Context, svc *cli.Services, draft models.CheckinDraft) tea.Cmd {
	return func() tea.Msg {
		svc.Checkin.SetDraft(draft)
		return checkinDoneMsg{err: svc.Checkin.Submit(ctx)}
	}
}
