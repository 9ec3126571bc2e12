package tui

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/serene/internal/api"
	"github.com/julianstephens/serene/internal/apitest"
	"github.com/julianstephens/serene/internal/chat"
	"github.com/julianstephens/serene/internal/checkin"
	"github.com/julianstephens/serene/internal/cli"
	"github.com/julianstephens/serene/internal/dashboard"
	"github.com/julianstephens/serene/internal/journal"
	"github.com/julianstephens/serene/internal/models"
	"github.com/julianstephens/serene/internal/report"
	"github.com/julianstephens/serene/internal/session"
)

func newTestModel(t *testing.T) (Model, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	src := session.Bypass{}
	client := api.New(srv.BaseURL(), src)
	agg := dashboard.New(client, src)
	svc := &cli.Services{
		Session:   src,
		Dashboard: agg,
		Journal:   journal.New(client),
		Chat:      chat.New(client, chat.WithReplyDelay(0)),
		Checkin:   checkin.New(client, agg),
		Report:    report.NewLoader(client),
	}
	return NewModel(context.Background(), svc), srv
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// deliver runs cmd and feeds its message back into the model.
func deliver(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	next, _ := m.Update(cmd())
	return next.(Model)
}

func TestTabCycling(t *testing.T) {
	m, _ := newTestModel(t)

	want := []SessionState{StateJournal, StateChat, StateDashboard}
	for _, w := range want {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.state != w {
			t.Fatalf("state = %v, want %v", m.state, w)
		}
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state != StateChat {
		t.Errorf("shift+tab from dashboard = %v, want chat", m.state)
	}
}

func TestComposeShowsEntryBeforeServerAnswers(t *testing.T) {
	m, srv := newTestModel(t)
	m.state = StateJournal
	m.svc.Journal.SetComposer("first light")

	m, _ = press(t, m, runes("a"))
	if m.state != StateCompose {
		t.Fatalf("state = %v, want compose", m.state)
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.state != StateJournal {
		t.Fatalf("state after submit = %v, want journal", m.state)
	}

	entries := m.entries()
	if len(entries) != 1 || !entries[0].IsOptimistic || entries[0].Content != "first light" {
		t.Fatalf("entries before create completes = %+v", entries)
	}
	if got := m.svc.Journal.Composer(); got != "" {
		t.Errorf("composer = %q, want cleared", got)
	}
	if n := len(srv.RequestsTo("POST", "/journal/")); n != 0 {
		t.Errorf("POST sent before command ran: %d", n)
	}

	m = deliver(t, m, cmd)
	entries = m.entries()
	if len(entries) != 1 || entries[0].IsOptimistic || !entries[0].ID.IsConfirmed() {
		t.Fatalf("entries after create = %+v", entries)
	}
	if m.notice != "Entry saved." {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestComposeRejectsBlank(t *testing.T) {
	m, _ := newTestModel(t)
	m.state = StateCompose

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("blank submit issued a command")
	}
	if m.state != StateCompose {
		t.Errorf("state = %v, want compose", m.state)
	}
	if len(m.entries()) != 0 {
		t.Errorf("entries = %+v, want none", m.entries())
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, srv := newTestModel(t)
	srv.AddJournal("keep me?")
	m = deliver(t, m, loadJournal(m.ctx, m.svc))
	m.state = StateJournal

	m, _ = press(t, m, runes("d"))
	if m.state != StateConfirmDelete {
		t.Fatalf("state = %v, want confirm", m.state)
	}
	if !strings.Contains(m.View(), cli.DeleteConfirmPrompt) {
		t.Error("confirm view missing prompt")
	}

	m, cmd := press(t, m, runes("n"))
	if m.state != StateJournal || cmd != nil {
		t.Fatalf("decline: state = %v, cmd = %v", m.state, cmd)
	}
	if len(m.entries()) != 1 {
		t.Fatal("entry removed on decline")
	}

	m, _ = press(t, m, runes("d"))
	m, cmd = press(t, m, runes("y"))
	m = deliver(t, m, cmd)
	if len(m.entries()) != 0 {
		t.Errorf("entries after delete = %+v", m.entries())
	}
	if got := srv.JournalContents(); len(got) != 0 {
		t.Errorf("server still has %v", got)
	}
}

func TestOptimisticEntryNotDeletable(t *testing.T) {
	m, _ := newTestModel(t)
	m.state = StateJournal
	m.svc.Journal.SetComposer("in flight")
	if _, err := m.svc.Journal.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	for _, k := range m.ShortHelp() {
		if k.Help().Key == m.keys.Delete.Help().Key {
			t.Error("delete offered in help for optimistic entry")
		}
	}

	m, _ = press(t, m, runes("d"))
	if m.state != StateJournal {
		t.Errorf("state = %v, want journal", m.state)
	}
}

func TestChatTypingAndSend(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != StateChat {
		t.Fatalf("state = %v, want chat", m.state)
	}

	m, _ = press(t, m, runes("q"))
	if m.quitting {
		t.Fatal("q quit while typing in chat")
	}
	m.input.SetValue("hi")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	turns := m.svc.Chat.Turns()
	if len(turns) != 1 || turns[0].Sender != models.SenderUser || turns[0].Text != "hi" {
		t.Fatalf("turns after send = %+v", turns)
	}
	if m.input.Value() != "" {
		t.Errorf("input = %q, want cleared", m.input.Value())
	}

	m = deliver(t, m, cmd)
	turns = m.svc.Chat.Turns()
	if len(turns) != 2 || turns[1].Text != "I hear you: hi" {
		t.Fatalf("turns after reply = %+v", turns)
	}
	if !strings.Contains(m.View(), "you: hi") {
		t.Error("chat view missing user turn")
	}
}

func TestChatBlankInputKept(t *testing.T) {
	m, _ := newTestModel(t)
	m.state = StateChat
	m.input.SetValue("   ")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("blank send issued a command")
	}
	if m.input.Value() != "   " {
		t.Errorf("input = %q, want unchanged", m.input.Value())
	}
	if n := len(m.svc.Chat.Turns()); n != 0 {
		t.Errorf("turns = %d, want 0", n)
	}
}

func TestReloadKeepsPendingEntry(t *testing.T) {
	m, srv := newTestModel(t)
	srv.AddJournal("older")
	m.state = StateCompose
	m.composer.SetValue("new thought")

	m, create := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, reload := press(t, m, runes("r"))
	m = deliver(t, m, reload)

	entries := m.entries()
	if len(entries) != 2 || entries[1].Content != "new thought" || !entries[1].IsOptimistic {
		t.Fatalf("entries after reload = %+v", entries)
	}

	m = deliver(t, m, create)
	entries = m.entries()
	if len(entries) != 2 || entries[1].IsOptimistic {
		t.Fatalf("entries after create = %+v", entries)
	}
}

func TestComposeSavedButNotRefreshed(t *testing.T) {
	m, srv := newTestModel(t)
	srv.Fail(http.MethodGet, "/journal/", http.StatusServiceUnavailable)
	m.state = StateCompose
	m.composer.SetValue("kept on the server")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = deliver(t, m, cmd)
	if !strings.HasPrefix(m.notice, "Entry saved, but") {
		t.Errorf("notice = %q", m.notice)
	}
	if got := srv.JournalContents(); len(got) != 1 {
		t.Errorf("server contents = %v", got)
	}
}

func TestWatchSendsOnChange(t *testing.T) {
	m, _ := newTestModel(t)
	got := make(chan tea.Msg, 4)
	Watch(m.svc, func(msg tea.Msg) { got <- msg })

	wait := func(what string) {
		t.Helper()
		select {
		case msg := <-got:
			if _, ok := msg.(changedMsg); !ok {
				t.Errorf("%s: got %T, want changedMsg", what, msg)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s: no redraw sent", what)
		}
	}

	m.svc.Journal.SetComposer("noted")
	if _, err := m.svc.Journal.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	wait("journal")

	if _, ok := m.svc.Chat.Begin("hello"); !ok {
		t.Fatal("chat Begin rejected text")
	}
	wait("chat")
}

func TestDashboardRefresh(t *testing.T) {
	m, srv := newTestModel(t)
	srv.SetStreak(4)

	m, cmd := press(t, m, runes("r"))
	if cmd == nil {
		t.Fatal("refresh issued no command")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("refresh returned %T, want batch", cmd())
	}
	for _, c := range batch {
		next, _ := m.Update(c())
		m = next.(Model)
	}

	if m.dashboard.Streak != 4 {
		t.Errorf("streak = %d, want 4", m.dashboard.Streak)
	}
	if !strings.Contains(m.View(), "4 🔥 day streak") {
		t.Error("dashboard view missing streak")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := press(t, m, runes("q"))
	if !m.quitting || cmd == nil {
		t.Fatal("q did not quit from dashboard")
	}
	if m.View() != "" {
		t.Error("view not empty after quit")
	}
}
