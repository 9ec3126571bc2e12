package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/serene/internal/cli"
	apperrors "github.com/julianstephens/serene/internal/errors"
	"github.com/julianstephens/serene/internal/journal"
	"github.com/julianstephens/serene/internal/models"
)

func deletable(e models.JournalEntry) bool {
	return journal.DeleteAffordance(e)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.composer.SetWidth(max(msg.Width-6, 20))
		m.input.Width = max(msg.Width-8, 20)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dashboardMsg:
		m.dashboard = msg.state
		return m, nil

	case reportMsg:
		m.report = msg.report
		return m, nil

	case journalLoadedMsg:
		if msg.err != nil {
			m.notice = "Could not load journal: " + msg.err.Error()
		}
		m.clampCursor()
		return m, nil

	case journalCreatedMsg:
		switch {
		case apperrors.Is(msg.err, apperrors.KindSourceUnavailable):
			m.notice = "Entry saved, but the journal could not be refreshed. Press r to reload."
		case msg.err != nil:
			m.notice = "Entry not saved: " + msg.err.Error()
		default:
			m.notice = "Entry saved."
		}
		m.clampCursor()
		return m, nil

	case journalDeletedMsg:
		if msg.err != nil {
			m.notice = "Entry not deleted: " + msg.err.Error()
		} else {
			m.notice = "Entry deleted."
		}
		m.clampCursor()
		return m, nil

	case chatRepliedMsg, changedMsg:
		return m, nil

	case checkinDoneMsg:
		m.busy--
		m.dashboard = m.svc.Dashboard.State()
		_, m.notice = m.svc.Checkin.Status()
		return m, nil
	}

	switch m.state {
	case StateCheckin:
		return m.updateCheckin(msg)
	case StateCompose:
		return m.updateCompose(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case StateChat:
		return m.updateChat(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if cmd, handled := m.handleGlobalKey(keyMsg); handled {
		return m, cmd
	}

	switch m.state {
	case StateDashboard:
		return m.updateDashboard(keyMsg)
	case StateJournal:
		return m.updateJournal(keyMsg)
	}
	return m, nil
}

// handleGlobalKey handles quitting, help and tab switching.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil, true
	case key.Matches(msg, m.keys.Tab):
		return m.switchTab(1), true
	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchTab(-1), true
	}
	return nil, false
}

func (m *Model) switchTab(step int) tea.Cmd {
	next := (int(m.tab()) + step + numTabs) % numTabs
	m.state = SessionState(next)
	m.notice = ""
	if m.state == StateChat {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(refreshDashboard(m.ctx, m.svc), loadReport(m.ctx, m.svc))
	case key.Matches(msg, m.keys.Checkin):
		if m.busy > 0 {
			return m, nil
		}
		m.checkinForm = cli.NewCheckinFormModel(m.svc.Checkin.Draft())
		m.form = cli.NewCheckinForm(m.checkinForm)
		m.state = StateCheckin
		m.notice = ""
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) updateCheckin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateDashboard
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateDashboard
		draft, err := m.checkinForm.Draft()
		if err != nil {
			m.notice = err.Error()
			return m, tea.Batch(cmds...)
		}
		m.busy++
		m.notice = ""
		cmds = append(cmds, submitCheckin(m.ctx, m.svc, draft))
	case huh.StateAborted:
		m.state = StateDashboard
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateJournal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.entries())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, loadJournal(m.ctx, m.svc)
	case key.Matches(msg, m.keys.Add):
		m.state = StateCompose
		m.notice = ""
		m.composer.SetValue(m.svc.Journal.Composer())
		return m, m.composer.Focus()
	case key.Matches(msg, m.keys.Delete):
		e, ok := m.selectedEntry()
		if !ok || !deletable(e) {
			return m, nil
		}
		m.pendingDelete = &e
		m.state = StateConfirmDelete
	}
	return m, nil
}

func (m Model) updateCompose(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMsg.Type == tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Cancel):
			m.svc.Journal.SetComposer(m.composer.Value())
			m.composer.Blur()
			m.state = StateJournal
			return m, nil
		case key.Matches(keyMsg, m.keys.Submit):
			m.svc.Journal.SetComposer(m.composer.Value())
			sub, err := m.svc.Journal.Begin()
			if errors.Is(err, journal.ErrEmptyContent) {
				m.notice = "Write something first."
				return m, nil
			}
			if err != nil {
				m.notice = err.Error()
				return m, nil
			}
			m.composer.Reset()
			m.composer.Blur()
			m.state = StateJournal
			m.cursor = len(m.entries()) - 1
			return m, createEntry(m.ctx, sub)
		}
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch strings.ToLower(keyMsg.String()) {
	case "y":
		e := m.pendingDelete
		m.pendingDelete = nil
		m.state = StateJournal
		if e == nil {
			return m, nil
		}
		return m, deleteEntry(m.ctx, m.svc, e.ID)
	case "n", "esc", "q":
		m.pendingDelete = nil
		m.state = StateJournal
	}
	return m, nil
}

func (m Model) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMsg.Type == tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Tab):
			return m, m.switchTab(1)
		case key.Matches(keyMsg, m.keys.ShiftTab):
			return m, m.switchTab(-1)
		case key.Matches(keyMsg, m.keys.Send):
			p, ok := m.svc.Chat.Begin(m.input.Value())
			if !ok {
				return m, nil
			}
			m.input.Reset()
			return m, sendChat(m.ctx, p)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) clampCursor() {
	n := len(m.entries())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
