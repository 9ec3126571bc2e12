package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/serene/internal/cli"
	"github.com/julianstephens/serene/internal/models"
)

type SessionState int

const (
	StateDashboard SessionState = iota
	StateJournal
	StateChat
	StateCheckin
	StateCompose
	StateConfirmDelete
)

var tabTitles = []string{"Dashboard", "Journal", "Chat"}

const numTabs = 3

type Model struct {
	ctx context.Context
	svc *cli.Services

	state    SessionState
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	composer textarea.Model
	input    textinput.Model

	form        *huh.Form
	checkinForm *cli.CheckinFormModel

	dashboard     models.CompositeViewState
	report        *models.WeeklyReport
	cursor        int
	pendingDelete *models.JournalEntry
	busy          int
	notice        string

	quitting bool
	width    int
	height   int
}

func NewModel(ctx context.Context, svc *cli.Services) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ta := textarea.New()
	ta.Placeholder = "Pour your heart out... What's weighing on you today?"
	ta.ShowLineNumbers = false

	ti := textinput.New()
	ti.Placeholder = "Type a message..."

	return Model{
		ctx:      ctx,
		svc:      svc,
		state:    StateDashboard,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		composer: ta,
		input:    ti,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		refreshDashboard(m.ctx, m.svc),
		loadReport(m.ctx, m.svc),
		loadJournal(m.ctx, m.svc),
	)
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateDashboard:
		keys = append(keys, m.keys.Checkin, m.keys.Refresh)
	case StateJournal:
		keys = append(keys, m.keys.Add)
		if e, ok := m.selectedEntry(); ok && deletable(e) {
			keys = append(keys, m.keys.Delete)
		}
	case StateCompose:
		keys = []key.Binding{m.keys.Submit, m.keys.Cancel}
	case StateChat:
		keys = []key.Binding{m.keys.Tab, m.keys.Send}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case StateDashboard:
		actions = []key.Binding{m.keys.Checkin, m.keys.Refresh}
	case StateJournal:
		actions = []key.Binding{m.keys.Add, m.keys.Delete, m.keys.Refresh}
	case StateChat:
		actions = []key.Binding{m.keys.Send}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) entries() []models.JournalEntry {
	return m.svc.Journal.Entries()
}

func (m Model) selectedEntry() (models.JournalEntry, bool) {
	entries := m.entries()
	if m.cursor < 0 || m.cursor >= len(entries) {
		return models.JournalEntry{}, false
	}
	return entries[m.cursor], true
}

// tab returns the tab the current state belongs to.
func (m Model) tab() SessionState {
	switch m.state {
	case StateCheckin:
		return StateDashboard
	case StateCompose, StateConfirmDelete:
		return StateJournal
	default:
		return m.state
	}
}
