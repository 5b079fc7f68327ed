// Package history provides the TUI browser over the generation ledger.
package history

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/promptledger/promptledger/internal/db"
	"github.com/promptledger/promptledger/internal/logger"
	"github.com/promptledger/promptledger/internal/models"
	"github.com/promptledger/promptledger/internal/ui/styles"
)

// keyMap defines the key bindings for the history browser.
type keyMap struct {
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
	Quit    key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// generationsLoadedMsg is sent when ledger data is loaded.
type generationsLoadedMsg struct {
	stats       *models.LedgerStats
	generations []models.Generation
}

// loadErrorMsg is sent when loading the ledger fails.
type loadErrorMsg struct {
	err string
}

// ledgerChangedMsg is sent when the store file changes on disk.
type ledgerChangedMsg struct{}

// Model represents the history browser state.
type Model struct {
	database *db.DB
	watcher  *watcher
	stats    *models.LedgerStats

	generations []models.Generation
	errorMsg    string

	keys     keyMap
	viewport viewport.Model
	spinner  spinner.Model

	limit   int
	width   int
	height  int
	loading bool
}

// New creates a new history browser over an open store.
func New(database *db.DB, limit int) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	m := &Model{
		database: database,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		spinner:  sp,
		limit:    limit,
		loading:  true,
	}

	w, err := newWatcher(database.Path())
	if err != nil {
		// Live refresh is best effort; manual refresh still works
		logger.Warn("ledger watch unavailable", "error", err)
	} else {
		m.watcher = w
	}

	return m
}

// Init initializes the history browser.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.loadCmd()}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.waitForChange())
	}
	return tea.Batch(cmds...)
}

// loadCmd creates a command to load ledger data.
func (m *Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		generations, err := m.database.GetRecentGenerations(m.limit)
		if err != nil {
			return loadErrorMsg{err: err.Error()}
		}

		stats, err := m.database.GetLedgerStats()
		if err != nil {
			return loadErrorMsg{err: err.Error()}
		}

		return generationsLoadedMsg{generations: generations, stats: stats}
	}
}

// Update handles messages for the history browser.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case generationsLoadedMsg:
		m.generations = msg.generations
		m.stats = msg.stats
		m.loading = false
		m.errorMsg = ""

	case loadErrorMsg:
		m.loading = false
		m.errorMsg = msg.err

	case ledgerChangedMsg:
		// Another process appended records; reload and re-arm the watch
		cmds = append(cmds, m.loadCmd())
		if m.watcher != nil {
			cmds = append(cmds, m.watcher.waitForChange())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 4

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.close()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			cmds = append(cmds, m.spinner.Tick, m.loadCmd())

		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) close() {
	if m.watcher != nil {
		m.watcher.close()
	}
}
