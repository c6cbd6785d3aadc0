// Package tui implements the terminal user interface using Bubble Tea.
// The model is an explicit state machine: main menu, category select,
// query input, results list and item detail, plus the settings branch.
// It drives the Prowlarr gateway, the result pipeline and the action
// dispatcher, one operation at a time.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/litescript/prowlarr-tui/internal/actions"
	"github.com/litescript/prowlarr-tui/internal/config"
	"github.com/litescript/prowlarr-tui/internal/logging"
	"github.com/litescript/prowlarr-tui/internal/prowlarr"
	"github.com/litescript/prowlarr-tui/internal/results"
	"github.com/litescript/prowlarr-tui/internal/theme"
	"github.com/litescript/prowlarr-tui/internal/version"
)

// mainMenuItem is an entry of the main menu.
type mainMenuItem int

const (
	menuSearch mainMenuItem = iota
	menuSettings
	menuStatus
	menuUpdate
	menuExit
)

var mainMenu = []struct {
	item  mainMenuItem
	label string
}{
	{menuSearch, "Search"},
	{menuSettings, "Settings"},
	{menuStatus, "Connection status"},
	{menuUpdate, "Check for updates"},
	{menuExit, "Exit"},
}

// Model is the main application state
type Model struct {
	cfg     config.Config
	deps    Deps
	session Session

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	state state
	stack navStack

	// Menus
	menuCursor int
	categories []prowlarr.Category
	catCursor  int
	category   prowlarr.Category

	// Search and results
	queryInput  textinput.Model
	filterInput textinput.Model
	filtering   bool
	sorting     bool
	sortCursor  int
	view        results.View
	cursor      int

	// Detail
	detail        prowlarr.SearchResult
	detailActions []actions.Action
	actionCursor  int
	confirmAction *actions.Action

	// Settings and first-run setup
	sectionCursor int
	section       config.Section
	fieldCursor   int
	editing       bool
	fieldInput    textinput.Model

	confirmingQuit bool

	statusMsg string
	statusErr bool

	busy     bool
	busyText string
	opSeq    int
	cancel   context.CancelFunc
	initCmd  tea.Cmd

	fatal error

	width  int
	height int
}

// New creates the initial model. cfgErr is a load warning to show.
func New(cfg config.Config, deps Deps, cfgErr error) Model {
	qi := textinput.New()
	qi.Placeholder = "Search query..."
	qi.CharLimit = 256
	qi.Width = 50

	fi := textinput.New()
	fi.Placeholder = "Filter titles..."
	fi.CharLimit = 128
	fi.Width = 40

	ei := textinput.New()
	ei.CharLimit = 512
	ei.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Current.Prompt

	h := help.New()
	h.Styles.ShortKey = theme.Current.HelpKey
	h.Styles.ShortDesc = theme.Current.HelpDesc
	h.Styles.ShortSeparator = theme.Current.Muted

	m := Model{
		cfg:         cfg,
		deps:        deps,
		keys:        NewKeyMap(cfg.Settings.VimKeys),
		help:        h,
		spinner:     sp,
		queryInput:  qi,
		filterInput: fi,
		fieldInput:  ei,
		state:       stateConnecting,
		section:     config.SectionConnection,
	}

	if cfgErr != nil {
		m.setError("Config warning: %v (using defaults)", cfgErr)
	}
	if !cfg.HasCredentials() {
		m.state = stateSetup
		if cfgErr == nil {
			m.setStatus("Enter your Prowlarr URL and API key to get started")
		}
		return m
	}

	// Init cannot change the model, so the startup check is prepared here.
	m.busyText = "Connecting to " + cfg.ServerURL + "..."
	m.initCmd = m.connect(true)
	return m
}

// Init starts the connection check, or waits for the setup form.
func (m Model) Init() tea.Cmd {
	if m.initCmd == nil {
		return nil
	}
	return tea.Batch(m.initCmd, m.spinner.Tick)
}

// Fatal returns the error that ended the program, if any.
func (m Model) Fatal() error {
	return m.fatal
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.queryInput.Width = min(60, max(10, msg.Width-20))
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case connectedMsg:
		return m.handleConnected(msg)

	case searchResultMsg:
		return m.handleSearchResult(msg)

	case actionDoneMsg:
		return m.handleActionDone(msg)

	case updateCheckMsg:
		if !m.endOp(msg.seq) {
			return m, nil
		}
		switch {
		case msg.err != nil:
			m.setError("Update check failed: %v", msg.err)
		case msg.info.UpdateAvailable:
			m.setStatus("Update available: v%s -> v%s (run: %s)",
				msg.info.CurrentVersion, msg.info.LatestVersion, version.InstallCommand())
		default:
			m.setStatus("You're on the latest version (v%s)", msg.info.CurrentVersion)
		}
		return m, nil

	case themeChangedMsg:
		if m.cfg.Theme.Preset == "terminal" {
			m.applyTheme()
		}
		return m, nil
	}

	// Cursor blink and other input internals
	var cmd tea.Cmd
	switch {
	case m.editing:
		m.fieldInput, cmd = m.fieldInput.Update(msg)
	case m.filtering:
		m.filterInput, cmd = m.filterInput.Update(msg)
	case m.state == stateQueryInput:
		m.queryInput, cmd = m.queryInput.Update(msg)
	}
	return m, cmd
}

// handled returns a no-op command to signal the key was handled
func handled() tea.Cmd {
	return func() tea.Msg { return nil }
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		return m.interrupt()
	}

	// One operation at a time
	if m.busy {
		return m, handled()
	}

	if m.confirmingQuit {
		switch msg.String() {
		case "y", "enter", "q":
			return m, tea.Quit
		}
		m.confirmingQuit = false
		return m, handled()
	}

	if m.confirmAction != nil {
		a := *m.confirmAction
		m.confirmAction = nil
		switch msg.String() {
		case "y", "enter":
			return m.startAction(a.Kind)
		}
		m.setStatus("Cancelled")
		return m, handled()
	}

	switch m.state {
	case stateSetup:
		return m.handleSetupKey(msg)
	case stateMainMenu:
		return m.handleMainMenuKey(msg)
	case stateCategorySelect:
		return m.handleCategoryKey(msg)
	case stateQueryInput:
		return m.handleQueryKey(msg)
	case stateResults:
		return m.handleResultsKey(msg)
	case stateDetail:
		return m.handleDetailKey(msg)
	case stateSettingsMenu:
		return m.handleSettingsMenuKey(msg)
	case stateSettingsForm:
		return m.handleSettingsFormKey(msg)
	case stateStatus:
		return m.handleStatusKey(msg)
	}
	return m, handled()
}

// interrupt handles ctrl+c: cancel what is running and go back to the
// main menu, or quit when already there.
func (m Model) interrupt() (tea.Model, tea.Cmd) {
	wasBusy := m.busy
	m.abortOp()

	switch m.state {
	case stateMainMenu, stateConnecting, stateSetup:
		return m, tea.Quit
	}

	m.resetToMain()
	if wasBusy {
		m.setStatus("Cancelled")
	} else {
		m.clearStatus()
	}
	return m, handled()
}

// resetToMain returns to the main menu, dropping the navigation stack and
// any open prompt. Settings and session are kept.
func (m *Model) resetToMain() {
	m.stack.clear()
	m.state = stateMainMenu
	m.sorting = false
	m.filtering = false
	m.editing = false
	m.confirmAction = nil
	m.confirmingQuit = false
	m.queryInput.Blur()
	m.filterInput.Blur()
	m.fieldInput.Blur()
}

func (m Model) handleMainMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.menuCursor = max(0, m.menuCursor-1)
	case key.Matches(msg, m.keys.Down):
		m.menuCursor = min(len(mainMenu)-1, m.menuCursor+1)
	case key.Matches(msg, m.keys.Quit):
		return m.exit()
	case key.Matches(msg, m.keys.Select):
		m.clearStatus()
		switch mainMenu[m.menuCursor].item {
		case menuSearch:
			return m.enterCategorySelect()
		case menuSettings:
			m.state = stateSettingsMenu
			m.sectionCursor = 0
		case menuStatus:
			m.state = stateStatus
		case menuUpdate:
			m.busyText = "Checking for updates..."
			cmd := m.checkUpdate()
			return m, tea.Batch(cmd, m.spinner.Tick)
		case menuExit:
			return m.exit()
		}
	}
	return m, handled()
}

func (m Model) exit() (tea.Model, tea.Cmd) {
	if m.cfg.Settings.ConfirmExit {
		m.confirmingQuit = true
		return m, handled()
	}
	return m, tea.Quit
}

func (m Model) handleStatusKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		m.busyText = "Reconnecting..."
		cmd := m.connect(false)
		return m, tea.Batch(cmd, m.spinner.Tick)
	case "esc", "enter", "backspace", "q":
		m.state = stateMainMenu
	}
	return m, handled()
}

func (m Model) handleConnected(msg connectedMsg) (tea.Model, tea.Cmd) {
	if !m.endOp(msg.seq) {
		return m, nil
	}

	if msg.err != nil {
		logging.Error("connection failed", "err", msg.err)
		if msg.startup {
			m.fatal = msg.err
			return m, tea.Quit
		}
		m.session = msg.session
		m.setError("%v", msg.err)
		return m, nil
	}

	m.session = msg.session
	logging.Info("connected", "server", m.cfg.ServerURL, "version", m.session.Status.Version,
		"indexers", len(m.session.Indexers), "downloadClient", m.session.DownloadClient != nil)

	if m.state == stateConnecting || m.state == stateSetup {
		m.state = stateMainMenu
	}
	m.setStatus("Connected to %s %s (%d indexers)",
		orDefault(m.session.Status.AppName, "Prowlarr"), m.session.Status.Version, len(m.session.Indexers))
	return m, nil
}

func (m Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	if !m.endOp(msg.seq) {
		return m, nil
	}

	if msg.err != nil {
		logging.Warn("action failed", "action", msg.kind.String(), "err", msg.err)
		m.setError("%v", msg.err)
		return m, nil
	}

	logging.Info("action done", "action", msg.kind.String(), "title", m.detail.Title)
	if m.cfg.Settings.EnableNotifications {
		m.setStatus("%s", msg.text)
	} else {
		m.clearStatus()
	}
	if m.cfg.Settings.NotificationSound && m.deps.Bell != nil {
		bell := m.deps.Bell
		return m, func() tea.Msg { bell(); return nil }
	}
	return m, nil
}

func (m *Model) applyTheme() {
	if !theme.Apply(m.cfg.Theme) {
		m.setError("Some theme colors are invalid; using defaults for those roles")
	}
	m.spinner.Style = theme.Current.Prompt
	m.help.Styles.ShortKey = theme.Current.HelpKey
	m.help.Styles.ShortDesc = theme.Current.HelpDesc
	m.help.Styles.ShortSeparator = theme.Current.Muted
}

func (m *Model) setStatus(format string, args ...any) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(format string, args ...any) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusErr = true
}

func (m *Model) clearStatus() {
	m.statusMsg = ""
	m.statusErr = false
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// searchErrorText turns a failed search into the status message.
func searchErrorText(err error) string {
	var gwErr *prowlarr.GatewayError
	switch {
	case prowlarr.IsBadRequest(err):
		return "Invalid search parameters: " + gwErrMessage(err)
	case errors.Is(err, context.DeadlineExceeded):
		return "Search timed out"
	case errors.As(err, &gwErr):
		return "Search failed: " + gwErrMessage(err)
	}
	return fmt.Sprintf("Search failed: %v", err)
}

func gwErrMessage(err error) string {
	var gwErr *prowlarr.GatewayError
	if errors.As(err, &gwErr) {
		if gwErr.Status != 0 {
			return fmt.Sprintf("%s (HTTP %d)", gwErr.Message, gwErr.Status)
		}
		return gwErr.Message
	}
	return err.Error()
}
