package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/litescript/prowlarr-tui/internal/config"
	"github.com/litescript/prowlarr-tui/internal/logging"
)

const saveAndConnect = "Save and connect"

// formFields returns the fields edited on the current form. First-run
// setup edits the connection section.
func (m Model) formFields() []config.Field {
	if m.state == stateSetup {
		return config.Fields(config.SectionConnection)
	}
	return config.Fields(m.section)
}

func (m Model) handleSettingsMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sections := config.Sections()
	// the extra row is "Back"
	last := len(sections)

	switch {
	case key.Matches(msg, m.keys.Up):
		m.sectionCursor = max(0, m.sectionCursor-1)
	case key.Matches(msg, m.keys.Down):
		m.sectionCursor = min(last, m.sectionCursor+1)
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Home):
		m.state = stateMainMenu
	case key.Matches(msg, m.keys.Select):
		if m.sectionCursor == last {
			m.state = stateMainMenu
			return m, handled()
		}
		m.section = sections[m.sectionCursor]
		m.fieldCursor = 0
		m.state = stateSettingsForm
		m.clearStatus()
	}
	return m, handled()
}

func (m Model) handleSettingsFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.handleFieldEdit(msg)
	}

	fields := m.formFields()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.fieldCursor = max(0, m.fieldCursor-1)
	case key.Matches(msg, m.keys.Down):
		m.fieldCursor = min(len(fields)-1, m.fieldCursor+1)
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.state = stateSettingsMenu
		m.clearStatus()
	case key.Matches(msg, m.keys.Home):
		m.resetToMain()
	case key.Matches(msg, m.keys.Select):
		f := fields[m.fieldCursor]
		if f.Cycle(&m.cfg) {
			return m.fieldChanged(f)
		}
		return m.startEditing(f)
	}
	return m, handled()
}

func (m Model) handleSetupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.handleFieldEdit(msg)
	}

	fields := m.formFields()
	last := len(fields)

	switch {
	case key.Matches(msg, m.keys.Up):
		m.fieldCursor = max(0, m.fieldCursor-1)
	case key.Matches(msg, m.keys.Down):
		m.fieldCursor = min(last, m.fieldCursor+1)
	case key.Matches(msg, m.keys.Select):
		if m.fieldCursor < last {
			return m.startEditing(fields[m.fieldCursor])
		}
		if !m.cfg.HasCredentials() {
			m.setError("A Prowlarr URL and API key are required")
			return m, handled()
		}
		if !m.saveConfig() {
			return m, handled()
		}
		m.busyText = "Connecting to " + m.cfg.ServerURL + "..."
		cmd := m.connect(false)
		return m, tea.Batch(cmd, m.spinner.Tick)
	}
	return m, handled()
}

func (m Model) startEditing(f config.Field) (tea.Model, tea.Cmd) {
	m.editing = true
	m.fieldInput.SetValue(f.Get(&m.cfg))
	m.fieldInput.Placeholder = f.Label
	m.fieldInput.EchoMode = textinput.EchoNormal
	if f.Kind == config.KindSecret {
		m.fieldInput.EchoMode = textinput.EchoPassword
	}
	m.fieldInput.CursorEnd()
	m.fieldInput.Focus()
	m.clearStatus()
	return m, textinput.Blink
}

func (m Model) handleFieldEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.fieldInput.Blur()
		return m, handled()

	case "enter":
		f := m.formFields()[m.fieldCursor]
		if err := f.Set(&m.cfg, m.fieldInput.Value()); err != nil {
			m.setError("%v", err)
			return m, handled()
		}
		m.editing = false
		m.fieldInput.Blur()
		if m.state == stateSetup {
			// written on "Save and connect"
			return m, handled()
		}
		return m.fieldChanged(f)
	}

	var cmd tea.Cmd
	m.fieldInput, cmd = m.fieldInput.Update(msg)
	return m, cmd
}

// fieldChanged persists the config and applies the section's side effects.
func (m Model) fieldChanged(f config.Field) (tea.Model, tea.Cmd) {
	logging.Debug("setting changed", "section", string(m.section), "key", f.Key)
	m.clearStatus()
	saved := m.saveConfig()

	switch m.section {
	case config.SectionTheme:
		m.applyTheme()
	case config.SectionKeyboard:
		m.keys = NewKeyMap(m.cfg.Settings.VimKeys)
	case config.SectionPerformance:
		m.session.Gateway = m.deps.NewGateway(m.cfg)
		if m.deps.NewExternal != nil && m.session.External != nil {
			m.session.External = m.deps.NewExternal(m.cfg)
		}
	case config.SectionConnection:
		if m.cfg.HasCredentials() {
			m.busyText = "Reconnecting..."
			cmd := m.connect(false)
			return m, tea.Batch(cmd, m.spinner.Tick)
		}
	}

	if saved && !m.statusErr {
		m.setStatus("%s: %s", f.Label, f.Display(&m.cfg))
	}
	return m, handled()
}

// saveConfig writes the config file, reporting failures on the status line.
func (m *Model) saveConfig() bool {
	if m.deps.ConfigPath == "" {
		return true
	}
	if err := config.Save(m.deps.ConfigPath, m.cfg); err != nil {
		logging.Error("save config failed", "err", err)
		m.setError("Could not save settings: %v", err)
		return false
	}
	return true
}
