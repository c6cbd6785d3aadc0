package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/litescript/prowlarr-tui/internal/actions"
	"github.com/litescript/prowlarr-tui/internal/logging"
	"github.com/litescript/prowlarr-tui/internal/prowlarr"
	"github.com/litescript/prowlarr-tui/internal/results"
)

func (m Model) enterCategorySelect() (tea.Model, tea.Cmd) {
	m.categories = prowlarr.MenuCategories(m.cfg.Settings.ShowAdultContent)
	m.catCursor = 0
	for i, c := range m.categories {
		if c.Key == m.cfg.Settings.DefaultCategory {
			m.catCursor = i
			break
		}
	}
	m.state = stateCategorySelect
	return m, handled()
}

func (m Model) handleCategoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.catCursor = max(0, m.catCursor-1)
	case key.Matches(msg, m.keys.Down):
		m.catCursor = min(len(m.categories)-1, m.catCursor+1)
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.state = stateMainMenu
	case key.Matches(msg, m.keys.Select):
		if len(m.categories) == 0 {
			return m, handled()
		}
		m.category = m.categories[m.catCursor]
		m.state = stateQueryInput
		m.clearStatus()
		m.queryInput.Focus()
		return m, textinput.Blink
	}
	return m, handled()
}

func (m Model) handleQueryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.queryInput.Blur()
		m.state = stateCategorySelect
		return m, handled()

	case "enter":
		query := strings.TrimSpace(m.queryInput.Value())
		if query == "" {
			m.setError("Enter a search term")
			return m, handled()
		}
		m.queryInput.Blur()
		m.clearStatus()
		m.busyText = "Searching " + m.category.Label + " for \"" + query + "\"..."
		cmd := m.search(query, m.category)
		return m, tea.Batch(cmd, m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.queryInput, cmd = m.queryInput.Update(msg)
	return m, cmd
}

func (m Model) handleSearchResult(msg searchResultMsg) (tea.Model, tea.Cmd) {
	if !m.endOp(msg.seq) {
		return m, nil
	}

	if msg.indexers != nil {
		m.session.Indexers = msg.indexers
		m.session.IndexersLoaded = m.now()
	}

	if msg.err != nil {
		logging.Warn("search failed", "query", m.queryInput.Value(), "err", msg.err)
		m.setError("%s", searchErrorText(msg.err))
		m.state = stateCategorySelect
		return m, nil
	}

	rs := msg.results
	if !m.cfg.Settings.ShowAdultContent {
		rs = prowlarr.WithoutAdult(rs)
	}
	if len(rs) == 0 {
		m.setStatus("No results found")
		m.state = stateQueryInput
		m.queryInput.Focus()
		return m, textinput.Blink
	}

	m.view = results.NewView(rs)
	if k, err := results.ParseSortKey(m.cfg.Settings.DefaultSortOrder); err == nil {
		m.view.Sort(k, m.session.Indexers)
	}
	m.cursor = 0
	m.stack.clear()
	m.state = stateResults
	m.setStatus("Found %d results", len(rs))
	logging.Info("search done", "query", m.queryInput.Value(), "results", len(rs))
	return m, nil
}

func (m Model) perPage() int {
	return max(1, m.cfg.Settings.ResultsPerPage)
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sorting {
		return m.handleSortPickerKey(msg)
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	per := m.perPage()
	last := m.view.Len() - 1

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(0, m.cursor-1)
	case key.Matches(msg, m.keys.Down):
		m.cursor = max(0, min(last, m.cursor+1))
	case key.Matches(msg, m.keys.NextPage):
		if next := (m.cursor/per + 1) * per; next <= last {
			m.cursor = next
		}
	case key.Matches(msg, m.keys.PrevPage):
		if page := m.cursor / per; page > 0 {
			m.cursor = (page - 1) * per
		} else {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Select):
		return m.openDetail()
	case key.Matches(msg, m.keys.Sort):
		m.sorting = true
		m.sortCursor = 0
		for i, k := range results.SortKeys {
			if k == m.view.SortKey() {
				m.sortCursor = i
			}
		}
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filterInput.SetValue(m.view.Query())
		m.filterInput.CursorEnd()
		m.filterInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.ShowAll):
		m.view.ShowAll()
		m.cursor = 0
		m.setStatus("Showing all %d results", m.view.Len())
	case key.Matches(msg, m.keys.Home), key.Matches(msg, m.keys.Quit):
		m.resetToMain()
	case key.Matches(msg, m.keys.Back):
		m.state = stateQueryInput
		m.queryInput.Focus()
		return m, textinput.Blink
	}
	return m, handled()
}

func (m Model) handleSortPickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sortCursor = max(0, m.sortCursor-1)
	case key.Matches(msg, m.keys.Down):
		m.sortCursor = min(len(results.SortKeys)-1, m.sortCursor+1)
	case key.Matches(msg, m.keys.Select):
		k := results.SortKeys[m.sortCursor]
		m.view.Sort(k, m.session.Indexers)
		m.cursor = 0
		m.sorting = false
		m.setStatus("Sorted by %s", k.Label())
	case key.Matches(msg, m.keys.Back), msg.String() == "s":
		m.sorting = false
	}
	return m, handled()
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		return m, handled()

	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		q := strings.TrimSpace(m.filterInput.Value())
		if q == "" {
			m.view.ShowAll()
			m.cursor = 0
			m.setStatus("Showing all %d results", m.view.Len())
			return m, handled()
		}
		if n := m.view.Filter(q); n == 0 {
			m.setError("No results match %q", q)
		} else {
			m.cursor = 0
			m.setStatus("%d of %d results match %q", n, len(m.view.Original()), q)
		}
		return m, handled()
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

// openDetail pushes the results screen and shows the selected result.
func (m Model) openDetail() (tea.Model, tea.Cmd) {
	r, ok := m.view.At(m.cursor)
	if !ok {
		return m, handled()
	}
	m.stack.push(snapshot{view: m.view, cursor: m.cursor})
	m.detail = r
	m.detailActions = actions.Available(r, m.capabilities())
	m.actionCursor = 0
	m.state = stateDetail
	m.clearStatus()
	return m, handled()
}

// popToResults restores the results screen saved by openDetail.
func (m *Model) popToResults() {
	if snap, ok := m.stack.pop(); ok {
		m.view = snap.view
		m.cursor = snap.cursor
	}
	m.state = stateResults
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.actionCursor = max(0, m.actionCursor-1)
	case key.Matches(msg, m.keys.Down):
		m.actionCursor = min(len(m.detailActions)-1, m.actionCursor+1)
	case key.Matches(msg, m.keys.Back):
		m.popToResults()
	case key.Matches(msg, m.keys.Home):
		m.resetToMain()
	case key.Matches(msg, m.keys.Select):
		if len(m.detailActions) == 0 {
			return m, handled()
		}
		a := m.detailActions[m.actionCursor]
		switch {
		case a.Kind.Navigational():
			if a.Kind == actions.BackToMain {
				m.resetToMain()
			} else {
				m.popToResults()
			}
		case a.Kind.Transfers() && m.cfg.Settings.ConfirmDownloads:
			m.confirmAction = &a
		default:
			return m.startAction(a.Kind)
		}
	}
	return m, handled()
}

func (m Model) startAction(kind actions.Kind) (tea.Model, tea.Cmd) {
	m.busyText = kind.String() + "..."
	cmd := m.runAction(kind, m.detail)
	return m, tea.Batch(cmd, m.spinner.Tick)
}
