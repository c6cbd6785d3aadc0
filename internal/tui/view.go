package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/litescript/prowlarr-tui/internal/config"
	"github.com/litescript/prowlarr-tui/internal/logging"
	"github.com/litescript/prowlarr-tui/internal/prowlarr"
	"github.com/litescript/prowlarr-tui/internal/results"
	"github.com/litescript/prowlarr-tui/internal/version"
)

// View renders the current screen
func (m Model) View() string {
	styles := GetStyles()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.state {
	case stateConnecting:
		b.WriteString(m.spinner.View() + " " + m.busyText + "\n")
	case stateSetup:
		b.WriteString(m.renderSetup())
	case stateMainMenu:
		b.WriteString(m.renderMainMenu())
	case stateCategorySelect:
		b.WriteString(styles.Title.Render("Select category") + "\n\n")
		labels := make([]string, len(m.categories))
		for i, c := range m.categories {
			labels[i] = c.Label
		}
		b.WriteString(renderMenu(labels, m.catCursor))
	case stateQueryInput:
		b.WriteString(styles.Title.Render("Search "+m.category.Label) + "\n\n")
		b.WriteString(styles.Prompt.Render("> ") + m.queryInput.View() + "\n")
	case stateResults:
		b.WriteString(m.renderResults())
	case stateDetail:
		b.WriteString(m.renderDetail())
	case stateSettingsMenu:
		b.WriteString(m.renderSettingsMenu())
	case stateSettingsForm:
		b.WriteString(styles.Title.Render("Settings: "+m.section.Title()) + "\n\n")
		b.WriteString(m.renderFields(m.formFields(), ""))
	case stateStatus:
		b.WriteString(m.renderStatus())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	base := b.String()
	switch {
	case m.confirmingQuit:
		return m.overlayModal(base, m.renderQuitModal())
	case m.confirmAction != nil:
		return m.overlayModal(base, m.renderConfirmModal())
	}
	return base
}

func (m Model) renderHeader() string {
	styles := GetStyles()

	title := styles.Header.Render("Prowlarr TUI") + styles.Muted.Render("v"+version.Version)

	indicators := []string{indicator("Prowlarr", m.session.Connected)}
	if m.session.Connected {
		indicators = append(indicators, indicator("Download client", m.session.DownloadClient != nil))
	}
	if m.session.External != nil {
		indicators = append(indicators, indicator("qBittorrent", m.session.ExternalErr == nil))
	}
	return spread(title, strings.Join(indicators, "  "), m.width)
}

func (m Model) renderMainMenu() string {
	styles := GetStyles()
	labels := make([]string, len(mainMenu))
	for i, item := range mainMenu {
		labels[i] = item.label
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("Main menu") + "\n\n")
	b.WriteString(renderMenu(labels, m.menuCursor))
	return b.String()
}

func (m Model) renderSetup() string {
	styles := GetStyles()

	var b strings.Builder
	b.WriteString(styles.Title.Render("Setup") + "\n")
	b.WriteString(styles.Muted.Render("Connect to your Prowlarr server. The API key is under Settings > General.") + "\n\n")
	b.WriteString(m.renderFields(m.formFields(), saveAndConnect))
	if m.deps.ConfigPath != "" {
		b.WriteString("\n" + styles.Muted.Render("Saved to "+m.deps.ConfigPath) + "\n")
	}
	return b.String()
}

// renderFields renders a settings form. extra adds a trailing action row.
func (m Model) renderFields(fields []config.Field, extra string) string {
	styles := GetStyles()

	labelWidth := 0
	for _, f := range fields {
		labelWidth = max(labelWidth, lipgloss.Width(f.Label))
	}

	var b strings.Builder
	for i, f := range fields {
		value := f.Display(&m.cfg)
		if m.editing && i == m.fieldCursor {
			value = m.fieldInput.View()
		}
		line := PadRight(f.Label, labelWidth) + "  " + value
		if i == m.fieldCursor {
			b.WriteString(styles.MenuSelected.Render("> " + line))
		} else {
			b.WriteString(styles.MenuItem.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if extra != "" {
		b.WriteString("\n")
		if m.fieldCursor == len(fields) {
			b.WriteString(styles.MenuSelected.Render("> " + extra))
		} else {
			b.WriteString(styles.Prompt.Render("  " + extra))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderSettingsMenu() string {
	styles := GetStyles()
	var labels []string
	for _, s := range config.Sections() {
		labels = append(labels, s.Title())
	}
	labels = append(labels, "Back")

	var b strings.Builder
	b.WriteString(styles.Title.Render("Settings") + "\n\n")
	b.WriteString(renderMenu(labels, m.sectionCursor))
	return b.String()
}

func (m Model) formatOptions() results.FormatOptions {
	return results.FormatOptions{
		ShowIcons:      m.cfg.Settings.ShowProtocolIcons,
		DateFormat:     m.cfg.Settings.DateFormat,
		MaxTitleLength: m.cfg.Settings.MaxTitleLength,
		Indexers:       m.session.Indexers,
		Now:            m.now(),
	}
}

// titleWidth fits the title column to the terminal for the current density.
func (m Model) titleWidth() int {
	w := m.cfg.Settings.MaxTitleLength
	if m.width == 0 {
		return w
	}
	overhead := 4
	switch m.cfg.Settings.DisplayDensity {
	case "normal":
		overhead += 32
	case "detailed":
		overhead += 62
	}
	return max(10, min(w, m.width-overhead))
}

func (m Model) renderResults() string {
	styles := GetStyles()
	per := m.perPage()
	page := m.cursor / per
	rows, start := m.view.Page(page, per)

	summary := fmt.Sprintf("%d results", m.view.Len())
	if m.view.Filtered() {
		summary = fmt.Sprintf("%d of %d results matching %q", m.view.Len(), len(m.view.Original()), m.view.Query())
	}
	summary += " · sorted: " + m.view.SortKey().Label()
	if pages := m.view.Pages(per); pages > 1 {
		summary += fmt.Sprintf(" · page %d/%d", page+1, pages)
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(m.category.Label+": "+m.queryInput.Value()) + "  ")
	b.WriteString(styles.Muted.Render(summary) + "\n\n")

	opts := m.formatOptions()
	width := m.titleWidth()
	lo, hi := window(len(rows), m.cursor-start, m.cfg.Settings.PageSize)
	if lo > 0 {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("  ↑ %d more", lo)) + "\n")
	}
	for i := lo; i < hi; i++ {
		r := rows[i]
		line := results.FormatRow(r, opts).Line(m.cfg.Settings.DisplayDensity, width)
		switch {
		case start+i == m.cursor:
			b.WriteString(styles.MenuSelected.Render("> " + line))
		case r.Protocol == prowlarr.ProtocolUsenet:
			b.WriteString(styles.Usenet.Render("  " + line))
		default:
			b.WriteString(styles.MenuItem.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if hi < len(rows) {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("  ↓ %d more", len(rows)-hi)) + "\n")
	}

	switch {
	case m.sorting:
		labels := make([]string, len(results.SortKeys))
		for i, k := range results.SortKeys {
			labels[i] = k.Label()
		}
		b.WriteString("\n" + styles.Panel.Render(styles.PanelTitle.Render("Sort by")+"\n"+renderMenu(labels, m.sortCursor)) + "\n")
	case m.filtering:
		b.WriteString("\n" + styles.Prompt.Render("Filter: ") + m.filterInput.View() + "\n")
	}
	return b.String()
}

func (m Model) renderDetail() string {
	styles := GetStyles()
	r := m.detail
	row := results.FormatRow(r, m.formatOptions())

	type field struct{ label, value string }
	fields := []field{
		{"Indexer", r.Indexer},
		{"Protocol", row.Icon + " " + string(r.Protocol)},
		{"Size", row.Size},
	}
	if r.IsTorrent() {
		fields = append(fields, field{"Seeders", row.Seeders}, field{"Leechers", row.Leechers})
	}
	fields = append(fields,
		field{"Published", row.Age},
		field{"Priority", strconv.Itoa(row.Priority)},
	)
	if detected := results.ParseRelease(r.Title).Summary(); detected != "" {
		fields = append(fields, field{"Detected", detected})
	}
	if len(r.Categories) > 0 {
		ids := make([]string, len(r.Categories))
		for i, id := range r.Categories {
			ids[i] = strconv.Itoa(id)
		}
		fields = append(fields, field{"Categories", strings.Join(ids, ", ")})
	}
	if r.InfoURL != "" {
		fields = append(fields, field{"Info", r.InfoURL})
	}

	var body strings.Builder
	body.WriteString(styles.PanelTitle.Render(r.Title) + "\n\n")
	for _, f := range fields {
		value := f.value
		switch f.label {
		case "Seeders":
			value = styles.Seeders.Render(value)
		case "Leechers":
			value = styles.Leechers.Render(value)
		case "Indexer":
			value = styles.Indexer.Render(value)
		}
		body.WriteString(styles.Muted.Render(PadRight(f.label, 11)) + value + "\n")
	}

	panel := styles.Panel
	if m.width > 4 {
		panel = panel.Width(m.width - 4)
	}

	labels := make([]string, len(m.detailActions))
	for i, a := range m.detailActions {
		labels[i] = a.Label
	}

	var b strings.Builder
	b.WriteString(panel.Render(strings.TrimRight(body.String(), "\n")) + "\n\n")
	b.WriteString(styles.Title.Render("Actions") + "\n")
	b.WriteString(renderMenu(labels, m.actionCursor))
	return b.String()
}

func (m Model) renderStatus() string {
	styles := GetStyles()
	s := m.session

	rows := [][2]string{
		{"Prowlarr", m.cfg.ServerURL},
	}
	if s.Connected {
		rows = append(rows, [2]string{"Version", strings.TrimSpace(orDefault(s.Status.AppName, "Prowlarr") + " " + s.Status.Version)})
		if s.Status.OSName != "" {
			rows = append(rows, [2]string{"OS", s.Status.OSName})
		}
	} else {
		rows = append(rows, [2]string{"Version", "not connected"})
	}

	enabled := 0
	for _, idx := range s.Indexers {
		if idx.Enable {
			enabled++
		}
	}
	rows = append(rows, [2]string{"Indexers", fmt.Sprintf("%d enabled of %d", enabled, len(s.Indexers))})

	dc := "none enabled"
	if s.DownloadClient != nil {
		dc = fmt.Sprintf("%s (%s)", s.DownloadClient.Name, s.DownloadClient.Protocol)
	}
	rows = append(rows, [2]string{"Download client", dc})

	qb := "not configured"
	switch {
	case s.External != nil && s.ExternalErr != nil:
		qb = s.External.BaseURL() + " unreachable: " + s.ExternalErr.Error()
	case s.External != nil:
		qb = "qBittorrent " + s.ExternalVersion + " at " + s.External.BaseURL()
	}
	rows = append(rows, [2]string{"Torrent client", qb})

	rows = append(rows, [2]string{"Config", orDefault(m.deps.ConfigPath, "(not saved)")})
	if logging.SessionID != "" {
		rows = append(rows, [2]string{"Log session", logging.SessionID[:8]})
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("Connection status") + "\n\n")
	for _, r := range rows {
		b.WriteString(styles.Muted.Render(PadRight(r[0], 16)) + r[1] + "\n")
	}
	b.WriteString("\n" + styles.Muted.Render("r reconnect · esc back") + "\n")
	return b.String()
}

func (m Model) renderStatusLine() string {
	styles := GetStyles()
	switch {
	case m.busy && m.state != stateConnecting:
		return m.spinner.View() + " " + m.busyText
	case m.statusMsg == "":
		return ""
	case m.statusErr:
		return styles.Error.Render(m.statusMsg)
	}
	return styles.StatusBar.Render(m.statusMsg)
}

func (m Model) renderHelp() string {
	var km help.KeyMap = listHelp{m.keys}
	switch m.state {
	case stateMainMenu:
		km = mainHelp{m.keys}
	case stateResults:
		km = resultsHelp{m.keys}
	}
	return m.help.View(km)
}

// overlayModal renders a modal over the base content with the base still visible
func (m Model) overlayModal(base, modal string) string {
	if m.width == 0 || m.height == 0 {
		return modal
	}

	baseLines := strings.Split(base, "\n")
	modalLines := strings.Split(modal, "\n")

	topOffset := 3
	leftOffset := max(0, (m.width-lipgloss.Width(modal))/2)
	padding := strings.Repeat(" ", leftOffset)

	for i, line := range modalLines {
		idx := topOffset + i
		for len(baseLines) <= idx {
			baseLines = append(baseLines, "")
		}
		baseLines[idx] = padding + line
	}
	return strings.Join(baseLines, "\n")
}

func (m Model) renderQuitModal() string {
	styles := GetStyles()
	content := styles.Title.Render("Quit?") + "\n\n" +
		styles.Muted.Render("Press ") + styles.HelpKey.Render("y") + styles.Muted.Render(" or ") +
		styles.HelpKey.Render("enter") + styles.Muted.Render(" to quit, any other key to cancel")
	return styles.Modal.Render(content)
}

func (m Model) renderConfirmModal() string {
	styles := GetStyles()
	content := styles.Warning.Render(m.confirmAction.Label+"?") + "\n\n" +
		TruncateString(m.detail.Title, 60) + "\n\n" +
		styles.Muted.Render("Press ") + styles.HelpKey.Render("y") + styles.Muted.Render(" to confirm, any other key to cancel")
	return styles.Modal.Render(content)
}
