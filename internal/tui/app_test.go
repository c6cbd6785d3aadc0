package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/litescript/prowlarr-tui/internal/actions"
	"github.com/litescript/prowlarr-tui/internal/config"
	"github.com/litescript/prowlarr-tui/internal/prowlarr"
	"github.com/litescript/prowlarr-tui/internal/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	statusErr error
	indexers  []prowlarr.Indexer
	clients   []prowlarr.DownloadClient
	results   []prowlarr.SearchResult
	searchErr error
	sendErr   error

	searches []prowlarr.SearchRequest
	sent     []prowlarr.ReleasePayload
	listed   int
}

func (g *fakeGateway) CheckStatus(ctx context.Context) (prowlarr.SystemStatus, error) {
	if g.statusErr != nil {
		return prowlarr.SystemStatus{}, g.statusErr
	}
	return prowlarr.SystemStatus{AppName: "Prowlarr", Version: "1.24.3"}, nil
}

func (g *fakeGateway) ListIndexers(ctx context.Context) ([]prowlarr.Indexer, error) {
	g.listed++
	return g.indexers, nil
}

func (g *fakeGateway) ListDownloadClients(ctx context.Context) ([]prowlarr.DownloadClient, error) {
	return g.clients, nil
}

func (g *fakeGateway) Search(ctx context.Context, req prowlarr.SearchRequest) ([]prowlarr.SearchResult, error) {
	g.searches = append(g.searches, req)
	return g.results, g.searchErr
}

func (g *fakeGateway) SendToDownloadClient(ctx context.Context, p prowlarr.ReleasePayload) error {
	g.sent = append(g.sent, p)
	return g.sendErr
}

type fakeExternal struct {
	added []string
}

func (e *fakeExternal) AddURLs(ctx context.Context, urls ...string) error {
	e.added = append(e.added, urls...)
	return nil
}

func (e *fakeExternal) GetVersion(ctx context.Context) (string, error) {
	return "v4.6.2", nil
}

func (e *fakeExternal) BaseURL() string { return "http://qbit:8080" }

func intp(n int) *int       { return &n }
func int64p(n int64) *int64 { return &n }

func sampleResults() []prowlarr.SearchResult {
	return []prowlarr.SearchResult{
		{GUID: "a", Title: "Ubuntu 22.04 Desktop", Indexer: "Alpha", IndexerID: 1, Protocol: prowlarr.ProtocolTorrent,
			Seeders: intp(10), Leechers: intp(2), Size: int64p(4 << 30),
			MagnetURL: "magnet:?xt=urn:btih:aaa", DownloadURL: "http://prowlarr/dl/a"},
		{GUID: "b", Title: "Ubuntu 24.04 Server", Indexer: "Beta", IndexerID: 2, Protocol: prowlarr.ProtocolTorrent,
			Seeders: intp(50), Leechers: intp(5), Size: int64p(2 << 30)},
		{GUID: "c", Title: "Debian 12", Indexer: "Alpha", IndexerID: 1, Protocol: prowlarr.ProtocolUsenet,
			Size: int64p(1 << 30)},
	}
}

type harness struct {
	gw       *fakeGateway
	external *fakeExternal
	copied   string
	deps     Deps
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		gw: &fakeGateway{
			indexers: []prowlarr.Indexer{{ID: 1, Name: "Alpha", Enable: true, Priority: 25}, {ID: 2, Name: "Beta", Enable: true, Priority: 10}, {ID: 3, Name: "Off"}},
			clients:  []prowlarr.DownloadClient{{ID: 7, Name: "qBit", Enable: true, Protocol: "torrent"}},
			results:  sampleResults(),
		},
		external: &fakeExternal{},
	}
	h.deps = Deps{
		ConfigPath:  filepath.Join(t.TempDir(), "config.json"),
		NewGateway:  func(config.Config) Gateway { return h.gw },
		NewExternal: func(config.Config) ExternalClient { return h.external },
		Clipboard:   func(s string) error { h.copied = s; return nil },
		Now:         func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
	return h
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.ServerURL = "http://prowlarr:9696"
	cfg.APIKey = "secret"
	return cfg
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// settle feeds the replies of cmd back into the model until it is idle.
// It reports whether the program asked to quit.
func settle(t *testing.T, m Model, cmd tea.Cmd) (Model, bool) {
	t.Helper()
	quit := false
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case tea.QuitMsg:
			quit = true
		case connectedMsg, searchResultMsg, actionDoneMsg, updateCheckMsg:
			next, c := m.Update(msg)
			m = next.(Model)
			var q bool
			m, q = settle(t, m, c)
			quit = quit || q
		}
	}
	return m, quit
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, bool) {
	t.Helper()
	quit := false
	for _, k := range keys {
		next, cmd := m.Update(k)
		var q bool
		m, q = settle(t, next.(Model), cmd)
		quit = quit || q
	}
	return m, quit
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	ctrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func started(t *testing.T, h *harness, cfg config.Config) Model {
	t.Helper()
	m := New(cfg, h.deps, nil)
	m, quit := settle(t, m, m.Init())
	require.False(t, quit)
	require.Equal(t, stateMainMenu, m.state)
	return m
}

// searchFor drives main menu -> category -> query -> results.
func searchFor(t *testing.T, m Model, query string) Model {
	t.Helper()
	m, _ = press(t, m, enter) // Search
	require.Equal(t, stateCategorySelect, m.state)
	m, _ = press(t, m, enter) // default category
	require.Equal(t, stateQueryInput, m.state)
	m.queryInput.SetValue(query)
	m, _ = press(t, m, enter)
	return m
}

func TestStartupConnects(t *testing.T) {
	h := newHarness(t)
	m := started(t, h, testConfig())

	assert.True(t, m.session.Connected)
	assert.Len(t, m.session.Indexers, 3)
	require.NotNil(t, m.session.DownloadClient)
	assert.Equal(t, 7, m.session.DownloadClient.ID)
	assert.Equal(t, "v4.6.2", m.session.ExternalVersion)
	assert.Contains(t, m.statusMsg, "Connected to Prowlarr 1.24.3")
	assert.Contains(t, m.View(), "Main menu")
}

func TestStartupFailureIsFatal(t *testing.T) {
	h := newHarness(t)
	h.gw.statusErr = errors.New("connection refused")

	m := New(testConfig(), h.deps, nil)
	m, quit := settle(t, m, m.Init())

	assert.True(t, quit)
	var connErr *ConnectionError
	require.ErrorAs(t, m.Fatal(), &connErr)
	assert.Equal(t, "http://prowlarr:9696", connErr.URL)
}

func TestSetupWithoutCredentials(t *testing.T) {
	h := newHarness(t)
	cfg := config.Default()

	m := New(cfg, h.deps, nil)
	assert.Nil(t, m.Init())
	assert.Equal(t, stateSetup, m.state)

	// API key is the second field
	m, _ = press(t, m, down, enter)
	require.True(t, m.editing)
	m.fieldInput.SetValue("abc123")
	m, _ = press(t, m, enter)
	assert.Equal(t, "abc123", m.cfg.APIKey)

	m, _ = press(t, m, down, down, enter) // Save and connect
	assert.Equal(t, stateMainMenu, m.state)

	saved, err := config.Load(h.deps.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "abc123", saved.APIKey)
}

func TestSetupConnectFailureStaysInSetup(t *testing.T) {
	h := newHarness(t)
	h.gw.statusErr = errors.New("401 Unauthorized")

	m := New(config.Default(), h.deps, nil)
	require.Equal(t, stateSetup, m.state)

	m, _ = press(t, m, down, enter)
	require.True(t, m.editing)
	m.fieldInput.SetValue("wrong")
	m, _ = press(t, m, enter)
	require.Equal(t, "wrong", m.cfg.APIKey)

	m, quit := press(t, m, down, down, enter) // Save and connect
	assert.False(t, quit)
	assert.Equal(t, stateSetup, m.state)
	assert.True(t, m.statusErr)
	assert.False(t, m.busy)
	assert.Nil(t, m.Fatal())
}

func TestSearchShowsSortedResults(t *testing.T) {
	h := newHarness(t)
	m := started(t, h, testConfig())

	m = searchFor(t, m, "ubuntu")
	require.Equal(t, stateResults, m.state)
	require.Len(t, h.gw.searches, 1)
	assert.Equal(t, "ubuntu", h.gw.searches[0].Query)
	assert.Equal(t, []int{1, 2}, h.gw.searches[0].IndexerIDs)
	assert.Nil(t, h.gw.searches[0].Categories)

	assert.Equal(t, results.SortSeedersDesc, m.view.SortKey())
	first, _ := m.view.At(0)
	assert.Equal(t, "b", first.GUID)
	assert.Equal(t, "Found 3 results", m.statusMsg)
	assert.Contains(t, m.View(), "Ubuntu 24.04 Server")
}

func TestSearchBadRequestReturnsToCategories(t *testing.T) {
	h := newHarness(t)
	h.gw.searchErr = &prowlarr.GatewayError{Op: "search", Status: 400, Message: "Query is too short"}
	m := started(t, h, testConfig())

	m = searchFor(t, m, "x")
	assert.Equal(t, stateCategorySelect, m.state)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.statusMsg, "Invalid search parameters")
	assert.False(t, m.busy)
}

func TestSearchNoResults(t *testing.T) {
	h := newHarness(t)
	h.gw.results = nil
	m := started(t, h, testConfig())

	m = searchFor(t, m, "nothing")
	assert.Equal(t, stateQueryInput, m.state)
	assert.Equal(t, "No results found", m.statusMsg)
}

func TestSearchHidesAdultResults(t *testing.T) {
	h := newHarness(t)
	h.gw.results = append(sampleResults(), prowlarr.SearchResult{GUID: "x", Title: "Adult", Categories: prowlarr.Categories{6010}})
	cfg := testConfig()
	cfg.Settings.ShowAdultContent = false
	m := started(t, h, cfg)

	m = searchFor(t, m, "anything")
	require.Equal(t, stateResults, m.state)
	assert.Equal(t, 3, m.view.Len())
}

func TestEmptyQueryIsRejected(t *testing.T) {
	h := newHarness(t)
	m := started(t, h, testConfig())

	m = searchFor(t, m, "   ")
	assert.Equal(t, stateQueryInput, m.state)
	assert.True(t, m.statusErr)
	assert.Empty(t, h.gw.searches)
}

func TestCancelSearchDropsLateReply(t *testing.T) {
	h := newHarness(t)
	m := started(t, h, testConfig())

	m, _ = press(t, m, enter, enter)
	m.queryInput.SetValue("ubuntu")

	// keep the search reply for later
	next, cmd := m.Update(enter)
	m = next.(Model)
	require.True(t, m.busy)

	m, quit := press(t, m, ctrlC)
	assert.False(t, quit)
	assert.Equal(t, stateMainMenu, m.state)
	assert.Equal(t, "Cancelled", m.statusMsg)

	m, _ = settle(t, m, cmd)
	assert.Equal(t, stateMainMenu, m.state)
	assert.Equal(t, 0, m.view.Len())
}

func TestKeysIgnoredWhileBusy(t *testing.T) {
	h := newHarness(t)
	m := started(t, h, testConfig())
	m, _ = press(t, m, enter, enter)
	m.queryInput.SetValue("ubuntu")

	next, _ := m.Update(enter)
	m = next.(Model)
	m, _ = press(t, m, esc)
	assert.Equal(t, stateQueryInput, m.state)
}

func TestCtrlCQuitsFromMainMenu(t *testing.T) {
	h := newHarness(t)
	m := started(t, h, testConfig())

	_, quit := press(t, m, ctrlC)
	assert.True(t, quit)
}

func TestCtrlCFromResultsGoesHome(t *testing.T) {
	h := newHarness(t)
	m := started(t, h, testConfig())
	m = searchFor(t, m, "ubuntu")
	m, _ = press(t, m, enter)
	require.Equal(t, stateDetail, m.state)

	m, quit := press(t, m, ctrlC)
	assert.False(t, quit)
	assert.Equal(t, stateMainMenu, m.state)
	assert.Equal(t, 0, m.stack.depth())
}

func TestDetailRestoresResultsScreen(t *testing.T) {
	h := newHarness(t)
	m := started(t, h, testConfig())
	m = searchFor(t, m, "ubuntu")

	m, _ = press(t, m, down)
	m, _ = press(t, m, enter)
	require.Equal(t, stateDetail, m.state)
	assert.Equal(t, 1, m.stack.depth())
	assert.Equal(t, "a", m.detail.GUID)

	m, _ = press(t, m, esc)
	assert.Equal(t, stateResults, m.state)
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, 0, m.stack.depth())
}

func TestDetailNavigationActions(t *testing.T) {
	h := newHarness(t)
	m := started(t, h, testConfig())
	m = searchFor(t, m, "ubuntu")

	m, _ = press(t, m, down, enter)
	require.Equal(t, stateDetail, m.state)
	n := len(m.detailActions)
	require.Equal(t, actions.Back, m.detailActions[n-2].Kind)
	m.actionCursor = n - 2
	m, _ = press(t, m, enter)
	assert.Equal(t, stateResults, m.state)
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, 0, m.stack.depth())

	m, _ = press(t, m, enter)
	require.Equal(t, stateDetail, m.state)
	m.actionCursor = len(m.detailActions) - 1
	m, _ = press(t, m, enter)
	assert.Equal(t, stateMainMenu, m.state)
	assert.Equal(t, 0, m.stack.depth())
	assert.Empty(t, h.external.added)
	assert.Empty(t, h.gw.sent)
}

func TestStatusScreenShowsTorrentClient(t *testing.T) {
	h := newHarness(t)
	m := started(t, h, testConfig())

	m, _ = press(t, m, down, down, enter)
	require.Equal(t, stateStatus, m.state)
	assert.Contains(t, m.View(), "qBittorrent v4.6.2 at http://qbit:8080")
}

func TestFilterThenShowAll(t *testing.T) {
	h := newHarness(t)
	m := started(t, h, testConfig())
	m = searchFor(t, m, "ubuntu")

	m, _ = press(t, m, runes("/"))
	require.True(t, m.filtering)
	m.filterInput.SetValue("debian")
	m, _ = press(t, m, enter)
	assert.Equal(t, 1, m.view.Len())
	assert.True(t, m.view.Filtered())

	m, _ = press(t, m, runes("/"))
	m.filterInput.SetValue("zzz")
	m, _ = press(t, m, enter)
	assert.Equal(t, 1, m.view.Len())
	assert.Contains(t, m.statusMsg, "No results match")

	m, _ = press(t, m, runes("a"))
	assert.Equal(t, 3, m.view.Len())
	assert.False(t, m.view.Filtered())
}

func TestSortPicker(t *testing.T) {
	h := newHarness(t)
	m := started(t, h, testConfig())
	m = searchFor(t, m, "ubuntu")

	m, _ = press(t, m, runes("s"))
	require.True(t, m.sorting)
	assert.Equal(t, 0, m.sortCursor) // seeders_desc is first

	// size_desc
	m, _ = press(t, m, down, down, enter)
	assert.False(t, m.sorting)
	assert.Equal(t, results.SortSizeDesc, m.view.SortKey())
	first, _ := m.view.At(0)
	assert.Equal(t, "a", first.GUID)
}

func TestCopyMagnetAction(t *testing.T) {
	h := newHarness(t)
	m := started(t, h, testConfig())
	m = searchFor(t, m, "ubuntu")

	m, _ = press(t, m, down, enter) // result "a"
	require.Equal(t, actions.CopyDownloadURL, m.detailActions[0].Kind)
	require.Equal(t, actions.CopyMagnet, m.detailActions[1].Kind)

	m, _ = press(t, m, down, enter)
	assert.Equal(t, "magnet:?xt=urn:btih:aaa", h.copied)
	assert.Equal(t, "Magnet link copied to clipboard", m.statusMsg)
	assert.Equal(t, stateDetail, m.state)
}

func TestSendToDownloadClientConfirms(t *testing.T) {
	h := newHarness(t)
	m := started(t, h, testConfig())
	m = searchFor(t, m, "ubuntu")
	m, _ = press(t, m, enter) // result "b"

	idx := -1
	for i, a := range m.detailActions {
		if a.Kind == actions.SendToDownloadClient {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	m.actionCursor = idx

	m, _ = press(t, m, enter)
	require.NotNil(t, m.confirmAction)
	assert.Empty(t, h.gw.sent)

	m, _ = press(t, m, runes("y"))
	require.Len(t, h.gw.sent, 1)
	assert.Equal(t, prowlarr.ReleasePayload{GUID: "b", IndexerID: 2, DownloadClientID: 7}, h.gw.sent[0])
	assert.Contains(t, m.statusMsg, "Sent to download client")
}

func TestActionFailureStaysOnDetail(t *testing.T) {
	h := newHarness(t)
	h.gw.sendErr = errors.New("client offline")
	cfg := testConfig()
	cfg.Settings.ConfirmDownloads = false
	m := started(t, h, cfg)
	m = searchFor(t, m, "ubuntu")
	m, _ = press(t, m, enter)

	for i, a := range m.detailActions {
		if a.Kind == actions.SendToDownloadClient {
			m.actionCursor = i
		}
	}
	m, _ = press(t, m, enter)
	assert.Equal(t, stateDetail, m.state)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.statusMsg, "client offline")
}

func TestSettingsCycleSaves(t *testing.T) {
	h := newHarness(t)
	m := started(t, h, testConfig())

	m, _ = press(t, m, down, enter) // Settings
	require.Equal(t, stateSettingsMenu, m.state)

	// Keyboard section
	for m.sectionCursor < 6 {
		m, _ = press(t, m, down)
	}
	m, _ = press(t, m, enter)
	require.Equal(t, config.SectionKeyboard, m.section)

	m, _ = press(t, m, enter) // toggle vim keys off
	assert.False(t, m.cfg.Settings.VimKeys)
	assert.False(t, m.statusErr)

	saved, err := config.Load(h.deps.ConfigPath)
	require.NoError(t, err)
	assert.False(t, saved.Settings.VimKeys)

	// j no longer moves down
	m, _ = press(t, m, runes("j"))
	assert.Equal(t, 0, m.fieldCursor)
}

func TestSettingsRejectsInvalidValue(t *testing.T) {
	h := newHarness(t)
	m := started(t, h, testConfig())
	m.state = stateSettingsForm
	m.section = config.SectionUI

	m, _ = press(t, m, enter) // page size
	require.True(t, m.editing)
	m.fieldInput.SetValue("lots")
	m, _ = press(t, m, enter)

	assert.True(t, m.editing)
	assert.True(t, m.statusErr)
	assert.Equal(t, 15, m.cfg.Settings.PageSize)
}

func TestConfirmExit(t *testing.T) {
	h := newHarness(t)
	cfg := testConfig()
	cfg.Settings.ConfirmExit = true
	m := started(t, h, cfg)

	m, quit := press(t, m, runes("q"))
	assert.False(t, quit)
	assert.True(t, m.confirmingQuit)

	m, quit = press(t, m, esc)
	assert.False(t, quit)
	assert.False(t, m.confirmingQuit)

	m, _ = press(t, m, runes("q"))
	_, quit = press(t, m, runes("y"))
	assert.True(t, quit)
}

func TestIndexerCacheRefresh(t *testing.T) {
	h := newHarness(t)
	cfg := testConfig()
	cfg.Settings.CacheDuration = 0
	m := started(t, h, cfg)
	require.Equal(t, 1, h.gw.listed)

	searchFor(t, m, "ubuntu")
	assert.Equal(t, 2, h.gw.listed)
}

func TestNavStack(t *testing.T) {
	var s navStack
	_, ok := s.pop()
	assert.False(t, ok)

	s.push(snapshot{cursor: 1})
	s.push(snapshot{cursor: 2})
	assert.Equal(t, 2, s.depth())

	top, ok := s.pop()
	require.True(t, ok)
	assert.Equal(t, 2, top.cursor)

	s.clear()
	assert.Equal(t, 0, s.depth())
}

func TestWindow(t *testing.T) {
	lo, hi := window(10, 0, 4)
	assert.Equal(t, [2]int{0, 4}, [2]int{lo, hi})
	lo, hi = window(10, 6, 4)
	assert.Equal(t, [2]int{3, 7}, [2]int{lo, hi})
	lo, hi = window(3, 2, 4)
	assert.Equal(t, [2]int{0, 3}, [2]int{lo, hi})
}
