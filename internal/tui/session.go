package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/litescript/prowlarr-tui/internal/actions"
	"github.com/litescript/prowlarr-tui/internal/config"
	"github.com/litescript/prowlarr-tui/internal/logging"
	"github.com/litescript/prowlarr-tui/internal/prowlarr"
	"github.com/litescript/prowlarr-tui/internal/qbit"
	"github.com/litescript/prowlarr-tui/internal/scraper"
	"github.com/litescript/prowlarr-tui/internal/version"
)

// Gateway is the Prowlarr API surface the controller drives.
type Gateway interface {
	CheckStatus(ctx context.Context) (prowlarr.SystemStatus, error)
	ListIndexers(ctx context.Context) ([]prowlarr.Indexer, error)
	ListDownloadClients(ctx context.Context) ([]prowlarr.DownloadClient, error)
	Search(ctx context.Context, req prowlarr.SearchRequest) ([]prowlarr.SearchResult, error)
	SendToDownloadClient(ctx context.Context, payload prowlarr.ReleasePayload) error
}

// ExternalClient is the torrent client that accepts magnet/torrent URLs.
type ExternalClient interface {
	actions.ExternalClient
	GetVersion(ctx context.Context) (string, error)
	BaseURL() string
}

// Deps are the collaborators the model builds its session from.
type Deps struct {
	ConfigPath  string
	NewGateway  func(cfg config.Config) Gateway
	NewExternal func(cfg config.Config) ExternalClient // nil when not configured
	Finder      scraper.Finder
	Clipboard   func(string) error // nil when the platform has none
	CheckUpdate func(ctx context.Context) (version.UpdateInfo, error)
	Bell        func()
	Now         func() time.Time
}

// DefaultDeps wires the real clients.
func DefaultDeps(configPath string) Deps {
	d := Deps{
		ConfigPath: configPath,
		NewGateway: func(cfg config.Config) Gateway {
			return prowlarr.NewClient(cfg.ServerURL, cfg.APIKey, requestTimeout(cfg))
		},
		NewExternal: func(cfg config.Config) ExternalClient {
			if cfg.QBittorrentURL == "" {
				return nil
			}
			return qbit.NewClient(cfg.QBittorrentURL, requestTimeout(cfg))
		},
		Finder: scraper.NewPageFinder(15 * time.Second),
		CheckUpdate: func(ctx context.Context) (version.UpdateInfo, error) {
			return version.NewChecker().Check(ctx)
		},
		Bell: func() { fmt.Fprint(os.Stderr, "\a") },
		Now:  time.Now,
	}
	if !clipboard.Unsupported {
		d.Clipboard = clipboard.WriteAll
	}
	return d
}

func requestTimeout(cfg config.Config) time.Duration {
	return time.Duration(cfg.Settings.SearchTimeout) * time.Second
}

// ConnectionError is a failed startup handshake with Prowlarr.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to Prowlarr at %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Session is everything learned from the servers for the current config.
type Session struct {
	Gateway         Gateway
	External        ExternalClient
	Status          prowlarr.SystemStatus
	Connected       bool
	Indexers        []prowlarr.Indexer
	IndexersLoaded  time.Time
	DownloadClient  *prowlarr.DownloadClient
	ExternalVersion string
	ExternalErr     error
}

// enabledIndexerIDs returns the ids to search, nil meaning "all".
func (s Session) enabledIndexerIDs() []int {
	var ids []int
	for _, idx := range s.Indexers {
		if idx.Enable {
			ids = append(ids, idx.ID)
		}
	}
	return ids
}

// indexersStale reports whether the cached indexer list has expired.
func (s Session) indexersStale(cfg config.Config, now time.Time) bool {
	ttl := time.Duration(cfg.Settings.CacheDuration) * time.Minute
	return ttl == 0 || now.Sub(s.IndexersLoaded) >= ttl
}

// capabilities reports what the detail screen can offer.
func (m Model) capabilities() actions.Capabilities {
	return actions.Capabilities{
		Clipboard:      m.deps.Clipboard != nil,
		ExternalClient: m.session.External != nil,
		DownloadClient: m.session.DownloadClient != nil,
	}
}

func (m Model) dispatcher() *actions.Dispatcher {
	d := &actions.Dispatcher{
		Finder:       m.deps.Finder,
		Copy:         m.deps.Clipboard,
		PreferMagnet: m.cfg.Settings.PreferMagnet,
	}
	if m.session.Gateway != nil {
		d.Gateway = m.session.Gateway
	}
	if m.session.External != nil {
		d.External = m.session.External
	}
	if m.session.DownloadClient != nil {
		d.DownloadClientID = m.session.DownloadClient.ID
	}
	return d
}

// Messages
type connectedMsg struct {
	seq     int
	startup bool
	session Session
	err     error
}

type searchResultMsg struct {
	seq      int
	results  []prowlarr.SearchResult
	indexers []prowlarr.Indexer // non-nil when refreshed
	err      error
}

type actionDoneMsg struct {
	seq  int
	kind actions.Kind
	text string
	err  error
}

type updateCheckMsg struct {
	seq  int
	info version.UpdateInfo
	err  error
}

type themeChangedMsg struct{}

// ThemeChanged is sent by the theme file watcher.
func ThemeChanged() tea.Msg { return themeChangedMsg{} }

// beginOp starts a cancellable operation. Replies carrying an older
// sequence number are dropped.
func (m *Model) beginOp() (context.Context, int) {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.opSeq++
	m.cancel = cancel
	m.busy = true
	return ctx, m.opSeq
}

// endOp clears the busy state for the reply of operation seq.
func (m *Model) endOp(seq int) bool {
	if seq != m.opSeq {
		return false
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.busy = false
	return true
}

// abortOp cancels whatever is in flight.
func (m *Model) abortOp() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.busy {
		m.opSeq++
		m.busy = false
	}
}

func (m *Model) connect(startup bool) tea.Cmd {
	ctx, seq := m.beginOp()
	cfg := m.cfg
	gw := m.deps.NewGateway(cfg)
	var ext ExternalClient
	if m.deps.NewExternal != nil {
		ext = m.deps.NewExternal(cfg)
	}
	now := m.now()

	return func() tea.Msg {
		s := Session{Gateway: gw, External: ext}

		status, err := gw.CheckStatus(ctx)
		if err != nil {
			return connectedMsg{seq: seq, startup: startup, session: s, err: &ConnectionError{URL: cfg.ServerURL, Err: err}}
		}
		s.Status = status
		s.Connected = true

		if indexers, err := gw.ListIndexers(ctx); err == nil {
			s.Indexers = indexers
			s.IndexersLoaded = now
		} else {
			logging.Warn("list indexers failed", "err", err)
		}

		if clients, err := gw.ListDownloadClients(ctx); err == nil {
			for _, c := range clients {
				if c.Enable {
					s.DownloadClient = &c
					break
				}
			}
		} else {
			logging.Warn("list download clients failed", "err", err)
		}

		if ext != nil {
			s.ExternalVersion, s.ExternalErr = ext.GetVersion(ctx)
			if s.ExternalErr != nil {
				logging.Warn("torrent client unreachable", "url", ext.BaseURL(), "err", s.ExternalErr)
			}
		}
		return connectedMsg{seq: seq, startup: startup, session: s}
	}
}

func (m *Model) search(query string, category prowlarr.Category) tea.Cmd {
	ctx, seq := m.beginOp()
	gw := m.session.Gateway
	session := m.session
	stale := m.session.indexersStale(m.cfg, m.now())

	return func() tea.Msg {
		var refreshed []prowlarr.Indexer
		if stale {
			if indexers, err := gw.ListIndexers(ctx); err == nil {
				refreshed = indexers
				session.Indexers = indexers
			} else {
				logging.Warn("indexer refresh failed", "err", err)
			}
		}

		req := prowlarr.SearchRequest{
			Query:      query,
			Categories: category.IDs(),
			IndexerIDs: session.enabledIndexerIDs(),
		}
		logging.Debug("search", "query", query, "category", category.Key, "indexers", len(req.IndexerIDs))

		rs, err := gw.Search(ctx, req)
		return searchResultMsg{seq: seq, results: rs, indexers: refreshed, err: err}
	}
}

func (m *Model) runAction(kind actions.Kind, r prowlarr.SearchResult) tea.Cmd {
	ctx, seq := m.beginOp()
	d := m.dispatcher()
	return func() tea.Msg {
		text, err := d.Run(ctx, kind, r)
		return actionDoneMsg{seq: seq, kind: kind, text: text, err: err}
	}
}

func (m *Model) checkUpdate() tea.Cmd {
	ctx, seq := m.beginOp()
	check := m.deps.CheckUpdate
	return func() tea.Msg {
		if check == nil {
			return updateCheckMsg{seq: seq, err: errors.New("update check unavailable")}
		}
		info, err := check(ctx)
		return updateCheckMsg{seq: seq, info: info, err: err}
	}
}

func (m Model) now() time.Time {
	if m.deps.Now != nil {
		return m.deps.Now()
	}
	return time.Now()
}
