// Package config handles application configuration via a JSON file.
// The file lives next to the executable as config.json and holds the Prowlarr
// connection, the optional qBittorrent URL, the theme and the UI settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the config file name, resolved relative to the executable.
const FileName = "config.json"

// Config holds application configuration
type Config struct {
	ServerURL      string      `json:"serverUrl"`
	APIKey         string      `json:"apiKey"`
	QBittorrentURL string      `json:"qbittorrentUrl,omitempty"`
	Theme          ThemeConfig `json:"theme"`
	Settings       Settings    `json:"settings"`
}

// ThemeConfig maps the seven color roles to color identifiers.
// Identifiers are ANSI names ("cyan", "blueBright"), ANSI numbers or hex.
type ThemeConfig struct {
	Preset    string `json:"preset"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Success   string `json:"success"`
	Warning   string `json:"warning"`
	Error     string `json:"error"`
	Info      string `json:"info"`
	Muted     string `json:"muted"`
}

// Settings holds the flat UI and behaviour options.
type Settings struct {
	// UI
	PageSize       int    `json:"pageSize"`
	DisplayDensity string `json:"displayDensity"`
	MaxTitleLength int    `json:"maxTitleLength"`

	// Downloads
	ConfirmDownloads bool `json:"confirmDownloads"`
	PreferMagnet     bool `json:"preferMagnet"`

	// Search
	DefaultSortOrder string `json:"defaultSortOrder"`
	ResultsPerPage   int    `json:"resultsPerPage"`
	ShowAdultContent bool   `json:"showAdultContent"`
	DefaultCategory  string `json:"defaultCategory"`

	// Appearance
	ShowProtocolIcons bool   `json:"showProtocolIcons"`
	DateFormat        string `json:"dateFormat"`

	// Keyboard
	VimKeys     bool `json:"vimKeys"`
	ConfirmExit bool `json:"confirmExit"`

	// Notifications
	EnableNotifications bool `json:"enableNotifications"`
	NotificationSound   bool `json:"notificationSound"`

	// Performance
	CacheDuration int `json:"cacheDuration"` // minutes
	SearchTimeout int `json:"searchTimeout"` // seconds

	// Extra keeps keys this version does not know so Save writes them back.
	Extra map[string]json.RawMessage `json:"-"`
}

// settingsFields is Settings without its JSON methods.
type settingsFields Settings

// UnmarshalJSON decodes the known keys over the current values and
// collects the rest into Extra.
func (s *Settings) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*settingsFields)(s)); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	known, err := knownSettingKeys()
	if err != nil {
		return err
	}
	for k := range known {
		delete(raw, k)
	}
	s.Extra = nil
	if len(raw) > 0 {
		s.Extra = raw
	}
	return nil
}

// MarshalJSON encodes the known keys plus Extra. Known keys win.
func (s Settings) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(settingsFields(s))
	if err != nil || len(s.Extra) == 0 {
		return data, err
	}
	merged := make(map[string]json.RawMessage, len(s.Extra))
	for k, v := range s.Extra {
		merged[k] = v
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(data, &known); err != nil {
		return nil, err
	}
	for k, v := range known {
		merged[k] = v
	}
	return json.Marshal(merged)
}

func knownSettingKeys() (map[string]json.RawMessage, error) {
	data, err := json.Marshal(settingsFields{})
	if err != nil {
		return nil, err
	}
	var keys map[string]json.RawMessage
	err = json.Unmarshal(data, &keys)
	return keys, err
}

// Enumerated setting values.
var (
	Densities   = []string{"compact", "normal", "detailed"}
	DateFormats = []string{"relative", "absolute"}
	SortOrders  = []string{
		"seeders_desc", "seeders_asc",
		"size_desc", "size_asc",
		"date_desc", "date_asc",
		"title_asc", "title_desc",
		"protocol",
		"indexer_priority_desc", "indexer_priority_asc",
	}
	Categories   = []string{"all", "movies", "tv", "audio", "pc", "console", "xxx", "books", "other"}
	ThemePresets = []string{"default", "ocean", "forest", "mono", "terminal", "custom"}
)

// Default returns the default configuration
func Default() Config {
	return Config{
		ServerURL: "http://localhost:9696",
		Theme: ThemeConfig{
			Preset:    "default",
			Primary:   "cyan",
			Secondary: "magenta",
			Success:   "green",
			Warning:   "yellow",
			Error:     "red",
			Info:      "blue",
			Muted:     "gray",
		},
		Settings: DefaultSettings(),
	}
}

// DefaultSettings returns the documented setting defaults.
func DefaultSettings() Settings {
	return Settings{
		PageSize:            15,
		DisplayDensity:      "normal",
		MaxTitleLength:      80,
		ConfirmDownloads:    true,
		PreferMagnet:        true,
		DefaultSortOrder:    "seeders_desc",
		ResultsPerPage:      30,
		ShowAdultContent:    true,
		DefaultCategory:     "all",
		ShowProtocolIcons:   true,
		DateFormat:          "relative",
		VimKeys:             true,
		ConfirmExit:         false,
		EnableNotifications: true,
		NotificationSound:   false,
		CacheDuration:       30,
		SearchTimeout:       30,
	}
}

// Error reports a config file that could not be read, parsed or written.
// It is never fatal: callers keep running on defaults or in-memory values.
type Error struct {
	Op   string // "read", "parse" or "write"
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ConfigPath returns the path to the config file next to the executable.
func ConfigPath() string {
	exe, err := os.Executable()
	if err != nil {
		return FileName
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), FileName)
}

// Load reads config from path or returns defaults.
// A missing file yields defaults and no error; an unreadable or malformed
// file yields defaults and a *Error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, &Error{Op: "read", Path: path, Err: err}
	}

	// Saved values land on top of the defaults, so keys missing from the
	// file keep their default value.
	loaded := Default()
	if err := json.Unmarshal(data, &loaded); err != nil {
		return cfg, &Error{Op: "parse", Path: path, Err: err}
	}

	loaded.normalize()
	return loaded, nil
}

// Save writes config to path.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &Error{Op: "write", Path: path, Err: err}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return &Error{Op: "write", Path: path, Err: err}
	}

	// 0600: the file carries the API key
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return &Error{Op: "write", Path: path, Err: err}
	}
	return nil
}

// HasCredentials reports whether a server URL and API key are configured.
func (c Config) HasCredentials() bool {
	return c.ServerURL != "" && c.APIKey != ""
}

// normalize replaces out-of-range values with their defaults.
func (c *Config) normalize() {
	d := DefaultSettings()
	s := &c.Settings

	if s.PageSize <= 0 {
		s.PageSize = d.PageSize
	}
	if s.ResultsPerPage <= 0 {
		s.ResultsPerPage = d.ResultsPerPage
	}
	if s.MaxTitleLength < 10 {
		s.MaxTitleLength = d.MaxTitleLength
	}
	if s.CacheDuration < 0 {
		s.CacheDuration = d.CacheDuration
	}
	if s.SearchTimeout <= 0 {
		s.SearchTimeout = d.SearchTimeout
	}
	if !contains(Densities, s.DisplayDensity) {
		s.DisplayDensity = d.DisplayDensity
	}
	if !contains(DateFormats, s.DateFormat) {
		s.DateFormat = d.DateFormat
	}
	if !contains(SortOrders, s.DefaultSortOrder) {
		s.DefaultSortOrder = d.DefaultSortOrder
	}
	if !contains(Categories, s.DefaultCategory) {
		s.DefaultCategory = d.DefaultCategory
	}
	if !contains(ThemePresets, c.Theme.Preset) {
		c.Theme.Preset = "custom"
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
