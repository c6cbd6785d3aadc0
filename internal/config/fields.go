package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Section groups the fields shown on one settings screen.
type Section string

const (
	SectionConnection    Section = "connection"
	SectionTheme         Section = "theme"
	SectionUI            Section = "ui"
	SectionDownload      Section = "download"
	SectionSearch        Section = "search"
	SectionAppearance    Section = "appearance"
	SectionKeyboard      Section = "keyboard"
	SectionNotifications Section = "notifications"
	SectionPerformance   Section = "performance"
)

// Sections returns the settings screens in menu order.
func Sections() []Section {
	return []Section{
		SectionConnection,
		SectionTheme,
		SectionUI,
		SectionDownload,
		SectionSearch,
		SectionAppearance,
		SectionKeyboard,
		SectionNotifications,
		SectionPerformance,
	}
}

// Title returns the menu label for a section.
func (s Section) Title() string {
	switch s {
	case SectionConnection:
		return "Connection"
	case SectionTheme:
		return "Theme"
	case SectionUI:
		return "UI"
	case SectionDownload:
		return "Download"
	case SectionSearch:
		return "Search"
	case SectionAppearance:
		return "Appearance"
	case SectionKeyboard:
		return "Keyboard"
	case SectionNotifications:
		return "Notifications"
	case SectionPerformance:
		return "Performance"
	}
	return string(s)
}

// Kind is the value type of a settings field.
type Kind int

const (
	KindString Kind = iota
	KindSecret
	KindInt
	KindBool
	KindEnum
)

// Field is one editable config value. Values travel as strings so the
// settings form can edit every field with the same text input.
type Field struct {
	Key     string
	Label   string
	Kind    Kind
	Options []string // KindEnum
	Min     int      // KindInt
	Max     int      // KindInt

	get func(*Config) string
	set func(*Config, string)
}

// Get returns the field's current value.
func (f Field) Get(c *Config) string {
	return f.get(c)
}

// Set validates raw and stores it.
func (f Field) Set(c *Config, raw string) error {
	raw = strings.TrimSpace(raw)

	switch f.Kind {
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s must be a number", f.Label)
		}
		if n < f.Min || (f.Max > 0 && n > f.Max) {
			return fmt.Errorf("%s must be between %d and %d", f.Label, f.Min, f.Max)
		}
		raw = strconv.Itoa(n)
	case KindBool:
		b, err := parseBool(raw)
		if err != nil {
			return fmt.Errorf("%s must be yes or no", f.Label)
		}
		raw = strconv.FormatBool(b)
	case KindEnum:
		if !contains(f.Options, raw) {
			return fmt.Errorf("%s must be one of: %s", f.Label, strings.Join(f.Options, ", "))
		}
	}

	f.set(c, raw)
	return nil
}

// Cycle toggles a bool or advances an enum to its next option.
// It reports false for kinds that need typed input.
func (f Field) Cycle(c *Config) bool {
	switch f.Kind {
	case KindBool:
		b, _ := parseBool(f.Get(c))
		f.set(c, strconv.FormatBool(!b))
		return true
	case KindEnum:
		cur := f.Get(c)
		next := f.Options[0]
		for i, o := range f.Options {
			if o == cur {
				next = f.Options[(i+1)%len(f.Options)]
				break
			}
		}
		f.set(c, next)
		return true
	}
	return false
}

// Display returns the value for rendering; secrets are masked.
func (f Field) Display(c *Config) string {
	v := f.Get(c)
	switch {
	case v == "":
		return "(not set)"
	case f.Kind == KindSecret:
		return strings.Repeat("•", len(v))
	case f.Kind == KindBool:
		if v == "true" {
			return "yes"
		}
		return "no"
	}
	return v
}

// Fields returns the editable fields of a section.
func Fields(s Section) []Field {
	switch s {
	case SectionConnection:
		return []Field{
			stringField("serverUrl", "Prowlarr URL", KindString, func(c *Config) *string { return &c.ServerURL }),
			stringField("apiKey", "API Key", KindSecret, func(c *Config) *string { return &c.APIKey }),
			stringField("qbittorrentUrl", "qBittorrent URL", KindString, func(c *Config) *string { return &c.QBittorrentURL }),
		}
	case SectionTheme:
		return []Field{
			enumField("preset", "Preset", ThemePresets, func(c *Config) *string { return &c.Theme.Preset }),
			colorField("primary", "Primary", func(c *Config) *string { return &c.Theme.Primary }),
			colorField("secondary", "Secondary", func(c *Config) *string { return &c.Theme.Secondary }),
			colorField("success", "Success", func(c *Config) *string { return &c.Theme.Success }),
			colorField("warning", "Warning", func(c *Config) *string { return &c.Theme.Warning }),
			colorField("error", "Error", func(c *Config) *string { return &c.Theme.Error }),
			colorField("info", "Info", func(c *Config) *string { return &c.Theme.Info }),
			colorField("muted", "Muted", func(c *Config) *string { return &c.Theme.Muted }),
		}
	case SectionUI:
		return []Field{
			intField("pageSize", "Page size", 3, 100, func(c *Config) *int { return &c.Settings.PageSize }),
			enumField("displayDensity", "Display density", Densities, func(c *Config) *string { return &c.Settings.DisplayDensity }),
			intField("maxTitleLength", "Max title length", 10, 500, func(c *Config) *int { return &c.Settings.MaxTitleLength }),
		}
	case SectionDownload:
		return []Field{
			boolField("confirmDownloads", "Confirm downloads", func(c *Config) *bool { return &c.Settings.ConfirmDownloads }),
			boolField("preferMagnet", "Prefer magnet links", func(c *Config) *bool { return &c.Settings.PreferMagnet }),
		}
	case SectionSearch:
		return []Field{
			enumField("defaultSortOrder", "Default sort", SortOrders, func(c *Config) *string { return &c.Settings.DefaultSortOrder }),
			intField("resultsPerPage", "Results per page", 5, 500, func(c *Config) *int { return &c.Settings.ResultsPerPage }),
			boolField("showAdultContent", "Show adult content", func(c *Config) *bool { return &c.Settings.ShowAdultContent }),
			enumField("defaultCategory", "Default category", Categories, func(c *Config) *string { return &c.Settings.DefaultCategory }),
		}
	case SectionAppearance:
		return []Field{
			boolField("showProtocolIcons", "Protocol icons", func(c *Config) *bool { return &c.Settings.ShowProtocolIcons }),
			enumField("dateFormat", "Date format", DateFormats, func(c *Config) *string { return &c.Settings.DateFormat }),
		}
	case SectionKeyboard:
		return []Field{
			boolField("vimKeys", "Vim keys (h/j/k/l)", func(c *Config) *bool { return &c.Settings.VimKeys }),
			boolField("confirmExit", "Confirm exit", func(c *Config) *bool { return &c.Settings.ConfirmExit }),
		}
	case SectionNotifications:
		return []Field{
			boolField("enableNotifications", "Notifications", func(c *Config) *bool { return &c.Settings.EnableNotifications }),
			boolField("notificationSound", "Bell on completion", func(c *Config) *bool { return &c.Settings.NotificationSound }),
		}
	case SectionPerformance:
		return []Field{
			intField("cacheDuration", "Indexer cache (min)", 0, 1440, func(c *Config) *int { return &c.Settings.CacheDuration }),
			intField("searchTimeout", "Request timeout (s)", 1, 600, func(c *Config) *int { return &c.Settings.SearchTimeout }),
		}
	}
	return nil
}

func stringField(key, label string, kind Kind, ptr func(*Config) *string) Field {
	return Field{
		Key:   key,
		Label: label,
		Kind:  kind,
		get:   func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) {
			if kind == KindString {
				// URLs are joined with API paths later
				v = strings.TrimRight(v, "/")
			}
			*ptr(c) = v
		},
	}
}

// colorField edits one theme role. Touching a role detaches the theme
// from its preset.
func colorField(key, label string, ptr func(*Config) *string) Field {
	return Field{
		Key:   key,
		Label: label,
		Kind:  KindString,
		get:   func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) {
			*ptr(c) = v
			c.Theme.Preset = "custom"
		},
	}
}

func enumField(key, label string, options []string, ptr func(*Config) *string) Field {
	return Field{
		Key:     key,
		Label:   label,
		Kind:    KindEnum,
		Options: options,
		get:     func(c *Config) string { return *ptr(c) },
		set:     func(c *Config, v string) { *ptr(c) = v },
	}
}

func intField(key, label string, min, max int, ptr func(*Config) *int) Field {
	return Field{
		Key:   key,
		Label: label,
		Kind:  KindInt,
		Min:   min,
		Max:   max,
		get:   func(c *Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *Config, v string) {
			n, _ := strconv.Atoi(v)
			*ptr(c) = n
		},
	}
}

func boolField(key, label string, ptr func(*Config) *bool) Field {
	return Field{
		Key:   key,
		Label: label,
		Kind:  KindBool,
		get:   func(c *Config) string { return strconv.FormatBool(*ptr(c)) },
		set: func(c *Config, v string) {
			b, _ := parseBool(v)
			*ptr(c) = b
		},
	}
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "true", "1", "on":
		return true, nil
	case "no", "n", "false", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", v)
}
