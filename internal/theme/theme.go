// Package theme turns the configured color roles into lipgloss styles.
// Colors come from a named preset, from the user's own role colors, or
// from the terminal's palette (Alacritty, Kitty, Foot, Omarchy).
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/litescript/prowlarr-tui/internal/config"
)

// Palette holds the resolved role colors. Values are anything
// lipgloss.Color accepts: an ANSI index ("6") or a hex color.
type Palette struct {
	Primary     string // titles, selection, prompts
	Secondary   string // indexer names, highlights
	Success     string // seeders, confirmations
	Warning     string // confirm modals
	Error       string // errors, leechers
	Info        string // usenet results, notices
	Muted       string // help, secondary info
	SelectionBg string
}

// DefaultPalette matches the default config theme on a 16 color terminal.
func DefaultPalette() Palette {
	p, _ := FromRoles(config.Default().Theme)
	return p
}

// Styles holds all lipgloss styles derived from a palette
type Styles struct {
	Header       lipgloss.Style
	Title        lipgloss.Style
	StatusBar    lipgloss.Style
	Prompt       lipgloss.Style
	Input        lipgloss.Style
	MenuItem     lipgloss.Style
	MenuSelected lipgloss.Style
	Indexer      lipgloss.Style
	Seeders      lipgloss.Style
	Leechers     lipgloss.Style
	Usenet       lipgloss.Style
	Muted        lipgloss.Style
	Error        lipgloss.Style
	Success      lipgloss.Style
	Warning      lipgloss.Style
	Info         lipgloss.Style
	HelpKey      lipgloss.Style
	HelpDesc     lipgloss.Style
	Panel        lipgloss.Style
	PanelTitle   lipgloss.Style
	Modal        lipgloss.Style
}

// NewStyles creates styles from a palette
func NewStyles(p Palette) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Primary)).
			Bold(true).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Primary)).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)).
			Padding(0, 1),

		Prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Primary)),

		Input: lipgloss.NewStyle(),

		MenuItem: lipgloss.NewStyle(),

		MenuSelected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Primary)).
			Background(lipgloss.Color(p.SelectionBg)).
			Bold(true),

		Indexer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Secondary)),

		Seeders: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Success)),

		Leechers: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Error)),

		Usenet: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Info)),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Error)),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Success)),

		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Warning)).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Info)),

		HelpKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Secondary)),

		HelpDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Muted)).
			Padding(0, 1),

		PanelTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Primary)).
			Bold(true),

		Modal: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Warning)).
			Padding(1, 2),
	}
}

// Current holds the active palette and styles
var Current Styles
var CurrentPalette Palette

func init() {
	CurrentPalette = DefaultPalette()
	Current = NewStyles(CurrentPalette)
}

// Apply makes the configured theme current. It returns false when a
// role color could not be parsed; that role keeps its default.
func Apply(cfg config.ThemeConfig) bool {
	p, ok := Resolve(cfg)
	CurrentPalette = p
	Current = NewStyles(p)
	return ok
}

// Resolve picks the palette for a theme config: a named preset, the
// terminal's colors, or the custom role colors.
func Resolve(cfg config.ThemeConfig) (Palette, bool) {
	switch cfg.Preset {
	case "terminal":
		if p, found := Detect(); found {
			return p, true
		}
		return DefaultPalette(), true
	case "custom", "":
		return FromRoles(cfg)
	}
	if roles, ok := Presets[cfg.Preset]; ok {
		return FromRoles(roles)
	}
	return FromRoles(cfg)
}

// FromRoles resolves the seven role colors of cfg.
func FromRoles(cfg config.ThemeConfig) (Palette, bool) {
	ok := true
	pick := func(name, fallback string) string {
		if c, valid := ResolveColor(name); valid {
			return c
		}
		ok = false
		c, _ := ResolveColor(fallback)
		return c
	}

	p := Palette{
		Primary:   pick(cfg.Primary, "cyan"),
		Secondary: pick(cfg.Secondary, "magenta"),
		Success:   pick(cfg.Success, "green"),
		Warning:   pick(cfg.Warning, "yellow"),
		Error:     pick(cfg.Error, "red"),
		Info:      pick(cfg.Info, "blue"),
		Muted:     pick(cfg.Muted, "gray"),
	}
	p.SelectionBg = selectionFor(p.Primary)
	return p, ok
}

// selectionFor picks a background that keeps the primary color readable.
func selectionFor(primary string) string {
	if len(primary) == 7 && primary[0] == '#' {
		return MixColors("#000000", primary, 0.2)
	}
	return "236"
}
