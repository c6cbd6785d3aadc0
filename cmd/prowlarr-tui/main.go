// Prowlarr TUI is an interactive terminal client for a Prowlarr server.
// It searches the server's indexers, lists the releases and hands them to
// a download client, a torrent client or the clipboard.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/litescript/prowlarr-tui/internal/config"
	"github.com/litescript/prowlarr-tui/internal/logging"
	"github.com/litescript/prowlarr-tui/internal/theme"
	"github.com/litescript/prowlarr-tui/internal/tui"
	"github.com/litescript/prowlarr-tui/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prowlarr-tui",
	Short: "Search Prowlarr indexers from the terminal",
	Long: `prowlarr-tui is an interactive terminal client for Prowlarr.

Pick a category, search every enabled indexer, sort and filter the
results, then send a release to Prowlarr's download client, to
qBittorrent, or copy its links to the clipboard.

Settings live in config.json next to the executable.`,
	Version:       version.Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	configPath := config.ConfigPath()
	cfg, loadErr := config.Load(configPath)

	if err := logging.Init(logging.Dir(configPath), version.Version); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer logging.Close()
	if loadErr != nil {
		logging.Warn("config load failed, using defaults", "err", loadErr)
	}

	if !theme.Apply(cfg.Theme) {
		logging.Warn("invalid theme colors replaced with defaults", "preset", cfg.Theme.Preset)
	}

	model := tui.New(cfg, tui.DefaultDeps(configPath), loadErr)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Terminal theme edits repaint the running program
	themeWatcher, err := theme.NewWatcher(func() { p.Send(tui.ThemeChanged()) })
	if err == nil {
		defer themeWatcher.Stop()
	} else {
		logging.Warn("theme watcher unavailable", "err", err)
	}

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(tui.Model); ok && m.Fatal() != nil {
		logging.Error("exiting", "err", m.Fatal())
		return m.Fatal()
	}
	return nil
}
