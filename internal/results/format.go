package results

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/litescript/prowlarr-tui/internal/prowlarr"
	"github.com/mattn/go-runewidth"
)

// FormatOptions controls how rows are rendered. They mirror user settings.
type FormatOptions struct {
	ShowIcons      bool
	DateFormat     string // "relative" or "absolute"
	MaxTitleLength int
	Indexers       []prowlarr.Indexer
	Now            time.Time
}

// Row is a result converted to display strings.
type Row struct {
	Icon     string
	Title    string
	Indexer  string
	Size     string
	Seeders  string
	Leechers string
	Age      string
	Priority int
	Protocol prowlarr.Protocol
}

// FormatRow converts a result for display.
func FormatRow(r prowlarr.SearchResult, opts FormatOptions) Row {
	row := Row{
		Icon:     ProtocolIcon(r.Protocol, opts.ShowIcons),
		Title:    r.Title,
		Indexer:  r.Indexer,
		Size:     FormatSize(r.Size),
		Seeders:  formatCount(r.Seeders),
		Leechers: formatCount(r.Leechers),
		Age:      FormatAge(r.PublishedAt(), opts.DateFormat, opts.Now),
		Priority: PriorityOf(opts.Indexers, r.Indexer),
		Protocol: r.Protocol,
	}
	if opts.MaxTitleLength > 0 {
		row.Title = runewidth.Truncate(row.Title, opts.MaxTitleLength, "…")
	}
	return row
}

// ProtocolIcon returns the marker shown before a title.
func ProtocolIcon(p prowlarr.Protocol, icons bool) string {
	switch {
	case p == prowlarr.ProtocolUsenet && icons:
		return "📰"
	case p == prowlarr.ProtocolUsenet:
		return "[U]"
	case icons:
		return "🧲"
	}
	return "[T]"
}

// FormatSize humanizes a byte count; unknown sizes render as "-".
func FormatSize(size *int64) string {
	if size == nil || *size < 0 {
		return "-"
	}
	return humanize.IBytes(uint64(*size))
}

// FormatAge renders a publish time. The zero point (epoch) is "unknown".
func FormatAge(t time.Time, format string, now time.Time) string {
	if t.Unix() <= 0 {
		return "unknown"
	}
	if format == "absolute" {
		return t.Local().Format("2006-01-02")
	}
	if now.IsZero() {
		now = time.Now()
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func formatCount(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

// Line renders the row for a list. width bounds the title column;
// density is compact, normal or detailed.
func (r Row) Line(density string, width int) string {
	if width < 10 {
		width = 10
	}
	switch density {
	case "compact":
		return fmt.Sprintf("%s %s", r.Icon, runewidth.Truncate(r.Title, width, "…"))
	case "detailed":
		title := runewidth.FillRight(runewidth.Truncate(r.Title, width, "…"), width)
		return fmt.Sprintf("%s %s  %9s  %s  %s  %s",
			r.Icon, title, r.Size, r.swarm(), r.Age, r.Indexer)
	}
	title := runewidth.FillRight(runewidth.Truncate(r.Title, width, "…"), width)
	return fmt.Sprintf("%s %s  %9s  %s", r.Icon, title, r.Size, r.swarm())
}

func (r Row) swarm() string {
	if r.Protocol == prowlarr.ProtocolUsenet {
		return strings.Repeat(" ", 15)
	}
	return fmt.Sprintf("S:%-5s L:%-5s", r.Seeders, r.Leechers)
}
