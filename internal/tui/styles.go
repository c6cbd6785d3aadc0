package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/litescript/prowlarr-tui/internal/theme"
	"github.com/mattn/go-runewidth"
)

// GetStyles returns current themed styles
func GetStyles() theme.Styles {
	return theme.Current
}

// indicator renders a connection dot with its label.
func indicator(label string, ok bool) string {
	styles := GetStyles()
	if ok {
		return styles.Success.Render("● " + label)
	}
	return styles.Error.Render("○ " + label)
}

// renderMenu renders a vertical list with the cursor row highlighted.
func renderMenu(items []string, cursor int) string {
	styles := GetStyles()
	var b strings.Builder
	for i, item := range items {
		if i == cursor {
			b.WriteString(styles.MenuSelected.Render("> " + item))
		} else {
			b.WriteString(styles.MenuItem.Render("  " + item))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// spread places left and right on one line of the given width.
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// TruncateString truncates a string to a display width with ellipsis
func TruncateString(s string, max int) string {
	if max <= 0 {
		return s
	}
	return runewidth.Truncate(s, max, "…")
}

// PadRight pads a string to a display width
func PadRight(s string, width int) string {
	return runewidth.FillRight(TruncateString(s, width), width)
}

// window returns the [start, end) slice of n rows that keeps cursor
// visible in a viewport of size rows.
func window(n, cursor, size int) (int, int) {
	if size <= 0 || n <= size {
		return 0, n
	}
	start := 0
	if cursor >= size {
		start = cursor - size + 1
	}
	end := start + size
	if end > n {
		end = n
		start = end - size
	}
	return start, end
}
