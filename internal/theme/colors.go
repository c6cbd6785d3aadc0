package theme

import (
	"strconv"
	"strings"

	"github.com/litescript/prowlarr-tui/internal/config"
)

var ansiNames = map[string]int{
	"black": 0, "red": 1, "green": 2, "yellow": 3,
	"blue": 4, "magenta": 5, "cyan": 6, "white": 7,
	"gray": 8, "grey": 8, "blackbright": 8,
	"redbright": 9, "greenbright": 10, "yellowbright": 11,
	"bluebright": 12, "magentabright": 13, "cyanbright": 14, "whitebright": 15,
}

// ResolveColor turns a color identifier into a lipgloss color value.
// Accepted: ANSI names (cyan, gray, blueBright), ANSI indexes 0-255,
// and hex (#rgb, #rrggbb, 0xrrggbb).
func ResolveColor(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}

	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
	if n, ok := ansiNames[key]; ok {
		return strconv.Itoa(n), true
	}

	if n, err := strconv.Atoi(name); err == nil {
		if n >= 0 && n <= 255 {
			return strconv.Itoa(n), true
		}
		return "", false
	}

	hex := normalizeHex(name)
	if hexColor.MatchString(hex) {
		return strings.ToLower(hex), true
	}
	return "", false
}

// Presets are the built-in role sets. "terminal" and "custom" are not
// listed; they are resolved at apply time.
var Presets = map[string]config.ThemeConfig{
	"default": config.Default().Theme,
	"ocean": {
		Preset: "ocean", Primary: "#5fafd7", Secondary: "#87afff", Success: "#5fd7af",
		Warning: "#ffd787", Error: "#ff8787", Info: "#00afd7", Muted: "#6c7a89",
	},
	"forest": {
		Preset: "forest", Primary: "#87af5f", Secondary: "#d7af5f", Success: "#5faf5f",
		Warning: "#d7875f", Error: "#d75f5f", Info: "#5f8787", Muted: "#707a65",
	},
	"mono": {
		Preset: "mono", Primary: "white", Secondary: "whiteBright", Success: "white",
		Warning: "whiteBright", Error: "whiteBright", Info: "white", Muted: "gray",
	},
}
