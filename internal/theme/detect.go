package theme

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// terminalColors is the subset of a terminal palette the roles map onto.
type terminalColors struct {
	Foreground string
	Background string
	Selection  string
	Red        string
	Green      string
	Yellow     string
	Blue       string
	Magenta    string
	Cyan       string
	Gray       string // bright black
}

func (tc terminalColors) palette() Palette {
	p := DefaultPalette()
	set := func(dst *string, c string) {
		if c = normalizeHex(c); hexColor.MatchString(c) {
			*dst = strings.ToLower(c)
		}
	}

	set(&p.Primary, tc.Cyan)
	set(&p.Secondary, tc.Magenta)
	set(&p.Success, tc.Green)
	set(&p.Warning, tc.Yellow)
	set(&p.Error, tc.Red)
	set(&p.Info, tc.Blue)

	switch {
	case tc.Gray != "":
		set(&p.Muted, tc.Gray)
	case tc.Foreground != "":
		set(&p.Muted, dimColor(tc.Foreground, 0.5))
	}

	switch {
	case tc.Selection != "":
		set(&p.SelectionBg, tc.Selection)
	case tc.Background != "" && tc.Foreground != "":
		set(&p.SelectionBg, MixColors(tc.Background, tc.Foreground, 0.15))
	}
	return p
}

// Detect reads the terminal palette from the first config found.
// Priority: Omarchy theme, Alacritty, Kitty, Foot.
func Detect() (Palette, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultPalette(), false
	}

	for _, path := range alacrittyPaths(home) {
		if tc, ok := parseAlacrittyTOML(path); ok {
			return tc.palette(), true
		}
	}
	if tc, ok := parseKittyConf(filepath.Join(home, ".config", "kitty", "kitty.conf")); ok {
		return tc.palette(), true
	}
	if tc, ok := parseFootINI(filepath.Join(home, ".config", "foot", "foot.ini")); ok {
		return tc.palette(), true
	}
	return DefaultPalette(), false
}

func alacrittyPaths(home string) []string {
	return []string{
		filepath.Join(home, ".config", "omarchy", "current", "theme", "alacritty.toml"),
		filepath.Join(home, ".config", "alacritty", "alacritty.toml"),
		filepath.Join(home, ".alacritty.toml"),
	}
}

// TerminalConfigDirs are the directories whose changes may alter Detect.
func TerminalConfigDirs() []string {
	home, _ := os.UserHomeDir()
	if home == "" {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "omarchy", "current", "theme"),
		filepath.Join(home, ".config", "alacritty"),
		filepath.Join(home, ".config", "kitty"),
		filepath.Join(home, ".config", "foot"),
	}
}

type ansiSet struct {
	Black   string `toml:"black"`
	Red     string `toml:"red"`
	Green   string `toml:"green"`
	Yellow  string `toml:"yellow"`
	Blue    string `toml:"blue"`
	Magenta string `toml:"magenta"`
	Cyan    string `toml:"cyan"`
	White   string `toml:"white"`
}

// AlacrittyConfig represents the relevant parts of alacritty.toml
type AlacrittyConfig struct {
	Colors struct {
		Primary struct {
			Background string `toml:"background"`
			Foreground string `toml:"foreground"`
		} `toml:"primary"`
		Selection struct {
			Background string `toml:"background"`
		} `toml:"selection"`
		Normal ansiSet `toml:"normal"`
		Bright ansiSet `toml:"bright"`
	} `toml:"colors"`
}

func parseAlacrittyTOML(path string) (terminalColors, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return terminalColors{}, false
	}

	var cfg AlacrittyConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return terminalColors{}, false
	}

	c := cfg.Colors
	if c.Primary.Foreground == "" && c.Normal.Cyan == "" {
		return terminalColors{}, false
	}

	return terminalColors{
		Foreground: c.Primary.Foreground,
		Background: c.Primary.Background,
		Selection:  c.Selection.Background,
		Red:        c.Normal.Red,
		Green:      c.Normal.Green,
		Yellow:     c.Normal.Yellow,
		Blue:       c.Normal.Blue,
		Magenta:    c.Normal.Magenta,
		Cyan:       c.Normal.Cyan,
		Gray:       c.Bright.Black,
	}, true
}

func parseKittyConf(path string) (terminalColors, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return terminalColors{}, false
	}

	var tc terminalColors
	fields := map[string]*string{
		"foreground":           &tc.Foreground,
		"background":           &tc.Background,
		"selection_background": &tc.Selection,
		"color1":               &tc.Red,
		"color2":               &tc.Green,
		"color3":               &tc.Yellow,
		"color4":               &tc.Blue,
		"color5":               &tc.Magenta,
		"color6":               &tc.Cyan,
		"color8":               &tc.Gray,
	}
	found := false

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		if dst, ok := fields[parts[0]]; ok {
			*dst = parts[1]
			found = true
		}
	}
	return tc, found
}

func parseFootINI(path string) (terminalColors, bool) {
	cfg, err := ini.Load(path)
	if err != nil {
		return terminalColors{}, false
	}

	colors := cfg.Section("colors")
	tc := terminalColors{
		Foreground: colors.Key("foreground").String(),
		Background: colors.Key("background").String(),
		Selection:  colors.Key("selection-background").String(),
		Red:        colors.Key("regular1").String(),
		Green:      colors.Key("regular2").String(),
		Yellow:     colors.Key("regular3").String(),
		Blue:       colors.Key("regular4").String(),
		Magenta:    colors.Key("regular5").String(),
		Cyan:       colors.Key("regular6").String(),
		Gray:       colors.Key("bright0").String(),
	}
	if tc.Foreground == "" && tc.Cyan == "" {
		return terminalColors{}, false
	}
	return tc, true
}

// normalizeHex ensures color is in #RRGGBB format
func normalizeHex(color string) string {
	color = strings.TrimSpace(color)

	// Handle 0xRRGGBB format
	if strings.HasPrefix(color, "0x") || strings.HasPrefix(color, "0X") {
		color = "#" + color[2:]
	}

	if !strings.HasPrefix(color, "#") {
		color = "#" + color
	}

	if hexColor.MatchString(color) {
		return color
	}

	// Handle shorthand #RGB
	if matched, _ := regexp.MatchString(`^#[0-9a-fA-F]{3}$`, color); matched {
		r, g, b := color[1:2], color[2:3], color[3:4]
		return "#" + r + r + g + g + b + b
	}

	return color
}

// dimColor reduces the brightness of a hex color
func dimColor(hex string, factor float64) string {
	hex = normalizeHex(hex)
	if len(hex) != 7 {
		return hex
	}

	r := byte(float64(hexToByte(hex[1:3])) * factor)
	g := byte(float64(hexToByte(hex[3:5])) * factor)
	b := byte(float64(hexToByte(hex[5:7])) * factor)

	return "#" + byteToHex(r) + byteToHex(g) + byteToHex(b)
}

// MixColors blends two colors together
func MixColors(hex1, hex2 string, t float64) string {
	hex1, hex2 = normalizeHex(hex1), normalizeHex(hex2)
	if len(hex1) != 7 || len(hex2) != 7 {
		return hex1
	}

	r1, g1, b1 := hexToByte(hex1[1:3]), hexToByte(hex1[3:5]), hexToByte(hex1[5:7])
	r2, g2, b2 := hexToByte(hex2[1:3]), hexToByte(hex2[3:5]), hexToByte(hex2[5:7])

	r := byte(float64(r1)*(1-t) + float64(r2)*t)
	g := byte(float64(g1)*(1-t) + float64(g2)*t)
	b := byte(float64(b1)*(1-t) + float64(b2)*t)

	return "#" + byteToHex(r) + byteToHex(g) + byteToHex(b)
}

func hexToByte(s string) byte {
	var v byte
	for _, c := range strings.ToLower(s) {
		v *= 16
		if c >= '0' && c <= '9' {
			v += byte(c - '0')
		} else if c >= 'a' && c <= 'f' {
			v += byte(c - 'a' + 10)
		}
	}
	return v
}

func byteToHex(b byte) string {
	const hex = "0123456789abcdef"
	return string([]byte{hex[b>>4], hex[b&0x0f]})
}
