// ABOUTME: Icon set with Nerd Font detection and Unicode fallback
// ABOUTME: Keeps iconography consistent across terminal capabilities

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// detectNerdFonts checks if Nerd Fonts should be used
func detectNerdFonts() bool {
	if env := os.Getenv("ASISTENTE_NEAE_NERD_FONTS"); env != "" {
		return env == "1" || strings.ToLower(env) == "true"
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	// Terminals that ship with Nerd Font friendly defaults
	nerdFontTerminals := []string{
		"iTerm.app",
		"alacritty",
		"WezTerm",
		"kitty",
		"ghostty",
	}

	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	if os.Getenv("NERD_FONTS") == "1" {
		return true
	}

	return false
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Icon definitions
var (
	// Application
	App  = Icon{"󰭹", "◈"} // nf-md-chat
	User = Icon{"󰀄", "▸"} // nf-md-account

	// Connection status
	Connected  = Icon{"", "✓"} // nf-oct-check_circle
	Connecting = Icon{"󰔟", "…"} // nf-md-timer_sand
	Error      = Icon{"", "✗"} // nf-oct-x_circle

	// Actions
	Send   = Icon{"󰒊", "➤"} // nf-md-send
	Login  = Icon{"󰍂", "→"} // nf-md-login
	Logout = Icon{"󰍃", "←"} // nf-md-logout
	Export = Icon{"󰈝", "⇓"} // nf-md-file_export
	Quit   = Icon{"󰗼", "×"} // nf-md-exit_to_app

	// Quota
	Usage = Icon{"󰄨", "▮"} // nf-md-chart_bar
	Key   = Icon{"󰌆", "⚿"} // nf-md-key
)
