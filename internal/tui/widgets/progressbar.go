// ABOUTME: Usage quota progress bar for the chat header
// ABOUTME: Colors shift as the key approaches its usage limit

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// QuotaBarConfig holds configuration for the quota bar.
type QuotaBarConfig struct {
	Width         int
	WarnThreshold float64 // Percentage where the warning zone starts
	CritThreshold float64 // Percentage where the critical zone starts
	OKColor       lipgloss.Color
	WarnColor     lipgloss.Color
	CritColor     lipgloss.Color
	EmptyColor    lipgloss.Color
}

// DefaultQuotaBarConfig returns sensible defaults.
func DefaultQuotaBarConfig() QuotaBarConfig {
	return QuotaBarConfig{
		Width:         16,
		WarnThreshold: 70,
		CritThreshold: 90,
		OKColor:       lipgloss.Color("#10B981"),
		WarnColor:     lipgloss.Color("#F59E0B"),
		CritColor:     lipgloss.Color("#EF4444"),
		EmptyColor:    lipgloss.Color("#374151"),
	}
}

// QuotaBar renders a colored bar for the given usage percentage.
func QuotaBar(percent float64, config QuotaBarConfig) string {
	if config.Width <= 0 {
		config.Width = 16
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(config.Width))
	if filled > config.Width {
		filled = config.Width
	}

	color := config.OKColor
	if percent >= config.CritThreshold {
		color = config.CritColor
	} else if percent >= config.WarnThreshold {
		color = config.WarnColor
	}

	filledStyle := lipgloss.NewStyle().Foreground(color)
	emptyStyle := lipgloss.NewStyle().Foreground(config.EmptyColor)

	var bar strings.Builder
	bar.WriteString("[")
	bar.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	bar.WriteString(emptyStyle.Render(strings.Repeat("░", config.Width-filled)))
	bar.WriteString("]")
	return bar.String()
}

// UsageDisplay renders the "Uso: N / M" counter with its quota bar.
func UsageDisplay(usageCount, maxUses int, config QuotaBarConfig) string {
	label := fmt.Sprintf("Uso: %d / %d", usageCount, maxUses)
	if maxUses <= 0 {
		return label
	}
	percent := float64(usageCount) / float64(maxUses) * 100
	return fmt.Sprintf("%s %s", QuotaBar(percent, config), label)
}
