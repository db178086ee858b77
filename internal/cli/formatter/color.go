package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Site-signage palette: hi-vis orange headers, hazard amber for work in
// progress, adaptive so light terminals stay readable.
var (
	ColorGreen  = lipgloss.AdaptiveColor{Light: "#2e7d32", Dark: "#8ec07c"}
	ColorYellow = lipgloss.AdaptiveColor{Light: "#b26a00", Dark: "#ffb300"}
	ColorRed    = lipgloss.AdaptiveColor{Light: "#c62828", Dark: "#ef5350"}
	ColorBlue   = lipgloss.AdaptiveColor{Light: "#1565c0", Dark: "#64b5f6"}
	ColorDim    = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9e9e9e"}
	ColorFg     = lipgloss.AdaptiveColor{Light: "#212121", Dark: "#eeeeee"}
	ColorHeader = lipgloss.AdaptiveColor{Light: "#e65100", Dark: "#ff6d00"}
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// PriorityColor returns the style for a priority level.
func PriorityColor(p domain.Priority) lipgloss.Style {
	switch domain.NormalizePriority(p) {
	case domain.PriorityHigh:
		return StyleRed
	case domain.PriorityLow:
		return StyleDim
	default:
		return StyleYellow
	}
}

// AlertColor returns the style for an alert level.
func AlertColor(level domain.AlertLevel) lipgloss.Style {
	switch level {
	case domain.AlertCritical:
		return StyleRed
	case domain.AlertWarning:
		return StyleYellow
	default:
		return StyleBlue
	}
}

// Header renders an upper-cased section title over a dim rule.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim mutes secondary text.
func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
