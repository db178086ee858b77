package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// RelativeDate returns a human-friendly relative date string.
func RelativeDate(t time.Time) string {
	return RelativeDateFrom(t, time.Now())
}

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := t.Sub(now)
	days := int(math.Round(diff.Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// DueCell renders an end date with urgency coloring for unfinished work.
func DueCell(end domain.Date, status domain.Status) string {
	if end.IsZero() {
		return Dim("--")
	}
	if domain.NormalizeStatus(status) == domain.StatusCompleted {
		return Dim(end.String())
	}
	days := int(math.Round(time.Until(end.Time).Hours() / 24))
	text := end.String()
	switch {
	case days < 0:
		return StyleRed.Render(text + " (" + RelativeDate(end.Time) + ")")
	case days <= 7:
		return StyleYellow.Render(text + " (" + RelativeDate(end.Time) + ")")
	default:
		return StyleFg.Render(text)
	}
}

// DateCell renders a date or a dim placeholder.
func DateCell(d domain.Date) string {
	if d.IsZero() {
		return Dim("--")
	}
	return d.String()
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// StatusPill returns a colored status indicator.
func StatusPill(status domain.Status) string {
	s := domain.NormalizeStatus(status)
	switch s {
	case domain.StatusPlanned:
		return StyleBlue.Render("○ " + s.Label())
	case domain.StatusInProgress:
		return StyleGreen.Render("● " + s.Label())
	case domain.StatusOnHold:
		return StyleYellow.Render("◐ " + s.Label())
	case domain.StatusCompleted:
		return StyleDim.Render("✔ " + s.Label())
	default:
		return StyleDim.Render(string(status))
	}
}

// PriorityBadge returns a colored priority label.
func PriorityBadge(p domain.Priority) string {
	n := domain.NormalizePriority(p)
	return PriorityColor(n).Render(n.Label())
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id domain.ID) string {
	s := id.String()
	if len(s) > 8 {
		s = s[:8]
	}
	return StyleDim.Render(s)
}

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney renders an amount with grouping and two decimals, followed
// by the currency code when known.
func FormatMoney(amount float64, currency string) string {
	s := moneyPrinter.Sprintf("%.2f", amount)
	if currency != "" {
		s += " " + currency
	}
	return s
}

// FormatPercent renders a 0-100 value as a whole percentage.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.0f%%", domain.ClampProgress(pct))
}
