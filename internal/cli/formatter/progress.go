package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chantier/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a percentage (0-100) as a bar like [████░░░░]  45%.
// The bar is green above 66%, yellow from 33%, red below.
func RenderProgress(pct float64, width int) string {
	pct = domain.ClampProgress(pct)
	width = max(width, 2)

	filled := min(int(pct/100*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct < 33:
		style = StyleRed
	case pct < 66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct)
}

// RenderBudgetBar shows spending against a budget; spending past the
// budget fills the bar in red.
func RenderBudgetBar(used, budget float64, width int) string {
	if budget <= 0 {
		return Dim("no budget")
	}
	pct := used / budget * 100
	bar := RenderProgress(100-min(pct, 100), width)
	if pct > 100 {
		return StyleRed.Render(fmt.Sprintf("over by %.0f%%", pct-100))
	}
	return bar
}
