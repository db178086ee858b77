package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/viewmodel"
	"github.com/charmbracelet/lipgloss"
)

// FormatProjectList renders the aggregated projects inside a bordered box.
func FormatProjectList(views []viewmodel.ProjectView) string {
	if len(views) == 0 {
		return RenderBox("Projects", Dim("No projects yet. Create one with 'chantier project add'."))
	}
	headers := []string{"ID", "NAME", "STATUS", "PRIORITY", "PROGRESS", "BUDGET", "SPENT", "END"}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		spent := FormatMoney(v.BudgetUsed, "")
		if v.OverBudget() {
			spent = StyleRed.Render(spent)
		}
		rows = append(rows, []string{
			TruncID(v.ID),
			Bold(v.Name),
			StatusPill(v.Status),
			PriorityBadge(v.Priority),
			RenderProgress(v.Progress, 10),
			FormatMoney(v.Budget, ""),
			spent,
			DueCell(v.EndDate, v.Status),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows, 5, 6))
}

// FormatProjectDetail renders a project card: metadata on the left, its
// worksites on the right.
func FormatProjectDetail(v viewmodel.ProjectView) string {
	left := buildProjectPanel(v)
	right := buildWorksitePanel(v.Worksites)
	return RenderBox("", lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
}

func buildProjectPanel(v viewmodel.ProjectView) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(v.Name) + "\n")
	if v.Description != "" {
		b.WriteString(Dim(v.Description) + "\n")
	}
	b.WriteString("\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-8s", label)), value))
	}
	field("ID", Dim(v.ID.String()))
	field("STATUS", StatusPill(v.Status))
	field("PRIORITY", PriorityBadge(v.Priority))
	field("PROGRESS", RenderProgress(v.Progress, 12))
	field("BUDGET", FormatMoney(v.Budget, ""))
	field("SPENT", FormatMoney(v.BudgetUsed, ""))
	field("REMAINS", RenderBudgetBar(v.BudgetUsed, v.Budget, 12))
	field("START", DateCell(v.StartDate))
	field("END", DueCell(v.EndDate, v.Status))
	if v.Location != "" {
		field("SITE", v.Location)
	}
	if v.Manager != "" {
		field("MANAGER", v.Manager)
	}
	return lipgloss.NewStyle().Width(48).Render(b.String())
}

func buildWorksitePanel(worksites []viewmodel.WorksiteView) string {
	if len(worksites) == 0 {
		return StyleDim.Render("No worksites")
	}
	var b strings.Builder
	b.WriteString(StyleHeader.Render("WORKSITES") + "\n" + StyleDim.Render(strings.Repeat("─", 9)) + "\n")

	items := make([]TreeItem, 0, len(worksites))
	for i, w := range worksites {
		items = append(items, TreeItem{
			Title:  w.Name,
			Level:  1,
			IsLast: i == len(worksites)-1,
			Status: w.Status,
			Detail: FormatPercent(w.Progress),
		})
	}
	b.WriteString(RenderTree(items))
	return b.String()
}

// FormatSummary renders the dashboard header line.
func FormatSummary(t viewmodel.Totals) string {
	parts := []string{
		Bold(fmt.Sprintf("%d projects", t.Projects)),
		fmt.Sprintf("%d worksites", t.Worksites),
		"progress " + RenderProgress(t.Progress, 10),
		"spent " + FormatMoney(t.BudgetUsed, "") + Dim(" / "+FormatMoney(t.Budget, "")),
	}
	for _, s := range domain.ValidStatuses {
		if n := t.ByStatus[s]; n > 0 {
			parts = append(parts, StatusPill(s)+" "+fmt.Sprint(n))
		}
	}
	if t.OverBudget > 0 {
		parts = append(parts, StyleRed.Render(fmt.Sprintf("%d over budget", t.OverBudget)))
	}
	return strings.Join(parts, Dim("  ·  "))
}
