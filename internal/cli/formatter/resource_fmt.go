package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/viewmodel"
)

func emptyOr(title string, rows [][]string, table func() string) string {
	if len(rows) == 0 {
		return RenderBox(title, Dim("Nothing to show."))
	}
	return RenderBox(title, table())
}

func FormatWorksiteList(worksites []viewmodel.WorksiteView) string {
	headers := []string{"ID", "NAME", "STATUS", "PROGRESS", "BUDGET", "USED", "END"}
	rows := make([][]string, 0, len(worksites))
	for _, w := range worksites {
		rows = append(rows, []string{
			TruncID(w.ID),
			Bold(w.Name),
			StatusPill(w.Status),
			RenderProgress(w.Progress, 10),
			FormatMoney(w.Budget, ""),
			FormatMoney(w.BudgetUsed, ""),
			DueCell(w.EndDate, w.Status),
		})
	}
	return emptyOr("Worksites", rows, func() string { return RenderTable(headers, rows, 4, 5) })
}

// FormatWorksiteDetail renders a worksite and its lots as a tree.
func FormatWorksiteDetail(w viewmodel.WorksiteView, lots []viewmodel.LotView) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(w.Name) + "  " + StatusPill(w.Status) + "\n")
	b.WriteString(RenderProgress(w.Progress, 16) + "\n")
	b.WriteString(Dim(fmt.Sprintf("%s → %s", DateCell(w.StartDate), DateCell(w.EndDate))) + "\n\n")
	if len(lots) == 0 {
		b.WriteString(Dim("No lots"))
		return RenderBox("Worksite", b.String())
	}
	items := make([]TreeItem, 0, len(lots))
	for i, l := range lots {
		items = append(items, TreeItem{
			Title:  l.Name,
			Level:  1,
			IsLast: i == len(lots)-1,
			Status: l.Status,
			Detail: FormatPercent(l.Progress),
		})
	}
	b.WriteString(RenderTree(items))
	return RenderBox("Worksite", b.String())
}

func FormatLotList(lots []viewmodel.LotView) string {
	headers := []string{"ID", "NAME", "STATUS", "PROGRESS", "START", "END"}
	rows := make([][]string, 0, len(lots))
	for _, l := range lots {
		rows = append(rows, []string{
			TruncID(l.ID),
			Bold(l.Name),
			StatusPill(l.Status),
			RenderProgress(l.Progress, 10),
			DateCell(l.StartDate),
			DueCell(l.EndDate, l.Status),
		})
	}
	return emptyOr("Lots", rows, func() string { return RenderTable(headers, rows) })
}

// FormatLotDetail renders a lot and its tasks.
func FormatLotDetail(l viewmodel.LotView, tasks []domain.Task) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(l.Name) + "  " + StatusPill(l.Status) + "\n")
	b.WriteString(RenderProgress(l.Progress, 16) + Dim(fmt.Sprintf("  %d/%d tasks done", l.DoneCount, l.TaskCount)) + "\n\n")
	items := make([]TreeItem, 0, len(tasks))
	for i, t := range tasks {
		detail := ""
		if t.Progress != nil {
			detail = FormatPercent(t.Progress.Float64())
		}
		if t.Assignee != "" {
			detail = strings.TrimSpace(detail + " " + t.Assignee)
		}
		items = append(items, TreeItem{
			Title:  t.Name,
			Level:  1,
			IsLast: i == len(tasks)-1,
			Status: domain.NormalizeStatus(t.Status),
			Detail: detail,
		})
	}
	if len(items) == 0 {
		b.WriteString(Dim("No tasks"))
	}
	b.WriteString(RenderTree(items))
	return RenderBox("Lot", b.String())
}

func FormatTaskList(tasks []domain.Task) string {
	headers := []string{"ID", "NAME", "STATUS", "PRIORITY", "ASSIGNEE", "PROGRESS", "COST", "END"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		progress := Dim("--")
		if t.Progress != nil {
			progress = FormatPercent(t.Progress.Float64())
		}
		cost := Dim("--")
		if t.Cost != nil {
			cost = FormatMoney(t.Cost.Float64(), "")
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			Bold(t.Name),
			StatusPill(t.Status),
			PriorityBadge(t.Priority),
			domain.CoalesceStr(t.Assignee, "-"),
			progress,
			cost,
			DueCell(t.EndDate, t.Status),
		})
	}
	return emptyOr("Tasks", rows, func() string { return RenderTable(headers, rows, 5, 6) })
}

func FormatBudgetList(budgets []domain.Budget) string {
	headers := []string{"ID", "PROJECT", "PLANNED", "SPENT", "REMAINING", "USAGE"}
	rows := make([][]string, 0, len(budgets))
	for _, b := range budgets {
		remaining := FormatMoney(b.Remaining(), b.Currency)
		if b.Remaining() < 0 {
			remaining = StyleRed.Render(remaining)
		}
		rows = append(rows, []string{
			TruncID(b.ID),
			b.ProjectID.String(),
			FormatMoney(b.PlannedAmount.Float64(), b.Currency),
			FormatMoney(b.SpentAmount.Float64(), b.Currency),
			remaining,
			RenderBudgetBar(b.SpentAmount.Float64(), b.PlannedAmount.Float64(), 10),
		})
	}
	return emptyOr("Budgets", rows, func() string { return RenderTable(headers, rows, 2, 3, 4) })
}

func FormatAlertList(alerts []domain.Alert) string {
	headers := []string{"ID", "PROJECT", "LEVEL", "TITLE", "RAISED", "STATE"}
	rows := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		state := StyleYellow.Render("open")
		if a.Resolved {
			state = Dim("resolved")
		}
		rows = append(rows, []string{
			TruncID(a.ID),
			a.ProjectID.String(),
			AlertColor(a.Level).Render(strings.ToUpper(domain.CoalesceStr(string(a.Level), string(domain.AlertInfo)))),
			Bold(a.Title),
			DateCell(a.CreatedAt),
			state,
		})
	}
	return emptyOr("Alerts", rows, func() string { return RenderTable(headers, rows) })
}

func FormatReportList(reports []domain.Report) string {
	headers := []string{"ID", "PROJECT", "TITLE", "TYPE", "CREATED"}
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{TruncID(r.ID), r.ProjectID.String(), Bold(r.Title), domain.CoalesceStr(r.Kind, "-"), DateCell(r.CreatedAt)})
	}
	return emptyOr("Reports", rows, func() string { return RenderTable(headers, rows) })
}

func FormatSupplierList(suppliers []domain.Supplier) string {
	headers := []string{"ID", "NAME", "CATEGORY", "CONTACT", "EMAIL", "PHONE"}
	rows := make([][]string, 0, len(suppliers))
	for _, s := range suppliers {
		rows = append(rows, []string{TruncID(s.ID), Bold(s.Name), domain.CoalesceStr(s.Category, "-"), domain.CoalesceStr(s.Contact, "-"), domain.CoalesceStr(s.Email, "-"), domain.CoalesceStr(s.Phone, "-")})
	}
	return emptyOr("Suppliers", rows, func() string { return RenderTable(headers, rows) })
}

func FormatResourceList(resources []domain.Resource) string {
	headers := []string{"ID", "NAME", "TYPE", "QUANTITY", "UNIT COST", "AVAILABLE"}
	rows := make([][]string, 0, len(resources))
	for _, r := range resources {
		avail := StyleGreen.Render("yes")
		if !r.Available {
			avail = StyleRed.Render("no")
		}
		qty := fmt.Sprintf("%g", r.Quantity.Float64())
		if r.Unit != "" {
			qty += " " + r.Unit
		}
		rows = append(rows, []string{TruncID(r.ID), Bold(r.Name), domain.CoalesceStr(r.Kind, "-"), qty, FormatMoney(r.UnitCost.Float64(), ""), avail})
	}
	return emptyOr("Resources", rows, func() string { return RenderTable(headers, rows, 3, 4) })
}

func FormatAIModelList(models []domain.AIModel) string {
	headers := []string{"ID", "NAME", "TYPE", "VERSION", "ACCURACY", "ACTIVE", "TRAINED"}
	rows := make([][]string, 0, len(models))
	for _, m := range models {
		acc := Dim("--")
		if m.Accuracy != nil {
			acc = fmt.Sprintf("%.1f%%", m.Accuracy.Float64())
		}
		active := Dim("no")
		if m.Active {
			active = StyleGreen.Render("yes")
		}
		rows = append(rows, []string{TruncID(m.ID), Bold(m.Name), domain.CoalesceStr(m.Kind, "-"), domain.CoalesceStr(m.Version, "-"), acc, active, DateCell(m.TrainedAt)})
	}
	return emptyOr("AI models", rows, func() string { return RenderTable(headers, rows, 4) })
}

func FormatUserList(users []domain.User) string {
	headers := []string{"ID", "USERNAME", "NAME", "EMAIL", "ROLE"}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{TruncID(u.ID), Bold(u.Username), u.DisplayName(), domain.CoalesceStr(u.Email, "-"), domain.CoalesceStr(u.Role, "-")})
	}
	return emptyOr("Users", rows, func() string { return RenderTable(headers, rows) })
}

// FormatWhoami renders the current user and the access token's expiry.
func FormatWhoami(u *domain.User, apiURL string, expires time.Time) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(u.DisplayName()) + "\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("USER   "), u.Username))
	if u.Role != "" {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ROLE   "), u.Role))
	}
	if apiURL != "" {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("API    "), apiURL))
	}
	if !expires.IsZero() {
		label := StyleRed.Render("expired " + HumanTimestamp(expires))
		if left := time.Until(expires); left > 0 {
			label = "in " + left.Round(time.Minute).String()
		}
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("EXPIRES"), label))
	}
	return RenderBox("Session", b.String())
}
