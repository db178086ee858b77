// Package viewmodel joins the project, worksite and budget collections into
// the denormalized rows every display surface renders. Nothing here does
// I/O.
package viewmodel

import (
	"github.com/alexanderramin/chantier/internal/domain"
)

// WorksiteView is a worksite with its display progress resolved.
type WorksiteView struct {
	ID         domain.ID
	ProjectID  domain.ID
	Name       string
	Status     domain.Status
	Priority   domain.Priority
	Progress   float64
	Budget     float64
	BudgetUsed float64
	StartDate  domain.Date
	EndDate    domain.Date
	Location   string
	Manager    string
}

// ProjectView is a fully resolved project row.
//
// StartDate falls back to the creation date and EndDate to StartDate. A
// record with no start, end or creation date has nothing to fall back on:
// both stay zero and render as "--". No date is made up for it.
type ProjectView struct {
	ID          domain.ID
	Name        string
	Description string
	Status      domain.Status
	Priority    domain.Priority
	Progress    float64
	Budget      float64
	BudgetUsed  float64
	StartDate   domain.Date
	EndDate     domain.Date
	Location    string
	Manager     string

	// Worksites are the children the progress was derived from.
	Worksites []WorksiteView
}

// Remaining is the unspent budget; negative when over budget.
func (p ProjectView) Remaining() float64 { return p.Budget - p.BudgetUsed }

// OverBudget reports whether spending exceeds a non-zero budget.
func (p ProjectView) OverBudget() bool { return p.Budget > 0 && p.BudgetUsed > p.Budget }

// Aggregate builds one ProjectView per project, in input order. Worksites
// and budgets whose project is absent are ignored.
func Aggregate(projects []domain.Project, worksites []domain.Worksite, budgets []domain.Budget) []ProjectView {
	byProject := make(map[domain.ID][]domain.Worksite, len(projects))
	for _, w := range worksites {
		byProject[w.ProjectID] = append(byProject[w.ProjectID], w)
	}
	budgetOf := make(map[domain.ID]domain.Budget, len(budgets))
	for _, b := range budgets {
		if _, seen := budgetOf[b.ProjectID]; !seen {
			budgetOf[b.ProjectID] = b
		}
	}

	out := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectView(p, byProject[p.ID], budgetOf))
	}
	return out
}

func projectView(p domain.Project, worksites []domain.Worksite, budgetOf map[domain.ID]domain.Budget) ProjectView {
	views := make([]WorksiteView, 0, len(worksites))
	progress := make([]float64, 0, len(worksites))
	for _, w := range worksites {
		wv := worksiteView(w)
		views = append(views, wv)
		progress = append(progress, wv.Progress)
	}

	v := ProjectView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      domain.NormalizeStatus(p.Status),
		Priority:    domain.NormalizePriority(p.Priority),
		Budget:      p.Budget.Float64(),
		Location:    p.Location,
		Manager:     p.Manager,
		Worksites:   views,
	}

	if p.ComputedProgress != nil {
		v.Progress = domain.ClampProgress(p.ComputedProgress.Float64())
	} else {
		v.Progress = domain.MeanProgress(progress)
	}

	if b, ok := budgetOf[p.ID]; ok {
		v.Budget = b.PlannedAmount.Float64()
		v.BudgetUsed = b.SpentAmount.Float64()
	}

	v.StartDate, v.EndDate = resolveDates(p.StartDate, p.EndDate, p.CreatedAt)
	return v
}

func worksiteView(w domain.Worksite) WorksiteView {
	progress, _ := domain.ResolveProgress(w.ComputedProgress, w.Progress)
	start, end := resolveDates(w.StartDate, w.EndDate, w.CreatedAt)
	return WorksiteView{
		ID:         w.ID,
		ProjectID:  w.ProjectID,
		Name:       w.Name,
		Status:     domain.NormalizeStatus(w.Status),
		Priority:   domain.NormalizePriority(w.Priority),
		Progress:   progress,
		Budget:     w.Budget.Float64(),
		BudgetUsed: w.BudgetUsed.Float64(),
		StartDate:  start,
		EndDate:    end,
		Location:   w.Location,
		Manager:    w.Manager,
	}
}

// resolveDates applies the display fallbacks: start falls back to the
// creation date, end to the start. With all three missing both stay zero.
func resolveDates(start, end, created domain.Date) (domain.Date, domain.Date) {
	start = domain.CoalesceDate(start, created)
	end = domain.CoalesceDate(end, start)
	return start, end
}
