package viewmodel

import (
	"github.com/alexanderramin/chantier/internal/domain"
)

// Totals is the dashboard header.
type Totals struct {
	Projects   int
	Worksites  int
	Budget     float64
	BudgetUsed float64
	Progress   float64
	OverBudget int
	ByStatus   map[domain.Status]int
}

// Summary totals a set of project views. Progress is the rounded mean of
// the projects' progress.
func Summary(views []ProjectView) Totals {
	t := Totals{ByStatus: make(map[domain.Status]int, len(domain.ValidStatuses))}
	progress := make([]float64, 0, len(views))
	for _, v := range views {
		t.Projects++
		t.Worksites += len(v.Worksites)
		t.Budget += v.Budget
		t.BudgetUsed += v.BudgetUsed
		t.ByStatus[v.Status]++
		if v.OverBudget() {
			t.OverBudget++
		}
		progress = append(progress, v.Progress)
	}
	t.Progress = domain.MeanProgress(progress)
	return t
}
