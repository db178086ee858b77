package viewmodel

import (
	"github.com/alexanderramin/chantier/internal/domain"
)

// LotView is a lot with progress rolled up from its tasks.
type LotView struct {
	ID         domain.ID
	WorksiteID domain.ID
	Name       string
	Status     domain.Status
	Progress   float64
	TaskCount  int
	DoneCount  int
	StartDate  domain.Date
	EndDate    domain.Date
}

// RollupLot resolves a lot's progress: the authoritative value, else the
// mean over its tasks, else its raw value, else 0. Tasks belonging to
// another lot are ignored.
func RollupLot(l domain.Lot, tasks []domain.Task) LotView {
	v := LotView{
		ID:         l.ID,
		WorksiteID: l.WorksiteID,
		Name:       l.Name,
		Status:     domain.NormalizeStatus(l.Status),
	}
	v.StartDate, v.EndDate = resolveDates(l.StartDate, l.EndDate, l.CreatedAt)

	var children []float64
	for _, t := range tasks {
		if t.LotID != l.ID {
			continue
		}
		v.TaskCount++
		status := domain.NormalizeStatus(t.Status)
		if status == domain.StatusCompleted {
			v.DoneCount++
		}
		children = append(children, taskProgress(t, status))
	}

	v.Progress = rollup(l.ComputedProgress, l.Progress, children)
	return v
}

// taskProgress counts a task without a stored percentage as done or not.
func taskProgress(t domain.Task, status domain.Status) float64 {
	if t.Progress != nil {
		return domain.ClampProgress(t.Progress.Float64())
	}
	if status == domain.StatusCompleted {
		return 100
	}
	return 0
}

// RollupWorksite resolves a worksite's progress from its lots the same way
// RollupLot does from tasks. Each lot contributes its own authoritative or
// raw value.
func RollupWorksite(w domain.Worksite, lots []domain.Lot) (WorksiteView, []LotView) {
	v := worksiteView(w)
	var children []float64
	lotViews := make([]LotView, 0, len(lots))
	for _, l := range lots {
		if l.WorksiteID != w.ID {
			continue
		}
		lv := RollupLot(l, nil)
		lotViews = append(lotViews, lv)
		children = append(children, lv.Progress)
	}
	v.Progress = rollup(w.ComputedProgress, w.Progress, children)
	return v, lotViews
}

func rollup(authoritative, raw *domain.Decimal, children []float64) float64 {
	if authoritative != nil {
		return domain.ClampProgress(authoritative.Float64())
	}
	if len(children) > 0 {
		return domain.MeanProgress(children)
	}
	if raw != nil {
		return domain.ClampProgress(raw.Float64())
	}
	return 0
}
