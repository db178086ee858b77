package testutil

import (
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/google/uuid"
)

func newID() domain.ID { return domain.ID(uuid.New().String()) }

func today() domain.Date {
	return domain.NewDate(time.Now().UTC().Truncate(24 * time.Hour))
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectID(id domain.ID) ProjectOption {
	return func(p *domain.Project) { p.ID = id }
}

func WithProjectStatus(s domain.Status) ProjectOption {
	return func(p *domain.Project) { p.Status = s }
}

func WithProjectPriority(pr domain.Priority) ProjectOption {
	return func(p *domain.Project) { p.Priority = pr }
}

func WithProjectBudget(amount float64) ProjectOption {
	return func(p *domain.Project) { p.Budget = domain.Decimal(amount) }
}

// WithComputedProgress sets the backend's authoritative rollup.
func WithComputedProgress(v float64) ProjectOption {
	return func(p *domain.Project) { p.ComputedProgress = domain.DecimalPtr(v) }
}

func WithProjectDates(start, end domain.Date) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = start
		p.EndDate = end
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		ID:        newID(),
		Name:      name,
		Status:    domain.StatusInProgress,
		Priority:  domain.PriorityMedium,
		CreatedAt: today(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Worksite options
type WorksiteOption func(*domain.Worksite)

func WithWorksiteProgress(v float64) WorksiteOption {
	return func(w *domain.Worksite) { w.Progress = domain.DecimalPtr(v) }
}

func WithWorksiteComputedProgress(v float64) WorksiteOption {
	return func(w *domain.Worksite) { w.ComputedProgress = domain.DecimalPtr(v) }
}

func WithWorksiteStatus(s domain.Status) WorksiteOption {
	return func(w *domain.Worksite) { w.Status = s }
}

func WithWorksiteBudget(budget, used float64) WorksiteOption {
	return func(w *domain.Worksite) {
		w.Budget = domain.Decimal(budget)
		w.BudgetUsed = domain.Decimal(used)
	}
}

func NewTestWorksite(projectID domain.ID, name string, opts ...WorksiteOption) *domain.Worksite {
	w := &domain.Worksite{
		ID:        newID(),
		ProjectID: projectID,
		Name:      name,
		Status:    domain.StatusInProgress,
		Priority:  domain.PriorityMedium,
		CreatedAt: today(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Lot options
type LotOption func(*domain.Lot)

func WithLotProgress(v float64) LotOption {
	return func(l *domain.Lot) { l.Progress = domain.DecimalPtr(v) }
}

func WithLotComputedProgress(v float64) LotOption {
	return func(l *domain.Lot) { l.ComputedProgress = domain.DecimalPtr(v) }
}

func NewTestLot(worksiteID domain.ID, name string, opts ...LotOption) *domain.Lot {
	l := &domain.Lot{
		ID:         newID(),
		WorksiteID: worksiteID,
		Name:       name,
		Status:     domain.StatusPlanned,
		CreatedAt:  today(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskProgress(v float64) TaskOption {
	return func(t *domain.Task) { t.Progress = domain.DecimalPtr(v) }
}

func WithTaskStatus(s domain.Status) TaskOption {
	return func(t *domain.Task) { t.Status = s }
}

func NewTestTask(lotID domain.ID, name string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		ID:        newID(),
		LotID:     lotID,
		Name:      name,
		Status:    domain.StatusPlanned,
		Priority:  domain.PriorityMedium,
		CreatedAt: today(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestBudget(projectID domain.ID, planned, spent float64) *domain.Budget {
	return &domain.Budget{
		ID:            newID(),
		ProjectID:     projectID,
		PlannedAmount: domain.Decimal(planned),
		SpentAmount:   domain.Decimal(spent),
		Currency:      "EUR",
	}
}
