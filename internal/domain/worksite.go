package domain

// Worksite is a physical construction site ("Chantier") under a Project.
type Worksite struct {
	ID               ID       `json:"id"`
	ProjectID        ID       `json:"project_id"`
	Name             string   `json:"name"`
	Status           Status   `json:"status"`
	Priority         Priority `json:"priority"`
	Progress         *Decimal `json:"progress,omitempty"`
	ComputedProgress *Decimal `json:"computed_progress,omitempty"`
	Budget           Decimal  `json:"budget"`
	BudgetUsed       Decimal  `json:"budget_used"`
	StartDate        Date     `json:"start_date"`
	EndDate          Date     `json:"end_date"`
	Location         string   `json:"location,omitempty"`
	Manager          string   `json:"manager,omitempty"`
	CreatedAt        Date     `json:"created_at"`
}

func (w Worksite) EntityID() ID { return w.ID }

// Lot is a work-package within a Worksite.
type Lot struct {
	ID               ID       `json:"id"`
	WorksiteID       ID       `json:"worksite_id"`
	Name             string   `json:"name"`
	Status           Status   `json:"status"`
	Progress         *Decimal `json:"progress,omitempty"`
	ComputedProgress *Decimal `json:"computed_progress,omitempty"`
	StartDate        Date     `json:"start_date"`
	EndDate          Date     `json:"end_date"`
	CreatedAt        Date     `json:"created_at"`
}

func (l Lot) EntityID() ID { return l.ID }

// Task ("Tâche") is an atomic unit of work within a Lot.
type Task struct {
	ID        ID       `json:"id"`
	LotID     ID       `json:"lot_id"`
	Name      string   `json:"name"`
	Status    Status   `json:"status"`
	Priority  Priority `json:"priority"`
	Assignee  string   `json:"assignee,omitempty"`
	StartDate Date     `json:"start_date"`
	EndDate   Date     `json:"end_date"`
	Cost      *Decimal `json:"cost,omitempty"`
	Progress  *Decimal `json:"progress,omitempty"`
	CreatedAt Date     `json:"created_at"`
}

func (t Task) EntityID() ID { return t.ID }
