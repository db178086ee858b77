package domain

// Project is a top-level funded initiative ("Projet").
type Project struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	Budget      Decimal  `json:"budget"`
	StartDate   Date     `json:"start_date"`
	EndDate     Date     `json:"end_date"`
	Location    string   `json:"location,omitempty"`
	Manager     string   `json:"manager,omitempty"`

	// Progress is the raw stored percentage; ComputedProgress is the
	// backend's precomputed rollup and wins when present.
	Progress         *Decimal `json:"progress,omitempty"`
	ComputedProgress *Decimal `json:"computed_progress,omitempty"`

	CreatedAt Date `json:"created_at"`
	UpdatedAt Date `json:"updated_at"`
}

func (p Project) EntityID() ID { return p.ID }
