package domain

// Budget is the 1:1 financial record of a Project. Both amounts may arrive
// as numeric strings.
type Budget struct {
	ID            ID      `json:"id"`
	ProjectID     ID      `json:"project_id"`
	PlannedAmount Decimal `json:"planned_amount"`
	SpentAmount   Decimal `json:"spent_amount"`
	Currency      string  `json:"currency,omitempty"`
	UpdatedAt     Date    `json:"updated_at"`
}

func (b Budget) EntityID() ID { return b.ID }

// Remaining returns the unspent part of the planned amount.
func (b Budget) Remaining() float64 {
	return b.PlannedAmount.Float64() - b.SpentAmount.Float64()
}
