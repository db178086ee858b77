package domain

// Supplier is a vendor delivering materials or services.
type Supplier struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Contact  string `json:"contact,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Category string `json:"category,omitempty"`
}

func (s Supplier) EntityID() ID { return s.ID }

// Resource is a material, machine or crew that can be booked on a site.
type Resource struct {
	ID        ID      `json:"id"`
	Name      string  `json:"name"`
	Kind      string  `json:"type,omitempty"`
	Quantity  Decimal `json:"quantity"`
	Unit      string  `json:"unit,omitempty"`
	UnitCost  Decimal `json:"unit_cost"`
	Available bool    `json:"available"`
}

func (r Resource) EntityID() ID { return r.ID }

// Report is a generated or uploaded project report.
type Report struct {
	ID        ID     `json:"id"`
	ProjectID ID     `json:"project_id"`
	Title     string `json:"title"`
	Kind      string `json:"type,omitempty"`
	Content   string `json:"content,omitempty"`
	CreatedAt Date   `json:"created_at"`
}

func (r Report) EntityID() ID { return r.ID }

type AlertLevel string

const (
	AlertInfo     AlertLevel = "info"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

// Alert is a notification raised against a project.
type Alert struct {
	ID        ID         `json:"id"`
	ProjectID ID         `json:"project_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message,omitempty"`
	Level     AlertLevel `json:"level"`
	Resolved  bool       `json:"resolved"`
	CreatedAt Date       `json:"created_at"`
}

func (a Alert) EntityID() ID { return a.ID }

// AIModel is a predictive model registered with the backend.
type AIModel struct {
	ID        ID       `json:"id"`
	Name      string   `json:"name"`
	Kind      string   `json:"type,omitempty"`
	Version   string   `json:"version,omitempty"`
	Accuracy  *Decimal `json:"accuracy,omitempty"`
	Active    bool     `json:"active"`
	TrainedAt Date     `json:"trained_at"`
}

func (m AIModel) EntityID() ID { return m.ID }

// User is an account known to the backend. The current user is also
// persisted with the session.
type User struct {
	ID        ID     `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role,omitempty"`
}

func (u User) EntityID() ID { return u.ID }

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	full := CoalesceStr(joinNonEmpty(u.FirstName, u.LastName), u.Username)
	return CoalesceStr(full, string(u.ID))
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
