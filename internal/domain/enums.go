package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusOnHold     Status = "on_hold"
	StatusCompleted  Status = "completed"
)

// DefaultStatus replaces any status outside the closed enumeration.
const DefaultStatus = StatusInProgress

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DefaultPriority replaces any priority outside the closed enumeration.
const DefaultPriority = PriorityMedium

// ValidStatuses is the canonical ordered set of statuses.
var ValidStatuses = []Status{StatusPlanned, StatusInProgress, StatusOnHold, StatusCompleted}

// ValidPriorities is the canonical ordered set of priorities.
var ValidPriorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// statusAliases maps folded wire labels (canonical and French) to a status.
var statusAliases = map[string]Status{
	"planned":     StatusPlanned,
	"planifie":    StatusPlanned,
	"a_venir":     StatusPlanned,
	"in_progress": StatusInProgress,
	"en_cours":    StatusInProgress,
	"on_hold":     StatusOnHold,
	"en_pause":    StatusOnHold,
	"en_attente":  StatusOnHold,
	"suspendu":    StatusOnHold,
	"completed":   StatusCompleted,
	"termine":     StatusCompleted,
	"done":        StatusCompleted,
}

var priorityAliases = map[string]Priority{
	"high":    PriorityHigh,
	"haute":   PriorityHigh,
	"elevee":  PriorityHigh,
	"medium":  PriorityMedium,
	"moyenne": PriorityMedium,
	"normale": PriorityMedium,
	"low":     PriorityLow,
	"basse":   PriorityLow,
	"faible":  PriorityLow,
}

// ParseStatus resolves a wire label against the closed status enumeration.
// Matching ignores case, accents and the space/hyphen/underscore distinction.
func ParseStatus(raw string) (Status, bool) {
	s, ok := statusAliases[foldLabel(raw)]
	return s, ok
}

// NormalizeStatus is ParseStatus with the documented fallback.
func NormalizeStatus(raw Status) Status {
	if s, ok := ParseStatus(string(raw)); ok {
		return s
	}
	return DefaultStatus
}

// ParsePriority resolves a wire label against the closed priority enumeration.
func ParsePriority(raw string) (Priority, bool) {
	p, ok := priorityAliases[foldLabel(raw)]
	return p, ok
}

// NormalizePriority is ParsePriority with the documented fallback.
func NormalizePriority(raw Priority) Priority {
	if p, ok := ParsePriority(string(raw)); ok {
		return p
	}
	return DefaultPriority
}

// Label returns the human label for a status.
func (s Status) Label() string {
	switch s {
	case StatusPlanned:
		return "Planned"
	case StatusInProgress:
		return "In progress"
	case StatusOnHold:
		return "On hold"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// Label returns the human label for a priority.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return string(p)
	}
}

func foldLabel(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, raw)
	if err != nil {
		folded = raw
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(folded)
}
