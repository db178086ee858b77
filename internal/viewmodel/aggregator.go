package viewmodel

import (
	"slices"
	"sync"

	"github.com/alexanderramin/chantier/internal/domain"
)

// Source is a versioned collection, satisfied by *store.Store[T].
type Source[T any] interface {
	Items() []T
	Version() uint64
}

// Aggregator memoizes Aggregate on the versions of its three sources and
// recomputes wholesale whenever any of them changes.
type Aggregator struct {
	projects  Source[domain.Project]
	worksites Source[domain.Worksite]
	budgets   Source[domain.Budget]

	mu       sync.Mutex
	key      [3]uint64
	valid    bool
	views    []ProjectView
	computed int
}

func NewAggregator(projects Source[domain.Project], worksites Source[domain.Worksite], budgets Source[domain.Budget]) *Aggregator {
	return &Aggregator{projects: projects, worksites: worksites, budgets: budgets}
}

// Views returns the current aggregated rows. Callers must not modify the
// nested Worksites slices.
func (a *Aggregator) Views() []ProjectView {
	// Versions are read before items: a change landing in between leaves
	// an older key behind and forces the next call to recompute.
	key := [3]uint64{a.projects.Version(), a.worksites.Version(), a.budgets.Version()}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.valid || a.key != key {
		a.views = Aggregate(a.projects.Items(), a.worksites.Items(), a.budgets.Items())
		a.key = key
		a.valid = true
		a.computed++
	}
	return slices.Clone(a.views)
}

// Find returns the view of project id.
func (a *Aggregator) Find(id domain.ID) (ProjectView, bool) {
	for _, v := range a.Views() {
		if v.ID == id {
			return v, true
		}
	}
	return ProjectView{}, false
}

// Computations reports how many times the join actually ran.
func (a *Aggregator) Computations() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.computed
}
