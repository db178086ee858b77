package viewmodel

import (
	"testing"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource[T any] struct {
	items   []T
	version uint64
}

func (f *fakeSource[T]) Items() []T      { return f.items }
func (f *fakeSource[T]) Version() uint64 { return f.version }

func (f *fakeSource[T]) set(items ...T) {
	f.items = items
	f.version++
}

func TestAggregator_MemoizesOnVersions(t *testing.T) {
	p := testutil.NewTestProject("Tour A")
	projects := &fakeSource[domain.Project]{}
	worksites := &fakeSource[domain.Worksite]{}
	budgets := &fakeSource[domain.Budget]{}
	projects.set(*p)

	agg := NewAggregator(projects, worksites, budgets)
	first := agg.Views()
	second := agg.Views()
	require.Len(t, first, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, agg.Computations())

	worksites.set(*testutil.NewTestWorksite(p.ID, "Nord", testutil.WithWorksiteProgress(80)))
	views := agg.Views()
	assert.Equal(t, 2, agg.Computations())
	assert.Equal(t, 80.0, views[0].Progress)

	budgets.set(*testutil.NewTestBudget(p.ID, 1000, 250))
	views = agg.Views()
	assert.Equal(t, 3, agg.Computations())
	assert.Equal(t, 250.0, views[0].BudgetUsed)
}

func TestAggregator_ReturnedSliceIsACopy(t *testing.T) {
	projects := &fakeSource[domain.Project]{}
	projects.set(*testutil.NewTestProject("Tour A"))
	agg := NewAggregator(projects, &fakeSource[domain.Worksite]{}, &fakeSource[domain.Budget]{})

	views := agg.Views()
	views[0].Name = "changed"
	assert.Equal(t, "Tour A", agg.Views()[0].Name)
}

func TestAggregator_Find(t *testing.T) {
	p := testutil.NewTestProject("Tour A")
	projects := &fakeSource[domain.Project]{}
	projects.set(*p)
	agg := NewAggregator(projects, &fakeSource[domain.Worksite]{}, &fakeSource[domain.Budget]{})

	v, ok := agg.Find(p.ID)
	assert.True(t, ok)
	assert.Equal(t, "Tour A", v.Name)

	_, ok = agg.Find("missing")
	assert.False(t, ok)
}
