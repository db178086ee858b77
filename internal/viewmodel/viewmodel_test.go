package viewmodel

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAggregate_ProgressIsRoundedMeanOfWorksites(t *testing.T) {
	p := testutil.NewTestProject("Tour A")
	worksites := []domain.Worksite{
		*testutil.NewTestWorksite(p.ID, "Nord", testutil.WithWorksiteProgress(0)),
		*testutil.NewTestWorksite(p.ID, "Sud", testutil.WithWorksiteProgress(0)),
		*testutil.NewTestWorksite(p.ID, "Est", testutil.WithWorksiteProgress(100)),
	}

	views := Aggregate([]domain.Project{*p}, worksites, nil)
	require.Len(t, views, 1)
	assert.Equal(t, 33.0, views[0].Progress)
	assert.Len(t, views[0].Worksites, 3)
}

func TestAggregate_ClampsWorksiteProgressBeforeMean(t *testing.T) {
	p := testutil.NewTestProject("Tour A")
	worksites := []domain.Worksite{
		*testutil.NewTestWorksite(p.ID, "a", testutil.WithWorksiteProgress(-50)),
		*testutil.NewTestWorksite(p.ID, "b", testutil.WithWorksiteProgress(150)),
		*testutil.NewTestWorksite(p.ID, "c", testutil.WithWorksiteProgress(50)),
	}

	views := Aggregate([]domain.Project{*p}, worksites, nil)
	assert.Equal(t, 50.0, views[0].Progress)
	assert.Equal(t, 0.0, views[0].Worksites[0].Progress)
	assert.Equal(t, 100.0, views[0].Worksites[1].Progress)
}

func TestAggregate_WorksiteAuthoritativeProgressWins(t *testing.T) {
	p := testutil.NewTestProject("Tour A")
	w := testutil.NewTestWorksite(p.ID, "Nord",
		testutil.WithWorksiteProgress(10),
		testutil.WithWorksiteComputedProgress(70),
	)
	views := Aggregate([]domain.Project{*p}, []domain.Worksite{*w}, nil)
	assert.Equal(t, 70.0, views[0].Progress)
}

func TestAggregate_WorksiteWithoutProgressCountsZero(t *testing.T) {
	p := testutil.NewTestProject("Tour A")
	worksites := []domain.Worksite{
		*testutil.NewTestWorksite(p.ID, "a"),
		*testutil.NewTestWorksite(p.ID, "b", testutil.WithWorksiteProgress(60)),
	}
	views := Aggregate([]domain.Project{*p}, worksites, nil)
	assert.Equal(t, 30.0, views[0].Progress)
}

func TestAggregate_NoWorksitesIsZero(t *testing.T) {
	p := testutil.NewTestProject("Vide")
	views := Aggregate([]domain.Project{*p}, nil, nil)
	assert.Equal(t, 0.0, views[0].Progress)
	assert.Empty(t, views[0].Worksites)
}

func TestAggregate_ProjectAuthoritativeProgressWins(t *testing.T) {
	p := testutil.NewTestProject("Tour A", testutil.WithComputedProgress(142))
	w := testutil.NewTestWorksite(p.ID, "Nord", testutil.WithWorksiteProgress(10))

	views := Aggregate([]domain.Project{*p}, []domain.Worksite{*w}, nil)
	assert.Equal(t, 100.0, views[0].Progress, "authoritative value is clamped too")

	p2 := testutil.NewTestProject("Tour B", testutil.WithComputedProgress(25))
	views = Aggregate([]domain.Project{*p2}, nil, nil)
	assert.Equal(t, 25.0, views[0].Progress)
}

func TestAggregate_OrphansExcluded(t *testing.T) {
	p := testutil.NewTestProject("Tour A")
	worksites := []domain.Worksite{
		*testutil.NewTestWorksite(p.ID, "mine", testutil.WithWorksiteProgress(80)),
		*testutil.NewTestWorksite("ghost", "orphan", testutil.WithWorksiteProgress(0)),
	}
	budgets := []domain.Budget{*testutil.NewTestBudget("ghost", 1, 1)}

	views := Aggregate([]domain.Project{*p}, worksites, budgets)
	require.Len(t, views, 1)
	assert.Equal(t, 80.0, views[0].Progress)
	require.Len(t, views[0].Worksites, 1)
	assert.Equal(t, "mine", views[0].Worksites[0].Name)
	assert.Zero(t, views[0].BudgetUsed)
}

func TestAggregate_BudgetFromNumericStrings(t *testing.T) {
	var budget domain.Budget
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"project_id":7,"planned_amount":"15000000.50","spent_amount":"1250.25"}`), &budget))
	p := testutil.NewTestProject("Tour A", testutil.WithProjectID("7"), testutil.WithProjectBudget(1))

	views := Aggregate([]domain.Project{*p}, nil, []domain.Budget{budget})
	assert.Equal(t, 15000000.50, views[0].Budget)
	assert.Equal(t, 1250.25, views[0].BudgetUsed)
	assert.InDelta(t, 14998750.25, views[0].Remaining(), 1e-6)
}

func TestAggregate_NoBudgetRecord(t *testing.T) {
	p := testutil.NewTestProject("Tour A", testutil.WithProjectBudget(500))
	views := Aggregate([]domain.Project{*p}, nil, nil)
	assert.Equal(t, 500.0, views[0].Budget, "project's own budget is kept")
	assert.Zero(t, views[0].BudgetUsed)
	assert.False(t, views[0].OverBudget())
}

func TestAggregate_NormalizesEnumerations(t *testing.T) {
	p := testutil.NewTestProject("Tour A",
		testutil.WithProjectStatus("Terminé"),
		testutil.WithProjectPriority("urgent"),
	)
	q := testutil.NewTestProject("Tour B", testutil.WithProjectStatus("bogus"))

	views := Aggregate([]domain.Project{*p, *q}, nil, nil)
	assert.Equal(t, domain.StatusCompleted, views[0].Status)
	assert.Equal(t, domain.PriorityMedium, views[0].Priority)
	assert.Equal(t, domain.StatusInProgress, views[1].Status)
}

func TestAggregate_DateFallbacks(t *testing.T) {
	created := date("2024-03-01")
	p := testutil.NewTestProject("Sans dates")
	p.CreatedAt = created

	withStart := testutil.NewTestProject("Début seul", testutil.WithProjectDates(date("2024-05-10"), domain.Date{}))
	both := testutil.NewTestProject("Complet", testutil.WithProjectDates(date("2024-01-01"), date("2024-12-31")))

	views := Aggregate([]domain.Project{*p, *withStart, *both}, nil, nil)
	assert.Equal(t, created, views[0].StartDate)
	assert.Equal(t, created, views[0].EndDate)
	assert.Equal(t, "2024-05-10", views[1].EndDate.String())
	assert.Equal(t, "2024-01-01", views[2].StartDate.String())
	assert.Equal(t, "2024-12-31", views[2].EndDate.String())
}

func TestAggregate_NoDatesAtAllStayZero(t *testing.T) {
	p := testutil.NewTestProject("Importé")
	p.CreatedAt = domain.Date{}

	ended := testutil.NewTestProject("Fin seule", testutil.WithProjectDates(domain.Date{}, date("2025-06-30")))
	ended.CreatedAt = domain.Date{}

	views := Aggregate([]domain.Project{*p, *ended}, nil, nil)
	assert.True(t, views[0].StartDate.IsZero())
	assert.True(t, views[0].EndDate.IsZero())
	assert.True(t, views[1].StartDate.IsZero())
	assert.Equal(t, "2025-06-30", views[1].EndDate.String())
}

func TestAggregate_PreservesProjectOrder(t *testing.T) {
	a := testutil.NewTestProject("A")
	b := testutil.NewTestProject("B")
	c := testutil.NewTestProject("C")
	views := Aggregate([]domain.Project{*c, *a, *b}, nil, nil)
	require.Len(t, views, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{views[0].Name, views[1].Name, views[2].Name})
}

func TestRollupWorksite_MeanOfLots(t *testing.T) {
	w := testutil.NewTestWorksite("p1", "Nord")
	lots := []domain.Lot{
		*testutil.NewTestLot(w.ID, "Gros oeuvre", testutil.WithLotProgress(80)),
		*testutil.NewTestLot(w.ID, "Second oeuvre", testutil.WithLotProgress(40)),
		*testutil.NewTestLot("other", "Ailleurs", testutil.WithLotProgress(0)),
	}

	view, lotViews := RollupWorksite(*w, lots)
	assert.Equal(t, 60.0, view.Progress)
	assert.Len(t, lotViews, 2)
}

func TestRollupWorksite_Fallbacks(t *testing.T) {
	auth := testutil.NewTestWorksite("p1", "a", testutil.WithWorksiteComputedProgress(12))
	view, _ := RollupWorksite(*auth, []domain.Lot{*testutil.NewTestLot(auth.ID, "l", testutil.WithLotProgress(90))})
	assert.Equal(t, 12.0, view.Progress)

	raw := testutil.NewTestWorksite("p1", "b", testutil.WithWorksiteProgress(35))
	view, _ = RollupWorksite(*raw, nil)
	assert.Equal(t, 35.0, view.Progress)

	bare := testutil.NewTestWorksite("p1", "c")
	view, _ = RollupWorksite(*bare, nil)
	assert.Equal(t, 0.0, view.Progress)
}

func TestRollupWorksite_CarriesStatusAndBudget(t *testing.T) {
	w := testutil.NewTestWorksite("p1", "Nord",
		testutil.WithWorksiteStatus(domain.StatusOnHold),
		testutil.WithWorksiteBudget(200000, 50000))
	view, lots := RollupWorksite(*w, nil)
	assert.Equal(t, domain.StatusOnHold, view.Status)
	assert.Equal(t, 200000.0, view.Budget)
	assert.Equal(t, 50000.0, view.BudgetUsed)
	assert.Empty(t, lots)
}

func TestRollupWorksite_LotComputedProgressPreferred(t *testing.T) {
	w := testutil.NewTestWorksite("p1", "Nord")
	lots := []domain.Lot{
		*testutil.NewTestLot(w.ID, "a", testutil.WithLotProgress(10), testutil.WithLotComputedProgress(50)),
		*testutil.NewTestLot(w.ID, "b", testutil.WithLotProgress(100)),
	}
	view, _ := RollupWorksite(*w, lots)
	assert.Equal(t, 75.0, view.Progress)
}

func TestRollupLot_Tasks(t *testing.T) {
	l := testutil.NewTestLot("w1", "Charpente")
	tasks := []domain.Task{
		*testutil.NewTestTask(l.ID, "Levage", testutil.WithTaskStatus(domain.StatusCompleted)),
		*testutil.NewTestTask(l.ID, "Couverture", testutil.WithTaskProgress(50)),
		*testutil.NewTestTask(l.ID, "Zinguerie"),
		*testutil.NewTestTask("other-lot", "Hors lot", testutil.WithTaskProgress(100)),
	}

	view := RollupLot(*l, tasks)
	assert.Equal(t, 50.0, view.Progress)
	assert.Equal(t, 3, view.TaskCount)
	assert.Equal(t, 1, view.DoneCount)
	assert.Equal(t, domain.StatusPlanned, view.Status)
}

func TestRollupLot_DatesFallBackToCreation(t *testing.T) {
	l := testutil.NewTestLot("w1", "Charpente")
	l.CreatedAt = domain.NewDate(time.Date(2024, 2, 1, 8, 30, 0, 0, time.UTC))
	view := RollupLot(*l, nil)
	assert.Equal(t, "2024-02-01", view.StartDate.String())
	assert.Equal(t, "2024-02-01", view.EndDate.String())
}

func TestSummary(t *testing.T) {
	views := []ProjectView{
		{Status: domain.StatusInProgress, Progress: 40, Budget: 100, BudgetUsed: 150, Worksites: make([]WorksiteView, 2)},
		{Status: domain.StatusCompleted, Progress: 100, Budget: 300, BudgetUsed: 200},
		{Status: domain.StatusInProgress, Progress: 15},
	}
	got := Summary(views)
	assert.Equal(t, 3, got.Projects)
	assert.Equal(t, 2, got.Worksites)
	assert.Equal(t, 400.0, got.Budget)
	assert.Equal(t, 350.0, got.BudgetUsed)
	assert.Equal(t, 52.0, got.Progress)
	assert.Equal(t, 1, got.OverBudget)
	assert.Equal(t, 2, got.ByStatus[domain.StatusInProgress])
	assert.Equal(t, 1, got.ByStatus[domain.StatusCompleted])

	empty := Summary(nil)
	assert.Zero(t, empty.Projects)
	assert.Zero(t, empty.Progress)
}
