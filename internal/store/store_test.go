package store

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/session"
	"github.com/alexanderramin/chantier/internal/testutil"
	"github.com/alexanderramin/chantier/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	failures []Failure
}

func (r *recordingNotifier) Notify(_ context.Context, f Failure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures)
}

func newClient(t *testing.T, url string) *transport.Client {
	t.Helper()
	sc := session.NewContext(session.NewMemoryStore(session.State{}))
	return transport.New(url, sc, transport.WithListResources(ListPaths()...))
}

func TestRefresh_ReplacesItems(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Seed("projects",
		map[string]any{"name": "Tour A", "status": "in_progress"},
		map[string]any{"name": "Tour B", "status": "planned"},
	)

	s := New[domain.Project](newClient(t, backend.URL()), Projects)
	require.NoError(t, s.Refresh(context.Background()))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Tour A", items[0].Name)
	assert.Equal(t, domain.ID("1"), items[0].ID)
	assert.False(t, s.Loading())
	assert.Equal(t, uint64(1), s.Version())
}

func TestRefresh_PaginatedEnvelope(t *testing.T) {
	backend := testutil.NewBackend(t, testutil.WithEnvelope())
	backend.Seed("worksites",
		map[string]any{"name": "Nord", "project_id": 3},
		map[string]any{"name": "Sud", "project_id": 3},
		map[string]any{"name": "Ailleurs", "project_id": 4},
	)

	s := New[domain.Worksite](newClient(t, backend.URL()), Worksites).ForParent("3")
	require.NoError(t, s.Refresh(context.Background()))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Nord", items[0].Name)
	assert.Equal(t, "Sud", items[1].Name)
	assert.Equal(t, domain.ID("3"), s.ParentID())
}

func TestRefresh_FailureResetsToEmptyAndNotifiesOnce(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Seed("budgets", map[string]any{"project_id": 1, "planned_amount": "100.00", "spent_amount": "10.00"})

	notes := &recordingNotifier{}
	s := New[domain.Budget](newClient(t, backend.URL()), Budgets, WithNotifier(notes))
	require.NoError(t, s.Refresh(context.Background()))
	require.Len(t, s.Items(), 1)
	assert.Equal(t, 100.0, s.Items()[0].PlannedAmount.Float64())

	backend.FailNext(http.MethodGet, "budgets", http.StatusInternalServerError)
	err := s.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, transport.StatusOf(err))

	assert.Empty(t, s.Items())
	assert.False(t, s.Loading())
	assert.Equal(t, 1, notes.count())
	assert.Equal(t, "refresh", notes.failures[0].Op)
	assert.Equal(t, "budgets", notes.failures[0].Resource)
}

func TestRefresh_SkipsUndecodableRecords(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Seed("worksites",
		map[string]any{"name": "Bâtiment A", "project_id": 1, "start_date": "2024-03-15"},
		map[string]any{"name": "Bâtiment B", "project_id": 1, "start_date": "15/03/2024"},
		map[string]any{"name": "Bâtiment C", "project_id": 1, "budget": "beaucoup"},
		map[string]any{"name": "Bâtiment D", "project_id": 1},
	)

	notes := &recordingNotifier{}
	s := New[domain.Worksite](newClient(t, backend.URL()), Worksites, WithNotifier(notes))
	require.NoError(t, s.Refresh(context.Background()))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Bâtiment A", items[0].Name)
	assert.Equal(t, "Bâtiment D", items[1].Name)

	require.Equal(t, 1, notes.count())
	assert.Equal(t, OpDecode, notes.failures[0].Op)
	assert.Equal(t, "worksites", notes.failures[0].Resource)

	var skipped *transport.SkippedRecordsError
	require.ErrorAs(t, notes.failures[0].Err, &skipped)
	assert.Equal(t, 4, skipped.Total)
	assert.Len(t, skipped.Errs, 2)
	assert.Contains(t, skipped.Error(), "skipped 2 of 4 records (record 1:")
}

func TestRefresh_UnreachableBackendYieldsEmpty(t *testing.T) {
	notes := &recordingNotifier{}
	s := New[domain.Project](newClient(t, "http://127.0.0.1:1"), Projects, WithNotifier(notes))

	require.NoError(t, s.Refresh(context.Background()))
	assert.Empty(t, s.Items())
	assert.Zero(t, notes.count())
}

func TestCreate_UsesServerRecord(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Seed("projects", map[string]any{"name": "Existant"})

	s := New[domain.Project](newClient(t, backend.URL()), Projects)
	require.NoError(t, s.Refresh(context.Background()))

	input := domain.Project{ID: "client-made", Name: "Résidence Les Pins", Budget: 250000}
	created, err := s.Create(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, domain.ID("2"), created.ID, "server assigns the id")
	assert.False(t, created.CreatedAt.IsZero(), "server stamps created_at")

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, created, items[0], "new record is prepended")
	_, found := s.Find("client-made")
	assert.False(t, found)
}

func TestCreate_FailureDoesNotMutate(t *testing.T) {
	backend := testutil.NewBackend(t)
	notes := &recordingNotifier{}
	s := New[domain.Project](newClient(t, backend.URL()), Projects, WithNotifier(notes))

	_, err := s.Create(context.Background(), map[string]any{"name": ""})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, transport.StatusOf(err))
	assert.Empty(t, s.Items())
	assert.Zero(t, s.Version())
	assert.Equal(t, 1, notes.count())
}

func TestCreate_NetworkFailureIsConnectivityError(t *testing.T) {
	s := New[domain.Project](newClient(t, "http://127.0.0.1:1"), Projects)
	_, err := s.Create(context.Background(), map[string]any{"name": "x"})
	assert.ErrorIs(t, err, transport.ErrConnectivity)
	assert.Empty(t, s.Items())
}

type emptyRequester struct{}

func (emptyRequester) Request(context.Context, string, string, any) (transport.Payload, error) {
	return transport.Payload{Kind: transport.KindEmpty}, nil
}

func TestCreate_EmptyReply(t *testing.T) {
	s := New[domain.Project](emptyRequester{}, Projects)
	_, err := s.Create(context.Background(), map[string]any{"name": "x"})
	assert.ErrorIs(t, err, ErrEmptyReply)
	assert.Empty(t, s.Items())

	_, err = s.Update(context.Background(), "1", map[string]any{"name": "y"})
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestUpdate_SplicesServerRecord(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Seed("lots",
		map[string]any{"name": "Gros oeuvre", "worksite_id": 1, "progress": 10},
		map[string]any{"name": "Charpente", "worksite_id": 1, "progress": 0},
	)

	s := New[domain.Lot](newClient(t, backend.URL()), Lots)
	require.NoError(t, s.Refresh(context.Background()))

	updated, err := s.Update(context.Background(), "1", map[string]any{"progress": "45.5"})
	require.NoError(t, err)
	require.NotNil(t, updated.Progress)
	assert.Equal(t, 45.5, updated.Progress.Float64())

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Gros oeuvre", items[0].Name, "position is kept")
	assert.Equal(t, 45.5, items[0].Progress.Float64())
}

func TestUpdate_MissingLocallyIsAppended(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Seed("tasks", map[string]any{"name": "Coffrage", "lot_id": 1})

	s := New[domain.Task](newClient(t, backend.URL()), Tasks)
	_, err := s.Update(context.Background(), "1", map[string]any{"status": "completed"})
	require.NoError(t, err)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, domain.StatusCompleted, items[0].Status)
}

func TestUpdate_NotFound(t *testing.T) {
	backend := testutil.NewBackend(t)
	s := New[domain.Task](newClient(t, backend.URL()), Tasks)
	_, err := s.Update(context.Background(), "99", map[string]any{"status": "completed"})
	assert.True(t, transport.IsNotFound(err))
}

func TestFetch_UpsertsWithoutHooks(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Seed("worksites", map[string]any{"name": "Bâtiment A", "project_id": 1, "progress": 30})

	s := New[domain.Worksite](newClient(t, backend.URL()), Worksites)
	hooks := 0
	s.OnMutate(func(context.Context, Resource) { hooks++ })

	w, err := s.Fetch(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Bâtiment A", w.Name)
	assert.Len(t, s.Items(), 1)

	_, err = s.Fetch(context.Background(), "1")
	require.NoError(t, err)
	assert.Len(t, s.Items(), 1, "second fetch replaces in place")
	assert.Zero(t, hooks)
}

func TestFetch_Missing(t *testing.T) {
	backend := testutil.NewBackend(t)
	s := New[domain.Worksite](newClient(t, backend.URL()), Worksites)
	_, err := s.Fetch(context.Background(), "42")
	assert.True(t, transport.IsNotFound(err))
	assert.Empty(t, s.Items())
}

func TestRemove(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Seed("alerts",
		map[string]any{"title": "Retard livraison", "project_id": 1},
		map[string]any{"title": "Dépassement", "project_id": 1},
	)

	s := New[domain.Alert](newClient(t, backend.URL()), Alerts)
	require.NoError(t, s.Refresh(context.Background()))
	require.NoError(t, s.Remove(context.Background(), "1"))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, domain.ID("2"), items[0].ID)
	assert.Len(t, backend.Records("alerts"), 1)
}

func TestRemove_FailureKeepsItem(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Seed("suppliers", map[string]any{"name": "Béton Sud"})

	s := New[domain.Supplier](newClient(t, backend.URL()), Suppliers)
	require.NoError(t, s.Refresh(context.Background()))

	backend.FailNext(http.MethodDelete, "suppliers", http.StatusForbidden)
	err := s.Remove(context.Background(), "1")
	assert.Equal(t, http.StatusForbidden, transport.StatusOf(err))
	assert.Len(t, s.Items(), 1)
}

func TestSubscribeAndMutateHooks(t *testing.T) {
	backend := testutil.NewBackend(t)
	s := New[domain.Project](newClient(t, backend.URL()), Projects)

	var changes int
	unsubscribe := s.Subscribe(func() { changes++ })
	var mutated []string
	s.OnMutate(func(_ context.Context, r Resource) { mutated = append(mutated, r.Path) })

	require.NoError(t, s.Refresh(context.Background()))
	_, err := s.Create(context.Background(), map[string]any{"name": "Tour"})
	require.NoError(t, err)
	assert.Equal(t, 2, changes)
	assert.Equal(t, []string{"projects"}, mutated, "refresh is not a mutation")

	unsubscribe()
	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, 2, changes)
}

func TestForParent_SharesHooks(t *testing.T) {
	backend := testutil.NewBackend(t)
	base := New[domain.Worksite](newClient(t, backend.URL()), Worksites)
	var mutated int
	base.OnMutate(func(context.Context, Resource) { mutated++ })

	child := base.ForParent("7")
	_, err := child.Create(context.Background(), map[string]any{"name": "Nord", "project_id": 7})
	require.NoError(t, err)
	assert.Equal(t, 1, mutated)
	assert.Empty(t, base.Items())
	assert.Len(t, child.Items(), 1)
}

func TestResourceEndpoints(t *testing.T) {
	assert.Equal(t, "/projects/", Projects.collection("9"))
	assert.Equal(t, "/worksites/?project_id=9", Worksites.collection("9"))
	assert.Equal(t, "/tasks/?lot_id=abc", Tasks.collection("abc"))
	assert.Equal(t, "/ai-models/4/", AIModels.item("4"))

	assert.Equal(t, "project", Reports.Parent)
	assert.Contains(t, ListPaths(), "users")
}
