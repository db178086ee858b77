// Package workspace wires one store per resource to the aggregator and the
// refresh orchestrator over a shared transport.
package workspace

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/refresh"
	"github.com/alexanderramin/chantier/internal/store"
	"github.com/alexanderramin/chantier/internal/transport"
	"github.com/alexanderramin/chantier/internal/viewmodel"
)

// Config tunes a Workspace. The zero value is usable.
type Config struct {
	Cooldown time.Duration
	Notifier store.Notifier
	Logger   *slog.Logger
	Clock    func() time.Time
}

type Workspace struct {
	Projects  *store.Store[domain.Project]
	Worksites *store.Store[domain.Worksite]
	Lots      *store.Store[domain.Lot]
	Tasks     *store.Store[domain.Task]
	Budgets   *store.Store[domain.Budget]
	Alerts    *store.Store[domain.Alert]
	Reports   *store.Store[domain.Report]
	Suppliers *store.Store[domain.Supplier]
	Resources *store.Store[domain.Resource]
	AIModels  *store.Store[domain.AIModel]
	Users     *store.Store[domain.User]

	Views     *viewmodel.Aggregator
	Refresher *refresh.Orchestrator

	logger *slog.Logger
}

func New(req transport.Requester, cfg Config) *Workspace {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = store.NewLoggerNotifier(logger)
	}
	opt := store.WithNotifier(notifier)

	w := &Workspace{
		Projects:  store.New[domain.Project](req, store.Projects, opt),
		Worksites: store.New[domain.Worksite](req, store.Worksites, opt),
		Lots:      store.New[domain.Lot](req, store.Lots, opt),
		Tasks:     store.New[domain.Task](req, store.Tasks, opt),
		Budgets:   store.New[domain.Budget](req, store.Budgets, opt),
		Alerts:    store.New[domain.Alert](req, store.Alerts, opt),
		Reports:   store.New[domain.Report](req, store.Reports, opt),
		Suppliers: store.New[domain.Supplier](req, store.Suppliers, opt),
		Resources: store.New[domain.Resource](req, store.Resources, opt),
		AIModels:  store.New[domain.AIModel](req, store.AIModels, opt),
		Users:     store.New[domain.User](req, store.Users, opt),
		logger:    logger,
	}
	w.Views = viewmodel.NewAggregator(w.Projects, w.Worksites, w.Budgets)

	cooldown := cfg.Cooldown
	if cooldown == 0 {
		cooldown = refresh.DefaultCooldown
	}
	w.Refresher = refresh.New(
		[]refresh.Refresher{w.Projects, w.Worksites, w.Budgets},
		refresh.WithCooldown(cooldown),
		refresh.WithClock(cfg.Clock),
		refresh.WithLogger(logger),
	)

	// Any write in the project hierarchy can move the server's rollups.
	w.Projects.OnMutate(w.afterMutation)
	w.Worksites.OnMutate(w.afterMutation)
	w.Lots.OnMutate(w.afterMutation)
	w.Tasks.OnMutate(w.afterMutation)
	w.Budgets.OnMutate(w.afterMutation)
	return w
}

// Load brings the aggregated view up to date and returns it.
func (w *Workspace) Load(ctx context.Context) ([]viewmodel.ProjectView, error) {
	if _, err := w.Refresher.RefreshAll(ctx); err != nil {
		return w.Views.Views(), err
	}
	return w.Views.Views(), nil
}

// Reload is Load without the cooldown.
func (w *Workspace) Reload(ctx context.Context) ([]viewmodel.ProjectView, error) {
	if _, err := w.Refresher.Force(ctx); err != nil {
		return w.Views.Views(), err
	}
	return w.Views.Views(), nil
}

// WorksiteDetail loads a worksite's lots and rolls its progress up.
func (w *Workspace) WorksiteDetail(ctx context.Context, worksite domain.Worksite) (viewmodel.WorksiteView, []viewmodel.LotView, error) {
	lots := w.Lots.ForParent(worksite.ID)
	err := lots.Refresh(ctx)
	view, lotViews := viewmodel.RollupWorksite(worksite, lots.Items())
	return view, lotViews, err
}

// LotDetail loads a lot's tasks and rolls its progress up.
func (w *Workspace) LotDetail(ctx context.Context, lot domain.Lot) (viewmodel.LotView, []domain.Task, error) {
	tasks := w.Tasks.ForParent(lot.ID)
	err := tasks.Refresh(ctx)
	items := tasks.Items()
	return viewmodel.RollupLot(lot, items), items, err
}

func (w *Workspace) afterMutation(ctx context.Context, r store.Resource) {
	ran, err := w.Refresher.RefreshAll(ctx)
	if err != nil {
		w.logger.WarnContext(ctx, "post_mutation_refresh", "resource", r.Path, "error", err.Error())
		return
	}
	w.logger.DebugContext(ctx, "post_mutation_refresh", "resource", r.Path, "ran", ran)
}
