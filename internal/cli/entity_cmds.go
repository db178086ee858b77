package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/chantier/internal/cli/formatter"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/store"
	"github.com/alexanderramin/chantier/internal/viewmodel"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	return newEntityCmd(app, entityCmd[domain.Project]{
		use:      "project",
		short:    "Manage projects",
		store:    func(a *App) *store.Store[domain.Project] { return a.Workspace.Projects },
		required: []string{"name"},
		label:    func(p domain.Project) string { return p.Name },
		list:     listProjects,
		detail:   showProject,
	})
}

func listProjects(ctx context.Context, app *App, _ domain.ID) (string, error) {
	views, err := app.Workspace.Load(ctx)
	if err != nil {
		return "", err
	}
	return formatter.FormatProjectList(views), nil
}

func showProject(ctx context.Context, app *App, p domain.Project) (string, error) {
	if _, err := app.Workspace.Load(ctx); err != nil {
		return "", err
	}
	view, ok := app.Workspace.Views.Find(p.ID)
	if !ok {
		// Fetched but not in the listing yet; aggregate it alone.
		view = viewmodel.Aggregate([]domain.Project{p}, app.Workspace.Worksites.Items(), app.Workspace.Budgets.Items())[0]
	}
	return formatter.FormatProjectDetail(view), nil
}

func newWorksiteCmd(app *App) *cobra.Command {
	return newEntityCmd(app, entityCmd[domain.Worksite]{
		use:      "worksite",
		short:    "Manage worksites",
		store:    func(a *App) *store.Store[domain.Worksite] { return a.Workspace.Worksites },
		required: []string{"name", "project_id"},
		label:    func(w domain.Worksite) string { return w.Name },
		render:   renderWorksites,
		detail: func(ctx context.Context, app *App, w domain.Worksite) (string, error) {
			view, lots, err := app.Workspace.WorksiteDetail(ctx, w)
			if err != nil {
				return "", err
			}
			return formatter.FormatWorksiteDetail(view, lots), nil
		},
	})
}

func renderWorksites(items []domain.Worksite) string {
	views := make([]viewmodel.WorksiteView, len(items))
	for i, w := range items {
		views[i], _ = viewmodel.RollupWorksite(w, nil)
	}
	return formatter.FormatWorksiteList(views)
}

func newLotCmd(app *App) *cobra.Command {
	return newEntityCmd(app, entityCmd[domain.Lot]{
		use:      "lot",
		short:    "Manage worksite lots",
		store:    func(a *App) *store.Store[domain.Lot] { return a.Workspace.Lots },
		required: []string{"name", "worksite_id"},
		label:    func(l domain.Lot) string { return l.Name },
		render: func(items []domain.Lot) string {
			views := make([]viewmodel.LotView, len(items))
			for i, l := range items {
				views[i] = viewmodel.RollupLot(l, nil)
			}
			return formatter.FormatLotList(views)
		},
		detail: func(ctx context.Context, app *App, l domain.Lot) (string, error) {
			view, tasks, err := app.Workspace.LotDetail(ctx, l)
			if err != nil {
				return "", err
			}
			return formatter.FormatLotDetail(view, tasks), nil
		},
	})
}

func newTaskCmd(app *App) *cobra.Command {
	return newEntityCmd(app, entityCmd[domain.Task]{
		use:      "task",
		short:    "Manage lot tasks",
		store:    func(a *App) *store.Store[domain.Task] { return a.Workspace.Tasks },
		required: []string{"name", "lot_id"},
		label:    func(t domain.Task) string { return t.Name },
		render:   formatter.FormatTaskList,
	})
}

func newBudgetCmd(app *App) *cobra.Command {
	return newEntityCmd(app, entityCmd[domain.Budget]{
		use:      "budget",
		short:    "Manage project budgets",
		store:    func(a *App) *store.Store[domain.Budget] { return a.Workspace.Budgets },
		required: []string{"project_id", "planned_amount"},
		label: func(b domain.Budget) string {
			return fmt.Sprintf("for project %s", b.ProjectID)
		},
		render: formatter.FormatBudgetList,
	})
}

func newAlertCmd(app *App) *cobra.Command {
	return newEntityCmd(app, entityCmd[domain.Alert]{
		use:      "alert",
		short:    "Manage project alerts",
		store:    func(a *App) *store.Store[domain.Alert] { return a.Workspace.Alerts },
		required: []string{"title", "project_id"},
		label:    func(a domain.Alert) string { return a.Title },
		render:   formatter.FormatAlertList,
	})
}

func newReportCmd(app *App) *cobra.Command {
	return newEntityCmd(app, entityCmd[domain.Report]{
		use:      "report",
		short:    "Manage project reports",
		store:    func(a *App) *store.Store[domain.Report] { return a.Workspace.Reports },
		required: []string{"title", "project_id"},
		label:    func(r domain.Report) string { return r.Title },
		render:   formatter.FormatReportList,
	})
}

func newSupplierCmd(app *App) *cobra.Command {
	return newEntityCmd(app, entityCmd[domain.Supplier]{
		use:      "supplier",
		short:    "Manage suppliers",
		store:    func(a *App) *store.Store[domain.Supplier] { return a.Workspace.Suppliers },
		required: []string{"name"},
		label:    func(s domain.Supplier) string { return s.Name },
		render:   formatter.FormatSupplierList,
	})
}

func newResourceCmd(app *App) *cobra.Command {
	return newEntityCmd(app, entityCmd[domain.Resource]{
		use:      "resource",
		short:    "Manage materials, machines and crews",
		store:    func(a *App) *store.Store[domain.Resource] { return a.Workspace.Resources },
		required: []string{"name"},
		label:    func(r domain.Resource) string { return r.Name },
		render:   formatter.FormatResourceList,
	})
}

func newAIModelCmd(app *App) *cobra.Command {
	return newEntityCmd(app, entityCmd[domain.AIModel]{
		use:      "ai-model",
		short:    "List registered prediction models",
		store:    func(a *App) *store.Store[domain.AIModel] { return a.Workspace.AIModels },
		readOnly: true,
		render:   formatter.FormatAIModelList,
	})
}

func newUserCmd(app *App) *cobra.Command {
	return newEntityCmd(app, entityCmd[domain.User]{
		use:      "user",
		short:    "List backend accounts",
		store:    func(a *App) *store.Store[domain.User] { return a.Workspace.Users },
		readOnly: true,
		render:   formatter.FormatUserList,
	})
}
