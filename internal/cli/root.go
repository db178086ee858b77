package cli

import (
	"context"

	"github.com/alexanderramin/chantier/internal/cli/formatter"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/session"
	"github.com/alexanderramin/chantier/internal/workspace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// Authenticator opens and closes a backend session.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*domain.User, error)
	Logout(ctx context.Context) error
}

// App holds everything the CLI commands act on.
type App struct {
	Auth      Authenticator
	Session   *session.Context
	Workspace *workspace.Workspace

	// APIBaseURL is shown by whoami.
	APIBaseURL string

	// Metrics, when set, is exposed by the dashboard's --metrics-addr.
	Metrics prometheus.Gatherer

	// IsInteractive reports whether prompts and the TUI may be used.
	// Nil means never.
	IsInteractive func() bool

	// PromptCredentials fills in missing login fields. Nil uses the huh
	// login form.
	PromptCredentials func(username, password *string) error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// busy shows a spinner on stderr until the returned func is called.
// Stopping twice is fine.
func (a *App) busy(cmd *cobra.Command, msg string) func() {
	if !a.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(cmd.ErrOrStderr(), msg)
}

// NewRootCmd creates the top-level "chantier" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "chantier",
		Short:         "Construction projects, worksites and budgets from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newProjectCmd(app),
		newWorksiteCmd(app),
		newLotCmd(app),
		newTaskCmd(app),
		newBudgetCmd(app),
		newAlertCmd(app),
		newReportCmd(app),
		newSupplierCmd(app),
		newResourceCmd(app),
		newAIModelCmd(app),
		newUserCmd(app),
		newDashboardCmd(app),
	)

	return root
}
