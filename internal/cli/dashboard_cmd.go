package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/chantier/internal/cli/formatter"
	"github.com/alexanderramin/chantier/internal/viewmodel"
	"github.com/alexanderramin/chantier/internal/workspace"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Live overview of projects, progress and budgets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if metricsAddr != "" {
				addr, stop, err := serveMetrics(app.Metrics, metricsAddr)
				if err != nil {
					return err
				}
				defer stop()
				fmt.Fprintf(cmd.ErrOrStderr(), "Serving metrics on http://%s/metrics\n", addr)
			}

			if !app.interactive() {
				views, err := app.Workspace.Load(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, formatter.FormatSummary(viewmodel.Summary(views)))
				fmt.Fprint(out, formatter.FormatProjectList(views))
				return nil
			}

			p := tea.NewProgram(
				newDashboardModel(ctx, app.Workspace),
				tea.WithAltScreen(),
				tea.WithContext(ctx),
			)
			unwatch := watchAggregates(app.Workspace, func() { p.Send(dashboardChangedMsg{}) })
			defer unwatch()

			_, err := p.Run()
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running (e.g. :9090)")
	return cmd
}

// watchAggregates calls fn whenever a collection feeding the project views
// changes. The returned func stops watching.
func watchAggregates(ws *workspace.Workspace, fn func()) func() {
	unsubs := []func(){
		ws.Projects.Subscribe(fn),
		ws.Worksites.Subscribe(fn),
		ws.Budgets.Subscribe(fn),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// serveMetrics exposes g on addr under /metrics until stop is called. It
// returns the bound address, which differs from addr when a port of 0 is
// requested.
func serveMetrics(g prometheus.Gatherer, addr string) (string, func(), error) {
	if g == nil {
		return "", nil, fmt.Errorf("metrics are not enabled")
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.Serve(ln) }()

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return ln.Addr().String(), stop, nil
}
