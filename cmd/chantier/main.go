package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/chantier/internal/cli"
	"github.com/alexanderramin/chantier/internal/config"
	"github.com/alexanderramin/chantier/internal/db"
	"github.com/alexanderramin/chantier/internal/session"
	"github.com/alexanderramin/chantier/internal/store"
	"github.com/alexanderramin/chantier/internal/transport"
	"github.com/alexanderramin/chantier/internal/workspace"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	sessionStore, closer, err := openSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	sc := session.NewContext(sessionStore,
		session.WithLogger(logger),
		session.WithOnExpired(func(context.Context, error) {
			fmt.Fprintln(os.Stderr, "Session expired. Run 'chantier login' to sign in again.")
		}),
	)

	// Metrics are always collected; the dashboard serves them on request.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := transport.NewMetricsObserver(reg)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	observers := transport.MultiObserver{metrics}
	if cfg.LogRequests {
		observers = append(observers, transport.NewLogObserver(logger))
	}

	client := transport.New(cfg.APIBaseURL, sc,
		transport.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		transport.WithObserver(observers),
		transport.WithListResources(store.ListPaths()...),
	)

	app := &cli.App{
		Auth:    client,
		Session: sc,
		Workspace: workspace.New(client, workspace.Config{
			Cooldown: cfg.RefreshCooldown,
			Logger:   logger,
			Notifier: store.MultiNotifier{
				store.NewLoggerNotifier(logger),
				store.NewNoticeNotifier(os.Stderr),
			},
		}),
		APIBaseURL: cfg.APIBaseURL,
		Metrics:    reg,
	}

	// Detect interactive terminal for prompts and the dashboard.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// openSessionStore picks Redis when a URL is configured and the local
// SQLite file otherwise.
func openSessionStore(ctx context.Context, cfg config.Config) (session.Store, io.Closer, error) {
	if cfg.SessionRedisURL != "" {
		rs, err := session.NewRedisStore(ctx, cfg.SessionRedisURL, cfg.SessionProfile)
		if err != nil {
			return nil, nil, fmt.Errorf("opening redis session store: %w", err)
		}
		return rs, rs, nil
	}

	database, err := db.OpenDB(cfg.SessionDB)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return session.NewSQLiteStore(database, cfg.SessionProfile), database, nil
}
