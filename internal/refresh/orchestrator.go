// Package refresh coordinates the combined reload of the collections the
// aggregated project view depends on.
package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultCooldown is the minimum gap between two combined refreshes.
const DefaultCooldown = 3 * time.Second

// Refresher is one collection that can reload itself.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) error

func (fn RefresherFunc) Refresh(ctx context.Context) error { return fn(ctx) }

type Option func(*Orchestrator)

// WithCooldown overrides DefaultCooldown. Zero disables the cooldown.
func WithCooldown(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d >= 0 {
			o.cooldown = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// Orchestrator runs its targets' refreshes together, at most once at a
// time and not again within the cooldown.
type Orchestrator struct {
	targets  []Refresher
	cooldown time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu       sync.Mutex
	inFlight bool
	lastDone time.Time
	runs     int
}

func New(targets []Refresher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		targets:  targets,
		cooldown: DefaultCooldown,
		now:      time.Now,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RefreshAll refreshes every target concurrently unless a run is in flight
// or the last one completed within the cooldown. ran reports whether a run
// happened; err is the first target failure.
func (o *Orchestrator) RefreshAll(ctx context.Context) (ran bool, err error) {
	return o.run(ctx, false)
}

// Force is RefreshAll without the cooldown. An in-flight run still blocks.
func (o *Orchestrator) Force(ctx context.Context) (ran bool, err error) {
	return o.run(ctx, true)
}

// Status reports whether a run is in flight and when the last one ended.
func (o *Orchestrator) Status() (inFlight bool, lastDone time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inFlight, o.lastDone
}

// Runs counts completed runs.
func (o *Orchestrator) Runs() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.runs
}

func (o *Orchestrator) run(ctx context.Context, force bool) (bool, error) {
	if !o.begin(force) {
		o.logger.DebugContext(ctx, "refresh_skipped")
		return false, nil
	}
	start := o.now()
	defer o.finish()

	var g errgroup.Group
	for _, t := range o.targets {
		g.Go(func() error { return t.Refresh(ctx) })
	}
	err := g.Wait()

	attrs := []any{"targets", len(o.targets), "duration_ms", o.now().Sub(start).Milliseconds()}
	if err != nil {
		o.logger.WarnContext(ctx, "refresh_all", append(attrs, "error", err.Error())...)
	} else {
		o.logger.DebugContext(ctx, "refresh_all", attrs...)
	}
	return true, err
}

// begin is the single check-and-set of the in-flight guard.
func (o *Orchestrator) begin(force bool) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight {
		return false
	}
	if !force && !o.lastDone.IsZero() && o.now().Sub(o.lastDone) < o.cooldown {
		return false
	}
	o.inFlight = true
	return true
}

func (o *Orchestrator) finish() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight = false
	o.lastDone = o.now()
	o.runs++
}
