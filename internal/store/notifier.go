package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// OpDecode is the Failure.Op of a refresh that kept its collection but
// dropped records it could not decode.
const OpDecode = "decode"

// Failure is one store operation that did not complete.
type Failure struct {
	Resource string
	Op       string
	Err      error
}

// Notifier receives each store failure exactly once.
type Notifier interface {
	Notify(ctx context.Context, f Failure)
}

// NoopNotifier ignores all failures.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Failure) {}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, f Failure)

func (fn NotifierFunc) Notify(ctx context.Context, f Failure) { fn(ctx, f) }

type logNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier reports through an existing logger.
func NewLoggerNotifier(l *slog.Logger) Notifier {
	if l == nil {
		return NoopNotifier{}
	}
	return &logNotifier{logger: l}
}

func (n *logNotifier) Notify(ctx context.Context, f Failure) {
	n.logger.WarnContext(ctx, "store_failure",
		"resource", f.Resource,
		"op", f.Op,
		"error", errString(f.Err),
	)
}

// NewNoticeNotifier prints a one-line warning to w when records were
// dropped while decoding. Other failures already reach the caller as
// errors and are not repeated.
func NewNoticeNotifier(w io.Writer) Notifier {
	if w == nil {
		return NoopNotifier{}
	}
	return NotifierFunc(func(_ context.Context, f Failure) {
		if f.Op != OpDecode {
			return
		}
		fmt.Fprintf(w, "Warning: some %s could not be read and are hidden: %s\n", f.Resource, errString(f.Err))
	})
}

// MultiNotifier fans a failure out to several notifiers.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, f Failure) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, f)
		}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
