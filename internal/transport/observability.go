package transport

import (
	"log/slog"
	"time"
)

// RequestEvent records metadata about a single HTTP attempt.
type RequestEvent struct {
	Method    string
	Endpoint  string
	RequestID string
	Status    int
	Latency   time.Duration
	// Outcome is OK, HTTP_<status>, UNAVAILABLE, SHAPE_MISMATCH,
	// SESSION_EXPIRED or PERSIST_FAILED.
	Outcome string
}

// Observer receives request events for logging and metrics.
type Observer interface {
	OnRequest(event RequestEvent)
}

// LogObserver writes request events to a slog.Logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnRequest(event RequestEvent) {
	attrs := []any{
		"method", event.Method,
		"endpoint", event.Endpoint,
		"status", event.Status,
		"latency_ms", event.Latency.Milliseconds(),
		"outcome", event.Outcome,
	}
	if event.RequestID != "" {
		attrs = append(attrs, "request_id", event.RequestID)
	}
	if event.Outcome == "OK" {
		o.logger.Debug("api_request", attrs...)
		return
	}
	o.logger.Warn("api_request", attrs...)
}

// MultiObserver fans events out to several observers.
type MultiObserver []Observer

func (m MultiObserver) OnRequest(event RequestEvent) {
	for _, o := range m {
		if o != nil {
			o.OnRequest(event)
		}
	}
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnRequest(RequestEvent) {}
