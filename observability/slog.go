package observability

import (
	"context"
	"log/slog"
)

// SlogObserver writes events to a slog.Logger. The event type becomes the
// message and the level is mapped through SlogLevel. Tree and path are
// always attached; counts and errors only when the event sets them.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates a SlogObserver. A nil logger means slog.Default().
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	level := event.Level.SlogLevel()
	if !o.logger.Enabled(ctx, level) {
		return
	}

	attrs := []slog.Attr{
		slog.String("tree", event.Tree),
		slog.String("path", event.Path),
	}
	if event.Changed > 0 {
		attrs = append(attrs, slog.Int("changed", event.Changed))
	}
	if event.Subscribers > 0 {
		attrs = append(attrs, slog.Int("subscribers", event.Subscribers))
	}
	if event.Err != nil {
		attrs = append(attrs, slog.String("error", event.Err.Error()))
	}

	o.logger.LogAttrs(ctx, level, string(event.Type), attrs...)
}
