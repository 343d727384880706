// Package observability carries events out of a space tree to logs, tests,
// or any other sink. Level values follow OpenTelemetry SeverityNumber ranges
// so events can be forwarded to OTel collectors without translation.
//
// A tree never logs directly. It emits an Event for every structural change
// (child created or removed, action run, subscribers notified) and the
// configured Observer decides what to do with it.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level represents event severity aligned with OTel SeverityNumber ranges.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8)
	LevelInfo    Level = 9  // OTel INFO (9-12)
	LevelWarning Level = 13 // OTel WARN (13-16)
	LevelError   Level = 17 // OTel ERROR (17-20)
)

// OTel groups severity numbers 1-24 into six bands of four.
var (
	severityText = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}
	severitySlog = [...]slog.Level{
		slog.LevelDebug,
		slog.LevelDebug,
		slog.LevelInfo,
		slog.LevelWarn,
		slog.LevelError,
		slog.LevelError,
	}
)

func (l Level) band() int {
	b := (int(l) - 1) / 4
	return max(0, min(b, len(severityText)-1))
}

// String returns the OTel severity text for the level.
func (l Level) String() string {
	return severityText[l.band()]
}

// SlogLevel maps this level to the slog.Level used when the event is logged.
func (l Level) SlogLevel() slog.Level {
	return severitySlog[l.band()]
}

// EventType names an event, e.g. "space.action.complete".
type EventType string

// Event describes one occurrence inside a tree. It carries execution
// metadata only, never state content.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time

	// Tree is the id of the emitting tree. Path locates the node the event
	// is about, "/" for the root.
	Tree string
	Path string

	// Changed is the number of nodes whose state an action rewrote.
	Changed int
	// Subscribers is the node's subscriber count after the event.
	Subscribers int
	// Err is the cause of a failed action.
	Err error
}

// Observer receives events. Implementations must not call back into the
// tree that emitted the event.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// NoOpObserver discards all events.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}

// LevelFilter forwards only events at or above Min.
type LevelFilter struct {
	Min  Level
	Next Observer
}

func (f LevelFilter) OnEvent(ctx context.Context, event Event) {
	if f.Next == nil || event.Level < f.Min {
		return
	}
	f.Next.OnEvent(ctx, event)
}
