package observability

import (
	"context"
	"slices"
	"sync"
)

// Recorder keeps every event it receives in memory. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnEvent(ctx context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// OfType returns the recorded events with the given type.
func (r *Recorder) OfType(t EventType) []Event {
	return r.filter(func(e Event) bool { return e.Type == t })
}

// At returns the recorded events about the node at path.
func (r *Recorder) At(path string) []Event {
	return r.filter(func(e Event) bool { return e.Path == path })
}

// Types returns the type of every recorded event in arrival order.
func (r *Recorder) Types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

func (r *Recorder) filter(keep func(Event) bool) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Event
	for _, e := range r.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
