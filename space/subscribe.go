package space

import (
	"slices"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/space/observability"
	"github.com/tailored-agentic-units/space/value"
)

// Subscriber is called with a node's new state after an action changes it.
// The return value is ignored by the tree.
type Subscriber func(state value.Value) any

// Subscription identifies one registered Subscriber.
type Subscription struct {
	ID string
}

type notification struct {
	fn    Subscriber
	state value.Value
}

func (n notification) deliver() {
	n.fn(n.state)
}

// Subscribe appends fn to the node's subscribers. The same function may be
// registered more than once; each registration is called. Subscribing to a
// detached node registers nothing and returns the zero Subscription.
func (s *Space) Subscribe(fn Subscriber) Subscription {
	t := s.tree
	sub := subscription{id: uuid.Must(uuid.NewV7()).String(), fn: fn}

	t.mu.Lock()
	if s.gone != nil {
		t.mu.Unlock()
		return Subscription{}
	}
	n := t.nodes[s.id]
	n.subs = append(n.subs, sub)
	event := t.event(EventSubscribe, observability.LevelVerbose, t.path(s.id))
	event.Subscribers = len(n.subs)
	t.mu.Unlock()

	t.emit(event)
	return Subscription{ID: sub.id}
}

// Unsubscribe removes the subscriber registered as sub. It reports whether
// anything was removed.
func (s *Space) Unsubscribe(sub Subscription) bool {
	t := s.tree

	t.mu.Lock()
	if s.gone != nil {
		t.mu.Unlock()
		return false
	}
	n := t.nodes[s.id]
	before := len(n.subs)
	n.subs = slices.DeleteFunc(n.subs, func(e subscription) bool { return e.id == sub.ID })
	removed := len(n.subs) < before
	event := t.event(EventUnsubscribe, observability.LevelVerbose, t.path(s.id))
	event.Subscribers = len(n.subs)
	t.mu.Unlock()

	if removed {
		t.emit(event)
	}
	return removed
}

// Subscribers returns the number of subscribers registered on the node.
// Detached nodes have none.
func (s *Space) Subscribers() int {
	s.tree.mu.Lock()
	defer s.tree.mu.Unlock()

	if s.gone != nil {
		return 0
	}
	return len(s.tree.nodes[s.id].subs)
}

// notifications collects the subscriber calls owed after commit, following
// the tree's notify policy. Called with the tree lock held.
func (x *txn) notifications(origin NodeID) []notification {
	t := x.tree

	var ids []NodeID
	switch t.notify {
	case NotifyOrigin:
		if _, changed := x.states[origin]; changed && !x.detached[origin] {
			ids = append(ids, origin)
		}
	default:
		for _, id := range x.order {
			if !x.detached[id] {
				ids = append(ids, id)
			}
		}
	}

	var notes []notification
	for _, id := range ids {
		n := t.nodes[id]
		if len(n.subs) == 0 {
			continue
		}
		for _, sub := range n.subs {
			notes = append(notes, notification{fn: sub.fn, state: n.state})
		}
		event := t.event(EventNotify, observability.LevelVerbose, t.path(id))
		event.Subscribers = len(n.subs)
		x.events = append(x.events, event)
	}
	return notes
}
