package space

import "github.com/tailored-agentic-units/space/observability"

// Events emitted by a tree. Every event names the tree and the path of the
// node it concerns; action.complete adds the changed-node count, subscriber
// events the subscriber count, and action.error the cause.
const (
	EventSpaceCreate    observability.EventType = "space.create"
	EventChildCreate    observability.EventType = "space.child.create"
	EventChildRemove    observability.EventType = "space.child.remove"
	EventActionStart    observability.EventType = "space.action.start"
	EventActionComplete observability.EventType = "space.action.complete"
	EventActionError    observability.EventType = "space.action.error"
	EventActionDetached observability.EventType = "space.action.detached"
	EventNotify         observability.EventType = "space.notify"
	EventSubscribe      observability.EventType = "space.subscribe"
	EventUnsubscribe    observability.EventType = "space.unsubscribe"
)
