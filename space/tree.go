package space

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/space/observability"
	"github.com/tailored-agentic-units/space/value"
)

// NodeID addresses a slot in its tree's arena. A slot freed by a removal is
// handed to the next node allocated, so an id is only meaningful while its
// node is attached.
type NodeID int

const noParent NodeID = -1

// ChildKey identifies a child within its parent's registry. Scalar children
// are keyed by field name alone; list children add the canonical JSON text
// of their element's id.
type ChildKey struct {
	Name   string
	ID     string
	Listed bool
}

func (k ChildKey) String() string {
	if k.Listed {
		return k.Name + "[" + k.ID + "]"
	}
	return k.Name
}

// sortedKeys returns the keys of a child registry in a stable order.
func sortedKeys(children map[ChildKey]NodeID) []ChildKey {
	keys := make([]ChildKey, 0, len(children))
	for k := range children {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

func scalarKey(name string) ChildKey {
	return ChildKey{Name: name}
}

func listKey(name string, id value.Value) ChildKey {
	return ChildKey{Name: name, ID: id.String(), Listed: true}
}

type subscription struct {
	id string
	fn Subscriber
}

type node struct {
	state    value.Value
	parent   NodeID
	key      ChildKey
	keyID    value.Value
	children map[ChildKey]NodeID
	subs     []subscription
	handle   *Space
}

// Tree is the arena holding every node reachable from one root. A single
// mutex guards the whole tree; actions, propagation, and registry changes
// all happen under it.
type Tree struct {
	id       string
	mu       sync.Mutex
	nodes    []*node
	free     []NodeID
	observer observability.Observer
	notify   NotifyPolicy
}

// Option configures a tree after config-driven initialization.
type Option func(*Tree)

// WithObserver routes tree events to o.
func WithObserver(o observability.Observer) Option {
	return func(t *Tree) {
		if o != nil {
			t.observer = o
		}
	}
}

// WithLogger routes tree events to logger through a SlogObserver.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tree) { t.observer = observability.NewSlogObserver(logger) }
}

// WithNotifyPolicy selects which nodes fire subscribers after an action.
func WithNotifyPolicy(p NotifyPolicy) Option {
	return func(t *Tree) { t.notify = p }
}

// New creates a root Space holding initial. A Null initial state becomes an
// empty Object.
func New(initial value.Value, opts ...Option) *Space {
	t := &Tree{
		id:       uuid.Must(uuid.NewV7()).String(),
		observer: observability.NoOpObserver{},
		notify:   NotifyPropagate,
	}
	for _, opt := range opts {
		opt(t)
	}

	if initial.IsNull() {
		initial = value.Object(nil)
	}

	root := t.alloc(initial, noParent, ChildKey{}, value.Null())
	t.emit(t.event(EventSpaceCreate, observability.LevelVerbose, "/"))
	return root
}

// NewFromConfig creates a root Space with the observer and notify policy
// named in cfg. Options are applied afterwards and override the config.
func NewFromConfig(cfg *Config, initial value.Value, opts ...Option) (*Space, error) {
	merged := DefaultConfig()
	merged.Merge(cfg)

	observer, err := observability.Lookup(merged.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	policy, err := ParseNotifyPolicy(merged.Notify)
	if err != nil {
		return nil, err
	}

	base := []Option{WithObserver(observer), WithNotifyPolicy(policy)}
	return New(initial, append(base, opts...)...), nil
}

// ID returns the tree's unique identifier.
func (t *Tree) ID() string {
	return t.id
}

// Root returns the root Space.
func (t *Tree) Root() *Space {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nodes[0].handle
}

// Len returns the number of attached nodes, root included.
func (t *Tree) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.nodes) - len(t.free)
}

// Slots returns the size of the arena, free slots included. It never
// exceeds the largest number of nodes the tree has held at once.
func (t *Tree) Slots() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.nodes)
}

// alloc places a node in a free slot, or grows the arena when none is left.
// Callers hold t.mu, except New.
func (t *Tree) alloc(state value.Value, parent NodeID, key ChildKey, keyID value.Value) *Space {
	var id NodeID
	if last := len(t.free) - 1; last >= 0 {
		id = t.free[last]
		t.free = t.free[:last]
	} else {
		id = NodeID(len(t.nodes))
		t.nodes = append(t.nodes, nil)
	}

	n := &node{
		state:    state,
		parent:   parent,
		key:      key,
		keyID:    keyID,
		children: make(map[ChildKey]NodeID),
	}
	n.handle = &Space{tree: t, id: id}
	t.nodes[id] = n

	if parent != noParent {
		t.nodes[parent].children[key] = id
	}
	return n.handle
}

// release frees the slot of a detached node. The handle keeps the node's
// last state, key, and path; everything else goes with the slot.
func (t *Tree) release(id NodeID, path string) {
	n := t.nodes[id]
	n.handle.gone = &remains{
		state:  n.state,
		keyID:  n.keyID,
		listed: n.key.Listed,
		path:   path,
	}
	t.nodes[id] = nil
	t.free = append(t.free, id)
}

// path renders the chain of child keys from the root to id, e.g.
// "/list[\"abc\"]/child". The root is "/".
func (t *Tree) path(id NodeID) string {
	var parts []string
	for id != noParent && t.nodes[id].parent != noParent {
		parts = append(parts, t.nodes[id].key.String())
		id = t.nodes[id].parent
	}
	if len(parts) == 0 {
		return "/"
	}

	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString("/")
		b.WriteString(parts[i])
	}
	return b.String()
}

func (t *Tree) event(typ observability.EventType, level observability.Level, path string) observability.Event {
	return observability.Event{
		Type:  typ,
		Level: level,
		Tree:  t.id,
		Path:  path,
	}
}

func (t *Tree) emit(event observability.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	t.observer.OnEvent(context.Background(), event)
}
