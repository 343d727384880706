package space

import (
	"fmt"

	"github.com/tailored-agentic-units/space/observability"
	"github.com/tailored-agentic-units/space/value"
)

// pendingChild is a declared child waiting to be attached at commit.
type pendingChild struct {
	parent NodeID
	key    ChildKey
	keyID  value.Value
	state  value.Value
}

// txn stages every state and registry change made by one action. Nothing is
// written to the arena until commit, so a failed action leaves no trace.
type txn struct {
	tree     *Tree
	states   map[NodeID]value.Value
	order    []NodeID
	detached map[NodeID]bool
	removed  []NodeID
	attach   []pendingChild
	replaced map[NodeID]map[ChildKey]bool
	nulled   map[NodeID]map[string]bool
	wiped    map[NodeID]bool
	events   []observability.Event
}

func newTxn(t *Tree) *txn {
	return &txn{
		tree:     t,
		states:   make(map[NodeID]value.Value),
		detached: make(map[NodeID]bool),
		replaced: make(map[NodeID]map[ChildKey]bool),
		nulled:   make(map[NodeID]map[string]bool),
		wiped:    make(map[NodeID]bool),
	}
}

func (x *txn) stateOf(id NodeID) value.Value {
	if s, staged := x.states[id]; staged {
		return s
	}
	return x.tree.nodes[id].state
}

func (x *txn) set(id NodeID, state value.Value) {
	if _, staged := x.states[id]; !staged {
		x.order = append(x.order, id)
	}
	x.states[id] = state
}

// dispatch runs fn against s, stages the resulting changes, commits them,
// and then notifies subscribers outside the lock.
func (t *Tree) dispatch(s *Space, fn Action, event any) error {
	notes, events, err := t.apply(s, fn, event)
	for _, e := range events {
		t.emit(e)
	}
	if err != nil {
		return err
	}
	for _, n := range notes {
		n.deliver()
	}
	return nil
}

func (t *Tree) apply(s *Space, fn Action, event any) ([]notification, []observability.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s.gone != nil {
		return nil, []observability.Event{
			t.event(EventActionDetached, observability.LevelWarning, s.gone.path),
		}, nil
	}

	id := s.id
	n := t.nodes[id]
	path := t.path(id)
	start := t.event(EventActionStart, observability.LevelVerbose, path)

	actionFailed := func(err error) ([]notification, []observability.Event, error) {
		failed := t.event(EventActionError, observability.LevelError, path)
		failed.Err = err
		return nil, []observability.Event{start, failed}, fmt.Errorf("space action at %s: %w", path, err)
	}

	if fn == nil {
		return actionFailed(ErrNilAction)
	}

	ctx := &ActionContext{state: n.state}
	patch, err := fn(ctx, event)
	if err != nil {
		return actionFailed(err)
	}

	x := newTxn(t)
	x.events = append(x.events, start)

	origin := id
	if patch == nil {
		if n.parent == noParent {
			x.wiped[id] = true
			err = x.propagate(id, value.Null())
		} else {
			origin = n.parent
			err = x.remove(id)
		}
	} else {
		err = x.update(id, ctx, patch)
	}
	if err != nil {
		return actionFailed(err)
	}

	x.commit()
	complete := t.event(EventActionComplete, observability.LevelVerbose, path)
	complete.Changed = len(x.order)
	x.events = append(x.events, complete)

	notes := x.notifications(origin)
	return notes, x.events, nil
}

// update merges patch over the node's state and propagates the result.
func (x *txn) update(id NodeID, ctx *ActionContext, patch *Patch) error {
	n := x.tree.nodes[id]
	fields := make(map[string]value.Value, len(patch.entries))

	for _, e := range patch.entries {
		switch e.kind {
		case entryValue:
			fields[e.key] = e.value
			if e.value.IsNull() {
				x.null(id, e.key)
			}

		case entryChild:
			if err := claim(ctx, e.child); err != nil {
				return fmt.Errorf("field %q: %w", e.key, err)
			}
			fields[e.key] = e.child.initial
			x.declare(pendingChild{parent: id, key: scalarKey(e.key), state: e.child.initial})

		case entryList:
			items, err := x.declareList(id, ctx, e)
			if err != nil {
				return fmt.Errorf("field %q: %w", e.key, err)
			}
			fields[e.key] = value.List(items...)
		}
	}

	merged, err := value.Merge(n.state, fields)
	if err != nil {
		return err
	}

	if n.key.Listed {
		newID, ok := merged.ID()
		if !ok || !value.Equal(newID, n.keyID) {
			return fmt.Errorf("%w: %s", ErrIDMismatch, n.keyID)
		}
	}

	return x.propagate(id, merged)
}

func (x *txn) declareList(parent NodeID, ctx *ActionContext, e patchEntry) ([]value.Value, error) {
	items := make([]value.Value, len(e.elems))
	seen := make(map[string]bool, len(e.elems))

	for i, el := range e.elems {
		if el.child == nil {
			items[i] = el.plain
			if id, ok := el.plain.ID(); ok {
				seen[id.String()] = true
			}
			continue
		}

		if err := claim(ctx, el.child); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		id, ok := el.child.initial.ID()
		if !ok {
			return nil, fmt.Errorf("item %d: %w", i, ErrMissingListID)
		}
		key := listKey(e.key, id)
		if seen[key.ID] {
			return nil, fmt.Errorf("item %d: %w: %s", i, ErrDuplicateListID, key.ID)
		}
		seen[key.ID] = true

		items[i] = el.child.initial
		x.declare(pendingChild{parent: parent, key: key, keyID: id, state: el.child.initial})
	}

	// A plain element sharing an id with a declared child would make the
	// child's branch ambiguous.
	for i, el := range e.elems {
		if el.child != nil {
			continue
		}
		if id, ok := el.plain.ID(); ok && x.replaced[parent][listKey(e.key, id)] {
			return nil, fmt.Errorf("item %d: %w: %s", i, ErrDuplicateListID, id)
		}
	}
	return items, nil
}

func claim(ctx *ActionContext, h *ChildHandle) error {
	if h == nil || h.ctx != ctx {
		return ErrForeignHandle
	}
	if h.placed {
		return ErrHandleReused
	}
	h.placed = true
	return nil
}

func (x *txn) declare(p pendingChild) {
	x.attach = append(x.attach, p)
	if x.replaced[p.parent] == nil {
		x.replaced[p.parent] = make(map[ChildKey]bool)
	}
	x.replaced[p.parent][p.key] = true
}

// null records that the action explicitly cleared key on id. A scalar child
// registered there is removed even if its state was already Null.
func (x *txn) null(id NodeID, key string) {
	if x.nulled[id] == nil {
		x.nulled[id] = make(map[string]bool)
	}
	x.nulled[id][key] = true
}

func (x *txn) cleared(id NodeID, key string) bool {
	return x.wiped[id] || x.nulled[id][key]
}

// remove drops a child from its parent's state and detaches its subtree.
func (x *txn) remove(id NodeID) error {
	n := x.tree.nodes[id]
	parentState := x.stateOf(n.parent)

	var branch value.Value
	if n.key.Listed {
		list, _ := parentState.Get(n.key.Name)
		idx, ok := value.FindByID(list, n.keyID)
		if !ok {
			x.detach(id)
			return nil
		}
		branch = value.RemoveAt(list, idx)
	}

	next, err := parentState.With(n.key.Name, branch)
	if err != nil {
		return err
	}

	x.detach(id)
	return x.propagate(n.parent, next)
}

// propagate stages state at id, reconciles id's children against it, and
// writes the result into each ancestor up to the root.
func (x *txn) propagate(id NodeID, state value.Value) error {
	for {
		x.set(id, state)
		x.reconcile(id, state)

		n := x.tree.nodes[id]
		if n.parent == noParent {
			return nil
		}

		parentState := x.stateOf(n.parent)
		var (
			next value.Value
			err  error
		)
		if n.key.Listed {
			list, _ := parentState.Get(n.key.Name)
			idx, ok := value.FindByID(list, n.keyID)
			if !ok {
				return fmt.Errorf("%w: %s", ErrDetached, x.tree.path(id))
			}
			next, err = parentState.With(n.key.Name, value.ReplaceAt(list, idx, state))
		} else {
			next, err = parentState.With(n.key.Name, state)
		}
		if err != nil {
			return err
		}

		id, state = n.parent, next
	}
}

// reconcile brings the registered children of id in line with state: a
// child whose branch changed takes the new branch. A child whose branch is
// gone or explicitly nulled is detached, as is one the action re-declared.
// A scalar child created over an absent field keeps its Null state until
// the key is cleared explicitly.
func (x *txn) reconcile(id NodeID, state value.Value) {
	n := x.tree.nodes[id]
	for _, key := range sortedKeys(n.children) {
		childID := n.children[key]
		if x.detached[childID] {
			continue
		}
		if x.replaced[id][key] {
			x.detach(childID)
			continue
		}

		current := x.stateOf(childID)
		branch, ok := branchOf(state, x.tree.nodes[childID])
		switch {
		case !ok:
			x.detach(childID)
		case branch.IsNull() && !key.Listed && (x.cleared(id, key.Name) || !current.IsNull()):
			x.detach(childID)
		case value.Same(branch, current):
		default:
			x.set(childID, branch)
			x.reconcile(childID, branch)
		}
	}
}

func branchOf(state value.Value, child *node) (value.Value, bool) {
	field, _ := state.Get(child.key.Name)
	if !child.key.Listed {
		return field, true
	}
	idx, ok := value.FindByID(field, child.keyID)
	if !ok {
		return value.Value{}, false
	}
	return field.Index(idx)
}

func (x *txn) detach(id NodeID) {
	if x.detached[id] {
		return
	}
	x.detached[id] = true
	x.removed = append(x.removed, id)
	for _, childID := range x.tree.nodes[id].children {
		x.detach(childID)
	}
}

func (x *txn) commit() {
	t := x.tree

	for id, state := range x.states {
		if !x.detached[id] {
			t.nodes[id].state = state
		}
	}

	paths := make([]string, len(x.removed))
	for i, id := range x.removed {
		n := t.nodes[id]
		paths[i] = t.path(id)
		x.events = append(x.events, t.event(EventChildRemove, observability.LevelVerbose, paths[i]))
		if p := t.nodes[n.parent]; p.children[n.key] == id {
			delete(p.children, n.key)
		}
	}
	for i, id := range x.removed {
		t.release(id, paths[i])
	}

	for _, p := range x.attach {
		child := t.alloc(p.state, p.parent, p.key, p.keyID)
		x.events = append(x.events, t.event(EventChildCreate, observability.LevelVerbose, t.path(child.id)))
	}
}
