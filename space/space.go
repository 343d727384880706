package space

import (
	"github.com/tailored-agentic-units/space/observability"
	"github.com/tailored-agentic-units/space/value"
)

// Space is a handle to one node of a tree. Repeated lookups of the same
// child return the same *Space, so handles can be compared with ==.
type Space struct {
	tree *Tree
	id   NodeID

	// gone is set under tree.mu when the node is detached. From then on the
	// handle no longer reads the arena, whose slot may hold another node.
	gone *remains
}

// remains is what a detached handle still reports.
type remains struct {
	state  value.Value
	keyID  value.Value
	listed bool
	path   string
}

// State returns the node's current state snapshot. A detached node reports
// the state it held when it was removed.
func (s *Space) State() value.Value {
	s.tree.mu.Lock()
	defer s.tree.mu.Unlock()

	if s.gone != nil {
		return s.gone.state
	}
	return s.tree.nodes[s.id].state
}

// DoAction binds fn to this node. The returned BoundAction runs fn each time
// it is called; binding itself has no effect.
func (s *Space) DoAction(fn Action) BoundAction {
	return func(event any) error {
		return s.tree.dispatch(s, fn, event)
	}
}

// SubSpace returns the child registered under name, creating it from
// State()[name] on first access. An absent field yields a child with Null
// state. Returns nil when s is detached.
func (s *Space) SubSpace(name string) *Space {
	return s.lookup(scalarKey(name), func(state value.Value) (value.Value, bool) {
		field, _ := state.Get(name)
		return field, true
	}, value.Null())
}

// SubSpaceByID returns the child for the element of the list at
// State()[name] whose id field equals id, creating it on first access.
// Returns nil when no such element exists or s is detached.
func (s *Space) SubSpaceByID(name string, id value.Value) *Space {
	return s.lookup(listKey(name, id), func(state value.Value) (value.Value, bool) {
		list, _ := state.Get(name)
		idx, ok := value.FindByID(list, id)
		if !ok {
			return value.Value{}, false
		}
		return list.Index(idx)
	}, id)
}

func (s *Space) lookup(key ChildKey, resolve func(value.Value) (value.Value, bool), keyID value.Value) *Space {
	t := s.tree
	t.mu.Lock()

	if s.gone != nil {
		t.mu.Unlock()
		return nil
	}
	n := t.nodes[s.id]
	if id, exists := n.children[key]; exists {
		t.mu.Unlock()
		return t.nodes[id].handle
	}

	initial, ok := resolve(n.state)
	if !ok {
		t.mu.Unlock()
		return nil
	}

	child := t.alloc(initial, s.id, key, keyID)
	event := t.event(EventChildCreate, observability.LevelVerbose, t.path(child.id))
	t.mu.Unlock()

	t.emit(event)
	return child
}

// Key returns the list id a child was registered under. It reports false for
// the root and for scalar children.
func (s *Space) Key() (value.Value, bool) {
	s.tree.mu.Lock()
	defer s.tree.mu.Unlock()

	if s.gone != nil {
		return s.gone.keyID, s.gone.listed
	}
	n := s.tree.nodes[s.id]
	return n.keyID, n.key.Listed
}

// Parent returns the node's parent. It reports false for the root and for
// detached nodes.
func (s *Space) Parent() (*Space, bool) {
	s.tree.mu.Lock()
	defer s.tree.mu.Unlock()

	if s.gone != nil {
		return nil, false
	}
	n := s.tree.nodes[s.id]
	if n.parent == noParent {
		return nil, false
	}
	return s.tree.nodes[n.parent].handle, true
}

// Children returns the keys of the registered children in sorted order.
func (s *Space) Children() []ChildKey {
	s.tree.mu.Lock()
	defer s.tree.mu.Unlock()

	if s.gone != nil {
		return nil
	}
	return sortedKeys(s.tree.nodes[s.id].children)
}

// Child returns the registered child under key without creating it.
func (s *Space) Child(key ChildKey) (*Space, bool) {
	s.tree.mu.Lock()
	defer s.tree.mu.Unlock()

	if s.gone != nil {
		return nil, false
	}
	id, exists := s.tree.nodes[s.id].children[key]
	if !exists {
		return nil, false
	}
	return s.tree.nodes[id].handle, true
}

// Detached reports whether the node has been removed from its tree.
// Detached nodes keep their last state; their actions are no-ops.
func (s *Space) Detached() bool {
	s.tree.mu.Lock()
	defer s.tree.mu.Unlock()
	return s.gone != nil
}

// Path returns the node's location from the root, e.g. "/list[\"a\"]". A
// detached node reports the path it had when it was removed.
func (s *Space) Path() string {
	s.tree.mu.Lock()
	defer s.tree.mu.Unlock()

	if s.gone != nil {
		return s.gone.path
	}
	return s.tree.path(s.id)
}

// Tree returns the tree s belongs to.
func (s *Space) Tree() *Tree {
	return s.tree
}
