package space

import "github.com/tailored-agentic-units/space/value"

// Action computes an update for a node. Returning a nil *Patch removes the
// node from its parent (or sets the root's state to Null). Returning an
// error aborts the action with no visible change.
//
// An Action runs while its tree is locked. It must read state through ctx
// and must not call methods of spaces in the same tree.
type Action func(ctx *ActionContext, event any) (*Patch, error)

// BoundAction runs an Action against the node it was bound to. Passing nil
// is the zero-argument form.
type BoundAction func(event any) error

// ActionContext is handed to a running Action.
type ActionContext struct {
	state value.Value
}

// State returns the node's state as of the start of the action.
func (c *ActionContext) State() value.Value {
	return c.state
}

// DeclareChild creates a handle for a new child space holding initial. The
// child becomes part of the tree only if the handle is placed in the
// returned Patch and the action succeeds.
func (c *ActionContext) DeclareChild(initial value.Value) *ChildHandle {
	return &ChildHandle{ctx: c, initial: initial}
}

// ChildHandle is a child declared inside an action.
type ChildHandle struct {
	ctx     *ActionContext
	initial value.Value
	placed  bool
}

// State returns the initial state the child will be created with.
func (h *ChildHandle) State() value.Value {
	return h.initial
}

// Elem wraps the handle as a list element. The initial state must carry an
// id field.
func (h *ChildHandle) Elem() Element {
	return Element{child: h}
}

// Element is one entry of a list field in a Patch: either a plain value or a
// declared child.
type Element struct {
	plain value.Value
	child *ChildHandle
}

// Elem wraps a plain value as a list element.
func Elem(v value.Value) Element {
	return Element{plain: v}
}

type entryKind uint8

const (
	entryValue entryKind = iota
	entryChild
	entryList
)

type patchEntry struct {
	key   string
	kind  entryKind
	value value.Value
	child *ChildHandle
	elems []Element
}

// Patch is a shallow update applied over a node's state. Keys set later
// override keys set earlier; keys not set are preserved from the current
// state.
type Patch struct {
	entries []patchEntry
	index   map[string]int
}

// NewPatch returns an empty Patch. Applying it keeps every field but still
// gives the node a new state identity.
func NewPatch() *Patch {
	return &Patch{index: make(map[string]int)}
}

func (p *Patch) put(e patchEntry) *Patch {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, exists := p.index[e.key]; exists {
		p.entries[i] = e
		return p
	}
	p.index[e.key] = len(p.entries)
	p.entries = append(p.entries, e)
	return p
}

// Set assigns a plain value to key. Setting Null removes a child registered
// at key.
func (p *Patch) Set(key string, v value.Value) *Patch {
	return p.put(patchEntry{key: key, kind: entryValue, value: v})
}

// SetFields assigns every field of fields.
func (p *Patch) SetFields(fields map[string]value.Value) *Patch {
	for k, v := range fields {
		p.Set(k, v)
	}
	return p
}

// Child places a declared child at key.
func (p *Patch) Child(key string, h *ChildHandle) *Patch {
	return p.put(patchEntry{key: key, kind: entryChild, child: h})
}

// List assigns a list to key. Declared children among elems are tracked
// individually by their id.
func (p *Patch) List(key string, elems ...Element) *Patch {
	return p.put(patchEntry{key: key, kind: entryList, elems: elems})
}

// Len returns the number of keys set on the patch.
func (p *Patch) Len() int {
	return len(p.entries)
}
