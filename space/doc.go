// Package space implements a hierarchical, immutable state container.
//
// A Space is one node of a tree. Its state is an immutable value.Value that
// is replaced, never modified, whenever an action changes it. Child spaces
// address slices of their parent's state, either by field name or by the id
// of an element in a list field, and every change to a child is written back
// into each ancestor up to the root before the action returns.
//
//	root := space.New(value.MustParse(`{"count":1,"child":{}}`))
//
//	increment := root.DoAction(func(ctx *space.ActionContext, event any) (*space.Patch, error) {
//	    n, _ := ctx.State().Get("count")
//	    count, _ := n.AsNumber()
//	    return space.NewPatch().Set("count", value.Number(count+1)), nil
//	})
//	_ = increment(nil)
//
//	child := root.SubSpace("child")
//	_ = child.DoAction(func(ctx *space.ActionContext, event any) (*space.Patch, error) {
//	    return space.NewPatch().Set("value", value.String("x")), nil
//	})(nil)
//	// root.State() is now {"count":2,"child":{"value":"x"}}
//
// # Declaring children
//
// Actions create children through the ActionContext. Declared children in a
// list are tracked by their "id" field, which must be present and unique:
//
//	root.DoAction(func(ctx *space.ActionContext, _ any) (*space.Patch, error) {
//	    item := ctx.DeclareChild(value.MustParse(`{"id":"a","done":false}`))
//	    return space.NewPatch().List("todos", item.Elem()), nil
//	})
//
// # Removal
//
// An action returning a nil Patch removes its node: a scalar child's field
// becomes null, a list child's element is dropped from the list. Removed
// spaces are detached; their later actions do nothing.
//
// # Consistency
//
// Each action stages its changes and commits them at once under the tree's
// lock. An action that returns an error, or fails validation, leaves the
// tree untouched. Subscribers run after commit, outside the lock.
package space
