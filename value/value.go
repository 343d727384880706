// Package value implements the JSON-like tagged union used as space state.
//
// A Value is one of a closed set of kinds: Null, Bool, Number, String,
// Object, or List. The zero Value is Null. Object and List values are
// immutable once constructed; every operation that changes content returns
// a new Value with a new identity.
//
//	v := value.Object(map[string]value.Value{
//	    "count": value.Int(1),
//	    "tags":  value.List(value.String("a"), value.String("b")),
//	})
//	count, _ := v.Get("count")
//
// Identity is observable through Same, which lets consumers detect change by
// reference instead of by deep comparison.
package value

import (
	"maps"
	"slices"
	"sort"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

type object struct {
	fields map[string]Value
}

type list struct {
	items []Value
}

// Value is an immutable JSON-like value.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	obj  *object
	list *list
}

// Null returns the null Value.
func Null() Value {
	return Value{}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number returns a numeric Value.
func Number(n float64) Value {
	return Value{kind: KindNumber, n: n}
}

// Int returns a numeric Value holding i.
func Int(i int) Value {
	return Value{kind: KindNumber, n: float64(i)}
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Object returns an Object Value holding a copy of fields. A nil map yields
// an empty Object.
func Object(fields map[string]Value) Value {
	cloned := make(map[string]Value, len(fields))
	maps.Copy(cloned, fields)
	return Value{kind: KindObject, obj: &object{fields: cloned}}
}

// List returns a List Value holding a copy of items.
func List(items ...Value) Value {
	return Value{kind: KindList, list: &list{items: slices.Clone(items)}}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is Null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsObject reports whether v is an Object.
func (v Value) IsObject() bool {
	return v.kind == KindObject
}

// IsList reports whether v is a List.
func (v Value) IsList() bool {
	return v.kind == KindList
}

// AsBool returns the boolean held by v and whether v is a Bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsNumber returns the number held by v and whether v is a Number.
func (v Value) AsNumber() (float64, bool) {
	return v.n, v.kind == KindNumber
}

// AsString returns the string held by v and whether v is a String.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// Get returns the field named key. It reports false when v is not an Object
// or has no such field.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	field, exists := v.obj.fields[key]
	return field, exists
}

// Keys returns the field names of an Object in sorted order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(v.obj.fields))
	for k := range v.obj.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fields returns a copy of an Object's fields, or nil for other kinds.
func (v Value) Fields() map[string]Value {
	if v.kind != KindObject {
		return nil
	}
	return maps.Clone(v.obj.fields)
}

// Len returns the number of fields of an Object or items of a List.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.obj.fields)
	case KindList:
		return len(v.list.items)
	default:
		return 0
	}
}

// Index returns the i-th item of a List.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindList || i < 0 || i >= len(v.list.items) {
		return Value{}, false
	}
	return v.list.items[i], true
}

// Items returns a copy of a List's items, or nil for other kinds.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return slices.Clone(v.list.items)
}

// Same reports whether a and b are the same value by identity. Objects and
// Lists are Same only when they share a backing allocation; scalars are Same
// when they are Equal.
func Same(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindObject:
		return a.obj == b.obj
	case KindList:
		return a.list == b.list
	default:
		return Equal(a, b)
	}
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindString:
		return a.s == b.s
	case KindObject:
		if a.obj == b.obj {
			return true
		}
		if len(a.obj.fields) != len(b.obj.fields) {
			return false
		}
		for k, av := range a.obj.fields {
			bv, exists := b.obj.fields[k]
			if !exists || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindList:
		if a.list == b.list {
			return true
		}
		return slices.EqualFunc(a.list.items, b.list.items, Equal)
	}
	return false
}
