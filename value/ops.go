package value

import "maps"

// IDField is the reserved field carrying the identity of list elements.
const IDField = "id"

// Merge returns a new Object holding base's fields overridden by patch.
// A Null base counts as an empty Object. The result never shares identity
// with base, even when patch is empty.
func Merge(base Value, patch map[string]Value) (Value, error) {
	var fields map[string]Value
	switch base.kind {
	case KindNull:
		fields = make(map[string]Value, len(patch))
	case KindObject:
		fields = maps.Clone(base.obj.fields)
		if fields == nil {
			fields = make(map[string]Value, len(patch))
		}
	default:
		return Value{}, ErrNotObject
	}
	maps.Copy(fields, patch)
	return Value{kind: KindObject, obj: &object{fields: fields}}, nil
}

// With returns a new Object equal to v with key set to field.
func (v Value) With(key string, field Value) (Value, error) {
	return Merge(v, map[string]Value{key: field})
}

// ID returns the id field of an Object element.
func (v Value) ID() (Value, bool) {
	id, exists := v.Get(IDField)
	if !exists || id.IsNull() {
		return Value{}, false
	}
	return id, true
}

// FindByID returns the index of the element of l whose id field Equals id.
func FindByID(l Value, id Value) (int, bool) {
	if l.kind != KindList {
		return -1, false
	}
	for i, item := range l.list.items {
		if itemID, ok := item.ID(); ok && Equal(itemID, id) {
			return i, true
		}
	}
	return -1, false
}

// ReplaceAt returns a new List equal to l with the i-th item replaced by item.
func ReplaceAt(l Value, i int, item Value) Value {
	items := l.Items()
	if i >= 0 && i < len(items) {
		items[i] = item
	}
	return Value{kind: KindList, list: &list{items: items}}
}

// RemoveAt returns a new List equal to l without the i-th item. The order of the
// remaining items is preserved.
func RemoveAt(l Value, i int) Value {
	items := l.Items()
	if i >= 0 && i < len(items) {
		items = append(items[:i], items[i+1:]...)
	}
	return Value{kind: KindList, list: &list{items: items}}
}
