package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// From converts a Go value of JSON shape into a Value. Supported inputs are
// nil, bool, the integer and float kinds, string, json.Number,
// map[string]any, []any, and Value itself, nested arbitrarily.
func From(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return Int(x), nil
	case int8:
		return Number(float64(x)), nil
	case int16:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case uint:
		return Number(float64(x)), nil
	case uint8:
		return Number(float64(x)), nil
	case uint16:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case float32:
		return Number(float64(x)), nil
	case float64:
		return Number(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", x, err)
		}
		return Number(f), nil
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, fv := range x {
			field, err := From(fv)
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", k, err)
			}
			fields[k] = field
		}
		return Value{kind: KindObject, obj: &object{fields: fields}}, nil
	case map[string]Value:
		return Object(x), nil
	case []any:
		items := make([]Value, len(x))
		for i, iv := range x {
			item, err := From(iv)
			if err != nil {
				return Value{}, fmt.Errorf("item %d: %w", i, err)
			}
			items[i] = item
		}
		return Value{kind: KindList, list: &list{items: items}}, nil
	case []Value:
		return List(x...), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// MustFrom is like From but panics on error. Intended for literals in tests
// and initialization code.
func MustFrom(v any) Value {
	val, err := From(v)
	if err != nil {
		panic(err)
	}
	return val
}

// Interface converts v back into plain Go values: nil, bool, float64,
// string, map[string]any, and []any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindObject:
		out := make(map[string]any, len(v.obj.fields))
		for k, field := range v.obj.fields {
			out[k] = field.Interface()
		}
		return out
	case KindList:
		out := make([]any, len(v.list.items))
		for i, item := range v.list.items {
			out[i] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Parse decodes JSON text into a Value.
func Parse(data []byte) (Value, error) {
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		return Value{}, err
	}
	return v, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) Value {
	v, err := Parse([]byte(text))
	if err != nil {
		panic(fmt.Sprintf("value: parse %q: %v", text, err))
	}
	return v
}

// MarshalJSON encodes v as JSON. NaN and infinite numbers are rejected.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return nil, fmt.Errorf("%w: non-finite number", ErrUnsupportedType)
		}
		return []byte(strconv.FormatFloat(v.n, 'f', -1, 64)), nil
	default:
		return json.Marshal(v.Interface())
	}
}

// UnmarshalJSON decodes any JSON document into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	parsed, err := From(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// String renders v as compact JSON.
func (v Value) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%s: %v>", v.kind, err)
	}
	return string(data)
}
