package value

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// ToProto converts v into the protobuf well-known google.protobuf.Value.
func (v Value) ToProto() (*structpb.Value, error) {
	switch v.kind {
	case KindNull:
		return structpb.NewNullValue(), nil
	case KindBool:
		return structpb.NewBoolValue(v.b), nil
	case KindNumber:
		return structpb.NewNumberValue(v.n), nil
	case KindString:
		return structpb.NewStringValue(v.s), nil
	case KindObject:
		fields := make(map[string]*structpb.Value, len(v.obj.fields))
		for k, field := range v.obj.fields {
			pv, err := field.ToProto()
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			fields[k] = pv
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields}), nil
	case KindList:
		items := make([]*structpb.Value, len(v.list.items))
		for i, item := range v.list.items {
			pv, err := item.ToProto()
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			items[i] = pv
		}
		return structpb.NewListValue(&structpb.ListValue{Values: items}), nil
	default:
		return nil, fmt.Errorf("%w: kind %s", ErrUnsupportedType, v.kind)
	}
}

// FromProto converts a google.protobuf.Value into a Value. A nil message
// converts to Null.
func FromProto(pv *structpb.Value) (Value, error) {
	if pv == nil {
		return Null(), nil
	}
	switch kind := pv.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return Null(), nil
	case *structpb.Value_BoolValue:
		return Bool(kind.BoolValue), nil
	case *structpb.Value_NumberValue:
		return Number(kind.NumberValue), nil
	case *structpb.Value_StringValue:
		return String(kind.StringValue), nil
	case *structpb.Value_StructValue:
		fields := make(map[string]Value, len(kind.StructValue.GetFields()))
		for k, field := range kind.StructValue.GetFields() {
			v, err := FromProto(field)
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", k, err)
			}
			fields[k] = v
		}
		return Value{kind: KindObject, obj: &object{fields: fields}}, nil
	case *structpb.Value_ListValue:
		items := make([]Value, len(kind.ListValue.GetValues()))
		for i, item := range kind.ListValue.GetValues() {
			v, err := FromProto(item)
			if err != nil {
				return Value{}, fmt.Errorf("item %d: %w", i, err)
			}
			items[i] = v
		}
		return Value{kind: KindList, list: &list{items: items}}, nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, kind)
	}
}
