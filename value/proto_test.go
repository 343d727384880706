package value_test

import (
	"testing"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/space/value"
)

func TestProto_RoundTrip(t *testing.T) {
	v := value.MustParse(`{"initialState":"here","count":1,"child":{},"list":[{"id":"abc12-3","ok":true}],"gone":null}`)

	pv, err := v.ToProto()
	if err != nil {
		t.Fatalf("ToProto failed: %v", err)
	}

	back, err := value.FromProto(pv)
	if err != nil {
		t.Fatalf("FromProto failed: %v", err)
	}
	if !value.Equal(v, back) {
		t.Errorf("proto round trip = %s, want %s", back, v)
	}
}

func TestFromProto_Nil(t *testing.T) {
	v, err := value.FromProto(nil)
	if err != nil {
		t.Fatalf("FromProto(nil) failed: %v", err)
	}
	if !v.IsNull() {
		t.Errorf("FromProto(nil) = %s, want null", v)
	}
}

func TestFromProto_Struct(t *testing.T) {
	pv, err := structpb.NewValue(map[string]any{"value": "present", "n": 2})
	if err != nil {
		t.Fatalf("structpb.NewValue failed: %v", err)
	}

	v, err := value.FromProto(pv)
	if err != nil {
		t.Fatalf("FromProto failed: %v", err)
	}
	if !value.Equal(v, value.MustParse(`{"value":"present","n":2}`)) {
		t.Errorf("FromProto = %s", v)
	}
}
