package pmt

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRoundTripPrimitives(t *testing.T) {
	values := []Value{
		Null{},
		String("a string"),
		U32(42),
		U64(1 << 40),
		F32(1.5),
		F64(100e6),
		VecF32{1, 2.5, -3},
		VecU64{7, 8, 9},
		Blob{0x00, 0xff, 0x7f},
		Vec{U32(1), String("x"), Vec{F64(2)}},
		Map{"freq": F64(100e6), "sub": Map{"gain": F32(1)}},
	}

	for _, v := range values {
		data, err := Marshal(v)
		if err != nil {
			t.Fatalf("Marshal(%s) failed: %v", v.Kind(), err)
		}
		back, err := Unmarshal(data)
		if err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v\n%s", v.Kind(), err, data)
		}
		if !v.Equal(back) {
			t.Errorf("round trip of %s changed the value: %s", v.Kind(), data)
		}
	}
}

func TestAnyExcludedFromWire(t *testing.T) {
	payload := testPayload{N: 1}

	// Bare Any serializes as the null envelope.
	data, err := Marshal(Any{Payload: payload})
	if err != nil {
		t.Fatalf("Marshal(Any) must not fail: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := back.(Null); !ok {
		t.Errorf("bare Any must decode as Null, got %s", back.Kind())
	}

	// Container entries holding Any are omitted.
	m := Map{"keep": U32(1), "drop": Any{Payload: payload}}
	data, err = Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	back, err = Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	got := back.(Map)
	if len(got) != 1 {
		t.Errorf("map round trip kept %d entries, want 1", len(got))
	}
	if !got["keep"].Equal(U32(1)) {
		t.Error("serializable map entry lost")
	}

	v := Vec{U32(1), Any{Payload: payload}, U32(2)}
	data, err = Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	back, err = Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(Vec{U32(1), U32(2)}) {
		t.Errorf("vec round trip = %v, want Any element dropped", back)
	}
}

type serdePayload struct {
	A uint32 `json:"a"`
	B string `json:"b"`
}

func (p serdePayload) CloneOpaque() Opaque { return p }
func (p serdePayload) SerdeTag() string    { return "pmt_test.serde_payload" }

func init() {
	RegisterSerde("pmt_test.serde_payload", func(data json.RawMessage) (Serde, error) {
		var p serdePayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	})
}

func TestAnySerdeRoundTrip(t *testing.T) {
	orig := serdePayload{A: 1, B: "three"}

	data, err := Marshal(AnySerde{Payload: orig})
	if err != nil {
		t.Fatal(err)
	}

	back, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}

	got, ok := Downcast[serdePayload](back)
	if !ok {
		t.Fatalf("downcast after round trip failed, got %s", back.Kind())
	}
	if got != orig {
		t.Errorf("payload = %+v, want %+v", got, orig)
	}
}

func TestUnknownTagFailsDecode(t *testing.T) {
	data := []byte(`{"type":"any_serde","tag":"never.registered","value":{}}`)

	_, err := Unmarshal(data)
	if err == nil {
		t.Fatal("decode of an unregistered tag must fail")
	}

	var tagErr *UnknownTagError
	if !errors.As(err, &tagErr) {
		t.Fatalf("error type = %T, want *UnknownTagError", err)
	}
	if tagErr.Tag != "never.registered" {
		t.Errorf("tag = %q", tagErr.Tag)
	}
}

func TestRegisterSerdeDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("duplicate registration must panic")
		}
	}()
	RegisterSerde("pmt_test.serde_payload", func(json.RawMessage) (Serde, error) { return nil, nil })
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	for _, data := range []string{
		`{"type":"nope"}`,
		`{"type":"u32","value":"not a number"}`,
		`{"type":"u32"}`,
		`[]`,
	} {
		if _, err := Unmarshal([]byte(data)); err == nil {
			t.Errorf("Unmarshal(%s) should fail", data)
		}
	}
}
