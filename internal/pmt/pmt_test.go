package pmt

import (
	"testing"
)

func TestEqualityStructural(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"null/null", Null{}, Null{}, true},
		{"null/u32", Null{}, U32(1), false},
		{"u32 same", U32(123), U32(123), true},
		{"u32 differ", U32(123), U32(12), false},
		{"u32/u64 never cross-kind", U32(5), U64(5), false},
		{"f32 same", F32(0.1), F32(0.1), true},
		{"f32 differ", F32(0.1), F32(0.2), false},
		{"string same", String("foo"), String("foo"), true},
		{"blob same", Blob{1, 2, 3}, Blob{1, 2, 3}, true},
		{"blob differ", Blob{1, 2, 3}, Blob{1, 2, 4}, false},
		{"vec_f32 same", VecF32{1, 2}, VecF32{1, 2}, true},
		{"vec_u64 length", VecU64{1}, VecU64{1, 2}, false},
		{"vec recursive", Vec{U32(1), String("x")}, Vec{U32(1), String("x")}, true},
		{"vec order matters", Vec{U32(1), U32(2)}, Vec{U32(2), U32(1)}, false},
		{
			"map recursive",
			Map{"a": U32(1), "b": Map{"c": F64(2)}},
			Map{"b": Map{"c": F64(2)}, "a": U32(1)},
			true,
		},
		{"map missing key", Map{"a": U32(1)}, Map{"b": U32(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal() not symmetric: %v, want %v", got, tt.want)
			}
		})
	}
}

type testPayload struct {
	N uint32
}

func (p testPayload) CloneOpaque() Opaque { return p }

func TestAnyNeverEqual(t *testing.T) {
	a := Any{Payload: testPayload{N: 7}}

	if a.Equal(a) {
		t.Error("Any must not equal itself")
	}
	if a.Equal(Any{Payload: testPayload{N: 7}}) {
		t.Error("Any must not equal a structurally identical Any")
	}
	if a.Equal(Null{}) {
		t.Error("Any must not equal other variants")
	}
}

func TestDowncast(t *testing.T) {
	a := Any{Payload: testPayload{N: 42}}

	got, ok := Downcast[testPayload](a)
	if !ok {
		t.Fatal("Downcast to the stored type failed")
	}
	if got.N != 42 {
		t.Errorf("payload N = %d, want 42", got.N)
	}
}

type unrelatedPayload struct{}

func (unrelatedPayload) CloneOpaque() Opaque { return unrelatedPayload{} }

func TestDowncastMismatchIsAbsent(t *testing.T) {
	a := Any{Payload: testPayload{N: 1}}

	if _, ok := Downcast[unrelatedPayload](a); ok {
		t.Error("Downcast to an unrelated type must report absent")
	}
	// Non-opaque variants never downcast.
	if _, ok := Downcast[testPayload](U32(1)); ok {
		t.Error("Downcast of a primitive variant must report absent")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := Map{
		"blob": Blob{1, 2, 3},
		"vec":  Vec{U32(1), VecF32{1.5}},
	}

	c := m.Clone().(Map)
	if !m.Equal(c) {
		t.Fatal("clone must be structurally equal to the original")
	}

	c["blob"].(Blob)[0] = 99
	c["vec"].(Vec)[1].(VecF32)[0] = 9.9

	if m["blob"].(Blob)[0] != 1 {
		t.Error("mutating the clone's blob leaked into the original")
	}
	if m["vec"].(Vec)[1].(VecF32)[0] != 1.5 {
		t.Error("mutating the clone's nested vector leaked into the original")
	}
}

func TestNumericCoercions(t *testing.T) {
	for _, v := range []Value{F64(7), F32(7), U32(7), U64(7)} {
		f, err := ToFloat64(v)
		if err != nil {
			t.Fatalf("ToFloat64(%s) failed: %v", v.Kind(), err)
		}
		if f != 7 {
			t.Errorf("ToFloat64(%s) = %v, want 7", v.Kind(), f)
		}

		u, err := ToUint(v)
		if err != nil {
			t.Fatalf("ToUint(%s) failed: %v", v.Kind(), err)
		}
		if u != 7 {
			t.Errorf("ToUint(%s) = %v, want 7", v.Kind(), u)
		}
	}
}

func TestCoercionTruncatesTowardZero(t *testing.T) {
	if u, err := ToUint(F64(3.9)); err != nil || u != 3 {
		t.Errorf("ToUint(3.9) = %v, %v; want 3, nil", u, err)
	}
	if u, err := ToUint(F32(-1.5)); err != nil || u != 0 {
		t.Errorf("ToUint(-1.5) = %v, %v; want 0, nil", u, err)
	}
}

func TestCoercionRejectsNonNumeric(t *testing.T) {
	bad := []Value{
		Null{},
		String("100"),
		Blob{1},
		Vec{U32(1)},
		Map{"a": U32(1)},
		Any{Payload: testPayload{}},
	}
	for _, v := range bad {
		if _, err := ToFloat64(v); err == nil {
			t.Errorf("ToFloat64(%s) should fail", v.Kind())
		}
		var convErr *ConversionError
		_, err := ToUint(v)
		if err == nil {
			t.Errorf("ToUint(%s) should fail", v.Kind())
			continue
		}
		if !asConversionError(err, &convErr) {
			t.Errorf("ToUint(%s) error type = %T, want *ConversionError", v.Kind(), err)
		}
	}
}

func asConversionError(err error, target **ConversionError) bool {
	ce, ok := err.(*ConversionError)
	if ok {
		*target = ce
	}
	return ok
}
