// Package pmt implements the dynamic message value type carried across
// component boundaries (command ports, websocket events, config files).
//
// A Value is a closed tagged union of primitives and containers plus two
// extension points: Any (opaque payload, downcastable but never serialized)
// and AnySerde (opaque payload with a registered type tag, serialized through
// the process-wide decoder registry in opaque.go).
package pmt

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindU32
	KindU64
	KindF32
	KindF64
	KindVecF32
	KindVecU64
	KindBlob
	KindVec
	KindMap
	KindAny
	KindAnySerde
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindVecF32:
		return "vec_f32"
	case KindVecU64:
		return "vec_u64"
	case KindBlob:
		return "blob"
	case KindVec:
		return "vec"
	case KindMap:
		return "map"
	case KindAny:
		return "any"
	case KindAnySerde:
		return "any_serde"
	default:
		return "unknown"
	}
}

// Value is the dynamic message type. Implementations are the variant types in
// this package and nothing else.
//
// Equality is structural for every variant except Any and AnySerde, which are
// never equal to anything, themselves included. This is a deliberate
// weakening: opaque payloads carry no comparison capability.
type Value interface {
	Kind() Kind
	Clone() Value
	Equal(other Value) bool
}

// Null is the empty value. It doubles as the success reply of command ports.
type Null struct{}

// String holds a UTF-8 string.
type String string

// U32 holds an unsigned 32-bit integer.
type U32 uint32

// U64 holds an unsigned 64-bit integer.
type U64 uint64

// F32 holds a 32-bit float.
type F32 float32

// F64 holds a 64-bit float.
type F64 float64

// VecF32 holds a vector of 32-bit floats.
type VecF32 []float32

// VecU64 holds a vector of unsigned 64-bit integers.
type VecU64 []uint64

// Blob holds raw bytes.
type Blob []byte

// Vec holds an ordered vector of Values.
type Vec []Value

// Map holds a string-keyed map of Values. Keys are unique, order carries no
// meaning.
type Map map[string]Value

// Any holds an arbitrary opaque payload. It is excluded from the wire format
// and from equality comparisons.
type Any struct {
	Payload Opaque
}

// AnySerde holds an opaque payload that additionally carries a stable type
// tag for serialization through the decoder registry.
type AnySerde struct {
	Payload Serde
}

func (Null) Kind() Kind     { return KindNull }
func (String) Kind() Kind   { return KindString }
func (U32) Kind() Kind      { return KindU32 }
func (U64) Kind() Kind      { return KindU64 }
func (F32) Kind() Kind      { return KindF32 }
func (F64) Kind() Kind      { return KindF64 }
func (VecF32) Kind() Kind   { return KindVecF32 }
func (VecU64) Kind() Kind   { return KindVecU64 }
func (Blob) Kind() Kind     { return KindBlob }
func (Vec) Kind() Kind      { return KindVec }
func (Map) Kind() Kind      { return KindMap }
func (Any) Kind() Kind      { return KindAny }
func (AnySerde) Kind() Kind { return KindAnySerde }

func (v Null) Clone() Value   { return v }
func (v String) Clone() Value { return v }
func (v U32) Clone() Value    { return v }
func (v U64) Clone() Value    { return v }
func (v F32) Clone() Value    { return v }
func (v F64) Clone() Value    { return v }

func (v VecF32) Clone() Value {
	out := make(VecF32, len(v))
	copy(out, v)
	return out
}

func (v VecU64) Clone() Value {
	out := make(VecU64, len(v))
	copy(out, v)
	return out
}

func (v Blob) Clone() Value {
	out := make(Blob, len(v))
	copy(out, v)
	return out
}

func (v Vec) Clone() Value {
	out := make(Vec, len(v))
	for i, e := range v {
		out[i] = e.Clone()
	}
	return out
}

func (v Map) Clone() Value {
	out := make(Map, len(v))
	for k, e := range v {
		out[k] = e.Clone()
	}
	return out
}

func (v Any) Clone() Value {
	return Any{Payload: v.Payload.CloneOpaque()}
}

func (v AnySerde) Clone() Value {
	return AnySerde{Payload: v.Payload.CloneOpaque().(Serde)}
}

func (v Null) Equal(other Value) bool {
	_, ok := other.(Null)
	return ok
}

func (v String) Equal(other Value) bool {
	o, ok := other.(String)
	return ok && v == o
}

func (v U32) Equal(other Value) bool {
	o, ok := other.(U32)
	return ok && v == o
}

func (v U64) Equal(other Value) bool {
	o, ok := other.(U64)
	return ok && v == o
}

func (v F32) Equal(other Value) bool {
	o, ok := other.(F32)
	return ok && v == o
}

func (v F64) Equal(other Value) bool {
	o, ok := other.(F64)
	return ok && v == o
}

func (v VecF32) Equal(other Value) bool {
	o, ok := other.(VecF32)
	if !ok || len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

func (v VecU64) Equal(other Value) bool {
	o, ok := other.(VecU64)
	if !ok || len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

func (v Blob) Equal(other Value) bool {
	o, ok := other.(Blob)
	if !ok || len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

func (v Vec) Equal(other Value) bool {
	o, ok := other.(Vec)
	if !ok || len(v) != len(o) {
		return false
	}
	for i := range v {
		if !v[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

func (v Map) Equal(other Value) bool {
	o, ok := other.(Map)
	if !ok || len(v) != len(o) {
		return false
	}
	for k, e := range v {
		oe, found := o[k]
		if !found || !e.Equal(oe) {
			return false
		}
	}
	return true
}

// Equal on Any always reports false, even against itself.
func (v Any) Equal(other Value) bool { return false }

// Equal on AnySerde always reports false, even against itself.
func (v AnySerde) Equal(other Value) bool { return false }
