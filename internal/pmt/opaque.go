package pmt

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Opaque is the capability required of Any payloads: independent cloning.
// Payloads routinely cross goroutine boundaries, so they must also be safe
// for concurrent reads; the type system cannot enforce that part.
type Opaque interface {
	CloneOpaque() Opaque
}

// Serde is the capability required of AnySerde payloads: cloning plus a
// stable type tag. The concrete type controls its own wire fields through
// the usual encoding/json marshaling; decoding goes through the registry.
type Serde interface {
	Opaque

	// SerdeTag returns the registry tag written into the wire envelope.
	// It must be stable across releases.
	SerdeTag() string
}

// Downcast extracts the payload of an Any or AnySerde value as T. It reports
// false for any other variant or on a type mismatch; it never panics.
func Downcast[T any](v Value) (T, bool) {
	var zero T
	switch x := v.(type) {
	case Any:
		if p, ok := x.Payload.(T); ok {
			return p, true
		}
	case AnySerde:
		if p, ok := x.Payload.(T); ok {
			return p, true
		}
	}
	return zero, false
}

// Decoder turns the serialized fields of a registered payload type back into
// the payload.
type Decoder func(data json.RawMessage) (Serde, error)

var (
	decodersMu sync.RWMutex
	decoders   = make(map[string]Decoder)
)

// RegisterSerde installs the decoder for a payload type tag. It is meant to
// be called at process startup, before any Unmarshal; registering the same
// tag twice panics, like database/sql driver registration.
func RegisterSerde(tag string, dec Decoder) {
	decodersMu.Lock()
	defer decodersMu.Unlock()

	if dec == nil {
		panic("pmt: RegisterSerde with nil decoder")
	}
	if _, dup := decoders[tag]; dup {
		panic(fmt.Sprintf("pmt: RegisterSerde called twice for tag %q", tag))
	}
	decoders[tag] = dec
}

// UnknownTagError reports a serialized AnySerde whose tag has no registered
// decoder.
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("pmt: no decoder registered for tag %q", e.Tag)
}

func lookupDecoder(tag string) (Decoder, bool) {
	decodersMu.RLock()
	defer decodersMu.RUnlock()

	dec, ok := decoders[tag]
	return dec, ok
}
