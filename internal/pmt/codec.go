package pmt

import (
	"encoding/json"
	"fmt"
)

// envelope is the self-describing wire form of a Value.
type envelope struct {
	Type  string          `json:"type"`
	Tag   string          `json:"tag,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Marshal serializes a Value into its JSON envelope.
//
// Any payloads carry no serialization capability and are excluded from the
// wire format: map entries and vector elements holding Any are omitted, and a
// bare Any marshals as the null envelope. This mirrors "skip" semantics, it
// is not an error.
func Marshal(v Value) ([]byte, error) {
	env, err := encode(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// Unmarshal decodes a JSON envelope back into a Value. An AnySerde envelope
// whose tag has no registered decoder fails with UnknownTagError.
func Unmarshal(data []byte) (Value, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("pmt: invalid envelope: %w", err)
	}
	return decode(env)
}

func encode(v Value) (*envelope, error) {
	env := &envelope{Type: v.Kind().String()}

	switch x := v.(type) {
	case Null:
		return env, nil
	case String:
		return env, encodePayload(env, string(x))
	case U32:
		return env, encodePayload(env, uint32(x))
	case U64:
		return env, encodePayload(env, uint64(x))
	case F32:
		return env, encodePayload(env, float32(x))
	case F64:
		return env, encodePayload(env, float64(x))
	case VecF32:
		return env, encodePayload(env, []float32(x))
	case VecU64:
		return env, encodePayload(env, []uint64(x))
	case Blob:
		return env, encodePayload(env, []byte(x))
	case Vec:
		elems := make([]*envelope, 0, len(x))
		for _, e := range x {
			if e.Kind() == KindAny {
				continue
			}
			ee, err := encode(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, ee)
		}
		return env, encodePayload(env, elems)
	case Map:
		entries := make(map[string]*envelope, len(x))
		for k, e := range x {
			if e.Kind() == KindAny {
				continue
			}
			ee, err := encode(e)
			if err != nil {
				return nil, err
			}
			entries[k] = ee
		}
		return env, encodePayload(env, entries)
	case Any:
		// Excluded from the wire format.
		return &envelope{Type: KindNull.String()}, nil
	case AnySerde:
		env.Tag = x.Payload.SerdeTag()
		return env, encodePayload(env, x.Payload)
	default:
		return nil, fmt.Errorf("pmt: cannot marshal %T", v)
	}
}

func encodePayload(env *envelope, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("pmt: marshal %s payload: %w", env.Type, err)
	}
	env.Value = raw
	return nil
}

func decode(env envelope) (Value, error) {
	switch env.Type {
	case "null":
		return Null{}, nil
	case "string":
		var s string
		if err := decodePayload(env, &s); err != nil {
			return nil, err
		}
		return String(s), nil
	case "u32":
		var u uint32
		if err := decodePayload(env, &u); err != nil {
			return nil, err
		}
		return U32(u), nil
	case "u64":
		var u uint64
		if err := decodePayload(env, &u); err != nil {
			return nil, err
		}
		return U64(u), nil
	case "f32":
		var f float32
		if err := decodePayload(env, &f); err != nil {
			return nil, err
		}
		return F32(f), nil
	case "f64":
		var f float64
		if err := decodePayload(env, &f); err != nil {
			return nil, err
		}
		return F64(f), nil
	case "vec_f32":
		var fs []float32
		if err := decodePayload(env, &fs); err != nil {
			return nil, err
		}
		return VecF32(fs), nil
	case "vec_u64":
		var us []uint64
		if err := decodePayload(env, &us); err != nil {
			return nil, err
		}
		return VecU64(us), nil
	case "blob":
		var b []byte
		if err := decodePayload(env, &b); err != nil {
			return nil, err
		}
		return Blob(b), nil
	case "vec":
		var elems []envelope
		if err := decodePayload(env, &elems); err != nil {
			return nil, err
		}
		out := make(Vec, 0, len(elems))
		for _, ee := range elems {
			e, err := decode(ee)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	case "map":
		var entries map[string]envelope
		if err := decodePayload(env, &entries); err != nil {
			return nil, err
		}
		out := make(Map, len(entries))
		for k, ee := range entries {
			e, err := decode(ee)
			if err != nil {
				return nil, err
			}
			out[k] = e
		}
		return out, nil
	case "any_serde":
		dec, ok := lookupDecoder(env.Tag)
		if !ok {
			return nil, &UnknownTagError{Tag: env.Tag}
		}
		payload, err := dec(env.Value)
		if err != nil {
			return nil, fmt.Errorf("pmt: decode tag %q: %w", env.Tag, err)
		}
		return AnySerde{Payload: payload}, nil
	default:
		return nil, fmt.Errorf("pmt: unknown envelope type %q", env.Type)
	}
}

func decodePayload(env envelope, into any) error {
	if env.Value == nil {
		return fmt.Errorf("pmt: %s envelope without value", env.Type)
	}
	if err := json.Unmarshal(env.Value, into); err != nil {
		return fmt.Errorf("pmt: decode %s payload: %w", env.Type, err)
	}
	return nil
}
