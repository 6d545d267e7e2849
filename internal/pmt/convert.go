package pmt

import "fmt"

// ConversionError reports a Value that does not hold the shape a caller
// required.
type ConversionError struct {
	From Kind
	To   string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("pmt: cannot convert %s to %s", e.From, e.To)
}

// ToFloat64 widens a numeric Value to float64. Accepted variants are F64,
// F32, U32 and U64; everything else is a ConversionError.
func ToFloat64(v Value) (float64, error) {
	switch x := v.(type) {
	case F64:
		return float64(x), nil
	case F32:
		return float64(x), nil
	case U32:
		return float64(x), nil
	case U64:
		return float64(x), nil
	default:
		return 0, &ConversionError{From: v.Kind(), To: "float64"}
	}
}

// ToUint narrows a numeric Value to uint, truncating toward zero. Negative
// floats clamp to 0. Accepted variants match ToFloat64.
func ToUint(v Value) (uint, error) {
	switch x := v.(type) {
	case F64:
		if x < 0 {
			return 0, nil
		}
		return uint(x), nil
	case F32:
		if x < 0 {
			return 0, nil
		}
		return uint(x), nil
	case U32:
		return uint(x), nil
	case U64:
		return uint(x), nil
	default:
		return 0, &ConversionError{From: v.Kind(), To: "uint"}
	}
}

// ToString returns the payload of a String variant.
func ToString(v Value) (string, error) {
	if s, ok := v.(String); ok {
		return string(s), nil
	}
	return "", &ConversionError{From: v.Kind(), To: "string"}
}
