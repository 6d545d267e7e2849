package tuning

import (
	"go.uber.org/zap"

	"github.com/radiolab/OpenRadioCore/internal/pmt"
)

// Converter normalizes a dynamic command value into a Sequence.
type Converter struct {
	logger *zap.Logger
}

func NewConverter(logger *zap.Logger) *Converter {
	return &Converter{logger: logger}
}

// Sequence converts a command value.
//
// The preferred, non-lossy path is an opaque payload that already holds a
// Sequence (or a single Item, which is wrapped). A string-keyed map is
// accepted as the legacy command shape and converted through a fixed key
// table; unrecognized keys and wrong-shaped values are logged and skipped,
// never fatal. The legacy format has no cross-key ordering contract, so map
// iteration order does not matter. Every other variant is a conversion
// error.
func (c *Converter) Sequence(v pmt.Value) (Sequence, error) {
	if seq, ok := pmt.Downcast[Sequence](v); ok {
		return seq.CloneOpaque().(Sequence), nil
	}
	if it, ok := pmt.Downcast[Item](v); ok {
		var seq Sequence
		seq.Push(cloneItem(it))
		return seq, nil
	}

	if m, ok := v.(pmt.Map); ok {
		return c.fromMap(m), nil
	}

	return Sequence{}, &pmt.ConversionError{From: v.Kind(), To: "tuning.Sequence"}
}

func (c *Converter) fromMap(m pmt.Map) Sequence {
	var seq Sequence

	// A legacy map's "chan" applies to every setting in the same map, so the
	// channel selector must precede the settings in the produced sequence.
	if val, ok := m["chan"]; ok {
		if idx, err := pmt.ToUint(val); err != nil {
			c.warnEntry("chan", val, err)
		} else {
			seq.Push(Chan(int(idx)))
		}
	}

	for name, val := range m {
		switch name {
		case "chan":
			// Handled above.
		case "antenna":
			s, err := pmt.ToString(val)
			if err != nil {
				c.warnEntry(name, val, err)
				continue
			}
			seq.Push(Antenna{Name: s})
		case "bandwidth":
			hz, err := pmt.ToFloat64(val)
			if err != nil {
				c.warnEntry(name, val, err)
				continue
			}
			seq.Push(Bandwidth{Hz: hz})
		case "freq":
			hz, err := pmt.ToFloat64(val)
			if err != nil {
				c.warnEntry(name, val, err)
				continue
			}
			seq.Push(Frequency{Hz: hz})
		case "gain":
			db, err := pmt.ToFloat64(val)
			if err != nil {
				c.warnEntry(name, val, err)
				continue
			}
			seq.Push(Gain{Db: db})
		case "rate":
			hz, err := pmt.ToFloat64(val)
			if err != nil {
				c.warnEntry(name, val, err)
				continue
			}
			seq.Push(SampleRate{Hz: hz})
		default:
			c.logger.Warn("Unrecognized command map key, skipping",
				zap.String("key", name),
				zap.Stringer("kind", val.Kind()))
		}
	}

	return seq
}

func (c *Converter) warnEntry(name string, val pmt.Value, err error) {
	c.logger.Warn("Command map entry has wrong shape, skipping",
		zap.String("key", name),
		zap.Stringer("kind", val.Kind()),
		zap.Error(err))
}
