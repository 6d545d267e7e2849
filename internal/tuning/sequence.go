package tuning

import (
	"encoding/json"
	"fmt"

	"github.com/radiolab/OpenRadioCore/internal/pmt"
)

// SequenceTag is the pmt serde registry tag of Sequence.
const SequenceTag = "tuning.sequence"

// Sequence is an ordered list of configuration items, the unit of a
// command. Order is semantically significant: later items override earlier
// ones for whatever scope is active when they are reached. The zero value is
// the empty sequence.
type Sequence struct {
	items []Item
}

// Push appends an item, preserving order. It returns the sequence for
// chaining.
func (s *Sequence) Push(it Item) *Sequence {
	s.items = append(s.items, it)
	return s
}

// Items returns the items in order. Callers must not mutate the result.
func (s Sequence) Items() []Item {
	return s.items
}

func (s Sequence) Len() int {
	return len(s.items)
}

// Value wraps the sequence for the command port.
func (s Sequence) Value() pmt.Value {
	return pmt.AnySerde{Payload: s}
}

func (s Sequence) CloneOpaque() pmt.Opaque {
	out := Sequence{items: make([]Item, len(s.items))}
	for i, it := range s.items {
		out.items[i] = cloneItem(it)
	}
	return out
}

func (s Sequence) SerdeTag() string { return SequenceTag }

// itemEnvelope is the wire form of one item.
type itemEnvelope struct {
	Kind     string   `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Hz       *float64 `json:"hz,omitempty"`
	Db       *float64 `json:"db,omitempty"`
	Index    *int     `json:"index,omitempty"`
	Selector Selector `json:"selector,omitempty"`
}

func (s Sequence) MarshalJSON() ([]byte, error) {
	envs := make([]itemEnvelope, 0, len(s.items))
	for _, it := range s.items {
		switch x := it.(type) {
		case Antenna:
			envs = append(envs, itemEnvelope{Kind: "antenna", Name: x.Name})
		case Bandwidth:
			hz := x.Hz
			envs = append(envs, itemEnvelope{Kind: "bandwidth", Hz: &hz})
		case Frequency:
			hz := x.Hz
			envs = append(envs, itemEnvelope{Kind: "frequency", Hz: &hz})
		case Gain:
			db := x.Db
			envs = append(envs, itemEnvelope{Kind: "gain", Db: &db})
		case SampleRate:
			hz := x.Hz
			envs = append(envs, itemEnvelope{Kind: "sample_rate", Hz: &hz})
		case Channel:
			envs = append(envs, itemEnvelope{Kind: "channel", Index: x.Index})
		case Direction:
			envs = append(envs, itemEnvelope{Kind: "direction", Selector: x.Selector})
		default:
			return nil, fmt.Errorf("tuning: cannot marshal item %T", it)
		}
	}
	return json.Marshal(envs)
}

func (s *Sequence) UnmarshalJSON(data []byte) error {
	var envs []itemEnvelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return fmt.Errorf("tuning: invalid sequence: %w", err)
	}

	items := make([]Item, 0, len(envs))
	for _, env := range envs {
		it, err := env.item()
		if err != nil {
			return err
		}
		items = append(items, it)
	}
	s.items = items
	return nil
}

func (env itemEnvelope) item() (Item, error) {
	switch env.Kind {
	case "antenna":
		return Antenna{Name: env.Name}, nil
	case "bandwidth":
		if env.Hz == nil {
			return nil, fmt.Errorf("tuning: bandwidth item without hz")
		}
		return Bandwidth{Hz: *env.Hz}, nil
	case "frequency":
		if env.Hz == nil {
			return nil, fmt.Errorf("tuning: frequency item without hz")
		}
		return Frequency{Hz: *env.Hz}, nil
	case "gain":
		if env.Db == nil {
			return nil, fmt.Errorf("tuning: gain item without db")
		}
		return Gain{Db: *env.Db}, nil
	case "sample_rate":
		if env.Hz == nil {
			return nil, fmt.Errorf("tuning: sample_rate item without hz")
		}
		return SampleRate{Hz: *env.Hz}, nil
	case "channel":
		return Channel{Index: env.Index}, nil
	case "direction":
		switch env.Selector {
		case SelectorDefault, SelectorRx, SelectorTx, SelectorBoth, SelectorNone:
			return Direction{Selector: env.Selector}, nil
		default:
			return nil, fmt.Errorf("tuning: unknown direction selector %q", env.Selector)
		}
	default:
		return nil, fmt.Errorf("tuning: unknown item kind %q", env.Kind)
	}
}

func init() {
	pmt.RegisterSerde(SequenceTag, func(data json.RawMessage) (pmt.Serde, error) {
		var s Sequence
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return s, nil
	})
}
