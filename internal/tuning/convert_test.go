package tuning

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/radiolab/OpenRadioCore/internal/pmt"
)

func TestConvertLegacyMap(t *testing.T) {
	conv := NewConverter(zaptest.NewLogger(t))

	seq, err := conv.Sequence(pmt.Map{
		"freq": pmt.F64(100e6),
		"gain": pmt.F32(1.0),
		"chan": pmt.U32(0),
	})
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}

	items := seq.Items()
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	// The channel selector scopes the whole map, so it must come first.
	ch, ok := items[0].(Channel)
	if !ok || ch.Index == nil || *ch.Index != 0 {
		t.Fatalf("first item = %#v, want Channel(0)", items[0])
	}

	var gotFreq, gotGain bool
	for _, it := range items[1:] {
		switch x := it.(type) {
		case Frequency:
			gotFreq = x.Hz == 100e6
		case Gain:
			gotGain = x.Db == 1.0
		default:
			t.Errorf("unexpected item %#v", it)
		}
	}
	if !gotFreq || !gotGain {
		t.Errorf("missing converted settings: freq=%v gain=%v", gotFreq, gotGain)
	}
}

func TestConvertMapKeyTable(t *testing.T) {
	conv := NewConverter(zaptest.NewLogger(t))

	tests := []struct {
		key  string
		val  pmt.Value
		want Item
	}{
		{"antenna", pmt.String("RX2"), Antenna{Name: "RX2"}},
		{"bandwidth", pmt.U64(5_000_000), Bandwidth{Hz: 5e6}},
		{"freq", pmt.F64(2.4e9), Frequency{Hz: 2.4e9}},
		{"gain", pmt.U32(20), Gain{Db: 20}},
		{"rate", pmt.F32(1e6), SampleRate{Hz: 1e6}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			seq, err := conv.Sequence(pmt.Map{tt.key: tt.val})
			if err != nil {
				t.Fatal(err)
			}
			if seq.Len() != 1 {
				t.Fatalf("got %d items, want 1", seq.Len())
			}
			if seq.Items()[0] != tt.want {
				t.Errorf("item = %#v, want %#v", seq.Items()[0], tt.want)
			}
		})
	}
}

func TestConvertMapIsLenient(t *testing.T) {
	conv := NewConverter(zaptest.NewLogger(t))

	// Unknown key and wrong-shaped values must not abort the rest.
	seq, err := conv.Sequence(pmt.Map{
		"bogus":   pmt.U32(1),
		"antenna": pmt.U32(2),
		"gain":    pmt.String("loud"),
		"freq":    pmt.F64(101e6),
	})
	if err != nil {
		t.Fatalf("lenient conversion must not fail: %v", err)
	}
	if seq.Len() != 1 {
		t.Fatalf("got %d items, want only the valid freq entry", seq.Len())
	}
	if f, ok := seq.Items()[0].(Frequency); !ok || f.Hz != 101e6 {
		t.Errorf("item = %#v, want Frequency(101e6)", seq.Items()[0])
	}
}

func TestConvertEmptyMapIsLegal(t *testing.T) {
	conv := NewConverter(zaptest.NewLogger(t))

	seq, err := conv.Sequence(pmt.Map{"bogus": pmt.Null{}})
	if err != nil {
		t.Fatalf("map with only bad entries must still convert: %v", err)
	}
	if seq.Len() != 0 {
		t.Errorf("got %d items, want 0", seq.Len())
	}
}

func TestConvertOpaqueSequencePassthrough(t *testing.T) {
	conv := NewConverter(zaptest.NewLogger(t))

	var orig Sequence
	orig.Push(Chan(1)).Push(Gain{Db: 3})

	seq, err := conv.Sequence(pmt.AnySerde{Payload: orig})
	if err != nil {
		t.Fatal(err)
	}
	if seq.Len() != 2 {
		t.Fatalf("got %d items, want 2", seq.Len())
	}
	if g, ok := seq.Items()[1].(Gain); !ok || g.Db != 3 {
		t.Errorf("second item = %#v, want Gain(3)", seq.Items()[1])
	}

	// The passthrough must clone: mutating the result must not touch the
	// caller's sequence.
	seq.Push(Gain{Db: 9})
	if orig.Len() != 2 {
		t.Error("converter aliased the caller's sequence")
	}
}

func TestConvertSingleItemWraps(t *testing.T) {
	conv := NewConverter(zaptest.NewLogger(t))

	seq, err := conv.Sequence(pmt.Any{Payload: Frequency{Hz: 7e6}})
	if err != nil {
		t.Fatal(err)
	}
	if seq.Len() != 1 {
		t.Fatalf("got %d items, want 1", seq.Len())
	}
	if f, ok := seq.Items()[0].(Frequency); !ok || f.Hz != 7e6 {
		t.Errorf("item = %#v, want Frequency(7e6)", seq.Items()[0])
	}
}

func TestConvertRejectsOtherVariants(t *testing.T) {
	conv := NewConverter(zaptest.NewLogger(t))

	for _, v := range []pmt.Value{pmt.Null{}, pmt.U32(1), pmt.String("freq"), pmt.Vec{}} {
		_, err := conv.Sequence(v)
		if err == nil {
			t.Errorf("conversion of %s should fail", v.Kind())
			continue
		}
		var convErr *pmt.ConversionError
		if !errors.As(err, &convErr) {
			t.Errorf("error type = %T, want *pmt.ConversionError", err)
		}
	}
}
