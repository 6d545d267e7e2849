package tuning

import (
	"testing"

	"github.com/radiolab/OpenRadioCore/internal/pmt"
	"github.com/radiolab/OpenRadioCore/internal/sdr"
)

func TestSelectorResolve(t *testing.T) {
	tests := []struct {
		sel  Selector
		def  sdr.Direction
		want []sdr.Direction
	}{
		{SelectorDefault, sdr.Rx, []sdr.Direction{sdr.Rx}},
		{SelectorDefault, sdr.Tx, []sdr.Direction{sdr.Tx}},
		{SelectorRx, sdr.Tx, []sdr.Direction{sdr.Rx}},
		{SelectorTx, sdr.Rx, []sdr.Direction{sdr.Tx}},
		{SelectorBoth, sdr.Rx, []sdr.Direction{sdr.Rx, sdr.Tx}},
		{SelectorNone, sdr.Rx, nil},
	}

	for _, tt := range tests {
		got := tt.sel.Resolve(tt.def)
		if len(got) != len(tt.want) {
			t.Errorf("%s.Resolve(%s) = %v, want %v", tt.sel, tt.def, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s.Resolve(%s) = %v, want %v", tt.sel, tt.def, got, tt.want)
			}
		}
	}
}

func TestSequencePushPreservesOrder(t *testing.T) {
	var seq Sequence
	seq.Push(Chan(1)).
		Push(Direction{Selector: SelectorBoth}).
		Push(Gain{Db: 1}).
		Push(AllChannels()).
		Push(Gain{Db: 2})

	items := seq.Items()
	if len(items) != 5 {
		t.Fatalf("got %d items, want 5", len(items))
	}
	if _, ok := items[0].(Channel); !ok {
		t.Errorf("item 0 = %#v", items[0])
	}
	if g, ok := items[4].(Gain); !ok || g.Db != 2 {
		t.Errorf("item 4 = %#v, want Gain(2)", items[4])
	}
}

func TestSequenceSerdeRoundTrip(t *testing.T) {
	var seq Sequence
	seq.Push(AllChannels()).
		Push(Chan(1)).
		Push(Direction{Selector: SelectorTx}).
		Push(Antenna{Name: "TX/RX"}).
		Push(Bandwidth{Hz: 20e6}).
		Push(Frequency{Hz: 868e6}).
		Push(Gain{Db: 12.5}).
		Push(SampleRate{Hz: 2e6})

	data, err := pmt.Marshal(seq.Value())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	back, err := pmt.Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal failed: %v\n%s", err, data)
	}

	got, ok := pmt.Downcast[Sequence](back)
	if !ok {
		t.Fatalf("decoded value is %s, want an opaque Sequence", back.Kind())
	}
	if got.Len() != seq.Len() {
		t.Fatalf("got %d items, want %d", got.Len(), seq.Len())
	}

	// Channel(None) and Channel(Some(1)) must survive distinctly.
	if c := got.Items()[0].(Channel); c.Index != nil {
		t.Error("Channel(None) decoded with an index")
	}
	if c := got.Items()[1].(Channel); c.Index == nil || *c.Index != 1 {
		t.Error("Channel(Some(1)) lost its index")
	}
	if f := got.Items()[5].(Frequency); f.Hz != 868e6 {
		t.Errorf("frequency = %v, want 868e6", f.Hz)
	}
}

func TestSequenceUnmarshalRejectsUnknownKind(t *testing.T) {
	var s Sequence
	if err := s.UnmarshalJSON([]byte(`[{"kind":"warp_factor","hz":9}]`)); err == nil {
		t.Error("unknown item kind must fail decode")
	}
	if err := s.UnmarshalJSON([]byte(`[{"kind":"direction","selector":"sideways"}]`)); err == nil {
		t.Error("unknown selector must fail decode")
	}
	if err := s.UnmarshalJSON([]byte(`[{"kind":"gain"}]`)); err == nil {
		t.Error("gain without db must fail decode")
	}
}
