// Package tuning models radio configuration commands: single typed settings
// (Item), ordered sequences of them (Sequence), and the conversion from
// dynamic command values into sequences. The model is intentionally dumb;
// all interpretation lives in the session apply engine.
package tuning

import (
	"github.com/radiolab/OpenRadioCore/internal/pmt"
	"github.com/radiolab/OpenRadioCore/internal/sdr"
)

// Selector names the direction scope an item applies to. Default defers to
// the session's own default direction; None clears the scope and exists only
// as an internal neutral starting point, callers never author it.
type Selector string

const (
	SelectorDefault Selector = "default"
	SelectorRx      Selector = "rx"
	SelectorTx      Selector = "tx"
	SelectorBoth    Selector = "both"
	SelectorNone    Selector = "none"
)

// Resolve maps the selector to concrete hardware directions. Default always
// resolves against the session default, never against a previously resolved
// scope.
func (s Selector) Resolve(def sdr.Direction) []sdr.Direction {
	switch s {
	case SelectorDefault:
		return []sdr.Direction{def}
	case SelectorRx:
		return []sdr.Direction{sdr.Rx}
	case SelectorTx:
		return []sdr.Direction{sdr.Tx}
	case SelectorBoth:
		return []sdr.Direction{sdr.Rx, sdr.Tx}
	default:
		return nil
	}
}

// Item is one typed device setting or scope selector. Items satisfy the pmt
// opaque capability so a single item can travel through a command port.
type Item interface {
	pmt.Opaque
	isItem()
}

// Antenna selects the named antenna port for the channels and directions in
// scope.
type Antenna struct {
	Name string `json:"name"`
}

// Bandwidth sets the filter bandwidth in Hz.
type Bandwidth struct {
	Hz float64 `json:"hz"`
}

// Frequency sets the center frequency in Hz.
type Frequency struct {
	Hz float64 `json:"hz"`
}

// Gain sets the gain in dB.
type Gain struct {
	Db float64 `json:"db"`
}

// SampleRate sets the sample rate in Hz. Regardless of the active scope it is
// applied once, to Rx channel 0. Many devices couple Rx and Tx rates, and
// downstream behavior depends on this asymmetry.
type SampleRate struct {
	Hz float64 `json:"hz"`
}

// Channel narrows the channel scope to a single index; a nil Index resets the
// scope to all channels of the session.
type Channel struct {
	Index *int `json:"index"`
}

// Direction replaces the direction scope with the resolution of its selector.
type Direction struct {
	Selector Selector `json:"selector"`
}

// Chan builds a single-channel selector item.
func Chan(index int) Channel {
	return Channel{Index: &index}
}

// AllChannels builds the channel scope reset item.
func AllChannels() Channel {
	return Channel{}
}

func (Antenna) isItem()    {}
func (Bandwidth) isItem()  {}
func (Frequency) isItem()  {}
func (Gain) isItem()       {}
func (SampleRate) isItem() {}
func (Channel) isItem()    {}
func (Direction) isItem()  {}

func (i Antenna) CloneOpaque() pmt.Opaque    { return i }
func (i Bandwidth) CloneOpaque() pmt.Opaque  { return i }
func (i Frequency) CloneOpaque() pmt.Opaque  { return i }
func (i Gain) CloneOpaque() pmt.Opaque       { return i }
func (i SampleRate) CloneOpaque() pmt.Opaque { return i }
func (i Direction) CloneOpaque() pmt.Opaque  { return i }

func (i Channel) CloneOpaque() pmt.Opaque {
	if i.Index == nil {
		return Channel{}
	}
	idx := *i.Index
	return Channel{Index: &idx}
}

func cloneItem(it Item) Item {
	return it.CloneOpaque().(Item)
}
