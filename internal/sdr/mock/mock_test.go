package mock

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/radiolab/OpenRadioCore/internal/sdr"
)

func TestProfileLimitsAreEnforced(t *testing.T) {
	dev := New(DefaultProfile(), zaptest.NewLogger(t))
	ctx := context.Background()

	if err := dev.SetFrequency(ctx, sdr.Rx, 0, 100e6); err != nil {
		t.Fatalf("in-range frequency rejected: %v", err)
	}
	if err := dev.SetFrequency(ctx, sdr.Rx, 0, 99e9); err == nil {
		t.Error("frequency above the profile maximum accepted")
	}
	if err := dev.SetGain(ctx, sdr.Rx, 0, 200); err == nil {
		t.Error("gain above the profile maximum accepted")
	}
	if err := dev.SetAntenna(ctx, sdr.Rx, 0, "NOPE"); err == nil {
		t.Error("unknown antenna accepted")
	}
	if err := dev.SetGain(ctx, sdr.Rx, 5, 10); err == nil {
		t.Error("out-of-range channel accepted")
	}

	// Only the in-range frequency made it into the record.
	if calls := dev.Calls(); len(calls) != 1 || calls[0].Op != "set_frequency" {
		t.Fatalf("calls = %+v, want the single frequency call", calls)
	}
}

func TestStateTracksLastApplied(t *testing.T) {
	dev := New(DefaultProfile(), zaptest.NewLogger(t))
	ctx := context.Background()

	if err := dev.SetGain(ctx, sdr.Tx, 1, 20); err != nil {
		t.Fatalf("SetGain: %v", err)
	}
	if err := dev.SetGain(ctx, sdr.Tx, 1, 30); err != nil {
		t.Fatalf("SetGain: %v", err)
	}

	if db, ok := dev.Gain(sdr.Tx, 1); !ok || db != 30 {
		t.Errorf("Gain(tx, 1) = %v, %v; want 30, true", db, ok)
	}
	if _, ok := dev.Gain(sdr.Rx, 1); ok {
		t.Error("rx gain reported although never set")
	}
}

func TestClosedDeviceRejectsCalls(t *testing.T) {
	dev := New(DefaultProfile(), zaptest.NewLogger(t))

	if err := dev.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := dev.SetGain(context.Background(), sdr.Rx, 0, 10); err == nil {
		t.Error("closed device accepted a call")
	}
	if _, err := dev.HardwareTime(context.Background()); err == nil {
		t.Error("closed device reported hardware time")
	}
}
