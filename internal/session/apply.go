package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/radiolab/OpenRadioCore/internal/sdr"
	"github.com/radiolab/OpenRadioCore/internal/tuning"
)

// Apply walks a sequence in order against the device. Channel and Direction
// items rewrite the scope for everything after them; setting items fan out
// over the current scope eagerly, one hardware call per (direction, channel)
// pair. The first failed call aborts the remainder of the sequence without
// rolling back what already applied.
//
// Without a device the whole sequence is a logged no-op and Apply returns
// nil, so settings may arrive before hardware does.
func (s *Session) Apply(ctx context.Context, seq tuning.Sequence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(ctx, seq)
}

func (s *Session) applyLocked(ctx context.Context, seq tuning.Sequence) error {
	if s.dev == nil {
		s.logger.Warn("No device attached, configuration discarded",
			zap.String("session", s.Name),
			zap.Int("items", seq.Len()))
		return nil
	}

	chans := s.channels
	dirs := []sdr.Direction{s.dir}

	for _, it := range seq.Items() {
		switch v := it.(type) {
		case tuning.Channel:
			if v.Index == nil {
				chans = s.channels
			} else {
				chans = []int{*v.Index}
			}

		case tuning.Direction:
			// Resolution is always against the session default, never
			// against the scope a previous item left behind.
			dirs = v.Selector.Resolve(s.dir)

		case tuning.SampleRate:
			// Sample rate ignores the scope: many devices couple their Rx
			// and Tx clocks, so the rate is set once, on Rx channel 0.
			if err := s.dev.SetSampleRate(ctx, sdr.Rx, 0, v.Hz); err != nil {
				return s.fail("set_sample_rate", sdr.Rx, 0, err)
			}
			s.publish(EventSettingApplied, map[string]any{
				"setting": "sample_rate", "hz": v.Hz,
			})

		case tuning.Frequency:
			for _, dir := range dirs {
				for _, ch := range chans {
					if err := s.dev.SetFrequency(ctx, dir, ch, v.Hz); err != nil {
						return s.fail("set_frequency", dir, ch, err)
					}
				}
			}
			s.publish(EventSettingApplied, map[string]any{
				"setting": "frequency", "hz": v.Hz,
			})

		case tuning.Gain:
			for _, dir := range dirs {
				for _, ch := range chans {
					if err := s.dev.SetGain(ctx, dir, ch, v.Db); err != nil {
						return s.fail("set_gain", dir, ch, err)
					}
				}
			}
			s.publish(EventSettingApplied, map[string]any{
				"setting": "gain", "db": v.Db,
			})

		case tuning.Bandwidth:
			for _, dir := range dirs {
				for _, ch := range chans {
					if err := s.dev.SetBandwidth(ctx, dir, ch, v.Hz); err != nil {
						return s.fail("set_bandwidth", dir, ch, err)
					}
				}
			}
			s.publish(EventSettingApplied, map[string]any{
				"setting": "bandwidth", "hz": v.Hz,
			})

		case tuning.Antenna:
			for _, dir := range dirs {
				for _, ch := range chans {
					if err := s.dev.SetAntenna(ctx, dir, ch, v.Name); err != nil {
						return s.fail("set_antenna", dir, ch, err)
					}
				}
			}
			s.publish(EventSettingApplied, map[string]any{
				"setting": "antenna", "name": v.Name,
			})

		default:
			return fmt.Errorf("unhandled tuning item %T", it)
		}
	}
	return nil
}

func (s *Session) fail(op string, dir sdr.Direction, channel int, err error) error {
	cerr := &sdr.CallError{Op: op, Dir: dir, Channel: channel, Err: err}
	s.logger.Error("Device call failed, aborting sequence",
		zap.String("session", s.Name),
		zap.String("op", op),
		zap.String("dir", dir.String()),
		zap.Int("channel", channel),
		zap.Error(err))
	s.publish(EventDeviceError, map[string]any{
		"op":      op,
		"dir":     dir.String(),
		"channel": channel,
		"error":   err.Error(),
	})
	return cerr
}
