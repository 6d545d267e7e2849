// Package mock provides a profile-driven in-memory radio, registered as
// driver "mock". It validates settings against its capability profile,
// records every call in order and keeps per-direction/channel state, which
// makes it both the development driver and the test double.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/radiolab/OpenRadioCore/internal/profiles"
	"github.com/radiolab/OpenRadioCore/internal/sdr"
)

// Call records one hardware call in arrival order.
type Call struct {
	Op      string
	Dir     sdr.Direction
	Channel int
	Value   float64
	Name    string
}

type pathKey struct {
	dir     sdr.Direction
	channel int
}

// Device implements sdr.Device.
type Device struct {
	profile *profiles.RadioProfile
	logger  *zap.Logger

	mu      sync.Mutex
	calls   []Call
	freq    map[pathKey]float64
	gain    map[pathKey]float64
	bw      map[pathKey]float64
	rate    map[pathKey]float64
	antenna map[pathKey]string
	closed  bool

	// FailOn, when set, is consulted before every call; a non-nil return is
	// reported as the call's failure. Tests use it to exercise abort paths.
	FailOn func(c Call) error
}

// New builds a mock device from a capability profile.
func New(profile *profiles.RadioProfile, logger *zap.Logger) *Device {
	return &Device{
		profile: profile,
		logger:  logger,
		freq:    make(map[pathKey]float64),
		gain:    make(map[pathKey]float64),
		bw:      make(map[pathKey]float64),
		rate:    make(map[pathKey]float64),
		antenna: make(map[pathKey]string),
	}
}

// DefaultProfile is the profile used when a filter string names no profile:
// two channels, wide-open ranges.
func DefaultProfile() *profiles.RadioProfile {
	path := profiles.PathSpec{
		MinFrequencyHz:  100e3,
		MaxFrequencyHz:  6e9,
		MinGainDb:       0,
		MaxGainDb:       76,
		MaxSampleRateHz: 61.44e6,
		MaxBandwidthHz:  56e6,
		Antennas:        []string{"RX0", "RX1", "TX/RX"},
	}
	return &profiles.RadioProfile{
		Profile: profiles.ProfileInfo{
			ID:     "mock-default",
			Vendor: "radiolab",
			Model:  "MockWide",
		},
		Channels: 2,
		Rx:       path,
		Tx:       path,
	}
}

// Register installs the mock driver into the sdr registry. The loader may be
// nil; then only the default profile is available.
func Register(loader *profiles.Loader) {
	sdr.Register("mock", func(args map[string]string, logger *zap.Logger) (sdr.Device, error) {
		profile := DefaultProfile()
		if id, ok := args["profile"]; ok && id != "" {
			if loader == nil {
				return nil, fmt.Errorf("no profile loader configured, cannot load %q", id)
			}
			p, err := loader.Load(id)
			if err != nil {
				return nil, err
			}
			profile = p
		}
		logger.Info("Mock device constructed",
			zap.String("profile", profile.Profile.ID),
			zap.Int("channels", profile.Channels))
		return New(profile, logger), nil
	})
}

func (d *Device) record(c Call) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return fmt.Errorf("device closed")
	}
	if d.FailOn != nil {
		if err := d.FailOn(c); err != nil {
			return err
		}
	}
	if c.Channel < 0 || c.Channel >= d.profile.Channels {
		return fmt.Errorf("channel %d out of range [0, %d)", c.Channel, d.profile.Channels)
	}
	d.calls = append(d.calls, c)
	return nil
}

func (d *Device) path(dir sdr.Direction) *profiles.PathSpec {
	return d.profile.Path(dir.String())
}

func (d *Device) SetFrequency(ctx context.Context, dir sdr.Direction, channel int, hz float64) error {
	c := Call{Op: "set_frequency", Dir: dir, Channel: channel, Value: hz}
	p := d.path(dir)
	if hz < p.MinFrequencyHz || hz > p.MaxFrequencyHz {
		return fmt.Errorf("frequency %v outside [%v, %v]", hz, p.MinFrequencyHz, p.MaxFrequencyHz)
	}
	if err := d.record(c); err != nil {
		return err
	}
	d.mu.Lock()
	d.freq[pathKey{dir, channel}] = hz
	d.mu.Unlock()
	return nil
}

func (d *Device) SetSampleRate(ctx context.Context, dir sdr.Direction, channel int, hz float64) error {
	c := Call{Op: "set_sample_rate", Dir: dir, Channel: channel, Value: hz}
	if p := d.path(dir); p.MaxSampleRateHz > 0 && hz > p.MaxSampleRateHz {
		return fmt.Errorf("sample rate %v above maximum %v", hz, p.MaxSampleRateHz)
	}
	if err := d.record(c); err != nil {
		return err
	}
	d.mu.Lock()
	d.rate[pathKey{dir, channel}] = hz
	d.mu.Unlock()
	return nil
}

func (d *Device) SetGain(ctx context.Context, dir sdr.Direction, channel int, db float64) error {
	c := Call{Op: "set_gain", Dir: dir, Channel: channel, Value: db}
	p := d.path(dir)
	if db < p.MinGainDb || db > p.MaxGainDb {
		return fmt.Errorf("gain %v outside [%v, %v]", db, p.MinGainDb, p.MaxGainDb)
	}
	if err := d.record(c); err != nil {
		return err
	}
	d.mu.Lock()
	d.gain[pathKey{dir, channel}] = db
	d.mu.Unlock()
	return nil
}

func (d *Device) SetBandwidth(ctx context.Context, dir sdr.Direction, channel int, hz float64) error {
	c := Call{Op: "set_bandwidth", Dir: dir, Channel: channel, Value: hz}
	if p := d.path(dir); p.MaxBandwidthHz > 0 && hz > p.MaxBandwidthHz {
		return fmt.Errorf("bandwidth %v above maximum %v", hz, p.MaxBandwidthHz)
	}
	if err := d.record(c); err != nil {
		return err
	}
	d.mu.Lock()
	d.bw[pathKey{dir, channel}] = hz
	d.mu.Unlock()
	return nil
}

func (d *Device) SetAntenna(ctx context.Context, dir sdr.Direction, channel int, name string) error {
	c := Call{Op: "set_antenna", Dir: dir, Channel: channel, Name: name}
	p := d.path(dir)
	if len(p.Antennas) > 0 && !p.HasAntenna(name) {
		return fmt.Errorf("unknown antenna %q", name)
	}
	if err := d.record(c); err != nil {
		return err
	}
	d.mu.Lock()
	d.antenna[pathKey{dir, channel}] = name
	d.mu.Unlock()
	return nil
}

func (d *Device) HardwareTime(ctx context.Context) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, fmt.Errorf("device closed")
	}
	return time.Now().UnixNano(), nil
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Calls returns a copy of the recorded calls in arrival order.
func (d *Device) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Call, len(d.calls))
	copy(out, d.calls)
	return out
}

// CallsFor filters the recorded calls by op name.
func (d *Device) CallsFor(op string) []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Call
	for _, c := range d.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Frequency returns the last frequency applied to a path.
func (d *Device) Frequency(dir sdr.Direction, channel int) (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.freq[pathKey{dir, channel}]
	return v, ok
}

// Gain returns the last gain applied to a path.
func (d *Device) Gain(dir sdr.Direction, channel int) (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.gain[pathKey{dir, channel}]
	return v, ok
}

// SampleRate returns the last sample rate applied to a path.
func (d *Device) SampleRate(dir sdr.Direction, channel int) (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.rate[pathKey{dir, channel}]
	return v, ok
}

// Antenna returns the last antenna applied to a path.
func (d *Device) Antenna(dir sdr.Direction, channel int) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.antenna[pathKey{dir, channel}]
	return v, ok
}
