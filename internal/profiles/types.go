// Package profiles loads and validates radio capability profiles: the
// channel count, frequency/gain limits, antennas and rates a device model
// supports. Drivers consult a profile to reject settings the hardware cannot
// take.
package profiles

// RadioProfile describes one radio model.
type RadioProfile struct {
	Profile  ProfileInfo `json:"profile"`
	Channels int         `json:"channels"`
	Rx       PathSpec    `json:"rx"`
	Tx       PathSpec    `json:"tx"`
}

type ProfileInfo struct {
	ID          string `json:"id"`
	Vendor      string `json:"vendor"`
	Model       string `json:"model"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// PathSpec holds the limits of one signal path (rx or tx).
type PathSpec struct {
	MinFrequencyHz  float64  `json:"min_frequency_hz"`
	MaxFrequencyHz  float64  `json:"max_frequency_hz"`
	MinGainDb       float64  `json:"min_gain_db"`
	MaxGainDb       float64  `json:"max_gain_db"`
	MaxSampleRateHz float64  `json:"max_sample_rate_hz"`
	MaxBandwidthHz  float64  `json:"max_bandwidth_hz"`
	Antennas        []string `json:"antennas"`
}

// HasAntenna reports whether the path exposes the named antenna port.
func (p *PathSpec) HasAntenna(name string) bool {
	for _, a := range p.Antennas {
		if a == name {
			return true
		}
	}
	return false
}

// Path returns the spec for a direction string ("rx" or "tx").
func (r *RadioProfile) Path(dir string) *PathSpec {
	if dir == "tx" {
		return &r.Tx
	}
	return &r.Rx
}
