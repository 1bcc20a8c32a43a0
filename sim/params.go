package sim

import (
	"fmt"
	"math"
)

// SectorSize is the fixed disk sector size in bytes.
const SectorSize = 512

// DefaultBlockSize is the block size used when HDDParameter.BlockSize is unset.
const DefaultBlockSize = 4096

// HDDParameter describes one drive model. Used only to compute latency.
type HDDParameter struct {
	FullStrokeSeekTime float64 `yaml:"full_stroke_seek_time"` // seconds
	RPM                int     `yaml:"rpm"`
	SectorsPerTrack    int     `yaml:"sectors_per_track"`
	HeadSwitchOverhead float64 `yaml:"head_switch_overhead"` // seconds
	CommandOverhead    float64 `yaml:"command_overhead"`     // seconds
	TransferRate       int64   `yaml:"transfer_rate"`        // bytes/second
	BlockSize          int     `yaml:"block_size,omitempty"` // bytes per block; 0 = DefaultBlockSize
}

// DefaultHDDParameter returns a 7200 RPM nearline drive.
func DefaultHDDParameter() HDDParameter {
	return HDDParameter{
		FullStrokeSeekTime: 0.015,
		RPM:                7200,
		SectorsPerTrack:    63,
		HeadSwitchOverhead: 0.001,
		CommandOverhead:    0.0005,
		TransferRate:       100_000_000,
		BlockSize:          DefaultBlockSize,
	}
}

// EffectiveBlockSize returns BlockSize, or DefaultBlockSize when unset.
func (p HDDParameter) EffectiveBlockSize() int {
	if p.BlockSize <= 0 {
		return DefaultBlockSize
	}
	return p.BlockSize
}

// FullRotationTime returns the time of one platter revolution in seconds.
func (p HDDParameter) FullRotationTime() float64 {
	return 60.0 / float64(p.RPM)
}

// Validate checks that every field can be used in the latency formulas.
func (p HDDParameter) Validate() error {
	if err := nonNegative("full_stroke_seek_time", p.FullStrokeSeekTime); err != nil {
		return fmt.Errorf("hdd: %w", err)
	}
	if p.RPM <= 0 {
		return fmt.Errorf("hdd: rpm must be > 0, got %d", p.RPM)
	}
	if p.SectorsPerTrack <= 0 {
		return fmt.Errorf("hdd: sectors_per_track must be > 0, got %d", p.SectorsPerTrack)
	}
	if err := nonNegative("head_switch_overhead", p.HeadSwitchOverhead); err != nil {
		return fmt.Errorf("hdd: %w", err)
	}
	if err := nonNegative("command_overhead", p.CommandOverhead); err != nil {
		return fmt.Errorf("hdd: %w", err)
	}
	if p.TransferRate <= 0 {
		return fmt.Errorf("hdd: transfer_rate must be > 0, got %d", p.TransferRate)
	}
	if p.BlockSize < 0 {
		return fmt.Errorf("hdd: block_size must be >= 0, got %d", p.BlockSize)
	}
	return nil
}

// CacheParameter describes one cache memory node.
type CacheParameter struct {
	Value    float64 `yaml:"value"`    // node weight
	Capacity int     `yaml:"capacity"` // blocks
	Latency  float64 `yaml:"latency"`  // seconds per access
}

// DefaultCacheParameter returns a 1024-block node with 100µs access latency.
func DefaultCacheParameter() CacheParameter {
	return CacheParameter{Value: 1.0, Capacity: 1024, Latency: 0.0001}
}

// Validate checks capacity and latency.
func (p CacheParameter) Validate() error {
	if p.Capacity <= 0 {
		return fmt.Errorf("cache: capacity must be > 0, got %d", p.Capacity)
	}
	if err := nonNegative("latency", p.Latency); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := nonNegative("value", p.Value); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// PowerParameter configures spin-down policy and energy accounting of a disk.
type PowerParameter struct {
	SpinDownTimeout float64 `yaml:"spin_down_timeout"` // idle seconds before standby
	SpinUpTime      float64 `yaml:"spin_up_time"`      // seconds charged to wake from standby
	SpinDownTime    float64 `yaml:"spin_down_time"`    // seconds to reach standby
	ActivePower     float64 `yaml:"active_power"`      // watts
	StandbyPower    float64 `yaml:"standby_power"`     // watts
	SpinUpEnergy    float64 `yaml:"spin_up_energy"`    // joules per spin-up
	SpinDownEnergy  float64 `yaml:"spin_down_energy"`  // joules per spin-down
}

// DefaultPowerParameter returns figures typical of a 3.5" nearline drive.
func DefaultPowerParameter() PowerParameter {
	return PowerParameter{
		SpinDownTimeout: 10.0,
		SpinUpTime:      6.0,
		SpinDownTime:    1.5,
		ActivePower:     9.3,
		StandbyPower:    0.8,
		SpinUpEnergy:    135.0,
		SpinDownEnergy:  13.0,
	}
}

// Validate checks that all durations and energies are finite and non-negative.
func (p PowerParameter) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"spin_down_timeout", p.SpinDownTimeout},
		{"spin_up_time", p.SpinUpTime},
		{"spin_down_time", p.SpinDownTime},
		{"active_power", p.ActivePower},
		{"standby_power", p.StandbyPower},
		{"spin_up_energy", p.SpinUpEnergy},
		{"spin_down_energy", p.SpinDownEnergy},
	}
	for _, f := range fields {
		if err := nonNegative(f.name, f.v); err != nil {
			return fmt.Errorf("power: %w", err)
		}
	}
	return nil
}

func nonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be finite, got %v", name, v)
	}
	if v < 0 {
		return fmt.Errorf("%s must be >= 0, got %v", name, v)
	}
	return nil
}
