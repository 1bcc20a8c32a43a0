// Package array drives a cache-fronted, power-aware disk array through a
// discrete-event loop. It owns block placement and the drain and read paths;
// the latency, power and cache models live in sim/hdd, sim/power and sim/cache.
package array

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/raposda-sim/raposda-sim/sim"
	"github.com/raposda-sim/raposda-sim/sim/cache"
	"github.com/raposda-sim/raposda-sim/sim/power"
	"github.com/raposda-sim/raposda-sim/sim/trace"
)

// Config describes one array. All sections must be listed to satisfy
// KnownFields(true) strict parsing.
type Config struct {
	Disks           int                `yaml:"disks"`
	Replicas        int                `yaml:"replicas"`
	CacheMemories   int                `yaml:"cache_memories"`
	Assignor        string             `yaml:"assignor"`
	OverflowPolicy  string             `yaml:"overflow_policy"`
	PowerPolicy     string             `yaml:"power_policy"`
	HDD             sim.HDDParameter   `yaml:"hdd"`
	Cache           sim.CacheParameter `yaml:"cache"`
	Power           sim.PowerParameter `yaml:"power"`
	ProactiveSpinUp bool               `yaml:"proactive_spin_up"`
	Horizon         float64            `yaml:"horizon"` // 0 runs until the event queue drains
	TraceLevel      string             `yaml:"trace_level"`
}

// DefaultConfig returns a four-disk, two-replica array behind two cache nodes.
func DefaultConfig() Config {
	return Config{
		Disks:          4,
		Replicas:       2,
		CacheMemories:  2,
		Assignor:       cache.AssignorBalanced,
		OverflowPolicy: cache.PolicyDrain,
		PowerPolicy:    power.PolicyTimeout,
		HDD:            sim.DefaultHDDParameter(),
		Cache:          sim.DefaultCacheParameter(),
		Power:          sim.DefaultPowerParameter(),
		TraceLevel:     string(trace.TraceLevelNone),
	}
}

// LoadConfig reads a YAML config. Fields missing from the file keep their
// DefaultConfig values; unknown fields are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading array config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing array config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("array config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the array shape and every parameter section.
func (c Config) Validate() error {
	if c.Disks <= 0 {
		return fmt.Errorf("disks must be > 0, got %d", c.Disks)
	}
	if c.Replicas <= 0 {
		return fmt.Errorf("replicas must be > 0, got %d", c.Replicas)
	}
	if c.Replicas > c.Disks {
		return fmt.Errorf("replicas (%d) cannot exceed disks (%d)", c.Replicas, c.Disks)
	}
	if c.CacheMemories <= 0 {
		return fmt.Errorf("cache_memories must be > 0, got %d", c.CacheMemories)
	}
	if !cache.IsValidAssignor(c.Assignor) {
		return fmt.Errorf("unknown assignor %q; valid: %v", c.Assignor, cache.ValidAssignorNames())
	}
	if !power.IsValidPolicy(c.PowerPolicy) {
		return fmt.Errorf("unknown power policy %q", c.PowerPolicy)
	}
	if !trace.IsValidTraceLevel(c.TraceLevel) {
		return fmt.Errorf("unknown trace level %q", c.TraceLevel)
	}
	if _, err := cache.NewOverflowPolicy(c.OverflowPolicy); err != nil {
		return err
	}
	if c.Horizon < 0 {
		return fmt.Errorf("horizon must be >= 0, got %v", c.Horizon)
	}
	if err := c.HDD.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if c.Cache.Capacity < c.Replicas {
		return fmt.Errorf("cache capacity %d cannot hold %d replica regions", c.Cache.Capacity, c.Replicas)
	}
	return c.Power.Validate()
}
