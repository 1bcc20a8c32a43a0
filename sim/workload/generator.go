package workload

import (
	"bytes"
	"fmt"
	"math/big"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/raposda-sim/raposda-sim/sim"
)

// GeneratorConfig parameterizes a synthetic request stream.
type GeneratorConfig struct {
	NumRequests  int     `yaml:"num_requests"`
	Rate         float64 `yaml:"rate"`          // mean requests per second (Poisson arrivals)
	ReadFraction float64 `yaml:"read_fraction"` // 0..1
	BlockSpace   int64   `yaml:"block_space"`   // distinct block ids, 0..BlockSpace-1
	ZipfS        float64 `yaml:"zipf_s,omitempty"`
	Seed         int64   `yaml:"seed"`
}

// LoadGeneratorConfig reads a GeneratorConfig from YAML with strict field checking.
func LoadGeneratorConfig(path string) (*GeneratorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading generator config: %w", err)
	}
	var cfg GeneratorConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing generator config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that every field is in range.
func (c GeneratorConfig) Validate() error {
	if c.NumRequests <= 0 {
		return fmt.Errorf("num_requests must be positive, got %d", c.NumRequests)
	}
	if c.Rate <= 0 {
		return fmt.Errorf("rate must be positive, got %f", c.Rate)
	}
	if c.ReadFraction < 0 || c.ReadFraction > 1 {
		return fmt.Errorf("read_fraction must be in [0, 1], got %f", c.ReadFraction)
	}
	if c.BlockSpace <= 0 {
		return fmt.Errorf("block_space must be positive, got %d", c.BlockSpace)
	}
	if c.ZipfS != 0 && c.ZipfS <= 1 {
		return fmt.Errorf("zipf_s must be > 1 when set, got %f", c.ZipfS)
	}
	return nil
}

// Generate produces cfg.NumRequests requests in arrival order. The same config
// always yields the same stream.
func Generate(cfg GeneratorConfig) ([]Request, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))
	arrivals := rng.ForSubsystem(sim.SubsystemArrivals)
	blocks := rng.ForSubsystem(sim.SubsystemBlocks)
	pick := blockPicker(blocks, cfg)

	requests := make([]Request, 0, cfg.NumRequests)
	now := 0.0
	for i := 0; i < cfg.NumRequests; i++ {
		now += arrivals.ExpFloat64() / cfg.Rate
		op := OpWrite
		if blocks.Float64() < cfg.ReadFraction {
			op = OpRead
		}
		requests = append(requests, Request{
			ID:      i,
			Time:    now,
			Op:      op,
			BlockID: big.NewInt(pick()),
		})
	}
	return requests, nil
}

// blockPicker draws block ids uniformly, or Zipf-skewed when ZipfS is set.
func blockPicker(r *rand.Rand, cfg GeneratorConfig) func() int64 {
	if cfg.ZipfS == 0 || cfg.BlockSpace == 1 {
		return func() int64 { return r.Int63n(cfg.BlockSpace) }
	}
	z := rand.NewZipf(r, cfg.ZipfS, 1, uint64(cfg.BlockSpace-1))
	return func() int64 { return int64(z.Uint64()) }
}
