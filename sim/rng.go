package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey identifies a reproducible run. The same key and configuration
// must produce identical request streams and therefore identical metrics.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

const (
	// SubsystemArrivals drives inter-arrival times. Uses the master seed directly.
	SubsystemArrivals = "arrivals"
	// SubsystemBlocks drives block id and operation selection.
	SubsystemBlocks = "blocks"
)

// PartitionedRNG hands out one independently seeded *rand.Rand per subsystem,
// so adding draws in one subsystem never perturbs another.
//
// SubsystemArrivals uses the master seed; every other subsystem uses
// masterSeed XOR fnv1a64(name).
//
// Not thread-safe.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the cached RNG for name, creating it on first use.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	seed := int64(p.key)
	if name != SubsystemArrivals {
		seed ^= fnv1a64(name)
	}
	rng := rand.New(rand.NewSource(seed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
