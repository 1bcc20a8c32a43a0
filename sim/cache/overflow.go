package cache

import (
	"fmt"

	"github.com/raposda-sim/raposda-sim/sim"
)

// Overflow policy names accepted by NewOverflowPolicy.
const (
	PolicyDrain     = "drain"
	PolicyFIFOEvict = "fifo"
)

// OverflowPolicy decides, right after a block is put, which blocks a node
// hands back to the caller.
type OverflowPolicy interface {
	Name() string
	Overflow(n *Node, written sim.Block) []sim.Block
}

// NewOverflowPolicy returns the policy registered under name. Empty selects drain.
func NewOverflowPolicy(name string) (OverflowPolicy, error) {
	switch name {
	case PolicyDrain, "":
		return DrainPolicy{}, nil
	case PolicyFIFOEvict:
		return FIFOEvictPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown overflow policy %q; valid: %s, %s", name, PolicyDrain, PolicyFIFOEvict)
	}
}

// DrainPolicy fires when the written block's region holds more blocks than
// its slots. It reports every resident block owned by that region's
// max-buffer disk, oldest first, so the caller can flush them to that disk in
// one spin-up. Reported blocks stay resident until the caller removes them.
type DrainPolicy struct{}

func (DrainPolicy) Name() string { return PolicyDrain }

func (DrainPolicy) Overflow(n *Node, written sim.Block) []sim.Block {
	level := written.ReplicaLevel
	if n.regionLen[level] <= n.regionSlots {
		return nil
	}
	return n.OwnedBy(n.MaxBufferDisk(level))
}

// FIFOEvictPolicy evicts the oldest-inserted blocks until the node is back
// within its capacity and returns them in eviction order.
type FIFOEvictPolicy struct{}

func (FIFOEvictPolicy) Name() string { return PolicyFIFOEvict }

func (FIFOEvictPolicy) Overflow(n *Node, written sim.Block) []sim.Block {
	var evicted []sim.Block
	for n.Len() > n.capacity {
		oldest := n.head
		n.unlink(oldest)
		evicted = append(evicted, oldest.block)
	}
	return evicted
}
