package cache

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"

	"github.com/raposda-sim/raposda-sim/sim"
)

// Assignor names accepted by NewAssignor.
const (
	AssignorBalanced = "balanced"
	AssignorHashed   = "hash"
	AssignorRanged   = "range"
)

var validAssignors = map[string]bool{
	AssignorBalanced: true,
	AssignorHashed:   true,
	AssignorRanged:   true,
	"":               true, // empty defaults to balanced
}

// IsValidAssignor returns true if name is a recognized assignment strategy.
func IsValidAssignor(name string) bool {
	return validAssignors[name]
}

// ValidAssignorNames returns the recognized names, sorted.
func ValidAssignorNames() []string {
	names := make([]string, 0, len(validAssignors))
	for name := range validAssignors {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// NewAssignor creates the strategy registered under name for nodes cache
// nodes in front of disks data disks.
func NewAssignor(name string, nodes, disks int) (sim.Assignor, error) {
	if nodes <= 0 {
		return nil, fmt.Errorf("assignor: nodes must be > 0, got %d", nodes)
	}
	switch name {
	case AssignorBalanced, "":
		return &Balanced{nodes: nodes}, nil
	case AssignorHashed:
		return &Hashed{nodes: nodes}, nil
	case AssignorRanged:
		if disks < nodes {
			return nil, fmt.Errorf("assignor: range needs at least as many disks as nodes, got %d disks for %d nodes", disks, nodes)
		}
		return &Ranged{nodes: nodes, disks: disks}, nil
	default:
		return nil, fmt.Errorf("unknown assignor %q; valid: %v", name, ValidAssignorNames())
	}
}

// Balanced deals owner disks round-robin: disk mod nodes.
type Balanced struct {
	nodes int
}

// NewBalanced creates a Balanced assignor over nodes cache nodes.
func NewBalanced(nodes int) *Balanced {
	if nodes <= 0 {
		panic(fmt.Sprintf("assignor: nodes must be > 0, got %d", nodes))
	}
	return &Balanced{nodes: nodes}
}

func (a *Balanced) Assign(ownerDiskID int) int {
	return mod(ownerDiskID, a.nodes)
}

// Hashed spreads owner disks by FNV-1a of the decimal disk id.
type Hashed struct {
	nodes int
}

func (a *Hashed) Assign(ownerDiskID int) int {
	h := fnv.New32a()
	h.Write([]byte(strconv.Itoa(ownerDiskID)))
	return int(h.Sum32() % uint32(a.nodes))
}

// Ranged gives each node a contiguous run of disk ids. Ids outside
// [0, disks) wrap around first.
type Ranged struct {
	nodes int
	disks int
}

func (a *Ranged) Assign(ownerDiskID int) int {
	return mod(ownerDiskID, a.disks) * a.nodes / a.disks
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
