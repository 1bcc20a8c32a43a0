// Package workload produces the block request streams fed to the array
// simulator: CSV trace replay and a seeded synthetic generator.
package workload

import (
	"fmt"
	"math/big"
)

// Op is the kind of block request.
type Op int

const (
	OpRead Op = iota
	OpWrite
)

func (o Op) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// ParseOp accepts "read"/"r" and "write"/"w".
func ParseOp(s string) (Op, error) {
	switch s {
	case "read", "r", "R":
		return OpRead, nil
	case "write", "w", "W":
		return OpWrite, nil
	default:
		return 0, fmt.Errorf("unknown op %q; valid: read, write", s)
	}
}

// Request is one logical block request. Placement onto disks and replicas is
// decided by the array, not the workload.
type Request struct {
	ID      int
	Time    float64 // arrival, simulated seconds
	Op      Op
	BlockID *big.Int
}
