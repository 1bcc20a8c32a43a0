package sim

import (
	"fmt"
	"math/big"
)

// ReplicaLevel is the rank of a block copy. ReplicaZero is the primary copy;
// levels 1..k-1 are secondary replicas. The value doubles as a region index.
type ReplicaLevel int

const (
	ReplicaZero ReplicaLevel = iota
	ReplicaOne
	ReplicaTwo
	ReplicaThree
)

// Value returns the level as an index.
func (r ReplicaLevel) Value() int {
	return int(r)
}

// Valid reports whether the level exists in an array holding replicas copies.
func (r ReplicaLevel) Valid(replicas int) bool {
	return r >= 0 && int(r) < replicas
}

func (r ReplicaLevel) String() string {
	if r == ReplicaZero {
		return "primary"
	}
	return fmt.Sprintf("replica-%d", int(r))
}

// ReplicaLevels enumerates the levels 0..replicas-1 in order.
func ReplicaLevels(replicas int) []ReplicaLevel {
	levels := make([]ReplicaLevel, 0, replicas)
	for i := 0; i < replicas; i++ {
		levels = append(levels, ReplicaLevel(i))
	}
	return levels
}

// Block is the unit of I/O. It carries identity and timing metadata only.
// All copies of one logical datum share ID and OriginDiskID and differ in
// ReplicaLevel and OwnerDiskID. Copies share the ID pointer, so an ID must not
// be modified once the block is built; cache nodes keep their own copy.
type Block struct {
	ID           *big.Int     // content identifier, shared by all replicas
	AccessTime   float64      // simulated arrival time of the request
	OriginDiskID int          // disk that logically owns the data
	OwnerDiskID  int          // disk this replica instance is assigned to
	ReplicaLevel ReplicaLevel // 0 = primary
}

// NewBlock creates an unplaced primary block. The owner defaults to the origin disk.
func NewBlock(id *big.Int, accessTime float64, originDiskID int) Block {
	return Block{
		ID:           new(big.Int).Set(id),
		AccessTime:   accessTime,
		OriginDiskID: originDiskID,
		OwnerDiskID:  originDiskID,
		ReplicaLevel: ReplicaZero,
	}
}

// WithPlacement returns a copy of b assigned to ownerDiskID at the given level.
func (b Block) WithPlacement(ownerDiskID int, level ReplicaLevel) Block {
	b.OwnerDiskID = ownerDiskID
	b.ReplicaLevel = level
	return b
}

// WithAccessTime returns a copy of b re-timed to t, e.g. when a buffered
// block is flushed to disk later than its original arrival.
func (b Block) WithAccessTime(t float64) Block {
	b.AccessTime = t
	return b
}

// BlockKey identifies one replica instance of a block inside a cache node.
type BlockKey struct {
	ID    string
	Level ReplicaLevel
}

// Key returns the map key of this replica instance.
func (b Block) Key() BlockKey {
	return KeyOf(b.ID, b.ReplicaLevel)
}

// KeyOf builds the key for content id at the given replica level.
func KeyOf(id *big.Int, level ReplicaLevel) BlockKey {
	if id == nil {
		panic("sim: block has nil ID")
	}
	return BlockKey{ID: id.String(), Level: level}
}

// SameInstance reports whether a and b denote the same replica instance.
func (b Block) SameInstance(o Block) bool {
	return b.ID != nil && o.ID != nil && b.ID.Cmp(o.ID) == 0 && b.ReplicaLevel == o.ReplicaLevel
}

func (b Block) String() string {
	return fmt.Sprintf("block{id=%v origin=%d owner=%d %s t=%g}",
		b.ID, b.OriginDiskID, b.OwnerDiskID, b.ReplicaLevel, b.AccessTime)
}

// Lookup is the result of a keyed cache access: either a found block or NotFound.
// The zero value is NotFound.
type Lookup struct {
	block Block
	found bool
}

// NotFound is the result of a lookup or removal that matched nothing.
var NotFound = Lookup{}

// Found wraps a block that was present.
func Found(b Block) Lookup {
	return Lookup{block: b, found: true}
}

// Block returns the matched block and whether there was one.
func (l Lookup) Block() (Block, bool) {
	return l.block, l.found
}

// IsFound reports whether the lookup matched a block.
func (l Lookup) IsFound() bool {
	return l.found
}

func (l Lookup) String() string {
	if !l.found {
		return "not-found"
	}
	return "found " + l.block.String()
}
