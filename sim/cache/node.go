// Package cache implements the distributed write buffer in front of the data
// disks: bounded cache nodes holding replicated blocks, strategies assigning
// owner disks to nodes, and the Manager façade that reports overflow.
package cache

import (
	"fmt"
	"math/big"

	"github.com/raposda-sim/raposda-sim/sim"
)

// entry is one buffered replica instance, linked in insertion order.
type entry struct {
	block sim.Block
	prev  *entry
	next  *entry
}

// Node is one cache memory: a fixed-capacity buffer of blocks keyed by
// (content id, replica level). The capacity is split evenly into one region
// per replica level, and a region holding more blocks than its slots has
// overflowed. Node is not safe for concurrent use.
type Node struct {
	id          int
	replicas    int
	capacity    int
	regionSlots int
	policy      OverflowPolicy

	entries map[sim.BlockKey]*entry
	head    *entry // oldest
	tail    *entry // newest

	regionLen    []int         // level -> resident blocks
	regionOwners []map[int]int // level -> owner disk -> resident blocks
}

// NewNode creates an empty node. A nil policy selects DrainPolicy.
func NewNode(id, replicas int, params sim.CacheParameter, policy OverflowPolicy) (*Node, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("cache node %d: %w", id, err)
	}
	if replicas <= 0 {
		return nil, fmt.Errorf("cache node %d: replicas must be > 0, got %d", id, replicas)
	}
	if params.Capacity < replicas {
		return nil, fmt.Errorf("cache node %d: capacity %d cannot hold %d replica regions", id, params.Capacity, replicas)
	}
	if policy == nil {
		policy = DrainPolicy{}
	}
	n := &Node{
		id:           id,
		replicas:     replicas,
		capacity:     params.Capacity,
		regionSlots:  params.Capacity / replicas,
		policy:       policy,
		entries:      make(map[sim.BlockKey]*entry),
		regionLen:    make([]int, replicas),
		regionOwners: make([]map[int]int, replicas),
	}
	for i := range n.regionOwners {
		n.regionOwners[i] = make(map[int]int)
	}
	return n, nil
}

// ID returns the node id.
func (n *Node) ID() int { return n.id }

// Len returns the number of resident blocks.
func (n *Node) Len() int { return len(n.entries) }

// Capacity returns the node's block budget.
func (n *Node) Capacity() int { return n.capacity }

// RegionSlots returns the block budget of each replica-level region.
func (n *Node) RegionSlots() int { return n.regionSlots }

// RegionLen returns the number of resident blocks at level.
func (n *Node) RegionLen(level sim.ReplicaLevel) int {
	n.checkLevel(level)
	return n.regionLen[level]
}

// Put buffers b and returns the blocks the overflow policy reports, possibly
// none. Putting a replica instance that is already resident refreshes its
// metadata in place: no new slot, no change in insertion order, and no
// overflow report. The node keeps its own copy of b.ID.
func (n *Node) Put(b sim.Block) []sim.Block {
	n.checkLevel(b.ReplicaLevel)
	key := b.Key()
	b.ID = new(big.Int).Set(b.ID)
	if e, ok := n.entries[key]; ok {
		n.uncount(e.block)
		e.block = b
		n.count(b)
		return nil
	}
	e := &entry{block: b}
	n.entries[key] = e
	n.appendEntry(e)
	n.count(b)
	return n.policy.Overflow(n, b)
}

// Get returns the block with content id at level, or NotFound.
func (n *Node) Get(id *big.Int, level sim.ReplicaLevel) sim.Lookup {
	e, ok := n.entries[sim.KeyOf(id, level)]
	if !ok {
		return sim.NotFound
	}
	return sim.Found(e.block)
}

// Remove drops the resident instance matching b's id and level and returns it.
// Removing an absent block returns NotFound.
func (n *Node) Remove(b sim.Block) sim.Lookup {
	e, ok := n.entries[b.Key()]
	if !ok {
		return sim.NotFound
	}
	n.unlink(e)
	return sim.Found(e.block)
}

// MaxBufferDisk returns the owner disk with the most resident blocks at level.
// Ties go to the lowest disk id. Returns -1 for an empty region.
func (n *Node) MaxBufferDisk(level sim.ReplicaLevel) int {
	n.checkLevel(level)
	best, bestCount := -1, 0
	for disk, c := range n.regionOwners[level] {
		if c > bestCount || (c == bestCount && disk < best) {
			best, bestCount = disk, c
		}
	}
	return best
}

// OwnedBy returns every resident block owned by disk, oldest first.
func (n *Node) OwnedBy(disk int) []sim.Block {
	var out []sim.Block
	for e := n.head; e != nil; e = e.next {
		if e.block.OwnerDiskID == disk {
			out = append(out, e.block)
		}
	}
	return out
}

// Blocks returns all resident blocks, oldest first.
func (n *Node) Blocks() []sim.Block {
	out := make([]sim.Block, 0, len(n.entries))
	for e := n.head; e != nil; e = e.next {
		out = append(out, e.block)
	}
	return out
}

func (n *Node) checkLevel(level sim.ReplicaLevel) {
	if !level.Valid(n.replicas) {
		panic(fmt.Sprintf("cache node %d: replica level %d outside %d replicas", n.id, int(level), n.replicas))
	}
}

func (n *Node) count(b sim.Block) {
	n.regionLen[b.ReplicaLevel]++
	n.regionOwners[b.ReplicaLevel][b.OwnerDiskID]++
}

func (n *Node) uncount(b sim.Block) {
	n.regionLen[b.ReplicaLevel]--
	owners := n.regionOwners[b.ReplicaLevel]
	owners[b.OwnerDiskID]--
	if owners[b.OwnerDiskID] == 0 {
		delete(owners, b.OwnerDiskID)
	}
}

// appendEntry inserts e at the tail of the insertion-order list.
func (n *Node) appendEntry(e *entry) {
	e.next = nil
	// either both head and tail are nil, or neither is
	if n.tail != nil {
		n.tail.next = e
		e.prev = n.tail
		n.tail = e
	} else {
		n.head = e
		n.tail = e
		e.prev = nil
	}
}

// unlink removes e from the list, the index and the region counters.
func (n *Node) unlink(e *entry) {
	if e.prev != nil {
		// a - e - c => a - c
		e.prev.next = e.next
	} else {
		n.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		n.tail = e.prev
	}
	e.next = nil
	e.prev = nil
	delete(n.entries, e.block.Key())
	n.uncount(e.block)
}
