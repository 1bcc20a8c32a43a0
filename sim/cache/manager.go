package cache

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/raposda-sim/raposda-sim/sim"
)

// WriteResponse is the outcome of buffering one block.
type WriteResponse struct {
	ResponseTime    float64     // fixed cache access latency
	MaxBufferDiskID int         // owner disk with the most blocks in the written region
	Overflows       []sim.Block // blocks handed back for draining, possibly none
}

// Response is the outcome of a cache read.
type Response struct {
	ResponseTime float64
	Result       sim.Lookup
}

// Manager routes blocks to cache nodes through an Assignor. It owns the nodes
// but not the blocks in them. Every operation is total for blocks whose
// replica level is within the configured count.
type Manager struct {
	nodes    map[int]*Node
	assignor sim.Assignor
	replicas int
	params   sim.CacheParameter
}

// NewManager wires nodes behind assignor.
func NewManager(nodes map[int]*Node, assignor sim.Assignor, replicas int, params sim.CacheParameter) (*Manager, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("cache manager: at least one node required")
	}
	if assignor == nil {
		return nil, fmt.Errorf("cache manager: assignor is nil")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("cache manager: %w", err)
	}
	for id, n := range nodes {
		if n.ID() != id {
			return nil, fmt.Errorf("cache manager: node %d registered under id %d", n.ID(), id)
		}
		if n.replicas != replicas {
			return nil, fmt.Errorf("cache manager: node %d has %d replica regions, want %d", id, n.replicas, replicas)
		}
	}
	return &Manager{
		nodes:    nodes,
		assignor: assignor,
		replicas: replicas,
		params:   params,
	}, nil
}

// BuildNodes creates count identical nodes with ids 0..count-1.
func BuildNodes(count, replicas int, params sim.CacheParameter, policy OverflowPolicy) (map[int]*Node, error) {
	nodes := make(map[int]*Node, count)
	for i := 0; i < count; i++ {
		n, err := NewNode(i, replicas, params, policy)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

// Write buffers b in the node assigned to its owner disk.
func (m *Manager) Write(b sim.Block) WriteResponse {
	n := m.nodeFor(b)
	overflows := n.Put(b)
	resp := WriteResponse{
		ResponseTime:    m.params.Latency,
		MaxBufferDiskID: n.MaxBufferDisk(b.ReplicaLevel),
		Overflows:       overflows,
	}
	if len(overflows) > 0 {
		logrus.Debugf("cache node %d: %s overflow of %d blocks at %.6fs (max buffer disk %d)",
			n.ID(), n.policy.Name(), len(overflows), b.AccessTime, resp.MaxBufferDiskID)
	}
	return resp
}

// Read looks up b's replica instance. A miss still pays the access latency.
func (m *Manager) Read(b sim.Block) Response {
	n := m.nodeFor(b)
	return Response{
		ResponseTime: m.params.Latency,
		Result:       n.Get(b.ID, b.ReplicaLevel),
	}
}

// Remove drops b's replica instance and returns it, or NotFound.
func (m *Manager) Remove(b sim.Block) sim.Lookup {
	return m.nodeFor(b).Remove(b)
}

// NodeOf returns the id of the node that buffers b.
func (m *Manager) NodeOf(b sim.Block) int {
	return m.nodeFor(b).ID()
}

// Node returns the node registered under id, or nil.
func (m *Manager) Node(id int) *Node {
	return m.nodes[id]
}

// NodeIDs returns the node ids in ascending order.
func (m *Manager) NodeIDs() []int {
	ids := make([]int, 0, len(m.nodes))
	for id := range m.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Occupancy returns resident block counts per node id.
func (m *Manager) Occupancy() map[int]int {
	occ := make(map[int]int, len(m.nodes))
	for id, n := range m.nodes {
		occ[id] = n.Len()
	}
	return occ
}

// Replicas returns the configured replica count.
func (m *Manager) Replicas() int {
	return m.replicas
}

func (m *Manager) nodeFor(b sim.Block) *Node {
	if !b.ReplicaLevel.Valid(m.replicas) {
		panic(fmt.Sprintf("cache manager: replica level %d outside %d replicas", int(b.ReplicaLevel), m.replicas))
	}
	id := m.assignor.Assign(b.OwnerDiskID)
	n, ok := m.nodes[id]
	if !ok {
		panic(fmt.Sprintf("cache manager: disk %d assigned to unknown node %d", b.OwnerDiskID, id))
	}
	return n
}
