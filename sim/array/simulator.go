package array

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/raposda-sim/raposda-sim/sim"
	"github.com/raposda-sim/raposda-sim/sim/cache"
	"github.com/raposda-sim/raposda-sim/sim/hdd"
	"github.com/raposda-sim/raposda-sim/sim/power"
	"github.com/raposda-sim/raposda-sim/sim/trace"
	"github.com/raposda-sim/raposda-sim/sim/workload"
)

// Simulator replays a request stream against one array. It is single-threaded
// and not safe for concurrent use.
type Simulator struct {
	cfg   Config
	Clock float64

	events  *EventHeap
	eventID uint64

	disks  []*hdd.Disk
	power  []power.Manager
	cache  *cache.Manager
	policy cache.OverflowPolicy

	pendingSpinUp map[int]bool
	trace         *trace.SimulationTrace
	metrics       *Metrics
}

// NewSimulator builds the disks, power managers and cache layer for cfg.
// tr may be nil.
func NewSimulator(cfg Config, tr *trace.SimulationTrace) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid array config: %w", err)
	}
	s := &Simulator{
		cfg:           cfg,
		events:        NewEventHeap(),
		disks:         make([]*hdd.Disk, cfg.Disks),
		power:         make([]power.Manager, cfg.Disks),
		pendingSpinUp: make(map[int]bool),
		trace:         tr,
		metrics:       newMetrics(cfg.Disks),
	}
	for i := 0; i < cfg.Disks; i++ {
		mgr, err := power.NewManager(cfg.PowerPolicy, cfg.Power)
		if err != nil {
			return nil, fmt.Errorf("disk %d: %w", i, err)
		}
		d, err := hdd.NewDisk(i, cfg.HDD, mgr)
		if err != nil {
			return nil, err
		}
		s.power[i] = mgr
		s.disks[i] = d
	}

	policy, err := cache.NewOverflowPolicy(cfg.OverflowPolicy)
	if err != nil {
		return nil, err
	}
	nodes, err := cache.BuildNodes(cfg.CacheMemories, cfg.Replicas, cfg.Cache, policy)
	if err != nil {
		return nil, err
	}
	assignor, err := cache.NewAssignor(cfg.Assignor, cfg.CacheMemories, cfg.Disks)
	if err != nil {
		return nil, err
	}
	s.cache, err = cache.NewManager(nodes, assignor, cfg.Replicas, cfg.Cache)
	if err != nil {
		return nil, err
	}
	s.policy = policy
	return s, nil
}

// Inject schedules an arrival for every request.
func (s *Simulator) Inject(requests []workload.Request) {
	for _, r := range requests {
		if r.BlockID == nil {
			panic(fmt.Sprintf("array: request %d has nil block id", r.ID))
		}
		s.schedule(&ArrivalEvent{baseEvent: s.newBase(r.Time, EventTypeArrival), Request: r})
	}
}

// Disk returns disk id.
func (s *Simulator) Disk(id int) *hdd.Disk { return s.disks[id] }

// Cache returns the cache layer.
func (s *Simulator) Cache() *cache.Manager { return s.cache }

// Trace returns the decision trace, nil when tracing is off.
func (s *Simulator) Trace() *trace.SimulationTrace { return s.trace }

// Run executes events until the queue empties or the horizon passes, then
// returns the collected metrics.
func (s *Simulator) Run() *Metrics {
	for s.events.Len() > 0 {
		ev := s.events.PopNext()
		if ev.Timestamp() < s.Clock {
			panic(fmt.Sprintf("array: clock moved backwards from %g to %g (%s event %d)",
				s.Clock, ev.Timestamp(), ev.Type(), ev.EventID()))
		}
		if s.cfg.Horizon > 0 && ev.Timestamp() > s.cfg.Horizon {
			logrus.Debugf("[%.6fs] horizon %.6fs reached with %d events pending",
				s.Clock, s.cfg.Horizon, s.events.Len()+1)
			break
		}
		s.Clock = ev.Timestamp()
		logrus.Debugf("[%.6fs] executing %s event %d", s.Clock, ev.Type(), ev.EventID())
		ev.Execute(s)
	}
	s.metrics.finish(s)
	logrus.Infof("[%.6fs] simulation ended", s.Clock)
	return s.metrics
}

func (s *Simulator) newBase(t float64, typ EventType) baseEvent {
	s.eventID++
	return baseEvent{timestamp: t, eventID: s.eventID, eventType: typ}
}

func (s *Simulator) schedule(e Event) { s.events.Schedule(e) }

// Place expands a block id into one block per replica level. The primary
// lives on id mod disks; replica k lives k disks further along.
func (s *Simulator) Place(id *big.Int, at float64) []sim.Block {
	origin := int(new(big.Int).Mod(id, big.NewInt(int64(s.cfg.Disks))).Int64())
	base := sim.NewBlock(id, at, origin)
	blocks := make([]sim.Block, 0, s.cfg.Replicas)
	for _, level := range sim.ReplicaLevels(s.cfg.Replicas) {
		owner := (origin + level.Value()) % s.cfg.Disks
		blocks = append(blocks, base.WithPlacement(owner, level))
	}
	return blocks
}

func (s *Simulator) handleArrival(e *ArrivalEvent) {
	switch e.Request.Op {
	case workload.OpWrite:
		s.write(e.Request)
	case workload.OpRead:
		s.read(e.Request)
	default:
		panic(fmt.Sprintf("array: request %d has unknown op %v", e.Request.ID, e.Request.Op))
	}
}

// write buffers every replica in cache. The request completes at cache speed;
// disk work happens later in drains.
func (s *Simulator) write(r workload.Request) {
	response := 0.0
	for _, b := range s.Place(r.BlockID, s.Clock) {
		resp := s.cache.Write(b)
		response = max(response, resp.ResponseTime)
		node := s.cache.NodeOf(b)
		if len(resp.Overflows) > 0 {
			s.schedule(&DrainEvent{
				baseEvent: s.newBase(s.Clock, EventTypeDrain),
				CacheNode: node,
				Blocks:    resp.Overflows,
				Resident:  s.policy.Name() == cache.PolicyDrain,
			})
			continue
		}
		if s.cfg.ProactiveSpinUp {
			s.maybeSpinUp(node, b.ReplicaLevel, resp.MaxBufferDiskID)
		}
	}
	s.metrics.recordWrite(response)
}

// maybeSpinUp wakes the region's max-buffer disk once the region is full, so
// the drain that the next write triggers finds it spinning.
func (s *Simulator) maybeSpinUp(node int, level sim.ReplicaLevel, disk int) {
	if disk < 0 || s.pendingSpinUp[disk] {
		return
	}
	n := s.cache.Node(node)
	if n.RegionLen(level) < n.RegionSlots() {
		return
	}
	if s.disks[disk].State(s.Clock) != sim.StateStandby {
		return
	}
	s.pendingSpinUp[disk] = true
	s.schedule(&SpinUpEvent{
		baseEvent: s.newBase(s.Clock, EventTypeSpinUp),
		DiskID:    disk,
		Reason:    fmt.Sprintf("cache node %d %s region full", node, level),
	})
}

func (s *Simulator) handleSpinUp(e *SpinUpEvent) {
	delete(s.pendingSpinUp, e.DiskID)
	latency := s.disks[e.DiskID].StateUpdate(s.Clock)
	if latency == 0 {
		return
	}
	s.metrics.ProactiveSpinUps++
	logrus.Debugf("[%.6fs] disk %d: proactive spin-up (%s)", s.Clock, e.DiskID, e.Reason)
	s.trace.RecordSpinUp(trace.SpinUpRecord{
		Clock:   s.Clock,
		DiskID:  e.DiskID,
		Latency: latency,
		Reason:  e.Reason,
	})
}

// handleDrain writes overflowed blocks to their owner disks, one batch per
// disk. Blocks another drain already flushed are skipped.
func (s *Simulator) handleDrain(e *DrainEvent) {
	batches := make(map[int][]sim.Block)
	for _, b := range e.Blocks {
		if e.Resident {
			got, ok := s.cache.Remove(b).Block()
			if !ok {
				continue
			}
			b = got
		}
		batches[b.OwnerDiskID] = append(batches[b.OwnerDiskID], b.WithAccessTime(s.Clock))
	}

	disks := make([]int, 0, len(batches))
	for id := range batches {
		disks = append(disks, id)
	}
	sort.Ints(disks)

	for _, id := range disks {
		batch := batches[id]
		standby := s.disks[id].State(s.Clock) == sim.StateStandby
		response, ok := s.disks[id].Write(batch)
		if !ok {
			continue
		}
		s.metrics.recordDrain(id, len(batch), response)
		logrus.Debugf("[%.6fs] cache node %d: drained %d blocks to disk %d in %.6fs",
			s.Clock, e.CacheNode, len(batch), id, response)
		s.trace.RecordDrain(trace.DrainRecord{
			Clock:        s.Clock,
			CacheNode:    e.CacheNode,
			DiskID:       id,
			Blocks:       len(batch),
			SpinUp:       standby,
			ResponseTime: response,
		})
	}
}

// read serves from cache when any replica is buffered. Otherwise it prefers a
// spinning replica owner and falls back to the primary.
func (s *Simulator) read(r workload.Request) {
	blocks := s.Place(r.BlockID, s.Clock)
	cacheLatency := 0.0
	for _, b := range blocks {
		resp := s.cache.Read(b)
		cacheLatency = max(cacheLatency, resp.ResponseTime)
		if resp.Result.IsFound() {
			s.metrics.recordRead(cacheLatency, true)
			s.trace.RecordRead(trace.ReadRecord{
				RequestID:    r.ID,
				Clock:        s.Clock,
				CacheHit:     true,
				DiskID:       -1,
				ReplicaLevel: b.ReplicaLevel.Value(),
				ResponseTime: cacheLatency,
			})
			return
		}
	}

	target := blocks[0]
	for _, b := range blocks {
		if s.disks[b.OwnerDiskID].State(s.Clock) == sim.StateActive {
			target = b
			break
		}
	}
	disk := s.disks[target.OwnerDiskID]
	state := disk.State(s.Clock)
	diskResponse, _ := disk.Read([]sim.Block{target})
	response := cacheLatency + diskResponse
	s.metrics.recordRead(response, false)
	s.metrics.Disks[target.OwnerDiskID].Reads++
	s.trace.RecordRead(trace.ReadRecord{
		RequestID:    r.ID,
		Clock:        s.Clock,
		DiskID:       target.OwnerDiskID,
		ReplicaLevel: target.ReplicaLevel.Value(),
		DiskState:    state.String(),
		ResponseTime: response,
	})
}
