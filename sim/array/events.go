package array

import (
	"github.com/raposda-sim/raposda-sim/sim"
	"github.com/raposda-sim/raposda-sim/sim/workload"
)

// EventType identifies an event kind and fixes its order among events that
// share a timestamp.
type EventType int

const (
	// EventTypeDrain flushes overflowed blocks. Runs first so that a read at
	// the same instant sees the post-drain cache.
	EventTypeDrain EventType = iota
	// EventTypeSpinUp wakes a standby disk ahead of a predicted drain.
	EventTypeSpinUp
	// EventTypeArrival admits a workload request.
	EventTypeArrival
)

// Priority returns the tie-break rank; lower runs first.
func (t EventType) Priority() int { return int(t) }

func (t EventType) String() string {
	switch t {
	case EventTypeDrain:
		return "drain"
	case EventTypeSpinUp:
		return "spin-up"
	case EventTypeArrival:
		return "arrival"
	default:
		return "unknown"
	}
}

// Event is one scheduled step of the array simulation.
type Event interface {
	Timestamp() float64
	EventID() uint64
	Type() EventType
	Execute(s *Simulator)
}

type baseEvent struct {
	timestamp float64
	eventID   uint64
	eventType EventType
}

func (e *baseEvent) Timestamp() float64 { return e.timestamp }
func (e *baseEvent) EventID() uint64    { return e.eventID }
func (e *baseEvent) Type() EventType    { return e.eventType }

// ArrivalEvent admits one request.
type ArrivalEvent struct {
	baseEvent
	Request workload.Request
}

func (e *ArrivalEvent) Execute(s *Simulator) { s.handleArrival(e) }

// DrainEvent writes overflowed cache blocks back to their owner disks.
// Resident blocks are still buffered and are removed from cache first;
// evicted ones already left it.
type DrainEvent struct {
	baseEvent
	CacheNode int
	Blocks    []sim.Block
	Resident  bool
}

func (e *DrainEvent) Execute(s *Simulator) { s.handleDrain(e) }

// SpinUpEvent forces a power-state check on a disk.
type SpinUpEvent struct {
	baseEvent
	DiskID int
	Reason string
}

func (e *SpinUpEvent) Execute(s *Simulator) { s.handleSpinUp(e) }
