package sim

// DiskState is the power state of a physical disk.
type DiskState int

const (
	StateActive DiskState = iota
	StateStandby
)

func (s DiskState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateStandby:
		return "standby"
	default:
		return "unknown"
	}
}

// Disk is the capability set callers depend on for one physical disk.
// hdd.Disk implements it with or without a power-state manager.
type Disk interface {
	ID() int
	// Read and Write service a batch of blocks sharing one arrival time and
	// return the batch response time. ok is false for an empty batch.
	Read(blocks []Block) (response float64, ok bool)
	Write(blocks []Block) (response float64, ok bool)
	// StandbyTime returns the idle gap since the disk last finished work.
	StandbyTime(accessTime float64) float64
	// StateUpdate forces a power-state check at updateTime without data
	// transfer and returns the transition latency charged.
	StateUpdate(updateTime float64) float64
	// State returns the power state the disk would be in at accessTime.
	State(accessTime float64) DiskState
}

// StateManager decides the power state of one disk from its timing.
// Implementations live in sim/power.
type StateManager interface {
	// State is a pure query: STANDBY if the disk has idled past its threshold
	// since lastFinishTime, else ACTIVE.
	State(accessTime, lastFinishTime float64) DiskState
	// StateUpdate returns the spin-up latency owed by a request arriving at
	// arrivalTime (0 when ACTIVE) and records the disk as ACTIVE.
	StateUpdate(arrivalTime, lastArrivalTime, lastResponseTime float64) float64
}

// Assignor maps an owner disk to the cache node buffering its blocks.
// Implementations must be deterministic and total.
type Assignor interface {
	Assign(ownerDiskID int) int
}
