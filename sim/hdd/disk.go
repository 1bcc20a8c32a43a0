package hdd

import (
	"github.com/sirupsen/logrus"

	"github.com/raposda-sim/raposda-sim/sim"
)

// Disk is one physical disk as seen by the array: a Drive for latency plus an
// optional StateManager for power. With a nil manager the disk is always
// active and never pays a transition latency.
type Disk struct {
	drive *Drive
	stm   sim.StateManager
}

var _ sim.Disk = (*Disk)(nil)

// NewDisk creates a disk. stm may be nil for a disk without power management.
func NewDisk(id int, params sim.HDDParameter, stm sim.StateManager) (*Disk, error) {
	drive, err := NewDrive(id, params)
	if err != nil {
		return nil, err
	}
	return &Disk{drive: drive, stm: stm}, nil
}

// ID returns the disk identifier.
func (d *Disk) ID() int {
	return d.drive.ID()
}

// Read services a read batch. See Write.
func (d *Disk) Read(blocks []sim.Block) (float64, bool) {
	return d.access(blocks)
}

// Write services a write batch. The returned response includes any spin-up
// latency owed because the disk was in standby when the batch arrived, and
// the disk stays busy for that long.
func (d *Disk) Write(blocks []sim.Block) (float64, bool) {
	return d.access(blocks)
}

func (d *Disk) access(blocks []sim.Block) (float64, bool) {
	if len(blocks) == 0 {
		return 0, false
	}
	d.drive.checkBatch(blocks)
	latency := d.transition(blocks[0].AccessTime)
	return d.drive.access(blocks, latency)
}

// transition asks the manager for the latency owed at arrivalTime, using the
// timeline as it stands before this access.
func (d *Disk) transition(arrivalTime float64) float64 {
	if d.stm == nil {
		return 0
	}
	latency := d.stm.StateUpdate(arrivalTime, d.drive.lastArrivalTime, d.drive.lastResponseTime)
	if latency > 0 {
		logrus.Debugf("disk %d: spin-up at %.6fs costs %.3fs", d.ID(), arrivalTime, latency)
	}
	return latency
}

// StandbyTime returns max(0, accessTime - busyUntil).
func (d *Disk) StandbyTime(accessTime float64) float64 {
	idle := accessTime - d.drive.BusyUntil()
	if idle < 0 {
		return 0
	}
	return idle
}

// StateUpdate forces a power-state check at updateTime without transferring
// data. A nonzero transition latency keeps the disk busy for that long.
func (d *Disk) StateUpdate(updateTime float64) float64 {
	latency := d.transition(updateTime)
	if latency > 0 {
		d.drive.advance(updateTime, latency)
	}
	return latency
}

// State returns the power state the disk would be in at accessTime.
func (d *Disk) State(accessTime float64) sim.DiskState {
	if d.stm == nil {
		return sim.StateActive
	}
	return d.stm.State(accessTime, d.drive.BusyUntil())
}

// BusyUntil returns the time the disk finishes its outstanding work.
func (d *Disk) BusyUntil() float64 {
	return d.drive.BusyUntil()
}
