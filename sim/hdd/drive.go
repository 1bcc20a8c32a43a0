// Package hdd models rotating disks: the closed-form latency model of one
// drive (Drive) and the power-aware disk that composes it with a power-state
// manager (Disk).
package hdd

import (
	"fmt"
	"math"

	"github.com/raposda-sim/raposda-sim/sim"
)

// Drive is the latency model of one physical disk. It serializes batches on a
// single timeline: each batch queues behind the finish time of the previous
// one, lastArrivalTime + lastResponseTime.
type Drive struct {
	id     int
	params sim.HDDParameter

	lastArrivalTime  float64
	lastResponseTime float64
}

// NewDrive creates an idle drive. Returns an error if params cannot be used.
func NewDrive(id int, params sim.HDDParameter) (*Drive, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("drive %d: %w", id, err)
	}
	return &Drive{id: id, params: params}, nil
}

// ID returns the disk identifier.
func (d *Drive) ID() int {
	return d.id
}

// BusyUntil returns the simulated time at which the drive finishes its last batch.
func (d *Drive) BusyUntil() float64 {
	return d.lastArrivalTime + d.lastResponseTime
}

// Access services a batch of blocks that share one arrival time and returns the
// batch response time, the maximum of the per-block responses. An empty batch
// returns ok=false and leaves the drive untouched. A batch with mixed arrival
// times is a caller bug and panics.
func (d *Drive) Access(blocks []sim.Block) (response float64, ok bool) {
	return d.access(blocks, 0)
}

// ServiceTime returns seek + rotation + transfer time for size bytes.
func (d *Drive) ServiceTime(size int) float64 {
	p := d.params
	sectors := math.Ceil(float64(size) / sim.SectorSize)
	fullRotation := p.FullRotationTime()
	overhead := p.HeadSwitchOverhead + p.CommandOverhead
	transfer := float64(sim.SectorSize) / float64(p.TransferRate)

	return p.FullStrokeSeekTime/2 +
		fullRotation/2 +
		fullRotation*(sectors/float64(p.SectorsPerTrack)) +
		overhead +
		transfer
}

// QueueingTime returns how long a request arriving at arrivalTime waits for
// the previous batch to finish. Never negative.
func (d *Drive) QueueingTime(arrivalTime float64) float64 {
	busyUntil := d.BusyUntil()
	if arrivalTime < busyUntil {
		return busyUntil - arrivalTime
	}
	return 0
}

// access computes the batch response with penalty added to every block
// (e.g. a spin-up charged before the batch can start) and records it.
func (d *Drive) access(blocks []sim.Block, penalty float64) (float64, bool) {
	if len(blocks) == 0 {
		return 0, false
	}
	d.checkBatch(blocks)
	arrivalTime := blocks[0].AccessTime
	size := d.params.EffectiveBlockSize()

	response := 0.0
	for range blocks {
		blockResponse := d.ServiceTime(size) + d.QueueingTime(arrivalTime) + penalty
		if blockResponse > response {
			response = blockResponse
		}
	}
	d.lastArrivalTime = arrivalTime
	d.lastResponseTime = response
	return response, true
}

// checkBatch panics unless every block shares the first block's arrival time.
func (d *Drive) checkBatch(blocks []sim.Block) {
	arrivalTime := blocks[0].AccessTime
	for _, b := range blocks[1:] {
		if b.AccessTime != arrivalTime {
			panic(fmt.Sprintf("hdd: drive %d: batch mixes arrival times %g and %g", d.id, arrivalTime, b.AccessTime))
		}
	}
}

// advance charges an out-of-band transition latency: the drive becomes busy
// from max(busyUntil, updateTime) for latency seconds with no response pending.
// Starting from busyUntil alone, as older disk models do, could date the
// spin-up before updateTime.
func (d *Drive) advance(updateTime, latency float64) {
	start := math.Max(d.BusyUntil(), updateTime)
	d.lastArrivalTime = start + latency
	d.lastResponseTime = 0
}
