// Package sim provides the core types of the RAPoSDA disk array simulator.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - block.go: Block identity and placement, replica levels, the Lookup result
//   - params.go: immutable drive, cache and power parameters
//   - disk.go: the Disk, StateManager and Assignor extension points
//
// # Architecture
//
// The sim package defines interfaces and value types; implementations live in
// sub-packages:
//   - sim/hdd/: disk latency model and the power-aware disk composing it
//   - sim/power/: disk power-state managers and energy accounting
//   - sim/cache/: cache nodes, assignment strategies, the cache memory manager
//   - sim/array/: the event-driven array simulator and its metrics
//   - sim/workload/: trace replay and synthetic request generation
//   - sim/trace/: decision trace recording
//
// All times are simulated seconds (float64). Nothing in the simulator reads
// the wall clock and no component is safe for concurrent use: one goroutine
// drives the event sequence, and disks and cache nodes are partitioned by id.
package sim
