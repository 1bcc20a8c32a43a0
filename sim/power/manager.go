// Package power provides disk power-state managers. A manager decides from
// idle time whether its disk is spinning and charges the spin-up latency when
// a request finds it in standby. Managers also keep the counters needed to
// report transitions and energy at the end of a run.
package power

import (
	"fmt"
	"math"

	"github.com/raposda-sim/raposda-sim/sim"
)

// Policy names accepted by NewManager.
const (
	PolicyTimeout  = "timeout"
	PolicyAlwaysOn = "always-on"
	DefaultPolicy  = PolicyTimeout
)

var validPolicies = map[string]bool{
	PolicyTimeout:  true,
	PolicyAlwaysOn: true,
	"":             true, // empty defaults to timeout
}

// IsValidPolicy returns true if name is a recognized power policy.
func IsValidPolicy(name string) bool {
	return validPolicies[name]
}

// Stats summarizes one disk's power history up to a point in simulated time.
type Stats struct {
	SpinUps     int
	SpinDowns   int
	StandbyTime float64 // seconds spent spun down
	Energy      float64 // joules
}

// Manager is a StateManager that can also report its history.
type Manager interface {
	sim.StateManager
	// Stats reports history up to until for a disk whose work finished at lastFinish.
	Stats(until, lastFinish float64) Stats
}

// NewManager creates the manager for one disk.
func NewManager(policy string, params sim.PowerParameter) (Manager, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	switch policy {
	case PolicyTimeout, "":
		return &TimeoutManager{params: params}, nil
	case PolicyAlwaysOn:
		return &AlwaysActive{params: params}, nil
	default:
		return nil, fmt.Errorf("unknown power policy %q; valid: %s, %s", policy, PolicyTimeout, PolicyAlwaysOn)
	}
}

// TimeoutManager spins a disk down once it has idled longer than
// SpinDownTimeout, and charges SpinUpTime to the next access after that.
type TimeoutManager struct {
	params sim.PowerParameter

	lastTransition float64
	spinUps        int
	spinDowns      int
	standbyTime    float64
}

// State returns STANDBY if accessTime is more than SpinDownTimeout past
// lastFinishTime. Pure query.
func (m *TimeoutManager) State(accessTime, lastFinishTime float64) sim.DiskState {
	if accessTime-lastFinishTime > m.params.SpinDownTimeout {
		return sim.StateStandby
	}
	return sim.StateActive
}

// StateUpdate returns SpinUpTime if the disk is in standby at arrivalTime and
// 0 otherwise. Only a standby arrival counts a spin-down and spin-up pair.
func (m *TimeoutManager) StateUpdate(arrivalTime, lastArrivalTime, lastResponseTime float64) float64 {
	lastFinish := lastArrivalTime + lastResponseTime
	if m.State(arrivalTime, lastFinish) == sim.StateActive {
		return 0
	}
	// the disk went down when the timeout expired and stayed down until now
	m.spinDowns++
	m.spinUps++
	m.standbyTime += arrivalTime - (lastFinish + m.params.SpinDownTimeout)
	m.lastTransition = arrivalTime
	return m.params.SpinUpTime
}

// LastTransition returns the time of the most recent spin-up.
func (m *TimeoutManager) LastTransition() float64 {
	return m.lastTransition
}

// Stats includes a standby period still open at until.
func (m *TimeoutManager) Stats(until, lastFinish float64) Stats {
	s := Stats{
		SpinUps:     m.spinUps,
		SpinDowns:   m.spinDowns,
		StandbyTime: m.standbyTime,
	}
	if m.State(until, lastFinish) == sim.StateStandby {
		s.SpinDowns++
		s.StandbyTime += until - (lastFinish + m.params.SpinDownTimeout)
	}
	s.Energy = energy(m.params, until, s)
	return s
}

// AlwaysActive never spins its disk down.
type AlwaysActive struct {
	params sim.PowerParameter
}

// State always returns ACTIVE.
func (a *AlwaysActive) State(accessTime, lastFinishTime float64) sim.DiskState {
	return sim.StateActive
}

// StateUpdate never charges a latency.
func (a *AlwaysActive) StateUpdate(arrivalTime, lastArrivalTime, lastResponseTime float64) float64 {
	return 0
}

// Stats reports the disk as spinning for the whole run.
func (a *AlwaysActive) Stats(until, lastFinish float64) Stats {
	s := Stats{}
	s.Energy = energy(a.params, until, s)
	return s
}

// energy charges ActivePower outside standby, StandbyPower inside it, and a
// fixed cost per transition. The first SpinDownTime seconds of each standby
// period are spent winding down and draw ActivePower.
func energy(p sim.PowerParameter, until float64, s Stats) float64 {
	active := until - s.StandbyTime
	if active < 0 {
		active = 0
	}
	winding := math.Min(float64(s.SpinDowns)*p.SpinDownTime, s.StandbyTime)
	return (active+winding)*p.ActivePower +
		(s.StandbyTime-winding)*p.StandbyPower +
		float64(s.SpinUps)*p.SpinUpEnergy +
		float64(s.SpinDowns)*p.SpinDownEnergy
}
