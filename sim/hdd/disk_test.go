package hdd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raposda-sim/raposda-sim/sim"
	"github.com/raposda-sim/raposda-sim/sim/power"
)

func testPower() sim.PowerParameter {
	return sim.PowerParameter{
		SpinDownTimeout: 10,
		SpinUpTime:      5,
		SpinDownTime:    1,
		ActivePower:     10,
		StandbyPower:    1,
		SpinUpEnergy:    100,
		SpinDownEnergy:  10,
	}
}

func newPowerDisk(t *testing.T) (*Disk, power.Manager) {
	t.Helper()
	stm, err := power.NewManager(power.PolicyTimeout, testPower())
	require.NoError(t, err)
	d, err := NewDisk(3, testParams(), stm)
	require.NoError(t, err)
	return d, stm
}

func TestDisk_Write_ActiveDiskPaysNoTransition(t *testing.T) {
	d, _ := newPowerDisk(t)
	resp, ok := d.Write(blocksAt(0, 1))
	require.True(t, ok)
	assert.InDelta(t, testServiceTime, resp, 1e-12)
	assert.Equal(t, 3, d.ID())
}

func TestDisk_Write_StandbyDiskFoldsSpinUpIntoResponse(t *testing.T) {
	d, stm := newPowerDisk(t)
	_, _ = d.Write(blocksAt(0, 1))

	assert.Equal(t, sim.StateStandby, d.State(20))
	resp, ok := d.Write(blocksAt(20, 2))
	require.True(t, ok)
	assert.InDelta(t, 5+testServiceTime, resp, 1e-12)
	assert.InDelta(t, 25+testServiceTime, d.BusyUntil(), 1e-12)
	assert.Equal(t, 1, stm.Stats(25, d.BusyUntil()).SpinUps)

	// the next request queues behind the spin-up as well
	resp, ok = d.Read(blocksAt(21, 3))
	require.True(t, ok)
	assert.InDelta(t, 4+2*testServiceTime, resp, 1e-12)
}

func TestDisk_StandbyTime(t *testing.T) {
	d, _ := newPowerDisk(t)
	_, _ = d.Write(blocksAt(0, 1))

	assert.InDelta(t, 30-testServiceTime, d.StandbyTime(30), 1e-12)
	assert.Equal(t, 0.0, d.StandbyTime(0.01))
}

func TestDisk_State_PureQuery(t *testing.T) {
	d, stm := newPowerDisk(t)
	_, _ = d.Write(blocksAt(0, 1))

	assert.Equal(t, sim.StateActive, d.State(10))
	assert.Equal(t, sim.StateStandby, d.State(10.5))
	assert.Equal(t, sim.StateStandby, d.State(10.5))
	assert.Equal(t, 0, stm.Stats(10, d.BusyUntil()).SpinUps)
}

func TestDisk_StateUpdate_WakesStandbyDiskOutOfBand(t *testing.T) {
	d, _ := newPowerDisk(t)
	_, _ = d.Write(blocksAt(0, 1))

	latency := d.StateUpdate(50)
	assert.Equal(t, 5.0, latency)
	// counted from the update time, not from the last completion
	assert.InDelta(t, 55, d.BusyUntil(), 1e-12)
	assert.Equal(t, sim.StateActive, d.State(55))

	// a request after the wake-up is not charged again
	resp, ok := d.Write(blocksAt(55, 2))
	require.True(t, ok)
	assert.InDelta(t, testServiceTime, resp, 1e-12)
}

func TestDisk_StateUpdate_ActiveDiskIsUnchanged(t *testing.T) {
	d, _ := newPowerDisk(t)
	_, _ = d.Write(blocksAt(0, 1))
	before := d.BusyUntil()

	assert.Equal(t, 0.0, d.StateUpdate(1))
	assert.Equal(t, before, d.BusyUntil())
}

func TestDisk_WithoutManager_NeverSpinsDown(t *testing.T) {
	d, err := NewDisk(0, testParams(), nil)
	require.NoError(t, err)

	_, _ = d.Write(blocksAt(0, 1))
	resp, ok := d.Write(blocksAt(1000, 2))
	require.True(t, ok)
	assert.InDelta(t, testServiceTime, resp, 1e-12)
	assert.Equal(t, sim.StateActive, d.State(5000))
	assert.Equal(t, 0.0, d.StateUpdate(5000))
}

func TestDisk_MixedBatch_PanicsBeforeChargingSpinUp(t *testing.T) {
	d, stm := newPowerDisk(t)
	batch := append(blocksAt(20, 1), blocksAt(21, 2)...)
	assert.Panics(t, func() { d.Write(batch) })
	assert.Equal(t, 0, stm.Stats(20, d.BusyUntil()).SpinUps)
}

func TestDisk_EmptyBatch(t *testing.T) {
	d, _ := newPowerDisk(t)
	_, ok := d.Read(nil)
	assert.False(t, ok)
}
