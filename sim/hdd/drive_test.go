package hdd

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raposda-sim/raposda-sim/sim"
)

// testParams gives round numbers: a 4096-byte block costs
// 0.005 seek + 0.005 half rotation + 0.01 track + 0.002 overhead + 0.001 transfer.
func testParams() sim.HDDParameter {
	return sim.HDDParameter{
		FullStrokeSeekTime: 0.01,
		RPM:                6000,
		SectorsPerTrack:    8,
		HeadSwitchOverhead: 0.001,
		CommandOverhead:    0.001,
		TransferRate:       512_000,
		BlockSize:          4096,
	}
}

const testServiceTime = 0.023

func blocksAt(t float64, ids ...int64) []sim.Block {
	out := make([]sim.Block, 0, len(ids))
	for _, id := range ids {
		out = append(out, sim.NewBlock(big.NewInt(id), t, 0))
	}
	return out
}

func newTestDrive(t *testing.T) *Drive {
	t.Helper()
	d, err := NewDrive(0, testParams())
	require.NoError(t, err)
	return d
}

func TestNewDrive_InvalidParams_ReturnsError(t *testing.T) {
	p := testParams()
	p.RPM = 0
	_, err := NewDrive(1, p)
	assert.EqualError(t, err, "drive 1: hdd: rpm must be > 0, got 0")
}

func TestDrive_ServiceTime(t *testing.T) {
	d := newTestDrive(t)
	assert.InDelta(t, testServiceTime, d.ServiceTime(4096), 1e-12)
	// 4097 bytes rounds up to 9 sectors: 9/8 of a rotation on the track term
	assert.InDelta(t, 0.02425, d.ServiceTime(4097), 1e-12)
	assert.Greater(t, d.ServiceTime(1), 0.0)
}

func TestDrive_Access_IdleDiskHasNoQueueing(t *testing.T) {
	d := newTestDrive(t)

	resp, ok := d.Access(blocksAt(0, 1))
	require.True(t, ok)
	assert.InDelta(t, testServiceTime, resp, 1e-12)
	assert.InDelta(t, testServiceTime, d.BusyUntil(), 1e-12)

	// well after the disk finished: zero queueing
	resp, ok = d.Access(blocksAt(1.0, 2))
	require.True(t, ok)
	assert.InDelta(t, testServiceTime, resp, 1e-12)
}

func TestDrive_Access_EarlyArrivalQueuesForTheGap(t *testing.T) {
	d := newTestDrive(t)
	_, _ = d.Access(blocksAt(0, 1))

	assert.InDelta(t, 0.013, d.QueueingTime(0.01), 1e-12)
	resp, ok := d.Access(blocksAt(0.01, 2))
	require.True(t, ok)
	assert.InDelta(t, testServiceTime+0.013, resp, 1e-12)
	assert.InDelta(t, 0.046, d.BusyUntil(), 1e-12)
}

func TestDrive_Access_ArrivalAtFinishTimeDoesNotQueue(t *testing.T) {
	d := newTestDrive(t)
	_, _ = d.Access(blocksAt(0, 1))
	assert.Equal(t, 0.0, d.QueueingTime(d.BusyUntil()))
}

func TestDrive_Access_BatchResponseIsMaxNotSum(t *testing.T) {
	d := newTestDrive(t)
	resp, ok := d.Access(blocksAt(0, 1, 2, 3))
	require.True(t, ok)
	assert.InDelta(t, testServiceTime, resp, 1e-12)
	assert.InDelta(t, testServiceTime, d.BusyUntil(), 1e-12)
}

func TestDrive_Access_EmptyBatchIsNoResponse(t *testing.T) {
	d := newTestDrive(t)
	_, _ = d.Access(blocksAt(0, 1))
	before := d.BusyUntil()

	resp, ok := d.Access(nil)
	assert.False(t, ok)
	assert.Equal(t, 0.0, resp)
	assert.Equal(t, before, d.BusyUntil())
}

func TestDrive_Access_MixedArrivalTimes_Panics(t *testing.T) {
	d := newTestDrive(t)
	batch := append(blocksAt(0, 1), blocksAt(1, 2)...)
	assert.PanicsWithValue(t, "hdd: drive 0: batch mixes arrival times 0 and 1", func() {
		d.Access(batch)
	})
	assert.Equal(t, 0.0, d.BusyUntil())
}

func TestDrive_Access_ResponseAtLeastServiceTime(t *testing.T) {
	d := newTestDrive(t)
	for i, at := range []float64{0, 0, 0.001, 0.5, 0.5, 0.51, 3} {
		resp, ok := d.Access(blocksAt(at, int64(i)))
		require.True(t, ok)
		assert.GreaterOrEqual(t, resp, d.ServiceTime(4096)-1e-12)
	}
}
