package array

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raposda-sim/raposda-sim/sim"
	"github.com/raposda-sim/raposda-sim/sim/trace"
	"github.com/raposda-sim/raposda-sim/sim/workload"
)

// testConfig gives a 0.023s block service time, 1ms cache latency and a 10s
// spin-down timeout with a 5s spin-up.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Disks = 2
	cfg.Replicas = 1
	cfg.CacheMemories = 1
	cfg.HDD = sim.HDDParameter{
		FullStrokeSeekTime: 0.01,
		RPM:                6000,
		SectorsPerTrack:    8,
		HeadSwitchOverhead: 0.001,
		CommandOverhead:    0.001,
		TransferRate:       512000,
		BlockSize:          4096,
	}
	cfg.Cache = sim.CacheParameter{Value: 1, Capacity: 2, Latency: 0.001}
	cfg.Power = sim.PowerParameter{
		SpinDownTimeout: 10,
		SpinUpTime:      5,
		SpinDownTime:    1,
		ActivePower:     10,
		StandbyPower:    1,
		SpinUpEnergy:    100,
		SpinDownEnergy:  10,
	}
	return cfg
}

func newTestSimulator(t *testing.T, cfg Config) *Simulator {
	t.Helper()
	s, err := NewSimulator(cfg, trace.NewSimulationTrace(trace.TraceLevelDecisions))
	require.NoError(t, err)
	return s
}

func write(id int, at float64, block int64) workload.Request {
	return workload.Request{ID: id, Time: at, Op: workload.OpWrite, BlockID: big.NewInt(block)}
}

func read(id int, at float64, block int64) workload.Request {
	return workload.Request{ID: id, Time: at, Op: workload.OpRead, BlockID: big.NewInt(block)}
}
