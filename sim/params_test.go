package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParameters_AreValid(t *testing.T) {
	require.NoError(t, DefaultHDDParameter().Validate())
	require.NoError(t, DefaultCacheParameter().Validate())
	require.NoError(t, DefaultPowerParameter().Validate())
}

func TestHDDParameter_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*HDDParameter)
		errMsg string
	}{
		{"zero rpm", func(p *HDDParameter) { p.RPM = 0 }, "hdd: rpm must be > 0, got 0"},
		{"zero sectors", func(p *HDDParameter) { p.SectorsPerTrack = 0 }, "hdd: sectors_per_track must be > 0, got 0"},
		{"zero transfer", func(p *HDDParameter) { p.TransferRate = 0 }, "hdd: transfer_rate must be > 0, got 0"},
		{"negative seek", func(p *HDDParameter) { p.FullStrokeSeekTime = -1 }, "hdd: full_stroke_seek_time must be >= 0, got -1"},
		{"NaN overhead", func(p *HDDParameter) { p.CommandOverhead = math.NaN() }, "hdd: command_overhead must be finite, got NaN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultHDDParameter()
			tt.mutate(&p)
			assert.EqualError(t, p.Validate(), tt.errMsg)
		})
	}
}

func TestHDDParameter_EffectiveBlockSize(t *testing.T) {
	p := DefaultHDDParameter()
	p.BlockSize = 0
	assert.Equal(t, DefaultBlockSize, p.EffectiveBlockSize())
	p.BlockSize = 1024
	assert.Equal(t, 1024, p.EffectiveBlockSize())
}

func TestHDDParameter_FullRotationTime(t *testing.T) {
	p := HDDParameter{RPM: 6000}
	assert.InDelta(t, 0.01, p.FullRotationTime(), 1e-12)
}

func TestCacheParameter_Validate(t *testing.T) {
	assert.EqualError(t, CacheParameter{Capacity: 0}.Validate(), "cache: capacity must be > 0, got 0")
	assert.EqualError(t, CacheParameter{Capacity: 1, Latency: -0.1}.Validate(), "cache: latency must be >= 0, got -0.1")
}

func TestPowerParameter_Validate(t *testing.T) {
	p := DefaultPowerParameter()
	p.SpinUpTime = math.Inf(1)
	assert.EqualError(t, p.Validate(), "power: spin_up_time must be finite, got +Inf")
}
