package array

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"gonum.org/v1/gonum/stat"

	"github.com/raposda-sim/raposda-sim/sim/power"
)

// Distribution summarizes a set of response times in seconds.
type Distribution struct {
	Count int
	Mean  float64
	P50   float64
	P99   float64
	Max   float64
}

// NewDistribution computes a Distribution from raw values. Empty input gives
// the zero value.
func NewDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return Distribution{
		Count: len(sorted),
		Mean:  stat.Mean(sorted, nil),
		P50:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P99:   stat.Quantile(0.99, stat.Empirical, sorted, nil),
		Max:   sorted[len(sorted)-1],
	}
}

// DiskMetrics is one disk's share of the run.
type DiskMetrics struct {
	ID            int
	Reads         int // blocks read on cache misses
	Drains        int
	DrainedBlocks int
	BusyUntil     float64
	Power         power.Stats
}

// Metrics aggregates a whole run.
type Metrics struct {
	Reads            int
	Writes           int
	CacheHits        int
	Drains           int
	DrainedBlocks    int
	ProactiveSpinUps int
	SimEndedTime     float64

	ReadLatencies  []float64
	WriteLatencies []float64
	DrainLatencies []float64

	Disks []DiskMetrics
}

func newMetrics(disks int) *Metrics {
	m := &Metrics{Disks: make([]DiskMetrics, disks)}
	for i := range m.Disks {
		m.Disks[i].ID = i
	}
	return m
}

func (m *Metrics) recordWrite(response float64) {
	m.Writes++
	m.WriteLatencies = append(m.WriteLatencies, response)
}

func (m *Metrics) recordRead(response float64, hit bool) {
	m.Reads++
	if hit {
		m.CacheHits++
	}
	m.ReadLatencies = append(m.ReadLatencies, response)
}

func (m *Metrics) recordDrain(disk, blocks int, response float64) {
	m.Drains++
	m.DrainedBlocks += blocks
	m.DrainLatencies = append(m.DrainLatencies, response)
	m.Disks[disk].Drains++
	m.Disks[disk].DrainedBlocks += blocks
}

// finish closes the books at the later of the clock and the last disk
// completion, so outstanding disk work is charged as active time.
func (m *Metrics) finish(s *Simulator) {
	end := s.Clock
	for _, d := range s.disks {
		end = max(end, d.BusyUntil())
	}
	m.SimEndedTime = end
	for i, d := range s.disks {
		m.Disks[i].BusyUntil = d.BusyUntil()
		m.Disks[i].Power = s.power[i].Stats(end, d.BusyUntil())
	}
}

// HitRatio returns the fraction of reads served from cache.
func (m *Metrics) HitRatio() float64 {
	if m.Reads == 0 {
		return 0
	}
	return float64(m.CacheHits) / float64(m.Reads)
}

// TotalPower sums the per-disk power stats.
func (m *Metrics) TotalPower() power.Stats {
	var total power.Stats
	for _, d := range m.Disks {
		total.SpinUps += d.Power.SpinUps
		total.SpinDowns += d.Power.SpinDowns
		total.StandbyTime += d.Power.StandbyTime
		total.Energy += d.Power.Energy
	}
	return total
}

// Print writes a human-readable report.
func (m *Metrics) Print(w io.Writer) {
	heading := color.New(color.FgCyan, color.Bold)

	_, _ = heading.Fprintln(w, "=== Requests ===")
	fmt.Fprintf(w, "Simulation ended  : %.6f s\n", m.SimEndedTime)
	fmt.Fprintf(w, "Writes            : %d\n", m.Writes)
	fmt.Fprintf(w, "Reads             : %d (cache hits %d, %.1f%%)\n", m.Reads, m.CacheHits, 100*m.HitRatio())
	printDistribution(w, "Write response", NewDistribution(m.WriteLatencies))
	printDistribution(w, "Read response", NewDistribution(m.ReadLatencies))

	_, _ = heading.Fprintln(w, "=== Drains ===")
	fmt.Fprintf(w, "Drains            : %d (%d blocks)\n", m.Drains, m.DrainedBlocks)
	fmt.Fprintf(w, "Proactive spin-ups: %d\n", m.ProactiveSpinUps)
	printDistribution(w, "Drain response", NewDistribution(m.DrainLatencies))

	_, _ = heading.Fprintln(w, "=== Disks ===")
	for _, d := range m.Disks {
		fmt.Fprintf(w, "disk %-3d reads=%-6d drains=%-6d blocks=%-6d spin-ups=%-4d standby=%.3fs energy=%.1fJ\n",
			d.ID, d.Reads, d.Drains, d.DrainedBlocks, d.Power.SpinUps, d.Power.StandbyTime, d.Power.Energy)
	}
	total := m.TotalPower()
	fmt.Fprintf(w, "Total energy      : %.1f J (%d spin-ups, %.3f s standby)\n",
		total.Energy, total.SpinUps, total.StandbyTime)
}

func printDistribution(w io.Writer, name string, d Distribution) {
	if d.Count == 0 {
		return
	}
	fmt.Fprintf(w, "%-18s: mean %.6f s, p50 %.6f s, p99 %.6f s, max %.6f s\n", name, d.Mean, d.P50, d.P99, d.Max)
}
