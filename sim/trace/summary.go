package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Drains            int
	DrainedBlocks     int
	DrainSpinUps      int
	ProactiveSpinUps  int
	Reads             int
	CacheHits         int
	DiskReads         map[int]int // disk ID → reads served
	StandbyDiskReads  int         // reads that had to wake a disk
	MeanDrainResponse float64
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{DiskReads: make(map[int]int)}
	if st == nil {
		return summary
	}

	summary.Drains = len(st.Drains)
	total := 0.0
	for _, d := range st.Drains {
		summary.DrainedBlocks += d.Blocks
		if d.SpinUp {
			summary.DrainSpinUps++
		}
		total += d.ResponseTime
	}
	if len(st.Drains) > 0 {
		summary.MeanDrainResponse = total / float64(len(st.Drains))
	}

	summary.ProactiveSpinUps = len(st.SpinUps)

	summary.Reads = len(st.Reads)
	for _, r := range st.Reads {
		if r.CacheHit {
			summary.CacheHits++
			continue
		}
		summary.DiskReads[r.DiskID]++
		if r.DiskState == "standby" {
			summary.StandbyDiskReads++
		}
	}
	return summary
}
