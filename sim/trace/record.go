// Package trace provides decision-trace recording for array-level analysis.
// This package has no dependencies on sim/ sub-packages; it stores pure data types.
package trace

// DrainRecord captures one flush of overflowed cache blocks to a data disk.
type DrainRecord struct {
	Clock        float64
	CacheNode    int
	DiskID       int
	Blocks       int     // blocks written in the batch
	SpinUp       bool    // the disk was in standby when the batch arrived
	ResponseTime float64 // batch response including any spin-up
}

// SpinUpRecord captures an out-of-band wake-up of a standby disk.
type SpinUpRecord struct {
	Clock   float64
	DiskID  int
	Latency float64
	Reason  string
}

// ReadRecord captures where a read was served from.
type ReadRecord struct {
	RequestID    int
	Clock        float64
	CacheHit     bool
	DiskID       int // -1 on a cache hit
	ReplicaLevel int // level that served the read
	DiskState    string
	ResponseTime float64
}
