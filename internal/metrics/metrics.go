// Package metrics records per-run statistics: files scanned, elapsed time
// and heap delta. Collectors are injected into the engine; a nil collector
// is treated as Nop.
package metrics

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Snapshot is the outcome of one run.
type Snapshot struct {
	FilesScanned int
	Findings     int
	Elapsed      time.Duration
	// MemDelta is the heap growth in bytes over the run; negative when the
	// heap shrank.
	MemDelta int64
}

// Collector receives run events from the engine.
type Collector interface {
	Start()
	FileScanned()
	Findings(n int)
	Finish() Snapshot
}

// Nop discards everything.
type Nop struct{}

func (Nop) Start()           {}
func (Nop) FileScanned()     {}
func (Nop) Findings(int)     {}
func (Nop) Finish() Snapshot { return Snapshot{} }

// Runtime measures wall clock and heap allocation using runtime.ReadMemStats.
type Runtime struct {
	files    atomic.Int64
	findings atomic.Int64
	started  time.Time
	heap     uint64
	now      func() time.Time
}

// NewRuntime returns a collector backed by the Go runtime.
func NewRuntime() *Runtime {
	return &Runtime{now: time.Now}
}

func (r *Runtime) Start() {
	r.files.Store(0)
	r.findings.Store(0)
	r.heap = heapAlloc()
	r.started = r.now()
}

func (r *Runtime) FileScanned() { r.files.Add(1) }

func (r *Runtime) Findings(n int) { r.findings.Add(int64(n)) }

func (r *Runtime) Finish() Snapshot {
	return Snapshot{
		FilesScanned: int(r.files.Load()),
		Findings:     int(r.findings.Load()),
		Elapsed:      r.now().Sub(r.started),
		MemDelta:     int64(heapAlloc()) - int64(r.heap),
	}
}

func heapAlloc() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}
