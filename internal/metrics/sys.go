package metrics

import (
	"runtime"
	"time"
)

// SysHealth is a point-in-time snapshot of process health, reported by the
// stats command.
type SysHealth struct {
	Uptime       time.Duration
	Goroutines   int
	HeapAllocMB  float64
	TotalAllocMB float64
	NumGC        uint32
}

var startTime = time.Now()

// SnapshotSysHealth captures the current process health.
func SnapshotSysHealth() SysHealth {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return SysHealth{
		Uptime:       time.Since(startTime).Round(time.Second),
		Goroutines:   runtime.NumGoroutine(),
		HeapAllocMB:  float64(mem.HeapAlloc) / (1024 * 1024),
		TotalAllocMB: float64(mem.TotalAlloc) / (1024 * 1024),
		NumGC:        mem.NumGC,
	}
}
