package infrastructure

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// SystemStats holds a snapshot of the Go runtime
type SystemStats struct {
	GoRoutines    int64
	HeapAlloc     int64
	MemorySystem  int64
	GCCount       int64
	LastGCPause   time.Duration
	ProcessUptime time.Duration
}

// ReadSystemStats samples the runtime. startTime is when the process
// started serving.
func ReadSystemStats(startTime time.Time) SystemStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return SystemStats{
		GoRoutines:    int64(runtime.NumGoroutine()),
		HeapAlloc:     int64(mem.HeapAlloc),
		MemorySystem:  int64(mem.Sys),
		GCCount:       int64(mem.NumGC),
		LastGCPause:   time.Duration(mem.PauseNs[(mem.NumGC+255)%256]),
		ProcessUptime: time.Since(startTime),
	}
}

// RegisterSystemMetrics exposes runtime gauges on meter. Values are
// sampled once per collection, so there is no background goroutine. The
// returned registration must be unregistered on shutdown.
func RegisterSystemMetrics(meter metric.Meter, startTime time.Time) (metric.Registration, error) {
	goRoutines, err := meter.Int64ObservableGauge(
		"system_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64ObservableGauge(
		"system_memory_heap_bytes",
		metric.WithDescription("Heap memory in use in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	memorySystem, err := meter.Int64ObservableGauge(
		"system_memory_system_bytes",
		metric.WithDescription("Memory obtained from the OS in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64ObservableCounter(
		"system_gc_count_total",
		metric.WithDescription("Total number of garbage collections"),
	)
	if err != nil {
		return nil, err
	}

	uptime, err := meter.Float64ObservableGauge(
		"system_process_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := ReadSystemStats(startTime)
		o.ObserveInt64(goRoutines, stats.GoRoutines)
		o.ObserveInt64(heapAlloc, stats.HeapAlloc)
		o.ObserveInt64(memorySystem, stats.MemorySystem)
		o.ObserveInt64(gcCount, stats.GCCount)
		o.ObserveFloat64(uptime, stats.ProcessUptime.Seconds())
		return nil
	}, goRoutines, heapAlloc, memorySystem, gcCount, uptime)
	if err != nil {
		return nil, fmt.Errorf("failed to register system metrics: %w", err)
	}
	return reg, nil
}
