package workers

import (
	"context"
	"kerek/observability"
	"kerek/runtime"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

type RegistryStats interface {
	Stats() runtime.Stats
}

type OnlineCounter interface {
	OnlineCount() int
}

// TelemetryWorker samples the registry, the presence authority and the relay
// process every metricInterval and publishes them as prometheus gauges.
type TelemetryWorker struct {
	log            *slog.Logger
	metricInterval time.Duration
	registry       RegistryStats
	presence       OnlineCounter
}

func NewTelemetryWorker(log *slog.Logger,
	metricInterval time.Duration,
	registry RegistryStats,
	presence OnlineCounter) *TelemetryWorker {
	return &TelemetryWorker{
		log:            log,
		metricInterval: metricInterval,
		registry:       registry,
		presence:       presence,
	}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			w.sample()
			if err := sampleProcess(p); err != nil {
				w.log.Error("Failed to collect self stats", "error", err)
			}
		}
	}
}

func (w *TelemetryWorker) sample() {
	stats := w.registry.Stats()
	observability.Rooms.Set(float64(stats.Rooms))
	observability.Channels.Set(float64(stats.Channels))
	observability.PendingMessages.Set(float64(stats.Pending))
	observability.OnlineUsers.Set(float64(w.presence.OnlineCount()))
}

func sampleProcess(p *process.Process) error {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return err
	}
	observability.ProcessRSSBytes.Set(float64(memInfo.RSS))
	observability.ProcessCPUPercent.Set(cpuPercent)
	return nil
}
