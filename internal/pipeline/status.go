package pipeline

import (
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/resper1965/DataFogScanner/internal/logger"
	"github.com/resper1965/DataFogScanner/internal/storage"
)

// Status instantâneo operacional do daemon, emitido no heartbeat
type Status struct {
	Hostname       string           `json:"hostname"`
	Platform       string           `json:"platform"`
	UptimeSeconds  int64            `json:"uptimeSeconds"`
	MemUsedPercent float64          `json:"memUsedPercent"`
	QueueDepth     int              `json:"queueDepth"`
	Jobs           map[string]int64 `json:"jobs"`
}

// StatusReporter coleta o estado do host e do pipeline
type StatusReporter struct {
	repo      *storage.Repository
	stores    *storage.Stores
	startedAt time.Time
}

// NewStatusReporter cria o coletor de status
func NewStatusReporter(repo *storage.Repository, stores *storage.Stores) *StatusReporter {
	return &StatusReporter{
		repo:      repo,
		stores:    stores,
		startedAt: time.Now(),
	}
}

// Snapshot monta o instantâneo atual
// Métricas de host ausentes viram valores zerados, nunca erro
func (r *StatusReporter) Snapshot() Status {
	status := Status{
		UptimeSeconds: int64(time.Since(r.startedAt).Seconds()),
		Jobs:          map[string]int64{},
	}

	if info, err := host.Info(); err == nil {
		status.Hostname = info.Hostname
		status.Platform = info.Platform + " " + info.PlatformVersion
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status.MemUsedPercent = vm.UsedPercent
	}

	if counts, err := r.repo.CountJobsByStatus(); err == nil {
		status.Jobs = counts
	}
	if r.stores != nil {
		if depth, err := r.stores.PendingFiles.Len(); err == nil {
			status.QueueDepth = depth
		}
	}

	return status
}

// Heartbeat registra o status em intervalos até o contexto encerrar
func (r *StatusReporter) Heartbeat(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s := r.Snapshot()
			logger.Info("Heartbeat",
				"hostname", s.Hostname,
				"uptime_s", s.UptimeSeconds,
				"mem_used_pct", s.MemUsedPercent,
				"queue_depth", s.QueueDepth,
				"jobs", s.Jobs,
			)
		}
	}
}
