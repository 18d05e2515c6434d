package app

import (
	"context"
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/R3E-Network/modulith/internal/httputil"
	"github.com/R3E-Network/modulith/internal/plugin"
)

const healthCheckTimeout = 2 * time.Second

type memoryStats struct {
	TotalBytes  uint64  `json:"totalBytes"`
	UsedBytes   uint64  `json:"usedBytes"`
	UsedPercent float64 `json:"usedPercent"`
}

type healthResponse struct {
	Status  string            `json:"status"`
	Modules []plugin.Info     `json:"modules"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks,omitempty"`
	Memory  *memoryStats      `json:"memory,omitempty"`
}

// health reports loaded modules and the reachability of shared connections.
// Any failing check turns the response into 503.
func (a *Application) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := healthResponse{
		Status:  "healthy",
		Modules: plugin.Describe(a.modules),
		Uptime:  time.Since(a.startedAt).Round(time.Second).String(),
		Checks:  map[string]string{},
	}

	if a.db != nil {
		resp.Checks["database"] = checkResult(a.db.PingContext(ctx))
	}
	if a.redis != nil {
		resp.Checks["redis"] = checkResult(a.redis.Ping(ctx).Err())
	}
	for _, result := range resp.Checks {
		if result != "ok" {
			resp.Status = "unhealthy"
		}
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		resp.Memory = &memoryStats{TotalBytes: vm.Total, UsedBytes: vm.Used, UsedPercent: vm.UsedPercent}
	} else {
		a.log.WithContext(ctx).WithError(err).Debug("read memory stats")
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, resp)
}

func checkResult(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}
