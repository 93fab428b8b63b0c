package handler

import (
	"net/http"
	"runtime"
	"time"

	"flipops-dashboard/internal/poll"
	"flipops-dashboard/internal/querycache"
	"flipops-dashboard/pkg/apierror"
	"flipops-dashboard/pkg/response"
)

// AdminHandler exposes the dashboard's own internals: cache counters and a
// manual invalidation escape hatch for when a view looks wedged.
type AdminHandler struct {
	store     *querycache.Store
	poller    *poll.Poller
	cacheType string
	startTime time.Time
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(store *querycache.Store, poller *poll.Poller, cacheType string) *AdminHandler {
	return &AdminHandler{
		store:     store,
		poller:    poller,
		cacheType: cacheType,
		startTime: time.Now(),
	}
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]interface{})

	// System info
	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)

	// Memory stats
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":      float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":        float64(memStats.Sys) / 1024 / 1024,
		"heap_inuse_mb": float64(memStats.HeapInuse) / 1024 / 1024,
		"num_gc":        memStats.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}

	// Query cache counters
	stats["cache"] = map[string]interface{}{
		"type":  h.cacheType,
		"stats": h.store.Stats(),
	}

	if h.poller != nil {
		stats["poller"] = map[string]interface{}{
			"active": h.poller.Active(),
		}
	}

	// Runtime info
	stats["runtime"] = map[string]interface{}{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       runtime.NumCPU(),
	}

	response.OK(w, stats)
}

// InvalidateRequest selects cache entries to flush. Patterns ending in '*'
// match by prefix; an empty request clears everything.
type InvalidateRequest struct {
	Patterns []string `json:"patterns"`
}

// InvalidateCache handles POST /api/v1/admin/cache/invalidate
func (h *AdminHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	var req InvalidateRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	if len(req.Patterns) == 0 {
		if err := h.store.Clear(r.Context()); err != nil {
			response.Error(w, apierror.InternalError("failed to clear cache"))
			return
		}
		response.OK(w, map[string]interface{}{"cleared": true})
		return
	}

	h.store.Invalidate(r.Context(), req.Patterns...)
	response.OK(w, map[string]interface{}{
		"invalidated": len(req.Patterns),
	})
}
