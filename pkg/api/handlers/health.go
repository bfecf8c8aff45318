package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/janwilmake/cloudflare-fs/pkg/vfs/router"
)

// healthCheckTimeout bounds the database pings behind GET /health/shards.
const healthCheckTimeout = 5 * time.Second

// HealthHandler serves the unauthenticated health endpoints: a liveness
// probe, a readiness probe, and a per-shard database health report.
type HealthHandler struct {
	shards *router.Registry
}

// NewHealthHandler creates a health handler. A nil registry makes the
// readiness and shard probes report unhealthy.
func NewHealthHandler(shards *router.Registry) *HealthHandler {
	return &HealthHandler{shards: shards}
}

// Liveness handles GET /health. It succeeds whenever the HTTP server is
// responsive, which is what a Kubernetes liveness probe wants to know.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "cfs",
	}))
}

// Readiness handles GET /health/ready. Shards open lazily on first
// access, so an initialized registry with zero open shards is ready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.shards == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("shard registry not initialized", nil))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(map[string]interface{}{
		"open_shards": len(h.shards.ShardIDs()),
	}))
}

// ShardHealth is the probe result for one shard store.
type ShardHealth struct {
	Shard   string `json:"shard"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// ShardsResponse is the body of the detailed shard health report.
type ShardsResponse struct {
	Shards []ShardHealth `json:"shards"`
}

// Shards handles GET /health/shards: one database ping per open shard.
// The response is 200 only when every shard answers.
func (h *HealthHandler) Shards(w http.ResponseWriter, r *http.Request) {
	if h.shards == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("shard registry not initialized", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := ShardsResponse{Shards: make([]ShardHealth, 0)}
	allHealthy := true

	for _, id := range h.shards.ShardIDs() {
		health := h.probeShard(ctx, id)
		if health.Status != "healthy" {
			allHealthy = false
		}
		resp.Shards = append(resp.Shards, health)
	}

	if allHealthy {
		writeJSON(w, http.StatusOK, healthyResponse(resp))
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("one or more shards unhealthy", resp))
}

func (h *HealthHandler) probeShard(ctx context.Context, id string) ShardHealth {
	s, err := h.shards.Handle(ctx, id)
	if err != nil {
		return ShardHealth{Shard: id, Status: "unhealthy", Error: err.Error()}
	}

	start := time.Now()
	err = s.Healthcheck(ctx)

	health := ShardHealth{
		Shard:   id,
		Status:  "healthy",
		Latency: time.Since(start).String(),
	}
	if err != nil {
		health.Status = "unhealthy"
		health.Error = err.Error()
	}
	return health
}
