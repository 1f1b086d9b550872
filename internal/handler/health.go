package handler

import (
	"net/http"
	"time"

	"github.com/femtrack/forum/internal/api"
	"github.com/femtrack/forum/internal/utils"
)

// Health is the liveness probe the failover client resolves candidate bases
// against. The explicit ok flag distinguishes this API from an unrelated
// server that happens to answer 200 on /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, api.HealthResponse{
		Ok:      true,
		Service: ServiceName,
		Now:     time.Now().UTC(),
	})
}
