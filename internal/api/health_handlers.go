package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		log.Error().Err(err).Str("request_id", requestID(r.Context())).Msg("health check: database ping failed")
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Database: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
}
