package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"user-api/internal/models"

	"github.com/rs/zerolog/log"
)

// @Summary      Merge a user with a GitHub profile
// @Tags         external
// @Produce      json
// @Param        user_id   query     int     true   "Local user ID"
// @Param        username  query     string  false  "GitHub login"
// @Success      200       {object}  models.MergedProfile
// @Failure      400       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Failure      502       {object}  ErrorResponse
// @Router       /external-data [get]
func (s *Server) ExternalDataHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawID := strings.TrimSpace(q.Get("user_id"))
	if rawID == "" {
		writeError(w, r, models.NewValidationError("user_id", "is required"))
		return
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id < 1 {
		writeError(w, r, models.NewValidationError("user_id", "must be a positive integer"))
		return
	}

	merged, err := s.users.ExternalProfile(r.Context(), q.Get("username"), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, merged)
}

// @Summary      Cached user listing
// @Description  Full listing including the stored password hash, served from the response cache.
// @Tags         users
// @Produce      json
// @Success      200  {array}   models.CachedUser
// @Failure      500  {object}  ErrorResponse
// @Router       /cached-users [get]
func (s *Server) CachedUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, hit, err := s.users.CachedUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.observeCache(hit)
	}
	writeJSON(w, http.StatusOK, users)
}

// @Summary      Stream every user
// @Description  Newline delimited JSON, one {"id","name","email"} object per line.
// @Tags         users
// @Produce      x-ndjson
// @Success      200  {object}  models.StreamedUser
// @Router       /stream-data [get]
func (s *Server) StreamDataHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if err := s.users.StreamAllUsers(r.Context(), w); err != nil {
		// Headers are gone already; all that is left is to log it.
		if errors.Is(err, r.Context().Err()) {
			log.Debug().Str("request_id", requestID(r.Context())).Msg("stream client disconnected")
			return
		}
		log.Error().Err(err).Str("request_id", requestID(r.Context())).Msg("user stream aborted")
	}
}
