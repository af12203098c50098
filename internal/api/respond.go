package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"user-api/internal/auth"
	"user-api/internal/models"

	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error string `json:"error" example:"User not found."`
}

type MessageResponse struct {
	Message string `json:"message" example:"User deleted successfully"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to write response body")
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeError maps a domain error to its status code and a stable body.
// Server side failures are logged and answered without internal detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", requestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg("request failed")
	}
	writeErrorMessage(w, status, message)
}

func classify(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		var me *models.Error
		if errors.As(err, &me) && errors.Is(me.Kind, models.ErrValidation) {
			return http.StatusRequestEntityTooLarge, me.Message
		}
		return http.StatusRequestEntityTooLarge, "File too large"
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrUnsupportedMediaType):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrConstraintViolation):
		status = http.StatusConflict
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrExternalNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrExternalUnavailable):
		status = http.StatusBadGateway
	}

	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return status, ve.Error()
	}
	var me *models.Error
	if errors.As(err, &me) {
		return status, me.Message
	}

	switch {
	case errors.Is(err, models.ErrConstraintViolation):
		return status, "User with this email already exists"
	case errors.Is(err, auth.ErrExpiredToken):
		return status, "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return status, "Invalid token"
	case errors.Is(err, models.ErrExternalUnavailable):
		return status, "External service unavailable"
	case errors.Is(err, models.ErrUploadFailed):
		return status, "Upload failed"
	}
	if status >= http.StatusInternalServerError {
		return status, "Internal server error"
	}
	return status, http.StatusText(status)
}
