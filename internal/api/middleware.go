package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type contextKey string

const identityContextKey = contextKey("identity")

// AuthMiddleware requires "Authorization: Bearer <token>" and stores the
// token's identity in the request context.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeErrorMessage(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		headerParts := strings.Fields(authHeader)
		if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "Bearer") {
			writeErrorMessage(w, http.StatusUnauthorized, "Invalid Authorization header format")
			return
		}

		identity, err := s.tokens.Verify(headerParts[1])
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetIdentityFromContext(ctx context.Context) string {
	if identity, ok := ctx.Value(identityContextKey).(string); ok {
		return identity
	}
	return ""
}

// RequestIDMiddleware honours an incoming X-Request-ID and otherwise
// generates a UUID, exposing it through chi's middleware.GetReqID.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestID(ctx context.Context) string {
	return middleware.GetReqID(ctx)
}

// RequestLogger writes one structured access log line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Warn()
		}
		event.
			Str("request_id", requestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("http request")
	})
}
