package api

import (
	"net/http"
	"strings"

	"user-api/internal/websocket"

	"github.com/rs/zerolog/log"
)

// @Summary      Live user change feed
// @Description  Upgrades to a websocket that receives user_created, user_updated and user_deleted events. The token is taken from the token query parameter or the Authorization header.
// @Tags         system
// @Param        token  query  string  false  "Bearer token"
// @Success      101  {string}  string  "Switching Protocols"
// @Failure      401  {object}  ErrorResponse
// @Router       /ws [get]
func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		tokenString = strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
	}
	if tokenString == "" {
		log.Debug().Msg("websocket connection attempt without token")
		writeErrorMessage(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	identity, err := s.tokens.Verify(tokenString)
	if err != nil {
		log.Debug().Err(err).Msg("websocket connection attempt with invalid token")
		writeError(w, r, err)
		return
	}

	conn, err := websocket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := websocket.NewClient(s.wsHub, conn, identity)
	if !s.wsHub.Attach(client) {
		log.Debug().Str("identity", identity).Msg("live feed is shutting down, closing websocket")
		conn.Close()
		return
	}

	go client.ReadPump()
	go client.WritePump()
}
