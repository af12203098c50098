package api

import (
	"context"

	"user-api/internal/auth"
	"user-api/internal/config"
	"user-api/internal/service"
	"user-api/internal/websocket"
)

// Pinger reports whether the backing database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	config  *config.Config
	users   *service.UserService
	tokens  *auth.TokenIssuer
	db      Pinger
	wsHub   *websocket.Hub
	metrics *Metrics
}

func NewServer(cfg *config.Config, users *service.UserService, tokens *auth.TokenIssuer, db Pinger, wsHub *websocket.Hub, metrics *Metrics) *Server {
	return &Server{
		config:  cfg,
		users:   users,
		tokens:  tokens,
		db:      db,
		wsHub:   wsHub,
		metrics: metrics,
	}
}
