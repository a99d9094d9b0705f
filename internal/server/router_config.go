package server

import (
	"log/slog"

	"github.com/diewo77/qrsona/auth"
	"github.com/diewo77/qrsona/gate"
	"github.com/diewo77/qrsona/internal/handlers"
	"github.com/diewo77/qrsona/internal/policy"
	"github.com/diewo77/qrsona/internal/services"
	"gorm.io/gorm"
)

// RouterConfig holds configured handlers, services and the authorization
// gate of the reference server.
type RouterConfig struct {
	// Gate decides profile and connection writes.
	Gate *gate.Gate[uint]

	Tokens *auth.Manager

	AuthHandler       *handlers.AuthHandler
	ConnectionHandler *handlers.ConnectionHandler
	ProfileHandler    *handlers.ProfileHandler

	Connections *services.ConnectionService
	Profiles    *services.ProfileService
}

// NewRouterConfig wires the gate, its policies, services and handlers.
//
// Profiles are writable by their owner only. Connections are writable by
// the owner of either endpoint, which covers mirror records and updates of
// a reverse-direction record.
func NewRouterConfig(db *gorm.DB, tokens *auth.Manager, logger *slog.Logger) *RouterConfig {
	if logger == nil {
		logger = slog.Default()
	}
	profiles := services.NewProfileService(db)
	connections := services.NewConnectionService(db)

	g := gate.NewGate[uint]()
	g.Register(policy.ResourceProfile, policy.NewOwnershipPolicy())
	g.Register(policy.ResourceConnection, policy.NewEndpointPolicy(profiles, logger))

	return &RouterConfig{
		Gate:              g,
		Tokens:            tokens,
		AuthHandler:       handlers.NewAuthHandler(db, tokens, logger),
		ConnectionHandler: handlers.NewConnectionHandler(connections, g),
		ProfileHandler:    handlers.NewProfileHandler(profiles, g),
		Connections:       connections,
		Profiles:          profiles,
	}
}
