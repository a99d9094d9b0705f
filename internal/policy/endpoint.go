package policy

import (
	"context"
	"log/slog"

	"github.com/diewo77/qrsona/gate"
)

// ResourceConnection is the gate resource type for directed connections.
const ResourceConnection = "connection"

// Endpoints is implemented by connection records and create requests.
type Endpoints interface {
	Endpoints() (source, target uint)
}

// OwnerLookup returns the user owning a profile.
type OwnerLookup interface {
	OwnerOf(ctx context.Context, profileID uint) (uint, error)
}

// EndpointPolicy allows any action on a connection to the owner of either
// of its profiles. Mirror records and reverse-direction updates are written
// by the target's owner, so the source alone is not enough.
type EndpointPolicy struct {
	owners OwnerLookup
	logger *slog.Logger
}

func NewEndpointPolicy(owners OwnerLookup, logger *slog.Logger) *EndpointPolicy {
	if logger == nil {
		logger = slog.Default()
	}
	return &EndpointPolicy{owners: owners, logger: logger}
}

func (p *EndpointPolicy) Can(ctx context.Context, userID uint, action gate.Action, resource any) bool {
	ep, ok := resource.(Endpoints)
	if !ok {
		return false
	}
	source, target := ep.Endpoints()
	for _, id := range []uint{source, target} {
		owner, err := p.owners.OwnerOf(ctx, id)
		if err != nil {
			p.logger.Debug("owner lookup failed", "profile_id", id, "action", action, "err", err)
			continue
		}
		if owner == userID {
			return true
		}
	}
	return false
}
