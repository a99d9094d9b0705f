package policy

import (
	"context"
	"errors"
	"log/slog"

	"github.com/diewo77/qrsona/gate"
	"github.com/diewo77/qrsona/internal/models"
	"github.com/diewo77/qrsona/internal/relation"
)

// ResourceProfile is the gate resource type for profiles.
const ResourceProfile = "profile"

// ErrAccessDenied means the profile exists but the viewer is neither its
// owner nor connected to it. It is distinct from a not-found error.
var ErrAccessDenied = errors.New("access denied: not connected to this profile")

// ProfileLister returns the profiles owned by a user.
type ProfileLister interface {
	ListUserProfiles(ctx context.Context, userID uint) ([]models.Profile, error)
}

// RelationResolver is satisfied by *relation.Resolver.
type RelationResolver interface {
	Resolve(ctx context.Context, my, their uint) (relation.Outcome, error)
}

// ConnectionPolicy lets a non-owner view a profile when one of the
// viewer's profiles is connected to it in either direction. Any failure
// counts as "not connected".
type ConnectionPolicy struct {
	profiles ProfileLister
	resolver RelationResolver
	logger   *slog.Logger
}

func NewConnectionPolicy(profiles ProfileLister, resolver RelationResolver, logger *slog.Logger) *ConnectionPolicy {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConnectionPolicy{profiles: profiles, resolver: resolver, logger: logger}
}

func (p *ConnectionPolicy) Can(ctx context.Context, viewer uint, action gate.Action, resource any) bool {
	profile, ok := resource.(*models.Profile)
	if !ok || profile == nil {
		return false
	}
	switch action {
	case gate.ActionConnect:
		// Anyone signed in may connect to a profile they do not own.
		return profile.UserID != viewer
	case gate.ActionView:
		return p.connected(ctx, viewer, profile.ID)
	default:
		return false
	}
}

func (p *ConnectionPolicy) connected(ctx context.Context, viewer, profileID uint) bool {
	mine, err := p.profiles.ListUserProfiles(ctx, viewer)
	if err != nil {
		p.logger.WarnContext(ctx, "access check: cannot list viewer profiles", "viewer_id", viewer, "error", err)
		return false
	}
	for _, vp := range mine {
		if vp.ID == profileID {
			continue
		}
		out, err := p.resolver.Resolve(ctx, vp.ID, profileID)
		if err != nil {
			p.logger.WarnContext(ctx, "access check: resolution failed",
				"viewer_profile_id", vp.ID, "profile_id", profileID, "error", err)
			continue
		}
		if out.Found() {
			return true
		}
	}
	return false
}

// AccessGate decides whether a user may open a profile's detail page.
// Decisions are recomputed on every call.
type AccessGate struct {
	gate *gate.Gate[uint]
}

// NewAccessGate registers owner-or-connected rules for profiles. Update
// and delete stay owner-only. Connecting is decided by the connection
// policy alone, so an owner cannot connect to their own profile.
func NewAccessGate(profiles ProfileLister, resolver RelationResolver, logger *slog.Logger) *AccessGate {
	connection := NewConnectionPolicy(profiles, resolver, logger)
	ownerOrConnected := gate.AnyOf[uint](NewOwnershipPolicy(), connection)
	g := gate.NewGate[uint]()
	g.Register(ResourceProfile, gate.PolicyFunc[uint](func(ctx context.Context, viewer uint, action gate.Action, resource any) bool {
		if action == gate.ActionConnect {
			return connection.Can(ctx, viewer, action, resource)
		}
		return ownerOrConnected.Can(ctx, viewer, action, resource)
	}))
	return &AccessGate{gate: g}
}

// CanView reports whether viewer may see profile.
func (a *AccessGate) CanView(ctx context.Context, viewer uint, profile *models.Profile) bool {
	return a.AuthorizeView(ctx, viewer, profile) == nil
}

// AuthorizeView returns nil, gate.ErrUnauthorized for a zero viewer, or
// ErrAccessDenied.
func (a *AccessGate) AuthorizeView(ctx context.Context, viewer uint, profile *models.Profile) error {
	return a.Authorize(ctx, viewer, gate.ActionView, profile)
}

// Authorize checks any action on profile, mapping a refusal to
// ErrAccessDenied.
func (a *AccessGate) Authorize(ctx context.Context, viewer uint, action gate.Action, profile *models.Profile) error {
	if profile == nil {
		return ErrAccessDenied
	}
	err := a.gate.Authorize(ctx, viewer, action, ResourceProfile, profile)
	if errors.Is(err, gate.ErrForbidden) {
		return ErrAccessDenied
	}
	return err
}
