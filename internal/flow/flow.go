// Package flow wires the resolver, reconciler and access gate into the
// three user journeys of QRsona: the scan-triggered exchange, the
// profile-detail friend form, and QR link handling.
package flow

import (
	"context"
	"errors"

	"github.com/diewo77/qrsona/internal/apperr"
	"github.com/diewo77/qrsona/internal/models"
	"github.com/diewo77/qrsona/internal/relation"
	"github.com/diewo77/qrsona/internal/session"
)

// API is the slice of the REST client the flows need.
type API interface {
	relation.Directory
	relation.Writer
	GetProfile(ctx context.Context, id uint) (*models.Profile, error)
	ListUserProfiles(ctx context.Context, userID uint) ([]models.Profile, error)
}

// ErrNoProfile means the signed-in user owns no profile to connect from.
var ErrNoProfile = errors.New("no profile to connect from")

// Form is the state of a friend add/edit form.
type Form struct {
	// Mine lists the viewer's profiles; Selected is one of their ids.
	Mine     []models.Profile
	Selected uint
	// Outcome is the relationship between Selected and the target profile.
	Outcome relation.Outcome
	// Meta is prefilled from the matched connection, empty otherwise.
	Meta models.EventMeta
}

// Editing reports whether submitting will update an existing record.
func (f *Form) Editing() bool { return f.Outcome.Found() }

// currentUser returns the signed-in user or an auth error.
func currentUser(sess session.Provider, op string) (*session.User, error) {
	if sess == nil {
		return nil, apperr.Auth(op, "not signed in")
	}
	u, ok := sess.User()
	if !ok || u.ID == 0 {
		return nil, apperr.Auth(op, "not signed in")
	}
	return u, nil
}

// resolveInto runs the resolver for the selected profile and fills the
// form. A None outcome resets the metadata.
func resolveInto(ctx context.Context, r *relation.Resolver, f *Form, target uint) error {
	out, err := r.Resolve(ctx, f.Selected, target)
	if err != nil {
		return err
	}
	f.Outcome = out
	f.Meta = models.EventMeta{}
	if out.Connection != nil {
		f.Meta = out.Connection.Meta()
	}
	return nil
}

func ownsProfile(mine []models.Profile, id uint) bool {
	for _, p := range mine {
		if p.ID == id {
			return true
		}
	}
	return false
}

// afterSubmit caches the written id so the next submit updates it
// without resolving again.
func afterSubmit(f *Form, res relation.Result, target uint, meta models.EventMeta) {
	f.Meta = meta
	if res.Status == relation.Updated {
		return
	}
	f.Outcome = relation.Outcome{
		Direction:    relation.Forward,
		ConnectionID: res.ConnectionID,
		Connection: &models.Connection{
			ID:                   res.ConnectionID,
			ProfileID:            f.Selected,
			ConnectUserProfileID: target,
			EventName:            meta.EventName,
			EventDate:            meta.EventDate,
			Memo:                 meta.Memo,
		},
	}
}
