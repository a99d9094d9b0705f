package flow

import (
	"context"
	"fmt"

	"github.com/diewo77/qrsona/gate"
	"github.com/diewo77/qrsona/internal/models"
	"github.com/diewo77/qrsona/internal/policy"
	"github.com/diewo77/qrsona/internal/relation"
	"github.com/diewo77/qrsona/internal/session"
)

// ProfileState is the profile detail page.
type ProfileState struct {
	Profile *models.Profile
	Owner   bool
	// Form is nil for the owner and when the viewer has no profile.
	Form *Form
}

// ProfileFlow handles the profile detail page and its friend form.
type ProfileFlow struct {
	api        API
	session    session.Provider
	gate       *policy.AccessGate
	resolver   *relation.Resolver
	reconciler *relation.Reconciler
}

func NewProfileFlow(api API, sess session.Provider, g *policy.AccessGate, resolver *relation.Resolver, reconciler *relation.Reconciler) *ProfileFlow {
	return &ProfileFlow{api: api, session: sess, gate: g, resolver: resolver, reconciler: reconciler}
}

// Load fetches the profile and checks access. policy.ErrAccessDenied is
// returned, with the profile, when the viewer may not see it.
func (f *ProfileFlow) Load(ctx context.Context, profileID uint) (*ProfileState, error) {
	const op = "load profile"
	user, err := currentUser(f.session, op)
	if err != nil {
		return nil, err
	}
	p, err := f.api.GetProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// The gate resolves mine[0] first; the form below reuses that answer.
	ctx = relation.WithMemo(ctx)
	st := &ProfileState{Profile: p, Owner: p.UserID == user.ID}
	if err := f.gate.AuthorizeView(ctx, user.ID, p); err != nil {
		return st, err
	}
	if st.Owner {
		return st, nil
	}

	mine, err := f.api.ListUserProfiles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: my profiles: %w", op, err)
	}
	if len(mine) == 0 {
		return st, nil
	}
	form := &Form{Mine: mine, Selected: mine[0].ID}
	if err := resolveInto(ctx, f.resolver, form, p.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	st.Form = form
	return st, nil
}

// Select switches the friend form to another of the viewer's profiles.
func (f *ProfileFlow) Select(ctx context.Context, st *ProfileState, myProfileID uint) error {
	if st.Form == nil || !ownsProfile(st.Form.Mine, myProfileID) {
		return ErrNoProfile
	}
	st.Form.Selected = myProfileID
	return resolveInto(ctx, f.resolver, st.Form, st.Profile.ID)
}

// SubmitFriend adds the profile as a friend without a mirror record, or
// updates the existing connection in whichever direction it was found.
func (f *ProfileFlow) SubmitFriend(ctx context.Context, st *ProfileState, meta models.EventMeta) (relation.Result, error) {
	if st.Form == nil || st.Form.Selected == 0 {
		return relation.Result{}, ErrNoProfile
	}
	user, err := currentUser(f.session, "add friend")
	if err != nil {
		return relation.Result{}, err
	}
	if err := f.gate.Authorize(ctx, user.ID, gate.ActionConnect, st.Profile); err != nil {
		return relation.Result{}, err
	}
	res, err := f.reconciler.Reconcile(ctx, st.Form.Selected, st.Profile.ID, meta, st.Form.Outcome, relation.OriginDirectAdd)
	if err != nil {
		return res, err
	}
	afterSubmit(st.Form, res, st.Profile.ID, meta)
	return res, nil
}
