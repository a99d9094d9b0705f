package flow

import (
	"context"
	"fmt"

	"github.com/diewo77/qrsona/internal/apperr"
	"github.com/diewo77/qrsona/internal/models"
	"github.com/diewo77/qrsona/internal/relation"
	"github.com/diewo77/qrsona/internal/session"
)

// ExchangeState is the exchange page after a QR scan.
type ExchangeState struct {
	Scanned *models.Profile
	Form
}

// ExchangeFlow handles the page opened by scanning someone's QR code.
type ExchangeFlow struct {
	api        API
	session    session.Provider
	resolver   *relation.Resolver
	reconciler *relation.Reconciler
}

func NewExchangeFlow(api API, sess session.Provider, resolver *relation.Resolver, reconciler *relation.Reconciler) *ExchangeFlow {
	return &ExchangeFlow{api: api, session: sess, resolver: resolver, reconciler: reconciler}
}

// Load fetches the scanned profile and the viewer's profiles, selects
// the first of them and prefills the form from any existing connection.
func (f *ExchangeFlow) Load(ctx context.Context, scannedID uint) (*ExchangeState, error) {
	const op = "load exchange"
	user, err := currentUser(f.session, op)
	if err != nil {
		return nil, err
	}
	if scannedID == 0 {
		return nil, apperr.Validation(op, map[string]string{"profile_id": "required"})
	}

	mine, err := f.api.ListUserProfiles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: my profiles: %w", op, err)
	}
	scanned, err := f.api.GetProfile(ctx, scannedID)
	if err != nil {
		return nil, fmt.Errorf("%s: scanned profile: %w", op, err)
	}
	if scanned.UserID == user.ID {
		return nil, apperr.Validation(op, map[string]string{"profile_id": "self_connection"})
	}

	st := &ExchangeState{Scanned: scanned, Form: Form{Mine: mine}}
	if len(mine) == 0 {
		return st, ErrNoProfile
	}
	st.Selected = mine[0].ID
	if err := resolveInto(ctx, f.resolver, &st.Form, scanned.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// Select switches to another of the viewer's profiles and re-resolves.
func (f *ExchangeFlow) Select(ctx context.Context, st *ExchangeState, myProfileID uint) error {
	if !ownsProfile(st.Mine, myProfileID) {
		return apperr.Validation("select profile", map[string]string{"my_profile_id": "invalid_id"})
	}
	st.Selected = myProfileID
	return resolveInto(ctx, f.resolver, &st.Form, st.Scanned.ID)
}

// Submit creates both records for a new exchange, or updates the known
// record. The written id is cached in st.
func (f *ExchangeFlow) Submit(ctx context.Context, st *ExchangeState, meta models.EventMeta) (relation.Result, error) {
	if st.Selected == 0 {
		return relation.Result{}, ErrNoProfile
	}
	res, err := f.reconciler.Reconcile(ctx, st.Selected, st.Scanned.ID, meta, st.Outcome, relation.OriginExchange)
	if err != nil {
		return res, err
	}
	afterSubmit(&st.Form, res, st.Scanned.ID, meta)
	return res, nil
}
