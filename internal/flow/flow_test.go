package flow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/diewo77/qrsona/internal/apperr"
	"github.com/diewo77/qrsona/internal/flow"
	"github.com/diewo77/qrsona/internal/models"
	"github.com/diewo77/qrsona/internal/policy"
	"github.com/diewo77/qrsona/internal/relation"
	"github.com/diewo77/qrsona/internal/relation/relationtest"
	"github.com/diewo77/qrsona/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves profiles from memory and connections from a relationtest
// directory.
type fakeAPI struct {
	*relationtest.Directory
	profiles map[uint]models.Profile
}

func (f *fakeAPI) GetProfile(_ context.Context, id uint) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, apperr.Status("get profile", 404, "profile not found")
	}
	return &p, nil
}

func (f *fakeAPI) ListUserProfiles(_ context.Context, userID uint) ([]models.Profile, error) {
	out := []models.Profile{}
	for _, id := range []uint{11, 12, 21, 31} {
		if p, ok := f.profiles[id]; ok && p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type world struct {
	api      *fakeAPI
	resolver *relation.Resolver
	rec      *relation.Reconciler
	gate     *policy.AccessGate
}

// newWorld: user 1 owns profiles 11 and 12, user 2 owns 21, user 3 owns 31,
// user 4 owns nothing.
func newWorld() *world {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := &fakeAPI{
		Directory: relationtest.New(),
		profiles: map[uint]models.Profile{
			11: {ID: 11, UserID: 1, DisplayName: "Hanako"},
			12: {ID: 12, UserID: 1, DisplayName: "Hanako (work)"},
			21: {ID: 21, UserID: 2, DisplayName: "Taro"},
			31: {ID: 31, UserID: 3, DisplayName: "Jiro"},
		},
	}
	resolver := relation.NewResolver(api, relation.WithLogger(logger))
	return &world{
		api:      api,
		resolver: resolver,
		rec:      relation.NewReconciler(api, logger),
		gate:     policy.NewAccessGate(api, resolver, logger),
	}
}

func signedIn(id uint) session.Provider {
	return session.NewMemory(&session.User{ID: id}, "tok")
}

func (w *world) exchange(user uint) *flow.ExchangeFlow {
	return flow.NewExchangeFlow(w.api, signedIn(user), w.resolver, w.rec)
}

func (w *world) profile(user uint) *flow.ProfileFlow {
	return flow.NewProfileFlow(w.api, signedIn(user), w.gate, w.resolver, w.rec)
}

func TestExchange_NewThenEdit(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	ex := w.exchange(2)

	st, err := ex.Load(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, uint(21), st.Selected)
	assert.False(t, st.Editing())
	assert.True(t, st.Meta.IsZero())

	meta := models.EventMeta{EventName: "GopherCon", EventDate: "2024-06-01"}
	res, err := ex.Submit(ctx, st, meta)
	require.NoError(t, err)
	assert.Equal(t, relation.BothCreated, res.Status)
	assert.Equal(t, 2, w.api.Len())
	assert.True(t, st.Editing(), "the new id is cached")
	assert.Equal(t, res.ConnectionID, st.Outcome.ConnectionID)

	w.api.ResetCalls()
	res, err = ex.Submit(ctx, st, models.EventMeta{Memo: "second time"})
	require.NoError(t, err)
	assert.Equal(t, relation.Updated, res.Status)
	assert.Empty(t, w.api.Lists, "cached id needs no re-resolution")
	assert.Empty(t, w.api.Creates)
	assert.Equal(t, 2, w.api.Len())

	// Reloading prefills from the stored record.
	again, err := ex.Load(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, "second time", again.Meta.Memo)
}

func TestExchange_SelectReResolvesAndResets(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	w.api.Seed(11, 21, models.EventMeta{EventName: "met"})
	ex := w.exchange(1)

	st, err := ex.Load(ctx, 21)
	require.NoError(t, err)
	require.Equal(t, uint(11), st.Selected)
	assert.Equal(t, relation.Forward, st.Outcome.Direction)
	assert.Equal(t, "met", st.Meta.EventName)

	require.NoError(t, ex.Select(ctx, st, 12))
	assert.Equal(t, relation.None, st.Outcome.Direction)
	assert.True(t, st.Meta.IsZero(), "form resets for a new relationship")

	err = ex.Select(ctx, st, 21)
	assert.True(t, apperr.Is(err, apperr.KindValidation), "cannot select someone else's profile")
}

func TestExchange_Preconditions(t *testing.T) {
	ctx := context.Background()
	w := newWorld()

	_, err := flow.NewExchangeFlow(w.api, session.NewMemory(nil, ""), w.resolver, w.rec).Load(ctx, 11)
	assert.True(t, apperr.Is(err, apperr.KindAuth))

	_, err = w.exchange(1).Load(ctx, 12)
	assert.True(t, apperr.Is(err, apperr.KindValidation), "own profile")

	_, err = w.exchange(1).Load(ctx, 99)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	st, err := w.exchange(4).Load(ctx, 11)
	assert.ErrorIs(t, err, flow.ErrNoProfile)
	require.NotNil(t, st)
	assert.Equal(t, uint(11), st.Scanned.ID)
}

func TestExchange_MirrorFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	w.api.CreateErr = func(req models.CreateConnectionRequest) error {
		if req.ProfileID == 11 {
			return apperr.Network("create connection", errors.New("timeout"))
		}
		return nil
	}
	ex := w.exchange(2)
	st, err := ex.Load(ctx, 11)
	require.NoError(t, err)

	res, err := ex.Submit(ctx, st, models.EventMeta{})
	require.NoError(t, err)
	assert.Equal(t, relation.ForwardOnly, res.Status)
	assert.Error(t, res.MirrorErr)
}

func TestProfile_OwnerHasNoForm(t *testing.T) {
	st, err := newWorld().profile(1).Load(context.Background(), 11)
	require.NoError(t, err)
	assert.True(t, st.Owner)
	assert.Nil(t, st.Form)
}

func TestProfile_StrangerDenied(t *testing.T) {
	st, err := newWorld().profile(3).Load(context.Background(), 11)
	assert.ErrorIs(t, err, policy.ErrAccessDenied)
	require.NotNil(t, st, "the profile exists, access is refused")
	assert.False(t, st.Owner)
}

func TestProfile_ReversePrefillAndOneSidedEdit(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	// Taro added Hanako from her QR code but the mirror was never written.
	theirs := w.api.Seed(21, 11, models.EventMeta{EventName: "meetup", Memo: "from Taro"})

	pf := w.profile(1)
	st, err := pf.Load(ctx, 21)
	require.NoError(t, err)
	require.NotNil(t, st.Form)
	assert.Equal(t, relation.Reverse, st.Form.Outcome.Direction)
	assert.Equal(t, "from Taro", st.Form.Meta.Memo)

	res, err := pf.SubmitFriend(ctx, st, models.EventMeta{EventName: "meetup", Memo: "edited by Hanako"})
	require.NoError(t, err)
	assert.Equal(t, relation.Updated, res.Status)
	assert.Equal(t, theirs, res.ConnectionID)
	assert.Equal(t, 1, w.api.Len(), "editing never creates the opposite record")
}

func TestProfile_LoadResolvesEachPairOnce(t *testing.T) {
	w := newWorld()
	w.api.Seed(21, 11, models.EventMeta{})

	st, err := w.profile(1).Load(context.Background(), 21)
	require.NoError(t, err)
	require.NotNil(t, st.Form)
	assert.Equal(t, relation.Reverse, st.Form.Outcome.Direction)
	assert.Equal(t, []uint{11, 21}, w.api.Lists, "the form reuses the access check's resolution")
}

func TestProfile_DirectAddIsOneSided(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	// Hanako is connected to Jiro, so she can open his page.
	w.api.Seed(31, 11, models.EventMeta{})

	pf := w.profile(1)
	st, err := pf.Load(ctx, 31)
	require.NoError(t, err)
	require.NoError(t, pf.Select(ctx, st, 12))
	assert.Equal(t, relation.None, st.Form.Outcome.Direction)

	res, err := pf.SubmitFriend(ctx, st, models.EventMeta{Memo: "added from profile"})
	require.NoError(t, err)
	assert.Equal(t, relation.Created, res.Status)
	assert.Zero(t, res.MirrorID)

	back, err := w.resolver.Resolve(ctx, 31, 12)
	require.NoError(t, err)
	assert.Equal(t, relation.Reverse, back.Direction, "no 31 -> 12 record was created")
}

func TestProfileLinkRoundTrip(t *testing.T) {
	link := flow.ProfileLink("https://qrsona.example/", 42)
	assert.Equal(t, "https://qrsona.example/exchange?profileId=42", link)

	id, err := flow.ParseScanned(link)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestParseScanned(t *testing.T) {
	tests := []struct {
		raw  string
		want uint
		ok   bool
	}{
		{"7", 7, true},
		{"  8 \n", 8, true},
		{"http://localhost:3000/profile/15", 15, true},
		{"https://qrsona.example/profile/15/", 15, true},
		{"https://qrsona.example/exchange?profileId=3&x=1", 3, true},
		{"https://qrsona.example/exchange?profileId=abc", 0, false},
		{"0", 0, false},
		{"-1", 0, false},
		{"hello", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := flow.ParseScanned(tt.raw)
		if !tt.ok {
			assert.True(t, apperr.Is(err, apperr.KindValidation), "raw %q", tt.raw)
			continue
		}
		require.NoError(t, err, "raw %q", tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
	}
}
