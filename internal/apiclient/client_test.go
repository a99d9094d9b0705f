package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/diewo77/qrsona/internal/apperr"
	"github.com/diewo77/qrsona/internal/models"
	"github.com/diewo77/qrsona/internal/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, h http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, session.NewMemory(nil, token), WithLogger(quietLogger()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListConnections_SendsBearerAndQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/connections", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("profile_id"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		assert.NoError(t, err, "request id must be a uuid")

		writeJSON(w, http.StatusOK, map[string]any{
			"connections": []models.Connection{
				{ID: 1, ProfileID: 7, ConnectUserProfileID: 8},
				{ID: 2, ProfileID: 7, ConnectUserProfileID: 9},
			},
			"total": 2,
		})
	}, "secret")

	got, err := c.ListConnections(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint(8), got[0].ConnectUserProfileID)
	assert.Equal(t, uint(9), got[1].ConnectUserProfileID)
}

func TestListConnections_NullAndMissingAreEmpty(t *testing.T) {
	for name, body := range map[string]string{
		"null":    `{"connections":null,"total":0}`,
		"missing": `{}`,
		"empty":   `{"connections":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, body)
			}, "tok")

			got, err := c.ListConnections(context.Background(), 1)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestListConnections_NoTokenDoesNotSend(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}, "")

	_, err := c.ListConnections(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindAuth))
	assert.Zero(t, hits.Load(), "request must not be sent without a token")
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   apperr.Kind
	}{
		{http.StatusUnauthorized, apperr.KindAuth},
		{http.StatusNotFound, apperr.KindNotFound},
		{http.StatusConflict, apperr.KindConflict},
		{http.StatusInternalServerError, apperr.KindNetwork},
		{http.StatusBadRequest, apperr.KindNetwork},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, map[string]string{"error": "boom"})
			}, "tok")

			_, err := c.ListConnections(context.Background(), 3)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))

			var ae *apperr.Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.status, ae.Status)
			assert.Equal(t, "boom", ae.Message)
		})
	}
}

func TestTransportFailureIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, session.NewMemory(nil, "tok"), WithLogger(quietLogger()))
	_, err := c.ListConnections(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNetwork))
}

func TestValidationDetailsAreKept(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "validation",
			"details": map[string]string{"event_date": "invalid_date"},
		})
	}, "tok")

	_, err := c.UpdateConnection(context.Background(), 4, models.EventMeta{EventDate: "x"})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "invalid_date", ae.Fields["event_date"])
}

func TestCreateAndUpdateConnection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/connections":
			var req models.CreateConnectionRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, uint(1), req.ProfileID)
			assert.Equal(t, uint(2), req.ConnectUserProfileID)
			assert.Equal(t, "GopherCon", req.EventName)
			writeJSON(w, http.StatusOK, models.ConnectionResponse{Connection: models.Connection{
				ID: 10, ProfileID: req.ProfileID, ConnectUserProfileID: req.ConnectUserProfileID, EventName: req.EventName,
			}})
		case r.Method == http.MethodPut && r.URL.Path == "/api/connections/10":
			var meta models.EventMeta
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&meta))
			writeJSON(w, http.StatusOK, models.ConnectionResponse{Connection: models.Connection{
				ID: 10, ProfileID: 1, ConnectUserProfileID: 2, EventName: meta.EventName, Memo: meta.Memo,
			}})
		default:
			http.NotFound(w, r)
		}
	}, "tok")

	created, err := c.CreateConnection(context.Background(), models.CreateConnectionRequest{
		ProfileID: 1, ConnectUserProfileID: 2, EventMeta: models.EventMeta{EventName: "GopherCon"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(10), created.ID)

	updated, err := c.UpdateConnection(context.Background(), 10, models.EventMeta{EventName: "Meetup", Memo: "again"})
	require.NoError(t, err)
	assert.Equal(t, "Meetup", updated.EventName)
	assert.Equal(t, "again", updated.Memo)
}

func TestProfilesEndpoints(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/5/profiles":
			writeJSON(w, http.StatusOK, map[string]any{"profiles": nil})
		case "/api/profiles/3":
			writeJSON(w, http.StatusOK, models.Profile{ID: 3, UserID: 5, DisplayName: "Taro"})
		default:
			http.NotFound(w, r)
		}
	}, "tok")

	list, err := c.ListUserProfiles(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	p, err := c.GetProfile(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Taro", p.DisplayName)

	_, err = c.GetProfile(context.Background(), 4)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSignInIsPublic(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, models.AuthResponse{User: models.User{ID: 1, Name: "Taro"}, Token: "jwt"})
	}, "")

	resp, err := c.SignIn(context.Background(), "taro@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.Token)
	assert.Equal(t, uint(1), resp.User.ID)
}

func TestRateLimitHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"connections": []any{}})
	}, "tok")
	WithRateLimit(0.001, 1)(c)

	_, err := c.ListConnections(context.Background(), 1)
	require.NoError(t, err, "first call uses the burst")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.ListConnections(ctx, 1)
	assert.True(t, apperr.Is(err, apperr.KindNetwork))
}
