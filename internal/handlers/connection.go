package handlers

import (
	"net/http"

	"github.com/diewo77/qrsona/auth"
	"github.com/diewo77/qrsona/gate"
	"github.com/diewo77/qrsona/httpx"
	"github.com/diewo77/qrsona/internal/models"
	"github.com/diewo77/qrsona/internal/policy"
	"github.com/diewo77/qrsona/internal/services"
	"github.com/diewo77/qrsona/validation"
)

type ConnectionHandler struct {
	svc  *services.ConnectionService
	gate Authorizer
}

func NewConnectionHandler(svc *services.ConnectionService, g Authorizer) *ConnectionHandler {
	return &ConnectionHandler{svc: svc, gate: g}
}

// List answers GET /api/connections?profile_id={id}. Any signed-in user may
// list, since resolving a relationship probes the other side's records.
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	profileID, err := httpx.ParseID(r.URL.Query().Get("profile_id"))
	if err != nil {
		badID(w, r, "profile_id")
		return
	}
	conns, err := h.svc.ListBySource(r.Context(), profileID)
	if err != nil {
		failService(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, models.ConnectionListResponse{Connections: conns, Total: len(conns)})
}

func (h *ConnectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateConnectionRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid_request", nil)
		return
	}
	v := req.EventMeta.Validate()
	validation.PositiveID("profile_id", req.ProfileID, v)
	validation.PositiveID("connect_user_profile_id", req.ConnectUserProfileID, v)
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}

	uid, _ := auth.UserIDFromContext(r.Context())
	if err := h.gate.Authorize(r.Context(), uid, gate.ActionCreate, policy.ResourceConnection, req); err != nil {
		failService(w, r, err)
		return
	}
	c, err := h.svc.Create(r.Context(), req)
	if err != nil {
		failService(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, models.ConnectionResponse{Connection: *c})
}

func (h *ConnectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, models.ConnectionResponse{Connection: *c})
}

func (h *ConnectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var meta models.EventMeta
	if err := httpx.DecodeJSON(w, r, &meta); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid_request", nil)
		return
	}
	if v := meta.Validate(); !v.Empty() {
		failValidation(w, r, v)
		return
	}
	c, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	updated, err := h.svc.Update(r.Context(), c.ID, meta)
	if err != nil {
		failService(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, models.ConnectionResponse{Connection: *updated})
}

func (h *ConnectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r, gate.ActionDelete)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), c.ID); err != nil {
		failService(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"result": "success"})
}

// load fetches the {id} connection and checks the caller may act on it.
func (h *ConnectionHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Connection, bool) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		badID(w, r, "id")
		return nil, false
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		failService(w, r, err)
		return nil, false
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	if err := h.gate.Authorize(r.Context(), uid, action, policy.ResourceConnection, c); err != nil {
		failService(w, r, err)
		return nil, false
	}
	return c, true
}
