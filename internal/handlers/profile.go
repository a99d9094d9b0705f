package handlers

import (
	"net/http"

	"github.com/diewo77/qrsona/auth"
	"github.com/diewo77/qrsona/gate"
	"github.com/diewo77/qrsona/httpx"
	"github.com/diewo77/qrsona/internal/models"
	"github.com/diewo77/qrsona/internal/policy"
	"github.com/diewo77/qrsona/internal/services"
)

type ProfileHandler struct {
	svc  *services.ProfileService
	gate Authorizer
}

func NewProfileHandler(svc *services.ProfileService, g Authorizer) *ProfileHandler {
	return &ProfileHandler{svc: svc, gate: g}
}

// ListByUser answers GET /api/users/{userId}/profiles, newest first.
func (h *ProfileHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.PathID(r, "userId")
	if err != nil {
		badID(w, r, "userId")
		return
	}
	profiles, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		failService(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, models.ProfileListResponse{Profiles: profiles, Count: len(profiles)})
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid_request", nil)
		return
	}
	if v := in.Validate(true); !v.Empty() {
		failValidation(w, r, v)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	p, err := h.svc.Create(r.Context(), uid, in)
	if err != nil {
		failService(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

// Get returns any profile to a signed-in user. Whether the viewer may see
// it is decided by the client's access gate.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		badID(w, r, "id")
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		failService(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid_request", nil)
		return
	}
	if v := in.Validate(false); !v.Empty() {
		failValidation(w, r, v)
		return
	}
	p, ok := h.owned(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	updated, err := h.svc.Update(r.Context(), p.ID, in)
	if err != nil {
		failService(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// Delete removes the profile and every connection touching it.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.owned(w, r, gate.ActionDelete)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), p.ID); err != nil {
		failService(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"result": "success"})
}

func (h *ProfileHandler) owned(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Profile, bool) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		badID(w, r, "id")
		return nil, false
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		failService(w, r, err)
		return nil, false
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	if err := h.gate.Authorize(r.Context(), uid, action, policy.ResourceProfile, p); err != nil {
		failService(w, r, err)
		return nil, false
	}
	return p, true
}
