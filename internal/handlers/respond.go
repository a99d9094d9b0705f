package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/diewo77/qrsona/gate"
	"github.com/diewo77/qrsona/httpx"
	"github.com/diewo77/qrsona/i18n"
	"github.com/diewo77/qrsona/internal/middleware"
	"github.com/diewo77/qrsona/internal/services"
	"github.com/diewo77/qrsona/validation"
)

// Authorizer is satisfied by *gate.Gate[uint].
type Authorizer interface {
	Authorize(ctx context.Context, subject uint, action gate.Action, resourceType string, resource any) error
}

// fail writes an error code with a message in the caller's language.
func fail(w http.ResponseWriter, r *http.Request, status int, code string, details any) {
	httpx.JSONErrorMessage(w, status, code, i18n.T(middleware.LangFrom(r), code), details)
}

func failValidation(w http.ResponseWriter, r *http.Request, v validation.Violations) {
	fail(w, r, http.StatusBadRequest, "validation_error", map[string]string(v))
}

// failService maps service and gate errors onto HTTP answers.
func failService(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		fail(w, r, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrProfileNotFound):
		fail(w, r, http.StatusNotFound, "profile_not_found", nil)
	case errors.Is(err, services.ErrDuplicate):
		fail(w, r, http.StatusConflict, "already_connected", nil)
	case errors.Is(err, services.ErrSelfConnection):
		fail(w, r, http.StatusBadRequest, "validation_error", map[string]string{"connect_user_profile_id": "self_connection"})
	case errors.Is(err, gate.ErrUnauthorized):
		fail(w, r, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, gate.ErrForbidden), errors.Is(err, gate.ErrNoPolicyDefined):
		fail(w, r, http.StatusForbidden, "forbidden", nil)
	default:
		fail(w, r, http.StatusInternalServerError, "internal_error", nil)
	}
}

func badID(w http.ResponseWriter, r *http.Request, field string) {
	fail(w, r, http.StatusBadRequest, "invalid_request", map[string]string{field: "invalid_id"})
}
