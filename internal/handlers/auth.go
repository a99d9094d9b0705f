package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/diewo77/qrsona/auth"
	"github.com/diewo77/qrsona/httpx"
	"github.com/diewo77/qrsona/internal/models"
	"github.com/diewo77/qrsona/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const MinPasswordLen = 8

// MaxPasswordBytes is bcrypt's input limit.
const MaxPasswordBytes = 72

type AuthHandler struct {
	db     *gorm.DB
	tokens *auth.Manager
	logger *slog.Logger
}

func NewAuthHandler(db *gorm.DB, tokens *auth.Manager, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{db: db, tokens: tokens, logger: logger}
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid_request", nil)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	validation.MaxLen("name", req.Name, 255, v)
	validation.Email("email", req.Email, v)
	validation.MinLen("password", req.Password, MinPasswordLen, v)
	if len(req.Password) > MaxPasswordBytes {
		v["password"] = "too_long"
	}
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}

	var n int64
	if err := h.db.WithContext(r.Context()).Model(&models.User{}).Where("email = ?", req.Email).Count(&n).Error; err != nil {
		h.logger.Error("sign up lookup failed", "err", err)
		fail(w, r, http.StatusInternalServerError, "signup_failed", nil)
		return
	}
	if n > 0 {
		fail(w, r, http.StatusConflict, "email_taken", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	user := models.User{Name: req.Name, Email: req.Email, Password: string(hash)}
	if err := h.db.WithContext(r.Context()).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			fail(w, r, http.StatusConflict, "email_taken", nil)
			return
		}
		h.logger.Error("sign up failed", "err", err)
		fail(w, r, http.StatusInternalServerError, "signup_failed", nil)
		return
	}
	h.respondWithToken(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid_request", nil)
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		fail(w, r, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}

	var user models.User
	if err := h.db.WithContext(r.Context()).Where("email = ?", email).First(&user).Error; err != nil {
		fail(w, r, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		fail(w, r, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	h.respondWithToken(w, r, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user models.User) {
	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		h.logger.Error("issue token failed", "user_id", user.ID, "err", err)
		fail(w, r, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, status, models.AuthResponse{User: user, Token: token})
}
