package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/qrsona/httpx"
	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const userIDCtxKey = ctxKey("userID")

// DefaultTTL is the lifetime of issued tokens.
const DefaultTTL = 24 * time.Hour

// ErrInvalidToken is returned by Parse for malformed, expired or
// wrongly signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// UserVerifier is an optional callback to validate that a token's user
// still exists. If nil, no extra verification is performed.
type UserVerifier func(ctx context.Context, uid uint) bool

// Claims are the JWT claims issued at sign-in.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues and checks HS256 bearer tokens.
type Manager struct {
	secret   []byte
	ttl      time.Duration
	verifier UserVerifier
	now      func() time.Time
}

// NewManager returns a manager signing with secret. A zero ttl means
// DefaultTTL.
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// SetUserVerifier configures the verifier used by RequireAuth.
func (m *Manager) SetUserVerifier(v UserVerifier) { m.verifier = v }

// Issue signs a token for the user.
func (m *Manager) Issue(userID uint, email string) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse validates token and returns its claims.
func (m *Manager) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, ErrInvalidToken
	}
	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || c.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return c, nil
}

// bearer extracts the token of an "Authorization: Bearer <token>" header.
func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
		return "", false
	}
	return strings.TrimSpace(tok), true
}

// WithUserID stores user id in context.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	v := ctx.Value(userIDCtxKey)
	if v == nil {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Middleware attaches user id to request context if a valid bearer
// token is present.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok, ok := bearer(r); ok {
			if c, err := m.Parse(tok); err == nil {
				r = r.WithContext(WithUserID(r.Context(), c.UserID))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth returns 401 JSON when no valid user is attached.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		// Token refers to a deleted user.
		if m.verifier != nil && !m.verifier(r.Context(), uid) {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
