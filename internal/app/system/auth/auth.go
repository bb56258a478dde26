// Package auth gates mutating API operations behind a bearer token.
//
// Tokens are HS256 JWTs issued at login with a 24-hour lifetime, carrying
// the admin's ID and username. The middleware verifies signature and
// expiry, re-resolves the account (so deleted admins lose access
// immediately), and injects the identity into the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/eduhub/internal/app/system/apiutil"
	"github.com/dalemusser/eduhub/internal/app/system/timeouts"
)

// TokenLifetime is how long an issued token stays valid.
const TokenLifetime = 24 * time.Hour

// Identity is the resolved admin attached to authenticated requests.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Resolver looks up an admin account by its ID. Implemented by the admins
// store; kept as an interface here so auth does not depend on Mongo.
type Resolver interface {
	ResolveAdmin(ctx context.Context, id string) (Identity, error)
}

// ErrUnknownAdmin is returned by a Resolver when no account matches.
var ErrUnknownAdmin = errors.New("admin account not found")

type ctxKey string

const currentAdminKey ctxKey = "currentAdmin"

// CurrentAdmin returns the authenticated admin and a "found?" flag.
func CurrentAdmin(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(currentAdminKey).(Identity)
	return id, ok
}

// WithTestAdmin injects an identity directly, bypassing token checks.
// For handler tests only.
func WithTestAdmin(r *http.Request, id Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentAdminKey, id))
}

type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager issues and verifies bearer tokens.
type Manager struct {
	secret   []byte
	resolver Resolver
	log      *zap.Logger
}

// NewManager builds a Manager. The secret must be non-empty; short secrets
// get a startup warning the same way short session keys would.
func NewManager(secret string, resolver Resolver, logger *zap.Logger) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is empty; provide ≥32 random chars")
	}
	if len(secret) < 32 {
		logger.Warn("token secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	return &Manager{secret: []byte(secret), resolver: resolver, log: logger}, nil
}

// IssueToken signs a token for the given admin, valid for TokenLifetime.
func (m *Manager) IssueToken(adminID, username string) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// VerifyToken checks signature and expiry and returns the embedded admin ID
// and username.
func (m *Manager) VerifyToken(token string) (adminID, username string, err error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", "", err
	}
	if !parsed.Valid {
		return "", "", jwt.ErrTokenUnverifiable
	}
	return claims.Subject, claims.Username, nil
}

// RequireAdmin ensures the request carries a valid bearer token for an
// existing admin account. On success the identity is available through
// CurrentAdmin; on failure the request ends with a 401 envelope.
func (m *Manager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			apiutil.Fail(w, http.StatusUnauthorized, "Access denied. Admin authentication required.")
			return
		}

		adminID, _, err := m.VerifyToken(token)
		if err != nil {
			m.log.Debug("token verification failed", zap.Error(err))
			apiutil.Fail(w, http.StatusUnauthorized, "Invalid token. Please login again.")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		identity, err := m.resolver.ResolveAdmin(ctx, adminID)
		if err != nil {
			if !errors.Is(err, ErrUnknownAdmin) {
				m.log.Error("admin lookup failed during auth", zap.Error(err))
			}
			apiutil.Fail(w, http.StatusUnauthorized, "Invalid token. Admin not found.")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), currentAdminKey, identity)))
	})
}

// bearerToken extracts the credential from an "Authorization: Bearer x"
// header. Headers without the Bearer scheme yield an empty string.
func bearerToken(r *http.Request) string {
	const scheme = "Bearer "
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, scheme) {
		return ""
	}
	return strings.TrimSpace(h[len(scheme):])
}
