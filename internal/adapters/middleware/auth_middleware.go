package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
)

// UserFinder re-reads the account behind a token on every request.
type UserFinder interface {
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
}

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

type AuthMiddleware struct {
	tokens TokenVerifier
	users  UserFinder
	logger *zap.Logger
}

func NewAuthMiddleware(tokens TokenVerifier, users UserFinder, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

type contextKey string

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the hydrated caller, or a zero identity when the
// request did not pass through Authenticate.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	return id, ok
}

// Authenticate resolves the caller: no bearer token is 401, a token that fails
// verification is 403, a token for a user that no longer exists is 401.
// Role and department always come from the store, not from the token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "access denied")
			return
		}

		claims, err := m.tokens.Verify(token)
		if err != nil {
			m.logger.Debug("token rejected", zap.Error(err))
			writeError(w, http.StatusForbidden, "invalid token")
			return
		}

		user, err := m.users.FindUserByID(r.Context(), claims.UserID)
		if errors.Is(err, domain.ErrNotFound) {
			m.logger.Debug("token for deleted user", zap.Int64("user_id", claims.UserID))
			writeError(w, http.StatusUnauthorized, "user no longer exists")
			return
		}
		if err != nil {
			m.logger.Error("hydrate identity", zap.Int64("user_id", claims.UserID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		identity := domain.Identity{
			UserID:       user.ID,
			Role:         user.Role,
			DepartmentID: user.DepartmentID,
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// RequireRole must run after Authenticate.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "access denied")
				return
			}
			if !identity.Is(roles...) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
