package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/form-service/internal/domain"
	"github.com/spec-kit/form-service/internal/form"
	"github.com/spec-kit/form-service/internal/repository"
	apperrors "github.com/spec-kit/form-service/pkg/util"
)

const principalKey = "auth_principal"

type sessionContextKey struct{}

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
	Role domain.Role
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes. The resolved session is
// also placed on the request context so the form core can read it through its
// injected SessionProvider.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.SubjectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}
	if user.Status != domain.UserStatusActive {
		return apperrors.NewForbidden("account suspended")
	}

	principal := &Principal{User: user, Role: user.Role}
	c.Locals(principalKey, principal)

	session := form.Session{
		Loaded:    true,
		SignedIn:  true,
		SubjectID: user.ID,
		Role:      user.Role,
	}
	c.SetUserContext(context.WithValue(c.UserContext(), sessionContextKey{}, session))

	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// SessionFromContext extracts the session placed by Handle. An absent session
// is reported as loaded but signed out, which trips the submit auth gate.
func SessionFromContext(ctx context.Context) form.Session {
	if session, ok := ctx.Value(sessionContextKey{}).(form.Session); ok {
		return session
	}
	return form.Session{Loaded: true}
}

// ContextSessionProvider implements form.SessionProvider over request
// contexts populated by the middleware.
type ContextSessionProvider struct{}

func (ContextSessionProvider) Session(ctx context.Context) form.Session {
	return SessionFromContext(ctx)
}
