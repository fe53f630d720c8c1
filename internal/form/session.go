package form

import (
	"context"

	"github.com/spec-kit/form-service/internal/domain"
)

// Session is the read-only claims bundle the controller sees. It is owned and
// refreshed by the auth layer; the form core never mutates it.
type Session struct {
	Loaded    bool
	SignedIn  bool
	SubjectID string
	Role      domain.Role
}

// SessionProvider supplies the current session. Injected explicitly so the
// controller is testable with a stub instead of the real auth layer.
type SessionProvider interface {
	Session(ctx context.Context) Session
}

// SessionProviderFunc adapts a function to SessionProvider.
type SessionProviderFunc func(ctx context.Context) Session

func (f SessionProviderFunc) Session(ctx context.Context) Session {
	return f(ctx)
}
