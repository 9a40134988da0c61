package ports

import (
	"context"

	"github.com/abelov/technical-records/internal/core/domain"
)

type AuthService interface {
	// SignUp registers a new principal with a freshly hashed credential.
	SignUp(ctx context.Context, email, password, role string) (*domain.User, error)
	// Login verifies a credential and issues a session token. Unknown email
	// and wrong password are indistinguishable to the caller.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Authenticate resolves a bearer token back to its principal, rejecting
	// expired or tampered tokens and deactivated principals.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
