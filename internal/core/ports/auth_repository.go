package ports

import (
	"context"

	"github.com/abelov/technical-records/internal/core/domain"
)

// AuthRepository defines the persistence interface for principals.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateRolesAndStatus persists role and activation changes. Principals
	// are never deleted through this interface.
	UpdateRolesAndStatus(ctx context.Context, id string, roles []string, isActive bool) (*domain.User, error)
}
