package ports

import (
	"context"

	"github.com/abelov/technical-records/internal/core/domain"
)

// SeedResult reports what the idempotent admin bootstrap actually did.
type SeedResult struct {
	Admin          *domain.User   `json:"admin"`
	Request        *domain.Ticket `json:"request,omitempty"`
	AdminCreated   bool           `json:"admin_created"`
	RequestCreated bool           `json:"request_created"`
}

type AdminService interface {
	// EnsureAdmin creates the configured admin principal and a sample
	// ticket if either is missing. Calling it again is a no-op.
	EnsureAdmin(ctx context.Context) (*SeedResult, error)
	AssignRole(ctx context.Context, userID, role string) (*domain.User, error)
	RemoveRole(ctx context.Context, userID, role string) (*domain.User, error)
	SetActive(ctx context.Context, userID string, active bool) (*domain.User, error)
}
