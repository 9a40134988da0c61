package ports

import (
	"context"

	"github.com/abelov/technical-records/internal/core/domain"
)

// TicketRepository defines the persistence interface for service requests.
// Implementations own the at-rest encryption of the two PII fields: tickets
// cross this boundary in decrypted (caller-visible) form.
type TicketRepository interface {
	Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error)
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	FindAll(ctx context.Context) ([]*domain.Ticket, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Ticket, error)
	Update(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
}
