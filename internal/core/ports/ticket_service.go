package ports

import (
	"context"

	"github.com/abelov/technical-records/internal/core/domain"
)

// TicketInput carries the caller-supplied fields for creating a ticket.
// Monetary dependents (total, balance, completion) are recomputed by the
// service regardless of what the caller sends.
type TicketInput struct {
	ShopName            string
	TechnicianName      string
	RequestDate         string
	CustomerName        string
	CustomerPhone       string
	CustomerEmail       string
	CustomerAddress     string
	DeviceModel         string
	DeviceBrand         string
	SerialNumber        string
	OperatingSystem     string
	AccessoriesReceived string
	ProblemDescription  string
	DiagnosisDate       string
	DiagnosisTechnician string
	FaultFound          string
	PartsUsed           string
	RepairAction        string
	Status              string
	ServiceCharge       float64
	PartsCost           float64
	DepositPaid         float64
}

// TicketUpdate is a partial update; nil fields are left untouched.
type TicketUpdate struct {
	ShopName            *string
	TechnicianName      *string
	RequestDate         *string
	CustomerName        *string
	CustomerPhone       *string
	CustomerEmail       *string
	CustomerAddress     *string
	DeviceModel         *string
	DeviceBrand         *string
	SerialNumber        *string
	OperatingSystem     *string
	AccessoriesReceived *string
	ProblemDescription  *string
	DiagnosisDate       *string
	DiagnosisTechnician *string
	FaultFound          *string
	PartsUsed           *string
	RepairAction        *string
	Status              *string
	ServiceCharge       *float64
	PartsCost           *float64
	DepositPaid         *float64
}

// TicketStats summarizes a user's tickets for the dashboard.
type TicketStats struct {
	Total        int     `json:"total"`
	Completed    int     `json:"completed"`
	Pending      int     `json:"pending"`
	InProgress   int     `json:"inProgress"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type TicketService interface {
	List(ctx context.Context, requester *domain.User) ([]*domain.Ticket, error)
	Get(ctx context.Context, id string, requester *domain.User) (*domain.Ticket, error)
	Create(ctx context.Context, in TicketInput, requester *domain.User) (*domain.Ticket, error)
	Update(ctx context.Context, id string, upd TicketUpdate, requester *domain.User) (*domain.Ticket, error)
	Delete(ctx context.Context, id string, requester *domain.User) error
	// RecordPayment applies a cumulative deposit to a ticket and appends a
	// timeline entry. Authorization is the routing layer's job; once
	// invoked, the reconciler trusts its caller.
	RecordPayment(ctx context.Context, id string, amount float64, reference string) (*domain.Ticket, error)
	Stats(ctx context.Context, userID string) (*TicketStats, error)
	Search(ctx context.Context, userID, query string) ([]*domain.Ticket, error)
}
