package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abelov/technical-records/internal/core/domain"
	"github.com/abelov/technical-records/internal/core/ports"
)

// Timeline vocabulary for payment events. These strings are part of the
// stored record; changing them would corrupt existing timelines.
const (
	timelinePaymentStep   = "Payment Received"
	timelinePaymentStatus = "Processed"
)

// TicketService implements service-request CRUD, search, stats, and the
// payment reconciler.
type TicketService struct {
	repo     ports.TicketRepository
	activity ports.ActivityRecorder
	log      zerolog.Logger
}

func NewTicketService(repo ports.TicketRepository, activity ports.ActivityRecorder, log zerolog.Logger) *TicketService {
	return &TicketService{repo: repo, activity: activity, log: log}
}

// List returns every ticket for admins, and only the requester's own
// tickets otherwise.
func (s *TicketService) List(ctx context.Context, requester *domain.User) ([]*domain.Ticket, error) {
	if requester.HasRole(domain.RoleAdmin) {
		return s.repo.FindAll(ctx)
	}
	return s.repo.FindByUser(ctx, requester.ID)
}

func (s *TicketService) Get(ctx context.Context, id string, requester *domain.User) (*domain.Ticket, error) {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ticket, requester); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) Create(ctx context.Context, in ports.TicketInput, requester *domain.User) (*domain.Ticket, error) {
	status := domain.TicketStatus(in.Status)
	if !domain.ValidStatus(status) {
		status = domain.StatusPending
	}

	now := time.Now().UTC()
	ticket := &domain.Ticket{
		UserID:              requester.ID,
		ShopName:            in.ShopName,
		TechnicianName:      in.TechnicianName,
		RequestDate:         in.RequestDate,
		CustomerName:        in.CustomerName,
		CustomerPhone:       in.CustomerPhone,
		CustomerEmail:       in.CustomerEmail,
		CustomerAddress:     in.CustomerAddress,
		DeviceModel:         in.DeviceModel,
		DeviceBrand:         in.DeviceBrand,
		SerialNumber:        in.SerialNumber,
		OperatingSystem:     in.OperatingSystem,
		AccessoriesReceived: in.AccessoriesReceived,
		ProblemDescription:  in.ProblemDescription,
		DiagnosisDate:       in.DiagnosisDate,
		DiagnosisTechnician: in.DiagnosisTechnician,
		FaultFound:          in.FaultFound,
		PartsUsed:           in.PartsUsed,
		RepairAction:        in.RepairAction,
		Status:              status,
		ServiceCharge:       in.ServiceCharge,
		PartsCost:           in.PartsCost,
		DepositPaid:         in.DepositPaid,
		RepairTimeline:      []domain.TimelineStep{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	ticket.NormalizeMoney()

	created, err := s.repo.Create(ctx, ticket)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create ticket")
		return nil, err
	}

	s.log.Info().Str("ticket_id", created.ID).Str("user_id", requester.ID).Msg("ticket created")
	return created, nil
}

func (s *TicketService) Update(ctx context.Context, id string, upd ports.TicketUpdate, requester *domain.User) (*domain.Ticket, error) {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ticket, requester); err != nil {
		return nil, err
	}

	applyUpdate(ticket, upd)
	ticket.NormalizeMoney()
	ticket.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, ticket)
}

func (s *TicketService) Delete(ctx context.Context, id string, requester *domain.User) error {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(ticket, requester); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// RecordPayment applies a cumulative payment to a ticket: the deposit
// grows by amount, the balance floors at zero, completion tracks the
// balance, and one immutable timeline entry describes the payment. Safe to
// call repeatedly with different amounts; the deposit never decreases.
func (s *TicketService) RecordPayment(ctx context.Context, id string, amount float64, reference string) (*domain.Ticket, error) {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ticket.ApplyPayment(amount)
	ticket.AppendTimeline(domain.TimelineStep{
		Step:   timelinePaymentStep,
		Date:   time.Now().UTC().Format(time.RFC3339),
		Note:   fmt.Sprintf("Payment of %v received. Ref: %s", amount, reference),
		Status: timelinePaymentStatus,
	})
	ticket.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, ticket)
	if err != nil {
		s.log.Error().Err(err).Str("ticket_id", id).Msg("failed to persist payment")
		return nil, err
	}

	if s.activity != nil {
		s.activity.Record(domain.ActivityEntry{
			UserID:    updated.UserID,
			Action:    "payment_recorded",
			Metadata:  map[string]string{"ticket_id": id, "reference": reference},
			CreatedAt: time.Now().UTC(),
		})
	}
	s.log.Info().
		Str("ticket_id", id).
		Float64("amount", amount).
		Float64("balance", updated.Balance).
		Bool("completed", updated.PaymentCompleted).
		Msg("payment recorded")
	return updated, nil
}

// Stats aggregates a user's tickets for the dashboard. Revenue counts the
// full total for completed payments and only the deposit otherwise.
func (s *TicketService) Stats(ctx context.Context, userID string) (*ports.TicketStats, error) {
	tickets, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &ports.TicketStats{Total: len(tickets)}
	for _, t := range tickets {
		switch t.Status {
		case domain.StatusCompleted:
			stats.Completed++
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusInProgress:
			stats.InProgress++
		}
		if t.PaymentCompleted {
			stats.TotalRevenue += t.TotalCost
		} else {
			stats.TotalRevenue += t.DepositPaid
		}
	}
	return stats, nil
}

// Search filters a user's tickets by a case-insensitive substring over
// customer name, phone, email, device brand, and id. Matching happens
// after decryption, so encrypted-at-rest fields are searchable in their
// caller-visible form.
func (s *TicketService) Search(ctx context.Context, userID, query string) ([]*domain.Ticket, error) {
	tickets, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tickets, nil
	}

	matched := make([]*domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if containsFold(t.CustomerName, q) ||
			containsFold(t.CustomerPhone, q) ||
			containsFold(t.CustomerEmail, q) ||
			containsFold(t.DeviceBrand, q) ||
			containsFold(t.ID, q) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

func containsFold(haystack, loweredNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), loweredNeedle)
}

func authorize(ticket *domain.Ticket, requester *domain.User) error {
	if requester.HasRole(domain.RoleAdmin) || ticket.UserID == requester.ID {
		return nil
	}
	return domain.ErrForbidden
}

func applyUpdate(t *domain.Ticket, upd ports.TicketUpdate) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setF64 := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	setStr(&t.ShopName, upd.ShopName)
	setStr(&t.TechnicianName, upd.TechnicianName)
	setStr(&t.RequestDate, upd.RequestDate)
	setStr(&t.CustomerName, upd.CustomerName)
	setStr(&t.CustomerPhone, upd.CustomerPhone)
	setStr(&t.CustomerEmail, upd.CustomerEmail)
	setStr(&t.CustomerAddress, upd.CustomerAddress)
	setStr(&t.DeviceModel, upd.DeviceModel)
	setStr(&t.DeviceBrand, upd.DeviceBrand)
	setStr(&t.SerialNumber, upd.SerialNumber)
	setStr(&t.OperatingSystem, upd.OperatingSystem)
	setStr(&t.AccessoriesReceived, upd.AccessoriesReceived)
	setStr(&t.ProblemDescription, upd.ProblemDescription)
	setStr(&t.DiagnosisDate, upd.DiagnosisDate)
	setStr(&t.DiagnosisTechnician, upd.DiagnosisTechnician)
	setStr(&t.FaultFound, upd.FaultFound)
	setStr(&t.PartsUsed, upd.PartsUsed)
	setStr(&t.RepairAction, upd.RepairAction)
	setF64(&t.ServiceCharge, upd.ServiceCharge)
	setF64(&t.PartsCost, upd.PartsCost)
	setF64(&t.DepositPaid, upd.DepositPaid)

	if upd.Status != nil && domain.ValidStatus(domain.TicketStatus(*upd.Status)) {
		t.Status = domain.TicketStatus(*upd.Status)
	}
}
