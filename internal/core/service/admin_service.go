package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/abelov/technical-records/internal/core/domain"
	"github.com/abelov/technical-records/internal/core/ports"
)

// AdminService seeds the installation and manages principal roles and
// activation. Principals are only ever deactivated, never deleted.
type AdminService struct {
	users   ports.AuthRepository
	tickets ports.TicketRepository
	email   string
	log     zerolog.Logger
}

func NewAdminService(users ports.AuthRepository, tickets ports.TicketRepository, adminEmail string, log zerolog.Logger) *AdminService {
	return &AdminService{users: users, tickets: tickets, email: adminEmail, log: log}
}

// EnsureAdmin makes sure the configured admin principal exists along with
// one sample ticket to render the dashboard against. The admin is created
// without a credential; it cannot log in until one is set, which the
// fail-closed password verifier guarantees.
func (s *AdminService) EnsureAdmin(ctx context.Context) (*ports.SeedResult, error) {
	admin, err := s.users.FindByEmail(ctx, s.email)
	adminCreated := false
	if errors.Is(err, domain.ErrUserNotFound) {
		now := time.Now().UTC()
		admin, err = s.users.Create(ctx, &domain.User{
			Email:     s.email,
			Roles:     []string{domain.RoleAdmin},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		adminCreated = true
	}
	if err != nil {
		return nil, err
	}

	existing, err := s.tickets.FindByUser(ctx, admin.ID)
	if err != nil {
		return nil, err
	}

	result := &ports.SeedResult{Admin: admin, AdminCreated: adminCreated}
	if len(existing) > 0 {
		result.Request = existing[0]
		return result, nil
	}

	sample := sampleTicket(admin.ID)
	created, err := s.tickets.Create(ctx, sample)
	if err != nil {
		return nil, err
	}
	result.Request = created
	result.RequestCreated = true

	s.log.Info().Str("admin_id", admin.ID).Bool("admin_created", adminCreated).Msg("admin bootstrap completed")
	return result, nil
}

func (s *AdminService) AssignRole(ctx context.Context, userID, role string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HasRole(role) {
		return user, nil
	}
	roles := append(slices.Clone(user.Roles), role)
	return s.users.UpdateRolesAndStatus(ctx, userID, roles, user.IsActive)
}

func (s *AdminService) RemoveRole(ctx context.Context, userID, role string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	roles := slices.DeleteFunc(slices.Clone(user.Roles), func(r string) bool { return r == role })
	return s.users.UpdateRolesAndStatus(ctx, userID, roles, user.IsActive)
}

func (s *AdminService) SetActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.users.UpdateRolesAndStatus(ctx, userID, user.Roles, active)
}

func sampleTicket(adminID string) *domain.Ticket {
	now := time.Now().UTC()
	today := now.Format("2006-01-02")
	t := &domain.Ticket{
		UserID:              adminID,
		ShopName:            "Abelov Technical Records",
		TechnicianName:      "Admin Technician",
		RequestDate:         today,
		CustomerName:        "John Doe",
		CustomerPhone:       "+234-000-0000",
		CustomerEmail:       "john.doe@example.com",
		CustomerAddress:     "123 Main Street, Lagos",
		DeviceModel:         "Galaxy S21",
		DeviceBrand:         "Samsung",
		SerialNumber:        "SN-TEST-0001",
		OperatingSystem:     "Android 13",
		AccessoriesReceived: "Charger, Case",
		ProblemDescription:  "Screen cracked and battery drains fast",
		DiagnosisDate:       today,
		DiagnosisTechnician: "Admin Technician",
		FaultFound:          "Damaged display and degraded battery",
		PartsUsed:           "Display panel, Battery",
		RepairAction:        "Replaced display and battery",
		Status:              domain.StatusPending,
		ServiceCharge:       15000,
		PartsCost:           45000,
		DepositPaid:         10000,
		RepairTimeline:      []domain.TimelineStep{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	t.NormalizeMoney()
	return t
}
