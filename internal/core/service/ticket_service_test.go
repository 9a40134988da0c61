package service

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/abelov/technical-records/internal/core/domain"
	"github.com/abelov/technical-records/internal/core/ports"
)

type stubTicketRepo struct {
	tickets map[string]*domain.Ticket
	nextID  int
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func cloneTicket(t *domain.Ticket) *domain.Ticket {
	clone := *t
	clone.RepairTimeline = append([]domain.TimelineStep(nil), t.RepairTimeline...)
	return &clone
}

func (r *stubTicketRepo) Create(_ context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	r.nextID++
	clone := cloneTicket(t)
	clone.ID = "ticket-" + strconv.Itoa(r.nextID)
	r.tickets[clone.ID] = cloneTicket(clone)
	return clone, nil
}

func (r *stubTicketRepo) FindByID(_ context.Context, id string) (*domain.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	return cloneTicket(t), nil
}

func (r *stubTicketRepo) FindAll(_ context.Context) ([]*domain.Ticket, error) {
	out := make([]*domain.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		out = append(out, cloneTicket(t))
	}
	return out, nil
}

func (r *stubTicketRepo) FindByUser(_ context.Context, userID string) ([]*domain.Ticket, error) {
	var out []*domain.Ticket
	for _, t := range r.tickets {
		if t.UserID == userID {
			out = append(out, cloneTicket(t))
		}
	}
	return out, nil
}

func (r *stubTicketRepo) Update(_ context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	if _, ok := r.tickets[t.ID]; !ok {
		return nil, domain.ErrTicketNotFound
	}
	r.tickets[t.ID] = cloneTicket(t)
	return cloneTicket(t), nil
}

func (r *stubTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tickets[id]; !ok {
		return domain.ErrTicketNotFound
	}
	delete(r.tickets, id)
	return nil
}

var (
	owner = &domain.User{ID: "user-1", Roles: []string{domain.RoleUser}}
	admin = &domain.User{ID: "admin-1", Roles: []string{domain.RoleAdmin}}
	other = &domain.User{ID: "user-2", Roles: []string{domain.RoleUser}}
)

func newTestTicketService(repo *stubTicketRepo) *TicketService {
	return NewTicketService(repo, &recordedActivity{}, zerolog.Nop())
}

func TestTicketService_Create_NormalizesMoney(t *testing.T) {
	repo := newStubTicketRepo()
	svc := newTestTicketService(repo)

	created, err := svc.Create(context.Background(), ports.TicketInput{
		CustomerName:  "John Doe",
		ServiceCharge: 150,
		PartsCost:     50,
		DepositPaid:   30,
		Status:        "Pending",
	}, owner)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.TotalCost != 200 || created.Balance != 170 || created.PaymentCompleted {
		t.Fatalf("money not normalized: %+v", created)
	}
	if created.UserID != owner.ID {
		t.Fatalf("ownership not set: %q", created.UserID)
	}
}

func TestTicketService_Create_UnknownStatusDefaultsToPending(t *testing.T) {
	repo := newStubTicketRepo()
	svc := newTestTicketService(repo)

	created, err := svc.Create(context.Background(), ports.TicketInput{Status: "Shipped"}, owner)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != domain.StatusPending {
		t.Fatalf("expected Pending, got %q", created.Status)
	}
}

func TestTicketService_RecordPayment_Sequencing(t *testing.T) {
	repo := newStubTicketRepo()
	svc := newTestTicketService(repo)

	created, err := svc.Create(context.Background(), ports.TicketInput{
		ServiceCharge: 200,
		DepositPaid:   50,
	}, owner)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	after30, err := svc.RecordPayment(context.Background(), created.ID, 30, "REF-1")
	if err != nil {
		t.Fatalf("payment 30: %v", err)
	}
	if after30.DepositPaid != 80 || after30.Balance != 120 || after30.PaymentCompleted {
		t.Fatalf("after +30: %+v", after30)
	}

	after120, err := svc.RecordPayment(context.Background(), created.ID, 120, "REF-2")
	if err != nil {
		t.Fatalf("payment 120: %v", err)
	}
	if after120.DepositPaid != 200 || after120.Balance != 0 || !after120.PaymentCompleted {
		t.Fatalf("after +120: %+v", after120)
	}

	after10, err := svc.RecordPayment(context.Background(), created.ID, 10, "REF-3")
	if err != nil {
		t.Fatalf("payment 10: %v", err)
	}
	if after10.Balance != 0 || !after10.PaymentCompleted {
		t.Fatalf("balance must stay at zero: %+v", after10)
	}
	if after10.DepositPaid != 210 {
		t.Fatalf("deposit must accumulate: %v", after10.DepositPaid)
	}
}

func TestTicketService_RecordPayment_AppendsTimeline(t *testing.T) {
	repo := newStubTicketRepo()
	svc := newTestTicketService(repo)

	created, _ := svc.Create(context.Background(), ports.TicketInput{ServiceCharge: 100}, owner)

	updated, err := svc.RecordPayment(context.Background(), created.ID, 40, "TXN-99")
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if len(updated.RepairTimeline) != 1 {
		t.Fatalf("expected one timeline entry, got %d", len(updated.RepairTimeline))
	}
	entry := updated.RepairTimeline[0]
	if entry.Step != "Payment Received" || entry.Status != "Processed" {
		t.Fatalf("unexpected timeline entry: %+v", entry)
	}
	if !strings.Contains(entry.Note, "40") || !strings.Contains(entry.Note, "TXN-99") {
		t.Fatalf("note must embed amount and reference: %q", entry.Note)
	}

	// A second payment appends, never rewrites.
	again, err := svc.RecordPayment(context.Background(), created.ID, 60, "TXN-100")
	if err != nil {
		t.Fatalf("second payment: %v", err)
	}
	if len(again.RepairTimeline) != 2 {
		t.Fatalf("expected two timeline entries, got %d", len(again.RepairTimeline))
	}
	if again.RepairTimeline[0] != entry {
		t.Fatalf("existing timeline entry was modified")
	}
}

func TestTicketService_RecordPayment_NotFound(t *testing.T) {
	repo := newStubTicketRepo()
	svc := newTestTicketService(repo)

	if _, err := svc.RecordPayment(context.Background(), "missing", 10, "REF"); err != domain.ErrTicketNotFound {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestTicketService_Get_Authorization(t *testing.T) {
	repo := newStubTicketRepo()
	svc := newTestTicketService(repo)

	created, _ := svc.Create(context.Background(), ports.TicketInput{CustomerName: "John"}, owner)

	if _, err := svc.Get(context.Background(), created.ID, owner); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID, admin); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID, other); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestTicketService_List_ScopedByRole(t *testing.T) {
	repo := newStubTicketRepo()
	svc := newTestTicketService(repo)

	_, _ = svc.Create(context.Background(), ports.TicketInput{}, owner)
	_, _ = svc.Create(context.Background(), ports.TicketInput{}, other)

	mine, err := svc.List(context.Background(), owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("user should only see own tickets, got %d", len(mine))
	}

	all, err := svc.List(context.Background(), admin)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin should see all tickets, got %d", len(all))
	}
}

func TestTicketService_Update_PartialAndRenormalized(t *testing.T) {
	repo := newStubTicketRepo()
	svc := newTestTicketService(repo)

	created, _ := svc.Create(context.Background(), ports.TicketInput{
		CustomerName:  "John",
		ServiceCharge: 100,
		PartsCost:     100,
		DepositPaid:   200,
	}, owner)
	if !created.PaymentCompleted {
		t.Fatalf("expected completed after full deposit")
	}

	newCharge := 300.0
	updated, err := svc.Update(context.Background(), created.ID, ports.TicketUpdate{ServiceCharge: &newCharge}, owner)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.TotalCost != 400 || updated.Balance != 200 || updated.PaymentCompleted {
		t.Fatalf("invariant not renormalized: %+v", updated)
	}
	if updated.CustomerName != "John" {
		t.Fatalf("untouched field changed: %q", updated.CustomerName)
	}
}

func TestTicketService_Stats(t *testing.T) {
	repo := newStubTicketRepo()
	svc := newTestTicketService(repo)

	// Completed payment: revenue counts the full total.
	paid, _ := svc.Create(context.Background(), ports.TicketInput{ServiceCharge: 100, DepositPaid: 100, Status: "Completed"}, owner)
	if !paid.PaymentCompleted {
		t.Fatalf("expected paid ticket")
	}
	// Outstanding: revenue counts only the deposit.
	_, _ = svc.Create(context.Background(), ports.TicketInput{ServiceCharge: 500, DepositPaid: 50, Status: "In-Progress"}, owner)
	_, _ = svc.Create(context.Background(), ports.TicketInput{ServiceCharge: 10, Status: "Pending"}, owner)

	stats, err := svc.Stats(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 || stats.Completed != 1 || stats.InProgress != 1 || stats.Pending != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.TotalRevenue != 150 {
		t.Fatalf("revenue: got %v, want 150", stats.TotalRevenue)
	}
}

func TestTicketService_Search(t *testing.T) {
	repo := newStubTicketRepo()
	svc := newTestTicketService(repo)

	_, _ = svc.Create(context.Background(), ports.TicketInput{CustomerName: "Ada Lovelace", DeviceBrand: "Lenovo"}, owner)
	_, _ = svc.Create(context.Background(), ports.TicketInput{CustomerName: "Grace Hopper", CustomerPhone: "+234-555-0101"}, owner)

	byName, err := svc.Search(context.Background(), owner.ID, "ada")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byName) != 1 || byName[0].CustomerName != "Ada Lovelace" {
		t.Fatalf("unexpected name match: %+v", byName)
	}

	byPhone, err := svc.Search(context.Background(), owner.ID, "555-0101")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byPhone) != 1 || byPhone[0].CustomerName != "Grace Hopper" {
		t.Fatalf("unexpected phone match: %+v", byPhone)
	}

	none, err := svc.Search(context.Background(), owner.ID, "nokia")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no matches, got %d", len(none))
	}
}

func TestTicketService_Delete(t *testing.T) {
	repo := newStubTicketRepo()
	svc := newTestTicketService(repo)

	created, _ := svc.Create(context.Background(), ports.TicketInput{}, owner)

	if err := svc.Delete(context.Background(), created.ID, other); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID, owner); err != domain.ErrTicketNotFound {
		t.Fatalf("expected ErrTicketNotFound after delete, got %v", err)
	}
}
