package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/abelov/technical-records/internal/api/middleware"
	"github.com/abelov/technical-records/internal/core/domain"
	"github.com/abelov/technical-records/internal/core/ports"
)

type fakeTicketService struct {
	getErr     error
	ticket     *domain.Ticket
	stats      *ports.TicketStats
	lastAmount float64
	lastRef    string
	payments   int
}

func (s *fakeTicketService) List(context.Context, *domain.User) ([]*domain.Ticket, error) {
	return []*domain.Ticket{s.ticket}, nil
}

func (s *fakeTicketService) Get(_ context.Context, id string, _ *domain.User) (*domain.Ticket, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.ticket, nil
}

func (s *fakeTicketService) Create(_ context.Context, in ports.TicketInput, _ *domain.User) (*domain.Ticket, error) {
	t := &domain.Ticket{ID: "t1", CustomerName: in.CustomerName, Status: domain.StatusPending}
	return t, nil
}

func (s *fakeTicketService) Update(context.Context, string, ports.TicketUpdate, *domain.User) (*domain.Ticket, error) {
	return s.ticket, nil
}

func (s *fakeTicketService) Delete(context.Context, string, *domain.User) error {
	return nil
}

func (s *fakeTicketService) RecordPayment(_ context.Context, _ string, amount float64, reference string) (*domain.Ticket, error) {
	s.payments++
	s.lastAmount = amount
	s.lastRef = reference
	return s.ticket, nil
}

func (s *fakeTicketService) Stats(context.Context, string) (*ports.TicketStats, error) {
	return s.stats, nil
}

func (s *fakeTicketService) Search(context.Context, string, string) ([]*domain.Ticket, error) {
	return []*domain.Ticket{s.ticket}, nil
}

func newTicketTestContext(t *testing.T, method, path, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.ContextUserKey, user)
	}
	return c, rec
}

var testOwner = &domain.User{ID: "u1", Email: "owner@b.com", Roles: []string{domain.RoleUser}, IsActive: true}

func TestTicketHandler_Create(t *testing.T) {
	svc := &fakeTicketService{}
	h := NewTicketHandler(svc, zerolog.Nop())

	body := `{
		"shop_name": "Main St Repairs",
		"technician_name": "Ada",
		"request_date": "2026-01-10",
		"customer_name": "John Doe",
		"customer_phone": "+234-000-0000",
		"device_model": "Galaxy S21",
		"device_brand": "Samsung",
		"problem_description": "Cracked screen",
		"service_charge": 100,
		"parts_cost": 50
	}`
	c, rec := newTicketTestContext(t, http.MethodPost, "/api/v1/requests", body, testOwner)
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
}

func TestTicketHandler_Create_MissingRequired(t *testing.T) {
	h := NewTicketHandler(&fakeTicketService{}, zerolog.Nop())

	c, _ := newTicketTestContext(t, http.MethodPost, "/api/v1/requests",
		`{"shop_name":"Main St Repairs"}`, testOwner)
	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestTicketHandler_RecordPayment(t *testing.T) {
	svc := &fakeTicketService{ticket: &domain.Ticket{ID: "t1", UserID: "u1"}}
	h := NewTicketHandler(svc, zerolog.Nop())

	c, rec := newTicketTestContext(t, http.MethodPost, "/api/v1/requests/t1/payment",
		`{"amount": 30, "reference": "REF-1"}`, testOwner)
	c.SetParamNames("id")
	c.SetParamValues("t1")

	if err := h.RecordPayment(c); err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if svc.payments != 1 || svc.lastAmount != 30 || svc.lastRef != "REF-1" {
		t.Fatalf("payment not forwarded: %+v", svc)
	}
}

func TestTicketHandler_RecordPayment_RejectsNonPositive(t *testing.T) {
	svc := &fakeTicketService{ticket: &domain.Ticket{ID: "t1", UserID: "u1"}}
	h := NewTicketHandler(svc, zerolog.Nop())

	for _, body := range []string{`{"amount": 0}`, `{"amount": -5}`, `{}`} {
		c, _ := newTicketTestContext(t, http.MethodPost, "/api/v1/requests/t1/payment", body, testOwner)
		c.SetParamNames("id")
		c.SetParamValues("t1")

		err := h.RecordPayment(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %v", body, err)
		}
	}
	if svc.payments != 0 {
		t.Fatalf("reconciler reached with invalid amount")
	}
}

func TestTicketHandler_RecordPayment_OwnershipGate(t *testing.T) {
	svc := &fakeTicketService{getErr: domain.ErrForbidden}
	h := NewTicketHandler(svc, zerolog.Nop())

	c, _ := newTicketTestContext(t, http.MethodPost, "/api/v1/requests/t1/payment",
		`{"amount": 30}`, testOwner)
	c.SetParamNames("id")
	c.SetParamValues("t1")

	if err := h.RecordPayment(c); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if svc.payments != 0 {
		t.Fatalf("reconciler reached despite failed ownership check")
	}
}

func TestTicketHandler_Stats_AccessControl(t *testing.T) {
	svc := &fakeTicketService{stats: &ports.TicketStats{Total: 2, TotalRevenue: 150}}
	h := NewTicketHandler(svc, zerolog.Nop())

	run := func(user *domain.User, target string) (int, error) {
		c, rec := newTicketTestContext(t, http.MethodGet, "/api/v1/requests/stats/"+target, "", user)
		c.SetParamNames("userId")
		c.SetParamValues(target)
		err := h.Stats(c)
		return rec.Code, err
	}

	if code, err := run(testOwner, "u1"); err != nil || code != http.StatusOK {
		t.Fatalf("own stats: code=%d err=%v", code, err)
	}

	admin := &domain.User{ID: "a1", Roles: []string{domain.RoleAdmin}}
	if code, err := run(admin, "u1"); err != nil || code != http.StatusOK {
		t.Fatalf("admin stats: code=%d err=%v", code, err)
	}

	if _, err := run(testOwner, "u2"); err == nil {
		t.Fatalf("expected forbidden for another user's stats")
	}
}

func TestTicketHandler_Stats_Payload(t *testing.T) {
	svc := &fakeTicketService{stats: &ports.TicketStats{Total: 3, Completed: 1, Pending: 1, InProgress: 1, TotalRevenue: 150}}
	h := NewTicketHandler(svc, zerolog.Nop())

	c, rec := newTicketTestContext(t, http.MethodGet, "/api/v1/requests/stats/u1", "", testOwner)
	c.SetParamNames("userId")
	c.SetParamValues("u1")
	if err := h.Stats(c); err != nil {
		t.Fatalf("stats: %v", err)
	}

	var got map[string]json.Number
	dec := json.NewDecoder(strings.NewReader(rec.Body.String()))
	dec.UseNumber()
	if err := dec.Decode(&got); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	// Dashboard consumers rely on these exact camelCase keys.
	for _, key := range []string{"total", "completed", "pending", "inProgress", "totalRevenue"} {
		if _, ok := got[key]; !ok {
			t.Fatalf("stats payload missing %q: %s", key, rec.Body.String())
		}
	}
}
