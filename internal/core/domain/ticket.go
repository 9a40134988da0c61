package domain

import (
	"errors"
	"time"
)

// TicketStatus represents the lifecycle state of a service request.
type TicketStatus string

const (
	StatusPending    TicketStatus = "Pending"
	StatusInProgress TicketStatus = "In-Progress"
	StatusCompleted  TicketStatus = "Completed"
	StatusOnHold     TicketStatus = "On-Hold"
)

var ErrTicketNotFound = errors.New("request not found")
var ErrForbidden = errors.New("access forbidden")

// ValidStatus reports whether s is one of the four known statuses.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

// TimelineStep is one entry in a ticket's append-only repair timeline.
// Steps are only ever appended — never reordered or removed.
type TimelineStep struct {
	Step   string `json:"step" bson:"step"`
	Date   string `json:"date" bson:"date"`
	Note   string `json:"note" bson:"note"`
	Status string `json:"status" bson:"status"`
}

// Ticket is the service-request aggregate root. CustomerPhone and
// CustomerEmail are stored encrypted at rest and decrypted whenever a
// ticket is materialized for a caller; in memory they always hold the
// caller-visible form.
type Ticket struct {
	ID                  string         `json:"id" bson:"_id,omitempty"`
	UserID              string         `json:"user_id" bson:"user_id"`
	ShopName            string         `json:"shop_name" bson:"shop_name"`
	TechnicianName      string         `json:"technician_name" bson:"technician_name"`
	RequestDate         string         `json:"request_date" bson:"request_date"`
	CustomerName        string         `json:"customer_name" bson:"customer_name"`
	CustomerPhone       string         `json:"customer_phone" bson:"customer_phone"`
	CustomerEmail       string         `json:"customer_email,omitempty" bson:"customer_email,omitempty"`
	CustomerAddress     string         `json:"customer_address" bson:"customer_address"`
	DeviceModel         string         `json:"device_model" bson:"device_model"`
	DeviceBrand         string         `json:"device_brand" bson:"device_brand"`
	SerialNumber        string         `json:"serial_number" bson:"serial_number"`
	OperatingSystem     string         `json:"operating_system" bson:"operating_system"`
	AccessoriesReceived string         `json:"accessories_received" bson:"accessories_received"`
	ProblemDescription  string         `json:"problem_description" bson:"problem_description"`
	DiagnosisDate       string         `json:"diagnosis_date" bson:"diagnosis_date"`
	DiagnosisTechnician string         `json:"diagnosis_technician" bson:"diagnosis_technician"`
	FaultFound          string         `json:"fault_found" bson:"fault_found"`
	PartsUsed           string         `json:"parts_used" bson:"parts_used"`
	RepairAction        string         `json:"repair_action" bson:"repair_action"`
	Status              TicketStatus   `json:"status" bson:"status"`
	ServiceCharge       float64        `json:"service_charge" bson:"service_charge"`
	PartsCost           float64        `json:"parts_cost" bson:"parts_cost"`
	TotalCost           float64        `json:"total_cost" bson:"total_cost"`
	DepositPaid         float64        `json:"deposit_paid" bson:"deposit_paid"`
	Balance             float64        `json:"balance" bson:"balance"`
	PaymentCompleted    bool           `json:"payment_completed" bson:"payment_completed"`
	RepairTimeline      []TimelineStep `json:"repair_timeline" bson:"repair_timeline"`
	CreatedAt           time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at" bson:"updated_at"`
}

// NormalizeMoney re-derives the dependent monetary fields from the
// independent ones, enforcing the invariant
//
//	total = service_charge + parts_cost
//	balance = max(0, total − deposit_paid)
//	payment_completed ⇔ balance == 0
//
// The balance floors at zero: an overpaying deposit is recorded in
// DepositPaid but never drives the balance negative.
func (t *Ticket) NormalizeMoney() {
	t.TotalCost = t.ServiceCharge + t.PartsCost
	t.Balance = t.TotalCost - t.DepositPaid
	if t.Balance < 0 {
		t.Balance = 0
	}
	t.PaymentCompleted = t.Balance == 0
}

// ApplyPayment records a cumulative deposit and renormalizes the money
// fields. The deposit only ever grows; callers validate amount > 0 at the
// transport edge, and a non-positive amount here is a no-op.
func (t *Ticket) ApplyPayment(amount float64) {
	if amount <= 0 {
		return
	}
	t.DepositPaid += amount
	t.NormalizeMoney()
}

// AppendTimeline adds one immutable step to the repair timeline.
func (t *Ticket) AppendTimeline(step TimelineStep) {
	t.RepairTimeline = append(t.RepairTimeline, step)
}
