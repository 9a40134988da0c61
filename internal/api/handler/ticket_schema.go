package handler

import "github.com/abelov/technical-records/internal/core/ports"

type createTicketRequest struct {
	ShopName            string  `json:"shop_name" validate:"required"`
	TechnicianName      string  `json:"technician_name" validate:"required"`
	RequestDate         string  `json:"request_date" validate:"required"`
	CustomerName        string  `json:"customer_name" validate:"required"`
	CustomerPhone       string  `json:"customer_phone" validate:"required"`
	CustomerEmail       string  `json:"customer_email" validate:"omitempty,email"`
	CustomerAddress     string  `json:"customer_address"`
	DeviceModel         string  `json:"device_model" validate:"required"`
	DeviceBrand         string  `json:"device_brand" validate:"required"`
	SerialNumber        string  `json:"serial_number"`
	OperatingSystem     string  `json:"operating_system"`
	AccessoriesReceived string  `json:"accessories_received"`
	ProblemDescription  string  `json:"problem_description" validate:"required"`
	DiagnosisDate       string  `json:"diagnosis_date"`
	DiagnosisTechnician string  `json:"diagnosis_technician"`
	FaultFound          string  `json:"fault_found"`
	PartsUsed           string  `json:"parts_used"`
	RepairAction        string  `json:"repair_action"`
	Status              string  `json:"status" validate:"omitempty,oneof=Pending In-Progress Completed On-Hold"`
	ServiceCharge       float64 `json:"service_charge" validate:"gte=0"`
	PartsCost           float64 `json:"parts_cost" validate:"gte=0"`
	DepositPaid         float64 `json:"deposit_paid" validate:"gte=0"`
}

type updateTicketRequest struct {
	ShopName            *string  `json:"shop_name"`
	TechnicianName      *string  `json:"technician_name"`
	RequestDate         *string  `json:"request_date"`
	CustomerName        *string  `json:"customer_name"`
	CustomerPhone       *string  `json:"customer_phone"`
	CustomerEmail       *string  `json:"customer_email" validate:"omitempty,email"`
	CustomerAddress     *string  `json:"customer_address"`
	DeviceModel         *string  `json:"device_model"`
	DeviceBrand         *string  `json:"device_brand"`
	SerialNumber        *string  `json:"serial_number"`
	OperatingSystem     *string  `json:"operating_system"`
	AccessoriesReceived *string  `json:"accessories_received"`
	ProblemDescription  *string  `json:"problem_description"`
	DiagnosisDate       *string  `json:"diagnosis_date"`
	DiagnosisTechnician *string  `json:"diagnosis_technician"`
	FaultFound          *string  `json:"fault_found"`
	PartsUsed           *string  `json:"parts_used"`
	RepairAction        *string  `json:"repair_action"`
	Status              *string  `json:"status" validate:"omitempty,oneof=Pending In-Progress Completed On-Hold"`
	ServiceCharge       *float64 `json:"service_charge" validate:"omitempty,gte=0"`
	PartsCost           *float64 `json:"parts_cost" validate:"omitempty,gte=0"`
	DepositPaid         *float64 `json:"deposit_paid" validate:"omitempty,gte=0"`
}

type recordPaymentRequest struct {
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Reference string  `json:"reference"`
}

func (r *createTicketRequest) toInput() ports.TicketInput {
	return ports.TicketInput{
		ShopName:            r.ShopName,
		TechnicianName:      r.TechnicianName,
		RequestDate:         r.RequestDate,
		CustomerName:        r.CustomerName,
		CustomerPhone:       r.CustomerPhone,
		CustomerEmail:       r.CustomerEmail,
		CustomerAddress:     r.CustomerAddress,
		DeviceModel:         r.DeviceModel,
		DeviceBrand:         r.DeviceBrand,
		SerialNumber:        r.SerialNumber,
		OperatingSystem:     r.OperatingSystem,
		AccessoriesReceived: r.AccessoriesReceived,
		ProblemDescription:  r.ProblemDescription,
		DiagnosisDate:       r.DiagnosisDate,
		DiagnosisTechnician: r.DiagnosisTechnician,
		FaultFound:          r.FaultFound,
		PartsUsed:           r.PartsUsed,
		RepairAction:        r.RepairAction,
		Status:              r.Status,
		ServiceCharge:       r.ServiceCharge,
		PartsCost:           r.PartsCost,
		DepositPaid:         r.DepositPaid,
	}
}

func (r *updateTicketRequest) toUpdate() ports.TicketUpdate {
	return ports.TicketUpdate{
		ShopName:            r.ShopName,
		TechnicianName:      r.TechnicianName,
		RequestDate:         r.RequestDate,
		CustomerName:        r.CustomerName,
		CustomerPhone:       r.CustomerPhone,
		CustomerEmail:       r.CustomerEmail,
		CustomerAddress:     r.CustomerAddress,
		DeviceModel:         r.DeviceModel,
		DeviceBrand:         r.DeviceBrand,
		SerialNumber:        r.SerialNumber,
		OperatingSystem:     r.OperatingSystem,
		AccessoriesReceived: r.AccessoriesReceived,
		ProblemDescription:  r.ProblemDescription,
		DiagnosisDate:       r.DiagnosisDate,
		DiagnosisTechnician: r.DiagnosisTechnician,
		FaultFound:          r.FaultFound,
		PartsUsed:           r.PartsUsed,
		RepairAction:        r.RepairAction,
		Status:              r.Status,
		ServiceCharge:       r.ServiceCharge,
		PartsCost:           r.PartsCost,
		DepositPaid:         r.DepositPaid,
	}
}
