package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abelov/technical-records/internal/core/domain"
	"github.com/abelov/technical-records/internal/pkg/fieldcrypt"
)

const ticketsCollection = "repair_requests"

// TicketRepository persists service requests. The two customer contact
// fields are encrypted on the way in and decrypted on the way out, so
// everything above this layer only ever sees caller-visible values.
type TicketRepository struct {
	coll  *mongo.Collection
	codec *fieldcrypt.Codec
}

func NewTicketRepository(db *mongo.Database, codec *fieldcrypt.Codec) *TicketRepository {
	return &TicketRepository{coll: db.Collection(ticketsCollection), codec: codec}
}

type mongoTicket struct {
	ID                  primitive.ObjectID    `bson:"_id,omitempty"`
	UserID              string                `bson:"user_id"`
	ShopName            string                `bson:"shop_name"`
	TechnicianName      string                `bson:"technician_name"`
	RequestDate         string                `bson:"request_date"`
	CustomerName        string                `bson:"customer_name"`
	CustomerPhone       string                `bson:"customer_phone"`
	CustomerEmail       string                `bson:"customer_email,omitempty"`
	CustomerAddress     string                `bson:"customer_address"`
	DeviceModel         string                `bson:"device_model"`
	DeviceBrand         string                `bson:"device_brand"`
	SerialNumber        string                `bson:"serial_number"`
	OperatingSystem     string                `bson:"operating_system"`
	AccessoriesReceived string                `bson:"accessories_received"`
	ProblemDescription  string                `bson:"problem_description"`
	DiagnosisDate       string                `bson:"diagnosis_date"`
	DiagnosisTechnician string                `bson:"diagnosis_technician"`
	FaultFound          string                `bson:"fault_found"`
	PartsUsed           string                `bson:"parts_used"`
	RepairAction        string                `bson:"repair_action"`
	Status              string                `bson:"status"`
	ServiceCharge       float64               `bson:"service_charge"`
	PartsCost           float64               `bson:"parts_cost"`
	TotalCost           float64               `bson:"total_cost"`
	DepositPaid         float64               `bson:"deposit_paid"`
	Balance             float64               `bson:"balance"`
	PaymentCompleted    bool                  `bson:"payment_completed"`
	RepairTimeline      []domain.TimelineStep `bson:"repair_timeline"`
	CreatedAt           time.Time             `bson:"created_at"`
	UpdatedAt           time.Time             `bson:"updated_at"`
}

func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	doc, err := r.toDoc(t)
	if err != nil {
		return nil, err
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	return r.FindByID(ctx, oid.Hex())
}

func (r *TicketRepository) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTicketNotFound
	}

	var doc mongoTicket
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return r.fromDoc(&doc), nil
}

func (r *TicketRepository) FindAll(ctx context.Context) ([]*domain.Ticket, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *TicketRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	return r.findMany(ctx, bson.M{"user_id": userID})
}

func (r *TicketRepository) findMany(ctx context.Context, filter bson.M) ([]*domain.Ticket, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer cursor.Close(ctx)

	tickets := make([]*domain.Ticket, 0)
	for cursor.Next(ctx) {
		var doc mongoTicket
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode request: %w", err)
		}
		tickets = append(tickets, r.fromDoc(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}
	return tickets, nil
}

func (r *TicketRepository) Update(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return nil, domain.ErrTicketNotFound
	}

	doc, err := r.toDoc(t)
	if err != nil {
		return nil, err
	}
	doc.ID = oid

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrTicketNotFound
	}
	return r.FindByID(ctx, t.ID)
}

func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTicketNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

// EnsureIndexes creates the lookup indexes the list and search paths rely on.
func (r *TicketRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}

func (r *TicketRepository) toDoc(t *domain.Ticket) (*mongoTicket, error) {
	phone, err := r.codec.Encrypt(t.CustomerPhone)
	if err != nil {
		return nil, fmt.Errorf("encrypt customer_phone: %w", err)
	}
	email, err := r.codec.Encrypt(t.CustomerEmail)
	if err != nil {
		return nil, fmt.Errorf("encrypt customer_email: %w", err)
	}

	timeline := t.RepairTimeline
	if timeline == nil {
		timeline = []domain.TimelineStep{}
	}

	return &mongoTicket{
		UserID:              t.UserID,
		ShopName:            t.ShopName,
		TechnicianName:      t.TechnicianName,
		RequestDate:         t.RequestDate,
		CustomerName:        t.CustomerName,
		CustomerPhone:       phone,
		CustomerEmail:       email,
		CustomerAddress:     t.CustomerAddress,
		DeviceModel:         t.DeviceModel,
		DeviceBrand:         t.DeviceBrand,
		SerialNumber:        t.SerialNumber,
		OperatingSystem:     t.OperatingSystem,
		AccessoriesReceived: t.AccessoriesReceived,
		ProblemDescription:  t.ProblemDescription,
		DiagnosisDate:       t.DiagnosisDate,
		DiagnosisTechnician: t.DiagnosisTechnician,
		FaultFound:          t.FaultFound,
		PartsUsed:           t.PartsUsed,
		RepairAction:        t.RepairAction,
		Status:              string(t.Status),
		ServiceCharge:       t.ServiceCharge,
		PartsCost:           t.PartsCost,
		TotalCost:           t.TotalCost,
		DepositPaid:         t.DepositPaid,
		Balance:             t.Balance,
		PaymentCompleted:    t.PaymentCompleted,
		RepairTimeline:      timeline,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}, nil
}

func (r *TicketRepository) fromDoc(doc *mongoTicket) *domain.Ticket {
	timeline := doc.RepairTimeline
	if timeline == nil {
		timeline = []domain.TimelineStep{}
	}

	return &domain.Ticket{
		ID:                  doc.ID.Hex(),
		UserID:              doc.UserID,
		ShopName:            doc.ShopName,
		TechnicianName:      doc.TechnicianName,
		RequestDate:         doc.RequestDate,
		CustomerName:        doc.CustomerName,
		CustomerPhone:       r.codec.Decrypt(doc.CustomerPhone),
		CustomerEmail:       r.codec.Decrypt(doc.CustomerEmail),
		CustomerAddress:     doc.CustomerAddress,
		DeviceModel:         doc.DeviceModel,
		DeviceBrand:         doc.DeviceBrand,
		SerialNumber:        doc.SerialNumber,
		OperatingSystem:     doc.OperatingSystem,
		AccessoriesReceived: doc.AccessoriesReceived,
		ProblemDescription:  doc.ProblemDescription,
		DiagnosisDate:       doc.DiagnosisDate,
		DiagnosisTechnician: doc.DiagnosisTechnician,
		FaultFound:          doc.FaultFound,
		PartsUsed:           doc.PartsUsed,
		RepairAction:        doc.RepairAction,
		Status:              domain.TicketStatus(doc.Status),
		ServiceCharge:       doc.ServiceCharge,
		PartsCost:           doc.PartsCost,
		TotalCost:           doc.TotalCost,
		DepositPaid:         doc.DepositPaid,
		Balance:             doc.Balance,
		PaymentCompleted:    doc.PaymentCompleted,
		RepairTimeline:      timeline,
		CreatedAt:           doc.CreatedAt,
		UpdatedAt:           doc.UpdatedAt,
	}
}
